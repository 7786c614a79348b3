// Package combin enumerates combinations and permutations of index sets in
// lexicographic order.
//
// Every generator is lazy: it returns an [iter.Seq] that computes the next
// value only when the consumer asks for it, so a caller may stop after the
// first few values of a sequence whose full length is factorial in n. The
// enumeration order is part of the contract. Callers that break ties by
// "first seen wins" rely on it being identical across runs.
//
// Values are index slices over [0, n). Use [Pick] to map them back onto a
// slice of elements.
package combin

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrInvalidSize is returned when a generator is asked for a negative size or
// for more elements than the set contains.
var ErrInvalidSize = errors.New("combin: invalid size")

// Seq returns a slice containing the sequence [0, 1, 2, ..., n-1].
//
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	if n <= 0 {
		return []int{}
	}
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n! (n factorial), the product 1 × 2 × ... × n.
// For n <= 1, Factorial returns 1.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// Binomial returns the number of k-element subsets of an n-element set.
// It returns 0 when k is outside [0, n].
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}

// Arrangements returns the number of ordered k-prefixes of an n-element set,
// n! / (n-k)!. It returns 0 when k is outside [0, n].
func Arrangements(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	result := 1
	for i := n - k + 1; i <= n; i++ {
		result *= i
	}
	return result
}

func checkSize(n, k int) error {
	if n < 0 || k < 0 || k > n {
		return fmt.Errorf("%w: choose %d of %d", ErrInvalidSize, k, n)
	}
	return nil
}

// Combinations returns the k-element subsets of [0, n) in lexicographic
// order. Each subset is yielded as an ascending index slice that the consumer
// owns.
//
// Choosing 0 elements yields exactly one empty subset.
func Combinations(n, k int) (iter.Seq[[]int], error) {
	if err := checkSize(n, k); err != nil {
		return nil, err
	}
	return func(yield func([]int) bool) {
		c := Seq(k)
		for {
			if !yield(slices.Clone(c)) {
				return
			}
			if !nextCombination(c, n) {
				return
			}
		}
	}, nil
}

// ReversedCombinations yields the same subsets as [Combinations] in exactly
// the opposite order: the subset holding the highest indices comes first.
func ReversedCombinations(n, k int) (iter.Seq[[]int], error) {
	if err := checkSize(n, k); err != nil {
		return nil, err
	}
	return func(yield func([]int) bool) {
		c := make([]int, k)
		for i := range c {
			c[i] = n - k + i
		}
		for {
			if !yield(slices.Clone(c)) {
				return
			}
			if !prevCombination(c, n) {
				return
			}
		}
	}, nil
}

// nextCombination advances c to its lexicographic successor in place.
// It reports false when c is already the last subset.
func nextCombination(c []int, n int) bool {
	k := len(c)
	i := k - 1
	for i >= 0 && c[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	c[i]++
	for j := i + 1; j < k; j++ {
		c[j] = c[j-1] + 1
	}
	return true
}

// prevCombination moves c to its lexicographic predecessor in place.
// It reports false when c is already the first subset.
func prevCombination(c []int, n int) bool {
	k := len(c)
	i := k - 1
	for i >= 0 {
		floor := 0
		if i > 0 {
			floor = c[i-1] + 1
		}
		if c[i] > floor {
			break
		}
		i--
	}
	if i < 0 {
		return false
	}
	c[i]--
	for j := i + 1; j < k; j++ {
		c[j] = n - k + j
	}
	return true
}

// Permutations returns the orderings of [0, n) whose first k positions are
// distinct, in lexicographic order of that prefix. Each yielded slice has
// length n: the first k entries are the arranged prefix and the remaining
// entries are the unused indices in ascending order.
//
// Permutations(n, n) enumerates all n! orderings; Permutations(n, 0) yields
// the identity once.
func Permutations(n, k int) (iter.Seq[[]int], error) {
	if err := checkSize(n, k); err != nil {
		return nil, err
	}
	return func(yield func([]int) bool) {
		p := Seq(n)
		for {
			if !yield(slices.Clone(p)) {
				return
			}
			// Reversing the tail makes it the largest arrangement of the
			// unused indices, so the next permutation changes the prefix.
			slices.Reverse(p[k:])
			if !nextPermutation(p) {
				return
			}
		}
	}, nil
}

// nextPermutation rearranges p into its lexicographic successor in place.
// It reports false when p is in descending order.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	slices.Reverse(p[i+1:])
	return true
}

// Pick returns the elements of src at the given indices, in index order.
// It panics if an index is out of range, like an ordinary slice access.
func Pick[T any](src []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = src[j]
	}
	return out
}

// Complement returns the indices of [0, n) that do not occur in idx,
// ascending. idx must be sorted ascending.
func Complement(n int, idx []int) []int {
	out := make([]int, 0, max(n-len(idx), 0))
	j := 0
	for i := range n {
		if j < len(idx) && idx[j] == i {
			j++
			continue
		}
		out = append(out, i)
	}
	return out
}

// Count consumes seq and returns the number of values it produced.
func Count[T any](seq iter.Seq[T]) int {
	n := 0
	for range seq {
		n++
	}
	return n
}
