// Package matching computes maximum-cardinality matchings in general
// undirected graphs with Edmonds' blossom algorithm.
//
// # Overview
//
// A matching is a set of edges without common vertices. In bipartite graphs a
// simple augmenting-path search finds a maximum matching; general graphs also
// contain odd cycles, and an augmenting path may enter such a cycle on one
// side and leave on the other. Edmonds' algorithm handles this by contracting
// each odd alternating cycle (a "blossom") into a single pseudo-vertex and
// searching the contracted graph instead.
//
// # Algorithm
//
// The search runs in stages. Each stage labels every free vertex S (outer)
// and grows alternating trees breadth-first from all of them at once:
//
//   - An S-vertex adjacent to an unlabelled vertex labels it T (inner) and
//     labels its mate S.
//   - An S-vertex adjacent to another S-vertex of the same tree closes an
//     odd cycle, which is contracted into a new S-blossom whose base is the
//     nearest common ancestor of the two tree paths.
//   - An S-vertex adjacent to an S-vertex of a different tree completes an
//     augmenting path. The matching is flipped along both root paths,
//     rotating any blossom the path crosses, and the next stage begins.
//
// The algorithm stops when a stage finishes without augmenting. Blossoms are
// rebuilt from scratch each stage. With V vertices and E edges the running
// time is O(V²E), which is fine for the bracket-sized graphs this package is
// used with.
//
// # Usage
//
//	g := matching.NewGraph(4)
//	_ = g.AddEdge(0, 1)
//	_ = g.AddEdge(2, 3)
//	m, err := matching.Maximum(g)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(m.Size()) // 2
//
// [Maximum] is deterministic: the same graph, with edges added in the same
// order, always yields the same matching.
package matching
