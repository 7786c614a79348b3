package swiss

import "github.com/matzehuels/swisspair/pkg/tournament"

// pairing is two entities with colours decided.
type pairing struct {
	White *Entity
	Black *Entity
}

// colourOf returns the colour e plays in p.
func (p pairing) colourOf(e *Entity) tournament.Colour {
	if p.White == e {
		return tournament.White
	}
	return tournament.Black
}

// assignColours decides who plays white. The rules apply in order:
//
//  1. Different colour indices: the lower index plays white.
//  2. Equal indices: find the latest round in which both played coloured
//     games with different colours; each gets the colour the other had then.
//  3. Otherwise the higher-rated entity (lower pairing number on equal
//     rating) gets its preference if it has one.
//  4. Otherwise that entity takes the colour of its first game, inverted
//     when its pairing number is even.
func assignColours(a, b *Entity, round int) pairing {
	give := func(e *Entity, c tournament.Colour) pairing {
		other := a
		if e == a {
			other = b
		}
		if c == tournament.White {
			return pairing{White: e, Black: other}
		}
		return pairing{White: other, Black: e}
	}

	if a.ColourIndex != b.ColourIndex {
		if a.ColourIndex < b.ColourIndex {
			return pairing{White: a, Black: b}
		}
		return pairing{White: b, Black: a}
	}

	for r := round - 1; r >= 1; r-- {
		ca, okA := a.byRound[r]
		cb, okB := b.byRound[r]
		if okA && okB && ca != cb {
			return give(a, cb)
		}
	}

	lead := higherRanked(a, b)
	if c, ok := lead.Preference(); ok {
		return give(lead, c)
	}
	c := lead.firstColour()
	if lead.PairingNumber%2 == 0 {
		c = c.Opposite()
	}
	return give(lead, c)
}

// higherRanked returns the higher-rated entity, breaking ties by the lower
// pairing number.
func higherRanked(a, b *Entity) *Entity {
	switch {
	case a.Rating > b.Rating:
		return a
	case b.Rating > a.Rating:
		return b
	case b.PairingNumber < a.PairingNumber:
		return b
	}
	return a
}
