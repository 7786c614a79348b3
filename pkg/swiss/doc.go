// Package swiss pairs rounds of a Swiss-system tournament following the
// FIDE Dutch system.
//
// # Overview
//
// [Pair] takes a [tournament.Snapshot] and returns the games of the next
// round. Players are grouped by score and the groups are paired from the
// top down. A group together with the players that could not be paired in
// the group above forms a bracket. Players left over in a bracket float
// down into the next one; a single player left at the bottom receives the
// pairing-allocated bye.
//
// # Brackets
//
// A bracket is split into halves S1 and S2 and S1[i] is paired with S2[i].
// Brackets without moved-down players are homogeneous ([Homogeneous]).
// Brackets with moved-down players are heterogeneous ([Heterogeneous]):
// the moved-down players are paired first, the residents left over are
// paired among themselves, and moved-down players that cannot be
// accommodated wait in Limbo and float on.
//
// Every bracket position has a bracket sequence number (BSN), assigned by
// score descending and pairing number ascending. Alternative arrangements
// are enumerated in a fixed order over BSNs:
//
//   - Homogeneous: reorderings of S2, then S1/S2 exchanges of growing size,
//     each followed by its own S2 reorderings.
//   - Heterogeneous: reorderings of the resident remainder, then of all
//     residents, then exchanges between S1 and Limbo.
//
// # Criteria
//
// An arrangement is legal when no two players meet twice (C1), no player
// receives a second bye (C2), two non-topscorers with the same strong
// colour preference do not meet (C3) and the players floating down can
// still be paired with everybody below (C4). C4 is decided with a maximum
// matching from package matching.
//
// Legal arrangements are ranked by a [Report] of the quality criteria C5 to
// C21, compared lexicographically. The best report over the whole sequence
// wins; the first of equal reports wins, which is why the enumeration order
// is fixed. The search stops early only when an arrangement reaches the
// best report that is possible for the bracket.
//
// If no arrangement with the full number of pairs is legal, fewer pairs are
// tried. A bracket where even zero pairs fail produces a [NoPairingError].
//
// # Colours
//
// Each pair's colours are decided by colour index, then by the most recent
// round where the two players had different colours, then by the
// higher-rated player's preference or first colour.
package swiss
