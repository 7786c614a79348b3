// Package io reads tournament snapshots from JSON and writes generated
// rounds back out.
//
// # Snapshot format
//
//	{
//	  "tournamentId": "club-open-2026",
//	  "round": 3,
//	  "players": [
//	    {"id": "p1", "nickname": "alice", "rating": 1850, "wins": 2, "colourIndex": 0},
//	    {"id": "p2", "nickname": "bob", "rating": 1720, "wins": 1, "draws": 1, "colourIndex": 1}
//	  ],
//	  "games": [
//	    {"round": 1, "number": 1, "whiteId": "p1", "blackId": "p2", "result": "1-0"}
//	  ]
//	}
//
// Unknown fields are rejected so that typos in hand-written files surface
// instead of silently producing a different pairing. The decoded snapshot is
// validated before it is returned.
//
// # Round format
//
// [WriteRound] emits the games of one round, indented with two spaces:
//
//	{
//	  "tournamentId": "club-open-2026",
//	  "round": 3,
//	  "games": [
//	    {"id": "...", "round": 3, "number": 1, "whiteId": "p2", "blackId": "p1", "result": "none"}
//	  ]
//	}
//
// A game without blackId is a bye.
package io
