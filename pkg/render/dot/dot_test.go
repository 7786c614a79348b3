package dot

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/swisspair/pkg/swiss"
	"github.com/matzehuels/swisspair/pkg/tournament"
)

func compat(t *testing.T) *swiss.Compatibility {
	t.Helper()
	s := &tournament.Snapshot{
		TournamentID: "t",
		Round:        2,
		Players: []tournament.Player{
			{ID: "a", Nickname: "alice", Wins: 1, ColourIndex: 1, PairingNumber: 1},
			{ID: "b", Nickname: "bob", Losses: 1, ColourIndex: -1, PairingNumber: 2},
			{ID: "c", Nickname: "carol", Wins: 1, PairingNumber: 3},
		},
		Games: []tournament.Game{
			{Round: 1, Number: 1, WhiteID: "a", BlackID: "b", Result: tournament.ResultWhiteWins},
			{Round: 1, Number: 2, WhiteID: "c"},
		},
	}
	c, err := swiss.NewCompatibility(s)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestToDOT(t *testing.T) {
	c := compat(t)
	_, m, err := c.Feasible()
	if err != nil {
		t.Fatal(err)
	}
	out := ToDOT(c, m, Options{})

	for _, want := range []string{"graph G {", `label="BYE"`, "alice", "penwidth=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "->") {
		t.Error("compatibility graph drawn as directed")
	}
	if strings.Contains(out, "cluster_") {
		t.Error("clusters drawn without GroupScores")
	}
}

func TestToDOTOptions(t *testing.T) {
	c := compat(t)
	out := ToDOT(c, nil, Options{Detailed: true, GroupScores: true})
	if !strings.Contains(out, "subgraph cluster_0") || !strings.Contains(out, `label="score 1"`) {
		t.Errorf("score clusters missing:\n%s", out)
	}
	if !strings.Contains(out, "rating") {
		t.Error("detailed labels missing rating")
	}
	if strings.Contains(out, "penwidth=3") {
		t.Error("matched edges drawn without a matching")
	}
}

func TestRenderSVG(t *testing.T) {
	c := compat(t)
	_, m, _ := c.Feasible()
	svg, err := RenderSVG(context.Background(), ToDOT(c, m, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("output is not SVG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="80pt" height="40pt" viewBox="0.00 0.00 80.00 40.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 80.00 40.00" width="80" height="40"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
