// Package dot draws the compatibility graph of a round with Graphviz.
//
// Each player still to be paired is a node labelled with nickname, score
// and pairing number; an edge joins two players the absolute criteria allow
// to meet. Edges of the supplied matching are drawn bold, and players it
// leaves unmatched are outlined in red, which makes an unpairable round
// easy to diagnose.
//
//	c, _ := swiss.NewCompatibility(snapshot)
//	_, m, _ := c.Feasible()
//	svg, err := dot.RenderSVG(ctx, dot.ToDOT(c, m, dot.Options{}))
package dot

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/swisspair/pkg/matching"
	"github.com/matzehuels/swisspair/pkg/swiss"
)

// Options configures the drawing.
type Options struct {
	// Detailed adds rating and colour index to node labels.
	Detailed bool

	// GroupScores draws each score group as a cluster.
	GroupScores bool
}

// ToDOT renders c as an undirected DOT graph. m may be nil.
func ToDOT(c *swiss.Compatibility, m *matching.Matching, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [color=\"#9a9a9a\"];\n\n")

	unmatched := make(map[int]bool)
	if m != nil {
		for _, v := range m.Unmatched() {
			unmatched[v] = true
		}
	}

	if opts.GroupScores {
		writeClusters(&buf, c, unmatched, opts)
	} else {
		for i := range c.Entities {
			writeNode(&buf, c, i, unmatched[i], opts, "  ")
		}
	}
	if c.Bye >= 0 {
		attrs := []string{`label="BYE"`, "shape=diamond", "fillcolor=\"#eeeeee\""}
		if unmatched[c.Bye] {
			attrs = append(attrs, "color=red", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  v%d [%s];\n", c.Bye, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	matched := make(map[[2]int]bool)
	if m != nil {
		for _, p := range m.Pairs() {
			matched[p] = true
		}
	}
	for _, e := range c.Graph.Edges() {
		u, v := min(e[0], e[1]), max(e[0], e[1])
		if matched[[2]int{u, v}] {
			fmt.Fprintf(&buf, "  v%d -- v%d [color=\"#1f6feb\", penwidth=3];\n", u, v)
			continue
		}
		fmt.Fprintf(&buf, "  v%d -- v%d;\n", u, v)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeClusters(buf *bytes.Buffer, c *swiss.Compatibility, unmatched map[int]bool, opts Options) {
	byScore := make(map[float64][]int)
	for i, e := range c.Entities {
		byScore[e.Score] = append(byScore[e.Score], i)
	}
	scores := make([]float64, 0, len(byScore))
	for s := range byScore {
		scores = append(scores, s)
	}
	slices.SortFunc(scores, func(a, b float64) int { return cmp.Compare(b, a) })

	for n, s := range scores {
		fmt.Fprintf(buf, "  subgraph cluster_%d {\n", n)
		fmt.Fprintf(buf, "    label=%q;\n", "score "+formatScore(s))
		buf.WriteString("    style=dashed;\n")
		for _, i := range byScore[s] {
			writeNode(buf, c, i, unmatched[i], opts, "    ")
		}
		buf.WriteString("  }\n")
	}
}

func writeNode(buf *bytes.Buffer, c *swiss.Compatibility, i int, unmatched bool, opts Options, indent string) {
	e := c.Entities[i]
	attrs := []string{fmt.Sprintf("label=%q", label(e, opts.Detailed))}
	if unmatched {
		attrs = append(attrs, "color=red", "penwidth=2")
	}
	fmt.Fprintf(buf, "%sv%d [%s];\n", indent, i, strings.Join(attrs, ", "))
}

func label(e *swiss.Entity, detailed bool) string {
	name := cmp.Or(e.Nickname, e.ID)
	l := fmt.Sprintf("%s\n%s pts  #%d", name, formatScore(e.Score), e.PairingNumber)
	if detailed {
		l += fmt.Sprintf("\nrating %.0f  ci %+d", e.Rating, e.ColourIndex)
	}
	return l
}

func formatScore(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// RenderSVG lays out a DOT graph and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
