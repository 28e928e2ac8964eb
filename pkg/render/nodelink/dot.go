package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/molpatch/pkg/core/mol"
)

// Options configures molecule diagram rendering.
type Options struct {
	// Detailed adds atom ids and implicit hydrogens to atom labels.
	// When false, only the element, charge and stereo sign are shown.
	Detailed bool

	// Highlight lists atoms drawn with a coloured fill, e.g. the atoms a
	// patch added.
	Highlight []int
}

// ToDOT converts a molecule to an undirected Graphviz DOT graph.
// The resulting DOT string can be rendered using [RenderSVG].
//
// When any atom has non-zero coordinates, atoms are pinned to them and the neato
// engine is selected. Bond order is drawn with parallel strokes, aromatic bonds
// are dashed and bonds carrying a stereo label are coloured.
func ToDOT(g *mol.Graph, opts Options) string {
	ids := g.Atoms()
	slices.Sort(ids)
	pinned := hasCoordinates(g, ids)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	if pinned {
		buf.WriteString("  layout=neato;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=18, width=0.5, fixedsize=true];\n")
	buf.WriteString("  edge [penwidth=2];\n")
	buf.WriteString("\n")

	for _, id := range ids {
		a, _ := g.Atom(id)
		attrs := fmtAtomAttrs(a, fmtLabel(id, a, opts.Detailed), slices.Contains(opts.Highlight, id))
		if pinned {
			attrs = append(attrs, fmt.Sprintf("pos=\"%g,%g!\"", a.X, a.Y))
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range sortedBonds(g) {
		fmt.Fprintf(&buf, "  %d -- %d [%s];\n", e.From, e.To, strings.Join(fmtBondAttrs(e.Bond), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func hasCoordinates(g *mol.Graph, ids []int) bool {
	for _, id := range ids {
		if a, _ := g.Atom(id); a.X != 0 || a.Y != 0 {
			return true
		}
	}
	return false
}

// sortedBonds returns bonds with From < To, ordered by endpoints.
func sortedBonds(g *mol.Graph) []mol.Edge {
	bonds := g.Bonds()
	for i, e := range bonds {
		if e.From > e.To {
			bonds[i].From, bonds[i].To = e.To, e.From
		}
	}
	slices.SortFunc(bonds, func(a, b mol.Edge) int {
		if a.From != b.From {
			return a.From - b.From
		}
		return a.To - b.To
	})
	return bonds
}

func fmtLabel(id int, a *mol.Atom, detailed bool) string {
	var sb strings.Builder
	if a.Isotope != 0 {
		sb.WriteString(strconv.Itoa(a.Isotope))
	}
	sb.WriteString(a.Symbol())
	if detailed && a.HydrogensKnown() && a.Hydrogens > 0 {
		sb.WriteString("H")
		if a.Hydrogens > 1 {
			sb.WriteString(strconv.Itoa(a.Hydrogens))
		}
	}
	sb.WriteString(fmtCharge(a.Charge))
	if a.Radical {
		sb.WriteString("•")
	}
	if a.Stereo.IsSet() {
		sb.WriteString("(" + a.Stereo.String() + ")")
	}
	if !detailed {
		return sb.String()
	}
	return sb.String() + "\n" + strconv.Itoa(id)
}

func fmtCharge(c int) string {
	switch {
	case c == 0:
		return ""
	case c == 1:
		return "+"
	case c == -1:
		return "-"
	case c > 0:
		return strconv.Itoa(c) + "+"
	}
	return strconv.Itoa(-c) + "-"
}

func fmtAtomAttrs(a *mol.Atom, label string, highlight bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if highlight {
		attrs = append(attrs, "fillcolor=lightblue")
	}
	if a.Stereo.IsSet() {
		attrs = append(attrs, "color=red")
	}
	return attrs
}

func fmtBondAttrs(b *mol.Bond) []string {
	var attrs []string
	color := "black"
	if b.Stereo.IsSet() {
		color = "red"
		attrs = append(attrs, fmt.Sprintf("label=%q", b.Stereo.String()), "fontcolor=red")
	}
	switch b.Order {
	case mol.Double:
		attrs = append(attrs, fmt.Sprintf("color=\"%s:invis:%s\"", color, color))
	case mol.Triple:
		attrs = append(attrs, fmt.Sprintf("color=\"%s:invis:%s:invis:%s\"", color, color, color))
	case mol.Aromatic:
		attrs = append(attrs, "color="+color, "style=dashed")
	default:
		attrs = append(attrs, "color="+color)
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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

// normalizeViewBox rewrites the root tag so the drawing starts at the origin and
// has explicit pixel dimensions.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
