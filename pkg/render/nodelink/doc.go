// Package nodelink renders molecules as node-link diagrams.
//
// # Overview
//
// Atoms become labelled circles and bonds become undirected edges. The output is
// meant for inspecting patched products: stereo labels are coloured and atoms can
// be highlighted, e.g. the fresh atoms of a product.
//
// # Usage
//
// Convert a molecule to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Highlight: product.Added})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
//   - Detailed: atom labels include the atom id and implicit hydrogens
//   - Highlight: atoms drawn with a light blue fill
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
