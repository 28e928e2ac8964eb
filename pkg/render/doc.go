// Package render groups the molecule drawing backends.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage converts a molecule to a Graphviz DOT graph with one
// node per heavy atom and one edge per bond, then renders it to SVG through the
// WebAssembly build of Graphviz:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// Atoms with stored 2D coordinates are pinned in place and laid out by neato.
// Molecules without coordinates fall back to the default dot layout.
//
// [nodelink]: github.com/matzehuels/molpatch/pkg/render/nodelink
package render
