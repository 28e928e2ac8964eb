// Package graph provides the JSON serialization format for molecules, match-site
// mappings and reaction products.
//
// This package defines the wire format used for molecule files, mapping files and
// the output of molpatch apply.
//
// # Architecture
//
// The package sits at the serialization boundary between internal representations
// and external formats:
//
//   - [Graph], [Atom], [Bond]: Serialization types (this package)
//   - pkg/core/mol.Graph: Internal molecule representation
//   - pkg/core/reactor.Product: Internal patch result
//
// Use [FromMol]/[ToMol] and [FromProduct] to convert between them.
//
// # Molecule Serialization
//
// Molecules use a node-link JSON format:
//
//	{
//	  "atoms": [
//	    {"id": 1, "element": "C", "hydrogens": 3, "x": 0, "y": 0},
//	    {"id": 2, "element": "O", "charge": -1, "x": 1, "y": 0}
//	  ],
//	  "bonds": [{"from": 1, "to": 2, "order": 1}]
//	}
//
// Bond orders are 1, 2, 3 and 4 (aromatic). Stereo labels are "+" or "-". An
// omitted hydrogen count is computed when the molecule is patched.
//
// Tetrahedral signs are relative to neighbor order. Neighbor order is the order
// in which bonds are listed; atoms whose order differs carry an explicit
// "neighbors" list.
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("host.json")   // File → mol.Graph
//	graph.WriteGraphFile(g, "output.json")     // mol.Graph → File
//	data, _ := graph.MarshalGraph(g)           // mol.Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)    // []byte → Graph
//
// # Mappings
//
// A mapping file holds one object or an array of objects from template atom id
// to host atom id:
//
//	[{"1": 7, "2": 9}, {"1": 12, "2": 14}]
//
// # Concurrency
//
// All functions are safe for concurrent use on distinct values.
package graph
