// Package mol provides the molecular graph used throughout molpatch.
//
// # Overview
//
// A [Graph] maps positive integer atom identifiers to [Atom] values and keeps a
// symmetric adjacency of [Bond] records. Each undirected bond is stored exactly once
// and is reachable from both endpoints, so mutating a bond through one endpoint is
// visible from the other:
//
//	g := mol.New()
//	g.AddAtom(1, mol.Atom{AtomicNumber: 6})
//	g.AddAtom(2, mol.Atom{AtomicNumber: 8})
//	g.AddBond(1, 2, mol.Bond{Order: mol.Double})
//
//	b, _ := g.Bond(2, 1) // same record as g.Bond(1, 2)
//
// # Neighbor Order
//
// Tetrahedral stereo signs are defined relative to the order in which an atom's
// neighbors are listed. [Graph.Neighbors] returns neighbors in insertion order and
// [Graph.ReorderNeighbors] lets graph builders restore an order taken from another
// graph, which is how carried-over stereocenters keep their labels valid.
//
// # Stereocenters
//
// [Stereocenters] is the read-only index of tetrahedral, allene and cis/trans
// stereocenters of a graph. It is produced by a toolkit (see pkg/core/mol/toolkit)
// and never by this package, which knows nothing about chemistry rules.
//
// # Concurrency
//
// A Graph is safe for concurrent reads but not for concurrent writes.
package mol
