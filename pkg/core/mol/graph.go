package mol

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidAtomID is returned by [Graph.AddAtom] when the identifier is not
	// positive. Atom identifiers start at 1.
	ErrInvalidAtomID = errors.New("atom ID must be positive")

	// ErrDuplicateAtomID is returned by [Graph.AddAtom] when an atom with the same
	// identifier already exists.
	ErrDuplicateAtomID = errors.New("duplicate atom ID")

	// ErrUnknownAtom is returned by [Graph.AddBond] when an endpoint does not exist.
	ErrUnknownAtom = errors.New("unknown atom")

	// ErrSelfBond is returned by [Graph.AddBond] when both endpoints are the same atom.
	ErrSelfBond = errors.New("atom cannot bond to itself")

	// ErrDuplicateBond is returned by [Graph.AddBond] when the pair is already bonded.
	ErrDuplicateBond = errors.New("duplicate bond")

	// ErrInvalidBondOrder is returned by [Graph.AddBond] for orders outside
	// Single..Aromatic.
	ErrInvalidBondOrder = errors.New("invalid bond order")
)

// pair is the canonical key of an undirected bond.
type pair struct{ lo, hi int }

func key(n, m int) pair {
	if n > m {
		return pair{m, n}
	}
	return pair{n, m}
}

// Edge is one undirected bond as returned by [Graph.Bonds].
type Edge struct {
	From, To int
	Bond     *Bond
}

// Graph is a molecular graph with a symmetric, order-preserving adjacency.
//
// The zero value is not usable; use New.
type Graph struct {
	atoms map[int]*Atom
	order []int         // atom insertion order
	adj   map[int][]int // atom -> neighbors in insertion order
	bonds map[pair]*Bond
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		atoms: make(map[int]*Atom),
		adj:   make(map[int][]int),
		bonds: make(map[pair]*Bond),
	}
}

// AddAtom stores a copy of a under id.
func (g *Graph) AddAtom(id int, a Atom) error {
	if id <= 0 {
		return ErrInvalidAtomID
	}
	if _, ok := g.atoms[id]; ok {
		return ErrDuplicateAtomID
	}
	g.atoms[id] = &a
	g.order = append(g.order, id)
	g.adj[id] = nil
	return nil
}

// AddBond stores a copy of b between n and m. The single stored record is shared by
// both directions and n and m are appended to each other's neighbor lists.
func (g *Graph) AddBond(n, m int, b Bond) error {
	if n == m {
		return ErrSelfBond
	}
	if _, ok := g.atoms[n]; !ok {
		return ErrUnknownAtom
	}
	if _, ok := g.atoms[m]; !ok {
		return ErrUnknownAtom
	}
	if !b.Order.Valid() {
		return ErrInvalidBondOrder
	}
	k := key(n, m)
	if _, ok := g.bonds[k]; ok {
		return ErrDuplicateBond
	}
	g.bonds[k] = &b
	g.adj[n] = append(g.adj[n], m)
	g.adj[m] = append(g.adj[m], n)
	return nil
}

// RemoveBond deletes the bond between n and m if present.
func (g *Graph) RemoveBond(n, m int) {
	k := key(n, m)
	if _, ok := g.bonds[k]; !ok {
		return
	}
	delete(g.bonds, k)
	g.adj[n] = slices.DeleteFunc(g.adj[n], func(x int) bool { return x == m })
	g.adj[m] = slices.DeleteFunc(g.adj[m], func(x int) bool { return x == n })
}

// Atom returns the atom stored under id. The returned pointer may be used to
// update the atom in place.
func (g *Graph) Atom(id int) (*Atom, bool) {
	a, ok := g.atoms[id]
	return a, ok
}

// HasAtom reports whether id exists.
func (g *Graph) HasAtom(id int) bool {
	_, ok := g.atoms[id]
	return ok
}

// Bond returns the bond between n and m. Bond(n, m) and Bond(m, n) return the
// same record.
func (g *Graph) Bond(n, m int) (*Bond, bool) {
	b, ok := g.bonds[key(n, m)]
	return b, ok
}

// Atoms returns all atom identifiers in insertion order.
func (g *Graph) Atoms() []int { return slices.Clone(g.order) }

// Neighbors returns the neighbors of n in adjacency order.
func (g *Graph) Neighbors(n int) []int { return slices.Clone(g.adj[n]) }

// Degree returns the number of explicit neighbors of n.
func (g *Graph) Degree(n int) int { return len(g.adj[n]) }

// Bonds returns every bond once. From is the endpoint that was added to the graph
// first; the order is deterministic for a given construction sequence.
func (g *Graph) Bonds() []Edge {
	out := make([]Edge, 0, len(g.bonds))
	seen := make(map[pair]bool, len(g.bonds))
	for _, n := range g.order {
		for _, m := range g.adj[n] {
			k := key(n, m)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, Edge{From: n, To: m, Bond: g.bonds[k]})
		}
	}
	return out
}

// AtomCount returns the number of atoms.
func (g *Graph) AtomCount() int { return len(g.atoms) }

// BondCount returns the number of undirected bonds.
func (g *Graph) BondCount() int { return len(g.bonds) }

// MaxID returns the largest atom identifier, or 0 for an empty graph.
func (g *Graph) MaxID() int {
	if len(g.order) == 0 {
		return 0
	}
	return slices.Max(g.order)
}

// SameNeighbors reports whether n has the same neighbor identifiers in g and
// other, ignoring order.
func (g *Graph) SameNeighbors(other *Graph, n int) bool {
	a, b := g.adj[n], other.adj[n]
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		if _, ok := other.bonds[key(n, x)]; !ok {
			return false
		}
	}
	return true
}

// ReorderNeighbors sorts the neighbor list of n so that atoms listed in order come
// first, in that order. Neighbors missing from order keep their relative position
// after them. Identifiers in order that are not neighbors of n are ignored.
func (g *Graph) ReorderNeighbors(n int, order []int) {
	rank := make(map[int]int, len(order))
	for i, x := range order {
		rank[x] = i
	}
	slices.SortStableFunc(g.adj[n], func(a, b int) int {
		ra, oka := rank[a]
		rb, okb := rank[b]
		switch {
		case oka && okb:
			return ra - rb
		case oka:
			return -1
		case okb:
			return 1
		}
		return 0
	})
}

// Clone returns a deep copy of g. Atom and bond records are copied, never shared.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		atoms: make(map[int]*Atom, len(g.atoms)),
		order: slices.Clone(g.order),
		adj:   make(map[int][]int, len(g.adj)),
		bonds: make(map[pair]*Bond, len(g.bonds)),
	}
	for id, a := range g.atoms {
		cp := *a
		c.atoms[id] = &cp
	}
	for id, ns := range g.adj {
		c.adj[id] = slices.Clone(ns)
	}
	for k, b := range g.bonds {
		cp := *b
		c.bonds[k] = &cp
	}
	return c
}
