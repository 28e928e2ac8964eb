package graph

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/matzehuels/molpatch/pkg/core/mol"
	"github.com/matzehuels/molpatch/pkg/errors"
)

// =============================================================================
// Graph - Molecule Serialization
// =============================================================================

// Graph is the canonical serialization format for molecules.
//
// The format is human-readable and designed for round-trip fidelity:
// read → patch → write → re-read produces the same atoms, bonds, stereo labels
// and neighbor orders.
type Graph struct {
	Atoms []Atom `json:"atoms"`
	Bonds []Bond `json:"bonds"`
}

// =============================================================================
// Atom
// =============================================================================

// Atom is one serialized atom.
type Atom struct {
	ID        int     `json:"id"`
	Element   string  `json:"element"`
	Isotope   int     `json:"isotope,omitempty"`
	Charge    int     `json:"charge,omitempty"`
	Radical   bool    `json:"radical,omitempty"`
	Hydrogens *int    `json:"hydrogens,omitempty"` // nil: compute on load
	Stereo    string  `json:"stereo,omitempty"`    // "+" or "-"
	X         float64 `json:"x"`
	Y         float64 `json:"y"`

	// Neighbors fixes the neighbor order when it differs from bond order. Stereo
	// signs are relative to it.
	Neighbors []int `json:"neighbors,omitempty"`
}

// =============================================================================
// Bond
// =============================================================================

// Bond is one serialized undirected bond.
type Bond struct {
	From   int    `json:"from"`
	To     int    `json:"to"`
	Order  int    `json:"order"`
	Stereo string `json:"stereo,omitempty"`
}

// =============================================================================
// mol.Graph ↔ Graph Conversion
// =============================================================================

// FromMol converts a molecule to its serialization format. Atoms are sorted by
// id and bonds by endpoint ids for deterministic output.
func FromMol(g *mol.Graph) Graph {
	ids := g.Atoms()
	slices.Sort(ids)

	out := Graph{
		Atoms: make([]Atom, 0, len(ids)),
		Bonds: make([]Bond, 0, g.BondCount()),
	}

	for _, e := range g.Bonds() {
		from, to := min(e.From, e.To), max(e.From, e.To)
		out.Bonds = append(out.Bonds, Bond{
			From:   from,
			To:     to,
			Order:  int(e.Bond.Order),
			Stereo: e.Bond.Stereo.String(),
		})
	}
	slices.SortFunc(out.Bonds, func(a, b Bond) int {
		if a.From != b.From {
			return a.From - b.From
		}
		return a.To - b.To
	})

	implied := impliedNeighbors(out.Bonds)
	for _, id := range ids {
		a, _ := g.Atom(id)
		aj := Atom{
			ID:      id,
			Element: mol.Symbol(a.AtomicNumber),
			Isotope: a.Isotope,
			Charge:  a.Charge,
			Radical: a.Radical,
			Stereo:  a.Stereo.String(),
			X:       a.X,
			Y:       a.Y,
		}
		if a.HydrogensKnown() {
			h := a.Hydrogens
			aj.Hydrogens = &h
		}
		if ns := g.Neighbors(id); !slices.Equal(ns, implied[id]) {
			aj.Neighbors = ns
		}
		out.Atoms = append(out.Atoms, aj)
	}
	return out
}

// ToMol converts a serialized molecule to a graph.
//
// Returns INVALID_FORMAT errors for unknown elements, malformed stereo labels,
// bad bonds and neighbor lists that do not match the bonds.
func ToMol(gj Graph) (*mol.Graph, error) {
	g := mol.New()

	for _, aj := range gj.Atoms {
		z, ok := mol.AtomicNumber(aj.Element)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "atom %d: unknown element %q", aj.ID, aj.Element)
		}
		sign, err := mol.ParseSign(aj.Stereo)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "atom %d", aj.ID)
		}
		a := mol.Atom{
			AtomicNumber: z,
			Isotope:      aj.Isotope,
			Charge:       aj.Charge,
			Radical:      aj.Radical,
			Hydrogens:    mol.HydrogensUnknown,
			Stereo:       sign,
			X:            aj.X,
			Y:            aj.Y,
		}
		if aj.Hydrogens != nil {
			if *aj.Hydrogens < 0 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "atom %d: negative hydrogen count", aj.ID)
			}
			a.Hydrogens = *aj.Hydrogens
		}
		if err := g.AddAtom(aj.ID, a); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "add atom %d", aj.ID)
		}
	}

	for _, bj := range gj.Bonds {
		sign, err := mol.ParseSign(bj.Stereo)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "bond %d-%d", bj.From, bj.To)
		}
		if err := g.AddBond(bj.From, bj.To, mol.Bond{Order: mol.BondOrder(bj.Order), Stereo: sign}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "add bond %d-%d", bj.From, bj.To)
		}
	}

	for _, aj := range gj.Atoms {
		if len(aj.Neighbors) == 0 {
			continue
		}
		if !sameMembers(aj.Neighbors, g.Neighbors(aj.ID)) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "atom %d: neighbors %v do not match its bonds", aj.ID, aj.Neighbors)
		}
		g.ReorderNeighbors(aj.ID, aj.Neighbors)
	}

	return g, nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, fmt.Errorf("decode: %w", err)
	}
	return g, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

// impliedNeighbors returns the neighbor order a reader gets from adding bonds in
// the given order.
func impliedNeighbors(bonds []Bond) map[int][]int {
	out := make(map[int][]int)
	for _, b := range bonds {
		out[b.From] = append(out[b.From], b.To)
		out[b.To] = append(out[b.To], b.From)
	}
	return out
}

func sameMembers(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := slices.Clone(a), slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)
	return slices.Equal(as, bs)
}
