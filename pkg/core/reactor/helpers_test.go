package reactor

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/molpatch/pkg/core/mol"
	"github.com/matzehuels/molpatch/pkg/core/mol/toolkit"
)

// molecule builds a graph from space separated element symbols, numbered from 1,
// and bonds given as {from, to, order}. Hydrogen counts and labels are filled in.
func molecule(t *testing.T, symbols string, bonds ...[3]int) *mol.Graph {
	t.Helper()
	g := mol.New()
	for i, s := range strings.Fields(symbols) {
		z, ok := mol.AtomicNumber(s)
		require.True(t, ok, "unknown element %q", s)
		require.NoError(t, g.AddAtom(i+1, mol.Atom{
			AtomicNumber: z,
			Hydrogens:    mol.HydrogensUnknown,
			X:            float64(i),
		}))
	}
	for _, b := range bonds {
		require.NoError(t, g.AddBond(b[0], b[1], mol.Bond{Order: mol.BondOrder(b[2])}))
	}
	tk := toolkit.New()
	for _, n := range g.Atoms() {
		a, _ := g.Atom(n)
		h, err := tk.ImplicitHydrogens(g, n)
		require.NoError(t, err)
		a.Hydrogens = h
	}
	tk.Relabel(g)
	return g
}

func setAtomStereo(t *testing.T, g *mol.Graph, n int, s mol.Sign) {
	t.Helper()
	a, ok := g.Atom(n)
	require.True(t, ok)
	a.Stereo = s
}

func setBondStereo(t *testing.T, g *mol.Graph, n, m int, s mol.Sign) {
	t.Helper()
	b, ok := g.Bond(n, m)
	require.True(t, ok)
	b.Stereo = s
}

// snapshot is a comparable view of a graph: atoms by id and bonds by sorted pair.
type snapshot struct {
	Atoms map[int]mol.Atom
	Bonds map[[2]int]mol.Bond
}

func snap(g *mol.Graph) snapshot {
	s := snapshot{Atoms: map[int]mol.Atom{}, Bonds: map[[2]int]mol.Bond{}}
	for _, n := range g.Atoms() {
		a, _ := g.Atom(n)
		s.Atoms[n] = *a
	}
	for _, e := range g.Bonds() {
		s.Bonds[[2]int{min(e.From, e.To), max(e.From, e.To)}] = *e.Bond
	}
	return s
}

func sortedAtoms(g *mol.Graph) []int {
	ids := g.Atoms()
	slices.Sort(ids)
	return ids
}

func set(ids ...int) map[int]struct{} {
	out := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func anyAtom(id int) TemplateAtom { return TemplateAtom{ID: id, Kind: KindAny} }

func queryAtom(id int, symbol string) TemplateAtom {
	z, _ := mol.AtomicNumber(symbol)
	return TemplateAtom{ID: id, Kind: KindQuery, AtomicNumber: z}
}

func bond(from, to int, order mol.BondOrder) TemplateBond {
	return TemplateBond{From: from, To: to, Orders: []mol.BondOrder{order}}
}

func pattern(ids ...int) Pattern {
	p := Pattern{}
	for _, id := range ids {
		p.Atoms = append(p.Atoms, PatternAtom{ID: id})
	}
	return p
}

// identity maps every id to itself.
func identity(ids ...int) Mapping {
	m := make(Mapping, len(ids))
	for _, id := range ids {
		m[id] = id
	}
	return m
}
