package reactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/molpatch/pkg/core/mol"
	"github.com/matzehuels/molpatch/pkg/core/mol/toolkit"
)

// chiral builds a carbon center 1 with F, Cl, Br and OH neighbors.
func chiral(t *testing.T, sign mol.Sign) *mol.Graph {
	g := molecule(t, "C F Cl Br O",
		[3]int{1, 2, 1}, [3]int{1, 3, 1}, [3]int{1, 4, 1}, [3]int{1, 5, 1})
	setAtomStereo(t, g, 1, sign)
	return g
}

func TestStereo_TetrahedronTranslated(t *testing.T) {
	host := chiral(t, mol.SignPositive)
	tmpl := Template{
		Query: true,
		Atoms: []TemplateAtom{anyAtom(1), {ID: 5, Kind: KindAny, Charge: -1}},
		Bonds: []TemplateBond{bond(1, 5, mol.Single)},
	}
	r, err := New(pattern(1, 5), tmpl)
	require.NoError(t, err)

	p, err := r.Apply(host, identity(1, 5))
	require.NoError(t, err)

	// The template bond puts 5 first: [5 2 3 4] is an odd permutation of [2 3 4 5].
	assert.Equal(t, []int{5, 2, 3, 4}, p.Graph.Neighbors(1))
	a, _ := p.Graph.Atom(1)
	assert.Equal(t, mol.SignNegative, a.Stereo)
	assert.Zero(t, p.Flushed.Len())

	o, _ := p.Graph.Atom(5)
	assert.Equal(t, -1, o.Charge)
	assert.Equal(t, 0, o.Hydrogens)
}

func TestStereo_TemplateLabelWins(t *testing.T) {
	host := chiral(t, mol.SignPositive)
	tmpl := Template{
		Query: true,
		Atoms: []TemplateAtom{{ID: 1, Kind: KindAny, Stereo: mol.SignNegative}, queryAtom(6, "N")},
		Bonds: []TemplateBond{bond(1, 6, mol.Single)},
	}
	r, err := New(pattern(1, 5), tmpl, WithDeleteAtoms(true))
	require.NoError(t, err)

	p, err := r.Apply(host, identity(1, 5))
	require.NoError(t, err)

	a, _ := p.Graph.Atom(1)
	assert.Equal(t, mol.SignNegative, a.Stereo)
	assert.Empty(t, p.Flushed.Atoms)
}

func TestStereo_CarriedCenterKeepsOrder(t *testing.T) {
	// Patch the OH oxygen only; the untouched center keeps host order and label.
	host := chiral(t, mol.SignNegative)
	tmpl := Template{Query: true, Atoms: []TemplateAtom{{ID: 5, Kind: KindAny, Charge: -1}}}
	r, err := New(pattern(5), tmpl)
	require.NoError(t, err)

	p, err := r.Apply(host, identity(5))
	require.NoError(t, err)

	assert.Equal(t, host.Neighbors(1), p.Graph.Neighbors(1))
	a, _ := p.Graph.Atom(1)
	assert.Equal(t, mol.SignNegative, a.Stereo)
}

func TestStereo_LostCenterIsNotLabelled(t *testing.T) {
	// Turning the C-OH into C=O makes the center sp2.
	host := molecule(t, "C C C O",
		[3]int{1, 2, 1}, [3]int{2, 3, 1}, [3]int{2, 4, 1})
	setAtomStereo(t, host, 2, mol.SignPositive)
	tmpl := Template{
		Query: true,
		Atoms: []TemplateAtom{anyAtom(2), anyAtom(4)},
		Bonds: []TemplateBond{bond(2, 4, mol.Double)},
	}
	r, err := New(pattern(2, 4), tmpl)
	require.NoError(t, err)

	p, err := r.Apply(host, identity(2, 4))
	require.NoError(t, err)

	a, _ := p.Graph.Atom(2)
	assert.Equal(t, mol.SignNone, a.Stereo)
	assert.Empty(t, p.Flushed.Atoms)
}

func TestStereo_CisTrans(t *testing.T) {
	// HO-CH=CH-CH3 with a labelled double bond.
	build := func(t *testing.T) *mol.Graph {
		g := molecule(t, "O C C C", [3]int{1, 2, 1}, [3]int{2, 3, 2}, [3]int{3, 4, 1})
		setBondStereo(t, g, 2, 3, mol.SignPositive)
		require.True(t, toolkit.New().Stereocenters(g).IsLabelBond(2, 3))
		return g
	}

	t.Run("template bond over labelled host bond", func(t *testing.T) {
		host := build(t)
		tmpl := Template{
			Query: true,
			Atoms: []TemplateAtom{anyAtom(2), anyAtom(3)},
			Bonds: []TemplateBond{bond(2, 3, mol.Double)},
		}
		r, err := New(pattern(2, 3), tmpl)
		require.NoError(t, err)
		p, err := r.Apply(host, identity(2, 3))
		require.NoError(t, err)

		b, _ := p.Graph.Bond(2, 3)
		assert.Equal(t, mol.SignPositive, b.Stereo)
		assert.Zero(t, p.Flushed.Len())
	})

	t.Run("carried bond next to patched atom", func(t *testing.T) {
		host := build(t)
		tmpl := Template{Query: true, Atoms: []TemplateAtom{anyAtom(2)}}
		r, err := New(pattern(2), tmpl)
		require.NoError(t, err)
		p, err := r.Apply(host, identity(2))
		require.NoError(t, err)

		b, _ := p.Graph.Bond(2, 3)
		assert.Equal(t, mol.SignPositive, b.Stereo)
	})

	t.Run("replaced substituent flushes", func(t *testing.T) {
		host := build(t)
		tmpl := Template{
			Query: true,
			Atoms: []TemplateAtom{anyAtom(2), anyAtom(3), queryAtom(5, "N")},
			Bonds: []TemplateBond{bond(2, 3, mol.Double), bond(3, 5, mol.Single)},
		}
		r, err := New(pattern(2, 3, 4), tmpl, WithDeleteAtoms(true))
		require.NoError(t, err)
		p, err := r.Apply(host, identity(2, 3, 4))
		require.NoError(t, err)

		assert.Equal(t, []int{4}, p.Deleted)
		b, _ := p.Graph.Bond(2, 3)
		assert.Equal(t, mol.SignNone, b.Stereo)
		assert.Equal(t, [][2]int{{2, 3}}, p.Flushed.Bonds)
	})

	t.Run("template label wins", func(t *testing.T) {
		host := build(t)
		tmpl := Template{
			Query: true,
			Atoms: []TemplateAtom{anyAtom(2), anyAtom(3)},
			Bonds: []TemplateBond{{From: 2, To: 3, Orders: []mol.BondOrder{mol.Double}, Stereo: mol.SignNegative}},
		}
		r, err := New(pattern(2, 3), tmpl)
		require.NoError(t, err)
		p, err := r.Apply(host, identity(2, 3))
		require.NoError(t, err)

		b, _ := p.Graph.Bond(2, 3)
		assert.Equal(t, mol.SignNegative, b.Stereo)
	})
}

func TestStereo_CarriedLabelLosesSupport(t *testing.T) {
	t.Run("cis-trans substituent deleted", func(t *testing.T) {
		// Ring N1-C2-C3-C5-N1 with C3=C4-C6 exocyclic. Deleting C2 leaves the
		// double bond a stereo unit whose reference substituent on C3 changed.
		host := molecule(t, "N C C C C C",
			[3]int{1, 2, 1}, [3]int{2, 3, 1}, [3]int{3, 4, 2}, [3]int{4, 6, 1},
			[3]int{3, 5, 1}, [3]int{5, 1, 1})
		setBondStereo(t, host, 3, 4, mol.SignPositive)
		require.True(t, toolkit.New().Stereocenters(host).IsLabelBond(3, 4))

		r, err := New(pattern(1, 2), Template{Query: true, Atoms: []TemplateAtom{anyAtom(1)}}, WithDeleteAtoms(true))
		require.NoError(t, err)
		p, err := r.Apply(host, identity(1, 2))
		require.NoError(t, err)

		assert.Equal(t, []int{2}, p.Deleted)
		require.True(t, toolkit.New().Stereocenters(p.Graph).IsLabelBond(3, 4))
		b, _ := p.Graph.Bond(3, 4)
		assert.Equal(t, mol.SignNone, b.Stereo)
		assert.Equal(t, [][2]int{{3, 4}}, p.Flushed.Bonds)
		assertStereoSupport(t, host, p)
	})

	t.Run("tetrahedral neighbor deleted", func(t *testing.T) {
		host := chiral(t, mol.SignPositive)
		r, err := New(pattern(4, 5), Template{Query: true, Atoms: []TemplateAtom{anyAtom(5)}}, WithDeleteAtoms(true))
		require.NoError(t, err)
		p, err := r.Apply(host, identity(4, 5))
		require.NoError(t, err)

		assert.Equal(t, []int{4}, p.Deleted)
		a, _ := p.Graph.Atom(1)
		assert.Equal(t, mol.SignNone, a.Stereo)
		assertStereoSupport(t, host, p)
	})

	t.Run("untouched system keeps label", func(t *testing.T) {
		// Deleting the far end of a chain leaves the labelled bond's support alone.
		host := molecule(t, "O C C C Cl",
			[3]int{1, 2, 1}, [3]int{2, 3, 2}, [3]int{3, 4, 1}, [3]int{4, 5, 1})
		setBondStereo(t, host, 2, 3, mol.SignNegative)

		r, err := New(pattern(4, 5), Template{Query: true, Atoms: []TemplateAtom{anyAtom(4)}}, WithDeleteAtoms(true))
		require.NoError(t, err)
		p, err := r.Apply(host, identity(4, 5))
		require.NoError(t, err)

		assert.Equal(t, []int{5}, p.Deleted)
		b, _ := p.Graph.Bond(2, 3)
		assert.Equal(t, mol.SignNegative, b.Stereo)
		assert.Zero(t, p.Flushed.Len())
	})
}

func TestStereo_Allene(t *testing.T) {
	// F-CH=C=CH-Cl with a labelled center.
	build := func(t *testing.T) *mol.Graph {
		g := molecule(t, "F C C C Cl",
			[3]int{1, 2, 1}, [3]int{2, 3, 2}, [3]int{3, 4, 2}, [3]int{4, 5, 1})
		setAtomStereo(t, g, 3, mol.SignPositive)
		require.True(t, toolkit.New().Stereocenters(g).IsAllene(3))
		return g
	}

	tests := []struct {
		name        string
		pattern     Pattern
		template    Template
		mapping     Mapping
		wantSign    mol.Sign
		wantFlushed []int
	}{
		{
			name:     "patched center keeps sign",
			pattern:  pattern(3),
			template: Template{Query: true, Atoms: []TemplateAtom{anyAtom(3)}},
			mapping:  identity(3),
			wantSign: mol.SignPositive,
		},
		{
			name:    "patched center with replaced substituent",
			pattern: pattern(3, 4, 5),
			template: Template{
				Query: true,
				Atoms: []TemplateAtom{anyAtom(3), anyAtom(4), queryAtom(6, "Br")},
				Bonds: []TemplateBond{bond(3, 4, mol.Double), bond(4, 6, mol.Single)},
			},
			mapping:     identity(3, 4, 5),
			wantSign:    mol.SignNone,
			wantFlushed: []int{3},
		},
		{
			name:    "carried center with replaced substituent",
			pattern: pattern(4, 5),
			template: Template{
				Query: true,
				Atoms: []TemplateAtom{anyAtom(4), queryAtom(6, "Br")},
				Bonds: []TemplateBond{bond(4, 6, mol.Single)},
			},
			mapping:     identity(4, 5),
			wantSign:    mol.SignNone,
			wantFlushed: []int{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := build(t)
			r, err := New(tt.pattern, tt.template, WithDeleteAtoms(true))
			require.NoError(t, err)
			p, err := r.Apply(host, tt.mapping)
			require.NoError(t, err)

			require.True(t, toolkit.New().Stereocenters(p.Graph).IsAllene(3))
			a, _ := p.Graph.Atom(3)
			assert.Equal(t, tt.wantSign, a.Stereo)
			assert.Equal(t, tt.wantFlushed, p.Flushed.Atoms)
			assertStereoSupport(t, host, p)
		})
	}
}

// assertStereoSupport checks that every host label left on the product sits on
// a stereo unit spanning the same atoms as in the host.
func assertStereoSupport(t *testing.T, host *mol.Graph, p *Product) {
	t.Helper()
	tk := toolkit.New()
	oldIdx, newIdx := tk.Stereocenters(host), tk.Stereocenters(p.Graph)

	for _, n := range p.Graph.Atoms() {
		a, _ := p.Graph.Atom(n)
		ha, inHost := host.Atom(n)
		if !a.Stereo.IsSet() || !inHost || !ha.Stereo.IsSet() {
			continue
		}
		if newAxis, ok := newIdx.Allenes[n]; ok {
			oldAxis, ok := oldIdx.Allenes[n]
			assert.True(t, ok && newAxis.SameSupport(oldAxis), "allene %d keeps a label on new substituents", n)
			continue
		}
		assert.True(t, p.Graph.SameNeighbors(host, n), "atom %d keeps a label on new neighbors", n)
	}

	for _, e := range p.Graph.Bonds() {
		hb, inHost := host.Bond(e.From, e.To)
		if !e.Bond.Stereo.IsSet() || !inHost || !hb.Stereo.IsSet() {
			continue
		}
		terminals, ok := newIdx.CisTransOf(e.From, e.To)
		if !ok {
			continue
		}
		oldAxis, ok := oldIdx.CisTransAxis(terminals)
		assert.True(t, ok && newIdx.CisTrans[terminals].SameSupport(oldAxis),
			"bond %d-%d keeps a label on new substituents", e.From, e.To)
	}
}

func TestStereo_SupportMatchesHost(t *testing.T) {
	// Every label left on a product stereocenter must sit on the same atoms as in
	// the host.
	for _, sc := range scenarios() {
		t.Run(sc.name, func(t *testing.T) {
			host := sc.host(t)
			r, err := New(sc.pattern, sc.template, sc.opts...)
			require.NoError(t, err)
			p, err := r.Apply(host, sc.mapping)
			require.NoError(t, err)
			assertStereoSupport(t, host, p)
		})
	}
}
