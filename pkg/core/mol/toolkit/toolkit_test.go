package toolkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/molpatch/pkg/core/mol"
	"github.com/matzehuels/molpatch/pkg/errors"
)

type atomSpec struct {
	z       int
	charge  int
	radical bool
}

func build(t *testing.T, atoms []atomSpec, bonds ...[3]int) *mol.Graph {
	t.Helper()
	g := mol.New()
	for i, a := range atoms {
		require.NoError(t, g.AddAtom(i+1, mol.Atom{
			AtomicNumber: a.z,
			Charge:       a.charge,
			Radical:      a.radical,
			Hydrogens:    mol.HydrogensUnknown,
		}))
	}
	for _, b := range bonds {
		require.NoError(t, g.AddBond(b[0], b[1], mol.Bond{Order: mol.BondOrder(b[2])}))
	}
	return g
}

func TestImplicitHydrogens(t *testing.T) {
	tests := []struct {
		name  string
		atoms []atomSpec
		bonds [][3]int
		atom  int
		want  int
	}{
		{name: "methane", atoms: []atomSpec{{z: 6}}, atom: 1, want: 4},
		{name: "ethene carbon", atoms: []atomSpec{{z: 6}, {z: 6}}, bonds: [][3]int{{1, 2, 2}}, atom: 1, want: 2},
		{name: "ammonium", atoms: []atomSpec{{z: 7, charge: 1}}, atom: 1, want: 4},
		{name: "hydroxide", atoms: []atomSpec{{z: 8, charge: -1}}, atom: 1, want: 1},
		{name: "carbocation", atoms: []atomSpec{{z: 6, charge: 1}}, atom: 1, want: 3},
		{name: "borohydride", atoms: []atomSpec{{z: 5, charge: -1}}, atom: 1, want: 4},
		{name: "methyl radical", atoms: []atomSpec{{z: 6, radical: true}}, atom: 1, want: 3},
		{
			name:  "sulfonyl sulfur",
			atoms: []atomSpec{{z: 16}, {z: 8}, {z: 8}, {z: 6}},
			bonds: [][3]int{{1, 2, 2}, {1, 3, 2}, {1, 4, 1}},
			atom:  1,
			want:  1,
		},
		{
			name:  "aromatic carbon",
			atoms: []atomSpec{{z: 6}, {z: 6}, {z: 6}},
			bonds: [][3]int{{1, 2, 4}, {1, 3, 4}},
			atom:  1,
			want:  1,
		},
		{name: "unknown element", atoms: []atomSpec{{z: 26}}, atom: 1, want: 0},
		{
			name:  "over-saturated",
			atoms: []atomSpec{{z: 8}, {z: 6}, {z: 6}, {z: 6}},
			bonds: [][3]int{{1, 2, 1}, {1, 3, 1}, {1, 4, 1}},
			atom:  1,
			want:  0,
		},
	}

	tk := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.atoms, tt.bonds...)
			got, err := tk.ImplicitHydrogens(g, tt.atom)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := tk.ImplicitHydrogens(mol.New(), 1)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestRelabel(t *testing.T) {
	// C#C-C=C-C
	g := build(t, []atomSpec{{z: 6}, {z: 6}, {z: 6}, {z: 6}, {z: 6}},
		[3]int{1, 2, 3}, [3]int{2, 3, 1}, [3]int{3, 4, 2}, [3]int{4, 5, 1})
	New().Relabel(g)

	want := map[int]struct {
		degree int
		hyb    mol.Hybridization
	}{
		1: {1, mol.SP},
		2: {2, mol.SP},
		3: {2, mol.SP2},
		4: {2, mol.SP2},
		5: {1, mol.SP3},
	}
	for n, w := range want {
		a, _ := g.Atom(n)
		assert.Equal(t, w.degree, a.Degree, "degree of %d", n)
		assert.Equal(t, w.hyb, a.Hybridization, "hybridization of %d", n)
	}
}

func TestStereocenters(t *testing.T) {
	tk := New()

	t.Run("tetrahedral", func(t *testing.T) {
		// CHFClBr and CH2FCl
		g := build(t, []atomSpec{{z: 6}, {z: 9}, {z: 17}, {z: 35}, {z: 6}, {z: 9}, {z: 17}},
			[3]int{1, 2, 1}, [3]int{1, 3, 1}, [3]int{1, 4, 1}, [3]int{5, 6, 1}, [3]int{5, 7, 1})
		idx := tk.Stereocenters(g)
		assert.Equal(t, []int{2, 3, 4}, idx.Tetrahedra[1])
		assert.False(t, idx.IsTetrahedral(5))
		assert.Equal(t, []int{1}, idx.Centers())
	})

	t.Run("cis-trans", func(t *testing.T) {
		// F-CH=CH-Cl and H2C=CH-F
		g := build(t, []atomSpec{{z: 9}, {z: 6}, {z: 6}, {z: 17}, {z: 6}, {z: 6}, {z: 9}},
			[3]int{1, 2, 1}, [3]int{2, 3, 2}, [3]int{3, 4, 1}, [3]int{5, 6, 2}, [3]int{6, 7, 1})
		idx := tk.Stereocenters(g)
		require.Len(t, idx.CisTrans, 1)
		axis := idx.CisTrans[[2]int{2, 3}]
		assert.Equal(t, [2][]int{{1}, {4}}, axis.Substituents)
		assert.True(t, idx.IsLabelBond(3, 2))
		assert.False(t, idx.IsLabelBond(5, 6))
	})

	t.Run("allene", func(t *testing.T) {
		// F-CH=C=CH-Cl
		g := build(t, []atomSpec{{z: 9}, {z: 6}, {z: 6}, {z: 6}, {z: 17}},
			[3]int{1, 2, 1}, [3]int{2, 3, 2}, [3]int{3, 4, 2}, [3]int{4, 5, 1})
		idx := tk.Stereocenters(g)
		require.True(t, idx.IsAllene(3))
		axis := idx.Allenes[3]
		assert.Equal(t, [2]int{2, 4}, axis.Terminals)
		assert.Equal(t, [2][]int{{1}, {5}}, axis.Substituents)
		assert.Empty(t, idx.CisTrans)
	})
}

func TestTetrahedronSign(t *testing.T) {
	g := build(t, []atomSpec{{z: 6}, {z: 9}, {z: 17}, {z: 35}, {z: 8}},
		[3]int{1, 2, 1}, [3]int{1, 3, 1}, [3]int{1, 4, 1}, [3]int{1, 5, 1})
	tk := New()

	tests := []struct {
		name  string
		order []int
		want  mol.Sign
	}{
		{"same order", []int{2, 3, 4, 5}, mol.SignPositive},
		{"one swap", []int{3, 2, 4, 5}, mol.SignNegative},
		{"two swaps", []int{3, 2, 5, 4}, mol.SignPositive},
		{"rotation of four", []int{5, 2, 3, 4}, mol.SignNegative},
		{"rotation of three", []int{3, 4, 2, 5}, mol.SignPositive},
		{"other atoms", []int{2, 3, 4, 9}, mol.SignPositive},
		{"other length", []int{2, 3, 4}, mol.SignPositive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tk.TetrahedronSign(g, 1, tt.order, mol.SignPositive))
		})
	}
}

func TestAxisSigns(t *testing.T) {
	tk := New()

	// F(1)-C(2)(Br 6)=C(3)-Cl(4); reference pair is (1, 4).
	g := build(t, []atomSpec{{z: 9}, {z: 6}, {z: 6}, {z: 17}, {z: 6}, {z: 35}},
		[3]int{1, 2, 1}, [3]int{2, 3, 2}, [3]int{3, 4, 1}, [3]int{2, 6, 1})
	assert.Equal(t, mol.SignPositive, tk.CisTransSign(g, 2, 3, 1, 4, mol.SignPositive))
	assert.Equal(t, mol.SignPositive, tk.CisTransSign(g, 3, 2, 4, 1, mol.SignPositive))
	assert.Equal(t, mol.SignNegative, tk.CisTransSign(g, 2, 3, 6, 4, mol.SignPositive))
	assert.Equal(t, mol.SignPositive, tk.CisTransSign(g, 2, 3, 9, 4, mol.SignPositive))

	allene := build(t, []atomSpec{{z: 9}, {z: 6}, {z: 6}, {z: 6}, {z: 17}, {z: 35}},
		[3]int{1, 2, 1}, [3]int{2, 3, 2}, [3]int{3, 4, 2}, [3]int{4, 5, 1}, [3]int{2, 6, 1})
	assert.Equal(t, mol.SignNegative, tk.AlleneSign(allene, 3, 1, 5, mol.SignNegative))
	assert.Equal(t, mol.SignPositive, tk.AlleneSign(allene, 3, 6, 5, mol.SignNegative))
	assert.Equal(t, mol.SignNegative, tk.AlleneSign(allene, 2, 6, 5, mol.SignNegative))
}

func TestNormalization(t *testing.T) {
	tk := New()

	plain := build(t, []atomSpec{{z: 6}, {z: 6}}, [3]int{1, 2, 2})
	assert.NoError(t, tk.Kekulize(plain))

	aromatic := build(t, []atomSpec{{z: 6}, {z: 6}}, [3]int{1, 2, 4})
	assert.True(t, errors.Is(tk.Kekulize(aromatic), errors.ErrCodeUnsupported))

	changed, err := tk.Aromatize(plain, true)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestFixStereo(t *testing.T) {
	// CHFClBr center 1, CH3 group 5, F-CH=CH-Cl bond 6=7 and H2C=CH2 bond 10=11.
	g := build(t,
		[]atomSpec{{z: 6}, {z: 9}, {z: 17}, {z: 35}, {z: 6}, {z: 6}, {z: 6}, {z: 9}, {z: 17}, {z: 6}, {z: 6}},
		[3]int{1, 2, 1}, [3]int{1, 3, 1}, [3]int{1, 4, 1}, [3]int{1, 5, 1},
		[3]int{6, 7, 2}, [3]int{6, 8, 1}, [3]int{7, 9, 1}, [3]int{10, 11, 2})
	for _, n := range []int{1, 5} {
		a, _ := g.Atom(n)
		a.Stereo = mol.SignPositive
	}
	for _, p := range [][2]int{{6, 7}, {10, 11}, {1, 2}} {
		b, _ := g.Bond(p[0], p[1])
		b.Stereo = mol.SignNegative
	}

	New().FixStereo(g)

	a1, _ := g.Atom(1)
	a5, _ := g.Atom(5)
	assert.Equal(t, mol.SignPositive, a1.Stereo)
	assert.Equal(t, mol.SignNone, a5.Stereo)

	b67, _ := g.Bond(6, 7)
	b1011, _ := g.Bond(10, 11)
	b12, _ := g.Bond(1, 2)
	assert.Equal(t, mol.SignNegative, b67.Stereo)
	assert.Equal(t, mol.SignNone, b1011.Stereo)
	assert.Equal(t, mol.SignNone, b12.Stereo)
}

func TestOddPermutation(t *testing.T) {
	assert.False(t, oddPermutation([]int{0, 1, 2}))
	assert.True(t, oddPermutation([]int{1, 0, 2}))
	assert.False(t, oddPermutation([]int{1, 2, 0}))
	assert.True(t, oddPermutation([]int{1, 2, 3, 0}))
	assert.False(t, oddPermutation(nil))
}
