package toolkit

import "github.com/matzehuels/molpatch/pkg/core/mol"

// element holds the valence data used for implicit hydrogens.
type element struct {
	group    int
	valences []int
}

var elements = map[int]element{
	1:  {1, []int{1}},           // H
	3:  {1, []int{1}},           // Li
	5:  {13, []int{3}},          // B
	6:  {14, []int{4}},          // C
	7:  {15, []int{3}},          // N
	8:  {16, []int{2}},          // O
	9:  {17, []int{1}},          // F
	11: {1, []int{1}},           // Na
	12: {2, []int{2}},           // Mg
	13: {13, []int{3}},          // Al
	14: {14, []int{4}},          // Si
	15: {15, []int{3, 5}},       // P
	16: {16, []int{2, 4, 6}},    // S
	17: {17, []int{1, 3, 5, 7}}, // Cl
	19: {1, []int{1}},           // K
	20: {2, []int{2}},           // Ca
	32: {14, []int{4}},          // Ge
	33: {15, []int{3, 5}},       // As
	34: {16, []int{2, 4, 6}},    // Se
	35: {17, []int{1, 3, 5, 7}}, // Br
	53: {17, []int{1, 3, 5, 7}}, // I
}

// valences returns the allowed valences of a after charge and radical adjustment.
func valences(a *mol.Atom) []int {
	el, ok := elements[a.AtomicNumber]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(el.valences))
	for _, v := range el.valences {
		switch el.group {
		case 14:
			v -= abs(a.Charge)
		case 15, 16, 17:
			v += a.Charge
		default:
			v -= a.Charge
		}
		if a.Radical {
			v--
		}
		if v >= 0 {
			out = append(out, v)
		}
	}
	return out
}

// profile summarizes the bonds of one atom.
type profile struct {
	neighbors int
	valence   int // bond order sum, aromatic systems count one extra
	doubles   int
	triples   int
	aromatic  int
}

func bondProfile(g *mol.Graph, n int) profile {
	var p profile
	for _, m := range g.Neighbors(n) {
		b, _ := g.Bond(n, m)
		p.neighbors++
		switch b.Order {
		case mol.Single:
			p.valence++
		case mol.Double:
			p.valence += 2
			p.doubles++
		case mol.Triple:
			p.valence += 3
			p.triples++
		case mol.Aromatic:
			p.valence++
			p.aromatic++
		}
	}
	if p.aromatic > 0 {
		p.valence++
	}
	return p
}

func (p profile) hybridization() mol.Hybridization {
	switch {
	case p.aromatic > 0:
		return mol.HybridizationAromatic
	case p.triples > 0 || p.doubles > 1:
		return mol.SP
	case p.doubles == 1:
		return mol.SP2
	}
	return mol.SP3
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
