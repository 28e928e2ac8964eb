package toolkit

import "github.com/matzehuels/molpatch/pkg/core/mol"

// Stereocenters perceives the stereogenic units of g.
//
// Tetrahedral centers are sp3 atoms with at least three neighbors and exactly
// four neighbors plus hydrogens; the sign refers to the adjacency order. A
// cis/trans system is a double bond whose ends have no other double or triple
// bond and one or two substituents each. An allene is a center with exactly two
// double bonds to such terminals.
func (*Toolkit) Stereocenters(g *mol.Graph) *mol.Stereocenters {
	idx := mol.NewStereocenters()
	profiles := make(map[int]profile, g.AtomCount())
	for _, n := range g.Atoms() {
		profiles[n] = bondProfile(g, n)
	}

	for _, n := range g.Atoms() {
		p := profiles[n]
		if p.hybridization() == mol.SP3 && p.neighbors >= 3 && p.neighbors+hydrogens(g, n) == 4 {
			idx.Tetrahedra[n] = g.Neighbors(n)
		}
	}

	// terminal reports whether t ends a double bond to center and returns its
	// other neighbors.
	terminal := func(t, center int) ([]int, bool) {
		p := profiles[t]
		if p.doubles != 1 || p.triples > 0 || p.aromatic > 0 {
			return nil, false
		}
		var subs []int
		for _, x := range g.Neighbors(t) {
			if x != center {
				subs = append(subs, x)
			}
		}
		return subs, len(subs) >= 1 && len(subs) <= 2
	}

	for _, n := range g.Atoms() {
		p := profiles[n]
		if p.neighbors != 2 || p.doubles != 2 {
			continue
		}
		ns := g.Neighbors(n)
		s0, ok0 := terminal(ns[0], n)
		s1, ok1 := terminal(ns[1], n)
		if ok0 && ok1 {
			idx.Allenes[n] = mol.Axis{
				Terminals:    [2]int{ns[0], ns[1]},
				Substituents: [2][]int{s0, s1},
			}
		}
	}

	for _, e := range g.Bonds() {
		if e.Bond.Order != mol.Double {
			continue
		}
		s0, ok0 := terminal(e.From, e.To)
		s1, ok1 := terminal(e.To, e.From)
		if !ok0 || !ok1 {
			continue
		}
		t := [2]int{e.From, e.To}
		idx.CisTrans[t] = mol.Axis{
			Terminals:    t,
			Substituents: [2][]int{s0, s1},
			LabelBond:    t,
		}
		idx.Terminals[e.From] = t
		idx.Terminals[e.To] = t
	}
	return idx
}

// TetrahedronSign translates sign from order to the adjacency order of n. An odd
// permutation flips it. Orders over different atoms leave sign unchanged.
func (*Toolkit) TetrahedronSign(g *mol.Graph, n int, order []int, sign mol.Sign) mol.Sign {
	current := g.Neighbors(n)
	if len(current) != len(order) {
		return sign
	}
	pos := make(map[int]int, len(current))
	for i, x := range current {
		pos[x] = i
	}
	perm := make([]int, len(order))
	for i, x := range order {
		j, ok := pos[x]
		if !ok {
			return sign
		}
		perm[i] = j
	}
	if oddPermutation(perm) {
		return sign.Flip()
	}
	return sign
}

// AlleneSign translates sign from the pair (first, second) to the reference pair
// of the allene centered on n.
func (t *Toolkit) AlleneSign(g *mol.Graph, n, first, second int, sign mol.Sign) mol.Sign {
	axis, ok := t.Stereocenters(g).Allenes[n]
	if !ok {
		return sign
	}
	return axisSign(axis, first, second, sign)
}

// CisTransSign translates sign from the pair (first, second) to the reference pair
// of the cis/trans system with terminals t1 and t2.
func (t *Toolkit) CisTransSign(g *mol.Graph, t1, t2, first, second int, sign mol.Sign) mol.Sign {
	axis, ok := t.Stereocenters(g).CisTransAxis([2]int{t1, t2})
	if !ok {
		return sign
	}
	return axisSign(axis, first, second, sign)
}

// axisSign flips sign once per side on which the given substituent differs from
// the axis reference. Swapped sides do not change a cis/trans relation.
func axisSign(axis mol.Axis, first, second int, sign mol.Sign) mol.Sign {
	side := func(x int) int {
		for i, subs := range axis.Substituents {
			for _, s := range subs {
				if s == x {
					return i
				}
			}
		}
		return -1
	}
	sf, ss := side(first), side(second)
	if sf < 0 || ss < 0 || sf == ss {
		return sign
	}
	if sf == 1 {
		first, second = second, first
	}
	rf, rs := axis.References()
	flips := 0
	if first != rf {
		flips++
	}
	if second != rs {
		flips++
	}
	if flips%2 == 1 {
		return sign.Flip()
	}
	return sign
}

// oddPermutation reports whether perm, a permutation of 0..len-1, is odd.
func oddPermutation(perm []int) bool {
	seen := make([]bool, len(perm))
	odd := false
	for i := range perm {
		if seen[i] {
			continue
		}
		length := 0
		for j := i; !seen[j]; j = perm[j] {
			seen[j] = true
			length++
		}
		if length%2 == 0 {
			odd = !odd
		}
	}
	return odd
}
