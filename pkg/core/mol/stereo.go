package mol

import "slices"

// Axis describes a stereogenic double-bond system: a plain cis/trans double bond or
// an allene. Terminals are the two atoms that carry the substituents;
// Substituents[i] lists the substituents of Terminals[i], excluding the chain atoms.
//
// For cis/trans systems LabelBond is the bond that carries the stereo label. For
// allenes it is unused.
type Axis struct {
	Terminals    [2]int
	Substituents [2][]int
	LabelBond    [2]int
}

// Atoms returns the terminals and all substituents as a set.
func (a Axis) Atoms() map[int]struct{} {
	out := make(map[int]struct{}, 2+len(a.Substituents[0])+len(a.Substituents[1]))
	out[a.Terminals[0]] = struct{}{}
	out[a.Terminals[1]] = struct{}{}
	for _, side := range a.Substituents {
		for _, x := range side {
			out[x] = struct{}{}
		}
	}
	return out
}

// SameSupport reports whether a and b span the same set of atoms.
func (a Axis) SameSupport(b Axis) bool {
	as, bs := a.Atoms(), b.Atoms()
	if len(as) != len(bs) {
		return false
	}
	for x := range as {
		if _, ok := bs[x]; !ok {
			return false
		}
	}
	return true
}

// References returns the first substituent of each terminal. Stereo signs of an
// axis are defined relative to this pair.
func (a Axis) References() (int, int) {
	var first, second int
	if len(a.Substituents[0]) > 0 {
		first = a.Substituents[0][0]
	}
	if len(a.Substituents[1]) > 0 {
		second = a.Substituents[1][0]
	}
	return first, second
}

// Stereocenters indexes the stereogenic units of one graph.
type Stereocenters struct {
	// Tetrahedra maps a tetrahedral center to its neighbors in the order the sign
	// refers to.
	Tetrahedra map[int][]int

	// Allenes maps an allene center to its axis.
	Allenes map[int]Axis

	// CisTrans maps a terminal pair to its axis. Keys use the terminal order of
	// the axis.
	CisTrans map[[2]int]Axis

	// Terminals maps every atom of a cis/trans system's label bond to the
	// system's terminal pair.
	Terminals map[int][2]int
}

// NewStereocenters returns an empty index.
func NewStereocenters() *Stereocenters {
	return &Stereocenters{
		Tetrahedra: make(map[int][]int),
		Allenes:    make(map[int]Axis),
		CisTrans:   make(map[[2]int]Axis),
		Terminals:  make(map[int][2]int),
	}
}

// IsTetrahedral reports whether n is a tetrahedral stereocenter.
func (s *Stereocenters) IsTetrahedral(n int) bool {
	_, ok := s.Tetrahedra[n]
	return ok
}

// IsAllene reports whether n is an allene center.
func (s *Stereocenters) IsAllene(n int) bool {
	_, ok := s.Allenes[n]
	return ok
}

// CisTransOf returns the terminal pair shared by n and m, if both belong to the
// label bond of the same cis/trans system.
func (s *Stereocenters) CisTransOf(n, m int) ([2]int, bool) {
	tn, ok := s.Terminals[n]
	if !ok {
		return [2]int{}, false
	}
	tm, ok := s.Terminals[m]
	if !ok || tn != tm {
		return [2]int{}, false
	}
	return tn, true
}

// CisTransAxis returns the cis/trans axis for a terminal pair in either order.
func (s *Stereocenters) CisTransAxis(t [2]int) (Axis, bool) {
	if a, ok := s.CisTrans[t]; ok {
		return a, true
	}
	a, ok := s.CisTrans[[2]int{t[1], t[0]}]
	return a, ok
}

// IsLabelBond reports whether the bond n-m carries the label of a cis/trans system.
func (s *Stereocenters) IsLabelBond(n, m int) bool {
	t, ok := s.CisTransOf(n, m)
	if !ok {
		return false
	}
	lb := s.CisTrans[t].LabelBond
	return (lb[0] == n && lb[1] == m) || (lb[0] == m && lb[1] == n)
}

// Centers returns all tetrahedral and allene centers in ascending order.
func (s *Stereocenters) Centers() []int {
	out := make([]int, 0, len(s.Tetrahedra)+len(s.Allenes))
	for n := range s.Tetrahedra {
		out = append(out, n)
	}
	for n := range s.Allenes {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
