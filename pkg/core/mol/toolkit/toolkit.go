// Package toolkit is a small, deterministic implementation of the graph primitives
// the reactor needs: implicit hydrogens, derived labels, stereocenter perception,
// stereo sign translation and ring normalization.
//
// It is not a chemistry engine. Valences come from a short table, tetrahedral
// centers are four-coordinate sp3 atoms, cis/trans systems are isolated double
// bonds and allenes are single cumulated centers. Aromatic rings are not
// kekulized.
//
// All methods are stateless and safe for concurrent use.
package toolkit

import (
	"github.com/matzehuels/molpatch/pkg/core/mol"
	"github.com/matzehuels/molpatch/pkg/errors"
)

// Toolkit is the reference toolkit.
type Toolkit struct{}

// New returns the reference toolkit.
func New() *Toolkit { return &Toolkit{} }

// ImplicitHydrogens returns the hydrogens needed to reach the smallest allowed
// valence of n that is not below its bond order sum. Unknown elements and
// saturated atoms get zero.
func (*Toolkit) ImplicitHydrogens(g *mol.Graph, n int) (int, error) {
	a, ok := g.Atom(n)
	if !ok {
		return 0, errors.New(errors.ErrCodeNotFound, "atom %d not in graph", n)
	}
	return implicitHydrogens(g, n, a), nil
}

func implicitHydrogens(g *mol.Graph, n int, a *mol.Atom) int {
	used := bondProfile(g, n).valence
	for _, v := range valences(a) {
		if v >= used {
			return v - used
		}
	}
	return 0
}

// hydrogens returns the stored count of n, or the computed one if unknown.
func hydrogens(g *mol.Graph, n int) int {
	a, _ := g.Atom(n)
	if a.HydrogensKnown() {
		return a.Hydrogens
	}
	return implicitHydrogens(g, n, a)
}

// Relabel sets Degree and Hybridization on every atom of g.
func (*Toolkit) Relabel(g *mol.Graph) {
	for _, n := range g.Atoms() {
		a, _ := g.Atom(n)
		p := bondProfile(g, n)
		a.Degree = p.neighbors
		a.Hybridization = p.hybridization()
	}
}

// Kekulize leaves graphs without aromatic bonds untouched. Aromatic input is
// reported as UNSUPPORTED.
func (*Toolkit) Kekulize(g *mol.Graph) error {
	for _, e := range g.Bonds() {
		if e.Bond.Order == mol.Aromatic {
			return errors.New(errors.ErrCodeUnsupported, "kekulization of aromatic bond %d-%d", e.From, e.To)
		}
	}
	return nil
}

// Aromatize never changes g and always reports no change.
func (*Toolkit) Aromatize(*mol.Graph, bool) (bool, error) { return false, nil }

// FixStereo removes atom labels outside tetrahedral and allene centers and bond
// labels outside cis/trans label bonds.
func (t *Toolkit) FixStereo(g *mol.Graph) {
	idx := t.Stereocenters(g)
	for _, n := range g.Atoms() {
		a, _ := g.Atom(n)
		if a.Stereo.IsSet() && !idx.IsTetrahedral(n) && !idx.IsAllene(n) {
			a.Stereo = mol.SignNone
		}
	}
	for _, e := range g.Bonds() {
		if e.Bond.Stereo.IsSet() && !idx.IsLabelBond(e.From, e.To) {
			e.Bond.Stereo = mol.SignNone
		}
	}
}
