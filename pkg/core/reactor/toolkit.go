package reactor

import "github.com/matzehuels/molpatch/pkg/core/mol"

// HydrogenCounter computes implicit hydrogen counts.
type HydrogenCounter interface {
	// ImplicitHydrogens returns the implicit hydrogen count of atom n in g.
	ImplicitHydrogens(g *mol.Graph, n int) (int, error)
}

// Labeler recomputes derived atom labels (degree, hybridization) in place.
type Labeler interface {
	Relabel(g *mol.Graph)
}

// StereoPerceiver enumerates stereocenters.
type StereoPerceiver interface {
	Stereocenters(g *mol.Graph) *mol.Stereocenters
}

// SignTranslator re-expresses stereo signs relative to the reference order used
// by g. The old reference data always comes from the host graph.
type SignTranslator interface {
	// TetrahedronSign translates sign, defined relative to order, to the
	// neighbor order of n in g.
	TetrahedronSign(g *mol.Graph, n int, order []int, sign mol.Sign) mol.Sign

	// AlleneSign translates sign, defined relative to the substituent pair
	// (first, second), to the reference pair of the allene centered on n in g.
	AlleneSign(g *mol.Graph, n, first, second int, sign mol.Sign) mol.Sign

	// CisTransSign translates sign, defined relative to (first, second), to the
	// reference pair of the cis/trans system with terminals t1 and t2 in g.
	CisTransSign(g *mol.Graph, t1, t2, first, second int, sign mol.Sign) mol.Sign
}

// Normalizer runs the final ring and stereo normalization routines.
type Normalizer interface {
	// Kekulize converts aromatic bonds to alternating single/double bonds.
	// Stereo labels are kept as is.
	Kekulize(g *mol.Graph) error

	// Aromatize converts kekule rings to aromatic form and reports whether any
	// ring changed. When it reports a change it has already reconciled the
	// stereo labels of g.
	Aromatize(g *mol.Graph, fixTautomers bool) (bool, error)

	// FixStereo drops labels that no longer sit on a stereocenter.
	FixStereo(g *mol.Graph)
}

// Toolkit bundles the graph primitives the reactor delegates to.
type Toolkit interface {
	HydrogenCounter
	Labeler
	StereoPerceiver
	SignTranslator
	Normalizer
}
