package reactor

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/molpatch/pkg/core/mol"
	"github.com/matzehuels/molpatch/pkg/errors"
)

// normState is a stage of product normalization.
type normState int

const (
	stateNotNormalized normState = iota
	stateRingsFixed
	stateStereoFixed
)

func (s normState) String() string {
	switch s {
	case stateNotNormalized:
		return "not-normalized"
	case stateRingsFixed:
		return "rings-fixed"
	case stateStereoFixed:
		return "stereo-fixed"
	}
	return "unknown"
}

// finalizer drives a product from stateNotNormalized to stateStereoFixed.
//
// With fixRings the product is kekulized and then re-aromatized. An aromatizer
// that changed a ring has already reconciled stereo; otherwise FixStereo runs.
// Without fixRings only FixStereo runs.
type finalizer struct {
	tk           Normalizer
	fixRings     bool
	fixTautomers bool
	logger       *log.Logger
}

func (r *Reactor) finalize(g *mol.Graph) error {
	f := finalizer{
		tk:           r.tk,
		fixRings:     r.fixRings,
		fixTautomers: r.fixTautomers,
		logger:       r.logger,
	}
	return f.run(g)
}

func (f finalizer) run(g *mol.Graph) error {
	state := stateNotNormalized
	for state != stateStereoFixed {
		next, err := f.step(state, g)
		if err != nil {
			return err
		}
		f.logger.Debug("normalize", "from", state, "to", next)
		state = next
	}
	return nil
}

func (f finalizer) step(state normState, g *mol.Graph) (normState, error) {
	switch state {
	case stateNotNormalized:
		if !f.fixRings {
			f.tk.FixStereo(g)
			return stateStereoFixed, nil
		}
		if err := f.tk.Kekulize(g); err != nil {
			return state, errors.Wrap(errors.ErrCodeToolkit, err, "kekulize")
		}
		return stateRingsFixed, nil

	case stateRingsFixed:
		changed, err := f.tk.Aromatize(g, f.fixTautomers)
		if err != nil {
			return state, errors.Wrap(errors.ErrCodeToolkit, err, "aromatize")
		}
		if !changed {
			f.tk.FixStereo(g)
		}
		return stateStereoFixed, nil
	}
	return state, errors.New(errors.ErrCodeInternal, "no transition from %v", state)
}
