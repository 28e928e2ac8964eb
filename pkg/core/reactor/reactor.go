package reactor

import (
	"context"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/molpatch/pkg/core/mol"
	"github.com/matzehuels/molpatch/pkg/core/mol/toolkit"
	"github.com/matzehuels/molpatch/pkg/errors"
	"github.com/matzehuels/molpatch/pkg/observability"
)

// Mapping maps template and pattern atom ids to host atom ids.
type Mapping map[int]int

// Clone returns a copy of m.
func (m Mapping) Clone() Mapping {
	if m == nil {
		return Mapping{}
	}
	return maps.Clone(m)
}

// Flushed lists the stereo labels that were dropped because their support changed.
type Flushed struct {
	Atoms []int
	Bonds [][2]int
}

// Len returns the total number of flushed labels.
func (f Flushed) Len() int { return len(f.Atoms) + len(f.Bonds) }

// Product is the result of one [Reactor.Apply] call.
type Product struct {
	// Graph is the patched, normalized molecule. It shares no records with the host.
	Graph *mol.Graph

	// Mapping is the caller's mapping extended with the ids of fresh atoms.
	Mapping Mapping

	// Deleted holds the removed host atoms in ascending order.
	Deleted []int

	// Added holds the fresh atom ids in allocation order.
	Added []int

	Flushed Flushed
}

// Option configures a Reactor.
type Option func(*Reactor)

// WithDeleteAtoms removes unmasked pattern atoms that the template does not keep,
// together with everything left hanging off them.
func WithDeleteAtoms(v bool) Option { return func(r *Reactor) { r.deleteAtoms = v } }

// WithFixRings kekulizes and re-aromatizes the product.
func WithFixRings(v bool) Option { return func(r *Reactor) { r.fixRings = v } }

// WithFixTautomers lets aromatization pick tautomers. Only used with WithFixRings.
func WithFixTautomers(v bool) Option { return func(r *Reactor) { r.fixTautomers = v } }

// WithToolkit replaces the reference toolkit.
func WithToolkit(tk Toolkit) Option { return func(r *Reactor) { r.tk = tk } }

// WithLogger sets the debug logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option { return func(r *Reactor) { r.logger = l } }

// Reactor writes a replacement template over matched host fragments.
//
// A Reactor is immutable after New and safe for concurrent use as long as its
// toolkit is.
type Reactor struct {
	pattern  Pattern
	template Template
	core     []int // pattern atoms to delete, before mapping

	deleteAtoms  bool
	fixRings     bool
	fixTautomers bool

	tk     Toolkit
	logger *log.Logger
}

// New validates template and builds a Reactor.
//
// Construction fails with INVALID_TEMPLATE for disallowed atom kinds or malformed
// bonds and with VARIABLE_BOND for bonds that allow several orders.
func New(pattern Pattern, template Template, opts ...Option) (*Reactor, error) {
	r := &Reactor{
		pattern:  Pattern{Atoms: slices.Clone(pattern.Atoms)},
		template: template.clone(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tk == nil {
		r.tk = toolkit.New()
	}
	if r.logger == nil {
		r.logger = discardLogger()
	}

	if err := r.template.validate(); err != nil {
		return nil, err
	}

	kept := make(map[int]struct{}, len(r.template.Atoms))
	for _, a := range r.template.Atoms {
		kept[a.ID] = struct{}{}
	}
	seen := make(map[int]struct{}, len(r.pattern.Atoms))
	for _, a := range r.pattern.Atoms {
		if err := errors.ValidateAtomID(a.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "pattern atom")
		}
		if _, dup := seen[a.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidTemplate, "duplicate pattern atom %d", a.ID)
		}
		seen[a.ID] = struct{}{}
		if _, ok := kept[a.ID]; !ok && !a.Masked {
			r.core = append(r.core, a.ID)
		}
	}
	return r, nil
}

// Template returns a copy of the replacement template.
func (r *Reactor) Template() Template { return r.template.clone() }

// Pattern returns a copy of the matched pattern.
func (r *Reactor) Pattern() Pattern { return Pattern{Atoms: slices.Clone(r.pattern.Atoms)} }

// DeletesAtoms reports whether unkept pattern atoms are removed.
func (r *Reactor) DeletesAtoms() bool { return r.deleteAtoms }

// FixesRings reports whether the product is re-aromatized.
func (r *Reactor) FixesRings() bool { return r.fixRings }

// FixesTautomers reports whether aromatization may pick tautomers.
func (r *Reactor) FixesTautomers() bool { return r.fixTautomers }

// Apply writes the template over host at the site described by mapping.
//
// Neither host nor mapping is modified. On error no product is returned.
func (r *Reactor) Apply(host *mol.Graph, mapping Mapping) (*Product, error) {
	return r.ApplyContext(context.Background(), host, mapping)
}

// ApplyContext is Apply with a context passed to the observability hooks. The
// work itself is not interruptible.
func (r *Reactor) ApplyContext(ctx context.Context, host *mol.Graph, mapping Mapping) (*Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if host == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "host graph is nil")
	}
	if err := r.checkMapping(host, mapping); err != nil {
		return nil, err
	}

	hooks := observability.Reactor()
	hooks.OnApplyStart(ctx, host.AtomCount(), len(mapping))
	start := time.Now()

	p, err := r.apply(ctx, host, mapping.Clone())

	atoms := 0
	if p != nil {
		atoms = p.Graph.AtomCount()
	}
	hooks.OnApplyComplete(ctx, atoms, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Reactor) apply(ctx context.Context, host *mol.Graph, mapping Mapping) (*Product, error) {
	deleted := r.deletions(host, mapping)

	p := newPatcher(r, host, mapping, deleted)
	out, err := p.run()
	if err != nil {
		return nil, err
	}

	flushed := r.translateStereo(ctx, host, out, p.marks)

	if err := r.finalize(out); err != nil {
		return nil, err
	}

	// Deleted host atoms have no counterpart in the product.
	maps.DeleteFunc(p.mapping, func(_, v int) bool {
		_, gone := deleted[v]
		return gone
	})

	return &Product{
		Graph:   out,
		Mapping: p.mapping,
		Deleted: sortedSet(deleted),
		Added:   p.added,
		Flushed: flushed,
	}, nil
}

// checkMapping verifies that mapping is injective, covers the pattern and only
// points at existing host atoms.
func (r *Reactor) checkMapping(host *mol.Graph, mapping Mapping) error {
	if err := errors.ValidateMapping(mapping); err != nil {
		return err
	}
	for _, k := range slices.Sorted(maps.Keys(mapping)) {
		if v := mapping[k]; !host.HasAtom(v) {
			return errors.New(errors.ErrCodeInvalidMapping, "atom %d maps to missing host atom %d", k, v)
		}
	}
	for _, a := range r.pattern.Atoms {
		if _, ok := mapping[a.ID]; !ok {
			return errors.New(errors.ErrCodeInvalidMapping, "pattern atom %d is not mapped", a.ID)
		}
	}
	return nil
}

// deletions maps the core deletion set to host ids and expands it.
func (r *Reactor) deletions(host *mol.Graph, mapping Mapping) map[int]struct{} {
	if !r.deleteAtoms || len(r.core) == 0 {
		return map[int]struct{}{}
	}

	core := make(map[int]struct{}, len(r.core))
	for _, n := range r.core {
		core[mapping[n]] = struct{}{}
	}
	retained := make(map[int]struct{}, len(mapping))
	for _, m := range mapping {
		if _, ok := core[m]; !ok {
			retained[m] = struct{}{}
		}
	}

	deleted := expandDeletions(host, core, retained)
	r.logger.Debug("deletion set expanded", "core", len(core), "deleted", len(deleted))
	return deleted
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func sortedSet(s map[int]struct{}) []int {
	return slices.Sorted(maps.Keys(s))
}
