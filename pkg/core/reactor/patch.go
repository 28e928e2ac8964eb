package reactor

import (
	"maps"
	"slices"

	"github.com/matzehuels/molpatch/pkg/core/mol"
	"github.com/matzehuels/molpatch/pkg/errors"
)

// marks records host stereo labels whose atoms or bonds took part in the patch.
// Their signs are reconsidered once the product topology is known.
type marks struct {
	atoms []int
	bonds [][2]int
}

// patcher assembles one product graph. It is used for a single Apply call.
type patcher struct {
	r       *Reactor
	host    *mol.Graph
	mapping Mapping
	deleted map[int]struct{}

	out     *mol.Graph
	patched map[int]struct{}
	added   []int
	nextID  int
	marks   marks
}

func newPatcher(r *Reactor, host *mol.Graph, mapping Mapping, deleted map[int]struct{}) *patcher {
	return &patcher{
		r:       r,
		host:    host,
		mapping: mapping,
		deleted: deleted,
		out:     mol.New(),
		patched: make(map[int]struct{}, len(r.template.Atoms)),
		nextID:  host.MaxID(),
	}
}

// run builds the product: template atoms, template bonds, carried host atoms and
// bonds, then hydrogen counts and derived labels.
func (p *patcher) run() (*mol.Graph, error) {
	for _, ta := range p.r.template.Atoms {
		if err := p.addTemplateAtom(ta); err != nil {
			return nil, err
		}
	}
	for _, tb := range p.r.template.Bonds {
		if err := p.addTemplateBond(tb); err != nil {
			return nil, err
		}
	}

	carried := p.carryAtoms()
	if err := p.carryBonds(); err != nil {
		return nil, err
	}
	for _, n := range carried {
		p.out.ReorderNeighbors(n, p.host.Neighbors(n))
	}
	p.markBrokenSupport(carried)

	if err := p.complete(); err != nil {
		return nil, err
	}
	return p.out, nil
}

func (p *patcher) addTemplateAtom(ta TemplateAtom) error {
	var a mol.Atom
	m, mapped := p.mapping[ta.ID]

	switch ta.Kind {
	case KindAny:
		if !mapped {
			return errors.New(errors.ErrCodeUnmatchedAnyElement, "any-element atom %d has no host counterpart", ta.ID)
		}
		src, _ := p.host.Atom(m)
		a = src.Bare()
		a.Charge = ta.Charge
		a.Radical = ta.Radical
		p.resolveStereo(&a, ta, src, m)

	case KindQuery, KindElement:
		a = mol.Atom{
			AtomicNumber: ta.AtomicNumber,
			Isotope:      ta.Isotope,
			Charge:       ta.Charge,
			Radical:      ta.Radical,
			Hydrogens:    mol.HydrogensUnknown,
		}
		if mapped {
			src, _ := p.host.Atom(m)
			a.X, a.Y = src.X, src.Y
			p.resolveStereo(&a, ta, src, m)
			break
		}

		switch len(ta.Hydrogens) {
		case 0:
		case 1:
			a.Hydrogens = ta.Hydrogens[0]
		default:
			return errors.New(errors.ErrCodeAmbiguousHydrogens, "new atom %d lists %d hydrogen counts", ta.ID, len(ta.Hydrogens))
		}
		if ta.Kind == KindElement {
			a.X, a.Y = ta.X, ta.Y
		}
		a.Stereo = ta.Stereo

		p.nextID++
		m = p.nextID
		p.mapping[ta.ID] = m
		p.added = append(p.added, m)
		p.r.logger.Debug("new atom", "template", ta.ID, "id", m, "element", mol.Symbol(ta.AtomicNumber))

	default:
		return errors.New(errors.ErrCodeInternal, "unhandled atom kind %v", ta.Kind)
	}

	if err := p.out.AddAtom(m, a); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "add atom %d", m)
	}
	p.patched[m] = struct{}{}
	return nil
}

// resolveStereo applies the template label, or marks the host label of m for
// translation.
func (p *patcher) resolveStereo(a *mol.Atom, ta TemplateAtom, src *mol.Atom, m int) {
	switch {
	case ta.Stereo.IsSet():
		a.Stereo = ta.Stereo
	case src.Stereo.IsSet():
		p.marks.atoms = append(p.marks.atoms, m)
	}
}

func (p *patcher) addTemplateBond(tb TemplateBond) error {
	n, m := p.mapping[tb.From], p.mapping[tb.To]
	b := mol.Bond{Order: tb.Orders[0]}
	if tb.Stereo.IsSet() {
		b.Stereo = tb.Stereo
	} else if hb, ok := p.host.Bond(n, m); ok && hb.Stereo.IsSet() {
		p.marks.bonds = append(p.marks.bonds, [2]int{n, m})
	}
	if err := p.out.AddBond(n, m, b); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "add bond %d-%d", n, m)
	}
	return nil
}

// carryAtoms copies untouched host atoms and returns them in host order.
func (p *patcher) carryAtoms() []int {
	var carried []int
	for _, n := range p.host.Atoms() {
		if p.isPatched(n) || p.isDeleted(n) {
			continue
		}
		src, _ := p.host.Atom(n)
		// Fresh ids are above the host maximum, so this cannot collide.
		_ = p.out.AddAtom(n, *src)
		carried = append(carried, n)
	}
	return carried
}

// carryBonds copies host bonds that survive the patch. Bonds between two patched
// atoms are owned by the template.
func (p *patcher) carryBonds() error {
	for _, e := range p.host.Bonds() {
		n, m := e.From, e.To
		if p.isDeleted(n) || p.isDeleted(m) {
			continue
		}
		pn, pm := p.isPatched(n), p.isPatched(m)
		if pn && pm {
			continue
		}

		b := *e.Bond
		if b.Stereo.IsSet() && (pn || pm) {
			b = b.Bare()
			p.marks.bonds = append(p.marks.bonds, [2]int{n, m})
		}
		if err := p.out.AddBond(n, m, b); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "carry bond %d-%d", n, m)
		}
	}
	return nil
}

// markBrokenSupport unsets and marks carried labels whose host stereo system
// contains a deleted atom. The sign refers to that system's atoms, so it is
// only kept if translateStereo finds the same support in the product.
func (p *patcher) markBrokenSupport(carried []int) {
	if len(p.deleted) == 0 {
		return
	}
	var idx *mol.Stereocenters
	index := func() *mol.Stereocenters {
		if idx == nil {
			idx = p.r.tk.Stereocenters(p.host)
		}
		return idx
	}

	for _, n := range carried {
		dst, _ := p.out.Atom(n)
		if !dst.Stereo.IsSet() {
			continue
		}
		var support []int
		if order, ok := index().Tetrahedra[n]; ok {
			support = order
		} else if axis, ok := index().Allenes[n]; ok {
			support = slices.Collect(maps.Keys(axis.Atoms()))
		}
		if p.anyDeleted(support) {
			dst.Stereo = mol.SignNone
			p.marks.atoms = append(p.marks.atoms, n)
		}
	}

	for _, e := range p.out.Bonds() {
		n, m := e.From, e.To
		if !e.Bond.Stereo.IsSet() || p.isPatched(n) || p.isPatched(m) {
			continue
		}
		t, ok := index().CisTransOf(n, m)
		if !ok {
			continue
		}
		if p.anyDeleted(slices.Collect(maps.Keys(index().CisTrans[t].Atoms()))) {
			e.Bond.Stereo = mol.SignNone
			p.marks.bonds = append(p.marks.bonds, [2]int{n, m})
		}
	}
}

func (p *patcher) anyDeleted(ids []int) bool {
	return slices.ContainsFunc(ids, p.isDeleted)
}

// complete fills in missing hydrogen counts and recomputes derived labels.
func (p *patcher) complete() error {
	for _, n := range p.out.Atoms() {
		a, _ := p.out.Atom(n)
		if a.HydrogensKnown() {
			continue
		}
		h, err := p.r.tk.ImplicitHydrogens(p.out, n)
		if err != nil {
			return errors.Wrap(errors.ErrCodeToolkit, err, "implicit hydrogens of atom %d", n)
		}
		a.Hydrogens = h
	}
	p.r.tk.Relabel(p.out)
	return nil
}

func (p *patcher) isPatched(n int) bool {
	_, ok := p.patched[n]
	return ok
}

func (p *patcher) isDeleted(n int) bool {
	_, ok := p.deleted[n]
	return ok
}
