package reactor

import (
	"slices"

	"github.com/matzehuels/molpatch/pkg/core/mol"
	"github.com/matzehuels/molpatch/pkg/errors"
)

// AtomKind selects how a template atom is turned into an output atom.
type AtomKind int

const (
	// KindAny keeps the host element and isotope and only applies the template's
	// charge and radical state. The atom must be mapped.
	KindAny AtomKind = iota + 1

	// KindQuery is a single-element query atom. Unmapped query atoms become fresh
	// atoms and may list at most one hydrogen count.
	KindQuery

	// KindElement is a concrete atom of a concrete template.
	KindElement
)

// String returns the lower-case kind name.
func (k AtomKind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindQuery:
		return "query"
	case KindElement:
		return "element"
	}
	return "unknown"
}

// ParseAtomKind parses the output of [AtomKind.String].
func ParseAtomKind(s string) (AtomKind, error) {
	switch s {
	case "any":
		return KindAny, nil
	case "query":
		return KindQuery, nil
	case "element":
		return KindElement, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidTemplate, "unknown atom kind %q", s)
}

// TemplateAtom is one atom of a replacement template.
type TemplateAtom struct {
	ID           int
	Kind         AtomKind
	AtomicNumber int // ignored for KindAny
	Isotope      int // ignored for KindAny
	Charge       int
	Radical      bool
	Stereo       mol.Sign

	// Hydrogens lists the allowed implicit hydrogen counts. Empty means the
	// count is computed after patching.
	Hydrogens []int

	X, Y float64
}

// TemplateBond is one bond of a replacement template. Orders must hold exactly one
// value; queries allowing several orders cannot be materialized.
type TemplateBond struct {
	From, To int
	Orders   []mol.BondOrder
	Stereo   mol.Sign
}

// Template is the replacement fragment written over the host. Atoms and bonds are
// processed in slice order, which fixes the neighbor order of patched atoms and the
// allocation order of fresh atom ids.
type Template struct {
	// Query marks a query template: only KindAny and KindQuery atoms are allowed.
	// Concrete templates hold KindElement atoms only.
	Query bool
	Atoms []TemplateAtom
	Bonds []TemplateBond
}

// Atom returns the template atom with the given id.
func (t *Template) Atom(id int) (TemplateAtom, bool) {
	for _, a := range t.Atoms {
		if a.ID == id {
			return a, true
		}
	}
	return TemplateAtom{}, false
}

// clone returns a deep copy of t.
func (t Template) clone() Template {
	c := Template{
		Query: t.Query,
		Atoms: make([]TemplateAtom, len(t.Atoms)),
		Bonds: make([]TemplateBond, len(t.Bonds)),
	}
	for i, a := range t.Atoms {
		a.Hydrogens = slices.Clone(a.Hydrogens)
		c.Atoms[i] = a
	}
	for i, b := range t.Bonds {
		b.Orders = slices.Clone(b.Orders)
		c.Bonds[i] = b
	}
	return c
}

// validate checks that every atom and bond of t can be materialized.
func (t *Template) validate() error {
	ids := make(map[int]struct{}, len(t.Atoms))
	for _, a := range t.Atoms {
		if err := errors.ValidateAtomID(a.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "template atom")
		}
		if _, dup := ids[a.ID]; dup {
			return errors.New(errors.ErrCodeInvalidTemplate, "duplicate template atom %d", a.ID)
		}
		ids[a.ID] = struct{}{}
		if err := t.validateAtom(a); err != nil {
			return err
		}
	}

	pairs := make(map[[2]int]struct{}, len(t.Bonds))
	for _, b := range t.Bonds {
		if _, ok := ids[b.From]; !ok {
			return errors.New(errors.ErrCodeInvalidTemplate, "bond %d-%d refers to unknown atom %d", b.From, b.To, b.From)
		}
		if _, ok := ids[b.To]; !ok {
			return errors.New(errors.ErrCodeInvalidTemplate, "bond %d-%d refers to unknown atom %d", b.From, b.To, b.To)
		}
		if b.From == b.To {
			return errors.New(errors.ErrCodeInvalidTemplate, "bond %d-%d is a loop", b.From, b.To)
		}
		k := [2]int{min(b.From, b.To), max(b.From, b.To)}
		if _, dup := pairs[k]; dup {
			return errors.New(errors.ErrCodeInvalidTemplate, "duplicate template bond %d-%d", b.From, b.To)
		}
		pairs[k] = struct{}{}
		if len(b.Orders) != 1 {
			return errors.New(errors.ErrCodeVariableBond, "bond %d-%d allows %d orders, need exactly 1", b.From, b.To, len(b.Orders))
		}
		if !b.Orders[0].Valid() {
			return errors.New(errors.ErrCodeInvalidTemplate, "bond %d-%d has invalid order %d", b.From, b.To, b.Orders[0])
		}
	}
	return nil
}

func (t *Template) validateAtom(a TemplateAtom) error {
	switch a.Kind {
	case KindAny:
		if !t.Query {
			return errors.New(errors.ErrCodeInvalidTemplate, "atom %d: any-element atoms need a query template", a.ID)
		}
	case KindQuery:
		if !t.Query {
			return errors.New(errors.ErrCodeInvalidTemplate, "atom %d: query atoms need a query template", a.ID)
		}
		if mol.Symbol(a.AtomicNumber) == "?" {
			return errors.New(errors.ErrCodeInvalidTemplate, "atom %d: unknown atomic number %d", a.ID, a.AtomicNumber)
		}
	case KindElement:
		if t.Query {
			return errors.New(errors.ErrCodeInvalidTemplate, "atom %d: element atoms are not allowed in query templates", a.ID)
		}
		if mol.Symbol(a.AtomicNumber) == "?" {
			return errors.New(errors.ErrCodeInvalidTemplate, "atom %d: unknown atomic number %d", a.ID, a.AtomicNumber)
		}
		if len(a.Hydrogens) > 1 {
			return errors.New(errors.ErrCodeInvalidTemplate, "atom %d: element atoms take one hydrogen count, got %d", a.ID, len(a.Hydrogens))
		}
	default:
		return errors.New(errors.ErrCodeInvalidTemplate, "atom %d: unsupported atom kind %d", a.ID, int(a.Kind))
	}
	for _, h := range a.Hydrogens {
		if h < 0 {
			return errors.New(errors.ErrCodeInvalidTemplate, "atom %d: negative hydrogen count %d", a.ID, h)
		}
	}
	return nil
}

// PatternAtom is one atom of the matched pattern. Masked atoms are matched but are
// never deleted.
type PatternAtom struct {
	ID     int
	Masked bool
}

// Pattern is the matched side of a reaction. Only atom identity matters to the
// reactor; matching itself happens elsewhere.
type Pattern struct {
	Atoms []PatternAtom
}
