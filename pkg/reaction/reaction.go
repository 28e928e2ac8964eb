// Package reaction loads reaction definitions from TOML files.
//
// A definition names the matched pattern atoms, the replacement template and the
// reactor flags. It is the on-disk form of a [reactor.Reactor]:
//
//	name = "hydroxylation"
//	delete_atoms = true
//
//	[[pattern]]
//	id = 1
//
//	[[pattern]]
//	id = 2
//
//	[template]
//	query = true
//
//	[[template.atoms]]
//	id = 1
//	kind = "any"
//
//	[[template.atoms]]
//	id = 3
//	element = "O"
//
//	[[template.bonds]]
//	from = 1
//	to = 3
//	order = 1
//
// Template atoms default to kind "query" in query templates and "element"
// otherwise. Bonds take either a single order or an orders list; lists with
// other than one entry are rejected when the reactor is built.
package reaction

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/molpatch/pkg/core/mol"
	"github.com/matzehuels/molpatch/pkg/core/reactor"
	"github.com/matzehuels/molpatch/pkg/errors"
)

// DefaultDeleteAtoms is used when a definition does not set delete_atoms.
const DefaultDeleteAtoms = true

// Definition is a decoded reaction file.
type Definition struct {
	Name         string        `toml:"name"`
	Description  string        `toml:"description"`
	DeleteAtoms  *bool         `toml:"delete_atoms"`
	FixRings     bool          `toml:"fix_rings"`
	FixTautomers bool          `toml:"fix_tautomers"`
	Pattern      []PatternAtom `toml:"pattern"`
	Template     Template      `toml:"template"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// PatternAtom is one matched atom.
type PatternAtom struct {
	ID     int  `toml:"id"`
	Masked bool `toml:"masked"`
}

// Template is the replacement fragment.
type Template struct {
	Query bool   `toml:"query"`
	Atoms []Atom `toml:"atoms"`
	Bonds []Bond `toml:"bonds"`
}

// Atom is one template atom. Element is ignored for kind "any".
type Atom struct {
	ID        int     `toml:"id"`
	Kind      string  `toml:"kind"`
	Element   string  `toml:"element"`
	Isotope   int     `toml:"isotope"`
	Charge    int     `toml:"charge"`
	Radical   bool    `toml:"radical"`
	Stereo    string  `toml:"stereo"`
	Hydrogens []int   `toml:"hydrogens"`
	X         float64 `toml:"x"`
	Y         float64 `toml:"y"`
}

// Bond is one template bond.
type Bond struct {
	From   int    `toml:"from"`
	To     int    `toml:"to"`
	Order  int    `toml:"order"`
	Orders []int  `toml:"orders"`
	Stereo string `toml:"stereo"`
}

// =============================================================================
// Loading
// =============================================================================

// LoadFile reads and validates a reaction definition.
func LoadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "reaction file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a reaction definition. Unknown keys are rejected.
func Load(r io.Reader) (*Definition, error) {
	var d Definition
	meta, err := toml.NewDecoder(r).Decode(&d)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode reaction")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := d.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ValidateAndSetDefaults checks the name and fills in default kinds and flags.
// This method is idempotent.
func (d *Definition) ValidateAndSetDefaults() error {
	if d.validated {
		return nil
	}
	if err := errors.ValidateReactionName(d.Name); err != nil {
		return err
	}
	if d.DeleteAtoms == nil {
		v := DefaultDeleteAtoms
		d.DeleteAtoms = &v
	}
	for i := range d.Template.Atoms {
		a := &d.Template.Atoms[i]
		if a.Kind != "" {
			continue
		}
		if d.Template.Query {
			a.Kind = reactor.KindQuery.String()
		} else {
			a.Kind = reactor.KindElement.String()
		}
	}
	d.validated = true
	return nil
}

// =============================================================================
// Reactor Construction
// =============================================================================

// Reactor builds a reactor from the definition. Flags from the file come first so
// that opts can override them.
func (d *Definition) Reactor(opts ...reactor.Option) (*reactor.Reactor, error) {
	if err := d.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	template, err := d.template()
	if err != nil {
		return nil, err
	}
	all := append([]reactor.Option{
		reactor.WithDeleteAtoms(*d.DeleteAtoms),
		reactor.WithFixRings(d.FixRings),
		reactor.WithFixTautomers(d.FixTautomers),
	}, opts...)
	r, err := reactor.New(d.pattern(), template, all...)
	if err != nil {
		return nil, fmt.Errorf("reaction %q: %w", d.Name, err)
	}
	return r, nil
}

func (d *Definition) pattern() reactor.Pattern {
	p := reactor.Pattern{Atoms: make([]reactor.PatternAtom, len(d.Pattern))}
	for i, a := range d.Pattern {
		p.Atoms[i] = reactor.PatternAtom{ID: a.ID, Masked: a.Masked}
	}
	return p
}

func (d *Definition) template() (reactor.Template, error) {
	t := reactor.Template{
		Query: d.Template.Query,
		Atoms: make([]reactor.TemplateAtom, 0, len(d.Template.Atoms)),
		Bonds: make([]reactor.TemplateBond, 0, len(d.Template.Bonds)),
	}
	for _, a := range d.Template.Atoms {
		ta, err := a.toTemplate()
		if err != nil {
			return reactor.Template{}, err
		}
		t.Atoms = append(t.Atoms, ta)
	}
	for _, b := range d.Template.Bonds {
		tb, err := b.toTemplate()
		if err != nil {
			return reactor.Template{}, err
		}
		t.Bonds = append(t.Bonds, tb)
	}
	return t, nil
}

func (a Atom) toTemplate() (reactor.TemplateAtom, error) {
	kind, err := reactor.ParseAtomKind(a.Kind)
	if err != nil {
		return reactor.TemplateAtom{}, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "atom %d", a.ID)
	}
	sign, err := mol.ParseSign(a.Stereo)
	if err != nil {
		return reactor.TemplateAtom{}, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "atom %d", a.ID)
	}
	ta := reactor.TemplateAtom{
		ID:        a.ID,
		Kind:      kind,
		Isotope:   a.Isotope,
		Charge:    a.Charge,
		Radical:   a.Radical,
		Stereo:    sign,
		Hydrogens: slices.Clone(a.Hydrogens),
		X:         a.X,
		Y:         a.Y,
	}
	if kind != reactor.KindAny {
		z, ok := mol.AtomicNumber(a.Element)
		if !ok {
			return reactor.TemplateAtom{}, errors.New(errors.ErrCodeInvalidTemplate, "atom %d: unknown element %q", a.ID, a.Element)
		}
		ta.AtomicNumber = z
	}
	return ta, nil
}

func (b Bond) toTemplate() (reactor.TemplateBond, error) {
	sign, err := mol.ParseSign(b.Stereo)
	if err != nil {
		return reactor.TemplateBond{}, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "bond %d-%d", b.From, b.To)
	}
	orders := b.Orders
	if b.Order != 0 {
		if len(orders) > 0 {
			return reactor.TemplateBond{}, errors.New(errors.ErrCodeInvalidTemplate, "bond %d-%d sets both order and orders", b.From, b.To)
		}
		orders = []int{b.Order}
	}
	tb := reactor.TemplateBond{From: b.From, To: b.To, Stereo: sign}
	for _, o := range orders {
		tb.Orders = append(tb.Orders, mol.BondOrder(o))
	}
	return tb, nil
}

// =============================================================================
// Summary
// =============================================================================

// Summary describes what a definition does to a matched site.
type Summary struct {
	PatternAtoms  int
	TemplateAtoms int
	TemplateBonds int

	// Removed lists unmasked pattern atoms absent from the template.
	Removed []int

	// Fresh lists template atoms absent from the pattern; they become new atoms.
	Fresh []int

	// Masked lists pattern atoms that are never deleted.
	Masked []int
}

// Summarize computes the summary of d.
func (d *Definition) Summarize() Summary {
	s := Summary{
		PatternAtoms:  len(d.Pattern),
		TemplateAtoms: len(d.Template.Atoms),
		TemplateBonds: len(d.Template.Bonds),
	}
	inTemplate := make(map[int]bool, len(d.Template.Atoms))
	for _, a := range d.Template.Atoms {
		inTemplate[a.ID] = true
	}
	inPattern := make(map[int]bool, len(d.Pattern))
	for _, a := range d.Pattern {
		inPattern[a.ID] = true
		switch {
		case a.Masked:
			s.Masked = append(s.Masked, a.ID)
		case !inTemplate[a.ID]:
			s.Removed = append(s.Removed, a.ID)
		}
	}
	for _, a := range d.Template.Atoms {
		if !inPattern[a.ID] {
			s.Fresh = append(s.Fresh, a.ID)
		}
	}
	slices.Sort(s.Removed)
	slices.Sort(s.Fresh)
	slices.Sort(s.Masked)
	return s
}
