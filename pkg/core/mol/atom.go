package mol

import "fmt"

// HydrogensUnknown marks an implicit hydrogen count that still has to be computed.
const HydrogensUnknown = -1

// Sign is a stereo label: tetrahedral or allene parity for atoms, cis/trans parity
// for bonds. The zero value means no label.
type Sign int8

const (
	SignNone     Sign = 0
	SignPositive Sign = 1
	SignNegative Sign = -1
)

// IsSet reports whether s carries a label.
func (s Sign) IsSet() bool { return s != SignNone }

// Flip returns the opposite parity. Flipping SignNone yields SignNone.
func (s Sign) Flip() Sign { return -s }

// String returns "+", "-" or "" for SignNone.
func (s Sign) String() string {
	switch s {
	case SignPositive:
		return "+"
	case SignNegative:
		return "-"
	default:
		return ""
	}
}

// ParseSign parses the output of [Sign.String]. The long forms "positive" and
// "negative" are accepted as well.
func ParseSign(s string) (Sign, error) {
	switch s {
	case "":
		return SignNone, nil
	case "+", "positive":
		return SignPositive, nil
	case "-", "negative":
		return SignNegative, nil
	}
	return SignNone, fmt.Errorf("invalid stereo sign %q", s)
}

// BondOrder is the multiplicity of a bond.
type BondOrder int

const (
	Single   BondOrder = 1
	Double   BondOrder = 2
	Triple   BondOrder = 3
	Aromatic BondOrder = 4
)

// Valid reports whether o is one of the known orders.
func (o BondOrder) Valid() bool { return o >= Single && o <= Aromatic }

// Hybridization is a derived atom label computed from bond orders.
type Hybridization int

const (
	HybridizationUnknown Hybridization = iota
	SP3
	SP2
	SP
	HybridizationAromatic
)

// Atom is a vertex of a molecular graph.
//
// Degree and Hybridization are derived labels. They are only meaningful after a
// toolkit has relabelled the graph and are never serialized.
type Atom struct {
	AtomicNumber int
	Isotope      int // 0 means natural abundance
	Charge       int
	Radical      bool
	Hydrogens    int // implicit hydrogen count or HydrogensUnknown
	Stereo       Sign
	X, Y         float64

	Degree        int
	Hybridization Hybridization
}

// Bare returns a copy of a without its hydrogen count, stereo label and derived
// labels. Element identity, charge, radical state and coordinates are kept.
func (a Atom) Bare() Atom {
	return Atom{
		AtomicNumber: a.AtomicNumber,
		Isotope:      a.Isotope,
		Charge:       a.Charge,
		Radical:      a.Radical,
		Hydrogens:    HydrogensUnknown,
		X:            a.X,
		Y:            a.Y,
	}
}

// HydrogensKnown reports whether the implicit hydrogen count has been determined.
func (a *Atom) HydrogensKnown() bool { return a.Hydrogens != HydrogensUnknown }

// Symbol returns the element symbol of the atom.
func (a *Atom) Symbol() string { return Symbol(a.AtomicNumber) }

// Bond is an undirected edge of a molecular graph.
type Bond struct {
	Order  BondOrder
	Stereo Sign
}

// Bare returns a copy of b without its stereo label.
func (b Bond) Bare() Bond { return Bond{Order: b.Order} }
