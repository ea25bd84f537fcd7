package bound

import "github.com/risor-io/quill/symbols"

// Conversion describes whether and how a value of one type converts to
// another.
type Conversion struct {
	Exists     bool
	IsIdentity bool
	IsImplicit bool
}

// IsExplicit reports whether the conversion requires an explicit call.
func (c Conversion) IsExplicit() bool {
	return c.Exists && !c.IsImplicit
}

var (
	noConversion       = Conversion{}
	identityConversion = Conversion{Exists: true, IsIdentity: true, IsImplicit: true}
	implicitConversion = Conversion{Exists: true, IsImplicit: true}
	explicitConversion = Conversion{Exists: true}
)

// ClassifyConversion reports how from converts to to.
//
// Every type converts to itself and implicitly to any. any, bool and int
// convert explicitly to and from string, and any converts explicitly to
// every other named type.
func ClassifyConversion(from, to *symbols.TypeSymbol) Conversion {
	if from == to {
		return identityConversion
	}
	if from != symbols.TypeVoid && to == symbols.TypeAny {
		return implicitConversion
	}
	if from == symbols.TypeAny && to != symbols.TypeVoid {
		return explicitConversion
	}
	if from == symbols.TypeBool || from == symbols.TypeInt {
		if to == symbols.TypeString {
			return explicitConversion
		}
	}
	if from == symbols.TypeString {
		if to == symbols.TypeBool || to == symbols.TypeInt {
			return explicitConversion
		}
	}
	return noConversion
}
