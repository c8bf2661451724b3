package expr

import (
	"fmt"

	"github.com/adrian-randa/otr/value"
)

// AddressantKind tags which variant of Addressant is populated.
type AddressantKind int

const (
	AddrIdentifier AddressantKind = iota
	AddrIndex
	AddrDynamicIndex
)

// Addressant is one step in a ScopeAddress: a named identifier (the base
// variable, or a struct field name), a static array index, or a dynamic
// index expression that bakes to a static one.
type Addressant struct {
	Kind        AddressantKind
	Name        string
	Index       int
	DynamicExpr Expression
}

func Identifier(name string) Addressant      { return Addressant{Kind: AddrIdentifier, Name: name} }
func Index(i int) Addressant                 { return Addressant{Kind: AddrIndex, Index: i} }
func DynamicIndex(e Expression) Addressant   { return Addressant{Kind: AddrDynamicIndex, DynamicExpr: e} }

// ScopeAddress is a non-empty ordered sequence of addressants starting with
// an identifier, resolving a nested location in the scope stack.
type ScopeAddress []Addressant

// BakedScopeAddress is a ScopeAddress with every DynamicIndex resolved to a
// static Index.
type BakedScopeAddress []Addressant

// Bake evaluates each DynamicIndex addressant to an Integer via ev and
// converts it to a static Index, failing if the value is not a
// non-negative integer.
func (a ScopeAddress) Bake(ev Evaluator) (BakedScopeAddress, error) {
	if len(a) == 0 {
		return nil, fmt.Errorf("empty scope address")
	}
	baked := make(BakedScopeAddress, len(a))
	for i, addressant := range a {
		switch addressant.Kind {
		case AddrDynamicIndex:
			v, err := addressant.DynamicExpr.Eval(ev)
			if err != nil {
				return nil, err
			}
			if v.Kind != value.IntegerKind || v.Int < 0 {
				return nil, fmt.Errorf("dynamic index must evaluate to a non-negative integer, found %s", v.TypeID())
			}
			baked[i] = Index(int(v.Int))
		default:
			baked[i] = addressant
		}
	}
	return baked, nil
}
