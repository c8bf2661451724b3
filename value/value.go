/*
Package value defines the runtime value model: a tagged union over
Null/Integer/Float/String/Char/Bool/Array/Struct/StructRef, the struct
cell that carries move/reference/clone ownership semantics, and the
ModuleAddress used to name cross-module procedures and struct prototypes.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 The otr authors.
*/
package value

import (
	"bytes"
	"fmt"

	"github.com/cnf/structhash"
)

// Kind tags which variant of Value is populated.
type Kind int

const (
	NullKind Kind = iota
	IntegerKind
	FloatKind
	StringKind
	CharKind
	BoolKind
	ArrayKind
	StructKind
	StructRefKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "Null"
	case IntegerKind:
		return "Integer"
	case FloatKind:
		return "Float"
	case StringKind:
		return "String"
	case CharKind:
		return "Char"
	case BoolKind:
		return "Bool"
	case ArrayKind:
		return "Array"
	case StructKind:
		return "Struct"
	case StructRefKind:
		return "StructRef"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is the tagged union every expression evaluates to and every scope
// binding holds. Exactly one payload field is meaningful, selected by Kind:
// Int/Flt/Str/Ch/Bool for scalars, Arr for Array, Cell for Struct/StructRef.
type Value struct {
	Kind Kind
	Int  int64
	Flt  float64
	Str  string
	Ch   rune
	Bool bool
	Arr  []Value
	Cell *StructCell
}

func Null() Value                { return Value{Kind: NullKind} }
func Integer(i int64) Value      { return Value{Kind: IntegerKind, Int: i} }
func Float(f float64) Value      { return Value{Kind: FloatKind, Flt: f} }
func String(s string) Value      { return Value{Kind: StringKind, Str: s} }
func Char(r rune) Value          { return Value{Kind: CharKind, Ch: r} }
func Bool(b bool) Value          { return Value{Kind: BoolKind, Bool: b} }
func Array(elems []Value) Value  { return Value{Kind: ArrayKind, Arr: elems} }

// TypeID names the type tag the way runtime error messages report it.
func (v Value) TypeID() string { return v.Kind.String() }

// DeepClone returns a value-copy-semantics snapshot of v: scalars copy
// trivially, arrays are recursively deep-copied (including struct elements,
// which are cloned rather than moved so the source array is left intact),
// and a Struct/StructRef deep-copies its cell's contents. Fails only if a
// nested Struct cell has already been moved out.
func (v Value) DeepClone() (Value, error) {
	switch v.Kind {
	case ArrayKind:
		cloned := make([]Value, len(v.Arr))
		for i, e := range v.Arr {
			c, err := e.DeepClone()
			if err != nil {
				return Value{}, err
			}
			cloned[i] = c
		}
		return Array(cloned), nil
	case StructKind, StructRefKind:
		newCell, err := v.Cell.Clone()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: StructKind, Cell: newCell}, nil
	default:
		return v, nil
	}
}

// Equal implements the structural/identity equality rules: structural for
// scalars and arrays, identity-based for StructRef, structural through the
// cell for Struct.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case NullKind:
		return true
	case IntegerKind:
		return v.Int == other.Int
	case FloatKind:
		return v.Flt == other.Flt
	case StringKind:
		return v.Str == other.Str
	case CharKind:
		return v.Ch == other.Ch
	case BoolKind:
		return v.Bool == other.Bool
	case ArrayKind:
		if len(v.Arr) != len(other.Arr) {
			return false
		}
		return bytes.Equal(structhash.Sha1(canonicalize(v), 1), structhash.Sha1(canonicalize(other), 1))
	case StructRefKind:
		return v.Cell == other.Cell
	case StructKind:
		return bytes.Equal(structhash.Sha1(canonicalize(v), 1), structhash.Sha1(canonicalize(other), 1))
	default:
		return false
	}
}

// canonical is a cycle-free projection of a Value suitable for hashing: it
// mirrors Value's shape but dereferences the struct cell's contents by
// value so structhash.Sha1 sees the cell's fields rather than its address.
type canonical struct {
	Kind Kind
	Int  int64
	Flt  float64
	Str  string
	Ch   rune
	Bool bool
	Arr  []canonical
	Cell *canonicalCell
}

type canonicalCell struct {
	Prototype ModuleAddress
	Moved     bool
	Order     []string
	Fields    map[string]canonicalMember
}

type canonicalMember struct {
	IsPublic bool
	Value    canonical
}

func canonicalize(v Value) canonical {
	c := canonical{Kind: v.Kind, Int: v.Int, Flt: v.Flt, Str: v.Str, Ch: v.Ch, Bool: v.Bool}
	if v.Arr != nil {
		c.Arr = make([]canonical, len(v.Arr))
		for i, e := range v.Arr {
			c.Arr[i] = canonicalize(e)
		}
	}
	if v.Cell != nil {
		cc := &canonicalCell{Prototype: v.Cell.Prototype}
		if v.Cell.contents == nil {
			cc.Moved = true
		} else {
			cc.Order = append([]string(nil), v.Cell.contents.order...)
			cc.Fields = make(map[string]canonicalMember, len(v.Cell.contents.fields))
			for k, m := range v.Cell.contents.fields {
				cc.Fields[k] = canonicalMember{IsPublic: m.IsPublic, Value: canonicalize(m.Value)}
			}
		}
		c.Cell = cc
	}
	return c
}

func (v Value) String() string {
	switch v.Kind {
	case NullKind:
		return "Null"
	case IntegerKind:
		return fmt.Sprintf("Integer(%d)", v.Int)
	case FloatKind:
		return fmt.Sprintf("Float(%g)", v.Flt)
	case StringKind:
		return fmt.Sprintf("String(%q)", v.Str)
	case CharKind:
		return fmt.Sprintf("Char(%q)", v.Ch)
	case BoolKind:
		return fmt.Sprintf("Bool(%v)", v.Bool)
	case ArrayKind:
		return fmt.Sprintf("Array%v", v.Arr)
	case StructKind:
		return fmt.Sprintf("Struct(%s)", v.Cell.Prototype)
	case StructRefKind:
		return fmt.Sprintf("StructRef(%s)", v.Cell.Prototype)
	default:
		return "Value(?)"
	}
}
