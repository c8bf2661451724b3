/*
Package expr defines the expression tree node set and the precedence-
climbing parser that builds trees from a token slice. Expressions are
polymorphic over Eval(Evaluator); Evaluator is declared here rather than
in package interp so that this package never needs to import interp.
interp.Environment is the canonical implementation.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 The otr authors.
*/
package expr

import (
	"github.com/adrian-randa/otr/value"
)

// Evaluator is the runtime context an Expression evaluates against. It is
// implemented by interp.Environment; declaring it here (instead of
// depending on interp directly) keeps expr free of a package cycle.
type Evaluator interface {
	// ReadAddress bakes addr, resolves it, and returns its value with
	// value-copy/move semantics applied at the terminal addressant.
	ReadAddress(addr ScopeAddress) (value.Value, error)
	// ReadAddressRef resolves addr and returns a non-moving StructRef
	// observing the terminal Struct cell.
	ReadAddressRef(addr ScopeAddress) (value.Value, error)
	// ReadAddressClone resolves addr and returns a deep clone of the
	// terminal value without disturbing the source.
	ReadAddressClone(addr ScopeAddress) (value.Value, error)
	// WriteAddress bakes addr, resolves it, and overwrites its terminal
	// slot with v.
	WriteAddress(addr ScopeAddress, v value.Value) error
	// CallProcedure evaluates a call to the named procedure with already-
	// evaluated arguments.
	CallProcedure(target value.ModuleAddress, args []value.Value) (value.Value, error)
	// ConstructStruct instantiates the named struct prototype with
	// already-evaluated field overrides, in source order.
	ConstructStruct(target value.ModuleAddress, overrides []value.FieldOverrideValue) (value.Value, error)
}

// Expression is the closed node-kind interface every expression tree node
// implements: value literal, variable, reference, clone, procedure call,
// struct construction, binary-arith, binary-bool, equality, greater-than,
// not.
type Expression interface {
	Eval(ev Evaluator) (value.Value, error)
}
