package expr

import "github.com/adrian-randa/otr/value"

// ValueExpression wraps an already-known literal value.
type ValueExpression struct {
	Value value.Value
}

func (e ValueExpression) Eval(ev Evaluator) (value.Value, error) { return e.Value, nil }

// VariableExpression reads a scope address with move-on-read semantics for
// a terminal Struct.
type VariableExpression struct {
	Address ScopeAddress
}

func (e VariableExpression) Eval(ev Evaluator) (value.Value, error) {
	return ev.ReadAddress(e.Address)
}

// RefExpression produces a non-owning StructRef observing a struct-valued
// binding without moving it.
type RefExpression struct {
	Address ScopeAddress
}

func (e RefExpression) Eval(ev Evaluator) (value.Value, error) {
	return ev.ReadAddressRef(e.Address)
}

// CloneExpression deep-copies a struct-valued binding's contents without
// disturbing the source.
type CloneExpression struct {
	Address ScopeAddress
}

func (e CloneExpression) Eval(ev Evaluator) (value.Value, error) {
	return ev.ReadAddressClone(e.Address)
}

// ProcedureCallExpression invokes a module-qualified procedure, evaluating
// its arguments left-to-right before the call.
type ProcedureCallExpression struct {
	Target    value.ModuleAddress
	Arguments []Expression
}

func (e ProcedureCallExpression) Eval(ev Evaluator) (value.Value, error) {
	args := make([]value.Value, len(e.Arguments))
	for i, arg := range e.Arguments {
		v, err := arg.Eval(ev)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}
	return ev.CallProcedure(e.Target, args)
}

// FieldOverride is one `name: expr` pair in a struct construction literal.
type FieldOverride struct {
	Name string
	Expr Expression
}

// StructConstructionExpression instantiates a module-qualified struct
// prototype, evaluating field overrides in source order.
type StructConstructionExpression struct {
	Target        value.ModuleAddress
	FieldOverrides []FieldOverride
}

func (e StructConstructionExpression) Eval(ev Evaluator) (value.Value, error) {
	overrides := make([]value.FieldOverrideValue, len(e.FieldOverrides))
	for i, ov := range e.FieldOverrides {
		v, err := ov.Expr.Eval(ev)
		if err != nil {
			return value.Value{}, err
		}
		overrides[i] = value.FieldOverrideValue{Name: ov.Name, Value: v}
	}
	return ev.ConstructStruct(e.Target, overrides)
}

// binaryOp is the shared shape of the arithmetic/boolean/comparison nodes:
// evaluate both operands left-to-right, then dispatch to a value-package
// operator function.
type binaryOp struct {
	Lhs, Rhs Expression
	apply    func(lhs, rhs value.Value) (value.Value, error)
}

func (e binaryOp) Eval(ev Evaluator) (value.Value, error) {
	lhs, err := e.Lhs.Eval(ev)
	if err != nil {
		return value.Value{}, err
	}
	rhs, err := e.Rhs.Eval(ev)
	if err != nil {
		return value.Value{}, err
	}
	return e.apply(lhs, rhs)
}

func NewAddExpression(lhs, rhs Expression) Expression {
	return binaryOp{Lhs: lhs, Rhs: rhs, apply: value.Add}
}

func NewSubtractExpression(lhs, rhs Expression) Expression {
	return binaryOp{Lhs: lhs, Rhs: rhs, apply: value.Subtract}
}

func NewMultiplyExpression(lhs, rhs Expression) Expression {
	return binaryOp{Lhs: lhs, Rhs: rhs, apply: value.Multiply}
}

func NewDivideExpression(lhs, rhs Expression) Expression {
	return binaryOp{Lhs: lhs, Rhs: rhs, apply: value.Divide}
}

func NewModuloExpression(lhs, rhs Expression) Expression {
	return binaryOp{Lhs: lhs, Rhs: rhs, apply: value.Modulo}
}

func NewPowerExpression(lhs, rhs Expression) Expression {
	return binaryOp{Lhs: lhs, Rhs: rhs, apply: value.Power}
}

func NewAndExpression(lhs, rhs Expression) Expression {
	return binaryOp{Lhs: lhs, Rhs: rhs, apply: value.And}
}

func NewOrExpression(lhs, rhs Expression) Expression {
	return binaryOp{Lhs: lhs, Rhs: rhs, apply: value.Or}
}

func NewEqualityExpression(lhs, rhs Expression) Expression {
	return binaryOp{Lhs: lhs, Rhs: rhs, apply: value.Equality}
}

func NewGreaterThanExpression(lhs, rhs Expression) Expression {
	return binaryOp{Lhs: lhs, Rhs: rhs, apply: value.GreaterThan}
}

// NotExpression negates a Bool operand; a binary Inequality/LessEquals/
// GreaterEquals is expressed as a composition of NotExpression with
// Equality/GreaterThan per the derived-operator rule (Less is GreaterThan
// with its operands swapped, without a NotExpression).
type NotExpression struct {
	Inner Expression
}

func (e NotExpression) Eval(ev Evaluator) (value.Value, error) {
	v, err := e.Inner.Eval(ev)
	if err != nil {
		return value.Value{}, err
	}
	return value.Not(v)
}
