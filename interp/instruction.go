package interp

import (
	"github.com/adrian-randa/otr/expr"
	"github.com/adrian-randa/otr/value"
)

// InstructionKind tags which variant of Instruction is populated.
type InstructionKind int

const (
	PushVarToScope InstructionKind = iota
	PopVarFromScope
	GrowStack
	ShrinkStack
	EvaluateExpression
	JumpConditional
	Return
)

// Instruction is the flat, jump-addressed bytecode a CompiledProcedure
// executes. Exactly the fields relevant to Kind are meaningful:
//
//   - PushVarToScope/PopVarFromScope use Ident.
//   - GrowStack/ShrinkStack use neither.
//   - EvaluateExpression uses Expr, and Target/HasTarget if the result is
//     written to a scope address.
//   - JumpConditional uses Expr (the condition) and JumpTarget.
//   - Return uses Expr.
type Instruction struct {
	Kind       InstructionKind
	Ident      string
	Expr       expr.Expression
	Target     expr.ScopeAddress
	HasTarget  bool
	JumpTarget int
}

// Procedure is anything callable by (module, name): a compiled, user-defined
// procedure or a built-in.
type Procedure interface {
	Call(env *Environment, args []value.Value) (value.Value, error)
}

// BuiltinFunc is the signature a built-in module's procedures implement.
type BuiltinFunc func(env *Environment, args []value.Value) (value.Value, error)

// BuiltinProcedure adapts a BuiltinFunc to the Procedure interface.
type BuiltinProcedure struct {
	Fn BuiltinFunc
}

func (b BuiltinProcedure) Call(env *Environment, args []value.Value) (value.Value, error) {
	return b.Fn(env, args)
}

// CompiledProcedure is a user-defined procedure: its ordered argument
// identifiers plus the flat instruction list the procedure builder produced.
type CompiledProcedure struct {
	Name         string
	Args         []string
	Instructions []Instruction
}
