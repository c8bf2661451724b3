/*
Package interp implements the runtime: Environment (loaded modules plus a
scope stack), the Instruction set a CompiledProcedure executes, and the
cross-module visibility checks that gate struct field and procedure
access. Environment implements expr.Evaluator so expression trees can
evaluate without package expr depending on interp.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 The otr authors.
*/
package interp

import (
	"github.com/adrian-randa/otr/expr"
	"github.com/adrian-randa/otr/runtimeerr"
	"github.com/adrian-randa/otr/value"
)

// Environment is the execution context for one call frame: the module the
// currently-executing procedure belongs to (for visibility checks), the set
// of loaded modules (shared, read-only, by every Environment), and this
// call's own scope stack.
type Environment struct {
	ContainedModuleID string
	Modules           map[string]*Module
	Scope             *Scope
}

// NewEnvironment builds the root Environment a RuntimeObject executes
// against, with a fresh base scope.
func NewEnvironment(containedModuleID string, modules map[string]*Module) *Environment {
	return &Environment{
		ContainedModuleID: containedModuleID,
		Modules:           modules,
		Scope:             NewScope(),
	}
}

// callEnvironment opens a sub-environment for a procedure call: it inherits
// the loaded modules but starts a fresh scope and records the callee's
// module as ContainedModuleID, per the cross-module visibility rule.
func (e *Environment) callEnvironment(calleeModule string) *Environment {
	return &Environment{
		ContainedModuleID: calleeModule,
		Modules:           e.Modules,
		Scope:             NewScope(),
	}
}

// locate resolves a baked address to the in-place Value slot it names,
// walking the addressant chain: the first Identifier resolves in the scope
// stack, then each subsequent Index addresses into an Array (bounds-checked)
// and each subsequent Identifier addresses a Struct/StructRef field (same-
// module access sees all fields, cross-module access only public ones).
func (e *Environment) locate(baked expr.BakedScopeAddress) (*value.Value, error) {
	if len(baked) == 0 {
		return nil, runtimeerr.New("empty scope address")
	}
	first := baked[0]
	if first.Kind != expr.AddrIdentifier {
		return nil, runtimeerr.New("scope address must begin with an identifier")
	}
	cur, err := e.Scope.Lookup(first.Name)
	if err != nil {
		return nil, runtimeerr.Wrap(err)
	}

	for _, step := range baked[1:] {
		switch step.Kind {
		case expr.AddrIndex:
			if cur.Kind != value.ArrayKind {
				return nil, runtimeerr.New("type mismatch: cannot index into %s", cur.TypeID())
			}
			if step.Index < 0 || step.Index >= len(cur.Arr) {
				return nil, runtimeerr.New("index %d out of bounds (length %d)", step.Index, len(cur.Arr))
			}
			cur = &cur.Arr[step.Index]
		case expr.AddrIdentifier:
			if cur.Kind != value.StructKind && cur.Kind != value.StructRefKind {
				return nil, runtimeerr.New("type mismatch: cannot access field %q on %s", step.Name, cur.TypeID())
			}
			sameModule := cur.Cell.Prototype.Module == e.ContainedModuleID
			member, err := cur.Cell.Field(step.Name, sameModule)
			if err != nil {
				return nil, runtimeerr.Wrap(err)
			}
			cur = &member.Value
		default:
			return nil, runtimeerr.New("address contains an unbaked dynamic index")
		}
	}
	return cur, nil
}

// ReadAddress implements expr.Evaluator. A bare single-identifier address
// whose slot holds a Struct moves the value out of its cell, per the
// move-on-read ownership rule. An Array is returned as a deep clone. Any
// other read returns a copy of the slot, so a Struct reached through a
// field or index shares its cell with the slot rather than moving it.
func (e *Environment) ReadAddress(addr expr.ScopeAddress) (value.Value, error) {
	baked, err := addr.Bake(e)
	if err != nil {
		return value.Value{}, runtimeerr.Wrap(err)
	}
	slot, err := e.locate(baked)
	if err != nil {
		return value.Value{}, err
	}
	if len(baked) == 1 && slot.Kind == value.StructKind {
		newCell, err := slot.Cell.MoveOut()
		if err != nil {
			return value.Value{}, runtimeerr.Wrap(err)
		}
		return value.Value{Kind: value.StructKind, Cell: newCell}, nil
	}
	if slot.Kind == value.ArrayKind {
		cloned, err := slot.DeepClone()
		if err != nil {
			return value.Value{}, runtimeerr.Wrap(err)
		}
		return cloned, nil
	}
	return *slot, nil
}

// ReadAddressRef implements expr.Evaluator: produces a non-owning StructRef
// observing the terminal cell without moving it.
func (e *Environment) ReadAddressRef(addr expr.ScopeAddress) (value.Value, error) {
	baked, err := addr.Bake(e)
	if err != nil {
		return value.Value{}, runtimeerr.Wrap(err)
	}
	slot, err := e.locate(baked)
	if err != nil {
		return value.Value{}, err
	}
	if slot.Kind != value.StructKind && slot.Kind != value.StructRefKind {
		return value.Value{}, runtimeerr.New("cannot take a reference to a %s", slot.TypeID())
	}
	return slot.Cell.RefValue(), nil
}

// ReadAddressClone implements expr.Evaluator: deep-copies the terminal value
// without disturbing the source.
func (e *Environment) ReadAddressClone(addr expr.ScopeAddress) (value.Value, error) {
	baked, err := addr.Bake(e)
	if err != nil {
		return value.Value{}, runtimeerr.Wrap(err)
	}
	slot, err := e.locate(baked)
	if err != nil {
		return value.Value{}, err
	}
	cloned, err := slot.DeepClone()
	if err != nil {
		return value.Value{}, runtimeerr.Wrap(err)
	}
	return cloned, nil
}

// WriteAddress implements expr.Evaluator: bakes addr and overwrites its
// terminal slot with v.
func (e *Environment) WriteAddress(addr expr.ScopeAddress, v value.Value) error {
	baked, err := addr.Bake(e)
	if err != nil {
		return runtimeerr.Wrap(err)
	}
	slot, err := e.locate(baked)
	if err != nil {
		return err
	}
	*slot = v
	return nil
}

// CallProcedure implements expr.Evaluator: looks up (module, name), checks
// exported-or-same-module visibility, and invokes it in a fresh
// sub-environment.
func (e *Environment) CallProcedure(target value.ModuleAddress, args []value.Value) (value.Value, error) {
	mod, ok := e.Modules[target.Module]
	if !ok {
		return value.Value{}, runtimeerr.New("module %q is not loaded", target.Module)
	}
	entry, ok := mod.Procs[target.Member]
	if !ok {
		return value.Value{}, runtimeerr.New("procedure %s does not exist", target)
	}
	if !entry.Exported && target.Module != e.ContainedModuleID {
		return value.Value{}, runtimeerr.New("procedure %s is not exported", target)
	}
	tracer().Debugf("interp: calling %s with %d argument(s)", target, len(args))
	callEnv := e.callEnvironment(target.Module)
	return entry.Proc.Call(callEnv, args)
}

// ConstructStruct implements expr.Evaluator: looks up the prototype, checks
// visibility, and instantiates it with the given field overrides.
func (e *Environment) ConstructStruct(target value.ModuleAddress, overrides []value.FieldOverrideValue) (value.Value, error) {
	mod, ok := e.Modules[target.Module]
	if !ok {
		return value.Value{}, runtimeerr.New("module %q is not loaded", target.Module)
	}
	entry, ok := mod.Structs[target.Member]
	if !ok {
		return value.Value{}, runtimeerr.New("struct %s does not exist", target)
	}
	sameModule := target.Module == e.ContainedModuleID
	if !entry.Exported && !sameModule {
		return value.Value{}, runtimeerr.New("struct %s is not exported", target)
	}
	v, err := entry.Prototype.Instantiate(overrides, sameModule)
	if err != nil {
		return value.Value{}, runtimeerr.Wrap(err)
	}
	return v, nil
}

// Call executes p's instruction list against env: argument identifiers are
// bound into the top scope frame (in declared order), the program counter
// starts at zero, and the loop runs until a Return instruction or the end of
// the instruction list (an implicit `return Null`).
func (p *CompiledProcedure) Call(env *Environment, args []value.Value) (value.Value, error) {
	if len(args) != len(p.Args) {
		return value.Value{}, runtimeerr.New("procedure %s expects %d argument(s), got %d", p.Name, len(p.Args), len(args))
	}
	for i, name := range p.Args {
		env.Scope.Bind(name, args[i])
	}

	pc := 0
	for pc < len(p.Instructions) {
		instr := p.Instructions[pc]
		switch instr.Kind {
		case PushVarToScope:
			if err := env.Scope.Push(instr.Ident); err != nil {
				return value.Value{}, runtimeerr.Wrap(err)
			}
		case PopVarFromScope:
			if err := env.Scope.Pop(instr.Ident); err != nil {
				return value.Value{}, runtimeerr.Wrap(err)
			}
		case GrowStack:
			env.Scope.Grow()
		case ShrinkStack:
			env.Scope.Shrink()
		case EvaluateExpression:
			v, err := instr.Expr.Eval(env)
			if err != nil {
				return value.Value{}, err
			}
			if instr.HasTarget {
				if err := env.WriteAddress(instr.Target, v); err != nil {
					return value.Value{}, err
				}
			}
		case JumpConditional:
			v, err := instr.Expr.Eval(env)
			if err != nil {
				return value.Value{}, err
			}
			if v.Kind != value.BoolKind {
				return value.Value{}, runtimeerr.New("jump condition must be Bool, found %s", v.TypeID())
			}
			if v.Bool {
				pc = instr.JumpTarget
				continue
			}
		case Return:
			v, err := instr.Expr.Eval(env)
			if err != nil {
				return value.Value{}, err
			}
			return v, nil
		}
		pc++
	}
	return value.Null(), nil
}
