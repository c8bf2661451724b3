package interp

import (
	"testing"

	"github.com/adrian-randa/otr/expr"
	"github.com/adrian-randa/otr/value"
)

func newTestEnv(moduleID string, modules map[string]*Module) *Environment {
	return NewEnvironment(moduleID, modules)
}

func TestReadAddressMovesOutBareStruct(t *testing.T) {
	env := newTestEnv("m", map[string]*Module{})
	proto := value.StructPrototype{
		Address: value.NewModuleAddress("m", "Point"),
		Fields:  []value.FieldDecl{{Name: "x", IsPublic: true}},
	}
	v, err := proto.Instantiate([]value.FieldOverrideValue{{Name: "x", Value: value.Integer(1)}}, true)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	env.Scope.Bind("p", v)

	moved, err := env.ReadAddress(expr.ScopeAddress{expr.Identifier("p")})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if moved.Kind != value.StructKind {
		t.Fatalf("expected a struct value")
	}

	slot, _ := env.Scope.Lookup("p")
	if !slot.Cell.Moved() {
		t.Errorf("expected source cell to be moved after bare read")
	}
	if moved.Cell.Moved() {
		t.Errorf("expected the moved-out value's cell to be usable")
	}
}

func TestReadAddressFieldAccessDoesNotMove(t *testing.T) {
	env := newTestEnv("m", map[string]*Module{})
	proto := value.StructPrototype{
		Address: value.NewModuleAddress("m", "Point"),
		Fields:  []value.FieldDecl{{Name: "x", IsPublic: true}},
	}
	v, _ := proto.Instantiate([]value.FieldOverrideValue{{Name: "x", Value: value.Integer(5)}}, true)
	env.Scope.Bind("p", v)

	got, err := env.ReadAddress(expr.ScopeAddress{expr.Identifier("p"), expr.Identifier("x")})
	if err != nil {
		t.Fatalf("read field: %v", err)
	}
	if !got.Equal(value.Integer(5)) {
		t.Errorf("p.x = %v, want 5", got)
	}
	slot, _ := env.Scope.Lookup("p")
	if slot.Cell.Moved() {
		t.Errorf("field read should not move the struct")
	}
}

func TestReadAddressCrossModulePrivateFieldFails(t *testing.T) {
	proto := value.StructPrototype{
		Address: value.NewModuleAddress("owner", "Secret"),
		Fields:  []value.FieldDecl{{Name: "hidden", IsPublic: false}},
	}
	v, _ := proto.Instantiate([]value.FieldOverrideValue{{Name: "hidden", Value: value.Integer(1)}}, true)

	env := newTestEnv("other", map[string]*Module{})
	env.Scope.Bind("s", v)

	if _, err := env.ReadAddress(expr.ScopeAddress{expr.Identifier("s"), expr.Identifier("hidden")}); err == nil {
		t.Errorf("expected cross-module private field read to fail")
	}
}

func TestReadAddressRefDoesNotMove(t *testing.T) {
	env := newTestEnv("m", map[string]*Module{})
	proto := value.StructPrototype{Address: value.NewModuleAddress("m", "P"), Fields: []value.FieldDecl{{Name: "x", IsPublic: true}}}
	v, _ := proto.Instantiate(nil, true)
	env.Scope.Bind("p", v)

	ref, err := env.ReadAddressRef(expr.ScopeAddress{expr.Identifier("p")})
	if err != nil {
		t.Fatalf("ref: %v", err)
	}
	if ref.Kind != value.StructRefKind {
		t.Fatalf("expected a StructRef, got %v", ref.Kind)
	}
	slot, _ := env.Scope.Lookup("p")
	if slot.Cell.Moved() {
		t.Errorf("ref should not move the source cell")
	}
}

func TestReadAddressCloneIsIndependent(t *testing.T) {
	env := newTestEnv("m", map[string]*Module{})
	proto := value.StructPrototype{Address: value.NewModuleAddress("m", "P"), Fields: []value.FieldDecl{{Name: "x", IsPublic: true}}}
	v, _ := proto.Instantiate([]value.FieldOverrideValue{{Name: "x", Value: value.Integer(1)}}, true)
	env.Scope.Bind("p", v)

	cloned, err := env.ReadAddressClone(expr.ScopeAddress{expr.Identifier("p")})
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	field, _ := cloned.Cell.Field("x", true)
	field.Value = value.Integer(99)

	original, _ := env.Scope.Lookup("p")
	originalField, _ := original.Cell.Field("x", true)
	if !originalField.Value.Equal(value.Integer(1)) {
		t.Errorf("mutating the clone mutated the source: %v", originalField.Value)
	}
}

func TestWriteAddressArrayIndex(t *testing.T) {
	env := newTestEnv("m", map[string]*Module{})
	env.Scope.Bind("arr", value.Array([]value.Value{value.Integer(0), value.Integer(0)}))

	addr := expr.ScopeAddress{expr.Identifier("arr"), expr.Index(1)}
	if err := env.WriteAddress(addr, value.Integer(9)); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := env.ReadAddress(addr)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !got.Equal(value.Integer(9)) {
		t.Errorf("arr[1] = %v, want 9", got)
	}
}

func TestCallProcedureVisibility(t *testing.T) {
	mod := NewModule("lib")
	proc := mod.AddProcedure("helper", BuiltinProcedure{Fn: func(env *Environment, args []value.Value) (value.Value, error) {
		return value.Integer(1), nil
	}})
	modules := map[string]*Module{"lib": mod}

	env := newTestEnv("other", modules)
	if _, err := env.CallProcedure(value.NewModuleAddress("lib", "helper"), nil); err == nil {
		t.Errorf("expected a call to a non-exported procedure from another module to fail")
	}

	proc.Exported = true
	got, err := env.CallProcedure(value.NewModuleAddress("lib", "helper"), nil)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !got.Equal(value.Integer(1)) {
		t.Errorf("helper() = %v, want 1", got)
	}
}

func TestCompiledProcedureCallWhileLoop(t *testing.T) {
	// sum(n) { let i = 0; let total = 0; while (i < n) { total = total + i; i = i + 1; } return total; }
	iAddr := expr.ScopeAddress{expr.Identifier("i")}
	totalAddr := expr.ScopeAddress{expr.Identifier("total")}
	nAddr := expr.ScopeAddress{expr.Identifier("n")}

	cond := expr.NewGreaterThanExpression(
		expr.VariableExpression{Address: nAddr},
		expr.VariableExpression{Address: iAddr},
	)

	proc := &CompiledProcedure{
		Name: "sum",
		Args: []string{"n"},
		Instructions: []Instruction{
			{Kind: PushVarToScope, Ident: "i"},
			{Kind: EvaluateExpression, Expr: expr.ValueExpression{Value: value.Integer(0)}, Target: iAddr, HasTarget: true},
			{Kind: PushVarToScope, Ident: "total"},
			{Kind: EvaluateExpression, Expr: expr.ValueExpression{Value: value.Integer(0)}, Target: totalAddr, HasTarget: true},
			{Kind: JumpConditional, Expr: expr.NotExpression{Inner: cond}, JumpTarget: 10}, // index 4: exit if !(n > i)
			{Kind: GrowStack},
			{Kind: EvaluateExpression, Expr: expr.NewAddExpression(expr.VariableExpression{Address: totalAddr}, expr.VariableExpression{Address: iAddr}), Target: totalAddr, HasTarget: true},
			{Kind: EvaluateExpression, Expr: expr.NewAddExpression(expr.VariableExpression{Address: iAddr}, expr.ValueExpression{Value: value.Integer(1)}), Target: iAddr, HasTarget: true},
			{Kind: ShrinkStack},
			{Kind: JumpConditional, Expr: expr.ValueExpression{Value: value.Bool(true)}, JumpTarget: 4}, // index 9: back-edge
			{Kind: Return, Expr: expr.VariableExpression{Address: totalAddr}},                           // index 10
		},
	}

	env := newTestEnv("m", map[string]*Module{})
	got, err := proc.Call(env, []value.Value{value.Integer(4)})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !got.Equal(value.Integer(6)) { // 0+1+2+3
		t.Errorf("sum(4) = %v, want 6", got)
	}
}

func TestCompiledProcedureArgumentCountMismatch(t *testing.T) {
	proc := &CompiledProcedure{Name: "f", Args: []string{"a"}}
	env := newTestEnv("m", map[string]*Module{})
	if _, err := proc.Call(env, nil); err == nil {
		t.Errorf("expected argument count mismatch to fail")
	}
}
