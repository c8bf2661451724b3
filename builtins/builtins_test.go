package builtins

import (
	"testing"

	"github.com/adrian-randa/otr/value"
)

func TestModulesAreFreshEachCall(t *testing.T) {
	a := Modules()
	b := Modules()
	if a["Arrays"] == b["Arrays"] {
		t.Errorf("expected Modules() to return distinct module instances per call")
	}
}

func TestArraysNew(t *testing.T) {
	mods := Modules()
	proc := mods["Arrays"].Procs["new"]
	got, err := proc.Proc.Call(nil, []value.Value{value.Integer(3)})
	if err != nil {
		t.Fatalf("Arrays::new(3): %v", err)
	}
	if got.Kind != value.ArrayKind || len(got.Arr) != 3 {
		t.Fatalf("Arrays::new(3) = %v, want a 3-element array", got)
	}
	for i, elem := range got.Arr {
		if !elem.Equal(value.Null()) {
			t.Errorf("element %d = %v, want Null", i, elem)
		}
	}
}

func TestArraysNewNegativeFails(t *testing.T) {
	mods := Modules()
	proc := mods["Arrays"].Procs["new"]
	if _, err := proc.Proc.Call(nil, []value.Value{value.Integer(-1)}); err == nil {
		t.Errorf("expected Arrays::new(-1) to fail")
	}
}

func TestArraysSize(t *testing.T) {
	mods := Modules()
	proc := mods["Arrays"].Procs["size"]
	arr := value.Array([]value.Value{value.Integer(1), value.Integer(2)})
	got, err := proc.Proc.Call(nil, []value.Value{arr})
	if err != nil {
		t.Fatalf("Arrays::size: %v", err)
	}
	if !got.Equal(value.Integer(2)) {
		t.Errorf("Arrays::size = %v, want 2", got)
	}
}

func TestStringsLength(t *testing.T) {
	mods := Modules()
	proc := mods["Strings"].Procs["length"]
	got, err := proc.Proc.Call(nil, []value.Value{value.String("hello")})
	if err != nil {
		t.Fatalf("Strings::length: %v", err)
	}
	if !got.Equal(value.Integer(5)) {
		t.Errorf("Strings::length(\"hello\") = %v, want 5", got)
	}
}

func TestStringsToCharArray(t *testing.T) {
	mods := Modules()
	proc := mods["Strings"].Procs["toCharArray"]
	got, err := proc.Proc.Call(nil, []value.Value{value.String("ab")})
	if err != nil {
		t.Fatalf("Strings::toCharArray: %v", err)
	}
	want := []value.Value{value.Char('a'), value.Char('b')}
	if got.Kind != value.ArrayKind || len(got.Arr) != 2 {
		t.Fatalf("Strings::toCharArray(\"ab\") = %v, want 2 chars", got)
	}
	for i := range want {
		if !got.Arr[i].Equal(want[i]) {
			t.Errorf("char %d = %v, want %v", i, got.Arr[i], want[i])
		}
	}
}

func TestStringsSplit(t *testing.T) {
	mods := Modules()
	proc := mods["Strings"].Procs["split"]
	got, err := proc.Proc.Call(nil, []value.Value{value.String("a,b,c"), value.String(",")})
	if err != nil {
		t.Fatalf("Strings::split: %v", err)
	}
	if len(got.Arr) != 3 || !got.Arr[1].Equal(value.String("b")) {
		t.Errorf("Strings::split(\"a,b,c\", \",\") = %v, want [a b c]", got)
	}
}

func TestNumbersParse(t *testing.T) {
	mods := Modules()
	proc := mods["Numbers"].Procs["parse"]

	cases := []struct {
		name string
		in   value.Value
		want value.Value
	}{
		{"integer string", value.String("42"), value.Integer(42)},
		{"float string", value.String("3.5"), value.Float(3.5)},
		{"digit char", value.Char('7'), value.Integer(7)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := proc.Proc.Call(nil, []value.Value{c.in})
			if err != nil {
				t.Fatalf("Numbers::parse(%v): %v", c.in, err)
			}
			if !got.Equal(c.want) {
				t.Errorf("Numbers::parse(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestNumbersParseNonDigitCharFails(t *testing.T) {
	mods := Modules()
	proc := mods["Numbers"].Procs["parse"]
	if _, err := proc.Proc.Call(nil, []value.Value{value.Char('x')}); err == nil {
		t.Errorf("expected Numbers::parse('x') to fail")
	}
}

func TestExportedAreAllMarked(t *testing.T) {
	for modName, mod := range Modules() {
		for name, p := range mod.Procs {
			if !p.Exported {
				t.Errorf("%s::%s is not marked exported", modName, name)
			}
		}
	}
}
