package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrian-randa/otr/value"
)

func runInline(t *testing.T, source string) value.Value {
	t.Helper()
	c := New(t.TempDir())
	if err := c.CompileInline("main", source); err != nil {
		t.Fatalf("compile: %v", err)
	}
	ro, err := c.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	got, err := ro.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return got
}

func writeModule(t *testing.T, dir, name, source string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".otr"), []byte(source), 0o644); err != nil {
		t.Fatalf("write %s.otr: %v", name, err)
	}
}

func TestArithmeticAndStringConcatenation(t *testing.T) {
	got := runInline(t, `module Main {
		@entrypoint
		proc main() { return "a" + (1 + 2); }
		export main;
	}`)
	if !got.Equal(value.String("a3")) {
		t.Errorf("main() = %v, want \"a3\"", got)
	}
}

func TestCrossModuleCallAndExport(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "M1", `module M1 {
		proc dbl(x) { return x * 2; }
		export dbl;
	}`)
	writeModule(t, dir, "Main", `import M1;
	module Main {
		@entrypoint
		proc main() { return M1::dbl(21); }
		export main;
	}`)

	c := New(dir)
	if err := c.Compile("Main"); err != nil {
		t.Fatalf("compile: %v", err)
	}
	ro, err := c.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	got, err := ro.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !got.Equal(value.Integer(42)) {
		t.Errorf("M1::dbl(21) = %v, want 42", got)
	}
}

func TestWhileLoopArrayFill(t *testing.T) {
	got := runInline(t, `module Main {
		@entrypoint
		proc main() {
			let arr = Arrays::new(3);
			let i = 0;
			while (i < 3) {
				arr[i] = i * i;
				i = i + 1;
			}
			return arr[2];
		}
		export main;
	}`)
	if !got.Equal(value.Integer(4)) {
		t.Errorf("main() = %v, want 4", got)
	}
}

func TestIfElseBranching(t *testing.T) {
	cases := []struct {
		name string
		x    int
		want string
	}{
		{"big branch", 5, "big"},
		{"small branch", 1, "small"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			src := `module Main {
				@entrypoint
				proc main() {
					let x = ` + itoa(c.x) + `;
					if (x > 3) { return "big"; } else { return "small"; }
				}
				export main;
			}`
			got := runInline(t, src)
			if !got.Equal(value.String(c.want)) {
				t.Errorf("main() with x=%d = %v, want %q", c.x, got, c.want)
			}
		})
	}
}

func TestForLoopDoesNotLeakInitBinding(t *testing.T) {
	got := runInline(t, `module Main {
		@entrypoint
		proc main() {
			let total = 0;
			for (let i = 0; i < 4; i = i + 1) {
				total = total + i;
			}
			let i = 10;
			return total;
		}
		export main;
	}`)
	if !got.Equal(value.Integer(6)) {
		t.Errorf("main() = %v, want 6 (0+1+2+3)", got)
	}
}

func TestBreakAndContinue(t *testing.T) {
	got := runInline(t, `module Main {
		@entrypoint
		proc main() {
			let total = 0;
			let i = 0;
			while (i < 10) {
				i = i + 1;
				if (i == 5) { break; }
				if (i == 2) { continue; }
				total = total + i;
			}
			return total;
		}
		export main;
	}`)
	// i runs 1,2,3,4; skips the add at i==2; stops before adding at i==5.
	if !got.Equal(value.Integer(8)) {
		t.Errorf("main() = %v, want 8 (1+3+4)", got)
	}
}

func TestForLoopContinueStillRunsStepClause(t *testing.T) {
	got := runInline(t, `module Main {
		@entrypoint
		proc main() {
			let total = 0;
			for (let i = 0; i < 5; i = i + 1) {
				if (i == 2) { continue; }
				total = total + i;
			}
			return total;
		}
		export main;
	}`)
	// Skips the add at i==2 but the step clause still advances i.
	if !got.Equal(value.Integer(8)) {
		t.Errorf("main() = %v, want 8 (0+1+3+4)", got)
	}
}

func TestBreakUnwindsNestedIfScopes(t *testing.T) {
	got := runInline(t, `module Main {
		@entrypoint
		proc main() {
			let n = 0;
			for (let i = 0; i < 10; i = i + 1) {
				if (i > 2) { if (i > 2) { break; } }
				n = n + 1;
			}
			return n;
		}
		export main;
	}`)
	if !got.Equal(value.Integer(3)) {
		t.Errorf("main() = %v, want 3", got)
	}
}

func TestStructConstructionAndPublicFieldCrossModuleRead(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "Shapes", `module Shapes {
		struct Point { public x, public y }
		export Point;
	}`)
	writeModule(t, dir, "Main", `import Shapes;
	module Main {
		@entrypoint
		proc main() {
			let p = Shapes::Point{x: 1, y: 2};
			return p.x + p.y;
		}
		export main;
	}`)

	c := New(dir)
	if err := c.Compile("Main"); err != nil {
		t.Fatalf("compile: %v", err)
	}
	ro, err := c.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	got, err := ro.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !got.Equal(value.Integer(3)) {
		t.Errorf("p.x + p.y = %v, want 3", got)
	}
}

func TestPrivateFieldAccessAcrossModulesFailsAtRuntime(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "M", `module M {
		struct S { secret }
		proc make() { return M::S{secret: 7}; }
		export S, make;
	}`)
	writeModule(t, dir, "Main", `import M;
	module Main {
		@entrypoint
		proc main() {
			let s = M::make();
			return s.secret;
		}
		export main;
	}`)

	c := New(dir)
	if err := c.Compile("Main"); err != nil {
		t.Fatalf("compile: %v", err)
	}
	ro, err := c.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if _, err := ro.Run(); err == nil {
		t.Errorf("expected cross-module private field read to fail at runtime")
	}
}

func TestConstAssignmentFails(t *testing.T) {
	c := New(t.TempDir())
	err := c.CompileInline("main", `module Main {
		@entrypoint
		proc main() {
			const x = 1;
			x = 2;
			return x;
		}
		export main;
	}`)
	if err == nil {
		t.Errorf("expected assignment to a const to fail compilation")
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{byte('0' + n%10)}, buf...)
		n /= 10
	}
	if neg {
		buf = append([]byte{'-'}, buf...)
	}
	return string(buf)
}
