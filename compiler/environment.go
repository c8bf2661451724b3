/*
Package compiler implements the streaming top-level state machine
(Base/Module/Procedure/Struct/Decorator/Import/Export), driving tokens one
at a time into a CompilerEnvironment, plus the procedure builder (in
builder.go) that lowers a proc body's statements into a flat instruction
list.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 The otr authors.
*/
package compiler

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/adrian-randa/otr/builtins"
	"github.com/adrian-randa/otr/compileerr"
	"github.com/adrian-randa/otr/interp"
	"github.com/adrian-randa/otr/loader"
	"github.com/adrian-randa/otr/value"
)

func tracer() tracing.Trace {
	return tracing.Select("otr.compiler")
}

// CompilerEnvironment is the shared, mutable context every compiler state
// reads from and writes to: the file loader's import queue, the modules
// compiled (or built in) so far, and the decorator-applied entrypoint.
type CompilerEnvironment struct {
	Loader     *loader.FileLoader
	Modules    map[string]*interp.Module
	Entrypoint *value.ModuleAddress
}

// newCompilerEnvironment seeds Modules with the three built-in modules, so
// they are resolvable as ordinary ModuleAddress targets from the first
// token onward, exactly as if they had been compiled.
func newCompilerEnvironment(root string) *CompilerEnvironment {
	return &CompilerEnvironment{
		Loader:  loader.NewFileLoader(root),
		Modules: builtins.Modules(),
	}
}

// ApplyDecorator applies a decorator by name to the given member address.
// Only "entrypoint" is recognized; applying it twice fails.
func (e *CompilerEnvironment) ApplyDecorator(name string, addr value.ModuleAddress) error {
	if name != "entrypoint" {
		return compileerr.New("unknown decorator %q", name)
	}
	if e.Entrypoint != nil {
		return compileerr.New("entrypoint already set (was %s, attempted to set again to %s)", *e.Entrypoint, addr)
	}
	target := addr
	e.Entrypoint = &target
	tracer().Infof("compiler: entrypoint set to %s", target)
	return nil
}
