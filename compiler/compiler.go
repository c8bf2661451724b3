package compiler

import (
	"github.com/adrian-randa/otr/compileerr"
	"github.com/adrian-randa/otr/interp"
	"github.com/adrian-randa/otr/lexer"
)

// Compiler drives the streaming top-level state machine across every module
// reachable from a root module, resolving imports breadth-first through its
// CompilerEnvironment's FileLoader.
type Compiler struct {
	env   *CompilerEnvironment
	state State
}

// New creates a Compiler rooted at the given source directory.
func New(root string) *Compiler {
	return &Compiler{
		env:   newCompilerEnvironment(root),
		state: csBaseState{},
	}
}

// Compile enqueues rootModule and processes it and every module it
// transitively imports, tokenizing each module's source and feeding its
// tokens one at a time through the top-level state machine.
func (c *Compiler) Compile(rootModule string) error {
	c.env.Loader.Enqueue(rootModule)
	return c.drainLoader()
}

// CompileInline compiles already-in-memory source text as if it had been
// read from "<name>.otr", then drains any modules it imports from the
// file system as usual. Used by cmd/otrrepl to compile a throwaway,
// never-written-to-disk scratch module.
func (c *Compiler) CompileInline(name, source string) error {
	if err := c.compileModuleSource(name, source); err != nil {
		return err
	}
	return c.drainLoader()
}

func (c *Compiler) drainLoader() error {
	for {
		module, source, ok, err := c.env.Loader.Dequeue()
		if err != nil {
			return compileerr.Wrap(err)
		}
		if !ok {
			break
		}
		if err := c.compileModuleSource(module, source); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileModuleSource(module, source string) error {
	tracer().Infof("compiler: compiling module %q", module)

	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return compileerr.Wrap(err)
	}

	for _, tok := range tokens {
		next, err := c.state.Read(tok, c.env)
		if err != nil {
			return compileerr.Wrap(err)
		}
		c.state = next
	}

	if _, ok := c.state.(csBaseState); !ok {
		return compileerr.New("module %q ended with an unterminated declaration", module)
	}
	return nil
}

// Finalize builds the RuntimeObject that executes the compiled program's
// entrypoint, failing if no "@entrypoint" decorator was ever applied.
func (c *Compiler) Finalize() (*interp.RuntimeObject, error) {
	if c.env.Entrypoint == nil {
		return nil, compileerr.New("no procedure was marked with @entrypoint")
	}
	env := interp.NewEnvironment(c.env.Entrypoint.Module, c.env.Modules)
	return &interp.RuntimeObject{Env: env, Entrypoint: c.env.Entrypoint}, nil
}
