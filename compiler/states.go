package compiler

import (
	"github.com/adrian-randa/otr/compileerr"
	"github.com/adrian-randa/otr/interp"
	"github.com/adrian-randa/otr/token"
	"github.com/adrian-randa/otr/value"
)

// State is the top-level compiler's reducer contract: consume one token,
// mutate env as needed, and return the next state.
type State interface {
	Read(tok token.Token, env *CompilerEnvironment) (State, error)
}

// csBaseState is the initial state and the state returned to after a module
// or import declaration completes.
type csBaseState struct{}

func (csBaseState) Read(tok token.Token, env *CompilerEnvironment) (State, error) {
	switch {
	case tok.IsKeyword(token.Module):
		return &csModuleNameState{}, nil
	case tok.IsKeyword(token.Import):
		return &csImportState{phase: importExpectIdent}, nil
	default:
		return nil, compileerr.New("unexpected token at top level: %v", tok)
	}
}

// csModuleNameState reads the module's name identifier, then its opening
// brace, before transitioning into csModuleState.
type csModuleNameState struct {
	name  string
	phase int
}

func (s *csModuleNameState) Read(tok token.Token, env *CompilerEnvironment) (State, error) {
	switch s.phase {
	case 0:
		if tok.Kind != token.TagIdentifier {
			return nil, compileerr.New("expected module name, found %v", tok)
		}
		s.name = tok.Identifier
		s.phase = 1
		return s, nil
	default:
		if !tok.IsPunct(token.CurlyBraces, token.Opening) {
			return nil, compileerr.New("expected '{' after module name, found %v", tok)
		}
		return &csModuleState{module: interp.NewModule(s.name)}, nil
	}
}

// csModuleState dispatches the declarations inside a module body: proc,
// struct, @decorator, export, and the closing '}'.
type csModuleState struct {
	module *interp.Module
}

func (s *csModuleState) Read(tok token.Token, env *CompilerEnvironment) (State, error) {
	switch {
	case tok.IsKeyword(token.Proc):
		return &csProcHeaderState{module: s.module, parent: s}, nil
	case tok.IsKeyword(token.Struct):
		return &csStructState{module: s.module, parent: s}, nil
	case tok.IsPunct(token.At, token.Opening):
		return &csDecoratorState{module: s.module, parent: s, expectName: true}, nil
	case tok.IsKeyword(token.Export):
		return &csExportState{module: s.module, parent: s, expectIdent: true}, nil
	case tok.IsPunct(token.CurlyBraces, token.Closing):
		env.Modules[s.module.ID] = s.module
		tracer().Infof("compiler: module %q complete", s.module.ID)
		return csBaseState{}, nil
	default:
		return nil, compileerr.New("unexpected token inside module %q: %v", s.module.ID, tok)
	}
}

// csExportState reads a comma-separated, semicolon-terminated list of
// member identifiers, marking each exported in the current module.
type csExportState struct {
	module      *interp.Module
	parent      State
	expectIdent bool
}

func (s *csExportState) Read(tok token.Token, env *CompilerEnvironment) (State, error) {
	if s.expectIdent {
		if tok.Kind != token.TagIdentifier {
			return nil, compileerr.New("expected identifier in export list, found %v", tok)
		}
		if err := s.module.Export(tok.Identifier); err != nil {
			return nil, compileerr.Wrap(err)
		}
		s.expectIdent = false
		return s, nil
	}
	switch {
	case tok.Kind == token.TagPunctuation && tok.Punctuation.Kind == token.Comma:
		s.expectIdent = true
		return s, nil
	case tok.IsPunct(token.Semicolon, token.Opening):
		return s.parent, nil
	default:
		return nil, compileerr.New("expected ',' or ';' in export list, found %v", tok)
	}
}

// csDecoratorState accumulates one or more "@identifier" pairs, which must
// ultimately be followed by the 'proc' keyword.
type csDecoratorState struct {
	module     *interp.Module
	parent     State
	names      []string
	expectName bool
}

func (s *csDecoratorState) Read(tok token.Token, env *CompilerEnvironment) (State, error) {
	if s.expectName {
		if tok.Kind != token.TagIdentifier {
			return nil, compileerr.New("expected decorator name after '@', found %v", tok)
		}
		s.names = append(s.names, tok.Identifier)
		s.expectName = false
		return s, nil
	}
	switch {
	case tok.IsPunct(token.At, token.Opening):
		s.expectName = true
		return s, nil
	case tok.IsKeyword(token.Proc):
		return &csProcHeaderState{module: s.module, parent: s.parent, decorators: s.names}, nil
	default:
		return nil, compileerr.New("decorator(s) %v must be followed by 'proc', found %v", s.names, tok)
	}
}

// argPhase tags where csProcHeaderState is within "name ( args ) {".
type argPhase int

const (
	procExpectName argPhase = iota
	procExpectOpenParen
	procExpectArgOrClose
	procExpectCommaOrClose
	procExpectOpenBrace
)

// csProcHeaderState reads a procedure's name and argument list, then hands
// off every subsequent token to a procedureBuilder until the body closes.
type csProcHeaderState struct {
	module     *interp.Module
	parent     State
	decorators []string
	name       string
	args       []string
	phase      argPhase
}

func (s *csProcHeaderState) Read(tok token.Token, env *CompilerEnvironment) (State, error) {
	switch s.phase {
	case procExpectName:
		if tok.Kind != token.TagIdentifier {
			return nil, compileerr.New("expected procedure name, found %v", tok)
		}
		s.name = tok.Identifier
		s.phase = procExpectOpenParen
		return s, nil
	case procExpectOpenParen:
		if !tok.IsPunct(token.Parenthesis, token.Opening) {
			return nil, compileerr.New("expected '(' after procedure name %q, found %v", s.name, tok)
		}
		s.phase = procExpectArgOrClose
		return s, nil
	case procExpectArgOrClose:
		if tok.IsPunct(token.Parenthesis, token.Closing) {
			s.phase = procExpectOpenBrace
			return s, nil
		}
		if tok.Kind != token.TagIdentifier {
			return nil, compileerr.New("expected argument identifier or ')', found %v", tok)
		}
		s.args = append(s.args, tok.Identifier)
		s.phase = procExpectCommaOrClose
		return s, nil
	case procExpectCommaOrClose:
		switch {
		case tok.Kind == token.TagPunctuation && tok.Punctuation.Kind == token.Comma:
			s.phase = procExpectArgOrClose
			return s, nil
		case tok.IsPunct(token.Parenthesis, token.Closing):
			s.phase = procExpectOpenBrace
			return s, nil
		default:
			return nil, compileerr.New("expected ',' or ')' in argument list, found %v", tok)
		}
	default: // procExpectOpenBrace
		if !tok.IsPunct(token.CurlyBraces, token.Opening) {
			return nil, compileerr.New("expected '{' to open body of procedure %q, found %v", s.name, tok)
		}
		return &csProcBodyState{
			module:     s.module,
			parent:     s.parent,
			decorators: s.decorators,
			name:       s.name,
			args:       s.args,
			builder:    newProcedureBuilder(),
		}, nil
	}
}

// csProcBodyState feeds tokens into the procedure builder until it reports
// the body finished, then inserts the compiled procedure into the module
// and applies any accumulated decorators.
type csProcBodyState struct {
	module     *interp.Module
	parent     State
	decorators []string
	name       string
	args       []string
	builder    *procedureBuilder
}

func (s *csProcBodyState) Read(tok token.Token, env *CompilerEnvironment) (State, error) {
	finished, err := s.builder.feed(tok)
	if err != nil {
		return nil, compileerr.Wrap(err)
	}
	if !finished {
		return s, nil
	}
	proc := &interp.CompiledProcedure{Name: s.name, Args: s.args, Instructions: s.builder.instructions}
	s.module.AddProcedure(s.name, proc)
	for _, dec := range s.decorators {
		if err := env.ApplyDecorator(dec, value.NewModuleAddress(s.module.ID, s.name)); err != nil {
			return nil, compileerr.Wrap(err)
		}
	}
	tracer().Debugf("compiler: procedure %s::%s compiled (%d instructions)", s.module.ID, s.name, len(proc.Instructions))
	return s.parent, nil
}

// fieldPhase tags where csStructState is within "name { [public]? ident , ... }".
type fieldPhase int

const (
	structExpectName fieldPhase = iota
	structExpectOpenBrace
	structExpectFieldOrClose
	structExpectFieldAfterPublic
	structExpectCommaOrClose
)

// csStructState reads a struct prototype's name and field declarations.
type csStructState struct {
	module        *interp.Module
	parent        State
	name          string
	phase         fieldPhase
	fields        []value.FieldDecl
	pendingPublic bool
}

func (s *csStructState) Read(tok token.Token, env *CompilerEnvironment) (State, error) {
	switch s.phase {
	case structExpectName:
		if tok.Kind != token.TagIdentifier {
			return nil, compileerr.New("expected struct name, found %v", tok)
		}
		s.name = tok.Identifier
		s.phase = structExpectOpenBrace
		return s, nil
	case structExpectOpenBrace:
		if !tok.IsPunct(token.CurlyBraces, token.Opening) {
			return nil, compileerr.New("expected '{' after struct name %q, found %v", s.name, tok)
		}
		s.phase = structExpectFieldOrClose
		return s, nil
	case structExpectFieldOrClose:
		switch {
		case tok.IsKeyword(token.Public):
			s.pendingPublic = true
			s.phase = structExpectFieldAfterPublic
			return s, nil
		case tok.Kind == token.TagIdentifier:
			s.fields = append(s.fields, value.FieldDecl{Name: tok.Identifier, IsPublic: s.pendingPublic})
			s.pendingPublic = false
			s.phase = structExpectCommaOrClose
			return s, nil
		case tok.IsPunct(token.CurlyBraces, token.Closing):
			return s.finish(env), nil
		default:
			return nil, compileerr.New("expected field, 'public', or '}', found %v", tok)
		}
	case structExpectFieldAfterPublic:
		if tok.Kind != token.TagIdentifier {
			return nil, compileerr.New("expected field name after 'public', found %v", tok)
		}
		s.fields = append(s.fields, value.FieldDecl{Name: tok.Identifier, IsPublic: true})
		s.pendingPublic = false
		s.phase = structExpectCommaOrClose
		return s, nil
	default: // structExpectCommaOrClose
		switch {
		case tok.Kind == token.TagPunctuation && tok.Punctuation.Kind == token.Comma:
			s.phase = structExpectFieldOrClose
			return s, nil
		case tok.IsPunct(token.CurlyBraces, token.Closing):
			return s.finish(env), nil
		default:
			return nil, compileerr.New("expected ',' or '}' in struct body, found %v", tok)
		}
	}
}

func (s *csStructState) finish(env *CompilerEnvironment) State {
	proto := value.StructPrototype{
		Address: value.NewModuleAddress(s.module.ID, s.name),
		Fields:  s.fields,
	}
	s.module.AddStruct(s.name, proto)
	tracer().Debugf("compiler: struct %s::%s compiled (%d field(s))", s.module.ID, s.name, len(s.fields))
	return s.parent
}

// importPhase tags where csImportState is within "ident [from \"path\"] ;".
type importPhase int

const (
	importExpectIdent importPhase = iota
	importExpectFromOrSemicolon
	importExpectPathString
	importExpectSemicolonAfterPath
)

// csImportState reads an import declaration and enqueues it with the file
// loader.
type csImportState struct {
	module  string
	subpath string
	phase   importPhase
}

func (s *csImportState) Read(tok token.Token, env *CompilerEnvironment) (State, error) {
	switch s.phase {
	case importExpectIdent:
		if tok.Kind != token.TagIdentifier {
			return nil, compileerr.New("expected module name after 'import', found %v", tok)
		}
		s.module = tok.Identifier
		s.phase = importExpectFromOrSemicolon
		return s, nil
	case importExpectFromOrSemicolon:
		switch {
		case tok.IsKeyword(token.From):
			s.phase = importExpectPathString
			return s, nil
		case tok.IsPunct(token.Semicolon, token.Opening):
			env.Loader.Enqueue(s.module)
			return csBaseState{}, nil
		default:
			return nil, compileerr.New("expected 'from' or ';' after import %q, found %v", s.module, tok)
		}
	case importExpectPathString:
		if tok.Kind != token.TagLiteral || tok.Literal.Kind != token.StringLiteral {
			return nil, compileerr.New("expected a string literal path after 'from', found %v", tok)
		}
		s.subpath = tok.Literal.Text
		s.phase = importExpectSemicolonAfterPath
		return s, nil
	default:
		if !tok.IsPunct(token.Semicolon, token.Opening) {
			return nil, compileerr.New("expected ';' after import path, found %v", tok)
		}
		env.Loader.EnqueueFrom(s.module, s.subpath)
		return csBaseState{}, nil
	}
}
