package compiler

import (
	"github.com/adrian-randa/otr/compileerr"
	"github.com/adrian-randa/otr/expr"
	"github.com/adrian-randa/otr/interp"
	"github.com/adrian-randa/otr/token"
	"github.com/adrian-randa/otr/value"
)

// stmtBaseState dispatches on the leading token of a new statement.
type stmtBaseState struct{}

func (stmtBaseState) feed(tok token.Token, b *procedureBuilder) (stmtState, bool, error) {
	switch {
	case tok.IsKeyword(token.Let):
		return &stmtLetState{phase: letExpectName}, false, nil
	case tok.IsKeyword(token.Const):
		return &stmtLetState{phase: letExpectName, isConst: true}, false, nil
	case tok.IsKeyword(token.If):
		return &stmtCondState{}, false, nil
	case tok.IsKeyword(token.While):
		return &stmtCondState{isWhile: true}, false, nil
	case tok.IsKeyword(token.For):
		return &stmtForState{phase: forExpectOpenParen}, false, nil
	case tok.IsKeyword(token.Return):
		return &stmtReturnState{}, false, nil
	case tok.IsKeyword(token.Break):
		if err := emitBreak(b); err != nil {
			return nil, false, err
		}
		return &stmtSemicolonState{}, false, nil
	case tok.IsKeyword(token.Continue):
		if err := emitContinue(b); err != nil {
			return nil, false, err
		}
		return &stmtSemicolonState{}, false, nil
	case tok.IsKeyword(token.Else):
		if b.lastPopped == nil || b.lastPopped.kind != ifHandler {
			return nil, false, compileerr.New("'else' without a matching 'if'")
		}
		return &stmtElseState{}, false, nil
	case tok.IsPunct(token.CurlyBraces, token.Closing):
		if len(b.handlers) == 0 {
			return stmtBaseState{}, true, nil
		}
		h := b.handlers[len(b.handlers)-1]
		b.handlers = b.handlers[:len(b.handlers)-1]
		if err := b.resolveHandler(h); err != nil {
			return nil, false, err
		}
		b.lastPopped = h
		return stmtBaseState{}, false, nil
	default:
		s := &stmtIndeterminateState{}
		return s.feed(tok, b)
	}
}

// emitBreak unwinds one frame per open handler from the loop's body outward
// (the body frame itself plus any nested if frames), then jumps to the loop's
// exit, patched when the loop handler resolves.
func emitBreak(b *procedureBuilder) error {
	li := b.nearestLoopHandlerIndex()
	if li < 0 {
		return compileerr.New("'break' outside of a loop")
	}
	for i := li; i < len(b.handlers); i++ {
		b.emit(interp.Instruction{Kind: interp.ShrinkStack})
	}
	idx := b.emit(interp.Instruction{Kind: interp.JumpConditional, Expr: trueExpr})
	b.handlers[li].breaks = append(b.handlers[li].breaks, idx)
	return nil
}

// emitContinue unwinds any nested if frames but keeps the loop's body frame
// (the epilogue's own ShrinkStack accounts for it), then jumps to the loop's
// epilogue, patched when the loop handler resolves.
func emitContinue(b *procedureBuilder) error {
	li := b.nearestLoopHandlerIndex()
	if li < 0 {
		return compileerr.New("'continue' outside of a loop")
	}
	for i := li + 1; i < len(b.handlers); i++ {
		b.emit(interp.Instruction{Kind: interp.ShrinkStack})
	}
	idx := b.emit(interp.Instruction{Kind: interp.JumpConditional, Expr: trueExpr})
	b.handlers[li].continues = append(b.handlers[li].continues, idx)
	return nil
}

// stmtSemicolonState expects exactly the statement-terminating ';' after a
// break/continue keyword.
type stmtSemicolonState struct{}

func (stmtSemicolonState) feed(tok token.Token, b *procedureBuilder) (stmtState, bool, error) {
	if !isSemicolon(tok) {
		return nil, false, compileerr.New("expected ';', found %v", tok)
	}
	return stmtBaseState{}, false, nil
}

type letPhase int

const (
	letExpectName letPhase = iota
	letExpectAssignOrSemicolon
	letCollectingInit
)

// stmtLetState builds a `let`/`const` declaration: identifier, optional
// "= expr", terminated by ';'.
type stmtLetState struct {
	phase   letPhase
	isConst bool
	name    string
	buf     []token.Token
	depth   int
}

func (s *stmtLetState) feed(tok token.Token, b *procedureBuilder) (stmtState, bool, error) {
	switch s.phase {
	case letExpectName:
		if tok.Kind != token.TagIdentifier {
			return nil, false, compileerr.New("expected identifier after let/const, found %v", tok)
		}
		s.name = tok.Identifier
		s.phase = letExpectAssignOrSemicolon
		return s, false, nil
	case letExpectAssignOrSemicolon:
		switch {
		case tok.IsOperator(token.Assignment):
			s.phase = letCollectingInit
			return s, false, nil
		case isSemicolon(tok):
			b.emit(interp.Instruction{Kind: interp.PushVarToScope, Ident: s.name})
			if s.isConst {
				b.consts[s.name] = true
			}
			return stmtBaseState{}, false, nil
		default:
			return nil, false, compileerr.New("expected '=' or ';' after %q, found %v", s.name, tok)
		}
	default: // letCollectingInit
		if isOpenBracket(tok) {
			s.depth++
			s.buf = append(s.buf, tok)
			return s, false, nil
		}
		if isCloseBracket(tok) {
			s.depth--
			s.buf = append(s.buf, tok)
			return s, false, nil
		}
		if isSemicolon(tok) && s.depth == 0 {
			e, err := expr.Parse(s.buf)
			if err != nil {
				return nil, false, compileerr.Wrap(err)
			}
			b.emit(interp.Instruction{Kind: interp.PushVarToScope, Ident: s.name})
			b.emit(interp.Instruction{Kind: interp.EvaluateExpression, Expr: e, Target: expr.ScopeAddress{expr.Identifier(s.name)}, HasTarget: true})
			if s.isConst {
				b.consts[s.name] = true
			}
			return stmtBaseState{}, false, nil
		}
		s.buf = append(s.buf, tok)
		return s, false, nil
	}
}

// stmtCondState reads an `if`/`while` header: tokens up to the body-opening
// '{' at bracket depth 0 (the condition's own wrapping parens included).
type stmtCondState struct {
	isWhile bool
	buf     []token.Token
	depth   int
}

func (s *stmtCondState) feed(tok token.Token, b *procedureBuilder) (stmtState, bool, error) {
	if tok.IsPunct(token.CurlyBraces, token.Opening) && s.depth == 0 {
		cond, err := expr.Parse(s.buf)
		if err != nil {
			return nil, false, compileerr.Wrap(err)
		}
		notCond := expr.NotExpression{Inner: cond}
		j := b.emit(interp.Instruction{Kind: interp.JumpConditional, Expr: notCond})
		b.emit(interp.Instruction{Kind: interp.GrowStack})
		kind := ifHandler
		if s.isWhile {
			kind = loopHandler
		}
		b.handlers = append(b.handlers, &escapeHandler{kind: kind, jumpIdx: j})
		return stmtBaseState{}, false, nil
	}
	if isOpenBracket(tok) {
		s.depth++
	} else if isCloseBracket(tok) {
		s.depth--
	}
	s.buf = append(s.buf, tok)
	return s, false, nil
}

// stmtElseState expects the bridging '{' immediately after 'else'.
type stmtElseState struct{}

func (stmtElseState) feed(tok token.Token, b *procedureBuilder) (stmtState, bool, error) {
	if !tok.IsPunct(token.CurlyBraces, token.Opening) {
		return nil, false, compileerr.New("expected '{' after 'else', found %v", tok)
	}
	prev := b.lastPopped
	bridge := b.emit(interp.Instruction{Kind: interp.JumpConditional, Expr: trueExpr})
	b.instructions[prev.jumpIdx].JumpTarget++
	b.emit(interp.Instruction{Kind: interp.GrowStack})
	b.handlers = append(b.handlers, &escapeHandler{kind: ifHandler, jumpIdx: bridge})
	return stmtBaseState{}, false, nil
}

// stmtReturnState reads the return expression up to the top-depth ';'. An
// empty expression yields `return Null`.
type stmtReturnState struct {
	buf   []token.Token
	depth int
}

func (s *stmtReturnState) feed(tok token.Token, b *procedureBuilder) (stmtState, bool, error) {
	if isOpenBracket(tok) {
		s.depth++
		s.buf = append(s.buf, tok)
		return s, false, nil
	}
	if isCloseBracket(tok) {
		s.depth--
		s.buf = append(s.buf, tok)
		return s, false, nil
	}
	if isSemicolon(tok) && s.depth == 0 {
		var e expr.Expression
		if len(s.buf) == 0 {
			e = expr.ValueExpression{Value: value.Null()}
		} else {
			var err error
			e, err = expr.Parse(s.buf)
			if err != nil {
				return nil, false, compileerr.Wrap(err)
			}
		}
		b.emit(interp.Instruction{Kind: interp.Return, Expr: e})
		return stmtBaseState{}, false, nil
	}
	s.buf = append(s.buf, tok)
	return s, false, nil
}

// stmtIndeterminateState buffers a not-yet-classified statement. Finding an
// '=' at bracket depth 0 switches it into an assignment (lhs/rhs split);
// otherwise, at the top-depth ';', the whole buffer compiles as a bare
// expression statement.
type stmtIndeterminateState struct {
	buf          []token.Token
	depth        int
	isAssignment bool
	lhs          []token.Token
}

func (s *stmtIndeterminateState) feed(tok token.Token, b *procedureBuilder) (stmtState, bool, error) {
	if isOpenBracket(tok) {
		s.depth++
		s.buf = append(s.buf, tok)
		return s, false, nil
	}
	if isCloseBracket(tok) {
		s.depth--
		s.buf = append(s.buf, tok)
		return s, false, nil
	}
	if tok.IsOperator(token.Assignment) && s.depth == 0 && !s.isAssignment {
		s.isAssignment = true
		s.lhs = s.buf
		s.buf = nil
		return s, false, nil
	}
	if isSemicolon(tok) && s.depth == 0 {
		if s.isAssignment {
			addr, err := expr.ParseAddress(s.lhs)
			if err != nil {
				return nil, false, compileerr.Wrap(err)
			}
			if len(addr) > 0 {
				if name := addr[0].Name; b.consts[name] {
					return nil, false, compileerr.New("cannot assign to const variable %q", name)
				}
			}
			e, err := expr.Parse(s.buf)
			if err != nil {
				return nil, false, compileerr.Wrap(err)
			}
			b.emit(interp.Instruction{Kind: interp.EvaluateExpression, Expr: e, Target: addr, HasTarget: true})
			return stmtBaseState{}, false, nil
		}
		if len(s.buf) == 0 {
			return nil, false, compileerr.New("found empty expression statement")
		}
		e, err := expr.Parse(s.buf)
		if err != nil {
			return nil, false, compileerr.Wrap(err)
		}
		b.emit(interp.Instruction{Kind: interp.EvaluateExpression, Expr: e})
		return stmtBaseState{}, false, nil
	}
	s.buf = append(s.buf, tok)
	return s, false, nil
}

type forPhase int

const (
	forExpectOpenParen forPhase = iota
	forCollectingClauses
	forExpectOpenBrace
)

// stmtForState desugars `for (init; cond; step) { body }` into
// `{ init; while (cond) { body; step; } }`: init compiles immediately, cond
// drives the same JumpConditional/loopHandler machinery as `while`, and step
// is compiled by resolveHandler just before the loop's back-edge.
type stmtForState struct {
	phase      forPhase
	buf        []token.Token
	depth      int
	clauses    [][]token.Token
}

func (s *stmtForState) feed(tok token.Token, b *procedureBuilder) (stmtState, bool, error) {
	switch s.phase {
	case forExpectOpenParen:
		if !tok.IsPunct(token.Parenthesis, token.Opening) {
			return nil, false, compileerr.New("expected '(' after 'for', found %v", tok)
		}
		s.phase = forCollectingClauses
		return s, false, nil
	case forCollectingClauses:
		if isOpenBracket(tok) {
			s.depth++
			s.buf = append(s.buf, tok)
			return s, false, nil
		}
		if tok.IsPunct(token.Parenthesis, token.Closing) && s.depth == 0 {
			s.clauses = append(s.clauses, s.buf)
			if len(s.clauses) != 3 {
				return nil, false, compileerr.New("'for' header requires three ';'-separated clauses, found %d", len(s.clauses))
			}
			s.phase = forExpectOpenBrace
			return s, false, nil
		}
		if isCloseBracket(tok) {
			s.depth--
			s.buf = append(s.buf, tok)
			return s, false, nil
		}
		if isSemicolon(tok) && s.depth == 0 {
			s.clauses = append(s.clauses, s.buf)
			s.buf = nil
			return s, false, nil
		}
		s.buf = append(s.buf, tok)
		return s, false, nil
	default: // forExpectOpenBrace
		if !tok.IsPunct(token.CurlyBraces, token.Opening) {
			return nil, false, compileerr.New("expected '{' after 'for' header, found %v", tok)
		}
		// Desugars to `{ init; while (cond) { body; step; } }`: the outer
		// block scopes the init clause's binding past the loop's own.
		b.emit(interp.Instruction{Kind: interp.GrowStack})
		if err := b.compileSimpleStatement(s.clauses[0]); err != nil {
			return nil, false, err
		}
		cond, err := expr.Parse(s.clauses[1])
		if err != nil {
			return nil, false, compileerr.Wrap(err)
		}
		j := b.emit(interp.Instruction{Kind: interp.JumpConditional, Expr: expr.NotExpression{Inner: cond}})
		b.emit(interp.Instruction{Kind: interp.GrowStack})
		b.handlers = append(b.handlers, &escapeHandler{kind: loopHandler, jumpIdx: j, stepTokens: s.clauses[2], forScope: true})
		return stmtBaseState{}, false, nil
	}
}
