package compiler

import (
	"github.com/adrian-randa/otr/compileerr"
	"github.com/adrian-randa/otr/expr"
	"github.com/adrian-randa/otr/interp"
	"github.com/adrian-randa/otr/token"
	"github.com/adrian-randa/otr/value"
)

// trueExpr is the condition expression for an unconditional JumpConditional
// (the while back-edge, the if/else bridge, and break/continue jumps).
var trueExpr expr.Expression = expr.ValueExpression{Value: value.Bool(true)}

// handlerKind tags which scope-escape handler variant is on the stack.
type handlerKind int

const (
	ifHandler handlerKind = iota
	loopHandler
)

// escapeHandler remembers where a pending JumpConditional was emitted so it
// can be patched when the enclosing '{...}' closes. loopHandler entries also
// collect pending break- and continue-jump instruction indices and, for a
// desugared `for`, the step clause's tokens to compile just before the
// back-edge.
type escapeHandler struct {
	kind       handlerKind
	jumpIdx    int
	breaks     []int
	continues  []int
	stepTokens []token.Token
	// forScope is true for a desugared `for` loop's handler: the loop is
	// itself nested inside an outer block (for the init clause's binding),
	// so resolveHandler emits one extra ShrinkStack after the loop's own.
	forScope bool
}

// procedureBuilder builds a flat interp.Instruction list from the tokens of
// one procedure body, maintaining a current statement sub-state and a
// scope-escape handler stack (for if/else/while/for nesting).
type procedureBuilder struct {
	instructions []interp.Instruction
	handlers     []*escapeHandler
	lastPopped   *escapeHandler
	consts       map[string]bool
	state        stmtState
}

func newProcedureBuilder() *procedureBuilder {
	return &procedureBuilder{consts: make(map[string]bool)}
}

// stmtState is the procedure builder's statement-level reducer contract.
// finished is true only when the procedure body's own closing '}' (with an
// empty handler stack) is consumed.
type stmtState interface {
	feed(tok token.Token, b *procedureBuilder) (next stmtState, finished bool, err error)
}

// feed drives one token through the builder's current statement state,
// lazily starting at stmtBaseState.
func (b *procedureBuilder) feed(tok token.Token) (bool, error) {
	if b.state == nil {
		b.state = stmtBaseState{}
	}
	next, finished, err := b.state.feed(tok, b)
	if err != nil {
		return false, err
	}
	b.state = next
	return finished, nil
}

func (b *procedureBuilder) emit(instr interp.Instruction) int {
	b.instructions = append(b.instructions, instr)
	return len(b.instructions) - 1
}

// isOpenBracket/isCloseBracket classify bracket punctuation for the
// depth-tracking buffers used while collecting expression tokens.
func isOpenBracket(tok token.Token) bool {
	return tok.Kind == token.TagPunctuation && tok.Punctuation.IsBracket() && tok.Punctuation.Polarity == token.Opening
}

func isCloseBracket(tok token.Token) bool {
	return tok.Kind == token.TagPunctuation && tok.Punctuation.IsBracket() && tok.Punctuation.Polarity == token.Closing
}

func isSemicolon(tok token.Token) bool {
	return tok.Kind == token.TagPunctuation && tok.Punctuation.Kind == token.Semicolon
}

func isComma(tok token.Token) bool {
	return tok.Kind == token.TagPunctuation && tok.Punctuation.Kind == token.Comma
}

// nearestLoopHandlerIndex finds the innermost enclosing while/for handler,
// looking through any intervening if handlers. Returns -1 if no loop handler
// is open.
func (b *procedureBuilder) nearestLoopHandlerIndex() int {
	for i := len(b.handlers) - 1; i >= 0; i-- {
		if b.handlers[i].kind == loopHandler {
			return i
		}
	}
	return -1
}

// resolveHandler implements the '}' resolution rules for the popped
// handler: an If handler patches its jump target to the current
// instruction count after a ShrinkStack; a loop handler additionally
// compiles any desugared `for` step clause, emits the back-edge jump, and
// patches every pending break and continue. Continues land on the loop's
// shared epilogue (the step clause, if any, then the ShrinkStack and the
// back-edge); breaks land on the first instruction past the back-edge.
func (b *procedureBuilder) resolveHandler(h *escapeHandler) error {
	switch h.kind {
	case ifHandler:
		b.emit(interp.Instruction{Kind: interp.ShrinkStack})
		b.instructions[h.jumpIdx].JumpTarget = len(b.instructions)
	case loopHandler:
		epilogue := len(b.instructions)
		if len(h.stepTokens) > 0 {
			if err := b.compileSimpleStatement(h.stepTokens); err != nil {
				return err
			}
		}
		b.emit(interp.Instruction{Kind: interp.ShrinkStack})
		b.emit(interp.Instruction{Kind: interp.JumpConditional, Expr: trueExpr, JumpTarget: h.jumpIdx})
		b.instructions[h.jumpIdx].JumpTarget = len(b.instructions)
		for _, idx := range h.continues {
			b.instructions[idx].JumpTarget = epilogue
		}
		for _, idx := range h.breaks {
			b.instructions[idx].JumpTarget = len(b.instructions)
		}
		if h.forScope {
			b.emit(interp.Instruction{Kind: interp.ShrinkStack})
		}
	}
	return nil
}

// compileSimpleStatement compiles a fully-buffered statement (let/const
// declaration, assignment, or bare expression, with no trailing ';') directly
// into the instruction list, used for a desugared `for` loop's init and
// step clauses, which are captured as whole slices rather than streamed.
func (b *procedureBuilder) compileSimpleStatement(toks []token.Token) error {
	if len(toks) == 0 {
		return nil
	}
	if toks[0].IsKeyword(token.Let) || toks[0].IsKeyword(token.Const) {
		isConst := toks[0].IsKeyword(token.Const)
		rest := toks[1:]
		if len(rest) == 0 || rest[0].Kind != token.TagIdentifier {
			return compileerr.New("expected identifier after let/const")
		}
		name := rest[0].Identifier
		rest = rest[1:]
		b.emit(interp.Instruction{Kind: interp.PushVarToScope, Ident: name})
		if len(rest) > 0 {
			if !rest[0].IsOperator(token.Assignment) {
				return compileerr.New("expected '=' after %q, found %v", name, rest[0])
			}
			e, err := expr.Parse(rest[1:])
			if err != nil {
				return compileerr.Wrap(err)
			}
			b.emit(interp.Instruction{Kind: interp.EvaluateExpression, Expr: e, Target: expr.ScopeAddress{expr.Identifier(name)}, HasTarget: true})
		}
		if isConst {
			b.consts[name] = true
		}
		return nil
	}

	depth := 0
	for i, t := range toks {
		if isOpenBracket(t) {
			depth++
		} else if isCloseBracket(t) {
			depth--
		} else if t.IsOperator(token.Assignment) && depth == 0 {
			lhs, rhs := toks[:i], toks[i+1:]
			addr, err := expr.ParseAddress(lhs)
			if err != nil {
				return compileerr.Wrap(err)
			}
			if len(addr) > 0 && b.consts[addr[0].Name] {
				return compileerr.New("cannot assign to const variable %q", addr[0].Name)
			}
			e, err := expr.Parse(rhs)
			if err != nil {
				return compileerr.Wrap(err)
			}
			b.emit(interp.Instruction{Kind: interp.EvaluateExpression, Expr: e, Target: addr, HasTarget: true})
			return nil
		}
	}

	e, err := expr.Parse(toks)
	if err != nil {
		return compileerr.Wrap(err)
	}
	b.emit(interp.Instruction{Kind: interp.EvaluateExpression, Expr: e})
	return nil
}
