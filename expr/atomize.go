package expr

import (
	"fmt"

	"github.com/adrian-randa/otr/token"
	"github.com/adrian-randa/otr/value"
)

// rawAtom is a pre-atomization piece: either an operator token or a raw
// sub-token-list still awaiting parseRawAtom.
type rawAtom struct {
	isOperator bool
	operator   token.Operator
	tokens     []token.Token
}

// atom is a fully parsed atomization element: either an operator or a
// resolved Expression subexpression.
type atom struct {
	isOperator bool
	operator   token.Operator
	expr       Expression
}

// bracketStack tracks nested parenthesis/bracket/brace balance so split and
// takeUntilClosing can find top-depth boundaries and reject mismatched
// pairs.
type bracketStack []token.PunctuationKind

func pushBracket(stack bracketStack, p token.Punctuation) (bracketStack, error) {
	if p.Polarity == token.Opening {
		return append(stack, p.Kind), nil
	}
	if len(stack) == 0 {
		return nil, fmt.Errorf("invalid parenthesis structure")
	}
	top := stack[len(stack)-1]
	if top != p.Kind {
		return nil, fmt.Errorf("invalid parenthesis structure")
	}
	return stack[:len(stack)-1], nil
}

// split breaks tokens into raw atoms at every operator token occurring at
// top bracket depth.
func split(tokens []token.Token) ([]rawAtom, error) {
	var atoms []rawAtom
	var current []token.Token
	var stack bracketStack

	for _, tok := range tokens {
		if tok.Kind == token.TagPunctuation && tok.Punctuation.IsBracket() {
			var err error
			stack, err = pushBracket(stack, tok.Punctuation)
			if err != nil {
				return nil, err
			}
			current = append(current, tok)
			continue
		}

		if tok.Kind == token.TagOperator && len(stack) == 0 {
			if len(current) > 0 {
				atoms = append(atoms, rawAtom{tokens: current})
			}
			current = nil
			atoms = append(atoms, rawAtom{isOperator: true, operator: tok.Operator})
			continue
		}

		current = append(current, tok)
	}

	atoms = append(atoms, rawAtom{tokens: current})

	return atoms, nil
}

// takeUntilClosing consumes tokens up to (not including) the matching
// closing bracket for the opening bracket kind of closing, starting with
// a stack depth of one (the caller already consumed the opening bracket).
func takeUntilClosing(tokens []token.Token, closingKind token.PunctuationKind) ([]token.Token, []token.Token, error) {
	stack := bracketStack{closingKind}
	var slice []token.Token

	for i, tok := range tokens {
		if len(stack) == 1 && tok.IsPunct(closingKind, token.Closing) {
			return slice, tokens[i+1:], nil
		}
		if tok.Kind == token.TagPunctuation && tok.Punctuation.IsBracket() {
			var err error
			stack, err = pushBracket(stack, tok.Punctuation)
			if err != nil {
				return nil, nil, err
			}
		}
		slice = append(slice, tok)
	}

	return nil, nil, fmt.Errorf("invalid parenthesis structure")
}

// splitByCommas splits tokens at top-depth commas.
func splitByCommas(tokens []token.Token) ([][]token.Token, error) {
	var groups [][]token.Token
	var current []token.Token
	var stack bracketStack

	for _, tok := range tokens {
		if tok.Kind == token.TagPunctuation && tok.Punctuation.IsBracket() {
			var err error
			stack, err = pushBracket(stack, tok.Punctuation)
			if err != nil {
				return nil, err
			}
			current = append(current, tok)
			continue
		}
		if tok.Kind == token.TagPunctuation && tok.Punctuation.Kind == token.Comma && len(stack) == 0 {
			groups = append(groups, current)
			current = nil
			continue
		}
		current = append(current, tok)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}

	return groups, nil
}

func literalToValue(lit token.Literal) (value.Value, error) {
	switch lit.Kind {
	case token.NullLiteral:
		return value.Null(), nil
	case token.IntegerLiteral:
		var i int64
		if _, err := fmt.Sscanf(lit.Text, "%d", &i); err != nil {
			return value.Value{}, fmt.Errorf("malformed integer literal %q", lit.Text)
		}
		return value.Integer(i), nil
	case token.DecimalLiteral:
		var f float64
		if _, err := fmt.Sscanf(lit.Text, "%g", &f); err != nil {
			return value.Value{}, fmt.Errorf("malformed decimal literal %q", lit.Text)
		}
		return value.Float(f), nil
	case token.BooleanLiteral:
		return value.Bool(lit.Text == "true"), nil
	case token.CharLiteral:
		r := []rune(lit.Text)
		if len(r) != 1 {
			return value.Value{}, fmt.Errorf("malformed char literal %q", lit.Text)
		}
		return value.Char(r[0]), nil
	case token.StringLiteral:
		return value.String(lit.Text), nil
	default:
		return value.Value{}, fmt.Errorf("unknown literal kind")
	}
}

// parseRawAtom resolves one raw atom into a fully parsed atom: a literal,
// identifier, parenthesized subexpression, module member access
// (procedure call or struct construction), or a variable path.
func parseRawAtom(raw rawAtom) (atom, error) {
	if raw.isOperator {
		return atom{isOperator: true, operator: raw.operator}, nil
	}

	toks := raw.tokens

	if len(toks) == 0 {
		return atom{}, fmt.Errorf("found empty subexpression atom")
	}

	if len(toks) == 1 {
		t := toks[0]
		switch t.Kind {
		case token.TagLiteral:
			v, err := literalToValue(t.Literal)
			if err != nil {
				return atom{}, err
			}
			return atom{expr: ValueExpression{Value: v}}, nil
		case token.TagIdentifier:
			return atom{expr: VariableExpression{Address: ScopeAddress{Identifier(t.Identifier)}}}, nil
		default:
			return atom{}, fmt.Errorf("unexpected token, expected literal or identifier, found %v", t)
		}
	}

	if toks[0].IsPunct(token.Parenthesis, token.Opening) {
		inner, rest, err := takeUntilClosing(toks[1:], token.Parenthesis)
		if err != nil {
			return atom{}, err
		}
		if len(rest) > 0 {
			return atom{}, fmt.Errorf("unexpected token, expected operator, found %v", rest[0])
		}
		e, err := Parse(inner)
		if err != nil {
			return atom{}, err
		}
		return atom{expr: e}, nil
	}

	if toks[0].IsKeyword(token.Ref) {
		addrExpr, err := parseVariableAddress(toks[1:])
		if err != nil {
			return atom{}, err
		}
		return atom{expr: RefExpression{Address: addrExpr.(VariableExpression).Address}}, nil
	}

	if toks[0].IsKeyword(token.Clone) {
		addrExpr, err := parseVariableAddress(toks[1:])
		if err != nil {
			return atom{}, err
		}
		return atom{expr: CloneExpression{Address: addrExpr.(VariableExpression).Address}}, nil
	}

	if toks[0].Kind != token.TagIdentifier {
		return atom{}, fmt.Errorf("unexpected token, expected identifier, found %v", toks[0])
	}
	baseIdent := toks[0].Identifier

	if len(toks) > 1 && toks[1].Kind == token.TagPunctuation && toks[1].Punctuation.Kind == token.DoubleColon {
		rest := toks[2:]
		if len(rest) == 0 || rest[0].Kind != token.TagIdentifier {
			return atom{}, fmt.Errorf("unexpected token, expected identifier after '::'")
		}
		memberIdent := rest[0].Identifier
		rest = rest[1:]

		if len(rest) > 0 && rest[0].IsPunct(token.Parenthesis, token.Opening) {
			argTokens, trailer, err := takeUntilClosing(rest[1:], token.Parenthesis)
			if err != nil {
				return atom{}, err
			}
			if len(trailer) > 0 {
				return atom{}, fmt.Errorf("unexpected token after procedure call, found %v", trailer[0])
			}
			groups, err := splitByCommas(argTokens)
			if err != nil {
				return atom{}, err
			}
			args := make([]Expression, len(groups))
			for i, g := range groups {
				e, err := Parse(g)
				if err != nil {
					return atom{}, err
				}
				args[i] = e
			}
			return atom{expr: ProcedureCallExpression{
				Target:    value.NewModuleAddress(baseIdent, memberIdent),
				Arguments: args,
			}}, nil
		}

		if len(rest) > 0 && rest[0].IsPunct(token.CurlyBraces, token.Opening) {
			fieldTokens, trailer, err := takeUntilClosing(rest[1:], token.CurlyBraces)
			if err != nil {
				return atom{}, err
			}
			if len(trailer) > 0 {
				return atom{}, fmt.Errorf("unexpected token after struct construction, found %v", trailer[0])
			}
			groups, err := splitByCommas(fieldTokens)
			if err != nil {
				return atom{}, err
			}
			overrides := make([]FieldOverride, len(groups))
			for i, g := range groups {
				if len(g) < 2 || g[0].Kind != token.TagIdentifier ||
					!(g[1].Kind == token.TagPunctuation && g[1].Punctuation.Kind == token.Colon) {
					return atom{}, fmt.Errorf("unexpected token, expected 'identifier:' in struct construction")
				}
				e, err := Parse(g[2:])
				if err != nil {
					return atom{}, err
				}
				overrides[i] = FieldOverride{Name: g[0].Identifier, Expr: e}
			}
			return atom{expr: StructConstructionExpression{
				Target:         value.NewModuleAddress(baseIdent, memberIdent),
				FieldOverrides: overrides,
			}}, nil
		}

		return atom{}, fmt.Errorf("unexpected token after module member access")
	}

	e, err := parseVariableAddress(toks)
	if err != nil {
		return atom{}, err
	}
	return atom{expr: e}, nil
}

// parseVariableAddress builds a ScopeAddress from a chain of identifiers
// (separated by '.') and '[expr]' dynamic indices.
func parseVariableAddress(toks []token.Token) (Expression, error) {
	var address ScopeAddress

	i := 0
	for i < len(toks) {
		t := toks[i]
		switch {
		case t.Kind == token.TagIdentifier:
			address = append(address, Identifier(t.Identifier))
			i++
		case t.Kind == token.TagPunctuation && t.Punctuation.Kind == token.Dot:
			i++
		case t.IsPunct(token.SquareBrackets, token.Opening):
			inner, rest, err := takeUntilClosing(toks[i+1:], token.SquareBrackets)
			if err != nil {
				return nil, err
			}
			idxExpr, err := Parse(inner)
			if err != nil {
				return nil, err
			}
			address = append(address, DynamicIndex(idxExpr))
			toks = append(toks[:i+1:i+1], rest...)
			i++
		default:
			return nil, fmt.Errorf("unexpected token, expected addressant, found %v", t)
		}
	}

	if len(address) == 0 {
		return nil, fmt.Errorf("could not resolve variable's address")
	}

	return VariableExpression{Address: address}, nil
}

// ParseAddress parses toks as an assignment target: a chain of identifiers
// and '[expr]' dynamic indices, with no trailing tokens. Used by the
// procedure builder to resolve the left-hand side of an assignment
// statement into a ScopeAddress.
func ParseAddress(toks []token.Token) (ScopeAddress, error) {
	e, err := parseVariableAddress(toks)
	if err != nil {
		return nil, err
	}
	v, ok := e.(VariableExpression)
	if !ok {
		return nil, fmt.Errorf("assignment target must be a variable address")
	}
	return v.Address, nil
}
