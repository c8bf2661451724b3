package lexer

import (
	"strings"

	"github.com/adrian-randa/otr/token"
)

// rule maps a fragment prefix to a token, or reports no match by returning
// ok=false and the fragment unchanged. Rules are tried in registration
// order; the first match wins.
type rule interface {
	tryApply(fragment string) (tok token.Token, rest string, ok bool)
}

type keywordRule struct {
	keyword string
	emits   token.Token
}

func (r keywordRule) tryApply(fragment string) (token.Token, string, bool) {
	if fragment == r.keyword {
		return r.emits, "", true
	}
	return token.Token{}, fragment, false
}

type patternRule struct {
	pattern string
	emits   token.Token
}

func (r patternRule) tryApply(fragment string) (token.Token, string, bool) {
	if strings.HasPrefix(fragment, r.pattern) {
		return r.emits, fragment[len(r.pattern):], true
	}
	return token.Token{}, fragment, false
}

type stringLiteralRule struct{}

func (stringLiteralRule) tryApply(fragment string) (token.Token, string, bool) {
	if len(fragment) >= 2 && strings.HasPrefix(fragment, `"`) && strings.HasSuffix(fragment, `"`) {
		return token.Lit(token.Literal{Kind: token.StringLiteral, Text: fragment[1 : len(fragment)-1]}), "", true
	}
	return token.Token{}, fragment, false
}

type charLiteralRule struct{}

func (charLiteralRule) tryApply(fragment string) (token.Token, string, bool) {
	runes := []rune(fragment)
	if len(runes) == 3 && runes[0] == '\'' && runes[2] == '\'' {
		return token.Lit(token.Literal{Kind: token.CharLiteral, Text: string(runes[1])}), "", true
	}
	return token.Token{}, fragment, false
}

type numberLiteralRule struct{}

func (numberLiteralRule) tryApply(fragment string) (token.Token, string, bool) {
	if fragment == "" {
		return token.Token{}, fragment, false
	}
	c := fragment[0]
	if (c >= '0' && c <= '9') || c == '-' {
		if strings.Contains(fragment, ".") {
			return token.Lit(token.Literal{Kind: token.DecimalLiteral, Text: fragment}), "", true
		}
		return token.Lit(token.Literal{Kind: token.IntegerLiteral, Text: fragment}), "", true
	}
	return token.Token{}, fragment, false
}

type booleanLiteralRule struct{}

func (booleanLiteralRule) tryApply(fragment string) (token.Token, string, bool) {
	if fragment == "true" || fragment == "false" {
		return token.Lit(token.Literal{Kind: token.BooleanLiteral, Text: fragment}), "", true
	}
	return token.Token{}, fragment, false
}

type identifierRule struct{}

func (identifierRule) tryApply(fragment string) (token.Token, string, bool) {
	return token.Ident(fragment), "", true
}

// Tokenizer holds an ordered rule chain and turns a fragment stream into a
// token.Stream.
type Tokenizer struct {
	rules []rule
}

// NewTokenizer builds the default rule chain: keywords first (longest
// vocabulary, exact match), then multi-char operators/punctuation, then
// single-char punctuation/operators, then the literal rules, with the
// catch-all identifier rule last.
func NewTokenizer() *Tokenizer {
	t := &Tokenizer{}
	kw := func(word string, k token.Keyword) {
		t.rules = append(t.rules, keywordRule{keyword: word, emits: token.Kw(k)})
	}
	pat := func(pattern string, tok token.Token) {
		t.rules = append(t.rules, patternRule{pattern: pattern, emits: tok})
	}

	kw("break", token.Break)
	kw("const", token.Const)
	kw("continue", token.Continue)
	kw("for", token.For)
	kw("let", token.Let)
	kw("proc", token.Proc)
	kw("return", token.Return)
	kw("struct", token.Struct)
	kw("while", token.While)
	kw("if", token.If)
	kw("else", token.Else)
	kw("module", token.Module)
	kw("export", token.Export)
	kw("import", token.Import)
	kw("from", token.From)
	kw("public", token.Public)
	kw("ref", token.Ref)
	kw("clone", token.Clone)

	pat("&&", token.Op(token.And))
	pat("||", token.Op(token.Or))
	pat("==", token.Op(token.Equality))
	pat("!=", token.Op(token.Inequality))
	pat(">=", token.Op(token.GreaterEquals))
	pat("<=", token.Op(token.LessEquals))
	pat("::", token.Punct(token.Punctuation{Kind: token.DoubleColon}))

	pat("(", token.Punct(token.Punctuation{Kind: token.Parenthesis, Polarity: token.Opening}))
	pat(")", token.Punct(token.Punctuation{Kind: token.Parenthesis, Polarity: token.Closing}))
	pat("[", token.Punct(token.Punctuation{Kind: token.SquareBrackets, Polarity: token.Opening}))
	pat("]", token.Punct(token.Punctuation{Kind: token.SquareBrackets, Polarity: token.Closing}))
	pat("{", token.Punct(token.Punctuation{Kind: token.CurlyBraces, Polarity: token.Opening}))
	pat("}", token.Punct(token.Punctuation{Kind: token.CurlyBraces, Polarity: token.Closing}))
	pat("@", token.Punct(token.Punctuation{Kind: token.At}))
	pat("!", token.Op(token.Not))
	pat("+", token.Op(token.Plus))
	pat("-", token.Op(token.Minus))
	pat("*", token.Op(token.Multiply))
	pat("/", token.Op(token.Divide))
	pat("%", token.Op(token.Modulo))
	pat(">", token.Op(token.Greater))
	pat("<", token.Op(token.Less))
	pat("=", token.Op(token.Assignment))
	pat("^", token.Op(token.Power))
	pat(",", token.Punct(token.Punctuation{Kind: token.Comma}))
	pat(".", token.Punct(token.Punctuation{Kind: token.Dot}))
	pat(":", token.Punct(token.Punctuation{Kind: token.Colon}))
	pat(";", token.Punct(token.Punctuation{Kind: token.Semicolon}))

	t.rules = append(t.rules,
		numberLiteralRule{},
		stringLiteralRule{},
		charLiteralRule{},
		booleanLiteralRule{},
		identifierRule{},
	)

	return t
}

// Tokenize maps every fragment to one or more tokens by repeatedly applying
// the rule chain until the fragment is consumed. The identifier rule always
// matches, so the loop is guaranteed to terminate.
func (t *Tokenizer) Tokenize(fragments []string) (token.Stream, error) {
	var stream token.Stream

	for _, frag := range fragments {
	scan:
		for frag != "" {
			for _, r := range t.rules {
				tok, rest, ok := r.tryApply(frag)
				if ok {
					stream = append(stream, tok)
					frag = rest
					continue scan
				}
			}
			return nil, &FragmentationError{Message: "no tokenizer rule matched fragment " + frag}
		}
	}

	tracer().Debugf("lexer: tokenized %d fragments into %d tokens", len(fragments), len(stream))

	return stream, nil
}

// Tokenize is a package-level convenience wrapping Fragment + a default
// Tokenizer, the common case of turning raw source text into a token.Stream.
func Tokenize(source string) (token.Stream, error) {
	fragments, err := Fragment(source)
	if err != nil {
		return nil, err
	}
	return NewTokenizer().Tokenize(fragments)
}
