package lexer

import (
	"testing"

	"github.com/adrian-randa/otr/token"
)

func TestTokenizeKeywordsAndOperators(t *testing.T) {
	stream, err := Tokenize("let x = 1 + 2 * 3;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := token.Stream{
		token.Kw(token.Let),
		token.Ident("x"),
		token.Op(token.Assignment),
		token.Lit(token.Literal{Kind: token.IntegerLiteral, Text: "1"}),
		token.Op(token.Plus),
		token.Lit(token.Literal{Kind: token.IntegerLiteral, Text: "2"}),
		token.Op(token.Multiply),
		token.Lit(token.Literal{Kind: token.IntegerLiteral, Text: "3"}),
		token.Punct(token.Punctuation{Kind: token.Semicolon}),
	}
	if len(stream) != len(want) {
		t.Fatalf("Tokenize() produced %d tokens, want %d: %v", len(stream), len(want), stream)
	}
	for i := range want {
		if stream[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, stream[i], want[i])
		}
	}
}

func TestTokenizeMultiCharOperators(t *testing.T) {
	stream, err := Tokenize("a && b || c == d != e >= f <= g")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantOps := []token.Operator{token.And, token.Or, token.Equality, token.Inequality, token.GreaterEquals, token.LessEquals}
	var gotOps []token.Operator
	for _, tok := range stream {
		if tok.Kind == token.TagOperator {
			gotOps = append(gotOps, tok.Operator)
		}
	}
	if len(gotOps) != len(wantOps) {
		t.Fatalf("got %d operators, want %d: %v", len(gotOps), len(wantOps), gotOps)
	}
	for i := range wantOps {
		if gotOps[i] != wantOps[i] {
			t.Errorf("operator %d = %v, want %v", i, gotOps[i], wantOps[i])
		}
	}
}

func TestTokenizeStringAndCharLiterals(t *testing.T) {
	stream, err := Tokenize(`"hi" 'x' true false`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stream) != 4 {
		t.Fatalf("got %d tokens, want 4: %v", len(stream), stream)
	}
	if stream[0].Literal.Kind != token.StringLiteral || stream[0].Literal.Text != "hi" {
		t.Errorf("stream[0] = %v, want string literal \"hi\"", stream[0])
	}
	if stream[1].Literal.Kind != token.CharLiteral || stream[1].Literal.Text != "x" {
		t.Errorf("stream[1] = %v, want char literal 'x'", stream[1])
	}
	if stream[2].Literal.Kind != token.BooleanLiteral || stream[2].Literal.Text != "true" {
		t.Errorf("stream[2] = %v, want boolean literal true", stream[2])
	}
	if stream[3].Literal.Kind != token.BooleanLiteral || stream[3].Literal.Text != "false" {
		t.Errorf("stream[3] = %v, want boolean literal false", stream[3])
	}
}

func TestTokenizeModuleMemberAccess(t *testing.T) {
	stream, err := Tokenize("Numbers::parse(x)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Token{
		token.Ident("Numbers"),
		token.Punct(token.Punctuation{Kind: token.DoubleColon}),
		token.Ident("parse"),
		token.Punct(token.Punctuation{Kind: token.Parenthesis, Polarity: token.Opening}),
		token.Ident("x"),
		token.Punct(token.Punctuation{Kind: token.Parenthesis, Polarity: token.Closing}),
	}
	if len(stream) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(stream), len(want), stream)
	}
	for i := range want {
		if stream[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, stream[i], want[i])
		}
	}
}

func TestTokenizeRefAndCloneKeywords(t *testing.T) {
	stream, err := Tokenize("ref x clone y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Token{
		token.Kw(token.Ref),
		token.Ident("x"),
		token.Kw(token.Clone),
		token.Ident("y"),
	}
	if len(stream) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(stream), len(want), stream)
	}
	for i := range want {
		if stream[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, stream[i], want[i])
		}
	}
}

func TestTokenizeIsDeterministic(t *testing.T) {
	source := `module Main { @entrypoint proc main() { return "a" + (1 + 2); } export main; }`
	first, err := Tokenize(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Tokenize(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("token counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestTokenizeEmptyFragmentIsNoOp(t *testing.T) {
	// The catch-all identifier rule matches any non-empty fragment, so an
	// empty fragment is the only input that reaches no rule at all; it must
	// produce no tokens and no error.
	tz := NewTokenizer()
	if _, err := tz.Tokenize([]string{""}); err != nil {
		t.Errorf("empty fragment should be a no-op, got error: %v", err)
	}
}
