/*
Package lexer turns source text into a token stream: a fragmenter splits
characters into whitespace/punctuation-delimited runs (honoring string and
char literals and line comments), then a tokenizer maps each fragment to a
token.Token via an ordered rule chain.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 The otr authors.
*/
package lexer

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("otr.lexer")
}

// FragmentationError is raised by Fragment when the raw character stream
// cannot be split into fragments (e.g. an unsupported escape sequence).
type FragmentationError struct {
	Message string
}

func (e *FragmentationError) Error() string { return e.Message }

// charKind categorizes a single rune for the purpose of grouping adjacent
// fragment characters into runs. The rules below special-case quotes,
// comments and semicolons, so a pure category-sequence reader is not enough.
type charKind int

const (
	alphabetic charKind = iota
	numeric
	punctuation
)

func classify(r rune) charKind {
	switch {
	case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		return alphabetic
	case r >= '0' && r <= '9':
		return numeric
	default:
		return punctuation
	}
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// Fragment splits source into whitespace-delimited fragments. String and
// char literals are read verbatim (including escape processing), line
// comments starting with '#' are dropped, and ';' is always flushed as its
// own single-character fragment (so statement terminators never merge with
// neighboring punctuation runs).
func Fragment(source string) ([]string, error) {
	chars := []rune(source)
	var stream []string
	var current []rune
	var currentKind charKind = alphabetic

	i := 0
	n := len(chars)

	flush := func() {
		if len(current) > 0 {
			stream = append(stream, string(current))
			current = nil
		}
	}

	for i < n {
		c := chars[i]
		i++

		if c == '\'' {
			flush()
			if i >= n {
				return nil, &FragmentationError{Message: "unterminated char literal"}
			}
			lit := []rune{'\'', chars[i], '\''}
			i++
			if i >= n || chars[i] != '\'' {
				return nil, &FragmentationError{Message: "unterminated char literal"}
			}
			i++
			stream = append(stream, string(lit))
			tracer().Debugf("lexer: char literal fragment %q", string(lit))
			continue
		}

		if c == '"' {
			flush()
			var lit []rune
			lit = append(lit, '"')
			for i < n && chars[i] != '"' {
				if chars[i] == '\\' {
					if i+1 >= n {
						return nil, &FragmentationError{Message: "unterminated escape sequence"}
					}
					switch chars[i+1] {
					case 'n':
						lit = append(lit, '\n')
					case 't':
						lit = append(lit, '\t')
					case '"':
						lit = append(lit, '"')
					case '\\':
						lit = append(lit, '\\')
					default:
						return nil, &FragmentationError{Message: fmt.Sprintf("invalid control character '\\%c'", chars[i+1])}
					}
					i += 2
					continue
				}
				lit = append(lit, chars[i])
				i++
			}
			if i >= n {
				return nil, &FragmentationError{Message: "unterminated string literal"}
			}
			lit = append(lit, '"')
			i++
			stream = append(stream, string(lit))
			tracer().Debugf("lexer: string literal fragment %q", string(lit))
			continue
		}

		if isWhitespace(c) {
			flush()
			continue
		}

		if c == '#' {
			flush()
			for i < n && chars[i] != '\n' {
				i++
			}
			continue
		}

		if c == ';' {
			flush()
			stream = append(stream, ";")
			continue
		}

		nextKind := classify(c)

		if len(current) > 0 {
			switch {
			case currentKind == alphabetic && nextKind == punctuation,
				currentKind == punctuation && nextKind == alphabetic,
				currentKind == numeric && nextKind == alphabetic:
				flush()
			case currentKind == numeric && nextKind == punctuation:
				if c != '.' {
					flush()
				}
			}
		}

		currentKind = nextKind
		current = append(current, c)
	}

	flush()

	return stream, nil
}
