package expr

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/adrian-randa/otr/token"
)

// getPrecedence ranks operators by binding strength (higher binds tighter),
// per the documented precedence table. Note the same-precedence grouping of
// `&&` with `*`/`/` and of `||` with `+`/`-` is preserved as given, not
// "fixed" to a more conventional boolean-lowest ordering.
func getPrecedence(op token.Operator) int {
	switch op {
	case token.Not:
		return 10
	case token.Power:
		return 4
	case token.Modulo:
		return 3
	case token.Multiply, token.Divide, token.And:
		return 2
	case token.Plus, token.Minus, token.Or:
		return 1
	default: // Assignment, Equality, Inequality, Greater, Less, GreaterEquals, LessEquals
		return 0
	}
}

// resolveBinaryOperator builds the Expression node for op applied to lhs and
// rhs. The four derived comparisons are not distinct node kinds: they are
// expressed as compositions of GreaterThan/Equality/Not, with operands
// swapped where needed.
func resolveBinaryOperator(op token.Operator, lhs, rhs Expression) (Expression, error) {
	switch op {
	case token.Assignment:
		return nil, fmt.Errorf("assignment operator disallowed in expressions")
	case token.Plus:
		return NewAddExpression(lhs, rhs), nil
	case token.Minus:
		return NewSubtractExpression(lhs, rhs), nil
	case token.Multiply:
		return NewMultiplyExpression(lhs, rhs), nil
	case token.Divide:
		return NewDivideExpression(lhs, rhs), nil
	case token.Modulo:
		return NewModuloExpression(lhs, rhs), nil
	case token.Power:
		return NewPowerExpression(lhs, rhs), nil
	case token.And:
		return NewAndExpression(lhs, rhs), nil
	case token.Or:
		return NewOrExpression(lhs, rhs), nil
	case token.Equality:
		return NewEqualityExpression(lhs, rhs), nil
	case token.Inequality:
		return NotExpression{Inner: NewEqualityExpression(lhs, rhs)}, nil
	case token.Greater:
		return NewGreaterThanExpression(lhs, rhs), nil
	case token.Less:
		return NewGreaterThanExpression(rhs, lhs), nil
	case token.GreaterEquals:
		return NotExpression{Inner: NewGreaterThanExpression(rhs, lhs)}, nil
	case token.LessEquals:
		return NotExpression{Inner: NewGreaterThanExpression(lhs, rhs)}, nil
	default:
		return nil, fmt.Errorf("unknown binary operator %v", op)
	}
}

// operatorSlot records where one operator atom sits in the folding atom
// list, and is kept in sync (shifted left) as earlier folds remove atoms.
type operatorSlot struct {
	precedence int
	pos        int
}

// Parse builds an Expression tree from a flat token slice: atomize at
// top-depth operators, resolve every raw atom, then repeatedly fold the
// tightest-binding remaining operator (ties resolve left to right) until a
// single atom remains. Unary `!` folds against only its right neighbor;
// every other operator requires both neighbors, and an operator with no
// left neighbor is a binary-at-start error.
func Parse(tokens []token.Token) (Expression, error) {
	rawAtoms, err := split(tokens)
	if err != nil {
		return nil, err
	}

	atoms := make([]atom, len(rawAtoms))
	for i, ra := range rawAtoms {
		a, err := parseRawAtom(ra)
		if err != nil {
			return nil, err
		}
		atoms[i] = a
	}
	if len(atoms) == 0 {
		return nil, fmt.Errorf("found empty expression")
	}

	var slots []operatorSlot
	for i, a := range atoms {
		if a.isOperator {
			slots = append(slots, operatorSlot{precedence: getPrecedence(a.operator), pos: i})
		}
	}
	slices.SortStableFunc(slots, func(a, b operatorSlot) int { return b.precedence - a.precedence })

	for k, slot := range slots {
		pos := slot.pos
		if pos < 0 || pos >= len(atoms) || !atoms[pos].isOperator {
			return nil, fmt.Errorf("malformed expression: missing operator")
		}
		op := atoms[pos].operator

		var removed int
		var folded Expression

		if op == token.Not {
			if pos+1 >= len(atoms) || atoms[pos+1].isOperator {
				return nil, fmt.Errorf("malformed expression: '!' missing right operand")
			}
			folded = NotExpression{Inner: atoms[pos+1].expr}
			atoms = append(atoms[:pos], append([]atom{{expr: folded}}, atoms[pos+2:]...)...)
			removed = 1
		} else {
			if pos == 0 {
				return nil, fmt.Errorf("expressions may not start with a binary operator")
			}
			if pos+1 >= len(atoms) || atoms[pos-1].isOperator || atoms[pos+1].isOperator {
				return nil, fmt.Errorf("malformed expression: binary operator missing an operand")
			}
			folded, err = resolveBinaryOperator(op, atoms[pos-1].expr, atoms[pos+1].expr)
			if err != nil {
				return nil, err
			}
			atoms = append(atoms[:pos-1], append([]atom{{expr: folded}}, atoms[pos+2:]...)...)
			removed = 2
			pos = pos - 1
		}

		for j := k + 1; j < len(slots); j++ {
			if slots[j].pos > pos {
				slots[j].pos -= removed
			}
		}
	}

	if len(atoms) != 1 || atoms[0].isOperator {
		return nil, fmt.Errorf("malformed expression")
	}

	return atoms[0].expr, nil
}
