package value

import (
	"fmt"
	"math"
	"strconv"
)

func typeMismatch(op string, lhs, rhs Value) error {
	return fmt.Errorf("type mismatch: cannot apply %s to %s and %s", op, lhs.TypeID(), rhs.TypeID())
}

// numericText renders an Integer or Float value as plain text, for the
// String+{Integer|Float} addition overload.
func numericText(v Value) string {
	if v.Kind == IntegerKind {
		return strconv.FormatInt(v.Int, 10)
	}
	return strconv.FormatFloat(v.Flt, 'g', -1, 64)
}

// Add implements the overloaded addition rule: Integer+Integer,
// Float+Float, String+String, and String+{Integer|Float} on either side.
// The cases with a String operand produce a String by textual
// concatenation; the numeric cases keep their operands' type.
func Add(lhs, rhs Value) (Value, error) {
	switch {
	case lhs.Kind == IntegerKind && rhs.Kind == IntegerKind:
		return Integer(lhs.Int + rhs.Int), nil
	case lhs.Kind == FloatKind && rhs.Kind == FloatKind:
		return Float(lhs.Flt + rhs.Flt), nil
	case lhs.Kind == StringKind && rhs.Kind == StringKind:
		return String(lhs.Str + rhs.Str), nil
	case lhs.Kind == StringKind && (rhs.Kind == IntegerKind || rhs.Kind == FloatKind):
		return String(lhs.Str + numericText(rhs)), nil
	case (lhs.Kind == IntegerKind || lhs.Kind == FloatKind) && rhs.Kind == StringKind:
		return String(numericText(lhs) + rhs.Str), nil
	default:
		return Value{}, typeMismatch("+", lhs, rhs)
	}
}

func Subtract(lhs, rhs Value) (Value, error) {
	switch {
	case lhs.Kind == IntegerKind && rhs.Kind == IntegerKind:
		return Integer(lhs.Int - rhs.Int), nil
	case lhs.Kind == FloatKind && rhs.Kind == FloatKind:
		return Float(lhs.Flt - rhs.Flt), nil
	default:
		return Value{}, typeMismatch("-", lhs, rhs)
	}
}

func Multiply(lhs, rhs Value) (Value, error) {
	switch {
	case lhs.Kind == IntegerKind && rhs.Kind == IntegerKind:
		return Integer(lhs.Int * rhs.Int), nil
	case lhs.Kind == FloatKind && rhs.Kind == FloatKind:
		return Float(lhs.Flt * rhs.Flt), nil
	default:
		return Value{}, typeMismatch("*", lhs, rhs)
	}
}

func Divide(lhs, rhs Value) (Value, error) {
	switch {
	case lhs.Kind == IntegerKind && rhs.Kind == IntegerKind:
		if rhs.Int == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
		return Integer(lhs.Int / rhs.Int), nil
	case lhs.Kind == FloatKind && rhs.Kind == FloatKind:
		return Float(lhs.Flt / rhs.Flt), nil
	default:
		return Value{}, typeMismatch("/", lhs, rhs)
	}
}

// Modulo uses Euclidean remainder: the result always has the sign of (or is)
// zero, never negative, matching the source language's % operator.
func Modulo(lhs, rhs Value) (Value, error) {
	switch {
	case lhs.Kind == IntegerKind && rhs.Kind == IntegerKind:
		if rhs.Int == 0 {
			return Value{}, fmt.Errorf("modulo by zero")
		}
		m := lhs.Int % rhs.Int
		if m < 0 {
			if rhs.Int > 0 {
				m += rhs.Int
			} else {
				m -= rhs.Int
			}
		}
		return Integer(m), nil
	case lhs.Kind == FloatKind && rhs.Kind == FloatKind:
		m := math.Mod(lhs.Flt, rhs.Flt)
		if m < 0 {
			if rhs.Flt > 0 {
				m += rhs.Flt
			} else {
				m -= rhs.Flt
			}
		}
		return Float(m), nil
	default:
		return Value{}, typeMismatch("%", lhs, rhs)
	}
}

// Power requires a non-negative Integer exponent with an Integer base, or a
// Float base with a Float exponent. Integer overflow fails.
func Power(lhs, rhs Value) (Value, error) {
	switch {
	case lhs.Kind == IntegerKind && rhs.Kind == IntegerKind:
		if rhs.Int < 0 {
			return Value{}, fmt.Errorf("power requires a non-negative integer exponent")
		}
		result := int64(1)
		for i := int64(0); i < rhs.Int; i++ {
			next := result * lhs.Int
			if lhs.Int != 0 && next/lhs.Int != result {
				return Value{}, fmt.Errorf("overflow in power")
			}
			result = next
		}
		return Integer(result), nil
	case lhs.Kind == FloatKind && rhs.Kind == FloatKind:
		return Float(math.Pow(lhs.Flt, rhs.Flt)), nil
	default:
		return Value{}, typeMismatch("^", lhs, rhs)
	}
}

// GreaterThan defines ordering for Integer and Float only.
func GreaterThan(lhs, rhs Value) (Value, error) {
	switch {
	case lhs.Kind == IntegerKind && rhs.Kind == IntegerKind:
		return Bool(lhs.Int > rhs.Int), nil
	case lhs.Kind == FloatKind && rhs.Kind == FloatKind:
		return Bool(lhs.Flt > rhs.Flt), nil
	default:
		return Value{}, typeMismatch(">", lhs, rhs)
	}
}

func And(lhs, rhs Value) (Value, error) {
	if lhs.Kind != BoolKind || rhs.Kind != BoolKind {
		return Value{}, typeMismatch("&&", lhs, rhs)
	}
	return Bool(lhs.Bool && rhs.Bool), nil
}

func Or(lhs, rhs Value) (Value, error) {
	if lhs.Kind != BoolKind || rhs.Kind != BoolKind {
		return Value{}, typeMismatch("||", lhs, rhs)
	}
	return Bool(lhs.Bool || rhs.Bool), nil
}

func Not(v Value) (Value, error) {
	if v.Kind != BoolKind {
		return Value{}, fmt.Errorf("type mismatch: cannot apply ! to %s", v.TypeID())
	}
	return Bool(!v.Bool), nil
}

func Equality(lhs, rhs Value) (Value, error) {
	return Bool(lhs.Equal(rhs)), nil
}
