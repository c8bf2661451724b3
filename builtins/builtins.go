/*
Package builtins provides the Arrays, Strings and Numbers built-in
modules: primitive operations over Array/String/Char/Integer/Float values,
registered as ordinary interp.Procedure callables so they dispatch through
the same CallProcedure path as a compiled procedure.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 The otr authors.
*/
package builtins

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"

	"github.com/adrian-randa/otr/interp"
	"github.com/adrian-randa/otr/runtimeerr"
	"github.com/adrian-randa/otr/value"
)

func tracer() tracing.Trace {
	return tracing.Select("otr.builtins")
}

func wantArgs(name string, args []value.Value, n int) error {
	if len(args) != n {
		return runtimeerr.New("%s expects %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func fn(f interp.BuiltinFunc) interp.Procedure { return interp.BuiltinProcedure{Fn: f} }

// Modules returns the three built-in modules, fresh each call so callers
// (typically the compiler, populating a new Environment's module map) never
// share mutable module state across separately compiled programs.
func Modules() map[string]*interp.Module {
	return map[string]*interp.Module{
		"Arrays":  arraysModule(),
		"Strings": stringsModule(),
		"Numbers": numbersModule(),
	}
}

func arraysModule() *interp.Module {
	m := interp.NewModule("Arrays")

	newProc := m.AddProcedure("new", fn(func(env *interp.Environment, args []value.Value) (value.Value, error) {
		if err := wantArgs("Arrays::new", args, 1); err != nil {
			return value.Value{}, err
		}
		n := args[0]
		if n.Kind != value.IntegerKind || n.Int < 0 {
			return value.Value{}, runtimeerr.New("Arrays::new expects a non-negative Integer, found %s", n.TypeID())
		}
		elems := make([]value.Value, n.Int)
		for i := range elems {
			elems[i] = value.Null()
		}
		tracer().Debugf("builtins: Arrays::new(%d)", n.Int)
		return value.Array(elems), nil
	}))
	newProc.Exported = true

	sizeProc := m.AddProcedure("size", fn(func(env *interp.Environment, args []value.Value) (value.Value, error) {
		if err := wantArgs("Arrays::size", args, 1); err != nil {
			return value.Value{}, err
		}
		a := args[0]
		if a.Kind != value.ArrayKind {
			return value.Value{}, runtimeerr.New("Arrays::size expects an Array, found %s", a.TypeID())
		}
		return value.Integer(int64(len(a.Arr))), nil
	}))
	sizeProc.Exported = true

	return m
}

func stringsModule() *interp.Module {
	m := interp.NewModule("Strings")

	lengthProc := m.AddProcedure("length", fn(func(env *interp.Environment, args []value.Value) (value.Value, error) {
		if err := wantArgs("Strings::length", args, 1); err != nil {
			return value.Value{}, err
		}
		s := args[0]
		if s.Kind != value.StringKind {
			return value.Value{}, runtimeerr.New("Strings::length expects a String, found %s", s.TypeID())
		}
		return value.Integer(int64(utf8.RuneCountInString(s.Str))), nil
	}))
	lengthProc.Exported = true

	toCharArrayProc := m.AddProcedure("toCharArray", fn(func(env *interp.Environment, args []value.Value) (value.Value, error) {
		if err := wantArgs("Strings::toCharArray", args, 1); err != nil {
			return value.Value{}, err
		}
		s := args[0]
		if s.Kind != value.StringKind {
			return value.Value{}, runtimeerr.New("Strings::toCharArray expects a String, found %s", s.TypeID())
		}
		runes := []rune(s.Str)
		elems := make([]value.Value, len(runes))
		for i, r := range runes {
			elems[i] = value.Char(r)
		}
		return value.Array(elems), nil
	}))
	toCharArrayProc.Exported = true

	splitProc := m.AddProcedure("split", fn(func(env *interp.Environment, args []value.Value) (value.Value, error) {
		if err := wantArgs("Strings::split", args, 2); err != nil {
			return value.Value{}, err
		}
		s, pat := args[0], args[1]
		if s.Kind != value.StringKind || pat.Kind != value.StringKind {
			return value.Value{}, runtimeerr.New("Strings::split expects (String, String), found (%s, %s)", s.TypeID(), pat.TypeID())
		}
		parts := strings.Split(s.Str, pat.Str)
		elems := make([]value.Value, len(parts))
		for i, p := range parts {
			elems[i] = value.String(p)
		}
		return value.Array(elems), nil
	}))
	splitProc.Exported = true

	return m
}

func numbersModule() *interp.Module {
	m := interp.NewModule("Numbers")

	parseProc := m.AddProcedure("parse", fn(func(env *interp.Environment, args []value.Value) (value.Value, error) {
		if err := wantArgs("Numbers::parse", args, 1); err != nil {
			return value.Value{}, err
		}
		v := args[0]
		switch v.Kind {
		case value.StringKind:
			if i, err := strconv.ParseInt(v.Str, 10, 64); err == nil {
				return value.Integer(i), nil
			}
			if f, err := strconv.ParseFloat(v.Str, 64); err == nil {
				return value.Float(f), nil
			}
			return value.Value{}, runtimeerr.New("Numbers::parse could not parse %q as a number", v.Str)
		case value.CharKind:
			if v.Ch < '0' || v.Ch > '9' {
				return value.Value{}, runtimeerr.New("Numbers::parse could not parse %q as a digit", v.Ch)
			}
			return value.Integer(int64(v.Ch - '0')), nil
		default:
			return value.Value{}, runtimeerr.New("Numbers::parse expects a String or Char, found %s", v.TypeID())
		}
	}))
	parseProc.Exported = true

	return m
}
