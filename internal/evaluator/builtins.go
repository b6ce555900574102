// Built-in table: spec.md §4.6 names roughly thirty hard-coded functions
// the evaluator must provide with no user-visible declaration. Every one
// of them is reached only via the "__builtin_name"-as-first-class-string
// dispatch of evalName/evalCall; this file just fills in
// Evaluator.builtins, the generic (eager, non-lazy) subset of that table.
package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/object"
	"github.com/piecake/pie/internal/token"
)

func builtinErr(name, msg string) error {
	return fmt.Errorf("__builtin_%s: %s", name, msg)
}

func asNumber(v object.Value) (float64, bool, bool) {
	switch n := v.(type) {
	case *object.Int:
		return float64(n.Value), true, true
	case *object.Double:
		return n.Value, false, true
	default:
		return 0, false, false
	}
}

// numeric wraps a binary arithmetic builtin: int op int stays Int, any
// Double operand promotes the result to Double (spec.md §4.6
// "Arithmetic").
func numeric(name string, intOp func(a, b int64) int64, fltOp func(a, b float64) float64) func([]object.Value) (object.Value, error) {
	return func(args []object.Value) (object.Value, error) {
		if len(args) != 2 {
			return nil, builtinErr(name, "expects 2 arguments")
		}
		ai, aIsInt, aOK := asNumber(args[0])
		bi, bIsInt, bOK := asNumber(args[1])
		if !aOK || !bOK {
			return nil, builtinErr(name, "operands must be Int or Double")
		}
		if aIsInt && bIsInt {
			return &object.Int{Value: intOp(int64(ai), int64(bi))}, nil
		}
		return &object.Double{Value: fltOp(ai, bi)}, nil
	}
}

func comparison(name string, cmp func(a, b float64) bool) func([]object.Value) (object.Value, error) {
	return func(args []object.Value) (object.Value, error) {
		if len(args) != 2 {
			return nil, builtinErr(name, "expects 2 arguments")
		}
		a, _, aOK := asNumber(args[0])
		b, _, bOK := asNumber(args[1])
		if !aOK || !bOK {
			return nil, builtinErr(name, "operands must be Int or Double")
		}
		return &object.Bool{Value: cmp(a, b)}, nil
	}
}

// buildBuiltinTable constructs the generic eager built-in table, closing
// over e.Out/e.In for I/O. and/or/conditional/reset/eval are handled
// directly in evalBuiltinCall instead (they need the raw call node and
// environment, not a flat argument slice), so they are deliberately
// absent here.
func (e *Evaluator) buildBuiltinTable() map[string]func(args []object.Value) (object.Value, error) {
	t := map[string]func(args []object.Value) (object.Value, error){
		"__builtin_true":  func(args []object.Value) (object.Value, error) { return &object.Bool{Value: true}, nil },
		"__builtin_false": func(args []object.Value) (object.Value, error) { return &object.Bool{Value: false}, nil },

		"__builtin_add": numeric("add", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b }),
		"__builtin_sub": numeric("sub", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }),
		"__builtin_mul": numeric("mul", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }),
		"__builtin_div": numeric("div", func(a, b int64) int64 {
			if b == 0 {
				return 0
			}
			return a / b
		}, func(a, b float64) float64 { return a / b }),
		"__builtin_mod": numeric("mod", func(a, b int64) int64 {
			if b == 0 {
				return 0
			}
			return a % b
		}, func(a, b float64) float64 {
			for a >= b {
				a -= b
			}
			return a
		}),
		"__builtin_pow": func(args []object.Value) (object.Value, error) {
			if len(args) != 2 {
				return nil, builtinErr("pow", "expects 2 arguments")
			}
			base, baseIsInt, baseOK := asNumber(args[0])
			exp, expIsInt, expOK := asNumber(args[1])
			if !baseOK || !expOK {
				return nil, builtinErr("pow", "operands must be Int or Double")
			}
			result := 1.0
			n := exp
			for n > 0 {
				result *= base
				n--
			}
			if baseIsInt && expIsInt && exp >= 0 {
				return &object.Int{Value: int64(result)}, nil
			}
			return &object.Double{Value: result}, nil
		},
		"__builtin_neg": func(args []object.Value) (object.Value, error) {
			if len(args) != 1 {
				return nil, builtinErr("neg", "expects 1 argument")
			}
			switch v := args[0].(type) {
			case *object.Int:
				return &object.Int{Value: -v.Value}, nil
			case *object.Double:
				return &object.Double{Value: -v.Value}, nil
			default:
				return nil, builtinErr("neg", "operand must be Int or Double")
			}
		},

		"__builtin_gt":  comparison("gt", func(a, b float64) bool { return a > b }),
		"__builtin_geq": comparison("geq", func(a, b float64) bool { return a >= b }),
		"__builtin_leq": comparison("leq", func(a, b float64) bool { return a <= b }),
		"__builtin_lt":  comparison("lt", func(a, b float64) bool { return a < b }),
		"__builtin_eq": func(args []object.Value) (object.Value, error) {
			if len(args) != 2 {
				return nil, builtinErr("eq", "expects 2 arguments")
			}
			a, b := args[0], args[1]
			if as, ok := a.(*object.String); ok {
				bs, ok := b.(*object.String)
				return &object.Bool{Value: ok && as.Value == bs.Value}, nil
			}
			if an, aIsInt, aOK := asNumber(a); aOK {
				bn, bIsInt, bOK := asNumber(b)
				_ = aIsInt
				_ = bIsInt
				return &object.Bool{Value: bOK && an == bn}, nil
			}
			return &object.Bool{Value: object.CanonicalKey(a) == object.CanonicalKey(b)}, nil
		},

		"__builtin_not": func(args []object.Value) (object.Value, error) {
			if len(args) != 1 {
				return nil, builtinErr("not", "expects 1 argument")
			}
			b, ok := args[0].(*object.Bool)
			if !ok {
				return nil, builtinErr("not", "operand must be Bool")
			}
			return &object.Bool{Value: !b.Value}, nil
		},

		"__builtin_print": func(args []object.Value) (object.Value, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = a.Inspect()
			}
			fmt.Fprintln(e.Out, strings.Join(parts, " "))
			return unit, nil
		},
		"__builtin_input_str": func(args []object.Value) (object.Value, error) {
			line, err := e.In.ReadString('\n')
			if err != nil && line == "" {
				return nil, builtinErr("input_str", "no input available")
			}
			return &object.String{Value: strings.TrimRight(line, "\r\n")}, nil
		},
		"__builtin_input_int": func(args []object.Value) (object.Value, error) {
			line, err := e.In.ReadString('\n')
			if err != nil && line == "" {
				return nil, builtinErr("input_int", "no input available")
			}
			n, perr := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
			if perr != nil {
				return nil, builtinErr("input_int", "input was not an integer")
			}
			return &object.Int{Value: n}, nil
		},

		"__builtin_concat": func(args []object.Value) (object.Value, error) {
			var b strings.Builder
			for _, a := range args {
				s, ok := a.(*object.String)
				if !ok {
					return nil, builtinErr("concat", "every argument must be String")
				}
				b.WriteString(s.Value)
			}
			return &object.String{Value: b.String()}, nil
		},
		"__builtin_len": func(args []object.Value) (object.Value, error) {
			if len(args) != 1 {
				return nil, builtinErr("len", "expects 1 argument")
			}
			switch v := args[0].(type) {
			case *object.String:
				return &object.Int{Value: int64(len(v.Value))}, nil
			case *object.List:
				return &object.Int{Value: int64(len(*v.Elems))}, nil
			case *object.Pack:
				return &object.Int{Value: int64(len(*v.Elems))}, nil
			case *object.Map:
				return &object.Int{Value: int64(len(*v.Entries))}, nil
			default:
				return nil, builtinErr("len", "argument must be String, List, Pack, or Map")
			}
		},
		"__builtin_get": func(args []object.Value) (object.Value, error) {
			if len(args) != 2 {
				return nil, builtinErr("get", "expects 2 arguments")
			}
			switch c := args[0].(type) {
			case *object.List:
				idx, ok := args[1].(*object.Int)
				if !ok {
					return nil, builtinErr("get", "list index must be Int")
				}
				if idx.Value < 0 || int(idx.Value) >= len(*c.Elems) {
					return nil, builtinErr("get", "list index out of range")
				}
				return (*c.Elems)[idx.Value], nil
			case *object.Map:
				v, ok := c.Get(args[1])
				if !ok {
					return nil, builtinErr("get", "key not found")
				}
				return v, nil
			default:
				return nil, builtinErr("get", "first argument must be List or Map")
			}
		},
		"__builtin_push": func(args []object.Value) (object.Value, error) {
			if len(args) != 2 {
				return nil, builtinErr("push", "expects 2 arguments")
			}
			lst, ok := args[0].(*object.List)
			if !ok {
				return nil, builtinErr("push", "first argument must be List")
			}
			*lst.Elems = append(*lst.Elems, args[1])
			return lst, nil
		},
		"__builtin_pop": func(args []object.Value) (object.Value, error) {
			if len(args) != 1 {
				return nil, builtinErr("pop", "expects 1 argument")
			}
			lst, ok := args[0].(*object.List)
			if !ok {
				return nil, builtinErr("pop", "argument must be List")
			}
			n := len(*lst.Elems)
			if n == 0 {
				return nil, builtinErr("pop", "cannot pop an empty list")
			}
			last := (*lst.Elems)[n-1]
			*lst.Elems = (*lst.Elems)[:n-1]
			return last, nil
		},
		"__builtin_str_slice": func(args []object.Value) (object.Value, error) {
			if len(args) != 3 {
				return nil, builtinErr("str_slice", "expects 3 arguments")
			}
			s, ok := args[0].(*object.String)
			if !ok {
				return nil, builtinErr("str_slice", "first argument must be String")
			}
			from, ok1 := args[1].(*object.Int)
			to, ok2 := args[2].(*object.Int)
			if !ok1 || !ok2 {
				return nil, builtinErr("str_slice", "bounds must be Int")
			}
			if from.Value < 0 || to.Value > int64(len(s.Value)) || from.Value > to.Value {
				return nil, builtinErr("str_slice", "bounds out of range")
			}
			return &object.String{Value: s.Value[from.Value:to.Value]}, nil
		},
		"__builtin_to_int": func(args []object.Value) (object.Value, error) {
			if len(args) != 1 {
				return nil, builtinErr("to_int", "expects 1 argument")
			}
			switch v := args[0].(type) {
			case *object.Int:
				return v, nil
			case *object.Double:
				return &object.Int{Value: int64(v.Value)}, nil
			case *object.String:
				n, err := strconv.ParseInt(strings.TrimSpace(v.Value), 10, 64)
				if err != nil {
					return nil, builtinErr("to_int", "string is not a valid integer")
				}
				return &object.Int{Value: n}, nil
			default:
				return nil, builtinErr("to_int", "cannot convert to Int")
			}
		},
		"__builtin_to_double": func(args []object.Value) (object.Value, error) {
			if len(args) != 1 {
				return nil, builtinErr("to_double", "expects 1 argument")
			}
			switch v := args[0].(type) {
			case *object.Double:
				return v, nil
			case *object.Int:
				return &object.Double{Value: float64(v.Value)}, nil
			case *object.String:
				f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
				if err != nil {
					return nil, builtinErr("to_double", "string is not a valid number")
				}
				return &object.Double{Value: f}, nil
			default:
				return nil, builtinErr("to_double", "cannot convert to Double")
			}
		},
		"__builtin_to_string": func(args []object.Value) (object.Value, error) {
			if len(args) != 1 {
				return nil, builtinErr("to_string", "expects 1 argument")
			}
			return &object.String{Value: args[0].Inspect()}, nil
		},

		"__builtin_type_of": func(args []object.Value) (object.Value, error) {
			if len(args) != 1 {
				return nil, builtinErr("type_of", "expects 1 argument")
			}
			return &object.TypeValue{Type: args[0].RuntimeType()}, nil
		},

		"__builtin_panic": func(args []object.Value) (object.Value, error) {
			msg := ""
			if len(args) > 0 {
				msg = args[0].Inspect()
			}
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodePanic, token.Token{}, "%s", msg)
		},
	}
	for k, v := range e.uuidBuiltins() {
		t[k] = v
	}
	return t
}
