package evaluator

import "github.com/piecake/pie/internal/object"

// builtinBareNames lists spec.md §4.6's built-in table by its plain
// (un-prefixed) name — the form the worked scenarios in spec.md §8 call
// these by directly (`print(...)` etc.) without first writing
// `print = __builtin_print;`
// themselves. The `__builtin_`-prefixed spelling (used explicitly in
// scenario 1 and 6, e.g. `__builtin_sub`) stays reachable too, since
// evalName recognizes that prefix unconditionally; this list just
// pre-seeds the ordinary name every program expects to already be bound.
var builtinBareNames = []string{
	"true", "false",
	"add", "sub", "mul", "div", "mod", "pow", "neg",
	"gt", "geq", "eq", "leq", "lt",
	"and", "or", "not", "conditional",
	"print", "input_str", "input_int",
	"concat", "len", "get", "push", "pop", "str_slice",
	"to_int", "to_double", "to_string",
	"type_of", "eval", "reset", "panic",
}

// NewGlobalEnvironment returns the top-level frame a program runs
// against: every built-in pre-bound under its bare name, plus the
// host-backed namespaces every program can reach without its own
// `use`/declaration (spec.md §4.5 "Namespace literal"/"Use" only
// describe user-written namespaces; Uuid is the one the host provides,
// the same way a standard-library package would be).
func NewGlobalEnvironment() *object.Environment {
	env := object.NewEnvironment()
	for _, name := range builtinBareNames {
		v := &object.String{Value: "__builtin_" + name}
		env.Define(name, v, v.RuntimeType())
	}
	ns := UuidNamespace()
	env.Define(ns.Name, ns, ns.RuntimeType())
	return env
}
