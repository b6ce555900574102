package evaluator

import (
	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/object"
	"github.com/piecake/pie/internal/prettyprinter"
	"github.com/piecake/pie/internal/typesystem"
)

// resolveType converts a parse-time ast.Type into a runtime typesystem.Type
// (spec.md §4.4): builtin/named/variadic/list/map/function recurse
// structurally; a NamedType looks the name up in env and takes the bound
// value's own runtime type (a class or union literal's value IS its
// type, spec.md §4.1); an ExpressionType evaluates its wrapped expression
// expecting a *object.TypeValue, falling back to an unresolved
// typesystem.Expression keyed by canonical text when the expression
// doesn't produce one; nil and TryReassignType both mean "no annotation".
func (e *Evaluator) resolveType(t ast.Type, env *object.Environment) typesystem.Type {
	if t == nil {
		return typesystem.Builtin{Name: typesystem.Any}
	}
	switch n := t.(type) {
	case *ast.BuiltinType:
		return typesystem.Builtin{Name: typesystem.BuiltinName(n.Name)}
	case *ast.NamedType:
		if b, ok := env.Get(n.Name); ok {
			return b.Value.RuntimeType()
		}
		return typesystem.Builtin{Name: typesystem.Any}
	case *ast.VariadicType:
		return typesystem.Variadic{Elem: e.resolveType(n.Elem, env)}
	case *ast.ListType:
		return typesystem.List{Elem: e.resolveType(n.Elem, env)}
	case *ast.MapType:
		return typesystem.Map{Key: e.resolveType(n.Key, env), Value: e.resolveType(n.Value, env)}
	case *ast.FunctionType:
		params := make([]typesystem.Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = e.resolveType(p, env)
		}
		return typesystem.Function{Params: params, Result: e.resolveType(n.Result, env)}
	case *ast.ExpressionType:
		v, err := e.Eval(n.Expr, env)
		if err == nil {
			if tv, ok := v.(*object.TypeValue); ok {
				return tv.Type
			}
		}
		return typesystem.Expression{Source: prettyprinter.Print(n.Expr)}
	case *ast.TryReassignType:
		return typesystem.TryReassign{}
	default:
		return typesystem.Builtin{Name: typesystem.Any}
	}
}

// evalAssignment implements spec.md §4.5 "Assignment" across its three LHS
// shapes: a bare Name rebinds/declares in the environment, an Access
// mutates an object field in place, and anything else (a literal, or any
// other expression) writes directly into the canonical-form cache — the
// mechanism spec.md §8 scenario 5 relies on for `1 = "hi"` to change what
// every future occurrence of literal `1` evaluates to.
func (e *Evaluator) evalAssignment(n *ast.Assignment, env *object.Environment) (object.Value, error) {
	rhs, err := e.Eval(n.RHS, env)
	if err != nil {
		return nil, err
	}

	switch lhs := n.LHS.(type) {
	case *ast.Name:
		declared := e.reassignType(lhs.Value, n.Type, env)
		if !typesystem.GreaterEq(declared, rhs.RuntimeType()) {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, n.Tok(),
				"cannot assign %s to %s (declared %s)", rhs.RuntimeType().Text(0), lhs.Value, declared.Text(0))
		}
		if !env.Assign(lhs.Value, rhs) {
			env.Define(lhs.Value, rhs, declared)
		}
		return rhs, nil

	case *ast.Access:
		obj, err := e.Eval(lhs.Object, env)
		if err != nil {
			return nil, err
		}
		o, ok := obj.(*object.Object)
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, n.Tok(), "cannot assign field %q on non-object value", lhs.Field)
		}
		field, ok := o.Class.Field(lhs.Field)
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeUndeclared, n.Tok(), "class %s has no field %q", o.Class.Name, lhs.Field)
		}
		if !typesystem.GreaterEq(field.Type, rhs.RuntimeType()) {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, n.Tok(),
				"cannot assign %s to field %q (declared %s)", rhs.RuntimeType().Text(0), lhs.Field, field.Type.Text(0))
		}
		o.Values[lhs.Field] = rhs
		return rhs, nil

	default:
		key := prettyprinter.Print(lhs)
		e.Cache.Set(key, rhs)
		return rhs, nil
	}
}

// reassignType resolves the declared type a Name assignment should be
// checked/recorded against: an explicit annotation always wins; a bare
// TryReassign annotation (no `: Type` written) inherits whatever type the
// name is already bound under, if any, so a plain `x = 5` after
// `x: Int = 0` keeps checking against Int; an unbound name with no
// annotation defaults to Any.
func (e *Evaluator) reassignType(name string, t ast.Type, env *object.Environment) typesystem.Type {
	resolved := e.resolveType(t, env)
	if _, isTry := resolved.(typesystem.TryReassign); isTry {
		if b, ok := env.Get(name); ok {
			return b.Type
		}
		return typesystem.Builtin{Name: typesystem.Any}
	}
	return resolved
}

// evalAccess implements `obj.field` read access (spec.md §4.5 "Access"):
// Object and Namespace member lookup by name.
func (e *Evaluator) evalAccess(n *ast.Access, env *object.Environment) (object.Value, error) {
	obj, err := e.Eval(n.Object, env)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *object.Object:
		v, ok := o.Values[n.Field]
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeUndeclared, n.Tok(), "object has no field %q", n.Field)
		}
		return v, nil
	case *object.Namespace:
		v, ok := o.Get(n.Field)
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeUndeclared, n.Tok(), "namespace %s has no member %q", o.Name, n.Field)
		}
		return v, nil
	case *object.Class:
		f, ok := o.Field(n.Field)
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeUndeclared, n.Tok(), "class %s has no field %q", o.Name, n.Field)
		}
		return f.Value, nil
	default:
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, n.Tok(), "cannot access field %q on a %s", n.Field, obj.Kind())
	}
}
