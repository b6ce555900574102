package evaluator

import (
	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/object"
	"github.com/piecake/pie/internal/typesystem"
)

// evalClassLiteral implements spec.md §4.5 "Class literal": each field's
// default (if any) is evaluated and type-checked eagerly, right here, at
// class-definition time — not lazily per later construction — and the
// resulting (name, type, value) triple becomes that field's permanent
// default. This is why object.Field carries both Default (the raw AST,
// kept for introspection/prettyprinting) and Value (the one-time
// evaluated result).
func (e *Evaluator) evalClassLiteral(n *ast.ClassLiteral, env *object.Environment) (object.Value, error) {
	fields := make([]object.Field, len(n.Fields))
	for i, f := range n.Fields {
		t := e.resolveType(f.Type, env)
		var val object.Value
		if f.Default != nil {
			v, err := e.Eval(f.Default, env)
			if err != nil {
				return nil, err
			}
			if !typesystem.GreaterEq(t, v.RuntimeType()) {
				return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, n.Tok(),
					"field %q default is %s, declared %s", f.Name, v.RuntimeType().Text(0), t.Text(0))
			}
			val = v
		}
		fields[i] = object.Field{Name: f.Name, Type: t, Default: f.Default, Value: val}
	}
	return &object.Class{Fields: fields, DefEnv: env}, nil
}

// constructObject implements object construction: a Call whose callee
// evaluates to a Class (spec.md §4.5 "Call" step 2). Every field starts
// from its cached default value, positional arguments override fields in
// declared order, and named arguments override by name; any field left
// with no default and no supplied value is an arity error.
func (e *Evaluator) constructObject(class *object.Class, pos []posItem, named []ast.NamedArg, env *object.Environment, call ast.Node) (object.Value, error) {
	values := make(map[string]object.Value, len(class.Fields))
	for _, f := range class.Fields {
		if f.Value != nil {
			values[f.Name] = f.Value
		}
	}

	if len(pos) > len(class.Fields) {
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeArity, call.Tok(), "class %s takes %d fields, got %d positional arguments", class.Name, len(class.Fields), len(pos))
	}
	for i, item := range pos {
		field := class.Fields[i]
		v, err := e.posItemValue(item, env)
		if err != nil {
			return nil, err
		}
		if !typesystem.GreaterEq(field.Type, v.RuntimeType()) {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, call.Tok(),
				"field %q: cannot assign %s (declared %s)", field.Name, v.RuntimeType().Text(0), field.Type.Text(0))
		}
		values[field.Name] = v
	}

	for _, na := range named {
		field, ok := class.Field(na.Name)
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeUndeclared, call.Tok(), "class %s has no field %q", class.Name, na.Name)
		}
		v, err := e.Eval(na.Value, env)
		if err != nil {
			return nil, err
		}
		if !typesystem.GreaterEq(field.Type, v.RuntimeType()) {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, call.Tok(),
				"field %q: cannot assign %s (declared %s)", field.Name, v.RuntimeType().Text(0), field.Type.Text(0))
		}
		values[field.Name] = v
	}

	for _, f := range class.Fields {
		if _, ok := values[f.Name]; !ok {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeArity, call.Tok(), "class %s: field %q has no default and was not supplied", class.Name, f.Name)
		}
	}

	return &object.Object{Class: class, Values: values}, nil
}
