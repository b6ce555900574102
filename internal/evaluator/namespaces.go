package evaluator

import (
	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/object"
)

// evalNamespaceLiteral implements spec.md §4.5 "Namespace literal": a
// fresh scope is pushed, every member statement runs against it in
// order, and each top-level `name = expr` assignment made directly in
// that scope becomes an ordered namespace member — mirroring how the
// teacher's module system snapshots a block's bindings into an exported
// member list.
func (e *Evaluator) evalNamespaceLiteral(n *ast.NamespaceLiteral, env *object.Environment) (object.Value, error) {
	nsEnv := object.NewEnclosedEnvironment(env)
	var members []object.NamespaceMember
	for _, m := range n.Members {
		if _, err := e.Eval(m, nsEnv); err != nil {
			return nil, err
		}
		if asn, ok := m.(*ast.Assignment); ok {
			if nm, ok := asn.LHS.(*ast.Name); ok {
				b, _ := nsEnv.Get(nm.Value)
				members = append(members, object.NamespaceMember{Name: nm.Value, Value: b.Value})
			}
		}
	}
	return &object.Namespace{Members: &members}, nil
}

// evalUse implements spec.md §4.5 "Use": copy every member of the
// evaluated namespace into the calling scope.
func (e *Evaluator) evalUse(n *ast.Use, env *object.Environment) (object.Value, error) {
	v, err := e.Eval(n.Namespace, env)
	if err != nil {
		return nil, err
	}
	ns, ok := v.(*object.Namespace)
	if !ok {
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, n.Tok(), "`use` target is not a namespace")
	}
	for _, m := range *ns.Members {
		env.Define(m.Name, m.Value, m.Value.RuntimeType())
	}
	return unit, nil
}

// evalScopeResolve implements spec.md §4.5 "ScopeResolve": `::b` looks up
// b in the top (global) scope; `a::b` evaluates a and dispatches member
// lookup on its runtime kind.
func (e *Evaluator) evalScopeResolve(n *ast.ScopeResolve, env *object.Environment) (object.Value, error) {
	if n.Object == nil {
		top := env
		for top.Outer() != nil {
			top = top.Outer()
		}
		b, ok := top.Get(n.Member)
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeUndeclared, n.Tok(), "undefined top-scope name %q", n.Member)
		}
		return b.Value, nil
	}

	v, err := e.Eval(n.Object, env)
	if err != nil {
		return nil, err
	}
	switch o := v.(type) {
	case *object.Namespace:
		m, ok := o.Get(n.Member)
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeUndeclared, n.Tok(), "namespace %s has no member %q", o.Name, n.Member)
		}
		return m, nil
	case *object.Class:
		f, ok := o.Field(n.Member)
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeUndeclared, n.Tok(), "class %s has no member %q", o.Name, n.Member)
		}
		return f.Value, nil
	case *object.Object:
		fv, ok := o.Values[n.Member]
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeUndeclared, n.Tok(), "object has no member %q", n.Member)
		}
		return fv, nil
	default:
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, n.Tok(), "cannot resolve member %q on a %s", n.Member, v.Kind())
	}
}
