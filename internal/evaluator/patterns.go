package evaluator

import (
	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/object"
	"github.com/piecake/pie/internal/typesystem"
)

// evalMatch implements spec.md §4.5 "Match": cases are tried in
// declaration order; a case wins when at least one of its pattern
// alternatives matches the scrutinee and (if present) its guard
// evaluates truthy. Exhaustion is a runtime CodePattern error, not a
// silent fallthrough (spec.md §4.4 "Pattern matching" edge case).
func (e *Evaluator) evalMatch(n *ast.Match, env *object.Environment) (object.Value, error) {
	scrutinee, err := e.Eval(n.Scrutinee, env)
	if err != nil {
		return nil, err
	}
	for _, c := range n.Cases {
		for _, pat := range c.Patterns {
			caseEnv := object.NewEnclosedEnvironment(env)
			ok, err := e.matchPattern(pat, scrutinee, caseEnv)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if c.Guard != nil {
				gv, err := e.Eval(c.Guard, caseEnv)
				if err != nil {
					return nil, err
				}
				if !truthy(gv) {
					continue
				}
			}
			return e.Eval(c.Body, caseEnv)
		}
	}
	return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodePattern, n.Tok(), "match exhausted: no case matched")
}

// matchPattern implements spec.md §4.4/§4.5's two pattern shapes: Single
// binds (optionally type-checking and/or requiring equality with a
// default) and Structure recurses field-by-field against a resolved
// class's declared field order.
func (e *Evaluator) matchPattern(pat ast.Pattern, v object.Value, env *object.Environment) (bool, error) {
	switch p := pat.(type) {
	case ast.SinglePattern:
		if p.Type != nil {
			t := e.resolveType(p.Type, env)
			if !typesystem.GreaterEq(t, v.RuntimeType()) {
				return false, nil
			}
		}
		if p.Default != nil {
			dv, err := e.Eval(p.Default, env)
			if err != nil {
				return false, err
			}
			if object.CanonicalKey(dv) != object.CanonicalKey(v) {
				return false, nil
			}
		}
		if p.Name != "_" {
			env.Define(p.Name, v, v.RuntimeType())
		}
		return true, nil

	case ast.StructurePattern:
		b, ok := env.Get(p.TypeName)
		if !ok {
			return false, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeUndeclared, ast.Base{}.Tok(), "undefined pattern type %q", p.TypeName)
		}
		target, ok := b.Value.(*object.Class)
		if !ok {
			return false, nil
		}
		obj, ok := v.(*object.Object)
		if !ok {
			return false, nil
		}
		if !typesystem.GreaterEq(target.RuntimeType(), obj.RuntimeType()) {
			return false, nil
		}
		// Arity is checked against the scrutinee's own class, not the
		// pattern's named type: width subtyping means a Node can satisfy
		// Leaf's shape (it has every field Leaf names), so the name check
		// alone would let Leaf(k) match a Node value. Requiring the
		// subpattern count to equal the scrutinee's actual field count is
		// what makes a pattern only match objects of (structurally) its
		// own arity, binding each subpattern to the scrutinee's own field
		// in the scrutinee's own declared order.
		if len(p.Subs) != len(obj.Class.Fields) {
			return false, nil
		}
		for i, sub := range p.Subs {
			field := obj.Class.Fields[i]
			fv, ok := obj.Values[field.Name]
			if !ok {
				return false, nil
			}
			ok2, err := e.matchPattern(sub, fv, env)
			if err != nil {
				return false, err
			}
			if !ok2 {
				return false, nil
			}
		}
		return true, nil

	default:
		return false, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodePattern, ast.Base{}.Tok(), "unknown pattern kind %T", pat)
	}
}

// truthy reports whether v counts as true in a guard/conditional
// position: only Bool{true} does (spec.md has no other falsy value —
// no null, no zero-is-false convention).
func truthy(v object.Value) bool {
	b, ok := v.(*object.Bool)
	return ok && b.Value
}
