package evaluator

import (
	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/object"
)

// evalLoop implements spec.md §4.5 "Loop". The parser records Kind as
// LoopInfinite for a loop with no kind expression and as LoopCount
// whenever one is written (it never statically distinguishes a counted
// loop from an iterable one — see internal/parser's own documented
// choice), so those shapes are told apart here, at runtime, by the
// evaluated kind expression's dynamic type: an Int drives a counted
// loop, a List/Map an element/entry iteration. break with a value
// supplies the loop's result and break with no value yields unit; a
// loop that runs to completion yields its else-clause's value, or unit
// when it has none.
func (e *Evaluator) evalLoop(n *ast.Loop, env *object.Environment) (object.Value, error) {
	switch n.Kind {
	case ast.LoopInfinite:
		for {
			brk, result, err := e.runLoopBody(n, env, nil)
			if err != nil {
				return nil, err
			}
			if brk {
				return result, nil
			}
		}

	case ast.LoopCount:
		kindVal, err := e.Eval(n.Count, env)
		if err != nil {
			return nil, err
		}
		switch kv := kindVal.(type) {
		case *object.Int:
			for i := int64(0); i < kv.Value; i++ {
				brk, result, err := e.runLoopBody(n, env, &object.Int{Value: i})
				if err != nil {
					return nil, err
				}
				if brk {
					return result, nil
				}
			}
			return e.loopElse(n, env)
		case *object.List:
			for _, el := range *kv.Elems {
				brk, result, err := e.runLoopBody(n, env, el)
				if err != nil {
					return nil, err
				}
				if brk {
					return result, nil
				}
			}
			return e.loopElse(n, env)
		case *object.Map:
			for _, entry := range *kv.Entries {
				brk, result, err := e.runLoopBody(n, env, entry.Key)
				if err != nil {
					return nil, err
				}
				if brk {
					return result, nil
				}
			}
			return e.loopElse(n, env)
		default:
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, n.Tok(), "loop count/iterable must be Int, List, or Map, got %s", kindVal.Kind())
		}

	default: // ast.LoopIterable — the parser never emits this, kept for completeness
		iterVal, err := e.Eval(n.Iter, env)
		if err != nil {
			return nil, err
		}
		lst, ok := iterVal.(*object.List)
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, n.Tok(), "loop iterable must be a List, got %s", iterVal.Kind())
		}
		for _, el := range *lst.Elems {
			brk, result, err := e.runLoopBody(n, env, el)
			if err != nil {
				return nil, err
			}
			if brk {
				return result, nil
			}
		}
		return e.loopElse(n, env)
	}
}

func (e *Evaluator) loopElse(n *ast.Loop, env *object.Environment) (object.Value, error) {
	if n.Else == nil {
		return unit, nil
	}
	return e.Eval(n.Else, env)
}

// runLoopBody runs one iteration of n.Body in a fresh frame, binding
// n.Binder (unless empty) to binding, and translates a breakSignal into
// (true, value, nil) and a continueSignal into (false, unit, nil) —
// the only two places in the evaluator that ever unwrap those sentinels.
func (e *Evaluator) runLoopBody(n *ast.Loop, env *object.Environment, binding object.Value) (brk bool, result object.Value, err error) {
	bodyEnv := object.NewEnclosedEnvironment(env)
	if n.Binder != "" && binding != nil {
		bodyEnv.Define(n.Binder, binding, binding.RuntimeType())
	}
	v, err := e.Eval(n.Body, bodyEnv)
	if err == nil {
		return false, v, nil
	}
	if bs, ok := err.(breakSignal); ok {
		if bs.hasValue {
			return true, bs.value, nil
		}
		return true, unit, nil
	}
	if _, ok := err.(continueSignal); ok {
		return false, unit, nil
	}
	return false, nil, err
}
