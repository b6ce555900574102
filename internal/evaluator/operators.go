package evaluator

import (
	"fmt"

	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/object"
	"github.com/piecake/pie/internal/token"
	"github.com/piecake/pie/internal/typesystem"
)

// evalOperator implements spec.md §4.5's UnaryOp/BinOp/PostOp/CircumOp/
// OpCall cases: every operand is evaluated once (eagerly — their runtime
// types are needed to pick an overload), then resolved against the
// operator's registered overloads.
func (e *Evaluator) evalOperator(opName string, argNodes []ast.Node, env *object.Environment, tok token.Token) (object.Value, error) {
	args := make([]object.Value, len(argNodes))
	for i, an := range argNodes {
		v, err := e.Eval(an, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return e.applyOperatorValues(opName, args, env, tok)
}

// applyOperatorValues resolves opName's overload set against already-
// evaluated args, matching the first overload (in declaration order)
// whose resolved parameter types are all >= the corresponding argument's
// runtime type — spec.md §9's "first-match, no best-match" resolution
// rule. Syntax-typed operator-overload parameters are not supported:
// every overload parameter is resolved and checked as an ordinary
// eagerly-evaluated type.
func (e *Evaluator) applyOperatorValues(opName string, args []object.Value, env *object.Environment, tok token.Token) (object.Value, error) {
	d, ok := e.Registry.Lookup(opName)
	if !ok {
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeUnknownOp, tok, "unknown operator %q", opName)
	}
	for _, ov := range d.Overloads {
		if len(ov.ParamTypes) != len(args) {
			continue
		}
		matched := true
		for i, pt := range ov.ParamTypes {
			if !typesystem.GreaterEq(e.resolveType(pt, env), args[i].RuntimeType()) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		return e.invokeOverloadBody(ov.Body, args, env)
	}
	return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeArity, tok, "no overload of %q matches the given argument types", opName)
}

// invokeOverloadBody calls an overload's body against pre-evaluated
// args. Body is normally a *object.Closure, already upgraded by
// evalFixDecl; it can still be the raw *ast.Closure the parser installed
// if the operator is used before its own fix-declaration statement has
// executed (e.g. mutual recursion between two operators declared back to
// back) — in that case a closure is built on the fly, capturing env,
// rather than failing the call.
func (e *Evaluator) invokeOverloadBody(body any, args []object.Value, env *object.Environment) (object.Value, error) {
	switch b := body.(type) {
	case *object.Closure:
		return e.invokeClosureValues(b, args)
	case *ast.Closure:
		return e.invokeClosureValues(e.buildClosure(b, env), args)
	default:
		return nil, fmt.Errorf("operator overload: unexpected body type %T", body)
	}
}

// invokeClosureValues applies cl to args positionally with no currying,
// no variadics and no named arguments — operator overloads always
// declare a fixed arity matching the operator's hole count (spec.md §3
// invariant), so the general applyClosure machinery (built for ordinary
// Call-syntax application) is unnecessary here.
func (e *Evaluator) invokeClosureValues(cl *object.Closure, args []object.Value) (object.Value, error) {
	if len(args) != len(cl.Params) {
		return nil, fmt.Errorf("operator overload: expected %d arguments, got %d", len(cl.Params), len(args))
	}
	callEnv := object.NewEnclosedEnvironment(cl.LexEnv)
	if cl.Self != nil {
		callEnv.Define("self", cl.Self, cl.Self.RuntimeType())
	}
	for i, p := range cl.Params {
		t := e.resolveType(p.Type, callEnv)
		if !typesystem.GreaterEq(t, args[i].RuntimeType()) {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, cl.Body.Tok(), "parameter %q: cannot bind %s (declared %s)", p.Name, args[i].RuntimeType().Text(0), t.Text(0))
		}
		callEnv.Define(p.Name, args[i], t)
	}
	return e.Eval(cl.Body, callEnv)
}
