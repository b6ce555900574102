package evaluator

import (
	"strings"

	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/object"
	"github.com/piecake/pie/internal/prettyprinter"
	"github.com/piecake/pie/internal/token"
	"github.com/piecake/pie/internal/typesystem"
)

// posItem is one already-positioned call argument: either a raw AST node
// still awaiting (possibly lazy, Syntax-typed) evaluation, or a value
// already produced by unrolling a `pack...` expansion — expansion must
// run before parameter matching to know how many positional slots it
// contributes (spec.md §4.5 "Call"), so its elements necessarily arrive
// pre-evaluated.
type posItem struct {
	node     ast.Node
	value    object.Value
	hasValue bool
}

func (it posItem) tok() token.Token {
	if it.node != nil {
		return it.node.Tok()
	}
	return token.Token{}
}

func (e *Evaluator) posItemValue(item posItem, env *object.Environment) (object.Value, error) {
	if item.hasValue {
		return item.value, nil
	}
	return e.Eval(item.node, env)
}

// expandPositional walks a call's positional argument nodes, eagerly
// evaluating and unrolling any `e...` expansion into its constituent
// elements (spec.md §4.5 "Expansion"); ordinary arguments pass through
// unevaluated so a Syntax-typed parameter can still bind them lazily.
func (e *Evaluator) expandPositional(nodes []ast.Node, env *object.Environment) ([]posItem, error) {
	items := make([]posItem, 0, len(nodes))
	for _, node := range nodes {
		exp, ok := node.(*ast.Expansion)
		if !ok {
			items = append(items, posItem{node: node})
			continue
		}
		v, err := e.Eval(exp.Value, env)
		if err != nil {
			return nil, err
		}
		elems, err := elemsOf(v, node.Tok())
		if err != nil {
			return nil, err
		}
		for _, el := range elems {
			items = append(items, posItem{value: el, hasValue: true})
		}
	}
	return items, nil
}

func elemsOf(v object.Value, tok token.Token) ([]object.Value, error) {
	switch vv := v.(type) {
	case *object.Pack:
		return *vv.Elems, nil
	case *object.List:
		return *vv.Elems, nil
	default:
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, tok, "cannot expand a %s with `...`", v.Kind())
	}
}

// evalCall implements spec.md §4.5 "Call": the callee is evaluated first
// (step 1), and dispatch then follows its runtime kind — a builtin-name
// String routes to the built-in table, a Class constructs an Object, a
// host Builtin value calls straight through, and a Closure goes through
// full parameter binding (currying, variadics, Syntax-laziness).
func (e *Evaluator) evalCall(n *ast.Call, env *object.Environment) (object.Value, error) {
	calleeVal, err := e.Eval(n.Callee, env)
	if err != nil {
		return nil, err
	}

	if s, ok := calleeVal.(*object.String); ok && strings.HasPrefix(s.Value, "__builtin_") {
		return e.evalBuiltinCall(s.Value, n, env)
	}

	switch callee := calleeVal.(type) {
	case *object.Class:
		items, err := e.expandPositional(n.Positional, env)
		if err != nil {
			return nil, err
		}
		return e.constructObject(callee, items, n.Named, env, n)

	case *object.Builtin:
		items, err := e.expandPositional(n.Positional, env)
		if err != nil {
			return nil, err
		}
		args := make([]object.Value, len(items))
		for i, it := range items {
			v, err := e.posItemValue(it, env)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return callee.Fn(args)

	case *object.Closure:
		return e.applyClosure(callee, n.Positional, n.Named, env, n)

	default:
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, n.Tok(), "cannot call a %s", calleeVal.Kind())
	}
}

// evalBuiltinCall dispatches a call whose callee resolved to a
// `__builtin_*` name. Five builtins need access to the raw (unevaluated)
// argument nodes and the calling environment rather than a flat
// []object.Value, so they're special-cased here; every other builtin
// goes through the generic eager table built once in buildBuiltinTable.
func (e *Evaluator) evalBuiltinCall(name string, n *ast.Call, env *object.Environment) (object.Value, error) {
	switch name {
	case "__builtin_and":
		return e.evalShortCircuit(n, env, false)
	case "__builtin_or":
		return e.evalShortCircuit(n, env, true)
	case "__builtin_conditional":
		return e.evalConditional(n, env)
	case "__builtin_reset":
		return e.evalReset(n, env)
	case "__builtin_eval":
		return e.evalEval(n, env)
	}

	items, err := e.expandPositional(n.Positional, env)
	if err != nil {
		return nil, err
	}
	args := make([]object.Value, len(items))
	for i, it := range items {
		v, err := e.posItemValue(it, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	fn, ok := e.builtins[name]
	if !ok {
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeUndeclared, n.Tok(), "unknown built-in %q", name)
	}
	return fn(args)
}

// evalShortCircuit implements `and`/`or`: the second operand is only
// evaluated when the first doesn't already settle the result.
func (e *Evaluator) evalShortCircuit(n *ast.Call, env *object.Environment, isOr bool) (object.Value, error) {
	if len(n.Positional) != 2 {
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeArity, n.Tok(), "and/or take exactly 2 arguments")
	}
	lv, err := e.Eval(n.Positional[0], env)
	if err != nil {
		return nil, err
	}
	lb, ok := lv.(*object.Bool)
	if !ok {
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, n.Tok(), "and/or operands must be Bool")
	}
	if isOr && lb.Value {
		return &object.Bool{Value: true}, nil
	}
	if !isOr && !lb.Value {
		return &object.Bool{Value: false}, nil
	}
	rv, err := e.Eval(n.Positional[1], env)
	if err != nil {
		return nil, err
	}
	rb, ok := rv.(*object.Bool)
	if !ok {
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, n.Tok(), "and/or operands must be Bool")
	}
	return rb, nil
}

// evalConditional implements `conditional(cond, then, else)`: exactly
// one of then/else is evaluated, per spec.md §4.6.
func (e *Evaluator) evalConditional(n *ast.Call, env *object.Environment) (object.Value, error) {
	if len(n.Positional) != 3 {
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeArity, n.Tok(), "conditional takes exactly 3 arguments")
	}
	cv, err := e.Eval(n.Positional[0], env)
	if err != nil {
		return nil, err
	}
	cb, ok := cv.(*object.Bool)
	if !ok {
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, n.Tok(), "conditional's first argument must be Bool")
	}
	if cb.Value {
		return e.Eval(n.Positional[1], env)
	}
	return e.Eval(n.Positional[2], env)
}

// evalReset implements `reset(expr)`: purges the memo-cache entry keyed
// by expr's own canonical text, without evaluating expr (spec.md §4.6
// "reset" — it forgets a memoized result, it doesn't recompute one).
func (e *Evaluator) evalReset(n *ast.Call, env *object.Environment) (object.Value, error) {
	if len(n.Positional) != 1 {
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeArity, n.Tok(), "reset takes exactly 1 argument")
	}
	e.Cache.Delete(prettyprinter.Print(n.Positional[0]))
	return unit, nil
}

// evalEval implements `eval(syntax)`: forces a Syntax value's wrapped
// node in the CALLING environment — not the environment the Syntax
// closed over — per spec.md §4.6's "evaluates it in the current
// environment".
func (e *Evaluator) evalEval(n *ast.Call, env *object.Environment) (object.Value, error) {
	if len(n.Positional) != 1 {
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeArity, n.Tok(), "eval takes exactly 1 argument")
	}
	v, err := e.Eval(n.Positional[0], env)
	if err != nil {
		return nil, err
	}
	s, ok := v.(*object.Syntax)
	if !ok {
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, n.Tok(), "eval requires a Syntax value")
	}
	return e.Eval(s.Node, env)
}

// evalFixDecl implements the runtime half of a fix-declaration (spec.md
// §5): the parser already installed the raw *ast.Closure it parsed as
// the registry overload's Body; the first time this node is evaluated
// (in left-to-right program order) that body is upgraded to a real
// object.Closure that has captured its declaration-site environment.
func (e *Evaluator) evalFixDecl(n *ast.FixDecl, env *object.Environment) (object.Value, error) {
	name := fixDeclRegistryName(n)
	upgraded := e.buildClosure(n.Body, env)
	e.Registry.ReplaceOverloadBody(name, n.Body, upgraded)
	return unit, nil
}

func fixDeclRegistryName(n *ast.FixDecl) string {
	switch n.Kind {
	case ast.FixExfix:
		if len(n.Names) == 2 {
			return n.Names[0] + ":" + n.Names[1]
		}
	case ast.FixMixfix:
		return strings.Join(n.Names, " ")
	}
	if len(n.Names) > 0 {
		return n.Names[0]
	}
	return ""
}

// ---- closure application ----

func indexOfParam(params []*ast.SinglePattern, name string) int {
	for i, p := range params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func isVariadicParam(p *ast.SinglePattern) bool {
	_, ok := p.Type.(*ast.VariadicType)
	return ok
}

func variadicElemType(t ast.Type) ast.Type {
	if vt, ok := t.(*ast.VariadicType); ok {
		return vt.Elem
	}
	return nil
}

// bindPosItem binds param in callEnv against item, evaluated lazily (as
// a Syntax wrapper, unforced) instead of eagerly when the parameter's
// declared type resolves to Syntax and item still carries a raw,
// unevaluated node (spec.md §4.5 "Syntax parameters"). Already-evaluated
// items (unrolled from a `...` expansion) are always bound by value,
// since there is no longer an unevaluated node to defer.
func (e *Evaluator) bindPosItem(p *ast.SinglePattern, item posItem, callerEnv, callEnv *object.Environment) error {
	t := e.resolveType(p.Type, callerEnv)
	if !item.hasValue {
		if bt, ok := t.(typesystem.Builtin); ok && bt.Name == typesystem.Syntax {
			callEnv.Define(p.Name, &object.Syntax{Node: item.node, Env: callerEnv, Text: prettyprinter.Print(item.node)}, t)
			return nil
		}
	}
	v, err := e.posItemValue(item, callerEnv)
	if err != nil {
		return err
	}
	if !typesystem.GreaterEq(t, v.RuntimeType()) {
		return diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeTypeMismatch, item.tok(), "parameter %q: cannot bind %s (declared %s)", p.Name, v.RuntimeType().Text(0), t.Text(0))
	}
	callEnv.Define(p.Name, v, t)
	return nil
}

// applyClosure implements spec.md §4.5 "Call" steps 3-4 for a Closure
// callee: named arguments bind first (without consuming the positional
// cursor), then positional items fill whichever declared parameters
// remain, in their original left-to-right order, with the (at most one)
// variadic parameter absorbing a prefix or suffix run of the leftover
// items depending on whether it is the first or last of the still-open
// parameters. With no variadic parameter open, too few positional items
// curries: the closure returned captures what was bound so far and awaits
// the rest. With a variadic parameter open, too few items to fill every
// non-variadic open parameter is an arity error.
func (e *Evaluator) applyClosure(cl *object.Closure, posNodes []ast.Node, named []ast.NamedArg, env *object.Environment, call ast.Node) (object.Value, error) {
	params := cl.Params
	bound := make([]bool, len(params))
	boundNode := make([]ast.Node, len(params))

	for _, na := range named {
		idx := indexOfParam(params, na.Name)
		if idx < 0 {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeUndeclared, call.Tok(), "closure has no parameter %q", na.Name)
		}
		if bound[idx] {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeDupNamed, call.Tok(), "parameter %q bound more than once", na.Name)
		}
		bound[idx] = true
		boundNode[idx] = na.Value
	}

	items, err := e.expandPositional(posNodes, env)
	if err != nil {
		return nil, err
	}

	var remIdx []int
	for i := range params {
		if !bound[i] {
			remIdx = append(remIdx, i)
		}
	}

	vPos := -1
	for ri, pi := range remIdx {
		if isVariadicParam(params[pi]) {
			vPos = ri
			break
		}
	}

	callEnv := object.NewEnclosedEnvironment(cl.LexEnv)
	if cl.Self != nil {
		callEnv.Define("self", cl.Self, cl.Self.RuntimeType())
	}
	for i, p := range params {
		if bound[i] {
			if err := e.bindPosItem(p, posItem{node: boundNode[i]}, env, callEnv); err != nil {
				return nil, err
			}
		}
	}

	if vPos < 0 {
		if len(items) > len(remIdx) {
			return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeArity, call.Tok(), "too many positional arguments: closure takes %d parameters", len(params))
		}
		for k := 0; k < len(items); k++ {
			if err := e.bindPosItem(params[remIdx[k]], items[k], env, callEnv); err != nil {
				return nil, err
			}
		}
		if len(items) < len(remIdx) {
			curried := make([]*ast.SinglePattern, 0, len(remIdx)-len(items))
			for _, pi := range remIdx[len(items):] {
				curried = append(curried, params[pi])
			}
			return &object.Closure{Params: curried, Body: cl.Body, LexEnv: callEnv, Self: cl.Self, Name: cl.Name}, nil
		}
		return e.Eval(cl.Body, callEnv)
	}

	before := vPos
	after := len(remIdx) - vPos - 1
	if len(items) < before+after {
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeArity, call.Tok(), "not enough positional arguments to satisfy closure's non-variadic parameters")
	}
	variadicCount := len(items) - before - after

	for k := 0; k < before; k++ {
		if err := e.bindPosItem(params[remIdx[k]], items[k], env, callEnv); err != nil {
			return nil, err
		}
	}

	vParam := params[remIdx[vPos]]
	elemType := e.resolveType(variadicElemType(vParam.Type), env)
	packVals := make([]object.Value, variadicCount)
	for k := 0; k < variadicCount; k++ {
		v, err := e.posItemValue(items[before+k], env)
		if err != nil {
			return nil, err
		}
		packVals[k] = v
	}
	callEnv.Define(vParam.Name, &object.Pack{Elems: &packVals, Elem: elemType}, typesystem.Variadic{Elem: elemType})

	for k := 0; k < after; k++ {
		pi := remIdx[vPos+1+k]
		if err := e.bindPosItem(params[pi], items[before+variadicCount+k], env, callEnv); err != nil {
			return nil, err
		}
	}

	return e.Eval(cl.Body, callEnv)
}
