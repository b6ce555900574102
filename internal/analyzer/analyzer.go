// Package analyzer implements the lexical-scope analysis pass spec.md §6
// describes only by interface: given an AST root and an initial name set
// (built-ins plus the primitive type names), walk the tree pushing and
// popping a scope at every block, closure, class, union, match-case and
// loop boundary, reporting A001 for any name — including an operator name
// inside an OpCall — that is never bound in an enclosing scope. Grounded
// on the teacher's internal/symbols.SymbolTable, trimmed from its
// trait/HKT machinery down to plain nested name binding, since this
// language has no traits to resolve.
package analyzer

import (
	"strings"

	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/registry"
	"github.com/piecake/pie/internal/token"
)

// BuiltinNames is the initial name set spec.md §6 requires: the primitive
// type names, "Uuid", the one host-provided namespace every program
// can reach without its own declaration (SPEC_FULL.md §4.10), and the bare
// built-in names the evaluator's global environment pre-binds (print, add,
// ...). Prefixed "__builtin_*" references are recognized structurally (see
// scope.has) rather than enumerated here, matching the evaluator's own
// dispatch rule (spec.md §9 Open Question (a)): any such name evaluates to
// itself whether or not it names a real built-in, so the analyzer never
// rejects one.
func BuiltinNames() []string {
	return []string{"Any", "Int", "Double", "Bool", "String", "Syntax", "Type", "Uuid",
		"true", "false",
		"add", "sub", "mul", "div", "mod", "pow", "neg",
		"gt", "geq", "eq", "leq", "lt",
		"and", "or", "not", "conditional",
		"print", "input_str", "input_int",
		"concat", "len", "get", "push", "pop", "str_slice",
		"to_int", "to_double", "to_string",
		"type_of", "eval", "reset", "panic",
	}
}

type scope struct {
	names map[string]bool
	outer *scope
}

func newScope(outer *scope) *scope {
	return &scope{names: make(map[string]bool), outer: outer}
}

func (s *scope) define(name string) {
	s.names[name] = true
}

func (s *scope) has(name string) bool {
	if strings.HasPrefix(name, "__builtin_") {
		return true
	}
	for sc := s; sc != nil; sc = sc.outer {
		if sc.names[name] {
			return true
		}
	}
	return false
}

// Analyzer walks an AST, checking every name reference against a nested
// scope stack and every operator reference against the registry the
// parser populated.
type Analyzer struct {
	registry *registry.Registry
	errors   []*diagnostics.Error
}

func New(reg *registry.Registry) *Analyzer {
	return &Analyzer{registry: reg}
}

// Analyze walks root with a fresh top scope seeded from initialNames,
// returning every undeclared-name error found (there is no recovery
// within a single name lookup, but the walk continues past an error so
// one pass reports everything wrong with a program, not just the first).
func (a *Analyzer) Analyze(root ast.Node, initialNames []string) []*diagnostics.Error {
	a.errors = nil
	top := newScope(nil)
	for _, n := range initialNames {
		top.define(n)
	}
	a.walk(root, top)
	return a.errors
}

func (a *Analyzer) undeclared(tok ast.Node, name string) {
	a.errors = append(a.errors, diagnostics.New(diagnostics.PhaseAnalyzer, diagnostics.CodeUndeclared, tok.Tok(), "undeclared name %q", name))
}

func (a *Analyzer) checkOperator(name string, n ast.Node) {
	if _, ok := a.registry.Lookup(name); !ok {
		a.undeclared(n, name)
	}
}

func (a *Analyzer) walk(node ast.Node, sc *scope) {
	if node == nil {
		return
	}
	switch n := node.(type) {
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.BoolLiteral, *ast.StringLiteral:
		// no names to check

	case *ast.Name:
		if !sc.has(n.Value) {
			a.undeclared(n, n.Value)
		}
		a.walkType(n.Type, sc)

	case *ast.ListLiteral:
		for _, e := range n.Elements {
			a.walk(e, sc)
		}

	case *ast.MapLiteral:
		for _, entry := range n.Entries {
			a.walk(entry.Key, sc)
			a.walk(entry.Value, sc)
		}

	case *ast.Expansion:
		a.walk(n.Value, sc)

	case *ast.Fold:
		a.checkOperator(n.Operator, n)
		a.walk(n.Pack, sc)
		a.walk(n.Init, sc)
		a.walk(n.Separator, sc)

	case *ast.Assignment:
		a.walk(n.RHS, sc)
		a.walkType(n.Type, sc)
		if lhs, ok := n.LHS.(*ast.Name); ok {
			sc.define(lhs.Value)
		} else {
			a.walk(n.LHS, sc)
		}

	case *ast.ClassLiteral:
		inner := newScope(sc)
		inner.define("self")
		for _, f := range n.Fields {
			a.walkType(f.Type, inner)
			a.walk(f.Default, inner)
		}

	case *ast.UnionLiteral:
		for _, m := range n.Members {
			a.walkType(m, sc)
		}

	case *ast.Match:
		a.walk(n.Scrutinee, sc)
		for _, c := range n.Cases {
			inner := newScope(sc)
			for _, p := range c.Patterns {
				a.bindPattern(p, inner)
			}
			a.walk(c.Guard, inner)
			a.walk(c.Body, inner)
		}

	case *ast.Loop:
		a.walk(n.Count, sc)
		a.walk(n.Iter, sc)
		inner := newScope(sc)
		if n.Binder != "" {
			inner.define(n.Binder)
		}
		a.walk(n.Body, inner)
		a.walk(n.Else, sc)

	case *ast.Break:
		a.walk(n.Value, sc)

	case *ast.Continue:
		// nothing to check

	case *ast.Access:
		a.walk(n.Object, sc)

	case *ast.NamespaceLiteral:
		inner := newScope(sc)
		for _, m := range n.Members {
			a.walk(m, inner)
		}

	case *ast.Use:
		a.walk(n.Namespace, sc)

	case *ast.ScopeResolve:
		a.walk(n.Object, sc)

	case *ast.Grouping:
		a.walk(n.Inner, sc)

	case *ast.UnaryOp:
		a.checkOperator(n.Operator, n)
		a.walk(n.Operand, sc)

	case *ast.BinOp:
		a.checkOperator(n.Operator, n)
		a.walk(n.Left, sc)
		a.walk(n.Right, sc)

	case *ast.PostOp:
		a.checkOperator(n.Operator, n)
		a.walk(n.Operand, sc)

	case *ast.CircumOp:
		a.checkOperator(n.Operator, n)
		a.walk(n.Inner, sc)

	case *ast.OpCall:
		a.checkOperator(n.Operator, n)
		for _, arg := range n.Args {
			a.walk(arg, sc)
		}

	case *ast.Call:
		a.walk(n.Callee, sc)
		for _, na := range n.Named {
			a.walk(na.Value, sc)
		}
		for _, p := range n.Positional {
			a.walk(p, sc)
		}

	case *ast.Closure:
		inner := newScope(sc)
		for i, p := range n.Params {
			if i < len(n.Types) {
				a.walkType(n.Types[i], inner)
			}
			inner.define(p)
		}
		if n.FnType != nil {
			a.walkType(n.FnType, inner)
		}
		a.walk(n.Body, inner)

	case *ast.Block:
		inner := newScope(sc)
		for _, line := range n.Lines {
			a.walk(line, inner)
		}

	case *ast.FixDecl:
		if n.Body != nil {
			a.walk(n.Body, sc)
		}

	default:
		// Unknown node variant: nothing more this pass can check.
	}
}

func (a *Analyzer) walkType(t ast.Type, sc *scope) {
	if t == nil {
		return
	}
	switch tt := t.(type) {
	case *ast.BuiltinType, *ast.TryReassignType:
		// always in scope

	case *ast.NamedType:
		if !sc.has(tt.Name) {
			a.errors = append(a.errors, diagnostics.New(diagnostics.PhaseAnalyzer, diagnostics.CodeUndeclared, tt.Tok(), "undeclared type %q", tt.Name))
		}

	case *ast.VariadicType:
		a.walkType(tt.Elem, sc)

	case *ast.FunctionType:
		for _, p := range tt.Params {
			a.walkType(p, sc)
		}
		a.walkType(tt.Result, sc)

	case *ast.ListType:
		a.walkType(tt.Elem, sc)

	case *ast.MapType:
		a.walkType(tt.Key, sc)
		a.walkType(tt.Value, sc)

	case *ast.ExpressionType:
		a.walk(tt.Expr, sc)
	}
}

func (a *Analyzer) bindPattern(p ast.Pattern, sc *scope) {
	switch pp := p.(type) {
	case ast.SinglePattern:
		a.walkType(pp.Type, sc)
		a.walk(pp.Default, sc)
		if pp.Name != "_" {
			sc.define(pp.Name)
		}
	case ast.StructurePattern:
		if !sc.has(pp.TypeName) {
			a.errors = append(a.errors, diagnostics.New(diagnostics.PhaseAnalyzer, diagnostics.CodeUndeclared, token.Token{}, "undeclared type %q", pp.TypeName))
		}
		for _, sub := range pp.Subs {
			a.bindPattern(sub, sc)
		}
	}
}
