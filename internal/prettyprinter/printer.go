// Package prettyprinter renders AST nodes and type expressions back into
// deterministic Pie source text (spec.md §4.8's "canonical form"). Two
// things are grounded on its output being stable byte-for-byte on every
// call: the `reset`/memoization cache key (internal/evaluator) and a
// Syntax value's quote/eval equality (internal/object's Syntax.Text).
//
// The printer always fully parenthesizes operator application rather
// than reconstructing minimal precedence-aware parens — unambiguous
// determinism matters here, not readability of a single expression in
// isolation. `cmd/pie fmt` lays multi-line constructs (Block, ClassLiteral,
// NamespaceLiteral, UnionLiteral, Match) out one member per line; every
// other node renders on one line, matching the teacher's
// prettyprinter/code_printer.go convention of a compact single-pass
// recursive writer rather than a layout-solving pretty-printer.
package prettyprinter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piecake/pie/internal/ast"
)

// Print renders node into its canonical textual form.
func Print(node ast.Node) string {
	var b strings.Builder
	write(&b, node, 0)
	return b.String()
}

// PrintType renders a parsed type expression into canonical form.
func PrintType(t ast.Type) string {
	var b strings.Builder
	writeType(&b, t)
	return b.String()
}

func write(b *strings.Builder, node ast.Node, indent int) {
	if node == nil {
		b.WriteString("<nil>")
		return
	}
	switch n := node.(type) {
	case *ast.IntLiteral:
		fmt.Fprintf(b, "%d", n.Value)
	case *ast.FloatLiteral:
		b.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *ast.BoolLiteral:
		fmt.Fprintf(b, "%t", n.Value)
	case *ast.StringLiteral:
		fmt.Fprintf(b, "%q", n.Value)
	case *ast.Name:
		b.WriteString(n.Value)
		if n.Type != nil {
			b.WriteString(": ")
			writeType(b, n.Type)
		}
	case *ast.ListLiteral:
		b.WriteString("[")
		writeNodeList(b, n.Elements, indent)
		b.WriteString("]")
	case *ast.MapLiteral:
		b.WriteString("{")
		for i, e := range n.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			write(b, e.Key, indent)
			b.WriteString(": ")
			write(b, e.Value, indent)
		}
		b.WriteString("}")
	case *ast.Expansion:
		write(b, n.Value, indent)
		b.WriteString("...")
	case *ast.Fold:
		b.WriteString("(")
		writeFold(b, n, indent)
		b.WriteString(")")
	case *ast.Assignment:
		write(b, n.LHS, indent)
		b.WriteString(" = ")
		write(b, n.RHS, indent)
	case *ast.ClassLiteral:
		b.WriteString("class {")
		writeFields(b, n.Fields, indent)
		writePad(b, indent)
		b.WriteString("}")
	case *ast.UnionLiteral:
		b.WriteString("union {")
		for _, m := range n.Members {
			writePad(b, indent+1)
			writeType(b, m)
			b.WriteString(";")
		}
		writePad(b, indent)
		b.WriteString("}")
	case *ast.Match:
		b.WriteString("match ")
		write(b, n.Scrutinee, indent)
		b.WriteString(" {")
		for _, c := range n.Cases {
			writePad(b, indent+1)
			for i, p := range c.Patterns {
				if i > 0 {
					b.WriteString(" | ")
				}
				writePattern(b, p)
			}
			if c.Guard != nil {
				b.WriteString(" & ")
				write(b, c.Guard, indent)
			}
			b.WriteString(" => ")
			write(b, c.Body, indent)
			b.WriteString(";")
		}
		writePad(b, indent)
		b.WriteString("}")
	case *ast.Loop:
		b.WriteString("loop ")
		if n.Kind != ast.LoopInfinite {
			b.WriteString("(")
			write(b, n.Count, indent)
			if n.Binder != "" {
				b.WriteString(": ")
				b.WriteString(n.Binder)
			}
			b.WriteString(") ")
		}
		write(b, n.Body, indent)
		if n.Else != nil {
			b.WriteString(" else ")
			write(b, n.Else, indent)
		}
	case *ast.Break:
		b.WriteString("break")
		if n.Value != nil {
			b.WriteString(" ")
			write(b, n.Value, indent)
		}
	case *ast.Continue:
		b.WriteString("continue")
	case *ast.Access:
		write(b, n.Object, indent)
		b.WriteString(".")
		b.WriteString(n.Field)
	case *ast.NamespaceLiteral:
		b.WriteString("namespace {")
		for _, m := range n.Members {
			writePad(b, indent+1)
			write(b, m, indent+1)
			b.WriteString(";")
		}
		writePad(b, indent)
		b.WriteString("}")
	case *ast.Use:
		b.WriteString("use ")
		write(b, n.Namespace, indent)
	case *ast.ScopeResolve:
		if n.Object != nil {
			write(b, n.Object, indent)
		}
		b.WriteString("::")
		b.WriteString(n.Member)
	case *ast.Grouping:
		b.WriteString("(")
		write(b, n.Inner, indent)
		b.WriteString(")")
	case *ast.UnaryOp:
		b.WriteString("(")
		b.WriteString(n.Operator)
		b.WriteString(" ")
		write(b, n.Operand, indent)
		b.WriteString(")")
	case *ast.BinOp:
		b.WriteString("(")
		write(b, n.Left, indent)
		b.WriteString(" ")
		b.WriteString(n.Operator)
		b.WriteString(" ")
		write(b, n.Right, indent)
		b.WriteString(")")
	case *ast.PostOp:
		b.WriteString("(")
		write(b, n.Operand, indent)
		b.WriteString(" ")
		b.WriteString(n.Operator)
		b.WriteString(")")
	case *ast.CircumOp:
		b.WriteString(n.Operator)
		b.WriteString("(")
		write(b, n.Inner, indent)
		b.WriteString(")")
	case *ast.OpCall:
		b.WriteString("(")
		argIdx, tokIdx := 0, 0
		for i, isExpr := range n.IsExprPos {
			if i > 0 {
				b.WriteString(" ")
			}
			if isExpr {
				write(b, n.Args[argIdx], indent)
				argIdx++
			} else {
				if tokIdx < len(n.Tokens) {
					b.WriteString(n.Tokens[tokIdx])
				}
				tokIdx++
			}
		}
		b.WriteString(")")
	case *ast.Call:
		write(b, n.Callee, indent)
		b.WriteString("(")
		for i, a := range n.Positional {
			if i > 0 {
				b.WriteString(", ")
			}
			write(b, a, indent)
		}
		for i, na := range n.Named {
			if i > 0 || len(n.Positional) > 0 {
				b.WriteString(", ")
			}
			b.WriteString(na.Name)
			b.WriteString(" = ")
			write(b, na.Value, indent)
		}
		b.WriteString(")")
	case *ast.Closure:
		b.WriteString("(")
		for i, p := range n.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p)
			if n.Types[i] != nil {
				b.WriteString(": ")
				writeType(b, n.Types[i])
			}
		}
		b.WriteString(")")
		if n.FnType != nil {
			b.WriteString(": ")
			writeType(b, n.FnType.Result)
		}
		b.WriteString(" => ")
		write(b, n.Body, indent)
	case *ast.Block:
		b.WriteString("{")
		for _, l := range n.Lines {
			writePad(b, indent+1)
			write(b, l, indent+1)
			b.WriteString(";")
		}
		writePad(b, indent)
		b.WriteString("}")
	case *ast.FixDecl:
		b.WriteString(kindWord(n.Kind))
		b.WriteString("(")
		b.WriteString(n.HighAnchor)
		b.WriteString(") ")
		b.WriteString(strings.Join(n.Names, " : "))
		b.WriteString(" = ")
		if n.Body != nil {
			write(b, n.Body, indent)
		}
	default:
		fmt.Fprintf(b, "<%T>", node)
	}
}

func writeNodeList(b *strings.Builder, nodes []ast.Node, indent int) {
	for i, e := range nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		write(b, e, indent)
	}
}

func writeFold(b *strings.Builder, f *ast.Fold, indent int) {
	switch {
	case f.Direction == ast.FoldRight && f.Init == nil:
		b.WriteString("... ")
		b.WriteString(f.Operator)
		b.WriteString(" ")
		write(b, f.Pack, indent)
	case f.Direction == ast.FoldLeft && f.Init == nil && f.Separator == nil:
		write(b, f.Pack, indent)
		b.WriteString(" ")
		b.WriteString(f.Operator)
		b.WriteString(" ...")
	case f.Direction == ast.FoldRight:
		b.WriteString("... ")
		b.WriteString(f.Operator)
		b.WriteString(" ")
		write(b, f.Pack, indent)
		b.WriteString(" ")
		b.WriteString(f.Operator)
		b.WriteString(" ")
		write(b, f.Init, indent)
	case f.Separator != nil:
		write(b, f.Pack, indent)
		b.WriteString(" ")
		b.WriteString(f.Operator)
		b.WriteString(" ... ")
		b.WriteString(f.Operator)
		b.WriteString(" ")
		write(b, f.Separator, indent)
	default:
		write(b, f.Init, indent)
		b.WriteString(" ")
		b.WriteString(f.Operator)
		b.WriteString(" ")
		write(b, f.Pack, indent)
		b.WriteString(" ")
		b.WriteString(f.Operator)
		b.WriteString(" ...")
	}
}

func writeFields(b *strings.Builder, fields []ast.Field, indent int) {
	for _, f := range fields {
		writePad(b, indent+1)
		b.WriteString(f.Name)
		if f.Type != nil {
			b.WriteString(": ")
			writeType(b, f.Type)
		}
		if f.Default != nil {
			b.WriteString(" = ")
			write(b, f.Default, indent+1)
		}
		b.WriteString(";")
	}
}

func writePattern(b *strings.Builder, p ast.Pattern) {
	switch pt := p.(type) {
	case ast.SinglePattern:
		b.WriteString(pt.Name)
		if pt.Type != nil {
			b.WriteString(": ")
			writeType(b, pt.Type)
		}
		if pt.Default != nil {
			b.WriteString(" = ")
			write(b, pt.Default, 0)
		}
	case ast.StructurePattern:
		b.WriteString(pt.TypeName)
		b.WriteString("(")
		for i, s := range pt.Subs {
			if i > 0 {
				b.WriteString(", ")
			}
			writePattern(b, s)
		}
		b.WriteString(")")
	}
}

func writeType(b *strings.Builder, t ast.Type) {
	if t == nil {
		b.WriteString("_")
		return
	}
	switch tt := t.(type) {
	case *ast.BuiltinType:
		b.WriteString(tt.Name)
	case *ast.NamedType:
		b.WriteString(tt.Name)
	case *ast.VariadicType:
		b.WriteString("...")
		writeType(b, tt.Elem)
	case *ast.FunctionType:
		b.WriteString("(")
		for i, p := range tt.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			writeType(b, p)
		}
		b.WriteString("): ")
		writeType(b, tt.Result)
	case *ast.ListType:
		b.WriteString("List<")
		writeType(b, tt.Elem)
		b.WriteString(">")
	case *ast.MapType:
		b.WriteString("Map<")
		writeType(b, tt.Key)
		b.WriteString(", ")
		writeType(b, tt.Value)
		b.WriteString(">")
	case *ast.ExpressionType:
		write(b, tt.Expr, 0)
	case *ast.TryReassignType:
		b.WriteString("_")
	default:
		fmt.Fprintf(b, "<%T>", t)
	}
}

func writePad(b *strings.Builder, indent int) {
	b.WriteString("\n")
	b.WriteString(strings.Repeat("  ", indent))
}

func kindWord(k ast.FixKind) string {
	switch k {
	case ast.FixPrefix:
		return "prefix"
	case ast.FixInfix:
		return "infix"
	case ast.FixSuffix:
		return "suffix"
	case ast.FixExfix:
		return "exfix"
	case ast.FixMixfix:
		return "mixfix"
	}
	return "fix"
}
