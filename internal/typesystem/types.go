// Package typesystem implements the structural type objects of spec.md
// §3–§4.4: a closed set of type kinds related by a subtype relation used
// uniformly as a coercion check and as a pattern matcher. There is no
// inference (spec.md §1 Non-goals) — every Type here is either a builtin
// tag or built directly from an evaluated type-expression.
package typesystem

import (
	"fmt"
	"strings"
)

// Type is the interface every concrete type kind implements.
type Type interface {
	// Text renders the type at the given indent level, matching the
	// canonical-form conventions used by the prettyprinter.
	Text(indent int) string
	// InvolvesT reports whether name appears anywhere inside this type,
	// used by pattern matching to reject self-referential recursive type
	// tests (spec.md §4.4).
	InvolvesT(name string) bool
}

// ---- Builtin ----

// BuiltinName enumerates the seven scalar tags.
type BuiltinName string

const (
	Any    BuiltinName = "Any"
	Syntax BuiltinName = "Syntax"
	Int    BuiltinName = "Int"
	Double BuiltinName = "Double"
	Bool   BuiltinName = "Bool"
	String BuiltinName = "String"
	TypeTy BuiltinName = "Type"
)

type Builtin struct{ Name BuiltinName }

func (b Builtin) Text(int) string           { return string(b.Name) }
func (b Builtin) InvolvesT(name string) bool { return string(b.Name) == name }

// ---- Literal (structural class / record) ----

type Member struct {
	Name string
	Type Type
}

// Literal is a structural record type: the type of a class-literal's
// instances, compared by member name/type, order-agnostic.
type Literal struct {
	ClassName string // empty for an anonymous structural type
	Members   []Member
}

func (l Literal) Text(indent int) string {
	var b strings.Builder
	pad := strings.Repeat("  ", indent)
	b.WriteString("class { ")
	for i, m := range l.Members {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", m.Name, m.Type.Text(indent+1))
	}
	b.WriteString(" }")
	_ = pad
	return b.String()
}

func (l Literal) InvolvesT(name string) bool {
	if l.ClassName == name {
		return true
	}
	for _, m := range l.Members {
		if m.Type.InvolvesT(name) {
			return true
		}
	}
	return false
}

func (l Literal) field(name string) (Member, bool) {
	for _, m := range l.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// ---- Union ----

type Union struct{ Members []Type }

func (u Union) Text(indent int) string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.Text(indent)
	}
	return strings.Join(parts, " | ")
}

func (u Union) InvolvesT(name string) bool {
	for _, m := range u.Members {
		if m.InvolvesT(name) {
			return true
		}
	}
	return false
}

// ---- Function ----

type Function struct {
	Params []Type
	Result Type
}

func (f Function) Text(indent int) string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Text(indent)
	}
	return fmt.Sprintf("(%s): %s", strings.Join(parts, ", "), f.Result.Text(indent))
}

func (f Function) InvolvesT(name string) bool {
	for _, p := range f.Params {
		if p.InvolvesT(name) {
			return true
		}
	}
	return f.Result.InvolvesT(name)
}

// ---- Variadic ----

type Variadic struct{ Elem Type }

func (v Variadic) Text(indent int) string  { return "..." + v.Elem.Text(indent) }
func (v Variadic) InvolvesT(name string) bool { return v.Elem.InvolvesT(name) }

// ---- List / Map ----

type List struct{ Elem Type }

func (l List) Text(indent int) string  { return "List<" + l.Elem.Text(indent) + ">" }
func (l List) InvolvesT(name string) bool { return l.Elem.InvolvesT(name) }

type Map struct{ Key, Value Type }

func (m Map) Text(indent int) string {
	return "Map<" + m.Key.Text(indent) + ", " + m.Value.Text(indent) + ">"
}
func (m Map) InvolvesT(name string) bool {
	return m.Key.InvolvesT(name) || m.Value.InvolvesT(name)
}

// ---- Expression ----

// Expression is a type whose identity is an evaluable expression; before
// evaluation it compares equal only by source text (spec.md §3).
type Expression struct {
	Source   string
	Resolved Type // nil until evaluated
}

func (e Expression) Text(indent int) string {
	if e.Resolved != nil {
		return e.Resolved.Text(indent)
	}
	return e.Source
}

func (e Expression) InvolvesT(name string) bool {
	if e.Resolved != nil {
		return e.Resolved.InvolvesT(name)
	}
	return e.Source == name
}

// ---- TryReassign ----

// TryReassign is the "no annotation" sentinel: bottom-like, any write is
// accepted against it.
type TryReassign struct{}

func (TryReassign) Text(int) string         { return "_" }
func (TryReassign) InvolvesT(string) bool { return false }
