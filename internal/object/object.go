// Package object is the runtime Value representation of spec.md §3: a
// tagged variant over the handful of kinds a Pie program can produce or
// hold at runtime, plus the Environment frame stack values live in.
package object

import (
	"fmt"
	"strings"

	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/typesystem"
)

// Kind tags a Value the way the teacher's evaluator tags its Object
// interface (ObjectType strings); kept as a Go type rather than a plain
// string for switch exhaustiveness checking.
type Kind string

const (
	IntKind       Kind = "INT"
	DoubleKind    Kind = "DOUBLE"
	BoolKind      Kind = "BOOL"
	StringKind    Kind = "STRING"
	ClosureKind   Kind = "CLOSURE"
	ClassKind     Kind = "CLASS"
	UnionKind     Kind = "UNION"
	NamespaceKind Kind = "NAMESPACE"
	ObjectKind    Kind = "OBJECT"
	ListKind      Kind = "LIST"
	MapKind       Kind = "MAP"
	SyntaxKind    Kind = "SYNTAX"
	PackKind      Kind = "PACK"
	TypeKind      Kind = "TYPE"
)

// Value is the interface every runtime value implements.
type Value interface {
	Kind() Kind
	Inspect() string
	RuntimeType() typesystem.Type
}

// ---- scalars ----

type Int struct{ Value int64 }

func (v *Int) Kind() Kind                      { return IntKind }
func (v *Int) Inspect() string                 { return fmt.Sprintf("%d", v.Value) }
func (v *Int) RuntimeType() typesystem.Type    { return typesystem.Builtin{Name: typesystem.Int} }

type Double struct{ Value float64 }

func (v *Double) Kind() Kind                   { return DoubleKind }
func (v *Double) Inspect() string              { return fmt.Sprintf("%g", v.Value) }
func (v *Double) RuntimeType() typesystem.Type { return typesystem.Builtin{Name: typesystem.Double} }

type Bool struct{ Value bool }

func (v *Bool) Kind() Kind                     { return BoolKind }
func (v *Bool) Inspect() string                { return fmt.Sprintf("%t", v.Value) }
func (v *Bool) RuntimeType() typesystem.Type   { return typesystem.Builtin{Name: typesystem.Bool} }

type String struct{ Value string }

func (v *String) Kind() Kind                   { return StringKind }
func (v *String) Inspect() string              { return v.Value }
func (v *String) RuntimeType() typesystem.Type { return typesystem.Builtin{Name: typesystem.String} }

// ---- closure ----

// Closure is a function value: a parameter pattern list plus a body
// expression, closing over the lexical environment it was defined in
// (LexEnv). Each application binds the parameters in a fresh frame
// enclosed by LexEnv; that frame is not stored here. Self, when non-nil, is the
// receiver a method closure was bound to by a ScopeResolve/Access lookup.
type Closure struct {
	Params    []*ast.SinglePattern
	FnType    *typesystem.Function
	Body      ast.Node
	LexEnv    *Environment
	Self      Value
	Name      string // empty for anonymous closures; shown by Inspect
}

func (v *Closure) Kind() Kind { return ClosureKind }
func (v *Closure) Inspect() string {
	if v.Name != "" {
		return "<closure " + v.Name + ">"
	}
	return "<closure>"
}
func (v *Closure) RuntimeType() typesystem.Type {
	if v.FnType != nil {
		return *v.FnType
	}
	return typesystem.Builtin{Name: typesystem.Any}
}

// Builtin is a host-function value (spec.md §4.6's built-in table:
// arithmetic, comparison, I/O, and so on). The evaluator's prelude does not
// construct Builtin values: it binds each built-in as the String
// "__builtin_<name>", which the evaluator dispatches on when called.
type Builtin struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (v *Builtin) Kind() Kind                     { return ClosureKind }
func (v *Builtin) Inspect() string                { return "<builtin " + v.Name + ">" }
func (v *Builtin) RuntimeType() typesystem.Type   { return typesystem.Builtin{Name: typesystem.Any} }

// ---- class / union / namespace / object ----

// Field describes one member of a class-literal: its name, declared
// type, and optional default-value expression (evaluated once, when the
// class literal itself is evaluated; see Value).
type Field struct {
	Name    string
	Type    typesystem.Type
	Default ast.Node // nil if no default; kept for introspection/prettyprinting
	Value   Value    // the default, evaluated and type-checked once at class-literal evaluation time; nil if Default is nil
}

// Class is a class-literal value: an ordered field list, used both as a
// structural type descriptor and as a constructor (spec.md §4.1 "class").
type Class struct {
	Name   string // empty for an anonymous class-literal
	Fields []Field
	DefEnv *Environment // environment defaults are evaluated in
}

func (v *Class) Kind() Kind { return ClassKind }
func (v *Class) Inspect() string {
	names := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		names[i] = f.Name
	}
	return "class { " + strings.Join(names, "; ") + " }"
}
func (v *Class) RuntimeType() typesystem.Type {
	members := make([]typesystem.Member, len(v.Fields))
	for i, f := range v.Fields {
		members[i] = typesystem.Member{Name: f.Name, Type: f.Type}
	}
	return typesystem.Literal{ClassName: v.Name, Members: members}
}

func (v *Class) Field(name string) (Field, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Union is a union-literal value: an ordered list of alternative types.
type Union struct {
	Name    string
	Members []typesystem.Type
}

func (v *Union) Kind() Kind                   { return UnionKind }
func (v *Union) Inspect() string              { return v.RuntimeType().Text(0) }
func (v *Union) RuntimeType() typesystem.Type { return typesystem.Union{Members: v.Members} }

// Namespace is a shared, ordered member list — the value of a
// `namespace { ... }` literal and of `use`d modules (spec.md §4.1).
type Namespace struct {
	Name    string
	Members *[]NamespaceMember // shared: a pointer so Use-aliasing shares mutations
}

type NamespaceMember struct {
	Name  string
	Value Value
}

func (v *Namespace) Kind() Kind                   { return NamespaceKind }
func (v *Namespace) Inspect() string              { return "<namespace " + v.Name + ">" }
func (v *Namespace) RuntimeType() typesystem.Type { return typesystem.Builtin{Name: typesystem.Any} }

func (v *Namespace) Get(name string) (Value, bool) {
	for _, m := range *v.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// Object is an instance of a Class: the class it was constructed from,
// paired with the member values bound at construction time.
type Object struct {
	Class  *Class
	Values map[string]Value
}

func (v *Object) Kind() Kind { return ObjectKind }
func (v *Object) Inspect() string {
	var b strings.Builder
	b.WriteString(v.Class.Name)
	b.WriteString(" { ")
	for i, f := range v.Class.Fields {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", f.Name, v.Values[f.Name].Inspect())
	}
	b.WriteString(" }")
	return b.String()
}
func (v *Object) RuntimeType() typesystem.Type { return v.Class.RuntimeType() }

// ---- containers ----

// List is a shared, ordered element vector (spec.md §3: shared, so
// aliasing a list and mutating through one alias is visible via the
// other — there is no copy-on-write).
type List struct {
	Elems *[]Value
	Elem  typesystem.Type // declared element type, Any if untyped
}

func (v *List) Kind() Kind { return ListKind }
func (v *List) Inspect() string {
	parts := make([]string, len(*v.Elems))
	for i, e := range *v.Elems {
		parts[i] = e.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (v *List) RuntimeType() typesystem.Type { return typesystem.List{Elem: v.Elem} }

// Pack is a List used only as the carrier for a variadic argument pack
// (spec.md §3); kept as a distinct kind so the evaluator and prettyprinter
// never mistake a forwarded argument pack for a literal list value.
type Pack struct {
	Elems *[]Value
	Elem  typesystem.Type
}

func (v *Pack) Kind() Kind { return PackKind }
func (v *Pack) Inspect() string {
	parts := make([]string, len(*v.Elems))
	for i, e := range *v.Elems {
		parts[i] = e.Inspect()
	}
	return strings.Join(parts, ", ")
}
func (v *Pack) RuntimeType() typesystem.Type { return typesystem.Variadic{Elem: v.Elem} }

// MapEntry is one key/value pair of a Map, kept ordered for deterministic
// iteration and printing.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is a shared key -> value mapping where keys are compared by their
// canonical string form (spec.md §3), not by Go equality or identity —
// two distinct List values with the same elements are the same key.
type Map struct {
	Entries  *[]MapEntry
	KeyType  typesystem.Type
	ValType  typesystem.Type
}

func (v *Map) Kind() Kind { return MapKind }
func (v *Map) Inspect() string {
	parts := make([]string, len(*v.Entries))
	for i, e := range *v.Entries {
		parts[i] = e.Key.Inspect() + ": " + e.Value.Inspect()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (v *Map) RuntimeType() typesystem.Type {
	return typesystem.Map{Key: v.KeyType, Value: v.ValType}
}

// CanonicalKey renders a value into the canonical string form used for
// map-key comparison (spec.md §3, §4.8). It defers to Inspect for every
// kind except Syntax, where the AST's canonical printed form (precomputed
// by the evaluator into Text when the Syntax value was bound, by
// internal/prettyprinter) — not Go-pointer identity — is what must
// compare equal.
func CanonicalKey(v Value) string {
	if s, ok := v.(*Syntax); ok {
		return s.Text
	}
	return v.Inspect()
}

func (m *Map) Get(key Value) (Value, bool) {
	k := CanonicalKey(key)
	for _, e := range *m.Entries {
		if CanonicalKey(e.Key) == k {
			return e.Value, true
		}
	}
	return nil, false
}

// With returns a new Map sharing no storage with m, with key set to
// value — maps are persistent from the language's point of view even
// though Pie's own mutation primitives operate through reassignment of
// the binding, not in-place key mutation.
func (m *Map) With(key, value Value) *Map {
	out := make([]MapEntry, 0, len(*m.Entries)+1)
	k := CanonicalKey(key)
	replaced := false
	for _, e := range *m.Entries {
		if CanonicalKey(e.Key) == k {
			out = append(out, MapEntry{Key: key, Value: value})
			replaced = true
		} else {
			out = append(out, e)
		}
	}
	if !replaced {
		out = append(out, MapEntry{Key: key, Value: value})
	}
	return &Map{Entries: &out, KeyType: m.KeyType, ValType: m.ValType}
}

// ---- Syntax ----

// Syntax wraps an unevaluated AST node, spec.md's lazy-argument and
// quote/eval currency (§3, §4.5 "Syntax parameters").
type Syntax struct {
	Node ast.Node
	Env  *Environment // the environment the node should eval in, if later forced
	Text string       // canonical printed form, the quote/eval equality key
}

func (v *Syntax) Kind() Kind                   { return SyntaxKind }
func (v *Syntax) Inspect() string              { return v.Text }
func (v *Syntax) RuntimeType() typesystem.Type { return typesystem.Builtin{Name: typesystem.Syntax} }

// TypeValue wraps a resolved Type as a first-class runtime value (the
// result of evaluating a type expression in value position, e.g. as an
// argument to `type_of` comparisons or a class's own type).
type TypeValue struct {
	Type typesystem.Type
}

func (v *TypeValue) Kind() Kind                   { return TypeKind }
func (v *TypeValue) Inspect() string              { return v.Type.Text(0) }
func (v *TypeValue) RuntimeType() typesystem.Type { return typesystem.Builtin{Name: typesystem.TypeTy} }
