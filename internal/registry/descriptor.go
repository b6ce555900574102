// Package registry implements the operator registry and the precedence
// arithmetic over it (spec.md §4.2). The registry is built by the parser
// as fix-declarations are encountered and consumed by both the parser
// (for its Pratt precedence table) and the evaluator (for overload
// resolution at operator-application sites).
package registry

import "github.com/piecake/pie/internal/ast"

// HoleElem is one position in an operator's hole layout: either a literal
// token the operator's surface syntax requires, or an expression hole.
type HoleElem struct {
	IsToken bool
	Token   string // set when IsToken
}

// Overload is one function body registered against a Descriptor. Body is
// an opaque runtime value (an evaluator closure); the registry package
// does not depend on the evaluator's Value representation to avoid an
// import cycle, so Body is typed as any and type-asserted by the
// evaluator on dispatch.
type Overload struct {
	ParamTypes []ast.Type
	Body       any
}

// Descriptor is everything the registry tracks about one operator name:
// its fix-kind, the two resolved precedence anchors, the shift that
// produced them, its hole layout, and its accumulated overload set.
//
// Invariant (spec.md §3): every overload of a given operator name has
// identical Kind, HighAnchor/LowAnchor and Layout; only Body (and its
// ParamTypes) differ between overloads.
type Descriptor struct {
	Name   string
	Kind   ast.FixKind
	Layout []HoleElem

	AnchorName string // the anchor name written at the declaration site
	Shift      int
	HighAnchor string
	LowAnchor  string
	Precedence int // midpoint of HighAnchor/LowAnchor, resolved at declare time

	Overloads []Overload
}

// Tokens returns the descriptor's literal surface tokens, in order. For
// prefix/infix/suffix this is the single operator name; for exfix, the
// [open, close] pair; for mixfix, every literal token in its hole layout.
func (d *Descriptor) Tokens() []string {
	var out []string
	for _, e := range d.Layout {
		if e.IsToken {
			out = append(out, e.Token)
		}
	}
	return out
}

// ExprHoleCount returns how many expression holes the layout has — this
// must equal the arity of every overload's body (spec.md §3 invariant).
func (d *Descriptor) ExprHoleCount() int {
	n := 0
	for _, e := range d.Layout {
		if !e.IsToken {
			n++
		}
	}
	return n
}
