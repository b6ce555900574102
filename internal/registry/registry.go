package registry

import (
	"fmt"

	"github.com/piecake/pie/internal/ast"
)

// Registry is the mutable name -> Descriptor map. It is owned by the
// parser during parsing (new fix-declarations append to it) and read by
// both the parser (precedence lookups) and the evaluator (overload
// resolution). Descriptor entries are never removed (spec.md §3
// lifecycle).
type Registry struct {
	byName  map[string]*Descriptor
	byToken map[string]*Descriptor // every constituent token -> same descriptor
}

// New returns a Registry pre-populated with nothing. No operator is
// built in: every operator, + and - included, enters through a
// fix-declaration, keeping exactly one registration path.
func New() *Registry {
	return &Registry{
		byName:  make(map[string]*Descriptor),
		byToken: make(map[string]*Descriptor),
	}
}

// Lookup returns the descriptor registered under name, by its canonical
// name OR by any of its constituent tokens.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	if d, ok := r.byName[name]; ok {
		return d, true
	}
	d, ok := r.byToken[name]
	return d, ok
}

// LookupToken looks up a descriptor by one of its surface tokens only
// (used by the parser while scanning mid-rule mixfix tokens).
func (r *Registry) LookupToken(tok string) (*Descriptor, bool) {
	d, ok := r.byToken[tok]
	return d, ok
}

// Declare installs or extends the descriptor named name. If an entry
// already exists, kind, written anchor, shift and layout must match exactly
// (spec.md §4.2 "Overloading"); the call only fails on that mismatch — adding an
// overload body is the caller's job via AddOverload.
func (r *Registry) Declare(name string, kind ast.FixKind, layout []HoleElem, anchor string, shift int) (*Descriptor, error) {
	if existing, ok := r.byName[name]; ok {
		if existing.Kind != kind || !sameLayout(existing.Layout, layout) || existing.AnchorName != anchor || existing.Shift != shift {
			return nil, fmt.Errorf("overload error: %q redeclared with a different fix-kind, precedence anchor or hole layout", name)
		}
		return existing, nil
	}

	high, low, err := r.ResolveAnchors(anchor, shift)
	if err != nil {
		return nil, err
	}
	d := &Descriptor{
		Name:       name,
		Kind:       kind,
		Layout:     layout,
		AnchorName: anchor,
		Shift:      shift,
		HighAnchor: high,
		LowAnchor:  low,
	}
	prec, err := r.ConcretePrecedence(d)
	if err != nil {
		return nil, err
	}
	d.Precedence = prec

	r.byName[name] = d
	for _, tok := range d.Tokens() {
		r.byToken[tok] = d
	}
	return d, nil
}

// AddOverload appends a new overload body to the descriptor named name.
// Declare must have been called first.
func (r *Registry) AddOverload(name string, ov Overload) error {
	d, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("cannot add overload to undeclared operator %q", name)
	}
	if len(ov.ParamTypes) != d.ExprHoleCount() {
		return fmt.Errorf("overload for %q has %d parameters, expected %d", name, len(ov.ParamTypes), d.ExprHoleCount())
	}
	d.Overloads = append(d.Overloads, ov)
	return nil
}

// ReplaceOverloadBody swaps the overload whose Body is old (by reference
// equality) for new. Used by the evaluator the first time it encounters a
// FixDecl node at runtime: the parser seeded Overload.Body with the raw
// *ast.Closure it parsed (so the registry could be built before any
// evaluator existed); the evaluator upgrades that to a real runtime
// closure, capturing the environment live at the declaration site
// (spec.md §5's deep-copy-at-capture-time rule), the first time the
// declaration is evaluated.
func (r *Registry) ReplaceOverloadBody(name string, old, new any) bool {
	d, ok := r.byName[name]
	if !ok {
		return false
	}
	for i := range d.Overloads {
		if d.Overloads[i].Body == old {
			d.Overloads[i].Body = new
			return true
		}
	}
	return false
}

func sameLayout(a, b []HoleElem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].IsToken != b[i].IsToken || a[i].Token != b[i].Token {
			return false
		}
	}
	return true
}

// PrefixLayout, InfixLayout, SuffixLayout, ExfixLayout are the canonical
// hole layouts for the three single-token fix-kinds and for exfix, built
// once per declaration from the operator's own name(s).
func PrefixLayout(name string) []HoleElem {
	return []HoleElem{{IsToken: true, Token: name}, {}}
}

func SuffixLayout(name string) []HoleElem {
	return []HoleElem{{}, {IsToken: true, Token: name}}
}

func InfixLayout(name string) []HoleElem {
	return []HoleElem{{}, {IsToken: true, Token: name}, {}}
}

func ExfixLayout(open, close string) []HoleElem {
	return []HoleElem{{IsToken: true, Token: open}, {}, {IsToken: true, Token: close}}
}
