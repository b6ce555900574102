package object

import "github.com/piecake/pie/internal/typesystem"

// Binding pairs a value with the declared type it was bound under —
// spec.md §3: "Each frame maps a name to a pair (value, declared-type)."
// The declared type is what every subsequent reassignment is checked
// against via typesystem.GreaterEq.
type Binding struct {
	Value Value
	Type  typesystem.Type
}

// Environment is one frame of the lookup stack; frames chain through
// outer the way the teacher's NewEnclosedEnvironment nests a call frame
// inside its defining scope.
type Environment struct {
	store map[string]Binding
	outer *Environment
}

// NewEnvironment returns a fresh, top-level frame (the global scope).
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Binding)}
}

// NewEnclosedEnvironment returns a new frame chained under outer — used
// for block scopes, closure calls, match-case bodies and loop bodies.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]Binding), outer: outer}
}

// Get walks the stack top-to-bottom, returning the first binding found.
func (e *Environment) Get(name string) (Binding, bool) {
	if b, ok := e.store[name]; ok {
		return b, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return Binding{}, false
}

// Define introduces name in this frame only (a fresh let-binding; shadows
// any outer binding of the same name for the rest of this frame's life).
func (e *Environment) Define(name string, v Value, t typesystem.Type) {
	e.store[name] = Binding{Value: v, Type: t}
}

// Assign writes to the innermost frame that already declares name,
// walking outward to find it (spec.md §3: "writes go to the innermost
// frame" that owns the binding, not always the current frame). Returns
// false if name is unbound anywhere in the stack.
func (e *Environment) Assign(name string, v Value) bool {
	if b, ok := e.store[name]; ok {
		b.Value = v
		e.store[name] = b
		return true
	}
	if e.outer != nil {
		return e.outer.Assign(name, v)
	}
	return false
}

// Snapshot returns a deep copy of the frame chain rooted at e: every frame
// from e up through its outermost ancestor is copied into a fresh
// Environment with its own store map (same name -> Binding entries, so
// the bound Values themselves — which are shared-by-handle per spec.md
// §5 for object/list/map — are not touched, only the map structure is).
// Closures capture their defining environment this way (spec.md §5:
// "an explicit deep copy at capture time, not a live reference"), so a
// later mutation of an outer frame's bindings (a reassignment, a new
// Define) is invisible to a closure created before it.
func (e *Environment) Snapshot() *Environment {
	if e == nil {
		return nil
	}
	cp := &Environment{store: make(map[string]Binding, len(e.store)), outer: e.outer.Snapshot()}
	for k, v := range e.store {
		cp.store[k] = v
	}
	return cp
}

// Outer returns the frame this one is chained under, or nil for the
// top-level (global) frame — used by ScopeResolve's `::b` form to walk
// to the top of the stack.
func (e *Environment) Outer() *Environment { return e.outer }

// Names returns every name bound directly in this frame, in
// nondeterministic order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for k := range e.store {
		names = append(names, k)
	}
	return names
}
