package typesystem

// GreaterEq implements the ">=" subtype / coercion relation of spec.md
// §4.4: used for every assignment, parameter bind, return, and pattern
// type-match. It is deliberately a free function dispatching on both
// operands' kinds, rather than a method, because several rules (Any >= X,
// Syntax >= X, Any >= Variadic(t)) only make sense read left-to-right
// across the pair.
func GreaterEq(a, b Type) bool {
	// TryReassign on the right means "no value type yet to check" and
	// accepts anything being written under it; on the left (where it only
	// ever appears as a declared type, never as a value's runtime type) it
	// likewise accepts any value — see the TryReassign case below.
	if _, ok := b.(TryReassign); ok {
		return true
	}

	switch lhs := a.(type) {
	case Builtin:
		if lhs.Name == Any {
			return true
		}
		if lhs.Name == Syntax {
			return true
		}
		if rb, ok := b.(Builtin); ok {
			return lhs.Name == rb.Name
		}
		return false

	case Literal:
		rb, ok := b.(Literal)
		if !ok {
			return false
		}
		for _, am := range lhs.Members {
			bm, found := rb.field(am.Name)
			if !found {
				return false
			}
			if !GreaterEq(am.Type, bm.Type) {
				return false
			}
		}
		return true

	case Union:
		if rb, ok := b.(Union); ok {
			// Union >= Union: every alternative the value could actually
			// carry must be covered by some alternative of the declared
			// union (keeps the relation reflexive/transitive over Union).
			for _, bm := range rb.Members {
				covered := false
				for _, am := range lhs.Members {
					if GreaterEq(am, bm) {
						covered = true
						break
					}
				}
				if !covered {
					return false
				}
			}
			return true
		}
		for _, m := range lhs.Members {
			if GreaterEq(m, b) {
				return true
			}
		}
		return false

	case Function:
		rb, ok := b.(Function)
		if !ok {
			return false
		}
		if len(lhs.Params) != len(rb.Params) {
			return false
		}
		for i := range lhs.Params {
			// contravariant: the supertype function may demand less, so
			// its parameter type must be <= the subtype's corresponding one
			if !GreaterEq(rb.Params[i], lhs.Params[i]) {
				return false
			}
		}
		return GreaterEq(lhs.Result, rb.Result) // covariant

	case Variadic:
		switch rb := b.(type) {
		case Variadic:
			return GreaterEq(lhs.Elem, rb.Elem)
		default:
			return GreaterEq(lhs.Elem, b)
		}

	case List:
		rb, ok := b.(List)
		if !ok {
			return false
		}
		return GreaterEq(lhs.Elem, rb.Elem)

	case Map:
		rb, ok := b.(Map)
		if !ok {
			return false
		}
		return Equal(lhs.Key, rb.Key) && GreaterEq(lhs.Value, rb.Value)

	case Expression:
		if lhs.Resolved != nil {
			return GreaterEq(lhs.Resolved, b)
		}
		if rb, ok := b.(Expression); ok && rb.Resolved == nil {
			return lhs.Source == rb.Source
		}
		return false

	case TryReassign:
		return true
	}
	return false
}

// Greater is the strict ">" relation: GreaterEq but not mutually so,
// except for the explicitly asymmetric Variadic/Any cases spec.md §3
// calls out (`Variadic(t) > t`; `Any > Variadic(t)`), which GreaterEq
// already encodes asymmetrically, so Greater just excludes the case
// where both directions hold.
func Greater(a, b Type) bool {
	return GreaterEq(a, b) && !GreaterEq(b, a)
}

// Equal is structural equality of two (fully resolved) types.
func Equal(a, b Type) bool {
	return GreaterEq(a, b) && GreaterEq(b, a)
}
