package registry

import "fmt"

// ladder is the fixed ordering of built-in precedence anchors (spec.md
// §4.2). Values are spaced widely so that repeated midpoint interpolation
// (registering an operator whose anchor is itself a previously-declared
// operator) stays dense for a practically unbounded number of levels
// before two distinct declarations could collide on the same integer.
const ladderStep = 1 << 20

var ladder = []string{
	"LOW", "ASSIGNMENT", "INFIX", "SUM", "PROD", "PREFIX", "POSTFIX", "CALL", "HIGH",
}

func ladderIndex(name string) (int, bool) {
	for i, n := range ladder {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// IsBuiltinAnchor reports whether name is one of the fixed ladder rungs.
func IsBuiltinAnchor(name string) bool {
	_, ok := ladderIndex(name)
	return ok
}

func builtinValue(name string) int {
	i, _ := ladderIndex(name)
	return i * ladderStep
}

// BuiltinAnchorValue exposes a builtin ladder rung's integer position to
// the parser, which pins its handful of fixed-syntax continuations
// (`=`, `.`, call-parens) to the same numeric space user operator
// precedences live in.
func BuiltinAnchorValue(name string) int {
	return builtinValue(name)
}

// Higher returns the next anchor up the ladder from name. For an
// operator-name anchor it recurses into that operator's own high/low
// (spec.md §4.2 "Higher/lower helpers").
func (r *Registry) Higher(name string) (string, error) {
	if i, ok := ladderIndex(name); ok {
		if i == len(ladder)-1 {
			return "", fmt.Errorf("higher(HIGH) is undefined")
		}
		return ladder[i+1], nil
	}
	d, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("unknown anchor %q", name)
	}
	if d.HighAnchor == d.LowAnchor {
		return r.Higher(d.HighAnchor)
	}
	return d.HighAnchor, nil
}

// Lower is the symmetric counterpart of Higher.
func (r *Registry) Lower(name string) (string, error) {
	if i, ok := ladderIndex(name); ok {
		if i == 0 {
			return "", fmt.Errorf("lower(LOW) is undefined")
		}
		return ladder[i-1], nil
	}
	d, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("unknown anchor %q", name)
	}
	if d.HighAnchor == d.LowAnchor {
		return r.Lower(d.LowAnchor)
	}
	return d.LowAnchor, nil
}

// ResolveAnchors derives HighAnchor/LowAnchor from a single written anchor
// name and a signed shift: shift 0 leaves both equal to anchor; a positive
// shift of n walks Higher n times to produce HighAnchor (LowAnchor stays
// the written anchor); a negative shift walks Lower |n| times to produce
// LowAnchor (HighAnchor stays the written anchor).
func (r *Registry) ResolveAnchors(anchor string, shift int) (high, low string, err error) {
	if shift == 0 {
		return anchor, anchor, nil
	}
	if shift > 0 {
		high = anchor
		for i := 0; i < shift; i++ {
			high, err = r.Higher(high)
			if err != nil {
				return "", "", err
			}
		}
		return high, anchor, nil
	}
	low = anchor
	for i := 0; i < -shift; i++ {
		low, err = r.Lower(low)
		if err != nil {
			return "", "", err
		}
	}
	return anchor, low, nil
}

// anchorValue resolves a single anchor name (builtin or operator) to its
// integer position. For an operator-name anchor this is that operator's
// own resolved Precedence (spec.md §4.2: "the midpoint is recursive when
// an anchor is itself an operator name").
func (r *Registry) anchorValue(name string) (int, error) {
	if IsBuiltinAnchor(name) {
		return builtinValue(name), nil
	}
	d, ok := r.byName[name]
	if !ok {
		return 0, fmt.Errorf("unknown precedence anchor %q", name)
	}
	return d.Precedence, nil
}

// ConcretePrecedence computes the midpoint of d's resolved anchors.
func (r *Registry) ConcretePrecedence(d *Descriptor) (int, error) {
	hv, err := r.anchorValue(d.HighAnchor)
	if err != nil {
		return 0, err
	}
	lv, err := r.anchorValue(d.LowAnchor)
	if err != nil {
		return 0, err
	}
	return (hv + lv) / 2, nil
}
