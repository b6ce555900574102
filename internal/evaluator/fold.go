package evaluator

import (
	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/object"
)

// evalFold implements spec.md §4.3/§4.5's four fold shapes. Internally
// they reduce to one operation: interleave the (optional) separator
// between the pack's elements, prepend/append the (optional) seed, and
// fold the operator left-to-right or right-to-left over the resulting
// sequence — reusing the same overload-resolution path (§4.2
// "Overloading") a plain binary operator application uses.
func (e *Evaluator) evalFold(n *ast.Fold, env *object.Environment) (object.Value, error) {
	packVal, err := e.Eval(n.Pack, env)
	if err != nil {
		return nil, err
	}
	elems, err := elemsOf(packVal, n.Tok())
	if err != nil {
		return nil, err
	}

	var sep object.Value
	if n.Separator != nil {
		sep, err = e.Eval(n.Separator, env)
		if err != nil {
			return nil, err
		}
	}
	var init object.Value
	hasInit := n.Init != nil
	if hasInit {
		init, err = e.Eval(n.Init, env)
		if err != nil {
			return nil, err
		}
	}

	seq := make([]object.Value, 0, len(elems)*2)
	for i, el := range elems {
		if i > 0 && sep != nil {
			seq = append(seq, sep)
		}
		seq = append(seq, el)
	}

	if len(seq) == 0 {
		if hasInit {
			return init, nil
		}
		return nil, diagnostics.New(diagnostics.PhaseEval, diagnostics.CodeArity, n.Tok(), "fold over an empty pack with no accumulator seed")
	}

	if n.Direction == ast.FoldLeft {
		acc := seq[0]
		start := 1
		if hasInit {
			acc, err = e.applyOperatorValues(n.Operator, []object.Value{init, seq[0]}, env, n.Tok())
			if err != nil {
				return nil, err
			}
		}
		for i := start; i < len(seq); i++ {
			acc, err = e.applyOperatorValues(n.Operator, []object.Value{acc, seq[i]}, env, n.Tok())
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	}

	acc := seq[len(seq)-1]
	end := len(seq) - 1
	if hasInit {
		acc, err = e.applyOperatorValues(n.Operator, []object.Value{seq[len(seq)-1], init}, env, n.Tok())
		if err != nil {
			return nil, err
		}
	}
	for i := end - 1; i >= 0; i-- {
		acc, err = e.applyOperatorValues(n.Operator, []object.Value{seq[i], acc}, env, n.Tok())
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
