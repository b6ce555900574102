package parser

import "github.com/piecake/pie/internal/ast"

// foldMarkerSentinel is the Name.Value used to tag the AST node produced
// when `...` is parsed in operand position inside a parenthesized
// expression (spec.md §4.3's fold shapes). It can never collide with a
// source identifier since it is not a legal NAME lexeme.
const foldMarkerSentinel = "\x00fold-marker\x00"

func isFoldMarker(n ast.Node) bool {
	nm, ok := n.(*ast.Name)
	return ok && nm.Value == foldMarkerSentinel
}

type foldLeaf struct {
	node     ast.Node
	isMarker bool
}

// flattenFoldChain collects the ordered leaves of a left/right-deep chain
// of BinOp nodes that all share n's operator. ok is false when n is not a
// BinOp at all, meaning the parenthesized expression holds no fold.
func flattenFoldChain(n ast.Node) (op string, leaves []foldLeaf, ok bool) {
	bo, isBinOp := n.(*ast.BinOp)
	if !isBinOp {
		return "", nil, false
	}
	op = bo.Operator
	var collect func(ast.Node) []foldLeaf
	collect = func(n ast.Node) []foldLeaf {
		if b, isB := n.(*ast.BinOp); isB && b.Operator == op {
			leaves := collect(b.Left)
			return append(leaves, collect(b.Right)...)
		}
		return []foldLeaf{{node: n, isMarker: isFoldMarker(n)}}
	}
	return op, collect(bo), true
}

// tryBuildFold recognizes the 2-leaf and 3-leaf fold shapes spec.md §4.3
// describes and maps them onto the single ast.Fold representation:
//
//	[marker, pack]             -> unary right-fold      (... op pack)
//	[pack, marker]             -> unary left-fold        (pack op ...)
//	[marker, pack, init]       -> binary right-fold      (... op pack op init)
//	[init, pack, marker]       -> binary left-fold       (init op pack op ...)
//	[pack, marker, separator]  -> separated left-fold    (pack op ... op separator)
//
// A chain with zero or more than one marker, or any other leaf count, is
// not a fold; the caller falls back to a plain Grouping.
func tryBuildFold(n ast.Node) (ast.Node, bool) {
	op, leaves, ok := flattenFoldChain(n)
	if !ok {
		return nil, false
	}
	markerIdx := -1
	for i, l := range leaves {
		if l.isMarker {
			if markerIdx != -1 {
				return nil, false // more than one marker: not a recognized shape
			}
			markerIdx = i
		}
	}
	if markerIdx == -1 {
		return nil, false
	}
	tok := n.Tok()
	base := ast.Base{Token: tok}
	switch {
	case len(leaves) == 2 && markerIdx == 0:
		return &ast.Fold{Base: base, Pack: leaves[1].node, Operator: op, Direction: ast.FoldRight}, true
	case len(leaves) == 2 && markerIdx == 1:
		return &ast.Fold{Base: base, Pack: leaves[0].node, Operator: op, Direction: ast.FoldLeft}, true
	case len(leaves) == 3 && markerIdx == 0:
		return &ast.Fold{Base: base, Pack: leaves[1].node, Operator: op, Direction: ast.FoldRight, Init: leaves[2].node}, true
	case len(leaves) == 3 && markerIdx == 2:
		return &ast.Fold{Base: base, Pack: leaves[1].node, Operator: op, Direction: ast.FoldLeft, Init: leaves[0].node}, true
	case len(leaves) == 3 && markerIdx == 1:
		// The pack is taken to be the leaf on the left of the marker and
		// the far leaf to be the fold's separator (spec.md §8 scenario 6:
		// `(args - ... - 10)` folds args interleaved with 10). The mirror
		// shape with the pack on the right of the marker is not exercised
		// by any required scenario; see DESIGN.md.
		return &ast.Fold{Base: base, Pack: leaves[0].node, Operator: op, Direction: ast.FoldLeft, Separator: leaves[2].node}, true
	default:
		return nil, false
	}
}
