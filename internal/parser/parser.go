// Package parser implements the Pratt-style top-down operator-precedence
// parser of spec.md §4.3. Its infix table is the operator registry rather
// than a fixed grammar: as prefix/infix/suffix/exfix/mixfix declarations
// are encountered they are installed into the registry as a side effect,
// immediately changing how subsequent tokens parse.
package parser

import (
	"strconv"

	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/pipeline"
	"github.com/piecake/pie/internal/registry"
	"github.com/piecake/pie/internal/token"
)

// Parser holds the mutable state of one parse: the token cursor and the
// shared pipeline Context (source of the operator registry, sink of
// diagnostics).
type Parser struct {
	stream pipeline.TokenStream
	ctx    *pipeline.Context
	cur    token.Token
}

// New returns a Parser positioned at the first token of stream.
func New(stream pipeline.TokenStream, ctx *pipeline.Context) *Parser {
	p := &Parser{stream: stream, ctx: ctx}
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.stream.Next()
}

// peek returns the token k positions after cur (k=0 is the token
// immediately following cur) without consuming anything.
func (p *Parser) peek(k int) token.Token {
	toks := p.stream.Peek(k + 1)
	return toks[k]
}

func (p *Parser) errorf(code diagnostics.Code, format string, args ...any) {
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.New(diagnostics.PhaseParser, code, p.cur, format, args...))
}

// expect consumes the current token if it has kind k, else records a
// parse error and leaves the cursor in place so the caller can attempt
// to recover at statement granularity.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.cur.Kind != k {
		p.errorf(diagnostics.CodeParse, "expected %s, got %s %q", k, p.cur.Kind, p.cur.Text)
		return p.cur
	}
	t := p.cur
	p.next()
	return t
}

// precedence values for the handful of fixed-syntax continuations live in
// the same numeric ladder as user-operator precedences so both compete
// in one Pratt loop.
var (
	precLow        = registry.BuiltinAnchorValue("LOW")
	precAssignment = registry.BuiltinAnchorValue("ASSIGNMENT")
	precCall       = registry.BuiltinAnchorValue("CALL")
	precPostfix    = registry.BuiltinAnchorValue("POSTFIX")
)

// ParseProgram parses a full source file: a sequence of `expr ;` lines
// until the token stream is exhausted.
func (p *Parser) ParseProgram() *ast.Block {
	blk := &ast.Block{Base: ast.Base{Token: p.cur}}
	for p.cur.Kind != token.END {
		line := p.parseExpr(precLow)
		p.expect(token.SEMI)
		blk.Lines = append(blk.Lines, line)
	}
	return blk
}

// parseExpr is the Pratt loop: a prefix parse followed by as many infix
// continuations as bind tighter than min.
func (p *Parser) parseExpr(min int) ast.Node {
	left := p.parsePrefix()
	for {
		prec, rightAssoc, ok := p.infixBinding()
		if !ok || prec <= min {
			return left
		}
		left = p.parseInfix(left, prec, rightAssoc)
	}
}

// infixBinding reports the precedence of p.cur as an infix/postfix
// continuation, or ok=false if p.cur cannot continue an expression here.
func (p *Parser) infixBinding() (prec int, rightAssoc bool, ok bool) {
	switch p.cur.Kind {
	case token.ASSIGN:
		return precAssignment, true, true
	case token.DOT, token.L_PAREN, token.SCOPE_RESOLVE:
		return precCall, false, true
	case token.ELLIPSIS:
		return precPostfix, false, true
	case token.NAME:
		d, found := p.ctx.Registry.LookupToken(p.cur.Text)
		if !found {
			return 0, false, false
		}
		switch d.Kind {
		case ast.FixInfix:
			return d.Precedence, false, true
		case ast.FixSuffix:
			return d.Precedence, false, true
		case ast.FixMixfix:
			// Only a rule whose *first* hole is an expression (so a left
			// operand can feed it) and whose *second* position is this
			// very token can act as an infix trigger (spec.md §4.3).
			if len(d.Layout) >= 2 && !d.Layout[0].IsToken && d.Layout[1].IsToken && d.Layout[1].Token == p.cur.Text {
				return d.Precedence, false, true
			}
			return 0, false, false
		default:
			return 0, false, false
		}
	default:
		return 0, false, false
	}
}

func (p *Parser) parseInfix(left ast.Node, prec int, rightAssoc bool) ast.Node {
	switch p.cur.Kind {
	case token.ASSIGN:
		tok := p.cur
		p.next()
		rhs := p.parseExpr(prec - 1) // right-assoc: a = b = c => a = (b = c)
		typ := assignmentType(left)
		return &ast.Assignment{Base: ast.Base{Token: tok}, LHS: left, Type: typ, RHS: rhs}

	case token.DOT:
		tok := p.cur
		p.next()
		name := p.expect(token.NAME)
		return &ast.Access{Base: ast.Base{Token: tok}, Object: left, Field: name.Text}

	case token.SCOPE_RESOLVE:
		tok := p.cur
		p.next()
		name := p.expect(token.NAME)
		return &ast.ScopeResolve{Base: ast.Base{Token: tok}, Object: left, Member: name.Text}

	case token.L_PAREN:
		return p.parseCall(left)

	case token.ELLIPSIS:
		tok := p.cur
		p.next()
		return &ast.Expansion{Base: ast.Base{Token: tok}, Value: left}

	case token.NAME:
		d, _ := p.ctx.Registry.LookupToken(p.cur.Text)
		switch d.Kind {
		case ast.FixInfix:
			tok := p.cur
			p.next()
			rhs := p.parseExpr(d.Precedence)
			return &ast.BinOp{Base: ast.Base{Token: tok}, Operator: d.Name, Left: left, Right: rhs}
		case ast.FixSuffix:
			tok := p.cur
			p.next()
			return &ast.PostOp{Base: ast.Base{Token: tok}, Operator: d.Name, Operand: left}
		case ast.FixMixfix:
			tok := p.cur
			p.next() // consume the triggering second-position token
			return p.parseMixfixRest(d, 2, []ast.Node{left}, tok)
		}
	}
	// Unreachable if infixBinding is consistent with parseInfix's cases.
	p.errorf(diagnostics.CodeParse, "unexpected infix continuation %q", p.cur.Text)
	p.next()
	return left
}

// assignmentType extracts the inline `: T` annotation a Name binder may
// carry (attached while it was parsed as a primary), defaulting to the
// TryReassign sentinel when absent (spec.md §3, §4.5 "Binding").
func assignmentType(lhs ast.Node) ast.Type {
	if n, ok := lhs.(*ast.Name); ok && n.Type != nil {
		return n.Type
	}
	return &ast.TryReassignType{}
}

// isShiftToken reports whether text is a signed-integer shift suffix
// following a precedence anchor, e.g. "+1", "-", "+3".
func isShiftToken(text string) bool {
	if text == "" {
		return false
	}
	if text[0] != '+' && text[0] != '-' {
		return false
	}
	if len(text) == 1 {
		return true // bare sign = magnitude 1
	}
	_, err := strconv.Atoi(text[1:])
	return err == nil
}

func parseShiftMagnitude(text string) int {
	sign := 1
	if text[0] == '-' {
		sign = -1
	}
	if len(text) == 1 {
		return sign
	}
	n, _ := strconv.Atoi(text[1:])
	if n == 0 {
		n = 1
	}
	return sign * n
}
