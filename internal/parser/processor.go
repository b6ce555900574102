package parser

import "github.com/piecake/pie/internal/pipeline"

// Processor wires New/ParseProgram into a pipeline.Pipeline as the stage
// between the lexer and the analyzer. It is a no-op when the lexer stage
// already failed and left ctx.TokenStream unset, so a failing `pie fmt`
// still reports the lex error rather than panicking on a nil stream.
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.TokenStream == nil {
		return ctx
	}
	p := New(ctx.TokenStream, ctx)
	ctx.AstRoot = p.ParseProgram()
	return ctx
}
