package lexer

import (
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/pipeline"
	"github.com/piecake/pie/internal/token"
)

// Processor wires Tokenize into a pipeline.Pipeline as the stage between
// the preprocessor and the parser, converting a lex.Error into the one
// diagnostics.Error type every later stage already reports in.
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	toks, err := Tokenize(ctx.SourceCode)
	if err != nil {
		if lexErr, ok := err.(*Error); ok {
			ctx.Errors = append(ctx.Errors, diagnostics.New(diagnostics.PhaseLexer, diagnostics.CodeLex,
				token.Token{Line: lexErr.Line, Column: lexErr.Column}, "%s", lexErr.Msg))
		} else {
			ctx.Errors = append(ctx.Errors, diagnostics.New(diagnostics.PhaseLexer, diagnostics.CodeLex, token.Token{}, "%s", err))
		}
		return ctx
	}
	ctx.TokenStream = pipeline.NewSliceStream(toks)
	return ctx
}
