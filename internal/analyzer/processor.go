package analyzer

import "github.com/piecake/pie/internal/pipeline"

// Processor wires Analyze into a pipeline.Pipeline as the stage between
// the parser and the evaluator (spec.md §6: "Runs between parse and
// evaluation in the CLI driver; the evaluator does not depend on it").
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.AstRoot == nil {
		return ctx
	}
	a := New(ctx.Registry)
	ctx.Errors = append(ctx.Errors, a.Analyze(ctx.AstRoot, BuiltinNames())...)
	return ctx
}
