package pipeline

// Pipeline is a sequence of processing stages run in order over one
// Context (spec.md §2's layering: preprocess, lex, parse, analyze, eval).
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order, threading the context through.
// Stages are expected to append to ctx.Errors rather than panic; Run
// does not stop early on a non-empty Errors slice so that later stages
// (notably `pie fmt`) can still do useful work past a recoverable error.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
