package pipeline

import (
	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/registry"
)

// Context holds everything passed between pipeline stages: preprocess ->
// lex -> parse -> analyze -> eval. Each stage reads what the previous one
// produced and appends to Errors rather than aborting, so a `pie fmt`
// invocation can still print a best-effort canonical form past a parse
// error, matching spec.md §5's "errors are data" stance.
type Context struct {
	SourcePath string
	SourceCode string

	TokenStream TokenStream
	AstRoot     ast.Node

	// Registry accumulates fix-declarations as the parser encounters them
	// and is read by the evaluator for overload resolution (spec.md §4.2).
	Registry *registry.Registry

	Errors []*diagnostics.Error
}

// NewContext creates and initializes a new Context for source.
func NewContext(path, source string) *Context {
	return &Context{
		SourcePath: path,
		SourceCode: source,
		Registry:   registry.New(),
	}
}
