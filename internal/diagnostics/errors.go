// Package diagnostics defines the one error type every phase raises,
// following the teacher's (funvibe/funxy) PhasedError-by-code convention,
// cut down to the kinds spec.md §7 actually names.
package diagnostics

import (
	"fmt"

	"github.com/piecake/pie/internal/token"
)

// Phase is the pipeline stage an error originated in.
type Phase string

const (
	PhasePreprocessor Phase = "preprocessor"
	PhaseLexer        Phase = "lexer"
	PhaseParser       Phase = "parser"
	PhaseAnalyzer     Phase = "analyzer"
	PhaseEval         Phase = "eval"
)

// Code identifies the specific error kind within a phase.
type Code string

const (
	// Preprocessor
	CodeImport Code = "I001" // unresolvable or cyclic import

	// Lexer
	CodeLex Code = "L001" // bad char, unterminated string, missing trailing ';'

	// Parser
	CodeParse      Code = "P001" // unexpected token
	CodeUnknownOp  Code = "P002" // unknown operator used in infix position
	CodeFixDecl    Code = "P003" // malformed fix-declaration
	CodeDupNamed   Code = "P004" // non-unique named argument
	CodeExfixOpen  Code = "P005" // exfix unclosed

	// Analyzer / name resolution
	CodeUndeclared Code = "A001" // undefined name

	// Type system
	CodeTypeMismatch Code = "T001" // assignment / parameter / return mismatch
	CodeOverload     Code = "T002" // re-declaration with inconsistent kind/anchors/hole layout

	// Evaluation
	CodeArity   Code = "R001" // too many positional arguments, or too few beside a variadic
	CodePattern Code = "R002" // match exhausted without a winning case
	CodePanic   Code = "R003" // explicit panic(msg)
)

// Error is the single diagnostic type raised by every phase. The pipeline
// does not stop at the first Error: pipeline.Run runs every stage and the
// Errors accumulate on the Context.
type Error struct {
	Phase Phase
	Code  Code
	Msg   string
	Tok   token.Token
}

func (e *Error) Error() string {
	if e.Tok.Line > 0 {
		return fmt.Sprintf("[%s %s] %d:%d: %s", e.Phase, e.Code, e.Tok.Line, e.Tok.Column, e.Msg)
	}
	return fmt.Sprintf("[%s %s] %s", e.Phase, e.Code, e.Msg)
}

func New(phase Phase, code Code, tok token.Token, format string, args ...interface{}) *Error {
	return &Error{Phase: phase, Code: code, Tok: tok, Msg: fmt.Sprintf(format, args...)}
}
