// Package preprocessor resolves `import <dotted.path>;` lines before the
// lexer ever sees a source file (spec.md §6: "import <dotted-path> is
// resolved by the pre-processor before lexing by reading the file at
// <dotted-path>.pie relative to the importing file, recursively
// pre-processing, and splicing its source in place"). Comment stripping
// stays in the lexer (SPEC_FULL.md §4.0): this package only inlines
// imports, line by line, leaving everything else untouched.
package preprocessor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/pipeline"
	"github.com/piecake/pie/internal/token"
)

// IncludeSet records the canonicalized absolute paths already spliced in
// during one compilation, so a file imported from two different places is
// only inlined once (spec.md §6: "Each file may be imported at most once
// per compilation; subsequent imports are elided"). Passed explicitly
// through recursive calls rather than held as package state.
type IncludeSet map[string]bool

// Resolve reads path, recursively inlining its imports, and returns the
// fully-spliced source text.
func Resolve(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("preprocessor: reading %s: %w", path, err)
	}
	return resolveSource(string(src), path, IncludeSet{})
}

// ResolveSource inlines imports found in an already-in-memory source
// string (stdin input has no importing file on disk, so `import` lines
// are resolved relative to baseDir instead).
func ResolveSource(source, baseDir string) (string, error) {
	return resolveSource(source, filepath.Join(baseDir, "<stdin>"), IncludeSet{})
}

func resolveSource(source, fromPath string, seen IncludeSet) (string, error) {
	abs, err := canonical(fromPath)
	if err == nil {
		seen[abs] = true
	}
	dir := filepath.Dir(fromPath)

	var out strings.Builder
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		dotted, ok := importTarget(trimmed)
		if !ok {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}
		importPath := filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(dotted, ".", "/"))+".pie")
		importAbs, err := canonical(importPath)
		if err != nil {
			return "", fmt.Errorf("preprocessor: resolving import %q from %s: %w", dotted, fromPath, err)
		}
		if seen[importAbs] {
			continue // already spliced in once this compilation
		}
		importSrc, err := os.ReadFile(importPath)
		if err != nil {
			return "", fmt.Errorf("preprocessor: reading import %q (%s): %w", dotted, importPath, err)
		}
		spliced, err := resolveSource(string(importSrc), importPath, seen)
		if err != nil {
			return "", err
		}
		out.WriteString(spliced)
		out.WriteByte('\n')
	}
	return out.String(), nil
}

// importTarget recognizes a line of the form `import <dotted.path>;` and
// returns the dotted path, stripping the optional trailing semicolon.
func importTarget(line string) (string, bool) {
	const kw = "import "
	if !strings.HasPrefix(line, kw) {
		return "", false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, kw))
	rest = strings.TrimSuffix(rest, ";")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", false
	}
	return rest, true
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// Processor wires import resolution into a pipeline.Pipeline as the
// stage that runs before lexing. It rewrites ctx.SourceCode in place;
// SourcePath stays the originally-requested file so later diagnostics
// still point at it.
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	resolved, err := resolveSource(ctx.SourceCode, ctx.SourcePath, IncludeSet{})
	if err != nil {
		ctx.Errors = append(ctx.Errors, diagnostics.New(diagnostics.PhasePreprocessor, diagnostics.CodeImport, token.Token{}, "%s", err))
		return ctx
	}
	ctx.SourceCode = resolved
	return ctx
}
