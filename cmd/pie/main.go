// Command pie is the CLI driver SPEC_FULL.md §6 adds on top of spec.md's
// REPL/driver interface: a small flag-based command (not cobra — see
// DESIGN.md: the one pack repo that vendors cobra never actually calls
// into it, so adopting it here would be cargo-culting an unused
// dependency rather than grounding one) with two subcommands.
//
//	pie run <file.pie> [--memo-db path.sqlite] [--trace]
//	pie fmt <file.pie>
//
// `run` executes the full pipeline — preprocess, lex, parse, analyze,
// eval — printing one diagnostic line per error and exiting non-zero on
// the first fatal phase. `fmt` exists to exercise the prettyprinter as a
// standalone feature: canonical form is also what `reset` keys off of, so
// showing it is how a user debugging memoization discovers the exact
// cache key an expression hashes to.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/piecake/pie/internal/analyzer"
	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/cache"
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/evaluator"
	"github.com/piecake/pie/internal/lexer"
	"github.com/piecake/pie/internal/parser"
	"github.com/piecake/pie/internal/pipeline"
	"github.com/piecake/pie/internal/preprocessor"
	"github.com/piecake/pie/internal/prettyprinter"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = runCmd(os.Args[2:])
	case "fmt":
		err = fmtCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pie run <file.pie> [--memo-db path.sqlite] [--trace]")
	fmt.Fprintln(os.Stderr, "       pie fmt <file.pie>")
}

func runCmd(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	memoDB := fs.String("memo-db", "", "persist the memoization cache to this sqlite file across runs")
	trace := fs.Bool("trace", false, "print each top-level statement's canonical form before evaluating it")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("run: expected exactly one source file")
	}
	path := fs.Arg(0)
	// Flags may also follow the file name, as in the usage line.
	fs.Parse(fs.Args()[1:])
	if fs.NArg() != 0 {
		return fmt.Errorf("run: expected exactly one source file")
	}

	ctx, err := loadContext(path)
	if err != nil {
		return err
	}
	pl := pipeline.New(preprocessor.Processor{}, lexer.Processor{}, parser.Processor{}, analyzer.Processor{})
	ctx = pl.Run(ctx)
	if len(ctx.Errors) > 0 {
		return reportErrors(ctx.Errors)
	}

	root, ok := ctx.AstRoot.(*ast.Block)
	if !ok {
		return fmt.Errorf("run: nothing to evaluate")
	}
	if *trace {
		for _, line := range root.Lines {
			fmt.Fprintln(os.Stderr, "trace:", prettyprinter.Print(line))
		}
	}

	store, closeStore, err := openStore(*memoDB)
	if err != nil {
		return err
	}
	defer closeStore()

	ev := evaluator.New(ctx.Registry, store, os.Stdout, os.Stdin)
	if _, err := ev.EvalProgram(root, evaluator.NewGlobalEnvironment()); err != nil {
		return err
	}
	return nil
}

func fmtCmd(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("fmt: expected exactly one source file")
	}

	ctx, err := loadContext(fs.Arg(0))
	if err != nil {
		return err
	}
	// No analyzer stage: `fmt` only needs a parse tree, and should still
	// print whatever it can past a later-phase error (pipeline.Pipeline
	// never stops early, matching spec.md §5's "errors are data" stance).
	pl := pipeline.New(preprocessor.Processor{}, lexer.Processor{}, parser.Processor{})
	ctx = pl.Run(ctx)

	if root, ok := ctx.AstRoot.(*ast.Block); ok {
		for _, line := range root.Lines {
			fmt.Println(prettyprinter.Print(line))
		}
	}
	if len(ctx.Errors) > 0 {
		return reportErrors(ctx.Errors)
	}
	return nil
}

func loadContext(path string) (*pipeline.Context, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return pipeline.NewContext(path, string(src)), nil
}

func openStore(memoDB string) (cache.Store, func(), error) {
	if memoDB == "" {
		return cache.NewMemStore(), func() {}, nil
	}
	s, err := cache.OpenSQLiteStore(memoDB)
	if err != nil {
		return nil, nil, fmt.Errorf("opening memo db: %w", err)
	}
	return s, func() { s.Close() }, nil
}

func reportErrors(errs []*diagnostics.Error) error {
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	return fmt.Errorf("%d error(s)", len(errs))
}
