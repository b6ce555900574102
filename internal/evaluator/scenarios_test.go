package evaluator_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/piecake/pie/internal/cache"
	"github.com/piecake/pie/internal/evaluator"
	"github.com/piecake/pie/internal/lexer"
	"github.com/piecake/pie/internal/parser"
	"github.com/piecake/pie/internal/pipeline"
)

// run lexes, parses and evaluates source against a fresh environment and
// cache, returning whatever __builtin_print wrote. These are spec.md
// §8's six worked scenarios, the module's integration test suite.
func run(t *testing.T, source string) string {
	t.Helper()
	toks, err := lexer.Tokenize(source)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	ctx := pipeline.NewContext("<test>", source)
	p := parser.New(pipeline.NewSliceStream(toks), ctx)
	root := p.ParseProgram()
	if len(ctx.Errors) > 0 {
		t.Fatalf("parse errors: %v", ctx.Errors)
	}

	var out bytes.Buffer
	ev := evaluator.New(ctx.Registry, cache.NewMemStore(), &out, strings.NewReader(""))
	env := evaluator.NewGlobalEnvironment()
	if _, err := ev.EvalProgram(root, env); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	return strings.TrimRight(out.String(), "\n")
}

func TestCurriedVariadicForwarding(t *testing.T) {
	src := `
print = __builtin_print;
func2 = (x,y,z,a) => { print("x = ",x); print("y = ",y); print("z = ",z); print("a = ",a); "done"; };
out = (As: ...Any) => { func = (a,b,c,args: ...Any) => func2(a=300, As..., args...); func(1,2,3,5); };
out(10, 20);
`
	got := run(t, src)
	want := "x =  10\ny =  20\nz =  5\na =  300"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestOperatorOverloadingByArgumentType(t *testing.T) {
	src := `
cls = class { woof: String = ""; };
infix(+) + = (a: cls, b: cls) => 1;
infix(+) + = (a: Int, b: Int) => 2;
print(cls() + cls()); print(1 + 1);
`
	got := run(t, src)
	want := "1\n2"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMixfixThreeHoleOperator(t *testing.T) {
	src := `
mixfix(HIGH -) if : : else : = (cond: Bool, thn, els) => 1;
mixfix(HIGH -) if : : else : = (cond: Int , thn, els) => 2;
mixfix(HIGH -) if : : else : = (cond: String, thn, els) => 3;
print(if (true){1;} else {2;});
print(if (0)   {1;} else {2;});
print(if ("")  {1;} else {2;});
`
	got := run(t, src)
	want := "1\n2\n3"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStructuralPatternMatchWithGuard(t *testing.T) {
	src := `
Leaf = class { v = 0; };
Node = class { v=0; l=""; r=""; };
test = (x) => match x { Leaf(k) & __builtin_geq(k,0) => 1; Node(k,_,_) => 5; };
print(test(Leaf(10)));
print(test(Node(10, Leaf(20), Leaf(20))));
`
	got := run(t, src)
	want := "1\n5"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLiteralAsBinding(t *testing.T) {
	src := `1 = "hi"; true = 5; print(1); print(true);`
	got := run(t, src)
	want := "hi\n5"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBinaryFoldWithSeparator(t *testing.T) {
	src := `
infix - = (a:Int,b:Int) => __builtin_sub(a,b);
func = (args: ...Any) => (args - ... - 10);
print(func(1,2,3,4));
`
	got := run(t, src)
	want := "-38"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
