package binder_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/binder"
	"github.com/risor-io/quill/bound"
	"github.com/risor-io/quill/errors"
	"github.com/risor-io/quill/parser"
	"github.com/risor-io/quill/symbols"
	"github.com/risor-io/quill/text"
)

// annotate strips [ and ] markers from s and returns the spans they
// enclosed, in order of their opening markers.
func annotate(t *testing.T, s string) (string, []text.Span) {
	t.Helper()
	var b strings.Builder
	var spans []text.Span
	var open []int
	for _, r := range s {
		switch r {
		case '[':
			open = append(open, b.Len())
		case ']':
			require.NotEmpty(t, open, "unbalanced ] in %q", s)
			start := open[len(open)-1]
			open = open[:len(open)-1]
			spans = append(spans, text.SpanFromBounds(start, b.Len()))
		default:
			b.WriteRune(r)
		}
	}
	require.Empty(t, open, "unbalanced [ in %q", s)
	return b.String(), spans
}

func bind(script bool, sources ...string) (*bound.GlobalScope, *bound.Program) {
	var trees []*ast.Tree
	for _, src := range sources {
		trees = append(trees, parser.Parse(src))
	}
	scope := binder.BindGlobalScope(script, nil, trees)
	return scope, binder.BindProgram(script, nil, scope)
}

func requireDiagnostics(t *testing.T, script bool, annotated string, messages ...string) errors.Diagnostics {
	t.Helper()
	source, spans := annotate(t, annotated)
	require.Len(t, spans, len(messages), "annotation count must match messages")
	_, program := bind(script, source)
	diags := program.Diagnostics
	var got []string
	for _, d := range diags {
		got = append(got, d.Message)
	}
	require.Equal(t, messages, got)
	for i, d := range diags {
		require.Equal(t, spans[i], d.Location.Span, "span of %q", d.Message)
	}
	return diags
}

func TestRedeclaration(t *testing.T) {
	requireDiagnostics(t, true, `
{
    var x = 10
    var y = 100
    {
        var x = 10
    }
    var [x] = 5
}`, "'x' is already declared.")
}

func TestBlockWithoutProgressTerminates(t *testing.T) {
	requireDiagnostics(t, true, "{\n[)][]",
		"Unexpected token <CloseParenthesisToken>, expected <IdentifierToken>.",
		"Unexpected token <EndOfFileToken>, expected <CloseBraceToken>.")
}

func TestMissingOperandReportsOnce(t *testing.T) {
	requireDiagnostics(t, true, "1 + []",
		"Unexpected token <EndOfFileToken>, expected <IdentifierToken>.")
}

func TestNameDiagnostics(t *testing.T) {
	requireDiagnostics(t, true, "[x] * 10", "Variable 'x' doesn't exist.")
	requireDiagnostics(t, true, "[x] = 10", "Variable 'x' doesn't exist.")
	requireDiagnostics(t, true, "[foo](42)", "Function 'foo' doesn't exist.")
	requireDiagnostics(t, true, "let foo = 42 [foo](42)", "'foo' is not a function.")
	requireDiagnostics(t, true, "print([print])", "'print' is not a variable.")
	requireDiagnostics(t, true, "function test(n: [invalidtype]) {}", "Type 'invalidtype' doesn't exist.")
}

func TestUndefinedVariableHint(t *testing.T) {
	diags := requireDiagnostics(t, true, "var count = 1 print([coutn])", "Variable 'coutn' doesn't exist.")
	require.Equal(t, "Did you mean 'count'?", diags[0].Hint)
	require.Equal(t, errors.E2001, diags[0].Code)
}

func TestAssignmentDiagnostics(t *testing.T) {
	requireDiagnostics(t, true, "{ let x = 10 x [=] 0 }",
		"Variable 'x' is read-only and cannot be assigned to.")
	requireDiagnostics(t, true, "{ let x = 10 x [+=] 1 }",
		"Variable 'x' is read-only and cannot be assigned to.")
	requireDiagnostics(t, true, "{ var x = 10 x = [true] }",
		"Cannot convert type 'bool' to 'int'.")
	requireDiagnostics(t, true, "{ var x = true x [+=] 1 }",
		"Binary operator '+=' is not defined for types 'bool' and 'int'.")
	requireDiagnostics(t, true, "for i = 1 to 3 i [=] 2",
		"Variable 'i' is read-only and cannot be assigned to.")
}

func TestConversionDiagnostics(t *testing.T) {
	requireDiagnostics(t, true, `var x: int = ["1"]`,
		"Cannot convert type 'string' to 'int'. An explicit conversion exists (are you missing a cast?)")
	requireDiagnostics(t, true, `{ var x = 0 if [10] x = 10 }`,
		"Cannot convert type 'int' to 'bool'.")
	requireDiagnostics(t, true, `var x = int("1") var y: any = x var s = string(y)`)
	requireDiagnostics(t, true, `var b = int([true])`,
		"Cannot convert type 'bool' to 'int'.")
}

func TestOperatorDiagnostics(t *testing.T) {
	requireDiagnostics(t, true, "[+]true", "Unary operator '+' is not defined for type 'bool'.")
	requireDiagnostics(t, true, "10 [*] false", "Binary operator '*' is not defined for types 'int' and 'bool'.")
	// Errors in operands are not reported again by the operator.
	requireDiagnostics(t, true, "-[x] + 1", "Variable 'x' doesn't exist.")
}

func TestCallDiagnostics(t *testing.T) {
	requireDiagnostics(t, true, `print("Hello"[, " ", " world!"])`,
		"Function 'print' requires 1 arguments but was given 3.")
	requireDiagnostics(t, true, `input([1, 2])`,
		"Function 'input' requires 0 arguments but was given 2.")
	requireDiagnostics(t, true, `random([)]`,
		"Function 'random' requires 1 arguments but was given 0.")
	requireDiagnostics(t, true, `function test(n: int) { return } let value = [test(100)]`,
		"Expression must have a value.")
	requireDiagnostics(t, true, `function hi(name: string, [name: string]) { print(name) }`,
		"A parameter with the name 'name' already exists.")
	requireDiagnostics(t, true, `function f() {} function [f]() {}`,
		"'f' is already declared.")
}

func TestReturnDiagnostics(t *testing.T) {
	requireDiagnostics(t, true, `function test() { return [1] }`,
		"Since the function 'test' does not return a value the 'return' keyword cannot be followed by an expression.")
	requireDiagnostics(t, true, `function test(): int { [return] }`,
		"An expression of type 'int' is expected.")
	requireDiagnostics(t, true, `function test(): int { return [true] }`,
		"Cannot convert type 'bool' to 'int'.")
	requireDiagnostics(t, true, `function [test](n: int): bool { if (n > 10) return true }`,
		"Not all code paths return a value.")
	requireDiagnostics(t, false, `return [1]`,
		"The 'return' keyword cannot be followed by an expression in global statements.")
	requireDiagnostics(t, true, `return`)
	requireDiagnostics(t, true, `return 1`)
	// A loop after the last return is unreachable and cannot break the
	// all-paths-return check.
	requireDiagnostics(t, true, `function f(): int { return 1 while g() { } } function g(): bool { return true } f()`)
}

func TestLoopDiagnostics(t *testing.T) {
	requireDiagnostics(t, true, "[break]", "The keyword 'break' can only be used inside of loops.")
	requireDiagnostics(t, true, "[continue]", "The keyword 'continue' can only be used inside of loops.")
	requireDiagnostics(t, true, "var i = 0 while i < 3 { i = i + 1 if i == 2 continue break }")
}

func TestExpressionStatementDiagnostics(t *testing.T) {
	requireDiagnostics(t, false, "function test() { [1 + 2] }",
		"Only assignment and call expressions can be used as a statement.")
	requireDiagnostics(t, false, "[1 + 2]",
		"Only assignment and call expressions can be used as a statement.")
	// Script global statements may be any expression.
	requireDiagnostics(t, true, "1 + 2")
	requireDiagnostics(t, true, "{ [1 + 2] }",
		"Only assignment and call expressions can be used as a statement.")
}

func TestUnreachableCodeWarnings(t *testing.T) {
	diags := requireDiagnostics(t, true, `
function test()
{
    let x = 4 * 3
    if x > 12
    {
        [print]("x")
    }
    else
    {
        print("x")
    }
}`, "Unreachable code detected.")
	require.True(t, diags[0].IsWarning())
	require.False(t, diags.HasErrors())

	requireDiagnostics(t, true, `
function test()
{
    while false
    {
        [continue]
    }
}`, "Unreachable code detected.")

	requireDiagnostics(t, true, `if true print("a") else [var] x = 1`, "Unreachable code detected.")
}

func TestMainDiagnostics(t *testing.T) {
	requireDiagnostics(t, false, "function [main](x: int) {}",
		"main must not take arguments and not return anything.")
	requireDiagnostics(t, false, `function [main]() {} [print("x")]`,
		"Cannot declare main function when global statements are used.",
		"Cannot declare main function when global statements are used.")
}

func TestGlobalStatementsInOneFile(t *testing.T) {
	_, program := bind(false, `print("a")`, `print("b")`, "function f() {}")
	require.Len(t, program.Diagnostics, 2)
	for _, d := range program.Diagnostics {
		require.Equal(t, "At most one file can have global statements.", d.Message)
	}
	require.NotEqual(t, program.Diagnostics[0].Location.Text, program.Diagnostics[1].Location.Text)
}

func TestSynthesizedEntryPoints(t *testing.T) {
	scope, program := bind(false, `var x = 1 print(string(x))`)
	require.Empty(t, program.Diagnostics)
	require.NotNil(t, scope.MainFunction)
	require.Equal(t, binder.MainName, scope.MainFunction.Name())
	require.Equal(t, symbols.TypeVoid, scope.MainFunction.Type())
	require.Nil(t, scope.ScriptFunction)
	require.Contains(t, program.Functions, scope.MainFunction)
	require.IsType(t, &symbols.GlobalVariableSymbol{}, scope.Variables[0])

	scope, program = bind(true, `1 + 2`)
	require.Nil(t, scope.MainFunction)
	require.Equal(t, binder.ScriptName, scope.ScriptFunction.Name())
	require.Equal(t, symbols.TypeAny, scope.ScriptFunction.Type())
	body := program.Functions[scope.ScriptFunction]
	require.Equal(t, "{\n    return 1 + 2\n}\n", bound.String(body))

	scope, program = bind(true, `var x = 1`)
	body = program.Functions[scope.ScriptFunction]
	require.Equal(t, "{\n    var x = 1\n    return \"\"\n}\n", bound.String(body))

	scope, _ = bind(true, "function f() {}")
	require.Nil(t, scope.ScriptFunction)
}

func TestUserMain(t *testing.T) {
	scope, program := bind(false, `function main() { print("hi") }`)
	require.Empty(t, program.Diagnostics)
	require.NotNil(t, scope.MainFunction.Declaration())
	require.Equal(t, "{\n    print(any(\"hi\"))\n    return\n}\n", bound.String(program.Functions[scope.MainFunction]))
}

func TestForwardReferences(t *testing.T) {
	_, program := bind(false, `
function isEven(n: int): bool { if n == 0 return true return isOdd(n - 1) }
function isOdd(n: int): bool { if n == 0 return false return isEven(n - 1) }
print(string(isEven(4)))`)
	require.Empty(t, program.Diagnostics)
}

func TestGlobalScopeErrorsSkipBodies(t *testing.T) {
	scope, program := bind(true, `function f(): int { return true } x`)
	require.True(t, scope.Diagnostics.HasErrors())
	require.Equal(t, scope.Diagnostics, program.Diagnostics)
	require.Empty(t, program.Functions)
}

func TestParseDiagnosticsComeFirst(t *testing.T) {
	_, program := bind(true, "var x = ( y")
	require.Len(t, program.Diagnostics, 2)
	require.Equal(t, errors.E1001, program.Diagnostics[0].Code)
	require.Equal(t, errors.E2001, program.Diagnostics[1].Code)
}

func TestChainedSubmissions(t *testing.T) {
	first := binder.BindGlobalScope(true, nil, []*ast.Tree{parser.Parse("var x = 1 function f(): int { return 2 }")})
	require.Empty(t, first.Diagnostics)

	second := binder.BindGlobalScope(true, first, []*ast.Tree{parser.Parse("x + f()")})
	require.Empty(t, second.Diagnostics)

	// A later submission may redeclare a name; it shadows the earlier one.
	third := binder.BindGlobalScope(true, second, []*ast.Tree{parser.Parse(`var x = "shadow"`)})
	require.Empty(t, third.Diagnostics)
	require.Equal(t, symbols.TypeString, third.Variables[0].Type())
}

func TestScope(t *testing.T) {
	parent := binder.NewScope(nil)
	x := symbols.NewLocalVariable("x", false, symbols.TypeInt, nil)
	require.True(t, parent.TryDeclareVariable(x))
	require.False(t, parent.TryDeclareVariable(symbols.NewLocalVariable("x", true, symbols.TypeBool, nil)))

	child := binder.NewScope(parent)
	sym, ok := child.Lookup("x")
	require.True(t, ok)
	require.Same(t, x, sym)

	shadow := symbols.NewLocalVariable("x", false, symbols.TypeString, nil)
	require.True(t, child.TryDeclareVariable(shadow))
	sym, _ = child.Lookup("x")
	require.Same(t, shadow, sym)

	f := symbols.NewFunction("f", nil, symbols.TypeVoid, nil, nil)
	require.True(t, child.TryDeclareFunction(f))
	require.Equal(t, []*symbols.FunctionSymbol{f}, child.Functions())
	require.Len(t, child.Variables(), 1)
	require.Same(t, parent, child.Parent())

	_, ok = child.Lookup("missing")
	require.False(t, ok)
}
