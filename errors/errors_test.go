package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/wonton/color"
	"github.com/stretchr/testify/require"

	"github.com/risor-io/quill/text"
	"github.com/risor-io/quill/token"
)

type typeName string

func (t typeName) String() string { return string(t) }

func TestBagMessages(t *testing.T) {
	src := text.New("let x = 1", "t.ql")
	loc := text.Location{Text: src, Span: text.NewSpan(4, 1)}

	var bag Bag
	bag.ReportUnexpectedToken(loc, token.EndOfFileToken, token.IdentifierToken)
	bag.ReportSymbolAlreadyDeclared(loc, "x")
	bag.ReportCannotConvertImplicitly(loc, typeName("string"), typeName("int"))
	bag.ReportWrongArgumentCount(loc, "f", 1, 3)
	bag.ReportUnreachableCode(loc)

	msgs := make([]string, 0, bag.Len())
	for _, d := range bag.All() {
		msgs = append(msgs, d.Message)
	}
	require.Equal(t, []string{
		"Unexpected token <EndOfFileToken>, expected <IdentifierToken>.",
		"'x' is already declared.",
		"Cannot convert type 'string' to 'int'. An explicit conversion exists (are you missing a cast?)",
		"Function 'f' requires 1 arguments but was given 3.",
		"Unreachable code detected.",
	}, msgs)
	require.Equal(t, E1001, bag.All()[0].Code)
	require.True(t, bag.All()[4].IsWarning())
	require.Len(t, bag.All().Errors(), 4)
	require.Len(t, bag.All().Warnings(), 1)
}

func TestUndefinedVariableHint(t *testing.T) {
	src := text.New("print(cuont)", "")
	loc := text.Location{Text: src, Span: text.NewSpan(6, 5)}
	var bag Bag
	bag.ReportUndefinedVariable(loc, "cuont", []string{"count", "print", "input"})
	d := bag.All()[0]
	require.Equal(t, "Variable 'cuont' doesn't exist.", d.Message)
	require.Equal(t, "Did you mean 'count'?", d.Hint)
}

func TestDiagnosticsErr(t *testing.T) {
	src := text.New("x", "")
	loc := text.Location{Text: src, Span: text.NewSpan(0, 1)}

	var bag Bag
	bag.ReportUnreachableCode(loc)
	require.NoError(t, bag.All().Err())
	require.False(t, bag.All().HasErrors())

	bag.ReportUndefinedVariable(loc, "x", nil)
	bag.ReportNotAFunction(loc, "x")
	err := bag.All().Err()
	require.Error(t, err)
	require.True(t, bag.All().HasErrors())
	require.Contains(t, err.Error(), "2 errors occurred")
	require.Contains(t, err.Error(), "Variable 'x' doesn't exist.")
}

func TestSorted(t *testing.T) {
	src := text.New("abcdef", "")
	var bag Bag
	bag.ReportBadCharacter(text.Location{Text: src, Span: text.NewSpan(4, 1)}, 'e')
	bag.ReportBadCharacter(text.Location{Text: src, Span: text.NewSpan(1, 1)}, 'b')
	sorted := bag.All().Sorted()
	require.Equal(t, 1, sorted[0].Location.Span.Start)
	require.Equal(t, 4, bag.All()[0].Location.Span.Start)
}

func TestFormatDiagnostic(t *testing.T) {
	src := text.New("let a = 1\nlet a = 2", "main.ql")
	var bag Bag
	bag.ReportSymbolAlreadyDeclared(text.Location{Text: src, Span: text.NewSpan(14, 1)}, "a")
	out := NewFormatter(false).Format(bag.All()[0].ToFormatted())
	require.Equal(t, strings.Join([]string{
		"error[E2014]: 'a' is already declared.",
		"  --> main.ql:2:5",
		"   |",
		" 2 | let a = 2",
		"   |     ^",
		"",
	}, "\n"), out)
}

func TestFormatColor(t *testing.T) {
	src := text.New("let a = 1\nlet a = 2", "main.ql")
	var bag Bag
	bag.ReportSymbolAlreadyDeclared(text.Location{Text: src, Span: text.NewSpan(14, 1)}, "a")
	bag.ReportUnreachableCode(text.Location{Text: src, Span: text.NewSpan(0, 3)})

	out := NewFormatter(true).Format(bag.All()[0].ToFormatted())
	require.True(t, strings.HasPrefix(out, color.BrightRed.Apply("error")))
	require.Contains(t, out, color.BrightBlack.Apply("[E2014]"))
	require.Contains(t, out, color.Cyan.Apply("main.ql:2:5"))
	require.Contains(t, out, color.BrightRed.Apply("^"))

	out = NewFormatter(true).Format(bag.All()[1].ToFormatted())
	require.True(t, strings.HasPrefix(out, color.BrightYellow.Apply("warning")))

	plain := NewFormatter(false).Format(bag.All()[0].ToFormatted())
	require.NotContains(t, plain, "\x1b[")
}

func TestFormatDiagnosticsSummary(t *testing.T) {
	src := text.New("while false x = 1", "")
	var bag Bag
	bag.ReportUnreachableCode(text.Location{Text: src, Span: text.NewSpan(12, 1)})
	out := NewFormatter(false).FormatDiagnostics(bag.All())
	require.True(t, strings.HasPrefix(out, "warning[W2001]: Unreachable code detected."))
	require.True(t, strings.HasSuffix(out, "found 0 errors and 1 warning\n"))
}

func TestRuntimeError(t *testing.T) {
	err := NewRuntimeError(E3002, ErrDivisionByZero)
	var wrapped error = fmt.Errorf("eval: %w", err)
	rt, ok := AsRuntimeError(wrapped)
	require.True(t, ok)
	require.Equal(t, E3002, rt.Code)
	require.True(t, stderrors.Is(wrapped, ErrDivisionByZero))
	require.Equal(t, "runtime error: division by zero", err.Error())
	require.True(t, err.IsFatal())
	require.Contains(t, err.FriendlyErrorMessage(), "runtime error[E3002]: division by zero")
}

func TestSuggestSimilar(t *testing.T) {
	require.Empty(t, SuggestSimilar("", []string{"a"}))
	got := SuggestSimilar("pritn", []string{"print", "input", "random", "pr"})
	require.Equal(t, []Suggestion{{Value: "print", Distance: 2}}, got)
	require.Equal(t, "", FormatSuggestions(nil))
	require.Equal(t, "Did you mean one of: 'ab', 'ac'?",
		FormatSuggestions([]Suggestion{{Value: "ab"}, {Value: "ac"}}))
	require.Equal(t, 3, editDistance("kitten", "sitting"))
}

func TestCodes(t *testing.T) {
	require.True(t, E1001.IsSyntax())
	require.True(t, E2014.IsBinding())
	require.True(t, W2001.IsBinding())
	require.True(t, E3002.IsRuntime())
	require.Equal(t, "division by zero", E3002.Description())
	require.Equal(t, "unknown error", ErrorCode("E9999").Description())
}
