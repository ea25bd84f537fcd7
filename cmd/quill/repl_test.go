package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
	"github.com/fatih/color"

	"github.com/risor-io/quill"
)

func session(t *testing.T, input string) string {
	t.Helper()
	oldNoColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = oldNoColor }()

	var out bytes.Buffer
	r := newRepl(context.Background(), strings.NewReader(input), &out, []quill.Option{quill.WithStdout(&out)})
	assert.Nil(t, r.run())
	return out.String()
}

func TestReplChainsSubmissions(t *testing.T) {
	out := session(t, "var x = 10\nx * 2\nx = x + 1\nx\n")
	assert.Contains(t, out, "20\n")
	assert.Contains(t, out, "11\n")
}

func TestReplMultiLineSubmission(t *testing.T) {
	out := session(t, "function sq(n: int): int {\n    return n * n\n}\nsq(7)\n")
	assert.Contains(t, out, "· ")
	assert.Contains(t, out, "49\n")
	assert.False(t, strings.Contains(out, "error"))
}

func TestReplBlankLineForcesSubmission(t *testing.T) {
	out := session(t, "1 +\n\n2\n")
	assert.Contains(t, out, "error[E1001]")
	assert.Contains(t, out, "2\n")
}

func TestReplFailedSubmissionIsDiscarded(t *testing.T) {
	out := session(t, "var a = b\na\n")
	assert.Contains(t, out, "Variable 'b' doesn't exist.")
	assert.Contains(t, out, "Variable 'a' doesn't exist.")
}

func TestReplRuntimeErrorIsDiscarded(t *testing.T) {
	out := session(t, "var z = 0\nvar w = 1 / z\nz + 5\nw\n")
	assert.Contains(t, out, "division by zero")
	assert.Contains(t, out, "5\n")
	assert.Contains(t, out, "Variable 'w' doesn't exist.")
}

func TestReplPrint(t *testing.T) {
	out := session(t, `print("hello")`+"\n")
	assert.Contains(t, out, "hello\n")
}

func TestReplMetaCommands(t *testing.T) {
	out := session(t, "#help\n")
	assert.Contains(t, out, "#reset")

	out = session(t, "#tree\n1\n#tree\n")
	assert.Contains(t, out, "Showing parse trees.")
	assert.Contains(t, out, "CompilationUnit")
	assert.Contains(t, out, "Not showing parse trees.")

	out = session(t, "#program\n1 + 2\n")
	assert.Contains(t, out, "Showing lowered programs.")
	assert.Contains(t, out, "return 1 + 2")

	out = session(t, "#bogus\n")
	assert.Contains(t, out, "unknown command #bogus; try #help")
}

func TestReplListSymbols(t *testing.T) {
	out := session(t, "#ls\n")
	assert.Contains(t, out, "function print(text: any)\n")
	assert.Contains(t, out, "function random(max: int): int\n")

	out = session(t, "let x = 1\nfunction f() {}\n#ls\n")
	assert.Contains(t, out, "let x: int\n")
	assert.Contains(t, out, "function f()\n")
}

func TestReplDumpAndCfg(t *testing.T) {
	out := session(t, "function f(n: int): int {\nif n > 0 return 1\nreturn 0\n}\n#dump f\n#cfg f\n")
	assert.Contains(t, out, "function f(n: int): int\n{\n")
	assert.Contains(t, out, "digraph G {")
	assert.Contains(t, out, "<Start>")

	out = session(t, "#dump nope\n")
	assert.Contains(t, out, "function 'nope' does not exist")

	out = session(t, "#cfg\n")
	assert.Contains(t, out, "usage: #cfg <function>")
}

func TestReplReset(t *testing.T) {
	out := session(t, "var x = 1\n#reset\nx\n")
	assert.Contains(t, out, "Cleared all previous submissions.")
	assert.Contains(t, out, "Variable 'x' doesn't exist.")
}

func TestReplQuit(t *testing.T) {
	out := session(t, "#quit\n12345\n")
	assert.False(t, strings.Contains(out, "12345"))
}

func TestReplHistory(t *testing.T) {
	out := session(t, "1\n2\n#history\n")
	assert.Contains(t, out, "   1  1\n")
	assert.Contains(t, out, "   2  2\n")
}

func TestIsCompleteSubmission(t *testing.T) {
	tests := []struct {
		text     string
		complete bool
	}{
		{"", true},
		{"1 + 2", true},
		{"1 +", false},
		{"{", false},
		{"{\n}", true},
		{"function f() {", false},
		{"if true", false},
		{"var x =", false},
		{`"abc`, true},
		{"while true {\nbreak\n}", true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.complete, isCompleteSubmission(tt.text))
		})
	}
}
