package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
	"github.com/fatih/color"

	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/parser"
)

func TestTreeCommand(t *testing.T) {
	stdout, stderr, err := execute(t, "", "tree", "-c", "1 + 2")
	assert.Nil(t, err)
	assert.Equal(t, "", stderr)
	assert.Contains(t, stdout, "CompilationUnit")
	assert.Contains(t, stdout, "BinaryExpression")
	assert.Contains(t, stdout, "NumberToken 1")
}

func TestTreeCommandJSON(t *testing.T) {
	stdout, _, err := execute(t, "", "tree", "-c", "var x = ", "-o", "json")
	assert.Nil(t, err)

	var root TreeNode
	assert.Nil(t, json.Unmarshal([]byte(stdout), &root))
	assert.Equal(t, "CompilationUnit", root.Kind)

	var missing []string
	var visit func(n *TreeNode)
	visit = func(n *TreeNode) {
		if n.Missing {
			missing = append(missing, n.Kind)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(&root)
	assert.Equal(t, []string{"IdentifierToken"}, missing)
}

func TestTreeCommandReportsSyntaxErrors(t *testing.T) {
	_, stderr, err := execute(t, "", "tree", "-c", "var x = ")
	assert.Nil(t, err)
	assert.Contains(t, stderr, "error[E1001]")
}

func TestLowerCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "lower", "-c", "function f(n: int): int { return n + 1 }\nprint(string(f(1)))")
	assert.Nil(t, err)
	assert.Contains(t, stdout, "function f(n: int): int\n{\n    return n + 1\n}\n")
	assert.Contains(t, stdout, "function main()\n")
}

func TestLowerCommandScript(t *testing.T) {
	stdout, _, err := execute(t, "", "lower", "--script", "-c", "1 + 2")
	assert.Nil(t, err)
	assert.Equal(t, "function $eval(): any\n{\n    return 1 + 2\n}\n", stdout)
}

func TestLowerCommandErrors(t *testing.T) {
	stdout, stderr, err := execute(t, "", "lower", "-c", "var a = b")
	assert.ErrorIs(t, err, errReported)
	assert.Equal(t, "", stdout)
	assert.Contains(t, stderr, "Variable 'b' doesn't exist.")
}

func TestCfgCommand(t *testing.T) {
	code := "function f(n: int): int {\n    if n > 0\n        return 1\n    return 0\n}\n"
	stdout, _, err := execute(t, "", "cfg", "-c", code, "--func", "f")
	assert.Nil(t, err)
	assert.True(t, strings.HasPrefix(stdout, "digraph G {\n"))
	assert.Contains(t, stdout, `[label = "n > 0"]`)
	assert.Contains(t, stdout, `[label = "<End>", shape = box]`)

	_, _, err = execute(t, "", "cfg", "-c", code, "--func", "g")
	assert.NotNil(t, err)
	assert.Equal(t, "function 'g' does not exist", err.Error())
}

func TestCfgCommandEntryPoint(t *testing.T) {
	stdout, _, err := execute(t, "", "cfg", "-c", `print("a")`)
	assert.Nil(t, err)
	assert.Contains(t, stdout, `print(any(\"a\"))`)
}

func TestHighlightPreservesText(t *testing.T) {
	oldNoColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = oldNoColor }()

	source := "// greet\nfunction f(name: string) {\n    print(\"hi \" + name) §\n}\n"
	var b strings.Builder
	assert.Nil(t, highlight(&b, parser.Parse(source)))
	assert.Equal(t, source, b.String())
}

func TestHighlightColors(t *testing.T) {
	oldNoColor := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = oldNoColor }()

	var b strings.Builder
	assert.Nil(t, highlight(&b, parser.Parse("var x = 42")))
	out := b.String()
	assert.Contains(t, out, classColors[ast.ClassKeyword].Sprint("var"))
	assert.Contains(t, out, "\x1b[36m42\x1b[0m")
}

func TestGetOutput(t *testing.T) {
	oldNoColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = oldNoColor }()

	out, err := getOutput(int32(7), "")
	assert.Nil(t, err)
	assert.Equal(t, "7", out)

	out, err = getOutput("hi", "text")
	assert.Nil(t, err)
	assert.Equal(t, "hi", out)

	out, err = getOutput("hi", "json")
	assert.Nil(t, err)
	assert.Equal(t, "{\n  \"value\": \"hi\",\n  \"type\": \"string\"\n}", out)

	_, err = getOutput(int32(1), "xml")
	assert.NotNil(t, err)
}
