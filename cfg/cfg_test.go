package cfg_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/binder"
	"github.com/risor-io/quill/bound"
	"github.com/risor-io/quill/cfg"
	"github.com/risor-io/quill/parser"
	"github.com/risor-io/quill/symbols"
)

// loweredBody binds source and returns the lowered body of the function
// named name.
func loweredBody(t *testing.T, source, name string) *bound.BlockStatement {
	t.Helper()
	scope := binder.BindGlobalScope(false, nil, []*ast.Tree{parser.Parse(source)})
	require.False(t, scope.Diagnostics.HasErrors(), "%v", scope.Diagnostics)
	program := binder.BindProgram(false, nil, scope)
	for fn, body := range program.Functions {
		if fn.Name() == name {
			return body
		}
	}
	t.Fatalf("function %q not found", name)
	return nil
}

func printCall(value string) bound.Stmt {
	return bound.NewExpressionStatement(nil,
		bound.NewCallExpression(nil, symbols.Print, []bound.Expr{bound.NewLiteralExpression(nil, value)}))
}

func TestAllPathsReturn(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{"single return", `function f(): int { return 1 }`, true},
		{"both branches", `function f(n: int): int { if n > 0 return 1 else return 2 }`, true},
		{"missing else", `function f(n: int): int { if n > 0 return 1 }`, false},
		{"infinite loop", `function f(): int { while true { } }`, true},
		{"return after loop", `function f(n: int): int { while n > 0 { return 1 } return 0 }`, true},
		{"return inside for", `function f(n: int): int { for i = 1 to n { if i == 3 return i } }`, false},
		{"constant false branch", `function f(): int { if false { } return 1 }`, true},
		{"dead loop after return", `function f(): int { return 1 while g() { } } function g(): bool { return true }`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := loweredBody(t, tc.source, "f")
			require.Equal(t, tc.want, cfg.AllPathsReturn(body))
		})
	}
}

func TestCreateSplitsBlocks(t *testing.T) {
	body := loweredBody(t, `function f(n: int) { if n > 0 print("a") else print("b") }`, "f")
	g := cfg.Create(body)

	require.Len(t, g.Blocks, 6)
	require.Same(t, g.Start, g.Blocks[0])
	require.Same(t, g.End, g.Blocks[5])
	require.Equal(t, "<Start>", g.Start.String())
	require.Equal(t, "<End>", g.End.String())

	require.Equal(t, "goto Label1 unless n > 0\n", g.Blocks[1].String())
	require.Equal(t, "print(any(\"a\"))\ngoto Label2\n", g.Blocks[2].String())
	require.Equal(t, "Label1:\nprint(any(\"b\"))\n", g.Blocks[3].String())
	require.Equal(t, "Label2:\nreturn\n", g.Blocks[4].String())

	require.Len(t, g.Branches, 6)
	cond := g.Blocks[1]
	require.Len(t, cond.Outgoing, 2)
	require.Same(t, g.Blocks[3], cond.Outgoing[0].To)
	require.Equal(t, "!(n > 0)", cond.Outgoing[0].String())
	require.Same(t, g.Blocks[2], cond.Outgoing[1].To)
	require.Equal(t, "n > 0", cond.Outgoing[1].String())

	require.Len(t, g.Blocks[4].Incoming, 2)
	require.Len(t, g.End.Incoming, 1)
	require.Equal(t, "", g.End.Incoming[0].String())
}

func TestCreateEmptyBody(t *testing.T) {
	g := cfg.Create(bound.NewBlockStatement(nil))
	require.Len(t, g.Blocks, 2)
	require.Len(t, g.Branches, 1)
	require.Same(t, g.End, g.Start.Outgoing[0].To)
	require.False(t, cfg.AllPathsReturn(bound.NewBlockStatement(nil)))
}

func TestUnreachableBlocksAreRemoved(t *testing.T) {
	l1 := &bound.Label{Name: "L1"}
	l2 := &bound.Label{Name: "L2"}
	// The block at L1 is never entered; removing it orphans L2 as well.
	body := bound.NewBlockStatement(nil,
		bound.NewReturnStatement(nil, nil),
		bound.NewLabelStatement(nil, l1),
		bound.NewGotoStatement(nil, l2),
		bound.NewLabelStatement(nil, l2),
		printCall("dead"),
	)
	g := cfg.Create(body)
	require.Len(t, g.Blocks, 3)
	require.Equal(t, "return\n", g.Blocks[1].String())
	require.Len(t, g.Branches, 2)
	require.True(t, cfg.AllPathsReturn(body))
}

func TestUnreachableLoopIsRemoved(t *testing.T) {
	top := &bound.Label{Name: "top"}
	// The loop jumps back to itself but nothing enters it.
	body := bound.NewBlockStatement(nil,
		bound.NewReturnStatement(nil, nil),
		bound.NewLabelStatement(nil, top),
		printCall("spin"),
		bound.NewGotoStatement(nil, top),
	)
	g := cfg.Create(body)
	require.Len(t, g.Blocks, 3)
	require.Equal(t, "return\n", g.Blocks[1].String())
	require.Len(t, g.Branches, 2)
	for _, block := range g.Blocks[1:] {
		require.NotEmpty(t, block.Incoming)
	}
	require.True(t, cfg.AllPathsReturn(body))
}

func TestConstantConditionCollapsesBranch(t *testing.T) {
	skip := &bound.Label{Name: "skip"}
	body := bound.NewBlockStatement(nil,
		bound.NewConditionalGotoStatement(nil, skip, bound.NewLiteralExpression(nil, true), true),
		printCall("skipped"),
		bound.NewLabelStatement(nil, skip),
		bound.NewReturnStatement(nil, nil),
	)
	g := cfg.Create(body)
	require.Len(t, g.Blocks, 4)
	require.Len(t, g.Blocks[1].Outgoing, 1)
	require.Same(t, g.Blocks[2], g.Blocks[1].Outgoing[0].To)
	require.Nil(t, g.Blocks[1].Outgoing[0].Condition)
	require.Equal(t, "skip:\nreturn\n", g.Blocks[2].String())

	never := &bound.Label{Name: "never"}
	body = bound.NewBlockStatement(nil,
		bound.NewConditionalGotoStatement(nil, never, bound.NewLiteralExpression(nil, true), false),
		bound.NewReturnStatement(nil, nil),
		bound.NewLabelStatement(nil, never),
		printCall("never"),
	)
	g = cfg.Create(body)
	require.Len(t, g.Blocks, 4)
	require.Equal(t, "return\n", g.Blocks[2].String())
}

func TestWriteTo(t *testing.T) {
	body := loweredBody(t, `function f() { print("a") }`, "f")
	var b strings.Builder
	n, err := cfg.Create(body).WriteTo(&b)
	require.NoError(t, err)
	require.Equal(t, int64(b.Len()), n)
	require.Equal(t, `digraph G {
    N0 [label = "<Start>", shape = box]
    N1 [label = "print(any(\"a\"))\lreturn", shape = box]
    N2 [label = "<End>", shape = box]
    N0 -> N1 [label = ""]
    N1 -> N2 [label = ""]
}
`, b.String())
}
