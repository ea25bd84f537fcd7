package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/risor-io/quill"
	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/cfg"
	"github.com/risor-io/quill/text"
)

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the syntax tree of the code",
		Args:  cobra.MaximumNArgs(1),
		RunE:  treeHandler,
	}
	addCodeFlags(cmd)
	return cmd
}

func newLowerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lower [file]",
		Short: "Print the lowered form of every function",
		Args:  cobra.MaximumNArgs(1),
		RunE:  lowerHandler,
	}
	addCodeFlags(cmd)
	cmd.Flags().Bool("script", false, "Compile as a script instead of a program")
	return cmd
}

func newCfgCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cfg [file]",
		Short:   "Print the control flow graph of a function in DOT format",
		Example: `  quill cfg prog.ql --func fib | dot -Tsvg > fib.svg`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    cfgHandler,
	}
	addCodeFlags(cmd)
	cmd.Flags().StringP("func", "f", "", "Function to graph (default is the entry point)")
	return cmd
}

func newHighlightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "highlight [file]",
		Short: "Print the code with syntax highlighting",
		Args:  cobra.MaximumNArgs(1),
		RunE:  highlightHandler,
	}
	addCodeFlags(cmd)
	return cmd
}

func parseInput(cmd *cobra.Command, args []string) (*ast.Tree, []quill.Option, error) {
	code, filename, err := getQuillCode(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	opts, err := getQuillOptions(cmd, filename)
	if err != nil {
		return nil, nil, err
	}
	return quill.Parse(code, opts...), opts, nil
}

func treeHandler(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	tree, _, err := parseInput(cmd, args)
	if err != nil {
		return err
	}
	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(nodeToJSON(tree.Root())); err != nil {
			return err
		}
	} else if err := ast.Print(cmd.OutOrStdout(), tree.Root()); err != nil {
		return err
	}
	return printDiagnostics(cmd.ErrOrStderr(), tree.Diagnostics(), format)
}

// TreeNode is a node in the JSON syntax tree output. Tokens carry their
// text; missing tokens are flagged and have none.
type TreeNode struct {
	Kind     string      `json:"kind"`
	Start    int         `json:"start"`
	End      int         `json:"end"`
	Text     string      `json:"text,omitempty"`
	Missing  bool        `json:"missing,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

func nodeToJSON(node ast.Node) *TreeNode {
	span := node.Span()
	result := &TreeNode{Kind: string(node.Kind()), Start: span.Start, End: span.End()}
	if tok, ok := node.(*ast.Token); ok {
		result.Text = tok.Text()
		result.Missing = tok.IsMissing()
		return result
	}
	for _, child := range node.Children() {
		result.Children = append(result.Children, nodeToJSON(child))
	}
	return result
}

// compileInput parses the input and binds it, printing diagnostics. It
// fails when binding reported errors.
func compileInput(cmd *cobra.Command, args []string, script bool) (*quill.Compilation, error) {
	format, err := outputFormat()
	if err != nil {
		return nil, err
	}
	tree, _, err := parseInput(cmd, args)
	if err != nil {
		return nil, err
	}
	var compilation *quill.Compilation
	if script {
		compilation = quill.NewScript(nil, tree)
	} else {
		compilation = quill.NewCompilation(tree)
	}
	diagnostics := compilation.Diagnostics()
	if err := printDiagnostics(cmd.ErrOrStderr(), diagnostics, format); err != nil {
		return nil, err
	}
	if diagnostics.HasErrors() {
		return nil, errReported
	}
	return compilation, nil
}

func lowerHandler(cmd *cobra.Command, args []string) error {
	script, _ := cmd.Flags().GetBool("script")
	compilation, err := compileInput(cmd, args, script)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	entry := compilation.Program().MainFunction
	for _, fn := range compilation.GlobalScope().Functions {
		if fn == entry {
			continue
		}
		if err := compilation.EmitFunction(fn, out); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return compilation.EmitTree(out)
}

func cfgHandler(cmd *cobra.Command, args []string) error {
	compilation, err := compileInput(cmd, args, false)
	if err != nil {
		return err
	}
	program := compilation.Program()
	fn := program.MainFunction
	if name, _ := cmd.Flags().GetString("func"); name != "" {
		var ok bool
		if fn, ok = compilation.LookupFunction(name); !ok {
			return fmt.Errorf("function '%s' does not exist", name)
		}
	}
	if fn == nil {
		return fmt.Errorf("program has no entry point")
	}
	body, ok := program.Body(fn)
	if !ok {
		return fmt.Errorf("function '%s' has no body", fn.Name())
	}
	_, err = cfg.Create(body).WriteTo(cmd.OutOrStdout())
	return err
}

func highlightHandler(cmd *cobra.Command, args []string) error {
	tree, _, err := parseInput(cmd, args)
	if err != nil {
		return err
	}
	return highlight(cmd.OutOrStdout(), tree)
}

var classColors = map[ast.Classification]*color.Color{
	ast.ClassKeyword: color.New(color.FgBlue),
	ast.ClassNumber:  color.New(color.FgCyan),
	ast.ClassString:  color.New(color.FgMagenta),
	ast.ClassComment: color.New(color.FgGreen),
}

// highlight writes the tree's source text with classified spans colored.
// Text not covered by a classified span is written as is.
func highlight(w io.Writer, tree *ast.Tree) error {
	src := tree.Text()
	var b strings.Builder
	pos := 0
	for _, cs := range ast.Classify(tree, text.NewSpan(0, src.Len())) {
		if cs.Span.Start < pos {
			continue
		}
		b.WriteString(src.Slice(text.SpanFromBounds(pos, cs.Span.Start)))
		s := src.Slice(cs.Span)
		if c, ok := classColors[cs.Classification]; ok {
			s = c.Sprint(s)
		}
		b.WriteString(s)
		pos = cs.Span.End()
	}
	b.WriteString(src.Slice(text.SpanFromBounds(pos, src.Len())))
	_, err := io.WriteString(w, b.String())
	return err
}
