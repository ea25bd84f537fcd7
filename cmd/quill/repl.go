package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/risor-io/quill"
	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/cfg"
	"github.com/risor-io/quill/errors"
	"github.com/risor-io/quill/evaluator"
	"github.com/risor-io/quill/parser"
	"github.com/risor-io/quill/symbols"
)

const replHelp = `Enter statements or expressions. A submission ends when it parses
completely; press enter on a blank line to submit it anyway.

Commands:
  #help            Show this message
  #tree            Toggle display of parse trees
  #program         Toggle display of lowered programs
  #ls              List functions and variables in scope
  #dump <name>     Print the lowered body of a function
  #cfg <name>      Print the control flow graph of a function as DOT
  #history         Show previous submissions
  #reset           Forget all declarations and variables
  #quit            Exit the REPL
`

var (
	promptColor = color.New(color.FgGreen)
	valueColor  = color.New(color.FgMagenta)
	metaColor   = color.New(color.FgHiBlack)
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE:  replHandler,
	}
}

func replHandler(cmd *cobra.Command, args []string) error {
	opts, err := getQuillOptions(cmd, "")
	if err != nil {
		return err
	}
	if isTerminalIO() {
		return runTerminalRepl(commandContext(cmd), opts)
	}
	r := newRepl(commandContext(cmd), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
	r.history, r.historyPath = loadHistory()
	return r.run()
}

// repl reads submissions line by line and evaluates each one as a script
// chained to the previous successful submission. On a terminal the same
// state is driven by replApp instead of run.
type repl struct {
	ctx  context.Context
	in   *bufio.Reader
	out  io.Writer
	opts []quill.Option

	previous *quill.Compilation
	globals  evaluator.Variables

	showTree    bool
	showProgram bool
	done        bool

	history     []string
	historyPath string
}

func newRepl(ctx context.Context, in io.Reader, out io.Writer, opts []quill.Option) *repl {
	return &repl{
		ctx:     ctx,
		in:      bufio.NewReader(in),
		out:     out,
		opts:    opts,
		globals: evaluator.Variables{},
	}
}

func (r *repl) run() error {
	for !r.done {
		text, ok, err := r.readSubmission()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(r.out)
			return nil
		}
		if strings.HasPrefix(text, "#") {
			r.metaCommand(text)
			continue
		}
		r.addHistory(text)
		r.evaluate(text)
	}
	return nil
}

// readSubmission reads lines until they form a complete submission. It
// returns false at end of input with nothing pending.
func (r *repl) readSubmission() (string, bool, error) {
	var lines []string
	for {
		if len(lines) == 0 {
			promptColor.Fprint(r.out, "» ")
		} else {
			promptColor.Fprint(r.out, "· ")
		}
		line, err := r.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", false, err
		}
		eof := err == io.EOF
		line = strings.TrimRight(line, "\r\n")

		if len(lines) == 0 {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "" && eof:
				return "", false, nil
			case trimmed == "":
				continue
			case strings.HasPrefix(trimmed, "#"):
				return trimmed, true, nil
			}
		} else if strings.TrimSpace(line) == "" {
			return strings.Join(lines, "\n"), true, nil
		}

		lines = append(lines, line)
		text := strings.Join(lines, "\n")
		if eof || isCompleteSubmission(text) {
			return text, true, nil
		}
	}
}

// isCompleteSubmission reports whether text parses without the parser
// fabricating a token at its end, which means more input is expected.
func isCompleteSubmission(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	members := parser.Parse(text).Root().Members
	if len(members) == 0 {
		return true
	}
	last := ast.LastToken(members[len(members)-1])
	return last == nil || !last.IsMissing()
}

func (r *repl) evaluate(text string) {
	tree := quill.Parse(text, r.opts...)
	compilation := quill.NewScript(r.previous, tree)

	if r.showTree {
		ast.Print(r.out, tree.Root())
	}
	if r.showProgram {
		compilation.EmitTree(r.out)
	}

	result, err := compilation.Evaluate(r.ctx, r.globals, r.opts...)
	if len(result.Diagnostics) > 0 {
		fmt.Fprint(r.out, errors.NewFormatter(!color.NoColor).FormatDiagnostics(result.Diagnostics.Sorted()))
	}
	if err != nil {
		printRuntimeError(r.out, err, "text")
		return
	}
	if result.Diagnostics.HasErrors() {
		return
	}
	r.previous = compilation
	if s := evaluator.FormatValue(result.Value); s != "" {
		valueColor.Fprintln(r.out, s)
	}
}

func (r *repl) metaCommand(input string) {
	fields := strings.Fields(input)
	name, args := fields[0], fields[1:]
	switch name {
	case "#help":
		fmt.Fprint(r.out, replHelp)
	case "#quit", "#exit":
		r.done = true
	case "#reset":
		r.previous = nil
		r.globals = evaluator.Variables{}
		metaColor.Fprintln(r.out, "Cleared all previous submissions.")
	case "#tree":
		r.showTree = !r.showTree
		metaColor.Fprintln(r.out, toggleMessage(r.showTree, "parse trees"))
	case "#program":
		r.showProgram = !r.showProgram
		metaColor.Fprintln(r.out, toggleMessage(r.showProgram, "lowered programs"))
	case "#ls":
		r.listSymbols()
	case "#history":
		for i, h := range r.history {
			fmt.Fprintf(r.out, "%4d  %s\n", i+1, strings.ReplaceAll(h, "\n", "\n      "))
		}
	case "#dump", "#cfg":
		if len(args) != 1 {
			r.errorf("usage: %s <function>", name)
			return
		}
		fn, ok := r.lookupFunction(args[0])
		if !ok {
			r.errorf("function '%s' does not exist", args[0])
			return
		}
		if name == "#dump" {
			r.previous.EmitFunction(fn, r.out)
			return
		}
		body, _ := r.previous.Program().Body(fn)
		cfg.Create(body).WriteTo(r.out)
	default:
		r.errorf("unknown command %s; try #help", name)
	}
}

func toggleMessage(on bool, what string) string {
	if on {
		return "Showing " + what + "."
	}
	return "Not showing " + what + "."
}

func (r *repl) errorf(format string, args ...any) {
	fmt.Fprintln(r.out, red(fmt.Sprintf(format, args...)))
}

// lookupFunction finds a declared function visible to the latest
// submission. Built-in functions have no body and are not found.
func (r *repl) lookupFunction(name string) (*symbols.FunctionSymbol, bool) {
	if r.previous == nil {
		return nil, false
	}
	return r.previous.LookupFunction(name)
}

func (r *repl) listSymbols() {
	var syms []symbols.Symbol
	if r.previous != nil {
		syms = r.previous.Symbols()
	} else {
		for _, fn := range symbols.Builtins() {
			syms = append(syms, fn)
		}
	}
	sort.SliceStable(syms, func(i, j int) bool {
		return syms[i].Name() < syms[j].Name()
	})
	for _, s := range syms {
		fmt.Fprintln(r.out, s)
	}
}

func (r *repl) addHistory(text string) {
	r.history = append(r.history, text)
	appendToHistory(r.historyPath, text)
}

// loadHistory reads ~/.quill_history. Multi-line submissions are stored
// with escaped line breaks.
func loadHistory() ([]string, string) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, ""
	}
	path := filepath.Join(home, ".quill_history")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path
	}
	lines := strings.Split(string(data), "\n")
	history := make([]string, 0, len(lines))
	for _, line := range lines {
		if line != "" {
			history = append(history, strings.ReplaceAll(line, `\n`, "\n"))
		}
	}
	return history, path
}

func appendToHistory(path, text string) {
	if path == "" || text == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	f.WriteString(strings.ReplaceAll(text, "\n", `\n`) + "\n")
}
