package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/risor-io/quill"
	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/parser"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>...",
		Short: "Compile and run a program",
		Long: `Compile the given files as one program and run it.

The entry point is the function named main, or the global statements when no
main function is declared. Errors prevent the program from running; warnings
are printed and do not.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runHandler,
	}
}

// parseFiles parses each file, stopping at the first one that cannot be
// read. Syntax errors are left in the trees' diagnostics.
func parseFiles(paths []string) ([]*ast.Tree, error) {
	trees := make([]*ast.Tree, 0, len(paths))
	for _, path := range paths {
		tree, err := parser.ParseFile(path)
		if err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

func runHandler(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	trees, err := parseFiles(args)
	if err != nil {
		return err
	}
	opts, err := getQuillOptions(cmd, "")
	if err != nil {
		return err
	}

	result, err := quill.NewCompilation(trees...).Evaluate(commandContext(cmd), nil, opts...)
	if perr := printDiagnostics(cmd.ErrOrStderr(), result.Diagnostics, format); perr != nil {
		return perr
	}
	if err != nil {
		printRuntimeError(cmd.ErrOrStderr(), err, format)
		return errReported
	}
	if result.Diagnostics.HasErrors() {
		return errReported
	}
	if format == "json" {
		out, err := getOutput(result.Value, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	return nil
}
