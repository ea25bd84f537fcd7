package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/risor-io/quill"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [file]",
		Short: "Evaluate code as a script and print its value",
		Long: `Evaluate code as a script. The value of a trailing expression statement
is printed.`,
		Example: `  quill eval -c "var a = 10 a * 2"
  echo "1 + 2" | quill eval --stdin
  quill eval -c "2 > 1" -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: evalHandler,
	}
	addCodeFlags(cmd)
	return cmd
}

func evalHandler(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	code, filename, err := getQuillCode(cmd, args)
	if err != nil {
		return err
	}
	opts, err := getQuillOptions(cmd, filename)
	if err != nil {
		return err
	}

	tree := quill.Parse(code, opts...)
	result, err := quill.NewScript(nil, tree).Evaluate(commandContext(cmd), nil, opts...)
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

	out, err := getOutput(result.Value, format)
	if err != nil {
		return err
	}
	if out != "" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	return nil
}
