package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/risor-io/quill"
)

var outputFormatsCompletion = []string{"text", "json"}

// addCodeFlags adds the flags that select an input source other than a
// file argument.
func addCodeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "Code to evaluate")
	cmd.Flags().Bool("stdin", false, "Read code from stdin")
}

// newLogger returns a console logger writing to w at the configured level.
func newLogger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("log-level")))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", viper.GetString("log-level"))
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// getQuillOptions returns the options every command passes to the quill
// package: a logger on stderr and the command's standard streams.
func getQuillOptions(cmd *cobra.Command, filename string) ([]quill.Option, error) {
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	opts := []quill.Option{
		quill.WithLogger(logger),
		quill.WithStdout(cmd.OutOrStdout()),
		quill.WithStdin(cmd.InOrStdin()),
	}
	if filename != "" {
		opts = append(opts, quill.WithFilename(filename))
	}
	return opts, nil
}

// getQuillCode returns the source selected by --code, --stdin or a file
// argument, along with the file name to report in diagnostics.
func getQuillCode(cmd *cobra.Command, args []string) (code, filename string, err error) {
	codeFlag, _ := cmd.Flags().GetString("code")
	stdinFlag, _ := cmd.Flags().GetBool("stdin")

	var sources int
	if codeFlag != "" {
		sources++
	}
	if stdinFlag {
		sources++
	}
	if len(args) > 0 {
		sources++
	}
	if sources > 1 {
		return "", "", errors.New("multiple input sources specified")
	}

	switch {
	case codeFlag != "":
		return codeFlag, "", nil
	case stdinFlag:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", err
		}
		return string(data), "<stdin>", nil
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	}
	return "", "", errors.New("no input provided")
}

// shouldRunRepl reports whether the root command was invoked without any
// input and with a terminal on both ends.
func shouldRunRepl(cmd *cobra.Command, args []string) bool {
	if noRepl, _ := cmd.Flags().GetBool("no-repl"); noRepl {
		return false
	}
	if cmd.Flags().Changed("code") || cmd.Flags().Changed("stdin") || len(args) > 0 {
		return false
	}
	return isTerminalIO()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
