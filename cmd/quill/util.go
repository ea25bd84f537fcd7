package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"

	"github.com/risor-io/quill/errors"
	"github.com/risor-io/quill/evaluator"
	"github.com/risor-io/quill/symbols"
)

var red = color.New(color.FgRed).SprintFunc()

func fatal(msg string, args ...any) {
	fmt.Fprintln(os.Stderr, red(fmt.Sprintf(msg, args...)))
	os.Exit(1)
}

func isTerminalIO() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

func processGlobalFlags() {
	if viper.GetBool("no-color") || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

func outputFormat() (string, error) {
	format := strings.ToLower(viper.GetString("output"))
	switch format {
	case "", "text", "json":
		return format, nil
	}
	return "", fmt.Errorf("unknown output format: %s", format)
}

// valueJSON is the JSON form of an evaluation result.
type valueJSON struct {
	Value any    `json:"value"`
	Type  string `json:"type"`
}

// getOutput renders the value of a program or script in the requested
// format. Text output is empty for scripts that end in a statement.
func getOutput(value any, format string) (string, error) {
	switch format {
	case "", "text":
		return evaluator.FormatValue(value), nil
	case "json":
		result := valueJSON{Value: value, Type: "void"}
		if t := symbols.TypeOf(value); t != nil {
			result.Type = t.Name()
		}
		return getOutputJSON(result)
	}
	return "", fmt.Errorf("unknown output format: %s", format)
}

func getOutputJSON(v any) (string, error) {
	var output []byte
	var err error
	if color.NoColor {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = prettyjson.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(output), nil
}

// diagnosticJSON is the JSON form of a diagnostic. Line and column are
// 1-based.
type diagnosticJSON struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Hint     string `json:"hint,omitempty"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

func toDiagnosticsJSON(ds errors.Diagnostics) []diagnosticJSON {
	out := make([]diagnosticJSON, 0, len(ds))
	for _, d := range ds {
		dj := diagnosticJSON{
			Code:     string(d.Code),
			Severity: d.Severity.String(),
			Message:  d.Message,
			Hint:     d.Hint,
		}
		if d.Location.Text != nil {
			dj.File = d.Location.Filename()
			dj.Line = d.Location.StartLine() + 1
			dj.Column = d.Location.StartCharacter() + 1
		}
		out = append(out, dj)
	}
	return out
}

// printDiagnostics writes diagnostics in the requested format. Text output
// includes source excerpts and a summary line.
func printDiagnostics(w io.Writer, ds errors.Diagnostics, format string) error {
	if len(ds) == 0 {
		return nil
	}
	if format == "json" {
		out, err := getOutputJSON(map[string]any{"diagnostics": toDiagnosticsJSON(ds.Sorted())})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	}
	_, err := fmt.Fprint(w, errors.NewFormatter(!color.NoColor).FormatDiagnostics(ds.Sorted()))
	return err
}

// printRuntimeError writes a runtime error with its call stack.
func printRuntimeError(w io.Writer, err error, format string) {
	if format == "json" {
		out, jerr := getOutputJSON(map[string]string{"error": err.Error()})
		if jerr == nil {
			fmt.Fprintln(w, out)
			return
		}
	}
	if rerr, ok := errors.AsRuntimeError(err); ok {
		fmt.Fprint(w, errors.NewFormatter(!color.NoColor).Format(rerr.ToFormatted()))
		return
	}
	fmt.Fprintln(w, red(err.Error()))
}
