// Package quill compiles and evaluates Quill source code.
//
// The quickest way in is Eval:
//
//	result, err := quill.Eval(ctx, `var a = 10 a * 2`)
//
// For more control, parse trees with the parser package and bind them with
// NewCompilation (a program with a main entry point) or NewScript (a
// script whose trailing expression is its value).
package quill

import (
	"context"
	"time"

	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/parser"
)

// Parse parses source into a syntax tree. The tree always exists; syntax
// errors are reported in its diagnostics.
func Parse(source string, opts ...Option) *ast.Tree {
	o := collectOptions(opts...)
	start := time.Now()
	tree := parser.Parse(source, o.parserOpts()...)
	o.logger.Debug().
		Str("filename", tree.Text().Filename()).
		Int("diagnostics", len(tree.Diagnostics())).
		Dur("elapsed", time.Since(start)).
		Msg("parsed")
	return tree
}

// Eval compiles source as a script and evaluates it with a fresh global
// store. Compile errors are returned together as one error; warnings are
// ignored.
func Eval(ctx context.Context, source string, opts ...Option) (any, error) {
	compilation := NewScript(nil, Parse(source, opts...))
	result, err := compilation.Evaluate(ctx, nil, opts...)
	if err != nil {
		return nil, err
	}
	if err := result.Diagnostics.Err(); err != nil {
		return nil, err
	}
	return result.Value, nil
}
