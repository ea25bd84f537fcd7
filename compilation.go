package quill

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/binder"
	"github.com/risor-io/quill/bound"
	"github.com/risor-io/quill/errors"
	"github.com/risor-io/quill/evaluator"
	"github.com/risor-io/quill/internal/lazy"
	"github.com/risor-io/quill/symbols"
)

// Compilation binds a set of syntax trees. Binding and lowering happen on
// first use and are memoized; a Compilation is safe for concurrent use.
//
// Script compilations can be chained: each submission sees the functions
// and global variables declared by the ones before it.
type Compilation struct {
	isScript bool
	previous *Compilation
	trees    []*ast.Tree

	globalScope lazy.Value[bound.GlobalScope]
	program     lazy.Value[bound.Program]
}

// NewCompilation returns a program compilation. Its entry point is the
// declared main function, or a main synthesized from the global statements.
func NewCompilation(trees ...*ast.Tree) *Compilation {
	return &Compilation{trees: trees}
}

// NewScript returns a script compilation chained to previous, which may be
// nil. The value of a trailing expression statement is the script's result.
func NewScript(previous *Compilation, trees ...*ast.Tree) *Compilation {
	return &Compilation{isScript: true, previous: previous, trees: trees}
}

// IsScript reports whether the compilation is in script mode.
func (c *Compilation) IsScript() bool { return c.isScript }

// Previous returns the submission this one is chained to.
func (c *Compilation) Previous() *Compilation { return c.previous }

// Trees returns the syntax trees of this submission.
func (c *Compilation) Trees() []*ast.Tree { return c.trees }

// GlobalScope returns the bound declarations and global statements.
func (c *Compilation) GlobalScope() *bound.GlobalScope {
	return c.globalScope.Get(func() *bound.GlobalScope {
		var previous *bound.GlobalScope
		if c.previous != nil {
			previous = c.previous.GlobalScope()
		}
		return binder.BindGlobalScope(c.isScript, previous, c.trees)
	})
}

// Program returns the bound and lowered program.
func (c *Compilation) Program() *bound.Program {
	return c.program.Get(func() *bound.Program {
		var previous *bound.Program
		if c.previous != nil {
			previous = c.previous.Program()
		}
		return binder.BindProgram(c.isScript, previous, c.GlobalScope())
	})
}

// Diagnostics returns the diagnostics of parsing, binding and lowering.
func (c *Compilation) Diagnostics() errors.Diagnostics {
	return c.Program().Diagnostics
}

// Symbols returns the functions and global variables visible to this
// submission, newest submission first. Names shadowed by a newer
// declaration are skipped. Built-in functions come last.
func (c *Compilation) Symbols() []symbols.Symbol {
	seen := map[string]bool{}
	var out []symbols.Symbol
	add := func(s symbols.Symbol) {
		if !seen[s.Name()] {
			seen[s.Name()] = true
			out = append(out, s)
		}
	}
	for sub := c; sub != nil; sub = sub.previous {
		scope := sub.GlobalScope()
		for _, f := range scope.Functions {
			add(f)
		}
		for _, v := range scope.Variables {
			add(v)
		}
	}
	for _, f := range symbols.Builtins() {
		add(f)
	}
	return out
}

// EvaluationResult holds the diagnostics of a compilation and, when it had
// no errors and ran to completion, the value it produced.
type EvaluationResult struct {
	Diagnostics errors.Diagnostics
	Value       any
}

// Evaluate runs the compilation with the given global store. Errors in the
// diagnostics prevent evaluation; warnings do not. The returned error is
// only set when evaluation failed at run time.
func (c *Compilation) Evaluate(ctx context.Context, globals evaluator.Variables, opts ...Option) (*EvaluationResult, error) {
	o := collectOptions(opts...)

	start := time.Now()
	program := c.Program()
	o.logger.Debug().
		Bool("script", c.isScript).
		Int("diagnostics", len(program.Diagnostics)).
		Dur("elapsed", time.Since(start)).
		Msg("compiled")

	result := &EvaluationResult{Diagnostics: program.Diagnostics}
	if program.Diagnostics.HasErrors() {
		return result, nil
	}
	value, err := evaluator.New(program, globals, o.evaluatorOpts()...).Evaluate(ctx)
	if err != nil {
		return result, err
	}
	result.Value = value
	return result, nil
}

// EmitTree writes the lowered body of the entry point to w.
func (c *Compilation) EmitTree(w io.Writer) error {
	program := c.Program()
	switch {
	case program.MainFunction != nil:
		return c.EmitFunction(program.MainFunction, w)
	case program.ScriptFunction != nil:
		return c.EmitFunction(program.ScriptFunction, w)
	}
	return nil
}

// EmitFunction writes the signature and lowered body of fn to w.
func (c *Compilation) EmitFunction(fn *symbols.FunctionSymbol, w io.Writer) error {
	body, ok := c.Program().Body(fn)
	if !ok {
		return fmt.Errorf("function %q has no body", fn.Name())
	}
	if _, err := fmt.Fprintln(w, fn); err != nil {
		return err
	}
	return bound.Print(w, body)
}

// LookupFunction finds a function visible to this submission by name,
// including synthesized entry points.
func (c *Compilation) LookupFunction(name string) (*symbols.FunctionSymbol, bool) {
	program := c.Program()
	for _, fn := range []*symbols.FunctionSymbol{program.MainFunction, program.ScriptFunction} {
		if fn != nil && fn.Name() == name {
			return fn, true
		}
	}
	for _, s := range c.Symbols() {
		if fn, ok := s.(*symbols.FunctionSymbol); ok && fn.Name() == name && !symbols.IsBuiltin(fn) {
			return fn, true
		}
	}
	return nil, false
}
