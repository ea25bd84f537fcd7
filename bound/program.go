package bound

import (
	"github.com/risor-io/quill/errors"
	"github.com/risor-io/quill/symbols"
)

// GlobalScope is the result of binding the declarations and global
// statements of one submission.
type GlobalScope struct {
	Previous    *GlobalScope
	Diagnostics errors.Diagnostics

	// MainFunction is the program entry point. It is nil in script mode.
	MainFunction *symbols.FunctionSymbol
	// ScriptFunction is the synthesized "$eval" function that runs the
	// global statements of a script submission.
	ScriptFunction *symbols.FunctionSymbol

	// Functions and Variables are in declaration order.
	Functions  []*symbols.FunctionSymbol
	Variables  []symbols.VariableSymbol
	Statements []Stmt
}

// Program is a fully bound and lowered submission.
type Program struct {
	Previous       *Program
	Diagnostics    errors.Diagnostics
	MainFunction   *symbols.FunctionSymbol
	ScriptFunction *symbols.FunctionSymbol
	// Functions maps every function declared by this submission, plus the
	// synthesized entry point, to its lowered body.
	Functions map[*symbols.FunctionSymbol]*BlockStatement
}

// Body returns the lowered body of fn, searching previous submissions.
func (p *Program) Body(fn *symbols.FunctionSymbol) (*BlockStatement, bool) {
	for current := p; current != nil; current = current.Previous {
		if body, ok := current.Functions[fn]; ok {
			return body, true
		}
	}
	return nil, false
}
