// Package binder resolves names and types in syntax trees and produces the
// bound tree.
//
// Binding happens in two passes. BindGlobalScope declares every function of
// a submission and binds its global statements. BindProgram then binds and
// lowers each function body. Neither pass stops at the first problem: a
// subexpression that fails to bind becomes a bound.ErrorExpression and
// binding continues with its siblings.
package binder

import (
	"fmt"

	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/bound"
	"github.com/risor-io/quill/cfg"
	"github.com/risor-io/quill/errors"
	"github.com/risor-io/quill/lowerer"
	"github.com/risor-io/quill/symbols"
	"github.com/risor-io/quill/text"
)

// Names of the synthesized entry points.
const (
	MainName   = "main"
	ScriptName = "$eval"
)

type loopLabels struct {
	breakLabel    *bound.Label
	continueLabel *bound.Label
}

// Binder binds the statements of one function, or the global statements of
// one submission when function is nil.
type Binder struct {
	diags    errors.Bag
	isScript bool
	function *symbols.FunctionSymbol
	scope    *Scope
	tree     *ast.Tree

	loops        []loopLabels
	labelCounter int
}

func newBinder(isScript bool, parent *Scope, function *symbols.FunctionSymbol) *Binder {
	b := &Binder{
		isScript: isScript,
		function: function,
		scope:    NewScope(parent),
	}
	if function != nil {
		b.tree = function.Tree()
		for _, p := range function.Parameters() {
			b.scope.TryDeclareVariable(p)
		}
	}
	return b
}

// BindGlobalScope declares the functions of trees and binds their global
// statements on top of the declarations of previous. In script mode global
// statements run in a synthesized "$eval" function; otherwise they become
// the body of a synthesized main.
func BindGlobalScope(isScript bool, previous *bound.GlobalScope, trees []*ast.Tree) *bound.GlobalScope {
	b := newBinder(isScript, parentScope(previous), nil)

	for _, tree := range trees {
		b.diags.Add(tree.Diagnostics()...)
	}

	for _, tree := range trees {
		b.tree = tree
		for _, member := range tree.Root().Members {
			if fd, ok := member.(*ast.FunctionDeclaration); ok {
				b.bindFunctionDeclaration(fd)
			}
		}
	}

	var statements []bound.Stmt
	type firstGlobal struct {
		tree *ast.Tree
		node *ast.GlobalStatement
	}
	var firsts []firstGlobal
	for _, tree := range trees {
		b.tree = tree
		for _, member := range tree.Root().Members {
			gs, ok := member.(*ast.GlobalStatement)
			if !ok {
				continue
			}
			if len(firsts) == 0 || firsts[len(firsts)-1].tree != tree {
				firsts = append(firsts, firstGlobal{tree, gs})
			}
			statements = append(statements, b.bindStatement(gs.Statement, true))
		}
	}

	if len(firsts) > 1 {
		for _, f := range firsts {
			b.diags.ReportOnlyOneFileCanHaveGlobalStatements(f.tree.Location(f.node.Span()))
		}
	}

	functions := b.scope.Functions()
	var mainFunction, scriptFunction *symbols.FunctionSymbol
	if isScript {
		if len(statements) > 0 {
			scriptFunction = symbols.NewFunction(ScriptName, nil, symbols.TypeAny, nil, nil)
		}
	} else {
		for _, f := range functions {
			if f.Name() == MainName {
				mainFunction = f
				break
			}
		}
		if mainFunction != nil {
			if mainFunction.Type() != symbols.TypeVoid || len(mainFunction.Parameters()) > 0 {
				b.diags.ReportMainMustHaveCorrectSignature(identifierLocation(mainFunction))
			}
		}
		if len(statements) > 0 {
			if mainFunction != nil {
				b.diags.ReportCannotMixMainAndGlobalStatements(identifierLocation(mainFunction))
				for _, f := range firsts {
					b.diags.ReportCannotMixMainAndGlobalStatements(f.tree.Location(f.node.Span()))
				}
			} else {
				mainFunction = symbols.NewFunction(MainName, nil, symbols.TypeVoid, nil, nil)
			}
		}
	}

	return &bound.GlobalScope{
		Previous:       previous,
		Diagnostics:    b.diags.All(),
		MainFunction:   mainFunction,
		ScriptFunction: scriptFunction,
		Functions:      functions,
		Variables:      b.scope.Variables(),
		Statements:     statements,
	}
}

// BindProgram binds and lowers every function body of globalScope. When
// the global scope has errors no bodies are bound and the program carries
// only those diagnostics.
func BindProgram(isScript bool, previous *bound.Program, globalScope *bound.GlobalScope) *bound.Program {
	if globalScope.Diagnostics.HasErrors() {
		return &bound.Program{
			Previous:    previous,
			Diagnostics: globalScope.Diagnostics,
			Functions:   map[*symbols.FunctionSymbol]*bound.BlockStatement{},
		}
	}

	parent := parentScope(globalScope)
	var diags errors.Bag
	diags.Add(globalScope.Diagnostics...)
	bodies := map[*symbols.FunctionSymbol]*bound.BlockStatement{}

	for _, fn := range globalScope.Functions {
		b := newBinder(isScript, parent, fn)
		body := b.bindStatement(fn.Declaration().Body, false)
		lowered := lowerer.Lower(fn, body)
		if fn.Type() != symbols.TypeVoid && !cfg.AllPathsReturn(lowered) {
			b.diags.ReportAllPathsMustReturn(identifierLocation(fn))
		}
		bodies[fn] = lowered
		diags.Add(b.diags.All()...)
	}

	if main := globalScope.MainFunction; main != nil && main.Declaration() == nil {
		body := bound.NewBlockStatement(nil, globalScope.Statements...)
		bodies[main] = lowerer.Lower(main, body)
	} else if script := globalScope.ScriptFunction; script != nil {
		body := bound.NewBlockStatement(nil, scriptStatements(globalScope.Statements)...)
		bodies[script] = lowerer.Lower(script, body)
	}

	return &bound.Program{
		Previous:       previous,
		Diagnostics:    diags.All(),
		MainFunction:   globalScope.MainFunction,
		ScriptFunction: globalScope.ScriptFunction,
		Functions:      bodies,
	}
}

// scriptStatements makes the last statement of a script produce its
// result. A trailing expression with a value is returned; otherwise an
// empty string is returned unless the script already ends in a return.
func scriptStatements(statements []bound.Stmt) []bound.Stmt {
	n := len(statements)
	if n == 0 {
		return statements
	}
	out := make([]bound.Stmt, n, n+1)
	copy(out, statements)
	last := statements[n-1]
	if es, ok := last.(*bound.ExpressionStatement); ok && es.Expression.Type() != symbols.TypeVoid {
		out[n-1] = bound.NewReturnStatement(es.Syntax(), es.Expression)
		return out
	}
	if _, ok := last.(*bound.ReturnStatement); !ok {
		out = append(out, bound.NewReturnStatement(last.Syntax(), bound.NewLiteralExpression(last.Syntax(), "")))
	}
	return out
}

func identifierLocation(fn *symbols.FunctionSymbol) text.Location {
	return fn.Tree().Location(fn.Declaration().Identifier.Span())
}

func (b *Binder) location(n ast.Node) text.Location {
	return b.tree.Location(n.Span())
}

func (b *Binder) bindFunctionDeclaration(fd *ast.FunctionDeclaration) {
	var params []*symbols.ParameterSymbol
	seen := map[string]bool{}
	for _, p := range fd.Parameters.Items() {
		name := p.Identifier.Text()
		typ := b.bindTypeClause(p.Type)
		if seen[name] {
			b.diags.ReportParameterAlreadyDeclared(b.location(p), name)
			continue
		}
		seen[name] = true
		params = append(params, symbols.NewParameter(name, typ, len(params)))
	}

	typ := symbols.TypeVoid
	if fd.Type != nil {
		typ = b.bindTypeClause(fd.Type)
	}

	fn := symbols.NewFunction(fd.Identifier.Text(), params, typ, fd, b.tree)
	if !fd.Identifier.IsMissing() && !b.scope.TryDeclareFunction(fn) {
		b.diags.ReportSymbolAlreadyDeclared(b.location(fd.Identifier), fn.Name())
	}
}

func (b *Binder) bindTypeClause(tc *ast.TypeClause) *symbols.TypeSymbol {
	name := tc.Identifier.Text()
	if typ, ok := symbols.LookupType(name); ok {
		return typ
	}
	if !tc.Identifier.IsMissing() {
		b.diags.ReportUndefinedType(b.location(tc.Identifier), name)
	}
	return symbols.TypeError
}

func (b *Binder) pushScope() {
	b.scope = NewScope(b.scope)
}

func (b *Binder) popScope() {
	b.scope = b.scope.Parent()
}

func (b *Binder) bindLoopBody(body ast.Stmt) (bound.Stmt, *bound.Label, *bound.Label) {
	b.labelCounter++
	labels := loopLabels{
		breakLabel:    &bound.Label{Name: fmt.Sprintf("break%d", b.labelCounter)},
		continueLabel: &bound.Label{Name: fmt.Sprintf("continue%d", b.labelCounter)},
	}
	b.loops = append(b.loops, labels)
	stmt := b.bindStatement(body, false)
	b.loops = b.loops[:len(b.loops)-1]
	return stmt, labels.breakLabel, labels.continueLabel
}

// reportUnreachable warns about the first token a reader would see in the
// statement that can never run.
func (b *Binder) reportUnreachable(n ast.Node) {
	switch n := n.(type) {
	case *ast.BlockStatement:
		if len(n.Statements) > 0 {
			b.reportUnreachable(n.Statements[0])
		}
	case *ast.VariableDeclaration:
		b.diags.ReportUnreachableCode(b.location(n.Keyword))
	case *ast.IfStatement:
		b.diags.ReportUnreachableCode(b.location(n.IfKeyword))
	case *ast.WhileStatement:
		b.diags.ReportUnreachableCode(b.location(n.WhileKeyword))
	case *ast.DoWhileStatement:
		b.diags.ReportUnreachableCode(b.location(n.DoKeyword))
	case *ast.ForStatement:
		b.diags.ReportUnreachableCode(b.location(n.ForKeyword))
	case *ast.BreakStatement:
		b.diags.ReportUnreachableCode(b.location(n.Keyword))
	case *ast.ContinueStatement:
		b.diags.ReportUnreachableCode(b.location(n.Keyword))
	case *ast.ReturnStatement:
		b.diags.ReportUnreachableCode(b.location(n.ReturnKeyword))
	case *ast.ExpressionStatement:
		b.reportUnreachable(n.Expression)
	case *ast.CallExpression:
		b.diags.ReportUnreachableCode(b.location(n.Identifier))
	default:
		b.diags.ReportUnreachableCode(b.location(n))
	}
}
