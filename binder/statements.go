package binder

import (
	"fmt"

	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/bound"
	"github.com/risor-io/quill/symbols"
	"github.com/risor-io/quill/token"
)

// bindStatement binds s. Outside of script global statements only
// assignments and calls may be used as expression statements.
func (b *Binder) bindStatement(s ast.Stmt, global bool) bound.Stmt {
	result := b.bindStatementInternal(s)
	if !b.isScript || !global {
		if es, ok := result.(*bound.ExpressionStatement); ok {
			switch es.Expression.Kind() {
			case bound.KindErrorExpression,
				bound.KindAssignmentExpression,
				bound.KindCompoundAssignmentExpression,
				bound.KindCallExpression:
			default:
				b.diags.ReportInvalidExpressionStatement(b.location(s))
			}
		}
	}
	return result
}

func (b *Binder) bindStatementInternal(s ast.Stmt) bound.Stmt {
	switch s := s.(type) {
	case *ast.BlockStatement:
		return b.bindBlockStatement(s)
	case *ast.VariableDeclaration:
		return b.bindVariableDeclaration(s)
	case *ast.IfStatement:
		return b.bindIfStatement(s)
	case *ast.WhileStatement:
		return b.bindWhileStatement(s)
	case *ast.DoWhileStatement:
		return b.bindDoWhileStatement(s)
	case *ast.ForStatement:
		return b.bindForStatement(s)
	case *ast.BreakStatement:
		return b.bindBreakStatement(s)
	case *ast.ContinueStatement:
		return b.bindContinueStatement(s)
	case *ast.ReturnStatement:
		return b.bindReturnStatement(s)
	case *ast.ExpressionStatement:
		return bound.NewExpressionStatement(s, b.bindExpression(s.Expression, true))
	}
	panic(fmt.Sprintf("binder: unexpected statement %T", s))
}

func (b *Binder) errorStatement(s ast.Node) bound.Stmt {
	return bound.NewExpressionStatement(s, bound.NewErrorExpression(s))
}

func (b *Binder) bindBlockStatement(s *ast.BlockStatement) bound.Stmt {
	b.pushScope()
	defer b.popScope()
	statements := make([]bound.Stmt, 0, len(s.Statements))
	for _, st := range s.Statements {
		statements = append(statements, b.bindStatement(st, false))
	}
	return bound.NewBlockStatement(s, statements...)
}

func (b *Binder) bindVariableDeclaration(s *ast.VariableDeclaration) bound.Stmt {
	readOnly := s.Keyword.Kind() == token.LetKeyword
	var declared *symbols.TypeSymbol
	if s.TypeClause != nil {
		declared = b.bindTypeClause(s.TypeClause)
	}
	initializer := b.bindExpression(s.Initializer, false)
	typ := declared
	if typ == nil {
		typ = initializer.Type()
	}
	// A constant only carries over when no conversion sits between the
	// initializer and the variable.
	constant := initializer.ConstantValue()
	if initializer.Type() != typ {
		constant = nil
	}
	variable := b.declareVariable(s.Identifier, readOnly, typ, constant)
	converted := b.bindConversion(s.Initializer, initializer, typ, false)
	return bound.NewVariableDeclaration(s, variable, converted)
}

// declareVariable creates a global or local variable depending on whether
// the binder is inside a function. Missing identifiers are not declared.
func (b *Binder) declareVariable(identifier *ast.Token, readOnly bool, typ *symbols.TypeSymbol, constant *symbols.Constant) symbols.VariableSymbol {
	name := identifier.Text()
	if identifier.IsMissing() {
		name = "?"
	}
	var variable symbols.VariableSymbol
	if b.function == nil {
		variable = symbols.NewGlobalVariable(name, readOnly, typ, constant)
	} else {
		variable = symbols.NewLocalVariable(name, readOnly, typ, constant)
	}
	if !identifier.IsMissing() && !b.scope.TryDeclareVariable(variable) {
		b.diags.ReportSymbolAlreadyDeclared(b.location(identifier), name)
	}
	return variable
}

func (b *Binder) bindCondition(e ast.Expr) bound.Expr {
	return b.bindConversion(e, b.bindExpression(e, false), symbols.TypeBool, false)
}

func (b *Binder) bindIfStatement(s *ast.IfStatement) bound.Stmt {
	condition := b.bindCondition(s.Condition)
	if c := condition.ConstantValue(); c != nil {
		if !c.Bool() {
			b.reportUnreachable(s.Then)
		} else if s.Else != nil {
			b.reportUnreachable(s.Else.Statement)
		}
	}
	then := b.bindStatement(s.Then, false)
	var els bound.Stmt
	if s.Else != nil {
		els = b.bindStatement(s.Else.Statement, false)
	}
	return bound.NewIfStatement(s, condition, then, els)
}

func (b *Binder) bindWhileStatement(s *ast.WhileStatement) bound.Stmt {
	condition := b.bindCondition(s.Condition)
	if c := condition.ConstantValue(); c != nil && !c.Bool() {
		b.reportUnreachable(s.Body)
	}
	body, breakLabel, continueLabel := b.bindLoopBody(s.Body)
	return bound.NewWhileStatement(s, condition, body, breakLabel, continueLabel)
}

func (b *Binder) bindDoWhileStatement(s *ast.DoWhileStatement) bound.Stmt {
	body, breakLabel, continueLabel := b.bindLoopBody(s.Body)
	condition := b.bindCondition(s.Condition)
	return bound.NewDoWhileStatement(s, body, condition, breakLabel, continueLabel)
}

func (b *Binder) bindForStatement(s *ast.ForStatement) bound.Stmt {
	lower := b.bindConversion(s.Lower, b.bindExpression(s.Lower, false), symbols.TypeInt, false)
	upper := b.bindConversion(s.Upper, b.bindExpression(s.Upper, false), symbols.TypeInt, false)

	b.pushScope()
	defer b.popScope()
	variable := b.declareVariable(s.Identifier, true, symbols.TypeInt, nil)
	body, breakLabel, continueLabel := b.bindLoopBody(s.Body)
	return bound.NewForStatement(s, variable, lower, upper, body, breakLabel, continueLabel)
}

func (b *Binder) bindBreakStatement(s *ast.BreakStatement) bound.Stmt {
	if len(b.loops) == 0 {
		b.diags.ReportInvalidBreakOrContinue(b.location(s.Keyword), s.Keyword.Text())
		return b.errorStatement(s)
	}
	return bound.NewGotoStatement(s, b.loops[len(b.loops)-1].breakLabel)
}

func (b *Binder) bindContinueStatement(s *ast.ContinueStatement) bound.Stmt {
	if len(b.loops) == 0 {
		b.diags.ReportInvalidBreakOrContinue(b.location(s.Keyword), s.Keyword.Text())
		return b.errorStatement(s)
	}
	return bound.NewGotoStatement(s, b.loops[len(b.loops)-1].continueLabel)
}

func (b *Binder) bindReturnStatement(s *ast.ReturnStatement) bound.Stmt {
	var expression bound.Expr
	if s.Expression != nil {
		expression = b.bindExpression(s.Expression, false)
	}

	switch {
	case b.function == nil && b.isScript:
		// Scripts may return with or without a value.
		if expression == nil {
			expression = bound.NewLiteralExpression(s, "")
		}
	case b.function == nil:
		if expression != nil {
			b.diags.ReportInvalidReturnWithValueInGlobalStatements(b.location(s.Expression))
		}
	case b.function.Type() == symbols.TypeVoid:
		if expression != nil {
			b.diags.ReportInvalidReturnExpression(b.location(s.Expression), b.function.Name())
		}
	default:
		if expression == nil {
			b.diags.ReportMissingReturnExpression(b.location(s.ReturnKeyword), b.function.Type())
		} else {
			expression = b.bindConversion(s.Expression, expression, b.function.Type(), false)
		}
	}
	return bound.NewReturnStatement(s, expression)
}
