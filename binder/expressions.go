package binder

import (
	"fmt"

	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/bound"
	"github.com/risor-io/quill/symbols"
	"github.com/risor-io/quill/text"
	"github.com/risor-io/quill/token"
)

// bindExpression binds e. Unless canBeVoid is set, an expression without a
// value is reported and replaced by an error expression.
func (b *Binder) bindExpression(e ast.Expr, canBeVoid bool) bound.Expr {
	result := b.bindExpressionInternal(e)
	if !canBeVoid && result.Type() == symbols.TypeVoid {
		b.diags.ReportExpressionMustHaveValue(b.location(e))
		return bound.NewErrorExpression(e)
	}
	return result
}

func (b *Binder) bindExpressionInternal(e ast.Expr) bound.Expr {
	switch e := e.(type) {
	case *ast.ParenthesizedExpression:
		return b.bindExpression(e.Expression, false)
	case *ast.LiteralExpression:
		value := e.Value
		if value == nil {
			value = int32(0)
		}
		return bound.NewLiteralExpression(e, value)
	case *ast.NameExpression:
		return b.bindNameExpression(e)
	case *ast.AssignmentExpression:
		return b.bindAssignmentExpression(e)
	case *ast.UnaryExpression:
		return b.bindUnaryExpression(e)
	case *ast.BinaryExpression:
		return b.bindBinaryExpression(e)
	case *ast.CallExpression:
		return b.bindCallExpression(e)
	}
	panic(fmt.Sprintf("binder: unexpected expression %T", e))
}

func (b *Binder) bindNameExpression(e *ast.NameExpression) bound.Expr {
	// The parser already reported the missing identifier.
	if e.Identifier.IsMissing() {
		return bound.NewErrorExpression(e)
	}
	variable := b.bindVariableReference(e.Identifier)
	if variable == nil {
		return bound.NewErrorExpression(e)
	}
	return bound.NewVariableExpression(e, variable)
}

func (b *Binder) bindVariableReference(identifier *ast.Token) symbols.VariableSymbol {
	name := identifier.Text()
	sym, ok := b.scope.Lookup(name)
	if !ok {
		b.diags.ReportUndefinedVariable(b.location(identifier), name, b.scope.visibleNames(isVariable))
		return nil
	}
	variable, ok := sym.(symbols.VariableSymbol)
	if !ok {
		b.diags.ReportNotAVariable(b.location(identifier), name)
		return nil
	}
	return variable
}

func isVariable(sym symbols.Symbol) bool {
	_, ok := sym.(symbols.VariableSymbol)
	return ok
}

func isFunction(sym symbols.Symbol) bool {
	_, ok := sym.(*symbols.FunctionSymbol)
	return ok
}

func (b *Binder) bindAssignmentExpression(e *ast.AssignmentExpression) bound.Expr {
	name := e.Identifier.Text()
	expression := b.bindExpression(e.Expression, false)
	variable := b.bindVariableReference(e.Identifier)
	if variable == nil {
		return bound.NewErrorExpression(e)
	}
	if variable.IsReadOnly() {
		b.diags.ReportCannotAssign(b.location(e.Operator), name)
	}

	kind, compound := token.BinaryOperatorOfAssignment(e.Operator.Kind())
	if !compound {
		converted := b.bindConversion(e.Expression, expression, variable.Type(), false)
		return bound.NewAssignmentExpression(e, variable, converted)
	}

	if variable.Type() == symbols.TypeError || expression.Type() == symbols.TypeError {
		return bound.NewErrorExpression(e)
	}
	op := bound.BindBinaryOperator(kind, variable.Type(), expression.Type())
	if op == nil {
		b.diags.ReportUndefinedBinaryOperator(b.location(e.Operator), e.Operator.Text(), variable.Type(), expression.Type())
		return bound.NewErrorExpression(e)
	}
	converted := b.bindConversion(e.Expression, expression, variable.Type(), false)
	return bound.NewCompoundAssignmentExpression(e, variable, op, converted)
}

func (b *Binder) bindUnaryExpression(e *ast.UnaryExpression) bound.Expr {
	operand := b.bindExpression(e.Operand, false)
	if operand.Type() == symbols.TypeError {
		return bound.NewErrorExpression(e)
	}
	op := bound.BindUnaryOperator(e.Operator.Kind(), operand.Type())
	if op == nil {
		b.diags.ReportUndefinedUnaryOperator(b.location(e.Operator), e.Operator.Text(), operand.Type())
		return bound.NewErrorExpression(e)
	}
	return bound.NewUnaryExpression(e, op, operand)
}

func (b *Binder) bindBinaryExpression(e *ast.BinaryExpression) bound.Expr {
	left := b.bindExpression(e.Left, false)
	right := b.bindExpression(e.Right, false)
	if left.Type() == symbols.TypeError || right.Type() == symbols.TypeError {
		return bound.NewErrorExpression(e)
	}
	op := bound.BindBinaryOperator(e.Operator.Kind(), left.Type(), right.Type())
	if op == nil {
		b.diags.ReportUndefinedBinaryOperator(b.location(e.Operator), e.Operator.Text(), left.Type(), right.Type())
		return bound.NewErrorExpression(e)
	}
	return bound.NewBinaryExpression(e, left, op, right)
}

func (b *Binder) bindCallExpression(e *ast.CallExpression) bound.Expr {
	name := e.Identifier.Text()
	if e.Arguments.Len() == 1 {
		if typ, ok := symbols.LookupType(name); ok {
			arg := e.Arguments.At(0)
			return b.bindConversion(arg, b.bindExpression(arg, false), typ, true)
		}
	}

	args := make([]bound.Expr, 0, e.Arguments.Len())
	for _, arg := range e.Arguments.Items() {
		args = append(args, b.bindExpression(arg, false))
	}

	sym, ok := b.scope.Lookup(name)
	if !ok {
		b.diags.ReportUndefinedFunction(b.location(e.Identifier), name, b.scope.visibleNames(isFunction))
		return bound.NewErrorExpression(e)
	}
	fn, ok := sym.(*symbols.FunctionSymbol)
	if !ok {
		b.diags.ReportNotAFunction(b.location(e.Identifier), name)
		return bound.NewErrorExpression(e)
	}

	params := fn.Parameters()
	if len(args) != len(params) {
		var span text.Span
		if len(args) > len(params) {
			var first ast.Node
			if len(params) > 0 {
				first = e.Arguments.Separator(len(params) - 1)
			} else {
				first = e.Arguments.At(0)
			}
			last := e.Arguments.At(len(args) - 1)
			span = text.SpanFromBounds(first.Span().Start, last.Span().End())
		} else {
			span = e.CloseParen.Span()
		}
		b.diags.ReportWrongArgumentCount(b.tree.Location(span), fn.Name(), len(params), len(args))
		return bound.NewErrorExpression(e)
	}

	converted := make([]bound.Expr, len(args))
	for i, arg := range args {
		converted[i] = b.bindConversion(e.Arguments.At(i), arg, params[i].Type(), false)
	}
	return bound.NewCallExpression(e, fn, converted)
}

// bindConversion converts expression to typ, reporting at the location of
// syntax when no conversion exists or when an explicit one is required but
// not allowed.
func (b *Binder) bindConversion(syntax ast.Node, expression bound.Expr, typ *symbols.TypeSymbol, allowExplicit bool) bound.Expr {
	conversion := bound.ClassifyConversion(expression.Type(), typ)
	if !conversion.Exists {
		if expression.Type() != symbols.TypeError && typ != symbols.TypeError {
			b.diags.ReportCannotConvert(b.location(syntax), expression.Type(), typ)
		}
		return bound.NewErrorExpression(syntax)
	}
	if !allowExplicit && conversion.IsExplicit() {
		b.diags.ReportCannotConvertImplicitly(b.location(syntax), expression.Type(), typ)
	}
	if conversion.IsIdentity {
		return expression
	}
	return bound.NewConversionExpression(syntax, typ, expression)
}
