// Package lowerer rewrites bound function bodies into a flat list of
// primitive statements: labels, gotos, conditional gotos, returns,
// variable declarations and expression statements.
package lowerer

import (
	"fmt"

	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/bound"
	"github.com/risor-io/quill/cfg"
	"github.com/risor-io/quill/symbols"
	"github.com/risor-io/quill/token"
)

// Lower desugars s, flattens it into a single block and removes the
// statements that can never run.
func Lower(fn *symbols.FunctionSymbol, s bound.Stmt) *bound.BlockStatement {
	l := &lowerer{}
	return RemoveDeadCode(Flatten(fn, l.rewriteStatement(s)))
}

type lowerer struct {
	labelCount int
}

func (l *lowerer) generateLabel() *bound.Label {
	l.labelCount++
	return &bound.Label{Name: fmt.Sprintf("Label%d", l.labelCount)}
}

func (l *lowerer) rewriteStatement(s bound.Stmt) bound.Stmt {
	switch s := s.(type) {
	case *bound.BlockStatement:
		return l.rewriteBlock(s)
	case *bound.VariableDeclaration:
		initializer := l.rewriteExpression(s.Initializer)
		if initializer == s.Initializer {
			return s
		}
		return bound.NewVariableDeclaration(s.Syntax(), s.Variable, initializer)
	case *bound.IfStatement:
		return l.rewriteIf(s)
	case *bound.WhileStatement:
		return l.rewriteWhile(s)
	case *bound.DoWhileStatement:
		return l.rewriteDoWhile(s)
	case *bound.ForStatement:
		return l.rewriteFor(s)
	case *bound.LabelStatement, *bound.GotoStatement:
		return s
	case *bound.ConditionalGotoStatement:
		return l.rewriteConditionalGoto(s)
	case *bound.ReturnStatement:
		if s.Expression == nil {
			return s
		}
		expression := l.rewriteExpression(s.Expression)
		if expression == s.Expression {
			return s
		}
		return bound.NewReturnStatement(s.Syntax(), expression)
	case *bound.ExpressionStatement:
		expression := l.rewriteExpression(s.Expression)
		if expression == s.Expression {
			return s
		}
		return bound.NewExpressionStatement(s.Syntax(), expression)
	}
	panic(fmt.Sprintf("lowerer: unexpected statement %T", s))
}

func (l *lowerer) rewriteBlock(s *bound.BlockStatement) bound.Stmt {
	var statements []bound.Stmt
	for i, st := range s.Statements {
		rewritten := l.rewriteStatement(st)
		if rewritten != st && statements == nil {
			statements = make([]bound.Stmt, i, len(s.Statements))
			copy(statements, s.Statements[:i])
		}
		if statements != nil {
			statements = append(statements, rewritten)
		}
	}
	if statements == nil {
		return s
	}
	return bound.NewBlockStatement(s.Syntax(), statements...)
}

// rewriteIf lowers
//
//	if <condition>
//	    <then>
//
// to
//
//	gotoFalse <condition> end
//	<then>
//	end:
//
// and with an else clause
//
//	gotoFalse <condition> else
//	<then>
//	goto end
//	else:
//	<else>
//	end:
func (l *lowerer) rewriteIf(s *bound.IfStatement) bound.Stmt {
	syntax := s.Syntax()
	if s.Else == nil {
		end := l.generateLabel()
		return l.rewriteStatement(bound.NewBlockStatement(syntax,
			gotoFalse(syntax, end, s.Condition),
			s.Then,
			bound.NewLabelStatement(syntax, end),
		))
	}
	els := l.generateLabel()
	end := l.generateLabel()
	return l.rewriteStatement(bound.NewBlockStatement(syntax,
		gotoFalse(syntax, els, s.Condition),
		s.Then,
		bound.NewGotoStatement(syntax, end),
		bound.NewLabelStatement(syntax, els),
		s.Else,
		bound.NewLabelStatement(syntax, end),
	))
}

// rewriteWhile lowers
//
//	while <condition>
//	    <body>
//
// to
//
//	goto continue
//	body:
//	<body>
//	continue:
//	gotoTrue <condition> body
//	break:
func (l *lowerer) rewriteWhile(s *bound.WhileStatement) bound.Stmt {
	syntax := s.Syntax()
	body := l.generateLabel()
	return l.rewriteStatement(bound.NewBlockStatement(syntax,
		bound.NewGotoStatement(syntax, s.ContinueLabel),
		bound.NewLabelStatement(syntax, body),
		s.Body,
		bound.NewLabelStatement(syntax, s.ContinueLabel),
		gotoTrue(syntax, body, s.Condition),
		bound.NewLabelStatement(syntax, s.BreakLabel),
	))
}

// rewriteDoWhile lowers
//
//	do
//	    <body>
//	while <condition>
//
// to
//
//	body:
//	<body>
//	continue:
//	gotoTrue <condition> body
//	break:
func (l *lowerer) rewriteDoWhile(s *bound.DoWhileStatement) bound.Stmt {
	syntax := s.Syntax()
	body := l.generateLabel()
	return l.rewriteStatement(bound.NewBlockStatement(syntax,
		bound.NewLabelStatement(syntax, body),
		s.Body,
		bound.NewLabelStatement(syntax, s.ContinueLabel),
		gotoTrue(syntax, body, s.Condition),
		bound.NewLabelStatement(syntax, s.BreakLabel),
	))
}

// rewriteFor lowers
//
//	for <var> = <lower> to <upper>
//	    <body>
//
// to
//
//	{
//	    var <var> = <lower>
//	    let upperBound = <upper>
//	    while (<var> <= upperBound)
//	    {
//	        <body>
//	        continue:
//	        <var> = <var> + 1
//	    }
//	}
func (l *lowerer) rewriteFor(s *bound.ForStatement) bound.Stmt {
	syntax := s.Syntax()
	upperBound := symbols.NewLocalVariable("upperBound", true, symbols.TypeInt, s.Upper.ConstantValue())
	variable := bound.NewVariableExpression(syntax, s.Variable)
	upper := bound.NewVariableExpression(syntax, upperBound)

	lessOrEquals := bound.BindBinaryOperator(token.LessOrEqualsToken, symbols.TypeInt, symbols.TypeInt)
	plus := bound.BindBinaryOperator(token.PlusToken, symbols.TypeInt, symbols.TypeInt)
	increment := bound.NewExpressionStatement(syntax, bound.NewAssignmentExpression(syntax, s.Variable,
		bound.NewBinaryExpression(syntax, variable, plus, bound.NewLiteralExpression(syntax, int32(1)))))

	loop := bound.NewWhileStatement(syntax,
		bound.NewBinaryExpression(syntax, variable, lessOrEquals, upper),
		bound.NewBlockStatement(syntax,
			s.Body,
			bound.NewLabelStatement(syntax, s.ContinueLabel),
			increment,
		),
		s.BreakLabel,
		l.generateLabel(),
	)
	return l.rewriteStatement(bound.NewBlockStatement(syntax,
		bound.NewVariableDeclaration(syntax, s.Variable, s.Lower),
		bound.NewVariableDeclaration(syntax, upperBound, s.Upper),
		loop,
	))
}

// rewriteConditionalGoto turns a jump on a constant condition into an
// unconditional goto or, when it never jumps, an empty block.
func (l *lowerer) rewriteConditionalGoto(s *bound.ConditionalGotoStatement) bound.Stmt {
	if c := s.Condition.ConstantValue(); c != nil {
		if c.Bool() == s.JumpIfTrue {
			return l.rewriteStatement(bound.NewGotoStatement(s.Syntax(), s.Label))
		}
		return l.rewriteStatement(bound.NewBlockStatement(s.Syntax()))
	}
	condition := l.rewriteExpression(s.Condition)
	if condition == s.Condition {
		return s
	}
	return bound.NewConditionalGotoStatement(s.Syntax(), s.Label, condition, s.JumpIfTrue)
}

func (l *lowerer) rewriteExpression(e bound.Expr) bound.Expr {
	switch e := e.(type) {
	case *bound.ErrorExpression, *bound.LiteralExpression, *bound.VariableExpression:
		return e
	case *bound.AssignmentExpression:
		expression := l.rewriteExpression(e.Expression)
		if expression == e.Expression {
			return e
		}
		return bound.NewAssignmentExpression(e.Syntax(), e.Variable, expression)
	case *bound.CompoundAssignmentExpression:
		// a <op>= b becomes a = a <op> b
		syntax := e.Syntax()
		return l.rewriteExpression(bound.NewAssignmentExpression(syntax, e.Variable,
			bound.NewBinaryExpression(syntax, bound.NewVariableExpression(syntax, e.Variable), e.Op, e.Expression)))
	case *bound.UnaryExpression:
		operand := l.rewriteExpression(e.Operand)
		if operand == e.Operand {
			return e
		}
		return bound.NewUnaryExpression(e.Syntax(), e.Op, operand)
	case *bound.BinaryExpression:
		left := l.rewriteExpression(e.Left)
		right := l.rewriteExpression(e.Right)
		if left == e.Left && right == e.Right {
			return e
		}
		return bound.NewBinaryExpression(e.Syntax(), left, e.Op, right)
	case *bound.CallExpression:
		var args []bound.Expr
		for i, arg := range e.Arguments {
			rewritten := l.rewriteExpression(arg)
			if rewritten != arg && args == nil {
				args = make([]bound.Expr, i, len(e.Arguments))
				copy(args, e.Arguments[:i])
			}
			if args != nil {
				args = append(args, rewritten)
			}
		}
		if args == nil {
			return e
		}
		return bound.NewCallExpression(e.Syntax(), e.Function, args)
	case *bound.ConversionExpression:
		expression := l.rewriteExpression(e.Expression)
		if expression == e.Expression {
			return e
		}
		return bound.NewConversionExpression(e.Syntax(), e.Type(), expression)
	}
	panic(fmt.Sprintf("lowerer: unexpected expression %T", e))
}

func gotoTrue(syntax ast.Node, label *bound.Label, condition bound.Expr) bound.Stmt {
	return bound.NewConditionalGotoStatement(syntax, label, condition, true)
}

func gotoFalse(syntax ast.Node, label *bound.Label, condition bound.Expr) bound.Stmt {
	return bound.NewConditionalGotoStatement(syntax, label, condition, false)
}

// Flatten inlines nested blocks into a single block, preserving order. The
// body of a void function that can run off its end gets a trailing return.
func Flatten(fn *symbols.FunctionSymbol, s bound.Stmt) *bound.BlockStatement {
	var statements []bound.Stmt
	stack := []bound.Stmt{s}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if block, ok := current.(*bound.BlockStatement); ok {
			for i := len(block.Statements) - 1; i >= 0; i-- {
				stack = append(stack, block.Statements[i])
			}
			continue
		}
		statements = append(statements, current)
	}

	if fn.Type() == symbols.TypeVoid {
		if len(statements) == 0 || canFallThrough(statements[len(statements)-1]) {
			statements = append(statements, bound.NewReturnStatement(s.Syntax(), nil))
		}
	}
	return bound.NewBlockStatement(s.Syntax(), statements...)
}

func canFallThrough(s bound.Stmt) bool {
	switch s.(type) {
	case *bound.ReturnStatement, *bound.GotoStatement:
		return false
	}
	return true
}

// RemoveDeadCode drops the statements of a flat body that are not reachable
// from the start of its control-flow graph.
func RemoveDeadCode(body *bound.BlockStatement) *bound.BlockStatement {
	graph := cfg.Create(body)
	reachable := map[bound.Stmt]bool{}
	for _, block := range graph.Blocks {
		for _, s := range block.Statements {
			reachable[s] = true
		}
	}
	statements := make([]bound.Stmt, 0, len(body.Statements))
	for _, s := range body.Statements {
		if reachable[s] {
			statements = append(statements, s)
		}
	}
	if len(statements) == len(body.Statements) {
		return body
	}
	return bound.NewBlockStatement(body.Syntax(), statements...)
}
