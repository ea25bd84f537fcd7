package ast

import (
	"github.com/risor-io/quill/text"
	"github.com/risor-io/quill/token"
)

// CompilationUnit is the root of a syntax tree.
type CompilationUnit struct {
	Members   []Member
	EndOfFile *Token
}

func (x *CompilationUnit) Kind() token.Kind    { return token.CompilationUnit }
func (x *CompilationUnit) Span() text.Span     { return spanOf(x) }
func (x *CompilationUnit) FullSpan() text.Span { return fullSpanOf(x) }
func (x *CompilationUnit) Children() []Node {
	kids := make([]Node, 0, len(x.Members)+1)
	for _, m := range x.Members {
		kids = append(kids, m)
	}
	return append(kids, x.EndOfFile)
}

// FunctionDeclaration declares a named function.
//
//	function name(a: int, b: int): int { ... }
type FunctionDeclaration struct {
	FunctionKeyword *Token
	Identifier      *Token
	OpenParen       *Token
	Parameters      SeparatedList[*Parameter]
	CloseParen      *Token
	Type            *TypeClause // nil when no return type is given
	Body            *BlockStatement
}

func (x *FunctionDeclaration) memberNode()         {}
func (x *FunctionDeclaration) Kind() token.Kind    { return token.FunctionDeclaration }
func (x *FunctionDeclaration) Span() text.Span     { return spanOf(x) }
func (x *FunctionDeclaration) FullSpan() text.Span { return fullSpanOf(x) }
func (x *FunctionDeclaration) Children() []Node {
	kids := []Node{x.FunctionKeyword, x.Identifier, x.OpenParen}
	kids = append(kids, x.Parameters.WithSeparators()...)
	kids = append(kids, x.CloseParen)
	if x.Type != nil {
		kids = append(kids, x.Type)
	}
	return append(kids, x.Body)
}

// GlobalStatement wraps a statement appearing at the top level.
type GlobalStatement struct {
	Statement Stmt
}

func (x *GlobalStatement) memberNode()         {}
func (x *GlobalStatement) Kind() token.Kind    { return token.GlobalStatement }
func (x *GlobalStatement) Span() text.Span     { return spanOf(x) }
func (x *GlobalStatement) FullSpan() text.Span { return fullSpanOf(x) }
func (x *GlobalStatement) Children() []Node    { return []Node{x.Statement} }

// Parameter is one entry of a function's parameter list.
type Parameter struct {
	Identifier *Token
	Type       *TypeClause
}

func (x *Parameter) Kind() token.Kind    { return token.Parameter }
func (x *Parameter) Span() text.Span     { return spanOf(x) }
func (x *Parameter) FullSpan() text.Span { return fullSpanOf(x) }
func (x *Parameter) Children() []Node    { return []Node{x.Identifier, x.Type} }

// TypeClause is a ": type" annotation.
type TypeClause struct {
	Colon      *Token
	Identifier *Token
}

func (x *TypeClause) Kind() token.Kind    { return token.TypeClause }
func (x *TypeClause) Span() text.Span     { return spanOf(x) }
func (x *TypeClause) FullSpan() text.Span { return fullSpanOf(x) }
func (x *TypeClause) Children() []Node    { return []Node{x.Colon, x.Identifier} }

// ElseClause is the "else statement" tail of an if statement.
type ElseClause struct {
	ElseKeyword *Token
	Statement   Stmt
}

func (x *ElseClause) Kind() token.Kind    { return token.ElseClause }
func (x *ElseClause) Span() text.Span     { return spanOf(x) }
func (x *ElseClause) FullSpan() text.Span { return fullSpanOf(x) }
func (x *ElseClause) Children() []Node    { return []Node{x.ElseKeyword, x.Statement} }

// BlockStatement is a braced list of statements.
type BlockStatement struct {
	OpenBrace  *Token
	Statements []Stmt
	CloseBrace *Token
}

func (x *BlockStatement) stmtNode()           {}
func (x *BlockStatement) Kind() token.Kind    { return token.BlockStatement }
func (x *BlockStatement) Span() text.Span     { return spanOf(x) }
func (x *BlockStatement) FullSpan() text.Span { return fullSpanOf(x) }
func (x *BlockStatement) Children() []Node {
	kids := make([]Node, 0, len(x.Statements)+2)
	kids = append(kids, x.OpenBrace)
	for _, s := range x.Statements {
		kids = append(kids, s)
	}
	return append(kids, x.CloseBrace)
}

// VariableDeclaration declares a variable with let (read-only) or var.
type VariableDeclaration struct {
	Keyword     *Token
	Identifier  *Token
	TypeClause  *TypeClause // optional
	Equals      *Token
	Initializer Expr
}

func (x *VariableDeclaration) stmtNode()           {}
func (x *VariableDeclaration) Kind() token.Kind    { return token.VariableDeclaration }
func (x *VariableDeclaration) Span() text.Span     { return spanOf(x) }
func (x *VariableDeclaration) FullSpan() text.Span { return fullSpanOf(x) }
func (x *VariableDeclaration) Children() []Node {
	kids := []Node{x.Keyword, x.Identifier}
	if x.TypeClause != nil {
		kids = append(kids, x.TypeClause)
	}
	return append(kids, x.Equals, x.Initializer)
}

// IfStatement is "if condition then [else other]".
type IfStatement struct {
	IfKeyword *Token
	Condition Expr
	Then      Stmt
	Else      *ElseClause // optional
}

func (x *IfStatement) stmtNode()           {}
func (x *IfStatement) Kind() token.Kind    { return token.IfStatement }
func (x *IfStatement) Span() text.Span     { return spanOf(x) }
func (x *IfStatement) FullSpan() text.Span { return fullSpanOf(x) }
func (x *IfStatement) Children() []Node {
	kids := []Node{x.IfKeyword, x.Condition, x.Then}
	if x.Else != nil {
		kids = append(kids, x.Else)
	}
	return kids
}

// WhileStatement is "while condition body".
type WhileStatement struct {
	WhileKeyword *Token
	Condition    Expr
	Body         Stmt
}

func (x *WhileStatement) stmtNode()           {}
func (x *WhileStatement) Kind() token.Kind    { return token.WhileStatement }
func (x *WhileStatement) Span() text.Span     { return spanOf(x) }
func (x *WhileStatement) FullSpan() text.Span { return fullSpanOf(x) }
func (x *WhileStatement) Children() []Node    { return []Node{x.WhileKeyword, x.Condition, x.Body} }

// DoWhileStatement is "do body while condition".
type DoWhileStatement struct {
	DoKeyword    *Token
	Body         Stmt
	WhileKeyword *Token
	Condition    Expr
}

func (x *DoWhileStatement) stmtNode()           {}
func (x *DoWhileStatement) Kind() token.Kind    { return token.DoWhileStatement }
func (x *DoWhileStatement) Span() text.Span     { return spanOf(x) }
func (x *DoWhileStatement) FullSpan() text.Span { return fullSpanOf(x) }
func (x *DoWhileStatement) Children() []Node {
	return []Node{x.DoKeyword, x.Body, x.WhileKeyword, x.Condition}
}

// ForStatement is "for id = lower to upper body".
type ForStatement struct {
	ForKeyword *Token
	Identifier *Token
	Equals     *Token
	Lower      Expr
	ToKeyword  *Token
	Upper      Expr
	Body       Stmt
}

func (x *ForStatement) stmtNode()           {}
func (x *ForStatement) Kind() token.Kind    { return token.ForStatement }
func (x *ForStatement) Span() text.Span     { return spanOf(x) }
func (x *ForStatement) FullSpan() text.Span { return fullSpanOf(x) }
func (x *ForStatement) Children() []Node {
	return []Node{x.ForKeyword, x.Identifier, x.Equals, x.Lower, x.ToKeyword, x.Upper, x.Body}
}

// BreakStatement exits the innermost loop.
type BreakStatement struct {
	Keyword *Token
}

func (x *BreakStatement) stmtNode()           {}
func (x *BreakStatement) Kind() token.Kind    { return token.BreakStatement }
func (x *BreakStatement) Span() text.Span     { return spanOf(x) }
func (x *BreakStatement) FullSpan() text.Span { return fullSpanOf(x) }
func (x *BreakStatement) Children() []Node    { return []Node{x.Keyword} }

// ContinueStatement jumps to the next iteration of the innermost loop.
type ContinueStatement struct {
	Keyword *Token
}

func (x *ContinueStatement) stmtNode()           {}
func (x *ContinueStatement) Kind() token.Kind    { return token.ContinueStatement }
func (x *ContinueStatement) Span() text.Span     { return spanOf(x) }
func (x *ContinueStatement) FullSpan() text.Span { return fullSpanOf(x) }
func (x *ContinueStatement) Children() []Node    { return []Node{x.Keyword} }

// ReturnStatement returns from the enclosing function.
type ReturnStatement struct {
	ReturnKeyword *Token
	Expression    Expr // nil for a bare return
}

func (x *ReturnStatement) stmtNode()           {}
func (x *ReturnStatement) Kind() token.Kind    { return token.ReturnStatement }
func (x *ReturnStatement) Span() text.Span     { return spanOf(x) }
func (x *ReturnStatement) FullSpan() text.Span { return fullSpanOf(x) }
func (x *ReturnStatement) Children() []Node {
	if x.Expression == nil {
		return []Node{x.ReturnKeyword}
	}
	return []Node{x.ReturnKeyword, x.Expression}
}

// ExpressionStatement evaluates an expression for its side effects.
type ExpressionStatement struct {
	Expression Expr
}

func (x *ExpressionStatement) stmtNode()           {}
func (x *ExpressionStatement) Kind() token.Kind    { return token.ExpressionStatement }
func (x *ExpressionStatement) Span() text.Span     { return spanOf(x) }
func (x *ExpressionStatement) FullSpan() text.Span { return fullSpanOf(x) }
func (x *ExpressionStatement) Children() []Node    { return []Node{x.Expression} }

// LiteralExpression is a number, string or boolean literal.
type LiteralExpression struct {
	Literal *Token
	Value   any
}

func (x *LiteralExpression) exprNode()           {}
func (x *LiteralExpression) Kind() token.Kind    { return token.LiteralExpression }
func (x *LiteralExpression) Span() text.Span     { return spanOf(x) }
func (x *LiteralExpression) FullSpan() text.Span { return fullSpanOf(x) }
func (x *LiteralExpression) Children() []Node    { return []Node{x.Literal} }

// NameExpression refers to a variable by name.
type NameExpression struct {
	Identifier *Token
}

func (x *NameExpression) exprNode()           {}
func (x *NameExpression) Kind() token.Kind    { return token.NameExpression }
func (x *NameExpression) Span() text.Span     { return spanOf(x) }
func (x *NameExpression) FullSpan() text.Span { return fullSpanOf(x) }
func (x *NameExpression) Children() []Node    { return []Node{x.Identifier} }

// UnaryExpression applies a prefix operator.
type UnaryExpression struct {
	Operator *Token
	Operand  Expr
}

func (x *UnaryExpression) exprNode()           {}
func (x *UnaryExpression) Kind() token.Kind    { return token.UnaryExpression }
func (x *UnaryExpression) Span() text.Span     { return spanOf(x) }
func (x *UnaryExpression) FullSpan() text.Span { return fullSpanOf(x) }
func (x *UnaryExpression) Children() []Node    { return []Node{x.Operator, x.Operand} }

// BinaryExpression applies an infix operator.
type BinaryExpression struct {
	Left     Expr
	Operator *Token
	Right    Expr
}

func (x *BinaryExpression) exprNode()           {}
func (x *BinaryExpression) Kind() token.Kind    { return token.BinaryExpression }
func (x *BinaryExpression) Span() text.Span     { return spanOf(x) }
func (x *BinaryExpression) FullSpan() text.Span { return fullSpanOf(x) }
func (x *BinaryExpression) Children() []Node    { return []Node{x.Left, x.Operator, x.Right} }

// ParenthesizedExpression is "( expression )".
type ParenthesizedExpression struct {
	OpenParen  *Token
	Expression Expr
	CloseParen *Token
}

func (x *ParenthesizedExpression) exprNode()           {}
func (x *ParenthesizedExpression) Kind() token.Kind    { return token.ParenthesizedExpression }
func (x *ParenthesizedExpression) Span() text.Span     { return spanOf(x) }
func (x *ParenthesizedExpression) FullSpan() text.Span { return fullSpanOf(x) }
func (x *ParenthesizedExpression) Children() []Node {
	return []Node{x.OpenParen, x.Expression, x.CloseParen}
}

// AssignmentExpression is "name = value" or a compound form such as
// "name += value". Operator holds the assignment token.
type AssignmentExpression struct {
	Identifier *Token
	Operator   *Token
	Expression Expr
}

func (x *AssignmentExpression) exprNode()           {}
func (x *AssignmentExpression) Kind() token.Kind    { return token.AssignmentExpression }
func (x *AssignmentExpression) Span() text.Span     { return spanOf(x) }
func (x *AssignmentExpression) FullSpan() text.Span { return fullSpanOf(x) }
func (x *AssignmentExpression) Children() []Node {
	return []Node{x.Identifier, x.Operator, x.Expression}
}

// CallExpression calls a function or performs an explicit conversion such
// as int("1").
type CallExpression struct {
	Identifier *Token
	OpenParen  *Token
	Arguments  SeparatedList[Expr]
	CloseParen *Token
}

func (x *CallExpression) exprNode()           {}
func (x *CallExpression) Kind() token.Kind    { return token.CallExpression }
func (x *CallExpression) Span() text.Span     { return spanOf(x) }
func (x *CallExpression) FullSpan() text.Span { return fullSpanOf(x) }
func (x *CallExpression) Children() []Node {
	kids := []Node{x.Identifier, x.OpenParen}
	kids = append(kids, x.Arguments.WithSeparators()...)
	return append(kids, x.CloseParen)
}
