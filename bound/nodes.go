// Package bound defines the bound tree: the typed intermediate
// representation produced by the binder and rewritten by the lowerer.
//
// Every node keeps a reference to the syntax it was bound from. Nodes are
// never modified after construction; rewrites build new nodes.
package bound

import (
	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/symbols"
)

// NodeKind identifies a bound node.
type NodeKind int

const (
	// Statements
	KindBlockStatement NodeKind = iota
	KindVariableDeclaration
	KindIfStatement
	KindWhileStatement
	KindDoWhileStatement
	KindForStatement
	KindLabelStatement
	KindGotoStatement
	KindConditionalGotoStatement
	KindReturnStatement
	KindExpressionStatement

	// Expressions
	KindErrorExpression
	KindLiteralExpression
	KindVariableExpression
	KindAssignmentExpression
	KindCompoundAssignmentExpression
	KindUnaryExpression
	KindBinaryExpression
	KindCallExpression
	KindConversionExpression
)

var nodeKindNames = [...]string{
	KindBlockStatement:               "BlockStatement",
	KindVariableDeclaration:          "VariableDeclaration",
	KindIfStatement:                  "IfStatement",
	KindWhileStatement:               "WhileStatement",
	KindDoWhileStatement:             "DoWhileStatement",
	KindForStatement:                 "ForStatement",
	KindLabelStatement:               "LabelStatement",
	KindGotoStatement:                "GotoStatement",
	KindConditionalGotoStatement:     "ConditionalGotoStatement",
	KindReturnStatement:              "ReturnStatement",
	KindExpressionStatement:          "ExpressionStatement",
	KindErrorExpression:              "ErrorExpression",
	KindLiteralExpression:            "LiteralExpression",
	KindVariableExpression:           "VariableExpression",
	KindAssignmentExpression:         "AssignmentExpression",
	KindCompoundAssignmentExpression: "CompoundAssignmentExpression",
	KindUnaryExpression:              "UnaryExpression",
	KindBinaryExpression:             "BinaryExpression",
	KindCallExpression:               "CallExpression",
	KindConversionExpression:         "ConversionExpression",
}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "Unknown"
	}
	return nodeKindNames[k]
}

// Node is a node of the bound tree.
type Node interface {
	Kind() NodeKind
	// Syntax returns the syntax node this node was bound or lowered from.
	Syntax() ast.Node
}

// Stmt is a bound statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a bound expression. Type is never nil; expressions that failed
// to bind have symbols.TypeError.
type Expr interface {
	Node
	Type() *symbols.TypeSymbol
	// ConstantValue returns the folded value of the expression, or nil when
	// it is not known at compile time.
	ConstantValue() *symbols.Constant
}

// Label is a jump target. Labels are compared by identity.
type Label struct {
	Name string
}

func (l *Label) String() string { return l.Name }

type node struct {
	syntax ast.Node
}

func (n node) Syntax() ast.Node { return n.syntax }

type stmt struct{ node }

func (stmt) stmtNode() {}

// BlockStatement is a sequence of statements.
type BlockStatement struct {
	stmt
	Statements []Stmt
}

func NewBlockStatement(syntax ast.Node, statements ...Stmt) *BlockStatement {
	return &BlockStatement{stmt: stmt{node{syntax}}, Statements: statements}
}

func (s *BlockStatement) Kind() NodeKind { return KindBlockStatement }

// VariableDeclaration declares a variable and assigns its initial value.
type VariableDeclaration struct {
	stmt
	Variable    symbols.VariableSymbol
	Initializer Expr
}

func NewVariableDeclaration(syntax ast.Node, variable symbols.VariableSymbol, initializer Expr) *VariableDeclaration {
	return &VariableDeclaration{stmt: stmt{node{syntax}}, Variable: variable, Initializer: initializer}
}

func (s *VariableDeclaration) Kind() NodeKind { return KindVariableDeclaration }

// IfStatement is a conditional. Else may be nil.
type IfStatement struct {
	stmt
	Condition Expr
	Then      Stmt
	Else      Stmt
}

func NewIfStatement(syntax ast.Node, condition Expr, then, els Stmt) *IfStatement {
	return &IfStatement{stmt: stmt{node{syntax}}, Condition: condition, Then: then, Else: els}
}

func (s *IfStatement) Kind() NodeKind { return KindIfStatement }

// loop carries the labels that break and continue statements inside a loop
// body jump to.
type loop struct {
	stmt
	BreakLabel    *Label
	ContinueLabel *Label
}

// WhileStatement is a pre-tested loop.
type WhileStatement struct {
	loop
	Condition Expr
	Body      Stmt
}

func NewWhileStatement(syntax ast.Node, condition Expr, body Stmt, breakLabel, continueLabel *Label) *WhileStatement {
	return &WhileStatement{
		loop:      loop{stmt{node{syntax}}, breakLabel, continueLabel},
		Condition: condition,
		Body:      body,
	}
}

func (s *WhileStatement) Kind() NodeKind { return KindWhileStatement }

// DoWhileStatement is a post-tested loop.
type DoWhileStatement struct {
	loop
	Body      Stmt
	Condition Expr
}

func NewDoWhileStatement(syntax ast.Node, body Stmt, condition Expr, breakLabel, continueLabel *Label) *DoWhileStatement {
	return &DoWhileStatement{
		loop:      loop{stmt{node{syntax}}, breakLabel, continueLabel},
		Body:      body,
		Condition: condition,
	}
}

func (s *DoWhileStatement) Kind() NodeKind { return KindDoWhileStatement }

// ForStatement counts Variable from Lower up to and including Upper.
type ForStatement struct {
	loop
	Variable symbols.VariableSymbol
	Lower    Expr
	Upper    Expr
	Body     Stmt
}

func NewForStatement(syntax ast.Node, variable symbols.VariableSymbol, lower, upper Expr, body Stmt, breakLabel, continueLabel *Label) *ForStatement {
	return &ForStatement{
		loop:     loop{stmt{node{syntax}}, breakLabel, continueLabel},
		Variable: variable,
		Lower:    lower,
		Upper:    upper,
		Body:     body,
	}
}

func (s *ForStatement) Kind() NodeKind { return KindForStatement }

// LabelStatement marks a jump target.
type LabelStatement struct {
	stmt
	Label *Label
}

func NewLabelStatement(syntax ast.Node, label *Label) *LabelStatement {
	return &LabelStatement{stmt: stmt{node{syntax}}, Label: label}
}

func (s *LabelStatement) Kind() NodeKind { return KindLabelStatement }

// GotoStatement jumps unconditionally.
type GotoStatement struct {
	stmt
	Label *Label
}

func NewGotoStatement(syntax ast.Node, label *Label) *GotoStatement {
	return &GotoStatement{stmt: stmt{node{syntax}}, Label: label}
}

func (s *GotoStatement) Kind() NodeKind { return KindGotoStatement }

// ConditionalGotoStatement jumps to Label when Condition equals JumpIfTrue.
type ConditionalGotoStatement struct {
	stmt
	Label      *Label
	Condition  Expr
	JumpIfTrue bool
}

func NewConditionalGotoStatement(syntax ast.Node, label *Label, condition Expr, jumpIfTrue bool) *ConditionalGotoStatement {
	return &ConditionalGotoStatement{
		stmt:       stmt{node{syntax}},
		Label:      label,
		Condition:  condition,
		JumpIfTrue: jumpIfTrue,
	}
}

func (s *ConditionalGotoStatement) Kind() NodeKind { return KindConditionalGotoStatement }

// ReturnStatement leaves the current function. Expression may be nil.
type ReturnStatement struct {
	stmt
	Expression Expr
}

func NewReturnStatement(syntax ast.Node, expression Expr) *ReturnStatement {
	return &ReturnStatement{stmt: stmt{node{syntax}}, Expression: expression}
}

func (s *ReturnStatement) Kind() NodeKind { return KindReturnStatement }

// ExpressionStatement evaluates an expression and discards the result.
type ExpressionStatement struct {
	stmt
	Expression Expr
}

func NewExpressionStatement(syntax ast.Node, expression Expr) *ExpressionStatement {
	return &ExpressionStatement{stmt: stmt{node{syntax}}, Expression: expression}
}

func (s *ExpressionStatement) Kind() NodeKind { return KindExpressionStatement }

// ErrorExpression stands in for an expression that failed to bind. It
// suppresses follow-on diagnostics.
type ErrorExpression struct {
	node
}

func NewErrorExpression(syntax ast.Node) *ErrorExpression {
	return &ErrorExpression{node{syntax}}
}

func (e *ErrorExpression) Kind() NodeKind                   { return KindErrorExpression }
func (e *ErrorExpression) Type() *symbols.TypeSymbol        { return symbols.TypeError }
func (e *ErrorExpression) ConstantValue() *symbols.Constant { return nil }

// LiteralExpression is a bool, int32 or string value.
type LiteralExpression struct {
	node
	Value    any
	typ      *symbols.TypeSymbol
	constant *symbols.Constant
}

// NewLiteralExpression returns a literal. It panics if value is not a bool,
// int32 or string.
func NewLiteralExpression(syntax ast.Node, value any) *LiteralExpression {
	typ := symbols.TypeOf(value)
	if typ == nil {
		panic("bound: unexpected literal value")
	}
	return &LiteralExpression{node: node{syntax}, Value: value, typ: typ, constant: symbols.NewConstant(value)}
}

func (e *LiteralExpression) Kind() NodeKind                   { return KindLiteralExpression }
func (e *LiteralExpression) Type() *symbols.TypeSymbol        { return e.typ }
func (e *LiteralExpression) ConstantValue() *symbols.Constant { return e.constant }

// VariableExpression reads a variable.
type VariableExpression struct {
	node
	Variable symbols.VariableSymbol
}

func NewVariableExpression(syntax ast.Node, variable symbols.VariableSymbol) *VariableExpression {
	return &VariableExpression{node: node{syntax}, Variable: variable}
}

func (e *VariableExpression) Kind() NodeKind            { return KindVariableExpression }
func (e *VariableExpression) Type() *symbols.TypeSymbol { return e.Variable.Type() }
func (e *VariableExpression) ConstantValue() *symbols.Constant {
	return e.Variable.Constant()
}

// AssignmentExpression stores a value and yields it.
type AssignmentExpression struct {
	node
	Variable   symbols.VariableSymbol
	Expression Expr
}

func NewAssignmentExpression(syntax ast.Node, variable symbols.VariableSymbol, expression Expr) *AssignmentExpression {
	return &AssignmentExpression{node: node{syntax}, Variable: variable, Expression: expression}
}

func (e *AssignmentExpression) Kind() NodeKind                   { return KindAssignmentExpression }
func (e *AssignmentExpression) Type() *symbols.TypeSymbol        { return e.Expression.Type() }
func (e *AssignmentExpression) ConstantValue() *symbols.Constant { return nil }

// CompoundAssignmentExpression is "variable op= expression". The lowerer
// rewrites it into a plain assignment.
type CompoundAssignmentExpression struct {
	node
	Variable   symbols.VariableSymbol
	Op         *BinaryOperator
	Expression Expr
}

func NewCompoundAssignmentExpression(syntax ast.Node, variable symbols.VariableSymbol, op *BinaryOperator, expression Expr) *CompoundAssignmentExpression {
	return &CompoundAssignmentExpression{node: node{syntax}, Variable: variable, Op: op, Expression: expression}
}

func (e *CompoundAssignmentExpression) Kind() NodeKind { return KindCompoundAssignmentExpression }
func (e *CompoundAssignmentExpression) Type() *symbols.TypeSymbol {
	return e.Expression.Type()
}
func (e *CompoundAssignmentExpression) ConstantValue() *symbols.Constant { return nil }

// UnaryExpression applies a unary operator.
type UnaryExpression struct {
	node
	Op       *UnaryOperator
	Operand  Expr
	constant *symbols.Constant
}

// NewUnaryExpression returns a unary expression, folding it when the
// operand is constant.
func NewUnaryExpression(syntax ast.Node, op *UnaryOperator, operand Expr) *UnaryExpression {
	return &UnaryExpression{node: node{syntax}, Op: op, Operand: operand, constant: foldUnary(op, operand)}
}

func (e *UnaryExpression) Kind() NodeKind                   { return KindUnaryExpression }
func (e *UnaryExpression) Type() *symbols.TypeSymbol        { return e.Op.Type }
func (e *UnaryExpression) ConstantValue() *symbols.Constant { return e.constant }

// BinaryExpression applies a binary operator.
type BinaryExpression struct {
	node
	Left     Expr
	Op       *BinaryOperator
	Right    Expr
	constant *symbols.Constant
}

// NewBinaryExpression returns a binary expression, folding it when enough
// of its operands are constant.
func NewBinaryExpression(syntax ast.Node, left Expr, op *BinaryOperator, right Expr) *BinaryExpression {
	return &BinaryExpression{node: node{syntax}, Left: left, Op: op, Right: right, constant: foldBinary(left, op, right)}
}

func (e *BinaryExpression) Kind() NodeKind                   { return KindBinaryExpression }
func (e *BinaryExpression) Type() *symbols.TypeSymbol        { return e.Op.Type }
func (e *BinaryExpression) ConstantValue() *symbols.Constant { return e.constant }

// CallExpression calls a user-defined or built-in function.
type CallExpression struct {
	node
	Function  *symbols.FunctionSymbol
	Arguments []Expr
}

func NewCallExpression(syntax ast.Node, function *symbols.FunctionSymbol, arguments []Expr) *CallExpression {
	return &CallExpression{node: node{syntax}, Function: function, Arguments: arguments}
}

func (e *CallExpression) Kind() NodeKind                   { return KindCallExpression }
func (e *CallExpression) Type() *symbols.TypeSymbol        { return e.Function.Type() }
func (e *CallExpression) ConstantValue() *symbols.Constant { return nil }

// ConversionExpression converts a value to another type at run time.
type ConversionExpression struct {
	node
	typ        *symbols.TypeSymbol
	Expression Expr
}

func NewConversionExpression(syntax ast.Node, typ *symbols.TypeSymbol, expression Expr) *ConversionExpression {
	return &ConversionExpression{node: node{syntax}, typ: typ, Expression: expression}
}

func (e *ConversionExpression) Kind() NodeKind                   { return KindConversionExpression }
func (e *ConversionExpression) Type() *symbols.TypeSymbol        { return e.typ }
func (e *ConversionExpression) ConstantValue() *symbols.Constant { return nil }
