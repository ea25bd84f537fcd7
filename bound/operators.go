package bound

import (
	"github.com/risor-io/quill/symbols"
	"github.com/risor-io/quill/token"
)

// UnaryOperatorKind identifies the operation a unary operator performs.
type UnaryOperatorKind int

const (
	Identity UnaryOperatorKind = iota
	Negation
	LogicalNegation
	OnesComplement
)

// BinaryOperatorKind identifies the operation a binary operator performs.
type BinaryOperatorKind int

const (
	Addition BinaryOperatorKind = iota
	Subtraction
	Multiplication
	Division
	LogicalAnd
	LogicalOr
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	Equals
	NotEquals
	Less
	LessOrEquals
	Greater
	GreaterOrEquals
)

// UnaryOperator is a resolved unary operator.
type UnaryOperator struct {
	SyntaxKind  token.Kind
	Kind        UnaryOperatorKind
	OperandType *symbols.TypeSymbol
	Type        *symbols.TypeSymbol
}

// BinaryOperator is a resolved binary operator.
type BinaryOperator struct {
	SyntaxKind token.Kind
	Kind       BinaryOperatorKind
	LeftType   *symbols.TypeSymbol
	RightType  *symbols.TypeSymbol
	Type       *symbols.TypeSymbol
}

var unaryOperators = []*UnaryOperator{
	{token.BangToken, LogicalNegation, symbols.TypeBool, symbols.TypeBool},
	{token.PlusToken, Identity, symbols.TypeInt, symbols.TypeInt},
	{token.MinusToken, Negation, symbols.TypeInt, symbols.TypeInt},
	{token.TildeToken, OnesComplement, symbols.TypeInt, symbols.TypeInt},
}

func binary(kind token.Kind, op BinaryOperatorKind, operand, result *symbols.TypeSymbol) *BinaryOperator {
	return &BinaryOperator{kind, op, operand, operand, result}
}

var binaryOperators = []*BinaryOperator{
	binary(token.PlusToken, Addition, symbols.TypeInt, symbols.TypeInt),
	binary(token.MinusToken, Subtraction, symbols.TypeInt, symbols.TypeInt),
	binary(token.StarToken, Multiplication, symbols.TypeInt, symbols.TypeInt),
	binary(token.SlashToken, Division, symbols.TypeInt, symbols.TypeInt),
	binary(token.AmpersandToken, BitwiseAnd, symbols.TypeInt, symbols.TypeInt),
	binary(token.PipeToken, BitwiseOr, symbols.TypeInt, symbols.TypeInt),
	binary(token.HatToken, BitwiseXor, symbols.TypeInt, symbols.TypeInt),

	binary(token.EqualsEqualsToken, Equals, symbols.TypeInt, symbols.TypeBool),
	binary(token.BangEqualsToken, NotEquals, symbols.TypeInt, symbols.TypeBool),
	binary(token.LessToken, Less, symbols.TypeInt, symbols.TypeBool),
	binary(token.LessOrEqualsToken, LessOrEquals, symbols.TypeInt, symbols.TypeBool),
	binary(token.GreaterToken, Greater, symbols.TypeInt, symbols.TypeBool),
	binary(token.GreaterOrEqualsToken, GreaterOrEquals, symbols.TypeInt, symbols.TypeBool),

	binary(token.AmpersandToken, BitwiseAnd, symbols.TypeBool, symbols.TypeBool),
	binary(token.AmpersandAmpersandToken, LogicalAnd, symbols.TypeBool, symbols.TypeBool),
	binary(token.PipeToken, BitwiseOr, symbols.TypeBool, symbols.TypeBool),
	binary(token.PipePipeToken, LogicalOr, symbols.TypeBool, symbols.TypeBool),
	binary(token.HatToken, BitwiseXor, symbols.TypeBool, symbols.TypeBool),
	binary(token.EqualsEqualsToken, Equals, symbols.TypeBool, symbols.TypeBool),
	binary(token.BangEqualsToken, NotEquals, symbols.TypeBool, symbols.TypeBool),

	binary(token.PlusToken, Addition, symbols.TypeString, symbols.TypeString),
	binary(token.EqualsEqualsToken, Equals, symbols.TypeString, symbols.TypeBool),
	binary(token.BangEqualsToken, NotEquals, symbols.TypeString, symbols.TypeBool),

	binary(token.EqualsEqualsToken, Equals, symbols.TypeAny, symbols.TypeBool),
	binary(token.BangEqualsToken, NotEquals, symbols.TypeAny, symbols.TypeBool),
}

// BindUnaryOperator resolves the operator for a token kind and operand type.
// It returns nil if no operator applies.
func BindUnaryOperator(kind token.Kind, operandType *symbols.TypeSymbol) *UnaryOperator {
	for _, op := range unaryOperators {
		if op.SyntaxKind == kind && op.OperandType == operandType {
			return op
		}
	}
	return nil
}

// BindBinaryOperator resolves the operator for a token kind and operand
// types. It returns nil if no operator applies.
func BindBinaryOperator(kind token.Kind, leftType, rightType *symbols.TypeSymbol) *BinaryOperator {
	for _, op := range binaryOperators {
		if op.SyntaxKind == kind && op.LeftType == leftType && op.RightType == rightType {
			return op
		}
	}
	return nil
}
