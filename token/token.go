// Package token defines the syntax kinds of the language along with the
// static facts the lexer and parser share: fixed token text, keywords and
// operator precedences.
package token

import "strings"

// Kind identifies a token, trivia or syntax node.
type Kind string

// Special tokens
const (
	BadToken       Kind = "BadToken"
	EndOfFileToken Kind = "EndOfFileToken"
)

// Trivia
const (
	WhitespaceTrivia        Kind = "WhitespaceTrivia"
	LineBreakTrivia         Kind = "LineBreakTrivia"
	SingleLineCommentTrivia Kind = "SingleLineCommentTrivia"
	MultiLineCommentTrivia  Kind = "MultiLineCommentTrivia"
	SkippedTextTrivia       Kind = "SkippedTextTrivia"
)

// Tokens
const (
	NumberToken             Kind = "NumberToken"
	StringToken             Kind = "StringToken"
	IdentifierToken         Kind = "IdentifierToken"
	PlusToken               Kind = "PlusToken"
	PlusEqualsToken         Kind = "PlusEqualsToken"
	MinusToken              Kind = "MinusToken"
	MinusEqualsToken        Kind = "MinusEqualsToken"
	StarToken               Kind = "StarToken"
	StarEqualsToken         Kind = "StarEqualsToken"
	SlashToken              Kind = "SlashToken"
	SlashEqualsToken        Kind = "SlashEqualsToken"
	BangToken               Kind = "BangToken"
	EqualsToken             Kind = "EqualsToken"
	TildeToken              Kind = "TildeToken"
	HatToken                Kind = "HatToken"
	HatEqualsToken          Kind = "HatEqualsToken"
	AmpersandToken          Kind = "AmpersandToken"
	AmpersandAmpersandToken Kind = "AmpersandAmpersandToken"
	AmpersandEqualsToken    Kind = "AmpersandEqualsToken"
	PipeToken               Kind = "PipeToken"
	PipeEqualsToken         Kind = "PipeEqualsToken"
	PipePipeToken           Kind = "PipePipeToken"
	EqualsEqualsToken       Kind = "EqualsEqualsToken"
	BangEqualsToken         Kind = "BangEqualsToken"
	LessToken               Kind = "LessToken"
	LessOrEqualsToken       Kind = "LessOrEqualsToken"
	GreaterToken            Kind = "GreaterToken"
	GreaterOrEqualsToken    Kind = "GreaterOrEqualsToken"
	OpenParenthesisToken    Kind = "OpenParenthesisToken"
	CloseParenthesisToken   Kind = "CloseParenthesisToken"
	OpenBraceToken          Kind = "OpenBraceToken"
	CloseBraceToken         Kind = "CloseBraceToken"
	ColonToken              Kind = "ColonToken"
	CommaToken              Kind = "CommaToken"
)

// Keywords
const (
	BreakKeyword    Kind = "BreakKeyword"
	ContinueKeyword Kind = "ContinueKeyword"
	DoKeyword       Kind = "DoKeyword"
	ElseKeyword     Kind = "ElseKeyword"
	FalseKeyword    Kind = "FalseKeyword"
	ForKeyword      Kind = "ForKeyword"
	FunctionKeyword Kind = "FunctionKeyword"
	IfKeyword       Kind = "IfKeyword"
	LetKeyword      Kind = "LetKeyword"
	ReturnKeyword   Kind = "ReturnKeyword"
	ToKeyword       Kind = "ToKeyword"
	TrueKeyword     Kind = "TrueKeyword"
	VarKeyword      Kind = "VarKeyword"
	WhileKeyword    Kind = "WhileKeyword"
)

// Nodes
const (
	CompilationUnit     Kind = "CompilationUnit"
	FunctionDeclaration Kind = "FunctionDeclaration"
	GlobalStatement     Kind = "GlobalStatement"
	Parameter           Kind = "Parameter"
	TypeClause          Kind = "TypeClause"
	ElseClause          Kind = "ElseClause"

	BlockStatement      Kind = "BlockStatement"
	VariableDeclaration Kind = "VariableDeclaration"
	IfStatement         Kind = "IfStatement"
	WhileStatement      Kind = "WhileStatement"
	DoWhileStatement    Kind = "DoWhileStatement"
	ForStatement        Kind = "ForStatement"
	BreakStatement      Kind = "BreakStatement"
	ContinueStatement   Kind = "ContinueStatement"
	ReturnStatement     Kind = "ReturnStatement"
	ExpressionStatement Kind = "ExpressionStatement"

	LiteralExpression       Kind = "LiteralExpression"
	NameExpression          Kind = "NameExpression"
	UnaryExpression         Kind = "UnaryExpression"
	BinaryExpression        Kind = "BinaryExpression"
	ParenthesizedExpression Kind = "ParenthesizedExpression"
	AssignmentExpression    Kind = "AssignmentExpression"
	CallExpression          Kind = "CallExpression"
)

var fixedText = map[Kind]string{
	PlusToken:               "+",
	PlusEqualsToken:         "+=",
	MinusToken:              "-",
	MinusEqualsToken:        "-=",
	StarToken:               "*",
	StarEqualsToken:         "*=",
	SlashToken:              "/",
	SlashEqualsToken:        "/=",
	BangToken:               "!",
	EqualsToken:             "=",
	TildeToken:              "~",
	HatToken:                "^",
	HatEqualsToken:          "^=",
	AmpersandToken:          "&",
	AmpersandAmpersandToken: "&&",
	AmpersandEqualsToken:    "&=",
	PipeToken:               "|",
	PipeEqualsToken:         "|=",
	PipePipeToken:           "||",
	EqualsEqualsToken:       "==",
	BangEqualsToken:         "!=",
	LessToken:               "<",
	LessOrEqualsToken:       "<=",
	GreaterToken:            ">",
	GreaterOrEqualsToken:    ">=",
	OpenParenthesisToken:    "(",
	CloseParenthesisToken:   ")",
	OpenBraceToken:          "{",
	CloseBraceToken:         "}",
	ColonToken:              ":",
	CommaToken:              ",",
	BreakKeyword:            "break",
	ContinueKeyword:         "continue",
	DoKeyword:               "do",
	ElseKeyword:             "else",
	FalseKeyword:            "false",
	ForKeyword:              "for",
	FunctionKeyword:         "function",
	IfKeyword:               "if",
	LetKeyword:              "let",
	ReturnKeyword:           "return",
	ToKeyword:               "to",
	TrueKeyword:             "true",
	VarKeyword:              "var",
	WhileKeyword:            "while",
}

// Reserved keywords
var keywords = map[string]Kind{
	"break":    BreakKeyword,
	"continue": ContinueKeyword,
	"do":       DoKeyword,
	"else":     ElseKeyword,
	"false":    FalseKeyword,
	"for":      ForKeyword,
	"function": FunctionKeyword,
	"if":       IfKeyword,
	"let":      LetKeyword,
	"return":   ReturnKeyword,
	"to":       ToKeyword,
	"true":     TrueKeyword,
	"var":      VarKeyword,
	"while":    WhileKeyword,
}

// Precedence levels for unary and binary operators. Zero means the kind is
// not an operator in that position.
const (
	_ int = iota
	LogicalOr
	LogicalAnd
	Comparison
	Sum
	Product
	Prefix
)

var unaryPrecedences = map[Kind]int{
	PlusToken:  Prefix,
	MinusToken: Prefix,
	BangToken:  Prefix,
	TildeToken: Prefix,
}

var binaryPrecedences = map[Kind]int{
	StarToken:               Product,
	SlashToken:              Product,
	PlusToken:               Sum,
	MinusToken:              Sum,
	EqualsEqualsToken:       Comparison,
	BangEqualsToken:         Comparison,
	LessToken:               Comparison,
	LessOrEqualsToken:       Comparison,
	GreaterToken:            Comparison,
	GreaterOrEqualsToken:    Comparison,
	AmpersandToken:          LogicalAnd,
	AmpersandAmpersandToken: LogicalAnd,
	PipeToken:               LogicalOr,
	PipePipeToken:           LogicalOr,
	HatToken:                LogicalOr,
}

var compoundOperators = map[Kind]Kind{
	PlusEqualsToken:      PlusToken,
	MinusEqualsToken:     MinusToken,
	StarEqualsToken:      StarToken,
	SlashEqualsToken:     SlashToken,
	AmpersandEqualsToken: AmpersandToken,
	PipeEqualsToken:      PipeToken,
	HatEqualsToken:       HatToken,
}

// Text returns the fixed text of kind, or "" if the kind has variable text.
func Text(kind Kind) string {
	return fixedText[kind]
}

// LookupKeyword returns the keyword kind for text, or IdentifierToken.
func LookupKeyword(text string) Kind {
	if kind, ok := keywords[text]; ok {
		return kind
	}
	return IdentifierToken
}

// UnaryPrecedence returns the precedence of kind as a prefix operator.
func UnaryPrecedence(kind Kind) int {
	return unaryPrecedences[kind]
}

// BinaryPrecedence returns the precedence of kind as an infix operator.
func BinaryPrecedence(kind Kind) int {
	return binaryPrecedences[kind]
}

// BinaryOperatorOfAssignment maps a compound assignment token to its binary
// operator. The boolean is false for plain "=" and non-assignment kinds.
func BinaryOperatorOfAssignment(kind Kind) (Kind, bool) {
	op, ok := compoundOperators[kind]
	return op, ok
}

// IsAssignmentOperator reports whether kind is "=" or a compound assignment.
func IsAssignmentOperator(kind Kind) bool {
	if kind == EqualsToken {
		return true
	}
	_, ok := compoundOperators[kind]
	return ok
}

// IsKeyword reports whether kind is a reserved word.
func (k Kind) IsKeyword() bool {
	return strings.HasSuffix(string(k), "Keyword")
}

// IsTrivia reports whether kind is a trivia kind.
func (k Kind) IsTrivia() bool {
	return strings.HasSuffix(string(k), "Trivia")
}

// IsComment reports whether kind is a comment trivia kind.
func (k Kind) IsComment() bool {
	return k == SingleLineCommentTrivia || k == MultiLineCommentTrivia
}

// IsToken reports whether kind is a token (including keywords) rather than a
// node or trivia.
func (k Kind) IsToken() bool {
	return !k.IsTrivia() && (k.IsKeyword() || strings.HasSuffix(string(k), "Token"))
}

func (k Kind) String() string {
	return string(k)
}

// Kinds returns every token and keyword kind, in a stable order.
func Kinds() []Kind {
	return []Kind{
		BadToken, EndOfFileToken,
		NumberToken, StringToken, IdentifierToken,
		PlusToken, PlusEqualsToken, MinusToken, MinusEqualsToken,
		StarToken, StarEqualsToken, SlashToken, SlashEqualsToken,
		BangToken, EqualsToken, TildeToken, HatToken, HatEqualsToken,
		AmpersandToken, AmpersandAmpersandToken, AmpersandEqualsToken,
		PipeToken, PipeEqualsToken, PipePipeToken,
		EqualsEqualsToken, BangEqualsToken,
		LessToken, LessOrEqualsToken, GreaterToken, GreaterOrEqualsToken,
		OpenParenthesisToken, CloseParenthesisToken,
		OpenBraceToken, CloseBraceToken, ColonToken, CommaToken,
		BreakKeyword, ContinueKeyword, DoKeyword, ElseKeyword, FalseKeyword,
		ForKeyword, FunctionKeyword, IfKeyword, LetKeyword, ReturnKeyword,
		ToKeyword, TrueKeyword, VarKeyword, WhileKeyword,
	}
}

// UnaryOperators returns every kind with a unary precedence.
func UnaryOperators() []Kind {
	var kinds []Kind
	for _, k := range Kinds() {
		if UnaryPrecedence(k) > 0 {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// BinaryOperators returns every kind with a binary precedence.
func BinaryOperators() []Kind {
	var kinds []Kind
	for _, k := range Kinds() {
		if BinaryPrecedence(k) > 0 {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
