package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupKeyword(t *testing.T) {
	for text, kind := range keywords {
		require.Equal(t, kind, LookupKeyword(text))
		require.Equal(t, text, Text(kind))
		// Keywords are case sensitive
		require.Equal(t, IdentifierToken, LookupKeyword(strings.ToUpper(text)))
	}
}

func TestKindClassification(t *testing.T) {
	require.True(t, WhileKeyword.IsKeyword())
	require.True(t, WhileKeyword.IsToken())
	require.True(t, PlusToken.IsToken())
	require.False(t, PlusToken.IsKeyword())
	require.True(t, LineBreakTrivia.IsTrivia())
	require.False(t, LineBreakTrivia.IsToken())
	require.True(t, MultiLineCommentTrivia.IsComment())
	require.False(t, BinaryExpression.IsToken())
}

func TestFixedTextKindsAreListed(t *testing.T) {
	listed := map[Kind]bool{}
	for _, k := range Kinds() {
		listed[k] = true
	}
	for k := range fixedText {
		require.True(t, listed[k], "kind %s missing from Kinds()", k)
	}
}

func TestCompoundOperators(t *testing.T) {
	op, ok := BinaryOperatorOfAssignment(PlusEqualsToken)
	require.True(t, ok)
	require.Equal(t, PlusToken, op)
	_, ok = BinaryOperatorOfAssignment(EqualsToken)
	require.False(t, ok)
	require.True(t, IsAssignmentOperator(EqualsToken))
	require.True(t, IsAssignmentOperator(HatEqualsToken))
	require.False(t, IsAssignmentOperator(EqualsEqualsToken))
	for compound, binary := range compoundOperators {
		require.Greater(t, BinaryPrecedence(binary), 0, "compound %s", compound)
	}
}

func TestPrecedences(t *testing.T) {
	require.Equal(t, 6, UnaryPrecedence(MinusToken))
	require.Equal(t, 5, BinaryPrecedence(StarToken))
	require.Equal(t, 4, BinaryPrecedence(MinusToken))
	require.Equal(t, 3, BinaryPrecedence(LessOrEqualsToken))
	require.Equal(t, 2, BinaryPrecedence(AmpersandAmpersandToken))
	require.Equal(t, 1, BinaryPrecedence(HatToken))
	require.Equal(t, 0, BinaryPrecedence(BangToken))
	require.Len(t, UnaryOperators(), 4)
	require.Len(t, BinaryOperators(), 15)
}
