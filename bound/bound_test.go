package bound

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/risor-io/quill/symbols"
	"github.com/risor-io/quill/token"
)

func lit(v any) *LiteralExpression { return NewLiteralExpression(nil, v) }

func TestBindUnaryOperator(t *testing.T) {
	op := BindUnaryOperator(token.MinusToken, symbols.TypeInt)
	require.NotNil(t, op)
	require.Equal(t, Negation, op.Kind)
	require.Equal(t, symbols.TypeInt, op.Type)

	require.Nil(t, BindUnaryOperator(token.MinusToken, symbols.TypeBool))
	require.Nil(t, BindUnaryOperator(token.BangToken, symbols.TypeInt))
	require.Equal(t, LogicalNegation, BindUnaryOperator(token.BangToken, symbols.TypeBool).Kind)
}

func TestBindBinaryOperator(t *testing.T) {
	tests := []struct {
		kind        token.Kind
		left, right *symbols.TypeSymbol
		want        *symbols.TypeSymbol
	}{
		{token.PlusToken, symbols.TypeInt, symbols.TypeInt, symbols.TypeInt},
		{token.PlusToken, symbols.TypeString, symbols.TypeString, symbols.TypeString},
		{token.LessToken, symbols.TypeInt, symbols.TypeInt, symbols.TypeBool},
		{token.AmpersandToken, symbols.TypeBool, symbols.TypeBool, symbols.TypeBool},
		{token.HatToken, symbols.TypeInt, symbols.TypeInt, symbols.TypeInt},
		{token.EqualsEqualsToken, symbols.TypeAny, symbols.TypeAny, symbols.TypeBool},
		{token.PlusToken, symbols.TypeInt, symbols.TypeBool, nil},
		{token.LessToken, symbols.TypeString, symbols.TypeString, nil},
		{token.AmpersandAmpersandToken, symbols.TypeInt, symbols.TypeInt, nil},
	}
	for _, tt := range tests {
		op := BindBinaryOperator(tt.kind, tt.left, tt.right)
		if tt.want == nil {
			require.Nil(t, op, "%s %s %s", tt.left, tt.kind, tt.right)
			continue
		}
		require.NotNil(t, op, "%s %s %s", tt.left, tt.kind, tt.right)
		require.Equal(t, tt.want, op.Type)
	}
}

func TestClassifyConversion(t *testing.T) {
	tests := []struct {
		from, to *symbols.TypeSymbol
		want     Conversion
	}{
		{symbols.TypeInt, symbols.TypeInt, identityConversion},
		{symbols.TypeInt, symbols.TypeAny, implicitConversion},
		{symbols.TypeString, symbols.TypeAny, implicitConversion},
		{symbols.TypeAny, symbols.TypeInt, explicitConversion},
		{symbols.TypeInt, symbols.TypeString, explicitConversion},
		{symbols.TypeBool, symbols.TypeString, explicitConversion},
		{symbols.TypeString, symbols.TypeInt, explicitConversion},
		{symbols.TypeString, symbols.TypeBool, explicitConversion},
		{symbols.TypeInt, symbols.TypeBool, noConversion},
		{symbols.TypeBool, symbols.TypeInt, noConversion},
		{symbols.TypeVoid, symbols.TypeAny, noConversion},
		{symbols.TypeAny, symbols.TypeVoid, noConversion},
	}
	for _, tt := range tests {
		got := ClassifyConversion(tt.from, tt.to)
		require.Equal(t, tt.want, got, "%s -> %s", tt.from, tt.to)
	}
	require.True(t, ClassifyConversion(symbols.TypeString, symbols.TypeInt).IsExplicit())
	require.False(t, ClassifyConversion(symbols.TypeInt, symbols.TypeAny).IsExplicit())
}

func TestFoldUnary(t *testing.T) {
	neg := NewUnaryExpression(nil, BindUnaryOperator(token.MinusToken, symbols.TypeInt), lit(int32(5)))
	require.Equal(t, int32(-5), neg.ConstantValue().Value)

	not := NewUnaryExpression(nil, BindUnaryOperator(token.BangToken, symbols.TypeBool), lit(true))
	require.Equal(t, false, not.ConstantValue().Value)

	inv := NewUnaryExpression(nil, BindUnaryOperator(token.TildeToken, symbols.TypeInt), lit(int32(0)))
	require.Equal(t, int32(-1), inv.ConstantValue().Value)

	v := symbols.NewLocalVariable("x", false, symbols.TypeInt, nil)
	dynamic := NewUnaryExpression(nil, BindUnaryOperator(token.MinusToken, symbols.TypeInt), NewVariableExpression(nil, v))
	require.Nil(t, dynamic.ConstantValue())
}

func TestFoldBinary(t *testing.T) {
	tests := []struct {
		left  any
		kind  token.Kind
		right any
		want  any
	}{
		{int32(1), token.PlusToken, int32(2), int32(3)},
		{int32(7), token.SlashToken, int32(2), int32(3)},
		{int32(6), token.AmpersandToken, int32(3), int32(2)},
		{int32(6), token.HatToken, int32(3), int32(5)},
		{int32(1), token.LessToken, int32(2), true},
		{int32(2), token.EqualsEqualsToken, int32(2), true},
		{"a", token.PlusToken, "b", "ab"},
		{"a", token.BangEqualsToken, "b", true},
		{true, token.HatToken, true, false},
		{true, token.PipeToken, false, true},
		{int32(2147483647), token.PlusToken, int32(1), int32(-2147483648)},
	}
	for _, tt := range tests {
		l, r := lit(tt.left), lit(tt.right)
		op := BindBinaryOperator(tt.kind, l.Type(), r.Type())
		require.NotNil(t, op)
		e := NewBinaryExpression(nil, l, op, r)
		require.NotNil(t, e.ConstantValue(), "%v %s %v", tt.left, tt.kind, tt.right)
		require.Equal(t, tt.want, e.ConstantValue().Value)
	}
}

func TestFoldDivisionByZero(t *testing.T) {
	op := BindBinaryOperator(token.SlashToken, symbols.TypeInt, symbols.TypeInt)
	e := NewBinaryExpression(nil, lit(int32(1)), op, lit(int32(0)))
	require.Nil(t, e.ConstantValue())
}

func TestFoldShortCircuit(t *testing.T) {
	x := NewVariableExpression(nil, symbols.NewGlobalVariable("x", false, symbols.TypeBool, nil))

	and := BindBinaryOperator(token.AmpersandAmpersandToken, symbols.TypeBool, symbols.TypeBool)
	require.Equal(t, false, NewBinaryExpression(nil, lit(false), and, x).ConstantValue().Value)
	require.Equal(t, false, NewBinaryExpression(nil, x, and, lit(false)).ConstantValue().Value)
	require.Nil(t, NewBinaryExpression(nil, lit(true), and, x).ConstantValue())

	or := BindBinaryOperator(token.PipePipeToken, symbols.TypeBool, symbols.TypeBool)
	require.Equal(t, true, NewBinaryExpression(nil, x, or, lit(true)).ConstantValue().Value)
	require.Nil(t, NewBinaryExpression(nil, x, or, lit(false)).ConstantValue())
}

func TestReadOnlyVariableIsConstant(t *testing.T) {
	let := symbols.NewLocalVariable("x", true, symbols.TypeInt, symbols.NewConstant(int32(4)))
	op := BindBinaryOperator(token.StarToken, symbols.TypeInt, symbols.TypeInt)
	e := NewBinaryExpression(nil, NewVariableExpression(nil, let), op, lit(int32(2)))
	require.Equal(t, int32(8), e.ConstantValue().Value)

	v := symbols.NewLocalVariable("y", false, symbols.TypeInt, symbols.NewConstant(int32(4)))
	require.Nil(t, NewVariableExpression(nil, v).ConstantValue())
}

func TestPrint(t *testing.T) {
	x := symbols.NewLocalVariable("x", false, symbols.TypeInt, nil)
	xe := NewVariableExpression(nil, x)
	add := BindBinaryOperator(token.PlusToken, symbols.TypeInt, symbols.TypeInt)
	mul := BindBinaryOperator(token.StarToken, symbols.TypeInt, symbols.TypeInt)
	less := BindBinaryOperator(token.LessToken, symbols.TypeInt, symbols.TypeInt)
	loop := &Label{Name: "Label1"}
	end := &Label{Name: "Label2"}

	body := NewBlockStatement(nil,
		NewVariableDeclaration(nil, x, lit(int32(0))),
		NewLabelStatement(nil, loop),
		NewConditionalGotoStatement(nil, end, NewBinaryExpression(nil, xe, less, lit(int32(10))), false),
		NewExpressionStatement(nil, NewAssignmentExpression(nil, x,
			NewBinaryExpression(nil, NewBinaryExpression(nil, xe, add, lit(int32(1))), mul, lit(int32(2))))),
		NewExpressionStatement(nil, NewCallExpression(nil, symbols.Print, []Expr{
			NewConversionExpression(nil, symbols.TypeString, xe),
		})),
		NewGotoStatement(nil, loop),
		NewLabelStatement(nil, end),
		NewReturnStatement(nil, nil),
	)

	want := `{
    var x = 0
Label1:
    goto Label2 unless x < 10
    x = (x + 1) * 2
    print(string(x))
    goto Label1
Label2:
    return
}
`
	require.Equal(t, want, String(body))
}

func TestPrintStructured(t *testing.T) {
	b := symbols.NewGlobalVariable("b", true, symbols.TypeString, nil)
	cond := NewBinaryExpression(nil,
		NewVariableExpression(nil, b),
		BindBinaryOperator(token.EqualsEqualsToken, symbols.TypeString, symbols.TypeString),
		lit(`say "hi"`))
	stmt := NewIfStatement(nil, cond,
		NewReturnStatement(nil, lit(true)),
		NewBlockStatement(nil, NewReturnStatement(nil, lit(false))))

	want := `if b == "say ""hi"""
    return true
else
{
    return false
}
`
	require.Equal(t, want, String(stmt))
}

func TestProgramBody(t *testing.T) {
	f := symbols.NewFunction("f", nil, symbols.TypeVoid, nil, nil)
	g := symbols.NewFunction("g", nil, symbols.TypeVoid, nil, nil)
	body := NewBlockStatement(nil)
	first := &Program{Functions: map[*symbols.FunctionSymbol]*BlockStatement{f: body}}
	second := &Program{Previous: first, Functions: map[*symbols.FunctionSymbol]*BlockStatement{}}

	got, ok := second.Body(f)
	require.True(t, ok)
	require.Same(t, body, got)

	_, ok = second.Body(g)
	require.False(t, ok)
}
