package bound

import "github.com/risor-io/quill/symbols"

func foldUnary(op *UnaryOperator, operand Expr) *symbols.Constant {
	c := operand.ConstantValue()
	if c == nil {
		return nil
	}
	switch op.Kind {
	case Identity:
		return symbols.NewConstant(c.Value.(int32))
	case Negation:
		return symbols.NewConstant(-c.Value.(int32))
	case LogicalNegation:
		return symbols.NewConstant(!c.Value.(bool))
	case OnesComplement:
		return symbols.NewConstant(^c.Value.(int32))
	}
	return nil
}

func foldBinary(left Expr, op *BinaryOperator, right Expr) *symbols.Constant {
	lc, rc := left.ConstantValue(), right.ConstantValue()

	// false && x and true || x are constant whatever x is.
	switch op.Kind {
	case LogicalAnd:
		if (lc != nil && !lc.Bool()) || (rc != nil && !rc.Bool()) {
			return symbols.NewConstant(false)
		}
	case LogicalOr:
		if (lc != nil && lc.Bool()) || (rc != nil && rc.Bool()) {
			return symbols.NewConstant(true)
		}
	}

	if lc == nil || rc == nil {
		return nil
	}
	l, r := lc.Value, rc.Value

	if op.LeftType == symbols.TypeInt {
		a, b := l.(int32), r.(int32)
		switch op.Kind {
		case Addition:
			return symbols.NewConstant(a + b)
		case Subtraction:
			return symbols.NewConstant(a - b)
		case Multiplication:
			return symbols.NewConstant(a * b)
		case Division:
			if b == 0 {
				// Left for the evaluator to report.
				return nil
			}
			return symbols.NewConstant(a / b)
		case BitwiseAnd:
			return symbols.NewConstant(a & b)
		case BitwiseOr:
			return symbols.NewConstant(a | b)
		case BitwiseXor:
			return symbols.NewConstant(a ^ b)
		case Less:
			return symbols.NewConstant(a < b)
		case LessOrEquals:
			return symbols.NewConstant(a <= b)
		case Greater:
			return symbols.NewConstant(a > b)
		case GreaterOrEquals:
			return symbols.NewConstant(a >= b)
		}
	}

	switch op.Kind {
	case Addition:
		return symbols.NewConstant(l.(string) + r.(string))
	case LogicalAnd, BitwiseAnd:
		return symbols.NewConstant(l.(bool) && r.(bool))
	case LogicalOr, BitwiseOr:
		return symbols.NewConstant(l.(bool) || r.(bool))
	case BitwiseXor:
		return symbols.NewConstant(l.(bool) != r.(bool))
	case Equals:
		return symbols.NewConstant(l == r)
	case NotEquals:
		return symbols.NewConstant(l != r)
	}
	return nil
}
