package symbols

// Built-in functions. The evaluator recognizes them by identity.
var (
	Print  = NewFunction("print", []*ParameterSymbol{NewParameter("text", TypeAny, 0)}, TypeVoid, nil, nil)
	Input  = NewFunction("input", nil, TypeString, nil, nil)
	Random = NewFunction("random", []*ParameterSymbol{NewParameter("max", TypeInt, 0)}, TypeInt, nil, nil)
)

// Builtins returns every built-in function.
func Builtins() []*FunctionSymbol {
	return []*FunctionSymbol{Print, Input, Random}
}

// IsBuiltin reports whether f is a built-in function.
func IsBuiltin(f *FunctionSymbol) bool {
	return f == Print || f == Input || f == Random
}
