package errors

// ErrorCode represents a unique identifier for diagnostic types.
// Codes are organized by category:
//   - E1xxx: Lexical and syntax errors
//   - E2xxx: Binding errors
//   - E3xxx: Runtime errors
//   - W2xxx: Binding warnings
type ErrorCode string

const (
	// Lexical and syntax errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Unterminated string literal
	E1003 ErrorCode = "E1003" // Unterminated multi-line comment
	E1004 ErrorCode = "E1004" // Bad character
	E1008 ErrorCode = "E1008" // Invalid number literal
	E1009 ErrorCode = "E1009" // Maximum nesting depth exceeded

	// Binding errors (E2xxx)
	E2001 ErrorCode = "E2001" // Undefined variable
	E2002 ErrorCode = "E2002" // Undefined function
	E2003 ErrorCode = "E2003" // Invalid break or continue statement
	E2005 ErrorCode = "E2005" // Invalid return statement
	E2006 ErrorCode = "E2006" // Duplicate parameter name
	E2011 ErrorCode = "E2011" // Undefined type
	E2012 ErrorCode = "E2012" // Not a variable
	E2013 ErrorCode = "E2013" // Not a function
	E2014 ErrorCode = "E2014" // Symbol already declared
	E2015 ErrorCode = "E2015" // Assignment to read-only variable
	E2016 ErrorCode = "E2016" // Wrong argument count
	E2017 ErrorCode = "E2017" // No conversion exists
	E2018 ErrorCode = "E2018" // Conversion requires an explicit cast
	E2019 ErrorCode = "E2019" // Undefined unary operator
	E2020 ErrorCode = "E2020" // Undefined binary operator
	E2021 ErrorCode = "E2021" // Expression must have a value
	E2022 ErrorCode = "E2022" // Invalid expression statement
	E2023 ErrorCode = "E2023" // Not all code paths return a value
	E2024 ErrorCode = "E2024" // Global statements in more than one file
	E2025 ErrorCode = "E2025" // Invalid main signature
	E2026 ErrorCode = "E2026" // Main mixed with global statements

	// Binding warnings (W2xxx)
	W2001 ErrorCode = "W2001" // Unreachable code

	// Runtime errors (E3xxx)
	E3001 ErrorCode = "E3001" // Invalid conversion
	E3002 ErrorCode = "E3002" // Division by zero
	E3010 ErrorCode = "E3010" // Invalid argument
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected token",
	E1002: "unterminated string literal",
	E1003: "unterminated multi-line comment",
	E1004: "bad character",
	E1008: "invalid number literal",
	E1009: "maximum nesting depth exceeded",

	E2001: "undefined variable",
	E2002: "undefined function",
	E2003: "invalid break or continue statement",
	E2005: "invalid return statement",
	E2006: "duplicate parameter name",
	E2011: "undefined type",
	E2012: "not a variable",
	E2013: "not a function",
	E2014: "symbol already declared",
	E2015: "assignment to read-only variable",
	E2016: "wrong argument count",
	E2017: "no conversion exists",
	E2018: "explicit conversion required",
	E2019: "undefined unary operator",
	E2020: "undefined binary operator",
	E2021: "expression must have a value",
	E2022: "invalid expression statement",
	E2023: "not all code paths return a value",
	E2024: "global statements in more than one file",
	E2025: "invalid main signature",
	E2026: "main mixed with global statements",

	W2001: "unreachable code",

	E3001: "invalid conversion",
	E3002: "division by zero",
	E3010: "invalid argument",
}

// Description returns the short description for this error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// IsSyntax reports whether this is a lexical or syntax error code.
func (c ErrorCode) IsSyntax() bool {
	return len(c) == 5 && c[0] == 'E' && c[1] == '1'
}

// IsBinding reports whether this is a binding error or warning code.
func (c ErrorCode) IsBinding() bool {
	return len(c) == 5 && c[1] == '2'
}

// IsRuntime reports whether this is a runtime error code.
func (c ErrorCode) IsRuntime() bool {
	return len(c) == 5 && c[0] == 'E' && c[1] == '3'
}
