package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrDivisionByZero is the cause of integer division by zero at run time.
var ErrDivisionByZero = stderrors.New("division by zero")

// StackFrame represents a single frame in the evaluator's call stack.
type StackFrame struct {
	Function string
}

// String returns a formatted string representation of the stack frame.
func (f StackFrame) String() string {
	return "at " + f.Function
}

// FormatStackTrace formats a slice of stack frames as a human-readable string.
func FormatStackTrace(frames []StackFrame) string {
	if len(frames) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Stack trace:\n")
	for _, frame := range frames {
		b.WriteString("  ")
		b.WriteString(frame.String())
		b.WriteString("\n")
	}
	return b.String()
}

// RuntimeError is a failure that cannot be detected statically, such as
// integer division by zero or an invalid explicit conversion. It aborts the
// current evaluation; there is no diagnostic and no result value.
type RuntimeError struct {
	Code  ErrorCode
	Err   error
	Stack []StackFrame
}

// NewRuntimeError wraps err with the given code.
func NewRuntimeError(code ErrorCode, err error) *RuntimeError {
	return &RuntimeError{Code: code, Err: err}
}

// RuntimeErrorf formats a new RuntimeError.
func RuntimeErrorf(code ErrorCode, format string, args ...any) *RuntimeError {
	return NewRuntimeError(code, fmt.Errorf(format, args...))
}

func (e *RuntimeError) Error() string {
	return "runtime error: " + e.Err.Error()
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsFatal always returns true: runtime errors abort evaluation.
func (e *RuntimeError) IsFatal() bool {
	return true
}

// FriendlyErrorMessage renders the error with the uncolored formatter.
func (e *RuntimeError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts the runtime error to a FormattedError for display.
func (e *RuntimeError) ToFormatted() *FormattedError {
	return &FormattedError{
		Code:    e.Code,
		Kind:    "runtime error",
		Message: e.Err.Error(),
		Stack:   e.Stack,
	}
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// AsRuntimeError returns the RuntimeError in err's chain, if any.
func AsRuntimeError(err error) (*RuntimeError, bool) {
	var rt *RuntimeError
	if stderrors.As(err, &rt) {
		return rt, true
	}
	return nil, false
}
