// Package errors defines the diagnostics reported while compiling source
// text, the runtime failures reported while evaluating it, and a formatter
// that renders both for humans.
package errors

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/risor-io/quill/text"
	"github.com/risor-io/quill/token"
)

// Severity classifies a diagnostic. Errors block evaluation; warnings never do.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// MarshalText renders the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is a message tied to a location in the source text.
type Diagnostic struct {
	Code     ErrorCode
	Severity Severity
	Location text.Location
	Message  string
	// Hint is an optional "did you mean" style suggestion. It is rendered by
	// the formatter and is not part of Message.
	Hint string
}

// IsError reports whether the diagnostic has error severity.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// IsWarning reports whether the diagnostic has warning severity.
func (d Diagnostic) IsWarning() bool {
	return d.Severity == SeverityWarning
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Severity, d.Message)
}

func (d Diagnostic) String() string {
	return d.Message
}

// ToFormatted converts the diagnostic to a FormattedError for display.
func (d Diagnostic) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:    d.Code,
		Kind:    d.Severity.String(),
		Message: d.Message,
		Hint:    d.Hint,
	}
	loc := d.Location
	if loc.Text == nil {
		return fe
	}
	line := loc.StartLine()
	fe.Filename = loc.Filename()
	fe.Line = line + 1
	fe.Column = loc.StartCharacter() + 1
	fe.EndColumn = fe.Column
	if loc.EndLine() == line && loc.Span.Length > 0 {
		fe.EndColumn = loc.EndCharacter()
	}
	fe.SourceLines = []SourceLineEntry{
		{Number: line + 1, Text: loc.Text.LineText(line), IsMain: true},
	}
	return fe
}

// Diagnostics is an ordered collection of diagnostics.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic has error severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Errors returns the error-severity diagnostics.
func (ds Diagnostics) Errors() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.IsError() {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns the warning-severity diagnostics.
func (ds Diagnostics) Warnings() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.IsWarning() {
			out = append(out, d)
		}
	}
	return out
}

// Sorted returns a copy ordered by file name then span start. The sort is
// stable so diagnostics at the same position keep their report order.
func (ds Diagnostics) Sorted() Diagnostics {
	out := make(Diagnostics, len(ds))
	copy(out, ds)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Location, out[j].Location
		if a.Filename() != b.Filename() {
			return a.Filename() < b.Filename()
		}
		return a.Span.Start < b.Span.Start
	})
	return out
}

// Err folds every error-severity diagnostic into a single error. It returns
// nil when there are none.
func (ds Diagnostics) Err() error {
	var result *multierror.Error
	for _, d := range ds {
		if d.IsError() {
			result = multierror.Append(result, d)
		}
	}
	return result.ErrorOrNil()
}

// Bag accumulates diagnostics in report order.
type Bag struct {
	items Diagnostics
}

// All returns the collected diagnostics.
func (b *Bag) All() Diagnostics {
	return b.items
}

// Len returns the number of collected diagnostics.
func (b *Bag) Len() int {
	return len(b.items)
}

// Add appends diagnostics to the bag.
func (b *Bag) Add(ds ...Diagnostic) {
	b.items = append(b.items, ds...)
}

func (b *Bag) report(code ErrorCode, loc text.Location, format string, args ...any) *Diagnostic {
	b.items = append(b.items, Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
	})
	return &b.items[len(b.items)-1]
}

func (b *Bag) warn(code ErrorCode, loc text.Location, format string, args ...any) {
	b.items = append(b.items, Diagnostic{
		Code:     code,
		Severity: SeverityWarning,
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (b *Bag) ReportInvalidNumber(loc text.Location, literal string, typ fmt.Stringer) {
	b.report(E1008, loc, "The number %s isn't valid %s.", literal, typ)
}

func (b *Bag) ReportBadCharacter(loc text.Location, ch rune) {
	b.report(E1004, loc, "Bad character input: '%c'.", ch)
}

func (b *Bag) ReportUnterminatedString(loc text.Location) {
	b.report(E1002, loc, "Unterminated string literal.")
}

func (b *Bag) ReportUnterminatedMultiLineComment(loc text.Location) {
	b.report(E1003, loc, "Unterminated multi-line comment.")
}

func (b *Bag) ReportUnexpectedToken(loc text.Location, actual, expected token.Kind) {
	b.report(E1001, loc, "Unexpected token <%s>, expected <%s>.", actual, expected)
}

func (b *Bag) ReportMaxDepthExceeded(loc text.Location, depth int) {
	b.report(E1009, loc, "Maximum nesting depth of %d exceeded.", depth)
}

func (b *Bag) ReportUndefinedUnaryOperator(loc text.Location, op string, operand fmt.Stringer) {
	b.report(E2019, loc, "Unary operator '%s' is not defined for type '%s'.", op, operand)
}

func (b *Bag) ReportUndefinedBinaryOperator(loc text.Location, op string, left, right fmt.Stringer) {
	b.report(E2020, loc, "Binary operator '%s' is not defined for types '%s' and '%s'.", op, left, right)
}

func (b *Bag) ReportParameterAlreadyDeclared(loc text.Location, name string) {
	b.report(E2006, loc, "A parameter with the name '%s' already exists.", name)
}

// ReportUndefinedVariable reports an unknown variable. The candidates are the
// names visible at the use site and feed the "did you mean" hint.
func (b *Bag) ReportUndefinedVariable(loc text.Location, name string, candidates []string) {
	d := b.report(E2001, loc, "Variable '%s' doesn't exist.", name)
	d.Hint = FormatSuggestions(SuggestSimilar(name, candidates))
}

func (b *Bag) ReportNotAVariable(loc text.Location, name string) {
	b.report(E2012, loc, "'%s' is not a variable.", name)
}

func (b *Bag) ReportUndefinedType(loc text.Location, name string) {
	b.report(E2011, loc, "Type '%s' doesn't exist.", name)
}

func (b *Bag) ReportCannotConvert(loc text.Location, from, to fmt.Stringer) {
	b.report(E2017, loc, "Cannot convert type '%s' to '%s'.", from, to)
}

func (b *Bag) ReportCannotConvertImplicitly(loc text.Location, from, to fmt.Stringer) {
	b.report(E2018, loc,
		"Cannot convert type '%s' to '%s'. An explicit conversion exists (are you missing a cast?)",
		from, to)
}

func (b *Bag) ReportSymbolAlreadyDeclared(loc text.Location, name string) {
	b.report(E2014, loc, "'%s' is already declared.", name)
}

func (b *Bag) ReportCannotAssign(loc text.Location, name string) {
	b.report(E2015, loc, "Variable '%s' is read-only and cannot be assigned to.", name)
}

// ReportUndefinedFunction reports an unknown function, with a hint drawn from
// candidates.
func (b *Bag) ReportUndefinedFunction(loc text.Location, name string, candidates []string) {
	d := b.report(E2002, loc, "Function '%s' doesn't exist.", name)
	d.Hint = FormatSuggestions(SuggestSimilar(name, candidates))
}

func (b *Bag) ReportNotAFunction(loc text.Location, name string) {
	b.report(E2013, loc, "'%s' is not a function.", name)
}

func (b *Bag) ReportWrongArgumentCount(loc text.Location, name string, expected, actual int) {
	b.report(E2016, loc, "Function '%s' requires %d arguments but was given %d.", name, expected, actual)
}

func (b *Bag) ReportExpressionMustHaveValue(loc text.Location) {
	b.report(E2021, loc, "Expression must have a value.")
}

func (b *Bag) ReportInvalidBreakOrContinue(loc text.Location, keyword string) {
	b.report(E2003, loc, "The keyword '%s' can only be used inside of loops.", keyword)
}

func (b *Bag) ReportAllPathsMustReturn(loc text.Location) {
	b.report(E2023, loc, "Not all code paths return a value.")
}

func (b *Bag) ReportInvalidReturnExpression(loc text.Location, function string) {
	b.report(E2005, loc,
		"Since the function '%s' does not return a value the 'return' keyword cannot be followed by an expression.",
		function)
}

func (b *Bag) ReportInvalidReturnWithValueInGlobalStatements(loc text.Location) {
	b.report(E2005, loc, "The 'return' keyword cannot be followed by an expression in global statements.")
}

func (b *Bag) ReportMissingReturnExpression(loc text.Location, returnType fmt.Stringer) {
	b.report(E2005, loc, "An expression of type '%s' is expected.", returnType)
}

func (b *Bag) ReportInvalidExpressionStatement(loc text.Location) {
	b.report(E2022, loc, "Only assignment and call expressions can be used as a statement.")
}

func (b *Bag) ReportOnlyOneFileCanHaveGlobalStatements(loc text.Location) {
	b.report(E2024, loc, "At most one file can have global statements.")
}

func (b *Bag) ReportMainMustHaveCorrectSignature(loc text.Location) {
	b.report(E2025, loc, "main must not take arguments and not return anything.")
}

func (b *Bag) ReportCannotMixMainAndGlobalStatements(loc text.Location) {
	b.report(E2026, loc, "Cannot declare main function when global statements are used.")
}

func (b *Bag) ReportUnreachableCode(loc text.Location) {
	b.warn(W2001, loc, "Unreachable code detected.")
}
