// Package symbols defines the named entities the binder resolves: functions,
// variables, parameters and types.
//
// Symbols are compared by identity. Two variables with the same name in
// different scopes are different symbols.
package symbols

import (
	"fmt"
	"strings"

	"github.com/risor-io/quill/ast"
)

// Kind identifies the kind of a symbol.
type Kind int

const (
	KindFunction Kind = iota
	KindGlobalVariable
	KindLocalVariable
	KindParameter
	KindType
)

var kindNames = [...]string{
	KindFunction:       "function",
	KindGlobalVariable: "global variable",
	KindLocalVariable:  "local variable",
	KindParameter:      "parameter",
	KindType:           "type",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Symbol is a named entity.
type Symbol interface {
	Name() string
	Kind() Kind
	String() string
}

// Constant is a value known at compile time.
type Constant struct {
	Value any
}

// NewConstant returns a constant holding v.
func NewConstant(v any) *Constant {
	return &Constant{Value: v}
}

// Bool returns the constant as a boolean. It panics if the value is not a
// bool; the binder only produces boolean constants for boolean expressions.
func (c *Constant) Bool() bool {
	return c.Value.(bool)
}

// TypeSymbol is one of the built-in types. The set is closed.
type TypeSymbol struct {
	name string
}

var (
	// TypeError is the type of expressions that failed to bind.
	TypeError  = &TypeSymbol{name: "?"}
	TypeAny    = &TypeSymbol{name: "any"}
	TypeBool   = &TypeSymbol{name: "bool"}
	TypeInt    = &TypeSymbol{name: "int"}
	TypeString = &TypeSymbol{name: "string"}
	TypeVoid   = &TypeSymbol{name: "void"}
)

func (t *TypeSymbol) Name() string   { return t.name }
func (t *TypeSymbol) Kind() Kind     { return KindType }
func (t *TypeSymbol) String() string { return t.name }

// LookupType resolves a type name as written in source. Only any, bool,
// int and string can be named; void and the error type cannot.
func LookupType(name string) (*TypeSymbol, bool) {
	switch name {
	case "any":
		return TypeAny, true
	case "bool":
		return TypeBool, true
	case "int":
		return TypeInt, true
	case "string":
		return TypeString, true
	}
	return nil, false
}

// TypeOf returns the type of a runtime value, or nil if v is not a value of
// the language.
func TypeOf(v any) *TypeSymbol {
	switch v.(type) {
	case bool:
		return TypeBool
	case int32:
		return TypeInt
	case string:
		return TypeString
	}
	return nil
}

// VariableSymbol is implemented by global variables, local variables and
// parameters.
type VariableSymbol interface {
	Symbol
	Type() *TypeSymbol
	IsReadOnly() bool
	// Constant returns the compile-time value of a read-only variable with a
	// constant initializer, or nil.
	Constant() *Constant
	isVariable()
}

type variable struct {
	name     string
	readOnly bool
	typ      *TypeSymbol
	constant *Constant
}

func newVariable(name string, readOnly bool, typ *TypeSymbol, constant *Constant) variable {
	if !readOnly {
		constant = nil
	}
	return variable{name: name, readOnly: readOnly, typ: typ, constant: constant}
}

func (v *variable) Name() string        { return v.name }
func (v *variable) Type() *TypeSymbol   { return v.typ }
func (v *variable) IsReadOnly() bool    { return v.readOnly }
func (v *variable) Constant() *Constant { return v.constant }
func (v *variable) isVariable()         {}

func (v *variable) String() string {
	keyword := "var"
	if v.readOnly {
		keyword = "let"
	}
	return fmt.Sprintf("%s %s: %s", keyword, v.name, v.typ)
}

// GlobalVariableSymbol is a variable declared by a global statement. Its
// value lives in the caller-owned global store.
type GlobalVariableSymbol struct {
	variable
}

// NewGlobalVariable returns a global variable. The constant is only kept for
// read-only variables.
func NewGlobalVariable(name string, readOnly bool, typ *TypeSymbol, constant *Constant) *GlobalVariableSymbol {
	return &GlobalVariableSymbol{variable: newVariable(name, readOnly, typ, constant)}
}

func (v *GlobalVariableSymbol) Kind() Kind { return KindGlobalVariable }

// LocalVariableSymbol is a variable declared inside a function body. Its
// value lives in the current call frame.
type LocalVariableSymbol struct {
	variable
}

// NewLocalVariable returns a local variable. The constant is only kept for
// read-only variables.
func NewLocalVariable(name string, readOnly bool, typ *TypeSymbol, constant *Constant) *LocalVariableSymbol {
	return &LocalVariableSymbol{variable: newVariable(name, readOnly, typ, constant)}
}

func (v *LocalVariableSymbol) Kind() Kind { return KindLocalVariable }

// ParameterSymbol is a function parameter. Parameters are read-only locals.
type ParameterSymbol struct {
	variable
	ordinal int
}

// NewParameter returns the parameter at position ordinal.
func NewParameter(name string, typ *TypeSymbol, ordinal int) *ParameterSymbol {
	return &ParameterSymbol{variable: newVariable(name, true, typ, nil), ordinal: ordinal}
}

func (p *ParameterSymbol) Kind() Kind { return KindParameter }

// Ordinal returns the zero-based position of the parameter.
func (p *ParameterSymbol) Ordinal() int { return p.ordinal }

func (p *ParameterSymbol) String() string {
	return fmt.Sprintf("%s: %s", p.name, p.typ)
}

// FunctionSymbol is a declared or built-in function.
type FunctionSymbol struct {
	name        string
	parameters  []*ParameterSymbol
	typ         *TypeSymbol
	declaration *ast.FunctionDeclaration
	tree        *ast.Tree
}

// NewFunction returns a function symbol. Declaration and tree are nil for
// built-in and synthesized functions.
func NewFunction(name string, parameters []*ParameterSymbol, typ *TypeSymbol, declaration *ast.FunctionDeclaration, tree *ast.Tree) *FunctionSymbol {
	return &FunctionSymbol{
		name:        name,
		parameters:  parameters,
		typ:         typ,
		declaration: declaration,
		tree:        tree,
	}
}

func (f *FunctionSymbol) Name() string { return f.name }
func (f *FunctionSymbol) Kind() Kind   { return KindFunction }

// Parameters returns the function's parameters in order.
func (f *FunctionSymbol) Parameters() []*ParameterSymbol { return f.parameters }

// Type returns the return type. Functions without a return type clause
// return void.
func (f *FunctionSymbol) Type() *TypeSymbol { return f.typ }

// Declaration returns the syntax that declared the function, if any.
func (f *FunctionSymbol) Declaration() *ast.FunctionDeclaration { return f.declaration }

// Tree returns the syntax tree containing the declaration, if any.
func (f *FunctionSymbol) Tree() *ast.Tree { return f.tree }

func (f *FunctionSymbol) String() string {
	var b strings.Builder
	b.WriteString("function ")
	b.WriteString(f.name)
	b.WriteByte('(')
	for i, p := range f.parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	if f.typ != TypeVoid {
		b.WriteString(": ")
		b.WriteString(f.typ.String())
	}
	return b.String()
}
