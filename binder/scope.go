package binder

import (
	"github.com/risor-io/quill/bound"
	"github.com/risor-io/quill/symbols"
)

// Scope maps names to symbols. Lookups fall back to the parent scope.
type Scope struct {
	parent  *Scope
	symbols map[string]symbols.Symbol
	order   []symbols.Symbol
}

// NewScope returns an empty scope nested in parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, symbols: map[string]symbols.Symbol{}}
}

// Parent returns the enclosing scope, or nil for the root.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// TryDeclareVariable declares v unless this scope already has a symbol
// with the same name.
func (s *Scope) TryDeclareVariable(v symbols.VariableSymbol) bool {
	return s.declare(v)
}

// TryDeclareFunction declares f unless this scope already has a symbol
// with the same name.
func (s *Scope) TryDeclareFunction(f *symbols.FunctionSymbol) bool {
	return s.declare(f)
}

func (s *Scope) declare(sym symbols.Symbol) bool {
	if _, exists := s.symbols[sym.Name()]; exists {
		return false
	}
	s.symbols[sym.Name()] = sym
	s.order = append(s.order, sym)
	return true
}

// Lookup resolves name in this scope or the nearest enclosing scope.
func (s *Scope) Lookup(name string) (symbols.Symbol, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if sym, ok := scope.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Variables returns the variables declared directly in this scope, in
// declaration order.
func (s *Scope) Variables() []symbols.VariableSymbol {
	var out []symbols.VariableSymbol
	for _, sym := range s.order {
		if v, ok := sym.(symbols.VariableSymbol); ok {
			out = append(out, v)
		}
	}
	return out
}

// Functions returns the functions declared directly in this scope, in
// declaration order.
func (s *Scope) Functions() []*symbols.FunctionSymbol {
	var out []*symbols.FunctionSymbol
	for _, sym := range s.order {
		if f, ok := sym.(*symbols.FunctionSymbol); ok {
			out = append(out, f)
		}
	}
	return out
}

// visibleNames returns the names of every symbol visible from s that
// satisfies keep. Shadowed names are listed once.
func (s *Scope) visibleNames(keep func(symbols.Symbol) bool) []string {
	seen := map[string]bool{}
	var names []string
	for scope := s; scope != nil; scope = scope.parent {
		for _, sym := range scope.order {
			if seen[sym.Name()] || !keep(sym) {
				continue
			}
			seen[sym.Name()] = true
			names = append(names, sym.Name())
		}
	}
	return names
}

func rootScope() *Scope {
	scope := NewScope(nil)
	for _, f := range symbols.Builtins() {
		scope.TryDeclareFunction(f)
	}
	return scope
}

// parentScope rebuilds the scope chain of earlier submissions on top of the
// built-ins, oldest first, so that later declarations shadow earlier ones.
func parentScope(previous *bound.GlobalScope) *Scope {
	var chain []*bound.GlobalScope
	for ; previous != nil; previous = previous.Previous {
		chain = append(chain, previous)
	}
	parent := rootScope()
	for i := len(chain) - 1; i >= 0; i-- {
		scope := NewScope(parent)
		for _, f := range chain[i].Functions {
			scope.TryDeclareFunction(f)
		}
		for _, v := range chain[i].Variables {
			scope.TryDeclareVariable(v)
		}
		parent = scope
	}
	return parent
}
