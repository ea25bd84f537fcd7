package ast

import (
	"strings"

	"github.com/risor-io/quill/errors"
	"github.com/risor-io/quill/internal/lazy"
	"github.com/risor-io/quill/text"
)

// Tree is a parsed source file: the text, the root node and the
// diagnostics reported while lexing and parsing it.
type Tree struct {
	text        *text.SourceText
	root        *CompilationUnit
	diagnostics errors.Diagnostics
	parents     lazy.Value[map[Node]Node]
}

// NewTree returns a tree over an already parsed compilation unit.
func NewTree(src *text.SourceText, root *CompilationUnit, diagnostics errors.Diagnostics) *Tree {
	return &Tree{text: src, root: root, diagnostics: diagnostics}
}

// Text returns the source text the tree was parsed from.
func (t *Tree) Text() *text.SourceText { return t.text }

// Root returns the compilation unit.
func (t *Tree) Root() *CompilationUnit { return t.root }

// Diagnostics returns the lexer and parser diagnostics.
func (t *Tree) Diagnostics() errors.Diagnostics { return t.diagnostics }

// Location returns a location within the tree's source text.
func (t *Tree) Location(span text.Span) text.Location {
	return text.Location{Text: t.text, Span: span}
}

// Parent returns the parent of n, or nil for the root and for nodes that do
// not belong to this tree. The child to parent index is built on first use.
func (t *Tree) Parent(n Node) Node {
	return (*t.parents.Get(t.buildParents))[n]
}

// Ancestors returns the parents of n from the nearest outward.
func (t *Tree) Ancestors(n Node) []Node {
	var out []Node
	for p := t.Parent(n); p != nil; p = t.Parent(p) {
		out = append(out, p)
	}
	return out
}

func (t *Tree) buildParents() *map[Node]Node {
	index := map[Node]Node{}
	var visit func(parent Node)
	visit = func(parent Node) {
		for _, child := range parent.Children() {
			index[child] = parent
			visit(child)
		}
	}
	visit(t.root)
	return &index
}

// Tokens returns every token of the tree in source order, including the end
// of file token.
func (t *Tree) Tokens() []*Token {
	var tokens []*Token
	for n := range Preorder(t.root) {
		if tok, ok := n.(*Token); ok {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// FullText concatenates the full text of every token. For any tree produced
// by the parser this equals the original source text.
func (t *Tree) FullText() string {
	var b strings.Builder
	for _, tok := range t.Tokens() {
		b.WriteString(tok.FullText())
	}
	return b.String()
}
