// Package ast defines the concrete syntax tree of Quill source code.
//
// The tree is full fidelity: every token carries its leading and trailing
// trivia, so concatenating the tokens of a tree reproduces the source text
// exactly. Nodes are immutable once the parser returns them. Children are
// enumerated explicitly per node kind.
package ast

import (
	"strings"

	"github.com/risor-io/quill/text"
	"github.com/risor-io/quill/token"
)

// Node represents a portion of the syntax tree.
type Node interface {
	// Kind returns the syntax kind of the node.
	Kind() token.Kind

	// Span returns the range of the node's text excluding leading trivia of
	// its first token and trailing trivia of its last token.
	Span() text.Span

	// FullSpan returns the range of the node's text including all trivia.
	FullSpan() text.Span

	// Children returns the node's direct children in source order.
	// Absent optional children are omitted.
	Children() []Node
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Member represents a top-level member of a compilation unit.
type Member interface {
	Node
	memberNode()
}

// Trivia is text attached to a token that carries no meaning: whitespace,
// line breaks, comments and skipped bad characters.
type Trivia struct {
	Kind     token.Kind
	Position int
	Text     string
}

// Span returns the trivia's range in the source text.
func (t Trivia) Span() text.Span {
	return text.NewSpan(t.Position, len(t.Text))
}

// Token is a leaf of the syntax tree.
type Token struct {
	kind     token.Kind
	position int
	text     string
	value    any
	leading  []Trivia
	trailing []Trivia
	missing  bool
}

// NewToken returns a token with the given text and trivia.
func NewToken(kind token.Kind, position int, txt string, value any, leading, trailing []Trivia) *Token {
	return &Token{
		kind:     kind,
		position: position,
		text:     txt,
		value:    value,
		leading:  leading,
		trailing: trailing,
	}
}

// NewMissingToken returns a zero-width token fabricated by the parser in
// place of one it expected but did not find.
func NewMissingToken(kind token.Kind, position int) *Token {
	return &Token{kind: kind, position: position, missing: true}
}

func (t *Token) Kind() token.Kind { return t.kind }

// Position returns the offset of the token's text.
func (t *Token) Position() int { return t.position }

// Text returns the token's text. Missing tokens have empty text.
func (t *Token) Text() string { return t.text }

// Value returns the literal value of number and string tokens.
func (t *Token) Value() any { return t.value }

// Leading returns the trivia preceding the token.
func (t *Token) Leading() []Trivia { return t.leading }

// Trailing returns the trivia following the token on the same line.
func (t *Token) Trailing() []Trivia { return t.trailing }

// IsMissing reports whether the parser fabricated this token.
func (t *Token) IsMissing() bool { return t.missing }

func (t *Token) Span() text.Span {
	return text.NewSpan(t.position, len(t.text))
}

func (t *Token) FullSpan() text.Span {
	start, end := t.position, t.position+len(t.text)
	if len(t.leading) > 0 {
		start = t.leading[0].Position
	}
	if n := len(t.trailing); n > 0 {
		end = t.trailing[n-1].Span().End()
	}
	return text.SpanFromBounds(start, end)
}

func (t *Token) Children() []Node { return nil }

// WithLeading returns a copy of the token with different leading trivia.
func (t *Token) WithLeading(leading []Trivia) *Token {
	c := *t
	c.leading = leading
	return &c
}

// FullText returns the token's leading trivia, text and trailing trivia.
func (t *Token) FullText() string {
	var b strings.Builder
	for _, tr := range t.leading {
		b.WriteString(tr.Text)
	}
	b.WriteString(t.text)
	for _, tr := range t.trailing {
		b.WriteString(tr.Text)
	}
	return b.String()
}

func (t *Token) String() string {
	return t.text
}

// SeparatedList is a list of nodes with separator tokens between them.
type SeparatedList[T Node] struct {
	nodesAndSeparators []Node
}

// NewSeparatedList builds a list from alternating nodes and separators.
func NewSeparatedList[T Node](nodesAndSeparators []Node) SeparatedList[T] {
	return SeparatedList[T]{nodesAndSeparators: nodesAndSeparators}
}

// Len returns the number of nodes, not counting separators.
func (l SeparatedList[T]) Len() int {
	return (len(l.nodesAndSeparators) + 1) / 2
}

// At returns the i-th node.
func (l SeparatedList[T]) At(i int) T {
	return l.nodesAndSeparators[i*2].(T)
}

// Separator returns the separator following the i-th node, or nil for the
// last node.
func (l SeparatedList[T]) Separator(i int) *Token {
	if i*2+1 >= len(l.nodesAndSeparators) {
		return nil
	}
	return l.nodesAndSeparators[i*2+1].(*Token)
}

// Items returns the nodes without separators.
func (l SeparatedList[T]) Items() []T {
	items := make([]T, 0, l.Len())
	for i := 0; i < l.Len(); i++ {
		items = append(items, l.At(i))
	}
	return items
}

// WithSeparators returns nodes and separators in source order.
func (l SeparatedList[T]) WithSeparators() []Node {
	return l.nodesAndSeparators
}

func spanOf(n Node) text.Span {
	kids := n.Children()
	if len(kids) == 0 {
		return text.Span{}
	}
	first := kids[0].Span()
	last := kids[len(kids)-1].Span()
	return text.SpanFromBounds(first.Start, last.End())
}

func fullSpanOf(n Node) text.Span {
	kids := n.Children()
	if len(kids) == 0 {
		return text.Span{}
	}
	first := kids[0].FullSpan()
	last := kids[len(kids)-1].FullSpan()
	return text.SpanFromBounds(first.Start, last.End())
}

// FirstToken returns the first token of n in source order.
func FirstToken(n Node) *Token {
	if t, ok := n.(*Token); ok {
		return t
	}
	for _, c := range n.Children() {
		if t := FirstToken(c); t != nil {
			return t
		}
	}
	return nil
}

// LastToken returns the last token of n in source order.
func LastToken(n Node) *Token {
	if t, ok := n.(*Token); ok {
		return t
	}
	kids := n.Children()
	for i := len(kids) - 1; i >= 0; i-- {
		if t := LastToken(kids[i]); t != nil {
			return t
		}
	}
	return nil
}
