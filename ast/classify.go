package ast

import (
	"github.com/risor-io/quill/text"
	"github.com/risor-io/quill/token"
)

// Classification is a syntax highlighting category.
type Classification int

const (
	ClassText Classification = iota
	ClassKeyword
	ClassIdentifier
	ClassNumber
	ClassString
	ClassComment
)

var classNames = [...]string{
	ClassText:       "text",
	ClassKeyword:    "keyword",
	ClassIdentifier: "identifier",
	ClassNumber:     "number",
	ClassString:     "string",
	ClassComment:    "comment",
}

func (c Classification) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// ClassifiedSpan is a span of source text and its category.
type ClassifiedSpan struct {
	Span           text.Span
	Classification Classification
}

// Classify returns the classified spans of the tree that overlap span, in
// source order. Spans are clipped to span. The tree is not modified.
func Classify(tree *Tree, span text.Span) []ClassifiedSpan {
	var out []ClassifiedSpan
	add := func(s text.Span, c Classification) {
		if !s.OverlapsWith(span) {
			return
		}
		start := max(s.Start, span.Start)
		end := min(s.End(), span.End())
		out = append(out, ClassifiedSpan{Span: text.SpanFromBounds(start, end), Classification: c})
	}
	Inspect(tree.Root(), func(n Node) bool {
		if !n.FullSpan().OverlapsWith(span) {
			return false
		}
		tok, ok := n.(*Token)
		if !ok {
			return true
		}
		for _, tr := range tok.leading {
			add(tr.Span(), classifyTrivia(tr.Kind))
		}
		add(tok.Span(), classifyToken(tok.kind))
		for _, tr := range tok.trailing {
			add(tr.Span(), classifyTrivia(tr.Kind))
		}
		return false
	})
	return out
}

func classifyTrivia(kind token.Kind) Classification {
	if kind.IsComment() {
		return ClassComment
	}
	return ClassText
}

func classifyToken(kind token.Kind) Classification {
	switch {
	case kind.IsKeyword():
		return ClassKeyword
	case kind == token.IdentifierToken:
		return ClassIdentifier
	case kind == token.NumberToken:
		return ClassNumber
	case kind == token.StringToken:
		return ClassString
	default:
		return ClassText
	}
}
