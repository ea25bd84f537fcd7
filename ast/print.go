package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/risor-io/quill/token"
)

// Print writes an indented rendering of the tree rooted at node to w.
// Tokens show their text, and trivia appear as "L:" (leading) and "T:"
// (trailing) entries next to the token that owns them.
func Print(w io.Writer, node Node) error {
	p := &printer{w: w}
	p.node(node, "", true)
	return p.err
}

// String returns the Print rendering of node.
func String(node Node) string {
	var b strings.Builder
	Print(&b, node)
	return b.String()
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) node(n Node, indent string, isLast bool) {
	tok, _ := n.(*Token)
	if tok != nil {
		for _, tr := range tok.leading {
			p.printf("%s├──L: %s\n", indent, tr.Kind)
		}
	}
	hasTrailing := tok != nil && len(tok.trailing) > 0
	marker := "├──"
	if isLast && !hasTrailing {
		marker = "└──"
	}
	p.printf("%s%s%s", indent, marker, n.Kind())
	if tok != nil {
		switch {
		case tok.missing:
			p.printf(" (missing)")
		case tok.kind == token.StringToken:
			p.printf(" %q", tok.text)
		case tok.text != "" && token.Text(tok.kind) == "":
			p.printf(" %s", tok.text)
		}
	}
	p.printf("\n")
	if tok != nil {
		for i, tr := range tok.trailing {
			marker := "├──"
			if isLast && i == len(tok.trailing)-1 {
				marker = "└──"
			}
			p.printf("%s%sT: %s\n", indent, marker, tr.Kind)
		}
	}
	if isLast {
		indent += "    "
	} else {
		indent += "│   "
	}
	kids := n.Children()
	for i, child := range kids {
		p.node(child, indent, i == len(kids)-1)
	}
}
