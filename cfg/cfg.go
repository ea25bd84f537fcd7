// Package cfg builds control-flow graphs over lowered function bodies.
//
// A body is split into basic blocks: a block starts at every label and
// after every goto, conditional goto and return. Branches connect the
// blocks, and blocks that nothing branches to are removed so that every
// block in a graph is reachable from Start.
package cfg

import (
	"fmt"
	"io"
	"strings"

	"github.com/risor-io/quill/bound"
	"github.com/risor-io/quill/symbols"
	"github.com/risor-io/quill/token"
)

// BasicBlock is a maximal run of statements with a single entry and exit.
type BasicBlock struct {
	IsStart    bool
	IsEnd      bool
	Statements []bound.Stmt
	Incoming   []*Branch
	Outgoing   []*Branch
}

func (b *BasicBlock) String() string {
	switch {
	case b.IsStart:
		return "<Start>"
	case b.IsEnd:
		return "<End>"
	}
	var sb strings.Builder
	for _, s := range b.Statements {
		bound.Print(&sb, s)
	}
	return sb.String()
}

// Branch is an edge between two blocks. Condition is nil for unconditional
// edges.
type Branch struct {
	From      *BasicBlock
	To        *BasicBlock
	Condition bound.Expr
}

func (b *Branch) String() string {
	if b.Condition == nil {
		return ""
	}
	return strings.TrimSuffix(bound.String(b.Condition), "\n")
}

// Graph is the control-flow graph of one function body. Blocks begins with
// Start and ends with End.
type Graph struct {
	Start    *BasicBlock
	End      *BasicBlock
	Blocks   []*BasicBlock
	Branches []*Branch
}

// Create builds the graph of a lowered body.
func Create(body *bound.BlockStatement) *Graph {
	b := &builder{
		start:     &BasicBlock{IsStart: true},
		end:       &BasicBlock{IsEnd: true},
		fromLabel: map[*bound.Label]*BasicBlock{},
	}
	return b.build(splitBlocks(body.Statements))
}

// AllPathsReturn reports whether every path through body ends in a return
// statement.
func AllPathsReturn(body *bound.BlockStatement) bool {
	g := Create(body)
	for _, branch := range g.End.Incoming {
		n := len(branch.From.Statements)
		if n == 0 {
			return false
		}
		if _, ok := branch.From.Statements[n-1].(*bound.ReturnStatement); !ok {
			return false
		}
	}
	return true
}

func splitBlocks(statements []bound.Stmt) []*BasicBlock {
	var blocks []*BasicBlock
	var current []bound.Stmt
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, &BasicBlock{Statements: current})
			current = nil
		}
	}
	for _, s := range statements {
		switch s.(type) {
		case *bound.LabelStatement:
			flush()
			current = append(current, s)
		case *bound.GotoStatement, *bound.ConditionalGotoStatement, *bound.ReturnStatement:
			current = append(current, s)
			flush()
		default:
			current = append(current, s)
		}
	}
	flush()
	return blocks
}

type builder struct {
	start     *BasicBlock
	end       *BasicBlock
	fromLabel map[*bound.Label]*BasicBlock
	branches  []*Branch
}

func (b *builder) build(blocks []*BasicBlock) *Graph {
	if len(blocks) == 0 {
		b.connect(b.start, b.end, nil)
	} else {
		b.connect(b.start, blocks[0], nil)
	}

	for _, block := range blocks {
		for _, s := range block.Statements {
			if ls, ok := s.(*bound.LabelStatement); ok {
				b.fromLabel[ls.Label] = block
			}
		}
	}

	for i, current := range blocks {
		next := b.end
		if i < len(blocks)-1 {
			next = blocks[i+1]
		}
		for j, s := range current.Statements {
			last := j == len(current.Statements)-1
			switch s := s.(type) {
			case *bound.GotoStatement:
				if to, ok := b.fromLabel[s.Label]; ok {
					b.connect(current, to, nil)
				}
			case *bound.ConditionalGotoStatement:
				then := b.fromLabel[s.Label]
				negated := negate(s.Condition)
				thenCondition, elseCondition := s.Condition, negated
				if !s.JumpIfTrue {
					thenCondition, elseCondition = negated, s.Condition
				}
				if then != nil {
					b.connect(current, then, thenCondition)
				}
				b.connect(current, next, elseCondition)
			case *bound.ReturnStatement:
				b.connect(current, b.end, nil)
			default:
				if last {
					b.connect(current, next, nil)
				}
			}
		}
	}

	// A dead loop keeps itself alive through its back edge, so blocks are
	// kept by reachability from start rather than by incoming edges.
	reachable := map[*BasicBlock]bool{}
	stack := []*BasicBlock{b.start}
	for len(stack) > 0 {
		block := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reachable[block] {
			continue
		}
		reachable[block] = true
		for _, branch := range block.Outgoing {
			stack = append(stack, branch.To)
		}
	}
	for _, block := range append([]*BasicBlock(nil), blocks...) {
		if !reachable[block] {
			blocks = b.remove(blocks, block)
		}
	}

	all := make([]*BasicBlock, 0, len(blocks)+2)
	all = append(all, b.start)
	all = append(all, blocks...)
	all = append(all, b.end)
	return &Graph{Start: b.start, End: b.end, Blocks: all, Branches: b.branches}
}

// connect adds a branch. A constant true condition makes the branch
// unconditional and a constant false one drops it.
func (b *builder) connect(from, to *BasicBlock, condition bound.Expr) {
	if condition != nil {
		if c := condition.ConstantValue(); c != nil {
			if !c.Bool() {
				return
			}
			condition = nil
		}
	}
	branch := &Branch{From: from, To: to, Condition: condition}
	from.Outgoing = append(from.Outgoing, branch)
	to.Incoming = append(to.Incoming, branch)
	b.branches = append(b.branches, branch)
}

func (b *builder) remove(blocks []*BasicBlock, block *BasicBlock) []*BasicBlock {
	for _, branch := range block.Incoming {
		branch.From.Outgoing = without(branch.From.Outgoing, branch)
		b.branches = without(b.branches, branch)
	}
	for _, branch := range block.Outgoing {
		branch.To.Incoming = without(branch.To.Incoming, branch)
		b.branches = without(b.branches, branch)
	}
	return without(blocks, block)
}

func without[T comparable](items []T, item T) []T {
	out := items[:0:0]
	for _, it := range items {
		if it != item {
			out = append(out, it)
		}
	}
	return out
}

func negate(condition bound.Expr) bound.Expr {
	if c := condition.ConstantValue(); c != nil {
		return bound.NewLiteralExpression(condition.Syntax(), !c.Bool())
	}
	op := bound.BindUnaryOperator(token.BangToken, symbols.TypeBool)
	return bound.NewUnaryExpression(condition.Syntax(), op, condition)
}

// WriteTo writes the graph in Graphviz DOT format.
func (g *Graph) WriteTo(w io.Writer) (int64, error) {
	ids := make(map[*BasicBlock]string, len(g.Blocks))
	for i, block := range g.Blocks {
		ids[block] = fmt.Sprintf("N%d", i)
	}

	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	for _, block := range g.Blocks {
		fmt.Fprintf(&sb, "    %s [label = %s, shape = box]\n", ids[block], quote(block.String()))
	}
	for _, branch := range g.Branches {
		fmt.Fprintf(&sb, "    %s -> %s [label = %s]\n", ids[branch.From], ids[branch.To], quote(branch.String()))
	}
	sb.WriteString("}\n")

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

func quote(s string) string {
	s = strings.TrimRight(s, " \t\r\n")
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\l`)
	return `"` + s + `"`
}
