package bound

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/risor-io/quill/token"
)

const indentUnit = "    "

// Print writes node to w in a source-like form. Lowered trees print their
// labels and gotos:
//
//	{
//	    var x = 0
//	Label1:
//	    goto Label2 unless x < 10
//	    ...
//	}
func Print(w io.Writer, node Node) error {
	bw := bufio.NewWriter(w)
	p := &printer{w: bw}
	if s, ok := node.(Stmt); ok {
		p.statement(s)
	} else {
		p.expression(node.(Expr))
		p.newline()
	}
	return bw.Flush()
}

// String returns the printed form of node.
func String(node Node) string {
	var b strings.Builder
	Print(&b, node)
	return b.String()
}

type printer struct {
	w           *bufio.Writer
	indent      int
	startOfLine bool
}

func (p *printer) write(s string) {
	if p.startOfLine {
		p.w.WriteString(strings.Repeat(indentUnit, p.indent))
		p.startOfLine = false
	}
	p.w.WriteString(s)
}

func (p *printer) newline() {
	p.w.WriteByte('\n')
	p.startOfLine = true
}

func (p *printer) nested(s Stmt) {
	if _, ok := s.(*BlockStatement); ok {
		p.statement(s)
		return
	}
	p.indent++
	p.statement(s)
	p.indent--
}

func (p *printer) statement(s Stmt) {
	switch s := s.(type) {
	case *BlockStatement:
		p.write("{")
		p.newline()
		p.indent++
		for _, st := range s.Statements {
			p.statement(st)
		}
		p.indent--
		p.write("}")
		p.newline()
	case *VariableDeclaration:
		if s.Variable.IsReadOnly() {
			p.write("let ")
		} else {
			p.write("var ")
		}
		p.write(s.Variable.Name())
		p.write(" = ")
		p.expression(s.Initializer)
		p.newline()
	case *IfStatement:
		p.write("if ")
		p.expression(s.Condition)
		p.newline()
		p.nested(s.Then)
		if s.Else != nil {
			p.write("else")
			p.newline()
			p.nested(s.Else)
		}
	case *WhileStatement:
		p.write("while ")
		p.expression(s.Condition)
		p.newline()
		p.nested(s.Body)
	case *DoWhileStatement:
		p.write("do")
		p.newline()
		p.nested(s.Body)
		p.write("while ")
		p.expression(s.Condition)
		p.newline()
	case *ForStatement:
		p.write("for ")
		p.write(s.Variable.Name())
		p.write(" = ")
		p.expression(s.Lower)
		p.write(" to ")
		p.expression(s.Upper)
		p.newline()
		p.nested(s.Body)
	case *LabelStatement:
		// Labels are outdented one level so they stand out.
		unindent := p.indent > 0
		if unindent {
			p.indent--
		}
		p.write(s.Label.Name)
		p.write(":")
		p.newline()
		if unindent {
			p.indent++
		}
	case *GotoStatement:
		p.write("goto ")
		p.write(s.Label.Name)
		p.newline()
	case *ConditionalGotoStatement:
		p.write("goto ")
		p.write(s.Label.Name)
		if s.JumpIfTrue {
			p.write(" if ")
		} else {
			p.write(" unless ")
		}
		p.expression(s.Condition)
		p.newline()
	case *ReturnStatement:
		p.write("return")
		if s.Expression != nil {
			p.write(" ")
			p.expression(s.Expression)
		}
		p.newline()
	case *ExpressionStatement:
		p.expression(s.Expression)
		p.newline()
	default:
		panic(fmt.Sprintf("bound: unexpected statement %T", s))
	}
}

func (p *printer) expression(e Expr) {
	switch e := e.(type) {
	case *ErrorExpression:
		p.write("?")
	case *LiteralExpression:
		p.write(FormatValue(e.Value))
	case *VariableExpression:
		p.write(e.Variable.Name())
	case *AssignmentExpression:
		p.write(e.Variable.Name())
		p.write(" = ")
		p.expression(e.Expression)
	case *CompoundAssignmentExpression:
		p.write(e.Variable.Name())
		p.write(" ")
		p.write(token.Text(e.Op.SyntaxKind))
		p.write("= ")
		p.expression(e.Expression)
	case *UnaryExpression:
		precedence := token.UnaryPrecedence(e.Op.SyntaxKind)
		p.write(token.Text(e.Op.SyntaxKind))
		p.nestedExpression(precedence, e.Operand)
	case *BinaryExpression:
		precedence := token.BinaryPrecedence(e.Op.SyntaxKind)
		p.nestedExpression(precedence, e.Left)
		p.write(" ")
		p.write(token.Text(e.Op.SyntaxKind))
		p.write(" ")
		p.nestedExpression(precedence, e.Right)
	case *CallExpression:
		p.write(e.Function.Name())
		p.write("(")
		for i, arg := range e.Arguments {
			if i > 0 {
				p.write(", ")
			}
			p.expression(arg)
		}
		p.write(")")
	case *ConversionExpression:
		p.write(e.Type().Name())
		p.write("(")
		p.expression(e.Expression)
		p.write(")")
	default:
		panic(fmt.Sprintf("bound: unexpected expression %T", e))
	}
}

// nestedExpression parenthesizes e when it binds no tighter than its parent.
func (p *printer) nestedExpression(parent int, e Expr) {
	current := -1
	switch e := e.(type) {
	case *UnaryExpression:
		current = token.UnaryPrecedence(e.Op.SyntaxKind)
	case *BinaryExpression:
		current = token.BinaryPrecedence(e.Op.SyntaxKind)
	}
	if current >= 0 && parent >= current {
		p.write("(")
		p.expression(e)
		p.write(")")
		return
	}
	p.expression(e)
}

// FormatValue renders a runtime value as a literal.
func FormatValue(v any) string {
	switch v := v.(type) {
	case bool:
		return strconv.FormatBool(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case string:
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
