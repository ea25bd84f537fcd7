package parser

import (
	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/token"
)

func (p *Parser) parseStatement() ast.Stmt {
	if !p.enter() {
		return &ast.ExpressionStatement{Expression: p.missingName()}
	}
	defer p.leave()

	switch p.current().Kind() {
	case token.OpenBraceToken:
		return p.parseBlockStatement()
	case token.LetKeyword, token.VarKeyword:
		return p.parseVariableDeclaration()
	case token.IfKeyword:
		return p.parseIfStatement()
	case token.WhileKeyword:
		return p.parseWhileStatement()
	case token.DoKeyword:
		return p.parseDoWhileStatement()
	case token.ForKeyword:
		return p.parseForStatement()
	case token.BreakKeyword:
		return &ast.BreakStatement{Keyword: p.matchToken(token.BreakKeyword)}
	case token.ContinueKeyword:
		return &ast.ContinueStatement{Keyword: p.matchToken(token.ContinueKeyword)}
	case token.ReturnKeyword:
		return p.parseReturnStatement()
	default:
		return &ast.ExpressionStatement{Expression: p.parseExpression()}
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{}
	block.OpenBrace = p.matchToken(token.OpenBraceToken)
	for {
		kind := p.current().Kind()
		if kind == token.EndOfFileToken || kind == token.CloseBraceToken {
			break
		}
		start := p.current()
		block.Statements = append(block.Statements, p.parseStatement())
		if p.current() == start {
			p.skipToken()
		}
	}
	block.CloseBrace = p.matchToken(token.CloseBraceToken)
	return block
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	expected := token.VarKeyword
	if p.current().Kind() == token.LetKeyword {
		expected = token.LetKeyword
	}
	decl := &ast.VariableDeclaration{}
	decl.Keyword = p.matchToken(expected)
	decl.Identifier = p.matchToken(token.IdentifierToken)
	decl.TypeClause = p.parseOptionalTypeClause()
	decl.Equals = p.matchToken(token.EqualsToken)
	decl.Initializer = p.parseExpression()
	return decl
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{}
	stmt.IfKeyword = p.matchToken(token.IfKeyword)
	stmt.Condition = p.parseExpression()
	stmt.Then = p.parseStatement()
	if p.current().Kind() == token.ElseKeyword {
		keyword := p.nextToken()
		stmt.Else = &ast.ElseClause{ElseKeyword: keyword, Statement: p.parseStatement()}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{}
	stmt.WhileKeyword = p.matchToken(token.WhileKeyword)
	stmt.Condition = p.parseExpression()
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseDoWhileStatement() *ast.DoWhileStatement {
	stmt := &ast.DoWhileStatement{}
	stmt.DoKeyword = p.matchToken(token.DoKeyword)
	stmt.Body = p.parseStatement()
	stmt.WhileKeyword = p.matchToken(token.WhileKeyword)
	stmt.Condition = p.parseExpression()
	return stmt
}

func (p *Parser) parseForStatement() *ast.ForStatement {
	stmt := &ast.ForStatement{}
	stmt.ForKeyword = p.matchToken(token.ForKeyword)
	stmt.Identifier = p.matchToken(token.IdentifierToken)
	stmt.Equals = p.matchToken(token.EqualsToken)
	stmt.Lower = p.parseExpression()
	stmt.ToKeyword = p.matchToken(token.ToKeyword)
	stmt.Upper = p.parseExpression()
	stmt.Body = p.parseStatement()
	return stmt
}

// parseReturnStatement binds an expression only when one starts on the same
// line as the return keyword. A closing brace on that line ends the
// statement as well, so "{ return }" is a bare return.
func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{}
	stmt.ReturnKeyword = p.matchToken(token.ReturnKeyword)
	cur := p.current()
	switch {
	case cur.Kind() == token.EndOfFileToken, cur.Kind() == token.CloseBraceToken:
	case p.src.LineIndex(stmt.ReturnKeyword.Position()) != p.src.LineIndex(cur.Position()):
	default:
		stmt.Expression = p.parseExpression()
	}
	return stmt
}
