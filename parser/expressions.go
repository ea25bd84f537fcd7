package parser

import (
	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/token"
)

// parseExpression parses an assignment or, failing that, a binary
// expression. Assignment has the lowest precedence and is right associative.
func (p *Parser) parseExpression() ast.Expr {
	if !p.enter() {
		return p.missingName()
	}
	defer p.leave()

	if p.peek(0).Kind() == token.IdentifierToken && token.IsAssignmentOperator(p.peek(1).Kind()) {
		identifier := p.nextToken()
		operator := p.nextToken()
		right := p.parseExpression()
		return &ast.AssignmentExpression{Identifier: identifier, Operator: operator, Expression: right}
	}
	return p.parseBinaryExpression(0)
}

// parseBinaryExpression implements precedence climbing. Operators bind
// left to right: an operator whose precedence is not higher than
// parentPrecedence ends the current operand.
func (p *Parser) parseBinaryExpression(parentPrecedence int) ast.Expr {
	if !p.enter() {
		return p.missingName()
	}
	defer p.leave()

	var left ast.Expr
	unary := token.UnaryPrecedence(p.current().Kind())
	if unary != 0 && unary >= parentPrecedence {
		operator := p.nextToken()
		operand := p.parseBinaryExpression(unary)
		left = &ast.UnaryExpression{Operator: operator, Operand: operand}
	} else {
		left = p.parsePrimaryExpression()
	}

	for {
		precedence := token.BinaryPrecedence(p.current().Kind())
		if precedence == 0 || precedence <= parentPrecedence {
			break
		}
		operator := p.nextToken()
		right := p.parseBinaryExpression(precedence)
		left = &ast.BinaryExpression{Left: left, Operator: operator, Right: right}
		if p.tooDeep {
			break
		}
	}
	return left
}

func (p *Parser) parsePrimaryExpression() ast.Expr {
	switch p.current().Kind() {
	case token.OpenParenthesisToken:
		return p.parseParenthesizedExpression()
	case token.TrueKeyword, token.FalseKeyword:
		return p.parseBooleanLiteral()
	case token.NumberToken:
		tok := p.matchToken(token.NumberToken)
		return &ast.LiteralExpression{Literal: tok, Value: tok.Value()}
	case token.StringToken:
		tok := p.matchToken(token.StringToken)
		return &ast.LiteralExpression{Literal: tok, Value: tok.Value()}
	default:
		return p.parseNameOrCallExpression()
	}
}

func (p *Parser) parseParenthesizedExpression() *ast.ParenthesizedExpression {
	expr := &ast.ParenthesizedExpression{}
	expr.OpenParen = p.matchToken(token.OpenParenthesisToken)
	expr.Expression = p.parseExpression()
	expr.CloseParen = p.matchToken(token.CloseParenthesisToken)
	return expr
}

func (p *Parser) parseBooleanLiteral() *ast.LiteralExpression {
	isTrue := p.current().Kind() == token.TrueKeyword
	var keyword *ast.Token
	if isTrue {
		keyword = p.matchToken(token.TrueKeyword)
	} else {
		keyword = p.matchToken(token.FalseKeyword)
	}
	return &ast.LiteralExpression{Literal: keyword, Value: isTrue}
}

func (p *Parser) parseNameOrCallExpression() ast.Expr {
	if p.peek(0).Kind() == token.IdentifierToken && p.peek(1).Kind() == token.OpenParenthesisToken {
		return p.parseCallExpression()
	}
	return &ast.NameExpression{Identifier: p.matchToken(token.IdentifierToken)}
}

func (p *Parser) parseCallExpression() *ast.CallExpression {
	call := &ast.CallExpression{}
	call.Identifier = p.matchToken(token.IdentifierToken)
	call.OpenParen = p.matchToken(token.OpenParenthesisToken)
	call.Arguments = p.parseArguments()
	call.CloseParen = p.matchToken(token.CloseParenthesisToken)
	return call
}

func (p *Parser) parseArguments() ast.SeparatedList[ast.Expr] {
	var nodes []ast.Node
	for p.continuesList() {
		nodes = append(nodes, p.parseExpression())
		if p.current().Kind() != token.CommaToken {
			break
		}
		nodes = append(nodes, p.matchToken(token.CommaToken))
	}
	return ast.NewSeparatedList[ast.Expr](nodes)
}
