// Package parser builds the concrete syntax tree for Quill source code.
//
// Parsing never fails. Unexpected input is reported as a diagnostic and the
// parser recovers by fabricating missing tokens or by skipping tokens, which
// are kept as trivia so the tree still reproduces the source text exactly.
package parser

import (
	"os"

	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/errors"
	"github.com/risor-io/quill/internal/lexer"
	"github.com/risor-io/quill/text"
	"github.com/risor-io/quill/token"
)

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name used in diagnostic locations.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// Parse parses input and returns the syntax tree.
func Parse(input string, options ...Option) *ast.Tree {
	p := &Parser{maxDepth: DefaultMaxDepth}
	for _, opt := range options {
		opt(p)
	}
	return ParseText(text.New(input, p.filename), options...)
}

// ParseText parses an existing source text. A WithFilename option is ignored
// since the text already carries its file name.
func ParseText(src *text.SourceText, options ...Option) *ast.Tree {
	return New(src, options...).Parse()
}

// ParseFile reads and parses the named file.
func ParseFile(filename string, options ...Option) (*ast.Tree, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseText(text.New(string(data), filename), options...), nil
}

// Tokenize lexes input and returns its tokens, excluding the end of file
// token. Bad tokens are returned as they are, without being folded into
// trivia.
func Tokenize(input string) ([]*ast.Token, errors.Diagnostics) {
	l := lexer.New(text.New(input, ""))
	var tokens []*ast.Token
	for {
		tok := l.Lex()
		if tok.Kind() == token.EndOfFileToken {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens, l.Diagnostics()
}

// Parser turns the token stream of one source text into a syntax tree.
// A Parser should be used only once.
type Parser struct {
	src      *text.SourceText
	filename string
	tokens   []*ast.Token
	position int
	diags    errors.Bag

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int

	// Set once the depth limit is hit. From then on the remaining input is
	// skipped without further diagnostics.
	tooDeep bool
}

// New returns a Parser for src. All tokens are read from the lexer up front;
// bad tokens are folded into the leading trivia of the next good token.
func New(src *text.SourceText, options ...Option) *Parser {
	p := &Parser{src: src, maxDepth: DefaultMaxDepth}
	for _, opt := range options {
		opt(p)
	}
	l := lexer.New(src)
	var bad []*ast.Token
	for {
		tok := l.Lex()
		if tok.Kind() == token.BadToken {
			bad = append(bad, tok)
			continue
		}
		if len(bad) > 0 {
			tok = tok.WithLeading(append(skippedTrivia(bad), tok.Leading()...))
			bad = nil
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind() == token.EndOfFileToken {
			break
		}
	}
	p.diags.Add(l.Diagnostics()...)
	return p
}

// skippedTrivia converts tokens into trivia: each token's own trivia is kept
// and its text becomes a SkippedTextTrivia entry.
func skippedTrivia(tokens []*ast.Token) []ast.Trivia {
	var trivia []ast.Trivia
	for _, tok := range tokens {
		trivia = append(trivia, tok.Leading()...)
		if tok.Text() != "" {
			trivia = append(trivia, ast.Trivia{
				Kind:     token.SkippedTextTrivia,
				Position: tok.Position(),
				Text:     tok.Text(),
			})
		}
		trivia = append(trivia, tok.Trailing()...)
	}
	return trivia
}

// Parse parses the whole input.
func (p *Parser) Parse() *ast.Tree {
	unit := p.parseCompilationUnit()
	return ast.NewTree(p.src, unit, p.diags.All())
}

func (p *Parser) peek(offset int) *ast.Token {
	index := p.position + offset
	if index >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[index]
}

func (p *Parser) current() *ast.Token {
	return p.peek(0)
}

func (p *Parser) nextToken() *ast.Token {
	cur := p.current()
	if p.position < len(p.tokens)-1 {
		p.position++
	}
	return cur
}

// skipToken drops the current token from the token stream, moving it into
// the leading trivia of the token that follows. The end of file token is
// never skipped.
func (p *Parser) skipToken() {
	cur := p.current()
	if cur.Kind() == token.EndOfFileToken {
		return
	}
	next := p.tokens[p.position+1]
	trivia := skippedTrivia([]*ast.Token{cur})
	p.tokens[p.position+1] = next.WithLeading(append(trivia, next.Leading()...))
	p.position++
}

func (p *Parser) location(span text.Span) text.Location {
	return text.Location{Text: p.src, Span: span}
}

// matchToken consumes the current token if it has the expected kind.
// Otherwise it reports the mismatch and returns a zero-width missing token
// of the expected kind without consuming anything.
func (p *Parser) matchToken(kind token.Kind) *ast.Token {
	cur := p.current()
	if cur.Kind() == kind {
		return p.nextToken()
	}
	if !p.tooDeep {
		p.diags.ReportUnexpectedToken(p.location(cur.Span()), cur.Kind(), kind)
	}
	return ast.NewMissingToken(kind, cur.Position())
}

// enter tracks recursion depth. It returns false when the nesting limit has
// been reached, in which case the caller must not recurse further.
func (p *Parser) enter() bool {
	if p.tooDeep {
		return false
	}
	p.depth++
	if p.depth > p.maxDepth {
		p.depth--
		p.tooDeep = true
		cur := p.current()
		p.diags.ReportMaxDepthExceeded(p.location(cur.Span()), p.maxDepth)
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}

// missingName is the placeholder expression used when the depth limit stops
// the parser from descending.
func (p *Parser) missingName() *ast.NameExpression {
	return &ast.NameExpression{
		Identifier: ast.NewMissingToken(token.IdentifierToken, p.current().Position()),
	}
}

func (p *Parser) parseCompilationUnit() *ast.CompilationUnit {
	members := p.parseMembers()
	eof := p.matchToken(token.EndOfFileToken)
	return &ast.CompilationUnit{Members: members, EndOfFile: eof}
}

func (p *Parser) parseMembers() []ast.Member {
	var members []ast.Member
	for p.current().Kind() != token.EndOfFileToken {
		start := p.current()
		members = append(members, p.parseMember())
		// A member that consumed nothing has already reported an error for
		// the current token; skip it so the loop makes progress.
		if p.current() == start {
			p.skipToken()
		}
	}
	return members
}

func (p *Parser) parseMember() ast.Member {
	if p.current().Kind() == token.FunctionKeyword {
		return p.parseFunctionDeclaration()
	}
	return &ast.GlobalStatement{Statement: p.parseStatement()}
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	fn := &ast.FunctionDeclaration{}
	fn.FunctionKeyword = p.matchToken(token.FunctionKeyword)
	fn.Identifier = p.matchToken(token.IdentifierToken)
	fn.OpenParen = p.matchToken(token.OpenParenthesisToken)
	fn.Parameters = p.parseParameterList()
	fn.CloseParen = p.matchToken(token.CloseParenthesisToken)
	fn.Type = p.parseOptionalTypeClause()
	fn.Body = p.parseBlockStatement()
	return fn
}

func (p *Parser) parseParameterList() ast.SeparatedList[*ast.Parameter] {
	var nodes []ast.Node
	for p.continuesList() {
		nodes = append(nodes, p.parseParameter())
		if p.current().Kind() != token.CommaToken {
			break
		}
		nodes = append(nodes, p.matchToken(token.CommaToken))
	}
	return ast.NewSeparatedList[*ast.Parameter](nodes)
}

func (p *Parser) continuesList() bool {
	kind := p.current().Kind()
	return kind != token.CloseParenthesisToken && kind != token.EndOfFileToken
}

func (p *Parser) parseParameter() *ast.Parameter {
	identifier := p.matchToken(token.IdentifierToken)
	return &ast.Parameter{Identifier: identifier, Type: p.parseTypeClause()}
}

func (p *Parser) parseOptionalTypeClause() *ast.TypeClause {
	if p.current().Kind() != token.ColonToken {
		return nil
	}
	return p.parseTypeClause()
}

func (p *Parser) parseTypeClause() *ast.TypeClause {
	colon := p.matchToken(token.ColonToken)
	identifier := p.matchToken(token.IdentifierToken)
	return &ast.TypeClause{Colon: colon, Identifier: identifier}
}
