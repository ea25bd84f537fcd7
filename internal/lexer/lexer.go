// Package lexer converts source text into tokens with leading and trailing
// trivia attached.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/errors"
	"github.com/risor-io/quill/symbols"
	"github.com/risor-io/quill/text"
	"github.com/risor-io/quill/token"
)

// eof is returned by peek past the end of the input.
const eof = -1

// Lexer produces tokens from a SourceText one at a time.
type Lexer struct {
	src   *text.SourceText
	input string
	diags errors.Bag

	// pos is the byte offset of the next unread character.
	pos int

	// state of the element currently being read
	start int
	kind  token.Kind
	value any

	trivia []ast.Trivia
}

// New returns a Lexer reading from src.
func New(src *text.SourceText) *Lexer {
	return &Lexer{src: src, input: src.String()}
}

// Diagnostics returns the diagnostics reported so far.
func (l *Lexer) Diagnostics() errors.Diagnostics {
	return l.diags.All()
}

// Lex returns the next token. Once the end of input is reached every call
// returns an EndOfFileToken.
func (l *Lexer) Lex() *ast.Token {
	l.readTrivia(true)
	leading := l.takeTrivia()

	tokenStart := l.pos
	l.readToken()
	kind, value := l.kind, l.value
	length := l.pos - l.start

	l.readTrivia(false)
	trailing := l.takeTrivia()

	txt := token.Text(kind)
	if txt == "" {
		txt = l.input[tokenStart : tokenStart+length]
	}
	return ast.NewToken(kind, tokenStart, txt, value, leading, trailing)
}

func (l *Lexer) takeTrivia() []ast.Trivia {
	if len(l.trivia) == 0 {
		return nil
	}
	out := l.trivia
	l.trivia = nil
	return out
}

func (l *Lexer) location(span text.Span) text.Location {
	return text.Location{Text: l.src, Span: span}
}

func (l *Lexer) peek(offset int) rune {
	pos := l.pos
	for ; offset > 0; offset-- {
		if pos >= len(l.input) {
			return eof
		}
		_, w := utf8.DecodeRuneInString(l.input[pos:])
		pos += w
	}
	if pos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

func (l *Lexer) current() rune   { return l.peek(0) }
func (l *Lexer) lookahead() rune { return l.peek(1) }

// advance moves past the current character.
func (l *Lexer) advance() {
	if l.pos < len(l.input) {
		_, w := utf8.DecodeRuneInString(l.input[l.pos:])
		l.pos += w
	}
}

func (l *Lexer) readTrivia(leading bool) {
	for {
		l.start = l.pos
		l.kind = token.BadToken
		l.value = nil

		switch c := l.current(); c {
		case eof:
			return
		case '/':
			switch l.lookahead() {
			case '/':
				l.readSingleLineComment()
			case '*':
				l.readMultiLineComment()
			default:
				return
			}
		case '\n', '\r':
			if !leading {
				return
			}
			l.readLineBreak()
		default:
			if !isWhitespace(c) {
				return
			}
			l.readWhitespace()
		}

		if l.pos > l.start {
			l.trivia = append(l.trivia, ast.Trivia{
				Kind:     l.kind,
				Position: l.start,
				Text:     l.input[l.start:l.pos],
			})
		}
	}
}

func (l *Lexer) readLineBreak() {
	if l.current() == '\r' && l.lookahead() == '\n' {
		l.pos += 2
	} else {
		l.pos++
	}
	l.kind = token.LineBreakTrivia
}

func (l *Lexer) readWhitespace() {
	for {
		c := l.current()
		if c == eof || c == '\r' || c == '\n' || !isWhitespace(c) {
			break
		}
		l.advance()
	}
	l.kind = token.WhitespaceTrivia
}

func (l *Lexer) readSingleLineComment() {
	l.pos += 2
	for {
		c := l.current()
		if c == eof || c == '\r' || c == '\n' {
			break
		}
		l.advance()
	}
	l.kind = token.SingleLineCommentTrivia
}

func (l *Lexer) readMultiLineComment() {
	l.pos += 2
	for {
		c := l.current()
		if c == eof {
			l.diags.ReportUnterminatedMultiLineComment(l.location(text.NewSpan(l.start, 2)))
			break
		}
		if c == '*' && l.lookahead() == '/' {
			l.pos += 2
			break
		}
		l.advance()
	}
	l.kind = token.MultiLineCommentTrivia
}

// operator reads a one or two character operator. When the character after
// the first one matches a key of pairs, the two character kind is chosen.
func (l *Lexer) operator(single token.Kind, pairs map[rune]token.Kind) {
	l.pos++
	if kind, ok := pairs[l.current()]; ok {
		l.pos++
		l.kind = kind
		return
	}
	l.kind = single
}

var (
	plusPairs      = map[rune]token.Kind{'=': token.PlusEqualsToken}
	minusPairs     = map[rune]token.Kind{'=': token.MinusEqualsToken}
	starPairs      = map[rune]token.Kind{'=': token.StarEqualsToken}
	slashPairs     = map[rune]token.Kind{'=': token.SlashEqualsToken}
	hatPairs       = map[rune]token.Kind{'=': token.HatEqualsToken}
	ampersandPairs = map[rune]token.Kind{'&': token.AmpersandAmpersandToken, '=': token.AmpersandEqualsToken}
	pipePairs      = map[rune]token.Kind{'|': token.PipePipeToken, '=': token.PipeEqualsToken}
	equalsPairs    = map[rune]token.Kind{'=': token.EqualsEqualsToken}
	bangPairs      = map[rune]token.Kind{'=': token.BangEqualsToken}
	lessPairs      = map[rune]token.Kind{'=': token.LessOrEqualsToken}
	greaterPairs   = map[rune]token.Kind{'=': token.GreaterOrEqualsToken}
)

func (l *Lexer) readToken() {
	l.start = l.pos
	l.kind = token.BadToken
	l.value = nil

	switch c := l.current(); c {
	case eof:
		l.kind = token.EndOfFileToken
	case '+':
		l.operator(token.PlusToken, plusPairs)
	case '-':
		l.operator(token.MinusToken, minusPairs)
	case '*':
		l.operator(token.StarToken, starPairs)
	case '/':
		l.operator(token.SlashToken, slashPairs)
	case '^':
		l.operator(token.HatToken, hatPairs)
	case '&':
		l.operator(token.AmpersandToken, ampersandPairs)
	case '|':
		l.operator(token.PipeToken, pipePairs)
	case '=':
		l.operator(token.EqualsToken, equalsPairs)
	case '!':
		l.operator(token.BangToken, bangPairs)
	case '<':
		l.operator(token.LessToken, lessPairs)
	case '>':
		l.operator(token.GreaterToken, greaterPairs)
	case '(':
		l.single(token.OpenParenthesisToken)
	case ')':
		l.single(token.CloseParenthesisToken)
	case '{':
		l.single(token.OpenBraceToken)
	case '}':
		l.single(token.CloseBraceToken)
	case ':':
		l.single(token.ColonToken)
	case ',':
		l.single(token.CommaToken)
	case '~':
		l.single(token.TildeToken)
	case '"':
		l.readString()
	default:
		switch {
		case isDigit(c):
			l.readNumber()
		case c == '_' || unicode.IsLetter(c):
			l.readIdentifierOrKeyword()
		default:
			l.advance()
			l.diags.ReportBadCharacter(l.location(text.SpanFromBounds(l.start, l.pos)), c)
		}
	}
}

func (l *Lexer) single(kind token.Kind) {
	l.pos++
	l.kind = kind
}

func (l *Lexer) readString() {
	// skip the opening quote
	l.pos++
	var sb strings.Builder
	for done := false; !done; {
		switch c := l.current(); c {
		case eof, '\r', '\n':
			l.diags.ReportUnterminatedString(l.location(text.NewSpan(l.start, 1)))
			done = true
		case '"':
			if l.lookahead() == '"' {
				sb.WriteByte('"')
				l.pos += 2
			} else {
				l.pos++
				done = true
			}
		default:
			sb.WriteRune(c)
			l.advance()
		}
	}
	l.kind = token.StringToken
	l.value = sb.String()
}

func (l *Lexer) readNumber() {
	for isDigit(l.current()) {
		l.pos++
	}
	literal := l.input[l.start:l.pos]
	n, err := strconv.ParseInt(literal, 10, 32)
	if err != nil {
		l.diags.ReportInvalidNumber(l.location(text.SpanFromBounds(l.start, l.pos)), literal, symbols.TypeInt)
		n = 0
	}
	l.kind = token.NumberToken
	l.value = int32(n)
}

func (l *Lexer) readIdentifierOrKeyword() {
	for {
		c := l.current()
		if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		l.advance()
	}
	l.kind = token.LookupKeyword(l.input[l.start:l.pos])
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isWhitespace(c rune) bool {
	return c != eof && unicode.IsSpace(c)
}
