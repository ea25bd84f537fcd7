package lexer

import (
	"fmt"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
	"github.com/risor-io/quill/ast"
	"github.com/risor-io/quill/errors"
	"github.com/risor-io/quill/text"
	"github.com/risor-io/quill/token"
)

type sample struct {
	kind token.Kind
	text string
}

type separator struct {
	kind token.Kind
	text string
}

func lexAll(input string) ([]*ast.Token, errors.Diagnostics) {
	l := New(text.New(input, ""))
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

func samples() []sample {
	var out []sample
	for _, kind := range token.Kinds() {
		if txt := token.Text(kind); txt != "" {
			out = append(out, sample{kind, txt})
		}
	}
	return append(out,
		sample{token.IdentifierToken, "a"},
		sample{token.IdentifierToken, "abc"},
		sample{token.IdentifierToken, "_x1"},
		sample{token.NumberToken, "1"},
		sample{token.NumberToken, "123"},
		sample{token.StringToken, `"Test"`},
		sample{token.StringToken, `"Te""st"`},
	)
}

func separators() []separator {
	return []separator{
		{token.WhitespaceTrivia, " "},
		{token.WhitespaceTrivia, "  "},
		{token.WhitespaceTrivia, "\t"},
		{token.LineBreakTrivia, "\r"},
		{token.LineBreakTrivia, "\n"},
		{token.LineBreakTrivia, "\r\n"},
		{token.MultiLineCommentTrivia, "/**/"},
	}
}

func isWordLike(kind token.Kind) bool {
	return kind == token.IdentifierToken || kind == token.NumberToken || kind.IsKeyword()
}

// requiresSeparator reports whether the texts of t1 and t2 lex differently
// when written next to each other.
func requiresSeparator(t1, t2 token.Kind) bool {
	t1Word := t1 == token.IdentifierToken || t1.IsKeyword()
	switch {
	case t1Word && isWordLike(t2):
		return true
	case t1 == token.NumberToken && t2 == token.NumberToken:
		return true
	case t1 == token.StringToken && t2 == token.StringToken:
		return true
	}
	startsWithEquals := t2 == token.EqualsToken || t2 == token.EqualsEqualsToken
	switch t1 {
	case token.PlusToken, token.MinusToken, token.StarToken, token.HatToken,
		token.BangToken, token.EqualsToken, token.LessToken, token.GreaterToken:
		return startsWithEquals
	case token.SlashToken:
		return startsWithEquals || t2 == token.SlashToken || t2 == token.SlashEqualsToken ||
			t2 == token.StarToken || t2 == token.StarEqualsToken
	case token.AmpersandToken:
		return startsWithEquals || t2 == token.AmpersandToken ||
			t2 == token.AmpersandAmpersandToken || t2 == token.AmpersandEqualsToken
	case token.PipeToken:
		return startsWithEquals || t2 == token.PipeToken ||
			t2 == token.PipePipeToken || t2 == token.PipeEqualsToken
	}
	return false
}

func TestLexerCoversAllFixedTokens(t *testing.T) {
	tested := map[token.Kind]bool{}
	for _, s := range samples() {
		tested[s.kind] = true
	}
	for _, kind := range token.Kinds() {
		if kind == token.BadToken || kind == token.EndOfFileToken {
			continue
		}
		assert.True(t, tested[kind], "kind %s is not covered", kind)
	}
}

func TestLexSingleToken(t *testing.T) {
	for _, s := range samples() {
		t.Run(s.text, func(t *testing.T) {
			tokens, diags := lexAll(s.text)
			assert.Len(t, diags, 0)
			assert.Len(t, tokens, 1)
			assert.Equal(t, s.kind, tokens[0].Kind())
			assert.Equal(t, s.text, tokens[0].Text())
		})
	}
}

func TestLexSeparator(t *testing.T) {
	for _, sep := range separators() {
		t.Run(fmt.Sprintf("%q", sep.text), func(t *testing.T) {
			l := New(text.New(sep.text, ""))
			tok := l.Lex()
			assert.Equal(t, token.EndOfFileToken, tok.Kind())
			assert.Len(t, tok.Leading(), 1)
			assert.Equal(t, sep.kind, tok.Leading()[0].Kind)
			assert.Equal(t, sep.text, tok.Leading()[0].Text)
		})
	}
}

func TestLexTokenPairs(t *testing.T) {
	for _, a := range samples() {
		for _, b := range samples() {
			if requiresSeparator(a.kind, b.kind) {
				continue
			}
			tokens, diags := lexAll(a.text + b.text)
			assert.Len(t, diags, 0, "%q %q", a.text, b.text)
			assert.Len(t, tokens, 2, "%q %q", a.text, b.text)
			assert.Equal(t, a.kind, tokens[0].Kind())
			assert.Equal(t, a.text, tokens[0].Text())
			assert.Equal(t, b.kind, tokens[1].Kind())
			assert.Equal(t, b.text, tokens[1].Text())
		}
	}
}

func TestLexMergingPairs(t *testing.T) {
	for _, a := range samples() {
		for _, b := range samples() {
			if !requiresSeparator(a.kind, b.kind) {
				continue
			}
			tokens, _ := lexAll(a.text + b.text)
			same := len(tokens) == 2 &&
				tokens[0].Kind() == a.kind && tokens[0].Text() == a.text &&
				tokens[1].Kind() == b.kind && tokens[1].Text() == b.text
			assert.False(t, same, "%q %q lexed as two separate tokens", a.text, b.text)
		}
	}
}

func TestLexTokenPairsWithSeparator(t *testing.T) {
	for _, a := range samples() {
		for _, b := range samples() {
			for _, sep := range separators() {
				if a.kind == token.SlashToken && sep.kind == token.MultiLineCommentTrivia {
					continue
				}
				tokens, diags := lexAll(a.text + sep.text + b.text)
				assert.Len(t, diags, 0)
				assert.Len(t, tokens, 2, "%q %q %q", a.text, sep.text, b.text)
				assert.Equal(t, a.kind, tokens[0].Kind())
				assert.Equal(t, a.text, tokens[0].Text())
				assert.Equal(t, b.kind, tokens[1].Kind())
				assert.Equal(t, b.text, tokens[1].Text())

				// Line breaks always start the next token's leading trivia.
				owner, other := tokens[0].Trailing(), tokens[1].Leading()
				if sep.kind == token.LineBreakTrivia {
					owner, other = tokens[1].Leading(), tokens[0].Trailing()
				}
				assert.Len(t, owner, 1)
				assert.Len(t, other, 0)
				assert.Equal(t, sep.kind, owner[0].Kind)
				assert.Equal(t, sep.text, owner[0].Text)
			}
		}
	}
}

func TestLexTrivia(t *testing.T) {
	tokens, diags := lexAll("  // note\n\t/* block */ x /* tail */ // end\n")
	assert.Len(t, diags, 0)
	assert.Len(t, tokens, 1)
	x := tokens[0]
	assert.Equal(t, token.IdentifierToken, x.Kind())

	var leading []token.Kind
	for _, tr := range x.Leading() {
		leading = append(leading, tr.Kind)
	}
	assert.Equal(t, []token.Kind{
		token.WhitespaceTrivia,
		token.SingleLineCommentTrivia,
		token.LineBreakTrivia,
		token.WhitespaceTrivia,
		token.MultiLineCommentTrivia,
		token.WhitespaceTrivia,
	}, leading)

	var trailing []string
	for _, tr := range x.Trailing() {
		trailing = append(trailing, tr.Text)
	}
	assert.Equal(t, []string{" ", "/* tail */", " ", "// end"}, trailing)
}

func TestLexStringEscape(t *testing.T) {
	tokens, diags := lexAll(`"say ""hi"""`)
	assert.Len(t, diags, 0)
	assert.Len(t, tokens, 1)
	assert.Equal(t, `say "hi"`, tokens[0].Value())
}

func TestLexUnterminatedString(t *testing.T) {
	tokens, diags := lexAll("\"abc\nx")
	assert.Len(t, diags, 1)
	assert.Equal(t, "Unterminated string literal.", diags[0].Message)
	assert.Equal(t, text.NewSpan(0, 1), diags[0].Location.Span)
	assert.Equal(t, token.StringToken, tokens[0].Kind())
	assert.Equal(t, `"abc`, tokens[0].Text())
	assert.Equal(t, "abc", tokens[0].Value())
}

func TestLexUnterminatedComment(t *testing.T) {
	tokens, diags := lexAll("x /* never closed")
	assert.Len(t, diags, 1)
	assert.Equal(t, "Unterminated multi-line comment.", diags[0].Message)
	assert.Equal(t, text.NewSpan(2, 2), diags[0].Location.Span)
	assert.Len(t, tokens, 1)
	assert.Equal(t, "/* never closed", tokens[0].Trailing()[1].Text)
}

func TestLexInvalidNumber(t *testing.T) {
	tokens, diags := lexAll("99999999999")
	assert.Len(t, diags, 1)
	assert.Equal(t, "The number 99999999999 isn't valid int.", diags[0].Message)
	assert.Equal(t, token.NumberToken, tokens[0].Kind())
	assert.Equal(t, int32(0), tokens[0].Value())
}

func TestLexBadCharacters(t *testing.T) {
	tokens, diags := lexAll("a @€ b")
	assert.Len(t, diags, 2)
	assert.Equal(t, "Bad character input: '@'.", diags[0].Message)
	assert.Equal(t, "Bad character input: '€'.", diags[1].Message)
	assert.Equal(t, text.NewSpan(3, len("€")), diags[1].Location.Span)

	var kinds []token.Kind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind())
	}
	assert.Equal(t, []token.Kind{
		token.IdentifierToken, token.BadToken, token.BadToken, token.IdentifierToken,
	}, kinds)
	assert.Equal(t, "€", tokens[2].Text())
}

func TestLexKeywords(t *testing.T) {
	tokens, _ := lexAll("function for to fortune")
	assert.Equal(t, token.FunctionKeyword, tokens[0].Kind())
	assert.Equal(t, token.ForKeyword, tokens[1].Kind())
	assert.Equal(t, token.ToKeyword, tokens[2].Kind())
	assert.Equal(t, token.IdentifierToken, tokens[3].Kind())
}

func TestLexEndOfFileRepeats(t *testing.T) {
	l := New(text.New("x", ""))
	assert.Equal(t, token.IdentifierToken, l.Lex().Kind())
	assert.Equal(t, token.EndOfFileToken, l.Lex().Kind())
	assert.Equal(t, token.EndOfFileToken, l.Lex().Kind())
}
