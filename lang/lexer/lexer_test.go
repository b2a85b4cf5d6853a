package lexer

import (
	"testing"

	"github.com/mna/tinyc/lang/token"
	"github.com/stretchr/testify/require"
)

func scanTokens(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := ScanAll("test.tc", []byte(src))
	require.NoError(t, err)
	out := make([]token.Token, len(toks))
	for i, tv := range toks {
		out[i] = tv.Token
	}
	return out
}

func TestScanKeywordsAndPunctuation(t *testing.T) {
	toks := scanTokens(t, `fn main() { if 1 { return 0; } }`)
	require.Equal(t, []token.Token{
		token.FN, token.IDENT, token.LPAREN, token.RPAREN, token.LBRACE,
		token.IF, token.INT, token.LBRACE, token.RETURN, token.INT, token.SEMI, token.RBRACE,
		token.RBRACE, token.EOF,
	}, toks)
}

func TestScanOperators(t *testing.T) {
	toks := scanTokens(t, `= == != && || + - * / %`)
	require.Equal(t, []token.Token{
		token.EQ, token.EQEQ, token.NEQ, token.AMPAMP, token.PIPEPIPE,
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.EOF,
	}, toks)
}

func TestScanIntLiteral(t *testing.T) {
	toks, err := ScanAll("test.tc", []byte("123 0"))
	require.NoError(t, err)
	require.Equal(t, int64(123), toks[0].Value.Int)
	require.Equal(t, int64(0), toks[1].Value.Int)
}

func TestScanStringLiteralEscape(t *testing.T) {
	toks, err := ScanAll("test.tc", []byte(`"hello\nworld"`))
	require.NoError(t, err)
	require.Equal(t, token.STRING, toks[0].Token)
	require.Equal(t, []byte("hello\nworld"), toks[0].Value.String)
}

func TestScanStringLiteralUnknownEscapeIsLiteral(t *testing.T) {
	toks, err := ScanAll("test.tc", []byte(`"a\tb"`))
	require.NoError(t, err)
	require.Equal(t, []byte(`a\tb`), toks[0].Value.String)
}

func TestScanLineComment(t *testing.T) {
	toks := scanTokens(t, "1 // comment\n+ 2")
	require.Equal(t, []token.Token{token.INT, token.PLUS, token.INT, token.EOF}, toks)
}

func TestScanLineNumbers(t *testing.T) {
	toks, err := ScanAll("test.tc", []byte("1\n2\n3"))
	require.NoError(t, err)
	require.Equal(t, 1, toks[0].Loc.Line)
	require.Equal(t, 2, toks[1].Loc.Line)
	require.Equal(t, 3, toks[2].Loc.Line)
}

func TestScanIllegalCharacter(t *testing.T) {
	_, err := ScanAll("test.tc", []byte("@"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "test.tc:1")
}

func TestScanIdentifierVsKeyword(t *testing.T) {
	toks := scanTokens(t, "mutable mut")
	require.Equal(t, []token.Token{token.IDENT, token.MUT, token.EOF}, toks)
}
