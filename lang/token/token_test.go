package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		require.NotEmpty(t, tok.String(), "token %d missing string representation", tok)
	}
}

func TestTokenGoString(t *testing.T) {
	require.Equal(t, "'+'", PLUS.GoString())
	require.Equal(t, "'{'", LBRACE.GoString())
	require.Equal(t, "if", IF.GoString())
	require.Equal(t, "identifier", IDENT.GoString())
}

func TestLookupIdent(t *testing.T) {
	for tok := IF; tok < maxToken; tok++ {
		require.Equal(t, tok, LookupIdent(tok.String()))
	}
	require.Equal(t, IDENT, LookupIdent("x"))
	require.Equal(t, IDENT, LookupIdent("returns"))
}

func TestIsKeyword(t *testing.T) {
	require.True(t, FN.IsKeyword())
	require.True(t, I64.IsKeyword())
	require.False(t, PLUS.IsKeyword())
	require.False(t, IDENT.IsKeyword())
}
