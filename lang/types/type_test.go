package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSize(t *testing.T) {
	require.Equal(t, 8, I64T.Size())
	require.Equal(t, 1, CharT.Size())
	require.Equal(t, 8, NewPointer(CharT).Size())
	require.Equal(t, 8, NewReference(I64T).Size())
	require.Equal(t, 8, NewFunction(I64T, nil).Size())
}

func TestSizePanicsOnNone(t *testing.T) {
	require.Panics(t, func() { NoneT.Size() })
}

func TestEqual(t *testing.T) {
	require.True(t, I64T.Equal(I64T))
	require.True(t, NewPointer(CharT).Equal(NewPointer(CharT)))
	require.False(t, NewPointer(CharT).Equal(NewPointer(I64T)))
	require.False(t, I64T.Equal(CharT))

	f1 := NewFunction(I64T, []Type{I64T, I64T})
	f2 := NewFunction(I64T, []Type{I64T, I64T})
	f3 := NewFunction(I64T, []Type{I64T})
	require.True(t, f1.Equal(f2))
	require.False(t, f1.Equal(f3))
}

func TestString(t *testing.T) {
	require.Equal(t, "i64", I64T.String())
	require.Equal(t, "*char", NewPointer(CharT).String())
	require.Equal(t, "fn(i64, i64) -> i64", NewFunction(I64T, []Type{I64T, I64T}).String())
}
