package token

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocationString(t *testing.T) {
	require.Equal(t, "foo.tc:3", Location{File: "foo.tc", Line: 3}.String())
	require.Equal(t, "", Location{}.String())
}

func TestErrorListErr(t *testing.T) {
	var el ErrorList
	require.NoError(t, el.Err())

	el.Add(Location{File: "a.tc", Line: 1}, "bad token")
	require.Error(t, el.Err())
	require.Equal(t, "a.tc:1: bad token", el.Err().Error())

	el.Add(Location{File: "a.tc", Line: 2}, "also bad")
	require.Contains(t, el.Error(), "and 1 more errors")
}

func TestErrorListUnwrap(t *testing.T) {
	var el ErrorList
	el.Add(Location{File: "a.tc", Line: 1}, "bad token")
	errs := el.Unwrap()
	require.Len(t, errs, 1)
	require.True(t, errors.As(el.Err(), &el))
}
