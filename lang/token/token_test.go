package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpanUnion(t *testing.T) {
	a := Span{Start: 2, End: 5}
	b := Span{Start: 1, End: 3}
	require.Equal(t, Span{Start: 1, End: 5}, a.Union(b))
}

func TestSpanLine(t *testing.T) {
	source := "let a = 1\nlet b = 2\nlet c = 3"
	cases := []struct {
		start int
		want  int
	}{
		{0, 1},
		{9, 1},
		{10, 2},
		{21, 3},
	}
	for _, c := range cases {
		got := Span{Start: c.start, End: c.start}.Line(source)
		require.Equalf(t, c.want, got, "start=%d", c.start)
	}
}

func TestKindString(t *testing.T) {
	require.Equal(t, "identifier", Identifier.String())
	require.Equal(t, ">>", Pipeline.String())
}

func TestKeywords(t *testing.T) {
	require.Equal(t, Let, Keywords["let"])
	require.Equal(t, Import, Keywords["import"])
	_, ok := Keywords["nope"]
	require.False(t, ok)
}
