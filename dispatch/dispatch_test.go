package dispatch_test

import (
	"testing"

	"github.com/eightball-lang/eightball/dispatch"
	"github.com/eightball-lang/eightball/lang"
	"github.com/stretchr/testify/require"
)

func TestMatchLongestKeyword(t *testing.T) {
	c := lang.NewCursor("endif")
	stmt, ok := dispatch.Match(c)
	require.True(t, ok)
	require.Equal(t, "endif", stmt.Keyword)
}

func TestMatchRejectsKeywordPrefix(t *testing.T) {
	c := lang.NewCursor("endwhiler")
	_, ok := dispatch.Match(c)
	require.False(t, ok)
}

func TestMatchSigilNeedsNoSeparator(t *testing.T) {
	c := lang.NewCursor("*addr = 1")
	stmt, ok := dispatch.Match(c)
	require.True(t, ok)
	require.Equal(t, "*", stmt.Keyword)
	require.True(t, stmt.Sigil)
}

func TestMatchNoKeyword(t *testing.T) {
	c := lang.NewCursor("x = 1")
	_, ok := dispatch.Match(c)
	require.False(t, ok)
}
