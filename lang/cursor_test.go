package lang_test

import (
	"testing"

	"github.com/eightball-lang/eightball/lang"
	"github.com/stretchr/testify/require"
)

func TestCursorScanIdent(t *testing.T) {
	c := lang.NewCursor("  foo123 bar")
	name, ok := c.ScanIdent()
	require.True(t, ok)
	require.Equal(t, "foo123", name)
	require.Equal(t, byte('b'), c.Peek())
}

func TestCursorScanIntDecimalAndHex(t *testing.T) {
	c := lang.NewCursor("42 $ff")
	v, ok := c.ScanInt()
	require.True(t, ok)
	require.Equal(t, 42, v)

	v, ok = c.ScanInt()
	require.True(t, ok)
	require.Equal(t, 255, v)
}

func TestCursorScanString(t *testing.T) {
	c := lang.NewCursor(`"hello\n" rest`)
	s, ok := c.ScanString()
	require.True(t, ok)
	require.Equal(t, "hello\n", s)
	require.Equal(t, byte('r'), c.Peek())
}

func TestCursorScanChar(t *testing.T) {
	c := lang.NewCursor(`'a' '\n'`)
	r, ok := c.ScanChar()
	require.True(t, ok)
	require.Equal(t, 'a', r)

	r, ok = c.ScanChar()
	require.True(t, ok)
	require.Equal(t, '\n', r)
}

func TestCursorMatch(t *testing.T) {
	c := lang.NewCursor("endif")
	require.True(t, c.Match("end"))
	require.Equal(t, byte('i'), c.Peek())
}

func TestTruncName(t *testing.T) {
	require.Equal(t, "abcd", lang.TruncName("abcdef", lang.VarNameLen))
	require.Equal(t, "abc", lang.TruncName("abc", lang.VarNameLen))
}

func TestStripComment(t *testing.T) {
	require.Equal(t, "pr.dec 1", lang.StripComment("pr.dec 1 ' a comment"))
	require.Equal(t, `pr.msg "it's fine"`, lang.StripComment(`pr.msg "it's fine" ' trailing`))
}
