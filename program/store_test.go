package program_test

import (
	"testing"

	"github.com/eightball-lang/eightball/program"
	"github.com/stretchr/testify/require"
)

func TestStoreAppendAndLines(t *testing.T) {
	var s program.Store
	s.Append("pr.msg \"a\"")
	s.Append("pr.msg \"b\"")
	require.Equal(t, 2, s.Len())
	require.Equal(t, []string{"pr.msg \"a\"", "pr.msg \"b\""}, s.Lines())
}

func TestStoreInsertBefore(t *testing.T) {
	var s program.Store
	s.Append("one")
	s.Append("three")
	require.NoError(t, s.InsertBefore(2, "two"))
	require.Equal(t, []string{"one", "two", "three"}, s.Lines())

	require.NoError(t, s.InsertBefore(1, "zero"))
	require.Equal(t, []string{"zero", "one", "two", "three"}, s.Lines())
}

func TestStoreChangeAndDelete(t *testing.T) {
	var s program.Store
	s.Append("a")
	s.Append("b")
	s.Append("c")

	require.NoError(t, s.Change(2, "B"))
	text, ok := s.Line(2)
	require.True(t, ok)
	require.Equal(t, "B", text)

	require.NoError(t, s.Delete(2, 2))
	require.Equal(t, []string{"a", "c"}, s.Lines())

	require.Error(t, s.Delete(5, 5))
}

func TestStoreLoadLinesSkipsBlank(t *testing.T) {
	var s program.Store
	s.LoadLines([]string{"a", "", "b"})
	require.Equal(t, []string{"a", "b"}, s.Lines())
}

func TestStoreNew(t *testing.T) {
	var s program.Store
	s.Append("a")
	s.New()
	require.Equal(t, 0, s.Len())
}
