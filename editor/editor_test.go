package editor_test

import (
	"path/filepath"
	"testing"

	"github.com/eightball-lang/eightball/editor"
	"github.com/eightball-lang/eightball/program"
	"github.com/stretchr/testify/require"
)

func newEditor(lines ...string) (*editor.Editor, *program.Store) {
	prog := &program.Store{}
	prog.LoadLines(lines)
	return editor.New(prog), prog
}

func TestEditorList(t *testing.T) {
	ed, _ := newEditor("one", "two", "three")
	out, err := ed.Dispatch(":l")
	require.NoError(t, err)
	require.Equal(t, "1: one\n2: two\n3: three\n", out)

	out, err = ed.Dispatch(":l 2")
	require.NoError(t, err)
	require.Equal(t, "2: two\n", out)

	out, err = ed.Dispatch(":l 1,2")
	require.NoError(t, err)
	require.Equal(t, "1: one\n2: two\n", out)
}

func TestEditorChange(t *testing.T) {
	ed, prog := newEditor("one", "two")
	_, err := ed.Dispatch(":c 2: TWO")
	require.NoError(t, err)
	require.Equal(t, []string{"one", "TWO"}, prog.Lines())
}

func TestEditorDelete(t *testing.T) {
	ed, prog := newEditor("one", "two", "three")
	_, err := ed.Dispatch(":d 2,3")
	require.NoError(t, err)
	require.Equal(t, []string{"one"}, prog.Lines())
}

func TestEditorAppendCollection(t *testing.T) {
	ed, prog := newEditor("one")
	_, err := ed.Dispatch(":a 1")
	require.NoError(t, err)
	require.True(t, ed.Collecting())

	ed.Feed("two")
	ed.Feed("three")
	ed.Feed(".")
	require.False(t, ed.Collecting())
	require.Equal(t, []string{"one", "two", "three"}, prog.Lines())
}

func TestEditorInsertCollection(t *testing.T) {
	ed, prog := newEditor("two")
	_, err := ed.Dispatch(":i 1")
	require.NoError(t, err)
	require.True(t, ed.Collecting())

	ed.Feed("one")
	ed.Feed(".")
	require.Equal(t, []string{"one", "two"}, prog.Lines())
}

func TestEditorBareNumericBeginsChange(t *testing.T) {
	ed, prog := newEditor("old")
	_, err := ed.Dispatch("1")
	require.NoError(t, err)
	require.True(t, ed.Collecting())

	ed.Feed("new")
	ed.Feed(".")
	require.Equal(t, []string{"new"}, prog.Lines())
}

func TestEditorBareNumericOutOfRange(t *testing.T) {
	ed, _ := newEditor("old")
	_, err := ed.Dispatch("5")
	require.Error(t, err)
}

func TestEditorReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.txt")

	ed, _ := newEditor("alpha", "beta")
	_, err := ed.Dispatch(":w \"" + path + "\"")
	require.NoError(t, err)

	ed2, prog2 := newEditor()
	_, err = ed2.Dispatch(":r \"" + path + "\"")
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta"}, prog2.Lines())
}
