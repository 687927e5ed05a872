package repl

import (
	"bytes"
	"testing"

	"github.com/eightball-lang/eightball/editor"
	"github.com/eightball-lang/eightball/internal/logio"
	"github.com/eightball-lang/eightball/interp"
	"github.com/eightball-lang/eightball/program"
	"github.com/stretchr/testify/require"
)

// newTestREPL builds a REPL with no readline.Instance attached, since
// dispatch/runCompiled/printError never touch r.rl: exercising the
// routing logic doesn't need a real terminal.
func newTestREPL() (*REPL, *bytes.Buffer) {
	prog := &program.Store{}
	var out bytes.Buffer
	r := &REPL{
		Prog: prog,
		Ed:   editor.New(prog),
		Ip:   interp.New(prog, &bytes.Buffer{}, &out),
		Log:  logio.New(&out),
		out:  &out,
	}
	return r, &out
}

func TestDispatchImmediateStatement(t *testing.T) {
	r, out := newTestREPL()
	require.NoError(t, r.dispatch(`pr.msg "hi"`))
	r.Ip.Out.Flush()
	require.Equal(t, "hi", out.String())
}

func TestDispatchEditorCommand(t *testing.T) {
	r, _ := newTestREPL()
	r.Prog.Append(`pr.msg "x"`)
	require.NoError(t, r.dispatch(":l"))
}

func TestDispatchRunExecutesProgram(t *testing.T) {
	r, out := newTestREPL()
	_, err := r.Ed.Dispatch(":a 0")
	require.NoError(t, err)
	r.Ed.Feed(`pr.msg "ran"`)
	r.Ed.Feed(".")

	require.NoError(t, r.dispatch("run"))
	r.Ip.Out.Flush()
	require.Equal(t, "ran", out.String())
}

func TestDispatchCompAndRunViaVM(t *testing.T) {
	r, out := newTestREPL()
	_, err := r.Ed.Dispatch(":a 0")
	require.NoError(t, err)
	r.Ed.Feed(`pr.msg "compiled"`)
	r.Ed.Feed(".")

	require.NoError(t, r.dispatch("comp"))
	require.Equal(t, "compiled", out.String())
}

func TestDispatchBlankLineIsNoop(t *testing.T) {
	r, out := newTestREPL()
	require.NoError(t, r.dispatch("   "))
	require.Equal(t, "", out.String())
}

func TestDispatchNewClearsProgram(t *testing.T) {
	r, _ := newTestREPL()
	r.Prog.Append("pr.nl")
	require.Equal(t, 1, r.Prog.Len())
	require.NoError(t, r.dispatch("new"))
	require.Equal(t, 0, r.Prog.Len())
}

func TestIsEditorNumeric(t *testing.T) {
	require.True(t, isEditorNumeric("42"))
	require.False(t, isEditorNumeric("42x"))
	require.False(t, isEditorNumeric(""))
}
