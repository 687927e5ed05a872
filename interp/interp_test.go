package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/eightball-lang/eightball/interp"
	"github.com/eightball-lang/eightball/lang"
	"github.com/eightball-lang/eightball/program"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, lines []string, stdin string) string {
	t.Helper()
	prog := &program.Store{}
	prog.LoadLines(lines)
	var out bytes.Buffer
	ip := interp.New(prog, strings.NewReader(stdin), &out)
	require.NoError(t, ip.Run())
	return out.String()
}

func TestInterpScalarDeclAndAssign(t *testing.T) {
	out := run(t, []string{
		"word x = 10",
		"x = x + 5",
		"pr.dec x",
	}, "")
	require.Equal(t, "15", out)
}

func TestInterpByteWraps(t *testing.T) {
	out := run(t, []string{
		"byte b = 200",
		"b = b + 100",
		"pr.dec b",
	}, "")
	require.Equal(t, "44", out) // int8(200+100) wraps to 44
}

func TestInterpArrayIndexing(t *testing.T) {
	out := run(t, []string{
		"word a[3]",
		"a[0] = 1",
		"a[1] = 2",
		"a[2] = 3",
		"pr.dec a[0] + a[1] + a[2]",
	}, "")
	require.Equal(t, "6", out)
}

func TestInterpByteArrayStringInit(t *testing.T) {
	out := run(t, []string{
		`byte msg[6] = "hello"`,
		"pr.str &msg[0]",
	}, "")
	require.Equal(t, "hello", out)
}

func TestInterpConstCannotBeAssigned(t *testing.T) {
	prog := &program.Store{}
	prog.LoadLines([]string{
		"const word limit = 10",
		"limit = 20",
	})
	var out bytes.Buffer
	ip := interp.New(prog, strings.NewReader(""), &out)
	require.ErrorIs(t, ip.Run(), lang.ErrAssignConst)
}

func TestInterpIfElse(t *testing.T) {
	out := run(t, []string{
		"word x = 3",
		"if x > 5",
		"pr.msg \"big\"",
		"else",
		"pr.msg \"small\"",
		"endif",
	}, "")
	require.Equal(t, "small", out)
}

func TestInterpNestedForLoops(t *testing.T) {
	out := run(t, []string{
		"word i = 0",
		"word j = 0",
		"word n = 0",
		"for i = 1 : 2",
		"for j = 1 : 2",
		"n = n + 1",
		"endfor",
		"endfor",
		"pr.dec n",
	}, "")
	require.Equal(t, "4", out)
}

func TestInterpCallByReferenceArray(t *testing.T) {
	out := run(t, []string{
		"sub zero(word a[])",
		"a[0] = 0",
		"a[1] = 0",
		"endsub",
		"word v[2]",
		"v[0] = 9",
		"v[1] = 9",
		"call zero(v)",
		"pr.dec v[0] + v[1]",
	}, "")
	require.Equal(t, "0", out)
}

func TestInterpRecursiveCall(t *testing.T) {
	out := run(t, []string{
		"sub fact(word n)",
		"if n <= 1",
		"return 1",
		"endif",
		"return n * fact(n - 1)",
		"endsub",
		"word r = 0",
		"r = fact(5)",
		"pr.dec r",
	}, "")
	require.Equal(t, "120", out)
}

func TestInterpKbdLn(t *testing.T) {
	out := run(t, []string{
		"byte buf[16]",
		"kbd.ln buf",
		"pr.str &buf[0]",
	}, "world\n")
	require.Equal(t, "world", out)
}

func TestInterpExecImmediateSkipsProgram(t *testing.T) {
	prog := &program.Store{}
	var out bytes.Buffer
	ip := interp.New(prog, strings.NewReader(""), &out)
	require.NoError(t, ip.ExecImmediate(`pr.msg "hi"`))
	ip.Out.Flush()
	require.Equal(t, "hi", out.String())
}

func TestInterpDivisionByZero(t *testing.T) {
	prog := &program.Store{}
	prog.LoadLines([]string{"pr.dec 1/0"})
	var out bytes.Buffer
	ip := interp.New(prog, strings.NewReader(""), &out)
	require.ErrorIs(t, ip.Run(), lang.ErrDivZero)
}
