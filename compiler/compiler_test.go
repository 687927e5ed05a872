package compiler_test

import (
	"testing"

	"github.com/eightball-lang/eightball/compiler"
	"github.com/eightball-lang/eightball/lang"
	"github.com/eightball-lang/eightball/program"
	"github.com/stretchr/testify/require"
)

func compileLines(lines []string) ([]byte, error) {
	prog := &program.Store{}
	prog.LoadLines(lines)
	return compiler.Compile(prog)
}

func TestCompileConstArrayBound(t *testing.T) {
	code, err := compileLines([]string{
		"const word n = 4",
		"word a[n]",
		"a[0] = 1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, code)
}

func TestCompileRejectsNonConstArrayBound(t *testing.T) {
	_, err := compileLines([]string{
		"word n = 4",
		"word a[n]",
	})
	require.ErrorIs(t, err, lang.ErrConstRequired)
}

func TestCompileRejectsUnterminatedSub(t *testing.T) {
	_, err := compileLines([]string{
		"sub foo()",
		"return 0",
	})
	require.ErrorIs(t, err, lang.ErrMidSub)
}

func TestCompileRejectsUndefinedCall(t *testing.T) {
	_, err := compileLines([]string{
		"word r = 0",
		"r = missing(1)",
	})
	require.ErrorIs(t, err, lang.ErrUndefined)
}

func TestCompileRejectsArityMismatch(t *testing.T) {
	_, err := compileLines([]string{
		"sub one(word n)",
		"return n",
		"endsub",
		"word r = 0",
		"r = one(1, 2)",
	})
	require.Error(t, err)
}

func TestCompileForwardCallLinksAfterSub(t *testing.T) {
	code, err := compileLines([]string{
		"word r = 0",
		"r = later(3)",
		"sub later(word n)",
		"return n + 1",
		"endsub",
		"pr.dec r",
	})
	require.NoError(t, err)
	require.NotEmpty(t, code)
}

func TestCompileRejectsAssignToConst(t *testing.T) {
	_, err := compileLines([]string{
		"const word limit = 5",
		"limit = 6",
	})
	require.ErrorIs(t, err, lang.ErrAssignConst)
}
