package lang_test

import (
	"bytes"
	"testing"

	"github.com/eightball-lang/eightball/interp"
	"github.com/eightball-lang/eightball/lang"
	"github.com/eightball-lang/eightball/program"
	"github.com/stretchr/testify/require"
)

// newEvalIP builds an interpreter with no backing program, suitable as
// a lang.Backend for expression-evaluation tests: the shunting-yard
// grammar itself is what's under test here, not control flow.
func newEvalIP() *interp.Interp {
	return interp.New(&program.Store{}, &bytes.Buffer{}, &bytes.Buffer{})
}

func evalStr(t *testing.T, ip *interp.Interp, expr string) int {
	t.Helper()
	c := lang.NewCursor(expr)
	v, err := ip.Eval(c)
	require.NoError(t, err)
	return v
}

func TestEvalPrecedence(t *testing.T) {
	ip := newEvalIP()
	require.Equal(t, 14, evalStr(t, ip, "2 + 3 * 4"))
	require.Equal(t, 20, evalStr(t, ip, "(2 + 3) * 4"))
	require.Equal(t, 1, evalStr(t, ip, "1 == 1 && 2 > 1"))
}

func TestEvalUnary(t *testing.T) {
	ip := newEvalIP()
	require.Equal(t, -5, evalStr(t, ip, "-5"))
	require.Equal(t, 1, evalStr(t, ip, "!0"))
	require.Equal(t, 0, evalStr(t, ip, "!1"))
	require.Equal(t, ^3, evalStr(t, ip, "~3"))
}

func TestEvalDivByZero(t *testing.T) {
	ip := newEvalIP()
	_, err := ip.Eval(lang.NewCursor("1/0"))
	require.ErrorIs(t, err, lang.ErrDivZero)
}

func TestEvalCharLiteral(t *testing.T) {
	ip := newEvalIP()
	require.Equal(t, int('A'), evalStr(t, ip, "'A'"))
}
