package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/eightball-lang/eightball/compiler"
	"github.com/eightball-lang/eightball/interp"
	"github.com/eightball-lang/eightball/program"
	"github.com/eightball-lang/eightball/vm"
	"github.com/stretchr/testify/require"
)

// runBoth interprets and compiles+runs the same program, asserting they
// produce identical output: the "compiled program behaves like the
// interpreted one" property.
func runBoth(t *testing.T, lines []string, stdin string) (interpOut, vmOut string) {
	t.Helper()

	prog := &program.Store{}
	prog.LoadLines(lines)

	var ib bytes.Buffer
	ip := interp.New(prog, strings.NewReader(stdin), &ib)
	require.NoError(t, ip.Run())

	code, err := compiler.Compile(prog)
	require.NoError(t, err)

	var vb bytes.Buffer
	m := vm.NewMachineIO(code, strings.NewReader(stdin), &vb)
	require.NoError(t, m.Run())

	return ib.String(), vb.String()
}

func TestEquivArithmeticAndLoop(t *testing.T) {
	lines := []string{
		"word i = 0",
		"word total = 0",
		"for i = 1 : 5",
		"total = total + i",
		"endfor",
		"pr.dec total",
		"pr.nl",
	}
	out1, out2 := runBoth(t, lines, "")
	require.Equal(t, out1, out2)
	require.Equal(t, "15\n", out1)
}

func TestEquivIfElse(t *testing.T) {
	lines := []string{
		"word x = 7",
		"if x > 5",
		"pr.msg \"big\"",
		"else",
		"pr.msg \"small\"",
		"endif",
	}
	out1, out2 := runBoth(t, lines, "")
	require.Equal(t, out1, out2)
	require.Equal(t, "big", out1)
}

func TestEquivSubCall(t *testing.T) {
	lines := []string{
		"sub double(word n)",
		"return n * 2",
		"endsub",
		"word r = 0",
		"r = double(21)",
		"pr.dec r",
	}
	out1, out2 := runBoth(t, lines, "")
	require.Equal(t, out1, out2)
	require.Equal(t, "42", out1)
}

func TestEquivWhileLoop(t *testing.T) {
	lines := []string{
		"word n = 3",
		"while n > 0",
		"pr.dec n",
		"n = n - 1",
		"endwhile",
	}
	out1, out2 := runBoth(t, lines, "")
	require.Equal(t, out1, out2)
	require.Equal(t, "321", out1)
}
