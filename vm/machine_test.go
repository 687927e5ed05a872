package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/eightball-lang/eightball/vm"
	"github.com/stretchr/testify/require"
)

// asm is a tiny helper building flat bytecode with vm.Emitter, standing
// in for what compiler.Compile would produce for a small expression.
func asm(build func(e *vm.Emitter)) []byte {
	e := &vm.Emitter{}
	build(e)
	return e.Code
}

func runCode(t *testing.T, code []byte, in string) string {
	t.Helper()
	var out bytes.Buffer
	m := vm.NewMachineIO(code, strings.NewReader(in), &out)
	require.NoError(t, m.Run())
	return out.String()
}

func TestMachineArithmeticAndPrint(t *testing.T) {
	// 2 + 3 * 4 -> pr.dec -> 14
	code := asm(func(e *vm.Emitter) {
		e.EmitImm(vm.OpPushImm, 3)
		e.EmitImm(vm.OpPushImm, 4)
		e.Emit(vm.OpMul)
		e.EmitImm(vm.OpPushImm, 2)
		e.Emit(vm.OpSwap)
		e.Emit(vm.OpAdd)
		e.Emit(vm.OpPrDec)
		e.Emit(vm.OpEnd)
	})
	require.Equal(t, "14", runCode(t, code, ""))
}

func TestMachineDivByZero(t *testing.T) {
	code := asm(func(e *vm.Emitter) {
		e.EmitImm(vm.OpPushImm, 1)
		e.EmitImm(vm.OpPushImm, 0)
		e.Emit(vm.OpDiv)
		e.Emit(vm.OpEnd)
	})
	var out bytes.Buffer
	m := vm.NewMachineIO(code, strings.NewReader(""), &out)
	require.ErrorIs(t, m.Run(), vm.ErrDivZero)
}

func TestMachineBranchTrueSkipsNothingWhenFalse(t *testing.T) {
	// brt on a 0 condition does not jump: "skip" prints, then the jmp
	// passes over "keep"
	code := asm(func(e *vm.Emitter) {
		e.EmitImm(vm.OpPushImm, 0)
		branchAddr := e.EmitImm(vm.OpBranchTrue, 0)
		e.EmitMsg("skip")
		jmpAddr := e.EmitImm(vm.OpJump, 0)
		e.Fixup(branchAddr, e.PC())
		e.EmitMsg("keep")
		e.Fixup(jmpAddr, e.PC())
		e.Emit(vm.OpEnd)
	})
	require.Equal(t, "skip", runCode(t, code, ""))
}

func TestMachineJsrRts(t *testing.T) {
	// call a sub that prints "hi", then end
	code := asm(func(e *vm.Emitter) {
		jsrAddr := e.EmitImm(vm.OpJsr, 0)
		e.Emit(vm.OpEnd)
		e.Fixup(jsrAddr, e.PC())
		e.EmitMsg("hi")
		e.Emit(vm.OpRts)
	})
	require.Equal(t, "hi", runCode(t, code, ""))
}

func TestMachineKbdLnReadsLine(t *testing.T) {
	// kbd.ln into address 100, maxlen 16, then pr.str that address
	code := asm(func(e *vm.Emitter) {
		e.EmitImm(vm.OpPushImm, 100)
		e.EmitImm(vm.OpPushImm, 16)
		e.Emit(vm.OpKbdLn)
		e.Emit(vm.OpDrop) // discard byte count
		e.EmitImm(vm.OpPushImm, 100)
		e.Emit(vm.OpPrStr)
		e.Emit(vm.OpEnd)
	})
	require.Equal(t, "hello", runCode(t, code, "hello\n"))
}

func TestMachineRunFinishesCleanlyWithoutEnd(t *testing.T) {
	code := asm(func(e *vm.Emitter) {
		e.EmitImm(vm.OpPushImm, 1)
		e.Emit(vm.OpDrop)
	})
	var out bytes.Buffer
	m := vm.NewMachineIO(code, strings.NewReader(""), &out)
	require.NoError(t, m.Run())
}
