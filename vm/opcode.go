// Package vm defines the bytecode opcode contract EightBall's compiler
// emits (§6) and the bytecode emitter with forward-fixup support
// (§4.4). It also ships a small reference virtual machine that
// executes the contract, grounded on the teacher's `gvm` package
// (vm/vm.go, vm/exec.go) — stack-of-bytes machine, Register-style
// program counter/stack pointer, errcode sentinel, recover()-wrapped
// run loop — so that the "emit/interpret equivalence" property (§8)
// can actually be driven end to end in tests. The VM's own opcode
// *execution* semantics are still an external collaborator as far as
// the compiler is concerned: the compiler only emits these opcodes
// and trusts their documented behaviour (§1).
package vm

// Op is one VM opcode. The encoding mirrors the teacher's `Bytecode
// byte` choice (vm/vm.go) — single bytes, with a 16-bit little-endian
// immediate following where the contract calls for one.
type Op byte

const (
	OpNop Op = iota

	// stack / immediate
	OpPushImm // push 16-bit immediate, sign-extended to a VM word
	OpDup
	OpDrop
	OpSwap

	// load/store, absolute address as immediate operand
	OpLoadAbsW
	OpLoadAbsB
	OpStoreAbsW
	OpStoreAbsB

	// load/store, address popped off the stack
	OpLoadIndW
	OpLoadIndB
	OpStoreIndW
	OpStoreIndB

	// load/store, frame-relative (offset from FP) as immediate operand
	OpLoadRelW
	OpLoadRelB
	OpStoreRelW
	OpStoreRelB

	OpRelToAbs // pop relative offset, push FP+offset as an absolute address

	// arithmetic
	OpNeg
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpInc
	OpDec
	OpPow // repeated multiplication loop, per §6 "pow-via-loop"

	// bitwise
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpLsh
	OpRsh

	// logical
	OpLogAnd
	OpLogOr
	OpLogNot

	// comparison, push 1/0
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte

	// stack frame management
	OpSPtoFP
	OpFPtoSP
	OpPushWord  // reserve 1 VM word on the stack (advances SP), used for locals
	OpPushByte  // reserve 1 byte
	OpPopWord   // pop top word into nowhere (release a local slot)
	OpPopByte
	OpDiscardN // immediate N: drop N bytes worth of stack (the caller's argument cleanup after jsr, §4.4)

	// I/O
	OpPrCh
	OpPrDec
	OpPrDecS // pr.dec.s (signed)
	OpPrHex
	OpPrStr
	OpPrMsg // variable-length: opcode, then NUL-terminated message bytes (§4.4)
	OpPrNl
	OpKbdCh
	OpKbdLn

	// control
	OpBranchTrue // pop condition, immediate target: jump if nonzero
	OpJump       // immediate target: unconditional jump
	OpJsr        // immediate target: push return address, jump
	OpRts        // pop return address, jump

	OpEnd
)

var opNames = map[Op]string{
	OpNop: "nop", OpPushImm: "push", OpDup: "dup", OpDrop: "drop", OpSwap: "swap",
	OpLoadAbsW: "ld.abs.w", OpLoadAbsB: "ld.abs.b", OpStoreAbsW: "st.abs.w", OpStoreAbsB: "st.abs.b",
	OpLoadIndW: "ld.ind.w", OpLoadIndB: "ld.ind.b", OpStoreIndW: "st.ind.w", OpStoreIndB: "st.ind.b",
	OpLoadRelW: "ld.rel.w", OpLoadRelB: "ld.rel.b", OpStoreRelW: "st.rel.w", OpStoreRelB: "st.rel.b",
	OpRelToAbs: "rel2abs",
	OpNeg:      "neg", OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod",
	OpInc: "inc", OpDec: "dec", OpPow: "pow",
	OpBitAnd: "band", OpBitOr: "bor", OpBitXor: "bxor", OpBitNot: "bnot", OpLsh: "lsh", OpRsh: "rsh",
	OpLogAnd: "and", OpLogOr: "or", OpLogNot: "not",
	OpEq: "eq", OpNeq: "neq", OpLt: "lt", OpLte: "lte", OpGt: "gt", OpGte: "gte",
	OpSPtoFP: "sp2fp", OpFPtoSP: "fp2sp", OpPushWord: "push.w", OpPushByte: "push.b",
	OpPopWord: "pop.w", OpPopByte: "pop.b", OpDiscardN: "discard",
	OpPrCh: "pr.ch", OpPrDec: "pr.dec", OpPrDecS: "pr.dec.s", OpPrHex: "pr.hex", OpPrStr: "pr.str",
	OpPrMsg: "pr.msg", OpPrNl: "pr.nl", OpKbdCh: "kbd.ch", OpKbdLn: "kbd.ln",
	OpBranchTrue: "brt", OpJump: "jmp", OpJsr: "jsr", OpRts: "rts", OpEnd: "end",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "?unknown?"
}

// hasImmediate reports whether op is followed by a 16-bit immediate
// operand in the emitted stream.
func (o Op) hasImmediate() bool {
	switch o {
	case OpPushImm, OpLoadAbsW, OpLoadAbsB, OpStoreAbsW, OpStoreAbsB,
		OpLoadRelW, OpLoadRelB, OpStoreRelW, OpStoreRelB,
		OpDiscardN, OpBranchTrue, OpJump, OpJsr:
		return true
	default:
		return false
	}
}

// RTPCStart and RTCallStackTop are the fixed addresses the VM contract
// promises (§6): the program counter begins here, and the call stack
// (return-address stack used by jsr/rts) starts at this address.
const (
	RTPCStart      = 0
	RTCallStackTop = 0xFFFF

	// GlobalsBase reserves the low 8K of the address space for code,
	// matching the original 8-bit target's split between program ROM
	// and variable RAM; global variables are allocated upward from
	// here, while the operand/call stack grows down from the top.
	GlobalsBase = 0x2000
)
