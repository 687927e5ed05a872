package vm

import "encoding/binary"

// Emitter is the append-only bytecode writer of §4.4: it tracks the
// current emit address (rtPC) and simulates the runtime stack/frame
// pointers (rtSP, rtFP) so that the compiler can hand out
// frame-relative addresses to locals as they are declared, and
// supports in-place fixup of a previously emitted 16-bit immediate.
//
// rtPC always equals len(Code): one VM address unit is one emitted
// byte, matching the flat, header-less bytecode file format of §6.
type Emitter struct {
	Code []byte

	rtSP int // simulated runtime stack pointer, starts at 0 and decreases on push (the VM stack grows down)
	rtFP int // simulated runtime frame pointer
}

// PC returns the current emit address (rtPC).
func (e *Emitter) PC() int { return len(e.Code) }

// SP/FP expose the emitter's simulated stack/frame pointers so the
// compiler can derive frame-relative offsets for locals (§4.4, §9
// "local && compilingsub").
func (e *Emitter) SP() int   { return e.rtSP }
func (e *Emitter) FP() int   { return e.rtFP }
func (e *Emitter) SetFP(fp int) { e.rtFP = fp }

// AdjustSP must be called alongside every emitted push/pop so that the
// simulated rtSP exactly tracks what the runtime VM's SP will be at
// that point (§8 "Stack discipline (compile)").
func (e *Emitter) AdjustSP(delta int) { e.rtSP += delta }

// Emit appends a single opcode byte with no immediate and returns its
// address.
func (e *Emitter) Emit(op Op) int {
	addr := len(e.Code)
	e.Code = append(e.Code, byte(op))
	return addr
}

// EmitImm appends an opcode followed by a 16-bit little-endian
// immediate and returns the address of the immediate (so a forward
// reference can later be patched with Fixup).
func (e *Emitter) EmitImm(op Op, word int) int {
	addr := len(e.Code)
	e.Code = append(e.Code, byte(op))
	e.Code = append(e.Code, 0, 0)
	binary.LittleEndian.PutUint16(e.Code[addr+1:], uint16(int16(word)))
	return addr + 1
}

// Fixup rewrites the two-byte immediate at a previously returned
// address. rtPC (i.e. len(Code)) is unaffected, matching §4.4.
func (e *Emitter) Fixup(addr int, word int) {
	binary.LittleEndian.PutUint16(e.Code[addr:], uint16(int16(word)))
}

// EmitMsg emits the variable-length PRMSG opcode: opcode byte followed
// by the NUL-terminated message bytes (§4.4).
func (e *Emitter) EmitMsg(msg string) int {
	addr := len(e.Code)
	e.Code = append(e.Code, byte(OpPrMsg))
	e.Code = append(e.Code, []byte(msg)...)
	e.Code = append(e.Code, 0)
	return addr
}

// WordSize/ByteSize are the VM-address-unit costs of a stack slot of
// each base type, used by the compiler to compute local-variable
// frame offsets.
const (
	WordSize = 2
	ByteSize = 1
)
