// Package compiler implements the compile-mode lang.Backend (§4.5's
// compile-mode algorithms, §4.4's bytecode emission): the same
// shunting-yard traversal the interpreter drives is replayed here to
// emit vm.Op bytecode instead of computing values directly, per design
// note 9's "one traversal, two back-ends".
package compiler

import (
	"github.com/eightball-lang/eightball/control"
	"github.com/eightball-lang/eightball/lang"
	"github.com/eightball-lang/eightball/vm"
)

// Formal mirrors interp.Formal; kept as its own type here rather than
// shared so the compiler and interpreter packages stay decoupled (one
// only needs runtime values, the other only needs addresses).
type Formal struct {
	Name  string
	Base  lang.BaseType
	Array bool
}

// subDef is a subroutine's compile-mode descriptor.
type subDef struct {
	Name      string
	EntryPC   int
	Defined   bool
	Formals   []Formal
	FormalOff map[string]int // name -> FP-relative offset
}

// pendingCall is an emitted `jsr` whose target subroutine wasn't yet
// defined when the call was compiled (§4.4's forward-reference list,
// "?link" on an unresolved name at `comp` time).
type pendingCall struct {
	PatchAddr int
	Name      string
}

// Compiler is the compile-mode Backend. One Compiler compiles exactly
// one program; Compile (compile.go) drives it start to finish.
type Compiler struct {
	Vars  lang.Table
	Frame *lang.Var
	RS    control.Stack

	Em *vm.Emitter

	nextGlobal     int
	retRegAddr     int
	forScratchBase int

	constVals map[string]int

	subs    map[string]*subDef
	pending []pendingCall

	cur *subFrame // non-nil while compiling inside a sub body
}

// subFrame tracks the FP-relative addressing scheme for the
// subroutine currently being compiled: formals sit at fixed positive
// offsets (computed once from the formal list, independent of any call
// site — every call pushes args in the same order). Locals need no
// separate offset counter: a local's initialiser is left resident
// exactly where evaluating it naturally pushed it, and fpSP (the
// Emitter's simulated SP at the moment OpSPtoFP was emitted) is enough
// to turn "current simulated SP" into an FP-relative offset for
// whatever just got pushed (§4.4 "local && compilingsub").
type subFrame struct {
	def          *subDef
	fpSP         int
	skipPatchAddr int // the `sub` line's body-skipping jmp, patched at `endsub`
}

// maxForNesting bounds the compile-time return-stack depth (open
// if/while/for frames) at which a `for` may start; each active loop
// gets a fixed pair of global scratch words (limit, step) indexed by
// that depth rather than a dynamically sized allocation, since
// the compiler has no notion of a runtime-growable global segment.
const maxForNesting = 32

func New() *Compiler {
	c := &Compiler{Em: &vm.Emitter{}, subs: map[string]*subDef{}, constVals: map[string]int{}}
	c.nextGlobal = vm.GlobalsBase
	c.retRegAddr = c.allocGlobal(vm.WordSize)
	c.forScratchBase = c.allocGlobal(maxForNesting * 2 * vm.WordSize)
	return c
}

// forScratchAddr returns the (limit, step) scratch addresses reserved
// for a `for` loop opened at return-stack depth (0 = no open frame).
func (c *Compiler) forScratchAddr(depth int) (limitAddr, stepAddr int) {
	base := c.forScratchBase + depth*2*vm.WordSize
	return base, base + vm.WordSize
}

// Eval compiles a full expression at the cursor, matching interp.Eval's
// role but emitting code instead of computing a Go-side value.
func (c *Compiler) Eval(cur *lang.Cursor) error {
	return lang.NewEval(cur, c).Run()
}

func (c *Compiler) allocGlobal(size int) int {
	a := c.nextGlobal
	c.nextGlobal += size
	return a
}

func sizeOf(b lang.BaseType) int {
	if b == lang.Byte {
		return vm.ByteSize
	}
	return vm.WordSize
}

// --- lang.Backend ---

func (c *Compiler) PushLiteral(v int) error {
	c.Em.EmitImm(vm.OpPushImm, v)
	c.Em.AdjustSP(-vm.WordSize)
	return nil
}

func (c *Compiler) Resolve(name string) (lang.VarHandle, error) {
	v, _, ok := c.Vars.Lookup(c.Frame, name, false)
	if !ok {
		return nil, lang.ErrUndefined
	}
	return v, nil
}

func (c *Compiler) LoadScalar(h lang.VarHandle) error {
	v := h.(*lang.Var)
	if v.Array {
		return lang.ErrVarExpected
	}
	c.emitLoadScalar(v)
	return nil
}

// emitLoadScalar always leaves a full VM-word on the stack, even for a
// byte-backed variable (the stack itself is word-wide, §6).
func (c *Compiler) emitLoadScalar(v *lang.Var) {
	op := loadOp(v, false)
	c.Em.EmitImm(op, v.Addr)
	c.Em.AdjustSP(-vm.WordSize)
}

func loadOp(v *lang.Var, forceWord bool) vm.Op {
	byteWidth := v.Base == lang.Byte && !forceWord
	if v.Local {
		if byteWidth {
			return vm.OpLoadRelB
		}
		return vm.OpLoadRelW
	}
	if byteWidth {
		return vm.OpLoadAbsB
	}
	return vm.OpLoadAbsW
}

func storeOp(v *lang.Var, forceWord bool) vm.Op {
	byteWidth := v.Base == lang.Byte && !forceWord
	if v.Local {
		if byteWidth {
			return vm.OpStoreRelB
		}
		return vm.OpStoreRelW
	}
	if byteWidth {
		return vm.OpStoreAbsB
	}
	return vm.OpStoreAbsW
}

// emitElemAddr assumes the element index is already on the stack (per
// the Backend contract) and leaves the element's absolute address on
// the stack in its place.
func (c *Compiler) emitElemAddr(v *lang.Var) {
	c.Em.EmitImm(vm.OpPushImm, sizeOf(v.Base))
	c.Em.AdjustSP(-vm.WordSize)
	c.Em.Emit(vm.OpMul)
	c.Em.AdjustSP(vm.WordSize)

	switch {
	case v.IsByRef():
		// the variable itself holds a pointer; load it (always
		// word-width) and add.
		c.Em.EmitImm(loadOp(v, true), v.Addr)
		c.Em.AdjustSP(-vm.WordSize)
		c.Em.Emit(vm.OpAdd)
		c.Em.AdjustSP(vm.WordSize)
	case v.Local:
		c.Em.EmitImm(vm.OpPushImm, v.Addr)
		c.Em.AdjustSP(-vm.WordSize)
		c.Em.Emit(vm.OpAdd)
		c.Em.AdjustSP(vm.WordSize)
		c.Em.Emit(vm.OpRelToAbs)
	default:
		c.Em.EmitImm(vm.OpPushImm, v.Addr)
		c.Em.AdjustSP(-vm.WordSize)
		c.Em.Emit(vm.OpAdd)
		c.Em.AdjustSP(vm.WordSize)
	}
}

func (c *Compiler) LoadIndexed(h lang.VarHandle) error {
	v := h.(*lang.Var)
	if !v.Array {
		return lang.ErrVarExpected
	}
	c.emitElemAddr(v)
	if v.Base == lang.Byte {
		c.Em.Emit(vm.OpLoadIndB)
	} else {
		c.Em.Emit(vm.OpLoadIndW)
	}
	return nil
}

func (c *Compiler) PushAddr(h lang.VarHandle, indexed bool) error {
	v := h.(*lang.Var)
	if indexed {
		if !v.Array {
			return lang.ErrVarExpected
		}
		c.emitElemAddr(v)
		return nil
	}
	switch {
	case v.IsByRef():
		c.Em.EmitImm(loadOp(v, true), v.Addr)
		c.Em.AdjustSP(-vm.WordSize)
	case v.Local:
		c.Em.EmitImm(vm.OpPushImm, v.Addr)
		c.Em.AdjustSP(-vm.WordSize)
		c.Em.Emit(vm.OpRelToAbs)
	default:
		c.Em.EmitImm(vm.OpPushImm, v.Addr)
		c.Em.AdjustSP(-vm.WordSize)
	}
	return nil
}

func (c *Compiler) Unary(op lang.Op) error {
	switch op {
	case lang.OpUnaryMinus:
		c.Em.Emit(vm.OpNeg)
	case lang.OpLogNot:
		c.Em.Emit(vm.OpLogNot)
	case lang.OpBitNot:
		c.Em.Emit(vm.OpBitNot)
	case lang.OpDerefW:
		c.Em.Emit(vm.OpLoadIndW)
	case lang.OpDerefB:
		c.Em.Emit(vm.OpLoadIndB)
	default:
		return lang.ErrBadExpr
	}
	return nil
}

var binOps = map[lang.Op]vm.Op{
	lang.OpPow: vm.OpPow, lang.OpMul: vm.OpMul, lang.OpDiv: vm.OpDiv, lang.OpMod: vm.OpMod,
	lang.OpAdd: vm.OpAdd, lang.OpSub: vm.OpSub,
	lang.OpShl: vm.OpLsh, lang.OpShr: vm.OpRsh,
	lang.OpLt: vm.OpLt, lang.OpLte: vm.OpLte, lang.OpGt: vm.OpGt, lang.OpGte: vm.OpGte,
	lang.OpEq: vm.OpEq, lang.OpNeq: vm.OpNeq,
	lang.OpBitAnd: vm.OpBitAnd, lang.OpBitXor: vm.OpBitXor, lang.OpBitOr: vm.OpBitOr,
	lang.OpLogAnd: vm.OpLogAnd, lang.OpLogOr: vm.OpLogOr,
}

func (c *Compiler) Binary(op lang.Op) error {
	vop, ok := binOps[op]
	if !ok {
		return lang.ErrBadExpr
	}
	c.Em.Emit(vop)
	c.Em.AdjustSP(vm.WordSize)
	return nil
}

func (c *Compiler) BeginCall(name string) error { return nil }

func (c *Compiler) EndCall(name string, argc int) error {
	sub, formals, err := c.lookupOrForwardDeclare(name, argc)
	if err != nil {
		return err
	}
	c.emitCall(sub, len(formals))
	c.Em.EmitImm(vm.OpLoadAbsW, c.retRegAddr)
	c.Em.AdjustSP(-vm.WordSize)
	return nil
}
