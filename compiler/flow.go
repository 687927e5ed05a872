package compiler

import (
	"github.com/eightball-lang/eightball/control"
	"github.com/eightball-lang/eightball/lang"
	"github.com/eightball-lang/eightball/vm"
)

// lookupOrForwardDeclare resolves name against the subroutine table and
// checks the argument count; the entry may not be defined yet (§4.4:
// EightBall has no forward-declaration syntax, so a call compiled
// before its subroutine's `sub` line is recorded by emitCall and
// patched later by Link).
// scanSubs (compile.go) has already pre-declared every sub's formal
// list, so a genuinely undeclared name here is a real ?undef, not
// merely forward.
func (c *Compiler) lookupOrForwardDeclare(name string, argc int) (*subDef, []Formal, error) {
	trunc := lang.TruncName(name, lang.SubNameLen)
	sub, ok := c.subs[trunc]
	if !ok {
		return nil, nil, lang.ErrUndefined
	}
	if len(sub.Formals) != argc {
		return nil, nil, lang.ErrArgCount
	}
	return sub, sub.Formals, nil
}

// emitCall pushes nothing itself (actuals were already pushed by the
// caller) and emits the jsr plus the caller-cleans-stack cleanup: the
// callee's `rts` only pops its own return address, so the caller
// discards its argument words afterward (§4.4).
func (c *Compiler) emitCall(sub *subDef, argc int) {
	patchAddr := c.Em.EmitImm(vm.OpJsr, 0) // return address pushed, then popped by rts: net 0
	if sub.Defined {
		c.Em.Fixup(patchAddr, sub.EntryPC)
	} else {
		c.pending = append(c.pending, pendingCall{PatchAddr: patchAddr, Name: sub.Name})
	}
	if argc > 0 {
		c.Em.EmitImm(vm.OpDiscardN, argc*vm.WordSize)
		c.Em.AdjustSP(argc * vm.WordSize)
	}
}

// Link patches every pending forward call against subroutines defined
// later in the source; any name still undefined at this point is the
// `?link` error of §7.
func (c *Compiler) Link() error {
	for _, p := range c.pending {
		sub, ok := c.subs[p.Name]
		if !ok || !sub.Defined {
			return lang.ErrLink
		}
		c.Em.Fixup(p.PatchAddr, sub.EntryPC)
	}
	c.pending = nil
	return nil
}

// execIf compiles `if expr` (§4.5, compile mode): NOT the condition,
// branch-if-true past the then-branch; the branch target is patched by
// execElse or execEndif, whichever is reached first.
func (c *Compiler) execIf(cur *lang.Cursor) error {
	if err := c.Eval(cur); err != nil {
		return err
	}
	c.Em.Emit(vm.OpLogNot)
	addr := c.Em.EmitImm(vm.OpBranchTrue, 0)
	c.Em.AdjustSP(vm.WordSize)
	c.RS.Push(control.Frame{Tag: control.TagIf, ElsePatchAddr: addr})
	return nil
}

func (c *Compiler) execElse() error {
	if !c.RS.TopIs(control.TagIf) {
		return control.ErrNoIf
	}
	f := c.RS.Top()
	jumpAddr := c.Em.EmitImm(vm.OpJump, 0)
	c.Em.Fixup(f.ElsePatchAddr, c.Em.PC())
	f.EndifPatchAddr = jumpAddr
	f.HasElsePatch = true
	return nil
}

func (c *Compiler) execEndif() error {
	if !c.RS.TopIs(control.TagIf) {
		return control.ErrNoIf
	}
	f, _ := c.RS.Pop()
	if f.HasElsePatch {
		c.Em.Fixup(f.EndifPatchAddr, c.Em.PC())
	} else {
		c.Em.Fixup(f.ElsePatchAddr, c.Em.PC())
	}
	return nil
}

// execWhile compiles `while expr` (§4.5, compile mode): re-evaluate
// the guard at the loop top, branch out on false; endwhile jumps back
// unconditionally to the guard.
func (c *Compiler) execWhile(cur *lang.Cursor) error {
	top := c.Em.PC()
	if err := c.Eval(cur); err != nil {
		return err
	}
	c.Em.Emit(vm.OpLogNot)
	branchAddr := c.Em.EmitImm(vm.OpBranchTrue, 0)
	c.Em.AdjustSP(vm.WordSize)
	c.RS.Push(control.Frame{Tag: control.TagWhile, WhileTopPC: top, WhileBranchPC: branchAddr})
	return nil
}

func (c *Compiler) execEndwhile() error {
	if !c.RS.TopIs(control.TagWhile) {
		return control.ErrNoWhile
	}
	f, _ := c.RS.Pop()
	c.Em.EmitImm(vm.OpJump, f.WhileTopPC)
	c.Em.Fixup(f.WhileBranchPC, c.Em.PC())
	return nil
}

// execFor compiles `for var = start : limit` (§4.5): post-test,
// run-at-least-once, matching the interpreter's semantics decision
// (interp/flow.go). Unlike the interpreter, the compiler can't inspect
// start/limit's runtime values to infer counting direction at compile
// time when they're arbitrary expressions, so the step (+1 or -1) is
// computed once at loop entry and stashed in a scratch global, and
// continuation is tested as (var-limit)*step <= 0 — true for both
// counting directions.
func (c *Compiler) execFor(cur *lang.Cursor) error {
	name, ok := cur.ScanIdent()
	if !ok {
		return lang.ErrVarExpected
	}
	h, err := c.Resolve(lang.TruncName(name, lang.VarNameLen))
	if err != nil {
		return err
	}
	v := h.(*lang.Var)
	if v.Array || v.Const {
		return lang.ErrVarExpected
	}
	if cur.Peek() != '=' {
		return lang.ErrExpectedChar
	}
	cur.Advance(1)
	if err := c.Eval(cur); err != nil {
		return err
	}
	if err := c.storeScalar(v); err != nil {
		return err
	}
	if cur.Peek() != ':' {
		return lang.ErrExpectedChar
	}
	cur.Advance(1)
	if err := c.Eval(cur); err != nil {
		return err
	}

	depth := c.RS.Len()
	if depth >= maxForNesting {
		return lang.ErrStackExhausted
	}
	limitAddr, stepAddr := c.forScratchAddr(depth)

	c.Em.EmitImm(vm.OpStoreAbsW, limitAddr)
	c.Em.AdjustSP(vm.WordSize)

	// step = 1 - 2*(limit < var)
	c.Em.EmitImm(vm.OpPushImm, 1)
	c.Em.AdjustSP(-vm.WordSize)
	c.Em.EmitImm(vm.OpLoadAbsW, limitAddr)
	c.Em.AdjustSP(-vm.WordSize)
	c.emitLoadScalar(v)
	c.Em.Emit(vm.OpLt)
	c.Em.AdjustSP(vm.WordSize)
	c.Em.EmitImm(vm.OpPushImm, 2)
	c.Em.AdjustSP(-vm.WordSize)
	c.Em.Emit(vm.OpMul)
	c.Em.AdjustSP(vm.WordSize)
	c.Em.Emit(vm.OpSub)
	c.Em.AdjustSP(vm.WordSize)
	c.Em.EmitImm(vm.OpStoreAbsW, stepAddr)
	c.Em.AdjustSP(vm.WordSize)

	top := c.Em.PC()
	c.RS.Push(control.Frame{
		Tag: forTag(v.Base), ForTopPC: top, ForVarName: v.Name,
		ForLimitAddr: limitAddr, ForStepAddr: stepAddr,
	})
	return nil
}

func forTag(base lang.BaseType) control.Tag {
	if base == lang.Byte {
		return control.TagForByte
	}
	return control.TagForWord
}

func (c *Compiler) execEndfor() error {
	f := c.RS.Top()
	if f == nil || (f.Tag != control.TagForWord && f.Tag != control.TagForByte) {
		return control.ErrNoFor
	}
	h, err := c.Resolve(f.ForVarName)
	if err != nil {
		return err
	}
	v := h.(*lang.Var)

	c.emitLoadScalar(v)
	c.Em.EmitImm(vm.OpLoadAbsW, f.ForStepAddr)
	c.Em.AdjustSP(-vm.WordSize)
	c.Em.Emit(vm.OpAdd)
	c.Em.AdjustSP(vm.WordSize)
	if err := c.storeScalar(v); err != nil {
		return err
	}

	c.emitLoadScalar(v)
	c.Em.EmitImm(vm.OpLoadAbsW, f.ForLimitAddr)
	c.Em.AdjustSP(-vm.WordSize)
	c.Em.Emit(vm.OpSub)
	c.Em.AdjustSP(vm.WordSize)
	c.Em.EmitImm(vm.OpLoadAbsW, f.ForStepAddr)
	c.Em.AdjustSP(-vm.WordSize)
	c.Em.Emit(vm.OpMul)
	c.Em.AdjustSP(vm.WordSize)
	c.Em.EmitImm(vm.OpPushImm, 0)
	c.Em.AdjustSP(-vm.WordSize)
	c.Em.Emit(vm.OpLte)
	c.Em.AdjustSP(vm.WordSize)
	c.Em.EmitImm(vm.OpBranchTrue, f.ForTopPC)
	c.Em.AdjustSP(vm.WordSize)

	c.RS.Pop()
	return nil
}

// storeScalar pops the stack top into v (§4.3 assignment codegen).
func (c *Compiler) storeScalar(v *lang.Var) error {
	if v.Const {
		return lang.ErrAssignConst
	}
	c.emitInitStore(v)
	return nil
}

// emitInitStore pops the stack top into v's global slot unconditionally,
// even when v.Const — a const's declaration is the one write its value
// ever gets, same as the interpreter setting v.Scalar directly in
// declareScalar (interp/decl.go) instead of routing through assign.
func (c *Compiler) emitInitStore(v *lang.Var) {
	c.Em.EmitImm(storeOp(v, false), v.Addr)
	c.Em.AdjustSP(vm.WordSize)
}

// storeIndexed assumes the stack holds ..., index, value (the index
// subexpression parses before the assignment's right-hand side in
// `name[idx] = expr`) and pops both.
func (c *Compiler) storeIndexed(v *lang.Var) error {
	if v.Const {
		return lang.ErrAssignConst
	}
	c.Em.Emit(vm.OpSwap) // ..., value, index
	c.emitElemAddr(v)    // ..., value, addr
	if v.Base == lang.Byte {
		c.Em.Emit(vm.OpStoreIndB)
	} else {
		c.Em.Emit(vm.OpStoreIndW)
	}
	c.Em.AdjustSP(vm.WordSize)
	return nil
}

// execSub compiles a `sub name(...)` header: it emits a jump that
// skips the whole body (for the case execution falls into it
// sequentially rather than via `call`/expression-call, §4.4) and opens
// the sub's scope; execEndsub closes it and patches the skip-jump.
func (c *Compiler) execSub(cur *lang.Cursor) error {
	if c.cur != nil {
		return lang.ErrMidSub
	}
	name, ok := cur.ScanIdent()
	if !ok {
		return lang.ErrBadExpr
	}
	if cur.Peek() != '(' {
		return lang.ErrExpectedChar
	}
	cur.Advance(1)
	formals, err := parseFormals(cur)
	if err != nil {
		return err
	}

	trunc := lang.TruncName(name, lang.SubNameLen)
	def, ok := c.subs[trunc]
	if !ok || def.Defined {
		return lang.ErrRedef
	}

	skipAddr := c.Em.EmitImm(vm.OpJump, 0)

	def.Defined = true
	def.EntryPC = c.Em.PC()
	def.Formals = formals
	def.FormalOff = map[string]int{}
	c.Em.Emit(vm.OpSPtoFP)

	off := vm.WordSize // FP+0 is the saved return address
	for i := len(formals) - 1; i >= 0; i-- {
		f := formals[i]
		def.FormalOff[f.Name] = off
		size := vm.WordSize
		if f.Base == lang.Byte && !f.Array {
			size = vm.ByteSize
		}
		off += size
	}

	marker := c.Vars.PushFrame()
	c.Frame = marker
	c.cur = &subFrame{def: def, fpSP: c.Em.SP(), skipPatchAddr: skipAddr}

	for _, f := range formals {
		fv := &lang.Var{
			Name: f.Name, Base: f.Base, Array: f.Array, Local: true,
			Addr: def.FormalOff[f.Name],
		}
		if f.Array {
			fv.Count = -1 // by-reference
		}
		if err := c.Vars.Declare(c.Frame, fv); err != nil {
			return err
		}
	}
	return nil
}

// execEndsub closes the active sub body: a fall-through exit (no
// explicit `return` reached) behaves like `return 0`, matching the
// interpreter's endsub case.
func (c *Compiler) execEndsub() error {
	if c.cur == nil {
		return control.ErrNoSub
	}
	c.Em.EmitImm(vm.OpPushImm, 0)
	c.Em.AdjustSP(-vm.WordSize)
	if err := c.emitReturn(); err != nil {
		return err
	}
	c.Em.Fixup(c.cur.skipPatchAddr, c.Em.PC())
	c.Vars.PopFrame(c.Frame)
	c.Frame = nil
	c.cur = nil
	return nil
}

// emitReturn compiles `return expr`: the value is already on the
// stack; store it to the return register, collapse the frame, and rts.
func (c *Compiler) emitReturn() error {
	if c.cur == nil {
		return control.ErrNoSub
	}
	c.Em.EmitImm(vm.OpStoreAbsW, c.retRegAddr)
	c.Em.AdjustSP(vm.WordSize)
	c.Em.Emit(vm.OpFPtoSP)
	c.Em.Emit(vm.OpRts)
	return nil
}

func (c *Compiler) execReturnStmt(cur *lang.Cursor) error {
	if err := c.Eval(cur); err != nil {
		return err
	}
	return c.emitReturn()
}

// execCallStmt compiles `call name(args...)` (§4.4): actuals are
// pushed left to right — by-reference array actuals push the array's
// base address via PushAddr, scalar actuals evaluate normally — then
// emitCall does the jsr and caller-side cleanup.
func (c *Compiler) execCallStmt(cur *lang.Cursor) error {
	name, ok := cur.ScanIdent()
	if !ok {
		return lang.ErrBadExpr
	}
	trunc := lang.TruncName(name, lang.SubNameLen)
	sub, ok := c.subs[trunc]
	if !ok {
		return lang.ErrUndefined
	}
	if cur.Peek() != '(' {
		return lang.ErrExpectedChar
	}
	cur.Advance(1)

	for i, f := range sub.Formals {
		if i > 0 {
			if cur.Peek() != ',' {
				return lang.ErrArgCount
			}
			cur.Advance(1)
		}
		if f.Array {
			aname, ok := cur.ScanIdent()
			if !ok {
				return lang.ErrVarExpected
			}
			h, err := c.Resolve(lang.TruncName(aname, lang.VarNameLen))
			if err != nil {
				return err
			}
			av := h.(*lang.Var)
			if !av.Array {
				return lang.ErrVarExpected
			}
			if err := c.PushAddr(av, false); err != nil {
				return err
			}
			continue
		}
		if err := c.Eval(cur); err != nil {
			return err
		}
	}
	if cur.Peek() != ')' {
		return lang.ErrArgCount
	}
	cur.Advance(1)

	c.emitCall(sub, len(sub.Formals))
	return nil
}

// declareLocal binds v to the FP-relative offset of whatever value was
// just pushed evaluating its initialiser — the pushed word itself
// becomes the local's permanent storage for the rest of the sub body
// (§4.4 "local && compilingsub"); no separate store is emitted.
func (c *Compiler) declareLocal(v *lang.Var) {
	v.Addr = c.Em.SP() - c.cur.fpSP
	v.Local = true
}

// declareLocalArray reserves count elements of storage by pushing
// count uninitialised slots; the offset of the lowest (last-reserved)
// address becomes elem 0, keeping index order the same as a global
// array's ascending addresses.
func (c *Compiler) declareLocalArray(v *lang.Var, count int) {
	for i := 0; i < count; i++ {
		if v.Base == lang.Byte {
			c.Em.Emit(vm.OpPushByte)
			c.Em.AdjustSP(-vm.ByteSize)
		} else {
			c.Em.Emit(vm.OpPushWord)
			c.Em.AdjustSP(-vm.WordSize)
		}
	}
	v.Addr = c.Em.SP() - c.cur.fpSP
	v.Local = true
}

// declareGlobal allocates the next global address for a top-level
// variable (§3).
func (c *Compiler) declareGlobal(v *lang.Var, count int) {
	size := sizeOf(v.Base)
	if v.Array {
		size *= count
	}
	v.Addr = c.allocGlobal(size)
	v.Local = false
}
