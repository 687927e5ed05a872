package compiler

import (
	"github.com/eightball-lang/eightball/dispatch"
	"github.com/eightball-lang/eightball/lang"
	"github.com/eightball-lang/eightball/vm"
)

// execSimple compiles every statement that is neither assignment nor
// flow-control: the I/O family, declarations, and pokes (§4.6). `mode`,
// like `run`/`comp`/`new`, only makes sense against a live REPL session
// and has no bytecode counterpart, so it is rejected here the same way
// the interpreter rejects those inside a running program.
func (c *Compiler) execSimple(stmt dispatch.Stmt, cur *lang.Cursor) error {
	switch stmt.Keyword {
	case "pr.dec":
		if err := c.Eval(cur); err != nil {
			return err
		}
		c.Em.Emit(vm.OpPrDec)
		c.Em.AdjustSP(vm.WordSize)
		return nil
	case "pr.dec.s":
		if err := c.Eval(cur); err != nil {
			return err
		}
		c.Em.Emit(vm.OpPrDecS)
		c.Em.AdjustSP(vm.WordSize)
		return nil
	case "pr.hex":
		if err := c.Eval(cur); err != nil {
			return err
		}
		c.Em.Emit(vm.OpPrHex)
		c.Em.AdjustSP(vm.WordSize)
		return nil
	case "pr.msg":
		s, ok := cur.ScanString()
		if !ok {
			return lang.ErrBadString
		}
		c.Em.EmitMsg(s)
		return nil
	case "pr.nl":
		c.Em.Emit(vm.OpPrNl)
		return nil
	case "pr.ch":
		if err := c.Eval(cur); err != nil {
			return err
		}
		c.Em.Emit(vm.OpPrCh)
		c.Em.AdjustSP(vm.WordSize)
		return nil
	case "pr.str":
		if err := c.Eval(cur); err != nil {
			return err
		}
		c.Em.Emit(vm.OpPrStr)
		c.Em.AdjustSP(vm.WordSize)
		return nil
	case "kbd.ch":
		return c.execKbdCh(cur)
	case "kbd.ln":
		return c.execKbdLn(cur)
	case "word", "byte":
		base := lang.Word
		if stmt.Keyword == "byte" {
			base = lang.Byte
		}
		return c.execDecl(cur, base, false)
	case "const":
		return c.execConst(cur)
	case "run", "comp", "new", "mode", "clear", "vars", "free":
		return lang.ErrExtraInput // REPL-only, not legal in compiled code
	case "*":
		return c.execPoke(cur, lang.Word)
	case "^":
		return c.execPoke(cur, lang.Byte)
	case "'":
		return nil
	default:
		return lang.ErrBadExpr
	}
}

// execKbdCh compiles `kbd.ch var`: read one byte, store it.
func (c *Compiler) execKbdCh(cur *lang.Cursor) error {
	name, ok := cur.ScanIdent()
	if !ok {
		return lang.ErrVarExpected
	}
	h, err := c.Resolve(lang.TruncName(name, lang.VarNameLen))
	if err != nil {
		return err
	}
	v := h.(*lang.Var)
	c.Em.Emit(vm.OpKbdCh)
	c.Em.AdjustSP(-vm.WordSize)
	return c.storeScalar(v)
}

// execKbdLn compiles `kbd.ln arr`: the VM's OpKbdLn convention pops
// (top to bottom) maxlen then addr, so both are pushed before the op.
func (c *Compiler) execKbdLn(cur *lang.Cursor) error {
	name, ok := cur.ScanIdent()
	if !ok {
		return lang.ErrVarExpected
	}
	h, err := c.Resolve(lang.TruncName(name, lang.VarNameLen))
	if err != nil {
		return err
	}
	v := h.(*lang.Var)
	if !v.Array {
		return lang.ErrVarExpected
	}
	if err := c.PushAddr(v, false); err != nil {
		return err
	}
	c.Em.EmitImm(vm.OpPushImm, v.Count)
	c.Em.AdjustSP(-vm.WordSize)
	c.Em.Emit(vm.OpKbdLn) // consumes addr+maxlen, pushes the byte count
	c.Em.AdjustSP(vm.WordSize)
	c.Em.Emit(vm.OpDrop) // the byte count isn't used as a statement
	c.Em.AdjustSP(vm.WordSize)
	return nil
}

// execPoke compiles `*addr = val` / `^addr = val`, the raw memory
// pokes (§4.6 sigil statements).
func (c *Compiler) execPoke(cur *lang.Cursor, base lang.BaseType) error {
	if err := c.Eval(cur); err != nil {
		return err
	}
	if cur.Peek() != '=' {
		return lang.ErrExpectedChar
	}
	cur.Advance(1)
	if err := c.Eval(cur); err != nil {
		return err
	}
	c.Em.Emit(vm.OpSwap)
	if base == lang.Byte {
		c.Em.Emit(vm.OpStoreIndB)
	} else {
		c.Em.Emit(vm.OpStoreIndW)
	}
	c.Em.AdjustSP(2 * vm.WordSize)
	return nil
}

// execAssign compiles `name = expr` / `name[idx] = expr` (§4.3), the
// one statement form with no leading keyword.
func (c *Compiler) execAssign(cur *lang.Cursor) error {
	name, ok := cur.ScanIdent()
	if !ok {
		return lang.ErrBadExpr
	}
	h, err := c.Resolve(lang.TruncName(name, lang.VarNameLen))
	if err != nil {
		return err
	}
	v := h.(*lang.Var)

	indexed := false
	if cur.Peek() == '[' {
		cur.Advance(1)
		if err := c.Eval(cur); err != nil {
			return err
		}
		if cur.Peek() != ']' {
			return lang.ErrExpectedChar
		}
		cur.Advance(1)
		indexed = true
	}
	if cur.Peek() != '=' {
		return lang.ErrExpectedChar
	}
	cur.Advance(1)
	if err := c.Eval(cur); err != nil {
		return err
	}
	if cur.Peek() != 0 {
		return lang.ErrExtraInput
	}
	if indexed {
		return c.storeIndexed(v)
	}
	return c.storeScalar(v)
}

func (c *Compiler) checkTrailing(cur *lang.Cursor) error {
	if cur.Peek() != 0 {
		return lang.ErrExtraInput
	}
	return nil
}
