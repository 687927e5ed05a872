package interp

import (
	"github.com/eightball-lang/eightball/dispatch"
	"github.com/eightball-lang/eightball/lang"
)

// execSimple handles every statement that is neither assignment nor
// flow-control: the I/O family, declarations, and the handful of
// bookkeeping keywords (§4.6, and the "mode"/"free" supplemented
// features).
func (ip *Interp) execSimple(stmt dispatch.Stmt, c *lang.Cursor) error {
	switch stmt.Keyword {
	case "pr.dec":
		v, err := ip.Eval(c)
		if err != nil {
			return err
		}
		switch ip.OutputMode {
		case modeHex:
			ip.Printf("%x", v)
		case modeBin:
			ip.Printf("%b", v)
		default:
			ip.Printf("%d", v)
		}
		return nil
	case "pr.dec.s":
		v, err := ip.Eval(c)
		if err != nil {
			return err
		}
		ip.Printf("%+d", v)
		return nil
	case "pr.hex":
		v, err := ip.Eval(c)
		if err != nil {
			return err
		}
		ip.Printf("%x", uint32(v))
		return nil
	case "pr.msg":
		s, ok := c.ScanString()
		if !ok {
			return lang.ErrBadString
		}
		ip.Printf("%s", s)
		return nil
	case "pr.nl":
		ip.Printf("\n")
		return nil
	case "pr.ch":
		v, err := ip.Eval(c)
		if err != nil {
			return err
		}
		ip.Printf("%c", rune(v))
		return nil
	case "pr.str":
		return ip.execPrStr(c)
	case "kbd.ch":
		return ip.execKbdCh(c)
	case "kbd.ln":
		return ip.execKbdLn(c)
	case "clear":
		ip.Vars.Reset()
		ip.Frame = nil
		ip.frameMarkers = nil
		ip.RS.Reset()
		ip.Skip = false
		return nil
	case "vars":
		ip.printVars()
		return nil
	case "free":
		ip.Printf("%d vars\n", ip.Vars.Count())
		return nil
	case "word", "byte":
		base := lang.Word
		if stmt.Keyword == "byte" {
			base = lang.Byte
		}
		return ip.execDecl(c, base, false)
	case "const":
		return ip.execConst(c)
	case "run", "comp", "new":
		return lang.ErrExtraInput // REPL-only, not legal inside a running program
	case "mode":
		v, err := ip.Eval(c)
		if err != nil {
			return err
		}
		ip.OutputMode = v
		return nil
	case "*":
		return ip.execPoke(c, lang.Word)
	case "^":
		return ip.execPoke(c, lang.Byte)
	case "'":
		return nil // comment, already stripped, nothing to do
	default:
		return lang.ErrBadExpr
	}
}

const (
	modeDec = 0
	modeHex = 1
	modeBin = 2
)

func (ip *Interp) execPrStr(c *lang.Cursor) error {
	addr, err := ip.Eval(c)
	if err != nil {
		return err
	}
	v, idx, ok := ip.resolveAddr(addr)
	if !ok || !v.Array {
		return lang.ErrBadIdx
	}
	b := backing(v)
	for i := idx; i < len(b.Elems) && b.Elems[i] != 0; i++ {
		ip.Printf("%c", rune(b.Elems[i]))
	}
	return nil
}

func (ip *Interp) execKbdCh(c *lang.Cursor) error {
	name, ok := c.ScanIdent()
	if !ok {
		return lang.ErrVarExpected
	}
	h, err := ip.Resolve(lang.TruncName(name, lang.VarNameLen))
	if err != nil {
		return err
	}
	v := h.(*lang.Var)
	b, err := ip.In.ReadByte()
	if err != nil {
		return lang.ErrFileIO
	}
	return ip.assign(v, 0, false, int(b))
}

func (ip *Interp) execKbdLn(c *lang.Cursor) error {
	name, ok := c.ScanIdent()
	if !ok {
		return lang.ErrVarExpected
	}
	h, err := ip.Resolve(lang.TruncName(name, lang.VarNameLen))
	if err != nil {
		return err
	}
	v := h.(*lang.Var)
	if !v.Array {
		return lang.ErrVarExpected
	}
	line, err := ip.In.ReadString('\n')
	if err != nil && line == "" {
		return lang.ErrFileIO
	}
	b := backing(v)
	n := 0
	for n < len(line) && line[n] != '\n' && line[n] != '\r' && n < len(b.Elems)-1 {
		b.Elems[n] = int(line[n])
		n++
	}
	if n < len(b.Elems) {
		b.Elems[n] = 0
	}
	return nil
}

func (ip *Interp) printVars() {
	ip.Vars.Walk(func(v *lang.Var) {
		kind := v.Base.String()
		if v.Const {
			kind = "const " + kind
		}
		if v.Array {
			ip.Printf("%s %s[%d]\n", kind, v.Name, len(backing(v).Elems))
		} else {
			ip.Printf("%s %s = %d\n", kind, v.Name, v.Scalar)
		}
	})
}

// backing returns the array that holds v's elements: the caller's
// array for a by-reference formal, v itself otherwise.
func backing(v *lang.Var) *lang.Var {
	if v.IsByRef() && v.ElemsRef != nil {
		return v.ElemsRef
	}
	return v
}

func (ip *Interp) execPoke(c *lang.Cursor, base lang.BaseType) error {
	addr, err := ip.Eval(c)
	if err != nil {
		return err
	}
	if c.Peek() != '=' {
		return lang.ErrExpectedChar
	}
	c.Advance(1)
	val, err := ip.Eval(c)
	if err != nil {
		return err
	}
	v, idx, ok := ip.resolveAddr(addr)
	if !ok {
		return lang.ErrBadIdx
	}
	if base == lang.Byte {
		val = int(int8(val))
	}
	return v.Set(idx, val)
}

// execDecl handles `word`/`byte` declarations: scalar `word n = expr`,
// array `word n[len]`, and the byte-array string initialiser
// `byte msg[12] = "hello"` (§4.3, supplemented from the original's
// array-string initialiser).
func (ip *Interp) execDecl(c *lang.Cursor, base lang.BaseType, isConst bool) error {
	name, ok := c.ScanIdent()
	if !ok {
		return lang.ErrVarExpected
	}
	trunc := lang.TruncName(name, lang.VarNameLen)

	if c.Peek() == '[' {
		c.Advance(1)
		n, err := ip.Eval(c)
		if err != nil {
			return err
		}
		if c.Peek() != ']' {
			return lang.ErrExpectedChar
		}
		c.Advance(1)

		var init []int
		if c.Peek() == '=' {
			c.Advance(1)
			if c.Peek() == '"' {
				s, ok := c.ScanString()
				if !ok {
					return lang.ErrBadString
				}
				init = make([]int, len(s))
				for i := 0; i < len(s); i++ {
					init[i] = int(s[i])
				}
			} else {
				return lang.ErrBadExpr
			}
		}
		if err := ip.declareArray(trunc, base, n, init); err != nil {
			return err
		}
		return ip.checkTrailing(c)
	}

	if c.Peek() != '=' {
		return lang.ErrVarExpected
	}
	c.Advance(1)
	v, err := ip.Eval(c)
	if err != nil {
		return err
	}
	if err := ip.declareScalar(trunc, base, isConst, v); err != nil {
		return err
	}
	return ip.checkTrailing(c)
}

func (ip *Interp) execConst(c *lang.Cursor) error {
	base := lang.Word
	switch {
	case c.Match("word"):
		base = lang.Word
	case c.Match("byte"):
		base = lang.Byte
	default:
		return lang.ErrBadExpr
	}
	return ip.execDecl(c, base, true)
}

func (ip *Interp) checkTrailing(c *lang.Cursor) error {
	if c.Peek() != 0 {
		return lang.ErrExtraInput
	}
	return nil
}
