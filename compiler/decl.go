package compiler

import (
	"github.com/eightball-lang/eightball/lang"
	"github.com/eightball-lang/eightball/vm"
)

// execDecl compiles `word`/`byte` declarations (§4.3): scalar `word n
// = expr`, array `word n[len]`, and the byte-array string initialiser
// `byte msg[12] = "hello"`. The array bound must fold to a compile-time
// constant since it sizes storage (§7 "?need const"); isConst marks a
// scalar declared via `const` and is otherwise ignored for arrays,
// matching the interpreter's own simplification (interp/stmts.go).
func (c *Compiler) execDecl(cur *lang.Cursor, base lang.BaseType, isConst bool) error {
	name, ok := cur.ScanIdent()
	if !ok {
		return lang.ErrVarExpected
	}
	trunc := lang.TruncName(name, lang.VarNameLen)

	if cur.Peek() == '[' {
		cur.Advance(1)
		count, err := c.constExpr(cur)
		if err != nil {
			return err
		}
		if cur.Peek() != ']' {
			return lang.ErrExpectedChar
		}
		cur.Advance(1)
		if count <= 0 {
			return lang.ErrBadDim
		}

		var init []int
		if cur.Peek() == '=' {
			cur.Advance(1)
			if cur.Peek() != '"' {
				return lang.ErrBadExpr
			}
			s, ok := cur.ScanString()
			if !ok {
				return lang.ErrBadString
			}
			init = make([]int, len(s))
			for i := 0; i < len(s); i++ {
				init[i] = int(s[i])
			}
		}

		v := &lang.Var{Name: trunc, Base: base, Array: true, Count: count}
		if c.cur != nil {
			c.declareLocalArray(v, count)
		} else {
			c.declareGlobal(v, count)
		}
		c.emitArrayInit(v, count, init)
		if err := c.Vars.Declare(c.Frame, v); err != nil {
			return err
		}
		return c.checkTrailing(cur)
	}

	if cur.Peek() != '=' {
		return lang.ErrVarExpected
	}
	cur.Advance(1)

	v := &lang.Var{Name: trunc, Base: base, Const: isConst}
	var constVal int
	if isConst {
		val, err := c.constExpr(cur)
		if err != nil {
			return err
		}
		constVal = val
		if err := c.PushLiteral(val); err != nil {
			return err
		}
	} else {
		if err := c.Eval(cur); err != nil {
			return err
		}
	}

	if c.cur != nil {
		c.declareLocal(v)
	} else {
		c.declareGlobal(v, 1)
		c.emitInitStore(v)
	}
	if err := c.Vars.Declare(c.Frame, v); err != nil {
		return err
	}
	if isConst {
		c.constVals[trunc] = constVal
	}
	return c.checkTrailing(cur)
}

// emitArrayInit stores each initialiser byte into v's already-allocated
// storage (local or global — storeOp already dispatches on v.Local).
func (c *Compiler) emitArrayInit(v *lang.Var, count int, init []int) {
	size := sizeOf(v.Base)
	for i, val := range init {
		if i >= count {
			break
		}
		c.Em.EmitImm(vm.OpPushImm, val)
		c.Em.AdjustSP(-vm.WordSize)
		c.Em.EmitImm(storeOp(v, false), v.Addr+i*size)
		c.Em.AdjustSP(vm.WordSize)
	}
}

func (c *Compiler) execConst(cur *lang.Cursor) error {
	base := lang.Word
	switch {
	case cur.Match("word"):
		base = lang.Word
	case cur.Match("byte"):
		base = lang.Byte
	default:
		return lang.ErrBadExpr
	}
	return c.execDecl(cur, base, true)
}

// constExpr evaluates a compile-time-constant expression: array bounds
// and const initialisers need a value up front to size/fold storage,
// unlike a general runtime expression which only needs to emit code
// (§7 "?need const"). The grammar is a small, self-contained
// recursive-descent (+, -, *, /, unary -, parens, literals, and
// previously declared const names) rather than the shared shunting-yard
// Backend, since nothing here ever touches the VM stack.
func (c *Compiler) constExpr(cur *lang.Cursor) (int, error) {
	v, err := c.constTerm(cur)
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case cur.Peek() == '+':
			cur.Advance(1)
			rhs, err := c.constTerm(cur)
			if err != nil {
				return 0, err
			}
			v += rhs
		case cur.Peek() == '-':
			cur.Advance(1)
			rhs, err := c.constTerm(cur)
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

func (c *Compiler) constTerm(cur *lang.Cursor) (int, error) {
	v, err := c.constFactor(cur)
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case cur.Peek() == '*':
			cur.Advance(1)
			rhs, err := c.constFactor(cur)
			if err != nil {
				return 0, err
			}
			v *= rhs
		case cur.Peek() == '/':
			cur.Advance(1)
			rhs, err := c.constFactor(cur)
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, lang.ErrDivZero
			}
			v /= rhs
		default:
			return v, nil
		}
	}
}

func (c *Compiler) constFactor(cur *lang.Cursor) (int, error) {
	if cur.Peek() == '-' {
		cur.Advance(1)
		v, err := c.constFactor(cur)
		return -v, err
	}
	if cur.Peek() == '(' {
		cur.Advance(1)
		v, err := c.constExpr(cur)
		if err != nil {
			return 0, err
		}
		if cur.Peek() != ')' {
			return 0, lang.ErrExpectedChar
		}
		cur.Advance(1)
		return v, nil
	}
	if r, ok := cur.ScanChar(); ok {
		return int(r), nil
	}
	if cur.Peek() >= '0' && cur.Peek() <= '9' || cur.Peek() == '$' {
		v, ok := cur.ScanInt()
		if !ok {
			return 0, lang.ErrBadNum
		}
		return v, nil
	}
	name, ok := cur.ScanIdent()
	if !ok {
		return 0, lang.ErrConstRequired
	}
	trunc := lang.TruncName(name, lang.VarNameLen)
	v, ok := c.constVals[trunc]
	if !ok {
		return 0, lang.ErrConstRequired
	}
	return v, nil
}
