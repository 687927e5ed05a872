package compiler

import (
	"github.com/eightball-lang/eightball/dispatch"
	"github.com/eightball-lang/eightball/lang"
	"github.com/eightball-lang/eightball/program"
	"github.com/eightball-lang/eightball/vm"
)

// scanSubs walks the whole program once before the main compile pass
// (mirroring interp.Scan's shape, exec.go) and records every
// subroutine's name and formal list. A call compiled textually before
// its `sub` line still needs to know the callee's arity and formal
// types right away, so this pre-pass has to run to completion before
// any line is actually compiled.
func (c *Compiler) scanSubs(prog *program.Store) error {
	c.subs = map[string]*subDef{}
	lines := prog.Lines()
	for _, text := range lines {
		cur := lang.NewCursor(lang.StripComment(text))
		if !cur.Match("sub") || !lang.IsSeparator(cur.Peek()) {
			continue
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
		if _, exists := c.subs[trunc]; exists {
			return lang.ErrRedef
		}
		c.subs[trunc] = &subDef{Name: trunc, Formals: formals}
	}
	return nil
}

// parseFormals is the compiler's own copy of interp's parseFormals
// (exec.go): same grammar, different Formal type, kept separate so the
// two packages stay decoupled.
func parseFormals(cur *lang.Cursor) ([]Formal, error) {
	var out []Formal
	if cur.Peek() == ')' {
		cur.Advance(1)
		return out, nil
	}
	for {
		var base lang.BaseType
		switch {
		case cur.Match("word"):
			base = lang.Word
		case cur.Match("byte"):
			base = lang.Byte
		default:
			return nil, lang.ErrBadExpr
		}
		name, ok := cur.ScanIdent()
		if !ok {
			return nil, lang.ErrVarExpected
		}
		array := false
		if cur.Peek() == '[' {
			cur.Advance(1)
			if cur.Peek() != ']' {
				return nil, lang.ErrExpectedChar
			}
			cur.Advance(1)
			array = true
		}
		out = append(out, Formal{Name: lang.TruncName(name, lang.VarNameLen), Base: base, Array: array})
		if cur.Peek() == ',' {
			cur.Advance(1)
			continue
		}
		break
	}
	if cur.Peek() != ')' {
		return nil, lang.ErrArgCount
	}
	cur.Advance(1)
	return out, nil
}

// Compile emits a full bytecode image for prog (`comp`, §6): a
// pre-pass records subroutine signatures, then every line compiles in
// order, then Link resolves any call compiled ahead of its target's
// `sub` line.
func Compile(prog *program.Store) ([]byte, error) {
	c := New()
	if err := c.scanSubs(prog); err != nil {
		return nil, err
	}
	lines := prog.Lines()
	for _, text := range lines {
		if err := c.compileLine(text); err != nil {
			return nil, err
		}
	}
	if c.cur != nil {
		return nil, lang.ErrMidSub
	}
	c.Em.Emit(vm.OpEnd)
	if err := c.Link(); err != nil {
		return nil, err
	}
	return c.Em.Code, nil
}

// compileLine compiles every `;`-separated statement on one source
// line (§4.1).
func (c *Compiler) compileLine(text string) error {
	for _, stmt := range lang.SplitStatements(lang.StripComment(text)) {
		stmt = lang.TrimTrailingSpace(stmt)
		cur := lang.NewCursor(stmt)
		if cur.AtEnd() {
			continue
		}
		if err := c.compileStmt(cur); err != nil {
			return err
		}
	}
	return nil
}

// compileStmt dispatches one statement to its codegen routine. Unlike
// the interpreter, the compiler has no skip flag: every branch of an
// `if` is fully compiled, and runtime control flow picks which path
// actually executes (§4.5 "compile mode").
func (c *Compiler) compileStmt(cur *lang.Cursor) error {
	stmt, ok := dispatch.Match(cur)
	if !ok {
		return c.execAssign(cur)
	}

	switch stmt.Keyword {
	case "if":
		return c.execIf(cur)
	case "else":
		return c.execElse()
	case "endif":
		return c.execEndif()
	case "for":
		return c.execFor(cur)
	case "endfor":
		return c.execEndfor()
	case "while":
		return c.execWhile(cur)
	case "endwhile":
		return c.execEndwhile()
	case "call":
		return c.execCallStmt(cur)
	case "return":
		return c.execReturnStmt(cur)
	case "sub":
		return c.execSub(cur)
	case "endsub":
		return c.execEndsub()
	case "quit":
		return lang.ErrExtraInput // REPL-only
	case "end":
		c.Em.Emit(vm.OpEnd)
		return nil
	default:
		return c.execSimple(stmt, cur)
	}
}
