package interp

import (
	"github.com/eightball-lang/eightball/control"
	"github.com/eightball-lang/eightball/dispatch"
	"github.com/eightball-lang/eightball/lang"
)

// Scan walks the whole program once before `run` (§4.4): it
// records every subroutine's body bounds and formal list so `call`
// and expression-style invocation never need to search the source.
// Re-running `run` after editing re-scans from scratch.
func (ip *Interp) Scan() error {
	ip.Subs.Reset()
	lines := ip.Prog.Lines()
	for i := 0; i < len(lines); i++ {
		c := lang.NewCursor(lang.StripComment(lines[i]))
		if !c.Match("sub") || !lang.IsSeparator(c.Peek()) {
			continue
		}
		name, ok := c.ScanIdent()
		if !ok {
			return lang.ErrBadExpr
		}
		if c.Peek() != '(' {
			return lang.ErrExpectedChar
		}
		c.Advance(1)
		formals, err := parseFormals(c)
		if err != nil {
			return err
		}
		end := -1
		for j := i + 1; j < len(lines); j++ {
			ec := lang.NewCursor(lang.StripComment(lines[j]))
			if ec.Match("endsub") {
				end = j + 1 // 1-based line index
				break
			}
		}
		if end == -1 {
			return lang.ErrMidSub
		}
		sub := &Sub{
			Name:    lang.TruncName(name, lang.SubNameLen),
			StartLn: i + 2, // first body line, 1-based, right after `sub` line
			EndLn:   end,
			Formals: formals,
		}
		if err := ip.Subs.Add(sub); err != nil {
			return err
		}
	}
	return nil
}

func parseFormals(c *lang.Cursor) ([]Formal, error) {
	var out []Formal
	if c.Peek() == ')' {
		c.Advance(1)
		return out, nil
	}
	for {
		var base lang.BaseType
		switch {
		case c.Match("word"):
			base = lang.Word
		case c.Match("byte"):
			base = lang.Byte
		default:
			return nil, lang.ErrBadExpr
		}
		name, ok := c.ScanIdent()
		if !ok {
			return nil, lang.ErrVarExpected
		}
		array := false
		if c.Peek() == '[' {
			c.Advance(1)
			if c.Peek() != ']' {
				return nil, lang.ErrExpectedChar
			}
			c.Advance(1)
			array = true
		}
		out = append(out, Formal{Name: lang.TruncName(name, lang.VarNameLen), Base: base, Array: array})
		if c.Peek() == ',' {
			c.Advance(1)
			continue
		}
		break
	}
	if c.Peek() != ')' {
		return nil, lang.ErrArgCount
	}
	c.Advance(1)
	return out, nil
}

// Run executes the whole stored program from line 1 (`run`, §6).
func (ip *Interp) Run() error {
	if err := ip.Scan(); err != nil {
		return err
	}
	ip.RS.Reset()
	ip.Skip = false
	ip.frameMarkers = nil
	ip.Frame = nil
	return ip.execFrom(1, ip.Prog.Len())
}

// ExecImmediate runs one line typed directly at the prompt rather than
// stored in the program (§6 "immediate mode"): assignments, I/O
// statements, declarations and the bookkeeping keywords all work here;
// multi-line flow control (`if`/`for`/`while` bodies) does not, since
// there is no surrounding program to jump within.
func (ip *Interp) ExecImmediate(text string) error {
	_, stop, err := ip.execLine(text, 0)
	if err != nil {
		if err == errEnd {
			return nil
		}
		return err
	}
	_ = stop
	return nil
}

// execFrom runs lines [start, end] (1-based, inclusive) of the
// program, following jump targets produced by control-flow statements,
// until it falls off the end, a `return`/`endsub` unwinds the call
// frame back to its caller, or `end`/`quit` stops it (§4.5, §4.6).
func (ip *Interp) execFrom(start, end int) error {
	cur := start
	for cur <= end {
		if ip.Interrupted != nil && ip.Interrupted() {
			return lang.ErrBreak
		}
		text, ok := ip.Prog.Line(cur)
		if !ok {
			return lang.ErrBadLine
		}
		next, stop, err := ip.execLine(text, cur)
		if err != nil {
			if err == errEnd {
				return nil
			}
			return err
		}
		if stop {
			return nil
		}
		cur = next
	}
	return nil
}

// execLine runs every `;`-separated statement on one program line,
// stopping early if a statement produces a jump (a jump always
// targets a fresh line, so any statements left on the current line are
// abandoned, matching how the original treats `for`/`if`/`while`
// keywords as line-terminal in practice).
func (ip *Interp) execLine(text string, curLine int) (next int, stop bool, err error) {
	next = curLine + 1
	for _, stmt := range lang.SplitStatements(lang.StripComment(text)) {
		stmt = lang.TrimTrailingSpace(stmt)
		c := lang.NewCursor(stmt)
		if c.AtEnd() {
			continue
		}
		n, retSynthetic, err := ip.execStmt(c, curLine)
		if err != nil {
			return 0, false, err
		}
		if retSynthetic {
			return 0, true, nil
		}
		if n != 0 {
			return n, false, nil
		}
	}
	return next, false, nil
}

// execStmt dispatches one statement. It returns a nonzero jump target
// when control flow should continue at a different line than
// curLine+1, and retSynthetic when a `return`/`endsub` unwound a call
// frame and execFrom should stop; `end` and `quit` stop the run through
// the returned error (errEnd, ErrQuit).
func (ip *Interp) execStmt(c *lang.Cursor, curLine int) (jump int, retSynthetic bool, err error) {
	stmt, ok := dispatch.Match(c)
	if !ok {
		if ip.Skip {
			return 0, false, nil
		}
		err = ip.execAssign(c)
		return 0, false, err
	}

	if ip.Skip && !stmt.FlowControl {
		return 0, false, nil
	}

	switch stmt.Keyword {
	case "if":
		err = ip.execIf(c)
	case "else":
		err = ip.execElse()
	case "endif":
		err = ip.execEndif()
	case "for":
		jump, err = ip.execFor(c, curLine)
	case "endfor":
		jump, err = ip.execEndfor(curLine)
	case "while":
		endLine := ip.findEndwhile(curLine)
		jump, err = ip.execWhile(c, curLine, endLine)
	case "endwhile":
		jump, err = ip.execEndwhile(curLine)
	case "call":
		jump, err = ip.execCall(c, curLine)
	case "return":
		_, err = ip.execReturn(c)
		retSynthetic = err == nil
	case "sub":
		sub, ok := ip.Subs.Lookup(ip.subNameAt(curLine))
		if ok {
			jump = sub.EndLn + 1
		} else {
			jump = curLine + 1
		}
	case "endsub":
		// reached by falling through a call body without an explicit
		// `return`: behaves like `return 0`.
		ip.RetReg = 0
		if _, ok := ip.RS.UnwindToCall(); !ok {
			err = control.ErrNoSub
		} else {
			retSynthetic = true
		}
	case "quit":
		err = ErrQuit
	case "end":
		err = errEnd
	default:
		err = ip.execSimple(stmt, c)
	}
	return jump, retSynthetic, err
}

// subNameAt re-reads the `sub` line's name to resolve the registry
// entry (cheap: one cursor parse, only hit when execution sequentially
// falls into a subroutine body instead of via `call`).
func (ip *Interp) subNameAt(curLine int) string {
	text, ok := ip.Prog.Line(curLine)
	if !ok {
		return ""
	}
	c := lang.NewCursor(lang.StripComment(text))
	c.Match("sub")
	name, _ := c.ScanIdent()
	return lang.TruncName(name, lang.SubNameLen)
}

// findEndwhile locates the endwhile matching the while at curLine,
// counting nested while/endwhile pairs so `while`s inside the body
// don't confuse the match.
func (ip *Interp) findEndwhile(curLine int) int {
	depth := 0
	for i := curLine + 1; i <= ip.Prog.Len(); i++ {
		text, ok := ip.Prog.Line(i)
		if !ok {
			break
		}
		c := lang.NewCursor(lang.StripComment(text))
		switch {
		case c.Match("while") && lang.IsSeparator(c.Peek()):
			depth++
		case c.Match("endwhile"):
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return ip.Prog.Len()
}

// execAssign implements `name = expr` / `name[idx] = expr` (§4.3),
// the one statement form with no leading keyword.
func (ip *Interp) execAssign(c *lang.Cursor) error {
	name, ok := c.ScanIdent()
	if !ok {
		return lang.ErrBadExpr
	}
	h, err := ip.Resolve(lang.TruncName(name, lang.VarNameLen))
	if err != nil {
		return err
	}
	v := h.(*lang.Var)

	indexed := false
	idx := 0
	if c.Peek() == '[' {
		c.Advance(1)
		idx, err = ip.Eval(c)
		if err != nil {
			return err
		}
		if c.Peek() != ']' {
			return lang.ErrExpectedChar
		}
		c.Advance(1)
		indexed = true
	}
	if c.Peek() != '=' {
		return lang.ErrExpectedChar
	}
	c.Advance(1)
	val, err := ip.Eval(c)
	if err != nil {
		return err
	}
	if c.Peek() != 0 {
		return lang.ErrExtraInput
	}
	return ip.assign(v, idx, indexed, val)
}
