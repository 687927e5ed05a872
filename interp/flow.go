package interp

import (
	"errors"

	"github.com/eightball-lang/eightball/control"
	"github.com/eightball-lang/eightball/lang"
)

// ErrQuit is returned up through Run/execFrom when a `quit` statement
// executes; the REPL treats it as "exit the process" (§6).
var ErrQuit = errors.New("quit")

// errEnd is an internal control-flow signal for `end`: stop the
// current execFrom loop without treating it as an error (§4.6).
var errEnd = errors.New("end")

// forTag picks the tagged-frame kind for a `for` loop over v, matching
// control.Tag's FORFRAME_W/FORFRAME_B split (§3).
func forTag(base lang.BaseType) control.Tag {
	if base == lang.Byte {
		return control.TagForByte
	}
	return control.TagForWord
}

// execIf implements `if expr` (§4.5, interpret mode): when already
// skipping (nested inside a suppressed branch) the frame is pushed
// inert and neither the condition nor the skip flag is touched;
// otherwise the condition is evaluated once and the skip flag is set
// to suppress the then-branch when it is false.
func (ip *Interp) execIf(c *lang.Cursor) error {
	if ip.Skip {
		ip.RS.Push(control.Frame{Tag: control.TagIf, IfStatus: ifInert})
		return nil
	}
	val, err := ip.Eval(c)
	if err != nil {
		return err
	}
	status := ifSkipThen
	if val != 0 {
		status = ifThen
	}
	ip.RS.Push(control.Frame{Tag: control.TagIf, IfStatus: status})
	ip.Skip = status == ifSkipThen
	return nil
}

const (
	ifInert = iota
	ifThen
	ifSkipThen
)

func (ip *Interp) execElse() error {
	if !ip.RS.TopIs(control.TagIf) {
		return control.ErrNoIf
	}
	f := ip.RS.Top()
	switch f.IfStatus {
	case ifInert:
		// still inside an outer skip; nothing changes.
	case ifThen:
		ip.Skip = true // then-branch ran, now suppress else
	case ifSkipThen:
		ip.Skip = false // then-branch was suppressed, now run else
	}
	return nil
}

func (ip *Interp) execEndif() error {
	if !ip.RS.TopIs(control.TagIf) {
		return control.ErrNoIf
	}
	f, _ := ip.RS.Pop()
	if f.IfStatus != ifInert {
		ip.Skip = false
	}
	return nil
}

// execFor implements `for var = start : limit` (§4.5). The loop's
// re-entry point is the statement following `for`; `endfor` does the
// increment-and-test and jumps back there, so the body always runs
// at least once, then continues while the tagged variable has not
// passed limit in the inferred direction (counting down when
// limit < start, up otherwise — EightBall has no explicit `step`).
func (ip *Interp) execFor(c *lang.Cursor, curLine int) (int, error) {
	if ip.Skip {
		ip.RS.Push(control.Frame{Tag: control.TagForWord, Inert: true})
		return curLine + 1, nil
	}

	name, ok := c.ScanIdent()
	if !ok {
		return 0, lang.ErrVarExpected
	}
	h, err := ip.Resolve(lang.TruncName(name, lang.VarNameLen))
	if err != nil {
		return 0, err
	}
	v := h.(*lang.Var)
	if v.Array || v.Const {
		return 0, lang.ErrVarExpected
	}
	if c.Peek() != '=' {
		return 0, lang.ErrExpectedChar
	}
	c.Advance(1)
	start, err := ip.Eval(c)
	if err != nil {
		return 0, err
	}
	if c.Peek() != ':' {
		return 0, lang.ErrExpectedChar
	}
	c.Advance(1)
	limit, err := ip.Eval(c)
	if err != nil {
		return 0, err
	}
	if err := ip.assign(v, 0, false, start); err != nil {
		return 0, err
	}

	tag := forTag(v.Base)
	ip.RS.Push(control.Frame{
		Tag:         tag,
		ForLine:     curLine + 1,
		ForLimit:    limit,
		ForVarName:  v.Name,
		ForRelative: limit < start,
	})
	return curLine + 1, nil
}

func (ip *Interp) execEndfor(curLine int) (int, error) {
	f := ip.RS.Top()
	if f == nil || (f.Tag != control.TagForWord && f.Tag != control.TagForByte) {
		return 0, control.ErrNoFor
	}
	if f.Inert {
		ip.RS.Pop()
		return curLine + 1, nil
	}
	h, err := ip.Resolve(f.ForVarName)
	if err != nil {
		return 0, err
	}
	v := h.(*lang.Var)
	step := 1
	if f.ForRelative {
		step = -1
	}
	if err := ip.assign(v, 0, false, v.Scalar+step); err != nil {
		return 0, err
	}
	cont := v.Scalar <= f.ForLimit
	if f.ForRelative {
		cont = v.Scalar >= f.ForLimit
	}
	if cont {
		return f.ForLine, nil
	}
	ip.RS.Pop()
	return curLine + 1, nil
}

// execWhile implements `while expr` (§4.5): pre-test, so a false
// condition on first entry skips the whole body without pushing a
// frame at all — endwhile is never dispatched for that pass.
func (ip *Interp) execWhile(c *lang.Cursor, curLine int, endLine int) (int, error) {
	if ip.Skip {
		ip.RS.Push(control.Frame{Tag: control.TagWhile, Inert: true})
		return curLine + 1, nil
	}

	top := ip.RS.Top()
	reentry := top != nil && top.Tag == control.TagWhile && !top.Inert && top.WhileLine == curLine

	val, err := ip.Eval(c)
	if err != nil {
		return 0, err
	}
	if val != 0 {
		if !reentry {
			ip.RS.Push(control.Frame{Tag: control.TagWhile, WhileLine: curLine})
		}
		return curLine + 1, nil
	}
	if reentry {
		ip.RS.Pop()
	}
	return endLine + 1, nil
}

func (ip *Interp) execEndwhile(curLine int) (int, error) {
	f := ip.RS.Top()
	if f == nil || f.Tag != control.TagWhile {
		return 0, control.ErrNoWhile
	}
	if f.Inert {
		ip.RS.Pop()
		return curLine + 1, nil
	}
	return f.WhileLine, nil
}

// callByValue performs a `name(args...)` expression-style call (§4.5):
// it runs the subroutine body to completion inside a synthetic call
// frame and returns once the matching `return`/`endsub` is reached,
// without disturbing the enclosing execFrom loop's line cursor.
func (ip *Interp) callByValue(name string, args []int) error {
	sub, ok := ip.Subs.Lookup(lang.TruncName(name, lang.SubNameLen))
	if !ok {
		return lang.ErrUndefined
	}
	if len(args) != len(sub.Formals) {
		return lang.ErrArgCount
	}
	return ip.enterSub(sub, args, nil, control.SyntheticCallerLine)
}

// execCall implements the `call name(args...)` statement (§4.4): it
// binds actuals (including by-reference arrays, resolved from the
// raw cursor rather than through the generic expression evaluator) and
// continues execution at the subroutine's first line.
func (ip *Interp) execCall(c *lang.Cursor, curLine int) (int, error) {
	name, ok := c.ScanIdent()
	if !ok {
		return 0, lang.ErrBadExpr
	}
	trunc := lang.TruncName(name, lang.SubNameLen)
	sub, ok := ip.Subs.Lookup(trunc)
	if !ok {
		return 0, lang.ErrUndefined
	}
	if c.Peek() != '(' {
		return 0, lang.ErrExpectedChar
	}
	c.Advance(1)

	byRefActuals := make([]*lang.Var, len(sub.Formals))
	byVal := make([]int, len(sub.Formals))
	for i, f := range sub.Formals {
		if i > 0 {
			if c.Peek() != ',' {
				return 0, lang.ErrArgCount
			}
			c.Advance(1)
		}
		if f.Array {
			aname, ok := c.ScanIdent()
			if !ok {
				return 0, lang.ErrVarExpected
			}
			h, err := ip.Resolve(lang.TruncName(aname, lang.VarNameLen))
			if err != nil {
				return 0, err
			}
			av := h.(*lang.Var)
			if !av.Array {
				return 0, lang.ErrVarExpected
			}
			byRefActuals[i] = av
			continue
		}
		v, err := ip.Eval(c)
		if err != nil {
			return 0, err
		}
		byVal[i] = v
	}
	if c.Peek() != ')' {
		return 0, lang.ErrArgCount
	}
	c.Advance(1)

	if err := ip.enterSub(sub, byVal, byRefActuals, curLine); err != nil {
		return 0, err
	}
	return curLine + 1, nil
}

// enterSub binds sub's formals and runs its body to completion,
// either returning control to the caller's line (ordinary `call`) or
// to the Go call stack (expression-style call, callerLine ==
// SyntheticCallerLine, §4.5).
func (ip *Interp) enterSub(sub *Sub, byVal []int, byRef []*lang.Var, callerLine int) error {
	if ip.CallLevel >= ip.MaxCallLevel {
		return lang.ErrStackExhausted
	}
	ip.CallLevel++
	defer func() { ip.CallLevel-- }()

	marker := ip.Vars.PushFrame()
	outerFrame := ip.Frame
	ip.Frame = marker
	ip.frameMarkers = append(ip.frameMarkers, marker)

	ip.RS.Push(control.Frame{
		Tag:        control.TagCall,
		CallerLine: callerLine,
		Synthetic:  callerLine == control.SyntheticCallerLine,
	})

	for i, f := range sub.Formals {
		var err error
		if f.Array {
			err = ip.declareByRefFormal(f.Name, f.Base, byRef[i])
		} else {
			err = ip.declareScalarFormal(f.Name, f.Base, byVal[i])
		}
		if err != nil {
			ip.Vars.PopFrame(marker)
			ip.Frame = outerFrame
			ip.frameMarkers = ip.frameMarkers[:len(ip.frameMarkers)-1]
			ip.RS.Pop()
			return err
		}
	}

	err := ip.execFrom(sub.StartLn, sub.EndLn)

	if len(ip.frameMarkers) > 0 && ip.frameMarkers[len(ip.frameMarkers)-1] == marker {
		ip.Vars.PopFrame(marker)
		ip.Frame = outerFrame
		ip.frameMarkers = ip.frameMarkers[:len(ip.frameMarkers)-1]
	}
	return err
}

// execReturn implements `return expr` (§4.5): unwind every open
// if/for/while nested inside the current call, pop the call frame
// itself, tear down locals, and report to the caller whether this was
// a synthetic (expression-call) return.
func (ip *Interp) execReturn(c *lang.Cursor) (bool, error) {
	val, err := ip.Eval(c)
	if err != nil {
		return false, err
	}
	ip.RetReg = val
	f, ok := ip.RS.UnwindToCall()
	if !ok {
		return false, control.ErrNoSub
	}
	return f.Synthetic, nil
}
