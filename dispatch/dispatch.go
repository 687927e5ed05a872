// Package dispatch holds the statement keyword table shared verbatim
// by the interpreter and the compiler (§4.6): the keyword set, the
// declared argument shape per statement, and the longest-prefix
// matcher. The actual per-statement behaviour is mode-specific (the
// spec gives a different algorithm for "if" under interpret vs.
// compile, for example) and lives in the `interp` and `compiler`
// packages; this package is the one place both agree on what a
// keyword even means syntactically.
package dispatch

import "github.com/eightball-lang/eightball/lang"

// ArgShape enumerates the argument shapes of §4.6.
type ArgShape int

const (
	FullLine ArgShape = iota
	NoArgs
	OneArg
	TwoArgs
	InitialArg
	OneStrArg
	InitialNameArg
	Custom
)

// Stmt is one entry in the fixed statement table.
type Stmt struct {
	Keyword string
	Shape   ArgShape
	// Sigil statements (`*`, `^`, `'`) need no trailing separator
	// after the keyword (§4.6).
	Sigil bool
	// FlowControl marks statements still recognised while the skip
	// flag is set (§4.6, §"Skip flag" in the glossary).
	FlowControl bool
}

// Table is the fixed keyword -> shape table, longest keyword first so
// that matching is unambiguous (e.g. `endif` before `end`).
var Table = []Stmt{
	{Keyword: "'", Shape: FullLine, Sigil: true},
	{Keyword: "pr.dec.s", Shape: OneArg},
	{Keyword: "pr.dec", Shape: OneArg},
	{Keyword: "pr.hex", Shape: OneArg},
	{Keyword: "pr.msg", Shape: OneStrArg},
	{Keyword: "pr.nl", Shape: NoArgs},
	{Keyword: "pr.str", Shape: OneArg},
	{Keyword: "pr.ch", Shape: OneArg},
	{Keyword: "kbd.ch", Shape: InitialNameArg},
	{Keyword: "kbd.ln", Shape: InitialNameArg},
	{Keyword: "quit", Shape: NoArgs},
	{Keyword: "clear", Shape: NoArgs},
	{Keyword: "vars", Shape: NoArgs},
	{Keyword: "word", Shape: Custom},
	{Keyword: "byte", Shape: Custom},
	{Keyword: "const", Shape: Custom},
	{Keyword: "run", Shape: NoArgs},
	{Keyword: "comp", Shape: OneStrArg},
	{Keyword: "new", Shape: NoArgs},
	{Keyword: "endsub", Shape: NoArgs},
	{Keyword: "sub", Shape: Custom},
	{Keyword: "if", Shape: OneArg, FlowControl: true},
	{Keyword: "else", Shape: NoArgs, FlowControl: true},
	{Keyword: "endif", Shape: NoArgs, FlowControl: true},
	{Keyword: "free", Shape: NoArgs},
	{Keyword: "call", Shape: Custom},
	{Keyword: "return", Shape: OneArg},
	{Keyword: "endfor", Shape: NoArgs, FlowControl: true},
	{Keyword: "for", Shape: Custom, FlowControl: true},
	{Keyword: "endwhile", Shape: NoArgs, FlowControl: true},
	{Keyword: "while", Shape: OneArg, FlowControl: true},
	{Keyword: "end", Shape: NoArgs},
	{Keyword: "mode", Shape: OneArg},
	{Keyword: "*", Shape: TwoArgs, Sigil: true},
	{Keyword: "^", Shape: TwoArgs, Sigil: true},
}

// Match finds the longest keyword at the cursor that is followed by a
// legal separator (or is a sigil token, §4.6). On a match the keyword
// has been consumed and the cursor sits on the statement's operands.
func Match(c *lang.Cursor) (Stmt, bool) {
	for _, s := range Table {
		if !c.Match(s.Keyword) {
			continue
		}
		if s.Sigil || lang.IsSeparator(c.Peek()) {
			return s, true
		}
		// Keyword matched as a mere prefix of a longer identifier
		// (e.g. "end" inside "endif"); undo and keep looking. Table
		// order places every longer sibling keyword first so this
		// only triggers for genuine non-matches.
		c.Advance(-len(s.Keyword))
	}
	return Stmt{}, false
}
