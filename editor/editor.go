// Package editor implements the interactive line-editor surface of
// §6: the `:r`/`:w`/`:l`/`:c`/`:a`/`:i`/`:d` commands and the
// append/insert line-collection mode they drive, layered over
// program.Store the way the original's `parseline` dispatches between
// immediate execution and program editing (supplemented feature, see
// SPEC_FULL.md).
package editor

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/eightball-lang/eightball/lang"
	"github.com/eightball-lang/eightball/program"
)

// Mode tracks whether the editor is currently collecting lines for
// `:a`/`:i` (append/insert) or idle, waiting for the next command.
type Mode int

const (
	ModeIdle Mode = iota
	ModeAppend
	ModeInsert
)

// Editor holds the collection-mode state machine on top of a
// program.Store; the REPL feeds it one raw input line at a time.
type Editor struct {
	Prog *program.Store

	mode    Mode
	cursor  int // :a N / :i N target line
	nextIns int // running insert position while ModeInsert is active
}

func New(prog *program.Store) *Editor { return &Editor{Prog: prog} }

// Collecting reports whether the editor is mid `:a`/`:i` and should
// swallow raw lines instead of handing them to the REPL for execution.
func (e *Editor) Collecting() bool { return e.mode != ModeIdle }

// Feed hands one line of input to the editor while collecting is
// active: `.` alone ends collection, anything else is appended/inserted
// verbatim (§6 "a lone `.` exits append/insert mode").
func (e *Editor) Feed(line string) {
	if line == "." {
		e.mode = ModeIdle
		return
	}
	switch e.mode {
	case ModeAppend:
		e.Prog.Append(line)
	case ModeInsert:
		e.Prog.InsertBefore(e.nextIns, line)
		e.nextIns++
	}
}

// Dispatch handles one `:`-prefixed editor command (or a bare numeric
// change-line, per §6's supplemented convention) typed at the immediate
// prompt. It returns the text that should be echoed back to the user,
// if any.
func (e *Editor) Dispatch(line string) (string, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", nil
	}
	if trimmed[0] != ':' {
		if n, err := strconv.Atoi(trimmed); err == nil {
			return "", e.beginChange(n)
		}
		return "", lang.ErrBadLine
	}
	body := strings.TrimSpace(trimmed[1:])
	if body == "" {
		return "", lang.ErrBadLine
	}
	switch body[0] {
	case 'r':
		return "", e.read(body[1:])
	case 'w':
		return "", e.write(body[1:])
	case 'l':
		return e.list(body[1:])
	case 'c':
		return "", e.change(body[1:])
	case 'a':
		return "", e.beginAppend(body[1:])
	case 'i':
		return "", e.beginInsert(body[1:])
	case 'd':
		return "", e.delete(body[1:])
	default:
		return "", lang.ErrBadLine
	}
}

// beginChange starts an immediate-mode `:c N: text`-style edit from a
// bare-numeric line, the platform convention §6 calls out: line n is
// deleted and insert mode starts there, so every following line up to a
// lone "." is inserted in its place.
func (e *Editor) beginChange(n int) error {
	if n < 1 || n > e.Prog.Len() {
		return lang.ErrBadLine
	}
	e.mode = ModeInsert
	e.cursor = n
	e.nextIns = n
	if err := e.Prog.Delete(n, n); err != nil {
		return err
	}
	return nil
}

// read loads lines from a quoted filename, replacing the program
// (`:r "name"`, §6).
func (e *Editor) read(arg string) error {
	name, ok := parseQuoted(arg)
	if !ok {
		return lang.ErrBadString
	}
	f, err := os.Open(name)
	if err != nil {
		return lang.ErrFileIO
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return lang.ErrFileIO
	}
	e.Prog.LoadLines(lines)
	return nil
}

// write saves the program to a quoted filename (`:w "name"`, §6).
func (e *Editor) write(arg string) error {
	name, ok := parseQuoted(arg)
	if !ok {
		return lang.ErrBadString
	}
	f, err := os.Create(name)
	if err != nil {
		return lang.ErrFileIO
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, l := range e.Prog.Lines() {
		fmt.Fprintln(w, l)
	}
	if err := w.Flush(); err != nil {
		return lang.ErrFileIO
	}
	return nil
}

// list renders `:l [start[,end]]` as one ready-to-print string.
func (e *Editor) list(arg string) (string, error) {
	start, end := 1, e.Prog.Len()
	arg = strings.TrimSpace(arg)
	if arg != "" {
		parts := strings.SplitN(arg, ",", 2)
		n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return "", lang.ErrBadLine
		}
		start = n
		end = n
		if len(parts) == 2 {
			m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return "", lang.ErrBadLine
			}
			end = m
		}
	}
	if start < 1 || end < start || end > e.Prog.Len() {
		return "", lang.ErrBadLine
	}
	var b strings.Builder
	for n := start; n <= end; n++ {
		text, _ := e.Prog.Line(n)
		fmt.Fprintf(&b, "%d: %s\n", n, text)
	}
	return b.String(), nil
}

// change handles `:c N: text`, replacing line N's text in place.
func (e *Editor) change(arg string) error {
	idx := strings.IndexByte(arg, ':')
	if idx < 0 {
		return lang.ErrBadLine
	}
	n, err := strconv.Atoi(strings.TrimSpace(arg[:idx]))
	if err != nil {
		return lang.ErrBadLine
	}
	text := arg[idx+1:]
	if len(text) > 0 && text[0] == ' ' {
		text = text[1:]
	}
	return e.Prog.Change(n, text)
}

// beginAppend starts `:a N`: subsequent lines append after line N
// until a lone `.`.
func (e *Editor) beginAppend(arg string) error {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return lang.ErrBadLine
	}
	if n < 0 || n > e.Prog.Len() {
		return lang.ErrBadLine
	}
	if n == e.Prog.Len() {
		e.mode = ModeAppend
		e.cursor = n
		return nil
	}
	e.mode = ModeInsert
	e.cursor = n
	e.nextIns = n + 1
	return nil
}

// beginInsert starts `:i N`: subsequent lines insert before line N
// until a lone `.` (N=1 is the special "insert as new first line",
// §6).
func (e *Editor) beginInsert(arg string) error {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return lang.ErrBadLine
	}
	if n < 1 || n > e.Prog.Len()+1 {
		return lang.ErrBadLine
	}
	e.mode = ModeInsert
	e.cursor = n
	e.nextIns = n
	return nil
}

// delete handles `:d N[,M]`.
func (e *Editor) delete(arg string) error {
	arg = strings.TrimSpace(arg)
	parts := strings.SplitN(arg, ",", 2)
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return lang.ErrBadLine
	}
	end := start
	if len(parts) == 2 {
		end, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return lang.ErrBadLine
		}
	}
	return e.Prog.Delete(start, end)
}

// parseQuoted strips surrounding whitespace and a pair of double
// quotes from a `:r`/`:w` filename argument.
func parseQuoted(arg string) (string, bool) {
	arg = strings.TrimSpace(arg)
	if len(arg) < 2 || arg[0] != '"' || arg[len(arg)-1] != '"' {
		return "", false
	}
	return arg[1 : len(arg)-1], true
}
