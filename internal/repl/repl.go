// Package repl is the interactive front end (§6): a readline-driven
// loop over program.Store that routes each line to the line editor,
// the interpreter, or the compiler+VM pair, the way the teacher's
// vm/run.go drives its own assemble/execute REPL loop.
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/eightball-lang/eightball/compiler"
	"github.com/eightball-lang/eightball/editor"
	"github.com/eightball-lang/eightball/internal/logio"
	"github.com/eightball-lang/eightball/interp"
	"github.com/eightball-lang/eightball/program"
	"github.com/eightball-lang/eightball/vm"
)

var errPrefix = color.New(color.FgRed, color.Bold)

// REPL wires together one editing/execution session: a program store
// shared by the editor, the interpreter and the compiler, plus the
// readline front end that drives it.
type REPL struct {
	Prog *program.Store
	Ed   *editor.Editor
	Ip   *interp.Interp
	Log  *logio.Logger

	Debug bool

	rl  *readline.Instance
	out io.Writer
}

// New builds a REPL reading program source from in and writing console
// output (both the interpreter's and the readline prompt's) to out.
func New(in io.Reader, out io.Writer, debug bool) (*REPL, error) {
	prog := &program.Store{}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		Stdin:           readOrNil(in),
		Stdout:          out,
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, err
	}
	return &REPL{
		Prog:  prog,
		Ed:    editor.New(prog),
		Ip:    interp.New(prog, in, out),
		Log:   logio.New(out),
		Debug: debug,
		rl:    rl,
		out:   out,
	}, nil
}

// readOrNil lets New accept a plain io.Reader (tests use an
// in-memory buffer) while still satisfying readline's *os.File-shaped
// Stdin field when running against the real terminal.
func readOrNil(in io.Reader) io.ReadCloser {
	if f, ok := in.(io.ReadCloser); ok {
		return f
	}
	return io.NopCloser(in)
}

// Run drives the prompt loop until EOF, `quit`, or an unrecoverable
// readline error (§6). It returns the logio exit code to hand to
// os.Exit.
func (r *REPL) Run() int {
	defer r.rl.Close()
	for {
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return r.Log.ExitCode()
		}
		if err != nil {
			r.Log.Errorf("%s", err)
			return r.Log.ExitCode()
		}

		if r.Ed.Collecting() {
			r.Ed.Feed(line)
			continue
		}

		if err := r.dispatch(line); err != nil {
			if err == interp.ErrQuit {
				return r.Log.ExitCode()
			}
			r.printError(err)
		}
	}
}

// dispatch routes one immediate-mode line to the editor, `run`/`comp`/
// `new`, or the interpreter (§6).
func (r *REPL) dispatch(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	if trimmed[0] == ':' || isEditorNumeric(trimmed) {
		text, err := r.Ed.Dispatch(trimmed)
		if err != nil {
			return err
		}
		if text != "" {
			fmt.Fprint(r.out, text)
		}
		return nil
	}

	switch {
	case trimmed == "new":
		r.Prog.New()
		return nil
	case trimmed == "run":
		return r.Ip.Run()
	case trimmed == "comp" || strings.HasPrefix(trimmed, "comp "):
		return r.runCompiled(strings.TrimSpace(trimmed[len("comp"):]))
	}

	return r.Ip.ExecImmediate(trimmed)
}

// runCompiled drives `comp`: compile the whole program to bytecode;
// with a quoted filename argument, write the bytecode to that file
// without running it, otherwise execute it on the reference VM,
// sharing the REPL's own stdio (§6, §8's emit/interpret equivalence).
func (r *REPL) runCompiled(arg string) error {
	code, err := compiler.Compile(r.Prog)
	if err != nil {
		return err
	}
	if name, ok := stripQuotes(arg); ok && name != "" {
		return os.WriteFile(name, code, 0o644)
	}
	m := vm.NewMachineIO(code, os.Stdin, r.out)
	if r.Debug {
		return m.RunDebug()
	}
	return m.Run()
}

func (r *REPL) printError(err error) {
	errPrefix.Fprintf(r.out, "%s\n", err)
}

// isEditorNumeric reports whether line is a bare integer, the `:c N`
// shorthand editor.Dispatch also accepts.
func isEditorNumeric(line string) bool {
	if line == "" {
		return false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func stripQuotes(arg string) (string, bool) {
	arg = strings.TrimSpace(arg)
	if len(arg) < 2 || arg[0] != '"' || arg[len(arg)-1] != '"' {
		return "", false
	}
	return arg[1 : len(arg)-1], true
}
