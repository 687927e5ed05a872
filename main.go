// Command eightball is the interactive line editor and dual-mode
// (interpret/compile) front end of §1/§6: an empty invocation drops
// into the readline-backed REPL, while `-file` loads and runs a
// source file non-interactively, matching the teacher's own
// flag.Bool/flag.Parse-in-init() CLI shape (vm/main.go).
package main

import (
	"flag"
	"os"

	"github.com/eightball-lang/eightball/compiler"
	"github.com/eightball-lang/eightball/internal/logio"
	"github.com/eightball-lang/eightball/internal/repl"
	"github.com/eightball-lang/eightball/interp"
	"github.com/eightball-lang/eightball/program"
	"github.com/eightball-lang/eightball/vm"
)

var (
	debugFlag = flag.Bool("debug", false, "single-step the compiled program")
	fileFlag  = flag.String("file", "", "load and run a source file non-interactively")
)

func init() {
	flag.Parse()
}

func main() {
	log := logio.New(os.Stderr)

	if *fileFlag != "" {
		os.Exit(runFile(*fileFlag, log))
	}

	r, err := repl.New(os.Stdin, os.Stdout, *debugFlag)
	if err != nil {
		log.Errorf("%s", err)
		os.Exit(log.ExitCode())
	}
	os.Exit(r.Run())
}

// runFile loads path as a program and either interprets it directly or,
// under -debug, compiles it and single-steps the reference VM (§1
// "dual-mode interpreter/compiler front end").
func runFile(path string, log *logio.Logger) int {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("%s", err)
		return log.ExitCode()
	}

	prog := &program.Store{}
	prog.LoadLines(splitLines(string(data)))

	if !*debugFlag {
		ip := interp.New(prog, os.Stdin, os.Stdout)
		if err := ip.Run(); err != nil && err != interp.ErrQuit {
			log.Errorf("%s", err)
		}
		return log.ExitCode()
	}

	code, err := compiler.Compile(prog)
	if err != nil {
		log.Errorf("%s", err)
		return log.ExitCode()
	}
	m := vm.NewMachine(code)
	if err := m.RunDebug(); err != nil {
		log.Errorf("%s", err)
	}
	return log.ExitCode()
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			line := s[start:i]
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			lines = append(lines, line)
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
