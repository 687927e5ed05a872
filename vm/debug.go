package vm

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// RunDebug single-steps the machine with an interactive prompt,
// adapted from the teacher's ExecProgramDebugMode (vm/exec.go,
// vm/run.go): `n`/`next` steps one instruction, `r`/`run` free-runs
// (still honouring breakpoints), `b <addr>` toggles a breakpoint.
func (m *Machine) RunDebug() error {
	fmt.Printf("Commands:\n\tn or next: execute next instruction\n\tr or run: run program\n\tb or break <addr>: break on address (or remove)\n\n")

	reader := bufio.NewReader(os.Stdin)
	waitForInput := true
	breakAt := make(map[int]struct{})
	lastBreak := -1

	for {
		line := ""
		if waitForInput {
			fmt.Print("\n->")
			line, _ = reader.ReadString('\n')
			line = strings.ToLower(strings.TrimSpace(line))
		} else {
			if _, ok := breakAt[m.pc]; lastBreak != m.pc && ok {
				fmt.Println("breakpoint")
				waitForInput = true
				lastBreak = m.pc
				continue
			}
		}

		if !waitForInput || line == "n" || line == "next" {
			lastBreak = -1
			m.Step()
			if m.errcode != nil {
				m.Out.Flush()
				if m.errcode != ErrProgramFinished {
					fmt.Println(m.errcode)
					return m.errcode
				}
				return nil
			}
		} else if line == "r" || line == "run" {
			waitForInput = false
		} else if strings.HasPrefix(line, "b") {
			arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(line, "break"), "b"))
			addr, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Println("unknown address:", err)
				continue
			}
			if _, ok := breakAt[addr]; ok {
				delete(breakAt, addr)
			} else {
				breakAt[addr] = struct{}{}
			}
		} else if line == "q" || line == "quit" {
			return nil
		}
	}
}
