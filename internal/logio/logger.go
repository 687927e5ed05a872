// Package logio is a small leveled logging facility, adapted from the
// gothird family's internal/logio/logger.go. main.go logs command-line
// failures through it (including errors returned by a `-file` run) and
// the REPL logs readline failures and takes its exit code from it. The
// compiler and the editor do not log: their errors are returned and
// printed as the mnemonic errors of §7.
package logio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// Logger writes leveled "LEVEL: message\n" lines to an output stream.
type Logger struct {
	sync.Mutex
	output   io.Writer
	buf      bytes.Buffer
	exitCode int
}

// New wraps out as a Logger's output stream.
func New(out io.Writer) *Logger { return &Logger{output: out} }

// SetOutput redirects future log lines to out.
func (log *Logger) SetOutput(out io.Writer) {
	log.Lock()
	defer log.Unlock()
	log.output = out
}

// ExitCode returns a code suitable for os.Exit: non-zero iff Errorf was
// ever called.
func (log *Logger) ExitCode() int {
	log.Lock()
	defer log.Unlock()
	return log.exitCode
}

// Leveledf returns a printf-style function bound to level, handy for
// passing around as a callback (e.g. a compiler's warn function).
func (log *Logger) Leveledf(level string) func(mess string, args ...interface{}) {
	return func(mess string, args ...interface{}) { log.Printf(level, mess, args...) }
}

// Warnf logs at WARN level.
func (log *Logger) Warnf(mess string, args ...interface{}) { log.Printf("WARN", mess, args...) }

// Errorf is like Printf("ERROR", ...) but also marks ExitCode non-zero.
func (log *Logger) Errorf(mess string, args ...interface{}) {
	log.Lock()
	defer log.Unlock()
	log.printf("ERROR", mess, args...)
	log.exitCode = 1
}

// Printf writes one leveled line.
func (log *Logger) Printf(level, mess string, args ...interface{}) {
	log.Lock()
	defer log.Unlock()
	log.printf(level, mess, args...)
}

func (log *Logger) printf(level, mess string, args ...interface{}) {
	log.buf.Reset()
	if level != "" {
		log.buf.WriteString(level)
		log.buf.WriteString(": ")
	}
	if len(args) > 0 {
		fmt.Fprintf(&log.buf, mess, args...)
	} else {
		log.buf.WriteString(mess)
	}
	if b := log.buf.Bytes(); len(b) == 0 || b[len(b)-1] != '\n' {
		log.buf.WriteByte('\n')
	}
	log.buf.WriteTo(log.output)
}
