// Package repl implements the line actor: it reads input, intercepts
// built-ins, and hands everything else to the exec actor through the
// handoff monitor. It never observes signals; those belong to the
// dispatcher.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gosh/internal/builtins"
	"gosh/internal/jobs"
	"gosh/internal/monitor"
	"gosh/internal/parser"
	"gosh/internal/prompt"
)

// DefaultMaxLine bounds one physical input line.
const DefaultMaxLine = 512

// REPL is the line actor.
type REPL struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	Parser   *parser.Parser
	Monitor  *monitor.Monitor
	Exit     *monitor.Flag
	Registry *jobs.Registry
	Prompt   *prompt.Prompt
	MaxLine  int
	Log      *slog.Logger
}

// New returns a REPL reading the process's standard streams.
func New(p *parser.Parser, mon *monitor.Monitor, exit *monitor.Flag, reg *jobs.Registry, pr *prompt.Prompt, log *slog.Logger, maxLine int) *REPL {
	if maxLine <= 0 {
		maxLine = DefaultMaxLine
	}
	return &REPL{
		In:       os.Stdin,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Parser:   p,
		Monitor:  mon,
		Exit:     exit,
		Registry: reg,
		Prompt:   pr,
		MaxLine:  maxLine,
		Log:      log,
	}
}

// Run loops until exit is requested, the input stream ends, or a fatal
// launch error is observed after a handoff. One command is in flight
// at a time: Publish is always followed by AwaitConsumption.
func (r *REPL) Run() {
	in := bufio.NewReader(r.In)
	r.draw()

	for {
		line, err := in.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(r.Err, "read: %v\n", err)
			}
			fmt.Fprintln(r.Out)
			r.shutdown()
			return
		}
		line = strings.TrimRight(line, "\n")

		// The whole oversized line was consumed above, so rejecting it
		// here discards everything up to the newline.
		if len(line) > r.MaxLine {
			fmt.Fprintln(r.Err, "argument too long")
			r.draw()
			continue
		}

		cmd, err := r.Parser.Parse(line)
		if err != nil {
			fmt.Fprintln(r.Err, err)
			r.draw()
			continue
		}

		if handled, quit := builtins.Handle(cmd, r.Registry, r.Out, r.Err); handled {
			if quit {
				r.shutdown()
				return
			}
			r.draw()
			continue
		}

		if cmd.Empty() {
			r.draw()
			continue
		}

		r.Monitor.Publish(cmd)
		r.Monitor.AwaitConsumption()
		if r.Exit.IsSet() {
			return
		}
		r.draw()
	}
}

// shutdown requests process-wide termination and wakes the exec actor
// so it can observe it.
func (r *REPL) shutdown() {
	r.Exit.Set()
	r.Monitor.Shutdown()
}

func (r *REPL) draw() {
	if err := r.Prompt.Draw(); err != nil {
		r.Log.Error("prompt write", "err", err)
	}
}
