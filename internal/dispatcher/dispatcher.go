// Package dispatcher is the only place the shell observes signals.
// The line and exec actors never install handlers; every interactive
// signal delivered to the process funnels through this one actor,
// which also receives background-job completions from the executor's
// reap goroutines.
package dispatcher

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"gosh/internal/jobs"
	"gosh/internal/monitor"
	"gosh/internal/prompt"
)

// Dispatcher reacts to interrupts, suspends, job completions, and the
// shutdown wake.
type Dispatcher struct {
	signals     chan os.Signal
	completions chan jobs.Completion
	quit        chan struct{}
	done        chan struct{}

	mon    *monitor.Monitor
	exit   *monitor.Flag
	reg    *jobs.Registry
	prompt *prompt.Prompt
	out    io.Writer
	log    *slog.Logger
}

// New builds a Dispatcher and installs its signal subscription, so it
// must be called before the other actors start.
func New(mon *monitor.Monitor, exit *monitor.Flag, reg *jobs.Registry, pr *prompt.Prompt, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		signals:     make(chan os.Signal, 8),
		completions: make(chan jobs.Completion, 8),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		mon:         mon,
		exit:        exit,
		reg:         reg,
		prompt:      pr,
		out:         os.Stdout,
		log:         log,
	}
	signal.Notify(d.signals, unix.SIGINT, unix.SIGTSTP)
	return d
}

// Completions is where background reap goroutines deliver child
// terminations.
func (d *Dispatcher) Completions() chan<- jobs.Completion { return d.completions }

// Run loops until a shutdown wake arrives with the exit flag set.
// A wake without the flag is ignored, as is every unexpected signal.
func (d *Dispatcher) Run() {
	defer close(d.done)
	defer signal.Stop(d.signals)

	for {
		select {
		case sig := <-d.signals:
			d.log.Debug("signal", "sig", sig)
			d.interrupt()
		case c := <-d.completions:
			d.completed(c)
		case <-d.quit:
			if d.exit.IsSet() {
				return
			}
		}
	}
}

// Shutdown wakes the dispatcher so it can observe the exit flag.
func (d *Dispatcher) Shutdown() { d.quit <- struct{}{} }

// Wait blocks until Run has returned.
func (d *Dispatcher) Wait() { <-d.done }

// interrupt handles SIGINT and SIGTSTP: a bare newline while a command
// is executing, a fresh prompt otherwise. The prompt decision is made
// under the monitor's lock so it cannot race command completion.
func (d *Dispatcher) interrupt() {
	d.mon.Observe(func(executing bool) {
		var err error
		if executing {
			_, err = fmt.Fprintln(d.out)
		} else {
			err = d.prompt.Redraw()
		}
		if err != nil {
			d.log.Error("prompt write", "err", err)
		}
	})
}

// completed reports a reaped background job and untracks it. Children
// the registry never tracked are ignored.
func (d *Dispatcher) completed(c jobs.Completion) {
	if !d.reg.Remove(c.PID) {
		return
	}
	if _, err := fmt.Fprintf(d.out, "\n%s\n", StatusLine(c.PID, c.Status)); err != nil {
		d.log.Error("status write", "err", err)
	}
	d.mon.Observe(func(executing bool) {
		if executing {
			return
		}
		if err := d.prompt.Draw(); err != nil {
			d.log.Error("prompt write", "err", err)
		}
	})
}

// StatusLine formats a background job's final state.
func StatusLine(pid int, ws unix.WaitStatus) string {
	switch {
	case ws.Exited() && ws.ExitStatus() == 0:
		return fmt.Sprintf("[%d]+ Done", pid)
	case ws.Exited():
		return fmt.Sprintf("[%d]+ Exit %d", pid, ws.ExitStatus())
	case ws.Signaled():
		return fmt.Sprintf("[%d]+ Killed", pid)
	case ws.Stopped():
		return fmt.Sprintf("[%d]+ Stopped", pid)
	default:
		return fmt.Sprintf("[%d]+ Terminated", pid)
	}
}
