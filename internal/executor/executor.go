// Package executor owns child-process creation: descriptor
// redirection, process group assignment, and the choice between a
// synchronous foreground wait and background registration. It also
// hosts the exec actor loop that consumes commands from the handoff
// monitor.
package executor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"gosh/internal/jobs"
	"gosh/internal/monitor"
	"gosh/internal/parser"
)

// Launcher starts exactly one child process per Launch call.
type Launcher struct {
	Registry    *jobs.Registry
	Completions chan<- jobs.Completion

	// Streams inherited by children that have no redirect. Tests
	// substitute buffers; the shell uses the real descriptors.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Log *slog.Logger
}

// New returns a Launcher wired to the given registry and completion
// channel, inheriting the process's standard streams.
func New(reg *jobs.Registry, completions chan<- jobs.Completion, log *slog.Logger) *Launcher {
	return &Launcher{
		Registry:    reg,
		Completions: completions,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Log:         log,
	}
}

// Run is the exec actor: it consumes commands from the monitor until
// shutdown is requested or a fatal launch error sets the exit flag.
func (l *Launcher) Run(mon *monitor.Monitor, exit *monitor.Flag) {
	for {
		cmd, ok := mon.Await()
		if !ok || exit.IsSet() {
			return
		}
		err := l.Launch(cmd)
		if err != nil {
			// Flag first: the line actor re-checks it the moment
			// MarkConsumed wakes it.
			exit.Set()
		}
		mon.MarkConsumed()
		if err != nil {
			return
		}
	}
}

// Launch runs one parsed command as a child process. The returned
// error is fatal to the shell (resource exhaustion); ordinary command
// failures are reported to stderr and return nil.
func (l *Launcher) Launch(c *parser.Command) error {
	cmd := exec.Command(c.Args[0], c.Args[1:]...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	if c.Background {
		// Own process group: a detached child that tries to read the
		// terminal is stopped (SIGTTIN) instead of stealing input, and
		// a foreground interrupt cannot kill it.
		cmd.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
	}

	var files []*os.File
	if c.OutFile != "" {
		f, err := os.OpenFile(c.OutFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
		if err != nil {
			fmt.Fprintf(l.Stderr, "open: %v\n", err)
			return nil
		}
		cmd.Stdout = f
		files = append(files, f)
	}
	if c.InFile != "" {
		// The creating open is part of the documented interface: a
		// missing input file reads as an empty stream.
		f, err := os.OpenFile(c.InFile, os.O_CREATE|os.O_RDONLY, 0600)
		if err != nil {
			closeAll(files)
			fmt.Fprintf(l.Stderr, "open: %v\n", err)
			return nil
		}
		cmd.Stdin = f
		files = append(files, f)
	}

	if err := cmd.Start(); err != nil {
		closeAll(files)
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(l.Stderr, "%s: command not found...\n", c.Name())
			return nil
		}
		fmt.Fprintf(l.Stderr, "%s: %v\n", c.Name(), err)
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.ENOMEM) {
			return err
		}
		return nil
	}
	// The child holds its own descriptors now.
	closeAll(files)

	pid := cmd.Process.Pid
	if c.Background {
		l.Registry.Insert(c.Name(), pid)
		fmt.Fprintf(l.Stdout, "[%d] %s\n", pid, c.Name())
		l.Log.Debug("background job started", "pid", pid, "name", c.Name())
		go l.reap(cmd)
		return nil
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Visually separate the next prompt from a signal death.
			if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				fmt.Fprintln(l.Stdout)
			}
			return nil
		}
		// Already reaped ("no such child") and friends are tolerated.
		l.Log.Debug("wait", "pid", pid, "err", err)
	}
	return nil
}

// reap waits for a detached child and reports its completion to the
// signal dispatcher.
func (l *Launcher) reap(cmd *exec.Cmd) {
	_ = cmd.Wait()
	var status unix.WaitStatus
	if ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus); ok {
		status = unix.WaitStatus(ws)
	}
	l.Completions <- jobs.Completion{PID: cmd.Process.Pid, Status: status}
}

func closeAll(files []*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
