// Package builtins implements the commands that must run inside the
// shell process: exit, jobs, cd, and pwd.
package builtins

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"

	"gosh/internal/jobs"
	"gosh/internal/parser"
)

// Handle intercepts built-in commands before they reach the exec
// actor. handled reports whether cmd was a built-in; quit is true only
// for exit.
func Handle(cmd *parser.Command, reg *jobs.Registry, out, errw io.Writer) (handled, quit bool) {
	switch cmd.Name() {
	case "exit":
		return true, true
	case "jobs":
		Jobs(reg, out)
		return true, false
	case "cd":
		Cd(cmd.Args, errw)
		return true, false
	case "pwd":
		Pwd(out, errw)
		return true, false
	}
	return false, false
}

// Cd changes the working directory. Exactly one path argument is
// required; a missing target gets its own message, anything else is
// reported generically.
func Cd(args []string, errw io.Writer) {
	if len(args) != 2 {
		fmt.Fprintln(errw, "cd: one argument required")
		return
	}
	if err := os.Chdir(args[1]); err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, unix.ENOTDIR) {
			fmt.Fprintf(errw, "cd: %s: No such directory\n", args[1])
			return
		}
		fmt.Fprintf(errw, "cd: %v\n", err)
	}
}

// Jobs lists tracked background jobs, one "[pid] name" per line.
func Jobs(reg *jobs.Registry, out io.Writer) {
	reg.ForEach(func(j jobs.Job) {
		fmt.Fprintf(out, "[%d] %s\n", j.PID, j.Name)
	})
}

// Pwd prints the working directory.
func Pwd(out, errw io.Writer) {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(errw, "pwd: %v\n", err)
		return
	}
	fmt.Fprintln(out, wd)
}
