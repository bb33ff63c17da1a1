package main

import (
	"flag"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"gosh/internal/config"
	"gosh/internal/dispatcher"
	"gosh/internal/executor"
	"gosh/internal/jobs"
	"gosh/internal/logger"
	"gosh/internal/monitor"
	"gosh/internal/parser"
	"gosh/internal/prompt"
	"gosh/internal/repl"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the shell config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	// Interactive bootstrap: become a process-group leader and take
	// terminal control, so only the shell's foreground group reads
	// stdin. A process from another group that tries gets SIGTTIN and
	// stops. Both failures are unrecoverable.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		pid := unix.Getpid()
		if err := unix.Setpgid(pid, pid); err != nil {
			fmt.Fprintf(os.Stderr, "setpgid: %v\n", err)
			os.Exit(1)
		}
		if err := unix.IoctlSetPointerInt(int(os.Stdin.Fd()), unix.TIOCSPGRP, pid); err != nil {
			fmt.Fprintf(os.Stderr, "tcsetpgrp: %v\n", err)
			os.Exit(1)
		}
	}

	reg := jobs.NewRegistry()
	mon := monitor.New()
	exit := &monitor.Flag{}
	pr := prompt.New(cfg.Prompt, os.Stdout)

	// The dispatcher subscribes to signals in New, before the other
	// actors exist, so nothing else ever observes one.
	d := dispatcher.New(mon, exit, reg, pr, log)
	go d.Run()

	launcher := executor.New(reg, d.Completions(), log)
	lineActor := repl.New(parser.New(cfg.Limits.MaxToken), mon, exit, reg, pr, log, cfg.Limits.MaxLine)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		lineActor.Run()
	}()
	go func() {
		defer wg.Done()
		launcher.Run(mon, exit)
	}()
	wg.Wait()

	// Both actors are done and the exit flag is set; wake the
	// dispatcher so it can observe that and return. Background jobs
	// keep running, merely untracked from here on.
	d.Shutdown()
	d.Wait()
}
