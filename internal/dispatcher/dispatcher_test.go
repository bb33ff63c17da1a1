package dispatcher

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"gosh/internal/config"
	"gosh/internal/jobs"
	"gosh/internal/logger"
	"gosh/internal/monitor"
	"gosh/internal/parser"
	"gosh/internal/prompt"
)

// wait status encodings as the kernel reports them
func exited(code int) unix.WaitStatus { return unix.WaitStatus(code << 8) }

func signaled(sig unix.Signal) unix.WaitStatus { return unix.WaitStatus(sig) }

func stopped(sig unix.Signal) unix.WaitStatus { return unix.WaitStatus(int(sig)<<8 | 0x7f) }

func newTestDispatcher(t *testing.T) (*Dispatcher, *bytes.Buffer, *monitor.Monitor, *jobs.Registry, *monitor.Flag) {
	t.Helper()
	var buf bytes.Buffer
	mon := monitor.New()
	reg := jobs.NewRegistry()
	exit := &monitor.Flag{}
	pr := prompt.New(config.PromptConfig{Text: "$ "}, &buf)
	d := New(mon, exit, reg, pr, logger.Discard())
	d.out = &buf
	return d, &buf, mon, reg, exit
}

func TestStatusLine(t *testing.T) {
	cases := []struct {
		name string
		ws   unix.WaitStatus
		want string
	}{
		{"exit zero", exited(0), "[7]+ Done"},
		{"exit nonzero", exited(2), "[7]+ Exit 2"},
		{"killed by signal", signaled(unix.SIGKILL), "[7]+ Killed"},
		{"interrupted", signaled(unix.SIGINT), "[7]+ Killed"},
		{"stopped", stopped(unix.SIGTSTP), "[7]+ Stopped"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusLine(7, tc.ws))
		})
	}
}

func TestInterruptWhileIdleRedrawsPrompt(t *testing.T) {
	d, buf, _, _, _ := newTestDispatcher(t)

	d.interrupt()
	assert.Equal(t, "\n$ ", buf.String())
}

func TestInterruptWhileExecutingPrintsNewline(t *testing.T) {
	d, buf, mon, _, _ := newTestDispatcher(t)
	mon.Publish(&parser.Command{Args: []string{"sleep"}})

	d.interrupt()
	assert.Equal(t, "\n", buf.String(), "no prompt while a command runs")
}

func TestCompletedTrackedJob(t *testing.T) {
	d, buf, _, reg, _ := newTestDispatcher(t)
	reg.Insert("sleep", 42)

	d.completed(jobs.Completion{PID: 42, Status: exited(0)})

	out := buf.String()
	assert.Contains(t, out, "[42]+ Done")
	assert.Contains(t, out, "$ ", "prompt redrawn while idle")
	assert.False(t, reg.Remove(42), "job untracked after completion")
}

func TestCompletedTrackedJobWhileExecuting(t *testing.T) {
	d, buf, mon, reg, _ := newTestDispatcher(t)
	reg.Insert("find", 43)
	mon.Publish(&parser.Command{Args: []string{"sleep"}})

	d.completed(jobs.Completion{PID: 43, Status: exited(1)})

	out := buf.String()
	assert.Contains(t, out, "[43]+ Exit 1")
	assert.NotContains(t, out, "$ ", "no prompt while a command runs")
}

func TestCompletedUntrackedChildIsSilent(t *testing.T) {
	d, buf, _, _, _ := newTestDispatcher(t)

	d.completed(jobs.Completion{PID: 99, Status: exited(0)})
	assert.Empty(t, buf.String())
}

func TestShutdownRequiresExitFlag(t *testing.T) {
	d, _, _, reg, exit := newTestDispatcher(t)
	go d.Run()

	// wake without the flag: ignored, the loop keeps serving
	d.Shutdown()
	reg.Insert("sleep", 5)
	d.Completions() <- jobs.Completion{PID: 5, Status: exited(0)}

	require.Eventually(t, func() bool { return reg.Len() == 0 },
		2*time.Second, 10*time.Millisecond, "dispatcher still serving after spurious wake")

	exit.Set()
	d.Shutdown()

	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop after exit flag was set")
	}
}
