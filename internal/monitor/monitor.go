// Package monitor holds the single-slot rendezvous that synchronizes
// the line actor with the exec actor, and the process-wide exit flag.
package monitor

import (
	"sync"

	"gosh/internal/parser"
)

type state int

const (
	empty state = iota
	filled
	terminate
)

// Monitor is a single-producer/single-consumer mailbox with capacity
// one. Ownership of the published Command transfers with the state
// transition; neither actor touches it while the other holds the slot.
type Monitor struct {
	mu   sync.Mutex
	cond *sync.Cond
	st   state
	cmd  *parser.Command
}

// New returns an empty Monitor.
func New() *Monitor {
	m := &Monitor{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Publish stores cmd and hands the slot to the exec actor. The caller
// must not reuse cmd until AwaitConsumption returns. Publishing after
// Shutdown is a no-op.
func (m *Monitor) Publish(cmd *parser.Command) {
	m.mu.Lock()
	if m.st != terminate {
		m.cmd = cmd
		m.st = filled
	}
	m.cond.Broadcast()
	m.mu.Unlock()
}

// AwaitConsumption blocks until the exec actor has consumed the
// published command or shutdown was requested.
func (m *Monitor) AwaitConsumption() {
	m.mu.Lock()
	for m.st == filled {
		m.cond.Wait()
	}
	m.mu.Unlock()
}

// Await blocks until a command is published or shutdown is requested;
// ok is false on shutdown.
func (m *Monitor) Await() (cmd *parser.Command, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.st == empty {
		m.cond.Wait()
	}
	if m.st == terminate {
		return nil, false
	}
	return m.cmd, true
}

// MarkConsumed returns the slot to the line actor.
func (m *Monitor) MarkConsumed() {
	m.mu.Lock()
	if m.st == filled {
		m.st = empty
		m.cmd = nil
	}
	m.cond.Broadcast()
	m.mu.Unlock()
}

// Shutdown moves the slot to its terminal state and wakes every
// waiter. There is no way back.
func (m *Monitor) Shutdown() {
	m.mu.Lock()
	m.st = terminate
	m.cmd = nil
	m.cond.Broadcast()
	m.mu.Unlock()
}

// Executing reports whether a command is currently in flight.
func (m *Monitor) Executing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st == filled
}

// Observe runs fn with the slot state pinned under the monitor's own
// lock. The signal dispatcher uses this so a prompt redraw cannot race
// command completion.
func (m *Monitor) Observe(fn func(executing bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.st == filled)
}

// Flag is the process-wide exit flag. Once set it is never observed
// false again within a run.
type Flag struct {
	mu  sync.Mutex
	set bool
}

// Set marks the shell for termination.
func (f *Flag) Set() {
	f.mu.Lock()
	f.set = true
	f.mu.Unlock()
}

// IsSet reports whether termination has been requested.
func (f *Flag) IsSet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set
}
