// Package jobs tracks background processes between their launch and
// the moment the signal dispatcher observes their termination.
package jobs

import (
	"sync"

	"golang.org/x/sys/unix"
)

// Job is one tracked background process.
type Job struct {
	PID  int
	Name string
}

// Completion reports a reaped background child to the signal
// dispatcher.
type Completion struct {
	PID    int
	Status unix.WaitStatus
}

// Registry is the synchronized collection of live background jobs.
// Every operation is individually atomic under one mutex; no
// cross-call atomicity is promised.
type Registry struct {
	mu   sync.Mutex
	jobs []Job
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry { return &Registry{} }

// Insert tracks a newly detached background process.
func (r *Registry) Insert(name string, pid int) {
	r.mu.Lock()
	r.jobs = append(r.jobs, Job{PID: pid, Name: name})
	r.mu.Unlock()
}

// Remove untracks pid, reporting whether it was tracked. A second call
// for the same pid returns false.
func (r *Registry) Remove(pid int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, j := range r.jobs {
		if j.PID == pid {
			r.jobs = append(r.jobs[:i], r.jobs[i+1:]...)
			return true
		}
	}
	return false
}

// ForEach calls fn for every tracked job while holding the registry
// lock, so enumeration is safe against concurrent insert/remove.
// fn must not call back into the registry.
func (r *Registry) ForEach(fn func(Job)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		fn(j)
	}
}

// Len returns the number of tracked jobs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}
