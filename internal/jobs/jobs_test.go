package jobs

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRoundTrip(t *testing.T) {
	r := NewRegistry()
	r.Insert("sleep", 4242)

	var listed []Job
	r.ForEach(func(j Job) { listed = append(listed, j) })
	require.Len(t, listed, 1)
	assert.Equal(t, Job{PID: 4242, Name: "sleep"}, listed[0])

	assert.True(t, r.Remove(4242))

	listed = nil
	r.ForEach(func(j Job) { listed = append(listed, j) })
	assert.Empty(t, listed)

	assert.False(t, r.Remove(4242), "second remove for the same pid")
}

func TestRegistryRemoveUntracked(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Remove(1))
}

func TestRegistryMultipleJobs(t *testing.T) {
	r := NewRegistry()
	r.Insert("sleep", 10)
	r.Insert("cat", 11)
	r.Insert("find", 12)

	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Remove(11))
	assert.Equal(t, 2, r.Len())

	var pids []int
	r.ForEach(func(j Job) { pids = append(pids, j.PID) })
	assert.ElementsMatch(t, []int{10, 12}, pids)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	const n = 100

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			r.Insert("job", i)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			r.Remove(i)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			r.ForEach(func(Job) {})
		}
	}()
	wg.Wait()

	// every pid is either still tracked or already removed; draining
	// the rest must succeed exactly once per survivor
	var survivors []int
	r.ForEach(func(j Job) { survivors = append(survivors, j.PID) })
	for _, pid := range survivors {
		assert.True(t, r.Remove(pid))
	}
	assert.Equal(t, 0, r.Len())
}
