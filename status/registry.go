// Package status holds named runtime counters written by one goroutine and read by any.
package status

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Registry maps counter names to atomics
// Writers cache the pointer from Counter once; later increments and reads take no lock
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Uint64
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]*atomic.Uint64),
	}
}

// Counter returns the counter for name, registering it at zero on first use
func (r *Registry) Counter(name string) *atomic.Uint64 {
	r.mu.RLock()
	c, ok := r.counters[name]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another writer may have registered it between the locks
	if c, ok := r.counters[name]; ok {
		return c
	}
	c = new(atomic.Uint64)
	r.counters[name] = c
	return c
}

// Value reads a counter without registering it, 0 when absent
func (r *Registry) Value(name string) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.counters[name]; ok {
		return c.Load()
	}
	return 0
}

// Range visits every counter in name order
func (r *Registry) Range(fn func(name string, value uint64)) {
	r.mu.RLock()
	names := make([]string, 0, len(r.counters))
	ptrs := make(map[string]*atomic.Uint64, len(r.counters))
	for name, c := range r.counters {
		names = append(names, name)
		ptrs[name] = c
	}
	r.mu.RUnlock()

	// fn runs unlocked so it may register counters itself
	sort.Strings(names)
	for _, name := range names {
		fn(name, ptrs[name].Load())
	}
}

// Len returns the number of registered counters
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.counters)
}
