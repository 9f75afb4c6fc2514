package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRegistry_CounterIsCached verifies counters are created once and reused
func TestRegistry_CounterIsCached(t *testing.T) {
	r := NewRegistry()

	c := r.Counter("keys.presses")
	c.Add(3)

	require.Same(t, c, r.Counter("keys.presses"))
	require.EqualValues(t, 3, r.Value("keys.presses"))
	require.Equal(t, 1, r.Len())
}

// TestRegistry_ValueDoesNotRegister verifies reading an unknown counter does not create it
func TestRegistry_ValueDoesNotRegister(t *testing.T) {
	r := NewRegistry()

	require.Zero(t, r.Value("missing"))
	require.Zero(t, r.Len())
}

// TestRegistry_RangeSorted verifies counters are visited in name order
func TestRegistry_RangeSorted(t *testing.T) {
	r := NewRegistry()
	r.Counter("voices.started").Store(5)
	r.Counter("keys.presses").Store(7)
	r.Counter("loop.iterations").Store(100)

	var names []string
	var values []uint64
	r.Range(func(name string, value uint64) {
		names = append(names, name)
		values = append(values, value)
	})

	require.Equal(t, []string{"keys.presses", "loop.iterations", "voices.started"}, names)
	require.Equal(t, []uint64{7, 100, 5}, values)
}

// TestRegistry_ConcurrentAccess verifies concurrent increments are not lost
func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	const workers, perWorker = 8, 1000

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				r.Counter("shared").Add(1)
				r.Range(func(string, uint64) {})
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, workers*perWorker, r.Value("shared"))
}
