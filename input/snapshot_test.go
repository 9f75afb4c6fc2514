package input

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestNewSnapshot_SortsAndDedupes verifies snapshots are sorted and unique
func TestNewSnapshot_SortsAndDedupes(t *testing.T) {
	s := NewSnapshot("Space", "A", "LShift", "A")
	require.Equal(t, []string{"A", "LShift", "Space"}, s.Keys())
	require.Equal(t, 3, s.Len())
	require.True(t, s.Contains("LShift"))
	require.False(t, s.Contains("B"))

	require.Zero(t, NewSnapshot().Len())
	require.True(t, NewSnapshot().Equal(Snapshot{}))
}

// TestNewSnapshot_DoesNotAliasInput verifies snapshots copy their input
func TestNewSnapshot_DoesNotAliasInput(t *testing.T) {
	keys := []string{"B", "A"}
	s := NewSnapshot(keys...)
	keys[0] = "Z"

	require.Equal(t, []string{"A", "B"}, s.Keys())

	out := s.Keys()
	out[0] = "Q"
	require.True(t, s.Contains("A"))
}

// TestEdges verifies new presses between two snapshots
func TestEdges(t *testing.T) {
	tests := []struct {
		name string
		prev []string
		cur  []string
		want []string
	}{
		{"first press", nil, []string{"A"}, []string{"A"}},
		{"held", []string{"A"}, []string{"A"}, nil},
		{"released", []string{"A", "B"}, []string{"B"}, nil},
		{"chord", []string{"LShift"}, []string{"A", "LShift", "S"}, []string{"A", "S"}},
		{"roll over", []string{"A"}, []string{"S"}, []string{"S"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Edges(NewSnapshot(tt.prev...), NewSnapshot(tt.cur...))
			require.Equal(t, tt.want, got)
		})
	}
}

// TestEdges_IsSetDifference verifies edges equal the set difference of snapshots
func TestEdges_IsSetDifference(t *testing.T) {
	key := rapid.SampledFrom([]string{"A", "B", "C", "Space", "LShift", "Key1", "F5", "Code300"})

	rapid.Check(t, func(rt *rapid.T) {
		prev := NewSnapshot(rapid.SliceOf(key).Draw(rt, "prev")...)
		cur := NewSnapshot(rapid.SliceOf(key).Draw(rt, "cur")...)

		edges := Edges(prev, cur)

		var want []string
		for _, k := range cur.Keys() {
			if !prev.Contains(k) {
				want = append(want, k)
			}
		}
		if !slices.Equal(want, edges) {
			rt.Fatalf("edges %v, want %v", edges, want)
		}
		if !slices.IsSorted(edges) {
			rt.Fatalf("edges not in snapshot order: %v", edges)
		}
		for _, k := range edges {
			if prev.Contains(k) || !cur.Contains(k) {
				rt.Fatalf("edge %q not in cur minus prev", k)
			}
		}
		if len(Edges(cur, cur)) != 0 {
			rt.Fatalf("identical snapshots produced edges")
		}
	})
}
