package keymap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// TestResolve_FallbackForUnbound verifies unbound keys resolve to the default sound
func TestResolve_FallbackForUnbound(t *testing.T) {
	m := New(map[string]int{"A": 5}, 65)

	require.Equal(t, 5, m.Resolve("A"))
	require.Equal(t, 65, m.Resolve("B"))

	_, ok := m.Lookup("B")
	require.False(t, ok, "resolve must not insert unbound keys")
	require.Equal(t, 1, m.Len())
}

// TestReassign_OverwritesAndInserts verifies reassignment replaces existing bindings and adds new ones
func TestReassign_OverwritesAndInserts(t *testing.T) {
	m := New(map[string]int{"A": 5}, 65)

	m.Reassign("A", 2)
	m.Reassign("A", 2)
	m.Reassign("Space", 7)

	require.Equal(t, 2, m.Resolve("A"))
	require.Equal(t, 7, m.Resolve("Space"))
	require.Equal(t, 2, m.Len())
}

// TestNew_CopiesInput verifies the key map does not alias the caller's map
func TestNew_CopiesInput(t *testing.T) {
	src := map[string]int{"A": 1}
	m := New(src, 65)

	src["A"] = 99
	m.Reassign("B", 3)

	require.Equal(t, 1, m.Resolve("A"))
	_, ok := src["B"]
	require.False(t, ok)
}

// TestEntries_Sorted verifies bindings are listed in key order
func TestEntries_Sorted(t *testing.T) {
	m := New(map[string]int{"Space": 3, "A": 1, "Key1": 2}, 65)

	require.Equal(t, []Entry{
		{Key: "A", SoundID: 1},
		{Key: "Key1", SoundID: 2},
		{Key: "Space", SoundID: 3},
	}, m.Entries())
}

// TestParse verifies keymap TOML decoding and rejection of non-integer values
func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]int
		wantErr bool
	}{
		{
			name:  "flat bindings",
			input: "A = 1\nKey1 = 12\n\"LShift\" = 40\n",
			want:  map[string]int{"A": 1, "Key1": 12, "LShift": 40},
		},
		{
			name:  "empty file",
			input: "",
			want:  map[string]int{},
		},
		{
			name:    "string value",
			input:   "A = \"one\"\n",
			wantErr: true,
		},
		{
			name:    "nested table",
			input:   "[keys]\nA = 1\n",
			wantErr: true,
		},
		{
			name:    "syntax error",
			input:   "A = \n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.input), 65)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, len(tt.want), m.Len())
			for k, v := range tt.want {
				require.Equal(t, v, m.Resolve(k), "key %q", k)
			}
		})
	}
}

// TestLoad verifies a keymap file loads into bindings
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keymap.toml")
	require.NoError(t, os.WriteFile(path, []byte("A = 5\nSpace = 2\n"), 0o644))

	m, err := Load(path, 65)
	require.NoError(t, err)
	require.Equal(t, 5, m.Resolve("A"))
	require.Equal(t, 65, m.Default())
}

// TestLoad_Missing verifies a missing keymap file is an error
func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), 65)
	require.Error(t, err)
	require.True(t, os.IsNotExist(errors.Cause(err)))
}

// TestLoad_MalformedNamesFile verifies malformed keymap errors name the file
func TestLoad_MalformedNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keymap.toml")
	require.NoError(t, os.WriteFile(path, []byte("A = [1, 2]\n"), 0o644))

	_, err := Load(path, 65)
	require.Error(t, err)
	require.Contains(t, err.Error(), path)
}
