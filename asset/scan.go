// Package asset discovers key sound clips on disk and holds their bytes in memory.
package asset

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/scylladb/go-set/iset"

	"github.com/lixenwraith/keyclack/constant"
)

// ErrNoSounds is returned when no clip matches the naming convention
var ErrNoSounds = errors.New("no sounds available")

// Available is the immutable set of sound ids that have a clip on disk
type Available struct {
	ids []int // sorted, draws index into this
	set *iset.Set
}

// NewAvailable builds a set from ids, duplicates collapse
func NewAvailable(ids ...int) Available {
	set := iset.New(ids...)
	sorted := set.List()
	sort.Ints(sorted)
	return Available{ids: sorted, set: set}
}

// Contains reports membership
func (a Available) Contains(id int) bool {
	return a.set != nil && a.set.Has(id)
}

// Len returns the number of ids
func (a Available) Len() int {
	return len(a.ids)
}

// IDs returns a sorted copy of the ids
func (a Available) IDs() []int {
	out := make([]int, len(a.ids))
	copy(out, a.ids)
	return out
}

// Pick draws one id uniformly at random, false when the set is empty
func (a Available) Pick(r *rand.Rand) (int, bool) {
	if len(a.ids) == 0 {
		return 0, false
	}
	return a.ids[r.IntN(len(a.ids))], true
}

// FileName returns the clip file name for id
func FileName(id int, ext string) string {
	return constant.SoundFilePrefix + strconv.Itoa(id) + "." + ext
}

// Path returns the clip path for id, also the cache lookup key
func Path(dir string, id int, ext string) string {
	return filepath.Join(dir, FileName(id, ext))
}

// ParseFileName extracts the id from key_sound_<id>.<ext>
// Only the canonical decimal form is accepted so that Path(id) names the same file
func ParseFileName(name, ext string) (int, bool) {
	rest, ok := strings.CutPrefix(name, constant.SoundFilePrefix)
	if !ok {
		return 0, false
	}
	digits, ok := strings.CutSuffix(rest, "."+ext)
	if !ok || digits == "" {
		return 0, false
	}
	id, err := strconv.Atoi(digits)
	if err != nil || strconv.Itoa(id) != digits {
		return 0, false
	}
	return id, true
}

// Scan lists one directory level and collects ids of matching clips
// Non-matching names and sub-directories are skipped without error
func Scan(dir, ext string) (Available, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Available{}, errors.Wrapf(err, "read asset directory %q", dir)
	}

	var ids []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, ok := ParseFileName(entry.Name(), ext); ok {
			ids = append(ids, id)
		}
	}

	return NewAvailable(ids...), nil
}
