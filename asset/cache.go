package asset

import (
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/remeh/sizedwaitgroup"

	"github.com/lixenwraith/keyclack/logger"
)

// Cache holds the bytes of every available clip keyed by file path
// Built once and never mutated, so buffers are shared with voices without locking
type Cache struct {
	dir       string
	ext       string
	available Available
	clips     map[string][]byte
	size      uint64
}

// BuildCache scans dir and reads every matching clip in full
// A matched file that cannot be read completely aborts the build
func BuildCache(dir, ext string) (*Cache, error) {
	available, err := Scan(dir, ext)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		dir:       dir,
		ext:       ext,
		available: available,
		clips:     make(map[string][]byte, available.Len()),
	}

	// Files are independent; read them in parallel and keep the first failure
	paths := make([]string, len(available.ids))
	datas := make([][]byte, len(available.ids))
	errs := make([]error, len(available.ids))

	wg := sizedwaitgroup.New(runtime.NumCPU())
	for i, id := range available.ids {
		paths[i] = Path(dir, id, ext)
		wg.Add()
		go func(i int) {
			defer wg.Done()
			datas[i], errs[i] = readFull(paths[i])
		}(i)
	}
	wg.Wait()

	for i, path := range paths {
		if errs[i] != nil {
			return nil, errs[i]
		}
		c.clips[path] = datas[i]
		c.size += uint64(len(datas[i]))
	}

	logger.GetLogger("asset").Infof("Cached %d sounds (%s) from %q", available.Len(), humanize.Bytes(c.size), dir)
	return c, nil
}

func readFull(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stat sound %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read sound %q", path)
	}
	if info.Mode().IsRegular() && int64(len(data)) != info.Size() {
		return nil, errors.Errorf("read sound %q: got %d of %d bytes", path, len(data), info.Size())
	}
	return data, nil
}

// Get returns the clip stored under path
// The returned slice is shared and must not be modified
func (c *Cache) Get(path string) ([]byte, bool) {
	data, ok := c.clips[path]
	return data, ok
}

// Clip returns the clip for a sound id
func (c *Cache) Clip(id int) ([]byte, bool) {
	return c.Get(Path(c.dir, id, c.ext))
}

// Available returns the ids the cache was built from
func (c *Cache) Available() Available {
	return c.available
}

// Len returns the number of cached clips
func (c *Cache) Len() int {
	return len(c.clips)
}

// Size returns the total cached bytes
func (c *Cache) Size() uint64 {
	return c.size
}

// Dir returns the scanned directory
func (c *Cache) Dir() string {
	return c.dir
}

// Ext returns the clip extension
func (c *Cache) Ext() string {
	return c.ext
}
