package diskcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const kib = 1024

// fakeClock returns strictly increasing times, one second apart.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

// writeFile writes size bytes to path, creating parent directories.
func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

// writeFileAt writes size bytes to path and sets its mtime.
func writeFileAt(t *testing.T, path string, size int, mtime time.Time) {
	t.Helper()
	writeFile(t, path, size)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

// addAndWrite adds key to c and writes size bytes to the returned path.
func addAndWrite(t *testing.T, c Cache, key string, size int) string {
	t.Helper()
	path, err := c.Add(key, uint64(size))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

// sumSizes recomputes the total size from the individual entries.
func sumSizes(c Cache) uint64 {
	var total uint64
	for _, key := range c.Keys() {
		e, _ := c.Entry(key)
		total += e.Size
	}
	return total
}

// staticView is a View over a fixed set of entries.
type staticView struct {
	root    string
	entries map[string]Entry
}

func (v staticView) Root() string { return v.root }

func (v staticView) TotalSize() uint64 {
	var total uint64
	for _, e := range v.entries {
		total += e.Size
	}
	return total
}

func (v staticView) Len() int { return len(v.entries) }

func (v staticView) Range(fn func(key string, entry Entry) bool) {
	for key, e := range v.entries {
		if !fn(key, e) {
			return
		}
	}
}
