package diskcache

import "time"

// Entry is the bookkeeping kept for one cached file.
type Entry struct {
	Size         uint64    // Declared size in bytes
	LastAccessed time.Time // Time of the last Add, Hit, or the file mtime after a scan
	AccessCount  uint64    // Number of accesses, starting at 1
}

// Predicate selects which keys a scan includes. A nil Predicate accepts every key.
type Predicate func(key string) bool

// View is the read-only cache state handed to policies.
type View interface {
	// Root returns the absolute cache root directory.
	Root() string

	// TotalSize returns the sum of all entry sizes.
	TotalSize() uint64

	// Len returns the number of entries.
	Len() int

	// Range calls fn for every entry until fn returns false.
	// Entries are passed by value; iteration order is unspecified.
	Range(fn func(key string, entry Entry) bool)
}

// Stats provides counters about a cache since it was constructed.
type Stats struct {
	Entries    int    // Current number of entries
	TotalSize  uint64 // Current sum of entry sizes
	Hits       int64  // Hit calls for tracked keys
	Misses     int64  // Hit calls for unknown keys
	Additions  int64  // Successful Add calls
	Evictions  int64  // Entries removed by a budget shrink
	Rejections int64  // Add calls failed with ErrCapacityExceeded
	Rebuilds   int64  // Directory scans, including the one at construction
}

// Cache is the surface shared by SizeCache and CountCache.
type Cache interface {
	// Add reserves space for key and returns the absolute path the caller
	// should write the file to. Any existing entry for key is replaced.
	Add(key string, size uint64) (string, error)

	// Hit records an access to key. It returns false if key is not tracked.
	Hit(key string) (bool, error)

	// Delete removes key and its file. It returns false if key is not tracked.
	Delete(key string) (bool, error)

	// Rebuild replaces the bookkeeping with a scan of the root directory.
	Rebuild(predicate Predicate) error

	// Filepath returns the absolute path for key without touching the disk.
	Filepath(key string) string

	Root() string
	Len() int
	TotalSize() uint64
	Entry(key string) (Entry, bool)
	Keys() []string
	Stats() Stats
}
