package diskcache

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/go/errors"
)

// entryStore is the keyed bookkeeping shared by SizeCache and CountCache.
// It owns the entries map and keeps totalSize equal to the sum of sizes.
type entryStore struct {
	root     string           // Absolute cache root
	fs       billy.Filesystem // Filesystem abstraction for all I/O
	osBacked bool             // fs is the default local filesystem
	dirMode  fs.FileMode
	now      func() time.Time
	logger   *slog.Logger

	entries   map[string]*Entry
	totalSize uint64
	stats     Stats
}

func newEntryStore(root string, opts *options) (*entryStore, error) {
	if root == "" {
		return nil, invalidPath(root, "is empty")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPath, errors.CodeInvalidInput, "failed to resolve %q: %v", root, err)
	}

	s := &entryStore{
		root:    abs,
		fs:      opts.fs,
		dirMode: opts.dirMode,
		now:     opts.now,
		logger:  opts.logger.With("root", abs),
		entries: make(map[string]*Entry),
	}
	if s.fs == nil {
		s.fs = osfs.New("/", osfs.WithBoundOS())
		s.osBacked = true
	}

	info, err := s.fs.Stat(abs)
	switch {
	case err == nil && !info.IsDir():
		return nil, invalidPath(abs, "is not a directory")
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to stat cache root: %w", err)
	}

	if err := s.fs.MkdirAll(abs, s.dirMode); err != nil {
		return nil, fmt.Errorf("failed to create cache root: %w", err)
	}

	return s, nil
}

// cleanKey normalizes key to a slash-separated path that stays below the root.
func cleanKey(key string) (string, error) {
	k := filepath.ToSlash(key)
	if k == "" || path.IsAbs(k) || filepath.IsAbs(key) {
		return "", invalidPath(key, "must be a non-empty relative path")
	}
	k = path.Clean(k)
	if k == "." || k == ".." || strings.HasPrefix(k, "../") {
		return "", invalidPath(key, "escapes the cache root")
	}
	return k, nil
}

// Root implements View.
func (s *entryStore) Root() string { return s.root }

// TotalSize implements View.
func (s *entryStore) TotalSize() uint64 { return s.totalSize }

// Len implements View.
func (s *entryStore) Len() int { return len(s.entries) }

// Range implements View.
func (s *entryStore) Range(fn func(key string, entry Entry) bool) {
	for key, entry := range s.entries {
		if !fn(key, *entry) {
			return
		}
	}
}

func (s *entryStore) filepath(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *entryStore) entry(key string) (Entry, bool) {
	k, err := cleanKey(key)
	if err != nil {
		return Entry{}, false
	}
	e, ok := s.entries[k]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

func (s *entryStore) keys() []string {
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *entryStore) snapshot() Stats {
	stats := s.stats
	stats.Entries = len(s.entries)
	stats.TotalSize = s.totalSize
	return stats
}

// insert creates the parent directories for key and tracks a fresh entry.
// Any previous entry for key must already be removed.
func (s *entryStore) insert(key string, size uint64) (string, error) {
	target := s.filepath(key)
	if err := s.fs.MkdirAll(filepath.Dir(target), s.dirMode); err != nil {
		return "", fmt.Errorf("failed to create directory for %q: %w", key, err)
	}

	s.entries[key] = &Entry{
		Size:         size,
		LastAccessed: s.now(),
		AccessCount:  1,
	}
	s.totalSize += size
	s.stats.Additions++

	return target, nil
}

// hit refreshes the recency and frequency of key and its file mtime.
func (s *entryStore) hit(key string) (bool, error) {
	k, err := cleanKey(key)
	if err != nil {
		s.stats.Misses++
		return false, nil //nolint:nilerr // an invalid key is never tracked
	}

	e, ok := s.entries[k]
	if !ok {
		s.stats.Misses++
		return false, nil
	}

	now := s.now()
	e.LastAccessed = now
	e.AccessCount++
	s.stats.Hits++

	if err := s.touch(s.filepath(k), now); err != nil {
		return true, fmt.Errorf("failed to update modification time of %q: %w", k, err)
	}
	return true, nil
}

// touch sets the mtime of a file so a later scan sees the same recency.
// Files that are not written yet are ignored.
func (s *entryStore) touch(name string, t time.Time) error {
	var err error
	switch {
	case s.supportsChange():
		err = s.fs.(billy.Change).Chtimes(name, t, t)
	case s.osBacked:
		err = os.Chtimes(name, t, t)
	default:
		return nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *entryStore) supportsChange() bool {
	_, ok := s.fs.(billy.Change)
	return ok
}

// remove deletes the file and the entry for an already cleaned key.
func (s *entryStore) remove(key string) (bool, error) {
	e, ok := s.entries[key]
	if !ok {
		return false, nil
	}

	if err := s.fs.Remove(s.filepath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to remove %q: %w", key, err)
	}

	delete(s.entries, key)
	s.totalSize -= e.Size
	return true, nil
}

func (s *entryStore) delete(key string) (bool, error) {
	k, err := cleanKey(key)
	if err != nil {
		return false, nil //nolint:nilerr // an invalid key is never tracked
	}
	return s.remove(k)
}

// evict removes key as part of a budget shrink. Keys that are not tracked
// are skipped and reported as false.
func (s *entryStore) evict(key, reason string) (bool, error) {
	e, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	size := e.Size
	if _, err := s.remove(key); err != nil {
		return false, err
	}
	s.stats.Evictions++
	s.logger.Debug("evicted cache entry", "key", key, "size", size, "reason", reason)
	return true, nil
}

// rebuild replaces the entries with a scan of the root. Keys tracked before
// the scan keep their access history; everything else starts from the file
// size and mtime.
func (s *entryStore) rebuild(predicate Predicate) error {
	next := make(map[string]*Entry)
	var total uint64

	err := util.Walk(s.fs, s.root, func(name string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(s.root, name)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if predicate != nil && !predicate(key) {
			return nil
		}

		e := &Entry{
			Size:         uint64(info.Size()), //nolint:gosec // file sizes are non-negative
			LastAccessed: info.ModTime(),
			AccessCount:  1,
		}
		if prev, ok := s.entries[key]; ok {
			e.LastAccessed = prev.LastAccessed
			e.AccessCount = prev.AccessCount
		}

		next[key] = e
		total += e.Size
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan cache root: %w", err)
	}

	s.entries = next
	s.totalSize = total
	s.stats.Rebuilds++
	s.logger.Debug("rebuilt cache index", "entries", len(next), "total_size", total)
	return nil
}
