package diskcache

import (
	"math"

	"github.com/jmgilman/go/errors"
)

// CountCache is a directory cache bounded by the number of entries. Sizes are
// tracked but never constrain it.
type CountCache struct {
	store      *entryStore
	maxEntries int
	discard    DiscardPolicy
}

var _ Cache = (*CountCache)(nil)

// NewCountCache opens the cache rooted at root, creating the directory if
// needed, and indexes the files already present.
//
// If more than maxEntries files are found, NewCountCache evicts the surplus in
// discard order. This deletes files from disk.
func NewCountCache(root string, maxEntries int, discard DiscardPolicy, opts ...Option) (*CountCache, error) {
	if discard == nil {
		return nil, errors.New(errors.CodeInvalidInput, "discard policy is required")
	}

	options := buildOptions(opts)
	store, err := newEntryStore(root, options)
	if err != nil {
		return nil, err
	}

	c := &CountCache{
		store:      store,
		maxEntries: maxEntries,
		discard:    discard,
	}

	if err := store.rebuild(options.predicate); err != nil {
		return nil, err
	}

	if over := store.Len() - c.limit(); over > 0 {
		store.logger.Debug("existing cache contents exceed entry limit",
			"entries", store.Len(), "max_entries", maxEntries)
		if err := c.shrink(over); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// limit is maxEntries clamped to zero.
func (c *CountCache) limit() int {
	if c.maxEntries < 0 {
		return 0
	}
	return c.maxEntries
}

// Add tracks key with the given size and returns the absolute path to write
// the file to. An existing entry for key is deleted first, file included.
// When the cache is full, entries are evicted in discard order to make room.
//
// Add fails with ErrCapacityExceeded when maxEntries is not positive or the
// total size would overflow.
func (c *CountCache) Add(key string, size uint64) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	if c.maxEntries <= 0 {
		c.store.stats.Rejections++
		return "", capacityExceeded(k, size, 0)
	}

	if _, err := c.store.remove(k); err != nil {
		return "", err
	}

	if c.store.totalSize > math.MaxUint64-size {
		c.store.stats.Rejections++
		return "", capacityExceeded(k, size, math.MaxUint64)
	}

	if n := c.store.Len() - c.maxEntries + 1; n > 0 {
		if err := c.shrink(n); err != nil {
			return "", err
		}
	}

	return c.store.insert(k, size)
}

// shrink evicts the first n tracked keys of the discard order, or fewer if the
// order runs out. Keys the order names but the cache does not track are
// skipped.
func (c *CountCache) shrink(n int) error {
	evicted := 0
	for _, key := range c.discard.Order(c.store) {
		if evicted >= n {
			break
		}
		ok, err := c.store.evict(key, "count")
		if err != nil {
			return err
		}
		if ok {
			evicted++
		}
	}
	return nil
}

// Hit records an access to key. It returns false if key is not tracked.
func (c *CountCache) Hit(key string) (bool, error) {
	return c.store.hit(key)
}

// Delete removes key and its file. It returns false if key is not tracked.
func (c *CountCache) Delete(key string) (bool, error) {
	return c.store.delete(key)
}

// Rebuild replaces the bookkeeping with a scan of the root directory.
// See SizeCache.Rebuild.
func (c *CountCache) Rebuild(predicate Predicate) error {
	return c.store.rebuild(predicate)
}

// Filepath returns the absolute path for key.
func (c *CountCache) Filepath(key string) string {
	return c.store.filepath(key)
}

// MaxEntries returns the entry limit.
func (c *CountCache) MaxEntries() int { return c.maxEntries }

// Root returns the absolute cache root.
func (c *CountCache) Root() string { return c.store.root }

// Len returns the number of tracked entries.
func (c *CountCache) Len() int { return c.store.Len() }

// TotalSize returns the sum of declared entry sizes.
func (c *CountCache) TotalSize() uint64 { return c.store.totalSize }

// Entry returns a copy of the bookkeeping for key.
func (c *CountCache) Entry(key string) (Entry, bool) { return c.store.entry(key) }

// Keys returns the tracked keys in lexical order.
func (c *CountCache) Keys() []string { return c.store.keys() }

// Stats returns counters since construction.
func (c *CountCache) Stats() Stats { return c.store.snapshot() }
