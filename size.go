package diskcache

import (
	"math"

	"github.com/jmgilman/go/errors"
)

// SizeCache is a directory cache bounded by the total declared size of its
// entries.
type SizeCache struct {
	store    *entryStore
	capacity CapacityPolicy
	discard  DiscardPolicy
}

var _ Cache = (*SizeCache)(nil)

// NewSizeCache opens the cache rooted at root, creating the directory if
// needed, and indexes the files already present.
//
// If the existing files exceed the budget, NewSizeCache evicts them in
// discard order until the cache fits. This deletes files from disk.
//
// Example:
//
//	c, err := diskcache.NewSizeCache("/var/cache/tool",
//	    diskcache.KeepFree(5<<30), diskcache.FrequencyOrder(),
//	    diskcache.WithPredicate(func(key string) bool {
//	        return strings.HasSuffix(key, ".tar.gz")
//	    }))
func NewSizeCache(root string, capacity CapacityPolicy, discard DiscardPolicy, opts ...Option) (*SizeCache, error) {
	if capacity == nil {
		return nil, errors.New(errors.CodeInvalidInput, "capacity policy is required")
	}
	if discard == nil {
		return nil, errors.New(errors.CodeInvalidInput, "discard policy is required")
	}

	options := buildOptions(opts)
	store, err := newEntryStore(root, options)
	if err != nil {
		return nil, err
	}

	c := &SizeCache{
		store:    store,
		capacity: capacity,
		discard:  discard,
	}

	if err := store.rebuild(options.predicate); err != nil {
		return nil, err
	}

	target, err := capacity.Capacity(store)
	if err != nil {
		return nil, err
	}
	if store.totalSize > target {
		store.logger.Debug("existing cache contents exceed capacity",
			"total_size", store.totalSize, "capacity", target)
		if _, err := c.shrink(store.totalSize - target); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Add reserves size bytes for key and returns the absolute path to write the
// file to. An existing entry for key is deleted first, file included, and the
// new object is admitted against the resulting state.
//
// If the object cannot fit even in an empty cache, Add fails with
// ErrCapacityExceeded and tracks nothing under key. Otherwise entries are
// evicted in discard order until the new object fits.
func (c *SizeCache) Add(key string, size uint64) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	if _, err := c.store.remove(k); err != nil {
		return "", err
	}

	target, err := c.admit(k, size)
	if err != nil {
		return "", err
	}

	// size <= target here, so target-size cannot wrap.
	if limit := target - size; c.store.totalSize > limit {
		if _, err := c.shrink(c.store.totalSize - limit); err != nil {
			return "", err
		}
	}

	if c.store.totalSize > math.MaxUint64-size {
		c.store.stats.Rejections++
		return "", capacityExceeded(k, size, target)
	}

	return c.store.insert(k, size)
}

// admit evaluates the capacity policy and rejects objects larger than the
// whole budget.
func (c *SizeCache) admit(key string, size uint64) (uint64, error) {
	target, err := c.capacity.Capacity(c.store)
	if err != nil {
		return 0, err
	}
	if target == 0 || size > target {
		c.store.stats.Rejections++
		c.store.logger.Debug("rejected cache entry", "key", key, "size", size, "capacity", target)
		return 0, capacityExceeded(key, size, target)
	}
	return target, nil
}

// shrink evicts entries in discard order until the total size dropped by at
// least amount or the cache is empty. It returns the resulting total size.
func (c *SizeCache) shrink(amount uint64) (uint64, error) {
	var goal uint64
	if amount < c.store.totalSize {
		goal = c.store.totalSize - amount
	}

	for _, key := range c.discard.Order(c.store) {
		if c.store.totalSize <= goal {
			break
		}
		if _, err := c.store.evict(key, "size"); err != nil {
			return c.store.totalSize, err
		}
	}
	return c.store.totalSize, nil
}

// Hit records an access to key, refreshing its recency, frequency and file
// modification time. It returns false if key is not tracked.
func (c *SizeCache) Hit(key string) (bool, error) {
	return c.store.hit(key)
}

// Delete removes key and its file. It returns false if key is not tracked.
// A file that is already gone is not an error.
func (c *SizeCache) Delete(key string) (bool, error) {
	return c.store.delete(key)
}

// Rebuild replaces the bookkeeping with a scan of the root directory.
//
// Keys that were tracked keep their access history. Keys whose files are gone,
// or that predicate now rejects, are dropped; rejected files stay on disk.
// Rebuild does not evict, even if the scan finds more data than the budget.
func (c *SizeCache) Rebuild(predicate Predicate) error {
	return c.store.rebuild(predicate)
}

// Filepath returns the absolute path for key. It does not validate key or
// check that the file exists.
func (c *SizeCache) Filepath(key string) string {
	return c.store.filepath(key)
}

// Capacity returns the current budget in bytes.
func (c *SizeCache) Capacity() (uint64, error) {
	return c.capacity.Capacity(c.store)
}

// Root returns the absolute cache root.
func (c *SizeCache) Root() string { return c.store.root }

// Len returns the number of tracked entries.
func (c *SizeCache) Len() int { return c.store.Len() }

// TotalSize returns the sum of declared entry sizes.
func (c *SizeCache) TotalSize() uint64 { return c.store.totalSize }

// Entry returns a copy of the bookkeeping for key.
func (c *SizeCache) Entry(key string) (Entry, bool) { return c.store.entry(key) }

// Keys returns the tracked keys in lexical order.
func (c *SizeCache) Keys() []string { return c.store.keys() }

// Stats returns counters since construction.
func (c *SizeCache) Stats() Stats { return c.store.snapshot() }
