// Package diskcache manages a directory of cached files under a byte or
// entry-count budget.
//
// # Overview
//
// A cache owns a root directory. Every file below the root is an entry,
// identified by its slash-separated path relative to the root (the key). The
// cache keeps per-entry bookkeeping (declared size, last access time, access
// count) and evicts entries whenever a new addition would exceed the budget.
//
// Two variants share the same entry store:
//
//   - SizeCache bounds the sum of entry sizes. The budget comes from a
//     CapacityPolicy: ConstantBudget or KeepFree.
//   - CountCache bounds the number of entries.
//
// Eviction order comes from a DiscardPolicy: RecencyOrder (LRU) or
// FrequencyOrder (LFU, ties broken by recency).
//
// # Usage
//
// The cache never writes file contents. Add reserves space and returns the
// destination path; the caller writes the file:
//
//	c, err := diskcache.NewSizeCache("/var/cache/tool",
//	    diskcache.ConstantBudget(10<<30), diskcache.RecencyOrder())
//	if err != nil {
//	    return err
//	}
//
//	path, err := c.Add("artifacts/v1.2.3.tar.gz", uint64(len(data)))
//	if err != nil {
//	    return err
//	}
//	if err := os.WriteFile(path, data, 0o644); err != nil {
//	    return err
//	}
//
//	// Later, on reuse:
//	if ok, _ := c.Hit("artifacts/v1.2.3.tar.gz"); ok {
//	    data, err = os.ReadFile(c.Filepath("artifacts/v1.2.3.tar.gz"))
//	}
//
// # State
//
// There is no index file. Construction scans the root and rebuilds the
// bookkeeping from file sizes and modification times, and Hit updates file
// modification times so recency survives restarts. Construction evicts files
// when the existing contents exceed the budget.
//
// # Concurrency
//
// Caches hold no locks. Callers that share an instance between goroutines
// must serialize access, and two instances must never manage the same root.
package diskcache
