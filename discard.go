package diskcache

import "sort"

// DiscardPolicy ranks the entries of a cache for eviction, first victim first.
// Implementations must not modify anything.
type DiscardPolicy interface {
	Order(v View) []string
}

// RecencyOrder returns the LRU policy: oldest LastAccessed first.
func RecencyOrder() DiscardPolicy {
	return recencyOrder{}
}

// FrequencyOrder returns the LFU policy: lowest AccessCount first, with equal
// counts ordered oldest LastAccessed first.
func FrequencyOrder() DiscardPolicy {
	return frequencyOrder{}
}

type candidate struct {
	key   string
	entry Entry
}

func collect(v View) []candidate {
	candidates := make([]candidate, 0, v.Len())
	v.Range(func(key string, entry Entry) bool {
		candidates = append(candidates, candidate{key: key, entry: entry})
		return true
	})
	return candidates
}

func keysOf(candidates []candidate) []string {
	keys := make([]string, len(candidates))
	for i, c := range candidates {
		keys[i] = c.key
	}
	return keys
}

// olderThan orders by LastAccessed, then key.
func olderThan(a, b candidate) bool {
	if !a.entry.LastAccessed.Equal(b.entry.LastAccessed) {
		return a.entry.LastAccessed.Before(b.entry.LastAccessed)
	}
	return a.key < b.key
}

type recencyOrder struct{}

func (recencyOrder) Order(v View) []string {
	candidates := collect(v)
	sort.Slice(candidates, func(i, j int) bool {
		return olderThan(candidates[i], candidates[j])
	})
	return keysOf(candidates)
}

type frequencyOrder struct{}

func (frequencyOrder) Order(v View) []string {
	candidates := collect(v)
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.entry.AccessCount != b.entry.AccessCount {
			return a.entry.AccessCount < b.entry.AccessCount
		}
		return olderThan(a, b)
	})
	return keysOf(candidates)
}
