package diskcache

import (
	"strings"

	"github.com/jmgilman/go/errors"
	"gopkg.in/yaml.v3"
)

// Discard policy names accepted in Config.
const (
	PolicyLRU = "lru"
	PolicyLFU = "lfu"
)

// Config describes a cache in a form embedding tools can load from YAML.
//
// Exactly one budget must be set: MaxBytes (constant byte budget),
// KeepFreeBytes (free space floor) or MaxEntries (opens a CountCache).
//
//	root: /var/cache/tool
//	policy: lfu
//	keep_free_bytes: 5368709120
type Config struct {
	Root          string  `yaml:"root"`
	Policy        string  `yaml:"policy"`
	MaxBytes      *uint64 `yaml:"max_bytes,omitempty"`
	KeepFreeBytes *uint64 `yaml:"keep_free_bytes,omitempty"`
	MaxEntries    *int    `yaml:"max_entries,omitempty"`
}

// ParseConfig decodes and validates a YAML cache description.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse cache config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the config names a root, a known policy and exactly
// one budget.
func (c *Config) Validate() error {
	if c.Root == "" {
		return errors.New(errors.CodeInvalidConfig, "cache root is required")
	}

	if _, err := c.DiscardPolicy(); err != nil {
		return err
	}

	budgets := 0
	for _, set := range []bool{c.MaxBytes != nil, c.KeepFreeBytes != nil, c.MaxEntries != nil} {
		if set {
			budgets++
		}
	}
	if budgets != 1 {
		return errors.Newf(errors.CodeInvalidConfig,
			"exactly one of max_bytes, keep_free_bytes or max_entries must be set (got %d)", budgets)
	}
	return nil
}

// DiscardPolicy returns the policy named by Policy. An empty name selects LRU.
func (c *Config) DiscardPolicy() (DiscardPolicy, error) {
	switch strings.ToLower(c.Policy) {
	case "", PolicyLRU:
		return RecencyOrder(), nil
	case PolicyLFU:
		return FrequencyOrder(), nil
	default:
		return nil, errors.WithContext(
			errors.Newf(errors.CodeInvalidConfig, "unknown discard policy %q", c.Policy),
			"policy", c.Policy)
	}
}

// Open validates the config and opens the cache it describes.
func (c *Config) Open(opts ...Option) (Cache, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	discard, err := c.DiscardPolicy()
	if err != nil {
		return nil, err
	}

	if c.MaxEntries != nil {
		cache, err := NewCountCache(c.Root, *c.MaxEntries, discard, opts...)
		if err != nil {
			return nil, err
		}
		return cache, nil
	}

	capacity := ConstantBudget(0)
	switch {
	case c.KeepFreeBytes != nil:
		capacity = KeepFree(*c.KeepFreeBytes)
	case c.MaxBytes != nil:
		capacity = ConstantBudget(*c.MaxBytes)
	}

	cache, err := NewSizeCache(c.Root, capacity, discard, opts...)
	if err != nil {
		return nil, err
	}
	return cache, nil
}
