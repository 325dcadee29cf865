package diskcache

import (
	"io/fs"
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v5"
)

const defaultDirMode fs.FileMode = 0o755

// Option configures cache construction.
type Option func(*options)

type options struct {
	fs        billy.Filesystem // nil selects the local filesystem
	predicate Predicate
	logger    *slog.Logger
	now       func() time.Time
	dirMode   fs.FileMode
}

func buildOptions(opts []Option) *options {
	o := &options{
		now:     time.Now,
		dirMode: defaultDirMode,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// WithFilesystem sets the billy filesystem used for all cache I/O.
// Paths passed to it are absolute. If not provided, the cache uses the local
// filesystem rooted at "/".
//
// Example:
//
//	c, err := diskcache.NewCountCache("/cache", 100, diskcache.RecencyOrder(),
//	    diskcache.WithFilesystem(memfs.New()))
func WithFilesystem(fs billy.Filesystem) Option {
	return func(opts *options) {
		opts.fs = fs
	}
}

// WithPredicate limits the construction-time scan to keys accepted by p.
// Files whose keys are rejected stay on disk but are not tracked.
func WithPredicate(p Predicate) Option {
	return func(opts *options) {
		opts.predicate = p
	}
}

// WithLogger sets the logger for eviction and rebuild events.
// Defaults to a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithClock sets the time source used to stamp accesses.
func WithClock(now func() time.Time) Option {
	return func(opts *options) {
		if now != nil {
			opts.now = now
		}
	}
}

// WithDirMode sets the permission bits for directories the cache creates.
func WithDirMode(mode fs.FileMode) Option {
	return func(opts *options) {
		opts.dirMode = mode
	}
}
