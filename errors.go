package diskcache

import (
	"github.com/jmgilman/go/diskcache/internal/diskspace"
	"github.com/jmgilman/go/errors"
)

// ErrCapacityExceeded is returned by Add when the object can never fit in the
// current budget, regardless of eviction.
var ErrCapacityExceeded = errors.New(errors.CodeConflict, "object exceeds cache capacity")

// ErrPlatformUnsupported is returned by the KeepFree policy when the host OS
// has no free space query.
var ErrPlatformUnsupported = diskspace.ErrUnsupported

// ErrInvalidPath is returned for a cache root or key that cannot name a
// location under the root.
var ErrInvalidPath = errors.New(errors.CodeInvalidInput, "invalid cache path")

func capacityExceeded(key string, size, capacity uint64) error {
	return errors.WrapWithContext(ErrCapacityExceeded, errors.CodeConflict,
		"cannot add "+key, map[string]interface{}{
			"key":      key,
			"size":     size,
			"capacity": capacity,
		})
}

func invalidPath(path, reason string) error {
	return errors.WithContext(errors.Wrapf(ErrInvalidPath, errors.CodeInvalidInput, "%q %s", path, reason), "path", path)
}
