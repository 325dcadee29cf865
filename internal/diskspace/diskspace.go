// Package diskspace queries the free space available on the filesystem that
// contains a given path.
//
// The query is a single blocking syscall. Platforms without a supported call
// return ErrUnsupported from FreeBytes.
package diskspace

import "github.com/jmgilman/go/errors"

// ErrUnsupported is returned by FreeBytes when the host OS exposes no free
// space query.
var ErrUnsupported = errors.New(errors.CodeNotImplemented, "free space query is not supported on this platform")
