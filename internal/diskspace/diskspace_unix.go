//go:build linux || darwin || freebsd || dragonfly

package diskspace

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FreeBytes returns the number of bytes available to an unprivileged caller
// on the filesystem containing path.
func FreeBytes(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("failed to stat filesystem %q: %w", path, err)
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil //nolint:gosec,unconvert // field types differ per platform
}
