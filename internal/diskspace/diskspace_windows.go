//go:build windows

package diskspace

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// FreeBytes returns the number of bytes available to the calling user on the
// volume containing path.
func FreeBytes(path string) (uint64, error) {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, fmt.Errorf("invalid path %q: %w", path, err)
	}

	var available, total, free uint64
	if err := windows.GetDiskFreeSpaceEx(name, &available, &total, &free); err != nil {
		return 0, fmt.Errorf("failed to query free space for %q: %w", path, err)
	}
	return available, nil
}
