//go:build !(linux || darwin || freebsd || dragonfly || windows)

package diskspace

// FreeBytes always fails with ErrUnsupported on this platform.
func FreeBytes(_ string) (uint64, error) {
	return 0, ErrUnsupported
}
