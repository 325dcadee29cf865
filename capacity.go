package diskcache

import (
	"fmt"

	"github.com/jmgilman/go/diskcache/internal/diskspace"
	"github.com/jmgilman/go/errors"
)

// CapacityPolicy computes the byte budget of a SizeCache from its current
// state. Implementations must not modify anything.
type CapacityPolicy interface {
	Capacity(v View) (uint64, error)
}

// SpaceProbe reports the free bytes on the filesystem containing a path.
type SpaceProbe interface {
	FreeBytes(path string) (uint64, error)
}

// SpaceProbeFunc adapts a function to the SpaceProbe interface.
type SpaceProbeFunc func(path string) (uint64, error)

// FreeBytes calls f(path).
func (f SpaceProbeFunc) FreeBytes(path string) (uint64, error) {
	return f(path)
}

// ConstantBudget returns a policy with a fixed budget of n bytes.
// A zero budget evicts everything and rejects every Add.
func ConstantBudget(n uint64) CapacityPolicy {
	return constantBudget(n)
}

type constantBudget uint64

func (b constantBudget) Capacity(View) (uint64, error) {
	return uint64(b), nil
}

// KeepFree returns a policy that sizes the cache so at least n bytes stay
// free on the filesystem holding the cache root. The budget is recomputed on
// every call because free space changes underneath the cache.
//
// The policy fails with ErrPlatformUnsupported where the host OS has no free
// space query.
func KeepFree(n uint64) CapacityPolicy {
	return KeepFreeUsing(n, SpaceProbeFunc(diskspace.FreeBytes))
}

// KeepFreeUsing is KeepFree with a custom free space probe.
func KeepFreeUsing(n uint64, probe SpaceProbe) CapacityPolicy {
	return &keepFree{floor: n, probe: probe}
}

type keepFree struct {
	floor uint64
	probe SpaceProbe
}

// Capacity returns free + total - floor, clamped to zero.
func (k *keepFree) Capacity(v View) (uint64, error) {
	free, err := k.probe.FreeBytes(v.Root())
	if err != nil {
		if errors.Is(err, ErrPlatformUnsupported) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to query free space: %w", err)
	}

	usable := free + v.TotalSize()
	if usable < free {
		usable = ^uint64(0)
	}
	if usable <= k.floor {
		return 0, nil
	}
	return usable - k.floor, nil
}
