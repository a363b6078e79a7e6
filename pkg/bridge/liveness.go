package bridge

import "github.com/interop-lab/managed-go-bridge/pkg/foreign"

// IsLive reports whether inst is safe to dereference: its handle is
// non-nil, and for types carrying a native shadow pointer, that slot is
// non-nil as well. A shadowed object goes logically dead when its native
// counterpart is destroyed even though the managed handle survives.
func IsLive(inst Convertible) bool {
	h := inst.Convert()
	if h == nil {
		return false
	}
	if _, shadowed := inst.(NativeShadowed); shadowed {
		return foreign.ShadowPointer(h) != nil
	}
	return true
}
