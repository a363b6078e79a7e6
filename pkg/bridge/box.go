package bridge

import (
	"unsafe"

	"github.com/interop-lab/managed-go-bridge/pkg/foreign"
)

// Box turns v into a heap handle. Raw handles and reference kinds pass
// through unchanged; value and trivial kinds have their bytes boxed
// against T's registered class.
func Box[T any](v T) (foreign.ObjectHandle, error) {
	if h, ok := any(v).(foreign.ObjectHandle); ok {
		return h, nil
	}
	switch KindOf[T]() {
	case KindReference:
		return any(v).(Convertible).Convert(), nil
	case KindValue:
		class, err := ClassOf[T]()
		if err != nil {
			return nil, err
		}
		src := any(&v).(inlineValue).InlineBytes()
		return foreign.Current().ValueBox(class, unsafe.Pointer(&src[0])), nil
	default:
		class, err := ClassOf[T]()
		if err != nil {
			return nil, err
		}
		return foreign.Current().ValueBox(class, unsafe.Pointer(&v)), nil
	}
}

// Unbox reads T back out of a boxed handle. Reference kinds wrap the
// handle without copying; value kinds copy their reported size out of the
// box payload; trivial kinds copy their Go size. Supplying a T that does
// not match the handle's runtime type is the caller's bug, mirroring the
// runtime's own unchecked unbox.
func Unbox[T any](h foreign.ObjectHandle) T {
	switch KindOf[T]() {
	case KindReference:
		return refFromHandle[T](h)
	case KindValue:
		var out T
		dst := any(&out).(inlineValue).InlineBytes()
		src := foreign.Current().ObjectUnbox(h)
		copy(dst, unsafe.Slice((*byte)(src), len(dst)))
		return out
	default:
		return *(*T)(foreign.Current().ObjectUnbox(h))
	}
}
