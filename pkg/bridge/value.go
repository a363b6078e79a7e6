package bridge

import (
	"unsafe"

	"github.com/interop-lab/managed-go-bridge/pkg/foreign"
)

// Inline is the backing storage of a value-kind caller type. A is a byte
// array sized exactly to the runtime-reported instance size of the logical
// type; generated value types embed Inline[[N]byte].
type Inline[A any] struct {
	instance A
}

// InlineOf builds the storage from raw bytes.
func InlineOf[A any](raw A) Inline[A] {
	return Inline[A]{instance: raw}
}

// InlineBytes exposes the payload for byte-for-byte copies. The slice
// aliases the receiver; it must not outlive it.
func (v *Inline[A]) InlineBytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&v.instance)), unsafe.Sizeof(v.instance))
}

// AssertSizeOf verifies that T's Go-side representation matches the size
// the runtime reports for its class. Generated code calls this per type
// when size checks are compiled in; without the class registration the
// oracle is unavailable and the check is skipped.
func AssertSizeOf[T any]() {
	if !offsetChecksEnabled {
		return
	}
	class, err := ClassOf[T]()
	if err != nil {
		return
	}
	want := foreign.Current().ClassInstanceSize(class)
	if got := reportedSize[T](); got != want {
		panic(&BoundsViolation{
			What:         typeName[T]() + " size",
			InstanceSize: want,
			ValueSize:    got,
		})
	}
}
