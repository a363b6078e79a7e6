package bridge

import (
	"fmt"

	"github.com/interop-lab/managed-go-bridge/pkg/foreign"
)

// OffsetInBounds reports whether a field of valueSize bytes at offset fits
// inside a declaring instance of instanceSize bytes. Both the offset and
// its end must lie within the instance.
func OffsetInBounds(instanceSize, offset, valueSize uintptr) bool {
	return offset <= instanceSize && offset+valueSize <= instanceSize
}

// BoundsViolation describes an offset or size assertion failure. Offsets
// come from code generation; a violation is a generator bug, so it is
// raised as a panic, never returned.
type BoundsViolation struct {
	What         string
	InstanceSize uintptr
	Offset       uintptr
	ValueSize    uintptr
}

func (v *BoundsViolation) Error() string {
	return fmt.Sprintf("bridge: %s out of bounds: offset 0x%x + size 0x%x exceeds instance size 0x%x",
		v.What, v.Offset, v.ValueSize, v.InstanceSize)
}

func assertOffset(instanceSize, offset, valueSize uintptr, what string) {
	if !OffsetInBounds(instanceSize, offset, valueSize) {
		panic(&BoundsViolation{
			What:         what,
			InstanceSize: instanceSize,
			Offset:       offset,
			ValueSize:    valueSize,
		})
	}
}

// assertInstanceFieldBounds asserts a field access against the instance
// size the runtime reports for h's class. Without a class the size oracle
// is unavailable and the access is let through.
func assertInstanceFieldBounds[T any](rt foreign.Runtime, h foreign.ObjectHandle, offset uintptr) {
	class := rt.ObjectGetClass(h)
	if class == nil {
		return
	}
	assertOffset(rt.ClassInstanceSize(class), offset, reportedSize[T](), "field of "+rt.ClassName(class))
}
