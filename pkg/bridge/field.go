package bridge

import (
	"fmt"
	"unsafe"

	"github.com/interop-lab/managed-go-bridge/pkg/foreign"
)

// GetField reads the field of type T at offset inside the referenced
// instance. Reference fields wrap the stored handle, value fields copy
// their reported size, trivial fields copy their Go size.
func GetField[T any](inst Convertible, offset uintptr) (T, error) {
	var zero T
	if livenessChecksEnabled && !IsLive(inst) {
		return zero, &NullAccessError{Op: "get field", Target: fmt.Sprintf("offset 0x%x", offset)}
	}
	h := inst.Convert()
	if offsetChecksEnabled {
		assertInstanceFieldBounds[T](foreign.Current(), h, offset)
	}
	return loadField[T](unsafe.Add(unsafe.Pointer(h), offset)), nil
}

// SetField writes the field of type T at offset inside the referenced
// instance. Reference stores go through the runtime's GC write barrier so
// the collector sees the new edge as part of the store.
func SetField[T any](inst Convertible, offset uintptr, value T) error {
	if livenessChecksEnabled && !IsLive(inst) {
		return &NullAccessError{Op: "set field", Target: fmt.Sprintf("offset 0x%x", offset)}
	}
	h := inst.Convert()
	if offsetChecksEnabled {
		assertInstanceFieldBounds[T](foreign.Current(), h, offset)
	}
	slot := unsafe.Add(unsafe.Pointer(h), offset)
	if KindOf[T]() == KindReference {
		foreign.Current().GCWriteBarrierSet(h, slot, any(value).(Convertible).Convert())
		return nil
	}
	storeField(slot, value)
	return nil
}

// GetValueField reads the field of type T at offset inside a value-kind
// instance's inline storage.
func GetValueField[T any](storage []byte, offset uintptr) T {
	if offsetChecksEnabled {
		assertOffset(uintptr(len(storage)), offset, reportedSize[T](), "value field")
	}
	return loadField[T](unsafe.Pointer(&storage[offset]))
}

// SetValueField writes the field of type T at offset inside a value-kind
// instance's inline storage. Value instances are untracked memory, so
// reference stores are plain handle stores with no write barrier.
func SetValueField[T any](storage []byte, offset uintptr, value T) {
	if offsetChecksEnabled {
		assertOffset(uintptr(len(storage)), offset, reportedSize[T](), "value field")
	}
	slot := unsafe.Pointer(&storage[offset])
	if KindOf[T]() == KindReference {
		*(*foreign.ObjectHandle)(slot) = any(value).(Convertible).Convert()
		return
	}
	storeField(slot, value)
}

func loadField[T any](p unsafe.Pointer) T {
	switch KindOf[T]() {
	case KindReference:
		return refFromHandle[T](*(*foreign.ObjectHandle)(p))
	case KindValue:
		var out T
		dst := any(&out).(inlineValue).InlineBytes()
		copy(dst, unsafe.Slice((*byte)(p), len(dst)))
		return out
	default:
		return *(*T)(p)
	}
}

// storeField handles the value and trivial kinds; reference stores differ
// between tracked and untracked destinations and stay with the callers.
func storeField[T any](slot unsafe.Pointer, value T) {
	if iv, ok := any(&value).(inlineValue); ok {
		src := iv.InlineBytes()
		copy(unsafe.Slice((*byte)(slot), len(src)), src)
		return
	}
	*(*T)(slot) = value
}
