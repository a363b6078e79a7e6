package bridge

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sync/singleflight"

	"github.com/interop-lab/managed-go-bridge/pkg/foreign"
	"github.com/interop-lab/managed-go-bridge/pkg/util"
)

type staticFieldKey struct {
	class foreign.ClassHandle
	name  string
}

var (
	staticFields     sync.Map // staticFieldKey -> foreign.FieldHandle
	staticFieldGroup singleflight.Group
)

// ResolveStaticField resolves (class, name) to the runtime's field handle,
// memoized for the process lifetime. The runtime never redefines classes,
// so a resolved pair is stable; concurrent first resolutions are collapsed
// and every later lookup is a cache hit.
func ResolveStaticField(resolve ClassResolver, name string) (foreign.FieldHandle, error) {
	class := resolve()
	if class == nil {
		return nil, &ClassResolutionError{Target: "static field " + name}
	}
	key := staticFieldKey{class: class, name: name}
	if cached, ok := staticFields.Load(key); ok {
		return cached.(foreign.FieldHandle), nil
	}
	v, err, _ := staticFieldGroup.Do(fmt.Sprintf("%p/%s", class, name), func() (any, error) {
		rt := foreign.Current()
		field := rt.FindField(class, name)
		if field == nil {
			return nil, &FieldResolutionError{Class: rt.ClassName(class), Field: name}
		}
		staticFields.Store(key, field)
		util.Logger.Debugf("resolved static field %s.%s", rt.ClassName(class), name)
		return field, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(foreign.FieldHandle), nil
}

// GetStaticField reads a static field by name on the resolved class.
// Static storage is owned and positioned by the runtime, so the value
// moves through its static-field entry point rather than a raw offset.
func GetStaticField[T any](resolve ClassResolver, name string) (T, error) {
	var zero T
	field, err := ResolveStaticField(resolve, name)
	if err != nil {
		return zero, err
	}
	rt := foreign.Current()
	switch KindOf[T]() {
	case KindReference:
		var h foreign.ObjectHandle
		rt.FieldStaticGetValue(field, unsafe.Pointer(&h))
		return refFromHandle[T](h), nil
	case KindValue:
		var out T
		dst := any(&out).(inlineValue).InlineBytes()
		rt.FieldStaticGetValue(field, unsafe.Pointer(&dst[0]))
		return out, nil
	default:
		var out T
		rt.FieldStaticGetValue(field, unsafe.Pointer(&out))
		return out, nil
	}
}

// SetStaticField writes a static field by name on the resolved class.
func SetStaticField[T any](resolve ClassResolver, name string, value T) error {
	field, err := ResolveStaticField(resolve, name)
	if err != nil {
		return err
	}
	rt := foreign.Current()
	switch KindOf[T]() {
	case KindReference:
		h := any(value).(Convertible).Convert()
		rt.FieldStaticSetValue(field, unsafe.Pointer(&h))
	case KindValue:
		src := any(&value).(inlineValue).InlineBytes()
		rt.FieldStaticSetValue(field, unsafe.Pointer(&src[0]))
	default:
		rt.FieldStaticSetValue(field, unsafe.Pointer(&value))
	}
	return nil
}
