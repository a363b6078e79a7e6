package bridge

import (
	"reflect"
	"unsafe"

	"github.com/interop-lab/managed-go-bridge/pkg/foreign"
	"github.com/interop-lab/managed-go-bridge/pkg/util"
)

// Object is the canonical reference wrapper. Generated reference types
// embed it and inherit the reference shape.
type Object struct {
	instance foreign.ObjectHandle
}

// NewObject wraps a raw handle. h may be nil.
func NewObject(h foreign.ObjectHandle) Object {
	return Object{instance: h}
}

func (o Object) Convert() foreign.ObjectHandle { return o.instance }

// Wrap rebinds the wrapper to h. Generated code reaches this through
// embedding when constructing wrappers from returned handles.
func (o *Object) Wrap(h foreign.ObjectHandle) { o.instance = h }

func (o Object) IsNil() bool { return o.instance == nil }

// NativeShadowed marks reference types whose instances embed a native
// shadow pointer. Their liveness requires that slot to be non-nil too.
type NativeShadowed interface {
	HasNativeShadow()
}

// ShadowedObject is Object for types carrying a native shadow pointer.
type ShadowedObject struct {
	Object
}

func (ShadowedObject) HasNativeShadow() {}

// Interface wraps an interface-typed slot. Interfaces hold references,
// including boxed value types, so the wrapper is reference-shaped.
type Interface struct {
	Object
}

// InterfaceOf boxes a value-kind v into an Interface; reference kinds wrap
// their handle directly.
func InterfaceOf[T any](v T) (Interface, error) {
	h, err := Box(v)
	if err != nil {
		return Interface{}, err
	}
	return Interface{Object: NewObject(h)}, nil
}

// Ptr wraps a raw pointer to T for signatures that take unmanaged
// pointers. It is neither reference- nor value-kind.
type Ptr[T any] struct {
	instance unsafe.Pointer
}

func PtrTo[T any](p *T) Ptr[T] {
	return Ptr[T]{instance: unsafe.Pointer(p)}
}

func (p Ptr[T]) Convert() foreign.ObjectHandle { return foreign.ObjectHandle(p.instance) }

func (p Ptr[T]) Get() *T { return (*T)(p.instance) }

func (p Ptr[T]) IsNil() bool { return p.instance == nil }

// Null marshals as a nil argument regardless of the parameter type.
type Null struct{}

// Void is the TOut of an invocation whose result is discarded.
type Void struct{}

func init() {
	// Ptr instantiations hold their pointer inline and must never be
	// treated as references despite being convertible.
	RegisterGenericKind(util.GenericKey(reflect.TypeOf(Ptr[int]{})), KindTrivial)
}

// refFromHandle builds a reference-kind T around h. T must be re-wrappable,
// which every type embedding Object is.
func refFromHandle[T any](h foreign.ObjectHandle) T {
	var out T
	any(&out).(refWrapper).Wrap(h)
	return out
}
