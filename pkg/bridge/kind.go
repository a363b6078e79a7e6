// Package bridge is the typed access layer over the foreign managed
// runtime: it classifies caller types, reads and writes fields at
// runtime-reported offsets, boxes and unboxes values, and invokes methods
// through the runtime's reflection entry point.
package bridge

import (
	"reflect"
	"sync"

	"github.com/interop-lab/managed-go-bridge/pkg/foreign"
	"github.com/interop-lab/managed-go-bridge/pkg/util"
)

// Kind classifies how a caller type maps onto the runtime's object model.
type Kind uint8

const (
	// KindTrivial types are plain data, copied by their raw bytes.
	KindTrivial Kind = iota
	// KindReference types wrap a heap object handle and have identity.
	KindReference
	// KindValue types carry an inline byte payload sized to the
	// runtime-reported instance size, copied by value.
	KindValue
)

func (k Kind) String() string {
	switch k {
	case KindReference:
		return "reference"
	case KindValue:
		return "value"
	default:
		return "trivial"
	}
}

// Convertible is anything that can hand out the raw object handle it wraps.
type Convertible interface {
	Convert() foreign.ObjectHandle
}

// refWrapper is the full reference shape: convertible to a handle and
// re-wrappable around one. Satisfied by pointers to types embedding Object.
type refWrapper interface {
	Convertible
	Wrap(foreign.ObjectHandle)
}

// inlineValue is the value shape: a fixed-size inline byte payload.
// Satisfied by pointers to types embedding Inline.
type inlineValue interface {
	InlineBytes() []byte
}

var (
	kindOverrides        sync.Map // type key -> Kind
	genericKindOverrides sync.Map // generic key -> Kind
)

// RegisterKind pins the classification of t, overriding the shape probes.
// Intended for foreign types that cannot expose the full shape yet.
func RegisterKind(t reflect.Type, k Kind) {
	kindOverrides.Store(util.TypeKey(t), k)
	util.Logger.Debugf("kind override: %s -> %s", util.TypeKey(t), k)
}

// RegisterKindFor is RegisterKind for a statically known type.
func RegisterKindFor[T any](k Kind) {
	RegisterKind(reflect.TypeOf((*T)(nil)).Elem(), k)
}

// RegisterGenericKind pins the classification of every instantiation of the
// generic type named by key (see util.GenericKey).
func RegisterGenericKind(key string, k Kind) {
	genericKindOverrides.Store(key, k)
}

func lookupOverride(t reflect.Type) (Kind, bool) {
	if t.Name() == "" {
		return 0, false
	}
	if v, ok := kindOverrides.Load(util.TypeKey(t)); ok {
		return v.(Kind), true
	}
	if util.IsInstantiatedGeneric(t) {
		if v, ok := genericKindOverrides.Load(util.GenericKey(t)); ok {
			return v.(Kind), true
		}
	}
	return 0, false
}

// KindOf classifies T. Overrides win; otherwise the shape of *T decides:
// reference wrappers first, inline values second, anything else is trivial.
func KindOf[T any]() Kind {
	probe := (*T)(nil)
	return kindFor(reflect.TypeOf(probe).Elem(), any(probe))
}

// KindOfValue classifies a value whose static type is unknown, as during
// argument marshaling. A nil interface is trivial.
func KindOfValue(a any) Kind {
	t := reflect.TypeOf(a)
	if t == nil {
		return KindTrivial
	}
	return kindFor(t, reflect.New(t).Interface())
}

// kindFor expects probe to be a (possibly nil) *T so pointer-receiver
// methods participate in the shape checks.
func kindFor(t reflect.Type, probe any) Kind {
	if k, ok := lookupOverride(t); ok {
		return k
	}
	switch probe.(type) {
	case refWrapper:
		return KindReference
	case inlineValue:
		return KindValue
	}
	return KindTrivial
}

// reportedSize is the byte size the runtime expects for T's inline
// representation: the inline payload length for value kinds, the Go size
// otherwise.
func reportedSize[T any]() uintptr {
	var v T
	if iv, ok := any(&v).(inlineValue); ok {
		return uintptr(len(iv.InlineBytes()))
	}
	return reflect.TypeOf(&v).Elem().Size()
}
