package bridge

import (
	"reflect"
	"sync"

	"github.com/interop-lab/managed-go-bridge/pkg/foreign"
	"github.com/interop-lab/managed-go-bridge/pkg/util"
)

// ClassResolver produces the class handle a caller type is bound to. It
// returns nil while the runtime cannot supply the class yet.
type ClassResolver func() foreign.ClassHandle

// ResolveClass builds a resolver for a (namespace, name) pair.
func ResolveClass(namespace, name string) ClassResolver {
	return func() foreign.ClassHandle {
		return foreign.Current().ClassGetByName(namespace, name)
	}
}

var (
	classResolvers sync.Map // type key -> ClassResolver
	classCache     sync.Map // type key -> foreign.ClassHandle
)

// RegisterClass binds T to its runtime class. Generated code registers
// every emitted type once at init.
func RegisterClass[T any](resolve ClassResolver) {
	classResolvers.Store(typeKeyOf[T](), resolve)
}

// ClassOf resolves and memoizes the class handle bound to T. Classes are
// never redefined, so the first successful resolution holds for the
// process lifetime.
func ClassOf[T any]() (foreign.ClassHandle, error) {
	key := typeKeyOf[T]()
	if cached, ok := classCache.Load(key); ok {
		return cached.(foreign.ClassHandle), nil
	}
	r, ok := classResolvers.Load(key)
	if !ok {
		return nil, &ClassResolutionError{Target: "unregistered type " + key}
	}
	class := r.(ClassResolver)()
	if class == nil {
		return nil, &ClassResolutionError{Target: "type " + key}
	}
	classCache.Store(key, class)
	return class, nil
}

func typeKeyOf[T any]() string {
	return util.TypeKey(reflect.TypeOf((*T)(nil)).Elem())
}

func typeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
