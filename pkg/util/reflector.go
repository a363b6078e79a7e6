package util

import (
	"reflect"
	"strings"
)

// TypeKey returns the stable registry key for a concrete type.
func TypeKey(t reflect.Type) string {
	return t.PkgPath() + "." + t.Name()
}

// GenericKey strips the instantiation arguments from an instantiated
// generic type's key, so Container[X] and Container[Y] share one key.
// Non-generic types return their key unchanged.
func GenericKey(t reflect.Type) string {
	key := TypeKey(t)
	bracket := strings.IndexByte(key, '[')
	if bracket != -1 {
		key = key[:bracket]
	}
	return key
}

// IsInstantiatedGeneric reports whether t names an instantiation of a
// generic type (its reflect name carries type arguments).
func IsInstantiatedGeneric(t reflect.Type) bool {
	return strings.IndexByte(t.Name(), '[') != -1
}
