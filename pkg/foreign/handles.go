// Package foreign defines the call surface of the external managed-object
// runtime: opaque handles for its objects, classes, fields and methods, the
// entry points the bridge calls through, and the payload format it reports
// thrown exceptions in. The runtime owns every handle's lifetime; nothing in
// this module allocates or frees them.
package foreign

import "unsafe"

// ObjectHandle identifies a heap object owned by the runtime. May be nil.
type ObjectHandle unsafe.Pointer

// ClassHandle identifies a class in the runtime's metadata.
type ClassHandle unsafe.Pointer

// FieldHandle identifies a resolved field of a class.
type FieldHandle unsafe.Pointer

// MethodHandle identifies a method in the runtime's metadata. Supplied by
// generated code; never resolved by this module.
type MethodHandle unsafe.Pointer

// ExceptionHandle identifies an exception object raised inside the runtime.
type ExceptionHandle unsafe.Pointer

// ShadowPointerOffset is the byte offset of the native shadow pointer inside
// runtime objects that carry one. Such objects can be destroyed on the native
// side while the managed handle stays non-nil; the shadow slot reads nil then.
const ShadowPointerOffset = 0x10

// ShadowPointer reads the native shadow slot of h. Callers must have
// established that h's type carries one.
func ShadowPointer(h ObjectHandle) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Add(unsafe.Pointer(h), ShadowPointerOffset))
}
