package foreign

import (
	"sync/atomic"
	"unsafe"

	"github.com/interop-lab/managed-go-bridge/pkg/util"
)

// Runtime is the set of entry points the bridge needs from the managed
// runtime. A production implementation binds these to the runtime's C ABI;
// tests install an in-memory double.
type Runtime interface {
	// Initialize bootstraps the runtime. Idempotent; callable before any
	// other entry point.
	Initialize()

	ClassGetByName(namespace, name string) ClassHandle
	ClassName(class ClassHandle) string
	ClassInstanceSize(class ClassHandle) uintptr
	ClassIsValueType(class ClassHandle) bool

	FindField(class ClassHandle, name string) FieldHandle
	FieldStaticGetValue(field FieldHandle, out unsafe.Pointer)
	FieldStaticSetValue(field FieldHandle, in unsafe.Pointer)

	// GCWriteBarrierSet stores value into the given field slot of obj and
	// registers the store with the collector in one operation.
	GCWriteBarrierSet(obj ObjectHandle, slot unsafe.Pointer, value ObjectHandle)

	ValueBox(class ClassHandle, raw unsafe.Pointer) ObjectHandle
	ObjectUnbox(obj ObjectHandle) unsafe.Pointer
	ObjectGetClass(obj ObjectHandle) ClassHandle

	MethodName(method MethodHandle) string
	MethodDeclaringClass(method MethodHandle) ClassHandle
	MethodIsStatic(method MethodHandle) bool
	MethodParameterCount(method MethodHandle) int

	// ReflectiveInvoke calls method on receiver with the marshaled argument
	// pointers. A non-nil exception handle means the call threw; the result
	// handle is meaningless then.
	ReflectiveInvoke(method MethodHandle, receiver unsafe.Pointer, args []unsafe.Pointer) (ObjectHandle, ExceptionHandle)

	// ExceptionPayload returns the msgpack-encoded ExceptionInfo describing
	// a raised exception.
	ExceptionPayload(exc ExceptionHandle) []byte

	// GCFree releases a temporary object this module asked the runtime to
	// create, such as the box holding a value-typed invoke result.
	GCFree(obj ObjectHandle)
}

var current atomic.Pointer[Runtime]

// Use installs rt as the process-wide runtime and initializes it. Later
// calls replace the previous runtime; tests rely on that.
func Use(rt Runtime) {
	rt.Initialize()
	current.Store(&rt)
	util.Logger.Debugf("foreign runtime installed: %T", rt)
}

// Current returns the installed runtime. Panics if Use was never called,
// since every bridge operation is meaningless without one.
func Current() Runtime {
	p := current.Load()
	if p == nil {
		panic("foreign: no runtime installed; call foreign.Use first")
	}
	return *p
}

// Installed reports whether a runtime has been installed.
func Installed() bool {
	return current.Load() != nil
}
