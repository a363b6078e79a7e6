// Package foreigntest provides an in-memory implementation of
// foreign.Runtime backed by Go allocations, with call counters on every
// entry point so tests can assert what crossed the boundary.
package foreigntest

import (
	"sync"
	"unsafe"

	"github.com/interop-lab/managed-go-bridge/pkg/foreign"
)

// InvokeFunc is the scripted behavior of a fake method. A non-nil exception
// handle reports a throw.
type InvokeFunc func(receiver unsafe.Pointer, args []unsafe.Pointer) (foreign.ObjectHandle, foreign.ExceptionHandle)

// Calls counts entry-point invocations.
type Calls struct {
	Initialize       int
	FindField        int
	StaticGet        int
	StaticSet        int
	GCWriteBarrier   int
	ValueBox         int
	ObjectUnbox      int
	ReflectiveInvoke int
	GCFree           int
}

type classInfo struct {
	namespace string
	name      string
	size      uintptr
	valueType bool
	fields    []*fieldInfo
}

type fieldInfo struct {
	owner   *classInfo
	name    string
	storage []byte
}

type methodInfo struct {
	owner      *classInfo
	name       string
	static     bool
	paramCount int
	fn         InvokeFunc
}

type excInfo struct {
	payload []byte
}

type object struct {
	mem   []byte
	class *classInfo
}

// Fake is a scriptable foreign.Runtime. The zero value is not usable; call
// New.
type Fake struct {
	mu      sync.Mutex
	classes []*classInfo
	objects map[foreign.ObjectHandle]*object
	freed   map[foreign.ObjectHandle]bool

	Calls Calls
}

var _ foreign.Runtime = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		objects: make(map[foreign.ObjectHandle]*object),
		freed:   make(map[foreign.ObjectHandle]bool),
	}
}

// AddClass registers a class and returns its handle.
func (f *Fake) AddClass(namespace, name string, size uintptr, valueType bool) foreign.ClassHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	ci := &classInfo{namespace: namespace, name: name, size: size, valueType: valueType}
	f.classes = append(f.classes, ci)
	return foreign.ClassHandle(unsafe.Pointer(ci))
}

// AddStaticField registers a static field with its own backing storage.
func (f *Fake) AddStaticField(class foreign.ClassHandle, name string, size uintptr) foreign.FieldHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	ci := (*classInfo)(unsafe.Pointer(class))
	fi := &fieldInfo{owner: ci, name: name, storage: make([]byte, size)}
	ci.fields = append(ci.fields, fi)
	return foreign.FieldHandle(unsafe.Pointer(fi))
}

// AddMethod registers a method with scripted behavior.
func (f *Fake) AddMethod(class foreign.ClassHandle, name string, static bool, paramCount int, fn InvokeFunc) foreign.MethodHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	mi := &methodInfo{
		owner:      (*classInfo)(unsafe.Pointer(class)),
		name:       name,
		static:     static,
		paramCount: paramCount,
		fn:         fn,
	}
	return foreign.MethodHandle(unsafe.Pointer(mi))
}

// NewObject allocates a zeroed instance of class and returns its handle.
func (f *Fake) NewObject(class foreign.ClassHandle) foreign.ObjectHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.newObjectLocked((*classInfo)(unsafe.Pointer(class)))
}

func (f *Fake) newObjectLocked(ci *classInfo) foreign.ObjectHandle {
	size := ci.size
	if size == 0 {
		size = 1
	}
	obj := &object{mem: make([]byte, size), class: ci}
	h := foreign.ObjectHandle(unsafe.Pointer(&obj.mem[0]))
	f.objects[h] = obj
	return h
}

// ObjectBytes exposes an object's raw memory for test assertions.
func (f *Fake) ObjectBytes(h foreign.ObjectHandle) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[h].mem
}

// NewException builds an exception handle whose payload encodes info.
func (f *Fake) NewException(info foreign.ExceptionInfo) foreign.ExceptionHandle {
	payload, err := foreign.EncodeExceptionInfo(info)
	if err != nil {
		panic(err)
	}
	return foreign.ExceptionHandle(unsafe.Pointer(&excInfo{payload: payload}))
}

// Freed reports whether GCFree was called on h.
func (f *Fake) Freed(h foreign.ObjectHandle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.freed[h]
}

func (f *Fake) Initialize() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls.Initialize++
}

func (f *Fake) ClassGetByName(namespace, name string) foreign.ClassHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ci := range f.classes {
		if ci.namespace == namespace && ci.name == name {
			return foreign.ClassHandle(unsafe.Pointer(ci))
		}
	}
	return nil
}

func (f *Fake) ClassName(class foreign.ClassHandle) string {
	ci := (*classInfo)(unsafe.Pointer(class))
	if ci.namespace == "" {
		return ci.name
	}
	return ci.namespace + "." + ci.name
}

func (f *Fake) ClassInstanceSize(class foreign.ClassHandle) uintptr {
	return (*classInfo)(unsafe.Pointer(class)).size
}

func (f *Fake) ClassIsValueType(class foreign.ClassHandle) bool {
	return (*classInfo)(unsafe.Pointer(class)).valueType
}

func (f *Fake) FindField(class foreign.ClassHandle, name string) foreign.FieldHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls.FindField++
	ci := (*classInfo)(unsafe.Pointer(class))
	for _, fi := range ci.fields {
		if fi.name == name {
			return foreign.FieldHandle(unsafe.Pointer(fi))
		}
	}
	return nil
}

func (f *Fake) FieldStaticGetValue(field foreign.FieldHandle, out unsafe.Pointer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls.StaticGet++
	fi := (*fieldInfo)(unsafe.Pointer(field))
	copy(unsafe.Slice((*byte)(out), len(fi.storage)), fi.storage)
}

func (f *Fake) FieldStaticSetValue(field foreign.FieldHandle, in unsafe.Pointer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls.StaticSet++
	fi := (*fieldInfo)(unsafe.Pointer(field))
	copy(fi.storage, unsafe.Slice((*byte)(in), len(fi.storage)))
}

func (f *Fake) GCWriteBarrierSet(obj foreign.ObjectHandle, slot unsafe.Pointer, value foreign.ObjectHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls.GCWriteBarrier++
	*(*foreign.ObjectHandle)(slot) = value
}

func (f *Fake) ValueBox(class foreign.ClassHandle, raw unsafe.Pointer) foreign.ObjectHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls.ValueBox++
	ci := (*classInfo)(unsafe.Pointer(class))
	h := f.newObjectLocked(ci)
	copy(f.objects[h].mem, unsafe.Slice((*byte)(raw), ci.size))
	return h
}

func (f *Fake) ObjectUnbox(obj foreign.ObjectHandle) unsafe.Pointer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls.ObjectUnbox++
	return unsafe.Pointer(obj)
}

func (f *Fake) ObjectGetClass(obj foreign.ObjectHandle) foreign.ClassHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.objects[obj]
	if !ok {
		return nil
	}
	return foreign.ClassHandle(unsafe.Pointer(o.class))
}

func (f *Fake) MethodName(method foreign.MethodHandle) string {
	return (*methodInfo)(unsafe.Pointer(method)).name
}

func (f *Fake) MethodDeclaringClass(method foreign.MethodHandle) foreign.ClassHandle {
	return foreign.ClassHandle(unsafe.Pointer((*methodInfo)(unsafe.Pointer(method)).owner))
}

func (f *Fake) MethodIsStatic(method foreign.MethodHandle) bool {
	return (*methodInfo)(unsafe.Pointer(method)).static
}

func (f *Fake) MethodParameterCount(method foreign.MethodHandle) int {
	return (*methodInfo)(unsafe.Pointer(method)).paramCount
}

func (f *Fake) ReflectiveInvoke(method foreign.MethodHandle, receiver unsafe.Pointer, args []unsafe.Pointer) (foreign.ObjectHandle, foreign.ExceptionHandle) {
	f.mu.Lock()
	f.Calls.ReflectiveInvoke++
	mi := (*methodInfo)(unsafe.Pointer(method))
	f.mu.Unlock()
	if mi.fn == nil {
		return nil, nil
	}
	return mi.fn(receiver, args)
}

func (f *Fake) ExceptionPayload(exc foreign.ExceptionHandle) []byte {
	return (*excInfo)(unsafe.Pointer(exc)).payload
}

func (f *Fake) GCFree(obj foreign.ObjectHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls.GCFree++
	f.freed[obj] = true
}
