package bridge

import (
	"fmt"
	"reflect"
	"runtime"
	"unsafe"

	"github.com/interop-lab/managed-go-bridge/pkg/foreign"
)

// Invoke calls method on receiver through the runtime's reflective entry
// point and unmarshals the result as TOut (use Void to discard it).
//
// The receiver may be a reference wrapper, a raw handle, an unsafe.Pointer
// to value storage, or nil for static methods. Arguments marshal by kind:
// references contribute their handle, value kinds a pointer to their
// inline bytes, trivial kinds a pointer to a copy of their storage, and
// Null a nil handle. A runtime exception surfaces as *InvocationError and
// is never swallowed.
func Invoke[TOut any](receiver any, method foreign.MethodHandle, args ...any) (TOut, error) {
	var zero TOut
	if method == nil {
		// Generated code never produces a nil method handle; this is a
		// precondition failure, not a recoverable condition.
		panic("bridge: invoke with nil method handle")
	}
	rt := foreign.Current()

	// The runtime has no defined failure mode for reflective calls on a
	// nil receiver, so the check has to happen on this side of the
	// boundary.
	if livenessChecksEnabled && !rt.MethodIsStatic(method) {
		if refShaped, live := checkReceiver(receiver); refShaped && !live {
			return zero, &NullAccessError{Op: "invoke", Target: methodFullName(rt, method)}
		}
	}

	recv, recvHolder := extractReceiver(rt, receiver)

	ptrs := make([]unsafe.Pointer, len(args))
	holders := make([]any, 0, len(args)+1)
	holders = append(holders, recvHolder)
	for i, a := range args {
		p, holder := extractArg(rt, a)
		ptrs[i] = p
		holders = append(holders, holder)
	}

	if typeChecksEnabled {
		if err := checkSignature(rt, method, len(args)); err != nil {
			return zero, err
		}
	}

	ret, exc := rt.ReflectiveInvoke(method, recv, ptrs)
	runtime.KeepAlive(holders)

	if exc != nil {
		return zero, newInvocationError(rt, method, exc)
	}
	return unmarshalResult[TOut](rt, ret)
}

// checkReceiver reports whether receiver names a runtime object at all
// (refShaped) and, if so, whether that object is live. Raw handles and
// convertible wrappers are reference-shaped; pointers are followed so a
// *T receiver gets the same check as T. Value storage and nil interfaces
// are not reference-shaped and pass through unchecked.
func checkReceiver(receiver any) (refShaped, live bool) {
	switch r := receiver.(type) {
	case foreign.ObjectHandle:
		return true, r != nil
	case Convertible:
		if v := reflect.ValueOf(r); v.Kind() == reflect.Pointer && v.IsNil() {
			return true, false
		}
		return true, IsLive(r)
	}
	if v := reflect.ValueOf(receiver); v.Kind() == reflect.Pointer {
		if v.IsNil() {
			_, convertible := reflect.New(v.Type().Elem()).Interface().(Convertible)
			return convertible, !convertible
		}
		return checkReceiver(v.Elem().Interface())
	}
	return false, true
}

// extractReceiver produces the raw receiver pointer for a reflective call.
// The holder keeps any temporary copy reachable until after the call.
func extractReceiver(rt foreign.Runtime, receiver any) (unsafe.Pointer, any) {
	switch r := receiver.(type) {
	case nil:
		return nil, nil
	case Null:
		return nil, nil
	case unsafe.Pointer:
		return r, nil
	case foreign.ObjectHandle:
		return maybeUnboxHandle(rt, r), nil
	case Convertible:
		return unsafe.Pointer(r.Convert()), nil
	}
	// Value-kind or trivial receiver passed by value: call on a copy.
	cp := reflect.New(reflect.TypeOf(receiver))
	cp.Elem().Set(reflect.ValueOf(receiver))
	if iv, ok := cp.Interface().(inlineValue); ok {
		b := iv.InlineBytes()
		return unsafe.Pointer(&b[0]), cp
	}
	return cp.UnsafePointer(), cp
}

// extractArg marshals one argument into the pointer the runtime expects.
func extractArg(rt foreign.Runtime, a any) (unsafe.Pointer, any) {
	switch v := a.(type) {
	case nil:
		return nil, nil
	case Null:
		return nil, nil
	case unsafe.Pointer:
		return v, nil
	case foreign.ObjectHandle:
		return maybeUnboxHandle(rt, v), nil
	case Convertible:
		return unsafe.Pointer(v.Convert()), nil
	}
	cp := reflect.New(reflect.TypeOf(a))
	cp.Elem().Set(reflect.ValueOf(a))
	if iv, ok := cp.Interface().(inlineValue); ok {
		b := iv.InlineBytes()
		return unsafe.Pointer(&b[0]), cp
	}
	return cp.UnsafePointer(), cp
}

// maybeUnboxHandle unwraps a raw handle that turns out to hold a boxed
// value type, since the runtime expects the payload pointer for those.
func maybeUnboxHandle(rt foreign.Runtime, h foreign.ObjectHandle) unsafe.Pointer {
	if h == nil {
		return nil
	}
	if class := rt.ObjectGetClass(h); class != nil && rt.ClassIsValueType(class) {
		return rt.ObjectUnbox(h)
	}
	return unsafe.Pointer(h)
}

func checkSignature(rt foreign.Runtime, method foreign.MethodHandle, argc int) error {
	if want := rt.MethodParameterCount(method); want != argc {
		return fmt.Errorf("bridge: %s declares %d parameters, invoked with %d",
			methodFullName(rt, method), want, argc)
	}
	return nil
}

func unmarshalResult[TOut any](rt foreign.Runtime, ret foreign.ObjectHandle) (TOut, error) {
	var out TOut
	if _, discard := any(out).(Void); discard {
		return out, nil
	}
	switch KindOf[TOut]() {
	case KindValue:
		if ret == nil {
			return out, nil
		}
		// Value returns come back boxed; copy out and release the
		// temporary box.
		out = Unbox[TOut](ret)
		rt.GCFree(ret)
		return out, nil
	case KindReference:
		return refFromHandle[TOut](ret), nil
	default:
		if ret != nil {
			if class := rt.ObjectGetClass(ret); class != nil && rt.ClassIsValueType(class) {
				out = Unbox[TOut](ret)
				rt.GCFree(ret)
				return out, nil
			}
		}
		// Plain pointer-width result: reinterpret the returned word.
		src := unsafe.Slice((*byte)(unsafe.Pointer(&ret)), unsafe.Sizeof(ret))
		dst := unsafe.Slice((*byte)(unsafe.Pointer(&out)), unsafe.Sizeof(out))
		copy(dst, src)
		return out, nil
	}
}
