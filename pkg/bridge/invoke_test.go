package bridge

import (
	"bytes"
	"errors"
	"testing"
	"unsafe"

	"github.com/interop-lab/managed-go-bridge/pkg/foreign"
)

func TestInvokeNilMethodPanics(t *testing.T) {
	newFake(t)
	defer func() {
		if recover() == nil {
			t.Fatal("invoke with nil method did not panic")
		}
	}()
	_, _ = Invoke[Void](nil, nil)
}

func TestInvokeNullReceiverFailsBeforeRuntimeCall(t *testing.T) {
	fake := newFake(t)
	class := fake.AddClass("Game", "Player", playerSize, false)
	method := fake.AddMethod(class, "TakeDamage", false, 1, nil)

	var p playerRef
	_, err := Invoke[Void](p, method, int32(10))
	var nullErr *NullAccessError
	if !errors.As(err, &nullErr) {
		t.Fatalf("invoke on nil receiver = %v, want NullAccessError", err)
	}
	if nullErr.Target != "Game.Player::TakeDamage" {
		t.Errorf("error names %q, want Game.Player::TakeDamage", nullErr.Target)
	}
	if fake.Calls.ReflectiveInvoke != 0 {
		t.Fatalf("runtime invoke entry point was reached %d times, want 0", fake.Calls.ReflectiveInvoke)
	}
}

func TestInvokeNullRawHandleReceiver(t *testing.T) {
	fake := newFake(t)
	class := fake.AddClass("Game", "Player", playerSize, false)
	method := fake.AddMethod(class, "TakeDamage", false, 1, nil)

	_, err := Invoke[Void](foreign.ObjectHandle(nil), method, int32(10))
	var nullErr *NullAccessError
	if !errors.As(err, &nullErr) {
		t.Fatalf("invoke on nil raw handle = %v, want NullAccessError", err)
	}
	if fake.Calls.ReflectiveInvoke != 0 {
		t.Fatal("runtime invoke entry point was reached for a nil raw handle")
	}
}

func TestInvokePointerReceiver(t *testing.T) {
	fake := newFake(t)
	class := fake.AddClass("Game", "Player", playerSize, false)
	method := fake.AddMethod(class, "TakeDamage", false, 1, nil)

	// A pointer to a nil-handle wrapper is just as null as the wrapper.
	_, err := Invoke[Void](&playerRef{}, method, int32(10))
	var nullErr *NullAccessError
	if !errors.As(err, &nullErr) {
		t.Fatalf("invoke on pointer to nil wrapper = %v, want NullAccessError", err)
	}
	if _, err := Invoke[Void]((*playerRef)(nil), method, int32(10)); !errors.As(err, &nullErr) {
		t.Fatalf("invoke on nil wrapper pointer = %v, want NullAccessError", err)
	}
	if fake.Calls.ReflectiveInvoke != 0 {
		t.Fatalf("runtime invoke entry point was reached %d times, want 0", fake.Calls.ReflectiveInvoke)
	}

	p := newPlayer(t, fake)
	if _, err := Invoke[Void](&p, method, int32(10)); err != nil {
		t.Fatalf("invoke on pointer to live wrapper: %v", err)
	}
	if fake.Calls.ReflectiveInvoke != 1 {
		t.Fatalf("live pointer receiver reached the runtime %d times, want 1", fake.Calls.ReflectiveInvoke)
	}
}

func TestInvokeDeadShadowedReceiver(t *testing.T) {
	fake := newFake(t)
	class := fake.AddClass("UnityEngine", "Behaviour", shadowedObjSize, false)
	method := fake.AddMethod(class, "Update", false, 0, nil)
	obj := unityRef{ShadowedObject: ShadowedObject{Object: NewObject(fake.NewObject(class))}}

	_, err := Invoke[Void](obj, method)
	var nullErr *NullAccessError
	if !errors.As(err, &nullErr) {
		t.Fatalf("invoke on dead shadowed receiver = %v, want NullAccessError", err)
	}
	if fake.Calls.ReflectiveInvoke != 0 {
		t.Fatal("runtime invoke entry point was reached for a dead receiver")
	}
}

func TestInvokeMarshalsArguments(t *testing.T) {
	fake := newFake(t)
	p := newPlayer(t, fake)
	other := newPlayer(t, fake)
	pos := vec3Of(1, 2, 3)

	var (
		gotRecv unsafe.Pointer
		gotArgs []unsafe.Pointer
	)
	class := fake.AddClass("Game", "Player", playerSize, false)
	method := fake.AddMethod(class, "MoveTo", false, 4, func(recv unsafe.Pointer, args []unsafe.Pointer) (foreign.ObjectHandle, foreign.ExceptionHandle) {
		gotRecv = recv
		gotArgs = args
		return nil, nil
	})

	_, err := Invoke[Void](p, method, pos, int32(-5), other, Null{})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if gotRecv != unsafe.Pointer(p.Convert()) {
		t.Errorf("receiver marshaled as %p, want %p", gotRecv, p.Convert())
	}
	if len(gotArgs) != 4 {
		t.Fatalf("marshaled %d args, want 4", len(gotArgs))
	}
	// Value kind: pointer to the inline payload.
	if got := unsafe.Slice((*byte)(gotArgs[0]), 12); !bytes.Equal(got, pos.InlineBytes()) {
		t.Errorf("value argument bytes %x, want %x", got, pos.InlineBytes())
	}
	// Trivial kind: pointer to a copy of the storage.
	if got := *(*int32)(gotArgs[1]); got != -5 {
		t.Errorf("trivial argument = %d, want -5", got)
	}
	// Reference kind: the raw handle itself.
	if gotArgs[2] != unsafe.Pointer(other.Convert()) {
		t.Errorf("reference argument %p, want %p", gotArgs[2], other.Convert())
	}
	// Null sentinel: nil.
	if gotArgs[3] != nil {
		t.Errorf("null argument marshaled as %p", gotArgs[3])
	}
}

func TestInvokeUnboxesBoxedValueArgument(t *testing.T) {
	fake := newFake(t)
	vecClass := fake.AddClass("UnityEngine", "Vector3", 12, true)
	RegisterClass[vec3](func() foreign.ClassHandle { return vecClass })
	p := newPlayer(t, fake)

	boxed, err := Box(vec3Of(7, 8, 9))
	if err != nil {
		t.Fatalf("Box: %v", err)
	}

	var gotArgs []unsafe.Pointer
	class := fake.AddClass("Game", "Player", playerSize, false)
	method := fake.AddMethod(class, "Warp", false, 1, func(_ unsafe.Pointer, args []unsafe.Pointer) (foreign.ObjectHandle, foreign.ExceptionHandle) {
		gotArgs = args
		return nil, nil
	})
	if _, err := Invoke[Void](p, method, boxed); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	want := vec3Of(7, 8, 9)
	if got := unsafe.Slice((*byte)(gotArgs[0]), 12); !bytes.Equal(got, want.InlineBytes()) {
		t.Errorf("boxed value argument was not unboxed: %x", got)
	}
}

func TestInvokeStaticIgnoresReceiver(t *testing.T) {
	fake := newFake(t)
	class := fake.AddClass("Game", "Player", playerSize, false)
	called := false
	method := fake.AddMethod(class, "SpawnAll", true, 0, func(recv unsafe.Pointer, _ []unsafe.Pointer) (foreign.ObjectHandle, foreign.ExceptionHandle) {
		called = true
		if recv != nil {
			t.Errorf("static call got receiver %p", recv)
		}
		return nil, nil
	})
	if _, err := Invoke[Void](nil, method); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !called {
		t.Fatal("static method was not invoked")
	}
}

func TestInvokeWrapsRuntimeException(t *testing.T) {
	fake := newFake(t)
	p := newPlayer(t, fake)
	class := fake.AddClass("Game", "Player", playerSize, false)
	exc := fake.NewException(foreign.ExceptionInfo{
		ClassName: "System.InvalidOperationException",
		Message:   "player already dead",
	})
	method := fake.AddMethod(class, "Kill", false, 0, func(unsafe.Pointer, []unsafe.Pointer) (foreign.ObjectHandle, foreign.ExceptionHandle) {
		return nil, exc
	})

	_, err := Invoke[Void](p, method)
	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("Invoke = %v, want InvocationError", err)
	}
	if invErr.Method != method {
		t.Errorf("error lost the method identity")
	}
	if invErr.Class != "Game.Player" || invErr.Name != "Kill" {
		t.Errorf("error identifies %s::%s", invErr.Class, invErr.Name)
	}
	if invErr.Info.Message != "player already dead" {
		t.Errorf("decoded message %q", invErr.Info.Message)
	}
}

func TestInvokeValueReturnIsUnboxedAndFreed(t *testing.T) {
	fake := newFake(t)
	vecClass := fake.AddClass("UnityEngine", "Vector3", 12, true)
	RegisterClass[vec3](func() foreign.ClassHandle { return vecClass })
	p := newPlayer(t, fake)

	want := vec3Of(10, 20, 30)
	var boxedRet foreign.ObjectHandle
	class := fake.AddClass("Game", "Player", playerSize, false)
	method := fake.AddMethod(class, "Position", false, 0, func(unsafe.Pointer, []unsafe.Pointer) (foreign.ObjectHandle, foreign.ExceptionHandle) {
		b := want.InlineBytes()
		boxedRet = fake.ValueBox(vecClass, unsafe.Pointer(&b[0]))
		return boxedRet, nil
	})

	got, err := Invoke[vec3](p, method)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !bytes.Equal(got.InlineBytes(), want.InlineBytes()) {
		t.Errorf("returned payload %x, want %x", got.InlineBytes(), want.InlineBytes())
	}
	if !fake.Freed(boxedRet) {
		t.Error("temporary box for the value return was not released")
	}
}

func TestInvokeBoxedTrivialReturn(t *testing.T) {
	fake := newFake(t)
	intClass := fake.AddClass("System", "Int32", 4, true)
	p := newPlayer(t, fake)

	class := fake.AddClass("Game", "Player", playerSize, false)
	var boxedRet foreign.ObjectHandle
	method := fake.AddMethod(class, "Health", false, 0, func(unsafe.Pointer, []unsafe.Pointer) (foreign.ObjectHandle, foreign.ExceptionHandle) {
		v := int32(99)
		boxedRet = fake.ValueBox(intClass, unsafe.Pointer(&v))
		return boxedRet, nil
	})

	got, err := Invoke[int32](p, method)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got != 99 {
		t.Errorf("got %d, want 99", got)
	}
	if !fake.Freed(boxedRet) {
		t.Error("temporary box for the trivial return was not released")
	}
}

func TestInvokeReferenceReturn(t *testing.T) {
	fake := newFake(t)
	p := newPlayer(t, fake)
	other := newPlayer(t, fake)

	class := fake.AddClass("Game", "Player", playerSize, false)
	method := fake.AddMethod(class, "Target", false, 0, func(unsafe.Pointer, []unsafe.Pointer) (foreign.ObjectHandle, foreign.ExceptionHandle) {
		return other.Convert(), nil
	})

	got, err := Invoke[playerRef](p, method)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got.Convert() != other.Convert() {
		t.Errorf("returned wrapper holds %p, want %p", got.Convert(), other.Convert())
	}
}

func TestInvokeValueReceiver(t *testing.T) {
	fake := newFake(t)
	vecClass := fake.AddClass("UnityEngine", "Vector3", 12, true)

	recv := vec3Of(5, 5, 5)
	var gotRecv unsafe.Pointer
	method := fake.AddMethod(vecClass, "Magnitude", false, 0, func(r unsafe.Pointer, _ []unsafe.Pointer) (foreign.ObjectHandle, foreign.ExceptionHandle) {
		gotRecv = r
		return nil, nil
	})
	if _, err := Invoke[Void](recv, method); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	want := vec3Of(5, 5, 5)
	if got := unsafe.Slice((*byte)(gotRecv), 12); !bytes.Equal(got, want.InlineBytes()) {
		t.Errorf("value receiver bytes %x", got)
	}
}

