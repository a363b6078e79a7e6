package bridge

import (
	"fmt"

	"github.com/interop-lab/managed-go-bridge/pkg/foreign"
)

// ClassResolutionError reports that a class resolver produced a nil handle:
// the runtime is not initialized yet or the type does not exist.
type ClassResolutionError struct {
	// Target names what needed the class: a static field, a registered
	// caller type.
	Target string
}

func (e *ClassResolutionError) Error() string {
	return fmt.Sprintf("bridge: class for %s resolved to nil", e.Target)
}

// FieldResolutionError reports a field name that does not exist on an
// otherwise valid class.
type FieldResolutionError struct {
	Class string
	Field string
}

func (e *FieldResolutionError) Error() string {
	return fmt.Sprintf("bridge: field %s not found on %s", e.Field, e.Class)
}

// NullAccessError reports a field access or instance method call against a
// nil or logically dead reference. Only raised when liveness checks are
// compiled in.
type NullAccessError struct {
	Op     string // "get field", "set field", "invoke"
	Target string // method identity or field position
}

func (e *NullAccessError) Error() string {
	return fmt.Sprintf("bridge: %s on nil or dead instance: %s", e.Op, e.Target)
}

// InvocationError wraps an exception the runtime raised during a
// reflective call, together with the identity of the method being invoked.
type InvocationError struct {
	Method  foreign.MethodHandle
	Class   string
	Name    string
	Payload []byte
	Info    foreign.ExceptionInfo
}

func (e *InvocationError) Error() string {
	detail := e.Info.String()
	if detail == "" {
		detail = fmt.Sprintf("opaque exception payload (%d bytes)", len(e.Payload))
	}
	return fmt.Sprintf("bridge: %s::%s threw: %s", e.Class, e.Name, detail)
}

func newInvocationError(rt foreign.Runtime, method foreign.MethodHandle, exc foreign.ExceptionHandle) *InvocationError {
	err := &InvocationError{
		Method:  method,
		Class:   rt.ClassName(rt.MethodDeclaringClass(method)),
		Name:    rt.MethodName(method),
		Payload: rt.ExceptionPayload(exc),
	}
	// Keep the raw payload either way; an undecodable payload still names
	// the method in Error.
	if info, derr := foreign.DecodeExceptionInfo(err.Payload); derr == nil {
		err.Info = info
	}
	return err
}

func methodFullName(rt foreign.Runtime, method foreign.MethodHandle) string {
	return rt.ClassName(rt.MethodDeclaringClass(method)) + "::" + rt.MethodName(method)
}
