//go:build bridge_typechecks

package bridge

// Invocations additionally check the argument list against the method's
// declared signature.
const typeChecksEnabled = true
