//go:build bridge_offsetchecks

package bridge

// Development builds: every field access asserts its offset and size
// against the declaring instance before touching memory.
const offsetChecksEnabled = true
