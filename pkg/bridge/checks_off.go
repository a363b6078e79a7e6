//go:build !bridge_offsetchecks

package bridge

// Offset and size assertions are compiled out unless the
// bridge_offsetchecks tag is set.
const offsetChecksEnabled = false
