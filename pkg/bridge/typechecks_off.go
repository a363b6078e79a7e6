//go:build !bridge_typechecks

package bridge

const typeChecksEnabled = false
