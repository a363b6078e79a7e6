//go:build bridge_nonullchecks

package bridge

const livenessChecksEnabled = false
