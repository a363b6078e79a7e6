//go:build !bridge_nonullchecks

package bridge

// Liveness checks are on by default; the bridge_nonullchecks tag removes
// them entirely for release builds.
const livenessChecksEnabled = true
