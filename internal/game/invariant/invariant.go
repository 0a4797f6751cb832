// Package invariant guards conditions that can only fail through a programming defect.
//
// Under `go test` a violated invariant panics so the defect surfaces loudly.
// In production builds the check is a no-op and callers clamp defensively.
package invariant

import "testing"

// Check panics with msg when cond is false and the binary is a test binary.
func Check(cond bool, msg string) {
	if !cond && testing.Testing() {
		panic("invariant violated: " + msg)
	}
}
