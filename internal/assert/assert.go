// Package assert holds invariant checks for conditions that indicate a bug
// in this module rather than a recoverable runtime error. It mirrors the
// chk.Fail helper the teacher lineage used to guard commit invariants.
package assert

import "fmt"

// Fail panics with a formatted message. Use it only for violations of
// invariants this package itself is responsible for maintaining (e.g. a
// commit with an unexpected number of parents) -- never for host input.
func Fail(format string, args ...interface{}) {
	panic(fmt.Sprintf("synctree: invariant violation: "+format, args...))
}

// True fails unless cond holds.
func True(cond bool, format string, args ...interface{}) {
	if !cond {
		Fail(format, args...)
	}
}
