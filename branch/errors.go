package branch

import "errors"

// ErrBranchDisposed is returned by every mutating operation on a branch
// after Dispose has been called (spec.md §7).
var ErrBranchDisposed = errors.New("branch: mutation after dispose")
