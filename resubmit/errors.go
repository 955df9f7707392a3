package resubmit

import "errors"

// ErrResupplyFailed wraps whatever error a host's ResupplyFunc returns
// while rebuilding a rebased commit's current form.
var ErrResupplyFailed = errors.New("resubmit: resupply failed")
