package rebase

import "errors"

// ErrNotApplicable is returned when a change is presented against a state
// whose context it does not match (spec.md §7). Per spec.md §7 this is the
// one error kind the core itself may recover from, during speculative
// rebase attempts inside the exhaustive axiom suite; in production use it
// signals a bug in the field-kind implementation.
var ErrNotApplicable = errors.New("rebase: change not applicable to this context")

// ErrIncompatibleRevisions is returned when the RevisionMetadata supplied
// to Rebase does not contain an entry for a revision the change or the
// rebase path references.
var ErrIncompatibleRevisions = errors.New("rebase: metadata missing referenced revision")
