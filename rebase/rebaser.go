// Package rebase defines the change algebra at the bottom of synctree
// (spec.md §4.1): a ChangeRebaser[C] supplies compose, invert, and rebase
// for an opaque changeset type C, plus the anchor-rebasing and
// revision-inlining hooks the rest of the module needs to build on top of
// it. Everything above this package (graph, branch, editmgr, enrich,
// resubmit) is generic in C and depends only on this contract.
package rebase

import "github.com/synctreeio/synctree/revtag"

// Rebaser is the capability-bearing object spec.md §9 describes: the core
// does not require virtual dispatch on C itself, only on the Rebaser
// supplied alongside it.
type Rebaser[C any] interface {
	// Compose combines changes left to right: applying the result has
	// the same effect as applying each change in order. Compose of an
	// empty slice must return Empty().
	Compose(changes []TaggedChange[C], metadata Metadata) (C, error)

	// Invert produces change's semantic inverse. When isRollback is
	// true, the result is intended to undo an edit never observed by
	// peers (a sandwich-rebase rollback); when false, it is a
	// user-undoable inverse that participates as a regular edit.
	Invert(change TaggedChange[C], isRollback bool, revision revtag.Tag, metadata Metadata) (C, error)

	// Rebase transports change across over: the result, applied after
	// over, produces the effect change intended relative to the state
	// before over.
	Rebase(change TaggedChange[C], over TaggedChange[C], metadata Metadata) (C, error)

	// RebaseAnchors updates an opaque, host-owned anchor set in place
	// for the given rebase step. The core treats anchors as entirely
	// out of scope beyond invoking this hook.
	RebaseAnchors(anchors any, over TaggedChange[C])

	// ChangeRevision inlines a revision tag (and, when hasRollback is
	// true, rollback-of provenance) into a change that was built with
	// placeholder identity.
	ChangeRevision(change C, newRevision revtag.Tag, rollbackOf revtag.Tag, hasRollback bool) C

	// Empty returns the two-sided identity of Compose.
	Empty() C

	// IsEmpty reports whether change is (behaviourally) the empty
	// change, used by the L3/L5 axioms.
	IsEmpty(change C) bool
}

// EquivalenceChecker is an optional capability a Rebaser may also
// implement: a stricter behavioural-equivalence hook
// (assertChangesetsEquivalent in spec.md §4.1). Equivalent uses it when
// present. Axioms does not consult it: Axioms compares results with its
// own Equal field only.
type EquivalenceChecker[C any] interface {
	Equivalent(a, b C) bool
}

// Equivalent compares a and b using r's EquivalenceChecker hook if it
// implements one, else structural equality via the comparer supplied by
// the caller (most concrete field kinds are comparable with ==, but C is
// any, so callers pass a fallback).
func Equivalent[C any](r Rebaser[C], a, b C, fallback func(a, b C) bool) bool {
	if eq, ok := r.(EquivalenceChecker[C]); ok {
		return eq.Equivalent(a, b)
	}
	return fallback(a, b)
}
