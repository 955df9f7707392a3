package rebase

import "github.com/synctreeio/synctree/revtag"

// ComposeAll is a convenience wrapper for the common case of composing a
// slice of already-tagged changes against a metadata view derived from
// that same slice.
func ComposeAll[C any](r Rebaser[C], changes []TaggedChange[C]) (C, error) {
	if len(changes) == 0 {
		return r.Empty(), nil
	}
	return r.Compose(changes, NewMetadata(changes))
}

// InvertRollback builds the rollback-tagged inverse of change, the
// operation the sandwich-rebase machinery in graph.RebaseBranch performs
// repeatedly.
func InvertRollback[C any](r Rebaser[C], change TaggedChange[C], metadata Metadata) (TaggedChange[C], error) {
	tag := revtag.Rollback(change.Revision)
	inv, err := r.Invert(change, true, tag, metadata)
	if err != nil {
		var zero TaggedChange[C]
		return zero, err
	}
	return TaggedRollback(tag, inv, change.Revision), nil
}
