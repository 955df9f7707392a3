package rebase

import "github.com/synctreeio/synctree/revtag"

// TaggedChange pairs a changeset with the identity of the commit it
// belongs to (spec.md §3.2). RollbackOf is set when the change is the
// inverse generated during a sandwich rebase and must not be mistaken for
// a user-authored edit with the same effect.
type TaggedChange[C any] struct {
	Revision   revtag.Tag
	Change     C
	RollbackOf revtag.Tag
	isRollback bool
}

// Tagged builds a TaggedChange with no rollback provenance.
func Tagged[C any](revision revtag.Tag, change C) TaggedChange[C] {
	return TaggedChange[C]{Revision: revision, Change: change}
}

// TaggedRollback builds a TaggedChange recording that it inverts of.
func TaggedRollback[C any](revision revtag.Tag, change C, of revtag.Tag) TaggedChange[C] {
	return TaggedChange[C]{Revision: revision, Change: change, RollbackOf: of, isRollback: true}
}

// IsRollback reports whether this change was built by TaggedRollback.
func (t TaggedChange[C]) IsRollback() bool {
	return t.isRollback
}
