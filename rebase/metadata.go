package rebase

import "github.com/synctreeio/synctree/revtag"

// Metadata is the read-only view Rebase receives alongside the change
// being transformed (spec.md §4.2): for every revision mentioned in that
// change or in the rebase path, its rollback-of relationship (if any) and
// its ordinal position in the composed base.
type Metadata interface {
	// RollbackOf returns the tag a given revision inverts, and true, or
	// the zero Tag and false if it is not a rollback.
	RollbackOf(revision revtag.Tag) (revtag.Tag, bool)
	// Index returns the zero-based ordinal position of revision within
	// the composed base the rebase path represents, and true; false if
	// revision is not part of that path.
	Index(revision revtag.Tag) (int, bool)
	// Revisions lists every revision this view has an opinion about, in
	// ordinal order.
	Revisions() []revtag.Tag
}

type entry struct {
	rollbackOf revtag.Tag
	hasRB      bool
}

// metadata is the concrete Metadata built by NewMetadata.
type metadata struct {
	order   []revtag.Tag
	indexOf map[revtag.Tag]int
	entries map[revtag.Tag]entry
}

// NewMetadata derives a Metadata view from the ordered list of tagged
// changes making up a rebase path, as spec.md §4.2 requires implementers
// to do.
func NewMetadata[C any](path []TaggedChange[C]) Metadata {
	m := &metadata{
		indexOf: make(map[revtag.Tag]int, len(path)),
		entries: make(map[revtag.Tag]entry, len(path)),
	}
	for i, tc := range path {
		m.order = append(m.order, tc.Revision)
		m.indexOf[tc.Revision] = i
		if tc.IsRollback() {
			m.entries[tc.Revision] = entry{rollbackOf: tc.RollbackOf, hasRB: true}
		}
	}
	return m
}

func (m *metadata) RollbackOf(revision revtag.Tag) (revtag.Tag, bool) {
	e, ok := m.entries[revision]
	if !ok || !e.hasRB {
		return revtag.Tag{}, false
	}
	return e.rollbackOf, true
}

func (m *metadata) Index(revision revtag.Tag) (int, bool) {
	i, ok := m.indexOf[revision]
	return i, ok
}

func (m *metadata) Revisions() []revtag.Tag {
	return append([]revtag.Tag(nil), m.order...)
}
