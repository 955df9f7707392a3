// Package revtag implements RevisionTag: the opaque, cheaply-comparable
// identity the rest of synctree attaches to a commit (spec.md §3.1). It is
// backed by attic-labs/noms's content-addressed hash.Hash, the same type
// the teacher used throughout db/commit.go to identify commits, plus
// google/uuid for minting fresh tags before a commit has been content
// addressed.
package revtag

import (
	"encoding/binary"

	"github.com/attic-labs/noms/go/hash"
	"github.com/google/uuid"
)

// Tag is an opaque revision identifier. The zero value is identical to
// Root, the distinguished sentinel; use New to mint a fresh one.
type Tag struct {
	h          hash.Hash
	rollbackOf *Tag
}

// Root is the distinguished revision of a freshly created document's
// genesis commit (spec.md §3.3: "well-known sentinel revision, no
// parent"). Its Bytes are the same for every session; this package has
// no function that rebuilds a Tag from Bytes.
var Root = Tag{h: hash.Hash{}}

// New mints a fresh, globally unique tag for a locally authored commit.
func New() Tag {
	id := uuid.New()
	var seq [4]byte
	binary.BigEndian.PutUint32(seq[:], 0)
	return Tag{h: hash.Of(append(id[:], seq[:]...))}
}

// Rollback returns a tag that records it is the rollback inverse of of,
// distinguishing it (per spec.md §3.2) from a user-authored change with
// the same semantic effect: a rollback tag is never itself versioned as a
// user intention.
func Rollback(of Tag) Tag {
	t := New()
	o := of
	t.rollbackOf = &o
	return t
}

// IsRoot reports whether t is the sentinel root revision.
func (t Tag) IsRoot() bool { return t.h == Root.h }

// IsRollback reports whether t was produced by Rollback.
func (t Tag) IsRollback() bool { return t.rollbackOf != nil }

// RollbackOf returns the tag t inverts and true, or the zero Tag and false
// if t is not a rollback tag.
func (t Tag) RollbackOf() (Tag, bool) {
	if t.rollbackOf == nil {
		return Tag{}, false
	}
	return *t.rollbackOf, true
}

// Equal reports whether two tags have the same identity. Rollback
// provenance is metadata, not part of identity: two tags with the same
// underlying hash are equal regardless of rollbackOf.
func (t Tag) Equal(o Tag) bool {
	return t.h == o.h
}

func (t Tag) String() string {
	if t.IsRoot() {
		return "root"
	}
	return t.h.String()
}

// FromBytes derives a Tag deterministically by hashing arbitrary bytes.
// It does not invert Bytes: FromBytes(t.Bytes()) is a different tag
// from t.
func FromBytes(b []byte) Tag {
	return Tag{h: hash.Of(b)}
}

// Bytes returns the stable byte representation of the tag's identity (its
// underlying hash); rollback provenance is not included.
func (t Tag) Bytes() []byte {
	return t.h[:]
}
