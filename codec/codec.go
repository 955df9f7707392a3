// Package codec implements the rebase plug-in contract's wire half
// (spec.md §6.1): a Codec[C] a host supplies alongside its Rebaser[C], and
// the EncodeContext every encode/decode call carries. The core only
// depends on the contract; it never encodes or decodes anything itself
// (the trunk chain is persisted by the host's summarizer, per spec.md
// §6.4). The shape mirrors the teacher's own two-sided marshaling split
// (db/commit.go's MarshalNoms/UnmarshalNoms pairs, threaded through an
// explicit types.ValueReadWriter) generalized from a concrete noms struct
// to an arbitrary changeset type C.
package codec

import (
	"github.com/synctreeio/synctree/revtag"
)

// EncodeContext carries everything a Codec needs beyond the raw change:
// the originator session id (for id-compressor normalization), the
// change's own revision, and an IDCompressor handle for tag
// normalization across session boundaries (spec.md §6.1).
type EncodeContext struct {
	OriginatorSessionID string
	Revision             revtag.Tag
	Compressor           IDCompressor
}

// IDCompressor normalizes session-local short identifiers into globally
// stable ones on encode, and reverses that mapping on decode. A host
// typically backs this with a per-document compressor keyed by session;
// synctree only depends on the two methods.
type IDCompressor interface {
	Normalize(sessionID string, localID uint64) (revtag.Tag, error)
	Denormalize(tag revtag.Tag) (sessionID string, localID uint64, err error)
}

// Codec is the host-supplied encode/decode pair a rebaser's changes round-
// trip through (spec.md §6.1). Decode must accept exactly what the
// matching Encode produced, for any change produced by Compose, Invert or
// Rebase -- a codec that cannot round-trip a rebased change is a host bug,
// not a recoverable synctree error (spec.md §7, CodecMismatch).
type Codec[C any] interface {
	Encode(change C, ctx EncodeContext) ([]byte, error)
	Decode(data []byte, ctx EncodeContext) (C, error)
}

// codecMismatchError is the CodecMismatch error kind (spec.md §7), returned
// by a Codec implementation's Decode when the payload does not match what
// Encode could have produced.
type codecMismatchError struct{ msg string }

func (e *codecMismatchError) Error() string { return e.msg }

// NewCodecMismatch builds the CodecMismatch error kind for a Codec
// implementation to return from Decode.
func NewCodecMismatch(msg string) error { return &codecMismatchError{msg: msg} }
