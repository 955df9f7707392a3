package editmgr

import "errors"

// ErrUnknownReferenceSequenceNumber is returned when a peer commit names a
// referenceSequenceNumber that no trunk commit carries. Trunk entries are
// never pruned; only peer branches are.
var ErrUnknownReferenceSequenceNumber = errors.New("editmgr: unknown reference sequence number")
