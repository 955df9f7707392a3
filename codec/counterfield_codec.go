package codec

import (
	"encoding/binary"

	"github.com/synctreeio/synctree/counterfield"
)

// CounterfieldCodec round-trips counterfield.Change, the field kind the
// axiom suite and cmd/synctreectl demo exercise. A bare int64 has no
// structure for a serialization library to add value over; fixed-width
// binary encoding is the entire format.
type CounterfieldCodec struct{}

var _ Codec[counterfield.Change] = CounterfieldCodec{}

func (CounterfieldCodec) Encode(change counterfield.Change, _ EncodeContext) ([]byte, error) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(change))
	return buf, nil
}

func (CounterfieldCodec) Decode(data []byte, _ EncodeContext) (counterfield.Change, error) {
	if len(data) != 8 {
		return 0, NewCodecMismatch("counterfield codec: expected 8 bytes")
	}
	return counterfield.Change(binary.BigEndian.Uint64(data)), nil
}
