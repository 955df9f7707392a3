package codec

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/synctreeio/synctree/revtag"
)

// uuidCompressor is a concrete IDCompressor: it derives a deterministic
// tag from (sessionID, localID) via a SHA1 namespace UUID (unlike
// revtag.New, which draws a random UUID), so two peers normalizing the
// same (session, local id) pair under the same docID agree on the
// resulting tag without a round-trip.
type uuidCompressor struct {
	namespace uuid.UUID

	mu      sync.Mutex
	reverse map[revtag.Tag]string // "sessionID/localID" keyed by derived tag
}

// NewUUIDCompressor constructs an IDCompressor scoped to one document,
// identified by docID.
func NewUUIDCompressor(docID string) IDCompressor {
	return &uuidCompressor{
		namespace: uuid.NewSHA1(uuid.NameSpaceOID, []byte(docID)),
		reverse:   make(map[revtag.Tag]string),
	}
}

func (c *uuidCompressor) Normalize(sessionID string, localID uint64) (revtag.Tag, error) {
	key := fmt.Sprintf("%s/%d", sessionID, localID)
	derived := uuid.NewSHA1(c.namespace, []byte(key))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], localID)
	tag := revtag.FromBytes(append(derived[:], buf[:]...))

	c.mu.Lock()
	c.reverse[tag] = key
	c.mu.Unlock()
	return tag, nil
}

func (c *uuidCompressor) Denormalize(tag revtag.Tag) (string, uint64, error) {
	c.mu.Lock()
	key, ok := c.reverse[tag]
	c.mu.Unlock()
	if !ok {
		return "", 0, NewCodecMismatch("idcompressor: tag was never normalized by this compressor")
	}
	sep := strings.LastIndexByte(key, '/')
	localID, err := strconv.ParseUint(key[sep+1:], 10, 64)
	if err != nil {
		return "", 0, err
	}
	return key[:sep], localID, nil
}
