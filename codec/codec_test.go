package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synctreeio/synctree/codec"
	"github.com/synctreeio/synctree/counterfield"
)

func TestCounterfieldCodecRoundTrips(t *testing.T) {
	var c codec.CounterfieldCodec
	ctx := codec.EncodeContext{OriginatorSessionID: "s1"}

	data, err := c.Encode(42, ctx)
	require.NoError(t, err)

	got, err := c.Decode(data, ctx)
	require.NoError(t, err)
	assert.Equal(t, counterfield.Change(42), got)
}

func TestCounterfieldCodecRejectsMalformedPayload(t *testing.T) {
	var c codec.CounterfieldCodec
	_, err := c.Decode([]byte{1, 2, 3}, codec.EncodeContext{})
	assert.Error(t, err)
}

func TestUUIDCompressorRoundTripsNormalization(t *testing.T) {
	comp := codec.NewUUIDCompressor("doc-1")

	tag, err := comp.Normalize("session-a", 7)
	require.NoError(t, err)

	sessionID, localID, err := comp.Denormalize(tag)
	require.NoError(t, err)
	assert.Equal(t, "session-a", sessionID)
	assert.Equal(t, uint64(7), localID)
}

func TestUUIDCompressorIsDeterministic(t *testing.T) {
	comp := codec.NewUUIDCompressor("doc-1")
	a, err := comp.Normalize("session-a", 1)
	require.NoError(t, err)
	b, err := comp.Normalize("session-a", 1)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestUUIDCompressorDenormalizeUnknownTagErrors(t *testing.T) {
	comp := codec.NewUUIDCompressor("doc-1")
	other := codec.NewUUIDCompressor("doc-2")
	tag, err := other.Normalize("session-a", 1)
	require.NoError(t, err)

	_, _, err = comp.Denormalize(tag)
	assert.Error(t, err)
}
