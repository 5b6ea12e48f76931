package http2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameHeaderEncodeDecodeRoundTrip(t *testing.T) {
	fh := FrameHeader{
		Length:   16,
		Type:     FrameHeadersType,
		Flags:    FlagEndHeaders | FlagEndStream,
		StreamID: 3,
	}
	raw := fh.Encode(nil)
	require.Len(t, raw, FrameHeaderLen)

	bb := NewByteBufferFrom(raw)
	got, err := DecodeFrameHeader(bb)
	require.NoError(t, err)
	assert.Equal(t, fh, got)
}

func TestFrameHeaderReservedBitIsMasked(t *testing.T) {
	fh := FrameHeader{Length: 0, Type: FramePing, StreamID: 1 << 31}
	raw := fh.Encode(nil)
	bb := NewByteBufferFrom(raw)
	got, err := DecodeFrameHeader(bb)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), got.StreamID)
}

func TestPeekFrameHeaderPausesOnShortInput(t *testing.T) {
	bb := NewByteBufferFrom([]byte{0, 0, 1, 0, 0})
	_, status, err := PeekFrameHeader(bb)
	require.NoError(t, err)
	assert.Equal(t, StatusPause, status)
	// peeking must not consume the buffer
	assert.Equal(t, 5, bb.Len())
}

func TestPeekFrameHeaderSucceedsAndDoesNotConsume(t *testing.T) {
	fh := FrameHeader{Length: 4, Type: FrameData, StreamID: 7}
	raw := fh.Encode(nil)
	raw = append(raw, []byte{0xde, 0xad, 0xbe, 0xef}...)

	bb := NewByteBufferFrom(raw)
	got, status, err := PeekFrameHeader(bb)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, status)
	assert.Equal(t, fh, got)
	assert.Equal(t, len(raw), bb.Len())
}
