package http2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHpackIntegerRFCExamples checks the two worked integer examples
// from RFC 7541 section 5.1.
func TestHpackIntegerRFCExamples(t *testing.T) {
	dst := hpackEncodeInt(nil, 5, 10, 0)
	assert.Equal(t, []byte{10}, dst)

	dst = hpackEncodeInt(nil, 5, 1337, 0)
	assert.Equal(t, []byte{0x1f, 0x9a, 0x0a}, dst)

	bb := NewByteBufferFrom(dst[1:])
	v, err := hpackDecodeInt(bb, 5, dst[0])
	require.NoError(t, err)
	assert.Equal(t, uint64(1337), v)
}

func TestHpackIntegerRoundTrip(t *testing.T) {
	for _, n := range []uint{1, 4, 5, 6, 7, 8} {
		for _, v := range []uint64{0, 1, 30, 127, 128, 1337, 1 << 20, 1<<32 - 2} {
			dst := hpackEncodeInt(nil, n, v, 0)
			bb := NewByteBufferFrom(dst[1:])
			got, err := hpackDecodeInt(bb, n, dst[0])
			require.NoError(t, err)
			assert.Equalf(t, v, got, "n=%d v=%d", n, v)
		}
	}
}

func TestHpackDecodeIntOverflow(t *testing.T) {
	// An ever-continuing chain of 0xff bytes must not decode cleanly.
	payload := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	bb := NewByteBufferFrom(payload)
	_, err := hpackDecodeInt(bb, 5, 0x1f)
	require.Error(t, err)
}

func TestHpackStringRoundTripPlain(t *testing.T) {
	dst := hpackEncodeString(nil, []byte("www.example.com"), false)
	bb := NewByteBufferFrom(dst)
	got, err := hpackDecodeString(bb)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", string(got))
}

func TestHpackStringRoundTripHuffman(t *testing.T) {
	dst := hpackEncodeString(nil, []byte("www.example.com"), true)
	bb := NewByteBufferFrom(dst)
	got, err := hpackDecodeString(bb)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", string(got))
}
