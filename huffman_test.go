package http2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHuffmanRFCVector checks the www.example.com literal from RFC 7541
// appendix C.4.1 ("First Request").
func TestHuffmanRFCVector(t *testing.T) {
	encoded := []byte{
		0xf1, 0xe3, 0xc2, 0xe5, 0xf2, 0x3a, 0x6b, 0xa0, 0xab, 0x90, 0xf4, 0xff,
	}
	decoded, err := huffmanDecode(nil, encoded)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", string(decoded))
}

func TestHuffmanRoundTripVariousInputs(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"www.example.com",
		"no-cache",
		"custom-key", "custom-value",
		"The quick brown fox jumps over the lazy dog 0123456789",
	}
	for _, s := range inputs {
		enc := huffmanEncode(nil, []byte(s))
		dec, err := huffmanDecode(nil, enc)
		require.NoErrorf(t, err, "input=%q", s)
		assert.Equalf(t, s, string(dec), "input=%q", s)
	}
}

func TestHuffmanDecodeRejectsBadPadding(t *testing.T) {
	// 'a' is {0x3, 5} -- one 'a' leaves 3 trailing bits; stomp them to
	// zero so the padding is not a prefix of the all-ones EOS code.
	enc := huffmanEncode(nil, []byte("a"))
	enc[len(enc)-1] &^= 0x07
	_, err := huffmanDecode(nil, enc)
	assert.Error(t, err)
}
