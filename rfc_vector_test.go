package http2

import (
	"testing"

	"github.com/nebulah2/h2codec/internal/h2test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rfc7541AppendixC41 is the "First Request" wire fixture from RFC
// 7541 appendix C.4.1: :method GET, :scheme http, :path /, :authority
// www.example.com (Huffman-coded), with no entries yet in either peer's
// dynamic table.
var rfc7541AppendixC41 = []byte{
	0x82, 0x86, 0x84, 0x41, 0x8c, 0xf1, 0xe3, 0xc2, 0xe5, 0xf2, 0x3a, 0x6b,
	0xa0, 0xab, 0x90, 0xf4, 0xff,
}

// TestRFC7541AppendixC41EncodeIsByteExact checks that Pack reproduces
// the RFC's own encoding of the first request byte-for-byte, starting
// from an empty dynamic table.
func TestRFC7541AppendixC41EncodeIsByteExact(t *testing.T) {
	enc := NewDynamicTable(4096)
	var hbc HeaderBlockCodec

	entries := []HeaderEntry{
		{Name: ":method", Value: "GET"},
		{Name: ":scheme", Value: "http"},
		{Name: ":path", Value: "/"},
		{Name: ":authority", Value: "www.example.com"},
	}

	block := hbc.Pack(nil, entries, enc, true, nil, nil)
	assert.Equal(t, rfc7541AppendixC41, block)
}

// TestRFC7541AppendixC41DecodeMatchesXNetOracle decodes the RFC fixture
// with this module's own HeaderBlockCodec.Unpack and, independently,
// with golang.org/x/net/http2/hpack via internal/h2test, and checks the
// two decoders agree field-for-field.
func TestRFC7541AppendixC41DecodeMatchesXNetOracle(t *testing.T) {
	dec := NewDynamicTable(4096)
	var hbc HeaderBlockCodec

	got, err := hbc.Unpack(rfc7541AppendixC41, dec, 4096)
	require.NoError(t, err)

	want, err := h2test.DecodeBlock(rfc7541AppendixC41, 4096)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Name, got[i].Name, "field %d name", i)
		assert.Equal(t, want[i].Value, got[i].Value, "field %d value", i)
	}

	assert.Equal(t, ":method", got[0].Name)
	assert.Equal(t, "GET", got[0].Value)
	assert.Equal(t, ":scheme", got[1].Name)
	assert.Equal(t, "http", got[1].Value)
	assert.Equal(t, ":path", got[2].Name)
	assert.Equal(t, "/", got[2].Value)
	assert.Equal(t, ":authority", got[3].Name)
	assert.Equal(t, "www.example.com", got[3].Value)
}
