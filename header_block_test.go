package http2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderBlockPackUnpackRoundTrip(t *testing.T) {
	enc := NewDynamicTable(4096)
	dec := NewDynamicTable(4096)
	var hbc HeaderBlockCodec

	entries := []HeaderEntry{
		{Name: ":method", Value: "GET"},
		{Name: ":scheme", Value: "https"},
		{Name: ":path", Value: "/"},
		{Name: ":authority", Value: "www.example.com"},
		{Name: "custom-key", Value: "custom-value"},
	}

	packed := hbc.Pack(nil, entries, enc, false, nil, nil)
	fields, err := hbc.Unpack(packed, dec, 4096)
	require.NoError(t, err)
	require.Len(t, fields, len(entries))
	for i, f := range fields {
		assert.Equal(t, entries[i].Name, f.Name)
		assert.Equal(t, entries[i].Value, f.Value)
	}

	// the :authority and custom-key literals were sent with incremental
	// indexing, so both entered both sides' dynamic tables identically.
	assert.Equal(t, 2, enc.Len())
	assert.Equal(t, 2, dec.Len())
}

func TestHeaderBlockRepeatedEntryIsFullyIndexed(t *testing.T) {
	enc := NewDynamicTable(4096)
	dec := NewDynamicTable(4096)
	var hbc HeaderBlockCodec

	entries := []HeaderEntry{{Name: "custom-key", Value: "custom-value"}}

	first := hbc.Pack(nil, entries, enc, false, nil, nil)
	second := hbc.Pack(nil, entries, enc, false, nil, nil)

	// the second encoding should be a single indexed byte, since the
	// entry now lives in the dynamic table.
	assert.True(t, len(second) < len(first))
	assert.Equal(t, byte(reprIndexed)|byte(staticTableLen+1), second[0])

	fields, err := hbc.Unpack(first, dec, 4096)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	fields, err = hbc.Unpack(second, dec, 4096)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "custom-value", fields[0].Value)
}

func TestHeaderBlockNeverIndexedLiteralNotInserted(t *testing.T) {
	enc := NewDynamicTable(4096)
	dec := NewDynamicTable(4096)
	var hbc HeaderBlockCodec

	entries := []HeaderEntry{{Name: "authorization", Value: "secret-token"}}
	never := map[string]struct{}{"authorization": {}}

	packed := hbc.Pack(nil, entries, enc, false, never, nil)
	assert.Equal(t, reprLiteralNever, packed[0]&reprLiteralNeverMask)
	assert.Equal(t, 0, enc.Len())

	fields, err := hbc.Unpack(packed, dec, 4096)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.True(t, fields[0].NeverIndex)
	assert.Equal(t, 0, dec.Len())
}

func TestHeaderBlockSizeUpdateMustBeFirst(t *testing.T) {
	dec := NewDynamicTable(4096)
	var hbc HeaderBlockCodec

	var data []byte
	data = hpackEncodeInt(data, 7, 2, reprIndexed) // :method: GET
	data = hpackEncodeInt(data, 5, 100, reprTableSizeUpdate)

	_, err := hbc.Unpack(data, dec, 4096)
	assert.Error(t, err)
}

func TestHeaderBlockSizeUpdateExceedingMaximumRejected(t *testing.T) {
	dec := NewDynamicTable(4096)
	var hbc HeaderBlockCodec

	data := hpackEncodeInt(nil, 5, 8192, reprTableSizeUpdate)
	_, err := hbc.Unpack(data, dec, 4096)
	assert.Error(t, err)
}

func TestHeaderBlockClassifySplitsPseudoHeadersAndTrailers(t *testing.T) {
	var hbc HeaderBlockCodec
	var msg Message

	fields := []decodedField{
		{Name: ":method", Value: "POST"},
		{Name: ":path", Value: "/upload"},
		{Name: "content-type", Value: "text/plain"},
	}
	require.NoError(t, hbc.Classify(&msg, fields, false))
	assert.Equal(t, "POST", msg.Method)
	assert.Equal(t, "/upload", msg.Path)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "content-type", msg.Headers[0].Name)

	trailerFields := []decodedField{{Name: "x-checksum", Value: "abc123"}}
	require.NoError(t, hbc.Classify(&msg, trailerFields, true))
	require.Len(t, msg.Trailers, 1)
	assert.Equal(t, "x-checksum", msg.Trailers[0].Name)
}
