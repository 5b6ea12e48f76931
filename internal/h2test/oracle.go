// Package h2test holds cross-checks against golang.org/x/net/http2's
// HPACK implementation, used as an external oracle in tests that verify
// this module's own RFC 7541 codec against wire fixtures drawn from the
// RFC's worked examples.
package h2test

import "golang.org/x/net/http2/hpack"

// Field is the oracle's view of one decoded header field, trimmed down
// to what callers need to compare against their own decoder's output.
type Field struct {
	Name, Value string
	Sensitive   bool
}

// DecodeBlock runs a fresh hpack.Decoder over block and returns every
// field it emits, in order. maxDynamicTableSize mirrors the locally
// negotiated SETTINGS_HEADER_TABLE_SIZE.
func DecodeBlock(block []byte, maxDynamicTableSize uint32) ([]Field, error) {
	var fields []Field
	dec := hpack.NewDecoder(maxDynamicTableSize, func(f hpack.HeaderField) {
		fields = append(fields, Field{Name: f.Name, Value: f.Value, Sensitive: f.Sensitive})
	})
	if _, err := dec.Write(block); err != nil {
		return nil, err
	}
	if err := dec.Close(); err != nil {
		return nil, err
	}
	return fields, nil
}
