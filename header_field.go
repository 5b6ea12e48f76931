package http2

// HeaderEntry represents one name/value pair as tracked by the static
// and dynamic HPACK tables, and as exchanged with the header block
// codec. Grounded on dgrr-http2/headerField.go's HeaderField type.
type HeaderEntry struct {
	Name, Value string
	// Sensitive makes HeaderBlockCodec.Pack use the never-indexed literal
	// representation (RFC 7541 section 7.1.3) whenever it would otherwise
	// emit a literal, exactly as for a name in its neverIndex set.
	Sensitive bool
}

// Size returns the HPACK accounting size of the entry: length of name
// plus length of value plus a fixed 32 byte overhead (RFC 7541
// section 4.1).
func (h HeaderEntry) Size() int {
	return len(h.Name) + len(h.Value) + 32
}

// IsPseudo reports whether the entry is an HTTP/2 pseudo-header
// (its name starts with ':').
func (h HeaderEntry) IsPseudo() bool {
	return len(h.Name) > 0 && h.Name[0] == ':'
}
