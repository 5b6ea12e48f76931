package http2

import "strconv"

// HeaderBlockCodec drives HpackPrimitives and the static/dynamic tables
// to pack and unpack a header block -- the concatenation of a
// HEADERS/PUSH_PROMISE frame's fragment with any CONTINUATION frames
// that followed it (spec.md section 4.5). Grounded on
// dgrr-http2/headers.go's flag handling and dgrr-http2/hpack.go's `next`
// representation dispatch.
type HeaderBlockCodec struct{}

// representation bit patterns, RFC 7541 section 6.
const (
	reprIndexed          = 0x80 // 1xxxxxxx
	reprIndexedMask      = 0x80
	reprLiteralIncr      = 0x40 // 01xxxxxx
	reprLiteralIncrMask  = 0xc0
	reprTableSizeUpdate  = 0x20 // 001xxxxx
	reprTableSizeMask    = 0xe0
	reprLiteralNever     = 0x10 // 0001xxxx
	reprLiteralNeverMask = 0xf0
	reprLiteralNoIndex   = 0x00 // 0000xxxx
	reprLiteralNoIdxMask = 0xf0
)

// decodedField is one representation decoded off the wire, before
// classification into the message model.
type decodedField struct {
	Name, Value string
	NeverIndex  bool
}

// Unpack decodes every representation in a header block, applying
// indexing side effects (insertion into dec, or dec.SetCapacity for a
// dynamic table size update) as it goes. maxHeaderTableSize is the
// locally negotiated SETTINGS_HEADER_TABLE_SIZE; a size update
// requesting more than that is a connection error.
func (HeaderBlockCodec) Unpack(data []byte, dec *DynamicTable, maxHeaderTableSize uint32) ([]decodedField, error) {
	bb := NewByteBufferFrom(data)

	var fields []decodedField
	sizeUpdateAllowed := true

	for bb.Len() > 0 {
		first, err := bb.ReadByte()
		if err != nil {
			return nil, err
		}

		switch {
		case first&reprIndexedMask == reprIndexed:
			index, err := hpackDecodeInt(bb, 7, first)
			if err != nil {
				return nil, err
			}
			if index == 0 {
				return nil, NewConnError(CompressionError, "indexed representation with index 0")
			}
			entry, ok := lookupCombined(dec, int(index))
			if !ok {
				return nil, NewConnError(CompressionError, "index out of range")
			}
			fields = append(fields, decodedField{Name: entry.Name, Value: entry.Value})
			sizeUpdateAllowed = false

		case first&reprLiteralIncrMask == reprLiteralIncr:
			name, value, err := decodeLiteral(bb, dec, 6, first)
			if err != nil {
				return nil, err
			}
			dec.Insert(HeaderEntry{Name: name, Value: value})
			fields = append(fields, decodedField{Name: name, Value: value})
			sizeUpdateAllowed = false

		case first&reprTableSizeMask == reprTableSizeUpdate:
			if !sizeUpdateAllowed {
				return nil, NewConnError(CompressionError, "dynamic table size update must be first")
			}
			newSize, err := hpackDecodeInt(bb, 5, first)
			if err != nil {
				return nil, err
			}
			if newSize > uint64(maxHeaderTableSize) {
				return nil, NewConnError(CompressionError, "dynamic table size update exceeds negotiated maximum")
			}
			dec.SetCapacity(int(newSize))
			// a size update does not itself disallow a following size update

		case first&reprLiteralNeverMask == reprLiteralNever:
			name, value, err := decodeLiteral(bb, dec, 4, first)
			if err != nil {
				return nil, err
			}
			fields = append(fields, decodedField{Name: name, Value: value, NeverIndex: true})
			sizeUpdateAllowed = false

		case first&reprLiteralNoIdxMask == reprLiteralNoIdx:
			name, value, err := decodeLiteral(bb, dec, 4, first)
			if err != nil {
				return nil, err
			}
			fields = append(fields, decodedField{Name: name, Value: value})
			sizeUpdateAllowed = false

		default:
			return nil, NewConnError(CompressionError, "unrecognized header field representation")
		}
	}

	return fields, nil
}

// decodeLiteral decodes the shared tail of every literal representation:
// an n-bit-prefix name index (0 means the name follows as a string
// literal) followed by a value string literal.
func decodeLiteral(bb *ByteBuffer, dec *DynamicTable, n uint, first byte) (name, value string, err error) {
	index, err := hpackDecodeInt(bb, n, first)
	if err != nil {
		return "", "", err
	}

	if index == 0 {
		nameBytes, err := hpackDecodeString(bb)
		if err != nil {
			return "", "", err
		}
		name = string(nameBytes)
	} else {
		entry, ok := lookupCombined(dec, int(index))
		if !ok {
			return "", "", NewConnError(CompressionError, "literal name index out of range")
		}
		name = entry.Name
	}

	valueBytes, err := hpackDecodeString(bb)
	if err != nil {
		return "", "", err
	}
	return name, string(valueBytes), nil
}

// Pack encodes entries as a header block, in order, appending to dst.
// For each entry: an exact (name,value) match in the static or dynamic
// table is sent indexed; a name-only match sends a literal with an
// indexed name; otherwise both name and value are sent as string
// literals. Names are lowercased before lookup and emission. Entries
// named in neverIndex/withoutIndex (or, for never-indexed, marked
// Sensitive) get the matching literal representation instead of
// incremental indexing.
func (HeaderBlockCodec) Pack(dst []byte, entries []HeaderEntry, enc *DynamicTable, useHuffman bool, neverIndex, withoutIndex map[string]struct{}) []byte {
	for _, e := range entries {
		name := toLowerASCII(e.Name)

		if idx, exact := staticTableFind(name, e.Value); exact {
			dst = hpackEncodeInt(dst, 7, uint64(idx), reprIndexed)
			continue
		}
		if idx, exact := enc.Find(name, e.Value); exact {
			dst = hpackEncodeInt(dst, 7, uint64(idx+staticTableLen), reprIndexed)
			continue
		}

		nameIndex, _ := staticTableFind(name, "")
		if dynIdx, _ := enc.Find(name, ""); nameIndex == 0 && dynIdx != 0 {
			nameIndex = dynIdx + staticTableLen
		}

		_, never := neverIndex[name]
		never = never || e.Sensitive
		_, noIndex := withoutIndex[name]

		switch {
		case never:
			dst = packLiteral(dst, name, e.Value, nameIndex, 4, reprLiteralNever, useHuffman)
		case noIndex:
			dst = packLiteral(dst, name, e.Value, nameIndex, 4, reprLiteralNoIndex, useHuffman)
		default:
			dst = packLiteral(dst, name, e.Value, nameIndex, 6, reprLiteralIncr, useHuffman)
			enc.Insert(HeaderEntry{Name: name, Value: e.Value})
		}
	}
	return dst
}

func packLiteral(dst []byte, name, value string, nameIndex int, prefixBits uint, marker byte, useHuffman bool) []byte {
	dst = hpackEncodeInt(dst, prefixBits, uint64(nameIndex), marker)
	if nameIndex == 0 {
		dst = hpackEncodeString(dst, []byte(name), useHuffman)
	}
	return hpackEncodeString(dst, []byte(value), useHuffman)
}

// PackSizeUpdate appends a dynamic table size update representation.
// Callers must emit this before any other representation in the block.
func (HeaderBlockCodec) PackSizeUpdate(dst []byte, newSize uint32) []byte {
	return hpackEncodeInt(dst, 5, uint64(newSize), reprTableSizeUpdate)
}

func toLowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			b := []byte(s)
			for ; i < len(b); i++ {
				if b[i] >= 'A' && b[i] <= 'Z' {
					b[i] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}

// Classify assigns decoded fields into msg's typed pseudo-header fields,
// regular header multimap, or trailer list. Pseudo-headers are
// recognized by name; once body bytes have been delivered (bodyStarted)
// every remaining header becomes a trailer, matching RFC 7540 section 8.1.
func (HeaderBlockCodec) Classify(msg *Message, fields []decodedField, bodyStarted bool) error {
	for _, f := range fields {
		entry := HeaderEntry{Name: f.Name, Value: f.Value}

		if f.NeverIndex {
			msg.markNeverIndexed(f.Name)
		}

		if bodyStarted {
			msg.Trailers = append(msg.Trailers, entry)
			continue
		}

		if entry.IsPseudo() {
			msg.PseudoHeaders = append(msg.PseudoHeaders, entry)
			switch f.Name {
			case ":method":
				msg.Method = f.Value
			case ":path":
				msg.Path = f.Value
			case ":scheme":
				msg.Scheme = f.Value
			case ":authority":
				msg.Authority = f.Value
			case ":status":
				code, err := strconv.Atoi(f.Value)
				if err != nil {
					return NewConnError(ProtocolError, "malformed :status pseudo-header")
				}
				msg.StatusCode = code
			default:
				return NewConnError(ProtocolError, "unknown pseudo-header "+f.Name)
			}
			continue
		}

		msg.Headers = append(msg.Headers, entry)
	}
	return nil
}
