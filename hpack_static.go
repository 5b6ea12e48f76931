package http2

// staticTable is the RFC 7541 Appendix A static table: 61 read-only
// entries, indexed 1..61. Grounded on dgrr-http2/hpack.go's
// staticTable literal (renamed Field -> HeaderEntry).
var staticTable = [61]HeaderEntry{
	{Name: ":authority"},
	{Name: ":method", Value: "GET"},
	{Name: ":method", Value: "POST"},
	{Name: ":path", Value: "/"},
	{Name: ":path", Value: "/index.html"},
	{Name: ":scheme", Value: "http"},
	{Name: ":scheme", Value: "https"},
	{Name: ":status", Value: "200"},
	{Name: ":status", Value: "204"},
	{Name: ":status", Value: "206"},
	{Name: ":status", Value: "304"},
	{Name: ":status", Value: "400"},
	{Name: ":status", Value: "404"},
	{Name: ":status", Value: "500"},
	{Name: "accept-charset"},
	{Name: "accept-encoding", Value: "gzip, deflate"},
	{Name: "accept-language"},
	{Name: "accept-ranges"},
	{Name: "accept"},
	{Name: "access-control-allow-origin"},
	{Name: "age"},
	{Name: "allow"},
	{Name: "authorization"},
	{Name: "cache-control"},
	{Name: "content-disposition"},
	{Name: "content-encoding"},
	{Name: "content-language"},
	{Name: "content-length"},
	{Name: "content-location"},
	{Name: "content-range"},
	{Name: "content-type"},
	{Name: "cookie"},
	{Name: "date"},
	{Name: "etag"},
	{Name: "expect"},
	{Name: "expires"},
	{Name: "from"},
	{Name: "host"},
	{Name: "if-match"},
	{Name: "if-modified-since"},
	{Name: "if-none-match"},
	{Name: "if-range"},
	{Name: "if-unmodified-since"},
	{Name: "last-modified"},
	{Name: "link"},
	{Name: "location"},
	{Name: "max-forwards"},
	{Name: "proxy-authenticate"},
	{Name: "proxy-authorization"},
	{Name: "range"},
	{Name: "referer"},
	{Name: "refresh"},
	{Name: "retry-after"},
	{Name: "server"},
	{Name: "set-cookie"},
	{Name: "strict-transport-security"},
	{Name: "transfer-encoding"},
	{Name: "user-agent"},
	{Name: "vary"},
	{Name: "via"},
	{Name: "www-authenticate"},
}

const staticTableLen = len(staticTable)

// staticTableLookup returns the static table entry for a 1-based index,
// or false if the index is out of range.
func staticTableLookup(index int) (HeaderEntry, bool) {
	if index < 1 || index > staticTableLen {
		return HeaderEntry{}, false
	}
	return staticTable[index-1], true
}

// staticTableFind returns the smallest 1-based static table index with
// a matching name, and whether the value also matched exactly. Used by
// HeaderBlockCodec.Pack to prefer an exact (name,value) match over a
// name-only match.
func staticTableFind(name, value string) (index int, exact bool) {
	nameIndex := 0
	for i, e := range staticTable {
		if e.Name != name {
			continue
		}
		if nameIndex == 0 {
			nameIndex = i + 1
		}
		if e.Value == value {
			return i + 1, true
		}
	}
	return nameIndex, false
}
