package http2

// MessageType distinguishes a request-shaped message from a
// response-shaped one in the abstract message model (spec.md section 6).
type MessageType uint8

const (
	MessageRequest MessageType = iota
	MessageResponse
)

// Message is the abstract HTTP message the codec produces on Decode and
// consumes on Encode. It has no dependency on any particular HTTP
// server/client library -- the teacher binds straight to
// valyala/fasthttp.Request/Response (dgrr-http2/request.go,
// response.go, adaptor.go), which spec.md section 6 explicitly keeps
// out of the core; this type is the fasthttp-independent replacement.
type Message struct {
	Type     MessageType
	StreamID uint32

	// Request pseudo-headers.
	Method    string
	Path      string
	Scheme    string
	Authority string

	// Response pseudo-header.
	StatusCode int

	// PseudoHeaders preserves the on-wire order pseudo-headers were
	// seen in, for proxies that must reproduce it.
	PseudoHeaders []HeaderEntry

	// Headers is the regular header multimap, insertion order
	// preserved; use AddHeader/HeaderValues rather than mutating
	// directly.
	Headers []HeaderEntry

	Body []byte

	// Trailers accumulates headers received after body bytes have
	// started arriving (RFC 7540 section 8.1).
	Trailers []HeaderEntry

	// WithHuffman selects Huffman coding for every string literal this
	// message's header block emits.
	WithHuffman bool

	// Settings carries an ordered list of (id,value) pairs for a
	// SETTINGS frame; empty for request/response messages.
	Settings []SettingPair

	// NeverIndexNames and WithoutIndexNames record, per message, which
	// header names must be encoded as never-indexed or
	// without-indexing literals respectively (spec.md section 3's
	// "adding_never_index_headers"/"adding_without_index_headers").
	NeverIndexNames   map[string]struct{}
	WithoutIndexNames map[string]struct{}

	// DynamicTableUpdateSize, when non-zero, requests a dynamic table
	// size update be emitted at the very start of the header block.
	DynamicTableUpdateSize uint32

	// ChunkNotice requests that Encode invoke OnDataFrame for every DATA
	// frame it emits directly, in addition to appending it to the output
	// buffer (spec.md section 9 open question on chunk_notice). Chunks
	// that flow control queued on the stream and SendWaittingFrameData
	// sends later do not invoke OnDataFrame.
	ChunkNotice bool
	OnDataFrame func(chunk []byte, endStream bool)

	// Upgrade marks a message produced by TransferHoldingMsg: an
	// HTTP/1.1 request promoted across the h2c upgrade boundary.
	Upgrade         bool
	UpgradeProtocol string
}

// AddHeader appends name/value to the regular header multimap.
func (m *Message) AddHeader(name, value string) {
	m.Headers = append(m.Headers, HeaderEntry{Name: name, Value: value})
}

// HeaderValues returns every value recorded for name, in insertion order.
func (m *Message) HeaderValues(name string) []string {
	var out []string
	for _, h := range m.Headers {
		if h.Name == name {
			out = append(out, h.Value)
		}
	}
	return out
}

// IsNeverIndexed reports whether name was marked never-indexed on this
// message.
func (m *Message) IsNeverIndexed(name string) bool {
	_, ok := m.NeverIndexNames[name]
	return ok
}

// IsWithoutIndex reports whether name was marked without-indexing on
// this message.
func (m *Message) IsWithoutIndex(name string) bool {
	_, ok := m.WithoutIndexNames[name]
	return ok
}

// markNeverIndexed records name as never-indexed, creating the set on
// first use.
func (m *Message) markNeverIndexed(name string) {
	if m.NeverIndexNames == nil {
		m.NeverIndexNames = make(map[string]struct{})
	}
	m.NeverIndexNames[name] = struct{}{}
}

// markWithoutIndex records name as without-indexing, creating the set
// on first use.
func (m *Message) markWithoutIndex(name string) {
	if m.WithoutIndexNames == nil {
		m.WithoutIndexNames = make(map[string]struct{})
	}
	m.WithoutIndexNames[name] = struct{}{}
}
