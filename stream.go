package http2

// StreamState is one of the seven states of RFC 7540 section 5.1's
// per-stream state machine. Re-architected from dgrr-http2/stream.go's
// 5-value StreamState (which collapses RESERVED_LOCAL/RESERVED_REMOTE
// into one Reserved value and both half-closed directions into one
// HalfClosed value) into the full RFC set spec.md section 5 requires.
type StreamState int8

const (
	StreamIdle StreamState = iota
	StreamReservedLocal
	StreamReservedRemote
	StreamOpen
	StreamHalfClosedLocal
	StreamHalfClosedRemote
	StreamClosed
)

func (s StreamState) String() string {
	switch s {
	case StreamIdle:
		return "IDLE"
	case StreamReservedLocal:
		return "RESERVED_LOCAL"
	case StreamReservedRemote:
		return "RESERVED_REMOTE"
	case StreamOpen:
		return "OPEN"
	case StreamHalfClosedLocal:
		return "HALF_CLOSED_LOCAL"
	case StreamHalfClosedRemote:
		return "HALF_CLOSED_REMOTE"
	case StreamClosed:
		return "CLOSED"
	}
	return "UNKNOWN"
}

// pendingChunk is one outbound DATA payload waiting for send-window
// room. Each stream queues its chunks in FIFO order; streams are drained
// in priority-tree traversal order (spec.md section 5, "outbound flow
// control").
type pendingChunk struct {
	data      []byte
	endStream bool
}

// Stream is the per-stream state the connection codec tracks: its FSM
// state, independent send/receive windows, in-flight header-block
// assembly, body accumulation, and outbound backpressure queue.
// Grounded on dgrr-http2/stream.go's Stream, generalized from its single
// window field to the two-directional accounting spec.md section 5
// requires.
type Stream struct {
	ID    uint32
	State StreamState

	SendWindow int64
	RecvWindow int64

	// headerFragment accumulates HEADERS/PUSH_PROMISE + CONTINUATION
	// bytes until END_HEADERS; HeaderBlockCodec.Unpack is only invoked
	// once the full block is assembled.
	headerFragment   []byte
	assemblingHeader bool
	bodyStarted      bool

	msg *Message

	pending []pendingChunk
}

// NewStream returns a Stream in IDLE state with the given initial
// window sizes.
func NewStream(id uint32, initialSendWindow, initialRecvWindow uint32) *Stream {
	return &Stream{
		ID:         id,
		State:      StreamIdle,
		SendWindow: int64(initialSendWindow),
		RecvWindow: int64(initialRecvWindow),
	}
}

// beginHeaderBlock starts (or restarts, for a PUSH_PROMISE) assembly of
// a header block fragment.
func (s *Stream) beginHeaderBlock(first []byte) {
	s.headerFragment = append(s.headerFragment[:0], first...)
	s.assemblingHeader = true
}

// appendHeaderFragment appends a CONTINUATION frame's fragment. Returns
// an error if the stream is not currently assembling a header block
// (RFC 7540 section 6.10's ordering requirement).
func (s *Stream) appendHeaderFragment(frag []byte) error {
	if !s.assemblingHeader {
		return NewConnError(ProtocolError, "CONTINUATION without preceding HEADERS/PUSH_PROMISE")
	}
	s.headerFragment = append(s.headerFragment, frag...)
	return nil
}

// recvHeaders applies RFC 7540 section 5.1's receive-side transitions
// for a HEADERS frame.
func (s *Stream) recvHeaders(endStream bool) error {
	switch s.State {
	case StreamIdle:
		s.State = StreamOpen
	case StreamReservedRemote:
		s.State = StreamHalfClosedLocal
	case StreamHalfClosedRemote, StreamOpen:
		// trailers on an already-open stream; state unchanged here,
		// endStream handling below still applies.
	default:
		return NewStreamError(s.ID, StreamClosedError, "HEADERS on stream in state "+s.State.String())
	}
	if endStream {
		return s.recvEndStream()
	}
	return nil
}

// recvEndStream applies the receive-side END_STREAM transition.
func (s *Stream) recvEndStream() error {
	switch s.State {
	case StreamOpen:
		s.State = StreamHalfClosedRemote
	case StreamHalfClosedLocal:
		s.State = StreamClosed
	default:
		return NewStreamError(s.ID, StreamClosedError, "END_STREAM on stream in state "+s.State.String())
	}
	return nil
}

// sendHeaders applies the send-side transitions mirroring recvHeaders.
func (s *Stream) sendHeaders(endStream bool) error {
	switch s.State {
	case StreamIdle:
		s.State = StreamOpen
	case StreamReservedLocal:
		s.State = StreamHalfClosedRemote
	case StreamHalfClosedLocal, StreamOpen:
	default:
		return NewStreamError(s.ID, StreamClosedError, "send HEADERS on stream in state "+s.State.String())
	}
	if endStream {
		return s.sendEndStream()
	}
	return nil
}

// sendEndStream applies the send-side END_STREAM transition.
func (s *Stream) sendEndStream() error {
	switch s.State {
	case StreamOpen:
		s.State = StreamHalfClosedLocal
	case StreamHalfClosedRemote:
		s.State = StreamClosed
	default:
		return NewStreamError(s.ID, StreamClosedError, "send END_STREAM on stream in state "+s.State.String())
	}
	return nil
}

// enqueue buffers an outbound DATA payload the send window could not
// currently admit.
func (s *Stream) enqueue(data []byte, endStream bool) {
	s.pending = append(s.pending, pendingChunk{data: data, endStream: endStream})
}

// hasPending reports whether this stream has buffered outbound data.
func (s *Stream) hasPending() bool {
	return len(s.pending) > 0
}
