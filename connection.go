package http2

import (
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// clientPreface is the 24-octet connection preface a client must send
// before any frame (RFC 7540 section 3.5).
const clientPreface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// initialConnWindowIncrement is the extra connection-level receive
// window a server grants beyond the default 65535 immediately after the
// preface, raising the connection receive window to 4194304 (4 MiB).
const initialConnWindowIncrement = 4128769

// quarterWindow is the fraction of INITIAL_WINDOW_SIZE below which a
// replenishing WINDOW_UPDATE is queued (spec.md section 5, "inbound
// flow control").
func quarterWindow(initial uint32) int64 {
	return int64(initial) / 4
}

// Codec is the top-level connection-level HTTP/2 codec: preface
// handshake, SETTINGS negotiation, connection flow control, stream
// lifecycle, GOAWAY handling, and dispatch of decoded frames to the
// right stream. Grounded on dgrr-http2/conn.go's Conn, stripped of its
// net.Conn/bufio coupling and goroutine-based read/write loops in favor
// of the non-blocking Decode/Encode model spec.md section 6 requires.
type Codec struct {
	cfg Config

	// ID uniquely tags this Codec for log correlation across its
	// lifetime, grounded in packetd-packetd's google/uuid use for
	// per-connection identifiers.
	ID uuid.UUID

	streams               map[uint32]*Stream
	nextLocalStreamID     uint32
	highestRemoteStreamID uint32

	encTable *DynamicTable
	decTable *DynamicTable

	localSettings  Settings
	remoteSettings Settings

	connSendWindow int64
	connRecvWindow int64

	prefacePending bool

	goAwayReceived     bool
	peerGoAwayLastID   uint32
	goAwaySent         bool
	lastErrorCode      ErrorCode

	priorities *PriorityTree

	// holdingMsg carries an HTTP/1.1 request promoted across an h2c
	// upgrade boundary, set by TransferHoldingMsg, until the next Decode
	// call with an empty input buffer returns it.
	holdingMsg *Message

	// headerStreamID is non-zero while a HEADERS/PUSH_PROMISE without
	// END_HEADERS is awaiting CONTINUATION frames; it is the only stream
	// CONTINUATION may legally arrive for (RFC 7540 section 6.10).
	headerStreamID uint32

	hbc HeaderBlockCodec
}

// NewCodec constructs a Codec in the IDLE connection state (preface not
// yet exchanged).
func NewCodec(opts ...Option) *Codec {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	c := &Codec{
		cfg:                cfg,
		ID:                 uuid.New(),
		streams:            make(map[uint32]*Stream),
		encTable:           NewDynamicTable(int(cfg.settings.HeaderTableSize)),
		decTable:           NewDynamicTable(int(cfg.settings.HeaderTableSize)),
		localSettings:      cfg.settings,
		remoteSettings:     DefaultSettings(),
		connSendWindow:     int64(DefaultSettings().InitialWindowSize),
		connRecvWindow:     int64(cfg.settings.InitialWindowSize),
		prefacePending:     true,
		priorities:         NewPriorityTree(),
	}

	if cfg.role == RoleClient {
		c.nextLocalStreamID = 1
	} else {
		c.nextLocalStreamID = 2
	}

	return c
}

// Handshake emits the opening sequence: for a client, the connection
// preface followed by an initial SETTINGS frame. Servers do not call
// this -- Decode recognizes the incoming preface and emits the server's
// opening sequence itself.
func (c *Codec) Handshake(out *ByteBuffer) error {
	if c.cfg.role != RoleClient {
		return NewConnError(ProtocolError, "Handshake is client-only; servers react to the incoming preface")
	}
	buf := out.Bytes()
	buf = append(buf, clientPreface...)
	sf := SettingsFrame{Params: c.localSettings.AsPairs()}
	buf = sf.Encode(buf)
	c.writeBytes(out, buf)
	c.prefacePending = false
	return nil
}

// writeBytes replaces out's unread contents with buf, a convenience for
// functions that build a []byte with append and need to hand it back to
// a ByteBuffer's write side.
func (c *Codec) writeBytes(out *ByteBuffer, buf []byte) {
	out.Reset()
	out.Write(buf)
}

// serverOpeningSequence appends the server's response to a just-verified
// preface: SETTINGS, a connection WINDOW_UPDATE, and a liveness PING
// (spec.md section 6).
func (c *Codec) serverOpeningSequence(react []byte) []byte {
	sf := SettingsFrame{Params: c.localSettings.AsPairs()}
	react = sf.Encode(react)

	wu := WindowUpdateFrame{Increment: initialConnWindowIncrement}
	react = wu.Encode(react, 0)
	c.connRecvWindow += initialConnWindowIncrement

	ping := PingFrame{}
	react = ping.Encode(react)

	return react
}

// Decode consumes as many complete frames as are buffered in in,
// dispatches each to the connection or stream level, and appends any
// immediate reply frames (SETTINGS acks, WINDOW_UPDATEs, PING acks,
// GOAWAY, RST_STREAM) to react. It returns StatusPause, leaving in's
// read cursor at the last frame boundary, when the buffer holds no
// further complete frame (an incomplete frame, or no bytes at all once
// every buffered frame has been consumed). A completed request/response
// is written into out;
// out.StreamID is 0 if no message completed during this call.
func (c *Codec) Decode(in *ByteBuffer, out *Message, react *ByteBuffer) (DecodeStatus, error) {
	reactBuf := react.Bytes()

	if in.Len() == 0 && c.holdingMsg != nil {
		msg := c.holdingMsg
		c.holdingMsg = nil
		msg.StreamID = 1
		msg.Upgrade = true
		s := NewStream(1, c.remoteSettings.InitialWindowSize, c.localSettings.InitialWindowSize)
		s.State = StreamHalfClosedRemote
		c.streams[1] = s
		c.priorities.ensure(1)
		if 1 > c.highestRemoteStreamID {
			c.highestRemoteStreamID = 1
		}
		*out = *msg
		return StatusOK, nil
	}

	if c.prefacePending && c.cfg.role == RoleServer {
		mark := in.Snapshot()
		raw, err := in.ReadN(len(clientPreface))
		if err != nil {
			in.Restore(mark)
			c.writeBytes(react, reactBuf)
			return StatusPause, nil
		}
		if string(raw) != clientPreface {
			return StatusOK, NewConnError(ProtocolError, "bad connection preface")
		}
		c.prefacePending = false
		reactBuf = c.serverOpeningSequence(reactBuf)
	}

	for {
		mark := in.Snapshot()

		fh, status, err := PeekFrameHeader(in)
		if err != nil {
			return StatusOK, err
		}
		if status == StatusPause {
			in.Restore(mark)
			c.writeBytes(react, reactBuf)
			return StatusPause, nil
		}

		if fh.Length > int(c.localSettings.MaxFrameSize) {
			return StatusOK, NewConnError(FrameSizeError, "frame exceeds negotiated MAX_FRAME_SIZE")
		}

		if in.Len() < FrameHeaderLen+fh.Length {
			in.Restore(mark)
			c.writeBytes(react, reactBuf)
			return StatusPause, nil
		}

		if _, err := DecodeFrameHeader(in); err != nil {
			return StatusOK, err
		}
		payload, err := in.ReadN(fh.Length)
		if err != nil {
			return StatusOK, err
		}

		if c.goAwayReceived && fh.StreamID > c.peerGoAwayLastID && fh.StreamID != 0 {
			c.cfg.logger.Debug("dropping frame past GOAWAY last-stream-id",
				zap.Stringer("conn_id", c.ID), zap.Uint32("stream", fh.StreamID))
			continue
		}

		c.cfg.metrics.observeFrameReceived(fh.Type)

		reactBuf, err = c.dispatch(fh, payload, out, reactBuf)
		if err != nil {
			if ce, ok := err.(*CodecError); ok {
				switch ce.Severity {
				case SeverityConnection:
					c.cfg.metrics.observeConnError(ce.Code)
					gf := GoAwayFrame{LastStreamID: c.highestRemoteStreamID, Code: ce.Code, Debug: []byte(ce.Debug)}
					reactBuf = gf.Encode(reactBuf)
					c.goAwaySent = true
					c.writeBytes(react, reactBuf)
					return StatusOK, err
				case SeverityStream:
					rf := RSTStreamFrame{Code: ce.Code}
					reactBuf = rf.Encode(reactBuf, ce.StreamID)
					if s, ok := c.streams[ce.StreamID]; ok {
						s.State = StreamClosed
						c.priorities.Remove(ce.StreamID)
						delete(c.streams, ce.StreamID)
					}
					continue
				}
			}
			return StatusOK, err
		}

		if out.StreamID != 0 {
			c.writeBytes(react, reactBuf)
			return StatusOK, nil
		}
	}
}

// dispatch handles one decoded frame, routing stream id 0 frames to
// connection-level handling and all others to the owning Stream. RFC
// 7540 section 6.10 forbids any frame other than CONTINUATION while a
// header block assembly is in progress, regardless of which stream it
// targets.
func (c *Codec) dispatch(fh FrameHeader, payload []byte, out *Message, react []byte) ([]byte, error) {
	if c.headerStreamID != 0 && fh.Type != FrameContinuation {
		return react, NewConnError(ProtocolError, "frame interleaved with header block assembly")
	}

	switch fh.Type {
	case FrameSettings:
		return c.handleSettings(fh, payload, react)
	case FrameWindowUpdate:
		return c.handleWindowUpdate(fh, payload, react)
	case FramePing:
		return c.handlePing(fh, payload, react)
	case FrameGoAway:
		return react, c.handleGoAway(fh, payload)
	case FramePriority:
		return react, c.handlePriority(fh, payload)
	case FrameRSTStream:
		return react, c.handleRSTStream(fh, payload)
	case FrameHeadersType:
		return react, c.handleHeaders(fh, payload, out)
	case FrameContinuation:
		return react, c.handleContinuation(fh, payload, out)
	case FramePushPromise:
		return react, c.handlePushPromise(fh, payload)
	case FrameData:
		return c.handleData(fh, payload, out, react)
	default:
		return react, NewConnError(ProtocolError, "unknown frame type")
	}
}

func (c *Codec) handleSettings(fh FrameHeader, payload []byte, react []byte) ([]byte, error) {
	sf, err := DecodeSettingsFrame(fh, payload)
	if err != nil {
		return react, err
	}
	if sf.Ack {
		return react, nil
	}
	for _, p := range sf.Params {
		oldInitialWindow := c.remoteSettings.InitialWindowSize
		if err := c.remoteSettings.Apply(p); err != nil {
			return react, err
		}
		if p.ID == SettingHeaderTableSize {
			c.encTable.SetCapacity(int(p.Value))
		}
		if p.ID == SettingInitialWindowSize {
			c.adjustStreamSendWindows(int64(p.Value) - int64(oldInitialWindow))
		}
	}
	ack := SettingsFrame{Ack: true}
	react = ack.Encode(react)
	return react, nil
}

// adjustStreamSendWindows applies RFC 7540 section 6.9.2: a changed
// SETTINGS_INITIAL_WINDOW_SIZE adjusts every existing stream's send
// window by the delta between the old and new values, not by setting it
// to the new value directly. Callers must compute delta against the
// setting's value before applying it to c.remoteSettings.
func (c *Codec) adjustStreamSendWindows(delta int64) {
	for _, s := range c.streams {
		s.SendWindow += delta
	}
}

func (c *Codec) handleWindowUpdate(fh FrameHeader, payload []byte, react []byte) ([]byte, error) {
	wf, err := DecodeWindowUpdateFrame(fh, payload)
	if err != nil {
		return react, err
	}
	if fh.StreamID == 0 {
		c.connSendWindow += int64(wf.Increment)
	} else {
		s, ok := c.streams[fh.StreamID]
		if !ok {
			return react, nil
		}
		s.SendWindow += int64(wf.Increment)
	}
	return c.drainPending(react), nil
}

func (c *Codec) handlePing(fh FrameHeader, payload []byte, react []byte) ([]byte, error) {
	pf, err := DecodePingFrame(fh, payload)
	if err != nil {
		return react, err
	}
	if pf.Ack {
		return react, nil
	}
	reply := PingFrame{Ack: true, Data: pf.Data}
	return reply.Encode(react), nil
}

// handleGoAway records the peer's last processed stream id and cancels
// every stream opened above it, since the peer has promised not to
// process them (RFC 7540 section 6.8). Per-stream cancellation errors
// are aggregated with go-multierror purely for logging -- handleGoAway
// itself always returns nil so that reacting to a GOAWAY never trips
// the SeverityConnection path in Decode and echoes a second GOAWAY back
// at a peer that is already closing the connection.
func (c *Codec) handleGoAway(fh FrameHeader, payload []byte) error {
	gf, err := DecodeGoAwayFrame(fh, payload)
	if err != nil {
		return err
	}
	c.goAwayReceived = true
	c.peerGoAwayLastID = gf.LastStreamID

	var cancelled error
	for id, s := range c.streams {
		if id <= gf.LastStreamID {
			continue
		}
		s.State = StreamClosed
		c.priorities.Remove(id)
		delete(c.streams, id)
		c.cfg.metrics.incStreamsClosed()
		cancelled = multierror.Append(cancelled, NewStreamError(id, CancelError, "stream cancelled by peer GOAWAY"))
	}
	if cancelled != nil {
		c.cfg.logger.Debug("cancelled streams above peer GOAWAY last-stream-id",
			zap.Stringer("conn_id", c.ID), zap.Uint32("last_stream_id", gf.LastStreamID), zap.Error(cancelled))
	}
	return nil
}

func (c *Codec) handlePriority(fh FrameHeader, payload []byte) error {
	pf, err := DecodePriorityFrame(fh, payload)
	if err != nil {
		return err
	}
	return c.priorities.Reparent(fh.StreamID, pf.Dependency, pf.Exclusive, pf.Weight)
}

func (c *Codec) handleRSTStream(fh FrameHeader, payload []byte) error {
	_, err := DecodeRSTStreamFrame(fh, payload)
	if err != nil {
		return err
	}
	if s, ok := c.streams[fh.StreamID]; ok {
		s.State = StreamClosed
		c.priorities.Remove(fh.StreamID)
		delete(c.streams, fh.StreamID)
		c.cfg.metrics.incStreamsClosed()
	}
	return nil
}

// getOrCreateRemoteStream returns the Stream for a HEADERS/PUSH_PROMISE
// received on id, enforcing monotonicity of remote-initiated stream ids
// (spec.md section 8 example 6) and the concurrent-stream limit.
func (c *Codec) getOrCreateRemoteStream(id uint32) (*Stream, error) {
	if s, ok := c.streams[id]; ok {
		return s, nil
	}
	if id <= c.highestRemoteStreamID {
		return nil, NewConnError(ProtocolError, "stream id is not monotonically increasing")
	}
	if uint32(len(c.streams)) >= c.localSettings.MaxConcurrentStreams {
		return nil, NewStreamError(id, RefusedStreamError, "MAX_CONCURRENT_STREAMS exceeded")
	}
	c.highestRemoteStreamID = id
	s := NewStream(id, c.remoteSettings.InitialWindowSize, c.localSettings.InitialWindowSize)
	c.streams[id] = s
	c.priorities.ensure(id)
	c.cfg.metrics.incStreamsOpened()
	return s, nil
}

func (c *Codec) handleHeaders(fh FrameHeader, payload []byte, out *Message) error {
	hf, err := DecodeHeadersFrame(fh, payload)
	if err != nil {
		return err
	}

	s, err := c.getOrCreateRemoteStream(fh.StreamID)
	if err != nil {
		return err
	}
	if err := s.recvHeaders(hf.EndStream); err != nil {
		return err
	}

	if hf.HasPriority {
		if err := c.priorities.Reparent(fh.StreamID, hf.Priority.Dependency, hf.Priority.Exclusive, hf.Priority.Weight); err != nil {
			return err
		}
	}

	s.beginHeaderBlock(hf.Fragment)

	if !hf.EndHeaders {
		c.headerStreamID = fh.StreamID
		return nil
	}
	c.headerStreamID = 0
	return c.finishHeaderBlock(s, out)
}

func (c *Codec) handleContinuation(fh FrameHeader, payload []byte, out *Message) error {
	cf, err := DecodeContinuationFrame(fh, payload)
	if err != nil {
		return err
	}
	if c.headerStreamID != fh.StreamID {
		return NewConnError(ProtocolError, "CONTINUATION on unexpected stream")
	}
	s, ok := c.streams[fh.StreamID]
	if !ok {
		return NewConnError(ProtocolError, "CONTINUATION on unknown stream")
	}
	if err := s.appendHeaderFragment(cf.Fragment); err != nil {
		return err
	}
	if !cf.EndHeaders {
		return nil
	}
	c.headerStreamID = 0
	return c.finishHeaderBlock(s, out)
}

// finishHeaderBlock decodes the assembled header block and, on a final
// (non-push) HEADERS/CONTINUATION sequence, hands the resulting Message
// to out.
func (c *Codec) finishHeaderBlock(s *Stream, out *Message) error {
	fields, err := c.hbc.Unpack(s.headerFragment, c.decTable, c.localSettings.HeaderTableSize)
	if err != nil {
		return err
	}
	s.assemblingHeader = false

	msg := s.msg
	if msg == nil {
		msg = &Message{StreamID: s.ID}
		if c.cfg.role == RoleServer {
			msg.Type = MessageRequest
		} else {
			msg.Type = MessageResponse
		}
		s.msg = msg
	}

	if err := c.hbc.Classify(msg, fields, s.bodyStarted); err != nil {
		return err
	}

	if s.State == StreamClosed || s.State == StreamHalfClosedRemote {
		*out = *msg
		delete(c.streams, s.ID)
		c.priorities.Remove(s.ID)
		c.cfg.metrics.incStreamsClosed()
	}
	return nil
}

func (c *Codec) handlePushPromise(fh FrameHeader, payload []byte) error {
	pf, err := DecodePushPromiseFrame(fh, payload)
	if err != nil {
		return err
	}
	if !c.localSettings.EnablePush {
		return NewConnError(ProtocolError, "PUSH_PROMISE received with local ENABLE_PUSH=0")
	}

	promised := NewStream(pf.PromisedStream, c.remoteSettings.InitialWindowSize, c.localSettings.InitialWindowSize)
	promised.State = StreamReservedRemote
	c.streams[pf.PromisedStream] = promised
	c.priorities.ensure(pf.PromisedStream)

	promised.beginHeaderBlock(pf.Fragment)
	if !pf.EndHeaders {
		c.headerStreamID = pf.PromisedStream
		return nil
	}
	var discard Message
	return c.finishHeaderBlock(promised, &discard)
}

func (c *Codec) handleData(fh FrameHeader, payload []byte, out *Message, react []byte) ([]byte, error) {
	s, ok := c.streams[fh.StreamID]
	if !ok {
		return react, NewStreamError(fh.StreamID, StreamClosedError, "DATA on unknown stream")
	}

	df, err := DecodeDataFrame(fh, payload)
	if err != nil {
		return react, err
	}

	n := int64(len(payload))
	c.connRecvWindow -= n
	s.RecvWindow -= n
	if c.connRecvWindow < 0 || s.RecvWindow < 0 {
		return react, NewConnError(FlowControlError, "DATA exceeded receive window")
	}

	if s.msg == nil {
		s.msg = &Message{StreamID: s.ID}
	}
	s.bodyStarted = true
	if s.msg.ChunkNotice && s.msg.OnDataFrame != nil {
		s.msg.OnDataFrame(df.Data, df.EndData)
	} else {
		s.msg.Body = append(s.msg.Body, df.Data...)
	}

	threshold := quarterWindow(c.localSettings.InitialWindowSize)
	if c.connRecvWindow < threshold {
		inc := int64(c.localSettings.InitialWindowSize) - c.connRecvWindow
		wu := WindowUpdateFrame{Increment: uint32(inc)}
		react = wu.Encode(react, 0)
		c.connRecvWindow += inc
	}
	if s.RecvWindow < threshold {
		inc := int64(c.localSettings.InitialWindowSize) - s.RecvWindow
		wu := WindowUpdateFrame{Increment: uint32(inc)}
		react = wu.Encode(react, fh.StreamID)
		s.RecvWindow += inc
	}

	if df.EndData {
		if err := s.recvEndStream(); err != nil {
			return react, err
		}
		*out = *s.msg
		delete(c.streams, s.ID)
		c.priorities.Remove(s.ID)
		c.cfg.metrics.incStreamsClosed()
	}

	return react, nil
}

// TransferHoldingMsg accepts a pre-parsed HTTP/1.1 message that is being
// upgraded to HTTP/2 across an h2c Upgrade boundary. It is held until
// the next Decode call with an empty input buffer, at which point it is
// promoted onto stream 1 in HALF_CLOSED_REMOTE and returned as that
// Decode's message (spec.md section 6).
func (c *Codec) TransferHoldingMsg(msg *Message) {
	c.holdingMsg = msg
}
