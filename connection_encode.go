package http2

import "strconv"

// Encode translates a structured Message into HEADERS (+ CONTINUATION,
// if the header block exceeds MAX_FRAME_SIZE) and DATA frames, invoking
// the owning Stream's send-side state transitions, and appends them to
// out. Requests supplied with a non-zero StreamID are rejected, since
// the codec assigns request stream ids; responses must carry the
// StreamID of the request they answer (spec.md section 6).
func (c *Codec) Encode(msg *Message, out *ByteBuffer) error {
	var s *Stream

	if msg.Type == MessageRequest {
		if msg.StreamID != 0 {
			return NewConnError(ProtocolError, "request Message must not set StreamID")
		}
		id := c.nextLocalStreamID
		c.nextLocalStreamID += 2
		s = NewStream(id, c.remoteSettings.InitialWindowSize, c.localSettings.InitialWindowSize)
		c.streams[id] = s
		c.priorities.ensure(id)
		msg.StreamID = id
		c.cfg.metrics.incStreamsOpened()
	} else {
		existing, ok := c.streams[msg.StreamID]
		if !ok {
			return NewConnError(ProtocolError, "response Message references unknown stream")
		}
		s = existing
	}

	hasBody := len(msg.Body) > 0
	hasTrailers := len(msg.Trailers) > 0
	endStreamOnHeaders := !hasBody && !hasTrailers

	if err := s.sendHeaders(endStreamOnHeaders); err != nil {
		return err
	}

	buf := out.Bytes()

	var block []byte
	if msg.DynamicTableUpdateSize != 0 {
		block = c.hbc.PackSizeUpdate(block, msg.DynamicTableUpdateSize)
		c.encTable.SetCapacity(int(msg.DynamicTableUpdateSize))
	}

	entries := msg.PseudoHeaders
	if len(entries) == 0 {
		entries = buildPseudoHeaders(msg)
	}
	entries = append(append([]HeaderEntry{}, entries...), msg.Headers...)

	neverIndex := unionNameSets(c.cfg.neverIndexNames, msg.NeverIndexNames)
	withoutIndex := unionNameSets(c.cfg.withoutIndexNames, msg.WithoutIndexNames)

	block = c.hbc.Pack(block, entries, c.encTable, msg.WithHuffman, neverIndex, withoutIndex)

	buf = c.encodeHeaderBlock(buf, s.ID, block, endStreamOnHeaders)
	c.cfg.metrics.observeFrameSent(FrameHeadersType)

	if hasBody {
		buf = c.encodeBody(buf, s, msg, !hasTrailers)
	}

	if hasTrailers {
		trailerBlock := c.hbc.Pack(nil, msg.Trailers, c.encTable, msg.WithHuffman, neverIndex, withoutIndex)
		buf = c.encodeHeaderBlock(buf, s.ID, trailerBlock, true)
	}

	c.writeBytes(out, buf)
	return nil
}

// encodeHeaderBlock splits block into HEADERS + CONTINUATION frames no
// larger than the peer's negotiated MAX_FRAME_SIZE.
func (c *Codec) encodeHeaderBlock(dst []byte, streamID uint32, block []byte, endStream bool) []byte {
	maxLen := int(c.remoteSettings.MaxFrameSize)
	if maxLen <= 0 {
		maxLen = int(defaultMaxFrameSize)
	}

	first := block
	rest := []byte(nil)
	if len(block) > maxLen {
		first, rest = block[:maxLen], block[maxLen:]
	}

	hf := HeadersFrame{EndStream: endStream}
	dst = hf.Encode(dst, streamID, first, len(rest) == 0)

	for len(rest) > 0 {
		chunk := rest
		end := true
		if len(chunk) > maxLen {
			chunk, rest = rest[:maxLen], rest[maxLen:]
			end = false
		} else {
			rest = nil
		}
		cf := ContinuationFrame{EndHeaders: end, Fragment: chunk}
		dst = cf.Encode(dst, streamID)
		c.cfg.metrics.observeFrameSent(FrameContinuation)
	}

	return dst
}

// encodeBody splits msg.Body into MAX_FRAME_SIZE chunks and emits a DATA
// frame for each one that both the connection and stream send windows
// currently admit; any remainder is queued on the stream and later
// drained by SendWaittingFrameData once a WINDOW_UPDATE arrives
// (spec.md section 5).
func (c *Codec) encodeBody(dst []byte, s *Stream, msg *Message, endOnLastChunk bool) []byte {
	maxLen := int64(c.remoteSettings.MaxFrameSize)
	if maxLen <= 0 {
		maxLen = int64(defaultMaxFrameSize)
	}

	body := msg.Body
	for len(body) > 0 {
		budget := minInt64(maxLen, c.connSendWindow, s.SendWindow)
		if budget <= 0 {
			s.enqueue(body, endOnLastChunk)
			return dst
		}
		n := int64(len(body))
		if n > budget {
			n = budget
		}
		chunk := body[:n]
		body = body[n:]

		end := endOnLastChunk && len(body) == 0
		df := DataFrame{Data: chunk, EndData: end}
		dst = df.Encode(dst, s.ID, false)
		c.cfg.metrics.observeFrameSent(FrameData)

		c.connSendWindow -= n
		s.SendWindow -= n

		if msg.ChunkNotice && msg.OnDataFrame != nil {
			msg.OnDataFrame(chunk, end)
		}

		if end {
			if err := s.sendEndStream(); err == nil && s.State == StreamClosed {
				delete(c.streams, s.ID)
				c.priorities.Remove(s.ID)
				c.cfg.metrics.incStreamsClosed()
			}
		}
	}
	return dst
}

// drainPending flushes every stream's queued outbound DATA that the
// current windows now admit, in priority-tree order, appending the
// resulting frames to react.
func (c *Codec) drainPending(react []byte) []byte {
	return c.SendWaittingFrameData(react)
}

// SendWaittingFrameData walks the priority tree draining queued
// outbound DATA for every eligible stream (has pending data and a
// positive send window), called after a WINDOW_UPDATE is processed.
// Re-architected to always advance the traversal even when a stream's
// window empties mid-drain, rather than re-examining the same stream
// forever.
func (c *Codec) SendWaittingFrameData(dst []byte) []byte {
	if c.connSendWindow <= 0 {
		return dst
	}

	order := c.priorities.Traverse(func(id uint32) bool {
		s, ok := c.streams[id]
		return ok && s.hasPending() && s.SendWindow > 0
	})

	for _, id := range order {
		if c.connSendWindow <= 0 {
			break
		}
		s := c.streams[id]
		dst = c.drainStream(dst, s)
	}
	return dst
}

// drainStream emits as many of s's queued chunks as the current windows
// admit, splitting a chunk if only part of it fits.
func (c *Codec) drainStream(dst []byte, s *Stream) []byte {
	maxLen := int64(c.remoteSettings.MaxFrameSize)
	if maxLen <= 0 {
		maxLen = int64(defaultMaxFrameSize)
	}

	for len(s.pending) > 0 {
		budget := minInt64(maxLen, c.connSendWindow, s.SendWindow)
		if budget <= 0 {
			return dst
		}

		head := s.pending[0]
		n := int64(len(head.data))
		sendEnd := head.endStream
		if n > budget {
			n = budget
			sendEnd = false
		}

		chunk := head.data[:n]
		df := DataFrame{Data: chunk, EndData: sendEnd}
		dst = df.Encode(dst, s.ID, false)
		c.cfg.metrics.observeFrameSent(FrameData)

		c.connSendWindow -= n
		s.SendWindow -= n

		if n == int64(len(head.data)) {
			s.pending = s.pending[1:]
			if head.endStream {
				if err := s.sendEndStream(); err == nil && s.State == StreamClosed {
					delete(c.streams, s.ID)
					c.priorities.Remove(s.ID)
					c.cfg.metrics.incStreamsClosed()
				}
			}
		} else {
			s.pending[0].data = head.data[n:]
		}
	}
	return dst
}

// unionNameSets merges a connection-wide name set (configured once via
// WithNeverIndexNames/WithoutIndexNames) with a per-message set, without
// mutating either input. When one side is empty the other is returned
// as is (nil when both are nil), so callers that never configure either
// pay no allocation.
func unionNameSets(connLevel, perMessage map[string]struct{}) map[string]struct{} {
	if len(connLevel) == 0 {
		return perMessage
	}
	if len(perMessage) == 0 {
		return connLevel
	}
	merged := make(map[string]struct{}, len(connLevel)+len(perMessage))
	for n := range connLevel {
		merged[n] = struct{}{}
	}
	for n := range perMessage {
		merged[n] = struct{}{}
	}
	return merged
}

func minInt64(vs ...int64) int64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// buildPseudoHeaders derives the pseudo-header entries for msg from its
// typed fields when the caller has not already populated PseudoHeaders
// directly (e.g. to control on-wire ordering).
func buildPseudoHeaders(msg *Message) []HeaderEntry {
	var out []HeaderEntry
	if msg.Type == MessageRequest {
		if msg.Method != "" {
			out = append(out, HeaderEntry{Name: ":method", Value: msg.Method})
		}
		if msg.Scheme != "" {
			out = append(out, HeaderEntry{Name: ":scheme", Value: msg.Scheme})
		}
		if msg.Authority != "" {
			out = append(out, HeaderEntry{Name: ":authority", Value: msg.Authority})
		}
		if msg.Path != "" {
			out = append(out, HeaderEntry{Name: ":path", Value: msg.Path})
		}
		return out
	}
	if msg.StatusCode != 0 {
		out = append(out, HeaderEntry{Name: ":status", Value: strconv.Itoa(msg.StatusCode)})
	}
	return out
}
