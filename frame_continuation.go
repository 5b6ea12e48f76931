package http2

// ContinuationFrame is the CONTINUATION frame payload (RFC 7540
// section 6.10), grounded on dgrr-http2/continuation.go. It carries no
// structure of its own beyond a header-block fragment and the
// END_HEADERS flag.
type ContinuationFrame struct {
	EndHeaders bool
	Fragment   []byte
}

// DecodeContinuationFrame decodes a CONTINUATION frame payload. Callers
// are responsible for verifying it immediately follows a HEADERS,
// PUSH_PROMISE, or CONTINUATION frame without END_HEADERS on the same
// stream (spec.md section 5).
func DecodeContinuationFrame(fh FrameHeader, payload []byte) (ContinuationFrame, error) {
	if fh.StreamID == 0 {
		return ContinuationFrame{}, NewConnError(ProtocolError, "CONTINUATION on stream 0")
	}
	return ContinuationFrame{
		EndHeaders: fh.Flags.Has(FlagEndHeaders),
		Fragment:   payload,
	}, nil
}

// Encode appends the CONTINUATION frame's wire representation to dst.
func (cf ContinuationFrame) Encode(dst []byte, streamID uint32) []byte {
	flags := FrameFlags(0)
	if cf.EndHeaders {
		flags |= FlagEndHeaders
	}
	fh := FrameHeader{Length: len(cf.Fragment), Type: FrameContinuation, Flags: flags, StreamID: streamID}
	dst = fh.Encode(dst)
	return append(dst, cf.Fragment...)
}
