package http2

// PingFrame is the PING frame payload (RFC 7540 section 6.7), grounded
// on dgrr-http2/ping.go. Used both to probe liveness (spec.md section 6
// server-open behavior) and to answer a peer's probe.
type PingFrame struct {
	Ack  bool
	Data [8]byte
}

// DecodePingFrame decodes a PING frame payload. Length must be exactly 8.
func DecodePingFrame(fh FrameHeader, payload []byte) (PingFrame, error) {
	if fh.StreamID != 0 {
		return PingFrame{}, NewConnError(ProtocolError, "PING on non-zero stream")
	}
	if len(payload) != 8 {
		return PingFrame{}, NewConnError(FrameSizeError, "PING length must be 8")
	}
	pf := PingFrame{Ack: fh.Flags.Has(FlagAck)}
	copy(pf.Data[:], payload)
	return pf, nil
}

// Encode appends the PING frame's wire representation to dst.
func (pf PingFrame) Encode(dst []byte) []byte {
	flags := FrameFlags(0)
	if pf.Ack {
		flags |= FlagAck
	}
	fh := FrameHeader{Length: 8, Type: FramePing, Flags: flags}
	dst = fh.Encode(dst)
	return append(dst, pf.Data[:]...)
}
