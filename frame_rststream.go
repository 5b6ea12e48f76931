package http2

import "github.com/nebulah2/h2codec/http2utils"

// RSTStreamFrame is the RST_STREAM frame payload (RFC 7540 section 6.4),
// grounded on dgrr-http2/rststream.go.
type RSTStreamFrame struct {
	Code ErrorCode
}

// DecodeRSTStreamFrame decodes an RST_STREAM frame payload. Length must
// be exactly 4 octets.
func DecodeRSTStreamFrame(fh FrameHeader, payload []byte) (RSTStreamFrame, error) {
	if fh.StreamID == 0 {
		return RSTStreamFrame{}, NewConnError(ProtocolError, "RST_STREAM on stream 0")
	}
	if len(payload) != 4 {
		return RSTStreamFrame{}, NewConnError(FrameSizeError, "RST_STREAM length must be 4")
	}
	return RSTStreamFrame{Code: ErrorCode(http2utils.BytesToUint32(payload))}, nil
}

// Encode appends the RST_STREAM frame's wire representation to dst.
func (rf RSTStreamFrame) Encode(dst []byte, streamID uint32) []byte {
	fh := FrameHeader{Length: 4, Type: FrameRSTStream, StreamID: streamID}
	dst = fh.Encode(dst)
	var body [4]byte
	http2utils.Uint32ToBytes(body[:], uint32(rf.Code))
	return append(dst, body[:]...)
}
