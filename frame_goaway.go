package http2

import "github.com/nebulah2/h2codec/http2utils"

// GoAwayFrame is the GOAWAY frame payload (RFC 7540 section 6.8),
// grounded on dgrr-http2/goaway.go.
type GoAwayFrame struct {
	LastStreamID uint32
	Code         ErrorCode
	Debug        []byte
}

// DecodeGoAwayFrame decodes a GOAWAY frame payload.
func DecodeGoAwayFrame(fh FrameHeader, payload []byte) (GoAwayFrame, error) {
	if fh.StreamID != 0 {
		return GoAwayFrame{}, NewConnError(ProtocolError, "GOAWAY on non-zero stream")
	}
	if len(payload) < 8 {
		return GoAwayFrame{}, NewConnError(FrameSizeError, "GOAWAY truncated")
	}
	return GoAwayFrame{
		LastStreamID: http2utils.BytesToUint32(payload[:4]) & (1<<31 - 1),
		Code:         ErrorCode(http2utils.BytesToUint32(payload[4:8])),
		Debug:        payload[8:],
	}, nil
}

// Encode appends the GOAWAY frame's wire representation to dst.
func (gf GoAwayFrame) Encode(dst []byte) []byte {
	body := make([]byte, 8+len(gf.Debug))
	http2utils.Uint32ToBytes(body[:4], gf.LastStreamID&(1<<31-1))
	http2utils.Uint32ToBytes(body[4:8], uint32(gf.Code))
	copy(body[8:], gf.Debug)

	fh := FrameHeader{Length: len(body), Type: FrameGoAway}
	dst = fh.Encode(dst)
	return append(dst, body...)
}
