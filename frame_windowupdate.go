package http2

import "github.com/nebulah2/h2codec/http2utils"

// WindowUpdateFrame is the WINDOW_UPDATE frame payload (RFC 7540
// section 6.9), grounded on dgrr-http2/windowUpdate.go. Applies to the
// connection window when StreamID is 0 on the enclosing FrameHeader,
// otherwise to the identified stream.
type WindowUpdateFrame struct {
	Increment uint32
}

// DecodeWindowUpdateFrame decodes a WINDOW_UPDATE frame payload. Length
// must be exactly 4; a zero increment is a PROTOCOL_ERROR scoped to the
// stream it arrived on, or FLOW_CONTROL_ERROR at the connection level
// when stream id is 0.
func DecodeWindowUpdateFrame(fh FrameHeader, payload []byte) (WindowUpdateFrame, error) {
	if len(payload) != 4 {
		return WindowUpdateFrame{}, NewConnError(FrameSizeError, "WINDOW_UPDATE length must be 4")
	}
	inc := http2utils.BytesToUint32(payload) & (1<<31 - 1)
	if inc == 0 {
		if fh.StreamID == 0 {
			return WindowUpdateFrame{}, NewConnError(FlowControlError, "zero WINDOW_UPDATE increment on connection")
		}
		return WindowUpdateFrame{}, NewStreamError(fh.StreamID, ProtocolError, "zero WINDOW_UPDATE increment")
	}
	return WindowUpdateFrame{Increment: inc}, nil
}

// Encode appends the WINDOW_UPDATE frame's wire representation to dst.
func (wf WindowUpdateFrame) Encode(dst []byte, streamID uint32) []byte {
	fh := FrameHeader{Length: 4, Type: FrameWindowUpdate, StreamID: streamID}
	dst = fh.Encode(dst)
	var body [4]byte
	http2utils.Uint32ToBytes(body[:], wf.Increment&(1<<31-1))
	return append(dst, body[:]...)
}
