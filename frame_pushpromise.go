package http2

import "github.com/nebulah2/h2codec/http2utils"

// PushPromiseFrame is the PUSH_PROMISE frame payload (RFC 7540
// section 6.6), grounded on dgrr-http2/pushpromise.go. This codec
// supports reception only (spec.md section 9): server-initiated push
// encoding is a non-goal, so Encode exists for symmetry with the other
// frame types but is unused by ConnectionCodec today.
type PushPromiseFrame struct {
	EndHeaders     bool
	PromisedStream uint32
	Fragment       []byte
}

// DecodePushPromiseFrame decodes a PUSH_PROMISE frame payload.
func DecodePushPromiseFrame(fh FrameHeader, payload []byte) (PushPromiseFrame, error) {
	if fh.StreamID == 0 {
		return PushPromiseFrame{}, NewConnError(ProtocolError, "PUSH_PROMISE on stream 0")
	}

	if fh.Flags.Has(FlagPadded) {
		cut, err := http2utils.CutPadding(payload, len(payload))
		if err != nil {
			return PushPromiseFrame{}, NewStreamError(fh.StreamID, ProtocolError, "invalid PUSH_PROMISE padding")
		}
		payload = cut
	}

	if len(payload) < 4 {
		return PushPromiseFrame{}, NewConnError(FrameSizeError, "PUSH_PROMISE truncated")
	}

	return PushPromiseFrame{
		EndHeaders:     fh.Flags.Has(FlagEndHeaders),
		PromisedStream: http2utils.BytesToUint32(payload[:4]) & (1<<31 - 1),
		Fragment:       payload[4:],
	}, nil
}

// Encode appends the PUSH_PROMISE frame's wire representation to dst.
func (pf PushPromiseFrame) Encode(dst []byte, streamID uint32) []byte {
	flags := FrameFlags(0)
	if pf.EndHeaders {
		flags |= FlagEndHeaders
	}

	var promised [4]byte
	http2utils.Uint32ToBytes(promised[:], pf.PromisedStream&(1<<31-1))
	body := append(promised[:], pf.Fragment...)

	fh := FrameHeader{Length: len(body), Type: FramePushPromise, Flags: flags, StreamID: streamID}
	dst = fh.Encode(dst)
	return append(dst, body...)
}
