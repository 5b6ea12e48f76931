package http2

import "github.com/nebulah2/h2codec/http2utils"

// HeadersFrame is the HEADERS frame payload (RFC 7540 section 6.2),
// grounded on dgrr-http2/headers.go. The header-block fragment is left
// undecoded here -- StreamFSM accumulates it across CONTINUATION frames
// before handing the full block to HeaderBlockCodec.
type HeadersFrame struct {
	EndStream  bool
	EndHeaders bool
	HasPriority bool
	Priority   PriorityFrame
	Fragment   []byte
}

// DecodeHeadersFrame decodes a HEADERS frame payload.
func DecodeHeadersFrame(fh FrameHeader, payload []byte) (HeadersFrame, error) {
	if fh.StreamID == 0 {
		return HeadersFrame{}, NewConnError(ProtocolError, "HEADERS on stream 0")
	}

	if fh.Flags.Has(FlagPadded) {
		cut, err := http2utils.CutPadding(payload, len(payload))
		if err != nil {
			return HeadersFrame{}, NewStreamError(fh.StreamID, ProtocolError, "invalid HEADERS padding")
		}
		payload = cut
	}

	hf := HeadersFrame{
		EndStream:  fh.Flags.Has(FlagEndStream),
		EndHeaders: fh.Flags.Has(FlagEndHeaders),
	}

	if fh.Flags.Has(FlagPriority) {
		if len(payload) < 5 {
			return HeadersFrame{}, NewConnError(FrameSizeError, "HEADERS priority block truncated")
		}
		dep := http2utils.BytesToUint32(payload[:4])
		hf.HasPriority = true
		hf.Priority = PriorityFrame{
			Exclusive:  dep&0x80000000 != 0,
			Dependency: dep & (1<<31 - 1),
			Weight:     payload[4],
		}
		payload = payload[5:]
	}

	hf.Fragment = payload
	return hf, nil
}

// Encode appends the HEADERS frame's wire representation to dst.
// fragment is a single frame's worth of header-block bytes; callers
// split a larger block across HEADERS + CONTINUATION before calling
// this per-frame.
func (hf HeadersFrame) Encode(dst []byte, streamID uint32, fragment []byte, endHeaders bool) []byte {
	flags := FrameFlags(0)
	if hf.EndStream {
		flags |= FlagEndStream
	}
	if endHeaders {
		flags |= FlagEndHeaders
	}

	body := fragment
	if hf.HasPriority {
		dep := hf.Priority.Dependency & (1<<31 - 1)
		if hf.Priority.Exclusive {
			dep |= 0x80000000
		}
		var prio [5]byte
		http2utils.Uint32ToBytes(prio[:4], dep)
		prio[4] = hf.Priority.Weight
		flags |= FlagPriority
		body = append(append([]byte(nil), prio[:]...), fragment...)
	}

	fh := FrameHeader{Length: len(body), Type: FrameHeadersType, Flags: flags, StreamID: streamID}
	dst = fh.Encode(dst)
	return append(dst, body...)
}
