package http2

import "github.com/nebulah2/h2codec/http2utils"

// PriorityFrame is the PRIORITY frame payload (RFC 7540 section 6.3),
// grounded on dgrr-http2/priority.go.
type PriorityFrame struct {
	Exclusive  bool
	Dependency uint32
	Weight     byte // stored as byte value 0..255, meaning weight-1
}

// DecodePriorityFrame decodes the PRIORITY frame payload fh describes. Length must
// be exactly 5 octets.
func DecodePriorityFrame(fh FrameHeader, payload []byte) (PriorityFrame, error) {
	if fh.StreamID == 0 {
		return PriorityFrame{}, NewConnError(ProtocolError, "PRIORITY on stream 0")
	}
	if len(payload) != 5 {
		return PriorityFrame{}, NewConnError(FrameSizeError, "PRIORITY length must be 5")
	}

	dep := http2utils.BytesToUint32(payload[:4])
	pf := PriorityFrame{
		Exclusive:  dep&0x80000000 != 0,
		Dependency: dep & (1<<31 - 1),
		Weight:     payload[4],
	}
	if pf.Dependency == fh.StreamID {
		return PriorityFrame{}, NewStreamError(fh.StreamID, ProtocolError, "stream cannot depend on itself")
	}
	return pf, nil
}

// Encode appends the PRIORITY frame's wire representation to dst.
func (pf PriorityFrame) Encode(dst []byte, streamID uint32) []byte {
	fh := FrameHeader{Length: 5, Type: FramePriority, StreamID: streamID}
	dst = fh.Encode(dst)

	dep := pf.Dependency & (1<<31 - 1)
	if pf.Exclusive {
		dep |= 0x80000000
	}
	var body [5]byte
	http2utils.Uint32ToBytes(body[:4], dep)
	body[4] = pf.Weight
	return append(dst, body[:]...)
}
