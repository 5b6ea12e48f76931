package http2

import (
	"fmt"

	"github.com/nebulah2/h2codec/http2utils"
)

// FrameHeaderLen is the fixed 9-octet size of a frame header
// (RFC 7540 section 4.1).
const FrameHeaderLen = 9

// FrameType identifies the nine standard HTTP/2 frame types. Extension
// frame types are an explicit non-goal (spec.md section 7).
type FrameType uint8

const (
	FrameData         FrameType = 0x0
	FrameHeadersType  FrameType = 0x1
	FramePriority     FrameType = 0x2
	FrameRSTStream    FrameType = 0x3
	FrameSettings     FrameType = 0x4
	FramePushPromise  FrameType = 0x5
	FramePing         FrameType = 0x6
	FrameGoAway       FrameType = 0x7
	FrameWindowUpdate FrameType = 0x8
	FrameContinuation FrameType = 0x9
)

var frameTypeNames = map[FrameType]string{
	FrameData:         "DATA",
	FrameHeadersType:  "HEADERS",
	FramePriority:     "PRIORITY",
	FrameRSTStream:    "RST_STREAM",
	FrameSettings:     "SETTINGS",
	FramePushPromise:  "PUSH_PROMISE",
	FramePing:         "PING",
	FrameGoAway:       "GOAWAY",
	FrameWindowUpdate: "WINDOW_UPDATE",
	FrameContinuation: "CONTINUATION",
}

func (t FrameType) String() string {
	if s, ok := frameTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("UNKNOWN_FRAME(0x%x)", uint8(t))
}

// FrameFlags is the frame header's 8-bit flags octet. The bit each flag
// occupies is reused across frame types (RFC 7540 section 4.1), so the
// meaning of a given bit depends on the frame's Type.
type FrameFlags uint8

const (
	FlagAck        FrameFlags = 0x1
	FlagEndStream  FrameFlags = 0x1
	FlagEndHeaders FrameFlags = 0x4
	FlagPadded     FrameFlags = 0x8
	FlagPriority   FrameFlags = 0x20
)

// Has reports whether f is set in flags.
func (flags FrameFlags) Has(f FrameFlags) bool {
	return flags&f == f
}

// FrameHeader is the decoded 9-octet frame header preceding every frame
// payload. Grounded on dgrr-http2/frameHeader.go's FrameHeader, stripped
// of its sync.Pool/bufio.Reader coupling: this codec reads off a
// ByteBuffer so decode can pause and resume instead of blocking.
type FrameHeader struct {
	Length   int
	Type     FrameType
	Flags    FrameFlags
	StreamID uint32
}

// Encode appends the 9-octet wire representation of fh to dst.
func (fh FrameHeader) Encode(dst []byte) []byte {
	var raw [FrameHeaderLen]byte
	http2utils.Uint24ToBytes(raw[:3], uint32(fh.Length))
	raw[3] = byte(fh.Type)
	raw[4] = byte(fh.Flags)
	http2utils.Uint32ToBytes(raw[5:], fh.StreamID&(1<<31-1))
	return append(dst, raw[:]...)
}

// PeekFrameHeader reports whether a complete frame header is available at
// bb's read cursor without consuming it. Returns StatusPause, not an
// error, when fewer than FrameHeaderLen bytes are buffered -- the
// connection codec's non-blocking decode loop relies on this to know
// when to wait for more input rather than treating short input as
// malformed (spec.md section 4.2).
func PeekFrameHeader(bb *ByteBuffer) (FrameHeader, DecodeStatus, error) {
	raw, err := bb.Peek(FrameHeaderLen)
	if err != nil {
		return FrameHeader{}, StatusPause, nil
	}

	fh := FrameHeader{
		Length:   int(http2utils.BytesToUint24(raw[:3])),
		Type:     FrameType(raw[3]),
		Flags:    FrameFlags(raw[4]),
		StreamID: http2utils.BytesToUint32(raw[5:]) & (1<<31 - 1),
	}
	return fh, StatusOK, nil
}

// DecodeFrameHeader consumes FrameHeaderLen bytes from bb and parses
// them. Callers must have already confirmed availability with
// PeekFrameHeader.
func DecodeFrameHeader(bb *ByteBuffer) (FrameHeader, error) {
	raw, err := bb.ReadN(FrameHeaderLen)
	if err != nil {
		return FrameHeader{}, err
	}
	return FrameHeader{
		Length:   int(http2utils.BytesToUint24(raw[:3])),
		Type:     FrameType(raw[3]),
		Flags:    FrameFlags(raw[4]),
		StreamID: http2utils.BytesToUint32(raw[5:]) & (1<<31 - 1),
	}, nil
}
