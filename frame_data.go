package http2

import "github.com/nebulah2/h2codec/http2utils"

// DataFrame is the DATA frame payload (RFC 7540 section 6.1), grounded
// on dgrr-http2/data.go's padding handling.
type DataFrame struct {
	Data    []byte
	Padded  bool
	PadLen  int
	EndData bool
}

// DecodeDataFrame unpacks a DATA frame payload. stream must be > 0.
func DecodeDataFrame(fh FrameHeader, payload []byte) (DataFrame, error) {
	if fh.StreamID == 0 {
		return DataFrame{}, NewConnError(ProtocolError, "DATA on stream 0")
	}

	df := DataFrame{EndData: fh.Flags.Has(FlagEndStream)}

	if fh.Flags.Has(FlagPadded) {
		df.Padded = true
		data, err := http2utils.CutPadding(payload, len(payload))
		if err != nil {
			return DataFrame{}, NewStreamError(fh.StreamID, ProtocolError, "invalid DATA padding")
		}
		if len(payload) > 0 {
			df.PadLen = int(payload[0])
		}
		df.Data = data
		return df, nil
	}

	df.Data = payload
	return df, nil
}

// Encode appends the DATA frame's wire representation (header + payload)
// to dst. If padded is set the PADDED flag is raised and
// http2utils.AddPadding adds a pad-length octet plus a random amount
// (9..255 bytes) of padding.
func (df DataFrame) Encode(dst []byte, streamID uint32, padded bool) []byte {
	payload := df.Data
	flags := FrameFlags(0)
	if df.EndData {
		flags |= FlagEndStream
	}
	if padded {
		flags |= FlagPadded
		payload = http2utils.AddPadding(append([]byte(nil), df.Data...))
	}

	fh := FrameHeader{Length: len(payload), Type: FrameData, Flags: flags, StreamID: streamID}
	dst = fh.Encode(dst)
	return append(dst, payload...)
}
