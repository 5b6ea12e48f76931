package http2

import "github.com/nebulah2/h2codec/http2utils"

// settingEntryLen is the wire size of one (identifier, value) pair
// within a SETTINGS frame payload.
const settingEntryLen = 6

// SettingsFrame is the SETTINGS frame payload (RFC 7540 section 6.5),
// grounded on dgrr-http2/settings.go (package fasthttp2 snapshot).
type SettingsFrame struct {
	Ack    bool
	Params []SettingPair
}

// DecodeSettingsFrame decodes a SETTINGS frame payload. Length must be a
// multiple of 6; an ACK with non-zero length is a FRAME_SIZE_ERROR.
func DecodeSettingsFrame(fh FrameHeader, payload []byte) (SettingsFrame, error) {
	if fh.StreamID != 0 {
		return SettingsFrame{}, NewConnError(ProtocolError, "SETTINGS on non-zero stream")
	}

	sf := SettingsFrame{Ack: fh.Flags.Has(FlagAck)}
	if sf.Ack {
		if len(payload) != 0 {
			return SettingsFrame{}, NewConnError(FrameSizeError, "SETTINGS ack must be empty")
		}
		return sf, nil
	}

	if len(payload)%settingEntryLen != 0 {
		return SettingsFrame{}, NewConnError(FrameSizeError, "SETTINGS length not a multiple of 6")
	}

	for i := 0; i+settingEntryLen <= len(payload); i += settingEntryLen {
		id := SettingID(uint16(payload[i])<<8 | uint16(payload[i+1]))
		value := http2utils.BytesToUint32(payload[i+2 : i+6])
		sf.Params = append(sf.Params, SettingPair{ID: id, Value: value})
	}
	return sf, nil
}

// Encode appends the SETTINGS frame's wire representation to dst.
func (sf SettingsFrame) Encode(dst []byte) []byte {
	flags := FrameFlags(0)
	if sf.Ack {
		flags |= FlagAck
		fh := FrameHeader{Length: 0, Type: FrameSettings, Flags: flags}
		return fh.Encode(dst)
	}

	body := make([]byte, 0, len(sf.Params)*settingEntryLen)
	for _, p := range sf.Params {
		body = append(body, byte(p.ID>>8), byte(p.ID))
		var v [4]byte
		http2utils.Uint32ToBytes(v[:], p.Value)
		body = append(body, v[:]...)
	}

	fh := FrameHeader{Length: len(body), Type: FrameSettings, Flags: flags}
	dst = fh.Encode(dst)
	return append(dst, body...)
}
