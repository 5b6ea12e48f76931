package http2

// SettingID identifies one SETTINGS parameter (RFC 7540 section 6.5.2).
type SettingID uint16

const (
	SettingHeaderTableSize      SettingID = 0x1
	SettingEnablePush           SettingID = 0x2
	SettingMaxConcurrentStreams SettingID = 0x3
	SettingInitialWindowSize    SettingID = 0x4
	SettingMaxFrameSize         SettingID = 0x5
	SettingMaxHeaderListSize    SettingID = 0x6
)

// SettingPair is one (identifier, value) entry of a SETTINGS frame.
type SettingPair struct {
	ID    SettingID
	Value uint32
}

// Default and bound values from RFC 7540 section 6.5.2, grounded on
// dgrr-http2/settings.go (package fasthttp2 snapshot).
const (
	defaultHeaderTableSize   uint32 = 4096
	defaultConcurrentStreams uint32 = 100
	defaultInitialWindowSize uint32 = 1<<16 - 1
	defaultMaxFrameSize      uint32 = 1 << 14

	maxWindowSize uint32 = 1<<31 - 1
	maxFrameSize  uint32 = 1<<24 - 1
)

// Settings holds the negotiated connection parameters for one
// direction (what we have told the peer, or what the peer has told us).
type Settings struct {
	HeaderTableSize      uint32
	EnablePush           bool
	MaxConcurrentStreams uint32
	InitialWindowSize    uint32
	MaxFrameSize         uint32
	MaxHeaderListSize    uint32 // 0 means unlimited
}

// DefaultSettings returns the RFC 7540 default parameter set.
func DefaultSettings() Settings {
	return Settings{
		HeaderTableSize:      defaultHeaderTableSize,
		EnablePush:           true,
		MaxConcurrentStreams: defaultConcurrentStreams,
		InitialWindowSize:    defaultInitialWindowSize,
		MaxFrameSize:         defaultMaxFrameSize,
	}
}

// Apply applies one SETTINGS parameter to s, validating its range per
// RFC 7540 section 6.5.2. Unknown identifiers are ignored, not errors.
func (s *Settings) Apply(p SettingPair) error {
	switch p.ID {
	case SettingHeaderTableSize:
		s.HeaderTableSize = p.Value
	case SettingEnablePush:
		if p.Value > 1 {
			return NewConnError(ProtocolError, "ENABLE_PUSH must be 0 or 1")
		}
		s.EnablePush = p.Value == 1
	case SettingMaxConcurrentStreams:
		s.MaxConcurrentStreams = p.Value
	case SettingInitialWindowSize:
		if p.Value > maxWindowSize {
			return NewConnError(FlowControlError, "INITIAL_WINDOW_SIZE exceeds 2^31-1")
		}
		s.InitialWindowSize = p.Value
	case SettingMaxFrameSize:
		if p.Value < defaultMaxFrameSize || p.Value > maxFrameSize {
			return NewConnError(ProtocolError, "MAX_FRAME_SIZE out of range")
		}
		s.MaxFrameSize = p.Value
	case SettingMaxHeaderListSize:
		s.MaxHeaderListSize = p.Value
	default:
		// unknown identifiers MUST be ignored
	}
	return nil
}

// AsPairs returns the non-default subset of s as an ordered list of
// SettingPair, suitable for encoding into a SETTINGS frame.
func (s *Settings) AsPairs() []SettingPair {
	def := DefaultSettings()
	var pairs []SettingPair

	if s.HeaderTableSize != def.HeaderTableSize {
		pairs = append(pairs, SettingPair{SettingHeaderTableSize, s.HeaderTableSize})
	}
	if s.EnablePush != def.EnablePush {
		v := uint32(0)
		if s.EnablePush {
			v = 1
		}
		pairs = append(pairs, SettingPair{SettingEnablePush, v})
	}
	if s.MaxConcurrentStreams != def.MaxConcurrentStreams {
		pairs = append(pairs, SettingPair{SettingMaxConcurrentStreams, s.MaxConcurrentStreams})
	}
	if s.InitialWindowSize != def.InitialWindowSize {
		pairs = append(pairs, SettingPair{SettingInitialWindowSize, s.InitialWindowSize})
	}
	if s.MaxFrameSize != def.MaxFrameSize {
		pairs = append(pairs, SettingPair{SettingMaxFrameSize, s.MaxFrameSize})
	}
	if s.MaxHeaderListSize != 0 {
		pairs = append(pairs, SettingPair{SettingMaxHeaderListSize, s.MaxHeaderListSize})
	}
	return pairs
}
