package http2

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode is an HTTP/2 error code as defined by RFC 7540 section 11.4.
type ErrorCode uint32

// Error codes (https://httpwg.org/specs/rfc7540.html#ErrorCodes).
const (
	NoError              ErrorCode = 0x0
	ProtocolError        ErrorCode = 0x1
	InternalError        ErrorCode = 0x2
	FlowControlError     ErrorCode = 0x3
	SettingsTimeoutError ErrorCode = 0x4
	StreamClosedError    ErrorCode = 0x5
	FrameSizeError       ErrorCode = 0x6
	RefusedStreamError   ErrorCode = 0x7
	CancelError          ErrorCode = 0x8
	CompressionError     ErrorCode = 0x9
	ConnectError         ErrorCode = 0xa
	EnhanceYourCalmError ErrorCode = 0xb
	InadequateSecurity   ErrorCode = 0xc
	HTTP11Required       ErrorCode = 0xd
)

var errorCodeNames = map[ErrorCode]string{
	NoError:              "NO_ERROR",
	ProtocolError:        "PROTOCOL_ERROR",
	InternalError:        "INTERNAL_ERROR",
	FlowControlError:     "FLOW_CONTROL_ERROR",
	SettingsTimeoutError: "SETTINGS_TIMEOUT",
	StreamClosedError:    "STREAM_CLOSED",
	FrameSizeError:       "FRAME_SIZE_ERROR",
	RefusedStreamError:   "REFUSED_STREAM",
	CancelError:          "CANCEL",
	CompressionError:     "COMPRESSION_ERROR",
	ConnectError:         "CONNECT_ERROR",
	EnhanceYourCalmError: "ENHANCE_YOUR_CALM",
	InadequateSecurity:   "INADEQUATE_SECURITY",
	HTTP11Required:       "HTTP_1_1_REQUIRED",
}

// String returns the RFC 7540 name of the error code.
func (c ErrorCode) String() string {
	if s, ok := errorCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("UNKNOWN_ERROR(0x%x)", uint32(c))
}

// DecodeStatus reports whether a decode routine produced a value or
// needs more input. A decode function never blocks to
// wait for bytes; StatusPause tells the caller to come back once more
// data has arrived, with the read cursor left exactly where it was
// (spec.md section 8's PAUSE invariant).
type DecodeStatus uint8

const (
	StatusOK DecodeStatus = iota
	StatusPause
)

// Severity distinguishes errors that close the whole connection from
// errors scoped to a single stream.
type Severity uint8

const (
	// SeverityStream errors are handled by resetting a single stream;
	// the connection continues.
	SeverityStream Severity = iota
	// SeverityConnection errors require a GOAWAY and closing the transport.
	SeverityConnection
)

// CodecError carries an HTTP/2 error code together with the scope at
// which it must be reported (stream-level RST_STREAM vs connection-level
// GOAWAY) and a human-readable debug string.
type CodecError struct {
	Code     ErrorCode
	Severity Severity
	StreamID uint32
	Debug    string
	cause    error
}

func (e *CodecError) Error() string {
	if e.Severity == SeverityStream {
		return fmt.Sprintf("stream %d: %s: %s", e.StreamID, e.Code, e.Debug)
	}
	return fmt.Sprintf("connection: %s: %s", e.Code, e.Debug)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/As.
func (e *CodecError) Unwrap() error {
	return e.cause
}

// NewConnError builds a connection-level CodecError.
func NewConnError(code ErrorCode, debug string) *CodecError {
	return &CodecError{Code: code, Severity: SeverityConnection, Debug: debug}
}

// NewStreamError builds a stream-level CodecError.
func NewStreamError(streamID uint32, code ErrorCode, debug string) *CodecError {
	return &CodecError{Code: code, Severity: SeverityStream, StreamID: streamID, Debug: debug}
}

// wrapf annotates err with a stack trace and message using pkg/errors.
// Nothing in this package calls it at present; CodecError values are
// built directly by NewConnError/NewStreamError.
func wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// ErrShortBuffer is returned internally when a decode routine needs more
// bytes than are currently available. The frame-level paths of
// Codec.Decode (PeekFrameHeader, the preface read) turn short input into
// StatusPause; inside an already complete header block, HeaderBlockCodec
// returns it to Decode as an error.
var ErrShortBuffer = errors.New("http2: short buffer")
