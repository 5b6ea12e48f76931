// Package http2utils holds small wire-level helpers shared by the frame
// and HPACK codecs: big-endian integer packing, buffer resizing and RFC
// 7540 PADDED-flag handling.
package http2utils

import (
	"crypto/rand"
	"errors"

	"github.com/valyala/fastrand"
)

// ErrPaddingTooLarge is returned by CutPadding when the announced pad
// length is not smaller than the payload (RFC 7540 section 6.1: a
// PROTOCOL_ERROR at the stream level).
var ErrPaddingTooLarge = errors.New("http2utils: padding length exceeds payload")

func Uint24ToBytes(b []byte, n uint32) {
	_ = b[2] // bound checking
	b[0] = byte(n >> 16)
	b[1] = byte(n >> 8)
	b[2] = byte(n)
}

func BytesToUint24(b []byte) uint32 {
	_ = b[2] // bound checking
	return uint32(b[0])<<16 |
		uint32(b[1])<<8 |
		uint32(b[2])
}

func Uint32ToBytes(b []byte, n uint32) {
	_ = b[3] // bound checking
	b[0] = byte(n >> 24)
	b[1] = byte(n >> 16)
	b[2] = byte(n >> 8)
	b[3] = byte(n)
}

func BytesToUint32(b []byte) uint32 {
	_ = b[3] // bound checking
	n := uint32(b[0])<<24 |
		uint32(b[1])<<16 |
		uint32(b[2])<<8 |
		uint32(b[3])
	return n
}

// Resize grows b, if needed, so that len(b) == neededLen, reusing spare
// capacity when available.
func Resize(b []byte, neededLen int) []byte {
	b = b[:cap(b)]

	if n := neededLen - len(b); n > 0 {
		b = append(b, make([]byte, n)...)
	}

	return b[:neededLen]
}

// CutPadding strips the PADDED-flag pad-length octet and trailing
// padding from payload, returning the net frame data. length is the
// frame's declared payload length (including the pad-length octet and
// the padding itself).
func CutPadding(payload []byte, length int) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrPaddingTooLarge
	}

	pad := int(payload[0])
	if pad >= length || len(payload) < length-pad {
		return nil, ErrPaddingTooLarge
	}

	return payload[1 : length-pad], nil
}

// AddPadding prepends a random-length pad-length octet and appends that
// many random padding bytes to b, for senders that opt into PADDED
// frames.
func AddPadding(b []byte) []byte {
	n := int(fastrand.Uint32n(256-9)) + 9
	nn := len(b)

	b = Resize(b, nn+n+1)
	copy(b[1:], b[:nn])

	b[0] = uint8(n)

	rand.Read(b[nn+1 : nn+1+n])

	return b
}
