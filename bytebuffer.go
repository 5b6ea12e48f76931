package http2

// ByteBuffer is a cursor-tracked growable byte region with distinct read
// and write indices, used as the sole I/O surface the codec reads frames
// from and writes frames to (spec.md section 4.1).
//
// Every decode routine in this package operates on a ByteBuffer by
// advancing its read cursor; on a partial or unrecoverable decode the
// caller restores the cursor (Snapshot/Restore) so the same bytes can be
// retried once more data arrives. No method here blocks: a read past the
// write cursor always fails fast rather than waiting for more bytes.
type ByteBuffer struct {
	buf  []byte
	rpos int
	wpos int
}

// NewByteBuffer returns an empty ByteBuffer.
func NewByteBuffer() *ByteBuffer {
	return &ByteBuffer{}
}

// NewByteBufferFrom wraps b as the initial contents of a ByteBuffer,
// ready to be read from the start.
func NewByteBufferFrom(b []byte) *ByteBuffer {
	return &ByteBuffer{buf: b, wpos: len(b)}
}

// Len returns the number of unread bytes.
func (bb *ByteBuffer) Len() int {
	return bb.wpos - bb.rpos
}

// Cap returns the total capacity backing the buffer, including already
// consumed bytes.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.buf)
}

// Reset empties the buffer, keeping its backing array.
func (bb *ByteBuffer) Reset() {
	bb.buf = bb.buf[:0]
	bb.rpos = 0
	bb.wpos = 0
}

// Bytes returns the unread portion of the buffer. The returned slice is
// only valid until the next mutating call.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.buf[bb.rpos:bb.wpos]
}

// Snapshot returns the current read cursor so it can later be restored
// with Restore. Used before attempting to decode a frame that may turn
// out to be incomplete.
func (bb *ByteBuffer) Snapshot() int {
	return bb.rpos
}

// Restore rewinds the read cursor to a value previously returned by
// Snapshot. Codec.Decode snapshots before each frame and, when it
// returns StatusPause, restores to the start of the frame it could not
// complete; frames it already dispatched in that call stay consumed.
func (bb *ByteBuffer) Restore(mark int) {
	bb.rpos = mark
}

// Skip advances the read cursor by n bytes without returning them.
func (bb *ByteBuffer) Skip(n int) error {
	if bb.Len() < n {
		return ErrShortBuffer
	}
	bb.rpos += n
	return nil
}

// Peek returns the next n unread bytes without advancing the cursor.
func (bb *ByteBuffer) Peek(n int) ([]byte, error) {
	if bb.Len() < n {
		return nil, ErrShortBuffer
	}
	return bb.buf[bb.rpos : bb.rpos+n], nil
}

// ReadByte reads and consumes a single byte.
func (bb *ByteBuffer) ReadByte() (byte, error) {
	if bb.Len() < 1 {
		return 0, ErrShortBuffer
	}
	b := bb.buf[bb.rpos]
	bb.rpos++
	return b, nil
}

// ReadN consumes and returns the next n bytes.
func (bb *ByteBuffer) ReadN(n int) ([]byte, error) {
	if bb.Len() < n {
		return nil, ErrShortBuffer
	}
	b := bb.buf[bb.rpos : bb.rpos+n]
	bb.rpos += n
	return b, nil
}

// ReadUint16 reads a big-endian 16 bit unsigned integer.
func (bb *ByteBuffer) ReadUint16() (uint16, error) {
	b, err := bb.ReadN(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadUint24 reads a big-endian 24 bit unsigned integer (used by the
// frame header length field).
func (bb *ByteBuffer) ReadUint24() (uint32, error) {
	b, err := bb.ReadN(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// ReadUint32 reads a big-endian 32 bit unsigned integer.
func (bb *ByteBuffer) ReadUint32() (uint32, error) {
	b, err := bb.ReadN(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// WriteByte appends a single byte.
func (bb *ByteBuffer) WriteByte(b byte) error {
	bb.buf = append(bb.buf[:bb.wpos], b)
	bb.wpos++
	return nil
}

// Write appends b, growing the backing array as needed.
func (bb *ByteBuffer) Write(b []byte) (int, error) {
	bb.buf = append(bb.buf[:bb.wpos], b...)
	bb.wpos += len(b)
	return len(b), nil
}

// WriteUint16 appends a big-endian 16 bit unsigned integer.
func (bb *ByteBuffer) WriteUint16(v uint16) {
	bb.Write([]byte{byte(v >> 8), byte(v)})
}

// WriteUint24 appends a big-endian 24 bit unsigned integer.
func (bb *ByteBuffer) WriteUint24(v uint32) {
	bb.Write([]byte{byte(v >> 16), byte(v >> 8), byte(v)})
}

// WriteUint32 appends a big-endian 32 bit unsigned integer.
func (bb *ByteBuffer) WriteUint32(v uint32) {
	bb.Write([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

// Compact discards already-consumed bytes, shifting unread data to the
// start of the backing array. Call periodically on long-lived,
// connection-owned buffers to bound memory growth.
func (bb *ByteBuffer) Compact() {
	if bb.rpos == 0 {
		return
	}
	n := copy(bb.buf, bb.buf[bb.rpos:bb.wpos])
	bb.buf = bb.buf[:n]
	bb.wpos = n
	bb.rpos = 0
}
