package http2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteBufferReadWriteRoundTrip(t *testing.T) {
	bb := NewByteBuffer()
	bb.WriteUint24(0x010203)
	bb.WriteUint32(0xdeadbeef)
	bb.WriteByte('x')

	require.Equal(t, 8, bb.Len())

	v24, err := bb.ReadUint24()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x010203), v24)

	v32, err := bb.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), v32)

	b, err := bb.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('x'), b)

	assert.Equal(t, 0, bb.Len())
}

func TestByteBufferSnapshotRestore(t *testing.T) {
	bb := NewByteBufferFrom([]byte{1, 2, 3, 4})

	mark := bb.Snapshot()
	_, err := bb.ReadN(2)
	require.NoError(t, err)

	bb.Restore(mark)
	assert.Equal(t, 4, bb.Len())

	_, err = bb.ReadN(5)
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestByteBufferCompact(t *testing.T) {
	bb := NewByteBufferFrom([]byte{1, 2, 3, 4, 5})
	_, err := bb.ReadN(3)
	require.NoError(t, err)

	bb.Compact()
	assert.Equal(t, []byte{4, 5}, bb.Bytes())
}
