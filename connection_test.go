package http2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerPrefaceExchange(t *testing.T) {
	c := NewCodec(WithRole(RoleServer))

	in := NewByteBuffer()
	in.Write([]byte(clientPreface))
	sf := SettingsFrame{}
	buf := sf.Encode(nil)
	in.Write(buf)

	var out Message
	react := NewByteBuffer()
	status, err := c.Decode(in, &out, react)
	require.NoError(t, err)
	assert.Equal(t, StatusPause, status)

	reply := NewByteBufferFrom(react.Bytes())

	fh, err := DecodeFrameHeader(reply)
	require.NoError(t, err)
	assert.Equal(t, FrameSettings, fh.Type)
	payload, err := reply.ReadN(fh.Length)
	require.NoError(t, err)
	gotSf, err := DecodeSettingsFrame(fh, payload)
	require.NoError(t, err)
	assert.False(t, gotSf.Ack)

	fh, err = DecodeFrameHeader(reply)
	require.NoError(t, err)
	assert.Equal(t, FrameWindowUpdate, fh.Type)
	payload, err = reply.ReadN(fh.Length)
	require.NoError(t, err)
	wu, err := DecodeWindowUpdateFrame(fh, payload)
	require.NoError(t, err)
	assert.Equal(t, uint32(initialConnWindowIncrement), wu.Increment)
	assert.Equal(t, uint32(0), fh.StreamID)

	fh, err = DecodeFrameHeader(reply)
	require.NoError(t, err)
	assert.Equal(t, FramePing, fh.Type)
	payload, err = reply.ReadN(fh.Length)
	require.NoError(t, err)
	pf, err := DecodePingFrame(fh, payload)
	require.NoError(t, err)
	assert.False(t, pf.Ack)
	assert.Equal(t, [8]byte{}, pf.Data)

	fh, err = DecodeFrameHeader(reply)
	require.NoError(t, err)
	assert.Equal(t, FrameSettings, fh.Type)
	payload, err = reply.ReadN(fh.Length)
	require.NoError(t, err)
	ackSf, err := DecodeSettingsFrame(fh, payload)
	require.NoError(t, err)
	assert.True(t, ackSf.Ack)

	assert.Equal(t, 0, reply.Len())
}

func TestFlowControlChunksSplitAndResumeOnWindowUpdate(t *testing.T) {
	c := NewCodec(WithRole(RoleClient))
	c.remoteSettings.InitialWindowSize = 65535
	c.connSendWindow = 65535

	body := make([]byte, 70000)
	for i := range body {
		body[i] = byte(i)
	}
	msg := &Message{Type: MessageRequest, Method: "POST", Path: "/", Scheme: "https", Authority: "example.com", Body: body}

	out := NewByteBuffer()
	require.NoError(t, c.Encode(msg, out))

	var emitted int
	buf := NewByteBufferFrom(out.Bytes())
	for buf.Len() > 0 {
		fh, err := DecodeFrameHeader(buf)
		require.NoError(t, err)
		payload, err := buf.ReadN(fh.Length)
		require.NoError(t, err)
		if fh.Type == FrameData {
			df, err := DecodeDataFrame(fh, payload)
			require.NoError(t, err)
			emitted += len(df.Data)
		}
	}
	assert.Equal(t, 65535, emitted)

	s := c.streams[msg.StreamID]
	require.True(t, s.hasPending())

	react := NewByteBuffer()
	wu1 := WindowUpdateFrame{Increment: 5000}
	in := NewByteBuffer()
	in.Write(wu1.Encode(nil, msg.StreamID))
	var decoded Message
	_, err := c.Decode(in, &decoded, react)
	require.NoError(t, err)

	in2 := NewByteBuffer()
	wu2 := WindowUpdateFrame{Increment: 5000}
	in2.Write(wu2.Encode(nil, 0))
	react2 := NewByteBuffer()
	_, err = c.Decode(in2, &decoded, react2)
	require.NoError(t, err)

	more := 0
	buf2 := NewByteBufferFrom(react2.Bytes())
	for buf2.Len() > 0 {
		fh, err := DecodeFrameHeader(buf2)
		require.NoError(t, err)
		payload, err := buf2.ReadN(fh.Length)
		require.NoError(t, err)
		if fh.Type == FrameData {
			df, err := DecodeDataFrame(fh, payload)
			require.NoError(t, err)
			more += len(df.Data)
		}
	}
	assert.Equal(t, 4465, more)
	assert.Equal(t, 70000, emitted+more)
}

func TestContinuationViolationClosesConnection(t *testing.T) {
	c := NewCodec(WithRole(RoleServer))
	c.prefacePending = false

	enc := NewDynamicTable(4096)
	var hbc HeaderBlockCodec
	block := hbc.Pack(nil, []HeaderEntry{{Name: ":method", Value: "GET"}, {Name: ":path", Value: "/"}}, enc, false, nil, nil)

	hf := HeadersFrame{EndStream: true}
	in := NewByteBuffer()
	in.Write(hf.Encode(nil, 1, block, false))

	df := DataFrame{Data: []byte("x"), EndData: true}
	in.Write(df.Encode(nil, 1, false))

	var out Message
	react := NewByteBuffer()
	status, err := c.Decode(in, &out, react)
	require.Error(t, err)
	assert.Equal(t, StatusOK, status)

	ce, ok := err.(*CodecError)
	require.True(t, ok)
	assert.Equal(t, SeverityConnection, ce.Severity)
	assert.Equal(t, ProtocolError, ce.Code)

	reply := NewByteBufferFrom(react.Bytes())
	fh, err := DecodeFrameHeader(reply)
	require.NoError(t, err)
	assert.Equal(t, FrameGoAway, fh.Type)
}

func TestIncomingStreamIDMustBeMonotonic(t *testing.T) {
	c := NewCodec(WithRole(RoleServer))
	c.prefacePending = false

	enc := NewDynamicTable(4096)
	var hbc HeaderBlockCodec
	block := hbc.Pack(nil, []HeaderEntry{{Name: ":method", Value: "GET"}, {Name: ":path", Value: "/"}}, enc, false, nil, nil)

	hf := HeadersFrame{EndStream: true}
	in := NewByteBuffer()
	in.Write(hf.Encode(nil, 3, block, true))
	var out Message
	react := NewByteBuffer()
	_, err := c.Decode(in, &out, react)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), out.StreamID)

	in2 := NewByteBuffer()
	block2 := hbc.Pack(nil, []HeaderEntry{{Name: ":method", Value: "GET"}, {Name: ":path", Value: "/"}}, enc, false, nil, nil)
	in2.Write(hf.Encode(nil, 1, block2, true))
	var out2 Message
	react2 := NewByteBuffer()
	_, err = c.Decode(in2, &out2, react2)
	require.Error(t, err)
	ce, ok := err.(*CodecError)
	require.True(t, ok)
	assert.Equal(t, SeverityConnection, ce.Severity)
	assert.Equal(t, ProtocolError, ce.Code)
}

func TestTransferHoldingMsgPromotesOnNextEmptyDecode(t *testing.T) {
	c := NewCodec(WithRole(RoleServer))
	c.prefacePending = false

	held := &Message{Type: MessageRequest, Method: "GET", Path: "/"}
	c.TransferHoldingMsg(held)

	var out Message
	react := NewByteBuffer()
	status, err := c.Decode(NewByteBuffer(), &out, react)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, status)
	assert.Equal(t, uint32(1), out.StreamID)
	assert.True(t, out.Upgrade)

	s, ok := c.streams[1]
	require.True(t, ok)
	assert.Equal(t, StreamHalfClosedRemote, s.State)
}
