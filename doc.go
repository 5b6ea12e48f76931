// Package http2 implements an HTTP/2 connection codec: RFC 7540 frame
// parsing, stream multiplexing, flow control and priority scheduling,
// and RFC 7541 HPACK header compression, decoupled from any particular
// transport or HTTP request/response type.
//
// The codec is non-blocking throughout. Decode consumes whatever is
// buffered in a ByteBuffer and returns StatusPause, with the read
// cursor left at the start of the incomplete frame, when no further
// complete frame is buffered; callers are expected to
// append more bytes and call Decode again. Encode and
// SendWaittingFrameData never block on flow control either -- data that
// exceeds the current send window is queued on the Stream and drained
// once a WINDOW_UPDATE arrives.
package http2
