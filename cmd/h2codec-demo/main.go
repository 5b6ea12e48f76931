package main

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	http2 "github.com/nebulah2/h2codec"
)

var logPath string

var rootCmd = &cobra.Command{
	Use:   "h2codec-demo",
	Short: "Exercise the h2codec connection codec over a real TCP socket",
}

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Accept one connection and run the server side of the codec",
	Example: "# h2codec-demo serve --addr :8443",
	RunE:    runServe,
}

var dialCmd = &cobra.Command{
	Use:     "dial",
	Short:   "Connect to a server and run the client side of the codec",
	Example: "# h2codec-demo dial --addr localhost:8443",
	RunE:    runDial,
}

var addr string

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", ":8443", "address to listen on")
	dialCmd.Flags().StringVar(&addr, "addr", "localhost:8443", "address to dial")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "h2codec-demo.log", "log file path")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dialCmd)
}

func newLogger() http2.Logger {
	return http2.NewLogger(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10,
		MaxBackups: 3,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	fmt.Fprintf(os.Stdout, "listening on %s\n", ln.Addr())

	conn, err := ln.Accept()
	if err != nil {
		return err
	}
	defer conn.Close()

	codec := http2.NewCodec(
		http2.WithRole(http2.RoleServer),
		http2.WithLogger(newLogger()),
		http2.WithMetrics(http2.NewMetrics(nil)),
	)
	return pump(conn, codec)
}

func runDial(cmd *cobra.Command, args []string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	codec := http2.NewCodec(
		http2.WithRole(http2.RoleClient),
		http2.WithLogger(newLogger()),
		http2.WithMetrics(http2.NewMetrics(nil)),
	)

	out := http2.NewByteBuffer()
	if err := codec.Handshake(out); err != nil {
		return err
	}
	if _, err := conn.Write(out.Bytes()); err != nil {
		return err
	}

	req := &http2.Message{
		Type:      http2.MessageRequest,
		Method:    "GET",
		Scheme:    "https",
		Authority: addr,
		Path:      "/",
	}
	out.Reset()
	if err := codec.Encode(req, out); err != nil {
		return err
	}
	if _, err := conn.Write(out.Bytes()); err != nil {
		return err
	}

	return pump(conn, codec)
}

// pump repeatedly reads from conn into a ByteBuffer, feeds it to the
// codec, writes any reaction frames back, and prints completed messages
// until the connection closes.
func pump(conn net.Conn, codec *http2.Codec) error {
	in := http2.NewByteBuffer()
	react := http2.NewByteBuffer()
	readBuf := make([]byte, 4096)

	for {
		n, err := conn.Read(readBuf)
		if n > 0 {
			in.Write(readBuf[:n])
		}
		if err != nil {
			return err
		}

		for {
			var msg http2.Message
			status, decErr := codec.Decode(in, &msg, react)
			if react.Len() > 0 {
				if _, werr := conn.Write(react.Bytes()); werr != nil {
					return werr
				}
				react.Reset()
			}
			if decErr != nil {
				return decErr
			}
			if msg.StreamID != 0 {
				fmt.Fprintf(os.Stdout, "message complete: stream=%d status=%d body=%dB\n",
					msg.StreamID, msg.StatusCode, len(msg.Body))
			}
			if status == http2.StatusPause {
				break
			}
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
