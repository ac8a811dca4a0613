package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/rs/zerolog"

	"github.com/yanshuy/http-server/internal/request"
)

// defaultAddr stays off the server's port so both can run side by side.
const defaultAddr = "127.0.0.1:42069"

// tcplistener prints every request parsed off a connection and never
// answers. It is handy for looking at what a client actually sends.
func main() {
	addr := flag.String("addr", defaultAddr, "address to listen on")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatal().Err(err).Msg("error listening")
	}
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Fatal().Err(err).Msg("error accepting")
		}
		log.Info().Stringer("remote", conn.RemoteAddr()).Msg("connection accepted")

		if err := dump(conn, os.Stdout); err != nil && !errors.Is(err, io.EOF) {
			log.Warn().Err(err).Msg("connection ended")
		}
		conn.Close()
	}
}

func dump(conn io.Reader, out io.Writer) error {
	var buf []byte
	chunk := make([]byte, 4096)
	for {
		req, n, err := request.Parse(buf)
		if err != nil {
			return err
		}
		if req == nil {
			m, err := conn.Read(chunk)
			buf = append(buf, chunk[:m]...)
			if err != nil {
				return err
			}
			continue
		}
		printRequest(out, req)
		buf = buf[n:]
	}
}

func printRequest(out io.Writer, r *request.Request) {
	fmt.Fprintln(out, "Request line:")
	fmt.Fprintln(out, "- Method: "+string(r.Method))
	fmt.Fprintln(out, "- Target: "+r.Target)
	fmt.Fprintln(out, "- Version: "+r.HttpVersion)
	fmt.Fprintln(out, "Headers:")
	for key, val := range r.Headers {
		fmt.Fprintf(out, "- %s: %s\n", key, val)
	}
	fmt.Fprintln(out, "Body:")
	fmt.Fprintln(out, string(r.Body))
}
