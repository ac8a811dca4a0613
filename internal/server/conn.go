package server

import (
	"bytes"
	"errors"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/yanshuy/http-server/internal/request"
	"github.com/yanshuy/http-server/internal/response"
	"github.com/yanshuy/http-server/internal/status"
)

type connState int

const (
	stateAwaitingHeaders connState = iota
	stateParsing
	stateDispatching
	stateEncoding
	stateWriting
	stateClosed
)

// connection is the per-socket state. Nothing in it outlives the socket.
type connection struct {
	conn    net.Conn
	handler Handler
	parser  request.Parser
	writer  *response.Writer
	log     zerolog.Logger

	idleTimeout time.Duration
	chunk       []byte
	buf         []byte
	consumed    int
	state       connState

	req  *request.Request
	resp *response.Response
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	if !s.track(conn, true) {
		return
	}
	defer s.track(conn, false)

	c := &connection{
		conn:        conn,
		handler:     s.Handler,
		parser:      request.Parser{
			MaxHeaderBytes: s.cfg.MaxHeaderBytes,
			MaxBodyBytes:   s.cfg.MaxBodyBytes,
		},
		writer:      response.NewResponseWriter(conn),
		log:         s.log.With().Stringer("remote", conn.RemoteAddr()).Logger(),
		idleTimeout: s.cfg.IdleTimeout,
		chunk:       make([]byte, s.cfg.ReadBufferSize),
		state:       stateAwaitingHeaders,
	}
	c.serve()
	c.log.Debug().Msg("connection closed")
}

func (c *connection) serve() {
	for {
		switch c.state {
		case stateAwaitingHeaders:
			if bytes.Contains(c.buf, request.Terminator) || len(c.buf) > c.parser.MaxHeaderBytes {
				c.state = stateParsing
				continue
			}
			if err := c.fill(); err != nil {
				return
			}

		case stateParsing:
			req, n, err := c.parser.Parse(c.buf)
			if err != nil {
				c.log.Warn().Err(err).Msg("malformed request")
				c.resp = response.NewResponse(status.BadRequest)
				c.resp.Connection = response.Close
				c.state = stateWriting
				continue
			}
			if req == nil {
				// headers are in, the body is not
				if err := c.fill(); err != nil {
					return
				}
				continue
			}
			c.req = req
			c.consumed = n
			c.state = stateDispatching

		case stateDispatching:
			c.resp = c.handler(c.req)
			if c.resp == nil {
				c.resp = response.NewResponse(status.InternalServerError)
			}
			c.state = stateEncoding

		case stateEncoding:
			if err := response.Encode(c.resp); err != nil {
				c.log.Error().Err(err).Msg("encoding response")
				conn := c.resp.Connection
				c.resp = response.NewResponse(status.InternalServerError)
				c.resp.Connection = conn
			}
			c.state = stateWriting

		case stateWriting:
			if _, err := c.writer.WriteResponse(c.resp); err != nil {
				c.logIOError(err, "write failed")
				return
			}
			if c.req != nil {
				c.log.Debug().
					Str("method", string(c.req.Method)).
					Str("target", c.req.Target).
					Int("status", c.resp.Status.Code()).
					Int("bytes", c.resp.ContentLength).
					Msg("request handled")
			}
			if c.resp.ShouldClose() {
				c.state = stateClosed
				continue
			}
			c.buf = append(c.buf[:0], c.buf[c.consumed:]...)
			c.consumed = 0
			c.req, c.resp = nil, nil
			c.state = stateAwaitingHeaders

		case stateClosed:
			return
		}
	}
}

// fill performs one blocking read and appends what arrived to the buffer.
func (c *connection) fill() error {
	if c.idleTimeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.idleTimeout)); err != nil {
			return err
		}
	}
	n, err := c.conn.Read(c.chunk)
	c.buf = append(c.buf, c.chunk[:n]...)
	if err != nil {
		if n > 0 && errors.Is(err, io.EOF) {
			// keep what we got, the next read reports EOF again
			return nil
		}
		c.logIOError(err, "read failed")
		return err
	}
	return nil
}

func (c *connection) logIOError(err error, msg string) {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		c.log.Debug().Err(err).Msg(msg)
	case errors.As(err, &netErr) && netErr.Timeout():
		c.log.Debug().Err(err).Msg("idle timeout")
	default:
		c.log.Warn().Err(err).Msg(msg)
	}
}
