package server

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/yanshuy/http-server/internal/pool"
	"github.com/yanshuy/http-server/internal/request"
	"github.com/yanshuy/http-server/internal/response"
)

var ErrServerClosed = errors.New("server closed")

type Server struct {
	listener net.Listener
	Handler
	cfg  Config
	log  zerolog.Logger
	pool *pool.Pool

	closed atomic.Bool
	done   chan struct{}

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// Handler turns one request into one response. It must not return nil.
type Handler func(r *request.Request) *response.Response

// Serve binds cfg.Addr and starts accepting connections in the background.
// Accepted connections are queued on a pool of cfg.Workers workers.
func Serve(cfg Config, handler Handler) (*Server, error) {
	cfg = cfg.withDefaults()
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, err
	}

	server := &Server{
		listener: ln,
		Handler:  handler,
		cfg:      cfg,
		log:      cfg.Logger,
		done:     make(chan struct{}),
		conns:    make(map[net.Conn]struct{}),
	}
	server.pool = pool.New(cfg.Workers, server.handleConnection, cfg.Logger)

	go server.listen()

	return server, nil
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) listen() {
	defer close(s.done)
	for {
		conn, err := s.listener.Accept()
		if s.closed.Load() {
			if conn != nil {
				conn.Close()
			}
			return
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("error accepting connection")
			continue
		}
		s.log.Debug().Stringer("remote", conn.RemoteAddr()).Msg("connection accepted")
		if err := s.pool.Submit(conn); err != nil {
			s.log.Warn().Err(err).Msg("connection dropped")
			conn.Close()
		}
	}
}

// Close stops accepting, closes every open connection and waits for the
// workers to finish. Connections still waiting in the pool's queue are closed
// without being served. It returns ErrServerClosed on a second call.
func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return ErrServerClosed
	}
	err := s.listener.Close()
	<-s.done

	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.pool.Close()
	return err
}

// track registers conn so Close can interrupt its blocking reads. It reports
// false when the server is already closed.
func (s *Server) track(conn net.Conn, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !add {
		delete(s.conns, conn)
		return true
	}
	if s.closed.Load() {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}
