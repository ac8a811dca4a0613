package server

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/yanshuy/http-server/internal/request"
)

const (
	DefaultAddr           = "127.0.0.1:4221"
	DefaultWorkers        = 4
	DefaultReadBufferSize = 4096
)

type Config struct {
	Addr string
	// Workers is the number of connections served at once. Further
	// connections wait in the pool's queue.
	Workers        int
	ReadBufferSize int
	MaxHeaderBytes int
	// MaxBodyBytes caps the Content-Length a request may declare.
	MaxBodyBytes int
	// IdleTimeout bounds each read from a peer. Zero waits forever.
	IdleTimeout time.Duration
	Logger      zerolog.Logger
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = DefaultReadBufferSize
	}
	if c.MaxHeaderBytes <= 0 {
		c.MaxHeaderBytes = request.DefaultMaxHeaderBytes
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = request.DefaultMaxBodyBytes
	}
	return c
}
