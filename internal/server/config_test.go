package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yanshuy/http-server/internal/request"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultReadBufferSize, cfg.ReadBufferSize)
	assert.Equal(t, request.DefaultMaxHeaderBytes, cfg.MaxHeaderBytes)
	assert.Equal(t, request.DefaultMaxBodyBytes, cfg.MaxBodyBytes)
	assert.Zero(t, cfg.IdleTimeout)

	cfg = Config{Addr: ":9000", Workers: 8, ReadBufferSize: 16, MaxHeaderBytes: 128, MaxBodyBytes: 256, IdleTimeout: time.Second}.withDefaults()
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 16, cfg.ReadBufferSize)
	assert.Equal(t, 128, cfg.MaxHeaderBytes)
	assert.Equal(t, 256, cfg.MaxBodyBytes)
	assert.Equal(t, time.Second, cfg.IdleTimeout)
}
