package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/yanshuy/http-server/internal/router"
	"github.com/yanshuy/http-server/internal/server"
)

func main() {
	var (
		directory   = flag.String("directory", "", "directory served under /files/")
		addr        = flag.String("addr", server.DefaultAddr, "address to listen on")
		workers     = flag.Int("workers", server.DefaultWorkers, "number of connection workers")
		idleTimeout = flag.Duration("idle-timeout", 0, "close connections idle this long (0 waits forever)")
		logLevel    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid log level")
	}
	logger = logger.Level(level)

	rt := router.New(router.NewDirStore(*directory), logger)
	srv, err := server.Serve(server.Config{
		Addr:        *addr,
		Workers:     *workers,
		IdleTimeout: *idleTimeout,
		Logger:      logger,
	}, rt.Dispatch)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting server")
	}

	logger.Info().
		Stringer("addr", srv.Addr()).
		Int("workers", *workers).
		Str("directory", *directory).
		Msg("server started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	if err := srv.Close(); err != nil {
		logger.Warn().Err(err).Msg("closing server")
	}
	logger.Info().Msg("server gracefully stopped")
}
