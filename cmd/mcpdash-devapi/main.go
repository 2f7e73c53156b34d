package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mcpdash/mcpdash/internal/devapi"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", "127.0.0.1:5000", "listen address")
	seed := flag.Bool("seed", true, "start with demo tasks, notes, events and clients")
	debug := flag.Bool("debug", false, "log every request")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	consoleWriter := zerolog.NewConsoleWriter()
	consoleWriter.TimeFormat = time.DateTime
	consoleWriter.Out = os.Stdout
	logger := zerolog.New(consoleWriter).
		Level(level).
		With().
		Timestamp().
		Str("component", "devapi").
		Logger()

	backend := devapi.NewBackend()
	if *seed {
		devapi.Seed(backend)
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           devapi.NewHandler(backend, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", *addr).
			Msg("serving development api under /api")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "mcpdash-devapi: %v\n", err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down http server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		return 1
	}
	logger.Info().Msg("shut down http server")
	return 0
}
