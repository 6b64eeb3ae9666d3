package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmarkin/roomcast-server/internal/config"
	"github.com/dmarkin/roomcast-server/internal/core"
	"github.com/dmarkin/roomcast-server/internal/metrics"
	"github.com/dmarkin/roomcast-server/internal/notify"
	"github.com/dmarkin/roomcast-server/internal/transcript"
	transporthttp "github.com/dmarkin/roomcast-server/internal/transport/http"
)

// App wires together core, side-effect collaborators and the transport layer.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	pool            *notify.Pool
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	collectors := metrics.NewCollectors()
	pool := notify.NewPool(cfg.QueueSize, cfg.WorkerCount, logger)

	sink := transcript.NewSink(cfg.TranscriptDir, logger)
	logger.Info().Str("dir", sink.Dir()).Msg("transcript sink ready")

	var notifier core.ParticipantNotifier
	if cfg.BackendURL != "" {
		notifier = notify.NewNotifier(cfg.BackendURL, cfg.BackendTimeout, logger)
		logger.Info().Str("backend", cfg.BackendURL).Msg("participant notifier enabled")
	}

	hub := core.NewHub(sink, notifier, pool, collectors, logger)
	server := transporthttp.NewServer(hub, cfg, logger, collectors.Handler())

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		pool:            pool,
		log:             logger,
	}
}

// Run starts the hub loop and the HTTP server and blocks until context
// cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup drains in-flight side jobs so transcripts and notifications out
// of the queue still run.
func (a *App) cleanup() {
	a.pool.Close()
	a.log.Info().Msg("side job pool drained")
}
