package app

import (
	"context"
	"fmt"
	"math/rand"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/scrabless/scrabless-server/internal/auth"
	"github.com/scrabless/scrabless-server/internal/clock"
	"github.com/scrabless/scrabless-server/internal/config"
	"github.com/scrabless/scrabless-server/internal/core"
	"github.com/scrabless/scrabless-server/internal/game"
	"github.com/scrabless/scrabless-server/internal/room"
	transporthttp "github.com/scrabless/scrabless-server/internal/transport/http"
)

// App wires the identity resolver, room directory, game engine, connection
// registry and HTTP transport together with clear ownership: one instance
// of each, no ambient globals.
type App struct {
	server          *stdhttp.Server
	directory       *room.Directory
	cleanupInterval time.Duration
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application from configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	resolver := auth.NewService(&auth.JWTConfig{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.TokenTTL,
	})

	directory := room.NewDirectory(cfg.RoomMaxAge, clock.New(), logger)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	engine := game.NewEngine(rng, game.AllowAll{}, logger)
	directory.OnRemove(engine.Delete)
	registry := core.NewRegistry(directory, logger)
	router := core.NewRouter(directory, engine, registry, logger)

	server := transporthttp.NewServer(resolver, directory, engine, registry, router, cfg, logger)

	return &App{
		server:          server,
		directory:       directory,
		cleanupInterval: cfg.CleanupInterval,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and the periodic room cleanup, blocking until
// context cancellation or a fatal server error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.runCleanup(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}

func (a *App) runCleanup(ctx context.Context) {
	ticker := time.NewTicker(a.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := a.directory.Cleanup(); len(removed) > 0 {
				a.log.Info().Int("count", len(removed)).Msg("reaped stale rooms")
			}
		case <-ctx.Done():
			return
		}
	}
}
