package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Meet/internal/adapters/http"
	wsignal "github.com/dkeye/Meet/internal/adapters/signal"
	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/config"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/store"
)

func setupLogger(mode, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if mode != "release" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func runServe(parent context.Context, configFile string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Console output until the config says otherwise.
	setupLogger("debug", "info")

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		return err
	}
	setupLogger(cfg.Mode, cfg.LogLevel)

	records, err := store.Open(ctx, cfg.Store)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open meeting store")
		return err
	}
	defer func() {
		if err := records.Close(); err != nil {
			log.Error().Err(err).Msg("close meeting store")
		}
	}()

	policy, err := app.PolicyFromString(cfg.Backpressure)
	if err != nil {
		return err
	}

	reg := app.NewRegistry(records, app.WithOnEmpty(func(sid domain.SessionID) {
		log.Info().Str("module", "main").Str("session", string(sid)).Msg("session is empty")
	}))
	gw := wsignal.NewGateway(policy, cfg.SendBuffer)
	o := orch.New(reg, gw)
	ctl := wsignal.NewSignalWSController(cfg, o, gw)

	r := router.SetupRouter(ctx, cfg, router.Deps{
		Store:    records,
		Registry: reg,
		Signal:   ctl,
	})
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("store", cfg.Store.Driver).Msg("Meet server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server error")
			return err
		}
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}
	log.Info().Msg("Server exited gracefully")
	return nil
}
