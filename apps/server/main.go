package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"wmx-replay/apps/server/internal/api"
	"wmx-replay/apps/server/internal/archive"
	"wmx-replay/apps/server/internal/config"
	"wmx-replay/apps/server/internal/gateway"
	"wmx-replay/apps/server/internal/logger"
	"wmx-replay/apps/server/internal/store"
	"wmx-replay/reconcile"
	"wmx-replay/winamax"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New(logger.Config{Level: "info"})
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	// Euro amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	svc, storeMode, err := store.NewServiceFromConfig(store.Options{
		Mode:        cfg.StoreMode,
		SQLitePath:  cfg.SQLitePath,
		DatabaseURL: cfg.DatabaseURL,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init store")
	}
	defer svc.Close()

	arch, err := archive.New(context.Background(), cfg.Archive, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init archive")
	}

	gw := gateway.New(svc, cfg.ReplayPacing, log)
	srv := api.New(api.Config{
		Addr:           cfg.HTTPAddr,
		Log:            log,
		Store:          svc,
		Archive:        arch,
		Parser:         winamax.New(winamax.WithLogger(log), winamax.WithWorkers(cfg.ParseWorkers)),
		Reconciler:     reconcile.New(reconcile.WithLogger(log)),
		MaxUploadBytes: cfg.MaxUploadBytes,
		CORSOrigins:    cfg.CORSOrigins,
		Replay:         gw.HandleReplay,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()
	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("store", storeMode).
		Bool("archive", cfg.Archive.Bucket != "").
		Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Int("replays", gw.Active()).Msg("Server stopped")
}
