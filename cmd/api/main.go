package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	server "review_pulse/internal/adapters/http_server"
	"review_pulse/internal/adapters/observability"
	redisad "review_pulse/internal/adapters/redis"
	"review_pulse/internal/app"
	"review_pulse/internal/shared"
	"review_pulse/internal/storage/csvstore"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// dataset: load eagerly so a broken file fails the process at startup
	// instead of the first request
	store := csvstore.New(cfg.DatasetPath)
	rows, err := store.Reviews(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("dataset load failed")
	}
	log.Info().Str("path", cfg.DatasetPath).Int("rows", len(rows)).Msg("dataset loaded")

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	q := app.NewQueryService(store, cache, cfg.CacheTTL, cfg.SampleLimit, cfg.KeywordMax)

	// http
	srv := server.New(cfg.RateRPS)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("dashboard listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
