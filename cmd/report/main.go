package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"

	"review_pulse/internal/adapters/observability"
	"review_pulse/internal/app"
	"review_pulse/internal/shared"
	"review_pulse/internal/storage/csvstore"
)

// One-shot report: runs the full pipeline with the default filter spec and
// prints the dashboard view as JSON.
func main() {
	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	path := cfg.DatasetPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	store := csvstore.New(path)
	q := app.NewQueryService(store, nil, 0, cfg.SampleLimit, cfg.KeywordMax)

	opts, err := q.FilterOptions(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset load failed")
	}
	view, err := q.Dashboard(ctx, opts.Default)
	if err != nil {
		log.Fatal().Err(err).Msg("report failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(view); err != nil {
		log.Fatal().Err(err).Msg("encode report failed")
	}
}
