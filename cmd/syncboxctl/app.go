package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/medcrm/syncbox"
	"github.com/medcrm/syncbox/sqlite"
)

// app bundles the collaborators every subcommand needs.
type app struct {
	cfg       Config
	db        *sql.DB
	bus       *syncbox.Bus
	monitor   *syncbox.Monitor
	store     *sqlite.Store
	transport *syncbox.HTTPTransport
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base_url is required (SYNCBOX_BASE_URL)")
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}

	store, err := sqlite.NewStore(db)
	if err != nil {
		db.Close()

		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		db.Close()

		return nil, err
	}

	var transportOpts []syncbox.TransportOption
	if cfg.Token != "" {
		token := cfg.Token
		transportOpts = append(transportOpts, syncbox.WithTokenProvider(
			func(context.Context) (string, error) { return token, nil },
		))
	}

	bus := syncbox.NewBus()

	return &app{
		cfg:       cfg,
		db:        db,
		bus:       bus,
		monitor:   syncbox.NewMonitor(true, bus),
		store:     store,
		transport: syncbox.NewHTTPTransport(cfg.BaseURL, transportOpts...),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) processorOptions(extra ...syncbox.ProcessorOption) []syncbox.ProcessorOption {
	opts := []syncbox.ProcessorOption{
		syncbox.WithMonitor(a.monitor),
		syncbox.WithBus(a.bus),
		syncbox.WithDrainInterval(a.cfg.DrainInterval),
		syncbox.WithItemDelay(a.cfg.ItemDelay),
	}
	if a.cfg.StrictRetries {
		opts = append(opts, syncbox.WithFailureClassifier(syncbox.HTTPStatusClassifier))
	}

	return append(opts, extra...)
}
