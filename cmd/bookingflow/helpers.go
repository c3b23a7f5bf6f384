package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/dispatchd/bookingflow/internal/config"
	"github.com/dispatchd/bookingflow/internal/llm"
	"github.com/dispatchd/bookingflow/internal/mapping"
	"github.com/dispatchd/bookingflow/internal/pipeline"
	"github.com/dispatchd/bookingflow/internal/storage"
)

// initStorage opens the run-history database and brings its schema up to
// date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/bookingflow/bookingflow.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initMappings builds the lookup-table provider from configured CSV paths,
// falling back to the built-in seed tables.
func initMappings() *mapping.Provider {
	return mapping.NewProvider(mapping.Sources{
		VehiclesPath:      config.ExpandPath(viper.GetString("mappings.vehicles")),
		CitiesPath:        config.ExpandPath(viper.GetString("mappings.cities")),
		OrganizationsPath: config.ExpandPath(viper.GetString("mappings.organizations")),
	})
}

// initPipeline assembles the processing pipeline. A missing model backend
// is downgraded to rule-only processing, not an error.
func initPipeline() *pipeline.Pipeline {
	client, err := llm.NewClient(config.LoadLLMConfig())
	if err != nil {
		if errors.Is(err, llm.ErrBackendUnavailable) {
			slog.Warn("No model backend configured, running on rule fallbacks only")
		} else {
			slog.Warn("Model backend unusable, running on rule fallbacks only", "error", err)
		}
		client = nil
	}

	return pipeline.New(client, initMappings())
}
