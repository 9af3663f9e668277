package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/geoarb/config"
	"github.com/alejandrodnm/geoarb/internal/adapters/catalog"
	"github.com/alejandrodnm/geoarb/internal/adapters/storage"
	"github.com/alejandrodnm/geoarb/internal/domain"
	"github.com/alejandrodnm/geoarb/internal/ports"
)

// loadVenues lee el catálogo desde la fuente configurada.
func loadVenues(ctx context.Context, cfg config.VenuesConfig) ([]domain.Venue, error) {
	var src ports.VenueSource
	switch cfg.Source {
	case config.SourceSQLite:
		store, err := storage.NewSQLiteStorage(cfg.Path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		src = store
	default:
		src = catalog.NewJSONFile(cfg.Path)
	}

	venues, err := src.LoadVenues(ctx)
	if err != nil {
		return nil, err
	}
	if len(venues) == 0 {
		return nil, fmt.Errorf("loadVenues: %s catalog %q is empty", cfg.Source, cfg.Path)
	}
	return venues, nil
}

// runImport copia el catálogo JSON configurado a una base SQLite.
func runImport(ctx context.Context, cfg config.VenuesConfig, dbPath string) error {
	if cfg.Source != config.SourceJSON {
		return fmt.Errorf("runImport: venues.source must be json, got %q", cfg.Source)
	}

	venues, err := catalog.NewJSONFile(cfg.Path).LoadVenues(ctx)
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveVenues(ctx, venues); err != nil {
		return err
	}
	slog.Info("catalog imported", "from", cfg.Path, "to", dbPath, "venues", len(venues))
	return nil
}
