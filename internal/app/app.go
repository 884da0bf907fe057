// Package app opens the backends selected by the configuration.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"proyectos/internal/config"
	"proyectos/internal/storage"
	"proyectos/internal/storage/mongo"
	"proyectos/internal/storage/slot"
	"proyectos/internal/storage/sqlite"
)

// OpenProjectStore opens the configured project store.
func OpenProjectStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.ProjectStore, error) {
	switch cfg.Store.Driver {
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.Store.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreMongo:
		store, err := mongo.Open(ctx, cfg.Store.MongoURI, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("app: unknown store driver %q", cfg.Store.Driver)
	}
}

// OpenSlot opens the configured sprint slot. The returned closer releases
// any connection held by the backend.
func OpenSlot(ctx context.Context, cfg *config.Config) (slot.Store, io.Closer, error) {
	switch cfg.Slot.Driver {
	case config.SlotFile:
		return slot.NewFile(cfg.Slot.Path), nopCloser{}, nil
	case config.SlotSQLite:
		db, err := slot.OpenSQLite(cfg.Slot.Path)
		if err != nil {
			return nil, nil, err
		}
		s, err := slot.NewGorm(db, cfg.Slot.Key)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("app: slot db handle: %w", err)
		}
		return s, sqlDB, nil
	case config.SlotRedis:
		s, err := slot.NewRedis(ctx, cfg.Slot.RedisURL, cfg.Slot.Key)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("app: unknown slot driver %q", cfg.Slot.Driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
