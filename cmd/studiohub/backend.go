package main

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"studiohub/internal/domain/schema"
	"studiohub/internal/server"
	"studiohub/internal/service"
	"studiohub/repository/db"
	"studiohub/repository/inmemory"
)

const (
	storagePostgres = "postgres"
	storageMemory   = "memory"
	storageAuto     = "auto"
)

// backend is the entity store the service runs on.
type backend struct {
	stores service.Stores
	pinger server.Pinger
	close  func()
}

func openBackend(ctx context.Context, cfg *server.Config, mode string, migrateOnStart bool, log *zap.Logger) (*backend, error) {
	switch mode {
	case storageMemory:
		log.Info("Using in-memory storage")
		return memoryBackend(), nil
	case storagePostgres:
		return postgresBackend(ctx, cfg, migrateOnStart, log)
	case storageAuto, "":
		b, err := postgresBackend(ctx, cfg, migrateOnStart, log)
		if err != nil {
			log.Warn("Postgres unavailable, falling back to in-memory storage", zap.Error(err))
			return memoryBackend(), nil
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown storage %q: want %s, %s or %s", mode, storagePostgres, storageMemory, storageAuto)
	}
}

func postgresBackend(ctx context.Context, cfg *server.Config, migrateOnStart bool, log *zap.Logger) (*backend, error) {
	dsn := maskDSN(cfg.DBStr)
	if migrateOnStart {
		log.Info("Applying migrations", zap.String("dsn", dsn), zap.String("path", cfg.MigratePath))
		if err := db.Migration(cfg.DBStr, cfg.MigratePath); err != nil {
			return nil, err
		}
	}
	st, err := db.NewStorage(ctx, cfg.DBStr, log.With(zap.String("dsn", dsn)))
	if err != nil {
		return nil, err
	}
	return &backend{stores: postgresStores(st), pinger: st, close: st.Close}, nil
}

func memoryBackend() *backend {
	st := inmemory.NewStorage()
	return &backend{stores: memoryStores(st), pinger: st, close: func() {}}
}

func postgresStores(st *db.Storage) service.Stores {
	return service.Stores{
		Users:     db.NewTable(st, schema.Users),
		Clients:   db.NewTable(st, schema.Clients),
		Craftsmen: db.NewTable(st, schema.Craftsmen),
		Projects:  db.NewTable(st, schema.Projects),
		Campaigns: db.NewTable(st, schema.Campaigns),
		Items:     db.NewTable(st, schema.Items),
		Quotes:    db.NewTable(st, schema.Quotes),
		Tasks:     db.NewTable(st, schema.Tasks),
		Tx:        st,
	}
}

func memoryStores(st *inmemory.Storage) service.Stores {
	return service.Stores{
		Users:     inmemory.NewTable(st, schema.Users),
		Clients:   inmemory.NewTable(st, schema.Clients),
		Craftsmen: inmemory.NewTable(st, schema.Craftsmen),
		Projects:  inmemory.NewTable(st, schema.Projects),
		Campaigns: inmemory.NewTable(st, schema.Campaigns),
		Items:     inmemory.NewTable(st, schema.Items),
		Quotes:    inmemory.NewTable(st, schema.Quotes),
		Tasks:     inmemory.NewTable(st, schema.Tasks),
		Tx:        st,
	}
}

// maskDSN hides the password of a connection URL for logging.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "*****")
		}
	}
	return u.String()
}
