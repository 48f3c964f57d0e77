package db

import (
	stderrors "errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"studiohub/internal/domain/errors"
)

// Migration applies every pending up migration found in migratePath.
func Migration(dbStr, migratePath string) error {
	if dbStr == "" {
		return fmt.Errorf("%w: empty connection string", errors.ErrDatabaseConnection)
	}
	if migratePath == "" {
		return fmt.Errorf("%w: empty migrations path", errors.ErrBadRequest)
	}
	m, err := migrate.New("file://"+migratePath, dbStr)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()
	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
