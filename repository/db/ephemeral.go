package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studiohub/internal/domain/errors"
)

const maxIdentifierLength = 63

// EphemeralDB is a throwaway database created for one test run.
type EphemeralDB struct {
	Name string
	// DSN connects to the ephemeral database itself.
	DSN      string
	adminDSN string
}

// CreateEphemeral creates a uniquely named database through adminDSN and,
// when migratePath is set, applies the migrations to it. adminDSN must be a
// postgres:// URL.
func CreateEphemeral(ctx context.Context, adminDSN, label, migratePath string) (*EphemeralDB, error) {
	u, err := url.Parse(adminDSN)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		return nil, fmt.Errorf("%w: admin dsn must be a postgres url", errors.ErrBadRequest)
	}
	name := EphemeralName(label, time.Now())

	conn, err := pgx.Connect(ctx, adminDSN)
	if err != nil {
		return nil, fmt.Errorf("connect admin database: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		return nil, fmt.Errorf("create database %s: %w", name, err)
	}

	u.Path = "/" + name
	e := &EphemeralDB{Name: name, DSN: u.String(), adminDSN: adminDSN}
	if migratePath != "" {
		if err := Migration(e.DSN, migratePath); err != nil {
			_ = e.Drop(ctx)
			return nil, err
		}
	}
	return e, nil
}

// Drop terminates the remaining sessions of the database and drops it.
func (e *EphemeralDB) Drop(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, e.adminDSN)
	if err != nil {
		return fmt.Errorf("connect admin database: %w", err)
	}
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx,
		`SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1 AND pid <> pg_backend_pid()`,
		e.Name)
	if err != nil {
		return fmt.Errorf("terminate sessions of %s: %w", e.Name, err)
	}
	if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{e.Name}.Sanitize()); err != nil {
		return fmt.Errorf("drop database %s: %w", e.Name, err)
	}
	return nil
}

// EphemeralName builds test_<label>_<millis>_<random>, lower-cased and cut
// to the Postgres identifier limit.
func EphemeralName(label string, now time.Time) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	clean := strings.Trim(b.String(), "_")
	if clean == "" {
		clean = "db"
	}
	suffix := fmt.Sprintf("_%d_%s", now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	room := maxIdentifierLength - len("test_") - len(suffix)
	if len(clean) > room {
		clean = clean[:room]
	}
	return "test_" + clean + suffix
}
