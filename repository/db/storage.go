package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"studiohub/internal/domain/errors"
)

const queryTimeout = 15 * time.Second

type Storage struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func NewStorage(ctx context.Context, connStr string, log *zap.Logger) (*Storage, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Error("failed to create connection pool", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseConnection, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Error("failed to reach database", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseConnection, err)
	}
	log.Info("database connection established")
	return &Storage{pool: pool, log: log}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.pool.Ping(ctx)
}

func (s *Storage) Close() {
	s.pool.Close()
}

type txKey struct{}

// WithinTx runs fn in a transaction carried by the context it receives.
// Tables reached through that context take part in it; a nested call joins
// the outer transaction.
func (s *Storage) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.log.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.log.Error("failed to roll back transaction", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		s.log.Error("failed to commit transaction", zap.Error(err))
		return mapError("", err)
	}
	return nil
}

func (s *Storage) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.pool
}
