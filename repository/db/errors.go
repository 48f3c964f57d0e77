package db

import (
	stderrors "errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"studiohub/internal/domain/errors"
)

// mapError translates driver errors into domain errors: constraint
// violations become IntegrityError and a missing row becomes ErrNotFound.
func mapError(table string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, pgx.ErrNoRows) {
		return errors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !stderrors.As(err, &pgErr) {
		return err
	}
	var reason string
	switch pgErr.Code {
	case "23505":
		reason = "duplicate value violates unique constraint"
	case "23503":
		reason = "referenced row does not exist"
		if strings.Contains(pgErr.Detail, "still referenced") {
			reason = "row is still referenced"
		}
	case "23514":
		reason = "value violates check constraint"
	case "23502":
		reason = "required column is null"
	default:
		return err
	}
	if pgErr.TableName != "" {
		table = pgErr.TableName
	}
	return &errors.IntegrityError{
		Table:      table,
		Constraint: pgErr.ConstraintName,
		Reason:     reason,
		Err:        err,
	}
}
