package db

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"studiohub/internal/domain/errors"
	"studiohub/internal/domain/schema"
)

// Table runs the CRUD statements of one entity, built once from its
// mapping.
type Table[E any] struct {
	s *Storage
	m schema.Mapping[E]

	selectSQL string
	insertSQL string
	updateSQL string
	deleteSQL string
}

func NewTable[E any](s *Storage, m schema.Mapping[E]) *Table[E] {
	cols := strings.Join(m.Columns, ", ")
	placeholders := make([]string, len(m.Columns))
	sets := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		sets[i] = c + " = $" + strconv.Itoa(i+1)
	}
	return &Table[E]{
		s:         s,
		m:         m,
		selectSQL: fmt.Sprintf("SELECT id, created_at, updated_at, %s FROM %s", cols, m.Table),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id, created_at",
			m.Table, cols, strings.Join(placeholders, ", ")),
		updateSQL: fmt.Sprintf("UPDATE %s SET %s, updated_at = now() WHERE id = $%d RETURNING created_at, updated_at",
			m.Table, strings.Join(sets, ", "), len(m.Columns)+1),
		deleteSQL: fmt.Sprintf("DELETE FROM %s", m.Table),
	}
}

func (t *Table[E]) targets(e *E) []any {
	meta := t.m.Meta(e)
	return append([]any{&meta.ID, &meta.CreatedAt, &meta.UpdatedAt}, t.m.Targets(e)...)
}

func (t *Table[E]) Get(ctx context.Context, id int64) (E, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var e E
	err := t.s.q(ctx).QueryRow(ctx, t.selectSQL+" WHERE id = $1", id).Scan(t.targets(&e)...)
	if err != nil {
		err = mapError(t.m.Table, err)
		if err != errors.ErrNotFound {
			t.s.log.Error("failed to get row", zap.String("table", t.m.Table), zap.Int64("id", id), zap.Error(err))
		}
		var zero E
		return zero, err
	}
	return e, nil
}

func (t *Table[E]) List(ctx context.Context, q schema.Query) ([]E, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args, err := t.where(q.Conditions)
	if err != nil {
		return nil, err
	}
	sql := t.selectSQL + where + " ORDER BY id"
	args = append(args, q.Skip)
	sql += " OFFSET $" + strconv.Itoa(len(args))
	if q.Limit > 0 {
		args = append(args, q.Limit)
		sql += " LIMIT $" + strconv.Itoa(len(args))
	}

	rows, err := t.s.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		t.s.log.Error("failed to list rows", zap.String("table", t.m.Table), zap.Error(err))
		return nil, mapError(t.m.Table, err)
	}
	defer rows.Close()

	out := []E{}
	for rows.Next() {
		var e E
		if err := rows.Scan(t.targets(&e)...); err != nil {
			t.s.log.Error("failed to scan row", zap.String("table", t.m.Table), zap.Error(err))
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(t.m.Table, err)
	}
	return out, nil
}

func (t *Table[E]) Count(ctx context.Context, conds []schema.Condition) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args, err := t.where(conds)
	if err != nil {
		return 0, err
	}
	var n int
	if err := t.s.q(ctx).QueryRow(ctx, "SELECT count(*) FROM "+t.m.Table+where, args...).Scan(&n); err != nil {
		t.s.log.Error("failed to count rows", zap.String("table", t.m.Table), zap.Error(err))
		return 0, mapError(t.m.Table, err)
	}
	return n, nil
}

func (t *Table[E]) Create(ctx context.Context, e *E) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	meta := t.m.Meta(e)
	err := t.s.q(ctx).QueryRow(ctx, t.insertSQL, t.m.Values(e)...).Scan(&meta.ID, &meta.CreatedAt)
	if err != nil {
		t.s.log.Error("failed to create row", zap.String("table", t.m.Table), zap.Error(err))
		return mapError(t.m.Table, err)
	}
	meta.UpdatedAt = nil
	t.s.log.Debug("row created", zap.String("table", t.m.Table), zap.Int64("id", meta.ID))
	return nil
}

func (t *Table[E]) Update(ctx context.Context, e *E) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	meta := t.m.Meta(e)
	args := append(t.m.Values(e), meta.ID)
	err := t.s.q(ctx).QueryRow(ctx, t.updateSQL, args...).Scan(&meta.CreatedAt, &meta.UpdatedAt)
	if err != nil {
		err = mapError(t.m.Table, err)
		if err != errors.ErrNotFound {
			t.s.log.Error("failed to update row", zap.String("table", t.m.Table), zap.Int64("id", meta.ID), zap.Error(err))
		}
		return err
	}
	t.s.log.Debug("row updated", zap.String("table", t.m.Table), zap.Int64("id", meta.ID))
	return nil
}

func (t *Table[E]) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := t.s.q(ctx).Exec(ctx, t.deleteSQL+" WHERE id = $1", id)
	if err != nil {
		t.s.log.Error("failed to delete row", zap.String("table", t.m.Table), zap.Int64("id", id), zap.Error(err))
		return mapError(t.m.Table, err)
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	t.s.log.Debug("row deleted", zap.String("table", t.m.Table), zap.Int64("id", id))
	return nil
}

func (t *Table[E]) DeleteWhere(ctx context.Context, conds []schema.Condition) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args, err := t.where(conds)
	if err != nil {
		return 0, err
	}
	ct, err := t.s.q(ctx).Exec(ctx, t.deleteSQL+where, args...)
	if err != nil {
		t.s.log.Error("failed to delete rows", zap.String("table", t.m.Table), zap.Error(err))
		return 0, mapError(t.m.Table, err)
	}
	return ct.RowsAffected(), nil
}

// where renders conds as a WHERE clause with positional arguments. Column
// names are checked against the mapping before they reach the statement.
func (t *Table[E]) where(conds []schema.Condition) (string, []any, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}
	clauses := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	for _, c := range conds {
		if !t.m.HasColumn(c.Column) {
			return "", nil, fmt.Errorf("%w: %s.%s", errors.ErrUnknownColumn, t.m.Table, c.Column)
		}
		switch c.Op {
		case schema.OpEq:
			args = append(args, c.Value)
			clauses = append(clauses, c.Column+" = $"+strconv.Itoa(len(args)))
		case schema.OpIn:
			args = append(args, c.Value)
			clauses = append(clauses, c.Column+" = ANY($"+strconv.Itoa(len(args))+")")
		case schema.OpContains:
			frag, _ := c.Value.(string)
			args = append(args, "%"+escapeLike(frag)+"%")
			clauses = append(clauses, c.Column+" ILIKE $"+strconv.Itoa(len(args)))
		case schema.OpIsNull:
			clauses = append(clauses, c.Column+" IS NULL")
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
