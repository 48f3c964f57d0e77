package inmemory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"studiohub/internal/domain/errors"
	"studiohub/internal/domain/schema"
)

// Table holds the rows of one entity. All access goes through the owning
// Storage's lock.
type Table[E any] struct {
	s      *Storage
	m      schema.Mapping[E]
	rows   map[int64]E
	nextID int64
}

// NewTable registers a table for m in s.
func NewTable[E any](s *Storage, m schema.Mapping[E]) *Table[E] {
	t := &Table[E]{s: s, m: m, rows: make(map[int64]E), nextID: 1}
	s.register(m.Table, t)
	return t
}

func (t *Table[E]) Get(_ context.Context, id int64) (E, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	e, ok := t.rows[id]
	if !ok {
		var zero E
		return zero, errors.ErrNotFound
	}
	return e, nil
}

func (t *Table[E]) List(_ context.Context, q schema.Query) ([]E, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	ids, err := t.match(q.Conditions)
	if err != nil {
		return nil, err
	}
	if q.Skip >= len(ids) {
		return []E{}, nil
	}
	ids = ids[q.Skip:]
	if q.Limit > 0 && q.Limit < len(ids) {
		ids = ids[:q.Limit]
	}
	out := make([]E, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out, nil
}

func (t *Table[E]) Count(_ context.Context, conds []schema.Condition) (int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	ids, err := t.match(conds)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Create assigns e its id and created_at and stores a copy.
func (t *Table[E]) Create(ctx context.Context, e *E) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.checkConstraints(e, 0); err != nil {
		return err
	}
	meta := t.m.Meta(e)
	meta.ID = t.nextID
	meta.CreatedAt = t.s.now().UTC()
	meta.UpdatedAt = nil
	t.nextID++
	id := meta.ID
	t.rows[id] = *e
	t.s.onRollback(ctx, func() { delete(t.rows, id) })
	return nil
}

// Update replaces the stored row with e, keeping its created_at and
// stamping updated_at.
func (t *Table[E]) Update(ctx context.Context, e *E) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	meta := t.m.Meta(e)
	stored, ok := t.rows[meta.ID]
	if !ok {
		return errors.ErrNotFound
	}
	if err := t.checkConstraints(e, meta.ID); err != nil {
		return err
	}
	now := t.s.now().UTC()
	meta.CreatedAt = t.m.Meta(&stored).CreatedAt
	meta.UpdatedAt = &now
	id := meta.ID
	t.rows[id] = *e
	t.s.onRollback(ctx, func() { t.rows[id] = stored })
	return nil
}

func (t *Table[E]) Delete(ctx context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	stored, ok := t.rows[id]
	if !ok {
		return errors.ErrNotFound
	}
	if err := t.s.checkUnreferenced(t.m.Table, id); err != nil {
		return err
	}
	delete(t.rows, id)
	t.s.onRollback(ctx, func() { t.rows[id] = stored })
	return nil
}

// DeleteWhere removes every row matching conds. Either all of them go or,
// when one is still referenced, none do.
func (t *Table[E]) DeleteWhere(ctx context.Context, conds []schema.Condition) (int64, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	ids, err := t.match(conds)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := t.s.checkUnreferenced(t.m.Table, id); err != nil {
			return 0, err
		}
	}
	for _, id := range ids {
		stored := t.rows[id]
		delete(t.rows, id)
		t.s.onRollback(ctx, func() { t.rows[id] = stored })
	}
	return int64(len(ids)), nil
}

func (t *Table[E]) checkConstraints(e *E, self int64) error {
	for _, col := range t.m.Unique {
		v, _ := t.m.Value(e, col)
		want := normalize(v)
		if want == nil {
			continue
		}
		for id, row := range t.rows {
			if id == self {
				continue
			}
			other, _ := t.m.Value(&row, col)
			if equal(normalize(other), want) {
				return &errors.IntegrityError{
					Table:      t.m.Table,
					Constraint: t.m.Table + "_" + col + "_key",
					Reason:     "duplicate value violates unique constraint",
					Err:        fmt.Errorf("%s %v already exists", col, want),
				}
			}
		}
	}
	for _, col := range slices.Sorted(maps.Keys(t.m.References)) {
		v, _ := t.m.Value(e, col)
		id, ok := normalize(v).(int64)
		if !ok {
			continue
		}
		if err := t.s.checkReference(t.m.Table, col, t.m.References[col], id); err != nil {
			return err
		}
	}
	return nil
}

// match returns the ids of rows satisfying every condition, ascending.
func (t *Table[E]) match(conds []schema.Condition) ([]int64, error) {
	for _, c := range conds {
		if !t.m.HasColumn(c.Column) {
			return nil, fmt.Errorf("%w: %s.%s", errors.ErrUnknownColumn, t.m.Table, c.Column)
		}
	}
	ids := make([]int64, 0, len(t.rows))
	for id, row := range t.rows {
		if t.matches(&row, conds) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (t *Table[E]) matches(e *E, conds []schema.Condition) bool {
	for _, c := range conds {
		v, _ := t.m.Value(e, c.Column)
		v = normalize(v)
		switch c.Op {
		case schema.OpEq:
			if !equal(v, normalize(c.Value)) {
				return false
			}
		case schema.OpIn:
			s, ok := v.(string)
			if !ok || !slices.Contains(c.Value.([]string), s) {
				return false
			}
		case schema.OpContains:
			s, ok := v.(string)
			frag, _ := c.Value.(string)
			if !ok || !strings.Contains(strings.ToLower(s), strings.ToLower(frag)) {
				return false
			}
		case schema.OpIsNull:
			if v != nil {
				return false
			}
		}
	}
	return true
}

func (t *Table[E]) exists(id int64) bool {
	_, ok := t.rows[id]
	return ok
}

func (t *Table[E]) referencing(target string, id int64) (string, bool) {
	for _, col := range slices.Sorted(maps.Keys(t.m.References)) {
		if t.m.References[col] != target {
			continue
		}
		for _, row := range t.rows {
			v, _ := t.m.Value(&row, col)
			if ref, ok := normalize(v).(int64); ok && ref == id {
				return col, true
			}
		}
	}
	return "", false
}

// normalize turns column values into comparable scalars: nil pointers become
// nil and integers become int64.
func normalize(v any) any {
	switch x := v.(type) {
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case *int64:
		if x == nil {
			return nil
		}
		return *x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	}
	return v
}

func equal(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}
