// Package service composes validation and storage into the operations the
// HTTP layer exposes.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"studiohub/internal/domain/schema"
)

// Store is the persistence contract every entity table fulfils.
type Store[E any] interface {
	Get(ctx context.Context, id int64) (E, error)
	List(ctx context.Context, q schema.Query) ([]E, error)
	Count(ctx context.Context, conds []schema.Condition) (int, error)
	Create(ctx context.Context, e *E) error
	Update(ctx context.Context, e *E) error
	Delete(ctx context.Context, id int64) error
	DeleteWhere(ctx context.Context, conds []schema.Condition) (int64, error)
}

// Transactor runs fn atomically. Stores reached through the context passed
// to fn take part in the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Page is one window of a filtered listing.
type Page[E any] struct {
	Items []E
	Total int
	Skip  int
	Limit int
}

// CRUD is the create/read/update/delete function set of entity E with
// create payload C and update payload U.
type CRUD[E, C, U any] struct {
	Name  string
	Store Store[E]
	Tx    Transactor

	ValidateCreate func(in C) (C, error)
	ValidateUpdate func(current E, in U) (U, error)
	// Build turns a validated create payload into an entity.
	Build func(ctx context.Context, in C) (E, error)
	// Apply overlays a validated update payload on an entity.
	Apply func(in U, e *E)
	// Cascade removes dependants of e before e itself is deleted. It runs
	// in the same transaction as the delete.
	Cascade func(ctx context.Context, e E) error

	ID  func(e *E) int64
	Log *zap.Logger
}

func (c *CRUD[E, C, U]) Get(ctx context.Context, id int64) (E, error) {
	return c.Store.Get(ctx, id)
}

func (c *CRUD[E, C, U]) List(ctx context.Context, conds []schema.Condition, skip, limit int) (Page[E], error) {
	skip, limit = window(skip, limit)
	items, err := c.Store.List(ctx, schema.Query{Conditions: conds, Skip: skip, Limit: limit})
	if err != nil {
		return Page[E]{}, err
	}
	total, err := c.Store.Count(ctx, conds)
	if err != nil {
		return Page[E]{}, err
	}
	return Page[E]{Items: items, Total: total, Skip: skip, Limit: limit}, nil
}

func (c *CRUD[E, C, U]) Create(ctx context.Context, in C) (E, error) {
	var zero E
	valid, err := c.ValidateCreate(in)
	if err != nil {
		return zero, err
	}
	e, err := c.Build(ctx, valid)
	if err != nil {
		return zero, err
	}
	if err := c.Store.Create(ctx, &e); err != nil {
		return zero, err
	}
	c.Log.Info(c.Name+" created", zap.Int64("id", c.ID(&e)))
	return e, nil
}

func (c *CRUD[E, C, U]) Update(ctx context.Context, id int64, in U) (E, error) {
	var zero E
	current, err := c.Store.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	valid, err := c.ValidateUpdate(current, in)
	if err != nil {
		return zero, err
	}
	c.Apply(valid, &current)
	if err := c.Store.Update(ctx, &current); err != nil {
		return zero, err
	}
	c.Log.Info(c.Name+" updated", zap.Int64("id", id))
	return current, nil
}

// Delete removes the entity with id, and its dependants when Cascade is
// set, returning what was deleted.
func (c *CRUD[E, C, U]) Delete(ctx context.Context, id int64) (E, error) {
	var deleted E
	err := c.Tx.WithinTx(ctx, func(ctx context.Context) error {
		e, err := c.Store.Get(ctx, id)
		if err != nil {
			return err
		}
		if c.Cascade != nil {
			if err := c.Cascade(ctx, e); err != nil {
				return fmt.Errorf("delete dependants of %s %d: %w", c.Name, id, err)
			}
		}
		if err := c.Store.Delete(ctx, id); err != nil {
			return err
		}
		deleted = e
		return nil
	})
	if err != nil {
		var zero E
		return zero, err
	}
	c.Log.Info(c.Name+" deleted", zap.Int64("id", id))
	return deleted, nil
}

// window clamps paging parameters to the accepted range.
func window(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	switch {
	case limit <= 0:
		limit = schema.DefaultLimit
	case limit > schema.MaxLimit:
		limit = schema.MaxLimit
	}
	return skip, limit
}
