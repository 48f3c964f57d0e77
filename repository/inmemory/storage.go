// Package inmemory is a process-local store with the same uniqueness and
// foreign-key contract as the Postgres store. It backs tests and the
// "memory" storage mode.
package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studiohub/internal/domain/errors"
)

// table is the untyped view a Storage keeps of each registered Table, used
// for cross-table constraint checks.
type table interface {
	exists(id int64) bool
	// referencing returns the column of some row pointing at id in target.
	referencing(target string, id int64) (string, bool)
}

type Storage struct {
	mu     sync.Mutex
	txMu   sync.Mutex
	tables map[string]table
	now    func() time.Time
}

func NewStorage() *Storage {
	return &Storage{
		tables: make(map[string]table),
		now:    time.Now,
	}
}

// WithClock replaces the clock used for created_at and updated_at.
func (s *Storage) WithClock(now func() time.Time) *Storage {
	s.now = now
	return s
}

func (s *Storage) Ping(context.Context) error { return nil }

type txKey struct{}

// txLog collects the undo steps of the writes made inside one transaction.
type txLog struct {
	undo []func()
}

func txFrom(ctx context.Context) *txLog {
	l, _ := ctx.Value(txKey{}).(*txLog)
	return l
}

// WithinTx runs fn and reverts the writes fn made when it fails. Writes
// made outside the transaction are left alone. Transactions are
// serialized; a nested call joins the outer one.
func (s *Storage) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	l := &txLog{}
	if err := fn(context.WithValue(ctx, txKey{}, l)); err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := len(l.undo) - 1; i >= 0; i-- {
			l.undo[i]()
		}
		return err
	}
	return nil
}

// onRollback registers undo for the write just made when ctx belongs to a
// transaction. Callers hold s.mu.
func (s *Storage) onRollback(ctx context.Context, undo func()) {
	if l := txFrom(ctx); l != nil {
		l.undo = append(l.undo, undo)
	}
}

func (s *Storage) register(name string, t table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.tables[name]; dup {
		panic(fmt.Sprintf("inmemory: table %q registered twice", name))
	}
	s.tables[name] = t
}

// checkReference requires id to exist in target. Callers hold s.mu.
func (s *Storage) checkReference(from, column, target string, id int64) error {
	t, ok := s.tables[target]
	if ok && t.exists(id) {
		return nil
	}
	return &errors.IntegrityError{
		Table:      from,
		Constraint: from + "_" + column + "_fkey",
		Reason:     "referenced row does not exist",
		Err:        fmt.Errorf("%s %d not found", target, id),
	}
}

// checkUnreferenced rejects deleting a row other tables still point at.
// Callers hold s.mu.
func (s *Storage) checkUnreferenced(target string, id int64) error {
	for name, t := range s.tables {
		if column, found := t.referencing(target, id); found {
			return &errors.IntegrityError{
				Table:      name,
				Constraint: name + "_" + column + "_fkey",
				Reason:     "row is still referenced",
				Err:        fmt.Errorf("%s %d is referenced from %s", target, id, name),
			}
		}
	}
	return nil
}
