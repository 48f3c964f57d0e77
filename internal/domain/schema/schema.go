// Package schema declares how each entity maps onto a relational table and
// how list queries are expressed independently of the storage engine.
package schema

import (
	"slices"

	"studiohub/internal/domain/models"
)

// Mapping is the declarative table mapping of entity E. Columns excludes the
// id and timestamp columns, which every table has.
type Mapping[E any] struct {
	Table   string
	Columns []string
	// Unique lists columns whose values must be distinct across rows.
	Unique []string
	// References maps foreign-key columns to the table they point at.
	References map[string]string
	// Meta exposes the identity and timestamps of e.
	Meta func(e *E) *models.Base
	// Values returns the column values of e in Columns order, in a form the
	// database driver can encode.
	Values func(e *E) []any
	// Targets returns scan destinations for Columns, in order.
	Targets func(e *E) []any
}

// HasColumn reports whether name is id or one of the mapped columns.
func (m Mapping[E]) HasColumn(name string) bool {
	return name == "id" || slices.Contains(m.Columns, name)
}

// Value returns the value of column name for e.
func (m Mapping[E]) Value(e *E, name string) (any, bool) {
	if name == "id" {
		return m.Meta(e).ID, true
	}
	idx := slices.Index(m.Columns, name)
	if idx < 0 {
		return nil, false
	}
	return m.Values(e)[idx], true
}

type Op int

const (
	OpEq Op = iota
	OpIn
	// OpContains is a case-insensitive substring match.
	OpContains
	OpIsNull
)

type Condition struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, value any) Condition {
	return Condition{Column: column, Op: OpEq, Value: value}
}

func In(column string, values ...string) Condition {
	return Condition{Column: column, Op: OpIn, Value: values}
}

func Contains(column, fragment string) Condition {
	return Condition{Column: column, Op: OpContains, Value: fragment}
}

func IsNull(column string) Condition {
	return Condition{Column: column, Op: OpIsNull}
}

// Query selects rows matching every condition, ordered by id. A zero Limit
// means no limit.
type Query struct {
	Conditions []Condition
	Skip       int
	Limit      int
}

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)
