// Package gateway is the access layer for the external relational store.
// The store is a remote collaborator speaking a PostgREST-style protocol;
// this package exposes the small request surface the services need and an
// in-memory implementation for tests.
package gateway

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrRemote wraps transport and non-2xx failures from the store.
	ErrRemote = errors.New("data gateway request failed")
)

type Op string

const (
	OpEq       Op = "eq"
	OpIn       Op = "in"
	OpContains Op = "contains"
)

// Filter is a single predicate on a column.
type Filter struct {
	Column string
	Op     Op
	Value  any
	Values []any // OpIn only
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

func In(column string, values ...any) Filter {
	return Filter{Column: column, Op: OpIn, Values: values}
}

// Contains matches rows whose column contains the substring. Used for the
// metadata search on profiles.
func Contains(column string, substring string) Filter {
	return Filter{Column: column, Op: OpContains, Value: substring}
}

// Query describes a Select against one collection.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// Gateway is what services depend on. dest arguments are pointers to slices
// (Select) or structs (Insert) decoded from the store's JSON rows.
type Gateway interface {
	// Select fills dest (a *[]T) with the rows matching q.
	Select(ctx context.Context, q Query, dest any) error

	// Insert writes row into the collection. The store assigns id and
	// created_at when the row omits them; the stored row is decoded into
	// dest when dest is non-nil.
	Insert(ctx context.Context, collection string, row any, dest any) error

	// Update applies patch to every row matching filters and returns the
	// number of rows changed.
	Update(ctx context.Context, collection string, filters []Filter, patch map[string]any) (int, error)

	// Delete removes matching rows and returns the number removed.
	Delete(ctx context.Context, collection string, filters []Filter) (int, error)
}

func validateQuery(q Query) error {
	if q.Collection == "" {
		return fmt.Errorf("empty collection name")
	}
	for _, f := range q.Filters {
		if err := validateFilter(f); err != nil {
			return err
		}
	}
	return nil
}

func validateFilter(f Filter) error {
	if f.Column == "" {
		return fmt.Errorf("empty filter column")
	}
	switch f.Op {
	case OpEq, OpContains:
		if f.Value == nil {
			return fmt.Errorf("filter %s on %q has no value", f.Op, f.Column)
		}
	case OpIn:
		if len(f.Values) == 0 {
			return fmt.Errorf("in filter on %q has no values", f.Column)
		}
	default:
		return fmt.Errorf("unknown filter op: %q", f.Op)
	}
	return nil
}
