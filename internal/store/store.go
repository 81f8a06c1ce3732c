package store

import (
	"context"
	"errors"
)

// Collection names in the record store.
const (
	CollectionDoctors      = "doctors"
	CollectionServices     = "services"
	CollectionPatients     = "patients"
	CollectionAppointments = "appointments"
	CollectionUsers        = "users"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrMissingID = errors.New("document has no _id")
)

// ListOptions narrows and orders a List call. Filter is matched by field
// equality; SortField orders results by a single field (ascending unless
// SortDesc is set). A zero ListOptions returns the whole collection.
type ListOptions struct {
	Filter    map[string]interface{}
	SortField string
	SortDesc  bool
}

// Store is a thin adapter exposing create/read/update/delete/list against
// named collections in the document store. All operations are single-attempt:
// failures surface to the caller with no retry or queueing. List always
// fetches the entire (filtered) collection; there is no pagination.
//
// Documents are structs with bson tags; the record id lives in the "_id"
// field. Update applies a partial field set and never touches other fields.
type Store interface {
	List(ctx context.Context, collection string, opts ListOptions, out interface{}) error
	Get(ctx context.Context, collection, id string, out interface{}) error
	Create(ctx context.Context, collection string, doc interface{}) error
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
	Count(ctx context.Context, collection string, filter map[string]interface{}) (int64, error)
}
