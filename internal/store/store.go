// Package store implements the payables table against the backing database.
// Two backends exist: postgres (hosted, LISTEN/NOTIFY change feed) and
// sqlite (local file, in-process change feed). Both expose the same narrow
// surface; nothing above this package knows which one is in play.
package store

import (
	"context"
	"errors"

	"github.com/tripay/tripay/internal/payable"
)

// ErrNotFound is returned when an update targets a record that no longer
// exists. Deletes are idempotent and do NOT return it.
var ErrNotFound = errors.New("store: record not found")

// ErrNegativeAmount rejects amount writes below zero.
var ErrNegativeAmount = errors.New("store: amount must be non-negative")

// Store is the queryable payables table, always scoped by owner on reads.
type Store interface {
	// List returns every payable owned by ownerID, due date ascending.
	List(ctx context.Context, ownerID string) ([]payable.Payable, error)

	// Insert creates a record from the draft and returns its id. Timestamps
	// and the id are assigned here, never by the caller.
	Insert(ctx context.Context, ownerID string, d payable.Draft) (string, error)

	// UpdateField changes exactly one column on one record.
	UpdateField(ctx context.Context, id string, upd payable.FieldUpdate) error

	// Delete removes a record. Deleting an id that is already gone is a
	// success with zero rows, not an error.
	Delete(ctx context.Context, id string) error

	Close() error
}

// Event is a change notification. The payload carries only the owner: every
// event is a cue to refetch full truth, never to merge partial state.
type Event struct {
	OwnerID string
}

// Watcher delivers change events for one owner's record set. The returned
// cancel func tears the subscription down; dropping it leaks the listener.
type Watcher interface {
	Subscribe(ownerID string) (<-chan Event, func(), error)
}
