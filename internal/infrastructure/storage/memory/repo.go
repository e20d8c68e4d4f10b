// Package memory provides in-memory repositories for fixture-backed pages.
// Mutations only live for the lifetime of the repository.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"rbadmin/internal/core/apperror"
	"rbadmin/internal/core/id"
	"rbadmin/internal/core/record"
)

// Codec tells the repository how to read and assign identifiers.
type Codec[T any] struct {
	IDOf   func(T) id.ID
	WithID func(T, id.ID) T
	// Clone copies a record; nil means records are values.
	Clone func(T) T
}

// RecordCodec is the Codec for untyped records.
func RecordCodec() Codec[record.Record] {
	return Codec[record.Record]{
		IDOf:   record.Record.ID,
		WithID: record.Record.WithID,
		Clone:  record.Record.Clone,
	}
}

// Repo is a mutex-guarded slice implementing domain.Repository.
type Repo[T any] struct {
	name  string
	codec Codec[T]

	mu    sync.RWMutex
	items []T
}

// New creates a repository seeded with a copy of seed.
func New[T any](name string, codec Codec[T], seed []T) *Repo[T] {
	if codec.Clone == nil {
		codec.Clone = func(v T) T { return v }
	}
	r := &Repo[T]{name: name, codec: codec, items: make([]T, 0, len(seed))}
	for _, item := range seed {
		r.items = append(r.items, codec.Clone(item))
	}
	return r
}

// NewRecords creates a repository of untyped records.
func NewRecords(name string, seed []record.Record) *Repo[record.Record] {
	return New(name, RecordCodec(), seed)
}

// List returns a copy of the collection in insertion order.
func (r *Repo[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, len(r.items))
	for i, item := range r.items {
		out[i] = r.codec.Clone(item)
	}
	return out, nil
}

// Get returns one record.
func (r *Repo[T]) Get(ctx context.Context, recordID id.ID) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(recordID); i >= 0 {
		return r.codec.Clone(r.items[i]), nil
	}
	var zero T
	return zero, apperror.NewNotFound(r.name, recordID.String())
}

// Create appends item. A record without an id gets max(id)+1.
func (r *Repo[T]) Create(ctx context.Context, item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recordID := r.codec.IDOf(item)
	if recordID.IsZero() {
		recordID = id.Next(r.ids())
		item = r.codec.WithID(item, recordID)
	} else if r.indexOf(recordID) >= 0 {
		return item, apperror.NewConflict(fmt.Sprintf("%s %s already exists", r.name, recordID))
	}

	r.items = append(r.items, r.codec.Clone(item))
	return r.codec.Clone(item), nil
}

// Update replaces the record with item's id.
func (r *Repo[T]) Update(ctx context.Context, item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recordID := r.codec.IDOf(item)
	i := r.indexOf(recordID)
	if i < 0 {
		return apperror.NewNotFound(r.name, recordID.String())
	}
	r.items[i] = r.codec.Clone(item)
	return nil
}

// Delete removes recordID. Absent ids are ignored.
func (r *Repo[T]) Delete(ctx context.Context, recordID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = slices.DeleteFunc(r.items, func(item T) bool { return r.codec.IDOf(item) == recordID })
	return nil
}

// Len returns the number of stored records.
func (r *Repo[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *Repo[T]) indexOf(recordID id.ID) int {
	return slices.IndexFunc(r.items, func(item T) bool { return r.codec.IDOf(item) == recordID })
}

func (r *Repo[T]) ids() []id.ID {
	out := make([]id.ID, len(r.items))
	for i, item := range r.items {
		out[i] = r.codec.IDOf(item)
	}
	return out
}
