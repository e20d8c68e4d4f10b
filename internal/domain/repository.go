// Package domain provides the Resource Table Controller: the list, search, sort,
// paginate and create/edit/delete logic shared by every resource page.
package domain

import (
	"context"

	"rbadmin/internal/core/id"
)

// --- Repository ---

// Repository is the data source strategy behind a page. Fixture-backed pages use
// an in-memory implementation; API-backed pages use the remote resource API.
type Repository[T any] interface {
	// List returns the whole collection.
	List(ctx context.Context) ([]T, error)

	// Get returns one record or a NOT_FOUND AppError.
	Get(ctx context.Context, id id.ID) (T, error)

	// Create stores a new record and returns it as stored. The returned record
	// may lack an id when the store does not assign one.
	Create(ctx context.Context, item T) (T, error)

	// Update replaces the stored fields of an existing record.
	Update(ctx context.Context, item T) error

	// Delete removes a record. Deleting an absent id is not an error.
	Delete(ctx context.Context, id id.ID) error
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	AfterCreate HookEvent = "after_create"
	AfterUpdate HookEvent = "after_update"
	AfterDelete HookEvent = "after_delete"
)

// Hook runs after a controller operation committed. Hooks cannot veto.
type Hook[T any] func(ctx context.Context, item T)

// HookRegistry stores lifecycle hooks for a record type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, item T) {
	for _, hook := range r.hooks[event] {
		hook(ctx, item)
	}
}
