package repository

import "context"

// Store is the five-operation contract every entity repository satisfies.
// Handlers depend on this interface instead of concrete repos so that the
// storage layer stays injectable; tests swap in memory-backed fakes.
//
// Get, Update and Delete return ErrNotFound when no row matches.  Create
// and Update on entities with foreign keys return a ValidationError when a
// referenced parent is missing.  Delete returns the removed record.
type Store[T any] interface {
	Create(ctx context.Context, in T) (T, error)
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint64) (T, error)
	Update(ctx context.Context, id uint64, in T) (T, error)
	Delete(ctx context.Context, id uint64) (T, error)
}
