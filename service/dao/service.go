// Package dao defines the generic store contract implemented by session backends.
package dao

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Load and Delete for an absent entity.
	ErrNotFound = errors.New("dao: not found")
	// ErrInvalidID is returned for an empty key.
	ErrInvalidID = errors.New("dao: invalid id")
	// ErrNilEntity is returned when saving a nil entity.
	ErrNilEntity = errors.New("dao: nil entity")
)

// Service represents a keyed entity store
type Service[K comparable, T any] interface {
	// Save creates or replaces the entity.
	Save(ctx context.Context, t *T) error
	// Load returns the entity or ErrNotFound.
	Load(ctx context.Context, id K) (*T, error)
	// Delete removes the entity or returns ErrNotFound.
	Delete(ctx context.Context, id K) error
	// List returns entities matching all supported parameters.
	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
