// Package store provides the adventure storage interface and SQLite implementation.
package store

import (
	"context"

	"github.com/rcliao/cyoa/internal/model"
)

// Store defines the adventure storage interface.
type Store interface {
	// LoadAll returns every stored adventure with its sections, choices and media.
	LoadAll(ctx context.Context) ([]*model.Adventure, error)

	// Save inserts or replaces an adventure and everything it owns.
	Save(ctx context.Context, adv *model.Adventure) error

	// Delete removes an adventure by id.
	Delete(ctx context.Context, id int) error

	// Close closes the store.
	Close() error
}
