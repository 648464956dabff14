// Package repository defines data access interfaces for auratheme.
// All database access goes through these interfaces, enabling easy testing
// and database backend switching.
package repository

import (
	"context"

	"github.com/jmylchreest/auratheme/internal/models"
)

// PreferenceRepository is a flat key-value store partitioned by namespace.
// Values are unsigned 32-bit integers.
type PreferenceRepository interface {
	// GetUint returns the value stored under namespace/key. found is false,
	// with a nil error, when the key has never been written.
	GetUint(ctx context.Context, namespace, key string) (value uint32, found bool, err error)
	// PutUint creates or overwrites namespace/key.
	PutUint(ctx context.Context, namespace, key string, value uint32) error
	// List returns every entry in namespace ordered by key.
	List(ctx context.Context, namespace string) ([]*models.Preference, error)
	// DeleteNamespace removes every entry in namespace.
	DeleteNamespace(ctx context.Context, namespace string) error
}
