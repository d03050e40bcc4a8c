// Package metadata is the durable client-side key-value store backing the
// session. Values are opaque byte slices; callers own their encoding.
package metadata

import "context"

// Repository is the storage contract. A missing key is not an error:
// Get returns (nil, nil).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error

	// Update runs fn against a transactional view of the store: either
	// every write fn makes is applied, or none is.
	Update(ctx context.Context, fn func(Repository) error) error
}
