// Package metadata is the key/value store blogctl keeps its session in.
package metadata

import (
	"context"
)

// Repository stores small values by key. Get returns nil, nil for a missing
// key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
