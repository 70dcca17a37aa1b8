package core

import (
	"context"
)

// KVStore is a durable string-keyed persistence surface.
// Get reports ok=false when the key has never been written.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

type ContentRepository interface {
	Load(ctx context.Context) []ContentRecord
	Append(ctx context.Context, record ContentRecord) error
	All() []ContentRecord
}
