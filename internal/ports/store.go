package ports

import (
	"context"
)

// StateStore persists user-owned values as JSON under fixed keys. Load leaves
// v untouched and returns false when nothing is stored under key.
type StateStore interface {
	Load(ctx context.Context, key string, v interface{}) (bool, error)
	Save(ctx context.Context, key string, v interface{}) error
}
