// Package state persists the small whitelisted set of client values that
// survive a restart: the bearer credential, the last-known user record and
// the event filter state. Everything else the client holds is in-memory only.
package state

import (
	"context"
)

// Well-known keys. Only values listed here may be persisted.
const (
	KeyCredential = "credential"
	KeyUser       = "user"
	KeyFilters    = "filters"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
