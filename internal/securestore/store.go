// Package securestore is the boundary to an encrypted-at-rest secret
// facility. Entries are addressed by a fixed service identifier plus an
// account name; the payload is the opaque secret bytes, never any metadata.
package securestore

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no entry exists for the account.
	ErrNotFound = errors.New("secure store: item not found")
	// ErrUnavailable is returned when the backing facility cannot be reached.
	ErrUnavailable = errors.New("secure store: unavailable")
	// ErrCorrupt is returned when a stored payload cannot be decoded.
	ErrCorrupt = errors.New("secure store: corrupt data")
)

// BackendError wraps a backend failure with its platform status code so
// callers can report diagnostics without losing the typed cause.
type BackendError struct {
	Op   string // "put", "get", "delete", "exists", "ping"
	Code int    // backend-specific status code, 0 when unknown
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("secure store %s failed (code %d): %v", e.Op, e.Code, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Store persists opaque secrets encrypted at rest.
type Store interface {
	Put(ctx context.Context, account string, secret []byte) error
	Get(ctx context.Context, account string) ([]byte, error)
	Delete(ctx context.Context, account string) error
	Exists(ctx context.Context, account string) (bool, error)
	Ping(ctx context.Context) error
}
