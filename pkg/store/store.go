// Package store persists widget documents as canonical JSON text keyed by
// document id.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no document exists for an id.
	ErrNotFound = errors.New("store: document not found")
	// ErrInvalidID is returned for empty or malformed ids.
	ErrInvalidID = errors.New("store: invalid document id")
)

// Store holds documents. Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, id string) ([]byte, error)
	Put(ctx context.Context, id string, doc []byte) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

// NormalizeID trims id and rejects values that cannot serve as keys in every
// backend (object keys and table rows alike).
func NormalizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if strings.ContainsAny(id, "/\\") || strings.ContainsFunc(id, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return id, nil
}
