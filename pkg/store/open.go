package store

import (
	"context"
	"fmt"
	"strings"
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

// Config selects and configures a backend.
type Config struct {
	Driver    string
	DSN       string
	CacheSize int
	S3        S3Config
}

// Open builds the backend named by cfg.Driver. An empty driver selects the
// in-memory store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverPostgres:
		pg, err := OpenPostgres(ctx, cfg.DSN, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case DriverS3:
		s3, err := NewS3(cfg.S3)
		if err != nil {
			return nil, err
		}
		return s3, nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
