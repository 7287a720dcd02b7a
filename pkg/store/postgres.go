package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DefaultCacheSize is the number of documents the Postgres store keeps in its
// read cache.
const DefaultCacheSize = 1024

const postgresSchema = `CREATE TABLE IF NOT EXISTS splitjson_documents (
	id         TEXT PRIMARY KEY,
	body       JSON NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres stores documents in the splitjson_documents table through the pgx
// database/sql driver. Reads go through an LRU cache that Put and Delete keep
// current.
type Postgres struct {
	db    *sql.DB
	cache *lru.Cache[string, []byte]

	schemaMu    sync.Mutex
	schemaReady bool
}

var _ Store = (*Postgres)(nil)

// OpenPostgres connects to dsn and verifies the connection. cacheSize <= 0
// selects DefaultCacheSize.
func OpenPostgres(ctx context.Context, dsn string, cacheSize int) (*Postgres, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}
	store, err := NewPostgres(db, cacheSize)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB, cacheSize int) (*Postgres, error) {
	if db == nil {
		return nil, errors.New("store: postgres handle is nil")
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("store: create cache: %w", err)
	}
	return &Postgres{db: db, cache: cache}, nil
}

// ensureSchema creates the table once. A failed attempt is retried by the
// next call, and the caller's cancellation does not abort it.
func (p *Postgres) ensureSchema(ctx context.Context) error {
	p.schemaMu.Lock()
	defer p.schemaMu.Unlock()
	if p.schemaReady {
		return nil
	}
	if _, err := p.db.ExecContext(context.WithoutCancel(ctx), postgresSchema); err != nil {
		return err
	}
	p.schemaReady = true
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) ([]byte, error) {
	id, err := NormalizeID(id)
	if err != nil {
		return nil, err
	}
	if doc, ok := p.cache.Get(id); ok {
		return append([]byte(nil), doc...), nil
	}
	if err := p.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}

	var body string
	err = p.db.QueryRowContext(ctx, `SELECT body::text FROM splitjson_documents WHERE id = $1`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %q: %w", id, err)
	}

	doc := []byte(body)
	p.cache.Add(id, doc)
	return append([]byte(nil), doc...), nil
}

// Put upserts doc. The body column is JSON, which validates doc but keeps
// its text, member order included.
func (p *Postgres) Put(ctx context.Context, id string, doc []byte) error {
	id, err := NormalizeID(id)
	if err != nil {
		return err
	}
	if err := p.ensureSchema(ctx); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}

	_, err = p.db.ExecContext(ctx, `INSERT INTO splitjson_documents (id, body, updated_at)
VALUES ($1, $2::json, now())
ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`, id, string(doc))
	if err != nil {
		p.cache.Remove(id)
		return fmt.Errorf("store: put %q: %w", id, err)
	}
	p.cache.Add(id, append([]byte(nil), doc...))
	return nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	id, err := NormalizeID(id)
	if err != nil {
		return err
	}
	if err := p.ensureSchema(ctx); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}

	res, err := p.db.ExecContext(ctx, `DELETE FROM splitjson_documents WHERE id = $1`, id)
	p.cache.Remove(id)
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) List(ctx context.Context) ([]string, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, `SELECT id FROM splitjson_documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return ids, nil
}

func (p *Postgres) Close() error {
	p.cache.Purge()
	return p.db.Close()
}
