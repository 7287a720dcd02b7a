package store_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-splitjson/pkg/store"
)

// scriptedDB is a database/sql connector that records statements and fails
// the first failExecs Exec calls.
type scriptedDB struct {
	mu        sync.Mutex
	failExecs int
	execs     []string
}

func (d *scriptedDB) Connect(context.Context) (driver.Conn, error) { return &scriptedConn{db: d}, nil }
func (d *scriptedDB) Driver() driver.Driver                        { return scriptedDriver{d} }

func (d *scriptedDB) statements() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.execs...)
}

type scriptedDriver struct{ db *scriptedDB }

func (s scriptedDriver) Open(string) (driver.Conn, error) { return &scriptedConn{db: s.db}, nil }

type scriptedConn struct{ db *scriptedDB }

func (c *scriptedConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}
func (c *scriptedConn) Close() error              { return nil }
func (c *scriptedConn) Begin() (driver.Tx, error) { return nil, errors.New("tx not supported") }

func (c *scriptedConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	c.db.execs = append(c.db.execs, statementName(query))
	if c.db.failExecs > 0 {
		c.db.failExecs--
		return nil, errors.New("transient: connection reset")
	}
	return driver.RowsAffected(1), nil
}

func (c *scriptedConn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	return emptyRows{}, nil
}

type emptyRows struct{}

func (emptyRows) Columns() []string         { return []string{"body"} }
func (emptyRows) Close() error              { return nil }
func (emptyRows) Next([]driver.Value) error { return io.EOF }

func statementName(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func newScriptedPostgres(t *testing.T, failExecs int) (*store.Postgres, *scriptedDB) {
	t.Helper()
	fake := &scriptedDB{failExecs: failExecs}
	db := sql.OpenDB(fake)
	pg, err := store.NewPostgres(db, 0)
	if err != nil {
		t.Fatalf("new postgres: %v", err)
	}
	t.Cleanup(func() { _ = pg.Close() })
	return pg, fake
}

func TestPostgres_RetriesSchemaAfterFailure(t *testing.T) {
	pg, fake := newScriptedPostgres(t, 1)
	ctx := context.Background()

	if err := pg.Put(ctx, "a", []byte(`{}`)); err == nil || !strings.Contains(err.Error(), "transient") {
		t.Fatalf("expected schema failure, got %v", err)
	}
	if err := pg.Put(ctx, "a", []byte(`{}`)); err != nil {
		t.Fatalf("second put: %v", err)
	}
	if err := pg.Put(ctx, "b", []byte(`{}`)); err != nil {
		t.Fatalf("third put: %v", err)
	}

	want := []string{"CREATE", "CREATE", "INSERT", "INSERT"}
	if diff := cmp.Diff(want, fake.statements()); diff != "" {
		t.Fatalf("statements mismatch (-want +got):\n%s", diff)
	}
}

func TestPostgres_SchemaSurvivesCanceledRequest(t *testing.T) {
	pg, fake := newScriptedPostgres(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := pg.Put(ctx, "a", []byte(`{}`)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := pg.Put(context.Background(), "a", []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	want := []string{"CREATE", "INSERT"}
	if diff := cmp.Diff(want, fake.statements()); diff != "" {
		t.Fatalf("statements mismatch (-want +got):\n%s", diff)
	}
}

func TestPostgres_DeleteDropsCachedDocument(t *testing.T) {
	pg, _ := newScriptedPostgres(t, 0)
	ctx := context.Background()

	if err := pg.Put(ctx, "a", []byte(`{"x":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if got, err := pg.Get(ctx, "a"); err != nil || string(got) != `{"x":1}` {
		t.Fatalf("cached get = %s, %v", got, err)
	}
	if err := pg.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := pg.Get(ctx, "a"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
