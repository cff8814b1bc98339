// Package sqlite implements the embedded SQLite backend adapter.
//
// An Adapter owns exactly one database connection. ATTACH and other
// connection-scoped state therefore persist for the Adapter's lifetime, and
// statements from concurrent callers are serialized.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-version"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/satishbabariya/dengine/dberr"
	"github.com/satishbabariya/dengine/engine"
	"github.com/satishbabariya/dengine/internal/debug"
	"github.com/satishbabariya/dengine/internal/pool"
	"github.com/satishbabariya/dengine/internal/sqlexec"
	"github.com/satishbabariya/dengine/sqlgen"
	"github.com/satishbabariya/dengine/value"
)

const (
	// dirPermissions is the permission mode for the database directory.
	dirPermissions = 0750

	defaultBusyTimeout = 5 * time.Second

	memoryPath = ":memory:"
)

// Attachment names a database file to attach under an alias.
type Attachment struct {
	Path  string
	Alias string
}

// Config describes the database file to open.
type Config struct {
	// Path is the database file, created with its directory when missing.
	// ":memory:" opens a private in-memory database.
	Path string

	// BusyTimeout is how long to wait for a lock held by another process.
	BusyTimeout time.Duration

	// WALMode enables write-ahead logging with NORMAL synchronous mode.
	WALMode bool

	// ForeignKeys enables foreign key enforcement.
	ForeignKeys bool

	// Attach lists databases attached right after opening.
	Attach []Attachment
}

// DSN renders the go-sqlite3 connection string.
func (c Config) DSN() string {
	busy := c.BusyTimeout
	if busy <= 0 {
		busy = defaultBusyTimeout
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d", c.Path, busy.Milliseconds())
	if c.ForeignKeys {
		dsn += "&_foreign_keys=on"
	}
	if c.WALMode && c.Path != memoryPath {
		dsn += "&_journal_mode=WAL&_synchronous=NORMAL"
	}
	return dsn
}

// Adapter is a SQLite Connectionable over a single pinned connection.
type Adapter struct {
	pool   *pool.Pool
	runner sqlexec.Runner

	// sem holds the single connection slot; a send acquires it.
	sem      chan struct{}
	conn     *sql.Conn
	dialect  sqlgen.SQLite
	attached []string
}

var _ engine.Connectionable = (*Adapter)(nil)

// Open opens the database described by cfg, reads the engine version and
// attaches cfg.Attach in order.
func Open(ctx context.Context, cfg Config) (*Adapter, error) {
	if cfg.Path == "" {
		return nil, dberr.WithOp("open", dberr.Connectionf("no database path"))
	}
	if cfg.Path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), dirPermissions); err != nil {
			return nil, dberr.WithOp("open", dberr.Connectionf("creating database directory: %s", err.Error()))
		}
	}

	p, err := pool.Open(ctx, "sqlite3", cfg.DSN(), pool.SingleConn())
	if err != nil {
		return nil, dberr.WithOp("open", connectError(err))
	}
	conn, err := p.Conn(ctx)
	if err != nil {
		_ = p.Close()
		return nil, dberr.WithOp("open", connectError(err))
	}

	a := &Adapter{
		pool:   p,
		conn:   conn,
		sem:    make(chan struct{}, 1),
		runner: sqlexec.Runner{Provider: "sqlite", MapError: mapError},
	}

	if err := a.readVersion(ctx); err != nil {
		_ = a.Close()
		return nil, dberr.WithOp("open", err)
	}
	for _, at := range cfg.Attach {
		if err := a.Attach(ctx, at.Path, at.Alias); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	debug.Debug("sqlite opened", "path", cfg.Path, "version", a.dialect.Version)
	return a, nil
}

func (a *Adapter) readVersion(ctx context.Context) error {
	var raw string
	err := a.runner.Each(ctx, a.conn, "select sqlite_version()", nil, func(_ []sqlexec.Column, cells []any) error {
		switch c := cells[0].(type) {
		case string:
			raw = c
		case []byte:
			raw = string(c)
		}
		return nil
	})
	if err != nil {
		return err
	}
	v, err := version.NewVersion(raw)
	if err != nil {
		return dberr.Libraryf("unrecognized sqlite version %q", raw)
	}
	a.dialect = sqlgen.SQLite{Version: v}
	return nil
}

// Version returns the SQLite engine version.
func (a *Adapter) Version() *version.Version { return a.dialect.Version }

// acquire takes the connection slot. It gives up when ctx is done first, and
// fails when the Adapter is closed. Callers release with a.release.
func (a *Adapter) acquire(ctx context.Context) (*sql.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, dberr.FromContext(err)
	}
	select {
	case a.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, dberr.FromContext(ctx.Err())
	}
	if a.conn == nil {
		a.release()
		return nil, dberr.Connectionf("adapter closed")
	}
	return a.conn, nil
}

func (a *Adapter) release() { <-a.sem }

// Execute implements engine.Connectionable. LastInsertID is only reported for
// INSERT and REPLACE statements; SQLite keeps the last rowid per connection.
func (a *Adapter) Execute(ctx context.Context, sql string, params value.Params) (engine.Affected, error) {
	conn, err := a.acquire(ctx)
	if err != nil {
		return engine.Affected{}, err
	}
	defer a.release()

	res, err := a.runner.Exec(ctx, conn, sql, args(params))
	if err != nil {
		return engine.Affected{}, err
	}
	if !insertsRows(sql) {
		res.LastInsertID = 0
	}
	return res, nil
}

// Query implements engine.Connectionable. fn must not call back into the
// Adapter.
func (a *Adapter) Query(ctx context.Context, sql string, params value.Params, fn func(engine.Row) error) error {
	conn, err := a.acquire(ctx)
	if err != nil {
		return err
	}
	defer a.release()

	return a.runner.Each(ctx, conn, sql, args(params), func(cols []sqlexec.Column, cells []any) error {
		return fn(&Row{cols: cols, cells: cells})
	})
}

// Dialect implements engine.Connectionable.
func (a *Adapter) Dialect() sqlgen.Dialect { return a.dialect }

// Attach attaches the database file at path under alias. Tables in it are
// then addressable as alias.table through this Adapter.
func (a *Adapter) Attach(ctx context.Context, path, alias string) error {
	if !validAlias(alias) {
		return dberr.WithOp("attach", dberr.SQLf("invalid alias %q", alias))
	}

	conn, err := a.acquire(ctx)
	if err != nil {
		return dberr.WithOp("attach", err)
	}
	defer a.release()

	if _, err := a.runner.Exec(ctx, conn, "ATTACH DATABASE ? AS "+alias, []any{path}); err != nil {
		return dberr.WithOp("attach", err)
	}
	a.attached = append(a.attached, alias)
	return nil
}

// Detach detaches a database attached with Attach.
func (a *Adapter) Detach(ctx context.Context, alias string) error {
	if !validAlias(alias) {
		return dberr.WithOp("detach", dberr.SQLf("invalid alias %q", alias))
	}

	conn, err := a.acquire(ctx)
	if err != nil {
		return dberr.WithOp("detach", err)
	}
	defer a.release()

	if _, err := a.runner.Exec(ctx, conn, "DETACH DATABASE "+alias, nil); err != nil {
		return dberr.WithOp("detach", err)
	}
	for i, at := range a.attached {
		if strings.EqualFold(at, alias) {
			a.attached = append(a.attached[:i], a.attached[i+1:]...)
			break
		}
	}
	return nil
}

// Attached returns the aliases currently attached, in attach order.
func (a *Adapter) Attached() []string {
	a.sem <- struct{}{}
	defer a.release()
	out := make([]string, len(a.attached))
	copy(out, a.attached)
	return out
}

// Close closes the connection. Calls after the first are no-ops.
func (a *Adapter) Close() error {
	a.sem <- struct{}{}
	defer a.release()
	if a.conn == nil {
		return nil
	}
	_ = a.conn.Close()
	a.conn = nil
	return a.pool.Close()
}

// insertsRows reports whether sql starts with INSERT or REPLACE.
func insertsRows(sql string) bool {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return false
	}
	kw := strings.ToLower(fields[0])
	if i := strings.IndexByte(kw, '('); i >= 0 {
		kw = kw[:i]
	}
	return kw == "insert" || kw == "replace"
}

// validAlias reports whether alias is a plain identifier; it is interpolated
// into ATTACH and DETACH.
func validAlias(alias string) bool {
	if alias == "" {
		return false
	}
	for i, r := range alias {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func args(params value.Params) []any {
	out := make([]any, len(params))
	for i, v := range params {
		out[i] = ToNative(v)
	}
	return out
}
