// Package postgres implements the PostgreSQL backend adapter.
package postgres

import (
	"context"
	"math"
	"strconv"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/satishbabariya/dengine/dberr"
	"github.com/satishbabariya/dengine/engine"
	"github.com/satishbabariya/dengine/internal/pool"
	"github.com/satishbabariya/dengine/internal/sqlexec"
	"github.com/satishbabariya/dengine/sqlgen"
	"github.com/satishbabariya/dengine/value"
)

// Config describes how to reach a PostgreSQL server.
type Config struct {
	// URL is a lib/pq connection string, either postgres:// or key=value.
	URL string

	// ConflictColumns is the conflict target used by InsertOrUpdate. Upserts
	// are rejected while it is empty.
	ConflictColumns []string

	// Pool overrides pool.DefaultConfig when non-zero.
	Pool pool.Config
}

func (c Config) poolConfig() pool.Config {
	if c.Pool == (pool.Config{}) {
		return pool.DefaultConfig()
	}
	return c.Pool
}

// Adapter is a PostgreSQL Connectionable backed by a connection pool.
// Statements use "?" placeholders and are rebound to $n before execution.
// PostgreSQL does not report insert ids; LastInsertID is always 0.
type Adapter struct {
	pool    *pool.Pool
	dialect sqlgen.Postgres
	runner  sqlexec.Runner
}

var _ engine.Connectionable = (*Adapter)(nil)

// Open connects to the server described by cfg.
func Open(ctx context.Context, cfg Config) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, dberr.WithOp("open", dberr.Connectionf("no postgres url"))
	}
	p, err := pool.Open(ctx, "postgres", cfg.URL, cfg.poolConfig())
	if err != nil {
		return nil, dberr.WithOp("open", connectError(err))
	}
	return &Adapter{
		pool:    p,
		dialect: sqlgen.Postgres{ConflictColumns: cfg.ConflictColumns},
		runner:  sqlexec.Runner{Provider: "postgres", MapError: mapError},
	}, nil
}

// Execute implements engine.Connectionable.
func (a *Adapter) Execute(ctx context.Context, sql string, params value.Params) (engine.Affected, error) {
	return a.runner.Exec(ctx, a.pool.DB(), a.dialect.Rebind(sql), args(params))
}

// Query implements engine.Connectionable.
func (a *Adapter) Query(ctx context.Context, sql string, params value.Params, fn func(engine.Row) error) error {
	return a.runner.Each(ctx, a.pool.DB(), a.dialect.Rebind(sql), args(params), func(cols []sqlexec.Column, cells []any) error {
		return fn(&Row{cols: cols, cells: cells})
	})
}

// Dialect implements engine.Connectionable.
func (a *Adapter) Dialect() sqlgen.Dialect { return a.dialect }

// Stats reports connection pool statistics.
func (a *Adapter) Stats() pool.Stats { return a.pool.Stats() }

// Close releases every pooled connection.
func (a *Adapter) Close() error {
	return a.pool.Close()
}

// FromNative converts a cell scanned from lib/pq.
func FromNative(cell any) (value.Value, error) {
	return value.FromDriver(cell)
}

// ToNative converts a bound parameter for lib/pq. Unsigned values beyond
// BIGINT are bound as decimal text for NUMERIC columns.
func ToNative(v value.Value) any {
	switch v.Kind() {
	case value.KindUint:
		u, _ := v.AsUint64()
		if u > math.MaxInt64 {
			return strconv.FormatUint(u, 10)
		}
		return int64(u)
	case value.KindInt:
		i, _ := v.AsInt64()
		return i
	case value.KindFloat:
		f, _ := v.AsFloat64()
		return f
	case value.KindText:
		s, _ := v.AsText()
		return s
	case value.KindBytes:
		b, _ := v.AsBytes()
		return b
	default:
		return nil
	}
}

func args(params value.Params) []any {
	out := make([]any, len(params))
	for i, v := range params {
		out[i] = ToNative(v)
	}
	return out
}
