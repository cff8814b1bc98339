// Package mysql implements the MySQL backend adapter.
package mysql

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/satishbabariya/dengine/dberr"
	"github.com/satishbabariya/dengine/engine"
	"github.com/satishbabariya/dengine/internal/pool"
	"github.com/satishbabariya/dengine/internal/sqlexec"
	"github.com/satishbabariya/dengine/sqlgen"
	"github.com/satishbabariya/dengine/value"
)

const (
	defaultHost = "127.0.0.1"
	defaultPort = 3306
)

// Config describes how to reach a MySQL server.
type Config struct {
	// URL is either a driver DSN ("user:pass@tcp(host:3306)/db") or a
	// mysql:// URL. When set, the discrete fields below are ignored.
	URL string

	Host     string
	Port     int
	User     string
	Password string
	Database string
	// Params are extra driver parameters, e.g. "charset".
	Params map[string]string

	// Pool overrides pool.DefaultConfig when non-zero.
	Pool pool.Config
}

// DSN renders the driver data source name. Dates and times are always
// requested as text so that they can be classified by column type.
func (c Config) DSN() (string, error) {
	var (
		mc  *gomysql.Config
		err error
	)
	switch {
	case strings.HasPrefix(c.URL, "mysql://"):
		mc, err = parseURL(c.URL)
	case c.URL != "":
		mc, err = gomysql.ParseDSN(c.URL)
	default:
		mc = gomysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		host, port := c.Host, c.Port
		if host == "" {
			host = defaultHost
		}
		if port == 0 {
			port = defaultPort
		}
		mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
		mc.DBName = c.Database
		if len(c.Params) > 0 {
			mc.Params = make(map[string]string, len(c.Params))
			for k, v := range c.Params {
				mc.Params[k] = v
			}
		}
	}
	if err != nil {
		return "", dberr.Connectionf("invalid mysql url: %s", err.Error())
	}
	mc.ParseTime = false
	return mc.FormatDSN(), nil
}

func parseURL(raw string) (*gomysql.Config, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	mc := gomysql.NewConfig()
	mc.Net = "tcp"
	if u.User != nil {
		mc.User = u.User.Username()
		mc.Passwd, _ = u.User.Password()
	}
	mc.Addr = u.Host
	if u.Port() == "" {
		host := u.Hostname()
		if host == "" {
			host = defaultHost
		}
		mc.Addr = net.JoinHostPort(host, strconv.Itoa(defaultPort))
	}
	mc.DBName = strings.TrimPrefix(u.Path, "/")
	for k, vs := range u.Query() {
		if len(vs) == 0 || k == "parseTime" {
			continue
		}
		if mc.Params == nil {
			mc.Params = map[string]string{}
		}
		mc.Params[k] = vs[len(vs)-1]
	}
	return mc, nil
}

func (c Config) poolConfig() pool.Config {
	if c.Pool == (pool.Config{}) {
		return pool.DefaultConfig()
	}
	return c.Pool
}

// Adapter is a MySQL Connectionable backed by a connection pool. Each call
// checks one connection out for its duration, so an Adapter is safe for
// concurrent use.
type Adapter struct {
	pool   *pool.Pool
	runner sqlexec.Runner
}

var _ engine.Connectionable = (*Adapter)(nil)

// Open connects to the server described by cfg.
func Open(ctx context.Context, cfg Config) (*Adapter, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, dberr.WithOp("open", err)
	}
	p, err := pool.Open(ctx, "mysql", dsn, cfg.poolConfig())
	if err != nil {
		return nil, dberr.WithOp("open", connectError(err))
	}
	return &Adapter{
		pool:   p,
		runner: sqlexec.Runner{Provider: "mysql", MapError: mapError},
	}, nil
}

// Execute implements engine.Connectionable.
func (a *Adapter) Execute(ctx context.Context, sql string, params value.Params) (engine.Affected, error) {
	return a.runner.Exec(ctx, a.pool.DB(), sql, args(params))
}

// Query implements engine.Connectionable.
func (a *Adapter) Query(ctx context.Context, sql string, params value.Params, fn func(engine.Row) error) error {
	return a.runner.Each(ctx, a.pool.DB(), sql, args(params), func(cols []sqlexec.Column, cells []any) error {
		return fn(&Row{cols: cols, cells: cells})
	})
}

// Dialect implements engine.Connectionable.
func (a *Adapter) Dialect() sqlgen.Dialect { return sqlgen.MySQL{} }

// Stats reports connection pool statistics.
func (a *Adapter) Stats() pool.Stats { return a.pool.Stats() }

// Close releases every pooled connection.
func (a *Adapter) Close() error {
	return a.pool.Close()
}

func args(params value.Params) []any {
	out := make([]any, len(params))
	for i, v := range params {
		out[i] = ToNative(v)
	}
	return out
}
