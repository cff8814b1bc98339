package sqlgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-version"
)

// Dialect holds the backend-specific fragments of generated SQL.
type Dialect interface {
	// Name returns the provider name.
	Name() string

	// UpsertClause renders the clause appended to a multi-row INSERT so that
	// every column is re-assigned to its just-inserted value on conflict. It
	// reports false when the backend cannot express the upsert.
	UpsertClause(columns []string) (string, bool)

	// Concat renders an expression joining column values with one space.
	Concat(columns []string) string

	// Rebind rewrites "?" placeholders into the backend's native style.
	Rebind(sql string) string
}

// NewDialect returns the dialect for a provider name.
func NewDialect(provider string) (Dialect, error) {
	switch strings.ToLower(provider) {
	case "mysql":
		return MySQL{}, nil
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	case "postgres", "postgresql":
		return Postgres{}, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
}

// MySQL generates MySQL fragments.
type MySQL struct{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) UpsertClause(columns []string) (string, bool) {
	if len(columns) == 0 {
		return "", false
	}
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = fmt.Sprintf("%s = VALUES(%s)", c, c)
	}
	return "ON DUPLICATE KEY UPDATE " + strings.Join(sets, ","), true
}

func (MySQL) Concat(columns []string) string {
	return "concat_ws(' ', " + strings.Join(columns, ",") + ")"
}

func (MySQL) Rebind(sql string) string { return sql }

// minTargetlessUpsert is the first SQLite release accepting ON CONFLICT
// without a conflict target.
var minTargetlessUpsert = version.Must(version.NewVersion("3.35.0"))

// SQLite generates SQLite fragments. Version is the engine version reported
// by sqlite_version(); nil assumes a current engine.
type SQLite struct {
	Version *version.Version
}

func (SQLite) Name() string { return "sqlite" }

func (d SQLite) UpsertClause(columns []string) (string, bool) {
	if len(columns) == 0 {
		return "", false
	}
	if d.Version != nil && d.Version.LessThan(minTargetlessUpsert) {
		return "", false
	}
	return "ON CONFLICT DO UPDATE SET " + assignExcluded(columns, "excluded"), true
}

func (SQLite) Concat(columns []string) string {
	return "(" + strings.Join(columns, " || ' ' || ") + ")"
}

func (SQLite) Rebind(sql string) string { return sql }

// Postgres generates PostgreSQL fragments. PostgreSQL needs an explicit
// conflict target for DO UPDATE, so upserts are declined until
// ConflictColumns is set.
type Postgres struct {
	ConflictColumns []string
}

func (Postgres) Name() string { return "postgres" }

func (d Postgres) UpsertClause(columns []string) (string, bool) {
	if len(columns) == 0 || len(d.ConflictColumns) == 0 {
		return "", false
	}
	return "ON CONFLICT (" + strings.Join(d.ConflictColumns, ",") + ") DO UPDATE SET " +
		assignExcluded(columns, "EXCLUDED"), true
}

func (Postgres) Concat(columns []string) string {
	return "concat_ws(' ', " + strings.Join(columns, ",") + ")"
}

// Rebind numbers placeholders as $1, $2, ... skipping single-quoted literals.
func (Postgres) Rebind(sql string) string {
	var b strings.Builder
	b.Grow(len(sql) + 8)
	n := 0
	quoted := false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '\'':
			quoted = !quoted
			b.WriteByte(c)
		case c == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func assignExcluded(columns []string, alias string) string {
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = c + " = " + alias + "." + c
	}
	return strings.Join(sets, ",")
}

var (
	_ Dialect = MySQL{}
	_ Dialect = SQLite{}
	_ Dialect = Postgres{}
)
