package sqlite

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dengine/dberr"
	"github.com/satishbabariya/dengine/engine"
	"github.com/satishbabariya/dengine/sqlgen"
	"github.com/satishbabariya/dengine/value"
)

type item struct {
	ID    int64
	Name  string
	Price value.Rounded
}

func (it *item) FromRow(r engine.Row) error {
	var err error
	if it.ID, err = engine.Require[int64](r, "id"); err != nil {
		return err
	}
	if it.Name, err = engine.Require[string](r, "name"); err != nil {
		return err
	}
	it.Price, _ = engine.Get[value.Rounded](r, "price")
	return nil
}

func (it item) Fields() []string { return []string{"id", "name", "price"} }

func (it item) Values() []value.Value {
	return []value.Value{value.Int(it.ID), value.Text(it.Name), it.Price.Value()}
}

func openTemp(t *testing.T) *Adapter {
	t.Helper()
	ctx := context.Background()
	a, err := Open(ctx, Config{Path: filepath.Join(t.TempDir(), "data", "test.db"), ForeignKeys: true, WALMode: true})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	require.NoError(t, engine.Exec(ctx, a,
		"create table items (id integer primary key, name text not null, price real, added text)"))
	return a
}

func seed(t *testing.T, a *Adapter) {
	t.Helper()
	items := []item{
		{1, "apple", value.NewRoundedFloat(1.25)},
		{2, "banana", value.NewRoundedFloat(0.5)},
		{3, "cherry", value.NewRoundedFloat(3)},
	}
	res, err := engine.Insert(context.Background(), a, "items", items)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), res.RowsAffected)
}

func TestConfigDSN(t *testing.T) {
	assert.Equal(t, "file:/tmp/x.db?_busy_timeout=5000", Config{Path: "/tmp/x.db"}.DSN())
	assert.Equal(t,
		"file:/tmp/x.db?_busy_timeout=250&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL",
		Config{Path: "/tmp/x.db", BusyTimeout: 250 * time.Millisecond, ForeignKeys: true, WALMode: true}.DSN())
	assert.Equal(t, "file::memory:?_busy_timeout=5000", Config{Path: ":memory:", WALMode: true}.DSN())
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	assert.True(t, dberr.IsConnection(err))
}

func TestVersionConfiguresDialect(t *testing.T) {
	a := openTemp(t)
	require.NotNil(t, a.Version())
	assert.True(t, a.Version().GreaterThanOrEqual(version.Must(version.NewVersion("3.0.0"))))
	assert.Equal(t, "sqlite", a.Dialect().Name())
}

func TestInsertAndSelect(t *testing.T) {
	ctx := context.Background()
	a := openTemp(t)
	seed(t, a)

	page, err := engine.Select[item](ctx, a, "select * from items order by id limit ?", true, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "apple", page.Data[0].Name)
	assert.Equal(t, 1.25, page.Data[0].Price.Float64())

	all, err := engine.Array[item](ctx, a, "select * from items where price > ?", false, 0.75)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	n, err := engine.QueryValue[int](ctx, a, "select count(*) as n from items", "n")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	it, err := engine.QueryRow[item](ctx, a, "select * from items where name = ?", "banana")
	require.NoError(t, err)
	assert.Equal(t, int64(2), it.ID)

	_, err = engine.QueryRow[item](ctx, a, "select * from items where name = ?", "durian")
	assert.True(t, dberr.IsSQL(err))
}

func TestInsertOrUpdate(t *testing.T) {
	ctx := context.Background()
	a := openTemp(t)
	seed(t, a)

	_, err := engine.InsertOrUpdate(ctx, a, "items", []item{
		{2, "blueberry", value.NewRoundedFloat(4.1)},
		{4, "date", value.NewRoundedFloat(2)},
	})
	require.NoError(t, err)

	name, err := engine.QueryValue[string](ctx, a, "select name from items where id = 2", "name")
	require.NoError(t, err)
	assert.Equal(t, "blueberry", name)

	n, err := engine.QueryValue[int](ctx, a, "select count(*) as n from items", "n")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestInsertOrUpdateOnOldEngine(t *testing.T) {
	a := openTemp(t)
	a.dialect = sqlgen.SQLite{Version: version.Must(version.NewVersion("3.31.1"))}

	_, err := engine.InsertOrUpdate(context.Background(), a, "items", []item{{1, "x", value.NewRoundedFloat(1)}})
	assert.True(t, dberr.IsSQL(err))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	a := openTemp(t)
	seed(t, a)

	res, err := engine.DeleteNotIn(ctx, a, "items", "id", []int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.RowsAffected)

	res, err = engine.DeleteIn(ctx, a, "items", "name", []string{"apple"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.RowsAffected)

	names, err := engine.Array[item](ctx, a, "select * from items", false)
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, "cherry", names[0].Name)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	a := openTemp(t)
	seed(t, a)

	_, err := engine.Update(ctx, a, "items", item{1, "apricot", value.NewRoundedFloat(9.99)}, map[string]any{"id = ": 1})
	require.NoError(t, err)

	it, err := engine.QueryRow[item](ctx, a, "select * from items where id = 1")
	require.NoError(t, err)
	assert.Equal(t, "apricot", it.Name)
	assert.Equal(t, 9.99, it.Price.Float64())
}

func TestConcat(t *testing.T) {
	ctx := context.Background()
	a := openTemp(t)
	seed(t, a)

	expr := engine.ConcatColumns(a, "name", "id")
	s, err := engine.QueryValue[string](ctx, a, "select "+expr+" as label from items where id = 1", "label")
	require.NoError(t, err)
	assert.Equal(t, "apple 1", s)
}

func TestDateString(t *testing.T) {
	ctx := context.Background()
	a := openTemp(t)
	require.NoError(t, engine.Exec(ctx, a, "create table events (id integer, at datetime, raw text)"))
	require.NoError(t, engine.Exec(ctx, a, "insert into events values (1, ?, ?), (2, ?, ?)",
		"2024-02-29 13:45:00", "2024-02-29", "2024-02-29", "2024-00-10"))

	var got []string
	err := a.Query(ctx, "select * from events order by id", nil, func(r engine.Row) error {
		s, err := r.DateString("at", "02 Jan 2006 15:04")
		if err != nil {
			return err
		}
		got = append(got, s)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"29 Feb 2024 13:45", "29 Feb 2024 00:00"}, got)

	err = a.Query(ctx, "select * from events where id = 2", nil, func(r engine.Row) error {
		_, err := r.DateString("raw", "2006-01-02")
		return err
	})
	assert.True(t, dberr.IsConversion(err))

	err = a.Query(ctx, "select * from events where id = 1", nil, func(r engine.Row) error {
		_, err := r.DateString("id", "2006")
		return err
	})
	assert.True(t, dberr.IsConversion(err))

	err = a.Query(ctx, "select * from events where id = 1", nil, func(r engine.Row) error {
		v, ok := r.Value("at")
		assert.True(t, ok)
		assert.Equal(t, value.Text("2024-2-29 13:45:0:0"), v)
		_, ok = r.Value("nope")
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)
}

func TestAttach(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	other, err := Open(ctx, Config{Path: filepath.Join(dir, "other.db")})
	require.NoError(t, err)
	require.NoError(t, engine.Exec(ctx, other, "create table notes (body text)"))
	require.NoError(t, engine.Exec(ctx, other, "insert into notes values ('hello')"))
	require.NoError(t, other.Close())

	a, err := Open(ctx, Config{
		Path:   filepath.Join(dir, "main.db"),
		Attach: []Attachment{{Path: filepath.Join(dir, "other.db"), Alias: "other"}},
	})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"other"}, a.Attached())
	body, err := engine.QueryValue[string](ctx, a, "select body from other.notes", "body")
	require.NoError(t, err)
	assert.Equal(t, "hello", body)

	require.NoError(t, a.Attach(ctx, filepath.Join(dir, "third.db"), "third"))
	assert.Equal(t, []string{"other", "third"}, a.Attached())

	require.NoError(t, a.Detach(ctx, "other"))
	assert.Equal(t, []string{"third"}, a.Attached())

	err = a.Attach(ctx, filepath.Join(dir, "x.db"), "bad alias; drop")
	assert.True(t, dberr.IsSQL(err))
}

func TestSQLErrors(t *testing.T) {
	ctx := context.Background()
	a := openTemp(t)

	err := engine.Exec(ctx, a, "select * from nowhere")
	require.Error(t, err)
	assert.True(t, dberr.IsSQL(err))
	assert.Contains(t, err.Error(), "no such table")

	_, err = engine.Select[item](ctx, a, "select * from items", true)
	assert.True(t, dberr.IsSQL(err))
}

func TestCanceledContext(t *testing.T) {
	a := openTemp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 3; i++ {
		err := engine.Exec(ctx, a, "select 1")
		require.Error(t, err)
		assert.True(t, dberr.IsUnknown(err))
		assert.True(t, errors.Is(err, context.Canceled))
	}

	err := a.Query(ctx, "select 1", nil, func(engine.Row) error { return nil })
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDeadlineWhileConnectionBusy(t *testing.T) {
	a := openTemp(t)
	seed(t, a)

	entered := make(chan struct{})
	unblock := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- a.Query(context.Background(), "select id from items", nil, func(engine.Row) error {
			select {
			case <-entered:
			default:
				close(entered)
			}
			<-unblock
			return nil
		})
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := engine.Exec(ctx, a, "select 1")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	close(unblock)
	require.NoError(t, <-done)
}

func TestClosedAdapter(t *testing.T) {
	ctx := context.Background()
	a := openTemp(t)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	err := engine.Exec(ctx, a, "select 1")
	assert.True(t, dberr.IsConnection(err))

	_, err = engine.QueryValue[int](ctx, a, "select 1 as n", "n")
	assert.True(t, dberr.IsConnection(err))

	err = a.Attach(ctx, filepath.Join(t.TempDir(), "x.db"), "x")
	assert.True(t, dberr.IsConnection(err))
	assert.True(t, dberr.IsConnection(a.Detach(ctx, "x")))
	assert.Empty(t, a.Attached())
}

func TestLastInsertIDOnlyForInserts(t *testing.T) {
	ctx := context.Background()
	a := openTemp(t)

	res, err := engine.ExecAffected(ctx, a, "insert into items (id, name) values (?, ?)", 7, "fig")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), res.LastInsertID)

	res, err = engine.ExecAffected(ctx, a, "update items set name = ? where id = ?", "date", 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.RowsAffected)
	assert.Zero(t, res.LastInsertID)

	res, err = engine.DeleteIn(ctx, a, "items", "id", []int{7})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.RowsAffected)
	assert.Zero(t, res.LastInsertID)
}

func TestInsertsRows(t *testing.T) {
	tests := []struct {
		sql  string
		want bool
	}{
		{"insert into t values (1)", true},
		{"  INSERT OR IGNORE INTO t VALUES (1)", true},
		{"replace into t values (1)", true},
		{"update t set a = 1", false},
		{"delete from t", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, insertsRows(tt.sql), tt.sql)
	}
}

func TestNatives(t *testing.T) {
	for _, n := range []any{nil, int64(-3), 1.5, "text", []byte{0, 1}} {
		v, err := FromNative(n)
		require.NoError(t, err)
		assert.Equal(t, n, ToNative(v))
	}

	assert.Equal(t, "18446744073709551615", ToNative(value.Uint(math.MaxUint64)))
	assert.Equal(t, int64(5), ToNative(value.Uint(5)))

	v, err := FromNative(true)
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), v)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		kind dberr.Kind
	}{
		{sqlite3.Error{Code: sqlite3.ErrError}, dberr.SQL},
		{sqlite3.Error{Code: sqlite3.ErrConstraint}, dberr.SQL},
		{sqlite3.Error{Code: sqlite3.ErrCantOpen}, dberr.Connection},
		{sqlite3.Error{Code: sqlite3.ErrRange}, dberr.IndexOutOfBounds},
		{sqlite3.Error{Code: sqlite3.ErrMismatch}, dberr.Conversion},
		{sqlite3.Error{Code: sqlite3.ErrIoErr}, dberr.Library},
		{context.DeadlineExceeded, dberr.Unknown},
		{errors.New("boom"), dberr.Library},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, dberr.KindOf(mapError(tt.err)), "%v", tt.err)
	}
	assert.True(t, dberr.IsConnection(connectError(errors.New("boom"))))
}
