package sqlexec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dengine/dberr"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func runner() Runner {
	return Runner{
		Provider: "sqlite",
		MapError: func(err error) error { return dberr.SQLf("%s", err.Error()) },
	}
}

func TestExecAndEach(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	r := runner()

	_, err := r.Exec(ctx, db, "create table t (id integer primary key, name text, data blob)", nil)
	require.NoError(t, err)

	a, err := r.Exec(ctx, db, "insert into t (name, data) values (?, ?), (?, ?)",
		[]any{"a", []byte{1}, "b", nil})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), a.RowsAffected)
	assert.Equal(t, uint64(2), a.LastInsertID)

	var names []string
	var cols []Column
	err = r.Each(ctx, db, "select id, name, data from t order by id", nil, func(c []Column, cells []any) error {
		cols = c
		names = append(names, fmt.Sprintf("%s", cells[1]))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, []string{"id", "name", "data"}, Names(cols))
	assert.Equal(t, 1, Index(cols, "name"))
	assert.Equal(t, -1, Index(cols, "nope"))
}

func TestCallbackErrorIsNotMapped(t *testing.T) {
	db := openMemory(t)
	stop := errors.New("stop")

	calls := 0
	err := runner().Each(context.Background(), db, "select 1 union all select 2", nil, func([]Column, []any) error {
		calls++
		return stop
	})
	assert.Same(t, stop, err)
	assert.Equal(t, 1, calls)
}

func TestDriverErrorIsMapped(t *testing.T) {
	db := openMemory(t)

	_, err := runner().Exec(context.Background(), db, "this is not sql", nil)
	assert.True(t, dberr.IsSQL(err))

	err = runner().Each(context.Background(), db, "select * from missing", nil, func([]Column, []any) error { return nil })
	assert.True(t, dberr.IsSQL(err))
}
