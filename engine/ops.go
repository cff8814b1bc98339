package engine

import (
	"context"
	"errors"
	"reflect"

	"github.com/satishbabariya/dengine/dberr"
	"github.com/satishbabariya/dengine/sqlgen"
	"github.com/satishbabariya/dengine/value"
)

// errStop ends row iteration after the first row.
var errStop = errors.New("engine: stop iteration")

func bind(op string, args []any) (value.Params, error) {
	p, err := value.NewParams(args...)
	if err != nil {
		return nil, dberr.WithOp(op, err)
	}
	return p, nil
}

// Exec runs a statement expecting no rows.
func Exec(ctx context.Context, c Connectionable, sql string, args ...any) error {
	_, err := ExecAffected(ctx, c, sql, args...)
	return err
}

// ExecAffected runs a statement expecting no rows and reports what it changed.
func ExecAffected(ctx context.Context, c Connectionable, sql string, args ...any) (Affected, error) {
	p, err := bind("execute", args)
	if err != nil {
		return Affected{}, err
	}
	a, err := c.Execute(ctx, sql, p)
	if err != nil {
		return Affected{}, dberr.WithOp("execute", err)
	}
	return a, nil
}

// first calls fn with the first row of sql. Zero rows is a SQL error.
func first(ctx context.Context, c Connectionable, op, sql string, p value.Params, fn func(Row) error) error {
	found := false
	err := c.Query(ctx, sql, p, func(r Row) error {
		found = true
		if err := fn(r); err != nil {
			return err
		}
		return errStop
	})
	if err != nil && !errors.Is(err, errStop) {
		return dberr.WithOp(op, err)
	}
	if !found {
		return dberr.WithOp(op, dberr.SQLf("query returned no rows"))
	}
	return nil
}

func valueOf[T value.Scalar](ctx context.Context, c Connectionable, op, sql, column string, p value.Params) (T, error) {
	var out T
	err := first(ctx, c, op, sql, p, func(r Row) error {
		var err error
		out, err = Require[T](r, column)
		return err
	})
	return out, err
}

// QueryValue reads column from the first row of sql as T. Zero rows is a SQL
// error; a missing or unconvertible column is a conversion error.
func QueryValue[T value.Scalar](ctx context.Context, c Connectionable, sql, column string, args ...any) (T, error) {
	p, err := bind("value", args)
	if err != nil {
		var zero T
		return zero, err
	}
	return valueOf[T](ctx, c, "value", sql, column, p)
}

// QueryRow maps the first row of sql into a T. Zero rows is a SQL error.
func QueryRow[T any, PT interface {
	*T
	Queryable
}](ctx context.Context, c Connectionable, sql string, args ...any) (T, error) {
	var out T
	p, err := bind("row", args)
	if err != nil {
		return out, err
	}
	err = first(ctx, c, "row", sql, p, func(r Row) error {
		return PT(&out).FromRow(r)
	})
	return out, err
}

// Select maps every row of sql into a T.
//
// Without calcFoundRows, Count is the number of mapped rows. With it, Count
// is the number of rows sql matches ignoring its LIMIT clause, computed by a
// second statement derived with sqlgen.FoundRows and bound to the same
// parameters.
func Select[T any, PT interface {
	*T
	Queryable
}](ctx context.Context, c Connectionable, sql string, calcFoundRows bool, args ...any) (Page[T], error) {
	p, err := bind("select", args)
	if err != nil {
		return Page[T]{}, err
	}

	var count *sqlgen.Query
	if calcFoundRows {
		if count, err = sqlgen.FoundRows(sql, p); err != nil {
			return Page[T]{}, dberr.WithOp("select", err)
		}
	}

	data := make([]T, 0)
	err = c.Query(ctx, sql, p, func(r Row) error {
		var rec T
		if err := PT(&rec).FromRow(r); err != nil {
			return err
		}
		data = append(data, rec)
		return nil
	})
	if err != nil {
		return Page[T]{}, dberr.WithOp("select", err)
	}

	if count == nil {
		return Page[T]{Data: data, Count: len(data)}, nil
	}

	n, err := valueOf[int](ctx, c, "select count", count.SQL, "count", count.Args)
	if err != nil {
		return Page[T]{}, err
	}
	return Page[T]{Data: data, Count: n}, nil
}

// Array is Select without the count.
func Array[T any, PT interface {
	*T
	Queryable
}](ctx context.Context, c Connectionable, sql string, calcFoundRows bool, args ...any) ([]T, error) {
	page, err := Select[T, PT](ctx, c, sql, calcFoundRows, args...)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// fieldsOf returns the column list of T, read from its zero value. A pointer
// T gets a fresh element so value-receiver methods do not dereference nil.
func fieldsOf[T Insertable]() []string {
	var zero T
	if t := reflect.TypeOf(&zero).Elem(); t.Kind() == reflect.Pointer {
		zero = reflect.New(t.Elem()).Interface().(T)
	}
	return zero.Fields()
}

func fieldRows[T Insertable](records []T) ([]string, [][]value.Value) {
	if len(records) == 0 {
		return nil, nil
	}
	columns := fieldsOf[T]()
	rows := make([][]value.Value, len(records))
	for i, rec := range records {
		rows[i] = rec.Values()
	}
	return columns, rows
}

// Insert writes records with one multi-row INSERT.
func Insert[T Insertable](ctx context.Context, c Connectionable, table string, records []T) (Affected, error) {
	columns, rows := fieldRows(records)
	q, err := sqlgen.Insert(table, columns, rows)
	if err != nil {
		return Affected{}, dberr.WithOp("insert", err)
	}
	return execQuery(ctx, c, "insert", q)
}

// InsertOrUpdate writes records, re-assigning every column to the inserted
// value when a row already exists. Backends whose dialect cannot express the
// upsert fail with a SQL error before anything is executed.
func InsertOrUpdate[T Insertable](ctx context.Context, c Connectionable, table string, records []T) (Affected, error) {
	columns, rows := fieldRows(records)
	q, err := sqlgen.Upsert(c.Dialect(), table, columns, rows)
	if err != nil {
		return Affected{}, dberr.WithOp("insert or update", err)
	}
	return execQuery(ctx, c, "insert or update", q)
}

// Update assigns record's fields on the rows matched by where. Each where key
// carries its own comparison operator, e.g. "id = ".
func Update[T Insertable](ctx context.Context, c Connectionable, table string, record T, where map[string]any) (Affected, error) {
	conds := make(map[string]value.Value, len(where))
	for k, arg := range where {
		v, err := value.From(arg)
		if err != nil {
			return Affected{}, dberr.WithOp("update", err)
		}
		conds[k] = v
	}
	q, err := sqlgen.Update(table, fieldsOf[T](), record.Values(), conds)
	if err != nil {
		return Affected{}, dberr.WithOp("update", err)
	}
	return execQuery(ctx, c, "update", q)
}

// DeleteByKeys deletes the rows whose keyColumn is in keys (include) or not in
// keys (!include).
func DeleteByKeys[K any](ctx context.Context, c Connectionable, table, keyColumn string, keys []K, include bool) (Affected, error) {
	p := make(value.Params, 0, len(keys))
	for _, k := range keys {
		v, err := value.From(k)
		if err != nil {
			return Affected{}, dberr.WithOp("delete", err)
		}
		p = append(p, v)
	}
	q, err := sqlgen.DeleteByKeys(table, keyColumn, p, include)
	if err != nil {
		return Affected{}, dberr.WithOp("delete", err)
	}
	return execQuery(ctx, c, "delete", q)
}

// DeleteIn deletes the rows whose keyColumn is in keys.
func DeleteIn[K any](ctx context.Context, c Connectionable, table, keyColumn string, keys []K) (Affected, error) {
	return DeleteByKeys(ctx, c, table, keyColumn, keys, true)
}

// DeleteNotIn deletes the rows whose keyColumn is not in keys.
func DeleteNotIn[K any](ctx context.Context, c Connectionable, table, keyColumn string, keys []K) (Affected, error) {
	return DeleteByKeys(ctx, c, table, keyColumn, keys, false)
}

// ConcatColumns returns the backend expression joining columns with a space.
func ConcatColumns(c Connectionable, columns ...string) string {
	return c.Dialect().Concat(columns)
}

func execQuery(ctx context.Context, c Connectionable, op string, q *sqlgen.Query) (Affected, error) {
	a, err := c.Execute(ctx, q.SQL, q.Args)
	if err != nil {
		return Affected{}, dberr.WithOp(op, err)
	}
	return a, nil
}
