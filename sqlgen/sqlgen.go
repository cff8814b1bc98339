// Package sqlgen generates the SQL text behind dengine's write and
// pagination operations.
//
// Statements always use "?" placeholders; a Dialect rebinds them where the
// backend needs another style. Table and column names are interpolated as
// given: only bound values are protected against injection.
package sqlgen

import (
	"sort"
	"strings"

	"github.com/satishbabariya/dengine/dberr"
	"github.com/satishbabariya/dengine/value"
)

// Query represents a SQL statement with its positional arguments.
type Query struct {
	SQL  string
	Args value.Params
}

// placeholders returns "(?,?,...)" with n markers.
func placeholders(n int) string {
	return "(" + strings.TrimSuffix(strings.Repeat("?,", n), ",") + ")"
}

// Insert builds a multi-row INSERT. Every row must hold one value per column;
// args are flattened field-then-record.
func Insert(table string, columns []string, rows [][]value.Value) (*Query, error) {
	if len(rows) == 0 {
		return nil, dberr.SQLf("insert into %s: no records", table)
	}
	if len(columns) == 0 {
		return nil, dberr.SQLf("insert into %s: no columns", table)
	}

	groups := make([]string, len(rows))
	args := make(value.Params, 0, len(rows)*len(columns))
	group := placeholders(len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, dberr.Conversionf("insert into %s: record %d has %d values for %d fields",
				table, i, len(row), len(columns))
		}
		groups[i] = group
		args = append(args, row...)
	}

	return &Query{
		SQL:  "INSERT INTO " + table + " (" + strings.Join(columns, ",") + ") VALUES " + strings.Join(groups, ","),
		Args: args,
	}, nil
}

// Upsert builds an Insert followed by the dialect's upsert clause. Dialects
// without an upsert construct decline, which is reported as a SQL error
// before anything reaches the backend.
func Upsert(d Dialect, table string, columns []string, rows [][]value.Value) (*Query, error) {
	q, err := Insert(table, columns, rows)
	if err != nil {
		return nil, err
	}
	clause, ok := d.UpsertClause(columns)
	if !ok {
		return nil, dberr.SQLf("insert or update into %s: %s does not support upsert", table, d.Name())
	}
	q.SQL += " " + clause
	return q, nil
}

// DeleteByKeys builds "DELETE FROM t WHERE k IN (?,...)", or NOT IN when
// include is false. An empty key set is rejected: "IN ()" is invalid SQL and
// an empty NOT IN would match every row.
func DeleteByKeys(table, keyColumn string, keys value.Params, include bool) (*Query, error) {
	if len(keys) == 0 {
		return nil, dberr.SQLf("delete from %s: no keys", table)
	}
	op := "IN"
	if !include {
		op = "NOT IN"
	}
	return &Query{
		SQL:  "DELETE FROM " + table + " WHERE " + keyColumn + " " + op + " " + placeholders(len(keys)),
		Args: keys,
	}, nil
}

// Update builds "UPDATE t SET a = ?,b = ? WHERE k1? and k2?". Each where key
// carries its own comparison, e.g. "id = " or "age > ". Keys are emitted in
// sorted order; args are the set values followed by the where values.
func Update(table string, columns []string, values []value.Value, where map[string]value.Value) (*Query, error) {
	if len(columns) == 0 {
		return nil, dberr.SQLf("update %s: no columns", table)
	}
	if len(columns) != len(values) {
		return nil, dberr.Conversionf("update %s: %d values for %d fields", table, len(values), len(columns))
	}
	if len(where) == 0 {
		return nil, dberr.SQLf("update %s: no where clause", table)
	}

	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = c + " = ?"
	}

	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make(value.Params, 0, len(values)+len(keys))
	args = append(args, values...)
	conds := make([]string, len(keys))
	for i, k := range keys {
		conds[i] = k + "?"
		args = append(args, where[k])
	}

	return &Query{
		SQL:  "UPDATE " + table + " SET " + strings.Join(sets, ",") + " WHERE " + strings.Join(conds, " and "),
		Args: args,
	}, nil
}
