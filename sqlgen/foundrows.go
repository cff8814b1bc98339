package sqlgen

import (
	"strings"

	"github.com/satishbabariya/dengine/dberr"
	"github.com/satishbabariya/dengine/value"
)

const (
	fromMarker  = " from "
	limitMarker = " limit "
	countPrefix = "select count(*) as count "
)

// FoundRows derives the query that counts every row sql would match without
// its row-limiting clause. It keeps the text between the first " from " and
// the first " limit " after it (both matched ASCII case-insensitively) and
// prefixes it with a count projection.
//
// This is a substring heuristic, not a parser: keywords inside string
// literals, comments or subqueries will mis-slice. Placeholders found in the
// discarded limit tail are dropped from the end of params.
func FoundRows(sql string, params value.Params) (*Query, error) {
	from := indexFold(sql, fromMarker, 0)
	if from < 0 {
		return nil, dberr.SQLf("no from in sql")
	}
	limit := indexFold(sql, limitMarker, from+len(fromMarker))
	if limit < 0 {
		return nil, dberr.SQLf("no limit in sql")
	}

	args := params
	if n := strings.Count(sql[limit:], "?"); n > 0 {
		if n > len(params) {
			return nil, dberr.SQLf("limit clause has %d placeholders but only %d params", n, len(params))
		}
		args = params[:len(params)-n]
	}

	return &Query{
		SQL:  countPrefix + sql[from:limit],
		Args: args,
	}, nil
}

// indexFold returns the byte offset of the first ASCII case-insensitive match
// of sub in s at or after start, or -1. Offsets always refer to s itself, so
// slicing stays valid for non-ASCII input.
func indexFold(s, sub string, start int) int {
	for i := start; i+len(sub) <= len(s); i++ {
		if equalFoldASCII(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
