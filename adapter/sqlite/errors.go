package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/mattn/go-sqlite3"

	"github.com/satishbabariya/dengine/dberr"
)

// mapError translates a driver error into the dberr taxonomy by SQLite
// primary result code.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var de *dberr.Error
	if errors.As(err, &de) {
		return de
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return dberr.FromContext(err)
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		return dberr.New(kindOf(se.Code), se.Error())
	}

	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return dberr.New(dberr.Connection, err.Error())
	}
	return dberr.New(dberr.Library, err.Error())
}

func kindOf(code sqlite3.ErrNo) dberr.Kind {
	switch code {
	case sqlite3.ErrCantOpen, sqlite3.ErrNotADB, sqlite3.ErrPerm, sqlite3.ErrAuth:
		return dberr.Connection
	case sqlite3.ErrRange:
		return dberr.IndexOutOfBounds
	case sqlite3.ErrMismatch, sqlite3.ErrTooBig:
		return dberr.Conversion
	case sqlite3.ErrIoErr, sqlite3.ErrNomem, sqlite3.ErrMisuse, sqlite3.ErrInternal:
		return dberr.Library
	}
	return dberr.SQL
}

func connectError(err error) error {
	mapped := mapError(err)
	if dberr.IsLibrary(mapped) {
		return dberr.New(dberr.Connection, err.Error())
	}
	return mapped
}
