package mysql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/satishbabariya/dengine/dberr"
)

// Server error numbers that mean the session could not be established.
var connectionErrors = map[uint16]bool{
	1040: true, // ER_CON_COUNT_ERROR
	1044: true, // ER_DBACCESS_DENIED_ERROR
	1045: true, // ER_ACCESS_DENIED_ERROR
	1049: true, // ER_BAD_DB_ERROR
	1129: true, // ER_HOST_IS_BLOCKED
	1130: true, // ER_HOST_NOT_PRIVILEGED
}

// mapError translates a driver error into the dberr taxonomy. Only the
// driver's message survives.
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

	var me *gomysql.MySQLError
	if errors.As(err, &me) {
		if connectionErrors[me.Number] {
			return dberr.New(dberr.Connection, me.Error())
		}
		return dberr.New(dberr.SQL, me.Error())
	}

	var ne net.Error
	switch {
	case errors.Is(err, gomysql.ErrInvalidConn),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.As(err, &ne):
		return dberr.New(dberr.Connection, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		return dberr.New(dberr.SQL, err.Error())
	}
	return dberr.New(dberr.Library, err.Error())
}

// connectError maps a failure to open the pool. Anything not otherwise
// classified is a connection failure.
func connectError(err error) error {
	mapped := mapError(err)
	if dberr.IsLibrary(mapped) {
		return dberr.New(dberr.Connection, err.Error())
	}
	return mapped
}
