package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/lib/pq"

	"github.com/satishbabariya/dengine/dberr"
)

// mapError translates a driver error into the dberr taxonomy by SQLSTATE
// class.
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

	var pe *pq.Error
	if errors.As(err, &pe) {
		return dberr.New(classKind(pe.Code.Class()), pe.Error())
	}

	var ne net.Error
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, pq.ErrSSLNotSupported),
		errors.As(err, &ne):
		return dberr.New(dberr.Connection, err.Error())
	}
	return dberr.New(dberr.Library, err.Error())
}

func classKind(class pq.ErrorClass) dberr.Kind {
	switch class {
	case "08", "28", "3D", "57":
		return dberr.Connection
	case "22":
		return dberr.Conversion
	case "XX", "58":
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
