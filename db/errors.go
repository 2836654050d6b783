package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net"

	"github.com/cyverse-de/notification-view/common"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// PostgreSQL error codes outside of the connection exception class that indicate a transient fault.
var transientErrorCodes = map[pq.ErrorCode]bool{
	"53300": true, // too_many_connections
	"57014": true, // query_canceled
	"57P01": true, // admin_shutdown
	"57P02": true, // crash_shutdown
	"57P03": true, // cannot_connect_now
}

// isTransient returns true if err indicates that the database couldn't be reached or didn't respond in time.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "08" || transientErrorCodes[pqErr.Code]
	}

	return false
}

// wrapError wraps a database error, marking transient faults so that they can be distinguished from other
// failures by callers.
func wrapError(err error, wrapMsg string) error {
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return common.NewStorageUnavailableError(err, wrapMsg)
	}
	return errors.Wrap(err, wrapMsg)
}
