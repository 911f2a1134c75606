package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/kailas-cloud/bizlist/internal/domain"
)

// Sentinel errors for database operations.
var (
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	ErrNotSampled    = errors.New("db: selection has no sampling")
)

// Op names used for error context and metrics labels.
const (
	OpQueryParents  = "query_parents"
	OpQueryChildren = "query_children"
	OpMigrate       = "migrate"
	OpSeed          = "seed"
	OpPing          = "ping"

	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpAggregate   = "FT.AGGREGATE"
	OpHSet        = "HSET"
)

// Classify wraps err as a *domain.StoreError for op. Already classified
// errors are returned unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *domain.StoreError
	if errors.As(err, &se) {
		return err
	}
	return domain.NewStoreError(kindOf(err), op, err)
}

func kindOf(err error) domain.StoreErrorKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.StoreTimeout
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone), errors.Is(err, net.ErrClosed):
		return domain.StoreConnectionFailure
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch {
		case pgErr.Code == "57014": // query_canceled, raised by statement_timeout
			return domain.StoreTimeout
		case pgErr.Code[:2] == "23":
			return domain.StoreConstraintViolation
		case pgErr.Code[:2] == "08":
			return domain.StoreConnectionFailure
		}
		return domain.StoreUnknown
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_CONSTRAINT:
			return domain.StoreConstraintViolation
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return domain.StoreTimeout
		case sqlite3.SQLITE_CANTOPEN:
			return domain.StoreConnectionFailure
		}
		return domain.StoreUnknown
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return domain.StoreTimeout
		}
		return domain.StoreConnectionFailure
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "broken pipe"),
		strings.Contains(msg, "no such host"):
		return domain.StoreConnectionFailure
	case strings.Contains(msg, "constraint"):
		return domain.StoreConstraintViolation
	case strings.Contains(msg, "timeout"):
		return domain.StoreTimeout
	}
	return domain.StoreUnknown
}
