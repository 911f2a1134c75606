// Package sqldb implements the listing store over database/sql, with
// Postgres (pgx) for production and SQLite (modernc) for local runs and tests.
package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // register the pure-Go sqlite driver

	"github.com/kailas-cloud/bizlist/internal/db"
	"github.com/kailas-cloud/bizlist/internal/domain/business"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a SQL store.
type Config struct {
	Driver          string // postgres, sqlite
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store implements db.Store over a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Open creates a SQL store. The connection is verified lazily by Ping.
func Open(cfg Config) (*Store, error) {
	d, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	dsn := cfg.DSN
	if d.Name() == "sqlite" {
		dsn = sqliteDSN(dsn)
	}
	conn, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name(), err)
	}

	switch {
	case d.Name() == "sqlite" && isMemoryDSN(dsn):
		// every connection would get its own empty database
		conn.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &Store{db: conn, dialect: d}, nil
}

// New wraps an existing *sql.DB.
func New(conn *sql.DB, d Dialect) *Store {
	return &Store{db: conn, dialect: d}
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// Dialect returns the SQL dialect in use.
func (s *Store) Dialect() Dialect { return s.dialect }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return db.Classify(db.OpPing, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	_ = s.db.Close()
}

// QueryParents runs the composed selection in one round trip.
func (s *Store) QueryParents(ctx context.Context, sel selection.Selection) ([]business.Business, error) {
	st, err := buildParentQuery(s.dialect, sel)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, db.Classify(db.OpQueryParents, err)
	}
	defer func() { _ = rows.Close() }()

	var out []business.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, db.Classify(db.OpQueryParents, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(db.OpQueryParents, err)
	}
	return out, nil
}

// QueryChildren loads media for all parentIDs in one round trip,
// ordered by business id then media id.
func (s *Store) QueryChildren(
	ctx context.Context, parentIDs []int64, pred selection.ChildPredicate,
) ([]media.Media, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	st := buildChildQuery(s.dialect, parentIDs, pred)

	rows, err := s.db.QueryContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, db.Classify(db.OpQueryChildren, err)
	}
	defer func() { _ = rows.Close() }()

	var out []media.Media
	for rows.Next() {
		var (
			m       media.Media
			source  string
			created any
		)
		if err := rows.Scan(&m.ID, &m.BusinessID, &source, &m.URL, &m.Path, &created); err != nil {
			return nil, db.Classify(db.OpQueryChildren, err)
		}
		m.Source = media.Source(source)
		if m.CreatedAt, err = parseTime(created); err != nil {
			return nil, db.Classify(db.OpQueryChildren, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(db.OpQueryChildren, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBusiness(r scanner) (business.Business, error) {
	var (
		b                   business.Business
		created             any
		tags, types, chains string
		status              string
	)
	err := r.Scan(
		&b.ID, &created, &b.Name, &b.Overview,
		&b.Token, &b.Logo, &b.Website, &b.Whitepaper, &b.ContractAddress,
		&b.Category, &tags, &types, &chains, &status,
	)
	if err != nil {
		return business.Business{}, fmt.Errorf("scan business: %w", err)
	}
	if b.CreatedAt, err = parseTime(created); err != nil {
		return business.Business{}, err
	}
	for _, f := range []struct {
		raw string
		dst *[]string
	}{{tags, &b.Tags}, {types, &b.Types}, {chains, &b.Chains}} {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return business.Business{}, fmt.Errorf("decode array of business %d: %w", b.ID, err)
		}
	}
	b.Status = business.Status(status)
	return b, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseTime accepts what either driver hands back for a timestamp column.
func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case nil:
		return time.Time{}, nil
	case int64:
		return time.Unix(t, 0).UTC(), nil
	case []byte:
		return parseTime(string(t))
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", t)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}
