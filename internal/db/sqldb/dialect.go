package sqldb

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect isolates the SQL differences between Postgres and SQLite.
type Dialect interface {
	Name() string
	// DriverName is the database/sql driver to open.
	DriverName() string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder(n int) string
	// ArrayContains tests membership of a bound value in a string-array column.
	ArrayContains(column, placeholder string) string
	// ArrayJSON selects a string-array column as JSON text, never NULL.
	ArrayJSON(column string) string
	// InInt64 restricts column to ids, binding through bind.
	InInt64(column string, ids []int64, bind func(any) string) string
	Random() string
	EncodeArray(values []string) (any, error)
	EncodeTime(t time.Time) any
	Schema() []string
	// AfterSeed runs once explicit ids were inserted.
	AfterSeed() []string
}

// DialectFor returns the dialect for a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx":
		return Postgres{}, nil
	case "sqlite":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
}

// Postgres is the production dialect, driven through pgx's database/sql adapter.
type Postgres struct{}

// Name implements Dialect.
func (Postgres) Name() string { return "postgres" }

// DriverName implements Dialect.
func (Postgres) DriverName() string { return "pgx" }

// Placeholder implements Dialect.
func (Postgres) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

// ArrayContains implements Dialect.
func (Postgres) ArrayContains(column, placeholder string) string {
	return placeholder + " = ANY(" + column + ")"
}

// ArrayJSON implements Dialect.
func (Postgres) ArrayJSON(column string) string {
	return "COALESCE(array_to_json(" + column + ")::text, '[]')"
}

// InInt64 implements Dialect.
func (Postgres) InInt64(column string, ids []int64, bind func(any) string) string {
	return column + " = ANY(" + bind(ids) + "::bigint[])"
}

// Random implements Dialect.
func (Postgres) Random() string { return "random()" }

// EncodeArray implements Dialect. pgx encodes []string as text[].
func (Postgres) EncodeArray(values []string) (any, error) {
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// EncodeTime implements Dialect.
func (Postgres) EncodeTime(t time.Time) any { return t.UTC() }

// Schema implements Dialect.
func (Postgres) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS business (
	id               BIGSERIAL PRIMARY KEY,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	name             TEXT NOT NULL,
	overview         TEXT NOT NULL DEFAULT '',
	token            TEXT,
	logo             TEXT,
	website          TEXT,
	whitepaper_url   TEXT,
	contract_address TEXT,
	main_category    TEXT NOT NULL,
	types            TEXT[],
	chains           TEXT[],
	tags             TEXT[],
	status           TEXT NOT NULL DEFAULT 'pending'
		CHECK (status IN ('approved', 'pending', 'rejected'))
)`,
		`CREATE TABLE IF NOT EXISTS media (
	id          BIGSERIAL PRIMARY KEY,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	url         TEXT NOT NULL,
	business_id BIGINT NOT NULL REFERENCES business (id) ON DELETE CASCADE,
	path        TEXT,
	source      TEXT NOT NULL
		CHECK (source IN ('Photo', 'Telegram', 'Discord', 'Twitter', 'Blog'))
)`,
		`CREATE INDEX IF NOT EXISTS business_status_idx ON business (status, main_category)`,
		`CREATE INDEX IF NOT EXISTS media_business_source_idx ON media (business_id, source, id)`,
	}
}

// AfterSeed implements Dialect.
func (Postgres) AfterSeed() []string {
	return []string{
		`SELECT setval(pg_get_serial_sequence('business', 'id'), COALESCE(MAX(id), 1)) FROM business`,
		`SELECT setval(pg_get_serial_sequence('media', 'id'), COALESCE(MAX(id), 1)) FROM media`,
	}
}

// SQLite is the local and test dialect. Arrays are stored as JSON text.
type SQLite struct{}

// Name implements Dialect.
func (SQLite) Name() string { return "sqlite" }

// DriverName implements Dialect.
func (SQLite) DriverName() string { return "sqlite" }

// Placeholder implements Dialect.
func (SQLite) Placeholder(int) string { return "?" }

// ArrayContains implements Dialect.
func (SQLite) ArrayContains(column, placeholder string) string {
	return "EXISTS (SELECT 1 FROM json_each(" + column + ") WHERE json_each.value = " + placeholder + ")"
}

// ArrayJSON implements Dialect.
func (SQLite) ArrayJSON(column string) string {
	return "COALESCE(" + column + ", '[]')"
}

// InInt64 implements Dialect.
func (SQLite) InInt64(column string, ids []int64, bind func(any) string) string {
	ph := make([]string, len(ids))
	for i, id := range ids {
		ph[i] = bind(id)
	}
	return column + " IN (" + strings.Join(ph, ", ") + ")"
}

// Random implements Dialect.
func (SQLite) Random() string { return "RANDOM()" }

// EncodeArray implements Dialect.
func (SQLite) EncodeArray(values []string) (any, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode array: %w", err)
	}
	return string(b), nil
}

// EncodeTime implements Dialect.
func (SQLite) EncodeTime(t time.Time) any { return t.UTC().Format(time.RFC3339Nano) }

// Schema implements Dialect.
func (SQLite) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS business (
	id               INTEGER PRIMARY KEY,
	created_at       TEXT NOT NULL,
	name             TEXT NOT NULL,
	overview         TEXT NOT NULL DEFAULT '',
	token            TEXT,
	logo             TEXT,
	website          TEXT,
	whitepaper_url   TEXT,
	contract_address TEXT,
	main_category    TEXT NOT NULL,
	types            TEXT,
	chains           TEXT,
	tags             TEXT,
	status           TEXT NOT NULL DEFAULT 'pending'
		CHECK (status IN ('approved', 'pending', 'rejected'))
)`,
		`CREATE TABLE IF NOT EXISTS media (
	id          INTEGER PRIMARY KEY,
	created_at  TEXT NOT NULL,
	url         TEXT NOT NULL,
	business_id INTEGER NOT NULL REFERENCES business (id) ON DELETE CASCADE,
	path        TEXT,
	source      TEXT NOT NULL
		CHECK (source IN ('Photo', 'Telegram', 'Discord', 'Twitter', 'Blog'))
)`,
		`CREATE INDEX IF NOT EXISTS business_status_idx ON business (status, main_category)`,
		`CREATE INDEX IF NOT EXISTS media_business_source_idx ON media (business_id, source, id)`,
	}
}

// AfterSeed implements Dialect.
func (SQLite) AfterSeed() []string { return nil }
