package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kailas-cloud/bizlist/internal/db"
)

// Migrate creates the business and media tables if missing.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.Schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return db.Classify(db.OpMigrate, err)
		}
	}
	return nil
}

// Seed inserts the dataset in one transaction.
func (s *Store) Seed(ctx context.Context, ds db.Dataset) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return db.Classify(db.OpSeed, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.insertBusinesses(ctx, tx, ds); err != nil {
		return err
	}
	if err = s.insertMedia(ctx, tx, ds); err != nil {
		return err
	}
	for _, stmt := range s.dialect.AfterSeed() {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return db.Classify(db.OpSeed, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return db.Classify(db.OpSeed, err)
	}
	return nil
}

func (s *Store) insertBusinesses(ctx context.Context, tx *sql.Tx, ds db.Dataset) error {
	if len(ds.Businesses) == 0 {
		return nil
	}
	ph := s.placeholders(14)
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO business
	(id, created_at, name, overview, token, logo, website, whitepaper_url,
	 contract_address, main_category, tags, types, chains, status)
VALUES (`+ph+`)`)
	if err != nil {
		return db.Classify(db.OpSeed, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range ds.Businesses {
		tags, err := s.dialect.EncodeArray(b.Tags)
		if err != nil {
			return err
		}
		types, err := s.dialect.EncodeArray(b.Types)
		if err != nil {
			return err
		}
		chains, err := s.dialect.EncodeArray(b.Chains)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx,
			b.ID, s.dialect.EncodeTime(createdOrNow(b.CreatedAt)), b.Name, b.Overview,
			nullable(b.Token), nullable(b.Logo), nullable(b.Website), nullable(b.Whitepaper),
			nullable(b.ContractAddress), b.Category, tags, types, chains, string(b.Status),
		)
		if err != nil {
			return db.Classify(db.OpSeed, fmt.Errorf("insert business %d: %w", b.ID, err))
		}
	}
	return nil
}

func (s *Store) insertMedia(ctx context.Context, tx *sql.Tx, ds db.Dataset) error {
	if len(ds.Media) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO media
	(id, created_at, url, business_id, path, source)
VALUES (`+s.placeholders(6)+`)`)
	if err != nil {
		return db.Classify(db.OpSeed, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, m := range ds.Media {
		_, err := stmt.ExecContext(ctx,
			m.ID, s.dialect.EncodeTime(createdOrNow(m.CreatedAt)), m.URL, m.BusinessID,
			nullable(m.Path), string(m.Source),
		)
		if err != nil {
			return db.Classify(db.OpSeed, fmt.Errorf("insert media %d: %w", m.ID, err))
		}
	}
	return nil
}

func (s *Store) placeholders(n int) string {
	b := &binder{d: s.dialect}
	out := ""
	for i := range n {
		if i > 0 {
			out += ", "
		}
		out += b.bind(nil)
	}
	return out
}

func createdOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
