package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/bizlist/internal/db"
	"github.com/kailas-cloud/bizlist/internal/domain"
)

// Migrate creates the business and media indexes. Existing indexes are kept.
func (s *Store) Migrate(ctx context.Context) error {
	for _, def := range []*db.IndexDefinition{s.keys.businessSchema(), s.keys.mediaSchema()} {
		exists, err := s.IndexExists(ctx, def.Name)
		if err != nil {
			return fmt.Errorf("check index %s: %w", def.Name, err)
		}
		if exists {
			continue
		}
		// another migrator may win the race between FT.INFO and FT.CREATE
		if err := s.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create index %s: %w", def.Name, err)
		}
	}
	return nil
}

// Seed writes the dataset as hashes. Key collisions and media of unknown
// businesses are checked before the first write.
func (s *Store) Seed(ctx context.Context, ds db.Dataset) error {
	incoming := make(map[int64]struct{}, len(ds.Businesses))
	keys := make([]string, 0, len(ds.Businesses)+len(ds.Media))
	for _, b := range ds.Businesses {
		if _, dup := incoming[b.ID]; dup {
			return constraint("duplicate business id %d", b.ID)
		}
		incoming[b.ID] = struct{}{}
		keys = append(keys, s.keys.business(b.ID))
	}
	for _, m := range ds.Media {
		keys = append(keys, s.keys.media(m.ID))
	}

	exists, err := s.existsMulti(ctx, db.OpSeed, keys)
	if err != nil {
		return err
	}
	for i, ok := range exists {
		if ok {
			return constraint("key %s already exists", keys[i])
		}
	}

	var external []int64
	for _, m := range ds.Media {
		if _, ok := incoming[m.BusinessID]; !ok {
			external = append(external, m.BusinessID)
		}
	}
	if len(external) > 0 {
		ext := make([]string, len(external))
		for i, id := range external {
			ext[i] = s.keys.business(id)
		}
		found, err := s.existsMulti(ctx, db.OpSeed, ext)
		if err != nil {
			return err
		}
		for i, ok := range found {
			if !ok {
				return constraint("media references unknown business %d", external[i])
			}
		}
	}

	items := make([]hashItem, 0, len(keys))
	for _, b := range ds.Businesses {
		items = append(items, hashItem{Key: s.keys.business(b.ID), Fields: encodeBusiness(b)})
	}
	for _, m := range ds.Media {
		items = append(items, hashItem{Key: s.keys.media(m.ID), Fields: encodeMedia(m)})
	}
	return s.hsetMulti(ctx, items)
}

func constraint(format string, args ...any) error {
	return domain.NewStoreError(domain.StoreConstraintViolation, db.OpSeed, fmt.Errorf(format, args...))
}
