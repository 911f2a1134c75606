// Package memory is an in-process listing store for local runs and tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/kailas-cloud/bizlist/internal/db"
	"github.com/kailas-cloud/bizlist/internal/domain"
	"github.com/kailas-cloud/bizlist/internal/domain/business"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store keeps businesses and media in memory, guarded by a RWMutex.
type Store struct {
	mu         sync.RWMutex
	businesses map[int64]business.Business
	media      map[int64]media.Media

	parentCalls atomic.Int64
	childCalls  atomic.Int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		businesses: make(map[int64]business.Business),
		media:      make(map[int64]media.Media),
	}
}

// Ping reports the context state; the store itself is always reachable.
func (s *Store) Ping(ctx context.Context) error {
	return db.Classify(db.OpPing, ctx.Err())
}

// Close is a no-op.
func (s *Store) Close() {}

// Migrate is a no-op: there is no schema.
func (s *Store) Migrate(context.Context) error { return nil }

// Seed inserts the dataset. Duplicate ids and media of unknown businesses
// are constraint violations; nothing is written on error.
func (s *Store) Seed(ctx context.Context, ds db.Dataset) error {
	if err := ctx.Err(); err != nil {
		return db.Classify(db.OpSeed, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	incoming := make(map[int64]struct{}, len(ds.Businesses))
	for _, b := range ds.Businesses {
		if _, ok := s.businesses[b.ID]; ok {
			return constraint("duplicate business id %d", b.ID)
		}
		if _, ok := incoming[b.ID]; ok {
			return constraint("duplicate business id %d", b.ID)
		}
		incoming[b.ID] = struct{}{}
	}
	seenMedia := make(map[int64]struct{}, len(ds.Media))
	for _, m := range ds.Media {
		_, existing := s.businesses[m.BusinessID]
		_, added := incoming[m.BusinessID]
		if !existing && !added {
			return constraint("media %d references unknown business %d", m.ID, m.BusinessID)
		}
		if _, ok := s.media[m.ID]; ok {
			return constraint("duplicate media id %d", m.ID)
		}
		if _, ok := seenMedia[m.ID]; ok {
			return constraint("duplicate media id %d", m.ID)
		}
		seenMedia[m.ID] = struct{}{}
	}

	for _, b := range ds.Businesses {
		s.businesses[b.ID] = b
	}
	for _, m := range ds.Media {
		s.media[m.ID] = m
	}
	return nil
}

// Delete removes a business and cascades to its media.
func (s *Store) Delete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.businesses, id)
	for mid, m := range s.media {
		if m.BusinessID == id {
			delete(s.media, mid)
		}
	}
}

// Calls returns how many parent and child queries were served.
func (s *Store) Calls() (parents, children int64) {
	return s.parentCalls.Load(), s.childCalls.Load()
}

// QueryParents evaluates the selection, then orders (or shuffles) and limits.
func (s *Store) QueryParents(ctx context.Context, sel selection.Selection) ([]business.Business, error) {
	s.parentCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, db.Classify(db.OpQueryParents, err)
	}
	sm, ok := sel.Sampling()
	if !ok {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, db.ErrNotSampled)
	}

	s.mu.RLock()
	owners := make(map[int64]map[media.Source]bool)
	for _, m := range s.media {
		if owners[m.BusinessID] == nil {
			owners[m.BusinessID] = make(map[media.Source]bool)
		}
		owners[m.BusinessID][m.Source] = true
	}
	hasChild := func(id int64, src media.Source) bool { return owners[id][src] }

	var out []business.Business
	for _, b := range s.businesses {
		if sel.Matches(b, hasChild) {
			out = append(out, b)
		}
	}
	s.mu.RUnlock()

	if sm.Random {
		rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	} else {
		slices.SortFunc(out, orderFunc(sm.Order))
	}
	if len(out) > sm.Limit {
		out = out[:sm.Limit]
	}
	return out, nil
}

// QueryChildren returns media of the given businesses ordered by (business id, id).
// The per-parent cap is applied when requested.
func (s *Store) QueryChildren(
	ctx context.Context, parentIDs []int64, pred selection.ChildPredicate,
) ([]media.Media, error) {
	s.childCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, db.Classify(db.OpQueryChildren, err)
	}

	want := make(map[int64]struct{}, len(parentIDs))
	for _, id := range parentIDs {
		want[id] = struct{}{}
	}

	s.mu.RLock()
	var out []media.Media
	for _, m := range s.media {
		if _, ok := want[m.BusinessID]; !ok || m.Source != pred.Source {
			continue
		}
		out = append(out, m)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b media.Media) int {
		if c := cmp.Compare(a.BusinessID, b.BusinessID); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if pred.PerParent <= 0 {
		return out, nil
	}
	capped := out[:0]
	var run int
	for i, m := range out {
		if i == 0 || out[i-1].BusinessID != m.BusinessID {
			run = 0
		}
		if run < pred.PerParent {
			capped = append(capped, m)
		}
		run++
	}
	return capped, nil
}

func orderFunc(o selection.Order) func(a, b business.Business) int {
	return func(a, b business.Business) int {
		var c int
		switch o.Field {
		case selection.FieldName:
			c = strings.Compare(a.Name, b.Name)
		case selection.FieldCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if o.Desc {
			return -c
		}
		return c
	}
}

func constraint(format string, args ...any) error {
	return domain.NewStoreError(domain.StoreConstraintViolation, db.OpSeed, fmt.Errorf(format, args...))
}
