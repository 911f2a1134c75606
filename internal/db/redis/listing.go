package redis

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/kailas-cloud/bizlist/internal/db"
	"github.com/kailas-cloud/bizlist/internal/domain"
	"github.com/kailas-cloud/bizlist/internal/domain/business"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
)

const (
	// scanPage is the cursor batch size of the random-sampling id scan.
	scanPage = 1000
	// childPage is the FT.SEARCH page size for the batched child query.
	childPage = 1000
)

// QueryParents runs the selection against the business index.
// Ordered mode is one FT.AGGREGATE with a multi-key SORTBY so id breaks ties.
// Random mode scans matching keys, shuffles them and loads the winners.
func (s *Store) QueryParents(ctx context.Context, sel selection.Selection) ([]business.Business, error) {
	sm, ok := sel.Sampling()
	if !ok {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, db.ErrNotSampled)
	}

	var owners []int64
	if src, ok := sel.HasChild(); ok {
		var err error
		owners, err = s.childOwners(ctx, src)
		if err != nil {
			return nil, err
		}
		if len(owners) == 0 {
			return []business.Business{}, nil
		}
	}
	query := buildParentQuery(sel, owners)

	if sm.Random {
		return s.sampleParents(ctx, query, sm.Limit)
	}

	args := []string{s.keys.businessIndex(), query, "LOAD", "*"}
	args = append(args, sortArgs(sm.Order)...)
	args = append(args, "LIMIT", "0", strconv.Itoa(sm.Limit), "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, classify(db.OpQueryParents, err)
	}
	rows, err := parseAggregateRows(raw)
	if err != nil {
		return nil, classify(db.OpQueryParents, err)
	}

	out := make([]business.Business, 0, len(rows))
	for _, row := range rows {
		b, err := decodeBusiness(row)
		if err != nil {
			return nil, classify(db.OpQueryParents, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// sampleParents streams every matching id through an aggregate cursor and keeps a
// uniform reservoir of limit ids, so the whole filtered pool is sampled.
func (s *Store) sampleParents(ctx context.Context, query string, limit int) ([]business.Business, error) {
	idx := s.keys.businessIndex()
	cmd := s.b().Arbitrary("FT.AGGREGATE").
		Args(idx, query, "LOAD", "1", "@"+fieldID,
			"WITHCURSOR", "COUNT", strconv.Itoa(scanPage), "DIALECT", "2").
		Build()

	reservoir := make([]int64, 0, limit)
	seen := 0
	for {
		raw, err := s.do(ctx, cmd).ToArray()
		if err != nil {
			return nil, classify(db.OpQueryParents, err)
		}
		rows, cursor, err := parseCursorReply(raw)
		if err != nil {
			return nil, classify(db.OpQueryParents, err)
		}
		for _, row := range rows {
			id, err := strconv.ParseInt(row[fieldID], 10, 64)
			if err != nil {
				return nil, classify(db.OpQueryParents, fmt.Errorf("parse id %q: %w", row[fieldID], err))
			}
			if len(reservoir) < limit {
				reservoir = append(reservoir, id)
			} else if j := rand.IntN(seen + 1); j < limit {
				reservoir[j] = id
			}
			seen++
		}
		if cursor == 0 {
			break
		}
		cmd = s.b().Arbitrary("FT.CURSOR").
			Args("READ", idx, strconv.FormatInt(cursor, 10), "COUNT", strconv.Itoa(scanPage)).
			Build()
	}

	rand.Shuffle(len(reservoir), func(i, j int) { reservoir[i], reservoir[j] = reservoir[j], reservoir[i] })
	keys := make([]string, len(reservoir))
	for i, id := range reservoir {
		keys[i] = s.keys.business(id)
	}

	hashes, err := s.hgetAllMulti(ctx, db.OpQueryParents, keys)
	if err != nil {
		return nil, err
	}
	out := make([]business.Business, 0, len(hashes))
	for _, h := range hashes {
		if len(h) == 0 {
			continue // deleted between scan and load
		}
		b, err := decodeBusiness(h)
		if err != nil {
			return nil, classify(db.OpQueryParents, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// childOwners returns the ids of businesses owning at least one media of src.
func (s *Store) childOwners(ctx context.Context, src media.Source) ([]int64, error) {
	cmd := s.b().Arbitrary("FT.AGGREGATE").
		Args(s.keys.mediaIndex(), buildTagFilter(fieldSource, string(src)),
			"GROUPBY", "1", "@"+fieldBusinessID, "DIALECT", "2").
		Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, classify(db.OpAggregate, err)
	}
	rows, err := parseAggregateRows(raw)
	if err != nil {
		return nil, classify(db.OpAggregate, err)
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.ParseInt(row[fieldBusinessID], 10, 64)
		if err != nil {
			return nil, classify(db.OpAggregate, fmt.Errorf("parse owner id %q: %w", row[fieldBusinessID], err))
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// QueryChildren loads media of the given businesses in pages of one FT.SEARCH each,
// ordered by (business id, id), then applies the per-parent cap.
func (s *Store) QueryChildren(
	ctx context.Context, parentIDs []int64, pred selection.ChildPredicate,
) ([]media.Media, error) {
	if len(parentIDs) == 0 {
		return []media.Media{}, nil
	}

	query := buildIDSetFilter(fieldBusinessID, parentIDs) + " " + buildTagFilter(fieldSource, string(pred.Source))

	var out []media.Media
	for offset := 0; ; offset += childPage {
		cmd := s.b().Arbitrary("FT.SEARCH").
			Args(s.keys.mediaIndex(), query,
				"SORTBY", fieldID, "ASC",
				"LIMIT", strconv.Itoa(offset), strconv.Itoa(childPage),
				"DIALECT", "2").
			Build()
		raw, err := s.do(ctx, cmd).ToArray()
		if err != nil {
			return nil, classify(db.OpQueryChildren, err)
		}
		total, entries, err := parseListResult(raw)
		if err != nil {
			return nil, classify(db.OpQueryChildren, err)
		}
		for _, e := range entries {
			m, err := decodeMedia(e.Fields)
			if err != nil {
				return nil, classify(db.OpQueryChildren, err)
			}
			out = append(out, m)
		}
		if len(entries) == 0 || offset+childPage >= total {
			break
		}
	}

	slices.SortStableFunc(out, func(a, b media.Media) int {
		if c := cmp.Compare(a.BusinessID, b.BusinessID); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return capPerParent(out, pred.PerParent), nil
}

// capPerParent keeps the first n items of every business run. n <= 0 keeps all.
func capPerParent(sorted []media.Media, n int) []media.Media {
	if n <= 0 {
		return sorted
	}
	out := make([]media.Media, 0, len(sorted))
	var (
		prev int64
		run  int
	)
	for i, m := range sorted {
		if i == 0 || m.BusinessID != prev {
			prev, run = m.BusinessID, 0
		}
		if run < n {
			out = append(out, m)
		}
		run++
	}
	return out
}
