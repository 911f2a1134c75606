package listing

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/kailas-cloud/bizlist/internal/domain/business"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
)

// Loader attaches media to a batch of businesses with a single child query.
type Loader struct {
	children  ChildQuerier
	source    media.Source
	perParent int
}

// NewLoader creates a loader capping each business at perParent media of source.
func NewLoader(children ChildQuerier, source media.Source, perParent int) *Loader {
	return &Loader{children: children, source: source, perParent: perParent}
}

// Load returns media grouped by business id. Every parent has an entry.
// An empty batch issues no query.
func (l *Loader) Load(ctx context.Context, parents []business.Business) (map[int64][]media.Media, error) {
	if len(parents) == 0 {
		return map[int64][]media.Media{}, nil
	}

	ids := make([]int64, 0, len(parents))
	seen := make(map[int64]struct{}, len(parents))
	for _, p := range parents {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		ids = append(ids, p.ID)
	}

	children, err := l.children.QueryChildren(ctx, ids, selection.ChildPredicate{
		Source:    l.source,
		PerParent: l.perParent,
	})
	if err != nil {
		return nil, fmt.Errorf("query children: %w", err)
	}

	// lowest ids first inside each group
	slices.SortStableFunc(children, func(a, b media.Media) int {
		if c := cmp.Compare(a.BusinessID, b.BusinessID); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return GroupAndCap(ids, children, func(m media.Media) int64 { return m.BusinessID }, l.perParent), nil
}
