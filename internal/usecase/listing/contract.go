package listing

import (
	"context"

	"github.com/kailas-cloud/bizlist/internal/domain/business"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
)

// ParentQuerier runs a sampled selection against businesses.
type ParentQuerier interface {
	QueryParents(ctx context.Context, sel selection.Selection) ([]business.Business, error)
}

// ChildQuerier loads media for a batch of businesses in one round trip.
// Results must be ordered by business id, then media id ascending.
type ChildQuerier interface {
	QueryChildren(ctx context.Context, parentIDs []int64, pred selection.ChildPredicate) ([]media.Media, error)
}

// Repository defines the storage contract for listing operations.
type Repository interface {
	ParentQuerier
	ChildQuerier
}
