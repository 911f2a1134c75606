// Package listing adapts a db.Lister backend to the listing use case,
// recording round-trip metrics per driver.
package listing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bizlist/internal/db"
	"github.com/kailas-cloud/bizlist/internal/domain"
	"github.com/kailas-cloud/bizlist/internal/domain/business"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
	"github.com/kailas-cloud/bizlist/internal/logger"
	"github.com/kailas-cloud/bizlist/internal/metrics"
)

// store is the consumer interface for the backend.
type store interface {
	QueryParents(ctx context.Context, sel selection.Selection) ([]business.Business, error)
	QueryChildren(ctx context.Context, parentIDs []int64, pred selection.ChildPredicate) ([]media.Media, error)
}

// Repo implements the listing repository over a store backend.
type Repo struct {
	store  store
	driver string
}

// New creates a listing repository. driver labels metrics.
func New(s store, driver string) *Repo {
	return &Repo{store: s, driver: driver}
}

// QueryParents runs the parent round trip.
func (r *Repo) QueryParents(ctx context.Context, sel selection.Selection) ([]business.Business, error) {
	start := time.Now()
	out, err := r.store.QueryParents(ctx, sel)
	r.observe(ctx, db.OpQueryParents, start, err, len(out))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// QueryChildren runs the batched child round trip. An empty id list is answered
// without touching the store.
func (r *Repo) QueryChildren(
	ctx context.Context, parentIDs []int64, pred selection.ChildPredicate,
) ([]media.Media, error) {
	if len(parentIDs) == 0 {
		return []media.Media{}, nil
	}
	start := time.Now()
	out, err := r.store.QueryChildren(ctx, parentIDs, pred)
	r.observe(ctx, db.OpQueryChildren, start, err, len(out))
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) observe(ctx context.Context, op string, start time.Time, err error, rows int) {
	elapsed := time.Since(start)
	metrics.StoreRequestDuration.WithLabelValues(r.driver, op).Observe(elapsed.Seconds())

	status := "ok"
	if err != nil {
		status = "error"
		if kind, ok := domain.StoreKindOf(err); ok {
			metrics.StoreErrorsTotal.WithLabelValues(r.driver, op, kind.String()).Inc()
		}
	}
	metrics.StoreRequestsTotal.WithLabelValues(r.driver, op, status).Inc()

	logger.FromContext(ctx).Debug("store round trip",
		zap.String("driver", r.driver),
		zap.String("op", op),
		zap.Int("rows", rows),
		zap.Duration("elapsed", elapsed),
		zap.Error(err),
	)
}
