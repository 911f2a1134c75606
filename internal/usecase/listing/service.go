package listing

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bizlist/internal/domain"
	domlisting "github.com/kailas-cloud/bizlist/internal/domain/listing"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/filter"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
	"github.com/kailas-cloud/bizlist/internal/logger"
	"github.com/kailas-cloud/bizlist/internal/metrics"
)

// Query is one listing request.
type Query struct {
	Filters filter.Set
	// Limit is mandatory, at least 1.
	Limit int
	// Sample draws a random subset instead of applying Order.
	Sample bool
	Order  selection.Order
}

// Config tunes media attachment. The has_photo filter always means Photo;
// MediaSource only selects which media are attached to each row.
type Config struct {
	MediaSource      media.Source
	MediaPerBusiness int
}

// Service lists approved businesses with their capped media.
type Service struct {
	repo   Repository
	loader *Loader
}

// New creates a listing service.
func New(repo Repository, cfg Config) *Service {
	if cfg.MediaSource == "" {
		cfg.MediaSource = media.Photo
	}
	if cfg.MediaPerBusiness <= 0 {
		cfg.MediaPerBusiness = domlisting.DefaultPerParent
	}
	return &Service{
		repo:   repo,
		loader: NewLoader(repo, cfg.MediaSource, cfg.MediaPerBusiness),
	}
}

// List composes the filters, samples, fetches parents, then batch-loads media.
// It never returns a partial list.
func (s *Service) List(ctx context.Context, q Query) ([]domlisting.Row, error) {
	sel, err := selection.Sample(selection.Compose(q.Filters, media.Photo), selection.Sampling{
		Random: q.Sample,
		Order:  q.Order,
		Limit:  q.Limit,
	})
	if err != nil {
		return nil, err
	}

	parents, err := s.repo.QueryParents(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query parents: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	groups, err := s.loader.Load(ctx, parents)
	if err != nil {
		return nil, err
	}

	rows, err := Assemble(parents, groups)
	if err != nil {
		if errors.Is(err, domain.ErrInternalConsistency) {
			logger.FromContext(ctx).Error("Listing assembly failed",
				zap.Stringer("filters", q.Filters),
				zap.Int("parents", len(parents)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	mode := "ordered"
	if q.Sample {
		mode = "random"
	}
	metrics.ListingRows.WithLabelValues(mode).Observe(float64(len(rows)))

	return rows, nil
}
