package db

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/bizlist/internal/domain/business"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
)

// Store is the database facade every backend implements.
type Store interface {
	Pinger
	Lister
	Migrator
	Close()
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Lister serves the two listing round trips. Errors are *domain.StoreError.
type Lister interface {
	QueryParents(ctx context.Context, sel selection.Selection) ([]business.Business, error)
	QueryChildren(ctx context.Context, parentIDs []int64, pred selection.ChildPredicate) ([]media.Media, error)
}

// Migrator prepares the schema and loads fixture data. Tooling only.
type Migrator interface {
	Migrate(ctx context.Context) error
	Seed(ctx context.Context, ds Dataset) error
}

// WaitForReady polls Ping until the store responds or timeout expires.
func WaitForReady(ctx context.Context, p Pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.Ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := p.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
