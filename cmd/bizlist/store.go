package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bizlist/internal/config"
	"github.com/kailas-cloud/bizlist/internal/db"
	"github.com/kailas-cloud/bizlist/internal/db/memory"
	dbRedis "github.com/kailas-cloud/bizlist/internal/db/redis"
	"github.com/kailas-cloud/bizlist/internal/db/sqldb"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
	listingrepo "github.com/kailas-cloud/bizlist/internal/repository/listing"
	listinguc "github.com/kailas-cloud/bizlist/internal/usecase/listing"
)

// openStore creates the configured backend and waits until it answers.
func openStore(ctx context.Context, c config.DatabaseConfig, log *zap.Logger) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch c.Driver {
	case config.DriverPostgres, config.DriverSQLite:
		store, err = sqldb.Open(sqldb.Config{
			Driver:       c.Driver,
			DSN:          c.DSN,
			MaxOpenConns: c.MaxOpenConns,
		})
	case config.DriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:     c.Addrs,
			Password:  c.Password,
			KeyPrefix: c.KeyPrefix,
		})
	case config.DriverMemory:
		store, err = openMemory(ctx, c.Fixtures, log)
	default:
		return nil, fmt.Errorf("unknown database driver %q", c.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", c.Driver, err)
	}

	if err := db.WaitForReady(ctx, store, time.Duration(c.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	log.Info("Connected to database", zap.String("driver", c.Driver))
	return store, nil
}

// openMemory builds an in-process store, seeded from fixtures when a path is set.
func openMemory(ctx context.Context, fixtures string, log *zap.Logger) (*memory.Store, error) {
	store := memory.New()
	if fixtures == "" {
		return store, nil
	}
	ds, err := db.LoadDataset(fixtures)
	if err != nil {
		return nil, err
	}
	if err := store.Seed(ctx, ds); err != nil {
		return nil, fmt.Errorf("seed fixtures: %w", err)
	}
	log.Info("Loaded fixtures",
		zap.String("path", fixtures),
		zap.Int("businesses", len(ds.Businesses)),
		zap.Int("media", len(ds.Media)),
	)
	return store, nil
}

// newListingService wires the instrumented repository into the listing use case.
func newListingService(store db.Lister, c config.Config) (*listinguc.Service, error) {
	src := media.Source(c.Listing.MediaSource)
	if !src.IsValid() {
		return nil, fmt.Errorf("listing.media_source %q is not a known media source", c.Listing.MediaSource)
	}
	repo := listingrepo.New(store, c.Database.Driver)
	return listinguc.New(repo, listinguc.Config{
		MediaSource:      src,
		MediaPerBusiness: c.Listing.MediaPerBusiness,
	}), nil
}
