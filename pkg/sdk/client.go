package bizlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/bizlist/internal/db"
	"github.com/kailas-cloud/bizlist/internal/db/memory"
	dbRedis "github.com/kailas-cloud/bizlist/internal/db/redis"
	"github.com/kailas-cloud/bizlist/internal/db/sqldb"
	domlisting "github.com/kailas-cloud/bizlist/internal/domain/listing"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
	listingrepo "github.com/kailas-cloud/bizlist/internal/repository/listing"
	healthuc "github.com/kailas-cloud/bizlist/internal/usecase/health"
	listinguc "github.com/kailas-cloud/bizlist/internal/usecase/listing"
)

const defaultReadinessTimeout = 10 * time.Second

const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
	driverRedis    = "redis"
	driverMemory   = "memory"
)

// Internal interfaces so tests can swap the use cases.
type listingUseCase interface {
	List(ctx context.Context, q listinguc.Query) ([]domlisting.Row, error)
}

// Client is the bizlist SDK entry point.
type Client struct {
	store     db.Store
	listSvc   listingUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New opens the configured store and waits until it answers.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("bizlist: store required (use WithPostgres, WithSQLite, WithRedis or WithMemory)")
	}
	src := media.Photo
	if cfg.mediaSource != "" {
		src = media.Source(cfg.mediaSource)
		if !src.IsValid() {
			return nil, fmt.Errorf("bizlist: unknown media source %q", cfg.mediaSource)
		}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.WaitForReady(ctx, store, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("bizlist: database not ready: %w", err)
	}

	return wireClient(store, cfg, src, obs), nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverPostgres, driverSQLite:
		s, err := sqldb.Open(sqldb.Config{Driver: cfg.driver, DSN: cfg.dsn})
		if err != nil {
			return nil, fmt.Errorf("bizlist: open %s store: %w", cfg.driver, err)
		}
		return s, nil
	case driverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.addrs,
			Password:  cfg.password,
			KeyPrefix: cfg.keyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("bizlist: create redis store: %w", err)
		}
		return s, nil
	case driverMemory:
		s := memory.New()
		if cfg.fixtures == "" {
			return s, nil
		}
		ds, err := db.LoadDataset(cfg.fixtures)
		if err != nil {
			return nil, fmt.Errorf("bizlist: %w", err)
		}
		if err := s.Seed(ctx, ds); err != nil {
			return nil, fmt.Errorf("bizlist: seed memory store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("bizlist: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, src media.Source, obs *observer) *Client {
	repo := listingrepo.New(store, cfg.driver)
	listSvc := listinguc.New(repo, listinguc.Config{
		MediaSource:      src,
		MediaPerBusiness: cfg.mediaPerBusiness,
	})

	return &Client{
		store:     store,
		listSvc:   listSvc,
		healthSvc: healthuc.New(store),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Migrate creates the schema (SQL) or the search indexes (Redis). Idempotent.
func (c *Client) Migrate(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("migrate", start, err) }()

	if err = c.store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// LoadFixtures seeds the store from a YAML dataset file.
func (c *Client) LoadFixtures(ctx context.Context, path string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("fixtures.load", start, err) }()

	ds, err := db.LoadDataset(path)
	if err != nil {
		return err
	}
	if err = c.store.Seed(ctx, ds); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

// Businesses starts a listing query.
func (c *Client) Businesses() *ListBuilder {
	return &ListBuilder{
		svc:     c.listSvc,
		obs:     c.obs,
		filters: map[string]any{},
	}
}
