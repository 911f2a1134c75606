package bizlist

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver    string // postgres, sqlite, redis, memory
	dsn       string
	addrs     []string
	password  string
	keyPrefix string
	fixtures  string

	mediaSource      string
	mediaPerBusiness int

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres connects to Postgres through the pgx driver.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverPostgres
		c.dsn = dsn
	})
}

// WithSQLite opens a SQLite database file (or ":memory:").
func WithSQLite(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverSQLite
		c.dsn = dsn
	})
}

// WithRedis connects to a Redis instance with the search module loaded.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix namespaces Redis keys and indexes. Default "bizlist:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithMemory keeps everything in process, seeded from a YAML fixtures file.
// An empty path starts with an empty store.
func WithMemory(fixturesPath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
		c.fixtures = fixturesPath
	})
}

// WithMediaSource selects which media source is attached and matched by HasPhoto.
// Default "Photo".
func WithMediaSource(source string) Option {
	return optionFunc(func(c *clientConfig) {
		c.mediaSource = source
	})
}

// WithMediaPerBusiness caps media attached to each business. Default 3.
func WithMediaPerBusiness(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.mediaPerBusiness = n
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
