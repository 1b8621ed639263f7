package sqlite

const (
	defaultTable       = "outbox_operations"
	cacheTablePrefix   = "cache_"
	defaultMaxErrorLen = 1024
)

// Config defines queue store behavior.
type Config struct {
	Table string
}

func (c Config) withDefaults() Config {
	if c.Table == "" {
		c.Table = defaultTable
	}

	return c
}

// Option configures the queue store.
type Option func(*Config)

// WithTable sets the operation queue table name.
func WithTable(name string) Option {
	return func(c *Config) {
		c.Table = name
	}
}

// CacheConfig defines cache table behavior.
type CacheConfig struct {
	Table string
}

// CacheOption configures a domain cache.
type CacheOption func(*CacheConfig)

// WithCacheTable overrides the derived "cache_<domain>" table name.
func WithCacheTable(name string) CacheOption {
	return func(c *CacheConfig) {
		c.Table = name
	}
}
