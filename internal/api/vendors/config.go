package vendors

import (
	"fmt"
	"time"
)

type Config struct {
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	SearchLimit    int           `mapstructure:"search_limit"`
	SearchMinQuery int           `mapstructure:"search_min_query"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		CacheTTL:       5 * time.Minute,
		SearchLimit:    15,
		SearchMinQuery: 2,
		QueryTimeout:   5 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	if c.SearchLimit <= 0 {
		return fmt.Errorf("search_limit must be positive")
	}
	if c.SearchMinQuery < 0 {
		return fmt.Errorf("search_min_query must not be negative")
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("query_timeout must be positive")
	}
	return nil
}
