package activity

import (
	"fmt"
	"time"
)

type Config struct {
	DefaultListLimit int           `mapstructure:"default_list_limit"`
	MaxListLimit     int           `mapstructure:"max_list_limit"`
	QueryTimeout     time.Duration `mapstructure:"query_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		DefaultListLimit: 50,
		MaxListLimit:     500,
		QueryTimeout:     5 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.DefaultListLimit <= 0 {
		return fmt.Errorf("default_list_limit must be positive")
	}
	if c.MaxListLimit < c.DefaultListLimit {
		return fmt.Errorf("max_list_limit must be >= default_list_limit")
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("query_timeout must be positive")
	}
	return nil
}
