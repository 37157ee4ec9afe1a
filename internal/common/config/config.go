// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Vapi     VapiConfig     `mapstructure:"vapi"`
	Calls    CallsConfig    `mapstructure:"calls"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the settings for the jessica-api HTTP server.
type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// Address returns the listen address for the HTTP server.
func (s ServerConfig) Address() string {
	return fmt.Sprintf(":%d", s.Port)
}

// BackendConfig is what the activity and vendor clients use to reach the API.
type BackendConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserID    string `mapstructure:"user_id"`
	ProjectID string `mapstructure:"project_id"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
}

// VapiConfig holds the credentials for the outbound calling API.
type VapiConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	PrivateKey    string `mapstructure:"private_key"`
	AssistantID   string `mapstructure:"assistant_id"`
	PhoneNumberID string `mapstructure:"phone_number_id"`
	Timeout       int    `mapstructure:"timeout"` // milliseconds
}

// CallsConfig controls who actually gets dialed.
type CallsConfig struct {
	Mode           string `mapstructure:"mode"` // TEST or LIVE
	SafeTestNumber string `mapstructure:"safe_test_number"`
	CustomerNumber string `mapstructure:"customer_number"`
	FirstMessage   string `mapstructure:"first_message"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	URL            string `mapstructure:"url"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string. A full URL wins over the
// individual fields.
func (p PostgresConfig) GetDSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// CacheConfig holds cache TTLs.
type CacheConfig struct {
	VendorTTL int `mapstructure:"vendor_ttl"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
