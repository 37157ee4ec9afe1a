// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	CallModeTest = "TEST"
	CallModeLive = "LIVE"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top
// and then lets the environment (and .env) override it.
func Load() (*Config, error) {
	LoadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	LoadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadEnvFile loads the first .env found walking up from the working
// directory. It returns the path it loaded, or "" when none was found.
func LoadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}

	return ""
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

func envIfEmpty(dst *string, names ...string) {
	if *dst != "" {
		return
	}
	for _, name := range names {
		if val := os.Getenv(name); val != "" {
			*dst = val
			return
		}
	}
}

// overrideEmptyConfig fills values that are conventionally provided as flat
// environment variables rather than through the YAML key layout.
func overrideEmptyConfig(cfg *Config) {
	envIfEmpty(&cfg.Vapi.PrivateKey, "VAPI_PRIVATE_KEY")
	envIfEmpty(&cfg.Vapi.AssistantID, "VAPI_ASSISTANT_ID")
	envIfEmpty(&cfg.Vapi.PhoneNumberID, "VAPI_PHONE_NUMBER_ID")
	envIfEmpty(&cfg.Vapi.BaseURL, "VAPI_BASE_URL")

	envIfEmpty(&cfg.Calls.Mode, "CALL_MODE")
	envIfEmpty(&cfg.Calls.SafeTestNumber, "SAFE_TEST_NUMBER")
	envIfEmpty(&cfg.Calls.CustomerNumber, "CUSTOMER_NUMBER")

	envIfEmpty(&cfg.Backend.BaseURL, "BACKEND_BASE_URL", "API_BASE")
	envIfEmpty(&cfg.Backend.UserID, "BACKEND_USER_ID")
	envIfEmpty(&cfg.Backend.ProjectID, "BACKEND_PROJECT_ID")

	envIfEmpty(&cfg.Database.Postgres.URL, "DATABASE_URL")
	envIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	envIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	envIfEmpty(&cfg.Database.Redis.Address, "REDIS_ADDRESS", "REDIS_ADDR")
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "jessica-sub"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "0.3"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*", "http://localhost:5173"}
	}

	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://127.0.0.1:8000"
	}
	if cfg.Backend.UserID == "" {
		cfg.Backend.UserID = "demo_user"
	}
	if cfg.Backend.ProjectID == "" {
		cfg.Backend.ProjectID = "p1"
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 10000
	}

	if cfg.Vapi.BaseURL == "" {
		cfg.Vapi.BaseURL = "https://api.vapi.ai"
	}
	if cfg.Vapi.Timeout == 0 {
		cfg.Vapi.Timeout = 30000
	}

	cfg.Calls.Mode = strings.ToUpper(strings.TrimSpace(cfg.Calls.Mode))
	if cfg.Calls.Mode == "" {
		cfg.Calls.Mode = CallModeTest
	}
	if cfg.Calls.SafeTestNumber == "" {
		cfg.Calls.SafeTestNumber = "+14084106151"
	}
	if cfg.Calls.CustomerNumber == "" {
		cfg.Calls.CustomerNumber = cfg.Calls.SafeTestNumber
	}
	if cfg.Calls.FirstMessage == "" {
		cfg.Calls.FirstMessage = "Jessica absolute baseline test"
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.PoolSize == 0 {
		cfg.Database.Redis.PoolSize = 10
	}

	if cfg.Cache.VendorTTL == 0 {
		cfg.Cache.VendorTTL = 300
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig checks the fields every binary depends on.
func validateConfig(cfg *Config) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}

	if cfg.Calls.Mode != CallModeTest && cfg.Calls.Mode != CallModeLive {
		return fmt.Errorf("calls.mode must be %s or %s, got %q", CallModeTest, CallModeLive, cfg.Calls.Mode)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	return nil
}

// ValidateServer checks what jessica-api needs on top of the common fields.
func ValidateServer(cfg *Config) error {
	pg := cfg.Database.Postgres
	if pg.URL == "" {
		if pg.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if pg.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if pg.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	}

	if cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
