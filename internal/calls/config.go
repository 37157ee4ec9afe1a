package calls

import (
	"fmt"
	"time"

	"jessica-sub/internal/common/config"
)

type Config struct {
	Mode           string        `mapstructure:"mode"`
	SafeTestNumber string        `mapstructure:"safe_test_number"`
	PrivateKey     string        `mapstructure:"private_key"`
	AssistantID    string        `mapstructure:"assistant_id"`
	PhoneNumberID  string        `mapstructure:"phone_number_id"`
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`

	// CustomerNumber and FirstMessage fill in a test call request that
	// leaves them out.
	CustomerNumber string `mapstructure:"customer_number"`
	FirstMessage   string `mapstructure:"first_message"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:           config.CallModeTest,
		SafeTestNumber: "+14084106151",
		Timeout:        30 * time.Second,
	}
}

// ConfigFrom builds the calling config out of the application config.
func ConfigFrom(cfg *config.Config) *Config {
	return &Config{
		Mode:           cfg.Calls.Mode,
		SafeTestNumber: cfg.Calls.SafeTestNumber,
		PrivateKey:     cfg.Vapi.PrivateKey,
		AssistantID:    cfg.Vapi.AssistantID,
		PhoneNumberID:  cfg.Vapi.PhoneNumberID,
		BaseURL:        cfg.Vapi.BaseURL,
		Timeout:        config.GetDuration(cfg.Vapi.Timeout),
		CustomerNumber: cfg.Calls.CustomerNumber,
		FirstMessage:   cfg.Calls.FirstMessage,
	}
}

// Validate checks the guard settings. Missing Vapi credentials are not a
// config error here; the service reports them when a call is attempted.
func (c *Config) Validate() error {
	if c.Mode != config.CallModeTest && c.Mode != config.CallModeLive {
		return fmt.Errorf("mode must be %s or %s", config.CallModeTest, config.CallModeLive)
	}
	if c.Mode == config.CallModeTest && c.SafeTestNumber == "" {
		return fmt.Errorf("safe_test_number is required in %s mode", config.CallModeTest)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// missingCredential names the first unset Vapi credential, by its env var.
func (c *Config) missingCredential() string {
	switch {
	case c.PrivateKey == "":
		return "VAPI_PRIVATE_KEY"
	case c.AssistantID == "":
		return "VAPI_ASSISTANT_ID"
	case c.PhoneNumberID == "":
		return "VAPI_PHONE_NUMBER_ID"
	}
	return ""
}
