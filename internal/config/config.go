package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL            = "https://discord.com/api/v10"
	DefaultTimeout           = 30 * time.Second
	DefaultTokenEnv          = "DISCORD_BOT_TOKEN"
	DefaultRequestsPerSecond = 5
	DefaultBurst             = 5
	DefaultMetricsJob        = "guildsync"
)

// Config represents the complete guildsync configuration
type Config struct {
	Discord DiscordConfig `yaml:"discord"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// DiscordConfig configures access to the remote API
type DiscordConfig struct {
	APIURL    string          `yaml:"api_url"`
	Timeout   time.Duration   `yaml:"timeout"`
	TokenFile string          `yaml:"token_file"`
	TokenEnv  string          `yaml:"token_env"`
	Vault     VaultConfig     `yaml:"vault"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// VaultConfig locates the bot token in a Vault KV v2 secret
type VaultConfig struct {
	Address string `yaml:"address"`
	Mount   string `yaml:"mount"`
	Path    string `yaml:"path"`
	Field   string `yaml:"field"`
}

// Enabled reports whether any vault setting is present.
func (v VaultConfig) Enabled() bool {
	return v.Address != "" || v.Mount != "" || v.Path != "" || v.Field != ""
}

// RateLimitConfig configures the client side request limiter
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// MetricsConfig configures pushing run metrics to a Prometheus Pushgateway
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	Job            string `yaml:"job"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.expandEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist.
func LoadOrDefault(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// expandEnv expands environment variables in all string fields
func (c *Config) expandEnv() {
	c.Discord.APIURL = os.ExpandEnv(c.Discord.APIURL)
	c.Discord.TokenFile = os.ExpandEnv(c.Discord.TokenFile)
	c.Discord.TokenEnv = os.ExpandEnv(c.Discord.TokenEnv)
	c.Discord.Vault.Address = os.ExpandEnv(c.Discord.Vault.Address)
	c.Discord.Vault.Mount = os.ExpandEnv(c.Discord.Vault.Mount)
	c.Discord.Vault.Path = os.ExpandEnv(c.Discord.Vault.Path)
	c.Discord.Vault.Field = os.ExpandEnv(c.Discord.Vault.Field)
	c.Metrics.PushgatewayURL = os.ExpandEnv(c.Metrics.PushgatewayURL)
	c.Metrics.Job = os.ExpandEnv(c.Metrics.Job)
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Discord.APIURL == "" {
		c.Discord.APIURL = DefaultAPIURL
	}
	if c.Discord.Timeout == 0 {
		c.Discord.Timeout = DefaultTimeout
	}
	if c.Discord.TokenFile == "" && c.Discord.TokenEnv == "" && !c.Discord.Vault.Enabled() {
		c.Discord.TokenEnv = DefaultTokenEnv
	}
	if c.Discord.RateLimit.RequestsPerSecond == 0 {
		c.Discord.RateLimit.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.Discord.RateLimit.Burst == 0 {
		c.Discord.RateLimit.Burst = DefaultBurst
	}
	if c.Metrics.Job == "" {
		c.Metrics.Job = DefaultMetricsJob
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if err := validateHTTPURL("discord.api_url", c.Discord.APIURL); err != nil {
		return err
	}
	if c.Discord.Timeout < 0 {
		return fmt.Errorf("discord.timeout must not be negative: %s", c.Discord.Timeout)
	}

	// Only one token source may be configured
	sources := 0
	for _, set := range []bool{c.Discord.TokenFile != "", c.Discord.TokenEnv != "", c.Discord.Vault.Enabled()} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return fmt.Errorf("discord: only one of token_file, token_env or vault may be set")
	}

	if c.Discord.Vault.Enabled() {
		v := c.Discord.Vault
		if v.Address == "" {
			return fmt.Errorf("discord.vault.address is required")
		}
		if v.Mount == "" {
			return fmt.Errorf("discord.vault.mount is required")
		}
		if v.Path == "" {
			return fmt.Errorf("discord.vault.path is required")
		}
		if v.Field == "" {
			return fmt.Errorf("discord.vault.field is required")
		}
	}

	if c.Discord.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("discord.rate_limit.requests_per_second must be positive")
	}
	if c.Discord.RateLimit.Burst <= 0 {
		return fmt.Errorf("discord.rate_limit.burst must be positive")
	}

	if c.Metrics.PushgatewayURL != "" {
		if err := validateHTTPURL("metrics.pushgateway_url", c.Metrics.PushgatewayURL); err != nil {
			return err
		}
	}

	return nil
}

func validateHTTPURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL: %s", field, raw)
	}
	return nil
}

// TokenSource returns a description of the configured token source
func (c *Config) TokenSource() string {
	switch {
	case c.Discord.TokenFile != "":
		return "file"
	case c.Discord.Vault.Enabled():
		return "vault"
	case c.Discord.TokenEnv != "":
		return "env"
	default:
		return "none"
	}
}

// MetricsEnabled reports whether run metrics are pushed.
func (c *Config) MetricsEnabled() bool {
	return c.Metrics.PushgatewayURL != ""
}
