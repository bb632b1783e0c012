// Package config loads server settings from defaults, an optional YAML file
// and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/terraincognita07/cradle/internal/advisor"
	"github.com/terraincognita07/cradle/internal/telemetry"
	"gopkg.in/yaml.v3"
)

const (
	minSecretKeyLength  = 32
	defaultTelemetryMap = "heart_rate:1,spo2:2,temperature:3"
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
	Advisor   AdvisorConfig   `yaml:"advisor"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	Location *time.Location `yaml:"-"`
}

type ServerConfig struct {
	Port         string `yaml:"port"`
	SecretKey    string `yaml:"secret_key"`
	TimeZone     string `yaml:"tz"`
	CookieSecure bool   `yaml:"cookie_secure"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type AdvisorConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type TelemetryConfig struct {
	BaseURL      string `yaml:"base_url"`
	ChannelID    string `yaml:"channel_id"`
	ReadKey      string `yaml:"read_key"`
	Fields       string `yaml:"fields"`
	PollInterval string `yaml:"poll_interval"`
	Results      int    `yaml:"results"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     "8080",
			TimeZone: "UTC",
		},
		Database: DatabaseConfig{Path: filepath.Join("data", "cradle.db")},
		Logging:  LoggingConfig{Level: "info"},
		Advisor:  AdvisorConfig{Model: advisor.DefaultModel},
		Telemetry: TelemetryConfig{
			BaseURL:      telemetry.DefaultBaseURL,
			Fields:       defaultTelemetryMap,
			PollInterval: telemetry.DefaultInterval.String(),
			Results:      telemetry.DefaultResults,
		},
	}
}

// Load reads .env (when present), then the YAML file named by CRADLE_CONFIG,
// then the process environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return LoadFile(os.Getenv("CRADLE_CONFIG"))
}

func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	overrideString("PORT", &c.Server.Port)
	overrideString("SECRET_KEY", &c.Server.SecretKey)
	overrideString("TZ", &c.Server.TimeZone)
	overrideString("DB_PATH", &c.Database.Path)
	overrideString("LOG_LEVEL", &c.Logging.Level)
	overrideString("GEMINI_API_KEY", &c.Advisor.APIKey)
	overrideString("GEMINI_MODEL", &c.Advisor.Model)
	overrideString("TELEMETRY_BASE_URL", &c.Telemetry.BaseURL)
	overrideString("TELEMETRY_CHANNEL_ID", &c.Telemetry.ChannelID)
	overrideString("TELEMETRY_READ_KEY", &c.Telemetry.ReadKey)
	overrideString("TELEMETRY_FIELDS", &c.Telemetry.Fields)
	overrideString("TELEMETRY_POLL_INTERVAL", &c.Telemetry.PollInterval)

	return errors.Join(
		overrideBool("COOKIE_SECURE", &c.Server.CookieSecure),
		overrideBool("LOG_DEVELOPMENT", &c.Logging.Development),
		overrideInt("TELEMETRY_RESULTS", &c.Telemetry.Results),
	)
}

// Validate checks every setting and resolves the time zone. All problems are
// reported together.
func (c *Config) Validate() error {
	var problems []error

	if err := validateSecretKey(c.Server.SecretKey); err != nil {
		problems = append(problems, err)
	}
	if err := validatePort(c.Server.Port); err != nil {
		problems = append(problems, err)
	}

	location, err := time.LoadLocation(strings.TrimSpace(c.Server.TimeZone))
	if err != nil {
		problems = append(problems, fmt.Errorf("invalid TZ %q: %w", c.Server.TimeZone, err))
	} else {
		c.Location = location
	}

	if strings.TrimSpace(c.Database.Path) == "" {
		problems = append(problems, errors.New("DB_PATH must not be empty"))
	}

	if c.TelemetryEnabled() {
		if _, err := telemetry.ParseFieldMap(c.Telemetry.Fields); err != nil {
			problems = append(problems, fmt.Errorf("TELEMETRY_FIELDS: %w", err))
		}
		interval, err := time.ParseDuration(c.Telemetry.PollInterval)
		switch {
		case err != nil:
			problems = append(problems, fmt.Errorf("invalid TELEMETRY_POLL_INTERVAL %q", c.Telemetry.PollInterval))
		case interval < telemetry.MinInterval:
			problems = append(problems, fmt.Errorf("TELEMETRY_POLL_INTERVAL must be at least %s", telemetry.MinInterval))
		}
		if c.Telemetry.Results < 1 || c.Telemetry.Results > 8000 {
			problems = append(problems, errors.New("TELEMETRY_RESULTS must be between 1 and 8000"))
		}
	}

	return errors.Join(problems...)
}

func (c *Config) AdvisorEnabled() bool {
	return strings.TrimSpace(c.Advisor.APIKey) != ""
}

func (c *Config) TelemetryEnabled() bool {
	return strings.TrimSpace(c.Telemetry.ChannelID) != ""
}

// PollInterval returns the validated poll interval.
func (c *Config) PollInterval() time.Duration {
	interval, err := time.ParseDuration(c.Telemetry.PollInterval)
	if err != nil {
		return telemetry.DefaultInterval
	}
	return interval
}

func (c *Config) TelemetryFields() map[string]int {
	fields, err := telemetry.ParseFieldMap(c.Telemetry.Fields)
	if err != nil {
		return nil
	}
	return fields
}

func validateSecretKey(secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return nil
}

func validatePort(raw string) error {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", raw)
	}
	return nil
}

func overrideString(key string, target *string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}

func overrideBool(key string, target *bool) error {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q", key, value)
	}
	*target = parsed
	return nil
}

func overrideInt(key string, target *int) error {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q", key, value)
	}
	*target = parsed
	return nil
}
