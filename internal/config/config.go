// Package config loads the backoffice configuration.
//
// Values come from three layers, each overriding the last: built-in
// defaults, an optional YAML file, then environment variables. The result is
// checked by Validate before the server starts.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	Production  Environment = "production"
)

// Cache backends.
const (
	CacheRedis  = "redis"
	CacheSQLite = "sqlite"
)

// Log formats. Auto picks text on a terminal and JSON otherwise.
const (
	LogFormatAuto = "auto"
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// minCookiePasswordLength is the shortest cookie signing secret accepted.
const minCookiePasswordLength = 32

// Config is the complete backoffice configuration.
type Config struct {
	Name        string      `yaml:"name"`
	Version     string      `yaml:"version"`
	Environment Environment `yaml:"environment"`
	Port        int         `yaml:"port"`
	// ServiceURI is the public base URL of this service.
	ServiceURI      string   `yaml:"service_uri"`
	DisplayPageSize int      `yaml:"display_page_size"`
	SuperAdmins     []string `yaml:"super_admins"`

	Backend BackendConfig `yaml:"backend"`
	Auth    AuthConfig    `yaml:"auth"`
	Cookie  CookieConfig  `yaml:"cookie"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// BackendConfig locates the backend services.
type BackendConfig struct {
	ApplicationAPIURL    string        `yaml:"application_api_url"`
	PaymentProxyURL      string        `yaml:"payment_proxy_url"`
	MessageGeneratorURL  string        `yaml:"message_generator_url"`
	DocumentGeneratorURL string        `yaml:"document_generator_url"`
	CommsProxyURL        string        `yaml:"comms_proxy_url"`
	APIKey               string        `yaml:"api_key"`
	Timeout              time.Duration `yaml:"timeout"`
}

// AuthConfig configures sign-in.
type AuthConfig struct {
	// Enabled selects OpenID Connect. When false the dev strategy is used.
	Enabled bool `yaml:"enabled"`
	// PerfTestEnabled allows administrators to switch strategy at runtime.
	PerfTestEnabled bool   `yaml:"perf_test_enabled"`
	AuthorityURL    string `yaml:"authority_url"`
	ClientID        string `yaml:"client_id"`
	ClientSecret    string `yaml:"client_secret"`
	RedirectURL     string `yaml:"redirect_url"`
	DevEmailDomain  string `yaml:"dev_email_domain"`
}

// CookieConfig configures the session cookie.
type CookieConfig struct {
	Name     string        `yaml:"name"`
	Password string        `yaml:"password"`
	Secure   bool          `yaml:"secure"`
	TTL      time.Duration `yaml:"ttl"`
}

// CacheConfig configures the session and submission cache.
type CacheConfig struct {
	Backend    string        `yaml:"backend"`
	ExpiresIn  time.Duration `yaml:"expires_in"`
	CrumbTTL   time.Duration `yaml:"crumb_ttl"`
	RedisURL   string        `yaml:"redis_url"`
	KeyPrefix  string        `yaml:"key_prefix"`
	SQLitePath string        `yaml:"sqlite_path"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string   `yaml:"level"`
	Format string   `yaml:"format"`
	Redact []string `yaml:"redact"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Name:            "ahwr-backoffice-ui",
		Environment:     Development,
		Port:            3000,
		ServiceURI:      "http://localhost:3000",
		DisplayPageSize: 20,
		Backend: BackendConfig{
			Timeout: 30 * time.Second,
		},
		Auth: AuthConfig{
			DevEmailDomain: "defra.gov.uk",
		},
		Cookie: CookieConfig{
			Name: "ffc_ahwr_backoffice_session",
			TTL:  12 * time.Hour,
		},
		Cache: CacheConfig{
			Backend:   CacheRedis,
			ExpiresIn: 12 * time.Hour,
			CrumbTTL:  24 * time.Hour,
			RedisURL:  "redis://localhost:6379/0",
			KeyPrefix: "ahwr-backoffice-ui",
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatAuto,
			Redact: []string{"req.headers", "res.headers", "authorization", "cookie"},
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (when
// path is non-empty) and the process environment.
func Load(path string) (*Config, error) {
	return LoadWith(path, os.LookupEnv)
}

// LoadWith is Load with an explicit environment lookup.
func LoadWith(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(env{lookup: lookup}); err != nil {
		return nil, err
	}
	cfg.applyEnvironmentDefaults()
	return cfg, nil
}

// env reads typed overrides and collects parse failures.
type env struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *env) str(key string, dst *string) {
	if v, ok := e.lookup(key); ok && v != "" {
		*dst = v
	}
}

func (e *env) boolean(key string, dst *bool) {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = b
}

func (e *env) integer(key string, dst *int) {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = n
}

func (e *env) duration(key string, dst *time.Duration) {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = d
}

func (e *env) list(key string, dst *[]string) {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return
	}
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	*dst = items
}

func (c *Config) applyEnv(e env) error {
	var environment string
	e.str("NODE_ENV", &environment)
	e.str("ENVIRONMENT", &environment)
	if environment != "" {
		c.Environment = Environment(environment)
	}

	e.str("SERVICE_NAME", &c.Name)
	e.str("SERVICE_VERSION", &c.Version)
	e.integer("PORT", &c.Port)
	e.str("AHWR_SERVICE_URI", &c.ServiceURI)
	e.integer("DISPLAY_PAGE_SIZE", &c.DisplayPageSize)
	e.list("SUPER_ADMINS", &c.SuperAdmins)

	e.str("AHWR_APPLICATION_BACKEND_URL", &c.Backend.ApplicationAPIURL)
	e.str("AHWR_PAYMENT_PROXY_URL", &c.Backend.PaymentProxyURL)
	e.str("AHWR_MESSAGE_GENERATOR_URL", &c.Backend.MessageGeneratorURL)
	e.str("AHWR_DOCUMENT_GENERATOR_URL", &c.Backend.DocumentGeneratorURL)
	e.str("AHWR_COMMS_PROXY_URL", &c.Backend.CommsProxyURL)
	e.str("API_KEY", &c.Backend.APIKey)
	e.duration("BACKEND_TIMEOUT", &c.Backend.Timeout)

	e.boolean("AADAR_ENABLED", &c.Auth.Enabled)
	e.boolean("PERF_TEST_ENABLED", &c.Auth.PerfTestEnabled)
	e.str("AADAR_AUTHORITY_URL", &c.Auth.AuthorityURL)
	e.str("AADAR_CLIENT_ID", &c.Auth.ClientID)
	e.str("AADAR_CLIENT_SECRET", &c.Auth.ClientSecret)
	e.str("AADAR_REDIRECT_URL", &c.Auth.RedirectURL)

	e.str("COOKIE_PASSWORD", &c.Cookie.Password)

	e.str("CACHE_BACKEND", &c.Cache.Backend)
	e.str("REDIS_URL", &c.Cache.RedisURL)
	e.str("REDIS_KEY_PREFIX", &c.Cache.KeyPrefix)
	e.str("SQLITE_PATH", &c.Cache.SQLitePath)

	e.str("LOG_LEVEL", &c.Log.Level)
	e.str("LOG_FORMAT", &c.Log.Format)
	e.list("LOG_REDACT", &c.Log.Redact)

	e.boolean("METRICS_ENABLED", &c.Metrics.Enabled)

	if len(e.errs) > 0 {
		return fmt.Errorf("invalid environment: %w", errors.Join(e.errs...))
	}
	return nil
}

// applyEnvironmentDefaults sets values that follow from the environment.
func (c *Config) applyEnvironmentDefaults() {
	if c.Environment == Production {
		c.Cookie.Secure = true
	}
	if c.Environment == Test && c.Cache.Backend == CacheRedis && c.Cache.RedisURL == Default().Cache.RedisURL {
		c.Cache.Backend = CacheSQLite
	}
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	switch c.Environment {
	case Development, Test, Production:
	default:
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Port <= 0 {
		errs = append(errs, errors.New("port must be positive"))
	}
	if c.DisplayPageSize <= 0 {
		errs = append(errs, errors.New("display_page_size must be positive"))
	}
	if c.Backend.ApplicationAPIURL == "" {
		errs = append(errs, errors.New("backend.application_api_url is required"))
	}
	if len(c.Cookie.Password) < minCookiePasswordLength {
		errs = append(errs, fmt.Errorf("cookie.password must be at least %d characters", minCookiePasswordLength))
	}

	if c.Auth.Enabled {
		if c.Auth.AuthorityURL == "" {
			errs = append(errs, errors.New("auth.authority_url is required when auth is enabled"))
		}
		if c.Auth.ClientID == "" {
			errs = append(errs, errors.New("auth.client_id is required when auth is enabled"))
		}
		if c.Auth.ClientSecret == "" {
			errs = append(errs, errors.New("auth.client_secret is required when auth is enabled"))
		}
		if c.Auth.RedirectURL == "" {
			errs = append(errs, errors.New("auth.redirect_url is required when auth is enabled"))
		}
	} else if c.IsProduction() {
		errs = append(errs, errors.New("auth must be enabled in production"))
	}

	switch c.Cache.Backend {
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			errs = append(errs, errors.New("cache.redis_url is required for the redis backend"))
		}
	case CacheSQLite:
	default:
		errs = append(errs, fmt.Errorf("invalid cache backend: %s", c.Cache.Backend))
	}

	switch c.Log.Format {
	case LogFormatAuto, LogFormatJSON, LogFormatText:
	default:
		errs = append(errs, fmt.Errorf("invalid log format: %s", c.Log.Format))
	}

	return errors.Join(errs...)
}
