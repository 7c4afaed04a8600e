package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // DISPLAY_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
)

// EnvProduction is the APP_ENV value that hides debug-only output.
const EnvProduction = "production"

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Backend API
	Backend         Backend        `json:"backend"`
	CacheRevalidate time.Duration  `json:"cache_revalidate"`
	BooksReaderURL  string         `json:"books_reader_url"`
	PageTitle       string         `json:"page_title"`
	DisplayTimezone string         `json:"display_timezone"`
	DisplayLocation *time.Location `json:"-"`

	// Redis configuration
	RedisURL    string `json:"redis_url"`
	RedisPrefix string `json:"redis_prefix"`

	// CloudFlare R2 Configuration
	R2Endpoint  string `json:"r2_endpoint"`
	R2AccessKey string `json:"r2_access_key"`
	R2SecretKey string `json:"r2_secret_key"`
	R2Bucket    string `json:"r2_bucket"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Security
	AdminAPIKey string `json:"admin_api_key"`
}

// Load loads configuration from the .env file and environment variables and validates it
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds the configuration from an arbitrary key/value source.
func FromLookup(lookup LookupFunc) (*Config, error) {
	env := envReader{lookup: lookup}

	cfg := &Config{
		// Server configuration
		Port:            env.get("PORT", "3000"),
		Env:             env.get("APP_ENV", "development"),
		ShutdownTimeout: env.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     env.duration("HTTP_TIMEOUT", 30*time.Second),

		// Backend API
		CacheRevalidate: env.duration("FEED_CACHE_REVALIDATE", 0),
		BooksReaderURL:  env.get("BOOKS_READER_URL", "http://localhost:3001"),
		PageTitle:       env.get("PAGE_TITLE", "CK's Curated Feed"),
		DisplayTimezone: env.get("DISPLAY_TIMEZONE", "UTC"),

		// Redis configuration
		RedisURL:    env.get("REDIS_URL", ""),
		RedisPrefix: env.get("REDIS_PREFIX", "feedview:"),

		// CloudFlare R2 Configuration
		R2Endpoint:  env.get("R2_ENDPOINT", ""),
		R2AccessKey: env.get("R2_ACCESS_KEY", ""),
		R2SecretKey: env.get("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    env.get("R2_BUCKET", "feedview"),

		// Logging
		LogLevel: env.get("LOG_LEVEL", "info"),
		LogFile:  env.get("LOG_FILE", ""),

		// Security
		AdminAPIKey: env.get("ADMIN_API_KEY", ""),
	}

	policy, err := ParsePolicy(env.get("BACKEND_URL_POLICY", ""), cfg.Env)
	if err != nil {
		return nil, err
	}
	cfg.Backend = ResolveBackend(lookup, policy)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.CacheRevalidate < 0 {
		return fmt.Errorf("FEED_CACHE_REVALIDATE must not be negative, got %v", c.CacheRevalidate)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.HTTPTimeout)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric: %w", err)
	}

	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return fmt.Errorf("unknown DISPLAY_TIMEZONE %q: %w", c.DisplayTimezone, err)
	}
	c.DisplayLocation = loc

	return nil
}

// IsProduction reports whether debug-only output must be suppressed.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// R2Enabled reports whether snapshot publishing has credentials to work with.
func (c *Config) R2Enabled() bool {
	return c.R2Endpoint != "" && c.R2AccessKey != "" && c.R2SecretKey != ""
}

// envReader mirrors the getEnv helpers over a pluggable lookup
type envReader struct {
	lookup LookupFunc
}

func (e envReader) get(key, defaultValue string) string {
	if value, exists := e.lookup(key); exists {
		return value
	}
	return defaultValue
}

func (e envReader) duration(name string, defaultVal time.Duration) time.Duration {
	valueStr := e.get(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		// bare numbers are seconds
		if secs, convErr := strconv.Atoi(valueStr); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
