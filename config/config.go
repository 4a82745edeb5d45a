// Package config loads the portal configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Student deletion policies.
const (
	DeletePolicyKeep    = "keep"
	DeletePolicyCascade = "cascade"
	DeletePolicyReject  = "reject"
)

// Record id strategies.
const (
	IDStrategyUUID     = "uuid"
	IDStrategySequence = "sequence"
)

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// Authentication
	Auth AuthConfig

	// Stores
	Store StoreConfig

	// Observability
	Observability ObservabilityConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Version     string
}

// AuthConfig holds login settings.
type AuthConfig struct {
	// DemoMode accepts SharedSecret for every directory identity and enables
	// demo user selection. Never allowed in production.
	DemoMode     bool
	SharedSecret string

	// PasswordHashes maps usernames to bcrypt hashes when demo mode is off.
	// Format: "user:hash,user:hash".
	PasswordHashes map[string]string

	// LoginDelay simulates the credential round trip.
	LoginDelay time.Duration

	// BcryptCost is used when hashing the shared secret (0 = library default).
	BcryptCost int
}

// StoreConfig holds store settings.
type StoreConfig struct {
	SeedFixtures        bool
	ActivityPreview     int    // feed entries shown on dashboards
	IDStrategy          string // uuid, sequence
	StudentDeletePolicy string // keep, cascade, reject
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel       string // debug, info, warn, error
	MetricsEnabled bool

	// MetricsAddr is the listen address of the /metrics endpoint. Empty
	// disables the endpoint; collectors still run.
	MetricsAddr string
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func Load(dotEnvPaths ...string) (*Config, error) {
	if err := loadDotEnv(dotEnvPaths...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := &Config{
		App:           loadAppConfig(),
		Auth:          loadAuthConfig(),
		Store:         loadStoreConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func loadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func loadAppConfig() AppConfig {
	return AppConfig{
		Name:        getEnv("APP_NAME", "educrm-hub"),
		Environment: Environment(getEnv("APP_ENV", string(EnvDevelopment))),
		Version:     getEnv("APP_VERSION", "0.1.0"),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		DemoMode:       getEnvBool("AUTH_DEMO_MODE", true),
		SharedSecret:   getEnv("AUTH_SHARED_SECRET", "password"),
		PasswordHashes: getEnvMap("AUTH_PASSWORD_HASHES"),
		LoginDelay:     getEnvDuration("AUTH_LOGIN_DELAY", time.Second),
		BcryptCost:     getEnvInt("AUTH_BCRYPT_COST", 0),
	}
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		SeedFixtures:        getEnvBool("STORE_SEED_FIXTURES", true),
		ActivityPreview:     getEnvInt("STORE_ACTIVITY_PREVIEW", 6),
		IDStrategy:          getEnv("STORE_ID_STRATEGY", IDStrategyUUID),
		StudentDeletePolicy: getEnv("STORE_STUDENT_DELETE_POLICY", DeletePolicyKeep),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		MetricsAddr:    getEnv("METRICS_ADDR", ""),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.Auth.DemoMode {
		if c.App.Environment == EnvProduction {
			errs = append(errs, "AUTH_DEMO_MODE must be off in production")
		}
		if c.Auth.SharedSecret == "" {
			errs = append(errs, "AUTH_SHARED_SECRET is required in demo mode")
		}
	}

	if c.Auth.LoginDelay < 0 {
		errs = append(errs, "AUTH_LOGIN_DELAY cannot be negative")
	}

	if c.Store.ActivityPreview < 1 {
		errs = append(errs, "STORE_ACTIVITY_PREVIEW must be at least 1")
	}

	switch c.Store.IDStrategy {
	case IDStrategyUUID, IDStrategySequence:
	default:
		errs = append(errs, fmt.Sprintf("STORE_ID_STRATEGY %q is not one of uuid, sequence", c.Store.IDStrategy))
	}

	switch c.Store.StudentDeletePolicy {
	case DeletePolicyKeep, DeletePolicyCascade, DeletePolicyReject:
	default:
		errs = append(errs, fmt.Sprintf("STORE_STUDENT_DELETE_POLICY %q is not one of keep, cascade, reject", c.Store.StudentDeletePolicy))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

// getEnvMap parses "k:v,k:v". Malformed pairs are skipped.
func getEnvMap(key string) map[string]string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}

	result := make(map[string]string)
	for _, pair := range strings.Split(val, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || k == "" || v == "" {
			continue
		}
		result[k] = v
	}
	return result
}
