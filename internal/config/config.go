package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"

	"library-backend/internal/infrastructure/database"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config is the whole application configuration, read from the
// environment once at startup.
type Config struct {
	App       AppConfig
	Database  database.DBConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig

	// AutoMigrate applies the embedded migrations before serving.
	AutoMigrate bool
}

type AppConfig struct {
	Name        string
	Environment string // development, production, test
	Port        string
	Version     string
	CORSOrigin  string // "*" or a single origin
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// RateLimitConfig holds request budgets per client IP and Window.
type RateLimitConfig struct {
	Max     int
	AuthMax int
	Window  time.Duration
}

func (c *Config) IsDevelopment() bool { return c.App.Environment == EnvDevelopment }

// Load reads .env (or .env.test when APP_ENV=test) into the process
// environment, builds the Config and validates it. Variables already set
// in the environment win over the file.
func Load() (*Config, error) {
	envFile := ".env"
	if os.Getenv("APP_ENV") == EnvTest {
		envFile = ".env.test"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	return FromEnv()
}

// FromEnv builds the Config from the current environment only.
func FromEnv() (*Config, error) {
	r := &envReader{errs: validation.Errors{}}

	cfg := &Config{
		App: AppConfig{
			Name:        r.str("APP_NAME", "Library API"),
			Environment: r.str("APP_ENV", EnvDevelopment),
			Port:        r.str("PORT", "3000"),
			Version:     r.str("APP_VERSION", "v1"),
			CORSOrigin:  r.str("CORS_ORIGIN", "*"),
		},
		Database: loadDatabaseConfig(r),
		JWT: JWTConfig{
			Secret: r.str("JWT_SECRET", ""),
			Expiry: 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Max:     r.int("RATE_LIMIT_MAX", 100),
			AuthMax: r.int("AUTH_RATE_LIMIT_MAX", 10),
			Window:  15 * time.Minute,
		},
		AutoMigrate: r.bool("DB_AUTO_MIGRATE", true),
	}

	if err := cfg.Validate(); err != nil {
		var vErrs validation.Errors
		if errors.As(err, &vErrs) {
			for k, v := range vErrs {
				if _, seen := r.errs[k]; !seen {
					r.errs[k] = v
				}
			}
		} else {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	if err := r.errs.Filter(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate reports every invalid setting at once, keyed by variable name.
func (c *Config) Validate() error {
	return validation.Errors{
		"APP_ENV":             validation.Validate(c.App.Environment, validation.Required, validation.In(EnvDevelopment, EnvProduction, EnvTest)),
		"PORT":                validation.Validate(c.App.Port, validation.Required, is.Port),
		"DATABASE_URL":        validation.Validate(c.Database.URL, validation.Required),
		"JWT_SECRET":          validation.Validate(c.JWT.Secret, validation.Required),
		"RATE_LIMIT_MAX":      validation.Validate(c.RateLimit.Max, validation.Min(1)),
		"AUTH_RATE_LIMIT_MAX": validation.Validate(c.RateLimit.AuthMax, validation.Min(1)),
		"DB_MAX_CONNS":        validation.Validate(c.Database.MaxConns, validation.Min(int32(0))),
		"DB_MIN_CONNS":        validation.Validate(c.Database.MinConns, validation.Min(int32(0))),
	}.Filter()
}

// envReader reads typed variables and remembers which ones failed to parse.
type envReader struct {
	errs validation.Errors
}

func (r *envReader) str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (r *envReader) int(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.errs[key] = errors.New("must be an integer")
		return def
	}
	return v
}

func (r *envReader) bool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		r.errs[key] = errors.New("must be a boolean")
		return def
	}
	return v
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		r.errs[key] = errors.New("must be a duration such as 5s or 1m")
		return def
	}
	return v
}
