// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/taxi-ingest/internal/domain"
)

// DefaultBaseURL is the public TLC trip-data host. Overridable for tests and
// mirrors via TRIP_DATA_BASE_URL.
const DefaultBaseURL = "https://d37ci6vzurychx.cloudfront.net/trip-data"

// Config holds all configuration values for both the one-shot ingest binary
// and the trigger API server. Values are populated by Load from environment
// variables.
type Config struct {
	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// BaseURL is the root of the trip-data file host, without a trailing
	// slash. Defaults to DefaultBaseURL.
	BaseURL string

	// StartDate and EndDate bound the ingest window (end exclusive), parsed
	// from ISO-8601 dates in START_DATE / END_DATE. They are optional at
	// load time: the batch binary requires them via Window(), while the
	// server takes the window from each request instead.
	StartDate time.Time
	EndDate   time.Time

	// TaxiTypes is the ordered list of subtypes to ingest.
	// Set TAXI_TYPES to a comma-separated list; defaults to ["yellow"].
	TaxiTypes []string

	// FetchTimeout is the per-request HTTP timeout. Defaults to 60s.
	FetchTimeout time.Duration

	// FetchConcurrency bounds the number of in-flight month fetches.
	// Defaults to 1, which preserves strictly sequential fetching.
	FetchConcurrency int

	// Port is the TCP port the trigger API server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, and a
// parse error for any malformed optional value.
func Load() (Config, error) {
	cfg := Config{
		BaseURL:   strings.TrimRight(getEnv("TRIP_DATA_BASE_URL", DefaultBaseURL), "/"),
		TaxiTypes: splitCSV(getEnv("TAXI_TYPES", "")),
		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
	if len(cfg.TaxiTypes) == 0 {
		cfg.TaxiTypes = domain.DefaultTaxiTypes()
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.StartDate, err = parseDate("START_DATE"); err != nil {
		return Config{}, err
	}
	if cfg.EndDate, err = parseDate("END_DATE"); err != nil {
		return Config{}, err
	}

	if cfg.FetchTimeout, err = parseDuration("FETCH_TIMEOUT", 60*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.FetchConcurrency, err = parsePositiveInt("FETCH_CONCURRENCY", 1); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Window builds the validated ingest window from StartDate and EndDate.
// Returns domain.ErrValidation when either date is unset, so the batch entry
// point fails before any fetch is attempted.
func (c Config) Window() (domain.Window, error) {
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return domain.Window{}, fmt.Errorf("%w: START_DATE and END_DATE must be set", domain.ErrValidation)
	}
	return domain.NewWindow(c.StartDate, c.EndDate)
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// parseDate parses the named variable as an ISO-8601 calendar date.
// An unset variable yields the zero time without error.
func parseDate(key string) (time.Time, error) {
	v := os.Getenv(key)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date %q (want YYYY-MM-DD): %w", key, v, err)
	}
	return t, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, v, err)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s: invalid value %q (want a positive integer)", key, v)
	}
	return n, nil
}
