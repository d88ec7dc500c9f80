package config

import (
	"fmt"
	"os"
	"time"
)

// Defaults point at the public DWD open-data server.
const (
	defaultDailyBaseURL   = "https://opendata.dwd.de/climate_environment/CDC/observations_germany/climate/daily/kl/historical/"
	defaultMonthlyBaseURL = "https://opendata.dwd.de/climate_environment/CDC/observations_germany/climate/monthly/kl/historical/"
	defaultStationsFile   = "data/stations.csv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DailyBaseURL   string
	MonthlyBaseURL string
	StationsFile   string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// FetchTimeout bounds each request against the DWD server.
	FetchTimeout time.Duration

	// CacheTTL is how long memoized lookups stay fresh. Zero means cache
	// for the process lifetime.
	CacheTTL time.Duration

	// FetchMonthly additionally resolves and loads the monthly-granularity
	// archive for each requested station.
	FetchMonthly bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseOptionalDuration("CACHE_TTL", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DailyBaseURL:    envOrDefault("DWD_DAILY_BASE_URL", defaultDailyBaseURL),
		MonthlyBaseURL:  envOrDefault("DWD_MONTHLY_BASE_URL", defaultMonthlyBaseURL),
		StationsFile:    envOrDefault("STATIONS_FILE", defaultStationsFile),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		FetchTimeout:    fetchTimeout,
		CacheTTL:        cacheTTL,
		FetchMonthly:    os.Getenv("FETCH_MONTHLY") == "true",
	}

	if cfg.DailyBaseURL == "" {
		return nil, fmt.Errorf("DWD_DAILY_BASE_URL is required")
	}
	if cfg.FetchMonthly && cfg.MonthlyBaseURL == "" {
		return nil, fmt.Errorf("FETCH_MONTHLY is true but DWD_MONTHLY_BASE_URL is not set")
	}
	if cfg.StationsFile == "" {
		return nil, fmt.Errorf("STATIONS_FILE is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseDuration reads a positive duration from the environment.
func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

// parseOptionalDuration also accepts zero, meaning "disabled".
func parseOptionalDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}
