package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultCurrency       = "EUR"
	DefaultBillableStatus = "4,5,6"
	DefaultWindowDays     = 365
	DefaultRowCount       = 2000
	DefaultTimeout        = 30 * time.Second
	DefaultConcurrency    = 8
	DefaultRPS            = 10.0
)

var (
	ErrMissingHost         = errors.New("HOST is required")
	ErrMissingProjectID    = errors.New("PROJECT_ID is required")
	ErrMissingClientID     = errors.New("CLIENT_ID is required")
	ErrMissingClientSecret = errors.New("CLIENT_SECRET is required")
)

// Config is built once at startup and passed by value to every component.
type Config struct {
	API         APIConfig
	Concurrency int
	Output      OutputConfig
	Log         LogConfig
}

type APIConfig struct {
	Host         string
	ProjectID    string
	ClientID     string
	ClientSecret string
	Currency     string

	// BillableStatus is passed through to the server as is.
	BillableStatus    string
	WindowDays        int
	RowCount          int
	Timeout           time.Duration
	RequestsPerSecond float64
}

type OutputConfig struct {
	Directory string
	Format    []string // json, csv, xlsx
}

type LogConfig struct {
	Level  string
	Format string // text, json
}

// LoadFromEnv reads the process environment, loading .env first when present.
func LoadFromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, which behaves like os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		API: APIConfig{
			Host:           get("HOST", ""),
			ProjectID:      get("PROJECT_ID", ""),
			ClientID:       get("CLIENT_ID", ""),
			ClientSecret:   get("CLIENT_SECRET", ""),
			Currency:       get("CURRENCY", DefaultCurrency),
			BillableStatus: get("BILLABLE_STATUS", DefaultBillableStatus),
		},
		Output: OutputConfig{
			Directory: get("OUTPUT_DIR", "reports"),
			Format:    ParseList(get("OUTPUT_FORMAT", "")),
		},
		Log: LogConfig{
			Level:  get("LOG_LEVEL", "info"),
			Format: get("LOG_FORMAT", "text"),
		},
	}

	var err error
	if cfg.API.WindowDays, err = atoi(get("WINDOW_DAYS", ""), DefaultWindowDays); err != nil {
		return Config{}, fmt.Errorf("invalid WINDOW_DAYS: %w", err)
	}
	if cfg.API.RowCount, err = atoi(get("ROW_COUNT", ""), DefaultRowCount); err != nil {
		return Config{}, fmt.Errorf("invalid ROW_COUNT: %w", err)
	}
	if cfg.Concurrency, err = atoi(get("MAX_CONCURRENCY", ""), DefaultConcurrency); err != nil {
		return Config{}, fmt.Errorf("invalid MAX_CONCURRENCY: %w", err)
	}

	cfg.API.Timeout = DefaultTimeout
	if v := get("REQUEST_TIMEOUT", ""); v != "" {
		if cfg.API.Timeout, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
		}
	}

	cfg.API.RequestsPerSecond = DefaultRPS
	if v := get("REQUESTS_PER_SECOND", ""); v != "" {
		if cfg.API.RequestsPerSecond, err = strconv.ParseFloat(v, 64); err != nil {
			return Config{}, fmt.Errorf("invalid REQUESTS_PER_SECOND: %w", err)
		}
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.API.Host == "" {
		errs = append(errs, ErrMissingHost)
	}
	if c.API.ProjectID == "" {
		errs = append(errs, ErrMissingProjectID)
	}
	if c.API.ClientID == "" {
		errs = append(errs, ErrMissingClientID)
	}
	if c.API.ClientSecret == "" {
		errs = append(errs, ErrMissingClientSecret)
	}
	if c.API.WindowDays <= 0 {
		errs = append(errs, fmt.Errorf("window days must be positive, got %d", c.API.WindowDays))
	}
	if c.API.RowCount <= 0 {
		errs = append(errs, fmt.Errorf("row count must be positive, got %d", c.API.RowCount))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.API.Timeout))
	}
	for _, f := range c.Output.Format {
		switch f {
		case "json", "csv", "xlsx":
		default:
			errs = append(errs, fmt.Errorf("unknown output format %q", f))
		}
	}
	return errors.Join(errs...)
}

// ParseList splits a comma-separated string, trimming and dropping empty items.
func ParseList(input string) []string {
	var result []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func atoi(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
