package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Backend     BackendConfig   `toml:"backend"`
	Storage     StorageConfig   `toml:"storage"`
	Documents   DocumentsConfig `toml:"documents"`
	Sessions    SessionsConfig  `toml:"sessions"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig configures the local UI bridge server
type ServerConfig struct {
	Port int    `toml:"port" validate:"gte=0,lte=65535"`
	Host string `toml:"host"`
}

// BackendConfig configures the remote Q&A backend connection
type BackendConfig struct {
	BaseURL   string `toml:"base_url" validate:"required,url"`
	Timeout   string `toml:"timeout"`    // HTTP request timeout, e.g. "30s"
	RateLimit int    `toml:"rate_limit"` // Max requests per second to the backend
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

// DocumentsConfig configures upload validation and status polling
type DocumentsConfig struct {
	MaxFileSizeMB  int    `toml:"max_file_size_mb" validate:"gt=0"` // Upload size ceiling in megabytes
	PollInterval   string `toml:"poll_interval"`                    // Status poll cadence, e.g. "4s"
	StrictPDFCheck bool   `toml:"strict_pdf_check"`                 // Structurally validate PDFs before upload
}

// SessionsConfig configures local session retention
type SessionsConfig struct {
	RetentionTTL  string `toml:"retention_ttl"`  // Idle sessions older than this are swept, "" or "0" disables
	SweepInterval string `toml:"sweep_interval"` // How often the retention sweep runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig returns the configuration defaults.
// Values mirror the backend's own limits (10MB uploads, 24h session TTL).
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8180,
			Host: "localhost",
		},
		Backend: BackendConfig{
			BaseURL:   "http://localhost:8000",
			Timeout:   "30s",
			RateLimit: 10,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/rogo",
			},
		},
		Documents: DocumentsConfig{
			MaxFileSizeMB: 10,
			PollInterval:  "4s",
		},
		Sessions: SessionsConfig{
			RetentionTTL:  "24h",
			SweepInterval: "10m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files, later files
// overriding earlier ones. Priority: env > last file > ... > first file > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ROGO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("ROGO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("ROGO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Backend configuration
	if baseURL := os.Getenv("ROGO_BACKEND_URL"); baseURL != "" {
		config.Backend.BaseURL = baseURL
	}
	if timeout := os.Getenv("ROGO_BACKEND_TIMEOUT"); timeout != "" {
		config.Backend.Timeout = timeout
	}

	// Storage configuration
	if badgerPath := os.Getenv("ROGO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Documents configuration
	if maxSize := os.Getenv("ROGO_MAX_FILE_SIZE_MB"); maxSize != "" {
		if m, err := strconv.Atoi(maxSize); err == nil {
			config.Documents.MaxFileSizeMB = m
		}
	}
	if pollInterval := os.Getenv("ROGO_POLL_INTERVAL"); pollInterval != "" {
		config.Documents.PollInterval = pollInterval
	}

	// Sessions configuration
	if ttl := os.Getenv("ROGO_SESSION_TTL"); ttl != "" {
		config.Sessions.RetentionTTL = ttl
	}

	// Logging configuration
	if level := os.Getenv("ROGO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("ROGO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string, backendURL string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if backendURL != "" {
		config.Backend.BaseURL = backendURL
	}
}

// RequestTimeout returns the parsed backend request timeout
func (c *BackendConfig) RequestTimeout() time.Duration {
	return parseDurationOr(c.Timeout, 30*time.Second)
}

// Interval returns the parsed document status poll interval
func (c *DocumentsConfig) Interval() time.Duration {
	return parseDurationOr(c.PollInterval, 4*time.Second)
}

// MaxFileBytes returns the upload size ceiling in bytes
func (c *DocumentsConfig) MaxFileBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// TTL returns the parsed retention TTL; zero disables the sweep
func (c *SessionsConfig) TTL() time.Duration {
	return parseDurationOr(c.RetentionTTL, 0)
}

// Interval returns the parsed retention sweep interval
func (c *SessionsConfig) Interval() time.Duration {
	return parseDurationOr(c.SweepInterval, 10*time.Minute)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
