package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source types
const (
	SourceSheet = "sheet"
	SourceS3    = "s3"
)

// DefaultSheetURLPattern is the CSV export endpoint for a Google Sheet.
const DefaultSheetURLPattern = "https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:csv"

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Source  SourceConfig  `yaml:"source"`
	Access  AccessConfig  `yaml:"access"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
	// Origins allowed to call /api from a browser. Empty disables CORS.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// Addr returns host:port for http.Server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetHost(), c.Port)
}

// SourceConfig describes where the sample collection sheet is read from.
type SourceConfig struct {
	Type           string `yaml:"type"` // "sheet" or "s3"
	SheetID        string `yaml:"sheet_id"`
	URLPattern     string `yaml:"url_pattern"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"` // 0 = single attempt
	// Service account JSON for sheets that are not link-shared.
	GoogleCredentialsFile string `yaml:"google_credentials_file"`

	S3Bucket   string `yaml:"s3_bucket"`
	S3Key      string `yaml:"s3_key"`
	AWSRegion  string `yaml:"aws_region"`
	AWSProfile string `yaml:"aws_profile"` // Empty string uses default credential chain
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
}

// Timeout returns the configured fetch timeout as a duration
func (c SourceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ExportURL returns the CSV export URL for the configured sheet.
func (c SourceConfig) ExportURL() string {
	pattern := c.URLPattern
	if pattern == "" {
		pattern = DefaultSheetURLPattern
	}
	return fmt.Sprintf(pattern, c.SheetID)
}

// AccessConfig holds the shared secret that gates the dashboard.
type AccessConfig struct {
	Password string `yaml:"password"`
}

// ReportConfig holds workbook presentation settings.
type ReportConfig struct {
	Title     string `yaml:"title"`
	SheetName string `yaml:"sheet_name"`
}

// LoggingConfig holds structured logger settings.
type LoggingConfig struct {
	Level         string `yaml:"level"` // debug, info, warn, error
	RedactSecrets *bool  `yaml:"redact_secrets"`
}

// Redact reports whether secret-looking log fields are masked (default true).
func (c LoggingConfig) Redact() bool {
	return c.RedactSecrets == nil || *c.RedactSecrets
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Source.Type == "" {
		cfg.Source.Type = SourceSheet
	}
	if cfg.Source.URLPattern == "" {
		cfg.Source.URLPattern = DefaultSheetURLPattern
	}
	if cfg.Source.TimeoutSeconds == 0 {
		cfg.Source.TimeoutSeconds = 30
	}
	if cfg.Source.AWSRegion == "" {
		cfg.Source.AWSRegion = "us-east-1"
	}
	if cfg.Report.Title == "" {
		cfg.Report.Title = "CEIRR Daily Sample Collection Summary"
	}
	if cfg.Report.SheetName == "" {
		cfg.Report.SheetName = "Today_Samples"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so the
// access password can live in .env locally and in real env vars when deployed.
// A missing config file is not an error here: defaults plus env are enough
// to run against a link-shared sheet.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
		cfg.applyDefaults()
	}

	if v := os.Getenv("CEIRR_SOURCE_TYPE"); v != "" {
		cfg.Source.Type = v
	}
	if v := os.Getenv("CEIRR_SHEET_ID"); v != "" {
		cfg.Source.SheetID = v
	}
	if v := os.Getenv("CEIRR_S3_BUCKET"); v != "" {
		cfg.Source.S3Bucket = v
	}
	if v := os.Getenv("CEIRR_S3_KEY"); v != "" {
		cfg.Source.S3Key = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Source.AWSRegion = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		cfg.Source.GoogleCredentialsFile = v
	}
	if v := os.Getenv("CEIRR_ACCESS_PASSWORD"); v != "" {
		cfg.Access.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	return cfg, nil
}

// Validate reports configuration that would make every request fail.
func (cfg *Config) Validate() error {
	var errs []error
	switch cfg.Source.Type {
	case SourceSheet:
		if cfg.Source.SheetID == "" {
			errs = append(errs, errors.New("source.sheet_id is required for sheet sources"))
		}
	case SourceS3:
		if cfg.Source.S3Bucket == "" || cfg.Source.S3Key == "" {
			errs = append(errs, errors.New("source.s3_bucket and source.s3_key are required for s3 sources"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source.type %q", cfg.Source.Type))
	}
	if cfg.Access.Password == "" {
		errs = append(errs, errors.New("access.password is required"))
	}
	return errors.Join(errs...)
}
