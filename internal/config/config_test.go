package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"
  allowed_origins:
    - "https://ceirr.example.org"

source:
  type: "sheet"
  sheet_id: "abc123"
  timeout_seconds: 45
  max_retries: 2

access:
  password: "letmein"

report:
  title: "Custom Title"

logging:
  level: "debug"
  redact_secrets: false
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"https://ceirr.example.org"}, cfg.Server.AllowedOrigins)

	assert.Equal(t, SourceSheet, cfg.Source.Type)
	assert.Equal(t, "abc123", cfg.Source.SheetID)
	assert.Equal(t, 45, cfg.Source.TimeoutSeconds)
	assert.Equal(t, 2, cfg.Source.MaxRetries)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc123/gviz/tq?tqx=out:csv", cfg.Source.ExportURL())

	assert.Equal(t, "letmein", cfg.Access.Password)
	assert.Equal(t, "Custom Title", cfg.Report.Title)
	assert.Equal(t, "Today_Samples", cfg.Report.SheetName)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Redact())
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("source:\n  sheet_id: x\n"), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, SourceSheet, cfg.Source.Type)
	assert.Equal(t, 30, cfg.Source.TimeoutSeconds)
	assert.Equal(t, 0, cfg.Source.MaxRetries)
	assert.Equal(t, DefaultSheetURLPattern, cfg.Source.URLPattern)
	assert.Equal(t, "us-east-1", cfg.Source.AWSRegion)
	assert.Equal(t, "CEIRR Daily Sample Collection Summary", cfg.Report.Title)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Redact())
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644)
	require.NoError(t, err)

	_, err = Load(configPath)
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte("source:\n  sheet_id: from-file\naccess:\n  password: file-secret\n"), 0644)
	require.NoError(t, err)

	t.Setenv("CEIRR_SHEET_ID", "from-env")
	t.Setenv("CEIRR_ACCESS_PASSWORD", "env-secret")
	t.Setenv("PORT", "9999")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv(configPath)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Source.SheetID)
	assert.Equal(t, "env-secret", cfg.Access.Password)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromEnvMissingFile(t *testing.T) {
	t.Setenv("CEIRR_SHEET_ID", "only-env")
	t.Setenv("CEIRR_ACCESS_PASSWORD", "pw")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "only-env", cfg.Source.SheetID)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sheet ok", Config{Source: SourceConfig{Type: SourceSheet, SheetID: "id"}, Access: AccessConfig{Password: "pw"}}, false},
		{"sheet missing id", Config{Source: SourceConfig{Type: SourceSheet}, Access: AccessConfig{Password: "pw"}}, true},
		{"s3 ok", Config{Source: SourceConfig{Type: SourceS3, S3Bucket: "b", S3Key: "k.csv"}, Access: AccessConfig{Password: "pw"}}, false},
		{"s3 missing key", Config{Source: SourceConfig{Type: SourceS3, S3Bucket: "b"}, Access: AccessConfig{Password: "pw"}}, true},
		{"unknown type", Config{Source: SourceConfig{Type: "ftp"}, Access: AccessConfig{Password: "pw"}}, true},
		{"missing password", Config{Source: SourceConfig{Type: SourceSheet, SheetID: "id"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	t.Setenv("ECS_CONTAINER_METADATA_URI", "")
	t.Setenv("AWS_EXECUTION_ENV", "")
	t.Setenv("SERVER_HOST", "")

	c := ServerConfig{Host: "127.0.0.1", Port: 8081}
	assert.Equal(t, "127.0.0.1:8081", c.Addr())

	t.Setenv("SERVER_HOST", "10.0.0.5")
	assert.Equal(t, "10.0.0.5:8081", c.Addr())
}
