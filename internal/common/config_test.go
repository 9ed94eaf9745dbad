package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	config := NewDefaultConfig()
	require.NoError(t, config.Validate())

	assert.Equal(t, 8180, config.Server.Port)
	assert.Equal(t, "http://localhost:8000", config.Backend.BaseURL)
	assert.Equal(t, 10, config.Documents.MaxFileSizeMB)
	assert.Equal(t, int64(10*1024*1024), config.Documents.MaxFileBytes())
	assert.Equal(t, 4*time.Second, config.Documents.Interval())
	assert.Equal(t, 24*time.Hour, config.Sessions.TTL())
	assert.Equal(t, 30*time.Second, config.Backend.RequestTimeout())
}

func TestFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rogo.toml")
	content := `
environment = "production"

[server]
port = 9000

[backend]
base_url = "http://backend.internal:8000"
timeout = "5s"

[documents]
max_file_size_mb = 20
strict_pdf_check = true

[sessions]
retention_ttl = "0"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, config.Server.Port)
	assert.Equal(t, "http://backend.internal:8000", config.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, config.Backend.RequestTimeout())
	assert.Equal(t, 20, config.Documents.MaxFileSizeMB)
	assert.True(t, config.Documents.StrictPDFCheck)
	assert.Zero(t, config.Sessions.TTL(), "retention disabled")
	assert.True(t, config.IsProduction())

	// Untouched sections keep their defaults
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, "4s", config.Documents.PollInterval)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rogo.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 9000\n"), 0644))

	t.Setenv("ROGO_SERVER_PORT", "9100")
	t.Setenv("ROGO_BACKEND_URL", "http://env-backend:8000")
	t.Setenv("ROGO_MAX_FILE_SIZE_MB", "5")

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, config.Server.Port)
	assert.Equal(t, "http://env-backend:8000", config.Backend.BaseURL)
	assert.Equal(t, 5, config.Documents.MaxFileSizeMB)
}

func TestFlagOverridesAreHighestPriority(t *testing.T) {
	config := NewDefaultConfig()
	ApplyFlagOverrides(config, 9999, "0.0.0.0", "http://flag-backend:8000")

	assert.Equal(t, 9999, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, "http://flag-backend:8000", config.Backend.BaseURL)

	// Zero values leave config untouched
	ApplyFlagOverrides(config, 0, "", "")
	assert.Equal(t, 9999, config.Server.Port)
}

func TestInvalidBackendURLRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rogo.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backend]\nbase_url = \"not a url\"\n"), 0644))

	_, err := LoadFromFiles(path)
	assert.Error(t, err)
}

func TestMissingConfigFileFails(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestBadDurationFallsBack(t *testing.T) {
	docs := DocumentsConfig{MaxFileSizeMB: 10, PollInterval: "not-a-duration"}
	assert.Equal(t, 4*time.Second, docs.Interval())

	sessions := SessionsConfig{RetentionTTL: "garbage"}
	assert.Zero(t, sessions.TTL())
}
