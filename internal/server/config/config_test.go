package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, "secretKey", cfg.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.TokenValidityDuration)
	assert.Empty(t, cfg.AnchorSeed)
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	b, err := json.Marshal(data)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_OverridesDefaults(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"endpoint_addr":           ":9090",
		"database_dsn":            "postgres://u:p@db:5432/x",
		"secret_key":              "other",
		"token_validity_duration": "30m",
		"s3_bucket":               "docs",
	})

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DatabaseDSN)
	assert.Equal(t, "other", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.TokenValidityDuration)
	assert.Equal(t, "docs", cfg.S3Bucket)
	// untouched keys keep their defaults
	assert.Equal(t, "admin", cfg.S3RootUser)
}

func Test_parseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-a", ":7070", "-s", "flagsecret", "-t", "5", "-k", "aabb"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, "flagsecret", cfg.SecretKey)
	assert.Equal(t, 5*time.Minute, cfg.TokenValidityDuration)
	assert.Equal(t, "aabb", cfg.AnchorSeed)
}
