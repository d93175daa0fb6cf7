package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"server"}, args...)
}

func TestLoadConfig_Defaults(t *testing.T) {
	withArgs(t)

	cfg := LoadConfig()
	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, 15*time.Minute, cfg.PresignExpiry)
	assert.Equal(t, "product-media", cfg.S3Bucket)
}

func TestLoadConfig_Flags(t *testing.T) {
	withArgs(t, "-a", ":9090", "-b", "media", "-x", "5")

	cfg := LoadConfig()
	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, "media", cfg.S3Bucket)
	assert.Equal(t, 5*time.Minute, cfg.PresignExpiry)
}

func TestLoadConfig_Json(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"endpoint_addr": ":7070",
		"database_dsn": "postgres://u:p@h:5432/db",
		"presign_expiry": "20m",
		"s3_root_user": "root",
		"s3_root_password": "pw",
		"s3_bucket": "b",
		"s3_region": "r",
		"s3_base_endpoint": "http://s3:9000/",
		"public_base_url": "http://cdn"
	}`), 0o600))

	withArgs(t, "-c", path)

	cfg := LoadConfig()
	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, 20*time.Minute, cfg.PresignExpiry)
	assert.Equal(t, "http://cdn", cfg.PublicBaseURL)
}
