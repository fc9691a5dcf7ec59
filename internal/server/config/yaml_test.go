package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  listen: ":8080"
  public_url: "https://drive.example/api"
  max_upload_size: 1048576
  log_level: debug
jwt:
  secret_key: s3cr3t
  expiry: 2h
repository:
  type: postgres
  dsn: postgres://u:p@db/drive
storage:
  type: s3
s3:
  endpoint: http://minio:9000
  region: eu-west-1
  bucket: files
  access_key: ak
  secret_key: sk
`

func writeTempYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_parseYaml(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("loads every section", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", writeTempYAML(t, sampleYAML)}

		var cfg Config
		cfg.LoadDefaults()
		parseYaml(&cfg)

		assert.Equal(t, ":8080", cfg.ListenAddr)
		assert.Equal(t, "https://drive.example/api", cfg.PublicURL)
		assert.Equal(t, int64(1048576), cfg.MaxUploadSize)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "s3cr3t", cfg.SecretKey)
		assert.Equal(t, 2*time.Hour, cfg.AccessTokenValidityDuration)
		assert.Equal(t, RepositoryPostgres, cfg.Repository)
		assert.Equal(t, "postgres://u:p@db/drive", cfg.DatabaseDSN)
		assert.Equal(t, BlobS3, cfg.BlobBackend)
		assert.Equal(t, "uploads", cfg.StorageDir, "unset keys keep defaults")
		assert.Equal(t, "http://minio:9000", cfg.S3BaseEndpoint)
		assert.Equal(t, "eu-west-1", cfg.S3Region)
		assert.Equal(t, "files", cfg.S3Bucket)
		assert.Equal(t, "ak", cfg.S3RootUser)
		assert.Equal(t, "sk", cfg.S3RootPassword)
	})

	t.Run("partial file overrides only what it names", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", writeTempYAML(t, "storage:\n  dir: /srv/blobs\n")}

		var cfg, want Config
		cfg.LoadDefaults()
		want.LoadDefaults()
		want.StorageDir = "/srv/blobs"

		parseYaml(&cfg)
		assert.Equal(t, want, cfg)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}
		cfg := Config{ListenAddr: ":1"}
		parseYaml(&cfg)
		assert.Equal(t, Config{ListenAddr: ":1"}, cfg)
	})

	t.Run("invalid yaml panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", writeTempYAML(t, "server: [unclosed")}
		require.Panics(t, func() { parseYaml(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "nope.yaml")}
		require.Panics(t, func() { parseYaml(&Config{}) })
	})
}
