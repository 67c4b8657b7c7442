package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3001", cfg.Server.GetAddress())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "./uploads", cfg.Storage.UploadDir)
	assert.Equal(t, int64(32<<20), cfg.Storage.MaxUploadBytes())
	assert.Equal(t, "./migrations", cfg.Migrations.Path)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := `
database:
  host: db
  port: "5433"
  user: ideaflow
  password: secret
  name: marketplace
  sslmode: disable
server:
  host: 127.0.0.1
  port: "8080"
logger:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("DB_HOST", "postgres")
	t.Setenv("STORAGE_UPLOAD_DIR", "/var/uploads")
	t.Setenv("DB_MAX_CONN_LIFETIME", "15m")
	t.Setenv("DB_MAX_CONNS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "host=postgres port=5433 user=ideaflow password=secret dbname=marketplace sslmode=disable", cfg.Database.GetDSN())
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.GetAddress())
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "/var/uploads", cfg.Storage.UploadDir)
	assert.Equal(t, 15*time.Minute, cfg.Database.MaxConnLifetime)
	assert.Equal(t, int32(7), cfg.Database.MaxConns)
}
