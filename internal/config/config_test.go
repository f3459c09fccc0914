package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOverridesDefaults(t *testing.T) {
	cfg, err := Read(strings.NewReader(`
[server]
port = "9090"

[database]
driver = "sqlite"
dsn = "file:dev.db"

[auth]
token_ttl = "2h"
`))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:dev.db", cfg.Database.DSN)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TTL())
	// 未出现在文件中的字段保留默认值
	assert.Equal(t, "qaboard", cfg.Auth.Issuer)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestReadRejectsBadTOML(t *testing.T) {
	_, err := Read(strings.NewReader("[server\nport = 1"))
	assert.Error(t, err)
}

func TestLoadAppliesEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qaboard.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = \"9090\"\n"), 0o600))

	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("LOG_PRETTY", "1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.True(t, cfg.Log.Pretty)
	assert.False(t, cfg.UsesDefaultSecret())
}

func TestLoadInvalidBool(t *testing.T) {
	t.Setenv("COOKIE_SECURE", "maybe")

	_, err := Load("")
	assert.ErrorContains(t, err, "COOKIE_SECURE")
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = ""
	cfg.Database.Driver = "mysql"
	cfg.Auth.TokenTTL = "forever"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "mysql")
	assert.Contains(t, err.Error(), "token_ttl")
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.UsesDefaultSecret())

	read, write, idle := cfg.Server.Timeouts()
	assert.Equal(t, 15*time.Second, read)
	assert.Equal(t, 30*time.Second, write)
	assert.Equal(t, 120*time.Second, idle)
}
