package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, DefaultSecret, cfg.Session.Secret)
	assert.Equal(t, "checkers_session", cfg.Session.CookieName)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "json", cfg.Store.Codec)
	assert.Equal(t, "checkers:game:", cfg.Store.KeyPrefix)
	assert.Equal(t, "info", cfg.Development.LogLevel)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  host: 0.0.0.0
  port: 9090
session:
  secret: s3cret
  ttl: 2h
store:
  driver: redis
  codec: cbor
  redis_addr: redis:6379
development:
  debug: true
  log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, "s3cret", cfg.Session.Secret)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, "cbor", cfg.Store.Codec)
	assert.Equal(t, "redis:6379", cfg.Store.RedisAddr)
	assert.True(t, cfg.Development.Debug)
	assert.Equal(t, "checkers_session", cfg.Session.CookieName, "unset keys keep defaults")
}

func TestEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CHECKERS_SERVER_PORT", "7000")
	t.Setenv("CHECKERS_STORE_CODEC", "cbor")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "cbor", cfg.Store.Codec)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{Host: "localhost", Port: 8080},
			Session: SessionConfig{Secret: "x", CookieName: "c", TTL: time.Hour},
			Store:   StoreConfig{Driver: "memory", Codec: "json"},
		}
	}

	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"empty secret", func(c *Config) { c.Session.Secret = "" }},
		{"empty cookie name", func(c *Config) { c.Session.CookieName = "" }},
		{"zero ttl", func(c *Config) { c.Session.TTL = 0 }},
		{"unknown driver", func(c *Config) { c.Store.Driver = "sqlite" }},
		{"redis without addr", func(c *Config) { c.Store.Driver = "redis"; c.Store.RedisAddr = "" }},
		{"unknown codec", func(c *Config) { c.Store.Codec = "xml" }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
