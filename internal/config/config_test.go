package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("HELPDESK_ENV_FILE", "testdata-does-not-exist.env")
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5555", cfg.Server.Addr())
	assert.Equal(t, SourceFile, cfg.Data.Source)
	assert.Equal(t, "data.jsonld", cfg.Data.Path)
	assert.Equal(t, 6, cfg.Data.IDLength)
	assert.Equal(t, AuthNone, cfg.Auth.Mode)
	assert.Equal(t, "helpdesk", cfg.MongoDB.Database)
	assert.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("HELPDESK_ENV_FILE", "testdata-does-not-exist.env")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DATA_SOURCE", "Mongo")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_USE_REDIS", "true")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "5")
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, SourceMongo, cfg.Data.Source)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.True(t, cfg.RateLimit.UseRedis)
	assert.Equal(t, 5*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, AuthJWT, cfg.Auth.Mode)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Data: DataConfig{Source: SourceFile, Path: "data.jsonld", IDLength: 6},
			Auth: AuthConfig{Mode: AuthNone},
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"unknown source":        func(c *Config) { c.Data.Source = "ftp" },
		"mongo without uri":     func(c *Config) { c.Data.Source = SourceMongo },
		"minio without host":    func(c *Config) { c.Data.Source = SourceMinIO },
		"zero id length":        func(c *Config) { c.Data.IDLength = 0 },
		"basic without creds":   func(c *Config) { c.Auth.Mode = AuthBasic },
		"jwt without secret":    func(c *Config) { c.Auth.Mode = AuthJWT },
		"oidc without issuer":   func(c *Config) { c.Auth.Mode = AuthOIDC },
		"unknown auth mode":     func(c *Config) { c.Auth.Mode = "ldap" },
		"redis limiter no host": func(c *Config) { c.RateLimit = RateLimitConfig{Enabled: true, RPS: 1, UseRedis: true} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadConfig_BasicAuthNeedsCredentials(t *testing.T) {
	t.Setenv("HELPDESK_ENV_FILE", "testdata-does-not-exist.env")
	t.Setenv("AUTH_MODE", "basic")
	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_USERNAME")

	t.Setenv("AUTH_USERNAME", "desk")
	t.Setenv("AUTH_PASSWORD", "s3cret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "desk", cfg.Auth.Username)
}
