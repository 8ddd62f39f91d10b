package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/helpdesk/helpdesk/internal/auth"
	"github.com/helpdesk/helpdesk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "ctl-test-secret-xxxxxxxxxxxxxxxxxxxx"

func TestTokenCommand(t *testing.T) {
	var out bytes.Buffer
	err := newApp(&out).Run([]string{"helpdeskctl", "token", "--secret", testSecret, "--sub", "desk-1", "--ttl", "5m"})
	require.NoError(t, err)

	v, err := auth.NewJWTVerifier(testSecret)
	require.NoError(t, err)
	tok, err := v.Verify(context.Background(), strings.TrimSpace(out.String()))
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	assert.Equal(t, "desk-1", claims["sub"])
}

func TestTokenCommand_NoSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	var out bytes.Buffer
	err := newApp(&out).Run([]string{"helpdeskctl", "token"})
	require.Error(t, err)
}

func TestRevokeCommand(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	t.Setenv("HELPDESK_ENV_FILE", "testdata-does-not-exist.env")
	t.Setenv("REDIS_HOST", m.Host())
	t.Setenv("REDIS_PORT", m.Port())

	var out bytes.Buffer
	require.NoError(t, newApp(&out).Run([]string{"helpdeskctl", "revoke", "--ttl", "1m", "some-token"}))
	assert.Equal(t, "revoked\n", out.String())
	assert.True(t, m.Exists("helpdesk:revoked:some-token"))
}

func TestSeed_Errors(t *testing.T) {
	cfg := &config.Config{}
	_, err := seed(context.Background(), cfg, "does-not-exist.jsonld", config.SourceMinIO)
	require.Error(t, err)

	_, err = seed(context.Background(), cfg, "../../data.jsonld", "ftp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp")

	_, err = seed(context.Background(), cfg, "../../data.jsonld", config.SourceMongo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI")
}
