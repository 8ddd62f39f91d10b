package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-bytes-should-be-long-enough"

func TestGenerateToken_VerifiesAndExposesClaims(t *testing.T) {
	tok, err := GenerateToken(testSecret, "operator-1", "Desk Operator", 2*time.Minute)
	require.NoError(t, err)

	v, err := NewJWTVerifier(testSecret)
	require.NoError(t, err)
	verified, err := v.Verify(context.Background(), tok)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, verified.Claims(&claims))
	assert.Equal(t, "operator-1", claims["sub"])
	assert.Equal(t, "Desk Operator", claims["name"])
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v, err := NewJWTVerifier(testSecret)
	require.NoError(t, err)
	ctx := context.Background()

	other, err := GenerateToken("different-secret-xxxxxxxxxxxxxxxx", "u", "U", time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(ctx, other)
	assert.Error(t, err, "wrong secret")

	_, err = v.Verify(ctx, "not.a.jwt")
	assert.Error(t, err, "malformed")

	expired, err := GenerateToken(testSecret, "u", "U", -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(ctx, expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u"})
	noExpStr, err := noExp.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = v.Verify(ctx, noExpStr)
	assert.Error(t, err, "missing exp")
}

func TestJWTVerifier_AlgNoneRejected(t *testing.T) {
	v, err := NewJWTVerifier(testSecret)
	require.NoError(t, err)
	headerEnc := (&jwt.Token{}).EncodeSegment([]byte(`{"alg":"none"}`))
	payloadEnc := (&jwt.Token{}).EncodeSegment([]byte(`{"sub":"u-none","exp":9999999999}`))
	_, err = v.Verify(context.Background(), headerEnc+"."+payloadEnc+".")
	assert.Error(t, err)
}

func TestJWTVerifier_TamperedPayload(t *testing.T) {
	tok, err := GenerateToken(testSecret, "user-t", "Tamper", 5*time.Minute)
	require.NoError(t, err)
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	require.NoError(t, err)
	parts[1] = (&jwt.Token{}).EncodeSegment([]byte(strings.Replace(string(payload), "user-t", "attacker", 1)))

	v, err := NewJWTVerifier(testSecret)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), strings.Join(parts, "."))
	assert.Error(t, err)
}

func TestEmptySecret(t *testing.T) {
	_, err := NewJWTVerifier("")
	assert.Error(t, err)
	_, err = GenerateToken("", "u", "U", time.Minute)
	assert.Error(t, err)
}
