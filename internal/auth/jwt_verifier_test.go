package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seongbear/document-edit-ai/internal/domain"
)

const testKeyID = "test-key"

func newTestVerifier(t *testing.T) (JWTVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	set := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": testKeyID,
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	}
	raw, err := json.Marshal(set)
	require.NoError(t, err)

	jwks, err := keyfunc.NewJWKSetJSON(raw)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewJWTVerifierWithKeyfunc(jwks, logger), key
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	token.Header["kid"] = testKeyID
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestJWKSVerifier_VerifyToken(t *testing.T) {
	verifier, key := newTestVerifier(t)
	future := time.Now().Add(time.Hour).Unix()

	t.Run("valid token", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodRS256, key, jwt.MapClaims{"sub": "user-1", "email": "a@b.c", "exp": future})

		claims, err := verifier.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.GetUserID())
		assert.Equal(t, "a@b.c", claims.Email)
	})

	tests := []struct {
		name  string
		token func() string
	}{
		{name: "expired", token: func() string {
			return sign(t, jwt.SigningMethodRS256, key, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()})
		}},
		{name: "missing exp", token: func() string {
			return sign(t, jwt.SigningMethodRS256, key, jwt.MapClaims{"sub": "u"})
		}},
		{name: "missing subject", token: func() string {
			return sign(t, jwt.SigningMethodRS256, key, jwt.MapClaims{"exp": future})
		}},
		{name: "symmetric algorithm", token: func() string {
			return sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"sub": "u", "exp": future})
		}},
		{name: "garbage", token: func() string { return "not.a.jwt" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := verifier.VerifyToken(tt.token())
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}
