package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/seongbear/document-edit-ai/internal/domain"
	"github.com/seongbear/document-edit-ai/internal/domain/models"
)

// JWKSVerifier implements JWTVerifier using keys published at a JWKS endpoint.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWTVerifier creates a verifier that fetches public keys from jwksURL.
// keyfunc caches the keys and refreshes them based on HTTP cache headers.
func NewJWTVerifier(ctx context.Context, jwksURL string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("jwt verifier initialized", "jwks_url", jwksURL)
	return NewJWTVerifierWithKeyfunc(jwks, logger), nil
}

// NewJWTVerifierWithKeyfunc wraps an existing key lookup.
func NewJWTVerifierWithKeyfunc(jwks keyfunc.Keyfunc, logger *slog.Logger) JWTVerifier {
	return &JWKSVerifier{
		jwks:   jwks,
		logger: logger,
	}
}

// VerifyToken validates a JWT token and extracts its claims.
// Every failure is reported as domain.ErrUnauthorized.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.APIClaims, error) {
	// Only asymmetric algorithms; prevents algorithm confusion
	token, err := jwt.ParseWithClaims(tokenString, &models.APIClaims{}, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}

	if !token.Valid {
		v.logger.Debug("token is invalid after parsing")
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.APIClaims)
	if !ok {
		v.logger.Error("failed to extract claims from token")
		return nil, domain.ErrUnauthorized
	}

	// Validate user ID exists (sub claim)
	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close is a no-op; keyfunc v3 manages its own refresh goroutine through the
// context passed at construction.
func (v *JWKSVerifier) Close() error {
	v.logger.Info("jwt verifier closed")
	return nil
}
