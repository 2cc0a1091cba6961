package auth

import "github.com/seongbear/document-edit-ai/internal/domain/models"

// JWTVerifier checks the bearer tokens presented to the HTTP API.
type JWTVerifier interface {
	// VerifyToken returns the claims of a valid token, or domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.APIClaims, error)

	// Close releases verifier resources.
	Close() error
}
