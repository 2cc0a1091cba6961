package models

import "github.com/golang-jwt/jwt/v5"

// APIClaims are the bearer token claims accepted by the HTTP API.
type APIClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	Role                 string `json:"role"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *APIClaims) GetUserID() string {
	return c.Subject
}
