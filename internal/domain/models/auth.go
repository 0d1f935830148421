package models

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims carried by Auth0-issued access tokens.
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email,omitempty"`
	Scope                string `json:"scope,omitempty"`
	AuthorizedParty      string `json:"azp,omitempty"`
}

// UserID returns the user ID from the JWT subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}
