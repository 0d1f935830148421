package httputil

import (
	"context"
	"net/http"

	"parley/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	claimsKey contextKey = "claims"
)

// WithClaims adds verified token claims to the request context
func WithClaims(r *http.Request, claims *models.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), claimsKey, claims)
	return r.WithContext(ctx)
}

// GetClaims retrieves token claims from context, returns nil if not found
func GetClaims(r *http.Request) *models.Claims {
	claims, _ := r.Context().Value(claimsKey).(*models.Claims)
	return claims
}

// GetUserID retrieves the authenticated user's id, returns empty string if
// the request carries no claims
func GetUserID(r *http.Request) string {
	if claims := GetClaims(r); claims != nil {
		return claims.UserID()
	}
	return ""
}
