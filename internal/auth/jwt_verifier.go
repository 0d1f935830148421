package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"parley/internal/domain"
	"parley/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// Auth0JWTVerifier implements JWTVerifier using the tenant's published JWKS.
type Auth0JWTVerifier struct {
	jwks     keyfunc.Keyfunc
	issuer   string
	audience string
	logger   *slog.Logger
}

// NewJWTVerifier creates a JWT verifier that fetches public keys from the
// Auth0 tenant's JWKS endpoint. Keys are cached and refreshed automatically
// based on HTTP cache headers.
func NewJWTVerifier(tenantDomain, audience string, logger *slog.Logger) (JWTVerifier, error) {
	if tenantDomain == "" {
		return nil, errors.New("Auth0 domain cannot be empty")
	}
	if audience == "" {
		return nil, errors.New("API audience cannot be empty")
	}

	issuer := "https://" + tenantDomain + "/"
	jwksURL := issuer + ".well-known/jwks.json"

	ctx := context.Background()
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL, "audience", audience)

	return &Auth0JWTVerifier{
		jwks:     jwks,
		issuer:   issuer,
		audience: audience,
		logger:   logger,
	}, nil
}

// VerifyToken validates a bearer token against the tenant's signing keys,
// issuer and audience. Only RS256 signatures are accepted.
func (v *Auth0JWTVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, v.jwks.Keyfunc,
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithValidMethods([]string{"RS256"}),
	)
	if err != nil {
		v.logger.Debug("token rejected", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	// A token without a subject identifies nobody
	if claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close releases resources held by the JWT verifier. keyfunc manages its own
// refresh lifecycle, so this is a no-op kept for shutdown symmetry.
func (v *Auth0JWTVerifier) Close() error {
	return nil
}
