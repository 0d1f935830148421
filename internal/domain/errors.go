package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// CredentialsError indicates the storage backend rejected the request
// because credentials are missing or incomplete.
type CredentialsError struct {
	Message string
}

func (e *CredentialsError) Error() string   { return e.Message }
func (e *CredentialsError) StatusCode() int { return http.StatusForbidden }

// UpstreamError carries a vendor-reported rejection from the storage backend.
// Code and Message are whatever the backend returned, surfaced untouched.
type UpstreamError struct {
	Code    string
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

func (e *UpstreamError) StatusCode() int { return http.StatusBadGateway }
