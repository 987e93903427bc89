package handler

import (
	"errors"
	"net/http"

	"github.com/openshelf/catalog-api/internal/core/domain"
)

// ErrorStatus maps a domain error to its HTTP status and client-facing
// message. ok is false for errors the domain does not know about.
func ErrorStatus(err error) (status int, msg string, ok bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidSession), errors.Is(err, domain.ErrExpiredSession):
		return http.StatusUnauthorized, "unauthenticated", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", true
	case errors.Is(err, domain.ErrAuthorizationDenied):
		return http.StatusForbidden, "forbidden", true
	case errors.Is(err, domain.ErrUnsupportedLanguage):
		return http.StatusBadRequest, "unsupported language", true
	case errors.Is(err, domain.ErrInvalidItem):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found", true
	case errors.Is(err, domain.ErrIndexConflict):
		return http.StatusConflict, "gallery index is busy, retry the request", true
	case errors.Is(err, domain.ErrDataSourceUnavailable):
		return http.StatusServiceUnavailable, "catalog temporarily unavailable", true
	}
	return http.StatusInternalServerError, "internal server error", false
}
