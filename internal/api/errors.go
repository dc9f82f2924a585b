package api

import (
	"errors"
	"net/http"

	"github.com/costscope/costscope-api/internal/advisor"
	"github.com/costscope/costscope-api/internal/service"
	"github.com/costscope/costscope-api/internal/service/auth"
	"github.com/costscope/costscope-api/internal/store"
)

// MapErrorToStatusCode translates service and store errors into HTTP status
// codes. Unrecognized errors map to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrResourceNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoResources):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAnalysisQueueFull):
		return http.StatusServiceUnavailable
	case errors.Is(err, advisor.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, advisor.ErrTransientFailure):
		return http.StatusBadGateway
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err, never exposing
// internal details such as SQL state or upstream provider errors.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		return "Invalid or missing token"
	case errors.Is(err, store.ErrEmailExists):
		return "Email address is already registered"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrResourceNotFound):
		return "Resource not found"
	case errors.Is(err, service.ErrNoResources):
		return "No resources found for this project"
	case errors.Is(err, service.ErrAnalysisQueueFull):
		return "Analysis queue is full, try again later"
	case errors.Is(err, advisor.ErrContentBlocked):
		return "Recommendation generation was blocked by the provider"
	case errors.Is(err, advisor.ErrTransientFailure):
		return "Recommendation provider is temporarily unavailable"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"
	default:
		return "An internal error occurred"
	}
}
