package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/costscope/costscope-api/internal/api/shared"
	"github.com/costscope/costscope-api/internal/domain"
	"github.com/costscope/costscope-api/internal/service"
	"github.com/costscope/costscope-api/internal/service/auth"
	"github.com/costscope/costscope-api/internal/store"
)

// AuthHandler handles user registration and login.
type AuthHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler with the given dependencies.
func NewAuthHandler(userService service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		validate:    validator.New(),
		logger:      logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := shared.ValidateRequest(h.validate, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.userService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, GetSafeErrorMessage(err))
			return
		}
		if errors.Is(err, domain.ErrInvalidUserEmail) || errors.Is(err, domain.ErrEmptyUserPassword) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid registration data")
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			"Failed to register user", err)
		return
	}

	shared.RespondWithJSON(w, http.StatusCreated, AuthResponse{
		AccessToken: token,
		UserID:      user.ID,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := shared.ValidateRequest(h.validate, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// Uniform response for unknown email and wrong password.
		if errors.Is(err, auth.ErrInvalidCredentials) {
			shared.RespondWithError(w, r, http.StatusUnauthorized,
				GetSafeErrorMessage(auth.ErrInvalidCredentials))
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			"Failed to log in", err)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, AuthResponse{
		AccessToken: token,
		UserID:      user.ID,
	})
}
