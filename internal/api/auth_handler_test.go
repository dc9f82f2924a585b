package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costscope/costscope-api/internal/api"
	"github.com/costscope/costscope-api/internal/domain"
	"github.com/costscope/costscope-api/internal/service/auth"
	"github.com/costscope/costscope-api/internal/store"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserService is an in-memory service.UserService that issues a fixed
// token.
type mockUserService struct {
	accounts    map[string]string // email -> password
	registerErr error
	authErr     error
}

func newMockUserService() *mockUserService {
	return &mockUserService{accounts: make(map[string]string)}
}

func (m *mockUserService) Register(
	_ context.Context, email, password string,
) (*domain.User, string, error) {
	if m.registerErr != nil {
		return nil, "", m.registerErr
	}
	if _, exists := m.accounts[email]; exists {
		return nil, "", store.ErrEmailExists
	}
	m.accounts[email] = password
	return &domain.User{ID: uuid.New(), Email: email}, "signed-token", nil
}

func (m *mockUserService) Authenticate(
	_ context.Context, email, password string,
) (*domain.User, string, error) {
	if m.authErr != nil {
		return nil, "", m.authErr
	}
	stored, ok := m.accounts[email]
	if !ok || stored != password {
		return nil, "", auth.ErrInvalidCredentials
	}
	return &domain.User{ID: uuid.New(), Email: email}, "signed-token", nil
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("successful registration", func(t *testing.T) {
		t.Parallel()

		users := newMockUserService()
		handler := api.NewAuthHandler(users, newTestLogger())

		rec := postJSON(t, handler.Register, "/api/auth/register",
			`{"email": "new@example.com", "password": "a-long-password-123"}`)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp api.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.AccessToken)
		assert.NotEqual(t, uuid.Nil, resp.UserID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		users := newMockUserService()
		handler := api.NewAuthHandler(users, newTestLogger())

		first := postJSON(t, handler.Register, "/api/auth/register",
			`{"email": "dup@example.com", "password": "a-long-password-123"}`)
		require.Equal(t, http.StatusCreated, first.Code)

		second := postJSON(t, handler.Register, "/api/auth/register",
			`{"email": "dup@example.com", "password": "another-long-password"}`)
		assert.Equal(t, http.StatusConflict, second.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		t.Parallel()

		handler := api.NewAuthHandler(newMockUserService(), newTestLogger())
		rec := postJSON(t, handler.Register, "/api/auth/register",
			`{"email": "nope", "password": "a-long-password-123"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("password too short", func(t *testing.T) {
		t.Parallel()

		handler := api.NewAuthHandler(newMockUserService(), newTestLogger())
		rec := postJSON(t, handler.Register, "/api/auth/register",
			`{"email": "ok@example.com", "password": "short"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("service failure is not leaked", func(t *testing.T) {
		t.Parallel()

		users := newMockUserService()
		users.registerErr = assert.AnError
		handler := api.NewAuthHandler(users, newTestLogger())

		rec := postJSON(t, handler.Register, "/api/auth/register",
			`{"email": "ok@example.com", "password": "a-long-password-123"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		handler := api.NewAuthHandler(newMockUserService(), newTestLogger())
		rec := postJSON(t, handler.Register, "/api/auth/register", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	registerUser := func(t *testing.T) *api.AuthHandler {
		t.Helper()
		handler := api.NewAuthHandler(newMockUserService(), newTestLogger())
		rec := postJSON(t, handler.Register, "/api/auth/register",
			`{"email": "user@example.com", "password": "a-long-password-123"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		return handler
	}

	t.Run("successful login", func(t *testing.T) {
		t.Parallel()

		handler := registerUser(t)
		rec := postJSON(t, handler.Login, "/api/auth/login",
			`{"email": "user@example.com", "password": "a-long-password-123"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp api.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		handler := registerUser(t)
		rec := postJSON(t, handler.Login, "/api/auth/login",
			`{"email": "user@example.com", "password": "not-the-password"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email gets the same response as wrong password", func(t *testing.T) {
		t.Parallel()

		handler := registerUser(t)

		wrongPassword := postJSON(t, handler.Login, "/api/auth/login",
			`{"email": "user@example.com", "password": "not-the-password"}`)
		unknownEmail := postJSON(t, handler.Login, "/api/auth/login",
			`{"email": "ghost@example.com", "password": "whatever-password"}`)

		assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
		assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()

		handler := registerUser(t)
		rec := postJSON(t, handler.Login, "/api/auth/login", `{"email": "user@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
