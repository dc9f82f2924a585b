package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costscope/costscope-api/internal/domain"
	"github.com/costscope/costscope-api/internal/service"
	"github.com/costscope/costscope-api/internal/service/auth"
	"github.com/costscope/costscope-api/internal/store"
)

// stubUserStore holds a single account keyed by email.
type stubUserStore struct {
	user *domain.User
}

func (s *stubUserStore) Create(_ context.Context, _ *domain.User) error { return nil }

func (s *stubUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, store.ErrUserNotFound
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, store.ErrUserNotFound
}

func (s *stubUserStore) WithTx(_ *sql.Tx) store.UserStore { return s }

// stubSigner issues a fixed token.
type stubSigner struct {
	token string
	err   error
}

func (s *stubSigner) GenerateToken(_ context.Context, _ uuid.UUID) (string, error) {
	return s.token, s.err
}

func (s *stubSigner) ValidateToken(_ context.Context, _ string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

func newUserService(t *testing.T, users store.UserStore, signer auth.JWTService) service.UserService {
	t.Helper()
	verifier := auth.NewBcryptVerifier()
	svc, err := service.NewUserService(&sql.DB{}, users, verifier, verifier, signer, newTestLogger())
	require.NoError(t, err)
	return svc
}

func TestNewUserService_NilDependencies(t *testing.T) {
	t.Parallel()

	verifier := auth.NewBcryptVerifier()
	signer := &stubSigner{token: "tok"}
	users := &stubUserStore{}
	logger := newTestLogger()

	_, err := service.NewUserService(nil, users, verifier, verifier, signer, logger)
	assert.Error(t, err, "nil db")

	_, err = service.NewUserService(&sql.DB{}, nil, verifier, verifier, signer, logger)
	assert.Error(t, err, "nil user store")

	_, err = service.NewUserService(&sql.DB{}, users, nil, verifier, signer, logger)
	assert.Error(t, err, "nil hasher")

	_, err = service.NewUserService(&sql.DB{}, users, verifier, nil, signer, logger)
	assert.Error(t, err, "nil verifier")

	_, err = service.NewUserService(&sql.DB{}, users, verifier, verifier, nil, logger)
	assert.Error(t, err, "nil jwt service")
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	seedUser := func(t *testing.T, password string) *stubUserStore {
		t.Helper()
		hashed, err := auth.NewBcryptVerifier().Hash(password)
		require.NoError(t, err)
		user, err := domain.NewUser("user@example.com", hashed)
		require.NoError(t, err)
		return &stubUserStore{user: user}
	}

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()

		users := seedUser(t, "a-long-password-123")
		svc := newUserService(t, users, &stubSigner{token: "signed-token"})

		user, token, err := svc.Authenticate(context.Background(), "user@example.com", "a-long-password-123")
		require.NoError(t, err)
		assert.Equal(t, "signed-token", token)
		assert.Equal(t, users.user.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		svc := newUserService(t, seedUser(t, "a-long-password-123"), &stubSigner{token: "tok"})

		_, _, err := svc.Authenticate(context.Background(), "user@example.com", "not-the-password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email maps to the same error as wrong password", func(t *testing.T) {
		t.Parallel()

		svc := newUserService(t, seedUser(t, "a-long-password-123"), &stubSigner{token: "tok"})

		_, _, err := svc.Authenticate(context.Background(), "ghost@example.com", "a-long-password-123")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("token signing failure is not an auth failure", func(t *testing.T) {
		t.Parallel()

		svc := newUserService(t, seedUser(t, "a-long-password-123"), &stubSigner{err: assert.AnError})

		_, _, err := svc.Authenticate(context.Background(), "user@example.com", "a-long-password-123")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}
