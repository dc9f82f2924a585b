package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/costscope/costscope-api/internal/domain"
	"github.com/costscope/costscope-api/internal/service/auth"
	"github.com/costscope/costscope-api/internal/store"
)

// UserService handles account registration and credential checks.
type UserService interface {
	// Register creates a new account and returns the user together with a
	// signed access token. Returns store.ErrEmailExists when the email is
	// already taken.
	Register(ctx context.Context, email, password string) (*domain.User, string, error)

	// Authenticate verifies the credentials and returns the user and a
	// signed access token. Returns auth.ErrInvalidCredentials for both an
	// unknown email and a wrong password.
	Authenticate(ctx context.Context, email, password string) (*domain.User, string, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	db               *sql.DB
	userStore        store.UserStore
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	jwtService       auth.JWTService
	logger           *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	db *sql.DB,
	userStore store.UserStore,
	passwordHasher auth.PasswordHasher,
	passwordVerifier auth.PasswordVerifier,
	jwtService auth.JWTService,
	logger *slog.Logger,
) (UserService, error) {
	if db == nil {
		return nil, &ServiceError{Operation: "create_user_service", Message: "db cannot be nil"}
	}
	if userStore == nil {
		return nil, &ServiceError{Operation: "create_user_service", Message: "userStore cannot be nil"}
	}
	if passwordHasher == nil {
		return nil, &ServiceError{Operation: "create_user_service", Message: "passwordHasher cannot be nil"}
	}
	if passwordVerifier == nil {
		return nil, &ServiceError{Operation: "create_user_service", Message: "passwordVerifier cannot be nil"}
	}
	if jwtService == nil {
		return nil, &ServiceError{Operation: "create_user_service", Message: "jwtService cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		db:               db,
		userStore:        userStore,
		passwordHasher:   passwordHasher,
		passwordVerifier: passwordVerifier,
		jwtService:       jwtService,
		logger:           logger.With("component", "user_service"),
	}, nil
}

// Register implements UserService.Register. The insert and the token signing
// run in one transaction so a signing failure does not leave behind an
// account the caller never received credentials for.
func (s *userServiceImpl) Register(
	ctx context.Context,
	email, password string,
) (*domain.User, string, error) {
	hashed, err := s.passwordHasher.Hash(password)
	if err != nil {
		return nil, "", &ServiceError{
			Operation: "register",
			Message:   "failed to hash password",
			Err:       err,
		}
	}

	user, err := domain.NewUser(email, hashed)
	if err != nil {
		return nil, "", err
	}

	var token string
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.userStore.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}

		signed, err := s.jwtService.GenerateToken(ctx, user.ID)
		if err != nil {
			return err
		}
		token = signed
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, "", err
		}
		return nil, "", &ServiceError{
			Operation: "register",
			Message:   "failed to register user",
			Err:       err,
		}
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

// Authenticate implements UserService.Authenticate.
func (s *userServiceImpl) Authenticate(
	ctx context.Context,
	email, password string,
) (*domain.User, string, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Indistinguishable from a wrong password.
			return nil, "", auth.ErrInvalidCredentials
		}
		return nil, "", &ServiceError{
			Operation: "authenticate",
			Message:   "failed to look up user",
			Err:       err,
		}
	}

	if err := s.passwordVerifier.Compare(user.HashedPassword, password); err != nil {
		return nil, "", auth.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, "", &ServiceError{
			Operation: "authenticate",
			Message:   "failed to sign access token",
			Err:       err,
		}
	}

	return user, token, nil
}
