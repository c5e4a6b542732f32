package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/phrazzld/places-api/internal/redact"
	"github.com/phrazzld/places-api/internal/service/auth"
	"github.com/phrazzld/places-api/internal/store"
)

const (
	msgSignupInvalidInput = "Invalid inputs passed, please check your data."
	msgSignupFailed       = "Signing up failed, please try again later."
	msgUserExists         = "User exists already, please login instead."
	msgLoginFailed        = "Logging in failed, please try again later."
	msgInvalidCredentials = "Invalid credentials, could not log you in."
	msgFetchUsersFailed   = "Fetching users failed, please try again later."
)

// SignupInput is the data a client supplies to create an account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	// Image is the stored path of the uploaded avatar.
	Image string
}

// AuthResult is returned by a successful signup or login.
type AuthResult struct {
	User  *domain.User
	Token string
}

// UserService provides account operations
type UserService interface {
	// Signup creates a user and returns it together with an access token.
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)

	// Login verifies credentials and returns the user with a fresh access token.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// ListUsers returns every user with their place ids.
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

type userServiceImpl struct {
	userStore store.UserStore
	db        *sql.DB
	tokens    auth.JWTService
	passwords auth.PasswordVerifier
	logger    *slog.Logger
}

// NewUserService creates a new UserService
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	userStore store.UserStore,
	db *sql.DB,
	tokens auth.JWTService,
	passwords auth.PasswordVerifier,
	logger *slog.Logger,
) (UserService, error) {
	if userStore == nil {
		return nil, domain.NewValidationError("userStore", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}
	if passwords == nil {
		return nil, domain.NewValidationError("passwords", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		userStore: userStore,
		db:        db,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger.With(slog.String("component", "user_service")),
	}, nil
}

// Signup implements UserService.Signup
func (s *userServiceImpl) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if input.Image == "" {
		return nil, NewUserServiceError("signup", msgSignupInvalidInput, ErrInvalidInput,
			domain.NewValidationError("image", "is required", domain.ErrValidation))
	}

	user, err := domain.NewUser(input.Name, input.Email, input.Password, input.Image)
	if err != nil {
		log.Debug("invalid signup input", slog.String("error", err.Error()))
		return nil, NewUserServiceError("signup", msgSignupInvalidInput, ErrInvalidInput, err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("signup with registered email")
			return nil, NewUserServiceError("signup", msgUserExists, ErrEmailTaken, err)
		}
		log.Error("failed to create user", redact.ErrorAttr(err))
		return nil, NewUserServiceError("signup", msgSignupFailed, ErrUnavailable, err)
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		log.Error("failed to issue token after signup",
			redact.ErrorAttr(err),
			slog.String("user_id", user.ID.String()))
		return nil, NewUserServiceError("signup", msgSignupFailed, ErrUnavailable, err)
	}

	log.Info("user signed up", slog.String("user_id", user.ID.String()))
	return &AuthResult{User: user, Token: token}, nil
}

// Login implements UserService.Login
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("login for unknown email")
			return nil, NewUserServiceError("login", msgInvalidCredentials, ErrInvalidCredentials, nil)
		}
		log.Error("failed to look up user for login", redact.ErrorAttr(err))
		return nil, NewUserServiceError("login", msgLoginFailed, ErrUnavailable, err)
	}

	if err := s.passwords.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, NewUserServiceError("login", msgInvalidCredentials, ErrInvalidCredentials, nil)
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		log.Error("failed to issue token on login",
			redact.ErrorAttr(err),
			slog.String("user_id", user.ID.String()))
		return nil, NewUserServiceError("login", msgLoginFailed, ErrUnavailable, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// ListUsers implements UserService.ListUsers
func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users", redact.ErrorAttr(err))
		return nil, NewUserServiceError("list", msgFetchUsersFailed, ErrUnavailable, err)
	}
	return users, nil
}
