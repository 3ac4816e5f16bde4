// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the database
//
// Services accept primitives and return domain errors; they know nothing
// about HTTP, chi, or SQL. That keeps them callable from tests (and any
// future non-HTTP entry point) as plain Go functions.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/arshkhan-pathan/todo-service/internal/apperror"
	"github.com/arshkhan-pathan/todo-service/internal/auth"
	"github.com/arshkhan-pathan/todo-service/internal/model"
	"github.com/arshkhan-pathan/todo-service/internal/repository"
)

// AuthService handles registration and login.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users     repository.UserRepository → read/write user records
//   - tokens    *auth.TokenService        → mint JWTs
//   - passwords *auth.PasswordService     → bcrypt hashing/verification
//   - logger    *slog.Logger              → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      string
}

// AuthResult bundles the user record and the issued JWT so the handler
// can build the whole login response in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register validates the input, hashes the password, and persists a new
// active user. The plaintext password exists only on the stack of this
// call — it is hashed before anything is stored or logged.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if utf8.RuneCountInString(in.Username) < 3 {
		return nil, apperror.ValidationFailed("username", "username must be at least 3 characters")
	}
	if in.Email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if len(in.Password) < 6 {
		return nil, apperror.ValidationFailed("password", "password must be at least 6 characters")
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = "user"
	}

	hashed, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:       in.Username,
		Email:          in.Email,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		HashedPassword: hashed,
		Role:           role,
		IsActive:       true,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// Conflict (duplicate username) propagates as-is for the handler.
		return nil, err
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies a username/password pair and issues an access token.
//
// FAILURE IS UNIFORM:
// Unknown username, wrong password, and a deactivated account all return
// the same ErrUnauthorized with the same message. A caller probing the
// endpoint learns nothing about which accounts exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// CurrentUser returns the account record behind an authenticated identity.
// Token claims carry only id, username and role; the profile fields and
// the is_active flag live in the store, so clients that want them look
// themselves up here.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: loading user %d: %w", userID, err)
	}
	return user, nil
}

// authenticate is the credential verifier: look the user up by username and
// compare the plaintext against the stored bcrypt digest. It has no side
// effects and returns the full user record on success.
func (s *AuthService) authenticate(ctx context.Context, username, password string) (*model.User, error) {
	failed := apperror.Unauthorized("invalid username or password")

	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, failed
		}
		return nil, fmt.Errorf("service/auth: looking up user %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.HashedPassword, password); err != nil {
		return nil, failed
	}

	if !user.IsActive {
		s.logger.Warn("login attempt for deactivated account",
			slog.Int64("userID", user.ID),
		)
		return nil, failed
	}

	return user, nil
}
