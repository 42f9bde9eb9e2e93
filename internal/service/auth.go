package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/salescribe/salescribe-server/internal/logger"
	"github.com/salescribe/salescribe-server/internal/model"
)

// dummyHash is a bcrypt hash of a throwaway value. Login compares against it
// when the email is unknown so that unknown-email and wrong-password attempts
// cost the same and neither becomes an enumeration oracle.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

const minPasswordLength = 8

// Auth handles registration and login.
type Auth struct {
	userStore    model.UserStore
	tokenManager model.TokenManager
	logger       *logger.Logger
}

func NewAuth(userStore model.UserStore, tokenManager model.TokenManager, logger *logger.Logger) *Auth {
	return &Auth{
		userStore:    userStore,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

// RegisterParams contains parameters to create an account.
type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Role     model.Role
}

// Session is the result of a successful registration or login.
type Session struct {
	Token string
	User  model.User
}

// Register creates a new account and returns a signed session token.
// Duplicate emails are resolved by the store's conditional insert and
// surfaced as model.ErrEmailTaken.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (Session, error) {
	email := normalizeEmail(params.Email)
	if email == "" || !strings.Contains(email, "@") {
		return Session{}, fmt.Errorf("%w: valid email required", model.ErrValidation)
	}
	if len(params.Password) < minPasswordLength {
		return Session{}, fmt.Errorf("%w: password must be at least %d characters", model.ErrValidation, minPasswordLength)
	}

	role := params.Role
	if role == "" {
		role = model.RoleSalesperson
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:             uuid.New(),
		Email:          email,
		Name:           params.Name,
		HashedPassword: hashed,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if errors.Is(err, model.ErrEmailTaken) {
		a.logger.Info("Auth service: registration rejected, email taken", "email", email)
		return Session{}, model.ErrEmailTaken
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	tokenString, err := a.tokenManager.Generate(user)
	if err != nil {
		return Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user registered", "user_id", user.ID, "role", user.Role)

	return Session{Token: tokenString, User: user}, nil
}

// Login verifies credentials and returns a signed session token. All
// failures surface as model.ErrInvalidCredentials regardless of whether the
// email or the password was wrong.
func (a *Auth) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := a.userStore.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, model.ErrNotFound) {
		// Burn a hash comparison anyway to keep latency flat.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		a.logger.Info("Auth service: login failed", "user_id", user.ID)
		return Session{}, model.ErrInvalidCredentials
	}

	tokenString, err := a.tokenManager.Generate(user)
	if err != nil {
		return Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login succeeded", "user_id", user.ID, "role", user.Role)

	return Session{Token: tokenString, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
