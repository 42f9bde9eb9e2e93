package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/salescribe/salescribe-server/internal/logger"
	"github.com/salescribe/salescribe-server/internal/model"
	"github.com/salescribe/salescribe-server/internal/service"
)

// AuthService defines account registration and login operations.
type AuthService interface {
	Register(ctx context.Context, params service.RegisterParams) (service.Session, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

type registerRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Name     string     `json:"name"`
	Role     model.Role `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toSessionResponse(s service.Session) sessionResponse {
	return sessionResponse{
		Token: s.Token,
		User: userResponse{
			ID:        s.User.ID,
			Email:     s.User.Email,
			Name:      s.User.Name,
			Role:      s.User.Role,
			CreatedAt: s.User.CreatedAt,
		},
	}
}

// Register creates an account and returns a session token.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, model.ErrValidation)
		return
	}

	session, err := h.authService.Register(r.Context(), service.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

// Login verifies credentials and returns a session token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, model.ErrValidation)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}
