package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/salescribe/salescribe-server/internal/model"
)

// Claims represents JWT claims carrying the full request identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID  `json:"user_id"`
	Email  string     `json:"email"`
	Name   string     `json:"name"`
	Role   model.Role `json:"role"`
}

// JWT implements TokenManager backed by symmetric HMAC. Tokens are fully
// stateless: there is no revocation store, so an issued token stays valid
// for its whole TTL regardless of later account changes.
type JWT struct {
	secretKey string
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) model.TokenManager {
	return &JWT{secretKey: secretKey}
}

// TTL is the fixed validity window of every issued token. Callers must log
// in again after it elapses.
const TTL = time.Hour

// Generate creates a signed token carrying the user's identity claims.
func (j *JWT) Generate(user model.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Parse validates signature and expiry and extracts the identity. Expired
// tokens map to model.ErrTokenExpired; everything else (bad signature,
// malformed encoding, wrong signing method) maps to model.ErrTokenInvalid.
func (j *JWT) Parse(tokenString string) (model.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Identity{}, model.ErrTokenExpired
		}
		return model.Identity{}, model.ErrTokenInvalid
	}
	if !token.Valid {
		return model.Identity{}, model.ErrTokenInvalid
	}

	role := claims.Role
	if role == "" {
		role = model.RoleUser
	}

	return model.Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   role,
	}, nil
}
