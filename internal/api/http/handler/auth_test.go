package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salescribe/salescribe-server/internal/model"
	"github.com/salescribe/salescribe-server/internal/service"
	"github.com/salescribe/salescribe-server/internal/testutil"
)

type fakeAuthService struct {
	registerFn func(ctx context.Context, params service.RegisterParams) (service.Session, error)
	loginFn    func(ctx context.Context, email, password string) (service.Session, error)
}

func (f *fakeAuthService) Register(ctx context.Context, params service.RegisterParams) (service.Session, error) {
	return f.registerFn(ctx, params)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (service.Session, error) {
	return f.loginFn(ctx, email, password)
}

func TestAuth_Register(t *testing.T) {
	userID := uuid.New()
	svc := &fakeAuthService{
		registerFn: func(_ context.Context, params service.RegisterParams) (service.Session, error) {
			assert.Equal(t, "sales@corp.com", params.Email)
			return service.Session{
				Token: "signed-token",
				User:  model.User{ID: userID, Email: params.Email, Role: model.RoleSalesperson, HashedPassword: []byte("hash")},
			}, nil
		},
	}

	h := NewAuth(svc, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"sales@corp.com","password":"long-enough","name":"Sam"}`))

	h.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signed-token", body.Token)
	assert.Equal(t, userID, body.User.ID)
	assert.NotContains(t, rec.Body.String(), "hash", "password material must never serialize")
}

func TestAuth_Register_EmailTaken(t *testing.T) {
	svc := &fakeAuthService{
		registerFn: func(context.Context, service.RegisterParams) (service.Session, error) {
			return service.Session{}, model.ErrEmailTaken
		},
	}

	h := NewAuth(svc, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"sales@corp.com","password":"long-enough"}`))

	h.Register(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuth_Register_MalformedBody(t *testing.T) {
	h := NewAuth(&fakeAuthService{}, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{not json"))

	h.Register(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth_Login(t *testing.T) {
	svc := &fakeAuthService{
		loginFn: func(_ context.Context, email, password string) (service.Session, error) {
			assert.Equal(t, "sales@corp.com", email)
			assert.Equal(t, "hunter22hunter22", password)
			return service.Session{Token: "signed-token", User: model.User{Email: email}}, nil
		},
	}

	h := NewAuth(svc, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"sales@corp.com","password":"hunter22hunter22"}`))

	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signed-token", body.Token)
}

func TestAuth_Login_InvalidCredentials(t *testing.T) {
	svc := &fakeAuthService{
		loginFn: func(context.Context, string, string) (service.Session, error) {
			return service.Session{}, model.ErrInvalidCredentials
		},
	}

	h := NewAuth(svc, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"sales@corp.com","password":"wrong"}`))

	h.Login(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), model.ErrInvalidCredentials.Error())
}
