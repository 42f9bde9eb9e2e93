package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salescribe/salescribe-server/internal/api/http/request"
	"github.com/salescribe/salescribe-server/internal/mocks"
	"github.com/salescribe/salescribe-server/internal/model"
	"github.com/salescribe/salescribe-server/internal/testutil"
)

func TestAuthenticate_InjectsIdentity(t *testing.T) {
	identity := model.Identity{UserID: uuid.New(), Role: model.RoleSalesperson}

	tm := &mocks.TokenManager{}
	tm.On("Parse", "valid-token").Return(identity, nil)

	var got model.Identity
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = request.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	m := NewAuthenticate(tm, testutil.MakeNoopLogger())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/meetings", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	m.Handle(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, ok)
	assert.Equal(t, identity, got)
}

func TestAuthenticate_MissingToken(t *testing.T) {
	m := NewAuthenticate(&mocks.TokenManager{}, testutil.MakeNoopLogger())

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run without a token")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/meetings", nil)

	m.Handle(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	tm := &mocks.TokenManager{}
	tm.On("Parse", "expired").Return(model.Identity{}, model.ErrTokenExpired)

	m := NewAuthenticate(tm, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/meetings", nil)
	req.Header.Set("Authorization", "Bearer expired")

	m.Handle(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), model.ErrTokenExpired.Error())
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	tm := &mocks.TokenManager{}
	tm.On("Parse", "garbage").Return(model.Identity{}, model.ErrTokenInvalid)

	m := NewAuthenticate(tm, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/meetings", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	m.Handle(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"standard", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"case insensitive scheme", "bearer abc", "abc"},
		{"empty header", "", ""},
		{"wrong scheme", "Basic dXNlcg==", ""},
		{"bare scheme", "Bearer ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, BearerToken(req))
		})
	}
}
