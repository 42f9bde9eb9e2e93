package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/salescribe/salescribe-server/internal/mocks"
	"github.com/salescribe/salescribe-server/internal/model"
	"github.com/salescribe/salescribe-server/internal/service"
	"github.com/salescribe/salescribe-server/internal/testutil"
	"github.com/salescribe/salescribe-server/internal/token"
)

func newTestRouter(t *testing.T, userStore *mocks.UserStore, meetingStore *mocks.MeetingStore) http.Handler {
	t.Helper()

	l := testutil.MakeNoopLogger()
	tm := token.NewJWT("test-secret")

	analysisStore := &mocks.AnalysisStore{}
	storage := &mocks.Storage{}
	pipeline := &mocks.AnalysisPipeline{}

	authService := service.NewAuth(userStore, tm, l)
	meetingService := service.NewMeeting(meetingStore, analysisStore, storage, l)
	analysisService := service.NewAnalysis(meetingStore, analysisStore, storage, pipeline, l)
	accessService := service.NewAccess(tm, meetingStore, l)

	return New(authService, meetingService, analysisService, accessService, tm, "cb-secret", l).Register()
}

func TestRouter_Healthz(t *testing.T) {
	h := newTestRouter(t, &mocks.UserStore{}, &mocks.MeetingStore{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRouter_StaffRoutesRequireToken(t *testing.T) {
	h := newTestRouter(t, &mocks.UserStore{}, &mocks.MeetingStore{})

	routes := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/meetings"},
		{http.MethodPost, "/api/meetings"},
		{http.MethodGet, "/api/meetings/00000000-0000-0000-0000-000000000001"},
		{http.MethodDelete, "/api/meetings/00000000-0000-0000-0000-000000000001"},
		{http.MethodPost, "/api/meetings/00000000-0000-0000-0000-000000000001/recording"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(route.method, route.target, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouter_RegisterThenCreateMeeting(t *testing.T) {
	userID := uuid.New()
	userStore := &mocks.UserStore{}
	userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "sales@corp.com" && u.Role == model.RoleSalesperson
	})).Return(model.User{ID: userID, Email: "sales@corp.com", Name: "Sam", Role: model.RoleSalesperson}, nil)

	meetingStore := &mocks.MeetingStore{}
	meetingStore.On("Create", mock.Anything, mock.MatchedBy(func(m model.Meeting) bool {
		return m.Title == "Kickoff" && len(m.ShareableID) == 8 && m.UserID == userID
	})).Return(model.Meeting{Title: "Kickoff", ShareableID: "QWER2345", ClientCode: "AB34CD", UserID: userID}, nil)

	h := newTestRouter(t, userStore, meetingStore)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"sales@corp.com","password":"long-enough","name":"Sam"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/meetings",
		strings.NewReader(`{"title":"Kickoff","client_email":"c@corp.com"}`))
	req.Header.Set("Authorization", "Bearer "+session.Token)
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Kickoff")
	assert.Contains(t, rec.Body.String(), "shareable_meeting_id")
}

func TestRouter_PipelineResultsIsOpenButGuarded(t *testing.T) {
	h := newTestRouter(t, &mocks.UserStore{}, &mocks.MeetingStore{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/results", strings.NewReader(`{}`))
	req.Header.Set("X-Pipeline-Secret", "not-the-secret")
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
