package router

import (
	"net/http"

	"github.com/salescribe/salescribe-server/internal/api/http/handler"
	"github.com/salescribe/salescribe-server/internal/api/http/middleware"
	"github.com/salescribe/salescribe-server/internal/logger"
	"github.com/salescribe/salescribe-server/internal/model"
	"github.com/salescribe/salescribe-server/internal/service"
)

// Router wires handlers and middleware into the HTTP mux.
type Router struct {
	authService     *service.Auth
	meetingService  *service.Meeting
	analysisService *service.Analysis
	accessService   *service.Access
	tokenManager    model.TokenManager
	callbackSecret  string
	logger          *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	meetingService *service.Meeting,
	analysisService *service.Analysis,
	accessService *service.Access,
	tokenManager model.TokenManager,
	callbackSecret string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:     authService,
		meetingService:  meetingService,
		analysisService: analysisService,
		accessService:   accessService,
		tokenManager:    tokenManager,
		callbackSecret:  callbackSecret,
		logger:          logger,
	}
}

// Register builds the route table. Staff routes go through the authenticate
// middleware; the dual-mode recording routes, the client access exchange, and
// the pipeline callback carry their own credential handling.
func (r *Router) Register() http.Handler {
	mux := http.NewServeMux()

	authenticate := middleware.NewAuthenticate(r.tokenManager, r.logger)
	logging := middleware.NewLogging(r.logger)

	authHandler := handler.NewAuth(r.authService, r.logger)
	meetingHandler := handler.NewMeeting(r.meetingService, r.analysisService, r.logger)
	analysisHandler := handler.NewAnalysis(r.accessService, r.analysisService, r.callbackSecret, r.logger)

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	staff := func(h http.HandlerFunc) http.Handler {
		return authenticate.Handle(h)
	}
	mux.Handle("GET /api/meetings", staff(meetingHandler.List))
	mux.Handle("POST /api/meetings", staff(meetingHandler.Create))
	mux.Handle("GET /api/meetings/{id}", staff(meetingHandler.Get))
	mux.Handle("PUT /api/meetings/{id}", staff(meetingHandler.Update))
	mux.Handle("DELETE /api/meetings/{id}", staff(meetingHandler.Delete))
	mux.Handle("POST /api/meetings/{id}/recording", staff(meetingHandler.UploadRecording))

	mux.HandleFunc("GET /api/recordings/{id}/analysis", analysisHandler.GetAnalysis)
	mux.HandleFunc("POST /api/recordings/{id}/questions", analysisHandler.AskQuestion)
	mux.HandleFunc("POST /api/client/access", analysisHandler.ClientAccess)
	mux.HandleFunc("POST /api/pipeline/results", analysisHandler.PipelineResults)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return logging.Handle(mux)
}
