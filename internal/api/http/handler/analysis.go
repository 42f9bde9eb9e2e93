package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/salescribe/salescribe-server/internal/api/http/middleware"
	"github.com/salescribe/salescribe-server/internal/logger"
	"github.com/salescribe/salescribe-server/internal/model"
	"github.com/salescribe/salescribe-server/internal/service"
)

// Headers carrying the client share credentials on dual-mode endpoints.
const (
	headerShareableID = "X-Shareable-Meeting-Id"
	headerClientCode  = "X-Client-Code"
	headerPipeline    = "X-Pipeline-Secret"
)

// AccessService resolves request credentials into an access grant.
type AccessService interface {
	Authorize(ctx context.Context, req model.AccessRequest) (model.AccessGrant, error)
	ValidateShareCode(ctx context.Context, shareableID, clientCode string) (model.Meeting, error)
}

// AnalysisService defines shaped analysis reads and Q&A operations.
type AnalysisService interface {
	GetAnalysis(ctx context.Context, grant model.AccessGrant, recordingID uuid.UUID) (service.AnalysisView, error)
	AskQuestion(ctx context.Context, grant model.AccessGrant, recordingID uuid.UUID, question string) (model.QnAEntry, error)
	ApplyResult(ctx context.Context, recordingID uuid.UUID, status model.AnalysisStatus, data model.AnalysisData) error
	ClientMeetingAccess(ctx context.Context, meeting model.Meeting) (service.ClientMeetingView, error)
}

// Analysis handles the dual-mode recording endpoints, the client access
// exchange, and the pipeline results callback.
type Analysis struct {
	accessService   AccessService
	analysisService AnalysisService
	callbackSecret  string
	logger          *logger.Logger
}

// NewAnalysis creates a new Analysis handler.
func NewAnalysis(accessService AccessService, analysisService AnalysisService, callbackSecret string, logger *logger.Logger) *Analysis {
	return &Analysis{
		accessService:   accessService,
		analysisService: analysisService,
		callbackSecret:  callbackSecret,
		logger:          logger,
	}
}

// accessRequest builds the dual credential set from the request: a bearer
// token if present, and the share pair headers if present. Authorize decides
// which one wins.
func accessRequest(r *http.Request, recordingID uuid.UUID) model.AccessRequest {
	return model.AccessRequest{
		BearerToken: middleware.BearerToken(r),
		ShareableID: r.Header.Get(headerShareableID),
		ClientCode:  r.Header.Get(headerClientCode),
		RecordingID: recordingID,
	}
}

// GetAnalysis returns the analysis for a recording, shaped for whichever
// role the caller's credentials resolve to.
func (h *Analysis) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	recordingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, model.ErrNotFound)
		return
	}

	grant, err := h.accessService.Authorize(r.Context(), accessRequest(r, recordingID))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	view, err := h.analysisService.GetAnalysis(r.Context(), grant, recordingID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

type questionRequest struct {
	Question string `json:"question"`
}

// AskQuestion submits an interactive question about a completed recording.
func (h *Analysis) AskQuestion(w http.ResponseWriter, r *http.Request) {
	recordingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, model.ErrNotFound)
		return
	}

	grant, err := h.accessService.Authorize(r.Context(), accessRequest(r, recordingID))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, model.ErrValidation)
		return
	}

	entry, err := h.analysisService.AskQuestion(r.Context(), grant, recordingID, req.Question)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

type clientAccessRequest struct {
	ShareableMeetingID string `json:"shareable_meeting_id"`
	ClientCode         string `json:"client_code"`
}

type clientAccessResponse struct {
	Meeting     service.ClientMeetingView `json:"meeting"`
	RecordingID *uuid.UUID                `json:"recording_id,omitempty"`
}

// ClientAccess exchanges a share pair for the client view of a meeting. This
// is the only endpoint that distinguishes an unknown meeting id from a wrong
// code, so clients can correct typos.
func (h *Analysis) ClientAccess(w http.ResponseWriter, r *http.Request) {
	var req clientAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, model.ErrValidation)
		return
	}

	meeting, err := h.accessService.ValidateShareCode(r.Context(), req.ShareableMeetingID, req.ClientCode)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	view, err := h.analysisService.ClientMeetingAccess(r.Context(), meeting)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, clientAccessResponse{
		Meeting:     view,
		RecordingID: meeting.RecordingID,
	})
}

type pipelineResultRequest struct {
	RecordingID uuid.UUID            `json:"recording_id"`
	Status      model.AnalysisStatus `json:"status"`
	Data        model.AnalysisData   `json:"data"`
}

// PipelineResults receives the analysis outcome from the external pipeline.
// The shared callback secret is the only credential on this route.
func (h *Analysis) PipelineResults(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get(headerPipeline)
	if h.callbackSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.callbackSecret)) != 1 {
		h.logger.Info("pipeline callback rejected", "remote_addr", r.RemoteAddr)
		writeError(w, h.logger, model.ErrAccessDenied)
		return
	}

	var req pipelineResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, model.ErrValidation)
		return
	}

	if err := h.analysisService.ApplyResult(r.Context(), req.RecordingID, req.Status, req.Data); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
