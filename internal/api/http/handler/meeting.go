package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/salescribe/salescribe-server/internal/api/http/request"
	"github.com/salescribe/salescribe-server/internal/logger"
	"github.com/salescribe/salescribe-server/internal/model"
	"github.com/salescribe/salescribe-server/internal/service"
)

// MeetingService defines meeting CRUD operations for authenticated staff.
type MeetingService interface {
	CreateMeeting(ctx context.Context, identity model.Identity, params service.CreateMeetingParams) (model.Meeting, error)
	GetMeeting(ctx context.Context, identity model.Identity, meetingID uuid.UUID) (model.Meeting, error)
	ListMeetings(ctx context.Context, identity model.Identity) ([]model.Meeting, error)
	UpdateMeeting(ctx context.Context, identity model.Identity, meetingID uuid.UUID, params service.UpdateMeetingParams) (model.Meeting, error)
	DeleteMeeting(ctx context.Context, identity model.Identity, meetingID uuid.UUID) error
}

// RecordingUploader stores meeting audio and starts its analysis.
type RecordingUploader interface {
	UploadRecording(ctx context.Context, identity model.Identity, meetingID uuid.UUID, audio io.Reader, size int64, contentType string) (model.RecordingAnalysis, error)
}

// Meeting handles HTTP endpoints for meeting CRUD and recording upload.
type Meeting struct {
	meetingService MeetingService
	uploader       RecordingUploader
	logger         *logger.Logger
}

// NewMeeting creates a new Meeting handler.
func NewMeeting(meetingService MeetingService, uploader RecordingUploader, logger *logger.Logger) *Meeting {
	return &Meeting{
		meetingService: meetingService,
		uploader:       uploader,
		logger:         logger,
	}
}

type meetingRequest struct {
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	ClientEmail string    `json:"client_email"`
	Notes       string    `json:"notes"`
}

type meetingResponse struct {
	ID                uuid.UUID           `json:"id"`
	Title             string              `json:"title"`
	Date              time.Time           `json:"date"`
	ClientEmail       string              `json:"client_email"`
	ClientCode        string              `json:"client_code"`
	ShareableID       string              `json:"shareable_meeting_id"`
	RecordingID       *uuid.UUID          `json:"recording_id,omitempty"`
	Status            model.MeetingStatus `json:"status"`
	Notes             string              `json:"notes,omitempty"`
	AnalysisAvailable bool                `json:"analysis_available"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func toMeetingResponse(m model.Meeting) meetingResponse {
	return meetingResponse{
		ID:                m.ID,
		Title:             m.Title,
		Date:              m.Date,
		ClientEmail:       m.ClientEmail,
		ClientCode:        m.ClientCode,
		ShareableID:       m.ShareableID,
		RecordingID:       m.RecordingID,
		Status:            m.Status,
		Notes:             m.Notes,
		AnalysisAvailable: m.AnalysisAvailable,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// Create schedules a meeting for the authenticated user.
func (h *Meeting) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := request.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrTokenMissing)
		return
	}

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, model.ErrValidation)
		return
	}

	meeting, err := h.meetingService.CreateMeeting(r.Context(), identity, service.CreateMeetingParams{
		Title:       req.Title,
		Date:        req.Date,
		ClientEmail: req.ClientEmail,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMeetingResponse(meeting))
}

// List returns the meetings owned by the authenticated user.
func (h *Meeting) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := request.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrTokenMissing)
		return
	}

	meetings, err := h.meetingService.ListMeetings(r.Context(), identity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	responses := make([]meetingResponse, 0, len(meetings))
	for _, m := range meetings {
		responses = append(responses, toMeetingResponse(m))
	}

	writeJSON(w, http.StatusOK, responses)
}

// Get returns a single meeting by id.
func (h *Meeting) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := request.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrTokenMissing)
		return
	}

	meetingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, model.ErrNotFound)
		return
	}

	meeting, err := h.meetingService.GetMeeting(r.Context(), identity, meetingID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toMeetingResponse(meeting))
}

// Update applies changes to a meeting's mutable fields.
func (h *Meeting) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := request.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrTokenMissing)
		return
	}

	meetingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, model.ErrNotFound)
		return
	}

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, model.ErrValidation)
		return
	}

	meeting, err := h.meetingService.UpdateMeeting(r.Context(), identity, meetingID, service.UpdateMeetingParams{
		Title:       req.Title,
		Date:        req.Date,
		ClientEmail: req.ClientEmail,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toMeetingResponse(meeting))
}

// Delete removes a meeting and its recording artifacts.
func (h *Meeting) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := request.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrTokenMissing)
		return
	}

	meetingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, model.ErrNotFound)
		return
	}

	if err := h.meetingService.DeleteMeeting(r.Context(), identity, meetingID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type uploadResponse struct {
	RecordingID uuid.UUID            `json:"recording_id"`
	Status      model.AnalysisStatus `json:"status"`
}

// UploadRecording accepts the raw audio body for a meeting and starts the
// analysis pipeline.
func (h *Meeting) UploadRecording(w http.ResponseWriter, r *http.Request) {
	identity, ok := request.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrTokenMissing)
		return
	}

	meetingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, model.ErrNotFound)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	analysis, err := h.uploader.UploadRecording(r.Context(), identity, meetingID, r.Body, r.ContentLength, contentType)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusAccepted, uploadResponse{
		RecordingID: analysis.RecordingID,
		Status:      analysis.Status,
	})
}
