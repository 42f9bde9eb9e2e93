package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/salescribe/salescribe-server/internal/logger"
	"github.com/salescribe/salescribe-server/internal/model"
)

// Analysis manages recording uploads, pipeline results, and shaped reads of
// the analysis data.
type Analysis struct {
	meetingStore  model.MeetingStore
	analysisStore model.AnalysisStore
	storage       model.Storage
	pipeline      model.AnalysisPipeline
	logger        *logger.Logger
}

func NewAnalysis(
	meetingStore model.MeetingStore,
	analysisStore model.AnalysisStore,
	storage model.Storage,
	pipeline model.AnalysisPipeline,
	logger *logger.Logger,
) *Analysis {
	return &Analysis{
		meetingStore:  meetingStore,
		analysisStore: analysisStore,
		storage:       storage,
		pipeline:      pipeline,
		logger:        logger,
	}
}

// AnalysisView is the status wrapper around a role-shaped analysis result.
type AnalysisView struct {
	RecordingID uuid.UUID            `json:"recording_id"`
	Status      model.AnalysisStatus `json:"status"`
	Result      any                  `json:"result,omitempty"`
	QnAHistory  []model.QnAEntry     `json:"qna_history,omitempty"`
}

// UploadRecording stores the audio object, creates the analysis row in
// processing state, links the recording to the meeting, and triggers the
// external pipeline. Only the meeting owner (or an admin) may upload.
func (s *Analysis) UploadRecording(ctx context.Context, identity model.Identity, meetingID uuid.UUID, audio io.Reader, size int64, contentType string) (model.RecordingAnalysis, error) {
	meeting, err := s.meetingStore.GetByID(ctx, meetingID)
	if err != nil {
		return model.RecordingAnalysis{}, fmt.Errorf("failed to get meeting by id: %w", err)
	}
	if !canAccessMeeting(identity, meeting) {
		return model.RecordingAnalysis{}, model.ErrNotFound
	}

	recordingID := uuid.New()
	audioKey := fmt.Sprintf("recordings/%s/%s", meeting.ID, recordingID)

	if err := s.storage.Upload(ctx, audioKey, audio, size, contentType); err != nil {
		return model.RecordingAnalysis{}, fmt.Errorf("failed to upload audio: %w", err)
	}

	now := time.Now()
	analysis, err := s.analysisStore.Create(ctx, model.RecordingAnalysis{
		RecordingID: recordingID,
		MeetingID:   meeting.ID,
		Status:      model.AnalysisStatusProcessing,
		AudioKey:    audioKey,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.RecordingAnalysis{}, fmt.Errorf("failed to create analysis: %w", err)
	}

	meeting.RecordingID = &recordingID
	meeting.Status = model.MeetingStatusProcessing
	meeting.AnalysisAvailable = false
	meeting.UpdatedAt = now
	if _, err := s.meetingStore.Update(ctx, meeting); err != nil {
		return model.RecordingAnalysis{}, fmt.Errorf("failed to link recording to meeting: %w", err)
	}

	if err := s.pipeline.Trigger(ctx, recordingID, audioKey); err != nil {
		// The recording is stored; the pipeline can be re-triggered.
		s.logger.Error("Analysis service: pipeline trigger failed",
			"recording_id", recordingID,
			"error", err.Error())
	}

	s.logger.Info("Analysis service: recording uploaded",
		"meeting_id", meeting.ID,
		"recording_id", recordingID)

	return analysis, nil
}

// GetAnalysis returns the analysis shaped for the granted role. While the
// pipeline is still running only the status comes back.
func (s *Analysis) GetAnalysis(ctx context.Context, grant model.AccessGrant, recordingID uuid.UUID) (AnalysisView, error) {
	analysis, err := s.analysisStore.GetByRecordingID(ctx, recordingID)
	if err != nil {
		return AnalysisView{}, fmt.Errorf("failed to get analysis by recording id: %w", err)
	}

	view := AnalysisView{
		RecordingID: analysis.RecordingID,
		Status:      analysis.Status,
	}
	if analysis.Status != model.AnalysisStatusCompleted {
		return view, nil
	}

	view.Result = Shape(analysis.Data, grant.Role)
	if grant.Role != model.RoleClient {
		view.QnAHistory = analysis.QnAHistory
	}
	return view, nil
}

// AskQuestion sends an interactive question to the pipeline and appends the
// exchange to the recording's Q&A history. The append is a single atomic
// server-side list operation so concurrent questions cannot lose entries.
func (s *Analysis) AskQuestion(ctx context.Context, grant model.AccessGrant, recordingID uuid.UUID, question string) (model.QnAEntry, error) {
	if question == "" {
		return model.QnAEntry{}, fmt.Errorf("%w: question required", model.ErrValidation)
	}

	analysis, err := s.analysisStore.GetByRecordingID(ctx, recordingID)
	if err != nil {
		return model.QnAEntry{}, fmt.Errorf("failed to get analysis by recording id: %w", err)
	}
	if analysis.Status != model.AnalysisStatusCompleted {
		return model.QnAEntry{}, fmt.Errorf("%w: analysis not completed", model.ErrValidation)
	}

	answer, err := s.pipeline.Ask(ctx, recordingID, question)
	if err != nil {
		return model.QnAEntry{}, fmt.Errorf("failed to get answer from pipeline: %w", err)
	}

	entry := model.QnAEntry{
		Question: question,
		Answer:   answer,
		AskedBy:  grant.Role,
		AskedAt:  time.Now(),
	}
	if err := s.analysisStore.AppendQuestion(ctx, recordingID, entry); err != nil {
		return model.QnAEntry{}, fmt.Errorf("failed to append question: %w", err)
	}

	s.logger.Info("Analysis service: question appended",
		"recording_id", recordingID,
		"role", grant.Role)

	return entry, nil
}

// ApplyResult records the pipeline outcome for a recording and flips the
// owning meeting to Completed when the analysis succeeded.
func (s *Analysis) ApplyResult(ctx context.Context, recordingID uuid.UUID, status model.AnalysisStatus, data model.AnalysisData) error {
	if status != model.AnalysisStatusCompleted && status != model.AnalysisStatusFailed {
		return fmt.Errorf("%w: unexpected pipeline status %q", model.ErrValidation, status)
	}

	if err := s.analysisStore.SetResult(ctx, recordingID, status, data); err != nil {
		return fmt.Errorf("failed to set analysis result: %w", err)
	}

	meeting, err := s.meetingStore.GetByRecordingID(ctx, recordingID)
	if errors.Is(err, model.ErrNotFound) {
		// Meeting deleted while the pipeline was running; the cascade
		// removed the analysis reference and there is nothing to update.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get meeting by recording id: %w", err)
	}

	if status == model.AnalysisStatusCompleted {
		meeting.Status = model.MeetingStatusCompleted
		meeting.AnalysisAvailable = true
	}
	meeting.UpdatedAt = time.Now()
	if _, err := s.meetingStore.Update(ctx, meeting); err != nil {
		return fmt.Errorf("failed to update meeting after analysis: %w", err)
	}

	s.logger.Info("Analysis service: pipeline result applied",
		"recording_id", recordingID,
		"status", status)

	return nil
}

// ClientMeetingView is what a share-code holder sees for a meeting whose
// analysis is not yet available.
type ClientMeetingView struct {
	Title  string              `json:"title"`
	Date   time.Time           `json:"date"`
	Status model.MeetingStatus `json:"status"`
	Result any                 `json:"result,omitempty"`
}

// ClientMeetingAccess builds the status-shaped meeting view for a validated
// share-code holder: scheduled meetings expose minimal metadata, pending
// analyses a processing placeholder, completed ones the client projection.
func (s *Analysis) ClientMeetingAccess(ctx context.Context, meeting model.Meeting) (ClientMeetingView, error) {
	view := ClientMeetingView{
		Title:  meeting.Title,
		Date:   meeting.Date,
		Status: meeting.Status,
	}

	if meeting.RecordingID == nil || meeting.Status != model.MeetingStatusCompleted {
		return view, nil
	}

	analysis, err := s.analysisStore.GetByRecordingID(ctx, *meeting.RecordingID)
	if err != nil {
		return ClientMeetingView{}, fmt.Errorf("failed to get analysis by recording id: %w", err)
	}
	if analysis.Status == model.AnalysisStatusCompleted {
		view.Result = Shape(analysis.Data, model.RoleClient)
	}

	return view, nil
}
