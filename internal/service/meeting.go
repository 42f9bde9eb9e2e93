package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salescribe/salescribe-server/internal/logger"
	"github.com/salescribe/salescribe-server/internal/model"
)

// codeAlphabet excludes ambiguous characters so client codes survive being
// read over the phone.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	shareableIDLength = 8
	clientCodeLength  = 6
)

// Meeting provides meeting CRUD with ownership enforcement and the delete
// cascade over recording artifacts.
type Meeting struct {
	meetingStore  model.MeetingStore
	analysisStore model.AnalysisStore
	storage       model.Storage
	logger        *logger.Logger
}

func NewMeeting(
	meetingStore model.MeetingStore,
	analysisStore model.AnalysisStore,
	storage model.Storage,
	logger *logger.Logger,
) *Meeting {
	return &Meeting{
		meetingStore:  meetingStore,
		analysisStore: analysisStore,
		storage:       storage,
		logger:        logger,
	}
}

// CreateMeetingParams contains parameters to schedule a meeting.
type CreateMeetingParams struct {
	Title       string
	Date        time.Time
	ClientEmail string
	Notes       string
}

// UpdateMeetingParams contains the mutable meeting fields.
type UpdateMeetingParams struct {
	Title       string
	Date        time.Time
	ClientEmail string
	Notes       string
}

// CreateMeeting schedules a meeting for the given owner. The shareable id
// and client code are generated here; together they are the capability that
// later grants client access to the analysis.
func (s *Meeting) CreateMeeting(ctx context.Context, identity model.Identity, params CreateMeetingParams) (model.Meeting, error) {
	if params.Title == "" {
		return model.Meeting{}, fmt.Errorf("%w: title required", model.ErrValidation)
	}

	shareableID, err := generateCode(shareableIDLength)
	if err != nil {
		return model.Meeting{}, fmt.Errorf("failed to generate shareable id: %w", err)
	}
	clientCode, err := generateCode(clientCodeLength)
	if err != nil {
		return model.Meeting{}, fmt.Errorf("failed to generate client code: %w", err)
	}

	now := time.Now()
	meeting, err := s.meetingStore.Create(ctx, model.Meeting{
		ID:          uuid.New(),
		UserID:      identity.UserID,
		Title:       params.Title,
		Date:        params.Date,
		ClientEmail: normalizeEmail(params.ClientEmail),
		ClientCode:  clientCode,
		ShareableID: shareableID,
		Status:      model.MeetingStatusScheduled,
		Notes:       params.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Meeting{}, fmt.Errorf("failed to create meeting: %w", err)
	}

	s.logger.Info("Meeting service: meeting created",
		"meeting_id", meeting.ID,
		"user_id", identity.UserID)

	return meeting, nil
}

// GetMeeting returns a meeting visible to the identity. Foreign meetings
// come back as not-found so their existence does not leak.
func (s *Meeting) GetMeeting(ctx context.Context, identity model.Identity, meetingID uuid.UUID) (model.Meeting, error) {
	meeting, err := s.meetingStore.GetByID(ctx, meetingID)
	if err != nil {
		return model.Meeting{}, fmt.Errorf("failed to get meeting by id: %w", err)
	}

	if !canAccessMeeting(identity, meeting) {
		return model.Meeting{}, model.ErrNotFound
	}

	return meeting, nil
}

// ListMeetings returns the meetings owned by the identity.
func (s *Meeting) ListMeetings(ctx context.Context, identity model.Identity) ([]model.Meeting, error) {
	meetings, err := s.meetingStore.GetByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get meetings by user id: %w", err)
	}

	return meetings, nil
}

// UpdateMeeting applies the mutable fields to an owned meeting.
func (s *Meeting) UpdateMeeting(ctx context.Context, identity model.Identity, meetingID uuid.UUID, params UpdateMeetingParams) (model.Meeting, error) {
	meeting, err := s.GetMeeting(ctx, identity, meetingID)
	if err != nil {
		return model.Meeting{}, err
	}

	if params.Title != "" {
		meeting.Title = params.Title
	}
	if !params.Date.IsZero() {
		meeting.Date = params.Date
	}
	if params.ClientEmail != "" {
		meeting.ClientEmail = normalizeEmail(params.ClientEmail)
	}
	if params.Notes != "" {
		meeting.Notes = params.Notes
	}
	meeting.UpdatedAt = time.Now()

	updated, err := s.meetingStore.Update(ctx, meeting)
	if err != nil {
		return model.Meeting{}, fmt.Errorf("failed to update meeting: %w", err)
	}

	return updated, nil
}

// DeleteMeeting removes an owned meeting and cascades over its recording
// artifacts: the analysis row and the stored audio object go with it, so no
// orphaned analysis stays reachable through a stale share code.
func (s *Meeting) DeleteMeeting(ctx context.Context, identity model.Identity, meetingID uuid.UUID) error {
	meeting, err := s.GetMeeting(ctx, identity, meetingID)
	if err != nil {
		return err
	}

	if meeting.RecordingID != nil {
		analysis, err := s.analysisStore.GetByRecordingID(ctx, *meeting.RecordingID)
		switch {
		case errors.Is(err, model.ErrNotFound):
			// Recording reference without an analysis row; nothing to cascade.
		case err != nil:
			return fmt.Errorf("failed to get analysis for cascade: %w", err)
		default:
			if analysis.AudioKey != "" {
				if err := s.storage.Delete(ctx, analysis.AudioKey); err != nil {
					return fmt.Errorf("failed to delete audio object: %w", err)
				}
			}
			if err := s.analysisStore.Delete(ctx, *meeting.RecordingID); err != nil && !errors.Is(err, model.ErrNotFound) {
				return fmt.Errorf("failed to delete analysis: %w", err)
			}
		}
	}

	if err := s.meetingStore.Delete(ctx, meetingID); err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}

	s.logger.Info("Meeting service: meeting deleted",
		"meeting_id", meetingID,
		"user_id", identity.UserID)

	return nil
}

func canAccessMeeting(identity model.Identity, meeting model.Meeting) bool {
	return meeting.UserID == identity.UserID || identity.Role == model.RoleAdmin
}

func generateCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
