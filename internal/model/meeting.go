package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MeetingStatus tracks a meeting through its recording lifecycle.
type MeetingStatus string

const (
	// MeetingStatusScheduled means no recording has been uploaded yet.
	MeetingStatusScheduled MeetingStatus = "Scheduled"
	// MeetingStatusProcessing means a recording exists but analysis is pending.
	MeetingStatusProcessing MeetingStatus = "Processing"
	// MeetingStatusCompleted means analysis results are available.
	MeetingStatusCompleted MeetingStatus = "Completed"
)

// MeetingStore defines persistence operations for meetings.
type MeetingStore interface {
	Create(ctx context.Context, meeting Meeting) (Meeting, error)
	GetByID(ctx context.Context, id uuid.UUID) (Meeting, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Meeting, error)
	// GetByShareableID looks meetings up by their shareable id. The shareable
	// id is not the primary key and is not unique, so several meetings may
	// come back; callers filter by client code.
	GetByShareableID(ctx context.Context, shareableID string) ([]Meeting, error)
	GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (Meeting, error)
	Update(ctx context.Context, meeting Meeting) (Meeting, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Meeting represents a scheduled sales meeting. It is owned exclusively by
// the salesperson who created it. The ShareableID/ClientCode pair is a
// capability: knowing both grants client-level access to this meeting's
// analysis for as long as the meeting exists.
type Meeting struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Title             string
	Date              time.Time
	ClientEmail       string
	ClientCode        string
	ShareableID       string
	RecordingID       *uuid.UUID
	Status            MeetingStatus
	Notes             string
	AnalysisAvailable bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
