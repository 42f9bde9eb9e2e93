package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AnalysisStatus tracks the external pipeline's progress on a recording.
type AnalysisStatus string

const (
	AnalysisStatusProcessing AnalysisStatus = "processing"
	AnalysisStatusCompleted  AnalysisStatus = "completed"
	AnalysisStatusFailed     AnalysisStatus = "failed"
)

// AnalysisStore defines persistence operations for recording analyses.
type AnalysisStore interface {
	Create(ctx context.Context, analysis RecordingAnalysis) (RecordingAnalysis, error)
	GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (RecordingAnalysis, error)
	SetResult(ctx context.Context, recordingID uuid.UUID, status AnalysisStatus, data AnalysisData) error
	// AppendQuestion appends a Q&A entry to the history as a single atomic
	// server-side list append. Concurrent appends must both survive.
	AppendQuestion(ctx context.Context, recordingID uuid.UUID, entry QnAEntry) error
	Delete(ctx context.Context, recordingID uuid.UUID) error
}

// RecordingAnalysis holds the pipeline output for one uploaded recording.
// A meeting references at most one analysis via its RecordingID.
type RecordingAnalysis struct {
	RecordingID uuid.UUID
	MeetingID   uuid.UUID
	Status      AnalysisStatus
	Data        AnalysisData
	QnAHistory  []QnAEntry
	AudioKey    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AnalysisData is the full pipeline result. It is stored once and projected
// per role at read time; it is never mutated by reads.
type AnalysisData struct {
	Transcript          string       `json:"transcript"`
	GeneralSummary      string       `json:"general_summary"`
	SalespersonAnalysis RoleAnalysis `json:"salesperson_analysis"`
	ClientAnalysis      RoleAnalysis `json:"client_analysis"`
}

// RoleAnalysis is the pipeline's tailored view for one audience.
type RoleAnalysis struct {
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"key_points"`
	ActionItems []string `json:"action_items"`
	Questions   []string `json:"questions"`
}

// QnAEntry is one interactive question and its pipeline-generated answer.
// The history is append-only and chronological.
type QnAEntry struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedBy  Role      `json:"asked_by"`
	AskedAt  time.Time `json:"asked_at"`
}
