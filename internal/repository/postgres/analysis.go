package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/salescribe/salescribe-server/internal/model"
)

var _ model.AnalysisStore = (*AnalysisRepository)(nil)

type AnalysisRepository struct {
	db *Connection
}

func NewAnalysisRepository(db *Connection) *AnalysisRepository {
	return &AnalysisRepository{
		db: db,
	}
}

func (r *AnalysisRepository) Create(ctx context.Context, analysis model.RecordingAnalysis) (model.RecordingAnalysis, error) {
	data, err := json.Marshal(analysis.Data)
	if err != nil {
		return model.RecordingAnalysis{}, fmt.Errorf("failed to marshal analysis data: %w", err)
	}

	history := analysis.QnAHistory
	if history == nil {
		history = []model.QnAEntry{}
	}
	qna, err := json.Marshal(history)
	if err != nil {
		return model.RecordingAnalysis{}, fmt.Errorf("failed to marshal qna history: %w", err)
	}

	query := `INSERT INTO recording_analyses (recording_id, meeting_id, status, analysis_data, qna_history, audio_key, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING recording_id, meeting_id, status, analysis_data, qna_history, audio_key, created_at, updated_at`

	saved, err := scanAnalysis(r.db.QueryRow(ctx, query,
		analysis.RecordingID, analysis.MeetingID, analysis.Status,
		data, qna, analysis.AudioKey, analysis.CreatedAt, analysis.UpdatedAt,
	))
	if err != nil {
		return model.RecordingAnalysis{}, fmt.Errorf("failed to create analysis: %w", err)
	}

	return saved, nil
}

func (r *AnalysisRepository) GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (model.RecordingAnalysis, error) {
	query := `SELECT recording_id, meeting_id, status, analysis_data, qna_history, audio_key, created_at, updated_at
			  FROM recording_analyses WHERE recording_id = $1`

	analysis, err := scanAnalysis(r.db.QueryRow(ctx, query, recordingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RecordingAnalysis{}, model.ErrNotFound
		}
		return model.RecordingAnalysis{}, fmt.Errorf("failed to get analysis by recording id: %w", err)
	}

	return analysis, nil
}

func (r *AnalysisRepository) SetResult(ctx context.Context, recordingID uuid.UUID, status model.AnalysisStatus, data model.AnalysisData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis data: %w", err)
	}

	query := `UPDATE recording_analyses
			  SET status = $2, analysis_data = $3, updated_at = now()
			  WHERE recording_id = $1`

	tag, err := r.db.Exec(ctx, query, recordingID, status, raw)
	if err != nil {
		return fmt.Errorf("failed to set analysis result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// AppendQuestion appends the entry server-side in a single statement.
// Postgres wraps a non-array jsonb operand as a one-element list, so the
// concatenation is an atomic append and concurrent callers never lose entries.
func (r *AnalysisRepository) AppendQuestion(ctx context.Context, recordingID uuid.UUID, entry model.QnAEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal qna entry: %w", err)
	}

	query := `UPDATE recording_analyses
			  SET qna_history = qna_history || $2::jsonb, updated_at = now()
			  WHERE recording_id = $1`

	tag, err := r.db.Exec(ctx, query, recordingID, raw)
	if err != nil {
		return fmt.Errorf("failed to append qna entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *AnalysisRepository) Delete(ctx context.Context, recordingID uuid.UUID) error {
	query := `DELETE FROM recording_analyses WHERE recording_id = $1`

	tag, err := r.db.Exec(ctx, query, recordingID)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func scanAnalysis(row pgx.Row) (model.RecordingAnalysis, error) {
	var analysis model.RecordingAnalysis
	var data, qna []byte

	err := row.Scan(
		&analysis.RecordingID, &analysis.MeetingID, &analysis.Status,
		&data, &qna, &analysis.AudioKey, &analysis.CreatedAt, &analysis.UpdatedAt,
	)
	if err != nil {
		return model.RecordingAnalysis{}, err
	}

	if err := json.Unmarshal(data, &analysis.Data); err != nil {
		return model.RecordingAnalysis{}, fmt.Errorf("failed to unmarshal analysis data: %w", err)
	}
	if err := json.Unmarshal(qna, &analysis.QnAHistory); err != nil {
		return model.RecordingAnalysis{}, fmt.Errorf("failed to unmarshal qna history: %w", err)
	}

	return analysis, nil
}
