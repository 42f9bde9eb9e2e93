package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/salescribe/salescribe-server/internal/model"
)

var _ model.MeetingStore = (*MeetingRepository)(nil)

const meetingColumns = `id, user_id, title, date, client_email, client_code, shareable_id,
			  recording_id, status, notes, analysis_available, created_at, updated_at`

type MeetingRepository struct {
	db *Connection
}

func NewMeetingRepository(db *Connection) *MeetingRepository {
	return &MeetingRepository{
		db: db,
	}
}

func scanMeeting(row pgx.Row) (model.Meeting, error) {
	var meeting model.Meeting
	err := row.Scan(
		&meeting.ID, &meeting.UserID, &meeting.Title, &meeting.Date,
		&meeting.ClientEmail, &meeting.ClientCode, &meeting.ShareableID,
		&meeting.RecordingID, &meeting.Status, &meeting.Notes,
		&meeting.AnalysisAvailable, &meeting.CreatedAt, &meeting.UpdatedAt,
	)
	return meeting, err
}

func (r *MeetingRepository) Create(ctx context.Context, meeting model.Meeting) (model.Meeting, error) {
	query := `INSERT INTO meetings (id, user_id, title, date, client_email, client_code, shareable_id,
			  recording_id, status, notes, analysis_available, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING ` + meetingColumns

	saved, err := scanMeeting(r.db.QueryRow(ctx, query,
		meeting.ID, meeting.UserID, meeting.Title, meeting.Date,
		meeting.ClientEmail, meeting.ClientCode, meeting.ShareableID,
		meeting.RecordingID, meeting.Status, meeting.Notes,
		meeting.AnalysisAvailable, meeting.CreatedAt, meeting.UpdatedAt,
	))
	if err != nil {
		return model.Meeting{}, fmt.Errorf("failed to create meeting: %w", err)
	}

	return saved, nil
}

func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`

	meeting, err := scanMeeting(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Meeting{}, model.ErrNotFound
		}
		return model.Meeting{}, fmt.Errorf("failed to get meeting by id: %w", err)
	}

	return meeting, nil
}

func (r *MeetingRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE user_id = $1 ORDER BY date DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings by user: %w", err)
	}
	defer rows.Close()

	return collectMeetings(rows)
}

func (r *MeetingRepository) GetByShareableID(ctx context.Context, shareableID string) ([]model.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE shareable_id = $1`

	rows, err := r.db.Query(ctx, query, shareableID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings by shareable id: %w", err)
	}
	defer rows.Close()

	return collectMeetings(rows)
}

func (r *MeetingRepository) GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (model.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE recording_id = $1`

	meeting, err := scanMeeting(r.db.QueryRow(ctx, query, recordingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Meeting{}, model.ErrNotFound
		}
		return model.Meeting{}, fmt.Errorf("failed to get meeting by recording id: %w", err)
	}

	return meeting, nil
}

func (r *MeetingRepository) Update(ctx context.Context, meeting model.Meeting) (model.Meeting, error) {
	query := `UPDATE meetings
			  SET title = $2, date = $3, client_email = $4, recording_id = $5,
			      status = $6, notes = $7, analysis_available = $8, updated_at = now()
			  WHERE id = $1
			  RETURNING ` + meetingColumns

	saved, err := scanMeeting(r.db.QueryRow(ctx, query,
		meeting.ID, meeting.Title, meeting.Date, meeting.ClientEmail,
		meeting.RecordingID, meeting.Status, meeting.Notes, meeting.AnalysisAvailable,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Meeting{}, model.ErrNotFound
		}
		return model.Meeting{}, fmt.Errorf("failed to update meeting: %w", err)
	}

	return saved, nil
}

func (r *MeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM meetings WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func collectMeetings(rows pgx.Rows) ([]model.Meeting, error) {
	meetings := make([]model.Meeting, 0)
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting row: %w", err)
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meeting rows: %w", err)
	}

	return meetings, nil
}
