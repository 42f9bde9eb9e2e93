// Package mocks provides testify mocks for the model interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/salescribe/salescribe-server/internal/model"
)

type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

type MeetingStore struct {
	mock.Mock
}

func (m *MeetingStore) Create(ctx context.Context, meeting model.Meeting) (model.Meeting, error) {
	args := m.Called(ctx, meeting)
	return args.Get(0).(model.Meeting), args.Error(1)
}

func (m *MeetingStore) GetByID(ctx context.Context, id uuid.UUID) (model.Meeting, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Meeting), args.Error(1)
}

func (m *MeetingStore) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Meeting, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Meeting), args.Error(1)
}

func (m *MeetingStore) GetByShareableID(ctx context.Context, shareableID string) ([]model.Meeting, error) {
	args := m.Called(ctx, shareableID)
	return args.Get(0).([]model.Meeting), args.Error(1)
}

func (m *MeetingStore) GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (model.Meeting, error) {
	args := m.Called(ctx, recordingID)
	return args.Get(0).(model.Meeting), args.Error(1)
}

func (m *MeetingStore) Update(ctx context.Context, meeting model.Meeting) (model.Meeting, error) {
	args := m.Called(ctx, meeting)
	return args.Get(0).(model.Meeting), args.Error(1)
}

func (m *MeetingStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type AnalysisStore struct {
	mock.Mock
}

func (m *AnalysisStore) Create(ctx context.Context, analysis model.RecordingAnalysis) (model.RecordingAnalysis, error) {
	args := m.Called(ctx, analysis)
	return args.Get(0).(model.RecordingAnalysis), args.Error(1)
}

func (m *AnalysisStore) GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (model.RecordingAnalysis, error) {
	args := m.Called(ctx, recordingID)
	return args.Get(0).(model.RecordingAnalysis), args.Error(1)
}

func (m *AnalysisStore) SetResult(ctx context.Context, recordingID uuid.UUID, status model.AnalysisStatus, data model.AnalysisData) error {
	args := m.Called(ctx, recordingID, status, data)
	return args.Error(0)
}

func (m *AnalysisStore) AppendQuestion(ctx context.Context, recordingID uuid.UUID, entry model.QnAEntry) error {
	args := m.Called(ctx, recordingID, entry)
	return args.Error(0)
}

func (m *AnalysisStore) Delete(ctx context.Context, recordingID uuid.UUID) error {
	args := m.Called(ctx, recordingID)
	return args.Error(0)
}
