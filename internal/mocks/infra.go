package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/salescribe/salescribe-server/internal/model"
)

type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) Generate(user model.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) Parse(token string) (model.Identity, error) {
	args := m.Called(token)
	return args.Get(0).(model.Identity), args.Error(1)
}

type Storage struct {
	mock.Mock
}

func (m *Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if rc := args.Get(0); rc != nil {
		return rc.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Storage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *Storage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type AnalysisPipeline struct {
	mock.Mock
}

func (m *AnalysisPipeline) Trigger(ctx context.Context, recordingID uuid.UUID, audioKey string) error {
	args := m.Called(ctx, recordingID, audioKey)
	return args.Error(0)
}

func (m *AnalysisPipeline) Ask(ctx context.Context, recordingID uuid.UUID, question string) (string, error) {
	args := m.Called(ctx, recordingID, question)
	return args.String(0), args.Error(1)
}
