//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/salescribe/salescribe-server/internal/model"
	repo "github.com/salescribe/salescribe-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "salescribe_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/salescribe_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func createUser(t *testing.T, ctx context.Context, ur *repo.UserRepository, email string) model.User {
	t.Helper()
	u, err := ur.Create(ctx, model.User{
		ID:             uuid.New(),
		Email:          email,
		Name:           "Test User",
		HashedPassword: []byte("$2a$10$hash"),
		Role:           model.RoleSalesperson,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	})
	require.NoError(t, err)
	return u
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	t.Run("user_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		u := createUser(t, ctx, ur, "user@example.com")

		byEmail, err := ur.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)

		byID, err := ur.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, byID.Email)

		_, err = ur.Create(ctx, model.User{
			ID:             uuid.New(),
			Email:          u.Email,
			HashedPassword: []byte("x"),
			Role:           model.RoleSalesperson,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		})
		require.ErrorIs(t, err, model.ErrEmailTaken)
	})

	t.Run("meeting_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		mr := repo.NewMeetingRepository(conn)
		owner := createUser(t, ctx, ur, "owner@example.com")

		m := model.Meeting{
			ID:          uuid.New(),
			UserID:      owner.ID,
			Title:       "Kickoff",
			Date:        time.Now().Add(24 * time.Hour),
			ClientEmail: "client@corp.com",
			ClientCode:  "AB34CD",
			ShareableID: "QWER2345",
			Status:      model.MeetingStatusScheduled,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		saved, err := mr.Create(ctx, m)
		require.NoError(t, err)
		require.Equal(t, m.ID, saved.ID)

		got, err := mr.GetByID(ctx, m.ID)
		require.NoError(t, err)
		require.Equal(t, m.Title, got.Title)
		require.Nil(t, got.RecordingID)

		list, err := mr.GetByUserID(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)

		shared, err := mr.GetByShareableID(ctx, "QWER2345")
		require.NoError(t, err)
		require.Len(t, shared, 1)

		recordingID := uuid.New()
		got.RecordingID = &recordingID
		got.Status = model.MeetingStatusProcessing
		updated, err := mr.Update(ctx, got)
		require.NoError(t, err)
		require.NotNil(t, updated.RecordingID)
		require.Equal(t, recordingID, *updated.RecordingID)

		byRecording, err := mr.GetByRecordingID(ctx, recordingID)
		require.NoError(t, err)
		require.Equal(t, m.ID, byRecording.ID)

		require.NoError(t, mr.Delete(ctx, m.ID))
		_, err = mr.GetByID(ctx, m.ID)
		require.ErrorIs(t, err, model.ErrNotFound)
		require.ErrorIs(t, mr.Delete(ctx, m.ID), model.ErrNotFound)
	})

	t.Run("analysis_repository", func(t *testing.T) {
		ar := repo.NewAnalysisRepository(conn)
		recordingID := uuid.New()

		a := model.RecordingAnalysis{
			RecordingID: recordingID,
			MeetingID:   uuid.New(),
			Status:      model.AnalysisStatusProcessing,
			AudioKey:    "recordings/m/r",
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		saved, err := ar.Create(ctx, a)
		require.NoError(t, err)
		require.Equal(t, recordingID, saved.RecordingID)
		require.Empty(t, saved.QnAHistory)

		data := model.AnalysisData{
			Transcript:     "transcript",
			GeneralSummary: "summary",
			SalespersonAnalysis: model.RoleAnalysis{
				Summary:   "sales",
				KeyPoints: []string{"point"},
			},
		}
		require.NoError(t, ar.SetResult(ctx, recordingID, model.AnalysisStatusCompleted, data))

		got, err := ar.GetByRecordingID(ctx, recordingID)
		require.NoError(t, err)
		require.Equal(t, model.AnalysisStatusCompleted, got.Status)
		require.Equal(t, "transcript", got.Data.Transcript)
		require.Equal(t, []string{"point"}, got.Data.SalespersonAnalysis.KeyPoints)

		require.NoError(t, ar.AppendQuestion(ctx, recordingID, model.QnAEntry{
			Question: "q", Answer: "a", AskedBy: model.RoleSalesperson, AskedAt: time.Now(),
		}))
		got, err = ar.GetByRecordingID(ctx, recordingID)
		require.NoError(t, err)
		require.Len(t, got.QnAHistory, 1)
		require.Equal(t, "q", got.QnAHistory[0].Question)

		require.NoError(t, ar.Delete(ctx, recordingID))
		_, err = ar.GetByRecordingID(ctx, recordingID)
		require.ErrorIs(t, err, model.ErrNotFound)
		require.ErrorIs(t, ar.SetResult(ctx, recordingID, model.AnalysisStatusFailed, model.AnalysisData{}), model.ErrNotFound)
	})
}

// The append is a single server-side jsonb concatenation, so parallel
// questions must never overwrite each other.
func TestAnalysisRepository_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ar := repo.NewAnalysisRepository(conn)
	recordingID := uuid.New()
	_, err = ar.Create(ctx, model.RecordingAnalysis{
		RecordingID: recordingID,
		MeetingID:   uuid.New(),
		Status:      model.AnalysisStatusCompleted,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})
	require.NoError(t, err)

	const appends = 16
	var wg sync.WaitGroup
	for i := 0; i < appends; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := ar.AppendQuestion(ctx, recordingID, model.QnAEntry{
				Question: fmt.Sprintf("question %d", n),
				Answer:   "answer",
				AskedBy:  model.RoleSalesperson,
				AskedAt:  time.Now(),
			})
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := ar.GetByRecordingID(ctx, recordingID)
	require.NoError(t, err)
	require.Len(t, got.QnAHistory, appends)
}
