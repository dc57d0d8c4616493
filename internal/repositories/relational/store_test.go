package relational

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
	"github.com/proctorhub/proctoring-service/internal/utils"
)

func newUnconfiguredStore() *Store {
	return NewStore(nil, "owner-open-id", utils.NewDefaultLogger())
}

// Without a connection the adapter degrades: reads come back empty, writes
// fail loudly.
func TestUnconfiguredStoreReadsReturnEmpty(t *testing.T) {
	s := newUnconfiguredStore()
	ctx := context.Background()

	require.False(t, s.Configured())
	assert.Equal(t, "relational", s.Backend())

	user, err := s.GetUserByOpenID(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, user)

	exam, err := s.GetExamByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, exam)

	exams, err := s.ListExams(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, exams)

	sessions, err := s.ListActiveSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	alerts, err := s.ListUnacknowledgedAlerts(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	incidents, err := s.ListIncidents(ctx, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, incidents)
}

func TestUnconfiguredStoreWritesFail(t *testing.T) {
	s := newUnconfiguredStore()
	ctx := context.Background()

	_, err := s.UpsertUser(ctx, repositories.UserUpsert{OpenID: "u-1"})
	assert.ErrorIs(t, err, repositories.ErrDatabaseNotAvailable)

	err = s.CreateExam(ctx, &models.Exam{Title: "Final", Duration: 60})
	assert.ErrorIs(t, err, repositories.ErrDatabaseNotAvailable)

	err = s.CreateAlert(ctx, &models.Alert{SessionID: 1})
	assert.ErrorIs(t, err, repositories.ErrDatabaseNotAvailable)

	err = s.IncrementSuspiciousActivity(ctx, 1)
	assert.ErrorIs(t, err, repositories.ErrDatabaseNotAvailable)

	err = s.AcknowledgeAlert(ctx, 1, 2, "")
	assert.ErrorIs(t, err, repositories.ErrDatabaseNotAvailable)

	assert.ErrorIs(t, s.Ping(ctx), repositories.ErrDatabaseNotAvailable)
}
