package legacy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
	"github.com/proctorhub/proctoring-service/internal/utils"
)

func newUnavailableStore(t *testing.T) *Store {
	t.Helper()
	// An empty DSN never attempts a connection, so this is safe offline.
	s := NewStore(context.Background(), "", "owner-open-id", utils.NewDefaultLogger())
	require.False(t, s.Available())
	return s
}

func TestNewStoreWithoutDSN(t *testing.T) {
	s := newUnavailableStore(t)
	assert.Equal(t, "legacy", s.Backend())
	assert.ErrorIs(t, s.Ping(context.Background()), repositories.ErrDatabaseNotAvailable)
}

func TestNewStoreWithMalformedDSN(t *testing.T) {
	s := NewStore(context.Background(), "not a connection string \x00", "", utils.NewDefaultLogger())
	assert.False(t, s.Available())
}

func TestUnavailableStoreRejectsAllOperations(t *testing.T) {
	s := newUnavailableStore(t)
	ctx := context.Background()

	_, err := s.UpsertUser(ctx, repositories.UserUpsert{OpenID: "u-1"})
	assert.ErrorIs(t, err, repositories.ErrDatabaseNotAvailable)

	_, err = s.GetUserByOpenID(ctx, "u-1")
	assert.ErrorIs(t, err, repositories.ErrDatabaseNotAvailable)

	err = s.CreateExam(ctx, &models.Exam{Title: "Final", Duration: 90})
	assert.ErrorIs(t, err, repositories.ErrDatabaseNotAvailable)

	_, err = s.ListExams(ctx, nil)
	assert.ErrorIs(t, err, repositories.ErrDatabaseNotAvailable)

	err = s.UpdateExamSession(ctx, 1, repositories.SessionUpdate{})
	assert.ErrorIs(t, err, repositories.ErrDatabaseNotAvailable)

	err = s.IncrementSuspiciousActivity(ctx, 1)
	assert.ErrorIs(t, err, repositories.ErrDatabaseNotAvailable)

	_, err = s.ListUnacknowledgedAlerts(ctx, 10)
	assert.ErrorIs(t, err, repositories.ErrDatabaseNotAvailable)

	err = s.AcknowledgeAlert(ctx, 1, 2, "checked")
	assert.ErrorIs(t, err, repositories.ErrDatabaseNotAvailable)

	err = s.UpsertFraudAnalytics(ctx, &models.FraudAnalytics{Period: "2026-S1"})
	assert.ErrorIs(t, err, repositories.ErrDatabaseNotAvailable)

	_, err = s.ListAuditLogs(ctx, 10)
	assert.ErrorIs(t, err, repositories.ErrDatabaseNotAvailable)
}

func TestCloseWithoutPool(t *testing.T) {
	s := newUnavailableStore(t)
	// Close on an unavailable store must be a no-op.
	s.Close()
}
