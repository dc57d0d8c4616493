package events

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorhub/proctoring-service/internal/models"
)

func TestMockPublisherStoresEvents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := NewMockEventPublisher(logger)
	ctx := context.Background()

	alert := &models.Alert{
		ID:         12,
		SessionID:  3,
		AlertType:  models.AlertSuspiciousAudio,
		Severity:   models.SeverityMedium,
		Confidence: 61.2,
		CreatedAt:  time.Now(),
	}

	require.NoError(t, publisher.PublishProctoringEvent(ctx, NewAlertCreatedEvent(alert)))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, EventAlertCreated, published[0].Type)
	assert.Equal(t, "proctoring-service", published[0].Source)
	assert.NotEmpty(t, published[0].ID)

	publisher.ClearEvents()
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestEventFactories(t *testing.T) {
	t.Run("incident created", func(t *testing.T) {
		incident := &models.Incident{
			ID:           4,
			SessionID:    9,
			IncidentType: models.IncidentUnauthorizedAssistance,
			Severity:     models.IncidentModerate,
			ReportedBy:   2,
		}

		event := NewIncidentCreatedEvent(incident)
		assert.Equal(t, EventIncidentCreated, event.Type)

		data, ok := event.Data.(IncidentCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, uint(4), data.IncidentID)
		assert.Equal(t, models.IncidentUnauthorizedAssistance, data.Type)
	})

	t.Run("session flagged", func(t *testing.T) {
		session := &models.ExamSession{
			ID:                      7,
			ExamID:                  1,
			StudentID:               55,
			SuspiciousActivityCount: 3,
		}

		event := NewSessionFlaggedEvent(session)
		data, ok := event.Data.(SessionFlaggedEvent)
		require.True(t, ok)
		assert.Equal(t, uint(55), data.StudentID)
		assert.Equal(t, 3, data.SuspiciousActivityCount)
	})

	t.Run("ids are unique", func(t *testing.T) {
		assert.NotEqual(t, GenerateEventID(), GenerateEventID())
	})
}
