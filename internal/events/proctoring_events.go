package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/proctorhub/proctoring-service/internal/models"
)

// EventType represents different types of proctoring events
type EventType string

const (
	// Alert events
	EventAlertCreated      EventType = "alert.created"
	EventAlertAcknowledged EventType = "alert.acknowledged"

	// Incident events
	EventIncidentCreated  EventType = "incident.created"
	EventIncidentResolved EventType = "incident.resolved"

	// Session events
	EventSessionFlagged EventType = "session.flagged"
)

// ProctoringEvent is the base event structure for all proctoring events
type ProctoringEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Alert event payloads

type AlertCreatedEvent struct {
	AlertID    uint                 `json:"alert_id"`
	SessionID  uint                 `json:"session_id"`
	AlertType  models.AlertType     `json:"alert_type"`
	Severity   models.AlertSeverity `json:"severity"`
	Confidence float64              `json:"confidence"`
	DetectedAt time.Time            `json:"detected_at"`
}

type AlertAcknowledgedEvent struct {
	AlertID        uint      `json:"alert_id"`
	AcknowledgedBy uint      `json:"acknowledged_by"`
	AcknowledgedAt time.Time `json:"acknowledged_at"`
	Notes          *string   `json:"notes,omitempty"`
}

// Incident event payloads

type IncidentCreatedEvent struct {
	IncidentID uint                    `json:"incident_id"`
	SessionID  uint                    `json:"session_id"`
	Type       models.IncidentType     `json:"incident_type"`
	Severity   models.IncidentSeverity `json:"severity"`
	ReportedBy uint                    `json:"reported_by"`
}

type IncidentResolvedEvent struct {
	IncidentID     uint                  `json:"incident_id"`
	Status         models.IncidentStatus `json:"status"`
	InvestigatedBy *uint                 `json:"investigated_by,omitempty"`
	Resolution     *string               `json:"resolution,omitempty"`
	ResolvedAt     time.Time             `json:"resolved_at"`
}

// Session event payload

type SessionFlaggedEvent struct {
	SessionID               uint      `json:"session_id"`
	ExamID                  uint      `json:"exam_id"`
	StudentID               uint      `json:"student_id"`
	SuspiciousActivityCount int       `json:"suspicious_activity_count"`
	FlaggedAt               time.Time `json:"flagged_at"`
}

// Event factory functions

func NewAlertCreatedEvent(alert *models.Alert) *ProctoringEvent {
	return &ProctoringEvent{
		ID:        GenerateEventID(),
		Type:      EventAlertCreated,
		Timestamp: time.Now(),
		Source:    "proctoring-service",
		Version:   "1.0",
		Data: AlertCreatedEvent{
			AlertID:    alert.ID,
			SessionID:  alert.SessionID,
			AlertType:  alert.AlertType,
			Severity:   alert.Severity,
			Confidence: alert.Confidence,
			DetectedAt: alert.CreatedAt,
		},
	}
}

func NewAlertAcknowledgedEvent(alertID, acknowledgedBy uint, acknowledgedAt time.Time, notes *string) *ProctoringEvent {
	return &ProctoringEvent{
		ID:        GenerateEventID(),
		Type:      EventAlertAcknowledged,
		Timestamp: time.Now(),
		Source:    "proctoring-service",
		Version:   "1.0",
		Data: AlertAcknowledgedEvent{
			AlertID:        alertID,
			AcknowledgedBy: acknowledgedBy,
			AcknowledgedAt: acknowledgedAt,
			Notes:          notes,
		},
	}
}

func NewIncidentCreatedEvent(incident *models.Incident) *ProctoringEvent {
	return &ProctoringEvent{
		ID:        GenerateEventID(),
		Type:      EventIncidentCreated,
		Timestamp: time.Now(),
		Source:    "proctoring-service",
		Version:   "1.0",
		Data: IncidentCreatedEvent{
			IncidentID: incident.ID,
			SessionID:  incident.SessionID,
			Type:       incident.IncidentType,
			Severity:   incident.Severity,
			ReportedBy: incident.ReportedBy,
		},
	}
}

func NewIncidentResolvedEvent(incident *models.Incident, resolvedAt time.Time) *ProctoringEvent {
	return &ProctoringEvent{
		ID:        GenerateEventID(),
		Type:      EventIncidentResolved,
		Timestamp: time.Now(),
		Source:    "proctoring-service",
		Version:   "1.0",
		Data: IncidentResolvedEvent{
			IncidentID:     incident.ID,
			Status:         incident.Status,
			InvestigatedBy: incident.InvestigatedBy,
			Resolution:     incident.Resolution,
			ResolvedAt:     resolvedAt,
		},
	}
}

func NewSessionFlaggedEvent(session *models.ExamSession) *ProctoringEvent {
	return &ProctoringEvent{
		ID:        GenerateEventID(),
		Type:      EventSessionFlagged,
		Timestamp: time.Now(),
		Source:    "proctoring-service",
		Version:   "1.0",
		Data: SessionFlaggedEvent{
			SessionID:               session.ID,
			ExamID:                  session.ExamID,
			StudentID:               session.StudentID,
			SuspiciousActivityCount: session.SuspiciousActivityCount,
			FlaggedAt:               time.Now(),
		},
	}
}

// GenerateEventID returns a unique identifier for an event.
func GenerateEventID() string {
	return uuid.NewString()
}
