package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditEventType string

const (
	AuditAlertAcknowledged AuditEventType = "alert_acknowledged"
	AuditIncidentCreated   AuditEventType = "incident_created"
	AuditIncidentResolved  AuditEventType = "incident_resolved"
	AuditSessionFlagged    AuditEventType = "session_flagged"
	AuditRoleChanged       AuditEventType = "role_changed"
	AuditExamCreated       AuditEventType = "exam_created"
)

type AuditLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	EventType AuditEventType `json:"event_type" gorm:"not null;size:40;index"`

	// Actor
	UserID uint `json:"user_id" gorm:"not null;index"`

	// Target
	TargetType string `json:"target_type" gorm:"size:30;index"` // exam, session, alert, incident, user
	TargetID   *uint  `json:"target_id" gorm:"index"`

	Description string         `json:"description" gorm:"not null;type:text"`
	Metadata    datatypes.JSON `json:"metadata"`
	IPAddress   string         `json:"ip_address" gorm:"size:45"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
