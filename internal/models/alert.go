package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AlertType string

const (
	AlertPhoneDetected      AlertType = "phone_detected"
	AlertMultipleFaces      AlertType = "multiple_faces"
	AlertOffScreenGaze      AlertType = "off_screen_gaze"
	AlertSuspiciousAudio    AlertType = "suspicious_audio"
	AlertUnauthorizedPerson AlertType = "unauthorized_person"
	AlertUnusualBehavior    AlertType = "unusual_behavior"
	AlertNetworkAnomaly     AlertType = "network_anomaly"
	AlertOther              AlertType = "other"
)

type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// severityRank orders severities for the unacknowledged listing.
var severityRank = map[AlertSeverity]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
}

func (s AlertSeverity) Rank() int {
	return severityRank[s]
}

type Alert struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	SessionID uint `json:"session_id" gorm:"not null;index" validate:"required"`

	AlertType AlertType     `json:"alert_type" gorm:"not null;size:30;index" validate:"required,oneof=phone_detected multiple_faces off_screen_gaze suspicious_audio unauthorized_person unusual_behavior network_anomaly other"`
	Severity  AlertSeverity `json:"severity" gorm:"not null;size:10;index" validate:"required,oneof=low medium high critical"`

	// Detection confidence, 0-100.
	Confidence float64 `json:"confidence" gorm:"type:decimal(5,2)" validate:"min=0,max=100"`

	Description  *string        `json:"description" gorm:"type:text"`
	Metadata     datatypes.JSON `json:"metadata"`
	VideoClipURL *string        `json:"video_clip_url" gorm:"size:500"`

	// One-way transition: created unacknowledged, acknowledged at most once.
	Acknowledged        bool       `json:"acknowledged" gorm:"default:false;index"`
	AcknowledgedBy      *uint      `json:"acknowledged_by"`
	AcknowledgedAt      *time.Time `json:"acknowledged_at"`
	AcknowledgmentNotes *string    `json:"acknowledgment_notes" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Alert) TableName() string {
	return "alerts"
}
