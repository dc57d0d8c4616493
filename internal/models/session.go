package models

import (
	"time"

	"gorm.io/datatypes"
)

type SessionStatus string

const (
	SessionNotStarted SessionStatus = "not_started"
	SessionInProgress SessionStatus = "in_progress"
	SessionSubmitted  SessionStatus = "submitted"
	SessionPaused     SessionStatus = "paused"
	SessionAbandoned  SessionStatus = "abandoned"
	SessionFlagged    SessionStatus = "flagged"
)

type ExamSession struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ExamID    uint `json:"exam_id" gorm:"not null;index" validate:"required"`
	StudentID uint `json:"student_id" gorm:"not null;index" validate:"required"`

	StartedAt   time.Time  `json:"started_at" gorm:"not null"`
	EndedAt     *time.Time `json:"ended_at"`
	SubmittedAt *time.Time `json:"submitted_at"`

	Status SessionStatus `json:"status" gorm:"default:not_started;index" validate:"omitempty,oneof=not_started in_progress submitted paused abandoned flagged"`

	// Identity verification
	BiometricVerified   bool       `json:"biometric_verified" gorm:"default:false"`
	BiometricVerifiedAt *time.Time `json:"biometric_verified_at"`

	// Results
	Score           *float64 `json:"score" gorm:"type:decimal(6,2)"`
	PercentageScore *float64 `json:"percentage_score" gorm:"type:decimal(5,2)"`
	Passed          *bool    `json:"passed"`

	// Recording
	VideoRecordingURL *string        `json:"video_recording_url" gorm:"size:500"`
	RecordingMetadata datatypes.JSON `json:"recording_metadata"`

	// Client context
	ClientIP  string `json:"client_ip" gorm:"size:45"`
	UserAgent string `json:"user_agent" gorm:"type:text"`

	// Only ever incremented, never reset, for the life of the session.
	SuspiciousActivityCount int `json:"suspicious_activity_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ExamSession) TableName() string {
	return "exam_sessions"
}
