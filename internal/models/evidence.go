package models

import (
	"time"
)

type VideoEvidence struct {
	ID         uint  `json:"id" gorm:"primaryKey"`
	SessionID  uint  `json:"session_id" gorm:"not null;index" validate:"required"`
	AlertID    *uint `json:"alert_id" gorm:"index"`
	IncidentID *uint `json:"incident_id" gorm:"index"`

	StorageURL  string `json:"storage_url" gorm:"not null;size:500" validate:"required,max=500"`
	FileSize    int64  `json:"file_size"` // bytes
	Duration    int    `json:"duration"`  // seconds
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	ContentType string `json:"content_type" gorm:"size:100"`

	RetentionDays int       `json:"retention_days" gorm:"default:90"`
	ExpiresAt     time.Time `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (VideoEvidence) TableName() string {
	return "video_evidence"
}
