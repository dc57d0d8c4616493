package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type IncidentType string

const (
	IncidentAcademicDishonesty     IncidentType = "academic_dishonesty"
	IncidentIdentityMismatch       IncidentType = "identity_mismatch"
	IncidentUnauthorizedAssistance IncidentType = "unauthorized_assistance"
	IncidentTechnicalViolation     IncidentType = "technical_violation"
	IncidentOther                  IncidentType = "other"
)

type IncidentSeverity string

const (
	IncidentMinor    IncidentSeverity = "minor"
	IncidentModerate IncidentSeverity = "moderate"
	IncidentMajor    IncidentSeverity = "major"
	IncidentCritical IncidentSeverity = "critical"
)

type IncidentStatus string

const (
	IncidentPending       IncidentStatus = "pending"
	IncidentInvestigating IncidentStatus = "investigating"
	IncidentResolved      IncidentStatus = "resolved"
	IncidentAppealed      IncidentStatus = "appealed"
	IncidentDismissed     IncidentStatus = "dismissed"
)

type Incident struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	SessionID uint `json:"session_id" gorm:"not null;index" validate:"required"`

	IncidentType IncidentType     `json:"incident_type" gorm:"not null;size:30" validate:"required,oneof=academic_dishonesty identity_mismatch unauthorized_assistance technical_violation other"`
	Severity     IncidentSeverity `json:"severity" gorm:"not null;size:10" validate:"required,oneof=minor moderate major critical"`
	Description  string           `json:"description" gorm:"not null;type:text" validate:"required"`

	Status IncidentStatus `json:"status" gorm:"default:pending;index" validate:"omitempty,oneof=pending investigating resolved appealed dismissed"`

	ReportedBy     uint  `json:"reported_by" gorm:"not null;index" validate:"required"`
	InvestigatedBy *uint `json:"investigated_by"`

	Resolution        *string        `json:"resolution" gorm:"type:text"`
	RecommendedAction *string        `json:"recommended_action" gorm:"type:text"`
	EvidenceURLs      datatypes.JSON `json:"evidence_urls"`
	ResolvedAt        *time.Time     `json:"resolved_at"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Incident) TableName() string {
	return "incidents"
}
