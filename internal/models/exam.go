package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ExamStatus string

const (
	ExamDraft     ExamStatus = "draft"
	ExamScheduled ExamStatus = "scheduled"
	ExamActive    ExamStatus = "active"
	ExamCompleted ExamStatus = "completed"
	ExamCancelled ExamStatus = "cancelled"
)

type DetectionSensitivity string

const (
	SensitivityLow    DetectionSensitivity = "low"
	SensitivityMedium DetectionSensitivity = "medium"
	SensitivityHigh   DetectionSensitivity = "high"
)

type Exam struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	CourseCode  string  `json:"course_code" gorm:"not null;size:50;index" validate:"required,max=50"`
	Department  string  `json:"department" gorm:"not null;size:100" validate:"required,max=100"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`

	// Exam parameters
	Duration       int        `json:"duration" gorm:"not null" validate:"required,min=1,max=600"` // minutes
	TotalQuestions *int       `json:"total_questions" validate:"omitempty,min=1"`
	MaxScore       *float64   `json:"max_score" gorm:"type:decimal(6,2)"`
	PassingScore   *float64   `json:"passing_score" gorm:"type:decimal(6,2)"`
	ScheduledStart time.Time  `json:"scheduled_start" gorm:"not null;index" validate:"required"`
	ScheduledEnd   *time.Time `json:"scheduled_end"`

	Status ExamStatus `json:"status" gorm:"default:draft;index" validate:"omitempty,oneof=draft scheduled active completed cancelled"`

	// Proctoring settings
	DetectionSensitivity DetectionSensitivity `json:"detection_sensitivity" gorm:"default:medium;size:10" validate:"omitempty,oneof=low medium high"`
	RequireBiometric     bool                 `json:"require_biometric" gorm:"default:false"`
	AllowedDevices       datatypes.JSON       `json:"allowed_devices"`

	CreatedBy uint           `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Exam) TableName() string {
	return "exams"
}

// TerminalStatus reports whether no further status transitions are allowed.
func (e *Exam) TerminalStatus() bool {
	return e.Status == ExamCompleted || e.Status == ExamCancelled
}
