package repositories

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/proctorhub/proctoring-service/internal/models"
)

// DefaultListLimit caps alert, incident and audit listings when the caller
// passes a non-positive limit.
const DefaultListLimit = 50

// UserUpsert carries the fields of an insert-or-update keyed by OpenID. Only
// non-nil optional fields participate in the update clause; OpenID itself is
// required and never updated.
type UserUpsert struct {
	OpenID       string `validate:"required,max=255"`
	Name         *string
	Email        *string `validate:"omitempty,email"`
	Role         *models.UserRole
	LoginMethod  *string
	PhotoURL     *string
	Department   *string
	StudentID    *string
	LastSignedIn *time.Time
}

// SessionUpdate is the partial field set accepted by UpdateExamSession. The
// suspicious-activity counter is deliberately absent: it moves only through
// IncrementSuspiciousActivity.
type SessionUpdate struct {
	Status              *models.SessionStatus `validate:"omitempty,oneof=not_started in_progress submitted paused abandoned flagged"`
	EndedAt             *time.Time
	SubmittedAt         *time.Time
	BiometricVerified   *bool
	BiometricVerifiedAt *time.Time
	Score               *float64
	PercentageScore     *float64
	Passed              *bool
	VideoRecordingURL   *string
	RecordingMetadata   datatypes.JSON
}

// IncidentUpdate is the partial field set accepted by UpdateIncident.
type IncidentUpdate struct {
	Status            *models.IncidentStatus   `validate:"omitempty,oneof=pending investigating resolved appealed dismissed"`
	Severity          *models.IncidentSeverity `validate:"omitempty,oneof=minor moderate major critical"`
	InvestigatedBy    *uint
	Resolution        *string
	RecommendedAction *string
	EvidenceURLs      datatypes.JSON
	ResolvedAt        *time.Time
}

// Store is the persistence contract shared by both backends. Get methods
// return (nil, nil) when the record does not exist; they never signal
// absence through an error.
type Store interface {
	// Users
	UpsertUser(ctx context.Context, in UserUpsert) (*models.User, error)
	GetUserByOpenID(ctx context.Context, openID string) (*models.User, error)
	UpdateUserRole(ctx context.Context, id uint, role models.UserRole) error

	// Exams
	CreateExam(ctx context.Context, exam *models.Exam) error
	GetExamByID(ctx context.Context, id uint) (*models.Exam, error)
	ListExams(ctx context.Context, status *models.ExamStatus) ([]*models.Exam, error)

	// Exam sessions
	CreateExamSession(ctx context.Context, session *models.ExamSession) error
	GetExamSessionByID(ctx context.Context, id uint) (*models.ExamSession, error)
	UpdateExamSession(ctx context.Context, id uint, upd SessionUpdate) error
	ListActiveSessions(ctx context.Context) ([]*models.ExamSession, error)
	ListSessionsByStudent(ctx context.Context, studentID uint, examID *uint) ([]*models.ExamSession, error)
	IncrementSuspiciousActivity(ctx context.Context, sessionID uint) error

	// Alerts
	CreateAlert(ctx context.Context, alert *models.Alert) error
	GetAlertByID(ctx context.Context, id uint) (*models.Alert, error)
	ListAlertsBySession(ctx context.Context, sessionID uint) ([]*models.Alert, error)
	AcknowledgeAlert(ctx context.Context, id, userID uint, notes string) error
	ListUnacknowledgedAlerts(ctx context.Context, limit int) ([]*models.Alert, error)

	// Incidents
	CreateIncident(ctx context.Context, incident *models.Incident) error
	GetIncidentByID(ctx context.Context, id uint) (*models.Incident, error)
	ListIncidentsBySession(ctx context.Context, sessionID uint) ([]*models.Incident, error)
	UpdateIncident(ctx context.Context, id uint, upd IncidentUpdate) error
	ListIncidents(ctx context.Context, status *models.IncidentStatus, limit int) ([]*models.Incident, error)

	// Video evidence
	CreateVideoEvidence(ctx context.Context, evidence *models.VideoEvidence) error
	ListEvidenceBySession(ctx context.Context, sessionID uint) ([]*models.VideoEvidence, error)
	ListEvidenceByAlert(ctx context.Context, alertID uint) ([]*models.VideoEvidence, error)

	// Fraud analytics, upserted by (period, courseCode)
	UpsertFraudAnalytics(ctx context.Context, row *models.FraudAnalytics) error
	ListAnalyticsByPeriod(ctx context.Context, period string) ([]*models.FraudAnalytics, error)
	ListAnalyticsByCourse(ctx context.Context, courseCode string) ([]*models.FraudAnalytics, error)
	ListAnalyticsByDepartment(ctx context.Context, department string) ([]*models.FraudAnalytics, error)

	// Audit log
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]*models.AuditLog, error)

	// Ops
	Ping(ctx context.Context) error
	Backend() string
}

// FieldValue is one present field of a partial update, named by the contract's
// camelCase field name. Adapters translate the name through their own column
// tables.
type FieldValue struct {
	Name  string
	Value any
}

// Fields returns the present fields of the update in declaration order.
func (u SessionUpdate) Fields() []FieldValue {
	var fv []FieldValue
	if u.Status != nil {
		fv = append(fv, FieldValue{"status", *u.Status})
	}
	if u.EndedAt != nil {
		fv = append(fv, FieldValue{"endedAt", *u.EndedAt})
	}
	if u.SubmittedAt != nil {
		fv = append(fv, FieldValue{"submittedAt", *u.SubmittedAt})
	}
	if u.BiometricVerified != nil {
		fv = append(fv, FieldValue{"biometricVerified", *u.BiometricVerified})
	}
	if u.BiometricVerifiedAt != nil {
		fv = append(fv, FieldValue{"biometricVerifiedAt", *u.BiometricVerifiedAt})
	}
	if u.Score != nil {
		fv = append(fv, FieldValue{"score", *u.Score})
	}
	if u.PercentageScore != nil {
		fv = append(fv, FieldValue{"percentageScore", *u.PercentageScore})
	}
	if u.Passed != nil {
		fv = append(fv, FieldValue{"passed", *u.Passed})
	}
	if u.VideoRecordingURL != nil {
		fv = append(fv, FieldValue{"videoRecordingUrl", *u.VideoRecordingURL})
	}
	if u.RecordingMetadata != nil {
		fv = append(fv, FieldValue{"recordingMetadata", u.RecordingMetadata})
	}
	return fv
}

// Fields returns the present fields of the update in declaration order.
func (u IncidentUpdate) Fields() []FieldValue {
	var fv []FieldValue
	if u.Status != nil {
		fv = append(fv, FieldValue{"status", *u.Status})
	}
	if u.Severity != nil {
		fv = append(fv, FieldValue{"severity", *u.Severity})
	}
	if u.InvestigatedBy != nil {
		fv = append(fv, FieldValue{"investigatedBy", *u.InvestigatedBy})
	}
	if u.Resolution != nil {
		fv = append(fv, FieldValue{"resolution", *u.Resolution})
	}
	if u.RecommendedAction != nil {
		fv = append(fv, FieldValue{"recommendedAction", *u.RecommendedAction})
	}
	if u.EvidenceURLs != nil {
		fv = append(fv, FieldValue{"evidenceUrls", u.EvidenceURLs})
	}
	if u.ResolvedAt != nil {
		fv = append(fv, FieldValue{"resolvedAt", *u.ResolvedAt})
	}
	return fv
}
