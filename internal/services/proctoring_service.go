package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/proctorhub/proctoring-service/internal/cache"
	"github.com/proctorhub/proctoring-service/internal/events"
	"github.com/proctorhub/proctoring-service/internal/export"
	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
	"github.com/proctorhub/proctoring-service/internal/utils"
	"github.com/proctorhub/proctoring-service/internal/validator"
)

const examCacheTTL = 5 * time.Minute

// ProctoringService is the application-facing surface over the storage
// contract. It adds input validation, event publishing, audit trail writes
// and exam read caching; storage errors pass through unchanged.
type ProctoringService interface {
	// Users
	UpsertUser(ctx context.Context, in repositories.UserUpsert) (*models.User, error)
	GetUserByOpenID(ctx context.Context, openID string) (*models.User, error)
	UpdateUserRole(ctx context.Context, actorID, userID uint, role models.UserRole) error

	// Exams
	CreateExam(ctx context.Context, exam *models.Exam) error
	GetExamByID(ctx context.Context, id uint) (*models.Exam, error)
	ListExams(ctx context.Context, status *models.ExamStatus) ([]*models.Exam, error)

	// Sessions
	CreateExamSession(ctx context.Context, session *models.ExamSession) error
	GetExamSessionByID(ctx context.Context, id uint) (*models.ExamSession, error)
	UpdateExamSession(ctx context.Context, id uint, upd repositories.SessionUpdate) error
	ListActiveSessions(ctx context.Context) ([]*models.ExamSession, error)
	ListSessionsByStudent(ctx context.Context, studentID uint, examID *uint) ([]*models.ExamSession, error)
	RecordSuspiciousActivity(ctx context.Context, sessionID uint) error
	FlagSession(ctx context.Context, sessionID, actorID uint) error

	// Alerts
	CreateAlert(ctx context.Context, alert *models.Alert) error
	GetAlertByID(ctx context.Context, id uint) (*models.Alert, error)
	ListAlertsBySession(ctx context.Context, sessionID uint) ([]*models.Alert, error)
	ListUnacknowledgedAlerts(ctx context.Context, limit int) ([]*models.Alert, error)
	AcknowledgeAlert(ctx context.Context, alertID, actorID uint, notes string) error

	// Incidents
	CreateIncident(ctx context.Context, incident *models.Incident) error
	GetIncidentByID(ctx context.Context, id uint) (*models.Incident, error)
	ListIncidentsBySession(ctx context.Context, sessionID uint) ([]*models.Incident, error)
	ListIncidents(ctx context.Context, status *models.IncidentStatus, limit int) ([]*models.Incident, error)
	ResolveIncident(ctx context.Context, incidentID, actorID uint, upd repositories.IncidentUpdate) error
	UpdateIncident(ctx context.Context, id uint, upd repositories.IncidentUpdate) error

	// Evidence
	CreateVideoEvidence(ctx context.Context, evidence *models.VideoEvidence) error
	ListEvidenceBySession(ctx context.Context, sessionID uint) ([]*models.VideoEvidence, error)
	ListEvidenceByAlert(ctx context.Context, alertID uint) ([]*models.VideoEvidence, error)

	// Analytics
	UpsertFraudAnalytics(ctx context.Context, row *models.FraudAnalytics) error
	ListAnalyticsByPeriod(ctx context.Context, period string) ([]*models.FraudAnalytics, error)
	ListAnalyticsByCourse(ctx context.Context, courseCode string) ([]*models.FraudAnalytics, error)
	ListAnalyticsByDepartment(ctx context.Context, department string) ([]*models.FraudAnalytics, error)
	ExportAnalyticsByPeriod(ctx context.Context, period string) ([]byte, error)

	// Audit
	ListAuditLogs(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

type proctoringService struct {
	store     repositories.Store
	publisher events.EventPublisher
	cache     cache.CacheService
	validator *validator.Validator
	exporter  *export.AnalyticsExporter
	logger    utils.Logger
}

func NewProctoringService(
	store repositories.Store,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
	v *validator.Validator,
	logger utils.Logger,
) ProctoringService {
	return &proctoringService{
		store:     store,
		publisher: publisher,
		cache:     cacheService,
		validator: v,
		exporter:  export.NewAnalyticsExporter(),
		logger:    logger,
	}
}

// ===== USERS =====

func (s *proctoringService) UpsertUser(ctx context.Context, in repositories.UserUpsert) (*models.User, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	return s.store.UpsertUser(ctx, in)
}

func (s *proctoringService) GetUserByOpenID(ctx context.Context, openID string) (*models.User, error) {
	return s.store.GetUserByOpenID(ctx, openID)
}

func (s *proctoringService) UpdateUserRole(ctx context.Context, actorID, userID uint, role models.UserRole) error {
	if err := s.store.UpdateUserRole(ctx, userID, role); err != nil {
		return err
	}
	s.audit(ctx, models.AuditRoleChanged, actorID, "user", &userID,
		fmt.Sprintf("role changed to %s", role))
	return nil
}

// ===== EXAMS =====

func (s *proctoringService) CreateExam(ctx context.Context, exam *models.Exam) error {
	if err := s.validator.ValidateExam(exam); err != nil {
		return err
	}
	if err := s.store.CreateExam(ctx, exam); err != nil {
		return err
	}
	s.audit(ctx, models.AuditExamCreated, exam.CreatedBy, "exam", &exam.ID, exam.Title)
	return nil
}

// GetExamByID serves exams through the cache. Cache failures degrade to a
// direct read; they never fail the call.
func (s *proctoringService) GetExamByID(ctx context.Context, id uint) (*models.Exam, error) {
	key := examCacheKey(id)
	if s.cache != nil {
		var cached models.Exam
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("exam cache read failed", "exam_id", id, "error", err)
		}
	}

	exam, err := s.store.GetExamByID(ctx, id)
	if err != nil || exam == nil {
		return exam, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, exam, examCacheTTL); err != nil {
			s.logger.Warn("exam cache write failed", "exam_id", id, "error", err)
		}
	}
	return exam, nil
}

func (s *proctoringService) ListExams(ctx context.Context, status *models.ExamStatus) ([]*models.Exam, error) {
	return s.store.ListExams(ctx, status)
}

// ===== SESSIONS =====

func (s *proctoringService) CreateExamSession(ctx context.Context, session *models.ExamSession) error {
	return s.store.CreateExamSession(ctx, session)
}

func (s *proctoringService) GetExamSessionByID(ctx context.Context, id uint) (*models.ExamSession, error) {
	return s.store.GetExamSessionByID(ctx, id)
}

func (s *proctoringService) UpdateExamSession(ctx context.Context, id uint, upd repositories.SessionUpdate) error {
	if err := s.validator.Struct(upd); err != nil {
		return err
	}
	return s.store.UpdateExamSession(ctx, id, upd)
}

func (s *proctoringService) ListActiveSessions(ctx context.Context) ([]*models.ExamSession, error) {
	return s.store.ListActiveSessions(ctx)
}

func (s *proctoringService) ListSessionsByStudent(ctx context.Context, studentID uint, examID *uint) ([]*models.ExamSession, error) {
	return s.store.ListSessionsByStudent(ctx, studentID, examID)
}

func (s *proctoringService) RecordSuspiciousActivity(ctx context.Context, sessionID uint) error {
	return s.store.IncrementSuspiciousActivity(ctx, sessionID)
}

// FlagSession marks a session for review and raises the session.flagged
// event with the session's current counters.
func (s *proctoringService) FlagSession(ctx context.Context, sessionID, actorID uint) error {
	flagged := models.SessionFlagged
	if err := s.store.UpdateExamSession(ctx, sessionID, repositories.SessionUpdate{Status: &flagged}); err != nil {
		return err
	}

	s.audit(ctx, models.AuditSessionFlagged, actorID, "session", &sessionID, "session flagged for review")

	session, err := s.store.GetExamSessionByID(ctx, sessionID)
	if err != nil || session == nil {
		s.logger.Warn("flagged session could not be reloaded for event publishing",
			"session_id", sessionID, "error", err)
		return nil
	}
	s.publish(ctx, events.NewSessionFlaggedEvent(session))
	return nil
}

// ===== ALERTS =====

func (s *proctoringService) CreateAlert(ctx context.Context, alert *models.Alert) error {
	if err := s.validator.ValidateAlert(alert); err != nil {
		return err
	}
	if err := s.store.CreateAlert(ctx, alert); err != nil {
		return err
	}
	s.publish(ctx, events.NewAlertCreatedEvent(alert))
	return nil
}

func (s *proctoringService) GetAlertByID(ctx context.Context, id uint) (*models.Alert, error) {
	return s.store.GetAlertByID(ctx, id)
}

func (s *proctoringService) ListAlertsBySession(ctx context.Context, sessionID uint) ([]*models.Alert, error) {
	return s.store.ListAlertsBySession(ctx, sessionID)
}

func (s *proctoringService) ListUnacknowledgedAlerts(ctx context.Context, limit int) ([]*models.Alert, error) {
	return s.store.ListUnacknowledgedAlerts(ctx, limit)
}

func (s *proctoringService) AcknowledgeAlert(ctx context.Context, alertID, actorID uint, notes string) error {
	if err := s.store.AcknowledgeAlert(ctx, alertID, actorID, notes); err != nil {
		return err
	}

	s.audit(ctx, models.AuditAlertAcknowledged, actorID, "alert", &alertID, "alert acknowledged")

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}
	s.publish(ctx, events.NewAlertAcknowledgedEvent(alertID, actorID, time.Now(), notesPtr))
	return nil
}

// ===== INCIDENTS =====

func (s *proctoringService) CreateIncident(ctx context.Context, incident *models.Incident) error {
	if err := s.validator.Struct(incident); err != nil {
		return err
	}
	if err := s.store.CreateIncident(ctx, incident); err != nil {
		return err
	}
	s.audit(ctx, models.AuditIncidentCreated, incident.ReportedBy, "incident", &incident.ID,
		string(incident.IncidentType))
	s.publish(ctx, events.NewIncidentCreatedEvent(incident))
	return nil
}

func (s *proctoringService) GetIncidentByID(ctx context.Context, id uint) (*models.Incident, error) {
	return s.store.GetIncidentByID(ctx, id)
}

func (s *proctoringService) ListIncidentsBySession(ctx context.Context, sessionID uint) ([]*models.Incident, error) {
	return s.store.ListIncidentsBySession(ctx, sessionID)
}

func (s *proctoringService) ListIncidents(ctx context.Context, status *models.IncidentStatus, limit int) ([]*models.Incident, error) {
	return s.store.ListIncidents(ctx, status, limit)
}

func (s *proctoringService) UpdateIncident(ctx context.Context, id uint, upd repositories.IncidentUpdate) error {
	if err := s.validator.Struct(upd); err != nil {
		return err
	}
	return s.store.UpdateIncident(ctx, id, upd)
}

// ResolveIncident closes out an investigation: the update is applied with a
// resolved status and timestamp, the actor is recorded as investigator when
// not already set, and the resolution is audited and published.
func (s *proctoringService) ResolveIncident(ctx context.Context, incidentID, actorID uint, upd repositories.IncidentUpdate) error {
	resolvedAt := time.Now()
	if upd.Status == nil {
		resolved := models.IncidentResolved
		upd.Status = &resolved
	}
	if upd.ResolvedAt == nil {
		upd.ResolvedAt = &resolvedAt
	}
	if upd.InvestigatedBy == nil {
		upd.InvestigatedBy = &actorID
	}
	if err := s.validator.Struct(upd); err != nil {
		return err
	}
	if err := s.store.UpdateIncident(ctx, incidentID, upd); err != nil {
		return err
	}

	s.audit(ctx, models.AuditIncidentResolved, actorID, "incident", &incidentID, "incident resolved")

	incident, err := s.store.GetIncidentByID(ctx, incidentID)
	if err != nil || incident == nil {
		s.logger.Warn("resolved incident could not be reloaded for event publishing",
			"incident_id", incidentID, "error", err)
		return nil
	}
	s.publish(ctx, events.NewIncidentResolvedEvent(incident, resolvedAt))
	return nil
}

// ===== EVIDENCE =====

func (s *proctoringService) CreateVideoEvidence(ctx context.Context, evidence *models.VideoEvidence) error {
	return s.store.CreateVideoEvidence(ctx, evidence)
}

func (s *proctoringService) ListEvidenceBySession(ctx context.Context, sessionID uint) ([]*models.VideoEvidence, error) {
	return s.store.ListEvidenceBySession(ctx, sessionID)
}

func (s *proctoringService) ListEvidenceByAlert(ctx context.Context, alertID uint) ([]*models.VideoEvidence, error) {
	return s.store.ListEvidenceByAlert(ctx, alertID)
}

// ===== ANALYTICS =====

func (s *proctoringService) UpsertFraudAnalytics(ctx context.Context, row *models.FraudAnalytics) error {
	if err := s.validator.Struct(row); err != nil {
		return err
	}
	return s.store.UpsertFraudAnalytics(ctx, row)
}

func (s *proctoringService) ListAnalyticsByPeriod(ctx context.Context, period string) ([]*models.FraudAnalytics, error) {
	return s.store.ListAnalyticsByPeriod(ctx, period)
}

func (s *proctoringService) ListAnalyticsByCourse(ctx context.Context, courseCode string) ([]*models.FraudAnalytics, error) {
	return s.store.ListAnalyticsByCourse(ctx, courseCode)
}

func (s *proctoringService) ListAnalyticsByDepartment(ctx context.Context, department string) ([]*models.FraudAnalytics, error) {
	return s.store.ListAnalyticsByDepartment(ctx, department)
}

func (s *proctoringService) ExportAnalyticsByPeriod(ctx context.Context, period string) ([]byte, error) {
	rows, err := s.store.ListAnalyticsByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	return s.exporter.ExportToExcel(rows)
}

// ===== AUDIT =====

func (s *proctoringService) ListAuditLogs(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	return s.store.ListAuditLogs(ctx, limit)
}

// audit records a trail entry. A failed audit write is logged but never
// fails the operation it describes.
func (s *proctoringService) audit(ctx context.Context, eventType models.AuditEventType, actorID uint, targetType string, targetID *uint, description string) {
	entry := &models.AuditLog{
		EventType:   eventType,
		UserID:      actorID,
		TargetType:  targetType,
		TargetID:    targetID,
		Description: description,
	}
	if err := s.store.CreateAuditLog(ctx, entry); err != nil {
		s.logger.LogError(err, "audit log write failed",
			"event_type", eventType, "target_type", targetType)
	}
}

// publish sends an event. Publishing is best effort: a broker outage must
// not roll back a committed storage write.
func (s *proctoringService) publish(ctx context.Context, event *events.ProctoringEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProctoringEvent(ctx, event); err != nil {
		s.logger.LogError(err, "event publish failed", "event_type", event.Type)
	}
}

func examCacheKey(id uint) string {
	return fmt.Sprintf("exam:%d", id)
}
