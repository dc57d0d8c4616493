package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/proctorhub/proctoring-service/internal/cache"
	"github.com/proctorhub/proctoring-service/internal/events"
	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
	"github.com/proctorhub/proctoring-service/internal/utils"
	"github.com/proctorhub/proctoring-service/internal/validator"
)

// MockStore is a mock implementation of repositories.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) UpsertUser(ctx context.Context, in repositories.UserUpsert) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetUserByOpenID(ctx context.Context, openID string) (*models.User, error) {
	args := m.Called(ctx, openID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) UpdateUserRole(ctx context.Context, id uint, role models.UserRole) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockStore) CreateExam(ctx context.Context, exam *models.Exam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockStore) GetExamByID(ctx context.Context, id uint) (*models.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockStore) ListExams(ctx context.Context, status *models.ExamStatus) ([]*models.Exam, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Exam), args.Error(1)
}

func (m *MockStore) CreateExamSession(ctx context.Context, session *models.ExamSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockStore) GetExamSessionByID(ctx context.Context, id uint) (*models.ExamSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamSession), args.Error(1)
}

func (m *MockStore) UpdateExamSession(ctx context.Context, id uint, upd repositories.SessionUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockStore) ListActiveSessions(ctx context.Context) ([]*models.ExamSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ExamSession), args.Error(1)
}

func (m *MockStore) ListSessionsByStudent(ctx context.Context, studentID uint, examID *uint) ([]*models.ExamSession, error) {
	args := m.Called(ctx, studentID, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ExamSession), args.Error(1)
}

func (m *MockStore) IncrementSuspiciousActivity(ctx context.Context, sessionID uint) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockStore) CreateAlert(ctx context.Context, alert *models.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockStore) GetAlertByID(ctx context.Context, id uint) (*models.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

func (m *MockStore) ListAlertsBySession(ctx context.Context, sessionID uint) ([]*models.Alert, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Alert), args.Error(1)
}

func (m *MockStore) AcknowledgeAlert(ctx context.Context, id, userID uint, notes string) error {
	args := m.Called(ctx, id, userID, notes)
	return args.Error(0)
}

func (m *MockStore) ListUnacknowledgedAlerts(ctx context.Context, limit int) ([]*models.Alert, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Alert), args.Error(1)
}

func (m *MockStore) CreateIncident(ctx context.Context, incident *models.Incident) error {
	args := m.Called(ctx, incident)
	return args.Error(0)
}

func (m *MockStore) GetIncidentByID(ctx context.Context, id uint) (*models.Incident, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Incident), args.Error(1)
}

func (m *MockStore) ListIncidentsBySession(ctx context.Context, sessionID uint) ([]*models.Incident, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Incident), args.Error(1)
}

func (m *MockStore) UpdateIncident(ctx context.Context, id uint, upd repositories.IncidentUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockStore) ListIncidents(ctx context.Context, status *models.IncidentStatus, limit int) ([]*models.Incident, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Incident), args.Error(1)
}

func (m *MockStore) CreateVideoEvidence(ctx context.Context, evidence *models.VideoEvidence) error {
	args := m.Called(ctx, evidence)
	return args.Error(0)
}

func (m *MockStore) ListEvidenceBySession(ctx context.Context, sessionID uint) ([]*models.VideoEvidence, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.VideoEvidence), args.Error(1)
}

func (m *MockStore) ListEvidenceByAlert(ctx context.Context, alertID uint) ([]*models.VideoEvidence, error) {
	args := m.Called(ctx, alertID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.VideoEvidence), args.Error(1)
}

func (m *MockStore) UpsertFraudAnalytics(ctx context.Context, row *models.FraudAnalytics) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockStore) ListAnalyticsByPeriod(ctx context.Context, period string) ([]*models.FraudAnalytics, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FraudAnalytics), args.Error(1)
}

func (m *MockStore) ListAnalyticsByCourse(ctx context.Context, courseCode string) ([]*models.FraudAnalytics, error) {
	args := m.Called(ctx, courseCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FraudAnalytics), args.Error(1)
}

func (m *MockStore) ListAnalyticsByDepartment(ctx context.Context, department string) ([]*models.FraudAnalytics, error) {
	args := m.Called(ctx, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FraudAnalytics), args.Error(1)
}

func (m *MockStore) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStore) ListAuditLogs(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) Backend() string {
	args := m.Called()
	return args.String(0)
}

func newTestService(store repositories.Store) (ProctoringService, *events.MockEventPublisher) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := events.NewMockEventPublisher(logger)
	svc := NewProctoringService(store, publisher, nil, validator.New(), utils.NewSlogLogger(logger))
	return svc, publisher
}

func validAlert() *models.Alert {
	return &models.Alert{
		SessionID:  1,
		AlertType:  models.AlertPhoneDetected,
		Severity:   models.SeverityHigh,
		Confidence: 88.5,
	}
}

func TestCreateAlertPublishesEvent(t *testing.T) {
	store := new(MockStore)
	svc, publisher := newTestService(store)
	ctx := context.Background()

	alert := validAlert()
	store.On("CreateAlert", ctx, alert).Return(nil)

	require.NoError(t, svc.CreateAlert(ctx, alert))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventAlertCreated, published[0].Type)

	data, ok := published[0].Data.(events.AlertCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, models.AlertPhoneDetected, data.AlertType)
	assert.Equal(t, 88.5, data.Confidence)

	store.AssertExpectations(t)
}

func TestCreateAlertRejectsInvalidConfidence(t *testing.T) {
	store := new(MockStore)
	svc, publisher := newTestService(store)

	alert := validAlert()
	alert.Confidence = 130

	err := svc.CreateAlert(context.Background(), alert)
	require.Error(t, err)
	assert.Empty(t, publisher.GetPublishedEvents())
	store.AssertNotCalled(t, "CreateAlert", mock.Anything, mock.Anything)
}

func TestCreateAlertStoreErrorPropagates(t *testing.T) {
	store := new(MockStore)
	svc, publisher := newTestService(store)
	ctx := context.Background()

	storeErr := errors.New("connection reset")
	alert := validAlert()
	store.On("CreateAlert", ctx, alert).Return(storeErr)

	err := svc.CreateAlert(ctx, alert)
	assert.ErrorIs(t, err, storeErr)
	assert.Empty(t, publisher.GetPublishedEvents(), "no event without a committed write")
}

func TestAcknowledgeAlertWritesAuditAndEvent(t *testing.T) {
	store := new(MockStore)
	svc, publisher := newTestService(store)
	ctx := context.Background()

	store.On("AcknowledgeAlert", ctx, uint(5), uint(9), "reviewed").Return(nil)
	store.On("CreateAuditLog", ctx, mock.MatchedBy(func(entry *models.AuditLog) bool {
		return entry.EventType == models.AuditAlertAcknowledged &&
			entry.UserID == 9 &&
			entry.TargetType == "alert" &&
			entry.TargetID != nil && *entry.TargetID == 5
	})).Return(nil)

	require.NoError(t, svc.AcknowledgeAlert(ctx, 5, 9, "reviewed"))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventAlertAcknowledged, published[0].Type)

	store.AssertExpectations(t)
}

func TestAcknowledgeAlertAuditFailureDoesNotFailCall(t *testing.T) {
	store := new(MockStore)
	svc, _ := newTestService(store)
	ctx := context.Background()

	store.On("AcknowledgeAlert", ctx, uint(5), uint(9), "").Return(nil)
	store.On("CreateAuditLog", ctx, mock.Anything).Return(errors.New("audit table locked"))

	assert.NoError(t, svc.AcknowledgeAlert(ctx, 5, 9, ""))
}

func TestCreateIncidentAuditsAndPublishes(t *testing.T) {
	store := new(MockStore)
	svc, publisher := newTestService(store)
	ctx := context.Background()

	incident := &models.Incident{
		SessionID:    3,
		IncidentType: models.IncidentIdentityMismatch,
		Severity:     models.IncidentMajor,
		Description:  "face mismatch during biometric check",
		ReportedBy:   7,
	}
	store.On("CreateIncident", ctx, incident).Return(nil)
	store.On("CreateAuditLog", ctx, mock.Anything).Return(nil)

	require.NoError(t, svc.CreateIncident(ctx, incident))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventIncidentCreated, published[0].Type)
	store.AssertExpectations(t)
}

func TestResolveIncidentDefaultsStatusAndInvestigator(t *testing.T) {
	store := new(MockStore)
	svc, publisher := newTestService(store)
	ctx := context.Background()

	store.On("UpdateIncident", ctx, uint(11), mock.MatchedBy(func(upd repositories.IncidentUpdate) bool {
		return upd.Status != nil && *upd.Status == models.IncidentResolved &&
			upd.InvestigatedBy != nil && *upd.InvestigatedBy == 4 &&
			upd.ResolvedAt != nil
	})).Return(nil)
	store.On("CreateAuditLog", ctx, mock.Anything).Return(nil)
	store.On("GetIncidentByID", ctx, uint(11)).Return(&models.Incident{
		ID:        11,
		SessionID: 3,
		Status:    models.IncidentResolved,
	}, nil)

	require.NoError(t, svc.ResolveIncident(ctx, 11, 4, repositories.IncidentUpdate{}))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventIncidentResolved, published[0].Type)
	store.AssertExpectations(t)
}

func TestFlagSessionUpdatesAuditsAndPublishes(t *testing.T) {
	store := new(MockStore)
	svc, publisher := newTestService(store)
	ctx := context.Background()

	store.On("UpdateExamSession", ctx, uint(21), mock.MatchedBy(func(upd repositories.SessionUpdate) bool {
		return upd.Status != nil && *upd.Status == models.SessionFlagged
	})).Return(nil)
	store.On("CreateAuditLog", ctx, mock.Anything).Return(nil)
	store.On("GetExamSessionByID", ctx, uint(21)).Return(&models.ExamSession{
		ID:                      21,
		ExamID:                  2,
		StudentID:               77,
		SuspiciousActivityCount: 6,
	}, nil)

	require.NoError(t, svc.FlagSession(ctx, 21, 4))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSessionFlagged, published[0].Type)

	data, ok := published[0].Data.(events.SessionFlaggedEvent)
	require.True(t, ok)
	assert.Equal(t, 6, data.SuspiciousActivityCount)
	store.AssertExpectations(t)
}

func TestGetExamByIDWithoutCacheDelegates(t *testing.T) {
	store := new(MockStore)
	svc, _ := newTestService(store)
	ctx := context.Background()

	exam := &models.Exam{ID: 1, Title: "Databases Final"}
	store.On("GetExamByID", ctx, uint(1)).Return(exam, nil)

	got, err := svc.GetExamByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, exam, got)
}

func TestRecordSuspiciousActivityDelegates(t *testing.T) {
	store := new(MockStore)
	svc, _ := newTestService(store)
	ctx := context.Background()

	store.On("IncrementSuspiciousActivity", ctx, uint(8)).Return(nil)
	assert.NoError(t, svc.RecordSuspiciousActivity(ctx, 8))
	store.AssertExpectations(t)
}

func TestUpdateUserRoleAudits(t *testing.T) {
	store := new(MockStore)
	svc, _ := newTestService(store)
	ctx := context.Background()

	store.On("UpdateUserRole", ctx, uint(2), models.RoleProctor).Return(nil)
	store.On("CreateAuditLog", ctx, mock.MatchedBy(func(entry *models.AuditLog) bool {
		return entry.EventType == models.AuditRoleChanged && entry.TargetType == "user"
	})).Return(nil)

	require.NoError(t, svc.UpdateUserRole(ctx, 4, 2, models.RoleProctor))
	store.AssertExpectations(t)
}

func TestListAnalyticsByCourseDelegates(t *testing.T) {
	store := new(MockStore)
	svc, _ := newTestService(store)
	ctx := context.Background()

	rows := []*models.FraudAnalytics{{ID: 1, Period: "2025-WS"}}
	store.On("ListAnalyticsByCourse", ctx, "CS-401").Return(rows, nil)

	got, err := svc.ListAnalyticsByCourse(ctx, "CS-401")
	require.NoError(t, err)
	assert.Equal(t, rows, got)
	store.AssertExpectations(t)
}

func TestListAnalyticsByDepartmentDelegates(t *testing.T) {
	store := new(MockStore)
	svc, _ := newTestService(store)
	ctx := context.Background()

	rows := []*models.FraudAnalytics{{ID: 2, Period: "2025-WS"}}
	store.On("ListAnalyticsByDepartment", ctx, "Computer Science").Return(rows, nil)

	got, err := svc.ListAnalyticsByDepartment(ctx, "Computer Science")
	require.NoError(t, err)
	assert.Equal(t, rows, got)
	store.AssertExpectations(t)
}

// wrappedMissCache always misses, returning the miss sentinel wrapped in
// additional context.
type wrappedMissCache struct {
	sets int
}

func (c *wrappedMissCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.sets++
	return nil
}

func (c *wrappedMissCache) Get(ctx context.Context, key string, dest interface{}) error {
	return fmt.Errorf("cache get %s: %w", key, cache.ErrCacheMiss)
}

func (c *wrappedMissCache) Delete(ctx context.Context, key string) error { return nil }

func (c *wrappedMissCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func TestGetExamByIDWrappedCacheMissIsSilent(t *testing.T) {
	store := new(MockStore)
	missCache := &wrappedMissCache{}

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	svc := NewProctoringService(store, events.NewMockEventPublisher(logger), missCache,
		validator.New(), utils.NewSlogLogger(logger))
	ctx := context.Background()

	exam := &models.Exam{ID: 3, Title: "Operating Systems Final"}
	store.On("GetExamByID", ctx, uint(3)).Return(exam, nil)

	got, err := svc.GetExamByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, exam, got)
	assert.Equal(t, 1, missCache.sets)
	assert.NotContains(t, logBuf.String(), "exam cache read failed")
	store.AssertExpectations(t)
}
