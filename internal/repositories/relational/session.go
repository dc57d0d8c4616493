package relational

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
)

func (s *Store) CreateExamSession(ctx context.Context, session *models.ExamSession) error {
	if s.db == nil {
		return repositories.ErrDatabaseNotAvailable
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return s.fail("create exam session", err)
	}
	return nil
}

func (s *Store) GetExamSessionByID(ctx context.Context, id uint) (*models.ExamSession, error) {
	if s.db == nil {
		return nil, nil
	}
	var session models.ExamSession
	err := s.db.WithContext(ctx).First(&session, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get exam session", err)
	}
	return &session, nil
}

func (s *Store) UpdateExamSession(ctx context.Context, id uint, upd repositories.SessionUpdate) error {
	if s.db == nil {
		return repositories.ErrDatabaseNotAvailable
	}
	values, err := updateMap(sessionColumns, upd.Fields())
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).
		Model(&models.ExamSession{}).
		Where("id = ?", id).
		Updates(values).Error
	if err != nil {
		return s.fail("update exam session", err)
	}
	return nil
}

func (s *Store) ListActiveSessions(ctx context.Context) ([]*models.ExamSession, error) {
	if s.db == nil {
		return []*models.ExamSession{}, nil
	}
	var sessions []*models.ExamSession
	err := s.db.WithContext(ctx).
		Where("status = ? AND ended_at IS NULL", models.SessionInProgress).
		Order("started_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, s.fail("list active sessions", err)
	}
	return sessions, nil
}

func (s *Store) ListSessionsByStudent(ctx context.Context, studentID uint, examID *uint) ([]*models.ExamSession, error) {
	if s.db == nil {
		return []*models.ExamSession{}, nil
	}
	query := s.db.WithContext(ctx).Where("student_id = ?", studentID)
	if examID != nil {
		query = query.Where("exam_id = ?", *examID)
	}
	var sessions []*models.ExamSession
	if err := query.Order("started_at DESC").Find(&sessions).Error; err != nil {
		return nil, s.fail("list sessions by student", err)
	}
	return sessions, nil
}

// IncrementSuspiciousActivity bumps the monotonic counter by one. It is the
// only write path touching the counter.
func (s *Store) IncrementSuspiciousActivity(ctx context.Context, sessionID uint) error {
	if s.db == nil {
		return repositories.ErrDatabaseNotAvailable
	}
	err := s.db.WithContext(ctx).
		Model(&models.ExamSession{}).
		Where("id = ?", sessionID).
		Update("suspicious_activity_count", gorm.Expr("suspicious_activity_count + 1")).Error
	if err != nil {
		return s.fail("increment suspicious activity", err)
	}
	return nil
}
