package relational

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
)

func (s *Store) CreateExam(ctx context.Context, exam *models.Exam) error {
	if s.db == nil {
		return repositories.ErrDatabaseNotAvailable
	}
	if err := s.db.WithContext(ctx).Create(exam).Error; err != nil {
		return s.fail("create exam", err)
	}
	return nil
}

func (s *Store) GetExamByID(ctx context.Context, id uint) (*models.Exam, error) {
	if s.db == nil {
		return nil, nil
	}
	var exam models.Exam
	err := s.db.WithContext(ctx).First(&exam, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get exam", err)
	}
	return &exam, nil
}

func (s *Store) ListExams(ctx context.Context, status *models.ExamStatus) ([]*models.Exam, error) {
	if s.db == nil {
		return []*models.Exam{}, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Exam{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var exams []*models.Exam
	if err := query.Order("scheduled_start DESC").Find(&exams).Error; err != nil {
		return nil, s.fail("list exams", err)
	}
	return exams, nil
}
