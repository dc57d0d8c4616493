package relational

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
)

// severityOrder ranks the string enum for ordering in SQL.
const severityOrder = "CASE severity WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC"

func (s *Store) CreateAlert(ctx context.Context, alert *models.Alert) error {
	if s.db == nil {
		return repositories.ErrDatabaseNotAvailable
	}
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return s.fail("create alert", err)
	}
	return nil
}

func (s *Store) GetAlertByID(ctx context.Context, id uint) (*models.Alert, error) {
	if s.db == nil {
		return nil, nil
	}
	var alert models.Alert
	err := s.db.WithContext(ctx).First(&alert, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get alert", err)
	}
	return &alert, nil
}

func (s *Store) ListAlertsBySession(ctx context.Context, sessionID uint) ([]*models.Alert, error) {
	if s.db == nil {
		return []*models.Alert{}, nil
	}
	var alerts []*models.Alert
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, s.fail("list alerts by session", err)
	}
	return alerts, nil
}

// AcknowledgeAlert performs the one-way acknowledged transition. Already
// acknowledged alerts are left untouched by the predicate.
func (s *Store) AcknowledgeAlert(ctx context.Context, id, userID uint, notes string) error {
	if s.db == nil {
		return repositories.ErrDatabaseNotAvailable
	}
	now := time.Now()
	err := s.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ? AND acknowledged = ?", id, false).
		Updates(map[string]any{
			"acknowledged":         true,
			"acknowledged_by":      userID,
			"acknowledged_at":      now,
			"acknowledgment_notes": notes,
		}).Error
	if err != nil {
		return s.fail("acknowledge alert", err)
	}
	return nil
}

func (s *Store) ListUnacknowledgedAlerts(ctx context.Context, limit int) ([]*models.Alert, error) {
	if s.db == nil {
		return []*models.Alert{}, nil
	}
	if limit <= 0 {
		limit = repositories.DefaultListLimit
	}
	var alerts []*models.Alert
	err := s.db.WithContext(ctx).
		Where("acknowledged = ?", false).
		Order(severityOrder).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	if err != nil {
		return nil, s.fail("list unacknowledged alerts", err)
	}
	return alerts, nil
}
