package relational

import (
	"context"
	"time"

	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
)

func (s *Store) CreateVideoEvidence(ctx context.Context, evidence *models.VideoEvidence) error {
	if s.db == nil {
		return repositories.ErrDatabaseNotAvailable
	}
	if evidence.ExpiresAt.IsZero() && evidence.RetentionDays > 0 {
		evidence.ExpiresAt = time.Now().AddDate(0, 0, evidence.RetentionDays)
	}
	if err := s.db.WithContext(ctx).Create(evidence).Error; err != nil {
		return s.fail("create video evidence", err)
	}
	return nil
}

func (s *Store) ListEvidenceBySession(ctx context.Context, sessionID uint) ([]*models.VideoEvidence, error) {
	if s.db == nil {
		return []*models.VideoEvidence{}, nil
	}
	var evidence []*models.VideoEvidence
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&evidence).Error
	if err != nil {
		return nil, s.fail("list evidence by session", err)
	}
	return evidence, nil
}

func (s *Store) ListEvidenceByAlert(ctx context.Context, alertID uint) ([]*models.VideoEvidence, error) {
	if s.db == nil {
		return []*models.VideoEvidence{}, nil
	}
	var evidence []*models.VideoEvidence
	err := s.db.WithContext(ctx).
		Where("alert_id = ?", alertID).
		Order("created_at DESC").
		Find(&evidence).Error
	if err != nil {
		return nil, s.fail("list evidence by alert", err)
	}
	return evidence, nil
}
