package relational

import (
	"context"

	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
)

func (s *Store) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if s.db == nil {
		return repositories.ErrDatabaseNotAvailable
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return s.fail("create audit log", err)
	}
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if s.db == nil {
		return []*models.AuditLog{}, nil
	}
	if limit <= 0 {
		limit = repositories.DefaultListLimit
	}
	var entries []*models.AuditLog
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, s.fail("list audit logs", err)
	}
	return entries, nil
}
