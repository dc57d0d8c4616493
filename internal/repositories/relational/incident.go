package relational

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
)

func (s *Store) CreateIncident(ctx context.Context, incident *models.Incident) error {
	if s.db == nil {
		return repositories.ErrDatabaseNotAvailable
	}
	if err := s.db.WithContext(ctx).Create(incident).Error; err != nil {
		return s.fail("create incident", err)
	}
	return nil
}

func (s *Store) GetIncidentByID(ctx context.Context, id uint) (*models.Incident, error) {
	if s.db == nil {
		return nil, nil
	}
	var incident models.Incident
	err := s.db.WithContext(ctx).First(&incident, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get incident", err)
	}
	return &incident, nil
}

func (s *Store) ListIncidentsBySession(ctx context.Context, sessionID uint) ([]*models.Incident, error) {
	if s.db == nil {
		return []*models.Incident{}, nil
	}
	var incidents []*models.Incident
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&incidents).Error
	if err != nil {
		return nil, s.fail("list incidents by session", err)
	}
	return incidents, nil
}

func (s *Store) UpdateIncident(ctx context.Context, id uint, upd repositories.IncidentUpdate) error {
	if s.db == nil {
		return repositories.ErrDatabaseNotAvailable
	}
	values, err := updateMap(incidentColumns, upd.Fields())
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).
		Model(&models.Incident{}).
		Where("id = ?", id).
		Updates(values).Error
	if err != nil {
		return s.fail("update incident", err)
	}
	return nil
}

func (s *Store) ListIncidents(ctx context.Context, status *models.IncidentStatus, limit int) ([]*models.Incident, error) {
	if s.db == nil {
		return []*models.Incident{}, nil
	}
	if limit <= 0 {
		limit = repositories.DefaultListLimit
	}
	query := s.db.WithContext(ctx).Model(&models.Incident{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var incidents []*models.Incident
	err := query.Order("created_at DESC").Limit(limit).Find(&incidents).Error
	if err != nil {
		return nil, s.fail("list incidents", err)
	}
	return incidents, nil
}
