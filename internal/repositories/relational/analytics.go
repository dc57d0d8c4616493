package relational

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
)

// analyticsAssignments are the columns refreshed when an upsert matches an
// existing (period, course_code) row.
var analyticsAssignments = []string{
	"department",
	"total_sessions",
	"flagged_sessions",
	"confirmed_incidents",
	"dismissed_incidents",
	"fraud_rate",
	"common_alert_types",
	"avg_confidence",
	"avg_score",
	"pass_rate",
	"updated_at",
}

func (s *Store) UpsertFraudAnalytics(ctx context.Context, row *models.FraudAnalytics) error {
	if s.db == nil {
		return repositories.ErrDatabaseNotAvailable
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "period"}, {Name: "course_code"}},
			DoUpdates: clause.AssignmentColumns(analyticsAssignments),
		}).
		Create(row).Error
	if err != nil {
		return s.fail("upsert fraud analytics", err)
	}
	return nil
}

func (s *Store) ListAnalyticsByPeriod(ctx context.Context, period string) ([]*models.FraudAnalytics, error) {
	return s.listAnalytics(ctx, "period = ?", period)
}

func (s *Store) ListAnalyticsByCourse(ctx context.Context, courseCode string) ([]*models.FraudAnalytics, error) {
	return s.listAnalytics(ctx, "course_code = ?", courseCode)
}

func (s *Store) ListAnalyticsByDepartment(ctx context.Context, department string) ([]*models.FraudAnalytics, error) {
	return s.listAnalytics(ctx, "department = ?", department)
}

func (s *Store) listAnalytics(ctx context.Context, predicate string, arg any) ([]*models.FraudAnalytics, error) {
	if s.db == nil {
		return []*models.FraudAnalytics{}, nil
	}
	var rows []*models.FraudAnalytics
	err := s.db.WithContext(ctx).
		Where(predicate, arg).
		Order("period DESC").
		Find(&rows).Error
	if err != nil {
		return nil, s.fail("list fraud analytics", err)
	}
	return rows, nil
}
