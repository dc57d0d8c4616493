package legacy

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"gorm.io/datatypes"

	"github.com/proctorhub/proctoring-service/internal/models"
)

const analyticsSelectColumns = `"ID", "PERIOD", "COURSE_CODE", "DEPARTMENT", "TOTAL_SESSIONS", "FLAGGED_SESSIONS", "CONFIRMED_INCIDENTS", "DISMISSED_INCIDENTS", "FRAUD_RATE", "COMMON_ALERT_TYPES", "AVG_CONFIDENCE", "AVG_SCORE", "PASS_RATE", "CREATED_AT", "UPDATED_AT"`

// UpsertFraudAnalytics matches on the (PERIOD, COURSE_CODE) key and updates
// the aggregate columns in place; unmatched keys insert a fresh row.
func (s *Store) UpsertFraudAnalytics(ctx context.Context, row *models.FraudAnalytics) error {
	if err := s.guard(); err != nil {
		return err
	}
	query := `
		INSERT INTO "FRAUD_ANALYTICS" ("PERIOD", "COURSE_CODE", "DEPARTMENT", "TOTAL_SESSIONS", "FLAGGED_SESSIONS", "CONFIRMED_INCIDENTS", "DISMISSED_INCIDENTS", "FRAUD_RATE", "COMMON_ALERT_TYPES", "AVG_CONFIDENCE", "AVG_SCORE", "PASS_RATE", "CREATED_AT", "UPDATED_AT")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT ("PERIOD", "COURSE_CODE") DO UPDATE SET
			"DEPARTMENT" = EXCLUDED."DEPARTMENT",
			"TOTAL_SESSIONS" = EXCLUDED."TOTAL_SESSIONS",
			"FLAGGED_SESSIONS" = EXCLUDED."FLAGGED_SESSIONS",
			"CONFIRMED_INCIDENTS" = EXCLUDED."CONFIRMED_INCIDENTS",
			"DISMISSED_INCIDENTS" = EXCLUDED."DISMISSED_INCIDENTS",
			"FRAUD_RATE" = EXCLUDED."FRAUD_RATE",
			"COMMON_ALERT_TYPES" = EXCLUDED."COMMON_ALERT_TYPES",
			"AVG_CONFIDENCE" = EXCLUDED."AVG_CONFIDENCE",
			"AVG_SCORE" = EXCLUDED."AVG_SCORE",
			"PASS_RATE" = EXCLUDED."PASS_RATE",
			"UPDATED_AT" = NOW()
		RETURNING "ID", "CREATED_AT", "UPDATED_AT"`

	var id int64
	err := s.pool.QueryRow(ctx, query,
		row.Period, row.CourseCode, row.Department, row.TotalSessions,
		row.FlaggedSessions, row.ConfirmedIncidents, row.DismissedIncidents,
		row.FraudRate, []byte(row.CommonAlertTypes), row.AvgConfidence,
		row.AvgScore, row.PassRate,
	).Scan(&id, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return s.fail("upsert fraud analytics", err)
	}
	row.ID = uint(id)
	return nil
}

func (s *Store) ListAnalyticsByPeriod(ctx context.Context, period string) ([]*models.FraudAnalytics, error) {
	return s.queryAnalytics(ctx, "list analytics by period", `"PERIOD"`, period)
}

func (s *Store) ListAnalyticsByCourse(ctx context.Context, courseCode string) ([]*models.FraudAnalytics, error) {
	return s.queryAnalytics(ctx, "list analytics by course", `"COURSE_CODE"`, courseCode)
}

func (s *Store) ListAnalyticsByDepartment(ctx context.Context, department string) ([]*models.FraudAnalytics, error) {
	return s.queryAnalytics(ctx, "list analytics by department", `"DEPARTMENT"`, department)
}

func (s *Store) queryAnalytics(ctx context.Context, op, column, value string) ([]*models.FraudAnalytics, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM "FRAUD_ANALYTICS" WHERE %s = $1 ORDER BY "PERIOD" DESC`, analyticsSelectColumns, column)

	rows, err := s.pool.Query(ctx, query, value)
	if err != nil {
		return nil, s.fail(op, err)
	}
	defer rows.Close()

	result := make([]*models.FraudAnalytics, 0)
	for rows.Next() {
		row, err := scanAnalytics(rows)
		if err != nil {
			return nil, s.fail(op, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(op, err)
	}
	return result, nil
}

func scanAnalytics(row pgx.Row) (*models.FraudAnalytics, error) {
	var (
		fa    models.FraudAnalytics
		id    int64
		types []byte
	)
	err := row.Scan(&id, &fa.Period, &fa.CourseCode, &fa.Department,
		&fa.TotalSessions, &fa.FlaggedSessions, &fa.ConfirmedIncidents,
		&fa.DismissedIncidents, &fa.FraudRate, &types, &fa.AvgConfidence,
		&fa.AvgScore, &fa.PassRate, &fa.CreatedAt, &fa.UpdatedAt)
	if err != nil {
		return nil, err
	}
	fa.ID = uint(id)
	if types != nil {
		fa.CommonAlertTypes = datatypes.JSON(types)
	}
	return &fa, nil
}
