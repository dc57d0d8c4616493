package legacy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"gorm.io/datatypes"

	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
)

const alertSelectColumns = `"ID", "SESSION_ID", "ALERT_TYPE", "SEVERITY", "CONFIDENCE", "DESCRIPTION", "METADATA", "VIDEO_CLIP_URL", "ACKNOWLEDGED", "ACKNOWLEDGED_BY", "ACKNOWLEDGED_AT", "ACKNOWLEDGMENT_NOTES", "CREATED_AT", "UPDATED_AT"`

const alertSeverityOrder = `CASE "SEVERITY" WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC`

func (s *Store) CreateAlert(ctx context.Context, alert *models.Alert) error {
	if err := s.guard(); err != nil {
		return err
	}
	query := `
		INSERT INTO "ALERTS" ("SESSION_ID", "ALERT_TYPE", "SEVERITY", "CONFIDENCE", "DESCRIPTION", "METADATA", "VIDEO_CLIP_URL", "ACKNOWLEDGED", "CREATED_AT", "UPDATED_AT")
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, NOW(), NOW())
		RETURNING "ID", "CREATED_AT", "UPDATED_AT"`

	var id int64
	err := s.pool.QueryRow(ctx, query,
		alert.SessionID, alert.AlertType, alert.Severity, alert.Confidence,
		alert.Description, []byte(alert.Metadata), alert.VideoClipURL,
	).Scan(&id, &alert.CreatedAt, &alert.UpdatedAt)
	if err != nil {
		return s.fail("create alert", err)
	}
	alert.ID = uint(id)
	alert.Acknowledged = false
	return nil
}

func (s *Store) GetAlertByID(ctx context.Context, id uint) (*models.Alert, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM "ALERTS" WHERE "ID" = $1 AND "DELETED_AT" IS NULL`, alertSelectColumns)
	alert, err := scanAlert(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get alert", err)
	}
	return alert, nil
}

func (s *Store) ListAlertsBySession(ctx context.Context, sessionID uint) ([]*models.Alert, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM "ALERTS" WHERE "SESSION_ID" = $1 AND "DELETED_AT" IS NULL ORDER BY "CREATED_AT" DESC`, alertSelectColumns)
	return s.queryAlerts(ctx, "list alerts by session", query, sessionID)
}

// AcknowledgeAlert sets the one-way acknowledged flag; rows already
// acknowledged are excluded by the predicate.
func (s *Store) AcknowledgeAlert(ctx context.Context, id, userID uint, notes string) error {
	if err := s.guard(); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE "ALERTS"
		SET "ACKNOWLEDGED" = TRUE, "ACKNOWLEDGED_BY" = $1, "ACKNOWLEDGED_AT" = NOW(), "ACKNOWLEDGMENT_NOTES" = $2, "UPDATED_AT" = NOW()
		WHERE "ID" = $3 AND "ACKNOWLEDGED" = FALSE`,
		userID, notes, id)
	if err != nil {
		return s.fail("acknowledge alert", err)
	}
	return nil
}

func (s *Store) ListUnacknowledgedAlerts(ctx context.Context, limit int) ([]*models.Alert, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = repositories.DefaultListLimit
	}
	query := fmt.Sprintf(`SELECT %s FROM "ALERTS" WHERE "ACKNOWLEDGED" = FALSE AND "DELETED_AT" IS NULL ORDER BY %s, "CREATED_AT" DESC LIMIT $1`,
		alertSelectColumns, alertSeverityOrder)
	return s.queryAlerts(ctx, "list unacknowledged alerts", query, limit)
}

func (s *Store) queryAlerts(ctx context.Context, op, query string, args ...any) ([]*models.Alert, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, s.fail(op, err)
	}
	defer rows.Close()

	alerts := make([]*models.Alert, 0)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, s.fail(op, err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(op, err)
	}
	return alerts, nil
}

func scanAlert(row pgx.Row) (*models.Alert, error) {
	var (
		a         models.Alert
		id        int64
		sessionID int64
		alertType string
		severity  string
		metadata  []byte
		ackBy     *int64
	)
	err := row.Scan(&id, &sessionID, &alertType, &severity, &a.Confidence,
		&a.Description, &metadata, &a.VideoClipURL, &a.Acknowledged,
		&ackBy, &a.AcknowledgedAt, &a.AcknowledgmentNotes,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.ID = uint(id)
	a.SessionID = uint(sessionID)
	a.AlertType = models.AlertType(alertType)
	a.Severity = models.AlertSeverity(severity)
	if metadata != nil {
		a.Metadata = datatypes.JSON(metadata)
	}
	if ackBy != nil {
		v := uint(*ackBy)
		a.AcknowledgedBy = &v
	}
	return &a, nil
}
