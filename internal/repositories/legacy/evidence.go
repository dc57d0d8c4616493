package legacy

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/proctorhub/proctoring-service/internal/models"
)

const evidenceSelectColumns = `"ID", "SESSION_ID", "ALERT_ID", "INCIDENT_ID", "STORAGE_URL", "FILE_SIZE", "DURATION", "START_OFFSET", "END_OFFSET", "CONTENT_TYPE", "RETENTION_DAYS", "EXPIRES_AT", "CREATED_AT"`

func (s *Store) CreateVideoEvidence(ctx context.Context, evidence *models.VideoEvidence) error {
	if err := s.guard(); err != nil {
		return err
	}
	if evidence.ExpiresAt.IsZero() && evidence.RetentionDays > 0 {
		evidence.ExpiresAt = time.Now().AddDate(0, 0, evidence.RetentionDays)
	}
	query := `
		INSERT INTO "VIDEO_EVIDENCE" ("SESSION_ID", "ALERT_ID", "INCIDENT_ID", "STORAGE_URL", "FILE_SIZE", "DURATION", "START_OFFSET", "END_OFFSET", "CONTENT_TYPE", "RETENTION_DAYS", "EXPIRES_AT", "CREATED_AT")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING "ID", "CREATED_AT"`

	var id int64
	err := s.pool.QueryRow(ctx, query,
		evidence.SessionID, evidence.AlertID, evidence.IncidentID,
		evidence.StorageURL, evidence.FileSize, evidence.Duration,
		evidence.StartOffset, evidence.EndOffset, evidence.ContentType,
		evidence.RetentionDays, evidence.ExpiresAt,
	).Scan(&id, &evidence.CreatedAt)
	if err != nil {
		return s.fail("create video evidence", err)
	}
	evidence.ID = uint(id)
	return nil
}

func (s *Store) ListEvidenceBySession(ctx context.Context, sessionID uint) ([]*models.VideoEvidence, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM "VIDEO_EVIDENCE" WHERE "SESSION_ID" = $1 ORDER BY "CREATED_AT" DESC`, evidenceSelectColumns)
	return s.queryEvidence(ctx, "list evidence by session", query, sessionID)
}

func (s *Store) ListEvidenceByAlert(ctx context.Context, alertID uint) ([]*models.VideoEvidence, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM "VIDEO_EVIDENCE" WHERE "ALERT_ID" = $1 ORDER BY "CREATED_AT" DESC`, evidenceSelectColumns)
	return s.queryEvidence(ctx, "list evidence by alert", query, alertID)
}

func (s *Store) queryEvidence(ctx context.Context, op, query string, args ...any) ([]*models.VideoEvidence, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, s.fail(op, err)
	}
	defer rows.Close()

	result := make([]*models.VideoEvidence, 0)
	for rows.Next() {
		ev, err := scanEvidence(rows)
		if err != nil {
			return nil, s.fail(op, err)
		}
		result = append(result, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(op, err)
	}
	return result, nil
}

func scanEvidence(row pgx.Row) (*models.VideoEvidence, error) {
	var (
		ev         models.VideoEvidence
		id         int64
		sessionID  int64
		alertID    *int64
		incidentID *int64
	)
	err := row.Scan(&id, &sessionID, &alertID, &incidentID, &ev.StorageURL,
		&ev.FileSize, &ev.Duration, &ev.StartOffset, &ev.EndOffset,
		&ev.ContentType, &ev.RetentionDays, &ev.ExpiresAt, &ev.CreatedAt)
	if err != nil {
		return nil, err
	}
	ev.ID = uint(id)
	ev.SessionID = uint(sessionID)
	if alertID != nil {
		v := uint(*alertID)
		ev.AlertID = &v
	}
	if incidentID != nil {
		v := uint(*incidentID)
		ev.IncidentID = &v
	}
	return &ev, nil
}
