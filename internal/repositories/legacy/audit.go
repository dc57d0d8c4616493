package legacy

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"gorm.io/datatypes"

	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
)

const auditSelectColumns = `"ID", "EVENT_TYPE", "USER_ID", "TARGET_TYPE", "TARGET_ID", "DESCRIPTION", "METADATA", "IP_ADDRESS", "CREATED_AT"`

func (s *Store) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if err := s.guard(); err != nil {
		return err
	}
	query := `
		INSERT INTO "AUDIT_LOGS" ("EVENT_TYPE", "USER_ID", "TARGET_TYPE", "TARGET_ID", "DESCRIPTION", "METADATA", "IP_ADDRESS", "CREATED_AT")
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING "ID", "CREATED_AT"`

	var id int64
	err := s.pool.QueryRow(ctx, query,
		entry.EventType, entry.UserID, entry.TargetType, entry.TargetID,
		entry.Description, []byte(entry.Metadata), entry.IPAddress,
	).Scan(&id, &entry.CreatedAt)
	if err != nil {
		return s.fail("create audit log", err)
	}
	entry.ID = uint(id)
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = repositories.DefaultListLimit
	}
	query := fmt.Sprintf(`SELECT %s FROM "AUDIT_LOGS" ORDER BY "CREATED_AT" DESC LIMIT $1`, auditSelectColumns)

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, s.fail("list audit logs", err)
	}
	defer rows.Close()

	entries := make([]*models.AuditLog, 0)
	for rows.Next() {
		entry, err := scanAuditLog(rows)
		if err != nil {
			return nil, s.fail("list audit logs", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list audit logs", err)
	}
	return entries, nil
}

func scanAuditLog(row pgx.Row) (*models.AuditLog, error) {
	var (
		entry     models.AuditLog
		id        int64
		userID    int64
		eventType string
		targetID  *int64
		metadata  []byte
		ipAddress *string
	)
	err := row.Scan(&id, &eventType, &userID, &entry.TargetType, &targetID,
		&entry.Description, &metadata, &ipAddress, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	entry.ID = uint(id)
	entry.UserID = uint(userID)
	entry.EventType = models.AuditEventType(eventType)
	if targetID != nil {
		v := uint(*targetID)
		entry.TargetID = &v
	}
	if metadata != nil {
		entry.Metadata = datatypes.JSON(metadata)
	}
	if ipAddress != nil {
		entry.IPAddress = *ipAddress
	}
	return &entry, nil
}
