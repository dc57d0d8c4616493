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

const incidentSelectColumns = `"ID", "SESSION_ID", "INCIDENT_TYPE", "SEVERITY", "DESCRIPTION", "STATUS", "REPORTED_BY", "INVESTIGATED_BY", "RESOLUTION", "RECOMMENDED_ACTION", "EVIDENCE_URLS", "RESOLVED_AT", "CREATED_AT", "UPDATED_AT"`

func (s *Store) CreateIncident(ctx context.Context, incident *models.Incident) error {
	if err := s.guard(); err != nil {
		return err
	}
	status := incident.Status
	if status == "" {
		status = models.IncidentPending
	}
	query := `
		INSERT INTO "INCIDENTS" ("SESSION_ID", "INCIDENT_TYPE", "SEVERITY", "DESCRIPTION", "STATUS", "REPORTED_BY", "EVIDENCE_URLS", "CREATED_AT", "UPDATED_AT")
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING "ID", "CREATED_AT", "UPDATED_AT"`

	var id int64
	err := s.pool.QueryRow(ctx, query,
		incident.SessionID, incident.IncidentType, incident.Severity,
		incident.Description, status, incident.ReportedBy,
		[]byte(incident.EvidenceURLs),
	).Scan(&id, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return s.fail("create incident", err)
	}
	incident.ID = uint(id)
	incident.Status = status
	return nil
}

func (s *Store) GetIncidentByID(ctx context.Context, id uint) (*models.Incident, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM "INCIDENTS" WHERE "ID" = $1 AND "DELETED_AT" IS NULL`, incidentSelectColumns)
	incident, err := scanIncident(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get incident", err)
	}
	return incident, nil
}

func (s *Store) ListIncidentsBySession(ctx context.Context, sessionID uint) ([]*models.Incident, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM "INCIDENTS" WHERE "SESSION_ID" = $1 AND "DELETED_AT" IS NULL ORDER BY "CREATED_AT" DESC`, incidentSelectColumns)
	return s.queryIncidents(ctx, "list incidents by session", query, sessionID)
}

func (s *Store) UpdateIncident(ctx context.Context, id uint, upd repositories.IncidentUpdate) error {
	if err := s.guard(); err != nil {
		return err
	}
	query, args, err := buildUpdate("INCIDENTS", incidentColumns, upd.Fields(), "ID", id)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return s.fail("update incident", err)
	}
	return nil
}

func (s *Store) ListIncidents(ctx context.Context, status *models.IncidentStatus, limit int) ([]*models.Incident, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = repositories.DefaultListLimit
	}

	query := fmt.Sprintf(`SELECT %s FROM "INCIDENTS" WHERE "DELETED_AT" IS NULL`, incidentSelectColumns)
	args := []any{}
	if status != nil {
		query += ` AND "STATUS" = $1 ORDER BY "CREATED_AT" DESC LIMIT $2`
		args = append(args, *status, limit)
	} else {
		query += ` ORDER BY "CREATED_AT" DESC LIMIT $1`
		args = append(args, limit)
	}
	return s.queryIncidents(ctx, "list incidents", query, args...)
}

func (s *Store) queryIncidents(ctx context.Context, op, query string, args ...any) ([]*models.Incident, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, s.fail(op, err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, s.fail(op, err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(op, err)
	}
	return incidents, nil
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	var (
		inc          models.Incident
		id           int64
		sessionID    int64
		reportedBy   int64
		incidentType string
		severity     string
		status       string
		investigated *int64
		evidence     []byte
	)
	err := row.Scan(&id, &sessionID, &incidentType, &severity,
		&inc.Description, &status, &reportedBy, &investigated,
		&inc.Resolution, &inc.RecommendedAction, &evidence,
		&inc.ResolvedAt, &inc.CreatedAt, &inc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inc.ID = uint(id)
	inc.SessionID = uint(sessionID)
	inc.ReportedBy = uint(reportedBy)
	inc.IncidentType = models.IncidentType(incidentType)
	inc.Severity = models.IncidentSeverity(severity)
	inc.Status = models.IncidentStatus(status)
	if investigated != nil {
		v := uint(*investigated)
		inc.InvestigatedBy = &v
	}
	if evidence != nil {
		inc.EvidenceURLs = datatypes.JSON(evidence)
	}
	return &inc, nil
}
