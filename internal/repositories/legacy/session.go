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

const sessionSelectColumns = `"ID", "EXAM_ID", "STUDENT_ID", "STARTED_AT", "ENDED_AT", "SUBMITTED_AT", "STATUS", "BIOMETRIC_VERIFIED", "BIOMETRIC_VERIFIED_AT", "SCORE", "PERCENTAGE_SCORE", "PASSED", "VIDEO_RECORDING_URL", "RECORDING_METADATA", "CLIENT_IP", "USER_AGENT", "SUSPICIOUS_ACTIVITY_COUNT", "CREATED_AT", "UPDATED_AT"`

func (s *Store) CreateExamSession(ctx context.Context, session *models.ExamSession) error {
	if err := s.guard(); err != nil {
		return err
	}
	status := session.Status
	if status == "" {
		status = models.SessionNotStarted
	}
	query := `
		INSERT INTO "EXAM_SESSIONS" ("EXAM_ID", "STUDENT_ID", "STARTED_AT", "STATUS", "BIOMETRIC_VERIFIED", "VIDEO_RECORDING_URL", "RECORDING_METADATA", "CLIENT_IP", "USER_AGENT", "SUSPICIOUS_ACTIVITY_COUNT", "CREATED_AT", "UPDATED_AT")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, NOW(), NOW())
		RETURNING "ID", "CREATED_AT", "UPDATED_AT"`

	var id int64
	err := s.pool.QueryRow(ctx, query,
		session.ExamID, session.StudentID, session.StartedAt, status,
		session.BiometricVerified, session.VideoRecordingURL,
		[]byte(session.RecordingMetadata), session.ClientIP, session.UserAgent,
	).Scan(&id, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return s.fail("create exam session", err)
	}
	session.ID = uint(id)
	session.Status = status
	return nil
}

func (s *Store) GetExamSessionByID(ctx context.Context, id uint) (*models.ExamSession, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM "EXAM_SESSIONS" WHERE "ID" = $1`, sessionSelectColumns)
	session, err := scanSession(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get exam session", err)
	}
	return session, nil
}

func (s *Store) UpdateExamSession(ctx context.Context, id uint, upd repositories.SessionUpdate) error {
	if err := s.guard(); err != nil {
		return err
	}
	query, args, err := buildUpdate("EXAM_SESSIONS", sessionColumns, upd.Fields(), "ID", id)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return s.fail("update exam session", err)
	}
	return nil
}

func (s *Store) ListActiveSessions(ctx context.Context) ([]*models.ExamSession, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM "EXAM_SESSIONS" WHERE "STATUS" = $1 AND "ENDED_AT" IS NULL ORDER BY "STARTED_AT" DESC`, sessionSelectColumns)
	return s.querySessions(ctx, "list active sessions", query, models.SessionInProgress)
}

func (s *Store) ListSessionsByStudent(ctx context.Context, studentID uint, examID *uint) ([]*models.ExamSession, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM "EXAM_SESSIONS" WHERE "STUDENT_ID" = $1`, sessionSelectColumns)
	args := []any{studentID}
	if examID != nil {
		query += ` AND "EXAM_ID" = $2`
		args = append(args, *examID)
	}
	query += ` ORDER BY "STARTED_AT" DESC`
	return s.querySessions(ctx, "list sessions by student", query, args...)
}

// IncrementSuspiciousActivity bumps the monotonic counter by one; there is
// no path that resets it.
func (s *Store) IncrementSuspiciousActivity(ctx context.Context, sessionID uint) error {
	if err := s.guard(); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`UPDATE "EXAM_SESSIONS" SET "SUSPICIOUS_ACTIVITY_COUNT" = "SUSPICIOUS_ACTIVITY_COUNT" + 1, "UPDATED_AT" = NOW() WHERE "ID" = $1`,
		sessionID)
	if err != nil {
		return s.fail("increment suspicious activity", err)
	}
	return nil
}

func (s *Store) querySessions(ctx context.Context, op, query string, args ...any) ([]*models.ExamSession, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, s.fail(op, err)
	}
	defer rows.Close()

	sessions := make([]*models.ExamSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, s.fail(op, err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(op, err)
	}
	return sessions, nil
}

func scanSession(row pgx.Row) (*models.ExamSession, error) {
	var (
		sess      models.ExamSession
		id        int64
		examID    int64
		studentID int64
		status    string
		metadata  []byte
		clientIP  *string
		userAgent *string
	)
	err := row.Scan(&id, &examID, &studentID, &sess.StartedAt, &sess.EndedAt,
		&sess.SubmittedAt, &status, &sess.BiometricVerified,
		&sess.BiometricVerifiedAt, &sess.Score, &sess.PercentageScore,
		&sess.Passed, &sess.VideoRecordingURL, &metadata, &clientIP,
		&userAgent, &sess.SuspiciousActivityCount, &sess.CreatedAt,
		&sess.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sess.ID = uint(id)
	sess.ExamID = uint(examID)
	sess.StudentID = uint(studentID)
	sess.Status = models.SessionStatus(status)
	if metadata != nil {
		sess.RecordingMetadata = datatypes.JSON(metadata)
	}
	if clientIP != nil {
		sess.ClientIP = *clientIP
	}
	if userAgent != nil {
		sess.UserAgent = *userAgent
	}
	return &sess, nil
}
