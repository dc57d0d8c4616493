package legacy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"gorm.io/datatypes"

	"github.com/proctorhub/proctoring-service/internal/models"
)

const examSelectColumns = `"ID", "TITLE", "COURSE_CODE", "DEPARTMENT", "DESCRIPTION", "DURATION", "TOTAL_QUESTIONS", "MAX_SCORE", "PASSING_SCORE", "SCHEDULED_START", "SCHEDULED_END", "STATUS", "DETECTION_SENSITIVITY", "REQUIRE_BIOMETRIC", "ALLOWED_DEVICES", "CREATED_BY", "CREATED_AT", "UPDATED_AT"`

func (s *Store) CreateExam(ctx context.Context, exam *models.Exam) error {
	if err := s.guard(); err != nil {
		return err
	}
	query := `
		INSERT INTO "EXAMS" ("TITLE", "COURSE_CODE", "DEPARTMENT", "DESCRIPTION", "DURATION", "TOTAL_QUESTIONS", "MAX_SCORE", "PASSING_SCORE", "SCHEDULED_START", "SCHEDULED_END", "STATUS", "DETECTION_SENSITIVITY", "REQUIRE_BIOMETRIC", "ALLOWED_DEVICES", "CREATED_BY", "CREATED_AT", "UPDATED_AT")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING "ID", "CREATED_AT", "UPDATED_AT"`

	status := exam.Status
	if status == "" {
		status = models.ExamDraft
	}
	sensitivity := exam.DetectionSensitivity
	if sensitivity == "" {
		sensitivity = models.SensitivityMedium
	}

	var id int64
	err := s.pool.QueryRow(ctx, query,
		exam.Title, exam.CourseCode, exam.Department, exam.Description,
		exam.Duration, exam.TotalQuestions, exam.MaxScore, exam.PassingScore,
		exam.ScheduledStart, exam.ScheduledEnd, status, sensitivity,
		exam.RequireBiometric, []byte(exam.AllowedDevices), exam.CreatedBy,
	).Scan(&id, &exam.CreatedAt, &exam.UpdatedAt)
	if err != nil {
		return s.fail("create exam", err)
	}
	exam.ID = uint(id)
	exam.Status = status
	exam.DetectionSensitivity = sensitivity
	return nil
}

func (s *Store) GetExamByID(ctx context.Context, id uint) (*models.Exam, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM "EXAMS" WHERE "ID" = $1 AND "DELETED_AT" IS NULL`, examSelectColumns)
	exam, err := scanExam(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get exam", err)
	}
	return exam, nil
}

func (s *Store) ListExams(ctx context.Context, status *models.ExamStatus) ([]*models.Exam, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM "EXAMS" WHERE "DELETED_AT" IS NULL`, examSelectColumns)
	args := []any{}
	if status != nil {
		query += ` AND "STATUS" = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY "SCHEDULED_START" DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, s.fail("list exams", err)
	}
	defer rows.Close()

	exams := make([]*models.Exam, 0)
	for rows.Next() {
		exam, err := scanExam(rows)
		if err != nil {
			return nil, s.fail("list exams", err)
		}
		exams = append(exams, exam)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list exams", err)
	}
	return exams, nil
}

func scanExam(row pgx.Row) (*models.Exam, error) {
	var (
		e              models.Exam
		id             int64
		createdBy      int64
		status         string
		sensitivity    string
		allowedDevices []byte
	)
	err := row.Scan(&id, &e.Title, &e.CourseCode, &e.Department, &e.Description,
		&e.Duration, &e.TotalQuestions, &e.MaxScore, &e.PassingScore,
		&e.ScheduledStart, &e.ScheduledEnd, &status, &sensitivity,
		&e.RequireBiometric, &allowedDevices, &createdBy,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.ID = uint(id)
	e.CreatedBy = uint(createdBy)
	e.Status = models.ExamStatus(status)
	e.DetectionSensitivity = models.DetectionSensitivity(sensitivity)
	if allowedDevices != nil {
		e.AllowedDevices = datatypes.JSON(allowedDevices)
	}
	return &e, nil
}
