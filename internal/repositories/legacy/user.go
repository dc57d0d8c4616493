package legacy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
)

const userSelectColumns = `"ID", "OPEN_ID", "NAME", "EMAIL", "ROLE", "LOGIN_METHOD", "PHOTO_URL", "DEPARTMENT", "STUDENT_ID", "LAST_SIGNED_IN", "CREATED_AT", "UPDATED_AT"`

// UpsertUser inserts or updates keyed by OPEN_ID in one atomic statement.
// The conflict branch assigns only the fields present on the input, plus
// LAST_SIGNED_IN and UPDATED_AT; OPEN_ID is never assigned.
func (s *Store) UpsertUser(ctx context.Context, in repositories.UserUpsert) (*models.User, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	role := models.RoleUser
	switch {
	case in.Role != nil:
		role = *in.Role
	case s.ownerOpenID != "" && in.OpenID == s.ownerOpenID:
		role = models.RoleAdmin
	}

	lastSignedIn := time.Now()
	if in.LastSignedIn != nil {
		lastSignedIn = *in.LastSignedIn
	}

	updateCols := []string{`LAST_SIGNED_IN`}
	if in.Name != nil {
		updateCols = append(updateCols, `NAME`)
	}
	if in.Email != nil {
		updateCols = append(updateCols, `EMAIL`)
	}
	if in.Role != nil {
		updateCols = append(updateCols, `ROLE`)
	}
	if in.LoginMethod != nil {
		updateCols = append(updateCols, `LOGIN_METHOD`)
	}
	if in.PhotoURL != nil {
		updateCols = append(updateCols, `PHOTO_URL`)
	}
	if in.Department != nil {
		updateCols = append(updateCols, `DEPARTMENT`)
	}
	if in.StudentID != nil {
		updateCols = append(updateCols, `STUDENT_ID`)
	}

	query := fmt.Sprintf(`
		INSERT INTO "USERS" ("OPEN_ID", "NAME", "EMAIL", "ROLE", "LOGIN_METHOD", "PHOTO_URL", "DEPARTMENT", "STUDENT_ID", "LAST_SIGNED_IN", "CREATED_AT", "UPDATED_AT")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT ("OPEN_ID") DO UPDATE SET %s
		RETURNING %s`,
		excludedAssignments(updateCols), userSelectColumns)

	row := s.pool.QueryRow(ctx, query,
		in.OpenID, in.Name, in.Email, role, in.LoginMethod,
		in.PhotoURL, in.Department, in.StudentID, lastSignedIn,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, s.fail("upsert user", err)
	}
	return user, nil
}

func (s *Store) GetUserByOpenID(ctx context.Context, openID string) (*models.User, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM "USERS" WHERE "OPEN_ID" = $1`, userSelectColumns)
	user, err := scanUser(s.pool.QueryRow(ctx, query, openID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get user by open_id", err)
	}
	return user, nil
}

func (s *Store) UpdateUserRole(ctx context.Context, id uint, role models.UserRole) error {
	if err := s.guard(); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`UPDATE "USERS" SET "ROLE" = $1, "UPDATED_AT" = NOW() WHERE "ID" = $2`,
		role, id)
	if err != nil {
		return s.fail("update user role", err)
	}
	return nil
}

// scanUser remaps one upper-cased driver row to the contract shape.
func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u    models.User
		id   int64
		name *string
		role string
	)
	err := row.Scan(&id, &u.OpenID, &name, &u.Email, &role, &u.LoginMethod,
		&u.PhotoURL, &u.Department, &u.StudentID, &u.LastSignedIn,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.ID = uint(id)
	if name != nil {
		u.Name = *name
	}
	u.Role = models.UserRole(role)
	return &u, nil
}
