package relational

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
	"github.com/proctorhub/proctoring-service/internal/utils"
)

// Store implements repositories.Store on a schema-mapped GORM connection.
//
// When constructed without a database (nil db) it degrades to
// read-silent/write-loud: reads return empty results, writes return
// repositories.ErrDatabaseNotAvailable.
type Store struct {
	db          *gorm.DB
	ownerOpenID string
	log         utils.Logger
}

func NewStore(db *gorm.DB, ownerOpenID string, logger utils.Logger) *Store {
	return &Store{
		db:          db,
		ownerOpenID: ownerOpenID,
		log:         logger,
	}
}

func (s *Store) Backend() string {
	return "relational"
}

// Configured reports whether a database connection was supplied.
func (s *Store) Configured() bool {
	return s.db != nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return repositories.ErrDatabaseNotAvailable
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return s.fail("ping", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) fail(op string, err error) error {
	s.log.Error("[relational] "+op+" failed", "error", err)
	return err
}

// ===== USERS =====

// UpsertUser inserts or updates a user keyed by OpenID in a single on-conflict
// statement. Only fields present on the input join the update clause; open_id
// never does.
func (s *Store) UpsertUser(ctx context.Context, in repositories.UserUpsert) (*models.User, error) {
	if s.db == nil {
		return nil, repositories.ErrDatabaseNotAvailable
	}

	row := buildUpsertRow(in, s.ownerOpenID, time.Now())
	assignments := UpsertAssignments(in)

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "open_id"}},
			DoUpdates: clause.AssignmentColumns(assignments),
		}).
		Create(&row).Error
	if err != nil {
		return nil, s.fail("upsert user", err)
	}

	return s.GetUserByOpenID(ctx, in.OpenID)
}

func (s *Store) GetUserByOpenID(ctx context.Context, openID string) (*models.User, error) {
	if s.db == nil {
		return nil, nil
	}
	var user models.User
	err := s.db.WithContext(ctx).Where("open_id = ?", openID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get user by open_id", err)
	}
	return &user, nil
}

func (s *Store) UpdateUserRole(ctx context.Context, id uint, role models.UserRole) error {
	if s.db == nil {
		return repositories.ErrDatabaseNotAvailable
	}
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role).Error
	if err != nil {
		return s.fail("update user role", err)
	}
	return nil
}

// buildUpsertRow materializes the insert row of an upsert. Role defaults to
// user unless the openId matches the configured owner identity, which forces
// admin on creation; an explicit role always wins.
func buildUpsertRow(in repositories.UserUpsert, ownerOpenID string, now time.Time) models.User {
	row := models.User{
		OpenID:       in.OpenID,
		Email:        in.Email,
		LoginMethod:  in.LoginMethod,
		PhotoURL:     in.PhotoURL,
		Department:   in.Department,
		StudentID:    in.StudentID,
		LastSignedIn: now,
	}
	if in.Name != nil {
		row.Name = *in.Name
	}
	switch {
	case in.Role != nil:
		row.Role = *in.Role
	case ownerOpenID != "" && in.OpenID == ownerOpenID:
		row.Role = models.RoleAdmin
	default:
		row.Role = models.RoleUser
	}
	if in.LastSignedIn != nil {
		row.LastSignedIn = *in.LastSignedIn
	}
	return row
}

// UpsertAssignments lists the columns the conflict branch updates: the
// present optional fields plus last_signed_in and updated_at, never open_id.
func UpsertAssignments(in repositories.UserUpsert) []string {
	cols := []string{"last_signed_in", "updated_at"}
	if in.Name != nil {
		cols = append(cols, "name")
	}
	if in.Email != nil {
		cols = append(cols, "email")
	}
	if in.Role != nil {
		cols = append(cols, "role")
	}
	if in.LoginMethod != nil {
		cols = append(cols, "login_method")
	}
	if in.PhotoURL != nil {
		cols = append(cols, "photo_url")
	}
	if in.Department != nil {
		cols = append(cols, "department")
	}
	if in.StudentID != nil {
		cols = append(cols, "student_id")
	}
	return cols
}
