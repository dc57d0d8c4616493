package relational

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/proctorhub/proctoring-service/internal/models"
	"github.com/proctorhub/proctoring-service/internal/repositories"
)

func strPtr(s string) *string { return &s }

func TestBuildUpsertRowRoleDefaults(t *testing.T) {
	now := time.Now()

	t.Run("plain user", func(t *testing.T) {
		row := buildUpsertRow(repositories.UserUpsert{OpenID: "someone"}, "the-owner", now)
		assert.Equal(t, models.RoleUser, row.Role)
	})

	t.Run("owner is promoted on insert", func(t *testing.T) {
		row := buildUpsertRow(repositories.UserUpsert{OpenID: "the-owner"}, "the-owner", now)
		assert.Equal(t, models.RoleAdmin, row.Role)
	})

	t.Run("explicit role wins over promotion", func(t *testing.T) {
		proctor := models.RoleProctor
		row := buildUpsertRow(repositories.UserUpsert{OpenID: "the-owner", Role: &proctor}, "the-owner", now)
		assert.Equal(t, models.RoleProctor, row.Role)
	})

	t.Run("no owner configured", func(t *testing.T) {
		row := buildUpsertRow(repositories.UserUpsert{OpenID: "someone"}, "", now)
		assert.Equal(t, models.RoleUser, row.Role)
	})
}

func TestBuildUpsertRowFields(t *testing.T) {
	now := time.Now()
	signedIn := now.Add(-time.Hour)
	in := repositories.UserUpsert{
		OpenID:       "u-42",
		Name:         strPtr("Dana"),
		Email:        strPtr("dana@example.edu"),
		LastSignedIn: &signedIn,
	}

	row := buildUpsertRow(in, "", now)
	assert.Equal(t, "u-42", row.OpenID)
	assert.Equal(t, "Dana", row.Name)
	assert.Equal(t, "dana@example.edu", *row.Email)
	assert.Equal(t, signedIn, row.LastSignedIn)

	// Absent LastSignedIn falls back to now.
	row = buildUpsertRow(repositories.UserUpsert{OpenID: "u-43"}, "", now)
	assert.Equal(t, now, row.LastSignedIn)
}

func TestUpsertAssignments(t *testing.T) {
	t.Run("minimal input", func(t *testing.T) {
		cols := UpsertAssignments(repositories.UserUpsert{OpenID: "u-1"})
		assert.Equal(t, []string{"last_signed_in", "updated_at"}, cols)
	})

	t.Run("present optionals join the update", func(t *testing.T) {
		role := models.RoleStudent
		cols := UpsertAssignments(repositories.UserUpsert{
			OpenID: "u-1",
			Name:   strPtr("Dana"),
			Role:   &role,
		})
		assert.Contains(t, cols, "name")
		assert.Contains(t, cols, "role")
		assert.NotContains(t, cols, "email")
	})

	t.Run("open_id is never updated", func(t *testing.T) {
		cols := UpsertAssignments(repositories.UserUpsert{OpenID: "u-1", Name: strPtr("Dana")})
		assert.NotContains(t, cols, "open_id")
	})
}
