package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorhub/proctoring-service/internal/repositories"
)

func TestBuildUpdateColumnCardinality(t *testing.T) {
	fields := []repositories.FieldValue{
		{Name: "status", Value: "submitted"},
		{Name: "score", Value: 87.5},
		{Name: "passed", Value: true},
	}

	query, args, err := buildUpdate("EXAM_SESSIONS", sessionColumns, fields, "ID", 42)
	require.NoError(t, err)

	// One SET column per present field, nothing more.
	assert.Equal(t, len(fields), setColumnCount(query))
	assert.Contains(t, query, `"STATUS" = $1`)
	assert.Contains(t, query, `"SCORE" = $2`)
	assert.Contains(t, query, `"PASSED" = $3`)
	assert.Contains(t, query, `WHERE "ID" = $4`)

	require.Len(t, args, 4)
	assert.Equal(t, "submitted", args[0])
	assert.Equal(t, 87.5, args[1])
	assert.Equal(t, true, args[2])
	assert.Equal(t, uint(42), args[3])
}

func TestBuildUpdateSingleField(t *testing.T) {
	fields := []repositories.FieldValue{{Name: "resolution", Value: "cleared"}}

	query, args, err := buildUpdate("INCIDENTS", incidentColumns, fields, "ID", 7)
	require.NoError(t, err)

	assert.Equal(t, `UPDATE "INCIDENTS" SET "RESOLUTION" = $1 WHERE "ID" = $2`, query)
	assert.Equal(t, []any{"cleared", uint(7)}, args)
}

func TestBuildUpdateUnknownField(t *testing.T) {
	fields := []repositories.FieldValue{
		{Name: "status", Value: "submitted"},
		{Name: "noSuchField", Value: 1},
	}

	_, _, err := buildUpdate("EXAM_SESSIONS", sessionColumns, fields, "ID", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrUnknownField)
}

func TestBuildUpdateEmptyFieldSet(t *testing.T) {
	_, _, err := buildUpdate("EXAM_SESSIONS", sessionColumns, nil, "ID", 1)
	assert.ErrorIs(t, err, repositories.ErrEmptyUpdate)
}

func TestExcludedAssignments(t *testing.T) {
	got := excludedAssignments([]string{"NAME", "EMAIL"})
	assert.Equal(t, `"NAME" = EXCLUDED."NAME", "EMAIL" = EXCLUDED."EMAIL", "UPDATED_AT" = NOW()`, got)
}
