package legacy

import (
	"fmt"
	"strings"

	"github.com/proctorhub/proctoring-service/internal/repositories"
)

// buildUpdate assembles a parameterized UPDATE for a partial field set. The
// generated statement references exactly one column per present field plus
// the id predicate; unknown fields are rejected before any SQL exists.
func buildUpdate(table string, columns map[string]string, fields []repositories.FieldValue, idColumn string, id uint) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, repositories.ErrEmptyUpdate
	}

	setParts := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for i, f := range fields {
		column, ok := columns[f.Name]
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", repositories.ErrUnknownField, f.Name)
		}
		setParts = append(setParts, fmt.Sprintf("%q = $%d", column, i+1))
		args = append(args, f.Value)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %q SET %s WHERE %q = $%d",
		table, strings.Join(setParts, ", "), idColumn, len(fields)+1)
	return query, args, nil
}

// setColumnCount reports how many SET columns an update statement carries.
// Used by the store's own assertions in tests.
func setColumnCount(query string) int {
	open := strings.Index(query, " SET ")
	closeIdx := strings.LastIndex(query, " WHERE ")
	if open < 0 || closeIdx < 0 {
		return 0
	}
	return strings.Count(query[open:closeIdx], "=")
}

// excludedAssignments renders the DO UPDATE branch of an upsert: each column
// takes the incoming row's value via EXCLUDED, then UPDATED_AT is refreshed.
func excludedAssignments(columns []string) string {
	parts := make([]string, 0, len(columns)+1)
	for _, column := range columns {
		parts = append(parts, fmt.Sprintf("%q = EXCLUDED.%q", column, column))
	}
	parts = append(parts, `"UPDATED_AT" = NOW()`)
	return strings.Join(parts, ", ")
}
