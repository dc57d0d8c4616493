package relational

import (
	"fmt"

	"github.com/proctorhub/proctoring-service/internal/repositories"
)

// Declared field-name tables for partial updates. Keys are the contract's
// camelCase field names; values are the physical snake_case columns.

var sessionColumns = map[string]string{
	"status":              "status",
	"endedAt":             "ended_at",
	"submittedAt":         "submitted_at",
	"biometricVerified":   "biometric_verified",
	"biometricVerifiedAt": "biometric_verified_at",
	"score":               "score",
	"percentageScore":     "percentage_score",
	"passed":              "passed",
	"videoRecordingUrl":   "video_recording_url",
	"recordingMetadata":   "recording_metadata",
}

var incidentColumns = map[string]string{
	"status":            "status",
	"severity":          "severity",
	"investigatedBy":    "investigated_by",
	"resolution":        "resolution",
	"recommendedAction": "recommended_action",
	"evidenceUrls":      "evidence_urls",
	"resolvedAt":        "resolved_at",
}

// updateMap translates present fields into a column-keyed update map,
// rejecting any field the table does not declare.
func updateMap(table map[string]string, fields []repositories.FieldValue) (map[string]any, error) {
	if len(fields) == 0 {
		return nil, repositories.ErrEmptyUpdate
	}
	values := make(map[string]any, len(fields))
	for _, f := range fields {
		col, ok := table[f.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", repositories.ErrUnknownField, f.Name)
		}
		values[col] = f.Value
	}
	return values, nil
}
