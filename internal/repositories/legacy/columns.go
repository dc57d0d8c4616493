package legacy

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/proctorhub/proctoring-service/internal/models"
)

// The legacy schema names its physical columns in UPPER_SNAKE_CASE. These
// tables declare the full field-name translation per entity, keyed by the
// contract's camelCase field names, so a mismatched key fails here instead of
// surfacing as a broken SQL statement at the store.

var userColumns = map[string]string{
	"id":           "ID",
	"openId":       "OPEN_ID",
	"name":         "NAME",
	"email":        "EMAIL",
	"role":         "ROLE",
	"loginMethod":  "LOGIN_METHOD",
	"photoUrl":     "PHOTO_URL",
	"department":   "DEPARTMENT",
	"studentId":    "STUDENT_ID",
	"lastSignedIn": "LAST_SIGNED_IN",
	"createdAt":    "CREATED_AT",
	"updatedAt":    "UPDATED_AT",
}

var examColumns = map[string]string{
	"id":                   "ID",
	"title":                "TITLE",
	"courseCode":           "COURSE_CODE",
	"department":           "DEPARTMENT",
	"description":          "DESCRIPTION",
	"duration":             "DURATION",
	"totalQuestions":       "TOTAL_QUESTIONS",
	"maxScore":             "MAX_SCORE",
	"passingScore":         "PASSING_SCORE",
	"scheduledStart":       "SCHEDULED_START",
	"scheduledEnd":         "SCHEDULED_END",
	"status":               "STATUS",
	"detectionSensitivity": "DETECTION_SENSITIVITY",
	"requireBiometric":     "REQUIRE_BIOMETRIC",
	"allowedDevices":       "ALLOWED_DEVICES",
	"createdBy":            "CREATED_BY",
	"createdAt":            "CREATED_AT",
	"updatedAt":            "UPDATED_AT",
	"deletedAt":            "DELETED_AT",
}

var sessionColumns = map[string]string{
	"id":                      "ID",
	"examId":                  "EXAM_ID",
	"studentId":               "STUDENT_ID",
	"startedAt":               "STARTED_AT",
	"endedAt":                 "ENDED_AT",
	"submittedAt":             "SUBMITTED_AT",
	"status":                  "STATUS",
	"biometricVerified":       "BIOMETRIC_VERIFIED",
	"biometricVerifiedAt":     "BIOMETRIC_VERIFIED_AT",
	"score":                   "SCORE",
	"percentageScore":         "PERCENTAGE_SCORE",
	"passed":                  "PASSED",
	"videoRecordingUrl":       "VIDEO_RECORDING_URL",
	"recordingMetadata":       "RECORDING_METADATA",
	"clientIp":                "CLIENT_IP",
	"userAgent":               "USER_AGENT",
	"suspiciousActivityCount": "SUSPICIOUS_ACTIVITY_COUNT",
	"createdAt":               "CREATED_AT",
	"updatedAt":               "UPDATED_AT",
}

var alertColumns = map[string]string{
	"id":                  "ID",
	"sessionId":           "SESSION_ID",
	"alertType":           "ALERT_TYPE",
	"severity":            "SEVERITY",
	"confidence":          "CONFIDENCE",
	"description":         "DESCRIPTION",
	"metadata":            "METADATA",
	"videoClipUrl":        "VIDEO_CLIP_URL",
	"acknowledged":        "ACKNOWLEDGED",
	"acknowledgedBy":      "ACKNOWLEDGED_BY",
	"acknowledgedAt":      "ACKNOWLEDGED_AT",
	"acknowledgmentNotes": "ACKNOWLEDGMENT_NOTES",
	"createdAt":           "CREATED_AT",
	"updatedAt":           "UPDATED_AT",
	"deletedAt":           "DELETED_AT",
}

var incidentColumns = map[string]string{
	"id":                "ID",
	"sessionId":         "SESSION_ID",
	"incidentType":      "INCIDENT_TYPE",
	"severity":          "SEVERITY",
	"description":       "DESCRIPTION",
	"status":            "STATUS",
	"reportedBy":        "REPORTED_BY",
	"investigatedBy":    "INVESTIGATED_BY",
	"resolution":        "RESOLUTION",
	"recommendedAction": "RECOMMENDED_ACTION",
	"evidenceUrls":      "EVIDENCE_URLS",
	"resolvedAt":        "RESOLVED_AT",
	"createdAt":         "CREATED_AT",
	"updatedAt":         "UPDATED_AT",
	"deletedAt":         "DELETED_AT",
}

var evidenceColumns = map[string]string{
	"id":            "ID",
	"sessionId":     "SESSION_ID",
	"alertId":       "ALERT_ID",
	"incidentId":    "INCIDENT_ID",
	"storageUrl":    "STORAGE_URL",
	"fileSize":      "FILE_SIZE",
	"duration":      "DURATION",
	"startOffset":   "START_OFFSET",
	"endOffset":     "END_OFFSET",
	"contentType":   "CONTENT_TYPE",
	"retentionDays": "RETENTION_DAYS",
	"expiresAt":     "EXPIRES_AT",
	"createdAt":     "CREATED_AT",
}

var analyticsColumns = map[string]string{
	"id":                 "ID",
	"period":             "PERIOD",
	"courseCode":         "COURSE_CODE",
	"department":         "DEPARTMENT",
	"totalSessions":      "TOTAL_SESSIONS",
	"flaggedSessions":    "FLAGGED_SESSIONS",
	"confirmedIncidents": "CONFIRMED_INCIDENTS",
	"dismissedIncidents": "DISMISSED_INCIDENTS",
	"fraudRate":          "FRAUD_RATE",
	"commonAlertTypes":   "COMMON_ALERT_TYPES",
	"avgConfidence":      "AVG_CONFIDENCE",
	"avgScore":           "AVG_SCORE",
	"passRate":           "PASS_RATE",
	"createdAt":          "CREATED_AT",
	"updatedAt":          "UPDATED_AT",
}

var auditColumns = map[string]string{
	"id":          "ID",
	"eventType":   "EVENT_TYPE",
	"userId":      "USER_ID",
	"targetType":  "TARGET_TYPE",
	"targetId":    "TARGET_ID",
	"description": "DESCRIPTION",
	"metadata":    "METADATA",
	"ipAddress":   "IP_ADDRESS",
	"createdAt":   "CREATED_AT",
}

// VerifyColumnTables cross-checks every table against its model struct at
// construction time: each declared key must correspond to a struct field,
// each struct field must be declared, and each physical name must be the
// mechanical UPPER_SNAKE_CASE form of its key.
func VerifyColumnTables() error {
	checks := []struct {
		entity string
		table  map[string]string
		model  any
	}{
		{"user", userColumns, models.User{}},
		{"exam", examColumns, models.Exam{}},
		{"session", sessionColumns, models.ExamSession{}},
		{"alert", alertColumns, models.Alert{}},
		{"incident", incidentColumns, models.Incident{}},
		{"evidence", evidenceColumns, models.VideoEvidence{}},
		{"analytics", analyticsColumns, models.FraudAnalytics{}},
		{"audit", auditColumns, models.AuditLog{}},
	}

	for _, c := range checks {
		if err := verifyTable(c.entity, c.table, reflect.TypeOf(c.model)); err != nil {
			return err
		}
	}
	return nil
}

func verifyTable(entity string, table map[string]string, model reflect.Type) error {
	structFields := make(map[string]string, model.NumField())
	for i := 0; i < model.NumField(); i++ {
		f := model.Field(i)
		structFields[normalize(f.Name)] = f.Name
	}

	seen := make(map[string]bool, len(table))
	for key, column := range table {
		if want := camelToUpperSnake(key); column != want {
			return fmt.Errorf("legacy column table %s: key %q maps to %q, expected %q", entity, key, column, want)
		}
		norm := normalize(key)
		if _, ok := structFields[norm]; !ok {
			return fmt.Errorf("legacy column table %s: key %q has no model field", entity, key)
		}
		seen[norm] = true
	}

	for norm, name := range structFields {
		if !seen[norm] {
			return fmt.Errorf("legacy column table %s: model field %s is not declared", entity, name)
		}
	}
	return nil
}

// normalize lowercases a field or key name so OpenID and openId compare equal.
func normalize(name string) string {
	return strings.ToLower(name)
}

// camelToUpperSnake converts a camelCase contract field name to the legacy
// schema's physical column name.
func camelToUpperSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
