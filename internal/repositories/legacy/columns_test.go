package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamelToUpperSnake(t *testing.T) {
	cases := map[string]string{
		"id":                      "ID",
		"openId":                  "OPEN_ID",
		"videoRecordingUrl":       "VIDEO_RECORDING_URL",
		"suspiciousActivityCount": "SUSPICIOUS_ACTIVITY_COUNT",
		"status":                  "STATUS",
		"biometricVerifiedAt":     "BIOMETRIC_VERIFIED_AT",
	}

	for in, want := range cases {
		assert.Equal(t, want, camelToUpperSnake(in), "input %q", in)
	}
}

func TestVerifyColumnTables(t *testing.T) {
	// The declared tables must stay in lockstep with the model structs; this
	// is the same check the store runs at construction.
	require.NoError(t, VerifyColumnTables())
}

func TestColumnTablesTranslateContractFields(t *testing.T) {
	assert.Equal(t, "VIDEO_RECORDING_URL", sessionColumns["videoRecordingUrl"])
	assert.Equal(t, "RECOMMENDED_ACTION", incidentColumns["recommendedAction"])
	assert.Equal(t, "LAST_SIGNED_IN", userColumns["lastSignedIn"])

	_, ok := sessionColumns["suspiciousActivityCount"]
	assert.True(t, ok, "session table must declare the activity counter")

	_, unknown := sessionColumns["nonexistentField"]
	assert.False(t, unknown)
}
