package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/proctorhub/proctoring-service/internal/config"
)

func TestVerifierUnconfigured(t *testing.T) {
	v := NewVerifier(&config.Config{})
	assert.False(t, v.Configured())

	_, err := v.VerifyToken("any-token")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestVerifierConfigured(t *testing.T) {
	v := NewVerifier(&config.Config{
		CasdoorEndpoint:     "https://sso.example.edu",
		CasdoorClientID:     "client-id",
		CasdoorClientSecret: "client-secret",
		CasdoorOrganization: "university",
		CasdoorApplication:  "proctoring",
	})
	assert.True(t, v.Configured())
}
