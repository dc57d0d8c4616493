package identity

import (
	"errors"
	"fmt"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/proctorhub/proctoring-service/internal/config"
	"github.com/proctorhub/proctoring-service/internal/repositories"
)

// ErrNotConfigured is returned when token verification is attempted without
// Casdoor settings present.
var ErrNotConfigured = errors.New("identity: casdoor is not configured")

// Verifier validates Casdoor-issued access tokens and maps the embedded user
// onto an upsert payload for the store.
type Verifier struct {
	client *casdoorsdk.Client
}

// NewVerifier builds a Verifier from configuration. Missing Casdoor settings
// are not an error: the returned Verifier rejects every token with
// ErrNotConfigured, which keeps the service usable in local setups.
func NewVerifier(cfg *config.Config) *Verifier {
	if cfg.CasdoorEndpoint == "" || cfg.CasdoorClientID == "" {
		return &Verifier{}
	}

	client := casdoorsdk.NewClient(
		cfg.CasdoorEndpoint,
		cfg.CasdoorClientID,
		cfg.CasdoorClientSecret,
		cfg.CasdoorCertificate,
		cfg.CasdoorOrganization,
		cfg.CasdoorApplication,
	)
	return &Verifier{client: client}
}

// Configured reports whether token verification is possible.
func (v *Verifier) Configured() bool {
	return v.client != nil
}

// VerifyToken parses and validates the token, returning the user as an upsert
// payload keyed by the Casdoor user id.
func (v *Verifier) VerifyToken(token string) (*repositories.UserUpsert, error) {
	if v.client == nil {
		return nil, ErrNotConfigured
	}

	claims, err := v.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("identity: token verification failed: %w", err)
	}

	user := claims.User
	if user.Id == "" {
		return nil, errors.New("identity: token carries no user id")
	}

	up := &repositories.UserUpsert{OpenID: user.Id}
	if name := displayName(&user); name != "" {
		up.Name = &name
	}
	if user.Email != "" {
		email := user.Email
		up.Email = &email
	}
	if user.Avatar != "" {
		avatar := user.Avatar
		up.PhotoURL = &avatar
	}
	if user.Affiliation != "" {
		dept := user.Affiliation
		up.Department = &dept
	}
	method := "casdoor"
	up.LoginMethod = &method

	return up, nil
}

func displayName(user *casdoorsdk.User) string {
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Name
}
