package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorhub/proctoring-service/internal/config"
	"github.com/proctorhub/proctoring-service/internal/utils"
)

func TestProviderReturnsSameStore(t *testing.T) {
	cfg := &config.Config{Environment: "test"}
	p := NewProvider(cfg, utils.NewDefaultLogger())
	ctx := context.Background()

	first := p.Store(ctx)
	second := p.Store(ctx)

	require.NotNil(t, first)
	assert.Same(t, first, second, "selection must happen exactly once")
}

func TestProviderSelectsRelationalByDefault(t *testing.T) {
	cfg := &config.Config{Environment: "test"}
	p := NewProvider(cfg, utils.NewDefaultLogger())

	store := p.Store(context.Background())
	assert.Equal(t, "relational", store.Backend())
}

func TestProviderFallsBackWhenLegacyUnavailable(t *testing.T) {
	// Legacy requested but unconfigured: the probe cannot pass, so the
	// provider must fall back to the relational backend.
	cfg := &config.Config{Environment: "test", UseLegacyDB: true}
	p := NewProvider(cfg, utils.NewDefaultLogger())

	store := p.Store(context.Background())
	assert.Equal(t, "relational", store.Backend())
}
