package factory

import (
	"context"
	"sync"

	"github.com/proctorhub/proctoring-service/internal/config"
	"github.com/proctorhub/proctoring-service/internal/repositories"
	"github.com/proctorhub/proctoring-service/internal/repositories/legacy"
	"github.com/proctorhub/proctoring-service/internal/repositories/relational"
	"github.com/proctorhub/proctoring-service/internal/utils"
	"github.com/proctorhub/proctoring-service/pkg"
)

// Provider selects the storage backend once and hands out the same Store for
// the life of the process. Selection happens on the first Store call, not at
// construction, so wiring order does not matter.
type Provider struct {
	cfg *config.Config
	log utils.Logger

	once  sync.Once
	store repositories.Store
}

func NewProvider(cfg *config.Config, logger utils.Logger) *Provider {
	return &Provider{cfg: cfg, log: logger}
}

// Store returns the selected backend. With USE_LEGACY_DB set, the legacy
// adapter is tried first; when its availability probe fails the relational
// adapter takes over so the service still comes up.
func (p *Provider) Store(ctx context.Context) repositories.Store {
	p.once.Do(func() {
		p.store = p.selectStore(ctx)
	})
	return p.store
}

func (p *Provider) selectStore(ctx context.Context) repositories.Store {
	if p.cfg.UseLegacyDB {
		ls := legacy.NewStore(ctx, p.cfg.LegacyDSN(), p.cfg.OwnerOpenID, p.log)
		if ls.Available() {
			p.log.Info("Using legacy database backend")
			return ls
		}
		ls.Close()
		p.log.Warn("Legacy database unavailable, falling back to relational backend")
	}

	db, err := pkg.InitDatabase(p.cfg)
	if err != nil {
		// Same degraded mode as a missing DATABASE_URL: reads come back
		// empty and writes fail with ErrDatabaseNotAvailable.
		p.log.LogError(err, "Relational database connection failed, running without storage")
		db = nil
	}
	if db == nil {
		p.log.Warn("Relational backend not configured, storage operations will be degraded")
	} else {
		p.log.Info("Using relational database backend")
	}
	return relational.NewStore(db, p.cfg.OwnerOpenID, p.log)
}
