package legacy

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proctorhub/proctoring-service/internal/repositories"
	"github.com/proctorhub/proctoring-service/internal/utils"
)

const (
	poolMinConns = 2
	poolMaxConns = 10

	probeTimeout = 5 * time.Second
)

// Store implements repositories.Store with hand-written parameterized SQL
// against the legacy warehouse schema, whose physical columns are
// UPPER_SNAKE_CASE. Availability is decided once, at construction: if the
// pool cannot be created or the probe fails, the store is permanently
// unavailable and no later call performs I/O.
type Store struct {
	pool        *pgxpool.Pool
	available   bool
	ownerOpenID string
	log         utils.Logger
}

// NewStore builds the legacy store. Construction failures are converted into
// the unavailable state rather than returned; the caller checks Available()
// and falls back.
func NewStore(ctx context.Context, dsn, ownerOpenID string, logger utils.Logger) *Store {
	s := &Store{ownerOpenID: ownerOpenID, log: logger}

	if dsn == "" {
		logger.Warn("[legacy] no connection string configured, backend unavailable")
		return s
	}
	if err := VerifyColumnTables(); err != nil {
		logger.Error("[legacy] column table verification failed", "error", err)
		return s
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Warn("[legacy] invalid connection string, backend unavailable", "error", err)
		return s
	}
	cfg.MinConns = poolMinConns
	cfg.MaxConns = poolMaxConns

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(probeCtx, cfg)
	if err != nil {
		logger.Warn("[legacy] pool creation failed, backend unavailable", "error", err)
		return s
	}
	if err := pool.Ping(probeCtx); err != nil {
		pool.Close()
		logger.Warn("[legacy] availability probe failed, backend unavailable", "error", err)
		return s
	}

	s.pool = pool
	s.available = true
	return s
}

// Available reports the outcome of the construction-time probe. It never
// changes for the life of the process.
func (s *Store) Available() bool {
	return s.available
}

func (s *Store) Backend() string {
	return "legacy"
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.pool.Ping(ctx)
}

func (s *Store) guard() error {
	if !s.available {
		return repositories.ErrDatabaseNotAvailable
	}
	return nil
}

func (s *Store) fail(op string, err error) error {
	s.log.Error("[legacy] "+op+" failed", "error", err)
	return err
}
