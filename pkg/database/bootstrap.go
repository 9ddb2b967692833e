package database

import (
	"context"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// SchemaBootstrap applies the schema once and keeps retrying until it succeeds.
type SchemaBootstrap struct {
	db     *sqlx.DB
	logger *zap.Logger

	mu   sync.Mutex
	done bool
}

// NewSchemaBootstrap constructs a bootstrap for db.
func NewSchemaBootstrap(db *sqlx.DB, logger *zap.Logger) *SchemaBootstrap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaBootstrap{db: db, logger: logger}
}

// Ensure applies the schema unless an earlier call already did.
func (b *SchemaBootstrap) Ensure(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return nil
	}
	if err := EnsureSchema(ctx, b.db); err != nil {
		return err
	}
	b.done = true
	b.logger.Info("database schema ready")
	return nil
}

// Done reports whether the schema has been applied.
func (b *SchemaBootstrap) Done() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

// Run calls Ensure immediately and then every interval until it succeeds or
// ctx is cancelled.
func (b *SchemaBootstrap) Run(ctx context.Context, interval time.Duration) error {
	err := b.Ensure(ctx)
	if err == nil {
		return nil
	}
	b.logger.Warn("schema bootstrap failed, retrying", zap.Error(err), zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := b.Ensure(ctx); err != nil {
				b.logger.Warn("schema bootstrap failed, retrying", zap.Error(err))
				continue
			}
			return nil
		}
	}
}
