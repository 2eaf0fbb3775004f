// Package store persists optimization runs. The engine itself keeps no
// state; this is the caller-side record of what was computed and when.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/caremesh/caremesh-cli/internal/config"
	"github.com/caremesh/caremesh-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Label  string          `json:"label,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for optimization runs.
type Store interface {
	CreateRun(ctx context.Context, label string, facilityCount, regionCount int) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result *model.OptimizationResult) error
	FailRun(ctx context.Context, runID string, message string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store from configuration: sqlite by default, postgres
// when configured with a database URL.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLite(cfg.SQLitePath)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
