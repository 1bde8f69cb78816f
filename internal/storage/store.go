package storage

import (
	"context"
	"errors"

	"bitevo/internal/model"
)

var ErrNotInitialized = errors.New("store is not initialized")

// Store keeps run reports. Populations are never stored, so a run cannot be
// resumed from a store.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	// ListRuns returns runs newest first. A non-positive limit returns all.
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
	SaveGenerationDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetGenerationDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
}
