package repository

import (
	"context"

	"reissue-service/internal/domain/entity"
)

// RunRepository owns run records and enforces the run lifecycle:
// Pending -> Processing -> Completed | Failed | Cancelled. Start, Complete,
// Fail and Cancel reject runs that are not in the required source state.
type RunRepository interface {
	Create(ctx context.Context, run *entity.Run) error
	Start(ctx context.Context, runID string) error
	Complete(ctx context.Context, runID string, tickets []entity.Ticket, warnings []string) (*entity.Run, error)
	Fail(ctx context.Context, runID string, detail string) error
	Cancel(ctx context.Context, runID string) error
	Get(ctx context.Context, runID string) (*entity.Run, error)
	List(ctx context.Context) ([]entity.Run, error)
}
