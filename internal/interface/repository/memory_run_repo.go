package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"reissue-service/internal/domain/entity"
	"reissue-service/internal/domain/repository"
)

// DefaultRunRetention caps how many runs the in-memory store keeps.
// Oldest terminal runs are evicted first; live runs are never evicted.
const DefaultRunRetention = 100

// MemoryRunRepository implements RunRepository in process memory, holding
// runs most-recent-first and enforcing the run lifecycle on every
// transition.
type MemoryRunRepository struct {
	mu        sync.RWMutex
	runs      []*entity.Run
	retention int
}

// NewMemoryRunRepository creates an empty run store. retention <= 0 uses
// DefaultRunRetention.
func NewMemoryRunRepository(retention int) *MemoryRunRepository {
	if retention <= 0 {
		retention = DefaultRunRetention
	}
	return &MemoryRunRepository{retention: retention}
}

// Create appends a run in most-recent-first position
func (r *MemoryRunRepository) Create(ctx context.Context, run *entity.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *run
	r.runs = append([]*entity.Run{&stored}, r.runs...)
	r.evictLocked()
	return nil
}

// Start transitions a Pending run to Processing
func (r *MemoryRunRepository) Start(ctx context.Context, runID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, err := r.findLocked(runID)
	if err != nil {
		return err
	}
	if run.State != entity.RunPending {
		return fmt.Errorf("run %s is %s: %w", runID, run.State, entity.ErrInvalidRunState)
	}
	run.State = entity.RunProcessing
	return nil
}

// Complete transitions a Processing run to Completed and attaches its
// tickets and warnings
func (r *MemoryRunRepository) Complete(ctx context.Context, runID string, tickets []entity.Ticket, warnings []string) (*entity.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, err := r.findLocked(runID)
	if err != nil {
		return nil, err
	}
	if run.State != entity.RunProcessing {
		return nil, fmt.Errorf("run %s is %s: %w", runID, run.State, entity.ErrInvalidRunState)
	}

	run.State = entity.RunCompleted
	run.Tickets = tickets
	run.Warnings = warnings
	run.CompletedAt = time.Now()

	out := copyRun(run)
	return &out, nil
}

// Fail transitions a Processing run to Failed with a detail message
func (r *MemoryRunRepository) Fail(ctx context.Context, runID string, detail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, err := r.findLocked(runID)
	if err != nil {
		return err
	}
	if run.State != entity.RunProcessing {
		return fmt.Errorf("run %s is %s: %w", runID, run.State, entity.ErrInvalidRunState)
	}

	run.State = entity.RunFailed
	run.ErrorDetail = detail
	run.CompletedAt = time.Now()
	return nil
}

// Cancel transitions a Processing run with no attached tickets to Cancelled
func (r *MemoryRunRepository) Cancel(ctx context.Context, runID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, err := r.findLocked(runID)
	if err != nil {
		return err
	}
	if run.State != entity.RunProcessing || len(run.Tickets) > 0 {
		return fmt.Errorf("run %s is %s with %d tickets: %w", runID, run.State, len(run.Tickets), entity.ErrInvalidRunState)
	}

	run.State = entity.RunCancelled
	run.CompletedAt = time.Now()
	return nil
}

// Get returns a copy of one run
func (r *MemoryRunRepository) Get(ctx context.Context, runID string) (*entity.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, err := r.findLocked(runID)
	if err != nil {
		return nil, err
	}
	out := copyRun(run)
	return &out, nil
}

// List returns copies of all retained runs, most-recent-first
func (r *MemoryRunRepository) List(ctx context.Context) ([]entity.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Run, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, copyRun(run))
	}
	return out, nil
}

func (r *MemoryRunRepository) findLocked(runID string) (*entity.Run, error) {
	for _, run := range r.runs {
		if run.RunID == runID {
			return run, nil
		}
	}
	return nil, fmt.Errorf("run %s: %w", runID, entity.ErrRunNotFound)
}

// evictLocked drops the oldest terminal runs once the store exceeds its
// retention cap
func (r *MemoryRunRepository) evictLocked() {
	for len(r.runs) > r.retention {
		evicted := false
		for i := len(r.runs) - 1; i >= 0; i-- {
			if r.runs[i].State.IsTerminal() {
				r.runs = append(r.runs[:i], r.runs[i+1:]...)
				evicted = true
				break
			}
		}
		if !evicted {
			return // every run still live, keep them all
		}
	}
}

func copyRun(run *entity.Run) entity.Run {
	out := *run
	out.Tickets = append([]entity.Ticket(nil), run.Tickets...)
	out.Warnings = append([]string(nil), run.Warnings...)
	return out
}

var _ repository.RunRepository = (*MemoryRunRepository)(nil)
