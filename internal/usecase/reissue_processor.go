package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"reissue-service/internal/domain/entity"
	"reissue-service/internal/domain/repository"
	"reissue-service/pkg/idgen"
	"reissue-service/pkg/logger"
	"reissue-service/pkg/metrics"

	"github.com/google/uuid"
)

// ReissueProcessor runs the reissuance pipeline: it validates a selection,
// opens a run, and issues tickets in a single background task per run.
// Each run works on its own PNR registry and ticket set, so concurrent
// runs never share mutable state.
type ReissueProcessor struct {
	bookings      repository.BookingRepository
	runs          repository.RunRepository
	metrics       *metrics.Metrics
	logger        logger.Logger
	issuanceDelay time.Duration
	newSource     func() idgen.Source
	wg            sync.WaitGroup
}

// NewReissueProcessor creates a new processor. issuanceDelay simulates
// downstream ticketing latency before a run completes; newSource may be
// nil for a time-seeded randomness source.
func NewReissueProcessor(
	bookings repository.BookingRepository,
	runs repository.RunRepository,
	m *metrics.Metrics,
	log logger.Logger,
	issuanceDelay time.Duration,
	newSource func() idgen.Source,
) *ReissueProcessor {
	if newSource == nil {
		newSource = idgen.NewSource
	}
	return &ReissueProcessor{
		bookings:      bookings,
		runs:          runs,
		metrics:       m,
		logger:        log,
		issuanceDelay: issuanceDelay,
		newSource:     newSource,
	}
}

// LaunchRun validates the selection, records a Processing run and
// dispatches its background issuance task. The returned run is a snapshot
// taken at launch; callers poll GetRun for completion.
//
// Every resolvable selection member must be ACTIVE. IDs that no longer
// resolve are admitted and handled as degraded tickets at issuance time.
func (p *ReissueProcessor) LaunchRun(ctx context.Context, selection []string, criteria entity.SearchCriteria) (*entity.Run, error) {
	if len(selection) == 0 {
		return nil, entity.ErrEmptySelection
	}

	for _, id := range selection {
		b, err := p.bookings.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, entity.ErrBookingNotFound) {
				continue // stale selection, resolved at issuance time
			}
			return nil, fmt.Errorf("failed to resolve booking %s: %w", id, err)
		}
		if !b.IsSelectable() {
			return nil, fmt.Errorf("booking %s has status %s: %w", id, b.Status, entity.ErrInactiveSelection)
		}
	}

	run := &entity.Run{
		RunID:            uuid.NewString(),
		State:            entity.RunPending,
		CriteriaSnapshot: criteria,
		PassengerCount:   len(selection),
		CreatedAt:        time.Now(),
	}

	if err := p.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	if err := p.runs.Start(ctx, run.RunID); err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}
	run.State = entity.RunProcessing
	p.metrics.RunsStarted.Inc()

	p.logger.Info("Reissuance run launched",
		"runId", run.RunID,
		"passengerCount", run.PassengerCount,
		"flight", criteria.FlightNumber)

	selectionCopy := make([]string, len(selection))
	copy(selectionCopy, selection)

	p.wg.Add(1)
	go p.process(context.WithoutCancel(ctx), run.RunID, selectionCopy, criteria)

	return run, nil
}

// process is the single background task for one run. At most one task is
// ever in flight per run ID by construction.
func (p *ReissueProcessor) process(ctx context.Context, runID string, selection []string, criteria entity.SearchCriteria) {
	defer p.wg.Done()

	start := time.Now()
	defer func() {
		p.metrics.ProcessingTime.Observe(time.Since(start).Seconds())
	}()

	// Simulated downstream ticketing latency. The run may be cancelled
	// while this sleeps; Complete then rejects the transition below.
	if p.issuanceDelay > 0 {
		time.Sleep(p.issuanceDelay)
	}

	source := p.newSource()
	pnrs := idgen.NewPNRAllocator(source)
	ticketNumbers := idgen.NewTicketNumbers(source)

	var tickets []entity.Ticket
	var warnings []string

	for _, id := range selection {
		oldPnr := "UNKNOWN"
		name := "Unknown"
		descriptor := ""
		var coupons []int
		degraded := false

		b, err := p.bookings.FindByID(ctx, id)
		if err != nil {
			// Data-consistency warning, not fatal: the rest of the batch
			// still tickets. The placeholder keeps the record displayable
			// and the degraded marker distinguishes it for operators.
			warnings = append(warnings, fmt.Sprintf("booking %s unresolvable at issuance, placeholder ticket issued", id))
			descriptor = fmt.Sprintf("%03d", 100+source.Intn(900))
			coupons = entity.CouponRange(1)
			degraded = true
			p.metrics.DegradedTickets.Inc()
			p.logger.Warn("Selected booking unresolvable at issuance", "runId", runID, "bookingId", id)
		} else {
			oldPnr = b.PNR
			name = b.PassengerName
			descriptor, coupons = DecideReissuance(b, criteria.FlightNumber)
		}

		newPnr, err := pnrs.NewPNRFor(oldPnr)
		if err != nil {
			p.failRun(ctx, runID, fmt.Sprintf("pnr allocation failed: %v", err))
			return
		}

		ticketNumber, err := ticketNumbers.Next()
		if err != nil {
			p.failRun(ctx, runID, fmt.Sprintf("ticket number allocation failed: %v", err))
			return
		}

		tickets = append(tickets, entity.Ticket{
			OldPNR:              oldPnr,
			NewPNR:              newPnr,
			PassengerName:       name,
			TicketNumber:        ticketNumber,
			CouponSequence:      coupons,
			NewFlightDescriptor: descriptor,
			Degraded:            degraded,
			IssuedAt:            time.Now(),
		})
		p.metrics.TicketsIssued.Inc()
	}

	if _, err := p.runs.Complete(ctx, runID, tickets, warnings); err != nil {
		p.metrics.ErrorsCount.WithLabelValues("complete_run").Inc()
		p.logger.Error("Failed to complete run", "runId", runID, "error", err)
		return
	}

	p.metrics.RunsCompleted.Inc()
	p.logger.Info("Reissuance run completed",
		"runId", runID,
		"tickets", len(tickets),
		"warnings", len(warnings))
}

// CancelRun aborts a Processing run before any tickets were attached
func (p *ReissueProcessor) CancelRun(ctx context.Context, runID string) error {
	if err := p.runs.Cancel(ctx, runID); err != nil {
		return err
	}
	p.metrics.RunsCancelled.Inc()
	p.logger.Info("Reissuance run cancelled", "runId", runID)
	return nil
}

func (p *ReissueProcessor) failRun(ctx context.Context, runID, detail string) {
	if err := p.runs.Fail(ctx, runID, detail); err != nil {
		p.logger.Error("Failed to mark run failed", "runId", runID, "error", err)
		return
	}
	p.metrics.RunsFailed.Inc()
	p.logger.Error("Reissuance run failed", "runId", runID, "detail", detail)
}

// Wait blocks until every in-flight run task has finished, for shutdown
func (p *ReissueProcessor) Wait() {
	p.wg.Wait()
}
