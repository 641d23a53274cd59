package usecase

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"reissue-service/internal/domain/entity"
	ifrepo "reissue-service/internal/interface/repository"
	"reissue-service/pkg/idgen"
	"reissue-service/pkg/logger"
	"reissue-service/pkg/metrics"
)

func newProcessor(t *testing.T, bookings []entity.Booking) (*ReissueProcessor, *ifrepo.MemoryRunRepository) {
	t.Helper()

	runs := ifrepo.NewMemoryRunRepository(0)
	m := metrics.NewMetrics("reissue_test", prometheus.NewRegistry())
	seeded := func() idgen.Source { return rand.New(rand.NewSource(1)) }

	p := NewReissueProcessor(
		ifrepo.NewMemoryBookingRepository(bookings),
		runs,
		m,
		logger.NewNop(),
		0, // no simulated latency in tests
		seeded,
	)
	return p, runs
}

// launchAndWait launches one run and blocks until its background task is done
func launchAndWait(t *testing.T, p *ReissueProcessor, runs *ifrepo.MemoryRunRepository, selection []string, criteria entity.SearchCriteria) *entity.Run {
	t.Helper()

	run, err := p.LaunchRun(context.Background(), selection, criteria)
	if err != nil {
		t.Fatalf("LaunchRun: %v", err)
	}
	if run.State != entity.RunProcessing {
		t.Fatalf("launched run state = %q, want Processing", run.State)
	}

	p.Wait()

	done, err := runs.Get(context.Background(), run.RunID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	return done
}

func TestLaunchRunRejectsEmptySelection(t *testing.T) {
	p, _ := newProcessor(t, nil)

	_, err := p.LaunchRun(context.Background(), nil, entity.SearchCriteria{FlightNumber: "101"})
	if !errors.Is(err, entity.ErrEmptySelection) {
		t.Errorf("err = %v, want ErrEmptySelection", err)
	}
}

func TestLaunchRunRejectsInactiveBooking(t *testing.T) {
	travel := date(2025, 11, 24)
	boarded := ptpBooking("p3", "D4E5F6", "101", travel)
	boarded.Status = entity.StatusBoarded

	p, _ := newProcessor(t, []entity.Booking{boarded})

	_, err := p.LaunchRun(context.Background(), []string{"p3"}, entity.SearchCriteria{FlightNumber: "101"})
	if !errors.Is(err, entity.ErrInactiveSelection) {
		t.Errorf("err = %v, want ErrInactiveSelection", err)
	}
}

func TestRunCompletesWithTickets(t *testing.T) {
	travel := date(2025, 11, 24)
	p, runs := newProcessor(t, []entity.Booking{
		ptpBooking("p1", "A1B2C3", "101", travel),
		roundtripBooking("r8", "CONRT01", "576/101", "102/575", travel),
	})

	criteria := entity.SearchCriteria{FlightNumber: "101"}
	done := launchAndWait(t, p, runs, []string{"p1", "r8"}, criteria)

	if done.State != entity.RunCompleted {
		t.Fatalf("state = %q, want Completed", done.State)
	}
	if done.PassengerCount != 2 {
		t.Errorf("passengerCount = %d, want 2", done.PassengerCount)
	}
	if len(done.Tickets) != 2 {
		t.Fatalf("tickets = %d, want 2", len(done.Tickets))
	}
	if done.CompletedAt.IsZero() {
		t.Error("completedAt not set")
	}

	// Scenario: outbound-only impact on a compound roundtrip leg
	rt := done.Tickets[1]
	if rt.NewFlightDescriptor != "576/101" {
		t.Errorf("roundtrip descriptor = %q, want 576/101", rt.NewFlightDescriptor)
	}
	if rt.CouponString() != "1, 2" {
		t.Errorf("coupon string = %q, want \"1, 2\"", rt.CouponString())
	}
	if rt.TicketNumber == "" || rt.NewPNR == "" {
		t.Error("ticket missing generated identifiers")
	}
	if !done.Tickets[0].IssuedAt.Before(done.CompletedAt.Add(1)) {
		t.Error("issuedAt after completion")
	}
}

func TestPassengersSharingPNRGetOneNewPNR(t *testing.T) {
	travel := date(2025, 11, 24)
	p, runs := newProcessor(t, []entity.Booking{
		ptpBooking("p4", "G7H8I9", "101", travel),
		ptpBooking("p5", "G7H8I9", "101", travel),
		ptpBooking("p1", "A1B2C3", "101", travel),
	})

	done := launchAndWait(t, p, runs, []string{"p4", "p5", "p1"}, entity.SearchCriteria{FlightNumber: "101"})

	byOldPnr := make(map[string]map[string]bool)
	for _, ticket := range done.Tickets {
		if byOldPnr[ticket.OldPNR] == nil {
			byOldPnr[ticket.OldPNR] = make(map[string]bool)
		}
		byOldPnr[ticket.OldPNR][ticket.NewPNR] = true
	}

	if len(byOldPnr["G7H8I9"]) != 1 {
		t.Errorf("G7H8I9 mapped to %d new PNRs, want 1", len(byOldPnr["G7H8I9"]))
	}
	for newPnr := range byOldPnr["A1B2C3"] {
		if byOldPnr["G7H8I9"][newPnr] {
			t.Errorf("distinct old PNRs share new PNR %q", newPnr)
		}
	}
}

func TestUnresolvableBookingDegradesNotAborts(t *testing.T) {
	travel := date(2025, 11, 24)
	p, runs := newProcessor(t, []entity.Booking{
		ptpBooking("p1", "A1B2C3", "101", travel),
	})

	done := launchAndWait(t, p, runs, []string{"p1", "ghost"}, entity.SearchCriteria{FlightNumber: "101"})

	if done.State != entity.RunCompleted {
		t.Fatalf("state = %q, want Completed despite unresolvable member", done.State)
	}
	if len(done.Tickets) != 2 {
		t.Fatalf("tickets = %d, want 2", len(done.Tickets))
	}
	if len(done.Warnings) != 1 {
		t.Errorf("warnings = %d, want 1", len(done.Warnings))
	}

	var degraded *entity.Ticket
	for i := range done.Tickets {
		if done.Tickets[i].Degraded {
			degraded = &done.Tickets[i]
		}
	}
	if degraded == nil {
		t.Fatal("no degraded ticket issued")
	}
	if degraded.OldPNR != "UNKNOWN" {
		t.Errorf("degraded oldPnr = %q, want UNKNOWN", degraded.OldPNR)
	}
	if len(degraded.NewFlightDescriptor) != 3 {
		t.Errorf("placeholder descriptor = %q, want 3 digits", degraded.NewFlightDescriptor)
	}
	if len(degraded.CouponSequence) != 1 || degraded.CouponSequence[0] != 1 {
		t.Errorf("degraded coupons = %v, want [1]", degraded.CouponSequence)
	}
}

func TestConcurrentRunsAreIndependent(t *testing.T) {
	travel := date(2025, 11, 24)
	p, runs := newProcessor(t, []entity.Booking{
		ptpBooking("p1", "A1B2C3", "101", travel),
		ptpBooking("p2", "A1B2C3", "101", travel),
		ptpBooking("p4", "G7H8I9", "101", travel),
		ptpBooking("p5", "G7H8I9", "101", travel),
	})

	criteria := entity.SearchCriteria{FlightNumber: "101"}

	var wg sync.WaitGroup
	runIDs := make([]string, 2)
	selections := [][]string{{"p1", "p2"}, {"p4", "p5"}}

	for i := range selections {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			run, err := p.LaunchRun(context.Background(), selections[i], criteria)
			if err != nil {
				t.Errorf("LaunchRun %d: %v", i, err)
				return
			}
			runIDs[i] = run.RunID
		}(i)
	}
	wg.Wait()
	p.Wait()

	states := make(map[string]*entity.Run)
	for _, id := range runIDs {
		run, err := runs.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("Get %s: %v", id, err)
		}
		if run.State != entity.RunCompleted {
			t.Errorf("run %s state = %q, want Completed", id, run.State)
		}
		if len(run.Tickets) != 2 {
			t.Errorf("run %s tickets = %d, want 2", id, len(run.Tickets))
		}
		states[id] = run
	}

	// No cross-contamination: each run keeps its own PNR mapping
	for _, run := range states {
		pnrs := make(map[string]bool)
		for _, ticket := range run.Tickets {
			pnrs[ticket.OldPNR] = true
		}
		if len(pnrs) != 1 {
			t.Errorf("run %s mixes selections: old PNRs %v", run.RunID, pnrs)
		}
	}
}

func TestCancelProcessingRun(t *testing.T) {
	travel := date(2025, 11, 24)
	p, runs := newProcessor(t, []entity.Booking{ptpBooking("p1", "A1B2C3", "101", travel)})

	// Open a run directly so no background task races the cancel
	run := &entity.Run{RunID: "run-manual", State: entity.RunPending, PassengerCount: 1}
	if err := runs.Create(context.Background(), run); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := runs.Start(context.Background(), "run-manual"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := p.CancelRun(context.Background(), "run-manual"); err != nil {
		t.Fatalf("CancelRun: %v", err)
	}

	got, _ := runs.Get(context.Background(), "run-manual")
	if got.State != entity.RunCancelled {
		t.Errorf("state = %q, want Cancelled", got.State)
	}

	if err := p.CancelRun(context.Background(), "run-manual"); !errors.Is(err, entity.ErrInvalidRunState) {
		t.Errorf("second cancel err = %v, want ErrInvalidRunState", err)
	}
}

func TestCriteriaSnapshotPreserved(t *testing.T) {
	travel := date(2025, 11, 24)
	p, runs := newProcessor(t, []entity.Booking{ptpBooking("p1", "A1B2C3", "101", travel)})

	criteria := entity.SearchCriteria{FlightNumber: "101", Origin: "DXB"}
	done := launchAndWait(t, p, runs, []string{"p1"}, criteria)

	if done.CriteriaSnapshot.FlightNumber != "101" || done.CriteriaSnapshot.Origin != "DXB" {
		t.Errorf("criteria snapshot = %+v", done.CriteriaSnapshot)
	}
}
