// Package idgen allocates the randomized identifiers a reissuance run
// needs: replacement PNRs and ticket numbers. Randomness is injected so
// callers can seed it for deterministic output.
package idgen

import (
	"fmt"
	"math/rand"
	"time"
)

// Source is the subset of math/rand a generator draws from
type Source interface {
	Intn(n int) int
	Int63n(n int64) int64
}

// NewSource returns a time-seeded source for production use
func NewSource() Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

const (
	pnrPrefix      = "R"
	ticketPrefix   = "141-"
	maxDrawRetries = 25
)

// PNRAllocator maps old PNRs to freshly generated replacement PNRs within
// a single run. One old PNR always resolves to the same new PNR, so
// passengers sharing a booking reference stay grouped.
type PNRAllocator struct {
	rnd      Source
	assigned map[string]string
	used     map[string]bool
}

// NewPNRAllocator creates an empty per-run allocator
func NewPNRAllocator(rnd Source) *PNRAllocator {
	return &PNRAllocator{
		rnd:      rnd,
		assigned: make(map[string]string),
		used:     make(map[string]bool),
	}
}

// NewPNRFor returns the replacement PNR for oldPnr, generating one on
// first sight. Fresh draws that collide with an already issued PNR are
// re-drawn a bounded number of times before reporting failure.
func (a *PNRAllocator) NewPNRFor(oldPnr string) (string, error) {
	if pnr, ok := a.assigned[oldPnr]; ok {
		return pnr, nil
	}

	for attempt := 0; attempt < maxDrawRetries; attempt++ {
		pnr := fmt.Sprintf("%s%05d", pnrPrefix, 10000+a.rnd.Intn(90000))
		if a.used[pnr] {
			continue
		}
		a.assigned[oldPnr] = pnr
		a.used[pnr] = true
		return pnr, nil
	}

	return "", fmt.Errorf("pnr space exhausted after %d draws", maxDrawRetries)
}

// Mappings returns a copy of the old-to-new PNR mapping built so far
func (a *PNRAllocator) Mappings() map[string]string {
	out := make(map[string]string, len(a.assigned))
	for k, v := range a.assigned {
		out[k] = v
	}
	return out
}

// TicketNumbers allocates ticket numbers with the fixed carrier prefix and
// a 10-digit numeric body, guarding against duplicates within the run.
type TicketNumbers struct {
	rnd    Source
	issued map[string]bool
}

// NewTicketNumbers creates an empty per-run ticket number generator
func NewTicketNumbers(rnd Source) *TicketNumbers {
	return &TicketNumbers{
		rnd:    rnd,
		issued: make(map[string]bool),
	}
}

// Next returns a fresh ticket number, re-drawing on collision a bounded
// number of times before reporting failure.
func (t *TicketNumbers) Next() (string, error) {
	for attempt := 0; attempt < maxDrawRetries; attempt++ {
		number := fmt.Sprintf("%s%010d", ticketPrefix, t.rnd.Int63n(10_000_000_000))
		if t.issued[number] {
			continue
		}
		t.issued[number] = true
		return number, nil
	}

	return "", fmt.Errorf("ticket number space exhausted after %d draws", maxDrawRetries)
}
