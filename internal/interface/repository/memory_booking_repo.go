package repository

import (
	"context"
	"fmt"
	"sync"

	"reissue-service/internal/domain/entity"
	"reissue-service/internal/domain/repository"
)

// MemoryBookingRepository implements BookingRepository over an in-process
// booking set, used for development and tests.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]entity.Booking
	order    []string
}

// NewMemoryBookingRepository creates a repository holding the given bookings
func NewMemoryBookingRepository(bookings []entity.Booking) *MemoryBookingRepository {
	r := &MemoryBookingRepository{
		bookings: make(map[string]entity.Booking, len(bookings)),
	}
	for _, b := range bookings {
		r.bookings[b.ID] = b
		r.order = append(r.order, b.ID)
	}
	return r
}

// FindAll returns every booking in insertion order
func (r *MemoryBookingRepository) FindAll(ctx context.Context) ([]entity.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Booking, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.bookings[id])
	}
	return out, nil
}

// FindByID returns one booking by its identifier
func (r *MemoryBookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, entity.ErrBookingNotFound)
	}
	return &b, nil
}

// FindByPNR returns every booking sharing a PNR
func (r *MemoryBookingRepository) FindByPNR(ctx context.Context, pnr string) ([]entity.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entity.Booking
	for _, id := range r.order {
		if r.bookings[id].PNR == pnr {
			out = append(out, r.bookings[id])
		}
	}
	return out, nil
}

var _ repository.BookingRepository = (*MemoryBookingRepository)(nil)
