package repository

import (
	"context"

	"reissue-service/internal/domain/entity"
)

// BookingRepository defines read access to booking records. The engine
// only ever reads bookings; provisioning them is someone else's job.
type BookingRepository interface {
	FindAll(ctx context.Context) ([]entity.Booking, error)
	FindByID(ctx context.Context, id string) (*entity.Booking, error)
	FindByPNR(ctx context.Context, pnr string) ([]entity.Booking, error)
}
