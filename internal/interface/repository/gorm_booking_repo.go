package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"reissue-service/internal/domain/entity"
	"reissue-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormBookingRepository implements BookingRepository against Postgres
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GORM booking repository
func NewGormBookingRepository(db *gorm.DB) repository.BookingRepository {
	return &GormBookingRepository{
		db: db,
	}
}

// Bookings GORM model for database mapping
type Bookings struct {
	BookingID     string        `gorm:"column:booking_id;primaryKey"`
	PNR           string        `gorm:"column:pnr;index"`
	PassengerName string        `gorm:"column:passenger_name"`
	CabinClass    string        `gorm:"column:cabin_class"`
	FareBasis     string        `gorm:"column:fare_basis"`
	Seat          string        `gorm:"column:seat"`
	Status        string        `gorm:"column:status"`
	TravelDate    time.Time     `gorm:"column:travel_date"`
	ItineraryKind string        `gorm:"column:itinerary_kind"`
	Legs          []BookingLegs `gorm:"foreignKey:BookingID;references:BookingID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName overrides the default table name
func (Bookings) TableName() string {
	return "m_bookings"
}

// Leg roles within a stored itinerary
const (
	legRoleFlight   = "FLIGHT"
	legRoleSegment  = "SEGMENT"
	legRoleOutbound = "OUTBOUND"
	legRoleInbound  = "INBOUND"
)

// BookingLegs GORM model: one row per flight leg or segment of a booking
type BookingLegs struct {
	ID        uint      `gorm:"primaryKey"`
	BookingID string    `gorm:"column:booking_id;index"`
	Role      string    `gorm:"column:role"`
	Seq       int       `gorm:"column:seq"`
	Flight    string    `gorm:"column:flight"`
	Origin    string    `gorm:"column:origin"`
	Dest      string    `gorm:"column:dest"`
	Date      time.Time `gorm:"column:date"`
	Time      string    `gorm:"column:time"`
	Status    string    `gorm:"column:status"`
}

// TableName overrides the default table name
func (BookingLegs) TableName() string {
	return "m_booking_legs"
}

// FindAll returns every booking with its legs preloaded
func (r *GormBookingRepository) FindAll(ctx context.Context) ([]entity.Booking, error) {
	var rows []Bookings
	result := r.db.WithContext(ctx).Preload("Legs").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	out := make([]entity.Booking, 0, len(rows))
	for i := range rows {
		b, err := toBookingEntity(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

// FindByID finds one booking by identifier
func (r *GormBookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	var row Bookings
	result := r.db.WithContext(ctx).Preload("Legs").Where("booking_id = ?", id).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("booking %s: %w", id, entity.ErrBookingNotFound)
		}
		return nil, result.Error
	}
	return toBookingEntity(&row)
}

// FindByPNR returns every booking sharing a PNR
func (r *GormBookingRepository) FindByPNR(ctx context.Context, pnr string) ([]entity.Booking, error) {
	var rows []Bookings
	result := r.db.WithContext(ctx).Preload("Legs").Where("pnr = ?", pnr).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	out := make([]entity.Booking, 0, len(rows))
	for i := range rows {
		b, err := toBookingEntity(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

// toBookingEntity converts the GORM row pair into the domain entity,
// rebuilding the tagged itinerary from the stored leg roles
func toBookingEntity(row *Bookings) (*entity.Booking, error) {
	legs := append([]BookingLegs(nil), row.Legs...)
	sort.Slice(legs, func(i, j int) bool { return legs[i].Seq < legs[j].Seq })

	var itinerary entity.Itinerary
	switch entity.ItineraryKind(row.ItineraryKind) {
	case entity.PointToPoint:
		leg, err := pickLeg(legs, legRoleFlight)
		if err != nil {
			return nil, fmt.Errorf("booking %s: %w", row.BookingID, err)
		}
		itinerary = entity.NewPointToPoint(toFlightLeg(leg))

	case entity.Connecting:
		var segments []entity.FlightSegment
		for i := range legs {
			if legs[i].Role == legRoleSegment {
				segments = append(segments, entity.FlightSegment(toFlightLeg(&legs[i])))
			}
		}
		if len(segments) == 0 {
			return nil, fmt.Errorf("booking %s: connecting itinerary without segments", row.BookingID)
		}
		itinerary = entity.NewConnecting(segments...)

	case entity.Roundtrip:
		outbound, err := pickLeg(legs, legRoleOutbound)
		if err != nil {
			return nil, fmt.Errorf("booking %s: %w", row.BookingID, err)
		}
		inbound, err := pickLeg(legs, legRoleInbound)
		if err != nil {
			return nil, fmt.Errorf("booking %s: %w", row.BookingID, err)
		}
		itinerary = entity.NewRoundtrip(toFlightLeg(outbound), toFlightLeg(inbound))

	default:
		return nil, fmt.Errorf("booking %s: unknown itinerary kind %q", row.BookingID, row.ItineraryKind)
	}

	return &entity.Booking{
		ID:            row.BookingID,
		PNR:           row.PNR,
		PassengerName: row.PassengerName,
		CabinClass:    row.CabinClass,
		FareBasis:     row.FareBasis,
		Seat:          row.Seat,
		Status:        row.Status,
		TravelDate:    row.TravelDate,
		Itinerary:     itinerary,
	}, nil
}

func pickLeg(legs []BookingLegs, role string) (*BookingLegs, error) {
	for i := range legs {
		if legs[i].Role == role {
			return &legs[i], nil
		}
	}
	return nil, fmt.Errorf("missing %s leg", role)
}

func toFlightLeg(leg *BookingLegs) entity.FlightLeg {
	return entity.FlightLeg{
		Flight: leg.Flight,
		Origin: leg.Origin,
		Dest:   leg.Dest,
		Date:   leg.Date,
		Time:   leg.Time,
		Status: leg.Status,
	}
}
