package entity

import (
	"time"
)

// Booking Status
const (
	StatusActive       = "ACTIVE"
	StatusCheckedIn    = "CHECKED-IN"
	StatusBoarded      = "BOARDED"
	StatusCancelled    = "CANCELLED"
	StatusImpacted     = "IMPACTED"
	StatusConfirmed    = "CONFIRMED"
	StatusTicketIssued = "TICKET ISSUED"
)

// Cabin Class
const (
	CabinFirst    = "First"
	CabinBusiness = "Business"
	CabinEconomy  = "Economy"
)

// Booking represents one passenger's reservation for a disruption event
type Booking struct {
	ID            string    `json:"id" bson:"_id"`
	PNR           string    `json:"pnr" bson:"pnr"`
	PassengerName string    `json:"passengerName" bson:"passengerName"`
	CabinClass    string    `json:"cabinClass" bson:"cabinClass"`
	FareBasis     string    `json:"fareBasis" bson:"fareBasis"`
	Seat          string    `json:"seat,omitempty" bson:"seat,omitempty"`
	Status        string    `json:"status" bson:"status"`
	TravelDate    time.Time `json:"travelDate" bson:"travelDate"`
	Itinerary     Itinerary `json:"itinerary" bson:"itinerary"`
}

// IsSelectable reports whether the booking is eligible for selection.
// Only ACTIVE bookings may enter a reissuance run.
func (b *Booking) IsSelectable() bool {
	return b.Status == StatusActive
}
