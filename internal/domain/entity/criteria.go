package entity

import (
	"time"
)

// SearchCriteria is the filter set for a flight-level booking search.
// FlightNumber is mandatory for flight-level search; PNR retrieval goes
// through its own path and never consults the matcher.
type SearchCriteria struct {
	FlightNumber string         `json:"flightNumber" bson:"flightNumber"`
	Origin       string         `json:"origin,omitempty" bson:"origin,omitempty"`
	Dest         string         `json:"dest,omitempty" bson:"dest,omitempty"`
	DateFrom     *time.Time     `json:"dateFrom,omitempty" bson:"dateFrom,omitempty"`
	DateTo       *time.Time     `json:"dateTo,omitempty" bson:"dateTo,omitempty"`
	DaysOfWeek   []time.Weekday `json:"daysOfWeek,omitempty" bson:"daysOfWeek,omitempty"`
	Status       string         `json:"status,omitempty" bson:"status,omitempty"`
}
