package entity

import (
	"time"
)

// DateSummary tallies a selection's bookings for one travel date
type DateSummary struct {
	Date         time.Time `json:"date"`
	PointToPoint int       `json:"pointToPoint"`
	Connecting   int       `json:"connecting"`
	Roundtrip    int       `json:"roundtrip"`
	Total        int       `json:"total"`
}

// SelectionSummary groups a selection by travel date, ascending, with a
// grand total across all dates
type SelectionSummary struct {
	Dates []DateSummary `json:"dates"`
	Total int           `json:"total"`
}
