package usecase

import (
	"strings"
	"time"

	"reissue-service/internal/domain/entity"
)

// MatchesCriteria reports whether a booking satisfies a criteria set. Pure
// predicate, no side effects. An unset field imposes no constraint; the
// mandatory-flight-number rule for flight-level search is enforced by the
// search entrypoint, not here.
func MatchesCriteria(b *entity.Booking, c *entity.SearchCriteria) bool {
	if c.FlightNumber != "" && !flightMatches(b, c.FlightNumber) {
		return false
	}

	if c.Origin != "" && !strings.Contains(strings.ToLower(b.Itinerary.Origin()), strings.ToLower(c.Origin)) {
		return false
	}
	if c.Dest != "" && !strings.Contains(strings.ToLower(b.Itinerary.Dest()), strings.ToLower(c.Dest)) {
		return false
	}

	if c.Status != "" && c.Status != "ALL" && b.Status != c.Status {
		return false
	}

	travelDate := dateOnly(b.TravelDate)
	if c.DateFrom != nil && travelDate.Before(dateOnly(*c.DateFrom)) {
		return false
	}
	if c.DateTo != nil && travelDate.After(dateOnly(*c.DateTo)) {
		return false
	}

	if len(c.DaysOfWeek) > 0 {
		weekday := b.TravelDate.Weekday()
		found := false
		for _, d := range c.DaysOfWeek {
			if d == weekday {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// flightMatches checks the search flight number against every flight
// descriptor the itinerary carries, case-insensitively
func flightMatches(b *entity.Booking, flightNumber string) bool {
	search := strings.ToLower(flightNumber)
	for _, flight := range b.Itinerary.FlightStrings() {
		if strings.Contains(strings.ToLower(flight), search) {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
