package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"reissue-service/internal/domain/entity"
	"reissue-service/internal/domain/repository"
	"reissue-service/internal/infrastructure/cache"
	"reissue-service/pkg/logger"

	"golang.org/x/sync/singleflight"
)

const searchCacheTTL = 5 * time.Minute

// SearchUsecase serves the read side of the engine: criteria search over
// the booking repository, PNR retrieval, and selection previews.
type SearchUsecase struct {
	bookings repository.BookingRepository
	cache    *cache.RedisClient
	logger   logger.Logger
	// Singleflight group to prevent cache stampede on concurrent misses
	searchGroup singleflight.Group
}

// NewSearchUsecase creates a new search usecase. cache may be nil, in
// which case every search hits the repository.
func NewSearchUsecase(bookings repository.BookingRepository, cache *cache.RedisClient, log logger.Logger) *SearchUsecase {
	return &SearchUsecase{
		bookings: bookings,
		cache:    cache,
		logger:   log,
	}
}

// Search filters the booking repository by criteria. The flight number is
// mandatory for flight-level search and its absence blocks the request
// before any work happens.
func (s *SearchUsecase) Search(ctx context.Context, criteria *entity.SearchCriteria) ([]entity.Booking, error) {
	if criteria.FlightNumber == "" {
		return nil, entity.ErrFlightNumberRequired
	}

	cacheKey := cache.SearchCacheKey(criteria)

	if s.cache != nil {
		var cached []entity.Booking
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			s.logger.Debug("Search cache hit", "key", cacheKey)
			return cached, nil
		}
	}

	results, err, _ := s.searchGroup.Do(cacheKey, func() (interface{}, error) {
		return s.searchFromRepository(ctx, criteria)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search bookings: %w", err)
	}

	matched := results.([]entity.Booking)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, matched, searchCacheTTL); err != nil {
			s.logger.Warn("Failed to cache search results", "error", err)
		}
	}

	return matched, nil
}

func (s *SearchUsecase) searchFromRepository(ctx context.Context, criteria *entity.SearchCriteria) ([]entity.Booking, error) {
	all, err := s.bookings.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]entity.Booking, 0, len(all))
	for _, b := range all {
		if MatchesCriteria(&b, criteria) {
			matched = append(matched, b)
		}
	}

	s.logger.Info("Booking search completed",
		"flight", criteria.FlightNumber,
		"matched", len(matched),
		"scanned", len(all))
	return matched, nil
}

// FindByPNR retrieves every booking grouped under a PNR, bypassing the
// criteria matcher entirely.
func (s *SearchUsecase) FindByPNR(ctx context.Context, pnr string) ([]entity.Booking, error) {
	if pnr == "" {
		return nil, fmt.Errorf("pnr is required")
	}
	return s.bookings.FindByPNR(ctx, pnr)
}

// Summarize groups a selection by travel date with per-shape tallies,
// dates ascending, plus a grand total. Booking IDs that no longer resolve
// are skipped.
func (s *SearchUsecase) Summarize(ctx context.Context, selection []string) (*entity.SelectionSummary, error) {
	byDate := make(map[time.Time]*entity.DateSummary)

	for _, id := range selection {
		b, err := s.bookings.FindByID(ctx, id)
		if err != nil {
			s.logger.Warn("Selection member missing from repository", "bookingId", id)
			continue
		}

		date := dateOnly(b.TravelDate)
		summary, ok := byDate[date]
		if !ok {
			summary = &entity.DateSummary{Date: date}
			byDate[date] = summary
		}

		switch b.Itinerary.Kind {
		case entity.PointToPoint:
			summary.PointToPoint++
		case entity.Connecting:
			summary.Connecting++
		case entity.Roundtrip:
			summary.Roundtrip++
		}
		summary.Total++
	}

	result := &entity.SelectionSummary{}
	for _, summary := range byDate {
		result.Dates = append(result.Dates, *summary)
		result.Total += summary.Total
	}
	sort.Slice(result.Dates, func(i, j int) bool {
		return result.Dates[i].Date.Before(result.Dates[j].Date)
	})

	return result, nil
}
