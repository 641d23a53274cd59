package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"reissue-service/internal/domain/entity"
	"reissue-service/internal/domain/repository"
	"reissue-service/internal/usecase"
	"reissue-service/pkg/logger"
)

const dateLayout = "2006-01-02"

// Handlers exposes the engine's operation boundary over JSON HTTP
type Handlers struct {
	search    *usecase.SearchUsecase
	processor *usecase.ReissueProcessor
	runs      repository.RunRepository
	logger    logger.Logger
}

// NewHandlers creates the HTTP handler set
func NewHandlers(search *usecase.SearchUsecase, processor *usecase.ReissueProcessor, runs repository.RunRepository, log logger.Logger) *Handlers {
	return &Handlers{
		search:    search,
		processor: processor,
		runs:      runs,
		logger:    log,
	}
}

// Register mounts every route on the mux
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/bookings/search", h.SearchBookings)
	mux.HandleFunc("GET /api/bookings/pnr", h.FindByPNR)
	mux.HandleFunc("POST /api/selection/preview", h.PreviewSelection)
	mux.HandleFunc("POST /api/runs", h.LaunchRun)
	mux.HandleFunc("GET /api/runs", h.ListRuns)
	mux.HandleFunc("GET /api/runs/{id}", h.GetRun)
	mux.HandleFunc("POST /api/runs/{id}/cancel", h.CancelRun)
}

// criteriaRequest is the boundary shape of a criteria set; dates travel
// as calendar-date strings and weekdays by name
type criteriaRequest struct {
	FlightNumber string   `json:"flightNumber"`
	Origin       string   `json:"origin,omitempty"`
	Dest         string   `json:"dest,omitempty"`
	DateFrom     string   `json:"dateFrom,omitempty"`
	DateTo       string   `json:"dateTo,omitempty"`
	DaysOfWeek   []string `json:"daysOfWeek,omitempty"`
	Status       string   `json:"status,omitempty"`
}

func (c *criteriaRequest) toEntity() (*entity.SearchCriteria, error) {
	criteria := &entity.SearchCriteria{
		FlightNumber: c.FlightNumber,
		Origin:       c.Origin,
		Dest:         c.Dest,
		Status:       c.Status,
	}

	if c.DateFrom != "" {
		t, err := time.Parse(dateLayout, c.DateFrom)
		if err != nil {
			return nil, fmt.Errorf("invalid dateFrom %q", c.DateFrom)
		}
		criteria.DateFrom = &t
	}
	if c.DateTo != "" {
		t, err := time.Parse(dateLayout, c.DateTo)
		if err != nil {
			return nil, fmt.Errorf("invalid dateTo %q", c.DateTo)
		}
		criteria.DateTo = &t
	}

	for _, name := range c.DaysOfWeek {
		day, err := parseWeekday(name)
		if err != nil {
			return nil, err
		}
		criteria.DaysOfWeek = append(criteria.DaysOfWeek, day)
	}

	return criteria, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(name string) (time.Weekday, error) {
	if day, ok := weekdays[strings.ToLower(name)]; ok {
		return day, nil
	}
	return 0, fmt.Errorf("invalid day of week %q", name)
}

// SearchBookings handles flight-level booking search
func (h *Handlers) SearchBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := criteriaRequest{
		FlightNumber: query.Get("flight"),
		Origin:       query.Get("origin"),
		Dest:         query.Get("dest"),
		DateFrom:     query.Get("from"),
		DateTo:       query.Get("to"),
		Status:       query.Get("status"),
	}
	if days := query.Get("days"); days != "" {
		req.DaysOfWeek = strings.Split(days, ",")
	}

	criteria, err := req.toEntity()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bookings, err := h.search.Search(r.Context(), criteria)
	if err != nil {
		if errors.Is(err, entity.ErrFlightNumberRequired) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Booking search failed", "error", err)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// FindByPNR handles PNR-level retrieval
func (h *Handlers) FindByPNR(w http.ResponseWriter, r *http.Request) {
	pnr := r.URL.Query().Get("pnr")
	if pnr == "" {
		http.Error(w, "Missing required parameter: pnr", http.StatusBadRequest)
		return
	}

	bookings, err := h.search.FindByPNR(r.Context(), strings.ToUpper(pnr))
	if err != nil {
		h.logger.Error("PNR retrieval failed", "pnr", pnr, "error", err)
		http.Error(w, "retrieval failed", http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"pnr":      strings.ToUpper(pnr),
		"bookings": bookings,
		"count":    len(bookings),
	})
}

type selectionRequest struct {
	BookingIDs []string `json:"bookingIds"`
}

// PreviewSelection returns the date-grouped summary shown before
// confirmation
func (h *Handlers) PreviewSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	summary, err := h.search.Summarize(r.Context(), req.BookingIDs)
	if err != nil {
		h.logger.Error("Selection preview failed", "error", err)
		http.Error(w, "preview failed", http.StatusInternalServerError)
		return
	}

	dates := make([]map[string]interface{}, 0, len(summary.Dates))
	for _, d := range summary.Dates {
		dates = append(dates, map[string]interface{}{
			"date":         d.Date.Format(dateLayout),
			"pointToPoint": d.PointToPoint,
			"connecting":   d.Connecting,
			"roundtrip":    d.Roundtrip,
			"total":        d.Total,
		})
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"dates": dates,
		"total": summary.Total,
	})
}

type launchRequest struct {
	BookingIDs []string        `json:"bookingIds"`
	Criteria   criteriaRequest `json:"criteria"`
}

// LaunchRun confirms a selection and starts a reissuance run
func (h *Handlers) LaunchRun(w http.ResponseWriter, r *http.Request) {
	var req launchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	criteria, err := req.Criteria.toEntity()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	run, err := h.processor.LaunchRun(r.Context(), req.BookingIDs, *criteria)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrEmptySelection), errors.Is(err, entity.ErrInactiveSelection):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("Run launch failed", "error", err)
			http.Error(w, "launch failed", http.StatusInternalServerError)
		}
		return
	}

	h.respondJSON(w, http.StatusAccepted, runResponse(run))
}

// ListRuns returns all retained runs, most-recent-first
func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.runs.List(r.Context())
	if err != nil {
		h.logger.Error("Run listing failed", "error", err)
		http.Error(w, "listing failed", http.StatusInternalServerError)
		return
	}

	out := make([]map[string]interface{}, 0, len(runs))
	for i := range runs {
		out = append(out, runResponse(&runs[i]))
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  out,
		"count": len(out),
	})
}

// GetRun returns one run by its identifier
func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.runs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, entity.ErrRunNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("Run lookup failed", "error", err)
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, http.StatusOK, runResponse(run))
}

// CancelRun aborts a Processing run before completion
func (h *Handlers) CancelRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	if err := h.processor.CancelRun(r.Context(), runID); err != nil {
		switch {
		case errors.Is(err, entity.ErrRunNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, entity.ErrInvalidRunState):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			h.logger.Error("Run cancel failed", "runId", runID, "error", err)
			http.Error(w, "cancel failed", http.StatusInternalServerError)
		}
		return
	}

	run, err := h.runs.Get(r.Context(), runID)
	if err != nil {
		h.logger.Error("Run lookup after cancel failed", "runId", runID, "error", err)
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}
	h.respondJSON(w, http.StatusOK, runResponse(run))
}

// runResponse shapes a run for the wire, rendering coupon sequences as
// the comma-joined display string
func runResponse(run *entity.Run) map[string]interface{} {
	tickets := make([]map[string]interface{}, 0, len(run.Tickets))
	for i := range run.Tickets {
		t := &run.Tickets[i]
		tickets = append(tickets, map[string]interface{}{
			"oldPnr":        t.OldPNR,
			"newPnr":        t.NewPNR,
			"passengerName": t.PassengerName,
			"ticketNumber":  t.TicketNumber,
			"coupon":        t.CouponString(),
			"flight":        t.NewFlightDescriptor,
			"degraded":      t.Degraded,
			"issuedAt":      t.IssuedAt.Format(time.RFC3339),
		})
	}

	out := map[string]interface{}{
		"runId":          run.RunID,
		"state":          run.State,
		"passengerCount": run.PassengerCount,
		"criteria":       run.CriteriaSnapshot,
		"tickets":        tickets,
		"createdAt":      run.CreatedAt.Format(time.RFC3339),
	}
	if len(run.Warnings) > 0 {
		out["warnings"] = run.Warnings
	}
	if run.ErrorDetail != "" {
		out["errorDetail"] = run.ErrorDetail
	}
	if !run.CompletedAt.IsZero() {
		out["completedAt"] = run.CompletedAt.Format(time.RFC3339)
	}
	return out
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}
