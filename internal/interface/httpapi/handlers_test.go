package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	interfaceRepo "reissue-service/internal/interface/repository"
	"reissue-service/internal/usecase"
	"reissue-service/pkg/idgen"
	"reissue-service/pkg/logger"
	"reissue-service/pkg/metrics"
)

func newTestServer(t *testing.T) (*httptest.Server, *usecase.ReissueProcessor) {
	t.Helper()

	log := logger.NewNop()
	bookings := interfaceRepo.NewMemoryBookingRepository(interfaceRepo.SeedBookings())
	runs := interfaceRepo.NewMemoryRunRepository(interfaceRepo.DefaultRunRetention)
	m := metrics.NewMetrics("reissue_test", prometheus.NewRegistry())

	search := usecase.NewSearchUsecase(bookings, nil, log)
	processor := usecase.NewReissueProcessor(bookings, runs, m, log, 0, func() idgen.Source {
		return rand.New(rand.NewSource(7))
	})

	handlers := NewHandlers(search, processor, runs, log)
	mux := http.NewServeMux()
	handlers.Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, processor
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return body
}

func postJSON(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()
	buf, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshaling payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestSearchBookings(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
	}{
		{name: "by flight", query: "flight=101", wantStatus: http.StatusOK, wantCount: 18},
		{name: "flight and status", query: "flight=101&status=ACTIVE", wantStatus: http.StatusOK, wantCount: 14},
		{name: "flight origin dest", query: "flight=101&origin=DXB&dest=MCT", wantStatus: http.StatusOK, wantCount: 12},
		{name: "no match", query: "flight=999", wantStatus: http.StatusOK, wantCount: 0},
		{name: "missing flight", query: "origin=DXB", wantStatus: http.StatusBadRequest},
		{name: "bad date", query: "flight=101&from=14-11-2025", wantStatus: http.StatusBadRequest},
		{name: "bad weekday", query: "flight=101&days=Moonday", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/api/bookings/search?" + tt.query)
			if err != nil {
				t.Fatalf("GET: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				resp.Body.Close()
				return
			}
			body := decodeBody(t, resp)
			if got := int(body["count"].(float64)); got != tt.wantCount {
				t.Errorf("count = %d, want %d", got, tt.wantCount)
			}
		})
	}
}

func TestFindByPNR(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/bookings/pnr?pnr=h772kl")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body := decodeBody(t, resp)
	if body["pnr"] != "H772KL" {
		t.Errorf("pnr = %v, want H772KL", body["pnr"])
	}
	if got := int(body["count"].(float64)); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}

	resp, err = http.Get(srv.URL + "/api/bookings/pnr")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing pnr status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestPreviewSelection(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/selection/preview", map[string]interface{}{
		"bookingIds": []string{"p1", "p4", "c1", "r2"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body := decodeBody(t, resp)
	if got := int(body["total"].(float64)); got != 4 {
		t.Errorf("total = %d, want 4", got)
	}
	dates := body["dates"].([]interface{})
	if len(dates) != 1 {
		t.Fatalf("dates = %d, want 1", len(dates))
	}
	day := dates[0].(map[string]interface{})
	if got := int(day["pointToPoint"].(float64)); got != 2 {
		t.Errorf("pointToPoint = %d, want 2", got)
	}
	if got := int(day["connecting"].(float64)); got != 1 {
		t.Errorf("connecting = %d, want 1", got)
	}
	if got := int(day["roundtrip"].(float64)); got != 1 {
		t.Errorf("roundtrip = %d, want 1", got)
	}
}

func TestLaunchAndGetRun(t *testing.T) {
	srv, processor := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/runs", map[string]interface{}{
		"bookingIds": []string{"p1", "r8"},
		"criteria":   map[string]interface{}{"flightNumber": "101"},
	})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("launch status = %d, want %d", resp.StatusCode, http.StatusAccepted)
	}
	body := decodeBody(t, resp)
	runID, _ := body["runId"].(string)
	if runID == "" {
		t.Fatal("launch response missing runId")
	}
	processor.Wait()

	resp, err := http.Get(srv.URL + "/api/runs/" + runID)
	if err != nil {
		t.Fatalf("GET run: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body = decodeBody(t, resp)
	if body["state"] != "Completed" {
		t.Fatalf("state = %v, want Completed", body["state"])
	}
	tickets := body["tickets"].([]interface{})
	if len(tickets) != 2 {
		t.Fatalf("tickets = %d, want 2", len(tickets))
	}
	for _, raw := range tickets {
		ticket := raw.(map[string]interface{})
		if ticket["oldPnr"] == "CONRT01" {
			if ticket["flight"] != "576/101" {
				t.Errorf("flight = %v, want 576/101", ticket["flight"])
			}
			if ticket["coupon"] != "1, 2" {
				t.Errorf("coupon = %v, want \"1, 2\"", ticket["coupon"])
			}
		}
	}
	criteria := body["criteria"].(map[string]interface{})
	if criteria["flightNumber"] != "101" {
		t.Errorf("criteria flightNumber = %v, want 101", criteria["flightNumber"])
	}
}

func TestLaunchRunRejectsBadSelection(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{name: "empty selection", payload: map[string]interface{}{
			"bookingIds": []string{},
			"criteria":   map[string]interface{}{"flightNumber": "101"},
		}},
		{name: "inactive member", payload: map[string]interface{}{
			"bookingIds": []string{"p1", "p3"},
			"criteria":   map[string]interface{}{"flightNumber": "101"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/runs", tt.payload)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
			}
		})
	}
}

func TestListRunsMostRecentFirst(t *testing.T) {
	srv, processor := newTestServer(t)

	var runIDs []string
	for _, id := range []string{"p1", "p4"} {
		resp := postJSON(t, srv.URL+"/api/runs", map[string]interface{}{
			"bookingIds": []string{id},
			"criteria":   map[string]interface{}{"flightNumber": "101"},
		})
		body := decodeBody(t, resp)
		runIDs = append(runIDs, body["runId"].(string))
	}
	processor.Wait()

	resp, err := http.Get(srv.URL + "/api/runs")
	if err != nil {
		t.Fatalf("GET runs: %v", err)
	}
	body := decodeBody(t, resp)
	if got := int(body["count"].(float64)); got != 2 {
		t.Fatalf("count = %d, want 2", got)
	}
	runs := body["runs"].([]interface{})
	first := runs[0].(map[string]interface{})
	if first["runId"] != runIDs[1] {
		t.Errorf("first listed run = %v, want latest launch %v", first["runId"], runIDs[1])
	}
}

func TestGetRunNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/runs/does-not-exist")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestCancelRun(t *testing.T) {
	log := logger.NewNop()
	bookings := interfaceRepo.NewMemoryBookingRepository(interfaceRepo.SeedBookings())
	runs := interfaceRepo.NewMemoryRunRepository(interfaceRepo.DefaultRunRetention)
	m := metrics.NewMetrics("reissue_cancel_test", prometheus.NewRegistry())

	// Long delay keeps the run in Processing while we cancel it.
	processor := usecase.NewReissueProcessor(bookings, runs, m, log, 30*time.Second, nil)
	search := usecase.NewSearchUsecase(bookings, nil, log)

	handlers := NewHandlers(search, processor, runs, log)
	mux := http.NewServeMux()
	handlers.Register(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/runs", map[string]interface{}{
		"bookingIds": []string{"p1"},
		"criteria":   map[string]interface{}{"flightNumber": "101"},
	})
	body := decodeBody(t, resp)
	runID := body["runId"].(string)

	resp = postJSON(t, srv.URL+fmt.Sprintf("/api/runs/%s/cancel", runID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body = decodeBody(t, resp)
	if body["state"] != "Cancelled" {
		t.Errorf("state = %v, want Cancelled", body["state"])
	}

	resp = postJSON(t, srv.URL+fmt.Sprintf("/api/runs/%s/cancel", runID), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second cancel status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}

	resp = postJSON(t, srv.URL+"/api/runs/nope/cancel", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown run cancel status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}
