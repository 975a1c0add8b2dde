package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Karlitosc01/Budget-Analysis/internal/catalog"
	"github.com/Karlitosc01/Budget-Analysis/internal/core"
	"github.com/Karlitosc01/Budget-Analysis/internal/services"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestServer(t *testing.T, bills []core.Bill, today time.Time) *Server {
	t.Helper()

	store := catalog.New()
	if len(bills) > 0 {
		store.Replace(bills, 1)
	}

	schedules := services.NewScheduleService(store, fixedClock(today))
	catalogue := services.NewCatalogueService(store, nil, nil)

	srv := NewServer(":0", schedules, catalogue, DefaultCacheConfig())
	t.Cleanup(func() {
		srv.cacheManager.Stop()
		srv.rateLimiter.stop()
	})
	return srv
}

func TestHandleSchedule(t *testing.T) {
	// 2024-03-01 is a Friday.
	today := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	bills := []core.Bill{
		{Name: "Phone", Type: core.Monthly, Amount: core.Money{Cents: 4500}, Day: 3},
		{Name: "Groceries", Type: core.Weekly, Amount: core.Money{Cents: 8500}, Day: 3},
	}
	srv := newTestServer(t, bills, today)

	req := httptest.NewRequest(http.MethodGet, "/api/schedule?range=7", nil)
	rec := httptest.NewRecorder()
	srv.handleSchedule(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got struct {
		Occurrences []struct {
			Date   string  `json:"date"`
			Name   string  `json:"name"`
			Amount float64 `json:"amount"`
		} `json:"occurrences"`
		TotalNeeded string `json:"totalNeeded"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(got.Occurrences) != 2 {
		t.Fatalf("occurrences = %d, want 2", len(got.Occurrences))
	}
	// Descending by date: Wednesday 03-06 before monthly 03-03.
	if got.Occurrences[0].Date != "2024-03-06" || got.Occurrences[1].Date != "2024-03-03" {
		t.Errorf("order = [%s, %s], want [2024-03-06, 2024-03-03]",
			got.Occurrences[0].Date, got.Occurrences[1].Date)
	}
	if got.TotalNeeded != "Total Needed: $130.00" {
		t.Errorf("totalNeeded = %q, want %q", got.TotalNeeded, "Total Needed: $130.00")
	}
}

func TestHandleSchedule_IncompleteCustomRange(t *testing.T) {
	today := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	srv := newTestServer(t, nil, today)

	tests := []struct {
		name string
		url  string
	}{
		{"missing both bounds", "/api/schedule?range=custom"},
		{"missing end", "/api/schedule?range=custom&start=2024-03-01"},
		{"unparseable start", "/api/schedule?range=custom&start=soon&end=2024-03-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			srv.handleSchedule(rec, req)

			if rec.Code != http.StatusNoContent {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
			}
		})
	}
}

func TestHandleSchedule_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil, time.Now())

	req := httptest.NewRequest(http.MethodPost, "/api/schedule", nil)
	rec := httptest.NewRecorder()
	srv.handleSchedule(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHandleCatalogueUpload(t *testing.T) {
	srv := newTestServer(t, nil, time.Now())

	payload := []byte(`[{"name":"Rent","type":"monthly","amount":1200.50,"day":1}]`)
	body, contentType := multipartUpload(t, "bills.json", payload)

	req := httptest.NewRequest(http.MethodPost, "/api/catalogue", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.handleCatalogueUpload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var got struct {
		Loaded  int   `json:"loaded"`
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Loaded != 1 {
		t.Errorf("loaded = %d, want 1", got.Loaded)
	}
	if got.Version != 1 {
		t.Errorf("version = %d, want 1", got.Version)
	}
}

func TestHandleCatalogueUpload_Malformed(t *testing.T) {
	srv := newTestServer(t, []core.Bill{
		{Name: "Rent", Type: core.Monthly, Amount: core.Money{Cents: 120000}, Day: 1},
	}, time.Now())

	body, contentType := multipartUpload(t, "bills.json", []byte(`{not json`))

	req := httptest.NewRequest(http.MethodPost, "/api/catalogue", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.handleCatalogueUpload(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	// The standing catalogue must survive a failed upload.
	sel := services.RangeSelection{Value: "31"}
	schedule, ok := srv.schedules.Upcoming(sel)
	if !ok {
		t.Fatal("schedule query should still resolve")
	}
	if len(schedule.Occurrences) != 1 {
		t.Errorf("occurrences = %d, want 1 (catalogue untouched)", len(schedule.Occurrences))
	}
}

func TestHandleCatalogueUpload_UnsupportedExtension(t *testing.T) {
	srv := newTestServer(t, nil, time.Now())

	body, contentType := multipartUpload(t, "bills.xlsx", []byte("data"))

	req := httptest.NewRequest(http.MethodPost, "/api/catalogue", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.handleCatalogueUpload(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnsupportedMediaType)
	}
}

func TestHandleCatalogueUpload_MissingFile(t *testing.T) {
	srv := newTestServer(t, nil, time.Now())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("other", "value")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/catalogue", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.handleCatalogueUpload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleBudgetBar(t *testing.T) {
	srv := newTestServer(t, nil, time.Now())

	tests := []struct {
		name        string
		url         string
		wantPercent float64
		wantStatus  string
	}{
		{
			name:        "danger band",
			url:         "/api/budget-bar?income=1000&bill-one=850",
			wantPercent: 15,
			wantStatus:  "danger",
		},
		{
			name:        "healthy band",
			url:         "/api/budget-bar?income=1000&bill-one=200",
			wantPercent: 80,
			wantStatus:  "healthy",
		},
		{
			name:        "non-numeric inputs coerce to zero",
			url:         "/api/budget-bar?income=1000&bill-one=abc&bill-two=",
			wantPercent: 100,
			wantStatus:  "healthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			srv.handleBudgetBar(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}

			var got struct {
				Percent float64 `json:"percent"`
				Status  string  `json:"status"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if got.Percent != tt.wantPercent {
				t.Errorf("percent = %v, want %v", got.Percent, tt.wantPercent)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", got.Status, tt.wantStatus)
			}
		})
	}
}

func TestHandleHealthEndpoints(t *testing.T) {
	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		if path == "/healthz" {
			handleHealth(rec, req)
		} else {
			handleReady(rec, req)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}
