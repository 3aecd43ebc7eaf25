package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/iho/stockledger/internal/adapter/http/dto"
	"github.com/iho/stockledger/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/orders?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/orders?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestParseInt64Query(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/inventory/low-stock?threshold=7", nil)
	if got := parseInt64Query(req, "threshold", 10); got != 7 {
		t.Fatalf("expected threshold=7, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/inventory/low-stock?threshold=x", nil)
	if got := parseInt64Query(req, "threshold", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}
}

func TestParseTimeQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reports/sales?start_date=2024-03-01T00:00:00Z", nil)
	got := parseTimeQuery(req, "start_date")
	if got == nil {
		t.Fatal("expected a parsed time, got nil")
	}
	expected := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}

	req = httptest.NewRequest(http.MethodGet, "/reports/sales?start_date=yesterday", nil)
	if got := parseTimeQuery(req, "start_date"); got != nil {
		t.Fatalf("expected nil for invalid value, got %v", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/reports/sales", nil)
	if got := parseTimeQuery(req, "start_date"); got != nil {
		t.Fatalf("expected nil when missing, got %v", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"inventory not found", domain.ErrInventoryNotFound, http.StatusNotFound},
		{"order not found", domain.ErrOrderNotFound, http.StatusNotFound},
		{"store not found", domain.ErrStoreNotFound, http.StatusNotFound},
		{"no current price", domain.ErrNoCurrentPrice, http.StatusNotFound},
		{"already initialized", domain.ErrInventoryAlreadyExists, http.StatusConflict},
		{"insufficient stock", domain.ErrInsufficientStock, http.StatusConflict},
		{"invalid order state", domain.ErrInvalidOrderState, http.StatusConflict},
		{"invalid quantity", domain.ErrInvalidQuantity, http.StatusBadRequest},
		{"same store", domain.ErrSameStore, http.StatusBadRequest},
		{"empty order", domain.ErrEmptyOrder, http.StatusBadRequest},
		{"unknown status", domain.ErrUnknownStatus, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad request", "detail")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "bad request" {
		t.Fatalf("expected error message to propagate, got %+v", resp)
	}
}
