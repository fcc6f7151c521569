package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/card-binder/internal/api/response"
	"github.com/ramonehamilton/card-binder/internal/binder"
	"github.com/ramonehamilton/card-binder/internal/card"
)

func TestWriteBinderError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"index out of range", &binder.IndexOutOfRangeError{What: "card index", Index: 4, Length: 2}, http.StatusNotFound},
		{"wrapped index out of range", fmt.Errorf("swap: %w", &binder.IndexOutOfRangeError{Index: 1}), http.StatusNotFound},
		{"invalid direction", binder.ErrInvalidDirection, http.StatusBadRequest},
		{"no details open", binder.ErrNoDetailsOpen, http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeBinderError(w, tt.err)

			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, w.Code)
			}

			var resp response.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Code != tt.status || resp.Message != tt.err.Error() {
				t.Errorf("Unexpected error body: %+v", resp)
			}
		})
	}
}

func routeRequest(method, pattern, path string, h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil).WithContext(context.Background()))
	return w
}

func TestBinderHandler_GetCard(t *testing.T) {
	ctrl := binder.NewController(binder.Options{})
	defer ctrl.Close()
	ctrl.Append(card.Card{ID: "a", Name: "Imageless"})

	h := NewBinderHandler(ctrl)

	w := routeRequest(http.MethodGet, "/cards/{index}", "/cards/0", h.GetCard)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Data CardResponse `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Data.Card.ID != "a" || resp.Data.Renderable {
		t.Errorf("Expected non-renderable card a, got %+v", resp.Data)
	}

	if w := routeRequest(http.MethodGet, "/cards/{index}", "/cards/-1", h.GetCard); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for negative index, got %d", w.Code)
	}
	if w := routeRequest(http.MethodGet, "/cards/{index}", "/cards/x", h.GetCard); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-numeric index, got %d", w.Code)
	}
}

func TestBinderHandler_ListCardsRejectsBadPage(t *testing.T) {
	h := NewBinderHandler(binder.NewController(binder.Options{}))

	for _, path := range []string{"/cards?page=0", "/cards?page_size=x"} {
		w := routeRequest(http.MethodGet, "/cards", path, h.ListCards)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}

	w := routeRequest(http.MethodGet, "/cards", "/cards", h.ListCards)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for empty binder, got %d", w.Code)
	}
}

func TestBinderHandler_ListCardsHugePageSize(t *testing.T) {
	ctrl := binder.NewController(binder.Options{})
	defer ctrl.Close()
	ctrl.Append(card.Card{ID: "a", Name: "Only"})

	h := NewBinderHandler(ctrl)

	tests := []struct {
		path  string
		count int
	}{
		{"/cards?page=2&page_size=9223372036854775807", 0},
		{"/cards?page=1&page_size=9223372036854775807", 1},
		{"/cards?page=9223372036854775807&page_size=9", 0},
	}

	for _, tt := range tests {
		w := routeRequest(http.MethodGet, "/cards", tt.path, h.ListCards)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tt.path, w.Code)
		}
		var resp struct {
			Data       []card.Card `json:"data"`
			TotalPages int         `json:"total_pages"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("%s: failed to decode response: %v", tt.path, err)
		}
		if len(resp.Data) != tt.count {
			t.Errorf("%s: expected %d cards, got %d", tt.path, tt.count, len(resp.Data))
		}
		if resp.TotalPages < 1 {
			t.Errorf("%s: expected positive total_pages, got %d", tt.path, resp.TotalPages)
		}
	}
}

type staticCounter int

func (c staticCounter) ClientCount() int { return int(c) }

func TestSystemHandler_GetMetrics_NilCollector(t *testing.T) {
	h := NewSystemHandler("binder-1", nil, nil)

	w := httptest.NewRecorder()
	h.GetMetrics(w, httptest.NewRequest(http.MethodGet, "/system/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"searches":0`) {
		t.Errorf("Expected zeroed stats, got %s", w.Body.String())
	}
}

func TestSystemHandler_GetStatus(t *testing.T) {
	h := NewSystemHandler("binder-1", staticCounter(2), nil)

	w := httptest.NewRecorder()
	h.GetStatus(w, httptest.NewRequest(http.MethodGet, "/system/status", nil))

	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Data["binder_id"] != "binder-1" || resp.Data["websocket_clients"] != float64(2) {
		t.Errorf("Unexpected status: %v", resp.Data)
	}
}
