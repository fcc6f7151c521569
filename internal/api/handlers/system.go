package handlers

import (
	"net/http"

	"github.com/ramonehamilton/card-binder/internal/api/response"
	"github.com/ramonehamilton/card-binder/internal/metrics"
	"github.com/ramonehamilton/card-binder/internal/version"
)

// ClientCounter reports connected live-update clients.
type ClientCounter interface {
	ClientCount() int
}

// SystemHandler handles system-related API requests.
type SystemHandler struct {
	binderID string
	clients  ClientCounter
	metrics  *metrics.SourceMetrics
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(binderID string, clients ClientCounter, m *metrics.SourceMetrics) *SystemHandler {
	return &SystemHandler{binderID: binderID, clients: clients, metrics: m}
}

// GetStatus returns the served binder and the number of websocket clients.
func (h *SystemHandler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	clients := 0
	if h.clients != nil {
		clients = h.clients.ClientCount()
	}
	response.Success(w, map[string]any{
		"binder_id":         h.binderID,
		"websocket_clients": clients,
	})
}

// GetVersion returns the application version.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"version": version.GetVersion(),
		"service": version.Name,
	})
}

// GetMetrics returns card data source request statistics.
func (h *SystemHandler) GetMetrics(w http.ResponseWriter, _ *http.Request) {
	if h.metrics == nil {
		response.Success(w, metrics.NewSourceMetrics().GetStats())
		return
	}
	response.Success(w, h.metrics.GetStats())
}
