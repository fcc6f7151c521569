package metrics

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ramonehamilton/card-binder/internal/binder"
	"github.com/ramonehamilton/card-binder/internal/card"
)

// SourceMetrics tracks latency and outcomes of card data source requests.
type SourceMetrics struct {
	SearchLatency  *Histogram
	ReprintLatency *Histogram

	Searches atomic.Uint64
	Reprints atomic.Uint64
	NotFound atomic.Uint64
	Failures atomic.Uint64

	startTime time.Time
	mu        sync.RWMutex
	now       func() time.Time
}

// NewSourceMetrics creates an empty collector.
func NewSourceMetrics() *SourceMetrics {
	return &SourceMetrics{
		SearchLatency:  NewHistogram(1000),
		ReprintLatency: NewHistogram(1000),
		startTime:      time.Now(),
		now:            time.Now,
	}
}

// SourceStats is a snapshot of SourceMetrics.
type SourceStats struct {
	SearchLatency  LatencyStats `json:"search_latency"`
	ReprintLatency LatencyStats `json:"reprint_latency"`

	Searches    uint64  `json:"searches"`
	Reprints    uint64  `json:"reprints"`
	NotFound    uint64  `json:"not_found"`
	Failures    uint64  `json:"failures"`
	SuccessRate float64 `json:"success_rate"` // percentage; not-found counts as success

	Uptime string `json:"uptime"`
}

// LatencyStats summarizes a latency histogram in milliseconds.
type LatencyStats struct {
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// GetStats returns a snapshot of the current statistics.
func (m *SourceMetrics) GetStats() *SourceStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	searches := m.Searches.Load()
	reprints := m.Reprints.Load()
	failures := m.Failures.Load()

	successRate := 0.0
	if total := searches + reprints; total > 0 {
		successRate = float64(total-failures) / float64(total) * 100
	}

	return &SourceStats{
		SearchLatency:  m.SearchLatency.Stats(),
		ReprintLatency: m.ReprintLatency.Stats(),
		Searches:       searches,
		Reprints:       reprints,
		NotFound:       m.NotFound.Load(),
		Failures:       failures,
		SuccessRate:    successRate,
		Uptime:         time.Since(m.startTime).Round(time.Second).String(),
	}
}

// Reset clears all metrics.
func (m *SourceMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SearchLatency.Reset()
	m.ReprintLatency.Reset()
	m.Searches.Store(0)
	m.Reprints.Store(0)
	m.NotFound.Store(0)
	m.Failures.Store(0)
	m.startTime = time.Now()
}

func (m *SourceMetrics) observe(h *Histogram, start time.Time, err error) {
	h.Record(m.now().Sub(start))
	switch {
	case err == nil:
	case errors.Is(err, binder.ErrNotFound):
		m.NotFound.Add(1)
	default:
		m.Failures.Add(1)
	}
}

// Instrument wraps src so every request is recorded in m.
func Instrument(src binder.DataSource, m *SourceMetrics) binder.DataSource {
	return &instrumentedSource{src: src, m: m}
}

type instrumentedSource struct {
	src binder.DataSource
	m   *SourceMetrics
}

func (s *instrumentedSource) Search(ctx context.Context, query string) ([]card.Card, error) {
	s.m.Searches.Add(1)
	start := s.m.now()
	cards, err := s.src.Search(ctx, query)
	s.m.observe(s.m.SearchLatency, start, err)
	return cards, err
}

func (s *instrumentedSource) ResolveReprints(ctx context.Context, handle string) ([]card.Card, error) {
	s.m.Reprints.Add(1)
	start := s.m.now()
	cards, err := s.src.ResolveReprints(ctx, handle)
	s.m.observe(s.m.ReprintLatency, start, err)
	return cards, err
}
