package extract

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/dispatchd/bookingflow/internal/llm"
	"github.com/dispatchd/bookingflow/internal/model"
)

// Router sends each request to the extractor matching its cardinality and
// keeps running statistics about where requests went.
type Router struct {
	single   *SingleExtractor
	multiple *MultipleExtractor

	totalRequests      atomic.Int64
	singleRequests     atomic.Int64
	multipleRequests   atomic.Int64
	structuredRequests atomic.Int64
	fallbackResults    atomic.Int64
	totalRecords       atomic.Int64
}

// NewRouter creates a Router whose extractors share the given client.
// A nil client is fine; everything runs on rule fallbacks.
func NewRouter(client llm.Client) *Router {
	return &Router{
		single:   NewSingleExtractor(client),
		multiple: NewMultipleExtractor(client),
	}
}

// ExtractAndRoute picks the right extraction strategy for a classified
// request and returns its result.
func (r *Router) ExtractAndRoute(ctx context.Context, text string, cls model.ClassificationResult) model.ExtractionResult {
	r.totalRequests.Add(1)

	var result model.ExtractionResult

	switch {
	case isStructured(text):
		r.structuredRequests.Add(1)
		result = parseStructured(text, cls)

	case cls.IsMultiple():
		r.multipleRequests.Add(1)
		result = r.multiple.Extract(ctx, text, cls)

	default:
		r.singleRequests.Add(1)
		result = r.single.Extract(ctx, text, cls)
	}

	if result.Path == model.PathFallback {
		r.fallbackResults.Add(1)
	}
	r.totalRecords.Add(int64(len(result.Records)))

	slog.Info("Extraction routed",
		"cardinality", cls.Cardinality,
		"records", len(result.Records),
		"expected", result.ExpectedCount,
		"path", result.Path,
		"confidence", result.Confidence)

	return result
}

// Stats is a point-in-time snapshot of routing counters.
type Stats struct {
	TotalRequests      int64 `json:"total_requests"`
	SingleRequests     int64 `json:"single_requests"`
	MultipleRequests   int64 `json:"multiple_requests"`
	StructuredRequests int64 `json:"structured_requests"`
	FallbackResults    int64 `json:"fallback_results"`
	TotalRecords       int64 `json:"total_records"`
}

// Stats returns the router's counters.
func (r *Router) Stats() Stats {
	return Stats{
		TotalRequests:      r.totalRequests.Load(),
		SingleRequests:     r.singleRequests.Load(),
		MultipleRequests:   r.multipleRequests.Load(),
		StructuredRequests: r.structuredRequests.Load(),
		FallbackResults:    r.fallbackResults.Load(),
		TotalRecords:       r.totalRecords.Load(),
	}
}

// TotalCostUSD returns the combined model spend of both extractors.
func (r *Router) TotalCostUSD() float64 {
	return r.single.cost.TotalUSD() + r.multiple.cost.TotalUSD()
}
