// Package pipeline wires classification, extraction routing, and business
// rule validation into one request-to-records flow.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dispatchd/bookingflow/internal/classify"
	"github.com/dispatchd/bookingflow/internal/common"
	"github.com/dispatchd/bookingflow/internal/extract"
	"github.com/dispatchd/bookingflow/internal/llm"
	"github.com/dispatchd/bookingflow/internal/mapping"
	"github.com/dispatchd/bookingflow/internal/model"
	"github.com/dispatchd/bookingflow/internal/validate"
)

// Pipeline turns a raw booking request into validated booking records.
// Every stage degrades to rules when no model backend is available, so
// Process always returns an envelope rather than an error.
type Pipeline struct {
	classifier *classify.Classifier
	router     *extract.Router
	validator  *validate.Validator
}

// New assembles a pipeline. The client may be nil, in which case every
// stage runs on its rule fallback.
func New(client llm.Client, provider *mapping.Provider) *Pipeline {
	return &Pipeline{
		classifier: classify.New(client),
		router:     extract.NewRouter(client),
		validator:  validate.New(provider, client),
	}
}

// Process runs one request through all three stages. The source tag only
// feeds logging. A panic anywhere inside a stage becomes a failed envelope
// instead of taking the caller down.
func (p *Pipeline) Process(ctx context.Context, text, source string) (result model.ProcessResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Pipeline panicked", "source", source, "panic", r)
			result = model.ProcessResult{
				Success: false,
				Error:   fmt.Sprintf("internal error: %v", r),
				Elapsed: time.Since(start),
			}
		}
	}()

	if strings.TrimSpace(text) == "" {
		return model.ProcessResult{
			Success: false,
			Error:   common.ErrEmptyRequest.Error(),
			Elapsed: time.Since(start),
		}
	}

	validatorSpend := p.validator.TotalCostUSD()

	cls := p.classifier.Classify(ctx, text)
	stages := []model.StageOutcome{{
		Stage:      "classification",
		Path:       cls.Path,
		Confidence: cls.Confidence,
		CostUSD:    cls.CostUSD,
		Detail:     fmt.Sprintf("%s, expecting %d", cls.Cardinality, cls.BookingCount),
	}}

	extraction := p.router.ExtractAndRoute(ctx, text, cls)
	stages = append(stages, model.StageOutcome{
		Stage:      "extraction",
		Path:       extraction.Path,
		Confidence: extraction.Confidence,
		CostUSD:    extraction.CostUSD,
		Elapsed:    extraction.Elapsed,
		Detail:     fmt.Sprintf("%d of %d records", len(extraction.Records), extraction.ExpectedCount),
	})

	validated := p.validator.Validate(ctx, extraction, text)
	stages = append(stages, model.StageOutcome{
		Stage:      "validation",
		Path:       validated.Path,
		Confidence: validated.Confidence,
		CostUSD:    p.validator.TotalCostUSD() - validatorSpend,
		Elapsed:    validated.Elapsed - extraction.Elapsed,
	})

	cost := cls.CostUSD + extraction.CostUSD + (p.validator.TotalCostUSD() - validatorSpend)
	elapsed := time.Since(start)

	result = model.ProcessResult{
		Success:        len(validated.Records) > 0,
		Records:        validated.Records,
		Count:          len(validated.Records),
		ExpectedCount:  validated.ExpectedCount,
		CountMismatch:  validated.CountMismatch(),
		Confidence:     validated.Confidence,
		CostUSD:        cost,
		Elapsed:        elapsed,
		Classification: &cls,
		Stages:         stages,
	}
	if !result.Success {
		result.Error = common.ErrNoBookings.Error()
	}

	slog.Info("Request processed",
		"source", source,
		"success", result.Success,
		"records", result.Count,
		"expected", result.ExpectedCount,
		"confidence", result.Confidence,
		"cost_usd", cost,
		"elapsed", elapsed)

	return result
}

// Stats exposes the router's extraction counters.
func (p *Pipeline) Stats() extract.Stats {
	return p.router.Stats()
}
