package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dispatchd/bookingflow/internal/common"
	"github.com/dispatchd/bookingflow/internal/llm"
	"github.com/dispatchd/bookingflow/internal/model"
)

// SingleExtractor produces exactly one booking record per request.
type SingleExtractor struct {
	client llm.Client
	cost   *llm.CostMeter
}

// NewSingleExtractor creates a SingleExtractor. A nil client means every
// request takes the rule-based path.
func NewSingleExtractor(client llm.Client) *SingleExtractor {
	return &SingleExtractor{client: client, cost: &llm.CostMeter{}}
}

// Extract pulls one booking out of text. Always returns a result with
// exactly one record unless the input is empty.
func (e *SingleExtractor) Extract(ctx context.Context, text string, cls model.ClassificationResult) model.ExtractionResult {
	start := time.Now()

	if e.client != nil {
		result, err := e.extractWithModel(ctx, text, cls)
		if err == nil {
			result.Elapsed = time.Since(start)
			return result
		}
		slog.Warn("Model extraction failed for single booking, using rule fallback", "error", err)
	}

	result := e.extractWithRules(text, cls)
	result.Elapsed = time.Since(start)
	return result
}

func (e *SingleExtractor) extractWithModel(ctx context.Context, text string, cls model.ClassificationResult) (model.ExtractionResult, error) {
	prompt := buildSinglePrompt(text, cls)

	response, err := e.client.Generate(ctx, prompt)
	if err != nil {
		return model.ExtractionResult{}, fmt.Errorf("single extraction call: %w", err)
	}

	cost := llm.EstimateCost(prompt, response)
	e.cost.Add(cost)

	var payload struct {
		Booking    recordPayload `json:"booking"`
		Confidence float64       `json:"confidence_score"`
	}
	repaired := llm.RepairJSON(response)
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return model.ExtractionResult{}, fmt.Errorf("%w: single extraction response: %v", common.ErrUnparsable, err)
	}

	record := payload.Booking.toRecord()
	if emptyRecord(record) {
		return model.ExtractionResult{}, fmt.Errorf("model returned an empty booking")
	}

	confidence := clampConfidence(payload.Confidence, 0.75)
	record.Confidence = confidence
	record.ExtractionMethod = "single_booking_model"

	return model.ExtractionResult{
		Records:       []model.BookingRecord{record},
		ExpectedCount: 1,
		Confidence:    confidence,
		Path:          model.PathModel,
		CostUSD:       cost,
	}, nil
}

// extractWithRules is the deterministic single-booking path: key-value
// form parsing when the content looks tabular, free-text mining otherwise,
// topped up with the classifier's hints.
func (e *SingleExtractor) extractWithRules(text string, cls model.ClassificationResult) model.ExtractionResult {
	var record model.BookingRecord
	confidence := 0.6

	if looksTabular(text) {
		if fillFromKeyValues(&record, text) > 0 {
			confidence = 0.7
		}
	}
	mineFreeText(&record, text)
	applyHints(&record, cls)

	record.Remarks = joinRemarks(record.Remarks, "Rule-based extraction")
	record.Confidence = confidence
	record.ExtractionMethod = "single_booking_rules"

	return model.ExtractionResult{
		Records:       []model.BookingRecord{record},
		ExpectedCount: 1,
		Confidence:    confidence,
		Path:          model.PathFallback,
	}
}

// applyHints fills gaps from what the classifier already detected.
func applyHints(record *model.BookingRecord, cls model.ClassificationResult) {
	if record.VehicleGroup == "" && len(cls.VehicleHints) > 0 {
		record.VehicleGroup = cls.VehicleHints[0]
	}
}

func emptyRecord(r model.BookingRecord) bool {
	return r.PassengerName == "" && r.PassengerPhone == "" &&
		r.FromLocation == "" && r.ToLocation == "" &&
		r.StartDate == "" && r.ReportingAddress == ""
}

func clampConfidence(c, fallback float64) float64 {
	if c <= 0 {
		return fallback
	}
	if c > 1 {
		c /= 100
	}
	if c > 0.95 {
		c = 0.95
	}
	return c
}

func joinRemarks(existing, extra string) string {
	existing = strings.TrimSpace(existing)
	extra = strings.TrimSpace(extra)
	switch {
	case existing == "":
		return extra
	case extra == "" || strings.Contains(existing, extra):
		return existing
	default:
		return existing + "; " + extra
	}
}
