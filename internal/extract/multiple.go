package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/dispatchd/bookingflow/internal/common"
	"github.com/dispatchd/bookingflow/internal/llm"
	"github.com/dispatchd/bookingflow/internal/model"
	"github.com/dispatchd/bookingflow/internal/normalize"
)

// MultipleExtractor produces one record per booking in a multi-booking
// request. The record count comes from what is actually found in the text;
// a shortfall against the classifier's prediction is reported, not padded.
type MultipleExtractor struct {
	client llm.Client
	cost   *llm.CostMeter
}

// NewMultipleExtractor creates a MultipleExtractor. A nil client means
// every request takes the rule-based path.
func NewMultipleExtractor(client llm.Client) *MultipleExtractor {
	return &MultipleExtractor{client: client, cost: &llm.CostMeter{}}
}

// Extract pulls all bookings out of text.
func (e *MultipleExtractor) Extract(ctx context.Context, text string, cls model.ClassificationResult) model.ExtractionResult {
	start := time.Now()

	if e.client != nil {
		result, err := e.extractWithModel(ctx, text, cls)
		if err == nil {
			result.Elapsed = time.Since(start)
			return result
		}
		slog.Warn("Model extraction failed for multiple bookings, using rule fallback", "error", err)
	}

	result := e.extractWithRules(text, cls)
	result.Elapsed = time.Since(start)
	return result
}

func (e *MultipleExtractor) extractWithModel(ctx context.Context, text string, cls model.ClassificationResult) (model.ExtractionResult, error) {
	prompt := buildMultiplePrompt(text, cls)

	response, err := e.client.Generate(ctx, prompt)
	if err != nil {
		return model.ExtractionResult{}, fmt.Errorf("multiple extraction call: %w", err)
	}

	cost := llm.EstimateCost(prompt, response)
	e.cost.Add(cost)

	var payload struct {
		Bookings   []recordPayload `json:"bookings"`
		Confidence float64         `json:"confidence_score"`
	}
	repaired := llm.RepairJSON(response)
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return model.ExtractionResult{}, fmt.Errorf("%w: multiple extraction response: %v", common.ErrUnparsable, err)
	}

	confidence := clampConfidence(payload.Confidence, 0.75)

	records := make([]model.BookingRecord, 0, len(payload.Bookings))
	for _, b := range payload.Bookings {
		record := b.toRecord()
		if !emptyRecord(record) {
			record.Confidence = confidence
			record.ExtractionMethod = fmt.Sprintf("multiple_booking_model_%d", len(records)+1)
			records = append(records, record)
		}
	}
	if len(records) == 0 {
		return model.ExtractionResult{}, fmt.Errorf("model returned no usable bookings")
	}

	if len(records) != cls.BookingCount {
		slog.Warn("Extracted booking count differs from classifier prediction",
			"extracted", len(records),
			"expected", cls.BookingCount)
	}

	return model.ExtractionResult{
		Records:       records,
		ExpectedCount: cls.BookingCount,
		Confidence:    confidence,
		Path:          model.PathModel,
		CostUSD:       cost,
	}, nil
}

var bookingSection = regexp.MustCompile(`(?im)^\s*(?:booking|cab|car|trip)\s*#?\s*\d+\s*[:.\-]`)

// extractWithRules is the deterministic multi-booking path. Sectioned
// content is split and parsed per section; otherwise one stub per
// classifier-detected vehicle keeps the count honest.
func (e *MultipleExtractor) extractWithRules(text string, cls model.ClassificationResult) model.ExtractionResult {
	var records []model.BookingRecord

	if locs := bookingSection.FindAllStringIndex(text, -1); len(locs) >= 2 {
		for i, loc := range locs {
			end := len(text)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			section := text[loc[0]:end]

			var record model.BookingRecord
			fillFromKeyValues(&record, section)
			mineFreeText(&record, section)
			record.Remarks = joinRemarks(record.Remarks, fmt.Sprintf("Sequential booking %d", i+1))
			records = append(records, record)
		}
	} else if len(cls.DateHints) >= 2 {
		for _, date := range cls.DateHints {
			var record model.BookingRecord
			mineFreeText(&record, text)
			record.StartDate = normalize.Date(date)
			record.Remarks = joinRemarks(record.Remarks, "Rule-based extraction, split by date")
			records = append(records, record)
		}
	} else if len(cls.DropHints) >= 2 {
		for _, drop := range cls.DropHints {
			var record model.BookingRecord
			mineFreeText(&record, text)
			record.DropAddress = drop
			record.Remarks = joinRemarks(record.Remarks, "Rule-based extraction, split by drop point")
			records = append(records, record)
		}
	} else if len(cls.VehicleHints) >= 2 {
		for _, vehicle := range cls.VehicleHints {
			record := model.BookingRecord{VehicleGroup: vehicle}
			mineFreeText(&record, text)
			record.VehicleGroup = vehicle
			record.Remarks = joinRemarks(record.Remarks, "Rule-based extraction, split by vehicle")
			records = append(records, record)
		}
	} else {
		// No splittable structure; extract what the text holds as a
		// single record and let the count mismatch surface downstream.
		var record model.BookingRecord
		if looksTabular(text) {
			fillFromKeyValues(&record, text)
		}
		mineFreeText(&record, text)
		record.Remarks = joinRemarks(record.Remarks, "Rule-based extraction")
		records = append(records, record)
	}

	for i := range records {
		records[i].Confidence = 0.6
		records[i].ExtractionMethod = fmt.Sprintf("multiple_booking_rules_%d", i+1)
	}

	return model.ExtractionResult{
		Records:       records,
		ExpectedCount: cls.BookingCount,
		Confidence:    0.6,
		Path:          model.PathFallback,
	}
}
