// Package validate applies the dispatch desk's business rules to extracted
// booking records: duty type inference, canonical vehicles and cities,
// quarter-hour reporting times, labels, and field defaults. Passes run in a
// fixed order and are individually fault-tolerant, so one bad field never
// sinks a record.
package validate

import (
	"context"
	"log/slog"
	"time"

	"github.com/dispatchd/bookingflow/internal/llm"
	"github.com/dispatchd/bookingflow/internal/mapping"
	"github.com/dispatchd/bookingflow/internal/model"
)

// Validator enhances extraction results in place-like fashion, returning a
// new result with the same records validated and a slightly higher
// confidence.
type Validator struct {
	provider *mapping.Provider
	client   llm.Client
	cost     *llm.CostMeter
}

// New creates a Validator. The client is only used for remarks
// consolidation and may be nil.
func New(provider *mapping.Provider, client llm.Client) *Validator {
	return &Validator{
		provider: provider,
		client:   client,
		cost:     &llm.CostMeter{},
	}
}

// TotalCostUSD returns the validator's accumulated model spend.
func (v *Validator) TotalCostUSD() float64 {
	return v.cost.TotalUSD()
}

// pass is one ordered validation step. Each must leave the record valid
// even when it can do nothing.
type pass struct {
	name  string
	apply func(v *Validator, ctx context.Context, record *model.BookingRecord, originalText string)
}

var passes = []pass{
	{"duty_type", (*Validator).enhanceDutyType},
	{"vehicle", (*Validator).standardizeVehicle},
	{"time", (*Validator).enhanceTimes},
	{"cities", (*Validator).standardizeCities},
	{"organization", (*Validator).enhanceOrganization},
	{"dispatch_center", (*Validator).assignDispatchCenter},
	{"labels", (*Validator).generateLabels},
	{"remarks", (*Validator).consolidateRemarks},
	{"defaults", (*Validator).applyDefaults},
}

// Validate runs every pass over every record. A pass that panics or
// misbehaves is skipped for that record with its pre-pass state restored.
func (v *Validator) Validate(ctx context.Context, extraction model.ExtractionResult, originalText string) model.ExtractionResult {
	start := time.Now()

	validated := make([]model.BookingRecord, len(extraction.Records))
	copy(validated, extraction.Records)

	for i := range validated {
		for _, p := range passes {
			v.runPass(ctx, p, &validated[i], originalText)
		}
		if validated[i].Confidence > 0 {
			validated[i].Confidence = boostConfidence(validated[i].Confidence)
		}
	}

	confidence := boostConfidence(extraction.Confidence)

	result := extraction
	result.Records = validated
	result.Confidence = confidence
	result.Elapsed = extraction.Elapsed + time.Since(start)

	slog.Info("Validation completed",
		"records", len(validated),
		"confidence", confidence,
		"elapsed", time.Since(start))

	return result
}

// boostConfidence rewards a record for surviving validation, capped so a
// validated score never reads as certainty.
func boostConfidence(c float64) float64 {
	c += 0.1
	if c > 0.95 {
		c = 0.95
	}
	return c
}

// runPass executes one pass with panic isolation. On panic the record
// reverts to its state before the pass.
func (v *Validator) runPass(ctx context.Context, p pass, record *model.BookingRecord, originalText string) {
	before := *record

	defer func() {
		if r := recover(); r != nil {
			*record = before
			slog.Error("Validation pass panicked, record restored",
				"pass", p.name,
				"panic", r)
		}
	}()

	p.apply(v, ctx, record, originalText)
}
