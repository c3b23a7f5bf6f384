// Package classify decides whether a booking request covers one booking or
// several. The model path asks the configured backend for a structured
// verdict; when no backend is available, or the call fails, a rule-based
// fallback produces the same answer with lower confidence.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dispatchd/bookingflow/internal/common"
	"github.com/dispatchd/bookingflow/internal/llm"
	"github.com/dispatchd/bookingflow/internal/model"
)

// Fallback classifications never claim more confidence than this.
const fallbackConfidenceCap = 0.7

// Classifier assigns a cardinality to raw request text.
type Classifier struct {
	client llm.Client
	cost   *llm.CostMeter
}

// New creates a Classifier. A nil client means every request takes the
// rule-based path.
func New(client llm.Client) *Classifier {
	return &Classifier{
		client: client,
		cost:   &llm.CostMeter{},
	}
}

// TotalCostUSD returns the classifier's accumulated model spend.
func (c *Classifier) TotalCostUSD() float64 {
	return c.cost.TotalUSD()
}

// Classify determines the booking cardinality of text. It always returns a
// populated result; the Path field says how trustworthy it is.
func (c *Classifier) Classify(ctx context.Context, text string) model.ClassificationResult {
	if strings.TrimSpace(text) == "" {
		return model.ClassificationResult{
			Cardinality:  model.CardinalitySingle,
			BookingCount: 0,
			Confidence:   0,
			Reasoning:    "empty request",
			Path:         model.PathFailed,
		}
	}

	if c.client != nil {
		result, err := c.classifyWithModel(ctx, text)
		if err == nil {
			return result
		}
		slog.Warn("Model classification failed, using rule fallback", "error", err)
	}

	return c.classifyWithRules(text)
}

func (c *Classifier) classifyWithModel(ctx context.Context, text string) (model.ClassificationResult, error) {
	prompt := buildPrompt(text)

	response, err := c.client.Generate(ctx, prompt)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("classification call: %w", err)
	}

	cost := llm.EstimateCost(prompt, response)
	c.cost.Add(cost)

	verdict, err := parseVerdict(response)
	if err != nil {
		// The backend answered but not in JSON; mine what we can from
		// the raw text before giving up on the model path.
		verdict = mineVerdict(response)
	}

	result := verdict.toResult()
	result.Path = model.PathModel
	result.CostUSD = cost

	slog.Info("Request classified",
		"cardinality", result.Cardinality,
		"booking_count", result.BookingCount,
		"confidence", result.Confidence,
		"path", result.Path)

	return result, nil
}

// verdict mirrors the JSON shape the prompt asks for.
type verdict struct {
	DetectedDutyType string   `json:"detected_duty_type"`
	DetectedDates    []string `json:"detected_dates"`
	DetectedVehicles []string `json:"detected_vehicles"`
	DetectedDrops    []string `json:"detected_drops"`
	Classification   struct {
		BookingType  string  `json:"booking_type"`
		BookingCount int     `json:"booking_count"`
		Confidence   float64 `json:"confidence_score"`
	} `json:"booking_classification"`
	Reasoning string `json:"reasoning"`
}

func (v verdict) toResult() model.ClassificationResult {
	cardinality := model.CardinalitySingle
	if strings.EqualFold(v.Classification.BookingType, "multiple") {
		cardinality = model.CardinalityMultiple
	}

	count := v.Classification.BookingCount
	if count < 1 {
		count = 1
	}
	if cardinality == model.CardinalityMultiple && count < 2 {
		count = 2
	}
	if cardinality == model.CardinalitySingle {
		count = 1
	}

	confidence := v.Classification.Confidence
	if confidence > 1 {
		confidence /= 100
	}
	if confidence <= 0 {
		confidence = 0.6
	}
	if confidence > 0.95 {
		confidence = 0.95
	}

	return model.ClassificationResult{
		Cardinality:  cardinality,
		BookingCount: count,
		Confidence:   confidence,
		Reasoning:    v.Reasoning,
		DutyTypeHint: v.DetectedDutyType,
		DateHints:    v.DetectedDates,
		VehicleHints: v.DetectedVehicles,
		DropHints:    v.DetectedDrops,
	}
}

func parseVerdict(response string) (verdict, error) {
	repaired := llm.RepairJSON(response)

	var v verdict
	if err := json.Unmarshal([]byte(repaired), &v); err != nil {
		return verdict{}, fmt.Errorf("%w: classification verdict: %v", common.ErrUnparsable, err)
	}
	if v.Classification.BookingType == "" {
		return verdict{}, fmt.Errorf("verdict missing booking_type")
	}
	return v, nil
}
