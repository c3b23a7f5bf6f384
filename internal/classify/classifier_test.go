package classify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dispatchd/bookingflow/internal/llm"
	"github.com/dispatchd/bookingflow/internal/model"
)

func TestClassifyEmptyInput(t *testing.T) {
	c := New(nil)

	result := c.Classify(context.Background(), "   ")

	if result.Path != model.PathFailed {
		t.Errorf("Path = %s, want %s", result.Path, model.PathFailed)
	}
	if result.BookingCount != 0 {
		t.Errorf("BookingCount = %d, want 0", result.BookingCount)
	}
}

func TestClassifyModelPath(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []string{`{
			"detected_duty_type": "4HR/40KM",
			"detected_drops": ["Mumbai Airport", "Taj Lands End"],
			"booking_classification": {
				"booking_type": "multiple",
				"booking_count": 3,
				"confidence_score": 0.9
			},
			"reasoning": "three drops in the same day"
		}`},
	}
	c := New(mock)

	result := c.Classify(context.Background(), "Drop to airport, then hotel, then office today")

	if result.Path != model.PathModel {
		t.Errorf("Path = %s, want %s", result.Path, model.PathModel)
	}
	if result.Cardinality != model.CardinalityMultiple {
		t.Errorf("Cardinality = %s, want multiple", result.Cardinality)
	}
	if result.BookingCount != 3 {
		t.Errorf("BookingCount = %d, want 3", result.BookingCount)
	}
	if result.Confidence != 0.9 {
		t.Errorf("Confidence = %f, want 0.9", result.Confidence)
	}
	if result.CostUSD <= 0 {
		t.Error("expected positive cost on model path")
	}
	if result.DutyTypeHint != "4HR/40KM" {
		t.Errorf("DutyTypeHint = %q", result.DutyTypeHint)
	}
	if len(result.DropHints) != 2 || result.DropHints[0] != "Mumbai Airport" {
		t.Errorf("DropHints = %v", result.DropHints)
	}
}

func TestClassifyModelPathFencedJSON(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []string{"```json\n{\"booking_classification\": {\"booking_type\": \"single\", \"booking_count\": 1, \"confidence_score\": 0.85}, \"reasoning\": \"one drop\"}\n```"},
	}
	c := New(mock)

	result := c.Classify(context.Background(), "Drop from office to airport tomorrow")

	if result.Path != model.PathModel {
		t.Errorf("Path = %s, want %s", result.Path, model.PathModel)
	}
	if result.Cardinality != model.CardinalitySingle {
		t.Errorf("Cardinality = %s, want single", result.Cardinality)
	}
}

func TestClassifyMinesUnstructuredResponse(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []string{"The request clearly needs multiple bookings. booking_count: 4, confidence: 80"},
	}
	c := New(mock)

	result := c.Classify(context.Background(), "Cab 1 and cab 2 and more")

	if result.Path != model.PathModel {
		t.Errorf("Path = %s, want %s", result.Path, model.PathModel)
	}
	if result.Cardinality != model.CardinalityMultiple {
		t.Errorf("Cardinality = %s, want multiple", result.Cardinality)
	}
	if result.BookingCount != 4 {
		t.Errorf("BookingCount = %d, want 4", result.BookingCount)
	}
	if result.Confidence != 0.8 {
		t.Errorf("Confidence = %f, want 0.8", result.Confidence)
	}
}

func TestClassifyFallbackOnBackendError(t *testing.T) {
	mock := &llm.MockClient{Err: errors.New("backend down")}
	c := New(mock)

	result := c.Classify(context.Background(), "Need cab 1 for airport and cab 2 for station")

	if result.Path != model.PathFallback {
		t.Errorf("Path = %s, want %s", result.Path, model.PathFallback)
	}
	if result.Cardinality != model.CardinalityMultiple {
		t.Errorf("Cardinality = %s, want multiple", result.Cardinality)
	}
	if result.Confidence > fallbackConfidenceCap {
		t.Errorf("fallback confidence %f exceeds cap %f", result.Confidence, fallbackConfidenceCap)
	}
	if !strings.Contains(result.Reasoning, "rule fallback") {
		t.Errorf("fallback reasoning not recorded: %q", result.Reasoning)
	}
}

func TestRuleFallbackDutyHint(t *testing.T) {
	c := New(nil)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"outstation trip", "Chennai to Tirupati outstation, returning next day", "outstation"},
		{"round trip counts as outstation", "Round trip to the factory and back", "outstation"},
		{"full day disposal", "Car at disposal for the whole day in Pune", "8HR/80KM"},
		{"airport transfer", "Airport transfer for Mr Rao at 6am", "4HR/40KM"},
		{"no duty vocabulary", "Need a cab for our guest tomorrow morning", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Classify(context.Background(), tt.text)
			if result.DutyTypeHint != tt.want {
				t.Errorf("DutyTypeHint = %q, want %q", result.DutyTypeHint, tt.want)
			}
		})
	}
}

func TestRuleFallbackCases(t *testing.T) {
	c := New(nil)

	tests := []struct {
		name     string
		text     string
		want     model.Cardinality
		minCount int
	}{
		{
			"first and second car",
			"Please arrange first car for the CEO and second car for the delegation",
			model.CardinalityMultiple, 2,
		},
		{
			"numbered cabs",
			"Cab 1: airport pickup. Cab 2: hotel drop. Cab 3: office run.",
			model.CardinalityMultiple, 3,
		},
		{
			"table extraction marker",
			"TABLE EXTRACTION RESULTS (4 bookings found)",
			model.CardinalityMultiple, 4,
		},
		{
			"outstation round trip stays single",
			"Chennai to Bangalore round trip, same car for the entire duration",
			model.CardinalitySingle, 1,
		},
		{
			"plain drop stays single",
			"Please arrange a drop from office to the airport tomorrow at 5pm",
			model.CardinalitySingle, 1,
		},
		{
			"alternate days split",
			"Need car on alternate days, separate times each day, multiple drops",
			model.CardinalityMultiple, 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Classify(context.Background(), tt.text)
			if result.Cardinality != tt.want {
				t.Errorf("Cardinality = %s, want %s (reason: %s)", result.Cardinality, tt.want, result.Reasoning)
			}
			if result.BookingCount < tt.minCount {
				t.Errorf("BookingCount = %d, want >= %d", result.BookingCount, tt.minCount)
			}
			if result.Path != model.PathFallback {
				t.Errorf("Path = %s, want %s", result.Path, model.PathFallback)
			}
			if result.Confidence > fallbackConfidenceCap {
				t.Errorf("confidence %f exceeds fallback cap", result.Confidence)
			}
		})
	}
}
