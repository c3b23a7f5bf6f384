package model

import "time"

// ExtractionResult is one stage's worth of extracted bookings along with
// how they were obtained.
type ExtractionResult struct {
	Records       []BookingRecord `json:"records"`
	ExpectedCount int             `json:"expected_count"`
	Confidence    float64         `json:"confidence"`
	Path          Path            `json:"path"`
	CostUSD       float64         `json:"cost_usd"`
	Elapsed       time.Duration   `json:"elapsed"`
}

// CountMismatch reports whether the extractor produced a different number
// of records than the classifier predicted.
func (e *ExtractionResult) CountMismatch() bool {
	return e.ExpectedCount > 0 && len(e.Records) != e.ExpectedCount
}

// ProcessResult is the orchestrator's envelope for one request.
type ProcessResult struct {
	Success        bool                  `json:"success"`
	Records        []BookingRecord       `json:"records"`
	Count          int                   `json:"count"`
	ExpectedCount  int                   `json:"expected_count"`
	CountMismatch  bool                  `json:"count_mismatch"`
	Confidence     float64               `json:"confidence"`
	CostUSD        float64               `json:"cost_usd"`
	Elapsed        time.Duration         `json:"elapsed"`
	Classification *ClassificationResult `json:"classification,omitempty"`
	Stages         []StageOutcome        `json:"stages"`
	Error          string                `json:"error,omitempty"`
}

// StageOutcome is one pipeline stage's telemetry entry.
type StageOutcome struct {
	Stage      string        `json:"stage"`
	Path       Path          `json:"path"`
	Confidence float64       `json:"confidence"`
	CostUSD    float64       `json:"cost_usd"`
	Elapsed    time.Duration `json:"elapsed"`
	Detail     string        `json:"detail,omitempty"`
}
