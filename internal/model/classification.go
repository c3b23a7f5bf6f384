package model

// Cardinality says how many bookings a request message contains.
type Cardinality string

// Cardinality values.
const (
	CardinalitySingle   Cardinality = "single"
	CardinalityMultiple Cardinality = "multiple"
)

// Path records which route produced a stage's result.
type Path string

// Path values, in descending order of trust.
const (
	PathModel    Path = "model"
	PathFallback Path = "fallback"
	PathFailed   Path = "failed"
)

// ClassificationResult is the outcome of the cardinality stage.
type ClassificationResult struct {
	Cardinality   Cardinality `json:"cardinality"`
	BookingCount  int         `json:"booking_count"`
	Confidence    float64     `json:"confidence"`
	Reasoning     string      `json:"reasoning"`
	DutyTypeHint  string      `json:"duty_type_hint,omitempty"`
	DateHints     []string    `json:"date_hints,omitempty"`
	VehicleHints  []string    `json:"vehicle_hints,omitempty"`
	DropHints     []string    `json:"drop_hints,omitempty"`
	Path          Path        `json:"path"`
	CostUSD       float64     `json:"cost_usd"`
}

// IsMultiple reports whether the request needs the multi-booking extractor.
func (c *ClassificationResult) IsMultiple() bool {
	return c.Cardinality == CardinalityMultiple
}
