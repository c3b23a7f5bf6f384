package llm

import (
	"encoding/json"
	"testing"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean object untouched",
			input: `{"booking_count": 2}`,
			want:  `{"booking_count": 2}`,
		},
		{
			name:  "code fence stripped",
			input: "```json\n{\"cardinality\": \"single\"}\n```",
			want:  `{"cardinality": "single"}`,
		},
		{
			name:  "prose around payload",
			input: `Here is the result: {"count": 3} Hope that helps!`,
			want:  `{"count": 3}`,
		},
		{
			name:  "trailing comma dropped",
			input: `{"a": 1, "b": 2,}`,
			want:  `{"a": 1, "b": 2}`,
		},
		{
			name:  "array payload",
			input: "Sure!\n[{\"name\": \"one\"}, {\"name\": \"two\"},]",
			want:  `[{"name": "one"}, {"name": "two"}]`,
		},
		{
			name:  "nested braces balanced",
			input: `text {"outer": {"inner": 1}} trailing`,
			want:  `{"outer": {"inner": 1}}`,
		},
		{
			name:  "braces inside strings ignored",
			input: `{"note": "use {curly} braces"}`,
			want:  `{"note": "use {curly} braces"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairJSON(tt.input)
			if got != tt.want {
				t.Errorf("RepairJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if !json.Valid([]byte(got)) {
				t.Errorf("repaired output is not valid JSON: %q", got)
			}
		})
	}
}

func TestRepairJSONUnsalvageable(t *testing.T) {
	// No JSON at all: output passes through so the caller's parser can
	// report the real failure.
	got := RepairJSON("I could not process that request.")
	if got != "I could not process that request." {
		t.Errorf("unexpected rewrite of non-JSON text: %q", got)
	}
}

func TestEstimateCost(t *testing.T) {
	cost := EstimateCost("a prompt of some length here", "short reply")
	if cost <= 0 {
		t.Fatalf("expected positive cost, got %f", cost)
	}
	if cost > 0.01 {
		t.Fatalf("tiny exchange should cost well under a cent, got %f", cost)
	}
}

func TestCostMeter(t *testing.T) {
	var m CostMeter
	m.Add(0.001)
	m.Add(0.002)

	if got := m.TotalUSD(); got < 0.0029 || got > 0.0031 {
		t.Errorf("TotalUSD = %f, want ~0.003", got)
	}
	if got := m.Calls(); got != 2 {
		t.Errorf("Calls = %d, want 2", got)
	}
}
