package llm

import (
	"math"
	"sync/atomic"
)

// Rough per-1K-token pricing used for cost telemetry. Token counts are
// estimated at four characters per token; the numbers feed dashboards,
// not invoices.
const (
	costPer1KInputUSD  = 0.00015
	costPer1KOutputUSD = 0.0006
	charsPerToken      = 4
)

// EstimateCost approximates the dollar cost of one prompt/response pair.
func EstimateCost(prompt, response string) float64 {
	inputTokens := float64(len(prompt)) / charsPerToken
	outputTokens := float64(len(response)) / charsPerToken
	return (inputTokens/1000)*costPer1KInputUSD + (outputTokens/1000)*costPer1KOutputUSD
}

// CostMeter accumulates estimated spend across calls. Safe for concurrent
// use; values are stored as math.Float64bits in an atomic word.
type CostMeter struct {
	bits  atomic.Uint64
	calls atomic.Int64
}

// Add records one call's estimated cost.
func (m *CostMeter) Add(usd float64) {
	m.calls.Add(1)
	for {
		old := m.bits.Load()
		updated := math.Float64bits(math.Float64frombits(old) + usd)
		if m.bits.CompareAndSwap(old, updated) {
			return
		}
	}
}

// TotalUSD returns the accumulated estimated cost.
func (m *CostMeter) TotalUSD() float64 {
	return math.Float64frombits(m.bits.Load())
}

// Calls returns how many costs have been recorded.
func (m *CostMeter) Calls() int64 {
	return m.calls.Load()
}
