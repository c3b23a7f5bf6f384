package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dispatchd/bookingflow/internal/model"
)

var (
	// Structured multi-car markers: "Cab 1", "Booking 2", "first car",
	// "second vehicle".
	numberedUnit = regexp.MustCompile(`(?i)\b(?:cab|car|booking|trip|vehicle)\s*#?\s*([1-9])\b`)
	ordinalUnit  = regexp.MustCompile(`(?i)\b(first|second|third|fourth|fifth)\s+(?:cab|car|vehicle|trip)\b`)

	tableMarker   = regexp.MustCompile(`(?i)table extraction results`)
	bookingsFound = regexp.MustCompile(`(?i)\b(\d+)\s+bookings?\s+found\b`)

	multipleSignals = []*regexp.Regexp{
		regexp.MustCompile(`(?i)multiple\s+drops|several\s+drops`),
		regexp.MustCompile(`(?i)(two|three|four|\d+)\s+(trips|drops|cabs|cars)`),
		regexp.MustCompile(`(?i)alternate\s+days|every\s+other\s+day|non[-\s]?consecutive`),
		regexp.MustCompile(`(?i)morning\s+trip.*evening\s+trip|different\s+times|separate\s+times`),
	}

	singleSignals = []*regexp.Regexp{
		regexp.MustCompile(`(?i)continuous\s+days|consecutive\s+days|back\s+to\s+back`),
		regexp.MustCompile(`(?i)same\s+(car|vehicle)`),
		regexp.MustCompile(`(?i)entire\s+duration|whole\s+period|round\s+trip`),
		regexp.MustCompile(`(?i)outstation|multi[-\s]?day`),
	}

	datePattern = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?\b|\b\d{1,2}(?:st|nd|rd|th)?\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\b`)

	minedCount      = regexp.MustCompile(`(?i)booking_count["\s:]*(\d+)`)
	minedConfidence = regexp.MustCompile(`(?i)confidence[_a-z]*["\s:]*(\d+(?:\.\d+)?)`)

	ordinalValues = map[string]int{
		"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	}
)

// classifyWithRules is the deterministic path used when no model backend
// answers. Its confidence never exceeds fallbackConfidenceCap.
func (c *Classifier) classifyWithRules(text string) model.ClassificationResult {
	lower := strings.ToLower(text)
	result := ruleVerdict(lower)
	result.DutyTypeHint = detectDutyHint(lower)
	return result
}

func ruleVerdict(lower string) model.ClassificationResult {
	// Highest-trust signal: explicitly numbered cars or bookings.
	maxUnit := 0
	for _, m := range numberedUnit.FindAllStringSubmatch(lower, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxUnit {
			maxUnit = n
		}
	}
	for _, m := range ordinalUnit.FindAllStringSubmatch(lower, -1) {
		if n, ok := ordinalValues[strings.ToLower(m[1])]; ok && n > maxUnit {
			maxUnit = n
		}
	}
	if maxUnit >= 2 {
		return fallbackResult(model.CardinalityMultiple, maxUnit, 0.7,
			fmt.Sprintf("numbered car/booking markers up to %d", maxUnit))
	}

	if found := bookingsFound.FindStringSubmatch(lower); found != nil || tableMarker.MatchString(lower) {
		count := 2
		if found != nil {
			if n, err := strconv.Atoi(found[1]); err == nil && n > 0 {
				count = n
			}
		}
		if count >= 2 {
			return fallbackResult(model.CardinalityMultiple, count, 0.7,
				"pre-structured table content with multiple bookings")
		}
		return fallbackResult(model.CardinalitySingle, 1, 0.7,
			"pre-structured table content with a single booking")
	}

	multipleScore := 0
	for _, p := range multipleSignals {
		if p.MatchString(lower) {
			multipleScore++
		}
	}

	singleScore := 0
	for _, p := range singleSignals {
		if p.MatchString(lower) {
			singleScore++
		}
	}

	dates := uniqueMatches(datePattern, lower)

	if multipleScore >= 2 || (multipleScore > singleScore && multipleScore > 0) {
		count := multipleScore + 1
		if len(dates) > count {
			count = len(dates)
		}
		if count < 2 {
			count = 2
		}
		result := fallbackResult(model.CardinalityMultiple, count, 0.65,
			"multiple-booking vocabulary outweighs single-booking vocabulary")
		result.DateHints = dates
		return result
	}

	if len(dates) > 1 && multipleScore > singleScore {
		result := fallbackResult(model.CardinalityMultiple, len(dates), 0.6,
			"several distinct dates with multiple-booking vocabulary")
		result.DateHints = dates
		return result
	}

	confidence := 0.5
	reason := "default single booking classification"
	if singleScore > 0 {
		confidence = 0.65
		reason = "single-booking vocabulary (continuous days, same vehicle, or outstation)"
	}
	return fallbackResult(model.CardinalitySingle, 1, confidence, reason)
}

func fallbackResult(cardinality model.Cardinality, count int, confidence float64, reason string) model.ClassificationResult {
	if confidence > fallbackConfidenceCap {
		confidence = fallbackConfidenceCap
	}
	return model.ClassificationResult{
		Cardinality:  cardinality,
		BookingCount: count,
		Confidence:   confidence,
		Reasoning:    "rule fallback: " + reason,
		Path:         model.PathFallback,
	}
}

var (
	outstationHints = []string{"outstation", "out station", "intercity", "inter-city", "round trip"}
	disposalHints   = []string{"disposal", "at disposal", "local use", "city use", "whole day", "full day", "8 hour", "8hr", "8/80", "80km"}
	dropHints       = []string{"airport transfer", "pickup and drop", "one way", "4 hour", "4hr", "4/40", "40km", "point to point", "drop"}
)

// detectDutyHint reports the duty vocabulary the prompt asks the model
// for, or "" when the text carries no duty keyword. Outstation wording
// wins over local-use wording.
func detectDutyHint(lower string) string {
	for _, w := range outstationHints {
		if strings.Contains(lower, w) {
			return "outstation"
		}
	}
	for _, w := range disposalHints {
		if strings.Contains(lower, w) {
			return "8HR/80KM"
		}
	}
	for _, w := range dropHints {
		if strings.Contains(lower, w) {
			return "4HR/40KM"
		}
	}
	return ""
}

// mineVerdict scrapes cardinality hints out of a model response that did
// not parse as JSON even after repair.
func mineVerdict(response string) verdict {
	var v verdict

	v.Classification.BookingType = "single"
	v.Classification.BookingCount = 1
	v.Classification.Confidence = 0.6
	v.Reasoning = "mined from unstructured model response"

	lower := strings.ToLower(response)
	if strings.Contains(lower, "multiple") {
		v.Classification.BookingType = "multiple"
		v.Classification.BookingCount = 2
	}

	if m := minedCount.FindStringSubmatch(response); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			v.Classification.BookingCount = n
			if n > 1 {
				v.Classification.BookingType = "multiple"
			}
		}
	}

	if m := minedConfidence.FindStringSubmatch(response); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			if f > 1 {
				f /= 100
			}
			v.Classification.Confidence = f
		}
	}

	return v
}

func uniqueMatches(p *regexp.Regexp, s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range p.FindAllString(s, -1) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
