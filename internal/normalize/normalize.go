// Package normalize cleans the free-text field values that come out of
// booking requests: phone numbers, dates, clock times, and addresses.
// Every function is best-effort; input that cannot be parsed is returned
// unchanged rather than erroring.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// Phone strips formatting from a phone number and drops an Indian country
// code prefix when the remainder is a plain 10-digit number.
func Phone(s string) string {
	if s == "" {
		return ""
	}

	digits := nonDigits.ReplaceAllString(s, "")

	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		digits = digits[2:]
	case len(digits) == 13 && strings.HasPrefix(digits, "091"):
		digits = digits[3:]
	}

	if len(digits) == 10 {
		return digits
	}
	return s
}

var monthNumbers = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

var (
	isoDate     = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	numericDate = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})$`)
	dayFirst    = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]+),?(?:\s+(\d{4}))?$`)
	monthFirst  = regexp.MustCompile(`^([A-Za-z]+)\s+(\d{1,2})(?:st|nd|rd|th)?,?(?:\s+(\d{4}))?$`)
)

// DefaultYear fills in dates written without a year. Settable for tests.
var DefaultYear = 2025

// Date converts common date spellings to YYYY-MM-DD.
// Numeric dates are read day-first.
func Date(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}

	if m := isoDate.FindStringSubmatch(trimmed); m != nil {
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
	}

	if m := numericDate.FindStringSubmatch(trimmed); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
	}

	if m := dayFirst.FindStringSubmatch(trimmed); m != nil {
		if month, ok := monthNumbers[strings.ToLower(m[2])]; ok {
			year := m[3]
			if year == "" {
				year = strconv.Itoa(DefaultYear)
			}
			day, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("%s-%02d-%02d", year, month, day)
		}
	}

	if m := monthFirst.FindStringSubmatch(trimmed); m != nil {
		if month, ok := monthNumbers[strings.ToLower(m[1])]; ok {
			year := m[3]
			if year == "" {
				year = strconv.Itoa(DefaultYear)
			}
			day, _ := strconv.Atoi(m[2])
			return fmt.Sprintf("%s-%02d-%02d", year, month, day)
		}
	}

	return s
}

var (
	clockMeridiem = regexp.MustCompile(`^(\d{1,2})(?:[.:](\d{2}))?\s*([ap]m)?$`)
	clockMilitary = regexp.MustCompile(`^(\d{2})(\d{2})$`)
	hoursSuffix   = regexp.MustCompile(`\s*(hrs?|hours?)\s*$`)
)

// Clock converts time spellings like "7.30am", "1700 hrs", or "9 PM" to
// 24-hour HH:MM. No rounding happens here; see QuarterHour.
func Clock(s string) string {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return s
	}

	trimmed = hoursSuffix.ReplaceAllString(trimmed, "")

	if m := clockMilitary.FindStringSubmatch(trimmed); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 24 && minute < 60 {
			return fmt.Sprintf("%02d:%02d", hour, minute)
		}
	}

	if m := clockMeridiem.FindStringSubmatch(trimmed); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}

		switch m[3] {
		case "pm":
			if hour != 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}

		if hour < 24 && minute < 60 {
			return fmt.Sprintf("%02d:%02d", hour, minute)
		}
	}

	return s
}

// QuarterHour rounds an HH:MM time to the nearest quarter-hour slot.
// Minutes 53-59 roll to the next hour. Input that is not HH:MM passes
// through unchanged.
func QuarterHour(s string) string {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return s
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return s
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return s
	}

	var rounded int
	switch {
	case minute <= 7:
		rounded = 0
	case minute <= 22:
		rounded = 15
	case minute <= 37:
		rounded = 30
	case minute <= 52:
		rounded = 45
	default:
		rounded = 0
		hour++
		if hour >= 24 {
			hour = 0
		}
	}

	return fmt.Sprintf("%02d:%02d", hour, rounded)
}

// Connector words stay lowercase when title-casing addresses.
var lowercaseWords = map[string]bool{
	"and": true, "or": true, "of": true, "at": true,
	"to": true, "from": true, "in": true, "on": true, "the": true,
}

var (
	lineBreaks    = regexp.MustCompile(`[\r\n]+`)
	repeatedComma = regexp.MustCompile(`\s*,[\s,]*`)
	multiSpace    = regexp.MustCompile(`\s+`)
)

// Address flattens a multi-line address into one comma-separated line and
// title-cases it, leaving connector words lowercase.
func Address(s string) string {
	if strings.TrimSpace(s) == "" {
		return strings.TrimSpace(s)
	}

	flat := lineBreaks.ReplaceAllString(s, ", ")
	flat = repeatedComma.ReplaceAllString(flat, ", ")
	flat = multiSpace.ReplaceAllString(flat, " ")
	flat = strings.Trim(flat, ", ")

	words := strings.Fields(flat)
	for i, w := range words {
		trailing := ""
		core := w
		if strings.HasSuffix(core, ",") {
			trailing = ","
			core = strings.TrimSuffix(core, ",")
		}
		lower := strings.ToLower(core)
		if i > 0 && lowercaseWords[lower] {
			words[i] = lower + trailing
			continue
		}
		words[i] = titleWord(core) + trailing
	}

	return strings.Join(words, " ")
}

// titleWord uppercases the first letter only, preserving interior caps in
// tokens like "IT" or alphanumerics like "A4".
func titleWord(w string) string {
	if w == "" {
		return w
	}
	if strings.ToUpper(w) == w && len(w) <= 3 {
		// Short all-caps tokens are usually acronyms.
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}
