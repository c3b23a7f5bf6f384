package extract

import (
	"regexp"
	"strings"

	"github.com/dispatchd/bookingflow/internal/model"
	"github.com/dispatchd/bookingflow/internal/normalize"
)

// Key-value labels seen in booking forms, mapped to record fields. Longer
// labels are matched first so "passenger phone" wins over "phone".
var fieldLabels = []struct {
	label string
	set   func(*model.BookingRecord, string)
}{
	{"name of employee", func(r *model.BookingRecord, v string) { r.PassengerName = v }},
	{"employee name", func(r *model.BookingRecord, v string) { r.PassengerName = v }},
	{"passenger name", func(r *model.BookingRecord, v string) { r.PassengerName = v }},
	{"guest name", func(r *model.BookingRecord, v string) { r.PassengerName = v }},
	{"traveler name", func(r *model.BookingRecord, v string) { r.PassengerName = v }},
	{"passenger phone", func(r *model.BookingRecord, v string) { r.PassengerPhone = normalize.Phone(v) }},
	{"contact number", func(r *model.BookingRecord, v string) { r.PassengerPhone = normalize.Phone(v) }},
	{"mobile number", func(r *model.BookingRecord, v string) { r.PassengerPhone = normalize.Phone(v) }},
	{"phone number", func(r *model.BookingRecord, v string) { r.PassengerPhone = normalize.Phone(v) }},
	{"mobile", func(r *model.BookingRecord, v string) { r.PassengerPhone = normalize.Phone(v) }},
	{"passenger email", func(r *model.BookingRecord, v string) { r.PassengerEmail = v }},
	{"email", func(r *model.BookingRecord, v string) { r.PassengerEmail = v }},
	{"customer name", func(r *model.BookingRecord, v string) { r.Customer = v }},
	{"company name", func(r *model.BookingRecord, v string) { r.Customer = v }},
	{"company", func(r *model.BookingRecord, v string) { r.Customer = v }},
	{"corporate", func(r *model.BookingRecord, v string) { r.Customer = v }},
	{"client", func(r *model.BookingRecord, v string) { r.Customer = v }},
	{"booked by", func(r *model.BookingRecord, v string) { r.BookedByName = v }},
	{"coordinator", func(r *model.BookingRecord, v string) { r.BookedByName = v }},
	{"date of travel", func(r *model.BookingRecord, v string) { r.StartDate = normalize.Date(v) }},
	{"travel date", func(r *model.BookingRecord, v string) { r.StartDate = normalize.Date(v) }},
	{"journey date", func(r *model.BookingRecord, v string) { r.StartDate = normalize.Date(v) }},
	{"pickup date", func(r *model.BookingRecord, v string) { r.StartDate = normalize.Date(v) }},
	{"start date", func(r *model.BookingRecord, v string) { r.StartDate = normalize.Date(v) }},
	{"end date", func(r *model.BookingRecord, v string) { r.EndDate = normalize.Date(v) }},
	{"date", func(r *model.BookingRecord, v string) { r.StartDate = normalize.Date(v) }},
	{"pick-up time", func(r *model.BookingRecord, v string) { r.ReportingTime = normalize.Clock(v) }},
	{"pickup time", func(r *model.BookingRecord, v string) { r.ReportingTime = normalize.Clock(v) }},
	{"reporting time", func(r *model.BookingRecord, v string) { r.ReportingTime = normalize.Clock(v) }},
	{"departure time", func(r *model.BookingRecord, v string) { r.ReportingTime = normalize.Clock(v) }},
	{"time", func(r *model.BookingRecord, v string) { r.ReportingTime = normalize.Clock(v) }},
	{"pickup address", func(r *model.BookingRecord, v string) { r.ReportingAddress = normalize.Address(v) }},
	{"pick-up address", func(r *model.BookingRecord, v string) { r.ReportingAddress = normalize.Address(v) }},
	{"reporting address", func(r *model.BookingRecord, v string) { r.ReportingAddress = normalize.Address(v) }},
	{"pickup location", func(r *model.BookingRecord, v string) { r.FromLocation = v }},
	{"from location", func(r *model.BookingRecord, v string) { r.FromLocation = v }},
	{"origin", func(r *model.BookingRecord, v string) { r.FromLocation = v }},
	{"source", func(r *model.BookingRecord, v string) { r.FromLocation = v }},
	{"drop address", func(r *model.BookingRecord, v string) { r.DropAddress = normalize.Address(v) }},
	{"destination address", func(r *model.BookingRecord, v string) { r.DropAddress = normalize.Address(v) }},
	{"drop location", func(r *model.BookingRecord, v string) { r.ToLocation = v }},
	{"drop at", func(r *model.BookingRecord, v string) { r.ToLocation = v }},
	{"destination", func(r *model.BookingRecord, v string) { r.ToLocation = v }},
	{"to location", func(r *model.BookingRecord, v string) { r.ToLocation = v }},
	{"vehicle type", func(r *model.BookingRecord, v string) { r.VehicleGroup = v }},
	{"vehicle group", func(r *model.BookingRecord, v string) { r.VehicleGroup = v }},
	{"car type", func(r *model.BookingRecord, v string) { r.VehicleGroup = v }},
	{"cab type", func(r *model.BookingRecord, v string) { r.VehicleGroup = v }},
	{"vehicle", func(r *model.BookingRecord, v string) { r.VehicleGroup = v }},
	{"flight number", func(r *model.BookingRecord, v string) { r.FlightTrainNumber = v }},
	{"flight details", func(r *model.BookingRecord, v string) { r.FlightTrainNumber = v }},
	{"train number", func(r *model.BookingRecord, v string) { r.FlightTrainNumber = v }},
	{"flight", func(r *model.BookingRecord, v string) { r.FlightTrainNumber = v }},
	{"pnr", func(r *model.BookingRecord, v string) { r.FlightTrainNumber = v }},
	{"special instructions", func(r *model.BookingRecord, v string) { r.Remarks = v }},
	{"comments", func(r *model.BookingRecord, v string) { r.Remarks = v }},
	{"remarks", func(r *model.BookingRecord, v string) { r.Remarks = v }},
	{"notes", func(r *model.BookingRecord, v string) { r.Remarks = v }},
}

var tableIndicators = []string{
	"name:", "passenger:", "customer:", "phone:", "mobile:",
	"date:", "time:", "pickup:", "drop:", "vehicle:", "car:",
	"from:", "to:", "address:", "flight:",
	"employee name", "contact number", "travel date",
	"pick-up time", "cab type", "drop at", "company name",
}

// looksTabular reports whether the content reads like a filled-in booking
// form rather than free prose.
func looksTabular(content string) bool {
	lower := strings.ToLower(content)
	count := 0
	for _, indicator := range tableIndicators {
		if strings.Contains(lower, indicator) {
			count++
		}
	}
	return count >= 3
}

// fillFromKeyValues scans "Label: value" lines and fills matching fields.
// Returns how many fields were set.
func fillFromKeyValues(record *model.BookingRecord, content string) int {
	filled := 0
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, ":")
		if idx <= 0 || idx == len(line)-1 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		if value == "" {
			continue
		}

		for _, fl := range fieldLabels {
			if strings.Contains(key, fl.label) {
				fl.set(record, value)
				filled++
				break
			}
		}
	}
	return filled
}

var (
	phonePattern = regexp.MustCompile(`(?:\+?91[-\s]?)?\d{10}\b`)
	namePattern  = regexp.MustCompile(`(?i)(?:passenger|guest|name)\s*[:\-]\s*((?:(?:mr|ms|mrs|dr)\.?\s+)?[A-Za-z]+(?:\s+[A-Za-z]+){0,3})`)
	titledName   = regexp.MustCompile(`\b((?:[Mm]r|[Mm]s|[Mm]rs|[Dd]r)\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2})`)
	datePattern  = regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{4}|\d{4}-\d{1,2}-\d{1,2}|\d{1,2}(?:st|nd|rd|th)?\s+(?:[Jj]an|[Ff]eb|[Mm]ar|[Aa]pr|[Mm]ay|[Jj]un|[Jj]ul|[Aa]ug|[Ss]ep|[Oo]ct|[Nn]ov|[Dd]ec)[a-z]*(?:\s+\d{4})?`)
	timePattern  = regexp.MustCompile(`(?i)\b\d{1,2}[.:]\d{2}\s*(?:am|pm|hrs)?\b|\b\d{1,2}\s*(?:am|pm)\b`)
)

var knownVehicles = []string{"dzire", "innova", "crysta", "ertiga", "swift", "sedan", "suv", "hatchback"}

var knownCities = []string{
	"mumbai", "bombay", "delhi", "gurgaon", "gurugram", "noida",
	"bangalore", "bengaluru", "pune", "hyderabad", "chennai", "madras",
	"kolkata", "nashik", "mysore", "pondicherry",
}

// mineFreeText pulls whatever fields simple patterns can find out of prose.
func mineFreeText(record *model.BookingRecord, content string) {
	lower := strings.ToLower(content)

	if record.PassengerPhone == "" {
		if m := phonePattern.FindString(content); m != "" {
			record.PassengerPhone = normalize.Phone(m)
		}
	}

	if record.PassengerName == "" {
		if m := namePattern.FindStringSubmatch(content); m != nil {
			record.PassengerName = strings.TrimSpace(m[1])
		} else if m := titledName.FindStringSubmatch(content); m != nil {
			record.PassengerName = strings.TrimSpace(m[1])
		}
	}

	if record.VehicleGroup == "" {
		for _, v := range knownVehicles {
			if strings.Contains(lower, v) {
				record.VehicleGroup = v
				break
			}
		}
	}

	if record.FromLocation == "" || record.ToLocation == "" {
		var found []string
		seen := make(map[string]bool)
		for _, city := range knownCities {
			if idx := strings.Index(lower, city); idx >= 0 && !seen[city] {
				seen[city] = true
				found = append(found, city)
			}
		}
		if len(found) > 0 && record.FromLocation == "" {
			record.FromLocation = found[0]
		}
		if len(found) > 1 && record.ToLocation == "" {
			record.ToLocation = found[1]
		}
	}

	if record.StartDate == "" {
		if m := datePattern.FindString(content); m != "" {
			record.StartDate = normalize.Date(m)
		}
	}

	if record.ReportingTime == "" {
		if m := timePattern.FindString(content); m != "" {
			record.ReportingTime = normalize.Clock(m)
		}
	}
}
