package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dispatchd/bookingflow/internal/model"
	"github.com/dispatchd/bookingflow/internal/normalize"
)

// structuredMarker flags content already digested by the upstream document
// processor. It arrives as "Booking N:" sections of dash-prefixed fields
// and needs no model call at all.
const structuredMarker = "TABLE EXTRACTION RESULTS"

var structuredHeader = regexp.MustCompile(`(?m)^Booking (\d+):`)

var structuredFields = []struct {
	pattern *regexp.Regexp
	set     func(*model.BookingRecord, string)
}{
	{regexp.MustCompile(`- Passenger:\s*([^\n(]+)`), func(r *model.BookingRecord, v string) { r.PassengerName = v }},
	{regexp.MustCompile(`\(([\d\s+\-]+)\)`), func(r *model.BookingRecord, v string) { r.PassengerPhone = normalize.Phone(v) }},
	{regexp.MustCompile(`- Company:\s*([^\n]+)`), func(r *model.BookingRecord, v string) { r.Customer = v }},
	{regexp.MustCompile(`- Date:\s*([^\n]+)`), func(r *model.BookingRecord, v string) { r.StartDate = normalize.Date(v) }},
	{regexp.MustCompile(`- Time:\s*([^\n]+)`), func(r *model.BookingRecord, v string) { r.ReportingTime = normalize.Clock(v) }},
	{regexp.MustCompile(`- Vehicle:\s*([^\n]+)`), func(r *model.BookingRecord, v string) { r.VehicleGroup = v }},
	{regexp.MustCompile(`- From:\s*([^\n]+)`), func(r *model.BookingRecord, v string) { r.ReportingAddress = normalize.Address(v) }},
	{regexp.MustCompile(`- To:\s*([^\n]+)`), func(r *model.BookingRecord, v string) { r.DropAddress = normalize.Address(v) }},
	{regexp.MustCompile(`- Flight:\s*([^\n]+)`), func(r *model.BookingRecord, v string) { r.FlightTrainNumber = v }},
}

func isStructured(content string) bool {
	return strings.Contains(content, structuredMarker)
}

// parseStructured builds records straight from pre-structured sections.
// High confidence, zero model cost.
func parseStructured(content string, cls model.ClassificationResult) model.ExtractionResult {
	var records []model.BookingRecord

	headers := structuredHeader.FindAllStringSubmatchIndex(content, -1)
	for i, h := range headers {
		number := content[h[2]:h[3]]
		end := len(content)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		section := content[h[1]:end]

		record := model.BookingRecord{
			Remarks:          fmt.Sprintf("Extracted from pre-structured content - Booking %s", number),
			Confidence:       0.95,
			ExtractionMethod: fmt.Sprintf("structured_table_%s", number),
		}
		for _, f := range structuredFields {
			if fm := f.pattern.FindStringSubmatch(section); fm != nil {
				value := strings.TrimSpace(fm[1])
				if value != "" && !strings.EqualFold(value, "n/a") {
					f.set(&record, value)
				}
			}
		}
		records = append(records, record)
	}

	return model.ExtractionResult{
		Records:       records,
		ExpectedCount: cls.BookingCount,
		Confidence:    0.95,
		Path:          model.PathModel,
	}
}
