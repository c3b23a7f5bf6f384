package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dispatchd/bookingflow/internal/llm"
	"github.com/dispatchd/bookingflow/internal/model"
)

func singleClassification() model.ClassificationResult {
	return model.ClassificationResult{
		Cardinality:  model.CardinalitySingle,
		BookingCount: 1,
		Confidence:   0.8,
		Path:         model.PathModel,
	}
}

func multipleClassification(count int) model.ClassificationResult {
	return model.ClassificationResult{
		Cardinality:  model.CardinalityMultiple,
		BookingCount: count,
		Confidence:   0.8,
		Path:         model.PathModel,
	}
}

func TestRouterStructuredShortCircuit(t *testing.T) {
	content := `TABLE EXTRACTION RESULTS (2 bookings found)

Booking 1:
- Passenger: Rajesh Kumar (9876543210)
- Company: Infosys
- Date: 27/08/2025
- Time: 7.43am
- Vehicle: Dzire
- From: Koramangala, Bangalore
- To: Bangalore Airport

Booking 2:
- Passenger: Ms Priya Sharma (9876543211)
- Date: 27/08/2025
- Time: 5pm
- Vehicle: Innova
- From: Whitefield, Bangalore
- To: Bangalore Airport
`

	// A failing client proves no model call happens on this path.
	router := NewRouter(&llm.MockClient{Err: errors.New("must not be called")})

	result := router.ExtractAndRoute(context.Background(), content, multipleClassification(2))

	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Records))
	}
	if result.CountMismatch() {
		t.Error("unexpected count mismatch")
	}
	if result.Confidence != 0.95 {
		t.Errorf("Confidence = %f, want 0.95", result.Confidence)
	}

	first := result.Records[0]
	if first.PassengerName != "Rajesh Kumar" {
		t.Errorf("PassengerName = %q", first.PassengerName)
	}
	if first.PassengerPhone != "9876543210" {
		t.Errorf("PassengerPhone = %q", first.PassengerPhone)
	}
	if first.Customer != "Infosys" {
		t.Errorf("Customer = %q", first.Customer)
	}
	if first.StartDate != "2025-08-27" {
		t.Errorf("StartDate = %q", first.StartDate)
	}
	if first.ReportingTime != "07:43" {
		t.Errorf("ReportingTime = %q, extraction must not round", first.ReportingTime)
	}
	if first.Confidence != 0.95 {
		t.Errorf("record Confidence = %f, want 0.95", first.Confidence)
	}
	if first.ExtractionMethod != "structured_table_1" {
		t.Errorf("ExtractionMethod = %q", first.ExtractionMethod)
	}

	stats := router.Stats()
	if stats.StructuredRequests != 1 || stats.TotalRecords != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestSingleExtractorModelPath(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []string{`{
			"booking": {
				"passenger_name": "Amit Verma",
				"passenger_phone": "+91 98765 43210",
				"from_location": "Mumbai",
				"to_location": "Pune",
				"vehicle_group": "dzire",
				"start_date": "28/08/2025",
				"reporting_time": "6.15 am"
			},
			"confidence_score": 0.88
		}`},
	}

	e := NewSingleExtractor(mock)
	result := e.Extract(context.Background(), "booking text", singleClassification())

	if result.Path != model.PathModel {
		t.Fatalf("Path = %s, want model", result.Path)
	}
	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}

	r := result.Records[0]
	if r.PassengerPhone != "9876543210" {
		t.Errorf("PassengerPhone = %q, want normalized 10 digits", r.PassengerPhone)
	}
	if r.StartDate != "2025-08-28" {
		t.Errorf("StartDate = %q", r.StartDate)
	}
	if r.ReportingTime != "06:15" {
		t.Errorf("ReportingTime = %q", r.ReportingTime)
	}
	if r.DutyType != "" {
		t.Errorf("DutyType = %q, extraction must leave it empty", r.DutyType)
	}
	if result.Confidence != 0.88 {
		t.Errorf("Confidence = %f", result.Confidence)
	}
	if r.Confidence != 0.88 {
		t.Errorf("record Confidence = %f, want the extraction confidence", r.Confidence)
	}
	if r.ExtractionMethod != "single_booking_model" {
		t.Errorf("ExtractionMethod = %q", r.ExtractionMethod)
	}
}

func TestSingleExtractorRuleFallbackTable(t *testing.T) {
	content := `Employee Name: Sunil Mehta
Contact Number: 9812345678
Travel Date: 29-08-2025
Pick-up Time: 0930
Cab Type: Innova
Pickup Address: Tower B, Cyber City, Gurgaon
Drop At: Delhi Airport`

	e := NewSingleExtractor(nil)
	result := e.Extract(context.Background(), content, singleClassification())

	if result.Path != model.PathFallback {
		t.Fatalf("Path = %s, want fallback", result.Path)
	}

	r := result.Records[0]
	if r.PassengerName != "Sunil Mehta" {
		t.Errorf("PassengerName = %q", r.PassengerName)
	}
	if r.PassengerPhone != "9812345678" {
		t.Errorf("PassengerPhone = %q", r.PassengerPhone)
	}
	if r.StartDate != "2025-08-29" {
		t.Errorf("StartDate = %q", r.StartDate)
	}
	if r.ReportingTime != "09:30" {
		t.Errorf("ReportingTime = %q", r.ReportingTime)
	}
	if r.VehicleGroup != "Innova" {
		t.Errorf("VehicleGroup = %q", r.VehicleGroup)
	}
	if r.ToLocation != "Delhi Airport" {
		t.Errorf("ToLocation = %q", r.ToLocation)
	}
	if result.Confidence > 0.7 {
		t.Errorf("fallback confidence %f too high", result.Confidence)
	}
	if r.ExtractionMethod != "single_booking_rules" {
		t.Errorf("ExtractionMethod = %q", r.ExtractionMethod)
	}
}

func TestMultipleExtractorModelPath(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []string{`{
			"bookings": [
				{"passenger_name": "Guest One", "start_date": "2025-09-01", "from_location": "Delhi"},
				{"passenger_name": "Guest Two", "start_date": "2025-09-03", "from_location": "Delhi"}
			],
			"confidence_score": 0.8
		}`},
	}

	e := NewMultipleExtractor(mock)
	result := e.Extract(context.Background(), "two bookings", multipleClassification(2))

	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Records))
	}
	if result.CountMismatch() {
		t.Error("unexpected count mismatch")
	}
	if result.Records[0].ExtractionMethod != "multiple_booking_model_1" ||
		result.Records[1].ExtractionMethod != "multiple_booking_model_2" {
		t.Errorf("ExtractionMethods = %q, %q",
			result.Records[0].ExtractionMethod, result.Records[1].ExtractionMethod)
	}
	if result.Records[0].Confidence != 0.8 {
		t.Errorf("record Confidence = %f, want 0.8", result.Records[0].Confidence)
	}
}

func TestMultipleExtractorCountMismatchSurfaced(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []string{`{
			"bookings": [
				{"passenger_name": "Only Guest", "start_date": "2025-09-01", "from_location": "Delhi"}
			],
			"confidence_score": 0.8
		}`},
	}

	e := NewMultipleExtractor(mock)
	result := e.Extract(context.Background(), "three bookings expected", multipleClassification(3))

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want the 1 actually extracted, never padded", len(result.Records))
	}
	if !result.CountMismatch() {
		t.Error("count mismatch must be surfaced")
	}
	if result.ExpectedCount != 3 {
		t.Errorf("ExpectedCount = %d, want 3", result.ExpectedCount)
	}
}

func TestMultipleExtractorSectionFallback(t *testing.T) {
	content := `Booking 1:
Passenger Name: First Guest
Contact Number: 9811111111
Travel Date: 01/09/2025

Booking 2:
Passenger Name: Second Guest
Contact Number: 9822222222
Travel Date: 02/09/2025`

	e := NewMultipleExtractor(nil)
	result := e.Extract(context.Background(), content, multipleClassification(2))

	if result.Path != model.PathFallback {
		t.Fatalf("Path = %s, want fallback", result.Path)
	}
	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Records))
	}
	if result.Records[0].PassengerName != "First Guest" {
		t.Errorf("first PassengerName = %q", result.Records[0].PassengerName)
	}
	if result.Records[1].PassengerName != "Second Guest" {
		t.Errorf("second PassengerName = %q", result.Records[1].PassengerName)
	}
	if result.Records[1].StartDate != "2025-09-02" {
		t.Errorf("second StartDate = %q", result.Records[1].StartDate)
	}
	if result.Records[1].ExtractionMethod != "multiple_booking_rules_2" {
		t.Errorf("ExtractionMethod = %q", result.Records[1].ExtractionMethod)
	}
}

func TestMultipleExtractorDateHintFallback(t *testing.T) {
	cls := multipleClassification(2)
	cls.DateHints = []string{"01/09/2025", "03/09/2025"}

	e := NewMultipleExtractor(nil)
	result := e.Extract(context.Background(), "Need car on two separate days for Mr Rao, 9833333333", cls)

	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want one per hinted date", len(result.Records))
	}
	if result.Records[0].StartDate != "2025-09-01" || result.Records[1].StartDate != "2025-09-03" {
		t.Errorf("dates = %q, %q", result.Records[0].StartDate, result.Records[1].StartDate)
	}
}

func TestMultipleExtractorDropHintFallback(t *testing.T) {
	cls := multipleClassification(2)
	cls.DropHints = []string{"Mumbai Airport", "Bandra Kurla Complex"}

	e := NewMultipleExtractor(nil)
	result := e.Extract(context.Background(), "Two drops needed for the Infosys team, contact 9866666666", cls)

	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want one per hinted drop", len(result.Records))
	}
	if result.Records[0].DropAddress != "Mumbai Airport" {
		t.Errorf("first DropAddress = %q", result.Records[0].DropAddress)
	}
	if result.Records[1].DropAddress != "Bandra Kurla Complex" {
		t.Errorf("second DropAddress = %q", result.Records[1].DropAddress)
	}
}

func TestRouterFallbackStats(t *testing.T) {
	router := NewRouter(nil)

	router.ExtractAndRoute(context.Background(), "simple drop for Mr Singh 9844444444", singleClassification())

	stats := router.Stats()
	if stats.TotalRequests != 1 || stats.SingleRequests != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.FallbackResults != 1 {
		t.Errorf("FallbackResults = %d, want 1", stats.FallbackResults)
	}
}

func TestEmptyModelBookingRejected(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []string{`{"booking": {}, "confidence_score": 0.9}`},
	}

	e := NewSingleExtractor(mock)
	result := e.Extract(context.Background(), "Drop for Ms Gupta from mumbai airport, 9855555555", singleClassification())

	// Empty model output falls through to rules, which still find the name.
	if result.Path != model.PathFallback {
		t.Fatalf("Path = %s, want fallback after empty model booking", result.Path)
	}
	if !strings.Contains(result.Records[0].PassengerName, "Gupta") {
		t.Errorf("PassengerName = %q", result.Records[0].PassengerName)
	}
}
