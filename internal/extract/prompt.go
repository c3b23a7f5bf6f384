package extract

import (
	"fmt"

	"github.com/dispatchd/bookingflow/internal/model"
)

const recordSchema = `{
    "customer": "string",
    "booked_by_name": "string",
    "booked_by_phone": "string",
    "booked_by_email": "string",
    "passenger_name": "string",
    "passenger_phone": "string",
    "passenger_email": "string",
    "from_location": "string",
    "to_location": "string",
    "vehicle_group": "string",
    "duty_type": "",
    "start_date": "YYYY-MM-DD",
    "end_date": "YYYY-MM-DD",
    "reporting_time": "HH:MM",
    "reporting_address": "string",
    "drop_address": "string",
    "flight_train_number": "string",
    "dispatch_center": "string",
    "remarks": "string",
    "labels": "string"
}`

const extractionRules = `EXTRACTION RULES:
1. Normalize phone numbers to 10 digits.
2. Format dates as YYYY-MM-DD and times as HH:MM (24-hour).
3. from_location / to_location hold city names only; full addresses go in
   reporting_address / drop_address.
4. Leave duty_type empty; it is filled downstream.
5. If information is missing, leave the field empty. Never guess.`

func buildSinglePrompt(content string, cls model.ClassificationResult) string {
	return fmt.Sprintf(`You are an expert vehicle rental booking data extraction agent. Extract booking information for a SINGLE booking from the content.

CLASSIFICATION CONTEXT:
- Booking Type: %s
- Duty Type Hint: %s
- Confidence: %.0f%%

CONTENT TO EXTRACT FROM:
%s

%s

Return ONLY this JSON format:

{
    "booking": %s,
    "confidence_score": 0.0
}

EXTRACT NOW:`, cls.Cardinality, orUnknown(cls.DutyTypeHint), cls.Confidence*100, content, extractionRules, recordSchema)
}

func buildMultiplePrompt(content string, cls model.ClassificationResult) string {
	return fmt.Sprintf(`You are an expert vehicle rental booking data extraction agent. Extract booking information for MULTIPLE bookings from the content.

CLASSIFICATION CONTEXT:
- Booking Type: %s
- Expected Booking Count: %d
- Duty Type Hint: %s
- Confidence: %.0f%%

CONTENT TO EXTRACT FROM:
%s

MULTIPLE BOOKING PATTERNS TO DETECT:
1. Table format: horizontal columns (Cab 1, Cab 2) or vertical key-value pairs.
2. Sequential sections: "Booking 1:", "Booking 2:".
3. Alternate days: same passenger, different non-consecutive dates.
4. Vehicle changes: same passenger, different vehicles across days.
5. Multiple drops: same day, several drop locations.

%s
6. Extract exactly %d bookings based on the classification.

Return ONLY this JSON format:

{
    "bookings": [%s],
    "confidence_score": 0.0
}

EXTRACT ALL %d BOOKINGS NOW:`,
		cls.Cardinality, cls.BookingCount, orUnknown(cls.DutyTypeHint), cls.Confidence*100,
		content, extractionRules, cls.BookingCount, recordSchema, cls.BookingCount)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
