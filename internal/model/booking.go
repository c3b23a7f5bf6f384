// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Column names for a dispatch-ready booking row, in output order.
var BookingColumns = []string{
	"Customer",
	"Booked By Name",
	"Booked By Phone Number",
	"Booked By Email",
	"Passenger Name",
	"Passenger Phone Number",
	"Passenger Email",
	"From (Service Location)",
	"To",
	"Vehicle Group",
	"Duty Type",
	"Start Date",
	"End Date",
	"Rep. Time",
	"Reporting Address",
	"Drop Address",
	"Flight/Train Number",
	"Dispatch center",
	"Remarks",
	"Labels",
}

// dutyTypePattern is the only shape a finished duty type may take.
var dutyTypePattern = regexp.MustCompile(`^(G2G|P2P)-(04HR 40KMS|08HR 80KMS|Outstation \d+KMS)$`)

// BookingRecord is a single normalized booking ready for dispatch.
type BookingRecord struct {
	Customer             string `json:"customer"`
	BookedByName         string `json:"booked_by_name"`
	BookedByPhone        string `json:"booked_by_phone"`
	BookedByEmail        string `json:"booked_by_email"`
	PassengerName        string `json:"passenger_name"`
	PassengerPhone       string `json:"passenger_phone"`
	PassengerEmail       string `json:"passenger_email"`
	FromLocation         string `json:"from_location"`
	ToLocation           string `json:"to_location"`
	VehicleGroup         string `json:"vehicle_group"`
	DutyType             string `json:"duty_type"`
	StartDate            string `json:"start_date"`
	EndDate              string `json:"end_date"`
	ReportingTime        string `json:"reporting_time"`
	ReportingAddress     string `json:"reporting_address"`
	DropAddress          string `json:"drop_address"`
	FlightTrainNumber    string `json:"flight_train_number"`
	DispatchCenter       string `json:"dispatch_center"`
	Remarks              string `json:"remarks"`
	Labels               string `json:"labels"`

	// Extraction metadata. Not part of the dispatch columns; Row() and the
	// sheet export never include these.
	Confidence       float64 `json:"confidence_score"`
	ExtractionMethod string  `json:"extraction_method"`
}

// ValidDutyType reports whether s matches the dispatch duty type format.
func ValidDutyType(s string) bool {
	return dutyTypePattern.MatchString(s)
}

// Row returns the record's values in BookingColumns order.
func (b *BookingRecord) Row() []string {
	return []string{
		b.Customer,
		b.BookedByName,
		b.BookedByPhone,
		b.BookedByEmail,
		b.PassengerName,
		b.PassengerPhone,
		b.PassengerEmail,
		b.FromLocation,
		b.ToLocation,
		b.VehicleGroup,
		b.DutyType,
		b.StartDate,
		b.EndDate,
		b.ReportingTime,
		b.ReportingAddress,
		b.DropAddress,
		b.FlightTrainNumber,
		b.DispatchCenter,
		b.Remarks,
		b.Labels,
	}
}

// Summary returns a short human-readable line for logs and CLI output.
func (b *BookingRecord) Summary() string {
	route := b.FromLocation
	if b.ToLocation != "" && !strings.EqualFold(b.ToLocation, b.FromLocation) {
		route = fmt.Sprintf("%s → %s", b.FromLocation, b.ToLocation)
	}
	return fmt.Sprintf("%s | %s | %s %s | %s", b.PassengerName, route, b.StartDate, b.ReportingTime, b.DutyType)
}
