// Package extract turns classified request text into booking records. A
// Router picks the right extractor for the request's cardinality; each
// extractor has a model path and a deterministic rule fallback, and
// pre-structured upstream content bypasses both.
package extract

import (
	"strings"

	"github.com/dispatchd/bookingflow/internal/model"
	"github.com/dispatchd/bookingflow/internal/normalize"
)

// recordPayload mirrors the JSON booking object the extraction prompts ask
// for. Duty type is always left for the validator.
type recordPayload struct {
	Customer          string `json:"customer"`
	BookedByName      string `json:"booked_by_name"`
	BookedByPhone     string `json:"booked_by_phone"`
	BookedByEmail     string `json:"booked_by_email"`
	PassengerName     string `json:"passenger_name"`
	PassengerPhone    string `json:"passenger_phone"`
	PassengerEmail    string `json:"passenger_email"`
	FromLocation      string `json:"from_location"`
	ToLocation        string `json:"to_location"`
	VehicleGroup      string `json:"vehicle_group"`
	DutyType          string `json:"duty_type"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	ReportingTime     string `json:"reporting_time"`
	ReportingAddress  string `json:"reporting_address"`
	DropAddress       string `json:"drop_address"`
	FlightTrainNumber string `json:"flight_train_number"`
	DispatchCenter    string `json:"dispatch_center"`
	Remarks           string `json:"remarks"`
	Labels            string `json:"labels"`
}

// toRecord normalizes a payload into a BookingRecord. Placeholder strings
// some models emit for missing values are dropped.
func (p recordPayload) toRecord() model.BookingRecord {
	clean := func(s string) string {
		trimmed := strings.TrimSpace(s)
		switch strings.ToLower(trimmed) {
		case "n/a", "na", "none", "null", "unknown", "not mentioned", "string":
			return ""
		}
		return trimmed
	}

	return model.BookingRecord{
		Customer:          clean(p.Customer),
		BookedByName:      clean(p.BookedByName),
		BookedByPhone:     normalize.Phone(clean(p.BookedByPhone)),
		BookedByEmail:     clean(p.BookedByEmail),
		PassengerName:     clean(p.PassengerName),
		PassengerPhone:    normalize.Phone(clean(p.PassengerPhone)),
		PassengerEmail:    clean(p.PassengerEmail),
		FromLocation:      clean(p.FromLocation),
		ToLocation:        clean(p.ToLocation),
		VehicleGroup:      clean(p.VehicleGroup),
		DutyType:          "",
		StartDate:         normalize.Date(clean(p.StartDate)),
		EndDate:           normalize.Date(clean(p.EndDate)),
		ReportingTime:     normalize.Clock(clean(p.ReportingTime)),
		ReportingAddress:  normalize.Address(clean(p.ReportingAddress)),
		DropAddress:       normalize.Address(clean(p.DropAddress)),
		FlightTrainNumber: clean(p.FlightTrainNumber),
		DispatchCenter:    clean(p.DispatchCenter),
		Remarks:           clean(p.Remarks),
		Labels:            clean(p.Labels),
	}
}
