package validate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dispatchd/bookingflow/internal/mapping"
	"github.com/dispatchd/bookingflow/internal/model"
	"github.com/dispatchd/bookingflow/internal/normalize"
)

// Duty vocabularies for the three trip shapes.
var (
	disposalWords   = []string{"disposal", "at disposal", "local use", "city use", "whole day", "full day", "8 hour", "8hr", "8/80", "80km"}
	dropWords       = []string{"drop", "airport transfer", "pickup and drop", "one way", "transfer", "4 hour", "4hr", "4/40", "40km", "point to point"}
	outstationWords = []string{"outstation", "out station", "intercity", "inter-city", "round trip"}
)

// enhanceDutyType fills the Duty Type column as {category}-{package}.
// Already well-formed values are left alone.
func (v *Validator) enhanceDutyType(_ context.Context, record *model.BookingRecord, originalText string) {
	if model.ValidDutyType(record.DutyType) {
		return
	}

	tripShape := v.detectTripShape(record, originalText)
	category := v.detectBillingCategory(record, originalText)

	var pkg string
	switch tripShape {
	case "drop":
		pkg = "04HR 40KMS"
	case "outstation":
		distance := v.provider.OutstationDistance(record.FromLocation, record.ToLocation)
		pkg = fmt.Sprintf("Outstation %dKMS", distance)
	default:
		pkg = "08HR 80KMS"
	}

	record.DutyType = category + "-" + pkg
}

// detectTripShape classifies the trip as drop, disposal, or outstation.
// Different known cities on each end always mean outstation.
func (v *Validator) detectTripShape(record *model.BookingRecord, originalText string) string {
	fromCity := v.provider.ExtractCity(record.FromLocation)
	toCity := v.provider.ExtractCity(record.ToLocation)
	if fromCity != "" && toCity != "" && fromCity != toCity {
		return "outstation"
	}

	haystack := strings.ToLower(originalText + " " + record.Remarks)
	for _, w := range outstationWords {
		if strings.Contains(haystack, w) {
			return "outstation"
		}
	}
	for _, w := range disposalWords {
		if strings.Contains(haystack, w) {
			return "disposal"
		}
	}
	for _, w := range dropWords {
		if strings.Contains(haystack, w) {
			return "drop"
		}
	}

	return "disposal"
}

var personalDomains = []string{"gmail", "yahoo", "hotmail", "outlook.com", "rediffmail"}

// detectBillingCategory picks G2G for known organizations and corporate
// email domains, P2P otherwise.
func (v *Validator) detectBillingCategory(record *model.BookingRecord, originalText string) string {
	if org, ok := v.provider.Organization(originalText + " " + record.Customer); ok {
		return org.BillingCategory
	}

	for _, email := range []string{record.BookedByEmail, record.PassengerEmail} {
		if !strings.Contains(email, "@") {
			continue
		}
		personal := false
		lower := strings.ToLower(email)
		for _, domain := range personalDomains {
			if strings.Contains(lower, domain) {
				personal = true
				break
			}
		}
		if !personal {
			return mapping.CategoryG2G
		}
	}

	return mapping.CategoryP2P
}

// standardizeVehicle canonicalizes the vehicle group, defaulting when the
// request named none.
func (v *Validator) standardizeVehicle(_ context.Context, record *model.BookingRecord, _ string) {
	vehicle := strings.TrimSpace(record.VehicleGroup)
	if vehicle == "" {
		record.VehicleGroup = "Swift Dzire"
		return
	}
	record.VehicleGroup = v.provider.Vehicle(vehicle)
}

// enhanceTimes rounds the reporting time to a quarter-hour slot and leaves
// an audit note plus a pickup buffer note in remarks. Both notes are
// written once, so the pass is idempotent.
func (v *Validator) enhanceTimes(_ context.Context, record *model.BookingRecord, _ string) {
	reported := strings.TrimSpace(record.ReportingTime)
	if reported == "" {
		return
	}

	clock := normalize.Clock(reported)
	rounded := normalize.QuarterHour(clock)
	record.ReportingTime = rounded

	if rounded != reported && !strings.Contains(record.Remarks, "rounded from") {
		note := fmt.Sprintf("Time rounded from %s to %s (15-min intervals)", reported, rounded)
		record.Remarks = appendRemark(record.Remarks, note)
	}

	if t, err := time.Parse("15:04", rounded); err == nil && !strings.Contains(record.Remarks, "15min buffer") {
		buffer := t.Add(15 * time.Minute)
		note := fmt.Sprintf("Pickup: %s (15min buffer)", buffer.Format("15:04"))
		record.Remarks = appendRemark(record.Remarks, note)
	}
}

// standardizeCities replaces From/To with canonical city names when a
// known city can be pulled out of them.
func (v *Validator) standardizeCities(_ context.Context, record *model.BookingRecord, _ string) {
	if from := strings.TrimSpace(record.FromLocation); from != "" {
		if city := v.provider.ExtractCity(from); city != "" {
			record.FromLocation = city
		} else {
			record.FromLocation = v.provider.City(from)
		}
	}

	if to := strings.TrimSpace(record.ToLocation); to != "" {
		if city := v.provider.ExtractCity(to); city != "" {
			record.ToLocation = city
		} else {
			record.ToLocation = v.provider.City(to)
		}
	}
}

// enhanceOrganization fills an empty Customer from organization mentions
// in the request.
func (v *Validator) enhanceOrganization(_ context.Context, record *model.BookingRecord, originalText string) {
	if strings.TrimSpace(record.Customer) != "" {
		return
	}
	if org, ok := v.provider.Organization(originalText); ok {
		record.Customer = org.Name
		return
	}
	record.Customer = "Corporate Client"
}

// assignDispatchCenter picks the dispatch center from the pickup side.
func (v *Validator) assignDispatchCenter(_ context.Context, record *model.BookingRecord, _ string) {
	location := record.FromLocation
	if location == "" {
		location = record.ReportingAddress
	}
	record.DispatchCenter = v.provider.DispatchCenter(location)
}

var (
	ladyTitles = []string{"ms.", "mrs.", "ms ", "mrs "}
	vipToken   = regexp.MustCompile(`(?i)\bvip\b`)
)

// generateLabels applies the only two labels the desk recognizes:
// LadyGuest on an explicit Ms/Mrs title in the passenger name, VIP on a
// "VIP" mention in the request. Nothing else ever becomes a label.
func (v *Validator) generateLabels(_ context.Context, record *model.BookingRecord, originalText string) {
	var labels []string

	name := strings.ToLower(record.PassengerName)
	for _, title := range ladyTitles {
		if strings.Contains(name, title) {
			labels = append(labels, "LadyGuest")
			break
		}
	}
	if vipToken.MatchString(originalText) {
		labels = append(labels, "VIP")
	}

	record.Labels = strings.Join(labels, ", ")
}

// applyDefaults is the final cleanup: end date mirrors start date, phones
// get a last normalization, and required columns receive their defaults.
func (v *Validator) applyDefaults(_ context.Context, record *model.BookingRecord, _ string) {
	if record.StartDate != "" && record.EndDate == "" {
		record.EndDate = record.StartDate
	}
	// ISO dates compare lexically; an end before the start is a parse
	// artifact, not a real itinerary.
	if record.StartDate != "" && record.EndDate != "" && record.EndDate < record.StartDate {
		record.EndDate = record.StartDate
	}

	record.BookedByPhone = normalize.Phone(record.BookedByPhone)
	record.PassengerPhone = normalize.Phone(record.PassengerPhone)

	if strings.TrimSpace(record.BookedByName) == "" {
		record.BookedByName = "Travel Coordinator"
	}
	if strings.TrimSpace(record.PassengerName) == "" {
		record.PassengerName = "Guest"
	}
	if strings.TrimSpace(record.VehicleGroup) == "" {
		record.VehicleGroup = "Swift Dzire"
	}
	if strings.TrimSpace(record.ReportingTime) == "" {
		record.ReportingTime = "09:00"
	}
	if strings.TrimSpace(record.DispatchCenter) == "" {
		record.DispatchCenter = mapping.DefaultDispatchCenter
	}
}

func appendRemark(existing, note string) string {
	existing = strings.TrimSpace(existing)
	if existing == "" {
		return note
	}
	return existing + "; " + note
}
