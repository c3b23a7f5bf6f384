// Package mapping resolves raw booking vocabulary (vehicle nicknames, city
// aliases, organization mentions) against canonical dispatch values. Tables
// load once from CSV files and fall back to built-in seed data, so a
// Provider is always usable.
package mapping

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Billing categories for duty type prefixes.
const (
	CategoryG2G = "G2G"
	CategoryP2P = "P2P"
)

// DefaultDispatchCenter is used when no city-specific center matches.
const DefaultDispatchCenter = "Central Dispatch"

// DefaultOutstationKMS is the distance assumed for unknown city pairs.
const DefaultOutstationKMS = 250

// Organization is a known corporate account.
type Organization struct {
	Name            string
	BillingCategory string
	Approved        bool
}

type cityPair struct {
	from, to string
}

// Sources points at optional CSV mapping files. Empty paths mean seed data.
type Sources struct {
	VehiclesPath      string
	CitiesPath        string
	OrganizationsPath string
}

// Provider holds the loaded tables. Read-only after construction; safe for
// concurrent use.
type Provider struct {
	vehicles  map[string]string
	cities    map[string]string
	orgs      map[string]Organization
	dispatch  map[string]string
	distances map[cityPair]int
}

// NewProvider builds a Provider from the given sources. A missing or
// malformed CSV degrades to the corresponding seed table with a warning.
func NewProvider(src Sources) *Provider {
	p := &Provider{
		vehicles:  seedVehicles(),
		cities:    seedCities(),
		orgs:      seedOrganizations(),
		dispatch:  seedDispatchCenters(),
		distances: seedDistances(),
	}

	if src.VehiclesPath != "" {
		if table, err := loadPairs(src.VehiclesPath); err != nil {
			slog.Warn("Vehicle mapping CSV unusable, using seed table", "path", src.VehiclesPath, "error", err)
		} else {
			p.vehicles = table
		}
	}

	if src.CitiesPath != "" {
		if table, err := loadPairs(src.CitiesPath); err != nil {
			slog.Warn("City mapping CSV unusable, using seed table", "path", src.CitiesPath, "error", err)
		} else {
			p.cities = table
		}
	}

	if src.OrganizationsPath != "" {
		if table, err := loadOrganizations(src.OrganizationsPath); err != nil {
			slog.Warn("Organization mapping CSV unusable, using seed table", "path", src.OrganizationsPath, "error", err)
		} else {
			p.orgs = table
		}
	}

	return p
}

// loadPairs reads a two-column alias,canonical CSV into a lookup table.
func loadPairs(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mapping file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading mapping file: %w", err)
	}

	table := make(map[string]string)
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		alias := strings.ToLower(strings.TrimSpace(row[0]))
		canonical := strings.TrimSpace(row[1])
		if i == 0 && (alias == "alias" || alias == "input") {
			// Header row.
			continue
		}
		if alias == "" || canonical == "" {
			continue
		}
		table[alias] = canonical
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("no usable rows in %s", path)
	}
	return table, nil
}

// loadOrganizations reads a pattern,name,category,approved CSV.
func loadOrganizations(path string) (map[string]Organization, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening organization file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading organization file: %w", err)
	}

	table := make(map[string]Organization)
	for i, row := range rows {
		if len(row) < 3 {
			continue
		}
		pattern := strings.ToLower(strings.TrimSpace(row[0]))
		if i == 0 && pattern == "pattern" {
			continue
		}
		if pattern == "" {
			continue
		}

		category := strings.ToUpper(strings.TrimSpace(row[2]))
		if category != CategoryG2G && category != CategoryP2P {
			category = CategoryP2P
		}

		approved := true
		if len(row) > 3 {
			approved = strings.EqualFold(strings.TrimSpace(row[3]), "true") ||
				strings.TrimSpace(row[3]) == "1"
		}

		table[pattern] = Organization{
			Name:            strings.TrimSpace(row[1]),
			BillingCategory: category,
			Approved:        approved,
		}
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("no usable rows in %s", path)
	}
	return table, nil
}

// Vehicle resolves a raw vehicle mention to its canonical fleet name.
// Unknown vehicles come back title-cased rather than empty.
func (p *Provider) Vehicle(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return ""
	}

	if canonical, ok := p.vehicles[key]; ok {
		return canonical
	}

	for alias, canonical := range p.vehicles {
		if strings.Contains(key, alias) || strings.Contains(alias, key) {
			return canonical
		}
	}

	return titleCase(key)
}

// City resolves a raw city mention to its canonical spelling.
func (p *Provider) City(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return ""
	}

	if canonical, ok := p.cities[key]; ok {
		return canonical
	}

	for alias, canonical := range p.cities {
		if strings.Contains(key, alias) || strings.Contains(alias, key) {
			return canonical
		}
	}

	return titleCase(key)
}

// ExtractCity pulls a known city out of a longer location string, like
// "bangalore airport terminal 2". Empty when nothing matches.
func (p *Provider) ExtractCity(location string) string {
	lower := strings.ToLower(location)
	for alias, canonical := range p.cities {
		if strings.Contains(lower, alias) {
			return canonical
		}
	}
	return ""
}

// Organization scans free text for a known corporate account.
func (p *Provider) Organization(text string) (Organization, bool) {
	lower := strings.ToLower(text)
	for pattern, org := range p.orgs {
		if strings.Contains(lower, pattern) {
			return org, true
		}
	}
	return Organization{}, false
}

// DispatchCenter assigns the dispatch center for a pickup location.
func (p *Provider) DispatchCenter(location string) string {
	lower := strings.ToLower(location)
	for city, center := range p.dispatch {
		if strings.Contains(lower, city) {
			return center
		}
	}
	return DefaultDispatchCenter
}

// OutstationDistance estimates the trip distance in km between two cities.
// Direction does not matter; unknown pairs get DefaultOutstationKMS.
func (p *Provider) OutstationDistance(from, to string) int {
	f := strings.ToLower(strings.TrimSpace(p.ExtractCityOrSelf(from)))
	t := strings.ToLower(strings.TrimSpace(p.ExtractCityOrSelf(to)))

	if d, ok := p.distances[cityPair{f, t}]; ok {
		return d
	}
	if d, ok := p.distances[cityPair{t, f}]; ok {
		return d
	}
	return DefaultOutstationKMS
}

// ExtractCityOrSelf is ExtractCity but falls back to the trimmed input so
// distance lookups can still hit pairs seeded by canonical name.
func (p *Provider) ExtractCityOrSelf(location string) string {
	if city := p.ExtractCity(location); city != "" {
		return city
	}
	return strings.TrimSpace(location)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
