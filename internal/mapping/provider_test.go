package mapping

import (
	"os"
	"path/filepath"
	"testing"
)

func newSeedProvider() *Provider {
	return NewProvider(Sources{})
}

func TestVehicleResolution(t *testing.T) {
	p := newSeedProvider()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"exact alias", "dzire", "Swift Dzire"},
		{"case insensitive", "INNOVA", "Toyota Innova Crysta"},
		{"substring in longer mention", "innova crysta preferred", "Toyota Innova Crysta"},
		{"class word", "suv", "Toyota Innova Crysta"},
		{"unknown title-cased", "tempo traveller", "Tempo Traveller"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Vehicle(tt.input); got != tt.want {
				t.Errorf("Vehicle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCityResolution(t *testing.T) {
	p := newSeedProvider()

	tests := []struct {
		input string
		want  string
	}{
		{"bombay", "Mumbai"},
		{"Bengaluru", "Bangalore"},
		{"madras", "Chennai"},
		{"gurugram", "Gurgaon"},
		{"new delhi", "Delhi"},
		{"hydera", "Hyderabad"},
		{"shimla", "Shimla"},
	}

	for _, tt := range tests {
		if got := p.City(tt.input); got != tt.want {
			t.Errorf("City(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExtractCity(t *testing.T) {
	p := newSeedProvider()

	if got := p.ExtractCity("bangalore airport terminal 2"); got != "Bangalore" {
		t.Errorf("ExtractCity = %q, want Bangalore", got)
	}
	if got := p.ExtractCity("somewhere remote"); got != "" {
		t.Errorf("ExtractCity on unknown location = %q, want empty", got)
	}
}

func TestOrganizationDetection(t *testing.T) {
	p := newSeedProvider()

	org, ok := p.Organization("Cab required for our Accenture team visit")
	if !ok {
		t.Fatal("expected organization match")
	}
	if org.Name != "Accenture India Ltd" || org.BillingCategory != CategoryG2G {
		t.Errorf("unexpected organization: %+v", org)
	}

	if _, ok := p.Organization("personal trip for the family"); ok {
		t.Error("expected no organization match")
	}
}

func TestDispatchCenter(t *testing.T) {
	p := newSeedProvider()

	tests := []struct {
		location string
		want     string
	}{
		{"Mumbai Office", "Mumbai Central Dispatch"},
		{"gurgaon sector 29", "Delhi NCR Dispatch"},
		{"noida", "Delhi NCR Dispatch"},
		{"Kochi", DefaultDispatchCenter},
	}

	for _, tt := range tests {
		if got := p.DispatchCenter(tt.location); got != tt.want {
			t.Errorf("DispatchCenter(%q) = %q, want %q", tt.location, got, tt.want)
		}
	}
}

func TestOutstationDistance(t *testing.T) {
	p := newSeedProvider()

	if got := p.OutstationDistance("Mumbai", "Pune"); got != 150 {
		t.Errorf("Mumbai-Pune = %d, want 150", got)
	}
	if got := p.OutstationDistance("pune office", "mumbai airport"); got != 150 {
		t.Errorf("reverse pair with noise = %d, want 150", got)
	}
	if got := p.OutstationDistance("Delhi", "Jaipur"); got != DefaultOutstationKMS {
		t.Errorf("unknown pair = %d, want %d", got, DefaultOutstationKMS)
	}
}

func TestCSVOverridesSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vehicles.csv")
	content := "alias,canonical\ncamry,Toyota Camry\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	p := NewProvider(Sources{VehiclesPath: path})

	if got := p.Vehicle("camry"); got != "Toyota Camry" {
		t.Errorf("Vehicle(camry) = %q, want Toyota Camry", got)
	}
	// CSV replaces the seed table entirely.
	if got := p.Vehicle("dzire"); got != "Dzire" {
		t.Errorf("Vehicle(dzire) after CSV load = %q, want Dzire", got)
	}
}

func TestMissingCSVFallsBackToSeed(t *testing.T) {
	p := NewProvider(Sources{VehiclesPath: "/nonexistent/vehicles.csv"})

	if got := p.Vehicle("dzire"); got != "Swift Dzire" {
		t.Errorf("Vehicle(dzire) = %q, want seed value Swift Dzire", got)
	}
}
