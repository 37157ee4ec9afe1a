package vendors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCountry(t *testing.T) {
	tests := []struct {
		phone  string
		want   string
		wantOK bool
	}{
		{phone: "", want: "", wantOK: false},
		{phone: "   ", want: "", wantOK: false},
		{phone: "+1 408-555-1234", want: "USA", wantOK: true},
		{phone: "4085551234", want: "USA", wantOK: true},
		{phone: "(408) 555-1234", want: "USA", wantOK: true},
		{phone: "+91 98765 43210", want: "India", wantOK: true},
		{phone: "+44 20 7946 0958", want: "United Kingdom", wantOK: true},
		{phone: "+61 2 9999 9999", want: "USA", wantOK: true},
		{phone: "555-1234", want: "USA", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			got, ok := DetectCountry(tt.phone)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		name                          string
		city, state, country          string
		wantCity, wantState, wantCtry string
	}{
		{name: "empty defaults country", wantCtry: "USA"},
		{name: "trims", city: "  Austin ", state: " TX ", country: " USA ", wantCity: "Austin", wantState: "TX", wantCtry: "USA"},
		{name: "known bay area city", city: "San Jose", wantCity: "San Jose", wantState: "CA", wantCtry: "USA"},
		{name: "known city case insensitive", city: "FREMONT", state: "NV", wantCity: "FREMONT", wantState: "CA", wantCtry: "USA"},
		{name: "canadian city", city: "toronto", country: "USA", wantCity: "toronto", wantState: "ON", wantCtry: "Canada"},
		{name: "vancouver", city: "Vancouver", wantCity: "Vancouver", wantState: "BC", wantCtry: "Canada"},
		{name: "unknown city keeps input", city: "Pune", state: "MH", country: "India", wantCity: "Pune", wantState: "MH", wantCtry: "India"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			city, state, country := NormalizeLocation(tt.city, tt.state, tt.country)
			assert.Equal(t, tt.wantCity, city)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantCtry, country)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `acme`, escapeLike("acme"))
	assert.Equal(t, `50\%\_off`, escapeLike("50%_off"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}
