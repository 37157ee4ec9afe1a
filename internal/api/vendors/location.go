package vendors

import "strings"

const defaultCountry = "USA"

type region struct {
	state   string
	country string
}

var knownCities = map[string]region{
	"san jose":      {"CA", "USA"},
	"fremont":       {"CA", "USA"},
	"oakland":       {"CA", "USA"},
	"san francisco": {"CA", "USA"},
	"toronto":       {"ON", "Canada"},
	"vancouver":     {"BC", "Canada"},
}

// NormalizeLocation trims the parts and fills state and country for the
// cities we know. A missing country becomes USA.
func NormalizeLocation(city, state, country string) (string, string, string) {
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	country = strings.TrimSpace(country)
	if country == "" {
		country = defaultCountry
	}

	if r, ok := knownCities[strings.ToLower(city)]; ok {
		state, country = r.state, r.country
	}
	return city, state, country
}

// DetectCountry guesses the country from a phone number. ok is false when
// there is no number to go on.
func DetectCountry(phone string) (country string, ok bool) {
	digits := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))

	if digits == "" {
		return "", false
	}

	switch {
	case strings.HasPrefix(digits, "+1"), len(digits) == 10 && isDigits(digits):
		return "USA", true
	case strings.HasPrefix(digits, "+91"):
		return "India", true
	case strings.HasPrefix(digits, "+44"):
		return "United Kingdom", true
	}
	return defaultCountry, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
