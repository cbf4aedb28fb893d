// Package location turns free-form location text into structured context
// for provider web-search tools and LinkedIn region filters.
package location

import (
	"strings"

	"github.com/sells-group/outreach-cli/internal/textutil"
)

// DefaultText is used when no location is configured.
const DefaultText = "Paris, France"

// Location is a structured location. Country is an ISO-3166 alpha-2 code.
type Location struct {
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
	Country  string `json:"country,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// IsZero reports whether nothing was recognised.
func (l Location) IsZero() bool {
	return l.City == "" && l.Region == "" && l.Country == ""
}

// String renders the location as "City, Region, CC".
func (l Location) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.Region, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Parser resolves free text with a configured default.
type Parser struct {
	fallback Location
}

// NewParser returns a parser whose default is defaultText. An empty or
// unrecognised default falls back to DefaultText.
func NewParser(defaultText string) *Parser {
	fb, ok := resolve(defaultText)
	if !ok {
		fb, _ = resolve(DefaultText)
	}
	return &Parser{fallback: fb}
}

// Default returns the parser's fallback location.
func (p *Parser) Default() Location { return p.fallback }

// Parse splits "City, Region, Country" text. Unparseable input yields the
// parser default.
func (p *Parser) Parse(text string) Location {
	if loc, ok := resolve(text); ok {
		return loc
	}
	return p.fallback
}

var defaultParser = NewParser(DefaultText)

// Parse resolves text with the package default (Paris, France).
func Parse(text string) Location {
	return defaultParser.Parse(text)
}

func splitParts(text string) []string {
	raw := strings.Split(text, ",")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func resolve(text string) (Location, bool) {
	parts := splitParts(text)
	if len(parts) == 0 {
		return Location{}, false
	}

	var loc Location
	last := parts[len(parts)-1]

	// Trailing country or US state. Two-letter codes such as CA or DE are
	// ambiguous; a known leading city decides.
	if len(parts) > 1 || !isCityName(last) {
		c, isCountry := lookupCountry(last)
		st, isState := "", false
		if len(parts) > 1 {
			st, isState = lookupState(last)
		}
		known, hasCity := lookupCity(parts[0])
		switch {
		case isState && (!isCountry || (hasCity && known.country == "US")):
			loc.Country = "US"
			loc.Region = st
			loc.Timezone = "America/New_York"
			parts = parts[:len(parts)-1]
		case isCountry:
			loc.Country = c.code
			loc.Timezone = c.timezone
			parts = parts[:len(parts)-1]
		}
	}

	if len(parts) > 0 {
		if c, ok := lookupCity(parts[0]); ok && (loc.Country == "" || loc.Country == c.country) {
			loc.City = c.name
			loc.Country = c.country
			loc.Timezone = c.timezone
			if loc.Region == "" {
				loc.Region = c.region
			}
		} else if loc.Country != "" {
			loc.City = parts[0]
		}
		if len(parts) > 1 && loc.City != "" {
			loc.Region = parts[1]
		}
	}

	if loc.IsZero() {
		return Location{}, false
	}
	if loc.Timezone == "" && loc.Country != "" {
		if c, ok := countriesByCode[loc.Country]; ok {
			loc.Timezone = c.timezone
		}
	}
	return loc, true
}

func isCityName(s string) bool {
	_, ok := lookupCity(s)
	return ok
}

func lookupCountry(s string) (country, bool) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) == 2 && strings.ToUpper(trimmed) == trimmed {
		if c, ok := countriesByCode[trimmed]; ok {
			return c, true
		}
	}
	c, ok := countriesByName[textutil.Fold(trimmed)]
	return c, ok
}

func lookupState(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if name, ok := usStates[strings.ToUpper(trimmed)]; ok && len(trimmed) == 2 {
		return name, true
	}
	folded := textutil.Fold(trimmed)
	for _, name := range usStates {
		if textutil.Fold(name) == folded {
			return name, true
		}
	}
	return "", false
}

// cityKey strips the decorations LinkedIn and job boards add around a city
// name ("Greater Paris Area", "London Metropolitan Area").
func cityKey(s string) string {
	k := textutil.Fold(s)
	k = strings.TrimPrefix(k, "greater ")
	for _, suffix := range []string{" metropolitan area", " metro area", " area", " region"} {
		k = strings.TrimSuffix(k, suffix)
	}
	return strings.TrimSpace(k)
}

func lookupCity(s string) (city, bool) {
	c, ok := citiesByKey[cityKey(s)]
	return c, ok
}
