package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Location
	}{
		{
			name: "city and country",
			in:   "Paris, France",
			want: Location{City: "Paris", Region: "Île-de-France", Country: "FR", Timezone: "Europe/Paris"},
		},
		{
			name: "us state abbreviation",
			in:   "Austin, TX",
			want: Location{City: "Austin", Region: "Texas", Country: "US", Timezone: "America/Chicago"},
		},
		{
			name: "ambiguous CA resolved by city",
			in:   "San Francisco, CA",
			want: Location{City: "San Francisco", Region: "California", Country: "US", Timezone: "America/Los_Angeles"},
		},
		{
			name: "CA as country",
			in:   "Toronto, Canada",
			want: Location{City: "Toronto", Region: "Ontario", Country: "CA", Timezone: "America/Toronto"},
		},
		{
			name: "three parts keeps given region",
			in:   "Lyon, Rhône, France",
			want: Location{City: "Lyon", Region: "Rhône", Country: "FR", Timezone: "Europe/Paris"},
		},
		{
			name: "unknown city with country",
			in:   "Annecy, France",
			want: Location{City: "Annecy", Country: "FR", Timezone: "Europe/Paris"},
		},
		{
			name: "country only",
			in:   "Germany",
			want: Location{Country: "DE", Timezone: "Europe/Berlin"},
		},
		{
			name: "accented alias",
			in:   "München",
			want: Location{City: "Munich", Region: "Bavaria", Country: "DE", Timezone: "Europe/Berlin"},
		},
		{
			name: "city-state",
			in:   "Singapore",
			want: Location{City: "Singapore", Region: "Singapore", Country: "SG", Timezone: "Asia/Singapore"},
		},
		{
			name: "unparseable falls back to default",
			in:   "Nowhereville",
			want: Location{City: "Paris", Region: "Île-de-France", Country: "FR", Timezone: "Europe/Paris"},
		},
		{
			name: "empty falls back to default",
			in:   "  ",
			want: Location{City: "Paris", Region: "Île-de-France", Country: "FR", Timezone: "Europe/Paris"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestParser_ConfiguredDefault(t *testing.T) {
	p := NewParser("London, UK")
	assert.Equal(t, "GB", p.Parse("Nowhereville").Country)
	assert.Equal(t, "London", p.Default().City)

	bad := NewParser("Nowhereville")
	assert.Equal(t, "Paris", bad.Default().City)
}

func TestPackageDefaultParser(t *testing.T) {
	def := defaultParser.Default()
	assert.False(t, def.IsZero())
	assert.Equal(t, NewParser(DefaultText).Default(), def)
	assert.Equal(t, "Paris", def.City)
	assert.Equal(t, "FR", def.Country)

	assert.Equal(t, def, Parse("Nowhereville"))
	assert.Equal(t, def, Parse(""))
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "Paris, Île-de-France, FR", Parse("Paris, France").String())
	assert.Equal(t, "DE", Location{Country: "DE"}.String())
	assert.True(t, Location{}.IsZero())
}

func TestRegionCode(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Paris", "fr:5227", true},
		{"Paris, France", "fr:5227", true},
		{"Greater Paris Area", "fr:5227", true},
		{"new york city", "us:70", true},
		{"Remote, London", "gb:4573", true},
		{"Genève, Switzerland", "ch:4930", true},
		{"Nowhereville", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := RegionCode(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
