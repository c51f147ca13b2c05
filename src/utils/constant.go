package utils

import (
	"time"

	"covid-dashboard/src/models"
)

// -----------------------------------------------------------------------------

const (
	GlobalCode      = "global"
	DefaultSector   = "Serviços"
	DefaultHealth   = "USA"
	HistoryLookback = 1200
)

// Analysis window of the monthly timeline: March 2020 through May 2023 inclusive.
var (
	WindowStart  = time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	WindowEnd    = time.Date(2023, time.May, 31, 0, 0, 0, 0, time.UTC)
	WindowMonths = MonthsBetween(WindowStart, WindowEnd)
)

// -----------------------------------------------------------------------------

// MonthsBetween counts the calendar months touched by [start, end], both ends included.
func MonthsBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return (end.Year()-start.Year())*12 + int(end.Month()-start.Month()) + 1
}

// -----------------------------------------------------------------------------

// AllowedCountries is the fixed allow-list, in display order.
var AllowedCountries = []string{"Brazil", "USA", "United Kingdom", "Germany", "France", "India", "Russia"}

// AllowedCountryCodes lists the ISO-2 codes of the allow-list, same order.
var AllowedCountryCodes = []string{"BR", "US", "GB", "DE", "FR", "IN", "RU"}

// -----------------------------------------------------------------------------

// HealthIndicators is the static health table keyed by canonical country name.
var HealthIndicators = map[string]models.MHealthIndicator{
	"USA":            {HealthSpending: 11400, HospitalBeds: 2.9},
	"Brazil":         {HealthSpending: 1300, HospitalBeds: 2.1},
	"India":          {HealthSpending: 240, HospitalBeds: 0.5},
	"France":         {HealthSpending: 5200, HospitalBeds: 5.9},
	"Germany":        {HealthSpending: 6300, HospitalBeds: 7.9},
	"United Kingdom": {HealthSpending: 4500, HospitalBeds: 2.5},
	"Russia":         {HealthSpending: 1100, HospitalBeds: 8.0},
}

// Populations and Continents back the fallback snapshot endpoint, keyed by ISO-2 code.
var Populations = map[string]int64{
	"US": 331000000, "BR": 213000000, "IN": 1380000000,
	"FR": 68000000, "DE": 83000000, "GB": 67000000, "RU": 144000000,
}

var Continents = map[string]string{
	"US": "North America", "BR": "South America", "GB": "Europe",
	"FR": "Europe", "DE": "Europe", "RU": "Europe", "IN": "Asia",
}

const (
	DefaultPopulation = 10000000
	UnknownContinent  = "Unknown"
)

// AffectedSectors maps a continent to the economic sector hit hardest.
var AffectedSectors = map[string]string{
	"Europe":        "Turismo",
	"North America": "Serviços",
	"South America": "Manufatura",
	"Asia":          "Tecnologia",
}

// CountryNames are the display names used in chart titles and the curve analysis.
var CountryNames = map[string]string{
	GlobalCode: "Global",
	"BR":       "Brasil", "US": "Estados Unidos", "GB": "Reino Unido",
	"DE": "Alemanha", "FR": "França", "IN": "Índia", "RU": "Rússia",
}

// -----------------------------------------------------------------------------

// IsAllowedCountry reports whether name belongs to the allow-list.
func IsAllowedCountry(name string) bool {
	for _, c := range AllowedCountries {
		if c == name {
			return true
		}
	}
	return false
}

// CountryName returns the display name of a code, or the code itself.
func CountryName(code string) string {
	if name, ok := CountryNames[code]; ok {
		return name
	}
	return code
}

// PopulationFor returns the static population of an ISO-2 code.
func PopulationFor(code string) int64 {
	if p, ok := Populations[code]; ok {
		return p
	}
	return DefaultPopulation
}

// ContinentFor returns the static continent of an ISO-2 code.
func ContinentFor(code string) string {
	if c, ok := Continents[code]; ok {
		return c
	}
	return UnknownContinent
}

// SectorFor returns the affected sector of a continent.
func SectorFor(continent string) string {
	if s, ok := AffectedSectors[continent]; ok {
		return s
	}
	return DefaultSector
}

// HealthFor returns the health indicators of a country, defaulting to the USA row.
func HealthFor(country string) models.MHealthIndicator {
	if h, ok := HealthIndicators[country]; ok {
		return h
	}
	return HealthIndicators[DefaultHealth]
}
