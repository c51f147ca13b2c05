package models

// MCountryInfo mirrors the "countryInfo" object of the snapshot API.
type MCountryInfo struct {
	ID   int     `json:"_id"`
	ISO2 string  `json:"iso2"`
	ISO3 string  `json:"iso3"`
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
	Flag string  `json:"flag"`
}

// MCountrySnapshot holds the current cumulative statistics of one allow-listed country.
type MCountrySnapshot struct {
	Country             string       `json:"country"`
	CountryInfo         MCountryInfo `json:"countryInfo"`
	Cases               int64        `json:"cases"`
	Deaths              int64        `json:"deaths"`
	Recovered           int64        `json:"recovered"`
	Active              int64        `json:"active"`
	CasesPerOneMillion  float64      `json:"casesPerOneMillion"`
	DeathsPerOneMillion float64      `json:"deathsPerOneMillion"`
	Tests               int64        `json:"tests"`
	TestsPerOneMillion  float64      `json:"testsPerOneMillion"`
	Population          int64        `json:"population"`
	Continent           string       `json:"continent"`
	TodayCases          int64        `json:"todayCases"`
	TodayDeaths         int64        `json:"todayDeaths"`
	Critical            int64        `json:"critical"`
}

// MHealthIndicator is one row of the static health-indicator table.
type MHealthIndicator struct {
	HealthSpending float64 `json:"healthSpending"` // USD per capita
	HospitalBeds   float64 `json:"hospitalBeds"`   // per 1000 inhabitants
}

// MCountryRecord is a snapshot merged with the health table and its derived indicators.
// Records are built once per load and never mutated afterwards.
type MCountryRecord struct {
	MCountrySnapshot
	MHealthIndicator
	MortalityRate    float64 `json:"mortalityRate"`
	GDPDrop          float64 `json:"gdpDrop"`
	AffectedSector   string  `json:"affectedSector"`
	PerformanceScore float64 `json:"performanceScore"`
}

// MGlobalStats feeds the numeric summary fields of the dashboard.
type MGlobalStats struct {
	TotalCases         int64  `json:"total_cases"`
	TotalDeaths        int64  `json:"total_deaths"`
	AffectedCountries  int    `json:"affected_countries"`
	TotalCasesDisplay  string `json:"total_cases_display"`
	TotalDeathsDisplay string `json:"total_deaths_display"`
	AffectedDisplay    string `json:"affected_display"`
}

// MRegionStats aggregates the records of one continent.
type MRegionStats struct {
	Region           string  `json:"region"`
	CasesPerMillion  float64 `json:"cases_per_million"`
	DeathsPerMillion float64 `json:"deaths_per_million"`
	Countries        int     `json:"countries"`
}
