package models

// MPeakAnalysis describes the single peak of a monthly series and the phases around it.
type MPeakAnalysis struct {
	PeakIndex           int     `json:"peak_index"`
	PeakLabel           string  `json:"peak_label"`
	PeakCases           int64   `json:"peak_cases"`
	GrowthMonths        int     `json:"growth_months"`
	DeclineMonths       int     `json:"decline_months"`
	TotalCases          int64   `json:"total_cases"`
	TotalDeaths         int64   `json:"total_deaths"`
	CaseFatalityRatio   float64 `json:"-"` // NaN when TotalCases is 0
	CaseFatalityDefined bool    `json:"case_fatality_defined"`
	AvgGrowthCases      float64 `json:"avg_growth_cases"`
	AvgDeclineCases     float64 `json:"avg_decline_cases"`
}

// MAnalysisItem is one line of the textual curve analysis panel.
type MAnalysisItem struct {
	Title string `json:"title"`
	Value string `json:"value"`
}
