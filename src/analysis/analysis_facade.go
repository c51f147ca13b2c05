package analysis

import (
	"fmt"

	"covid-dashboard/src/helpers"
	"covid-dashboard/src/logger"
	"covid-dashboard/src/models"
)

// AnalysisFacade groups the aggregation steps the dashboard runs after each load.
type AnalysisFacade struct {
	Resampler *MonthlyResampler
	Peaks     *PeakAnalyzer
	Logger    *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(log *logger.Logger) *AnalysisFacade {
	return &AnalysisFacade{
		Resampler: NewMonthlyResampler(),
		Peaks:     &PeakAnalyzer{},
		Logger:    log.Named("analysis"),
	}
}

// -----------------------------------------------------------------------------

// AnalyzeCurve runs the peak analysis and builds the text items of the curve panel.
func (a *AnalysisFacade) AnalyzeCurve(series models.MMonthlySeries) (models.MPeakAnalysis, []models.MAnalysisItem) {
	result := a.Peaks.Analyze(series)
	if result.PeakIndex < 0 {
		a.Logger.Warning("Empty monthly series for %s", series.CountryCode)
	} else {
		a.Logger.Debug("Peak for %s at %s (%d cases)", series.CountryCode, result.PeakLabel, result.PeakCases)
	}
	return result, CurveSummary(result)
}

// -----------------------------------------------------------------------------

// CurveSummary renders the six items of the curve analysis panel.
func CurveSummary(result models.MPeakAnalysis) []models.MAnalysisItem {
	peak := "n/d"
	if result.PeakIndex >= 0 {
		peak = fmt.Sprintf("%s (%s casos)", result.PeakLabel, helpers.FormatNumber(result.PeakCases))
	}

	lethality := "n/d"
	if result.CaseFatalityDefined {
		lethality = helpers.FormatPercent(result.CaseFatalityRatio)
	}

	return []models.MAnalysisItem{
		{Title: "Fase de Ascensão", Value: fmt.Sprintf("%d meses", result.GrowthMonths)},
		{Title: "Pico da Pandemia", Value: peak},
		{Title: "Fase de Declínio", Value: fmt.Sprintf("%d meses", result.DeclineMonths)},
		{Title: "Total de Casos", Value: helpers.FormatNumber(result.TotalCases)},
		{Title: "Total de Mortes", Value: helpers.FormatNumber(result.TotalDeaths)},
		{Title: "Taxa de Letalidade", Value: lethality},
	}
}

// -----------------------------------------------------------------------------

// GlobalStats sums the catalog. A country counts as affected when it has any case.
func (a *AnalysisFacade) GlobalStats(records []models.MCountryRecord) models.MGlobalStats {
	var stats models.MGlobalStats
	for _, r := range records {
		stats.TotalCases += r.Cases
		stats.TotalDeaths += r.Deaths
		if r.Cases > 0 {
			stats.AffectedCountries++
		}
	}
	stats.TotalCasesDisplay = helpers.FormatNumber(stats.TotalCases)
	stats.TotalDeathsDisplay = helpers.FormatNumber(stats.TotalDeaths)
	stats.AffectedDisplay = helpers.FormatNumber(int64(stats.AffectedCountries))
	return stats
}

// -----------------------------------------------------------------------------

// RegionStats groups records by continent in order of first appearance.
// Per-region figures are cases / (count*1000), the scale the region chart plots.
func (a *AnalysisFacade) RegionStats(records []models.MCountryRecord) []models.MRegionStats {
	type acc struct {
		cases, deaths int64
		count         int
	}

	order := make([]string, 0)
	totals := make(map[string]*acc)
	for _, r := range records {
		t, ok := totals[r.Continent]
		if !ok {
			t = &acc{}
			totals[r.Continent] = t
			order = append(order, r.Continent)
		}
		t.cases += r.Cases
		t.deaths += r.Deaths
		t.count++
	}

	stats := make([]models.MRegionStats, 0, len(order))
	for _, region := range order {
		t := totals[region]
		scale := float64(t.count) * 1000
		stats = append(stats, models.MRegionStats{
			Region:           region,
			CasesPerMillion:  float64(t.cases) / scale,
			DeathsPerMillion: float64(t.deaths) / scale,
			Countries:        t.count,
		})
	}
	return stats
}
