package analysis

import (
	"covid-dashboard/src/analysis/core"
	"covid-dashboard/src/models"
)

// PeakAnalyzer finds the peak month of a series and describes the phases around it.
type PeakAnalyzer struct{}

// -----------------------------------------------------------------------------

// Analyze is a pure function of the series. The growth phase is every month strictly
// before the peak; the decline phase starts at the peak month itself.
func (p *PeakAnalyzer) Analyze(series models.MMonthlySeries) models.MPeakAnalysis {
	cases := series.Cases()
	deaths := series.Deaths()

	totalCases := core.Sum(cases)
	totalDeaths := core.Sum(deaths)
	cfr, defined := core.Percent(totalDeaths, totalCases)

	result := models.MPeakAnalysis{
		PeakIndex:           core.ArgMaxFirst(cases),
		TotalCases:          totalCases,
		TotalDeaths:         totalDeaths,
		CaseFatalityRatio:   cfr,
		CaseFatalityDefined: defined,
	}
	if result.PeakIndex < 0 {
		return result
	}

	growth := cases[:result.PeakIndex]
	decline := cases[result.PeakIndex:]

	result.PeakLabel = series.Buckets[result.PeakIndex].Label
	result.PeakCases = cases[result.PeakIndex]
	result.GrowthMonths = len(growth)
	result.DeclineMonths = len(decline)
	result.AvgGrowthCases = core.Mean(growth)
	result.AvgDeclineCases = core.Mean(decline)
	return result
}
