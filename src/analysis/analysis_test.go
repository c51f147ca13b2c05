package analysis

import (
	"io"
	"testing"
	"time"

	"covid-dashboard/src/analysis/core"
	"covid-dashboard/src/logger"
	"covid-dashboard/src/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func point(t time.Time, v int64) models.MTimeSeriesPoint {
	return models.MTimeSeriesPoint{Date: t, CumulativeValue: v}
}

func quietLogger() *logger.Logger {
	l := logger.NewLogger(nil, "test")
	l.SetOutput(io.Discard)
	return l
}

func seriesOf(cases, deaths []int64) models.MMonthlySeries {
	buckets := NewMonthlyResampler().AnalysisWindow()[:len(cases)]
	for i := range buckets {
		buckets[i].NewCases = cases[i]
		buckets[i].NewDeaths = deaths[i]
	}
	return models.MMonthlySeries{CountryCode: "XX", Buckets: buckets}
}

func TestAnalysisWindowLabels(t *testing.T) {
	window := NewMonthlyResampler().AnalysisWindow()
	if len(window) != 39 {
		t.Fatalf("window has %d buckets, want 39", len(window))
	}
	last := window[len(window)-1]
	if window[0].Label != "03/2020" || last.Label != "05/2023" {
		t.Fatalf("window spans %s..%s", window[0].Label, last.Label)
	}
	if !last.EndDate.Equal(day(2023, 5, 31)) {
		t.Errorf("window ends %v", last.EndDate)
	}
	for i := 1; i < len(window); i++ {
		next := window[i-1].EndDate.AddDate(0, 0, 1)
		if !next.Equal(window[i].StartDate) {
			t.Fatalf("gap between %s and %s", window[i-1].Label, window[i].Label)
		}
	}
	// 02/2021 is index 11
	if window[11].Label != "02/2021" || window[11].EndDate.Day() != 28 {
		t.Errorf("February 2021 = %s ending %v", window[11].Label, window[11].EndDate)
	}
}

func TestAggregateFirstLastWithinMonth(t *testing.T) {
	cases := []models.MTimeSeriesPoint{
		point(day(2020, 4, 15), 400),
		point(day(2020, 3, 1), 0),
		point(day(2020, 3, 31), 300),
	}
	deaths := []models.MTimeSeriesPoint{
		point(day(2020, 3, 1), 0),
		point(day(2020, 3, 31), 10),
	}

	series := NewMonthlyResampler().Aggregate(cases, deaths)

	if len(series.Buckets) != 39 {
		t.Fatalf("got %d buckets", len(series.Buckets))
	}
	if series.Buckets[0].NewCases != 300 || series.Buckets[0].NewDeaths != 10 {
		t.Errorf("March = %d/%d, want 300/10", series.Buckets[0].NewCases, series.Buckets[0].NewDeaths)
	}
	if series.Buckets[1].NewCases != 0 {
		t.Errorf("April with a single observation = %d, want 0", series.Buckets[1].NewCases)
	}
	for _, b := range series.Buckets[2:] {
		if b.NewCases != 0 || b.NewDeaths != 0 {
			t.Fatalf("%s should be empty, got %d/%d", b.Label, b.NewCases, b.NewDeaths)
		}
	}
	// input order is untouched
	if !cases[0].Date.Equal(day(2020, 4, 15)) {
		t.Error("Aggregate reordered its input")
	}
}

func TestAggregateIncludesMay2023(t *testing.T) {
	cases := []models.MTimeSeriesPoint{
		point(day(2023, 5, 1), 100),
		point(day(2023, 5, 31), 900),
		point(day(2023, 6, 1), 5000),
	}
	series := NewMonthlyResampler().Aggregate(cases, nil)

	last := series.Buckets[len(series.Buckets)-1]
	if last.Label != "05/2023" || last.NewCases != 800 {
		t.Errorf("last bucket = %s with %d cases, want 05/2023 with 800", last.Label, last.NewCases)
	}
	if total := core.Sum(series.Cases()); total != 800 {
		t.Errorf("total = %d, points after the window must be ignored", total)
	}
}

func TestAggregateClampsCorrections(t *testing.T) {
	cases := []models.MTimeSeriesPoint{
		point(day(2021, 6, 1), 5000),
		point(day(2021, 6, 30), 4200),
	}
	series := NewMonthlyResampler().Aggregate(cases, nil)
	for _, b := range series.Buckets {
		if b.NewCases < 0 {
			t.Fatalf("%s is negative", b.Label)
		}
	}
	if series.Buckets[15].Label != "06/2021" || series.Buckets[15].NewCases != 0 {
		t.Errorf("06/2021 = %d, want 0", series.Buckets[15].NewCases)
	}
}

func TestAggregateIgnoresPointsOutsideWindow(t *testing.T) {
	cases := []models.MTimeSeriesPoint{
		point(day(2020, 1, 22), 0),
		point(day(2020, 2, 29), 100),
		point(day(2023, 5, 31), 900),
		point(day(2023, 6, 1), 5000),
	}
	series := NewMonthlyResampler().Aggregate(cases, nil)
	var total int64
	for _, b := range series.Buckets {
		total += b.NewCases
	}
	if total != 0 {
		t.Errorf("points outside the window leaked %d cases", total)
	}
}

func TestPeakAnalyzer(t *testing.T) {
	series := seriesOf([]int64{1, 5, 5, 2}, []int64{0, 1, 1, 0})
	got := (&PeakAnalyzer{}).Analyze(series)

	if got.PeakIndex != 1 || got.PeakLabel != "04/2020" || got.PeakCases != 5 {
		t.Fatalf("peak = %d %s %d", got.PeakIndex, got.PeakLabel, got.PeakCases)
	}
	if got.GrowthMonths != 1 || got.DeclineMonths != 3 {
		t.Errorf("phases = %d/%d, want 1/3", got.GrowthMonths, got.DeclineMonths)
	}
	if got.AvgGrowthCases != 1 || got.AvgDeclineCases != 4 {
		t.Errorf("averages = %v/%v", got.AvgGrowthCases, got.AvgDeclineCases)
	}
	if got.TotalCases != 13 || got.TotalDeaths != 2 {
		t.Errorf("totals = %d/%d", got.TotalCases, got.TotalDeaths)
	}
	if !got.CaseFatalityDefined {
		t.Error("case fatality should be defined")
	}
}

func TestPeakAnalyzerZeroSeries(t *testing.T) {
	series := seriesOf([]int64{0, 0, 0}, []int64{0, 0, 0})
	got := (&PeakAnalyzer{}).Analyze(series)
	if got.PeakIndex != 0 || got.GrowthMonths != 0 || got.DeclineMonths != 3 {
		t.Errorf("zero series analysis = %+v", got)
	}
	if got.CaseFatalityDefined {
		t.Error("case fatality must be undefined without cases")
	}

	items := CurveSummary(got)
	if items[5].Title != "Taxa de Letalidade" || items[5].Value != "n/d" {
		t.Errorf("lethality item = %+v", items[5])
	}

	empty := (&PeakAnalyzer{}).Analyze(models.MMonthlySeries{})
	if empty.PeakIndex != -1 {
		t.Errorf("empty series peak = %d", empty.PeakIndex)
	}
}

func TestCurveSummary(t *testing.T) {
	facade := NewAnalysisFacade(quietLogger())
	_, items := facade.AnalyzeCurve(seriesOf([]int64{100, 2500, 400}, []int64{1, 20, 4}))

	want := []models.MAnalysisItem{
		{Title: "Fase de Ascensão", Value: "1 meses"},
		{Title: "Pico da Pandemia", Value: "04/2020 (2.500 casos)"},
		{Title: "Fase de Declínio", Value: "2 meses"},
		{Title: "Total de Casos", Value: "3.000"},
		{Title: "Total de Mortes", Value: "25"},
		{Title: "Taxa de Letalidade", Value: "0,83%"},
	}
	if len(items) != len(want) {
		t.Fatalf("got %d items", len(items))
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, items[i], want[i])
		}
	}
}

func TestGlobalAndRegionStats(t *testing.T) {
	record := func(continent string, cases, deaths int64) models.MCountryRecord {
		var r models.MCountryRecord
		r.Continent = continent
		r.Cases = cases
		r.Deaths = deaths
		return r
	}
	records := []models.MCountryRecord{
		record("Europe", 4000, 40),
		record("South America", 1000, 30),
		record("Europe", 2000, 20),
		record("Asia", 0, 0),
	}
	facade := NewAnalysisFacade(quietLogger())

	stats := facade.GlobalStats(records)
	if stats.TotalCases != 7000 || stats.TotalDeaths != 90 || stats.AffectedCountries != 3 {
		t.Errorf("global stats = %+v", stats)
	}
	if stats.TotalCasesDisplay != "7.000" {
		t.Errorf("display = %q", stats.TotalCasesDisplay)
	}

	regions := facade.RegionStats(records)
	if len(regions) != 3 || regions[0].Region != "Europe" || regions[1].Region != "South America" {
		t.Fatalf("regions = %+v", regions)
	}
	if regions[0].CasesPerMillion != 3 || regions[0].DeathsPerMillion != 0.03 || regions[0].Countries != 2 {
		t.Errorf("europe = %+v", regions[0])
	}
}
