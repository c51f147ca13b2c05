package charts

import (
	"fmt"
	"math"
	"sort"

	"covid-dashboard/src/helpers"
	"covid-dashboard/src/models"
)

// Chart names, also used as panel identifiers.
const (
	NameWorldMap   = "worldmap"
	NameEfficiency = "efficiency"
	NameEconomic   = "economic"
	NameRegion     = "region"
	NameRanking    = "ranking"
	NameTimeline   = "timeline"
)

// CatalogCharts are the charts built from the country catalog, in render order.
var CatalogCharts = []string{NameWorldMap, NameEfficiency, NameEconomic, NameRegion, NameRanking}

const (
	worldMapMinCases = 1000
	scatterMinCases  = 10_000
	rankingMinCases  = 100_000
)

// -----------------------------------------------------------------------------

// BuildWorldMap plots confirmed cases in millions, largest first.
func BuildWorldMap(records []models.MCountryRecord) models.MChartSpec {
	top := make([]models.MCountryRecord, 0, len(records))
	for _, r := range records {
		if r.Cases > worldMapMinCases {
			top = append(top, r)
		}
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Cases > top[j].Cases
	})

	ds := models.MChartDataset{Label: "Casos Confirmados (milhões)"}
	labels := make([]string, 0, len(top))
	for _, r := range top {
		labels = append(labels, r.Country)
		ds.Data = append(ds.Data, math.Round(float64(r.Cases)/1_000_000))
		ds.BackgroundColors = append(ds.BackgroundColors, ColorForCases(r.Cases))
		ds.Tooltips = append(ds.Tooltips, []string{
			"Casos: " + helpers.FormatNumber(r.Cases),
			"Mortes: " + helpers.FormatNumber(r.Deaths),
			"Taxa: " + helpers.FormatPercent(r.MortalityRate),
			"População: " + helpers.FormatNumber(r.Population),
		})
	}

	return models.MChartSpec{
		Name:     NameWorldMap,
		Type:     models.ChartTypeBar,
		Title:    "Casos de COVID-19 por País (Países Selecionados)",
		Labels:   labels,
		Datasets: []models.MChartDataset{ds},
		Axes: []models.MChartAxis{
			{ID: "y", Title: "Casos (milhões)", BeginAtZero: true},
		},
	}
}

// -----------------------------------------------------------------------------

// BuildEfficiency relates health spending to mortality; bubble size grows with ln(cases).
func BuildEfficiency(records []models.MCountryRecord) models.MChartSpec {
	ds := models.MChartDataset{
		Label:           "Países Selecionados",
		BackgroundColor: ColorBlue,
		BorderColor:     ColorBlue,
	}
	for _, r := range records {
		if r.Cases <= scatterMinCases || r.HealthSpending <= 0 {
			continue
		}
		ds.Points = append(ds.Points, models.MChartPoint{
			X:     r.HealthSpending,
			Y:     r.MortalityRate,
			R:     math.Log(float64(r.Cases)) * 2,
			Label: r.Country,
		})
		ds.Tooltips = append(ds.Tooltips, []string{
			"País: " + r.Country,
			"Gastos em saúde: " + helpers.FormatNumber(int64(r.HealthSpending)),
			"Mortalidade: " + helpers.FormatPercent(r.MortalityRate),
			fmt.Sprintf("Leitos/1000hab: %v", r.HospitalBeds),
		})
	}

	return models.MChartSpec{
		Name:     NameEfficiency,
		Type:     models.ChartTypeBubble,
		Title:    "Eficiência do Sistema de Saúde (Países Selecionados)",
		Datasets: []models.MChartDataset{ds},
		Axes: []models.MChartAxis{
			{ID: "x", Title: "Gastos per capita em saúde (USD)"},
			{ID: "y", Title: "Taxa de mortalidade (%)"},
		},
	}
}

// -----------------------------------------------------------------------------

func BuildEconomic(records []models.MCountryRecord) models.MChartSpec {
	ds := models.MChartDataset{
		Label:           "Impacto Econômico",
		BackgroundColor: ColorRed,
		BorderColor:     ColorDarkRed,
	}
	for _, r := range records {
		if r.Cases <= scatterMinCases {
			continue
		}
		ds.Points = append(ds.Points, models.MChartPoint{X: r.GDPDrop, Y: r.MortalityRate, Label: r.Country})
		ds.Tooltips = append(ds.Tooltips, []string{
			"País: " + r.Country,
			fmt.Sprintf("Queda do PIB: %.1f%%", r.GDPDrop),
			"Mortalidade: " + helpers.FormatPercent(r.MortalityRate),
			"Setor mais afetado: " + r.AffectedSector,
		})
	}

	return models.MChartSpec{
		Name:     NameEconomic,
		Type:     models.ChartTypeScatter,
		Title:    "Impacto Econômico da COVID-19 (Países Selecionados)",
		Datasets: []models.MChartDataset{ds},
		Axes: []models.MChartAxis{
			{ID: "x", Title: "Queda estimada do PIB (%)"},
			{ID: "y", Title: "Taxa de mortalidade (%)"},
		},
	}
}

// -----------------------------------------------------------------------------

func BuildRegion(regions []models.MRegionStats) models.MChartSpec {
	cases := models.MChartDataset{Label: "Casos por Milhão", BackgroundColor: ColorBlue}
	deaths := models.MChartDataset{Label: "Mortes por Milhão", BackgroundColor: ColorRed}
	labels := make([]string, 0, len(regions))
	for _, r := range regions {
		labels = append(labels, r.Region)
		cases.Data = append(cases.Data, r.CasesPerMillion)
		deaths.Data = append(deaths.Data, r.DeathsPerMillion)
	}

	return models.MChartSpec{
		Name:     NameRegion,
		Type:     models.ChartTypeBar,
		Title:    "Comparação por Região (Países Selecionados)",
		Labels:   labels,
		Datasets: []models.MChartDataset{cases, deaths},
		Axes: []models.MChartAxis{
			{ID: "y", Title: "Casos/Mortes por milhão", BeginAtZero: true},
		},
	}
}

// -----------------------------------------------------------------------------

// BuildRanking is a horizontal bar chart of performance scores, best first.
func BuildRanking(records []models.MCountryRecord) models.MChartSpec {
	ranked := make([]models.MCountryRecord, 0, len(records))
	for _, r := range records {
		if r.Cases > rankingMinCases {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PerformanceScore > ranked[j].PerformanceScore
	})

	ds := models.MChartDataset{Label: "Pontuação de Desempenho"}
	labels := make([]string, 0, len(ranked))
	for i, r := range ranked {
		labels = append(labels, r.Country)
		ds.Data = append(ds.Data, r.PerformanceScore)
		ds.BackgroundColors = append(ds.BackgroundColors, ColorForRanking(i))
	}

	maxScore := 100.0
	return models.MChartSpec{
		Name:      NameRanking,
		Type:      models.ChartTypeBar,
		Title:     "Ranking de Desempenho (Países Selecionados)",
		IndexAxis: "y",
		Labels:    labels,
		Datasets:  []models.MChartDataset{ds},
		Axes: []models.MChartAxis{
			{ID: "x", Title: "Pontuação (0-100)", BeginAtZero: true, Max: &maxScore},
		},
	}
}

// -----------------------------------------------------------------------------

// BuildTimeline plots monthly cases and deaths on separate axes and marks the peak month.
func BuildTimeline(series models.MMonthlySeries, analysis models.MPeakAnalysis, countryName string) models.MChartSpec {
	cases := models.MChartDataset{
		Label:           "Novos Casos Mensais",
		BackgroundColor: ColorBlue,
		BorderColor:     ColorBlue,
		AxisID:          "yCases",
		Fill:            true,
		Tension:         0.2,
	}
	deaths := models.MChartDataset{
		Label:           "Mortes Mensais",
		BackgroundColor: ColorRed,
		BorderColor:     ColorRed,
		AxisID:          "yDeaths",
		Fill:            true,
		Tension:         0.2,
	}

	for i, b := range series.Buckets {
		period := fmt.Sprintf("Período: %s à %s", helpers.FormatDate(b.StartDate), helpers.FormatDate(b.EndDate))

		cases.Data = append(cases.Data, float64(b.NewCases))
		deaths.Data = append(deaths.Data, float64(b.NewDeaths))
		deaths.Tooltips = append(deaths.Tooltips, []string{period})

		if i == analysis.PeakIndex {
			cases.PointColors = append(cases.PointColors, ColorRed)
			cases.Tooltips = append(cases.Tooltips, []string{period, "PICO DA PANDEMIA"})
		} else {
			cases.PointColors = append(cases.PointColors, ColorBlue)
			cases.Tooltips = append(cases.Tooltips, []string{period})
		}
	}

	spec := models.MChartSpec{
		Name:     NameTimeline,
		Type:     models.ChartTypeLine,
		Title:    "Evolução da COVID-19 - Ascensão, Pico e Declínio (Mar/2020 - Mai/2023) - " + countryName,
		Labels:   series.Labels(),
		Datasets: []models.MChartDataset{cases, deaths},
		Axes: []models.MChartAxis{
			{ID: "yCases", Position: "left", Title: "Novos Casos Mensais", BeginAtZero: true, Compact: true, GridOnChart: true},
			{ID: "yDeaths", Position: "right", Title: "Mortes Mensais", BeginAtZero: true, Compact: true},
			{ID: "x", Title: "Meses (Mar/2020 - Mai/2023)", TickEvery: 3},
		},
	}

	if analysis.PeakIndex >= 0 {
		spec.Annotations = []models.MChartAnnotation{{
			ID:     "peakLine",
			Axis:   "x",
			Value:  float64(analysis.PeakIndex),
			Label:  "Pico: " + analysis.PeakLabel,
			Color:  ColorRed,
			Dashed: true,
		}}
	}
	return spec
}
