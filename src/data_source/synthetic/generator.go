package synthetic

import (
	"math"

	"covid-dashboard/src/analysis"
	"covid-dashboard/src/helpers"
	"covid-dashboard/src/interfaces"
	"covid-dashboard/src/models"
	"covid-dashboard/src/utils"
)

// Profile shapes the illustrative curve of one country.
type Profile struct {
	PeakMonth     int
	PeakIntensity float64
	DeclineRate   float64
}

var Profiles = map[string]Profile{
	utils.GlobalCode: {PeakMonth: 15, PeakIntensity: 30_000_000, DeclineRate: 0.7},
	"BR":             {PeakMonth: 14, PeakIntensity: 2_000_000, DeclineRate: 0.6},
	"US":             {PeakMonth: 16, PeakIntensity: 5_000_000, DeclineRate: 0.8},
	"GB":             {PeakMonth: 13, PeakIntensity: 800_000, DeclineRate: 0.75},
	"DE":             {PeakMonth: 12, PeakIntensity: 600_000, DeclineRate: 0.7},
	"FR":             {PeakMonth: 11, PeakIntensity: 700_000, DeclineRate: 0.65},
	"IN":             {PeakMonth: 18, PeakIntensity: 4_000_000, DeclineRate: 0.5},
	"RU":             {PeakMonth: 17, PeakIntensity: 1_200_000, DeclineRate: 0.65},
}

// ProfileFor falls back to the global profile for unknown codes.
func ProfileFor(code string) Profile {
	if p, ok := Profiles[code]; ok {
		return p
	}
	return Profiles[utils.GlobalCode]
}

// -----------------------------------------------------------------------------

// Generator builds the substitute series served when the historical API is unavailable.
// Case counts are a pure function of the code; only deaths are jittered.
type Generator struct {
	Random    interfaces.IRandomSource
	resampler *analysis.MonthlyResampler
}

// -----------------------------------------------------------------------------

func NewGenerator(random interfaces.IRandomSource) *Generator {
	if random == nil {
		random = helpers.SystemRandom{}
	}
	return &Generator{
		Random:    random,
		resampler: analysis.NewMonthlyResampler(),
	}
}

// -----------------------------------------------------------------------------

func (g *Generator) Generate(countryCode string) models.MMonthlySeries {
	profile := ProfileFor(countryCode)
	buckets := g.resampler.AnalysisWindow()
	for i := range buckets {
		cases := MonthlyCases(profile, i)
		ratio := 0.02 + g.Random.Float64()*0.01
		buckets[i].NewCases = cases
		buckets[i].NewDeaths = int64(math.Floor(float64(cases) * ratio))
	}

	return models.MMonthlySeries{
		CountryCode: countryCode,
		Synthetic:   true,
		Buckets:     buckets,
	}
}

// -----------------------------------------------------------------------------

// DeclineSpan normalises the decline exponent; the last window month lands on DeclineRate^3.
const DeclineSpan = 38

// MonthlyCases is quadratic growth up to the peak month, then geometric decline.
func MonthlyCases(p Profile, i int) int64 {
	if i < p.PeakMonth {
		progress := float64(i) / float64(p.PeakMonth)
		return int64(math.Floor(p.PeakIntensity * progress * progress))
	}
	decline := float64(i-p.PeakMonth) / float64(DeclineSpan-p.PeakMonth)
	return int64(math.Floor(p.PeakIntensity * math.Pow(p.DeclineRate, decline*3)))
}
