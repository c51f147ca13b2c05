package core

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	MaxGDPDrop       = 20.0
	MaxScore         = 100.0
	mortalityPenalty = 5.0
	casesPenalty     = 50.0
)

// -----------------------------------------------------------------------------

// MortalityRate is deaths/cases in percent, 0 when there are no cases.
func MortalityRate(deaths, cases int64) float64 {
	if cases <= 0 {
		return 0
	}
	return float64(deaths) / float64(cases) * 100
}

// -----------------------------------------------------------------------------

// GDPDrop is the synthetic GDP-drop estimate in percent, capped at MaxGDPDrop.
// jitter is drawn from [0, 1) and contributes up to 5 points.
func GDPDrop(deathsPerMillion, jitter float64) float64 {
	return math.Min(MaxGDPDrop, deathsPerMillion/1000*3+jitter*5)
}

// -----------------------------------------------------------------------------

// PerformanceScore starts at 100 and is penalised by mortality and case incidence.
// The result is rounded to one decimal and clamped to [0, 100].
func PerformanceScore(mortalityRate, casesPerOneMillion float64) float64 {
	score := MaxScore
	score -= mortalityRate * mortalityPenalty
	score -= (casesPerOneMillion / 1_000_000) * casesPenalty

	if math.IsNaN(score) {
		return 0
	}
	if math.IsInf(score, 0) {
		return Clamp(score, 0, MaxScore)
	}
	rounded, _ := decimal.NewFromFloat(score).Round(1).Float64()
	return Clamp(rounded, 0, MaxScore)
}

// -----------------------------------------------------------------------------

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
