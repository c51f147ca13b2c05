package synthetic

import (
	"testing"

	"covid-dashboard/src/analysis"
	"covid-dashboard/src/helpers"
)

func TestGenerateBrazilShape(t *testing.T) {
	series := NewGenerator(helpers.FixedRandom(0)).Generate("BR")
	cases := series.Cases()

	if !series.Synthetic || series.CountryCode != "BR" {
		t.Fatalf("series flags = %v %q", series.Synthetic, series.CountryCode)
	}
	if len(cases) != 39 {
		t.Fatalf("got %d months", len(cases))
	}
	for i := 1; i <= 13; i++ {
		if cases[i] <= cases[i-1] {
			t.Fatalf("month %d (%d) does not grow over %d", i, cases[i], cases[i-1])
		}
	}
	for i := 15; i < len(cases); i++ {
		if cases[i] >= cases[i-1] {
			t.Fatalf("month %d (%d) does not decline from %d", i, cases[i], cases[i-1])
		}
	}
	if cases[0] != 0 || cases[14] != 2_000_000 {
		t.Errorf("endpoints = %d, %d", cases[0], cases[14])
	}
}

func TestGeneratePeakRoundTrip(t *testing.T) {
	gen := NewGenerator(helpers.FixedRandom(0.7))
	peaks := &analysis.PeakAnalyzer{}

	for code, profile := range Profiles {
		got := peaks.Analyze(gen.Generate(code))
		if got.PeakIndex != profile.PeakMonth {
			t.Errorf("%s: peak at %d, want %d", code, got.PeakIndex, profile.PeakMonth)
		}
	}
}

func TestGenerateUnknownUsesGlobal(t *testing.T) {
	gen := NewGenerator(helpers.FixedRandom(0))
	unknown := gen.Generate("ZZ")
	global := gen.Generate("global")
	for i := range global.Buckets {
		if unknown.Buckets[i].NewCases != global.Buckets[i].NewCases {
			t.Fatalf("month %d differs", i)
		}
	}
	if unknown.CountryCode != "ZZ" {
		t.Errorf("code = %q", unknown.CountryCode)
	}
}

func TestGenerateDeathsUseRandomSource(t *testing.T) {
	series := NewGenerator(helpers.FixedRandom(0)).Generate("BR")
	if d := series.Buckets[14].NewDeaths; d != 40_000 {
		t.Errorf("peak deaths = %d, want 40000", d)
	}
	high := NewGenerator(helpers.FixedRandom(0.99)).Generate("BR")
	for i, b := range high.Buckets {
		if b.NewDeaths < series.Buckets[i].NewDeaths {
			t.Fatalf("month %d: higher jitter produced fewer deaths", i)
		}
		if float64(b.NewDeaths) > float64(b.NewCases)*0.03 {
			t.Fatalf("month %d: deaths above 3%% of cases", i)
		}
	}
}
