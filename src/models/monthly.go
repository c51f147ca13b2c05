package models

import "time"

// MMonthBucket holds the within-month increase of cases and deaths for one calendar month.
type MMonthBucket struct {
	Label     string    `json:"label"` // e.g. "03/2020"
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	NewCases  int64     `json:"new_cases"`
	NewDeaths int64     `json:"new_deaths"`
}

// MMonthlySeries is one bucket per month of the analysis window, ascending, without gaps.
type MMonthlySeries struct {
	CountryCode string         `json:"country_code"`
	Synthetic   bool           `json:"synthetic"`
	Buckets     []MMonthBucket `json:"buckets"`
}

func (s MMonthlySeries) Labels() []string {
	labels := make([]string, len(s.Buckets))
	for i, b := range s.Buckets {
		labels[i] = b.Label
	}
	return labels
}

func (s MMonthlySeries) Cases() []int64 {
	values := make([]int64, len(s.Buckets))
	for i, b := range s.Buckets {
		values[i] = b.NewCases
	}
	return values
}

func (s MMonthlySeries) Deaths() []int64 {
	values := make([]int64, len(s.Buckets))
	for i, b := range s.Buckets {
		values[i] = b.NewDeaths
	}
	return values
}
