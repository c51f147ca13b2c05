package models

import "time"

// MTimeSeriesPoint is one cumulative observation of the remote historical API.
type MTimeSeriesPoint struct {
	Date            time.Time `json:"date"`
	CumulativeValue int64     `json:"cumulative_value"`
}

// MHistoricalTimeline is the parsed historical payload, points sorted by date.
type MHistoricalTimeline struct {
	CountryCode string             `json:"country_code"`
	Cases       []MTimeSeriesPoint `json:"cases"`
	Deaths      []MTimeSeriesPoint `json:"deaths"`
}
