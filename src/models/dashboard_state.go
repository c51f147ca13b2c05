package models

// Status kinds of the overall API indicator.
const (
	StatusMock  = "mock"
	StatusLive  = "live"
	StatusError = "error"
)

// -----------------------------------------------------------------------------
// Dashboard State Structure
// -----------------------------------------------------------------------------

type MDashboardState struct {
	Type              string                `json:"type"` // "INITIAL" or "UPDATE"
	LoadID            string                `json:"load_id"`
	Sequence          uint64                `json:"sequence"` // increases with every publish
	Status            MApiStatus            `json:"status"`
	SnapshotSource    string                `json:"snapshot_source"`
	GlobalStats       MGlobalStats          `json:"global_stats"`
	Countries         []MCountryRecord      `json:"countries"`
	Charts            map[string]MChartSpec `json:"charts"`
	PanelErrors       map[string]string     `json:"panel_errors"`
	Timeline          *MTimelineView        `json:"timeline,omitempty"`
	Timestamp         int64                 `json:"timestamp"`
	ProcessingMetrics MProcessingMetrics    `json:"processing_metrics"`
}

type MApiStatus struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// MTimelineView is the timeline panel of the currently selected country.
type MTimelineView struct {
	CountryCode   string          `json:"country_code"`
	CountryName   string          `json:"country_name"`
	Generation    uint64          `json:"generation"`
	Series        MMonthlySeries  `json:"series"`
	Analysis      MPeakAnalysis   `json:"analysis"`
	AnalysisItems []MAnalysisItem `json:"analysis_items"`
	Chart         MChartSpec      `json:"chart"`
}

// MProcessingMetrics reports how long the last load took and what it produced.
type MProcessingMetrics struct {
	LoadTimeSeconds float64 `json:"load_time_seconds"`
	CountriesLoaded int     `json:"countries_loaded"`
	ChartsRendered  int     `json:"charts_rendered"`
}

// -----------------------------------------------------------------------------
// ClientCommand for websocket client messages
// -----------------------------------------------------------------------------

type MClientCommand struct {
	Command string `json:"command"`
	Country string `json:"country"`
}
