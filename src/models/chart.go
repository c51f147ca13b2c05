package models

// Chart types understood by the browser page and the PNG renderer.
const (
	ChartTypeBar     = "bar"
	ChartTypeBubble  = "bubble"
	ChartTypeScatter = "scatter"
	ChartTypeLine    = "line"
)

// MChartSpec is a declarative chart configuration. It carries data and presentation only;
// drawing is left to whichever renderer consumes it.
type MChartSpec struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Title       string             `json:"title"`
	IndexAxis   string             `json:"index_axis,omitempty"` // "y" for horizontal bars
	Labels      []string           `json:"labels,omitempty"`
	Datasets    []MChartDataset    `json:"datasets"`
	Axes        []MChartAxis       `json:"axes,omitempty"`
	Annotations []MChartAnnotation `json:"annotations,omitempty"`
}

type MChartDataset struct {
	Label            string        `json:"label"`
	Data             []float64     `json:"data,omitempty"`
	Points           []MChartPoint `json:"points,omitempty"`
	BackgroundColor  string        `json:"background_color,omitempty"`
	BackgroundColors []string      `json:"background_colors,omitempty"`
	BorderColor      string        `json:"border_color,omitempty"`
	PointColors      []string      `json:"point_colors,omitempty"`
	AxisID           string        `json:"axis_id,omitempty"`
	Fill             bool          `json:"fill,omitempty"`
	Tension          float64       `json:"tension,omitempty"`
	Tooltips         [][]string    `json:"tooltips,omitempty"` // one block per data entry
}

// MChartPoint is an x/y(/r) entry of a scatter or bubble dataset.
type MChartPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	R     float64 `json:"r,omitempty"`
	Label string  `json:"label"`
}

type MChartAxis struct {
	ID          string   `json:"id"`
	Position    string   `json:"position,omitempty"`
	Title       string   `json:"title"`
	BeginAtZero bool     `json:"begin_at_zero,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	TickEvery   int      `json:"tick_every,omitempty"`
	Compact     bool     `json:"compact,omitempty"` // 1.2M / 15K tick labels
	GridOnChart bool     `json:"grid_on_chart,omitempty"`
}

// MChartAnnotation marks a position on an axis, e.g. the peak month of the timeline.
type MChartAnnotation struct {
	ID     string  `json:"id"`
	Axis   string  `json:"axis"`
	Value  float64 `json:"value"`
	Label  string  `json:"label"`
	Color  string  `json:"color"`
	Dashed bool    `json:"dashed"`
}
