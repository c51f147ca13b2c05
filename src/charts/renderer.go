package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"covid-dashboard/src/helpers"
	"covid-dashboard/src/interfaces"
	"covid-dashboard/src/logger"
	"covid-dashboard/src/models"
)

const (
	defaultWidth  = 900
	defaultHeight = 500
)

var errNoData = errors.New("no data to draw")

// PNGRenderer rasterises chart specs with go-chart. Horizontal bar specs are drawn as
// vertical bars; every other presentation field maps onto a go-chart style.
type PNGRenderer struct {
	Width  int
	Height int
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPNGRenderer(cfg *models.MConfig, log *logger.Logger) *PNGRenderer {
	r := &PNGRenderer{
		Width:  defaultWidth,
		Height: defaultHeight,
		Logger: log.Named("PNGRenderer"),
	}
	if cfg != nil && cfg.Charts.Width > 0 && cfg.Charts.Height > 0 {
		r.Width = cfg.Charts.Width
		r.Height = cfg.Charts.Height
	}
	return r
}

// -----------------------------------------------------------------------------

// Draw renders the spec immediately, so a failure surfaces here and not on first read.
func (r *PNGRenderer) Draw(spec models.MChartSpec) (interfaces.IChartHandle, error) {
	var buf bytes.Buffer
	var err error

	switch spec.Type {
	case models.ChartTypeBar:
		err = r.drawBars(spec, &buf)
	case models.ChartTypeBubble, models.ChartTypeScatter:
		err = r.drawPoints(spec, &buf)
	case models.ChartTypeLine:
		err = r.drawLine(spec, &buf)
	default:
		err = fmt.Errorf("unsupported chart type %q", spec.Type)
	}
	if err != nil {
		return nil, helpers.NewRenderError(fmt.Sprintf("cannot draw chart %s", spec.Name), err)
	}

	r.Logger.Debug("Rendered %s (%d bytes)", spec.Name, buf.Len())
	return newPNGHandle(spec, buf.Bytes()), nil
}

// -----------------------------------------------------------------------------

// drawBars interleaves the datasets per label, which renders grouped bars side by side.
func (r *PNGRenderer) drawBars(spec models.MChartSpec, w io.Writer) error {
	bars := make([]chart.Value, 0, len(spec.Labels)*len(spec.Datasets))
	top := 0.0
	for i, label := range spec.Labels {
		for j, ds := range spec.Datasets {
			if i >= len(ds.Data) {
				continue
			}
			name := label
			if j > 0 {
				name = ""
			}
			col := parseColor(datasetColor(ds, i))
			bars = append(bars, chart.Value{
				Value: ds.Data[i],
				Label: name,
				Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
			})
			top = math.Max(top, ds.Data[i])
		}
	}
	if len(bars) == 0 {
		return errNoData
	}

	if axis, ok := valueAxis(spec); ok && axis.Max != nil {
		top = *axis.Max
	}
	if top <= 0 {
		top = 1
	}

	slot := (r.Width - 120) / len(bars)
	if slot < 4 {
		slot = 4
	}

	bc := chart.BarChart{
		Title:      spec.Title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		BarWidth:   slot * 2 / 3,
		BarSpacing: slot / 3,
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: top},
			ValueFormatter: compactFormatter,
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}

// -----------------------------------------------------------------------------

func (r *PNGRenderer) drawPoints(spec models.MChartSpec, w io.Writer) error {
	var xs, ys []float64
	series := make([]chart.Series, 0, len(spec.Datasets))

	for _, ds := range spec.Datasets {
		if len(ds.Points) == 0 {
			continue
		}
		sx := make([]float64, len(ds.Points))
		sy := make([]float64, len(ds.Points))
		for i, p := range ds.Points {
			sx[i] = p.X
			sy[i] = p.Y
		}
		xs = append(xs, sx...)
		ys = append(ys, sy...)

		style := chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    6,
			DotColor:    parseColor(ds.BackgroundColor).WithAlpha(160),
		}
		if spec.Type == models.ChartTypeBubble {
			points := ds.Points
			style.DotWidthProvider = func(_, _ chart.Range, index int, _, _ float64) float64 {
				return points[index].R
			}
		}
		series = append(series, chart.ContinuousSeries{Name: ds.Label, XValues: sx, YValues: sy, Style: style})
	}
	if len(series) == 0 {
		return errNoData
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: axisTitle(spec, "x"), Range: paddedRange(xs)},
		YAxis:      chart.YAxis{Name: axisTitle(spec, "y"), Range: paddedRange(ys)},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

// -----------------------------------------------------------------------------

// drawLine draws the first dataset on the primary axis and the second on the secondary one.
// Point colours and the peak annotation come from the spec.
func (r *PNGRenderer) drawLine(spec models.MChartSpec, w io.Writer) error {
	if len(spec.Datasets) == 0 || len(spec.Labels) == 0 {
		return errNoData
	}

	xs := make([]float64, len(spec.Labels))
	for i := range xs {
		xs[i] = float64(i)
	}

	var series []chart.Series
	tops := []float64{1, 1}
	for i, ds := range spec.Datasets {
		if len(ds.Data) != len(xs) {
			return fmt.Errorf("dataset %q has %d values for %d labels", ds.Label, len(ds.Data), len(xs))
		}
		axis := chart.YAxisPrimary
		if i > 0 {
			axis = chart.YAxisSecondary
		}
		for _, v := range ds.Data {
			tops[min(i, 1)] = math.Max(tops[min(i, 1)], v*1.1)
		}

		stroke := parseColor(ds.BorderColor)
		style := chart.Style{StrokeColor: stroke, StrokeWidth: 2, DotWidth: 3, DotColor: stroke}
		if ds.Fill {
			style.FillColor = stroke.WithAlpha(50)
		}
		if len(ds.PointColors) == len(xs) {
			colors := ds.PointColors
			style.DotColorProvider = func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
				return parseColor(colors[index])
			}
		}
		series = append(series, chart.ContinuousSeries{Name: ds.Label, YAxis: axis, XValues: xs, YValues: ds.Data, Style: style})
	}

	for _, a := range spec.Annotations {
		col := parseColor(a.Color)
		line := chart.Style{StrokeColor: col, StrokeWidth: 2}
		if a.Dashed {
			line.StrokeDashArray = []float64{5, 5}
		}
		series = append(series,
			chart.ContinuousSeries{Name: a.Label, XValues: []float64{a.Value, a.Value}, YValues: []float64{0, tops[0]}, Style: line},
			chart.AnnotationSeries{Annotations: []chart.Value2{{XValue: a.Value, YValue: tops[0], Label: a.Label}}},
		)
	}

	var ticks []chart.Tick
	every := 1
	if axis, ok := findAxis(spec, "x"); ok && axis.TickEvery > 0 {
		every = axis.TickEvery
	}
	for i := 0; i < len(spec.Labels); i += every {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: spec.Labels[i]})
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 24}},
		XAxis: chart.XAxis{
			Name:  axisTitle(spec, "x"),
			Range: &chart.ContinuousRange{Min: 0, Max: math.Max(1, float64(len(xs)-1))},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:           axisTitle(spec, "yCases"),
			Range:          &chart.ContinuousRange{Min: 0, Max: tops[0]},
			ValueFormatter: compactFormatter,
		},
		YAxisSecondary: chart.YAxis{
			Name:           axisTitle(spec, "yDeaths"),
			Range:          &chart.ContinuousRange{Min: 0, Max: tops[1]},
			ValueFormatter: compactFormatter,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

// -----------------------------------------------------------------------------

func compactFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return helpers.FormatCompact(f)
	}
	return ""
}

func parseColor(hex string) drawing.Color {
	if hex == "" {
		return chart.ColorBlue
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func datasetColor(ds models.MChartDataset, i int) string {
	if i < len(ds.BackgroundColors) {
		return ds.BackgroundColors[i]
	}
	return ds.BackgroundColor
}

func findAxis(spec models.MChartSpec, id string) (models.MChartAxis, bool) {
	for _, a := range spec.Axes {
		if a.ID == id {
			return a, true
		}
	}
	return models.MChartAxis{}, false
}

func axisTitle(spec models.MChartSpec, id string) string {
	a, _ := findAxis(spec, id)
	return a.Title
}

// valueAxis is the axis bar heights are measured on: y, or x for horizontal bars.
func valueAxis(spec models.MChartSpec) (models.MChartAxis, bool) {
	if spec.IndexAxis == "y" {
		return findAxis(spec, "x")
	}
	return findAxis(spec, "y")
}

// paddedRange widens [min, max] by 10% so points do not sit on the frame. A single value
// gets a unit-wide range.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
