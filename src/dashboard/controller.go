package dashboard

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"covid-dashboard/src/analysis"
	"covid-dashboard/src/charts"
	"covid-dashboard/src/helpers"
	"covid-dashboard/src/interfaces"
	"covid-dashboard/src/logger"
	"covid-dashboard/src/models"
	"covid-dashboard/src/utils"
)

// ErrStaleSelection is returned when a newer country selection started before this one finished.
var ErrStaleSelection = errors.New("country selection superseded by a newer one")

const (
	MessageConnecting = "Conectando às APIs..."
	MessageLive       = "Dados em tempo real"
	MessageLoadFailed = "Erro ao carregar dados"
)

var panelErrorMessages = map[string]string{
	charts.NameWorldMap:   "Erro ao carregar mapa",
	charts.NameEfficiency: "Erro ao criar gráfico de eficiência",
	charts.NameEconomic:   "Erro ao criar gráfico econômico",
	charts.NameRegion:     "Erro ao criar gráfico por região",
	charts.NameRanking:    "Erro ao criar ranking",
	charts.NameTimeline:   "Erro ao criar gráfico de evolução temporal",
}

var countryCodePattern = regexp.MustCompile(`^[A-Za-z]{2,3}$`)

// -----------------------------------------------------------------------------
// Dashboard
// -----------------------------------------------------------------------------

// Dashboard runs the load sequence and owns the resulting state and chart handles.
type Dashboard struct {
	Config   *models.MConfig
	Catalog  interfaces.ICountryCatalog
	History  interfaces.IHistoricalSource
	Renderer interfaces.IChartRenderer
	Analysis *analysis.AnalysisFacade
	Errors   *helpers.ErrorHandler
	Logger   *logger.Logger

	exchanger  interfaces.IDataExchanger
	charts     *charts.Registry
	generation atomic.Uint64

	state models.MDashboardState
	mu    sync.RWMutex

	// publishMu keeps snapshot order and Broadcast order identical.
	publishMu sync.Mutex
	sequence  uint64
}

// -----------------------------------------------------------------------------

func NewDashboard(
	cfg *models.MConfig,
	catalog interfaces.ICountryCatalog,
	history interfaces.IHistoricalSource,
	renderer interfaces.IChartRenderer,
	log *logger.Logger,
) *Dashboard {
	named := log.Named("Dashboard")
	return &Dashboard{
		Config:   cfg,
		Catalog:  catalog,
		History:  history,
		Renderer: renderer,
		Analysis: analysis.NewAnalysisFacade(log),
		Errors:   helpers.NewErrorHandler(named),
		Logger:   named,
		charts:   charts.NewRegistry(),
		state: models.MDashboardState{
			Type:        "INITIAL",
			Status:      models.MApiStatus{Kind: models.StatusMock, Message: MessageConnecting},
			Charts:      make(map[string]models.MChartSpec),
			PanelErrors: make(map[string]string),
		},
	}
}

// -----------------------------------------------------------------------------

// SetExchanger attaches the transport that receives every state change.
func (d *Dashboard) SetExchanger(ex interfaces.IDataExchanger) {
	d.mu.Lock()
	d.exchanger = ex
	d.mu.Unlock()
}

// -----------------------------------------------------------------------------

// Init loads the catalog, renders the catalog charts and selects the global timeline.
// A catalog failure is fatal: the status switches to error and the charts stay as they were.
func (d *Dashboard) Init(ctx context.Context) error {
	start := time.Now()

	d.mu.Lock()
	d.state.Type = "INITIAL"
	d.state.LoadID = uuid.NewString()
	d.state.Status = models.MApiStatus{Kind: models.StatusMock, Message: MessageConnecting}
	d.state.Timestamp = time.Now().Unix()
	loadID := d.state.LoadID
	d.mu.Unlock()
	d.publish()

	d.Logger.Info("Load %s started", loadID)

	records, err := d.Catalog.Load(ctx)
	if err != nil {
		d.Errors.Handle(err, "catalog load")
		d.setStatus(models.StatusError, MessageLoadFailed)
		return err
	}

	stats := d.Analysis.GlobalStats(records)
	regions := d.Analysis.RegionStats(records)

	builders := map[string]func() models.MChartSpec{
		charts.NameWorldMap:   func() models.MChartSpec { return charts.BuildWorldMap(records) },
		charts.NameEfficiency: func() models.MChartSpec { return charts.BuildEfficiency(records) },
		charts.NameEconomic:   func() models.MChartSpec { return charts.BuildEconomic(records) },
		charts.NameRegion:     func() models.MChartSpec { return charts.BuildRegion(regions) },
		charts.NameRanking:    func() models.MChartSpec { return charts.BuildRanking(records) },
	}

	specs := make(map[string]models.MChartSpec)
	panelErrors := make(map[string]string)
	for _, name := range charts.CatalogCharts {
		spec := builders[name]()
		handle, err := d.Renderer.Draw(spec)
		if err != nil {
			d.Errors.Handle(err, "render "+name)
			panelErrors[name] = panelErrorMessages[name]
			d.charts.Remove(name)
			continue
		}
		d.charts.Replace(name, handle)
		specs[name] = spec
	}

	d.mu.Lock()
	d.state.SnapshotSource = d.Catalog.LastSource()
	d.state.GlobalStats = stats
	d.state.Countries = records
	if timeline, ok := d.state.Charts[charts.NameTimeline]; ok {
		specs[charts.NameTimeline] = timeline
	}
	if msg, ok := d.state.PanelErrors[charts.NameTimeline]; ok {
		panelErrors[charts.NameTimeline] = msg
	}
	d.state.Charts = specs
	d.state.PanelErrors = panelErrors
	d.mu.Unlock()
	d.publish()

	if _, err := d.SelectCountry(ctx, utils.GlobalCode); err != nil && !errors.Is(err, ErrStaleSelection) {
		d.Errors.Handle(err, "global timeline")
	}

	d.mu.Lock()
	d.state.Status = models.MApiStatus{Kind: models.StatusLive, Message: MessageLive}
	d.state.Timestamp = time.Now().Unix()
	d.state.ProcessingMetrics = models.MProcessingMetrics{
		LoadTimeSeconds: time.Since(start).Seconds(),
		CountriesLoaded: len(records),
		ChartsRendered:  len(d.charts.Names()),
	}
	d.mu.Unlock()
	d.publish()

	d.Logger.Info("Load %s finished: %d countries, %d charts in %v", loadID, len(records), len(d.charts.Names()), time.Since(start))
	return nil
}

// -----------------------------------------------------------------------------

// SelectCountry fetches, analyses and draws the timeline of one country. Only the latest
// selection is ever applied; an older one finishing late gets ErrStaleSelection.
func (d *Dashboard) SelectCountry(ctx context.Context, countryCode string) (*models.MTimelineView, error) {
	code, err := NormalizeCountryCode(countryCode)
	if err != nil {
		return nil, err
	}

	gen := d.generation.Add(1)
	d.Logger.Debug("Selecting %s (generation %d)", code, gen)

	series := d.History.FetchHistorical(ctx, code)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.generation.Load() != gen {
		return nil, ErrStaleSelection
	}

	result, items := d.Analysis.AnalyzeCurve(series)
	name := utils.CountryName(code)
	spec := charts.BuildTimeline(series, result, name)
	handle, drawErr := d.Renderer.Draw(spec)

	view := &models.MTimelineView{
		CountryCode:   code,
		CountryName:   name,
		Generation:    gen,
		Series:        series,
		Analysis:      result,
		AnalysisItems: items,
		Chart:         spec,
	}

	d.mu.Lock()
	if d.generation.Load() != gen {
		d.mu.Unlock()
		if handle != nil {
			handle.Dispose()
		}
		return nil, ErrStaleSelection
	}

	if drawErr != nil {
		d.Errors.Handle(drawErr, "render timeline")
		d.state.PanelErrors[charts.NameTimeline] = panelErrorMessages[charts.NameTimeline]
		delete(d.state.Charts, charts.NameTimeline)
		d.charts.Remove(charts.NameTimeline)
	} else {
		delete(d.state.PanelErrors, charts.NameTimeline)
		d.state.Charts[charts.NameTimeline] = spec
		d.charts.Replace(charts.NameTimeline, handle)
	}
	d.state.Timeline = view
	d.state.Timestamp = time.Now().Unix()
	d.state.Type = "UPDATE"
	d.mu.Unlock()
	d.publish()

	if series.Synthetic {
		d.Logger.Info("Timeline for %s uses synthetic data", code)
	}

	copied := *view
	return &copied, nil
}

// -----------------------------------------------------------------------------

// State returns a copy of the current state that callers may keep.
func (d *Dashboard) State() *models.MDashboardState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshot()
}

// -----------------------------------------------------------------------------

// ChartImage returns the PNG of a rendered chart.
func (d *Dashboard) ChartImage(name string) ([]byte, error) {
	handle, ok := d.charts.Get(name)
	if !ok {
		return nil, helpers.NewRenderError("chart "+name+" is not rendered", nil)
	}
	return handle.Image()
}

// -----------------------------------------------------------------------------

// Close releases every chart handle.
func (d *Dashboard) Close() {
	d.charts.DisposeAll()
}

// -----------------------------------------------------------------------------

// NormalizeCountryCode accepts "global" or a 2-3 letter code and returns the canonical
// form ("global" or upper case).
func NormalizeCountryCode(code string) (string, error) {
	trimmed := strings.TrimSpace(code)
	if strings.EqualFold(trimmed, utils.GlobalCode) {
		return utils.GlobalCode, nil
	}
	if !countryCodePattern.MatchString(trimmed) {
		return "", helpers.NewValidationError(fmt.Sprintf("invalid country code %q", code))
	}
	return strings.ToUpper(trimmed), nil
}

// -----------------------------------------------------------------------------

func (d *Dashboard) setStatus(kind, message string) {
	d.mu.Lock()
	d.state.Status = models.MApiStatus{Kind: kind, Message: message}
	d.state.Timestamp = time.Now().Unix()
	d.mu.Unlock()
	d.publish()
}

// -----------------------------------------------------------------------------

func (d *Dashboard) publish() {
	d.publishMu.Lock()
	defer d.publishMu.Unlock()

	d.mu.Lock()
	d.sequence++
	d.state.Sequence = d.sequence
	ex := d.exchanger
	state := d.snapshot()
	d.mu.Unlock()

	if ex != nil {
		ex.Broadcast(state)
	}
}

// -----------------------------------------------------------------------------

// snapshot copies the state; callers hold d.mu.
func (d *Dashboard) snapshot() *models.MDashboardState {
	out := d.state

	out.Countries = append([]models.MCountryRecord(nil), d.state.Countries...)

	out.Charts = make(map[string]models.MChartSpec, len(d.state.Charts))
	for k, v := range d.state.Charts {
		out.Charts[k] = v
	}
	out.PanelErrors = make(map[string]string, len(d.state.PanelErrors))
	for k, v := range d.state.PanelErrors {
		out.PanelErrors[k] = v
	}
	if d.state.Timeline != nil {
		view := *d.state.Timeline
		out.Timeline = &view
	}
	return &out
}
