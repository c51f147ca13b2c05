package dashboard

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"covid-dashboard/src/charts"
	"covid-dashboard/src/data_source/synthetic"
	"covid-dashboard/src/helpers"
	"covid-dashboard/src/interfaces"
	"covid-dashboard/src/logger"
	"covid-dashboard/src/models"
)

type fakeCatalog struct {
	records []models.MCountryRecord
	err     error
}

func (f *fakeCatalog) Load(ctx context.Context) ([]models.MCountryRecord, error) {
	return f.records, f.err
}

func (f *fakeCatalog) LastSource() string { return "fake" }

type fakeHistory struct {
	gen     *synthetic.Generator
	block   string
	started chan struct{}
	release chan struct{}
}

func (h *fakeHistory) FetchHistorical(ctx context.Context, code string) models.MMonthlySeries {
	if code == h.block {
		close(h.started)
		<-h.release
	}
	return h.gen.Generate(code)
}

type fakeHandle struct {
	spec     models.MChartSpec
	disposed bool
	mu       sync.Mutex
}

func (f *fakeHandle) Name() string            { return f.spec.Name }
func (f *fakeHandle) Spec() models.MChartSpec { return f.spec }
func (f *fakeHandle) Image() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disposed {
		return nil, errors.New("disposed")
	}
	return []byte("png:" + f.spec.Name), nil
}
func (f *fakeHandle) Dispose() {
	f.mu.Lock()
	f.disposed = true
	f.mu.Unlock()
}

type fakeRenderer struct {
	fail map[string]bool
}

func (r *fakeRenderer) Draw(spec models.MChartSpec) (interfaces.IChartHandle, error) {
	if r.fail[spec.Name] {
		return nil, helpers.NewRenderError("boom", nil)
	}
	return &fakeHandle{spec: spec}, nil
}

type fakeExchanger struct {
	mu     sync.Mutex
	states []*models.MDashboardState
}

func (f *fakeExchanger) Broadcast(state *models.MDashboardState) {
	f.mu.Lock()
	f.states = append(f.states, state)
	f.mu.Unlock()
}
func (f *fakeExchanger) Start() error                   { return nil }
func (f *fakeExchanger) Stop(ctx context.Context) error { return nil }

func testRecords() []models.MCountryRecord {
	var br, us models.MCountryRecord
	br.Country, br.Continent, br.Cases, br.Deaths = "Brazil", "South America", 37_000_000, 700_000
	br.HealthSpending, br.MortalityRate, br.PerformanceScore = 1300, 1.9, 50
	us.Country, us.Continent, us.Cases, us.Deaths = "USA", "North America", 103_000_000, 1_100_000
	us.HealthSpending, us.MortalityRate, us.PerformanceScore = 11400, 1.1, 60
	return []models.MCountryRecord{br, us}
}

func newTestDashboard(catalog *fakeCatalog, history *fakeHistory, renderer *fakeRenderer) (*Dashboard, *fakeExchanger) {
	log := logger.NewLogger(&models.MConfig{LogLevel: "CRITICAL"}, "test")
	log.SetOutput(io.Discard)
	if history == nil {
		history = &fakeHistory{gen: synthetic.NewGenerator(helpers.FixedRandom(0))}
	}
	if renderer == nil {
		renderer = &fakeRenderer{}
	}
	d := NewDashboard(&models.MConfig{}, catalog, history, renderer, log)
	ex := &fakeExchanger{}
	d.SetExchanger(ex)
	return d, ex
}

func TestInitSuccess(t *testing.T) {
	d, ex := newTestDashboard(&fakeCatalog{records: testRecords()}, nil, nil)

	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state := d.State()
	if state.Status.Kind != models.StatusLive || state.Status.Message != MessageLive {
		t.Errorf("status = %+v", state.Status)
	}
	if len(state.Charts) != 6 || len(state.PanelErrors) != 0 {
		t.Errorf("charts = %d, panel errors = %v", len(state.Charts), state.PanelErrors)
	}
	if state.Timeline == nil || state.Timeline.CountryCode != "global" || state.Timeline.Analysis.PeakIndex != 15 {
		t.Fatalf("timeline = %+v", state.Timeline)
	}
	if state.LoadID == "" || state.SnapshotSource != "fake" || state.GlobalStats.TotalCases != 140_000_000 {
		t.Errorf("state = %+v", state)
	}
	if state.ProcessingMetrics.ChartsRendered != 6 || state.ProcessingMetrics.CountriesLoaded != 2 {
		t.Errorf("metrics = %+v", state.ProcessingMetrics)
	}

	if first := ex.states[0]; first.Status.Kind != models.StatusMock || first.Status.Message != MessageConnecting {
		t.Errorf("first broadcast status = %+v", first.Status)
	}

	img, err := d.ChartImage(charts.NameWorldMap)
	if err != nil || string(img) != "png:worldmap" {
		t.Errorf("chart image = %q, %v", img, err)
	}
}

func TestInitCatalogFailure(t *testing.T) {
	cause := helpers.NewCatalogError("could not load country statistics", errors.New("down"))
	d, _ := newTestDashboard(&fakeCatalog{err: cause}, nil, nil)

	err := d.Init(context.Background())
	var catErr *helpers.CatalogError
	if !errors.As(err, &catErr) {
		t.Fatalf("expected catalog error, got %v", err)
	}

	state := d.State()
	if state.Status.Kind != models.StatusError || state.Status.Message != MessageLoadFailed {
		t.Errorf("status = %+v", state.Status)
	}
	if len(state.Charts) != 0 || state.Timeline != nil {
		t.Error("charts must stay unrendered after a catalog failure")
	}
	if d.Errors.ErrorCount() != 1 {
		t.Errorf("handled errors = %d", d.Errors.ErrorCount())
	}
}

func TestInitRenderFailureIsLocal(t *testing.T) {
	renderer := &fakeRenderer{fail: map[string]bool{charts.NameEconomic: true}}
	d, _ := newTestDashboard(&fakeCatalog{records: testRecords()}, nil, renderer)

	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state := d.State()
	if state.PanelErrors[charts.NameEconomic] == "" {
		t.Error("economic panel should report its failure")
	}
	if _, ok := state.Charts[charts.NameEconomic]; ok {
		t.Error("failed chart must not be published")
	}
	if len(state.Charts) != 5 || state.Status.Kind != models.StatusLive {
		t.Errorf("siblings should render: %d charts, status %s", len(state.Charts), state.Status.Kind)
	}
	if _, err := d.ChartImage(charts.NameEconomic); err == nil {
		t.Error("no image expected for a failed chart")
	}
}

func TestSelectCountryDiscardsStaleResult(t *testing.T) {
	history := &fakeHistory{
		gen:     synthetic.NewGenerator(helpers.FixedRandom(0)),
		block:   "BR",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	d, _ := newTestDashboard(&fakeCatalog{records: testRecords()}, history, nil)

	done := make(chan error, 1)
	go func() {
		_, err := d.SelectCountry(context.Background(), "BR")
		done <- err
	}()
	<-history.started

	view, err := d.SelectCountry(context.Background(), "de")
	if err != nil || view.CountryCode != "DE" {
		t.Fatalf("newer selection = %+v, %v", view, err)
	}

	close(history.release)
	if err := <-done; !errors.Is(err, ErrStaleSelection) {
		t.Fatalf("older selection error = %v, want ErrStaleSelection", err)
	}

	state := d.State()
	if state.Timeline == nil || state.Timeline.CountryCode != "DE" {
		t.Errorf("timeline = %+v", state.Timeline)
	}
}

func TestSelectCountryValidation(t *testing.T) {
	d, _ := newTestDashboard(&fakeCatalog{}, nil, nil)

	for _, code := range []string{"", "B", "BRAZ", "B1", "../x"} {
		_, err := d.SelectCountry(context.Background(), code)
		var valErr *helpers.ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("%q: expected validation error, got %v", code, err)
		}
	}

	for code, want := range map[string]string{"GLOBAL": "global", "br": "BR", "USA": "USA"} {
		got, err := NormalizeCountryCode(code)
		if err != nil || got != want {
			t.Errorf("NormalizeCountryCode(%q) = %q, %v", code, got, err)
		}
	}
}

func TestStateIsACopy(t *testing.T) {
	d, _ := newTestDashboard(&fakeCatalog{records: testRecords()}, nil, nil)
	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state := d.State()
	state.Countries[0].Country = "Changed"
	delete(state.Charts, charts.NameWorldMap)

	again := d.State()
	if again.Countries[0].Country != "Brazil" || len(again.Charts) != 6 {
		t.Error("mutating a returned state must not affect the dashboard")
	}
}

func TestCloseDisposesCharts(t *testing.T) {
	d, _ := newTestDashboard(&fakeCatalog{records: testRecords()}, nil, nil)
	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.Close()
	if _, err := d.ChartImage(charts.NameRanking); err == nil {
		t.Error("charts must be released on Close")
	}
}

func TestPublishOrderFollowsSequence(t *testing.T) {
	d, ex := newTestDashboard(&fakeCatalog{records: testRecords()}, nil, nil)
	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for _, code := range []string{"BR", "US", "GB", "DE", "FR", "IN", "RU", "global"} {
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			if _, err := d.SelectCountry(context.Background(), code); err != nil && !errors.Is(err, ErrStaleSelection) {
				t.Errorf("select %s: %v", code, err)
			}
		}(code)
	}
	wg.Wait()

	ex.mu.Lock()
	defer ex.mu.Unlock()
	for i := 1; i < len(ex.states); i++ {
		if ex.states[i].Sequence <= ex.states[i-1].Sequence {
			t.Fatalf("broadcast %d has sequence %d after %d", i, ex.states[i].Sequence, ex.states[i-1].Sequence)
		}
	}
	last := ex.states[len(ex.states)-1]
	if got := d.State(); got.Sequence != last.Sequence || got.Timeline.CountryCode != last.Timeline.CountryCode {
		t.Errorf("state %d/%s, last broadcast %d/%s",
			got.Sequence, got.Timeline.CountryCode, last.Sequence, last.Timeline.CountryCode)
	}
}
