package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"covid-dashboard/src/dashboard"
	"covid-dashboard/src/helpers"
	"covid-dashboard/src/logger"
	"covid-dashboard/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type fakeDashboard struct {
	state     *models.MDashboardState
	initErr   error
	exchanger *DashboardServer
	selected  []string
}

func (f *fakeDashboard) Init(ctx context.Context) error {
	return f.initErr
}

func (f *fakeDashboard) SelectCountry(ctx context.Context, code string) (*models.MTimelineView, error) {
	normalized, err := dashboard.NormalizeCountryCode(code)
	if err != nil {
		return nil, err
	}
	f.selected = append(f.selected, normalized)
	view := &models.MTimelineView{CountryCode: normalized, CountryName: normalized}
	if f.exchanger != nil {
		next := *f.state
		next.Type = "UPDATE"
		next.Timeline = view
		f.exchanger.Broadcast(&next)
	}
	return view, nil
}

func (f *fakeDashboard) State() *models.MDashboardState {
	return f.state
}

func (f *fakeDashboard) ChartImage(name string) ([]byte, error) {
	if name != "worldmap" {
		return nil, helpers.NewRenderError("chart "+name+" is not rendered", nil)
	}
	return []byte("\x89PNG fake"), nil
}

func newTestServer(d *fakeDashboard) *DashboardServer {
	gin.SetMode(gin.TestMode)
	log := logger.NewLogger(&models.MConfig{LogLevel: "CRITICAL"}, "test")
	log.SetOutput(io.Discard)

	s := NewDashboardServer(&models.MConfig{LogLevel: "DEBUG"}, log)
	if d != nil {
		d.exchanger = s
		s.SetDashboard(d)
	}
	return s
}

func sampleState() *models.MDashboardState {
	return &models.MDashboardState{
		Type:           "UPDATE",
		LoadID:         "load-1",
		Status:         models.MApiStatus{Kind: models.StatusLive, Message: "Dados em tempo real"},
		SnapshotSource: "disease.sh",
		GlobalStats:    models.MGlobalStats{TotalCases: 10, TotalCasesDisplay: "10"},
		Charts: map[string]models.MChartSpec{
			"worldmap": {Name: "worldmap", Type: models.ChartTypeBar},
		},
		PanelErrors: map[string]string{"economic": "Erro ao criar gráfico econômico"},
	}
}

func do(s *DashboardServer, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestIndexAndHealth(t *testing.T) {
	s := newTestServer(&fakeDashboard{state: sampleState()})

	w := do(s, http.MethodGet, "/")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "timeline-chart") {
		t.Fatalf("index = %d", w.Code)
	}

	w = do(s, http.MethodGet, "/api/health")
	var health map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil || health["status"] != "ok" {
		t.Errorf("health = %s", w.Body.String())
	}
}

func TestChartEndpoints(t *testing.T) {
	s := newTestServer(&fakeDashboard{state: sampleState()})

	if w := do(s, http.MethodGet, "/api/charts/worldmap"); w.Code != http.StatusOK {
		t.Errorf("spec = %d", w.Code)
	}

	w := do(s, http.MethodGet, "/api/charts/economic")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "panel_error") {
		t.Errorf("failed chart = %d %s", w.Code, w.Body.String())
	}

	w = do(s, http.MethodGet, "/api/charts/worldmap/image")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Errorf("image = %d %s", w.Code, w.Header().Get("Content-Type"))
	}

	if w := do(s, http.MethodGet, "/api/charts/ranking/image"); w.Code != http.StatusNotFound {
		t.Errorf("missing image = %d", w.Code)
	}
}

func TestSummaryAndCountries(t *testing.T) {
	s := newTestServer(&fakeDashboard{state: sampleState()})

	w := do(s, http.MethodGet, "/api/summary")
	if !strings.Contains(w.Body.String(), `"snapshot_source":"disease.sh"`) {
		t.Errorf("summary = %s", w.Body.String())
	}
	if w := do(s, http.MethodGet, "/api/countries"); w.Code != http.StatusOK {
		t.Errorf("countries = %d", w.Code)
	}
}

func TestTimelineEndpoint(t *testing.T) {
	d := &fakeDashboard{state: sampleState()}
	s := newTestServer(d)

	w := do(s, http.MethodGet, "/api/timeline/br")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"country_code":"BR"`) {
		t.Fatalf("timeline = %d %s", w.Code, w.Body.String())
	}

	if w := do(s, http.MethodGet, "/api/timeline/123"); w.Code != http.StatusBadRequest {
		t.Errorf("invalid code = %d", w.Code)
	}
}

func TestReloadFailure(t *testing.T) {
	d := &fakeDashboard{
		state:   sampleState(),
		initErr: helpers.NewCatalogError("could not load country statistics", nil),
	}
	s := newTestServer(d)

	if w := do(s, http.MethodPost, "/api/reload"); w.Code != http.StatusBadGateway {
		t.Errorf("reload = %d", w.Code)
	}
}

func TestNotReady(t *testing.T) {
	s := newTestServer(nil)
	if w := do(s, http.MethodGet, "/api/timeline/BR"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("timeline without dashboard = %d", w.Code)
	}
	if w := do(s, http.MethodGet, "/api/state"); w.Code != http.StatusOK {
		t.Errorf("state without dashboard = %d", w.Code)
	}
}

func TestWebSocketSelect(t *testing.T) {
	d := &fakeDashboard{state: sampleState()}
	s := newTestServer(d)
	s.latestState = d.state
	go s.handleWebsockets()
	defer s.Stop(context.Background())

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var initial models.MDashboardState
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if initial.Type != "INITIAL" || initial.LoadID != "load-1" {
		t.Fatalf("initial = %+v", initial)
	}

	if err := conn.WriteJSON(models.MClientCommand{Command: "select", Country: "de"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var update models.MDashboardState
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if update.Timeline == nil || update.Timeline.CountryCode != "DE" {
		t.Errorf("update = %+v", update)
	}
}

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{helpers.NewValidationError("bad"), http.StatusBadRequest},
		{dashboard.ErrStaleSelection, http.StatusConflict},
		{helpers.NewCatalogError("down", nil), http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := errorStatus(tc.err); got != tc.want {
			t.Errorf("errorStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestBroadcastKeepsNewestState(t *testing.T) {
	s := newTestServer(nil)

	newer := sampleState()
	newer.Sequence, newer.LoadID = 5, "newer"
	older := sampleState()
	older.Sequence, older.LoadID = 3, "older"

	s.Broadcast(newer)
	s.Broadcast(older)

	if got := s.currentState(); got.LoadID != "newer" {
		t.Errorf("latest state = %s, want newer", got.LoadID)
	}
	if queued := len(s.broadcast); queued != 1 {
		t.Errorf("queued %d broadcasts, want 1", queued)
	}
}

func TestHealthCountsClientsWhileConnecting(t *testing.T) {
	const clients = 20

	s := newTestServer(&fakeDashboard{state: sampleState()})
	go s.handleWebsockets()
	defer s.Stop(context.Background())

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	connections := func() int {
		var health struct {
			Connections int `json:"connections"`
		}
		w := do(s, http.MethodGet, "/api/health")
		if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
			t.Fatalf("health = %s", w.Body.String())
		}
		return health.Connections
	}

	conns := make(chan *websocket.Conn, clients)
	for i := 0; i < clients; i++ {
		go func() {
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				t.Errorf("dial: %v", err)
				conns <- nil
				return
			}
			conn.SetReadDeadline(time.Now().Add(5 * time.Second))
			var initial models.MDashboardState
			if err := conn.ReadJSON(&initial); err != nil {
				t.Errorf("read initial: %v", err)
			}
			conns <- conn
		}()
		connections()
	}

	for i := 0; i < clients; i++ {
		if conn := <-conns; conn != nil {
			defer conn.Close()
		}
	}
	if got := connections(); got != clients {
		t.Errorf("connections = %d, want %d", got, clients)
	}
}

func TestDecodeCommand(t *testing.T) {
	cmd, err := decodeCommand([]byte(`{"command":" SELECT ","country":"br"}`))
	if err != nil || cmd.Command != CommandSelect || cmd.Country != "BR" {
		t.Errorf("select = %+v, %v", cmd, err)
	}
	if cmd, err := decodeCommand([]byte(`{"command":"state"}`)); err != nil || cmd.Command != CommandState {
		t.Errorf("state = %+v, %v", cmd, err)
	}

	for _, raw := range []string{`{`, `{}`, `{"command":"reboot"}`, `{"command":"select","country":"b-r"}`} {
		if _, err := decodeCommand([]byte(raw)); err == nil {
			t.Errorf("%s: expected an error", raw)
		}
	}
}

func TestWebSocketRejectsInvalidCommand(t *testing.T) {
	d := &fakeDashboard{state: sampleState()}
	s := newTestServer(d)
	s.latestState = d.state
	go s.handleWebsockets()
	defer s.Stop(context.Background())

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var initial models.MDashboardState
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatalf("read initial: %v", err)
	}

	if err := conn.WriteJSON(models.MClientCommand{Command: "select", Country: "123"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply map[string]string
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply["type"] != "ERROR" || !strings.Contains(reply["error"], "invalid country code") {
		t.Errorf("reply = %v", reply)
	}
	if len(d.selected) != 0 {
		t.Errorf("invalid command reached the dashboard: %v", d.selected)
	}
}
