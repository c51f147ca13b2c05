package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"covid-dashboard/src/interfaces"
	"covid-dashboard/src/logger"
	"covid-dashboard/src/models"

	"github.com/gin-gonic/gin"
)

//go:embed static/index.html
var indexHTML []byte

// -----------------------------------------------------------------------------
// DashboardServer
// -----------------------------------------------------------------------------

type DashboardServer struct {
	Config     *models.MConfig
	Logger     *logger.Logger
	engine     *gin.Engine
	httpServer *http.Server

	dashboard   interfaces.IDashboard
	dashboardMu sync.RWMutex

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan *models.MDashboardState
	direct     chan clientMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	connections atomic.Int64

	// Local cache
	latestState *models.MDashboardState
	stateMutex  sync.RWMutex
}

// clientMessage is a reply meant for a single client; the hub drops it if the client left.
type clientMessage struct {
	client  *Client
	payload interface{}
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewDashboardServer(cfg *models.MConfig, log *logger.Logger) *DashboardServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &DashboardServer{
		Config:  cfg,
		Logger:  log.Named("DashboardServer"),
		engine:  gin.Default(),
		clients: make(map[*Client]struct{}),
		// Buffered so a slow hub never blocks the dashboard
		broadcast:  make(chan *models.MDashboardState, 256),
		direct:     make(chan clientMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		latestState: &models.MDashboardState{
			Type:        "INITIAL",
			Status:      models.MApiStatus{Kind: models.StatusMock},
			Charts:      make(map[string]models.MChartSpec),
			PanelErrors: make(map[string]string),
		},
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *DashboardServer) setupRoutes() {
	s.engine.GET("/", s.getIndex)

	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/state", s.getState)
	api.GET("/summary", s.getSummary)
	api.GET("/countries", s.getCountries)
	api.GET("/charts", s.getCharts)
	api.GET("/charts/:name", s.getChart)
	api.GET("/charts/:name/image", s.getChartImage)
	api.GET("/timeline/:code", s.getTimeline)
	api.POST("/reload", s.postReload)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------

// Handler exposes the router, mainly for tests.
func (s *DashboardServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------

// SetDashboard attaches the controller the API drives.
func (s *DashboardServer) SetDashboard(d interfaces.IDashboard) {
	s.dashboardMu.Lock()
	s.dashboard = d
	s.dashboardMu.Unlock()
}

func (s *DashboardServer) getDashboard() interfaces.IDashboard {
	s.dashboardMu.RLock()
	defer s.dashboardMu.RUnlock()
	return s.dashboard
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *DashboardServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	s.httpServer = &http.Server{Addr: addr, Handler: s.engine}
	go s.handleWebsockets()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.done) })
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *DashboardServer) getIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getHealth(c *gin.Context) {
	connections := s.ConnectedClients()

	s.stateMutex.RLock()
	timestamp := s.latestState.Timestamp
	status := s.latestState.Status
	s.stateMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"api_status":    status.Kind,
		"connections":   connections,
		"latest_update": timestamp,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getState(c *gin.Context) {
	c.JSON(http.StatusOK, s.currentState())
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getSummary(c *gin.Context) {
	state := s.currentState()
	c.JSON(http.StatusOK, gin.H{
		"status":          state.Status,
		"snapshot_source": state.SnapshotSource,
		"global_stats":    state.GlobalStats,
		"timestamp":       state.Timestamp,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getCountries(c *gin.Context) {
	c.JSON(http.StatusOK, s.currentState().Countries)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getCharts(c *gin.Context) {
	state := s.currentState()
	c.JSON(http.StatusOK, gin.H{
		"charts":       state.Charts,
		"panel_errors": state.PanelErrors,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getChart(c *gin.Context) {
	name := c.Param("name")
	state := s.currentState()

	if spec, ok := state.Charts[name]; ok {
		c.JSON(http.StatusOK, spec)
		return
	}
	body := gin.H{"error": fmt.Sprintf("chart %s not available", name)}
	if msg, ok := state.PanelErrors[name]; ok {
		body["panel_error"] = msg
	}
	c.JSON(http.StatusNotFound, body)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getChartImage(c *gin.Context) {
	d := s.getDashboard()
	if d == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard not ready"})
		return
	}

	img, err := d.ChartImage(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, errorBody(err))
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getTimeline(c *gin.Context) {
	d := s.getDashboard()
	if d == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard not ready"})
		return
	}

	view, err := d.SelectCountry(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(errorStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, view)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) postReload(c *gin.Context) {
	d := s.getDashboard()
	if d == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard not ready"})
		return
	}

	if err := d.Init(c.Request.Context()); err != nil {
		c.JSON(errorStatus(err), errorBody(err))
		return
	}
	state := d.State()
	c.JSON(http.StatusOK, gin.H{
		"load_id":            state.LoadID,
		"status":             state.Status,
		"processing_metrics": state.ProcessingMetrics,
	})
}

// -----------------------------------------------------------------------------

// currentState prefers the live controller state and falls back to the last broadcast.
func (s *DashboardServer) currentState() *models.MDashboardState {
	if d := s.getDashboard(); d != nil {
		return d.State()
	}
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.latestState
}
