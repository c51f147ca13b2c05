package interfaces

import (
	"context"

	"covid-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// IDataExchanger defining the interface for sharing dashboard state with browsers.
// -----------------------------------------------------------------------------

type IDataExchanger interface {
	// -----------------------------------------------------------------------------
	// Broadcast pushes the state to every connected listener and keeps it as latest.
	Broadcast(state *models.MDashboardState)

	// -----------------------------------------------------------------------------
	// Start the server
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the server gracefully
	Stop(ctx context.Context) error
}

// -----------------------------------------------------------------------------
// IDashboard is what the transports (HTTP, websocket, gRPC) drive.
// -----------------------------------------------------------------------------

type IDashboard interface {
	Init(ctx context.Context) error
	SelectCountry(ctx context.Context, countryCode string) (*models.MTimelineView, error)
	State() *models.MDashboardState
	ChartImage(name string) ([]byte, error)
}
