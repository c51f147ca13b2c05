package interfaces

import "covid-dashboard/src/models"

// -----------------------------------------------------------------------------
// IChartRenderer draws declarative chart specifications.
// -----------------------------------------------------------------------------

type IChartRenderer interface {

	// Draw renders the spec and returns a handle owning the result.
	Draw(spec models.MChartSpec) (IChartHandle, error)
}

// -----------------------------------------------------------------------------
// IChartHandle is one drawn chart. Dispose must be called before it is replaced.
// -----------------------------------------------------------------------------

type IChartHandle interface {
	Name() string
	Spec() models.MChartSpec
	Image() ([]byte, error)
	Dispose()
}
