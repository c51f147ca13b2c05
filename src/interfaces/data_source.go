package interfaces

import (
	"context"

	"covid-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// IHistoricalSource produces the monthly series of one country (or "global").
// -----------------------------------------------------------------------------

type IHistoricalSource interface {

	// FetchHistorical never fails: when the remote API cannot serve the request a
	// synthetic series is returned instead (flagged with Synthetic).
	FetchHistorical(ctx context.Context, countryCode string) models.MMonthlySeries
}

// -----------------------------------------------------------------------------
// ISnapshotSource fetches the current statistics of the allow-listed countries.
// -----------------------------------------------------------------------------

type ISnapshotSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchSnapshots returns the filtered, name-normalised snapshots.
	FetchSnapshots(ctx context.Context) ([]models.MCountrySnapshot, error)
}

// -----------------------------------------------------------------------------
// IRandomSource isolates the randomised derived fields so tests can pin them.
// -----------------------------------------------------------------------------

type IRandomSource interface {

	// Float64 returns a value in [0, 1).
	Float64() float64
}

// -----------------------------------------------------------------------------
// ICountryCatalog loads the merged, derived country records.
// -----------------------------------------------------------------------------

type ICountryCatalog interface {
	Load(ctx context.Context) ([]models.MCountryRecord, error)

	// LastSource names the snapshot source that served the last successful Load.
	LastSource() string
}
