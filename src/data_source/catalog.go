package datasource

import (
	"context"
	"errors"
	"sync"

	"covid-dashboard/src/analysis/core"
	"covid-dashboard/src/helpers"
	"covid-dashboard/src/interfaces"
	"covid-dashboard/src/logger"
	"covid-dashboard/src/models"
	"covid-dashboard/src/utils"
)

// CountryCatalog loads the current snapshot of the allow-listed countries, trying the
// primary source first and the fallback second, then merges the health table and derives
// the per-country indicators.
type CountryCatalog struct {
	Primary  interfaces.ISnapshotSource
	Fallback interfaces.ISnapshotSource
	Random   interfaces.IRandomSource
	Logger   *logger.Logger

	mu         sync.RWMutex
	lastSource string
}

// -----------------------------------------------------------------------------

func NewCountryCatalog(primary, fallback interfaces.ISnapshotSource, random interfaces.IRandomSource, log *logger.Logger) *CountryCatalog {
	if random == nil {
		random = helpers.SystemRandom{}
	}
	return &CountryCatalog{
		Primary:  primary,
		Fallback: fallback,
		Random:   random,
		Logger:   log.Named("CountryCatalog"),
	}
}

// -----------------------------------------------------------------------------

// Load returns a *helpers.CatalogError when neither source could serve the snapshot.
func (c *CountryCatalog) Load(ctx context.Context) ([]models.MCountryRecord, error) {
	outcome := c.fetch(ctx, c.Primary)
	if !outcome.Ok() {
		c.Logger.Warning("Primary source %s failed: %v", outcome.Source, outcome.Err)

		secondary := c.fetch(ctx, c.Fallback)
		if !secondary.Ok() {
			c.Logger.Error("Fallback source %s failed: %v", secondary.Source, secondary.Err)
			return nil, helpers.NewCatalogError("could not load country statistics", errors.Join(outcome.Err, secondary.Err))
		}
		outcome = secondary
	}

	c.mu.Lock()
	c.lastSource = outcome.Source
	c.mu.Unlock()

	records := Derive(outcome.Value, c.Random)
	c.Logger.Info("Catalog loaded from %s: %d countries", outcome.Source, len(records))
	return records, nil
}

// -----------------------------------------------------------------------------

// LastSource names the source that served the most recent successful Load.
func (c *CountryCatalog) LastSource() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSource
}

// -----------------------------------------------------------------------------

func (c *CountryCatalog) fetch(ctx context.Context, source interfaces.ISnapshotSource) helpers.Outcome[[]models.MCountrySnapshot] {
	if source == nil {
		return helpers.Failure[[]models.MCountrySnapshot]("none", helpers.NewDataSourceError("source not configured", nil))
	}
	snapshots, err := source.FetchSnapshots(ctx)
	if err != nil {
		return helpers.Failure[[]models.MCountrySnapshot](source.Name(), err)
	}
	return helpers.Success(source.Name(), snapshots)
}

// -----------------------------------------------------------------------------

// Derive merges the health table and computes the derived fields of each snapshot.
func Derive(snapshots []models.MCountrySnapshot, random interfaces.IRandomSource) []models.MCountryRecord {
	records := make([]models.MCountryRecord, 0, len(snapshots))
	for _, s := range snapshots {
		mortality := core.MortalityRate(s.Deaths, s.Cases)
		records = append(records, models.MCountryRecord{
			MCountrySnapshot: s,
			MHealthIndicator: utils.HealthFor(s.Country),
			MortalityRate:    mortality,
			GDPDrop:          core.GDPDrop(s.DeathsPerOneMillion, random.Float64()),
			AffectedSector:   utils.SectorFor(s.Continent),
			PerformanceScore: core.PerformanceScore(mortality, s.CasesPerOneMillion),
		})
	}
	return records
}
