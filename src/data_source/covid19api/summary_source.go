package covid19api

import (
	"context"
	"encoding/json"
	"fmt"

	"covid-dashboard/src/helpers"
	"covid-dashboard/src/interfaces"
	"covid-dashboard/src/logger"
	"covid-dashboard/src/models"
	"covid-dashboard/src/utils"
)

const usLongName = "United States of America"

// SummaryResponse is the subset of /summary the dashboard reads.
type SummaryResponse struct {
	Countries []struct {
		Country        string `json:"Country"`
		CountryCode    string `json:"CountryCode"`
		TotalConfirmed int64  `json:"TotalConfirmed"`
		TotalDeaths    int64  `json:"TotalDeaths"`
		TotalRecovered int64  `json:"TotalRecovered"`
	} `json:"Countries"`
}

// SummarySource is the fallback snapshot endpoint.
type SummarySource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSummarySource(cfg *models.MConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *SummarySource {
	return &SummarySource{
		Config:  cfg,
		Network: netMgr,
		Logger:  log.Named("SummarySource"),
	}
}

// -----------------------------------------------------------------------------

func (s *SummarySource) Name() string {
	return "covid19api"
}

// -----------------------------------------------------------------------------

// FetchSnapshots maps the summary rows onto snapshots. Population and continent are not
// part of the payload and come from the static tables; per-million figures are derived
// from that population.
func (s *SummarySource) FetchSnapshots(ctx context.Context) ([]models.MCountrySnapshot, error) {
	endpoint := fmt.Sprintf("%s/summary", s.Config.API.FallbackBaseURL)
	body, err := s.Network.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var summary SummaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, helpers.NewDataSourceError("malformed /summary payload", err)
	}
	if summary.Countries == nil {
		return nil, helpers.NewDataSourceError("/summary payload has no Countries", nil)
	}

	snapshots := make([]models.MCountrySnapshot, 0, len(utils.AllowedCountries))
	for _, row := range summary.Countries {
		name := row.Country
		if name == usLongName {
			name = "USA"
		}
		if !utils.IsAllowedCountry(name) {
			continue
		}

		population := utils.PopulationFor(row.CountryCode)
		snapshots = append(snapshots, models.MCountrySnapshot{
			Country:             name,
			CountryInfo:         models.MCountryInfo{ISO2: row.CountryCode},
			Cases:               row.TotalConfirmed,
			Deaths:              row.TotalDeaths,
			Recovered:           row.TotalRecovered,
			Active:              row.TotalConfirmed - row.TotalDeaths - row.TotalRecovered,
			CasesPerOneMillion:  perMillion(row.TotalConfirmed, population),
			DeathsPerOneMillion: perMillion(row.TotalDeaths, population),
			Population:          population,
			Continent:           utils.ContinentFor(row.CountryCode),
		})
	}

	s.Logger.Info("Loaded %d countries from fallback", len(snapshots))
	return snapshots, nil
}

// -----------------------------------------------------------------------------

func perMillion(count, population int64) float64 {
	if population <= 0 {
		return 0
	}
	return float64(count) / float64(population) * 1_000_000
}
