package disease

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

// CountriesSource is the primary snapshot endpoint (/countries).
type CountriesSource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewCountriesSource(cfg *models.MConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *CountriesSource {
	return &CountriesSource{
		Config:  cfg,
		Network: netMgr,
		Logger:  log.Named("CountriesSource"),
	}
}

// -----------------------------------------------------------------------------

func (s *CountriesSource) Name() string {
	return "disease.sh"
}

// -----------------------------------------------------------------------------

// FetchSnapshots keeps only the allow-listed countries. "US" is renamed to "USA".
func (s *CountriesSource) FetchSnapshots(ctx context.Context) ([]models.MCountrySnapshot, error) {
	endpoint := fmt.Sprintf("%s/countries", s.Config.API.SnapshotBaseURL)
	body, err := s.Network.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var all []models.MCountrySnapshot
	if err := json.Unmarshal(body, &all); err != nil {
		return nil, helpers.NewDataSourceError("malformed /countries payload", err)
	}

	filtered := make([]models.MCountrySnapshot, 0, len(utils.AllowedCountries))
	for _, c := range all {
		if c.Country == "US" {
			c.Country = "USA"
		}
		if !utils.IsAllowedCountry(c.Country) {
			continue
		}
		filtered = append(filtered, c)
	}

	s.Logger.Info("Loaded %d/%d countries", len(filtered), len(all))
	return filtered, nil
}
