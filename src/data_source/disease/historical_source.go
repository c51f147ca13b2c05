package disease

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"covid-dashboard/src/analysis"
	"covid-dashboard/src/data_source/synthetic"
	"covid-dashboard/src/helpers"
	"covid-dashboard/src/interfaces"
	"covid-dashboard/src/logger"
	"covid-dashboard/src/models"
	"covid-dashboard/src/utils"
)

// dateLayout is the "M/D/YY" key format of the historical endpoint.
const dateLayout = "1/2/06"

type HistoricalSource struct {
	Config    *models.MConfig
	Network   interfaces.INetworkManager
	Resampler *analysis.MonthlyResampler
	Fallback  *synthetic.Generator
	Logger    *logger.Logger
}

// -----------------------------------------------------------------------------

func NewHistoricalSource(cfg *models.MConfig, netMgr interfaces.INetworkManager, fallback *synthetic.Generator, log *logger.Logger) *HistoricalSource {
	return &HistoricalSource{
		Config:    cfg,
		Network:   netMgr,
		Resampler: analysis.NewMonthlyResampler(),
		Fallback:  fallback,
		Logger:    log.Named("HistoricalSource"),
	}
}

// -----------------------------------------------------------------------------

// FetchHistorical returns the monthly series of a country. Any fetch or parse failure is
// logged and answered with the synthetic series for the same code.
func (s *HistoricalSource) FetchHistorical(ctx context.Context, countryCode string) models.MMonthlySeries {
	timeline, err := s.FetchTimeline(ctx, countryCode)
	if err != nil {
		s.Logger.Warning("Historical data unavailable for %s, using synthetic series: %v", countryCode, err)
		return s.Fallback.Generate(countryCode)
	}

	series := s.Resampler.Aggregate(timeline.Cases, timeline.Deaths)
	series.CountryCode = countryCode
	s.Logger.Debug("Aggregated %d points for %s", len(timeline.Cases), countryCode)
	return series
}

// -----------------------------------------------------------------------------

type timelinePayload struct {
	Cases  map[string]int64 `json:"cases"`
	Deaths map[string]int64 `json:"deaths"`
}

type countryHistoryPayload struct {
	Country  string           `json:"country"`
	Timeline *timelinePayload `json:"timeline"`
}

// FetchTimeline fetches and parses the raw cumulative series.
func (s *HistoricalSource) FetchTimeline(ctx context.Context, countryCode string) (models.MHistoricalTimeline, error) {
	lookback := s.Config.API.LookbackDays
	if lookback <= 0 {
		lookback = utils.HistoryLookback
	}
	params := map[string]string{"lastdays": strconv.Itoa(lookback)}

	path := "all"
	if countryCode != utils.GlobalCode {
		path = url.PathEscape(countryCode)
	}
	endpoint := fmt.Sprintf("%s/historical/%s", s.Config.API.HistoricalBaseURL, path)

	body, err := s.Network.Get(ctx, endpoint, params)
	if err != nil {
		return models.MHistoricalTimeline{}, err
	}

	return ParseTimeline(countryCode, body)
}

// -----------------------------------------------------------------------------

// ParseTimeline decodes both payload shapes: the global one carries the maps at the top
// level, a country one nests them under "timeline".
func ParseTimeline(countryCode string, body []byte) (models.MHistoricalTimeline, error) {
	var payload timelinePayload
	if countryCode == utils.GlobalCode {
		if err := json.Unmarshal(body, &payload); err != nil {
			return models.MHistoricalTimeline{}, helpers.NewDataSourceError("malformed historical payload", err)
		}
	} else {
		var wrapped countryHistoryPayload
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return models.MHistoricalTimeline{}, helpers.NewDataSourceError("malformed historical payload", err)
		}
		if wrapped.Timeline == nil {
			return models.MHistoricalTimeline{}, helpers.NewDataSourceError("historical payload has no timeline", nil)
		}
		payload = *wrapped.Timeline
	}

	if payload.Cases == nil || payload.Deaths == nil {
		return models.MHistoricalTimeline{}, helpers.NewDataSourceError("historical payload misses cases or deaths", nil)
	}

	cases, err := parsePoints(payload.Cases)
	if err != nil {
		return models.MHistoricalTimeline{}, err
	}
	deaths, err := parsePoints(payload.Deaths)
	if err != nil {
		return models.MHistoricalTimeline{}, err
	}

	return models.MHistoricalTimeline{
		CountryCode: countryCode,
		Cases:       cases,
		Deaths:      deaths,
	}, nil
}

// -----------------------------------------------------------------------------

func parsePoints(raw map[string]int64) ([]models.MTimeSeriesPoint, error) {
	points := make([]models.MTimeSeriesPoint, 0, len(raw))
	for key, value := range raw {
		date, err := time.ParseInLocation(dateLayout, key, time.UTC)
		if err != nil {
			return nil, helpers.NewDataSourceError(fmt.Sprintf("invalid date key %q", key), err)
		}
		points = append(points, models.MTimeSeriesPoint{Date: date, CumulativeValue: value})
	}

	// Sort by date
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points, nil
}
