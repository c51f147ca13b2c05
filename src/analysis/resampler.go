package analysis

import (
	"fmt"
	"sort"
	"time"

	"covid-dashboard/src/models"
	"covid-dashboard/src/utils"
)

// MonthlyResampler buckets cumulative daily series into calendar months of a fixed window.
type MonthlyResampler struct {
	Start  time.Time
	Months int
}

// -----------------------------------------------------------------------------

func NewMonthlyResampler() *MonthlyResampler {
	return &MonthlyResampler{
		Start:  utils.WindowStart,
		Months: utils.WindowMonths,
	}
}

// -----------------------------------------------------------------------------

// AnalysisWindow returns the empty buckets of the window, ascending. Month boundaries come
// from calendar arithmetic, so February and 31-day months get their real last day.
func (r *MonthlyResampler) AnalysisWindow() []models.MMonthBucket {
	buckets := make([]models.MMonthBucket, r.Months)
	for i := 0; i < r.Months; i++ {
		start := r.Start.AddDate(0, i, 0)
		end := start.AddDate(0, 1, -1)
		buckets[i] = models.MMonthBucket{
			Label:     MonthLabel(start),
			StartDate: start,
			EndDate:   end,
		}
	}
	return buckets
}

// -----------------------------------------------------------------------------

// Aggregate converts cumulative case/death series into within-month increases.
// Each month compares the first and last observed point inside it, so a month with a
// single observation yields 0, and decreases (source corrections) are clamped to 0.
func (r *MonthlyResampler) Aggregate(cases, deaths []models.MTimeSeriesPoint) models.MMonthlySeries {
	sortedCases := sortedCopy(cases)
	sortedDeaths := sortedCopy(deaths)

	buckets := r.AnalysisWindow()
	for i := range buckets {
		buckets[i].NewCases = MonthlyDifference(sortedCases, buckets[i].StartDate, buckets[i].EndDate)
		buckets[i].NewDeaths = MonthlyDifference(sortedDeaths, buckets[i].StartDate, buckets[i].EndDate)
	}

	return models.MMonthlySeries{Buckets: buckets}
}

// -----------------------------------------------------------------------------

// MonthlyDifference returns max(0, last-first) over the points dated within
// [start, end] (whole days). points must be sorted by date.
func MonthlyDifference(points []models.MTimeSeriesPoint, start, end time.Time) int64 {
	endExclusive := end.AddDate(0, 0, 1)

	// Find start index (left side search)
	lo := sort.Search(len(points), func(j int) bool {
		return !points[j].Date.Before(start)
	})

	// Find end index (left side search on the following day)
	hi := sort.Search(len(points), func(j int) bool {
		return !points[j].Date.Before(endExclusive)
	})

	if lo >= hi {
		return 0
	}

	diff := points[hi-1].CumulativeValue - points[lo].CumulativeValue
	if diff < 0 {
		return 0
	}
	return diff
}

// -----------------------------------------------------------------------------

// MonthLabel formats the "MM/YYYY" identifier of a month.
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%02d/%d", int(t.Month()), t.Year())
}

// -----------------------------------------------------------------------------

func sortedCopy(points []models.MTimeSeriesPoint) []models.MTimeSeriesPoint {
	sorted := make([]models.MTimeSeriesPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
