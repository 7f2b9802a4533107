package stats

import (
	"math"
	"time"
)

// CumulativePercentSeries returns the running percentage of population
// vaccinated for a date-ordered series, along with the dates. The running
// sum treats absent days as zero, but an absent day's own entry is NaN so
// that charts show a gap there rather than a flat line.
func CumulativePercentSeries(series []Record, population float64) ([]float64, []time.Time) {
	percents := make([]float64, len(series))
	dates := make([]time.Time, len(series))

	var sum float64
	for i, r := range series {
		dates[i] = r.Date

		v, ok := r.Daily()
		if !ok || population <= 0 {
			percents[i] = math.NaN()
			continue
		}
		sum += v
		percents[i] = sum / population * 100
	}
	return percents, dates
}

// TrailingWindow returns the daily vaccinations of the last size rows, NaN
// where absent. With excludeMostRecent the final row is dropped first.
func TrailingWindow(series []Record, size int, excludeMostRecent bool) []float64 {
	end := len(series)
	if excludeMostRecent && end > 0 {
		end--
	}
	start := end - size
	if start < 0 {
		start = 0
	}

	window := make([]float64, 0, end-start)
	for _, r := range series[start:end] {
		window = append(window, r.DailyOrNaN())
	}
	return window
}
