package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCumulativePercentSeries(t *testing.T) {
	series := []Record{
		rec("Testland", "TST", "2021-01-01", Float(10)),
		rec("Testland", "TST", "2021-01-02", nil),
		rec("Testland", "TST", "2021-01-03", Float(5)),
	}

	percents, dates := CumulativePercentSeries(series, 100)
	require.Len(t, percents, 3)
	require.Len(t, dates, 3)

	assert.Equal(t, 10.0, percents[0])
	assert.True(t, math.IsNaN(percents[1]), "absent day shows as a gap")
	assert.Equal(t, 15.0, percents[2])
	assert.Equal(t, day("2021-01-03"), dates[2])
}

func TestCumulativePercentSeriesAbsentFirst(t *testing.T) {
	series := []Record{
		rec("Testland", "TST", "2021-01-01", nil),
		rec("Testland", "TST", "2021-01-02", Float(20)),
		rec("Testland", "TST", "2021-01-03", Float(0)),
		rec("Testland", "TST", "2021-01-04", Float(30)),
	}

	percents, _ := CumulativePercentSeries(series, 200)
	assert.True(t, math.IsNaN(percents[0]))
	assert.Equal(t, []float64{10, 10, 25}, percents[1:])
}

func TestCumulativePercentSeriesEmpty(t *testing.T) {
	percents, dates := CumulativePercentSeries(nil, 100)
	assert.Empty(t, percents)
	assert.Empty(t, dates)
}

func tenDays() []Record {
	var series []Record
	for i := 0; i < 10; i++ {
		series = append(series, Record{
			Country:           GlobalEntity,
			Date:              day("2021-05-01").AddDate(0, 0, i),
			DailyVaccinations: Float(float64(i)),
		})
	}
	return series
}

func TestTrailingWindow(t *testing.T) {
	series := tenDays()

	t.Run("exclude most recent", func(t *testing.T) {
		assert.Equal(t, []float64{2, 3, 4, 5, 6, 7, 8}, TrailingWindow(series, 7, true))
	})

	t.Run("include most recent", func(t *testing.T) {
		assert.Equal(t, []float64{3, 4, 5, 6, 7, 8, 9}, TrailingWindow(series, 7, false))
	})

	t.Run("short series", func(t *testing.T) {
		assert.Equal(t, []float64{0, 1}, TrailingWindow(series[:3], 7, true))
		assert.Empty(t, TrailingWindow(nil, 7, true))
	})

	t.Run("absent values are NaN", func(t *testing.T) {
		series := []Record{rec("Canada", "CAN", "2021-01-01", nil)}
		window := TrailingWindow(series, 7, false)
		require.Len(t, window, 1)
		assert.True(t, math.IsNaN(window[0]))
	})
}
