package stats

import (
	"math"
	"time"
)

// DateLayout is the layout of the dataset's date column.
const DateLayout = "2006-01-02"

// GlobalEntity is the label of the synthetic aggregate over all countries.
const GlobalEntity = "Global"

// Record is one row of the raw vaccination dataset: a single country on a
// single day. Absent measurements are nil, which is not the same as zero.
type Record struct {
	Country               string    `json:"country"`
	RegionCode            string    `json:"region_code"`
	Date                  time.Time `json:"date"`
	DailyVaccinations     *float64  `json:"daily_vaccinations"`
	PeopleFullyVaccinated *float64  `json:"people_fully_vaccinated"`
}

// Daily returns the day's vaccinations and whether the value was present.
func (r Record) Daily() (float64, bool) {
	if r.DailyVaccinations == nil {
		return 0, false
	}
	return *r.DailyVaccinations, true
}

// DailyOrNaN returns the day's vaccinations, or NaN when absent.
func (r Record) DailyOrNaN() float64 {
	if v, ok := r.Daily(); ok {
		return v
	}
	return math.NaN()
}

// CountryTotal is the sum of daily vaccinations for one (country, region code) pair.
type CountryTotal struct {
	Country           string
	RegionCode        string
	TotalVaccinations float64
}

// RankedEntry is one bar in a ranking.
type RankedEntry struct {
	Label string
	Value float64
}

// ColorTag tells a renderer how to paint a ranked entry.
type ColorTag string

const (
	Highlight ColorTag = "highlight"
	Neutral   ColorTag = "neutral"
	Pinned    ColorTag = "pinned"
)

// Float returns a pointer to v, handy for building records.
func Float(v float64) *float64 {
	return &v
}
