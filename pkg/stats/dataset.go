package stats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Column names of the raw dataset. The region code column is called
// iso_code in the published dataset.
const (
	ColCountry               = "country"
	ColISOCode               = "iso_code"
	ColRegionCode            = "region_code"
	ColDate                  = "date"
	ColDailyVaccinations     = "daily_vaccinations"
	ColPeopleFullyVaccinated = "people_fully_vaccinated"
)

// LoadRecords reads every row of f into records.
func LoadRecords(f *File) ([]Record, error) {
	p := &recordParser{}
	if err := ExtractDataFromFile(f, p.row); err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, fmt.Errorf("%s: %w", f.Title, p.err)
	}
	if p.cols == nil {
		return nil, fmt.Errorf("%s: empty dataset", f.Title)
	}
	return p.records, nil
}

type recordParser struct {
	cols    map[string]int
	line    int
	records []Record
	err     error
}

func (p *recordParser) row(r []string) {
	p.line++
	if p.err != nil {
		return
	}

	if p.cols == nil {
		p.cols, p.err = headerIndex(r)
		return
	}

	if blank(r) {
		return
	}

	rec, err := p.parse(r)
	if err != nil {
		p.err = fmt.Errorf("line %d: %w", p.line, err)
		return
	}
	p.records = append(p.records, rec)
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(mustTrim(h))
		if key == ColISOCode {
			key = ColRegionCode
		}
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	for _, required := range []string{ColCountry, ColDate, ColDailyVaccinations} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column '%s'", required)
		}
	}
	return cols, nil
}

func (p *recordParser) field(r []string, col string) string {
	i, ok := p.cols[col]
	if !ok || i >= len(r) {
		return ""
	}
	return mustTrim(r[i])
}

func (p *recordParser) parse(r []string) (Record, error) {
	rec := Record{
		Country:    p.field(r, ColCountry),
		RegionCode: p.field(r, ColRegionCode),
	}

	date, err := time.Parse(DateLayout, p.field(r, ColDate))
	if err != nil {
		return rec, fmt.Errorf("could not parse date: %w", err)
	}
	rec.Date = date

	if rec.DailyVaccinations, err = optionalFloat(p.field(r, ColDailyVaccinations)); err != nil {
		return rec, err
	}
	if rec.PeopleFullyVaccinated, err = optionalFloat(p.field(r, ColPeopleFullyVaccinated)); err != nil {
		return rec, err
	}
	return rec, nil
}

func optionalFloat(v string) (*float64, error) {
	if v == "" || strings.EqualFold(v, "nan") {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return nil, fmt.Errorf("could not parse '%s' into float64", v)
	}
	return &f, nil
}

func mustTrim(v string) string {
	return strings.Trim(v, " \n\t\r")
}

func blank(r []string) bool {
	for _, v := range r {
		if mustTrim(v) != "" {
			return false
		}
	}
	return true
}

// Dataset is the immutable raw record set plus memoized derivations of it.
type Dataset struct {
	records []Record
	latest  time.Time

	mu     sync.Mutex
	totals map[time.Time][]CountryTotal
	global []Record
}

func NewDataset(records []Record) *Dataset {
	d := &Dataset{
		records: records,
		totals:  make(map[time.Time][]CountryTotal),
	}
	d.latest, _ = MostRecentDate(records)
	return d
}

func (d *Dataset) Records() []Record {
	return d.records
}

// MostRecentDate is the latest date across the whole dataset.
func (d *Dataset) MostRecentDate() time.Time {
	return d.latest
}

// Totals returns the country totals over the whole dataset.
func (d *Dataset) Totals() []CountryTotal {
	return d.TotalsSince(time.Time{})
}

// TotalsSince returns the country totals over records dated on or after start.
// Results are cached per start date.
func (d *Dataset) TotalsSince(start time.Time) []CountryTotal {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.totals[start]; ok {
		return t
	}
	t := CountryTotals(FilterSince(d.records, start))
	d.totals[start] = t
	return t
}

// CountrySeries returns the records of one country ordered by date.
func (d *Dataset) CountrySeries(country string) []Record {
	var series []Record
	for _, r := range d.records {
		if r.Country == country {
			series = append(series, r)
		}
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}

// GlobalSeries returns the per-date sums over all countries, ordered by date.
// Absent values count as zero, so every global row is present.
func (d *Dataset) GlobalSeries() []Record {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.global != nil {
		return d.global
	}

	byDate := make(map[time.Time]*Record)
	for _, r := range d.records {
		g, ok := byDate[r.Date]
		if !ok {
			g = &Record{
				Country:               GlobalEntity,
				Date:                  r.Date,
				DailyVaccinations:     Float(0),
				PeopleFullyVaccinated: Float(0),
			}
			byDate[r.Date] = g
		}
		if r.DailyVaccinations != nil {
			*g.DailyVaccinations += *r.DailyVaccinations
		}
		if r.PeopleFullyVaccinated != nil {
			*g.PeopleFullyVaccinated += *r.PeopleFullyVaccinated
		}
	}

	global := make([]Record, 0, len(byDate))
	for _, g := range byDate {
		global = append(global, *g)
	}
	sort.Slice(global, func(i, j int) bool {
		return global[i].Date.Before(global[j].Date)
	})

	d.global = global
	return global
}

// MostRecentDate returns the latest date among records.
func MostRecentDate(records []Record) (time.Time, bool) {
	var latest time.Time
	for _, r := range records {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	return latest, !latest.IsZero()
}

// FilterSince keeps the records dated on or after start. A zero start keeps everything.
func FilterSince(records []Record, start time.Time) []Record {
	if start.IsZero() {
		return records
	}
	var kept []Record
	for _, r := range records {
		if !r.Date.Before(start) {
			kept = append(kept, r)
		}
	}
	return kept
}
