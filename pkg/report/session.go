package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/anrid/vaccination-stats/pkg/stats"
)

// SparklineDays is the number of days in the sparkline window.
const SparklineDays = 7

// Session is one viewer's current selection. Select replaces the whole
// selection at once; a Session is safe for use by one request at a time and
// serializes concurrent callers.
type Session struct {
	engine *Engine

	mu  sync.Mutex
	cur selection
}

type selection struct {
	entity     Entity
	population float64
	series     []stats.Record
}

// HeadlineStats are the labels shown on the top stat cards.
type HeadlineStats struct {
	LatestDate string
	Vaccinated string
	Threshold  string
	Today      string
}

// NewSession starts a session with Global selected.
func (e *Engine) NewSession(ctx context.Context) (*Session, error) {
	s := &Session{engine: e}
	if err := s.Select(ctx, Global); err != nil {
		return nil, err
	}
	return s, nil
}

// Select makes ent the current entity. Global is always valid; any other
// entity must be a known country with a resolvable population.
func (s *Session) Select(ctx context.Context, ent Entity) error {
	e := s.engine

	var next selection
	if ent.IsGlobal() {
		next = selection{
			entity:     Global,
			population: e.opts.GlobalPopulation,
			series:     e.data.GlobalSeries(),
		}
	} else {
		if !e.known(ent) {
			return &stats.UnknownEntityError{Entity: ent.String()}
		}
		pop, err := e.pop.Population(ctx, ent.RegionCode)
		if err != nil {
			return fmt.Errorf("select %s: %w", ent, err)
		}
		next = selection{
			entity:     ent,
			population: pop,
			series:     e.data.CountrySeries(ent.Country),
		}
	}

	s.mu.Lock()
	s.cur = next
	s.mu.Unlock()

	e.log.Debug("selected", "entity", next.entity.String(), "population", next.population, "rows", len(next.series))
	return nil
}

func (s *Session) snapshot() selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

func (s *Session) Current() Entity {
	return s.snapshot().entity
}

func (s *Session) Population() float64 {
	return s.snapshot().population
}

// Series returns the current entity's daily rows ordered by date.
func (s *Session) Series() []stats.Record {
	return s.snapshot().series
}

// CumulativePercentSeries returns the current entity's running percentage
// vaccinated and the matching dates.
func (s *Session) CumulativePercentSeries() ([]float64, []time.Time) {
	cur := s.snapshot()
	return stats.CumulativePercentSeries(cur.series, cur.population)
}

// SparklineWindow returns the current entity's last seven daily values. For
// Global, whose latest day is usually still incomplete, the window ends a
// day earlier.
func (s *Session) SparklineWindow() []float64 {
	cur := s.snapshot()
	return stats.TrailingWindow(cur.series, SparklineDays, cur.entity.RegionCode == "")
}

// HeadlineStats summarizes the current entity. The vaccinated share is
// rounded to one decimal, unlike the truncated percentages of the rankings.
func (s *Session) HeadlineStats() (HeadlineStats, error) {
	cur := s.snapshot()
	e := s.engine

	if len(cur.series) == 0 {
		return HeadlineStats{}, &stats.NoDataError{Entity: cur.entity.String(), Reason: "empty series"}
	}
	today, ok := cur.series[len(cur.series)-1].Daily()
	if !ok {
		return HeadlineStats{}, &stats.NoDataError{Entity: cur.entity.String(), Reason: "latest daily vaccinations missing"}
	}

	var total float64
	for _, r := range cur.series {
		if v, ok := r.Daily(); ok {
			total += v
		}
	}
	share := decimal.NewFromFloat(total / cur.population * 100)

	p := message.NewPrinter(language.English)

	return HeadlineStats{
		LatestDate: e.data.MostRecentDate().Format("Jan 2"),
		Vaccinated: share.StringFixed(1) + "%",
		Threshold:  fmt.Sprintf("%g%%", e.opts.Rank.Threshold),
		Today:      p.Sprintf("%d", int64(today)),
	}, nil
}
