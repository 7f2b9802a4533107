// Package report is the query surface over a vaccination dataset: rankings,
// the entity picker, and per-session selection with its derived series and
// headline stats.
package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/anrid/vaccination-stats/pkg/stats"
)

// Options configures an Engine.
type Options struct {
	Rank stats.RankOptions
	// GlobalPopulation is the denominator used for the Global entity.
	GlobalPopulation float64
	// Excluded countries lack population data and are kept out of the picker.
	Excluded []string
	// PopulationTimeout bounds each population lookup; zero means unbounded.
	PopulationTimeout time.Duration
	Logger            *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Rank:             stats.DefaultRankOptions(),
		GlobalPopulation: 7_800_000_000,
		Excluded: []string{
			"Anguilla",
			"Guernsey",
			"Jersey",
			"Northern Cyprus",
			"Saint Helena",
		},
	}
}

// Engine answers report queries over an immutable dataset. It holds no
// selection state; that lives in a Session.
type Engine struct {
	data     *stats.Dataset
	pop      stats.PopulationResolver
	opts     Options
	log      *slog.Logger
	entities []Entity
}

func New(data *stats.Dataset, pop stats.PopulationResolver, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PopulationTimeout > 0 {
		pop = stats.TimeoutResolver{Resolver: pop, Timeout: opts.PopulationTimeout}
	}

	e := &Engine{
		data:     data,
		pop:      pop,
		opts:     opts,
		log:      opts.Logger,
		entities: knownEntities(data.Records(), opts.Excluded),
	}

	e.log.Info("engine ready",
		"records", len(data.Records()),
		"entities", len(e.entities),
		"latest", data.MostRecentDate().Format(stats.DateLayout),
	)
	return e
}

func (e *Engine) Options() Options {
	return e.opts
}

// DropdownEntities lists Global followed by every known country in
// alphabetical order.
func (e *Engine) DropdownEntities() []DropdownOption {
	options := make([]DropdownOption, 0, len(e.entities)+1)
	options = append(options, DropdownOption{Label: Global.Country, Value: Global.Value()})
	for _, ent := range e.entities {
		options = append(options, DropdownOption{Label: ent.Country, Value: ent.Value()})
	}
	return options
}

func (e *Engine) known(ent Entity) bool {
	for _, k := range e.entities {
		if k == ent {
			return true
		}
	}
	return false
}

// PercentRankings ranks countries by share of population vaccinated.
func (e *Engine) PercentRankings(ctx context.Context) ([]stats.RankedEntry, []stats.ColorTag, error) {
	return stats.RankByPercent(ctx, e.data.Totals(), e.pop, e.opts.Rank)
}

// TotalRankings ranks countries by total vaccinations.
func (e *Engine) TotalRankings(ctx context.Context) ([]stats.RankedEntry, []stats.ColorTag, error) {
	return stats.RankByTotal(ctx, e.data.Totals(), e.pop, e.opts.Rank)
}

// PastWeekRankings ranks countries by vaccinations over the dataset's last
// seven days. The window never depends on any session's selection.
func (e *Engine) PastWeekRankings(ctx context.Context) ([]stats.RankedEntry, []stats.ColorTag, error) {
	start := stats.PastWeekStart(e.data.MostRecentDate())
	return stats.RankByTotal(ctx, e.data.TotalsSince(start), e.pop, e.opts.Rank)
}
