package stats

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"
)

// RankOptions controls how rankings are cut and colored.
type RankOptions struct {
	// PinLabel is the country always appended to a ranking with its true rank.
	PinLabel string
	TopN     int
	// Threshold is the herd immunity percentage above which percent bars are highlighted.
	Threshold float64
	// Workers bounds concurrent population lookups.
	Workers int
}

func DefaultRankOptions() RankOptions {
	return RankOptions{
		PinLabel:  "Canada",
		TopN:      10,
		Threshold: 70,
		Workers:   8,
	}
}

// PastWeekDays is the length of the trailing window ranked by RankByPastWeek.
const PastWeekDays = 7

// RankByPercent ranks countries by the integer-truncated percentage of their
// population vaccinated. Countries without a population are left out.
func RankByPercent(ctx context.Context, totals []CountryTotal, pop PopulationResolver, opts RankOptions) ([]RankedEntry, []ColorTag, error) {
	candidates, err := rankCandidates(ctx, totals, pop, opts.Workers, func(t CountryTotal, population float64) float64 {
		return math.Floor(t.TotalVaccinations / population * 100)
	})
	if err != nil {
		return nil, nil, err
	}

	entries, err := topWithPin(candidates, opts)
	if err != nil {
		return nil, nil, err
	}

	colors := make([]ColorTag, len(entries))
	for i, e := range entries {
		if e.Value > opts.Threshold {
			colors[i] = Highlight
		} else {
			colors[i] = Neutral
		}
	}
	colors[0] = Pinned
	return entries, colors, nil
}

// RankByTotal ranks countries by total vaccinations. Population is only used
// to decide which countries take part.
func RankByTotal(ctx context.Context, totals []CountryTotal, pop PopulationResolver, opts RankOptions) ([]RankedEntry, []ColorTag, error) {
	candidates, err := rankCandidates(ctx, totals, pop, opts.Workers, func(t CountryTotal, _ float64) float64 {
		return t.TotalVaccinations
	})
	if err != nil {
		return nil, nil, err
	}

	entries, err := topWithPin(candidates, opts)
	if err != nil {
		return nil, nil, err
	}
	return entries, neutralColors(len(entries)), nil
}

// RankByPastWeek ranks countries by total vaccinations over the 7 days ending
// on the dataset's most recent date.
func RankByPastWeek(ctx context.Context, records []Record, pop PopulationResolver, opts RankOptions) ([]RankedEntry, []ColorTag, error) {
	latest, _ := MostRecentDate(records)
	totals := CountryTotals(FilterSince(records, PastWeekStart(latest)))
	return RankByTotal(ctx, totals, pop, opts)
}

// PastWeekStart is the first day of the trailing week ending on latest.
func PastWeekStart(latest time.Time) time.Time {
	if latest.IsZero() {
		return latest
	}
	return latest.AddDate(0, 0, -(PastWeekDays - 1))
}

func neutralColors(n int) []ColorTag {
	colors := make([]ColorTag, n)
	for i := range colors {
		colors[i] = Neutral
	}
	if n > 0 {
		colors[0] = Pinned
	}
	return colors
}

func rankCandidates(ctx context.Context, totals []CountryTotal, pop PopulationResolver, workers int, value func(CountryTotal, float64) float64) ([]RankedEntry, error) {
	codes := make([]string, len(totals))
	for i, t := range totals {
		codes[i] = t.RegionCode
	}

	populations, err := ResolvePopulations(ctx, pop, codes, workers)
	if err != nil {
		return nil, err
	}

	var candidates []RankedEntry
	for i, t := range totals {
		if populations[i] <= 0 {
			continue
		}
		candidates = append(candidates, RankedEntry{
			Label: t.Country,
			Value: value(t, populations[i]),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Value != candidates[j].Value {
			return candidates[i].Value > candidates[j].Value
		}
		return candidates[i].Label < candidates[j].Label
	})
	return candidates, nil
}

// topWithPin takes the top entries of a descending ranking, appends the
// pinned entry relabeled with its rank, and reverses the lot so the best
// entry comes last. The pinned entry ends up first.
func topWithPin(sorted []RankedEntry, opts RankOptions) ([]RankedEntry, error) {
	pinRank := -1
	for i, e := range sorted {
		if e.Label == opts.PinLabel {
			pinRank = i
			break
		}
	}
	if pinRank < 0 {
		return nil, &PinNotFoundError{Label: opts.PinLabel}
	}

	n := opts.TopN
	if n > len(sorted) {
		n = len(sorted)
	}

	entries := make([]RankedEntry, 0, n+1)
	entries = append(entries, sorted[:n]...)
	entries = append(entries, RankedEntry{
		Label: fmt.Sprintf("%s #%d", opts.PinLabel, pinRank+1),
		Value: sorted[pinRank].Value,
	})

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
