package stats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// PopulationResolver maps a region code to a population figure.
type PopulationResolver interface {
	Population(ctx context.Context, code string) (float64, error)
}

// StaticPopulation is an in-memory population table keyed by region code.
type StaticPopulation map[string]float64

func (p StaticPopulation) Population(_ context.Context, code string) (float64, error) {
	pop, ok := p[strings.ToUpper(code)]
	if !ok || pop <= 0 {
		return 0, &UnresolvedPopulationError{Code: code}
	}
	return pop, nil
}

// LoadPopulation reads a population table with a region code column
// (iso_code or region_code) and a population column.
func LoadPopulation(f *File) (StaticPopulation, error) {
	table := make(StaticPopulation)

	var codeCol, popCol = -1, -1
	var header bool
	var rowErr error

	err := ExtractDataFromFile(f, func(row []string) {
		if rowErr != nil {
			return
		}
		if !header {
			for i, h := range row {
				switch strings.ToLower(mustTrim(h)) {
				case ColISOCode, ColRegionCode:
					codeCol = i
				case "population":
					popCol = i
				}
			}
			if codeCol < 0 || popCol < 0 {
				rowErr = errors.New("population table needs region code and population columns")
			}
			header = true
			return
		}

		if codeCol >= len(row) || popCol >= len(row) {
			return
		}
		code := strings.ToUpper(mustTrim(row[codeCol]))
		if code == "" {
			return
		}
		pop, err := optionalFloat(mustTrim(row[popCol]))
		if err != nil {
			rowErr = fmt.Errorf("population for '%s': %w", code, err)
			return
		}
		if pop != nil {
			table[code] = *pop
		}
	})
	if err != nil {
		return nil, err
	}
	if rowErr != nil {
		return nil, fmt.Errorf("%s: %w", f.Title, rowErr)
	}
	return table, nil
}

// TimeoutResolver bounds every lookup of the wrapped resolver. A lookup that
// runs out of time counts as unresolved instead of failing the caller.
type TimeoutResolver struct {
	Resolver PopulationResolver
	Timeout  time.Duration
}

func (t TimeoutResolver) Population(ctx context.Context, code string) (float64, error) {
	if t.Timeout <= 0 {
		return t.Resolver.Population(ctx, code)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	pop, err := t.Resolver.Population(lookupCtx, code)
	if err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return 0, &UnresolvedPopulationError{Code: code}
	}
	return pop, err
}

// ResolvePopulations looks up every code concurrently, at most workers at a
// time. The result holds a positive population for resolved codes and zero
// for codes that are empty or unresolved. Only cancellation of ctx or an
// unexpected resolver error is returned.
func ResolvePopulations(ctx context.Context, pop PopulationResolver, codes []string, workers int) ([]float64, error) {
	out := make([]float64, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, code := range codes {
		if code == "" {
			continue
		}
		i, code := i, code
		g.Go(func() error {
			p, err := pop.Population(gctx, code)
			if errors.Is(err, ErrUnresolvedPopulation) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("population for '%s': %w", code, err)
			}
			out[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
